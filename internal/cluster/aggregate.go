package cluster

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Veraticus/moodmap/internal/model"
	"github.com/Veraticus/moodmap/internal/table"
	"github.com/Veraticus/moodmap/internal/taxonomy"
)

// Columns names the classified-table columns the aggregator reads.
type Columns struct {
	Name      string `mapstructure:"name"`
	Sentiment string `mapstructure:"sentiment"`
	Intensity string `mapstructure:"intensity"`
	Tag       string `mapstructure:"tag"`
	Lon       string `mapstructure:"lon"`
	Lat       string `mapstructure:"lat"`
}

// DefaultColumns returns the column names written by the classification stage
// plus the check-in export's own columns.
func DefaultColumns() Columns {
	return Columns{
		Name:      "name",
		Sentiment: "sentiment",
		Intensity: "intensity",
		Tag:       "tag2",
		Lon:       "lon",
		Lat:       "lat",
	}
}

func (c Columns) required() []string {
	return []string{c.Name, c.Sentiment, c.Intensity, c.Tag, c.Lon, c.Lat}
}

// ReadRecords extracts the aggregation inputs from a classified table.
// Unparseable numbers become NaN.
func ReadRecords(t *table.Table, cols Columns) ([]model.ClassifiedRecord, error) {
	if err := t.RequireColumns(cols.required()...); err != nil {
		return nil, err
	}

	out := make([]model.ClassifiedRecord, t.Len())
	for i := range t.Rows {
		out[i] = model.ClassifiedRecord{
			Name:      strings.TrimSpace(t.Cell(i, cols.Name)),
			Sentiment: strings.TrimSpace(t.Cell(i, cols.Sentiment)),
			Tag:       strings.TrimSpace(t.Cell(i, cols.Tag)),
			Intensity: parseFloat(t.Cell(i, cols.Intensity)),
			Lon:       parseFloat(t.Cell(i, cols.Lon)),
			Lat:       parseFloat(t.Cell(i, cols.Lat)),
		}
	}
	return out, nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) {
		return math.NaN()
	}
	return f
}

// meanAcc is a running mean that ignores NaN.
type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.n++
}

func (m meanAcc) mean() float64 {
	if m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}

type group struct {
	tagCounts map[string]int
	name      string
	tagOrder  []string
	score     meanAcc
	lon       meanAcc
	lat       meanAcc
	count     int
}

func (g *group) addTag(tag string) {
	if tag == "" {
		return
	}
	if _, seen := g.tagCounts[tag]; !seen {
		g.tagOrder = append(g.tagOrder, tag)
	}
	g.tagCounts[tag]++
}

// mode returns the most frequent tag, preferring the one seen first on ties.
func (g *group) mode() string {
	best, bestN := "", 0
	for _, tag := range g.tagOrder {
		if n := g.tagCounts[tag]; n > bestN {
			best, bestN = tag, n
		}
	}
	return best
}

// Score is the signed sentiment score sign(sentiment) × intensity. It is NaN
// when the sentiment label is unknown or the intensity is missing.
func Score(tax *taxonomy.Taxonomy, r model.ClassifiedRecord) float64 {
	sign, ok := tax.Polarity(r.Sentiment)
	if !ok || !r.HasIntensity() {
		return math.NaN()
	}
	return float64(sign) * r.Intensity
}

// Aggregate groups records by entity name. Rows without a name are ignored.
// Means skip missing values; a mean with no values is NaN. The result is
// sorted by name.
func Aggregate(records []model.ClassifiedRecord, tax *taxonomy.Taxonomy) []model.EntityAggregate {
	groups := make(map[string]*group)
	for _, r := range records {
		if r.Name == "" {
			continue
		}
		g, ok := groups[r.Name]
		if !ok {
			g = &group{name: r.Name, tagCounts: make(map[string]int)}
			groups[r.Name] = g
		}
		g.count++
		g.score.add(Score(tax, r))
		g.lon.add(r.Lon)
		g.lat.add(r.Lat)
		g.addTag(r.Tag)
	}

	out := make([]model.EntityAggregate, 0, len(groups))
	for _, g := range groups {
		out = append(out, model.EntityAggregate{
			Name:              g.name,
			DominantTag:       g.mode(),
			AvgSentimentScore: g.score.mean(),
			AvgLon:            g.lon.mean(),
			AvgLat:            g.lat.mean(),
			RecordCount:       g.count,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
