package cluster

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/moodmap/internal/model"
)

// TagColumnPrefix prefixes one-hot tag columns.
const TagColumnPrefix = "tag="

// Features is the standardized feature matrix for the entities that survived
// missing-value removal.
type Features struct {
	// Data has one row per surviving entity, or is nil when none survived.
	Data *mat.Dense
	// Columns names each column of Data.
	Columns []string
	// Entities maps each row of Data to its index in the aggregate slice.
	Entities []int
	// Dropped lists aggregate indices removed for missing values.
	Dropped []int
}

// Rows returns the number of usable entities.
func (f *Features) Rows() int {
	return len(f.Entities)
}

// Points returns the rows of Data as slices sharing Data's storage.
func (f *Features) Points() [][]float64 {
	points := make([][]float64, f.Rows())
	for i := range points {
		points[i] = f.Data.RawRowView(i)
	}
	return points
}

// Encode builds the feature matrix. Continuous columns come first, followed by
// one indicator column per distinct dominant tag in sorted order. Tag values
// are collected over every aggregate, including ones later dropped. Each
// column is then standardized to zero mean and unit population variance over
// the surviving rows; a constant column becomes all zeros.
func Encode(aggs []model.EntityAggregate) *Features {
	tags := distinctTags(aggs)
	columns := make([]string, 0, 3+len(tags))
	columns = append(columns, "avg_sentiment_score", "avg_lon", "avg_lat")
	tagIndex := make(map[string]int, len(tags))
	for i, tag := range tags {
		tagIndex[tag] = 3 + i
		columns = append(columns, TagColumnPrefix+tag)
	}

	f := &Features{Columns: columns}

	raw := make([]float64, 0, len(aggs)*len(columns))
	for i, a := range aggs {
		if math.IsNaN(a.AvgSentimentScore) || math.IsNaN(a.AvgLon) || math.IsNaN(a.AvgLat) {
			f.Dropped = append(f.Dropped, i)
			continue
		}
		row := make([]float64, len(columns))
		row[0], row[1], row[2] = a.AvgSentimentScore, a.AvgLon, a.AvgLat
		if j, ok := tagIndex[a.DominantTag]; ok {
			row[j] = 1
		}
		raw = append(raw, row...)
		f.Entities = append(f.Entities, i)
	}

	if len(f.Entities) == 0 {
		return f
	}

	f.Data = mat.NewDense(len(f.Entities), len(columns), raw)
	standardize(f.Data)
	return f
}

func distinctTags(aggs []model.EntityAggregate) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, a := range aggs {
		if a.DominantTag == "" {
			continue
		}
		if _, ok := seen[a.DominantTag]; ok {
			continue
		}
		seen[a.DominantTag] = struct{}{}
		tags = append(tags, a.DominantTag)
	}
	sort.Strings(tags)
	return tags
}

// standardize rescales every column of m in place.
func standardize(m *mat.Dense) {
	rows, cols := m.Dims()
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, m)
		mean, std := stat.PopMeanStdDev(col, nil)
		for i := 0; i < rows; i++ {
			if std < 1e-12 {
				m.Set(i, j, 0)
				continue
			}
			m.Set(i, j, (col[i]-mean)/std)
		}
	}
}
