package cluster

import (
	"strconv"

	"github.com/Veraticus/moodmap/internal/table"
)

// Output headers.
var (
	AssignmentHeader = []string{"name", "cluster_label", "avg_sentiment_score", "dominant_tag", "avg_lon", "avg_lat", "record_count"}
	ScoreHeader      = []string{"k", "silhouette"}
	ProjectionHeader = []string{"name", "cluster_label", "pc1", "pc2"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AssignmentTable renders one row per clustered entity.
func (r *Result) AssignmentTable() *table.Table {
	rows := make([][]string, len(r.Assignments))
	for i, a := range r.Assignments {
		rows[i] = []string{
			a.Name,
			strconv.Itoa(a.ClusterLabel),
			formatFloat(a.AvgSentimentScore),
			a.DominantTag,
			formatFloat(a.AvgLon),
			formatFloat(a.AvgLat),
			strconv.Itoa(a.RecordCount),
		}
	}
	return table.New(AssignmentHeader, rows)
}

// ScoreTable renders the silhouette sweep. Invalid scores are left blank.
func (r *Result) ScoreTable() *table.Table {
	rows := make([][]string, len(r.Selection.Scores))
	for i, s := range r.Selection.Scores {
		score := ""
		if s.Valid {
			score = formatFloat(s.Silhouette)
		}
		rows[i] = []string{strconv.Itoa(s.K), score}
	}
	return table.New(ScoreHeader, rows)
}

// ProjectionTable renders the 2-D projection of every clustered entity.
func (r *Result) ProjectionTable() *table.Table {
	rows := make([][]string, len(r.Assignments))
	for i, a := range r.Assignments {
		rows[i] = []string{a.Name, strconv.Itoa(a.ClusterLabel), formatFloat(a.ProjX), formatFloat(a.ProjY)}
	}
	return table.New(ProjectionHeader, rows)
}
