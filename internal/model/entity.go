package model

// EntityAggregate summarizes all classified records for one named point of interest.
type EntityAggregate struct {
	Name              string
	DominantTag       string
	AvgSentimentScore float64
	AvgLon            float64
	AvgLat            float64
	RecordCount       int
}

// ClusterAssignment is an aggregate with its cluster label and 2-D projection.
// Labels are only comparable within a single run.
type ClusterAssignment struct {
	EntityAggregate
	ClusterLabel int
	ProjX        float64
	ProjY        float64
}

// KScore is the silhouette score obtained for one candidate cluster count.
type KScore struct {
	K          int
	Silhouette float64
	Valid      bool
}

// ClusterSelection records the chosen cluster count and the full sweep.
type ClusterSelection struct {
	Scores []KScore
	K      int
}
