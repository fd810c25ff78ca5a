// Package cluster implements the aggregation and clustering stage: classified
// rows are summarized per entity, encoded into a standardized feature matrix,
// and partitioned with k-means at the cluster count that maximizes the
// silhouette coefficient.
package cluster
