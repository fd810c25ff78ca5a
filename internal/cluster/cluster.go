package cluster

import (
	"context"
	"log/slog"

	"github.com/Veraticus/moodmap/internal/model"
)

// Result is the outcome of one clustering run.
type Result struct {
	Features    *Features
	Assignments []model.ClusterAssignment
	Selection   model.ClusterSelection
}

// Run encodes aggs, selects the cluster count and assigns every usable entity
// a label and a 2-D projection. Entities dropped for missing values get no
// assignment. With no usable entities the result is empty. When there are
// too few entities for a valid sweep, every entity is placed in cluster 0.
func Run(ctx context.Context, aggs []model.EntityAggregate, p Params, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	features := Encode(aggs)
	for _, i := range features.Dropped {
		logger.Warn("Dropping entity with missing values", "name", aggs[i].Name)
	}

	res := &Result{Features: features}
	n := features.Rows()
	if n == 0 {
		logger.Warn("No usable entities to cluster", "aggregates", len(aggs))
		return res, nil
	}

	points := features.Points()
	d := pairwise(points)

	selection, err := selectK(ctx, points, d, p)
	if err != nil {
		return nil, err
	}
	res.Selection = selection

	labels := make([]int, n)
	if selection.K == 0 {
		res.Selection.K = 1
		logger.Warn("No valid cluster count, assigning a single cluster",
			"entities", n,
			"min_k", p.MinK)
	} else {
		labels = renumber(kmeans(points, selection.K, p.kmeans()).labels)
	}

	proj := project(features.Data)
	res.Assignments = make([]model.ClusterAssignment, n)
	for row, idx := range features.Entities {
		res.Assignments[row] = model.ClusterAssignment{
			EntityAggregate: aggs[idx],
			ClusterLabel:    labels[row],
			ProjX:           proj[row][0],
			ProjY:           proj[row][1],
		}
	}

	logger.Info("Clustering complete",
		"entities", n,
		"dropped", len(features.Dropped),
		"k", res.Selection.K)

	return res, nil
}

// renumber relabels clusters in order of first appearance.
func renumber(labels []int) []int {
	mapping := make(map[int]int)
	out := make([]int, len(labels))
	for i, l := range labels {
		id, ok := mapping[l]
		if !ok {
			id = len(mapping)
			mapping[l] = id
		}
		out[i] = id
	}
	return out
}
