package cluster

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/moodmap/internal/common"
	"github.com/Veraticus/moodmap/internal/model"
)

// Params controls the cluster-count sweep and every k-means fit.
type Params struct {
	MinK     int     `mapstructure:"min_k"`
	MaxK     int     `mapstructure:"max_k"`
	Restarts int     `mapstructure:"restarts"`
	MaxIter  int     `mapstructure:"max_iter"`
	Tol      float64 `mapstructure:"tol"`
	Seed     uint64  `mapstructure:"seed"`
}

// DefaultParams returns the sweep 2..10 with seed 42 and 10 restarts.
func DefaultParams() Params {
	return Params{
		MinK:     2,
		MaxK:     10,
		Restarts: 10,
		MaxIter:  300,
		Tol:      1e-4,
		Seed:     42,
	}
}

// Validate checks the parameters for consistency.
func (p Params) Validate() error {
	if p.MinK < 2 {
		return fmt.Errorf("%w: min_k must be at least 2, got %d", common.ErrInvalidConfig, p.MinK)
	}
	if p.MaxK < p.MinK {
		return fmt.Errorf("%w: max_k (%d) is below min_k (%d)", common.ErrInvalidConfig, p.MaxK, p.MinK)
	}
	if p.Restarts < 1 || p.MaxIter < 1 {
		return fmt.Errorf("%w: restarts and max_iter must be positive", common.ErrInvalidConfig)
	}
	if p.Tol < 0 {
		return fmt.Errorf("%w: tol must not be negative", common.ErrInvalidConfig)
	}
	return nil
}

func (p Params) kmeans() kmeansParams {
	return kmeansParams{restarts: p.Restarts, maxIter: p.MaxIter, tol: p.Tol, seed: p.Seed}
}

// SelectK fits every k in [MinK, min(MaxK, n-1)] and picks the one with the
// highest silhouette score, preferring the smallest k on ties. K is 0 when no
// candidate produced a valid score. Fits run concurrently; each uses its own
// seeded generator so the result does not depend on scheduling.
func SelectK(ctx context.Context, f *Features, p Params) (model.ClusterSelection, error) {
	points := f.Points()
	return selectK(ctx, points, pairwise(points), p)
}

func selectK(ctx context.Context, points [][]float64, d distances, p Params) (model.ClusterSelection, error) {
	hi := min(p.MaxK, len(points)-1)
	if hi < p.MinK {
		return model.ClusterSelection{}, nil
	}

	scores := make([]model.KScore, hi-p.MinK+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range scores {
		k := p.MinK + i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			labels := kmeans(points, k, p.kmeans()).labels
			s, ok := silhouette(d, labels, k)
			scores[i] = model.KScore{K: k, Silhouette: s, Valid: ok}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.ClusterSelection{}, fmt.Errorf("cluster count sweep: %w", err)
	}

	return model.ClusterSelection{Scores: scores, K: bestK(scores)}, nil
}

// bestK returns the k with the strictly highest valid score, or 0.
func bestK(scores []model.KScore) int {
	best, bestScore := 0, 0.0
	for _, s := range scores {
		if !s.Valid {
			continue
		}
		if best == 0 || s.Silhouette > bestScore {
			best, bestScore = s.K, s.Silhouette
		}
	}
	return best
}
