package cluster

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// kmeansParams controls a single k-means fit.
type kmeansParams struct {
	restarts int
	maxIter  int
	tol      float64
	seed     uint64
}

// fit is one k-means solution.
type fit struct {
	labels    []int
	centroids [][]float64
	inertia   float64
}

// kmeans runs Lloyd's algorithm from params.restarts k-means++ seedings and
// keeps the solution with the lowest inertia. Every call builds its own
// generator from the seed, so equal inputs always give equal output.
func kmeans(points [][]float64, k int, params kmeansParams) fit {
	rng := rand.New(rand.NewPCG(params.seed, uint64(k)))
	tol := params.tol * meanVariance(points)

	best := fit{inertia: math.Inf(1)}
	for r := 0; r < max(params.restarts, 1); r++ {
		centroids := seedPlusPlus(points, k, rng)
		f := lloyd(points, centroids, params.maxIter, tol)
		if f.inertia < best.inertia {
			best = f
		}
	}
	return best
}

// meanVariance is the mean per-dimension variance; tolerance is relative to it.
func meanVariance(points [][]float64) float64 {
	if len(points) == 0 {
		return 0
	}
	dims := len(points[0])
	col := make([]float64, len(points))
	var total float64
	for j := 0; j < dims; j++ {
		for i, p := range points {
			col[i] = p[j]
		}
		_, std := stat.PopMeanStdDev(col, nil)
		total += std * std
	}
	return total / float64(dims)
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// seedPlusPlus picks k initial centroids with greedy k-means++: each new
// centroid is the best of several D²-weighted candidates.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(points)
	trials := 2 + int(math.Log(float64(k)))

	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.IntN(n)]))

	closest := make([]float64, n)
	for i, p := range points {
		closest[i] = sqDist(p, centroids[0])
	}

	for len(centroids) < k {
		total := floats.Sum(closest)

		bestCand, bestPot := -1, math.Inf(1)
		var bestDist []float64
		for t := 0; t < trials; t++ {
			cand := sampleWeighted(closest, total, rng)
			dist := make([]float64, n)
			for i, p := range points {
				dist[i] = math.Min(closest[i], sqDist(p, points[cand]))
			}
			if pot := floats.Sum(dist); pot < bestPot {
				bestCand, bestPot, bestDist = cand, pot, dist
			}
		}

		centroids = append(centroids, clone(points[bestCand]))
		closest = bestDist
	}

	return centroids
}

// sampleWeighted draws an index with probability proportional to weights.
// All-zero weights fall back to a uniform draw.
func sampleWeighted(weights []float64, total float64, rng *rand.Rand) int {
	if total <= 0 {
		return rng.IntN(len(weights))
	}
	target := rng.Float64() * total
	var acc float64
	for i, w := range weights {
		acc += w
		if acc > target {
			return i
		}
	}
	return len(weights) - 1
}

// lloyd alternates assignment and update steps until centroids move less than
// tol (sum of squared shifts) or maxIter is reached.
func lloyd(points [][]float64, centroids [][]float64, maxIter int, tol float64) fit {
	n, k := len(points), len(centroids)
	dims := len(points[0])
	labels := make([]int, n)

	for iter := 0; iter < max(maxIter, 1); iter++ {
		assign(points, centroids, labels)

		next := make([][]float64, k)
		counts := make([]int, k)
		for c := range next {
			next[c] = make([]float64, dims)
		}
		for i, p := range points {
			floats.Add(next[labels[i]], p)
			counts[labels[i]]++
		}
		taken := make(map[int]bool)
		for c := range next {
			if counts[c] == 0 {
				relocate(points, centroids, labels, next[c], taken)
				continue
			}
			floats.Scale(1/float64(counts[c]), next[c])
		}

		var shift float64
		for c := range next {
			shift += sqDist(next[c], centroids[c])
		}
		centroids = next
		if shift <= tol {
			break
		}
	}

	inertia := assign(points, centroids, labels)
	return fit{labels: labels, centroids: centroids, inertia: inertia}
}

// assign labels every point with its nearest centroid and returns the inertia.
func assign(points [][]float64, centroids [][]float64, labels []int) float64 {
	var inertia float64
	for i, p := range points {
		best, bestD := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := sqDist(p, centroid); d < bestD {
				best, bestD = c, d
			}
		}
		labels[i] = best
		inertia += bestD
	}
	return inertia
}

// relocate moves an empty cluster onto the point farthest from its centroid,
// skipping points already used for another empty cluster.
func relocate(points, centroids [][]float64, labels []int, dst []float64, taken map[int]bool) {
	far, farD := 0, -1.0
	for i, p := range points {
		if taken[i] {
			continue
		}
		if d := sqDist(p, centroids[labels[i]]); d > farD {
			far, farD = i, d
		}
	}
	taken[far] = true
	copy(dst, points[far])
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
