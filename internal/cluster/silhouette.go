package cluster

import (
	"gonum.org/v1/gonum/floats"
)

// distances is a symmetric pairwise Euclidean distance matrix.
type distances [][]float64

func pairwise(points [][]float64) distances {
	n := len(points)
	d := make(distances, n)
	for i := range d {
		d[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := floats.Distance(points[i], points[j], 2)
			d[i][j], d[j][i] = v, v
		}
	}
	return d
}

// silhouette returns the mean silhouette coefficient of a labelling with
// labels in [0, k). Points in singleton clusters score 0. The score is only
// defined for 2 <= distinct labels <= n-1; otherwise ok is false.
func silhouette(d distances, labels []int, k int) (score float64, ok bool) {
	n := len(labels)
	sizes := make([]int, k)
	for _, l := range labels {
		sizes[l]++
	}
	distinct := 0
	for _, s := range sizes {
		if s > 0 {
			distinct++
		}
	}
	if distinct < 2 || distinct > n-1 {
		return 0, false
	}

	sums := make([]float64, k)
	var total float64
	for i := 0; i < n; i++ {
		own := labels[i]
		if sizes[own] == 1 {
			continue
		}

		for c := range sums {
			sums[c] = 0
		}
		for j := 0; j < n; j++ {
			if j != i {
				sums[labels[j]] += d[i][j]
			}
		}

		a := sums[own] / float64(sizes[own]-1)
		b := -1.0
		for c, s := range sums {
			if c == own || sizes[c] == 0 {
				continue
			}
			if m := s / float64(sizes[c]); b < 0 || m < b {
				b = m
			}
		}

		if denom := max(a, b); denom > 0 {
			total += (b - a) / denom
		}
	}

	return total / float64(n), true
}
