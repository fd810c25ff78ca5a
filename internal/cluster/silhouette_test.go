package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSilhouette(t *testing.T) {
	points := [][]float64{{0}, {1}, {10}}
	d := pairwise(points)

	tests := []struct {
		name   string
		labels []int
		k      int
		want   float64
		valid  bool
	}{
		{
			name:   "singleton scores zero",
			labels: []int{0, 0, 1},
			k:      2,
			// point 0: a=1 b=10; point 1: a=1 b=9; point 2 is alone
			want:  (0.9 + 8.0/9.0) / 3,
			valid: true,
		},
		{
			name:   "poor split",
			labels: []int{0, 1, 1},
			k:      2,
			// point 1: a=9 b=1; point 2: a=9 b=10
			want:  ((1.0-9.0)/9.0 + (10.0-9.0)/10.0) / 3,
			valid: true,
		},
		{name: "single label", labels: []int{0, 0, 0}, k: 1},
		{name: "one label used of two", labels: []int{1, 1, 1}, k: 2},
		{name: "every point alone", labels: []int{0, 1, 2}, k: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := silhouette(d, tt.labels, tt.k)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestSilhouetteCoincidentPoints(t *testing.T) {
	points := [][]float64{{3}, {3}, {3}, {3}}
	score, ok := silhouette(pairwise(points), []int{0, 0, 1, 1}, 2)
	assert.True(t, ok)
	assert.InDelta(t, 0, score, 1e-12)
}
