package cluster

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// project returns each row of data on the top two principal components.
// Components that do not exist for low-rank or tiny inputs are zero.
func project(data *mat.Dense) [][2]float64 {
	if data == nil {
		return nil
	}
	n, dims := data.Dims()
	out := make([][2]float64, n)
	if n < 2 {
		return out
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return out
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	_, m := vecs.Dims()
	m = min(m, 2)
	if m == 0 {
		return out
	}

	centered := mat.DenseCopyOf(data)
	col := make([]float64, n)
	for j := 0; j < dims; j++ {
		mat.Col(col, j, centered)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			centered.Set(i, j, col[i]-mean)
		}
	}

	var proj mat.Dense
	proj.Mul(centered, vecs.Slice(0, dims, 0, m))
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			out[i][j] = proj.At(i, j)
		}
	}
	return out
}
