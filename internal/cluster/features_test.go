package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/Veraticus/moodmap/internal/model"
)

func agg(name string, score float64, tag string, lon, lat float64) model.EntityAggregate {
	return model.EntityAggregate{Name: name, AvgSentimentScore: score, DominantTag: tag, AvgLon: lon, AvgLat: lat, RecordCount: 1}
}

func TestEncode(t *testing.T) {
	aggs := []model.EntityAggregate{
		agg("a", 5, "park", 116.0, 39.0),
		agg("b", -3, "museum", 117.0, 39.0),
		agg("c", math.NaN(), "zoo", 118.0, 39.0),
		agg("d", 1, "", 119.0, 39.0),
	}

	f := Encode(aggs)

	assert.Equal(t, []string{"avg_sentiment_score", "avg_lon", "avg_lat", "tag=museum", "tag=park", "tag=zoo"}, f.Columns)
	assert.Equal(t, []int{0, 1, 3}, f.Entities)
	assert.Equal(t, []int{2}, f.Dropped)

	rows, cols := f.Data.Dims()
	require.Equal(t, 3, rows)
	require.Equal(t, 6, cols)

	col := make([]float64, rows)
	for j, name := range f.Columns {
		mat.Col(col, j, f.Data)
		mean, std := stat.PopMeanStdDev(col, nil)
		assert.InDelta(t, 0, mean, 1e-9, name)
		switch name {
		case "avg_lat", "tag=zoo":
			assert.Equal(t, []float64{0, 0, 0}, col, "%s is constant over surviving rows", name)
		default:
			assert.InDelta(t, 1, std, 1e-9, name)
		}
	}

	// Entity d has no tag so all indicator columns share the same low value.
	assert.InDelta(t, f.Data.At(2, 3), f.Data.At(0, 3), 1e-9)
	assert.Less(t, f.Data.At(2, 4), f.Data.At(0, 4))
}

func TestEncodeNothingUsable(t *testing.T) {
	f := Encode([]model.EntityAggregate{agg("a", math.NaN(), "park", 1, 1)})
	assert.Nil(t, f.Data)
	assert.Equal(t, 0, f.Rows())
	assert.Equal(t, []int{0}, f.Dropped)

	f = Encode(nil)
	assert.Equal(t, 0, f.Rows())
	assert.Len(t, f.Columns, 3)
}
