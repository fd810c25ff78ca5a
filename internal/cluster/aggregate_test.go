package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/moodmap/internal/common"
	"github.com/Veraticus/moodmap/internal/model"
	"github.com/Veraticus/moodmap/internal/table"
	"github.com/Veraticus/moodmap/internal/taxonomy"
)

func english(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.Preset("en")
	require.NoError(t, err)
	return tax
}

func rec(name, sentiment string, intensity float64, tag string, lon, lat float64) model.ClassifiedRecord {
	return model.ClassifiedRecord{Name: name, Sentiment: sentiment, Intensity: intensity, Tag: tag, Lon: lon, Lat: lat}
}

func TestReadRecords(t *testing.T) {
	header := []string{"mid", "name", "sentiment", "intensity", "tag2", "lon", "lat"}

	t.Run("parses numbers and keeps missing as NaN", func(t *testing.T) {
		tbl := table.New(header, [][]string{
			{"1", " Old Street ", "positive", "8", "park", "116.4", "39.9"},
			{"2", "Old Street", "negative", "", "park", "abc", " 39.8 "},
		})

		records, err := ReadRecords(tbl, DefaultColumns())
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "Old Street", records[0].Name)
		assert.InDelta(t, 8.0, records[0].Intensity, 1e-9)
		assert.InDelta(t, 116.4, records[0].Lon, 1e-9)
		assert.False(t, records[1].HasIntensity())
		assert.True(t, math.IsNaN(records[1].Lon))
		assert.InDelta(t, 39.8, records[1].Lat, 1e-9)
	})

	t.Run("missing column", func(t *testing.T) {
		tbl := table.New([]string{"name", "sentiment", "intensity", "lon", "lat"}, nil)
		_, err := ReadRecords(tbl, DefaultColumns())
		require.ErrorIs(t, err, common.ErrMissingColumn)
		assert.Contains(t, err.Error(), "tag2")
	})
}

func TestScore(t *testing.T) {
	tax := english(t)

	tests := []struct {
		name string
		r    model.ClassifiedRecord
		want float64
	}{
		{"positive", rec("a", "positive", 8, "", 0, 0), 8},
		{"negative", rec("a", "negative", 7, "", 0, 0), -7},
		{"neutral", rec("a", "neutral", 3, "", 0, 0), 0},
		{"unknown sentiment", rec("a", "mixed", 3, "", 0, 0), math.NaN()},
		{"missing intensity", rec("a", "positive", math.NaN(), "", 0, 0), math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tax, tt.r)
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAggregate(t *testing.T) {
	tax := english(t)

	records := []model.ClassifiedRecord{
		rec("museum", "positive", 8, "culture", 116.0, 40.0),
		rec("bookshop", "negative", 6, "shop", 121.0, 31.0),
		rec("museum", "negative", 2, "park", 116.2, math.NaN()),
		rec("", "positive", 10, "park", 0, 0),
		rec("museum", "mixed", 5, "park", 116.4, 40.2),
		rec("museum", "positive", 4, "culture", math.NaN(), 40.4),
		rec("bookshop", "neutral", 0, "", 121.2, 31.2),
	}

	got := Aggregate(records, tax)
	require.Len(t, got, 2, "rows without a name are ignored")

	assert.Equal(t, "bookshop", got[0].Name, "sorted by name")
	assert.Equal(t, 2, got[0].RecordCount)
	assert.InDelta(t, -3.0, got[0].AvgSentimentScore, 1e-9)
	assert.Equal(t, "shop", got[0].DominantTag, "empty tags are not counted")
	assert.InDelta(t, 121.1, got[0].AvgLon, 1e-9)

	museum := got[1]
	assert.Equal(t, 4, museum.RecordCount, "count includes rows with missing values")
	// (8 - 2 + 4) / 3; the unknown sentiment is skipped
	assert.InDelta(t, 10.0/3.0, museum.AvgSentimentScore, 1e-9)
	assert.InDelta(t, (116.0+116.2+116.4)/3, museum.AvgLon, 1e-9)
	assert.InDelta(t, (40.0+40.2+40.4)/3, museum.AvgLat, 1e-9)
	assert.Equal(t, "culture", museum.DominantTag, "tie goes to the tag seen first")
}

func TestAggregateRecordCount(t *testing.T) {
	tax := english(t)

	var records []model.ClassifiedRecord
	want := map[string]int{"a": 3, "b": 1, "c": 5}
	for name, n := range want {
		for i := 0; i < n; i++ {
			records = append(records, rec(name, "positive", 1, "x", 1, 1))
		}
	}

	got := Aggregate(records, tax)
	require.Len(t, got, len(want))
	for _, a := range got {
		assert.Equal(t, want[a.Name], a.RecordCount, a.Name)
	}
}

func TestAggregateAllMissing(t *testing.T) {
	got := Aggregate([]model.ClassifiedRecord{rec("x", "mixed", math.NaN(), "", math.NaN(), math.NaN())}, english(t))
	require.Len(t, got, 1)
	assert.True(t, math.IsNaN(got[0].AvgSentimentScore))
	assert.True(t, math.IsNaN(got[0].AvgLon))
	assert.Empty(t, got[0].DominantTag)
	assert.Equal(t, 1, got[0].RecordCount)
}
