package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/moodmap/internal/model"
)

func TestResultCache(t *testing.T) {
	t.Run("basic operations", func(t *testing.T) {
		cache := newResultCache(5 * time.Minute)
		defer cache.Close()

		_, found := cache.get("non-existent")
		assert.False(t, found)

		result := model.ClassificationResult{Sentiment: "positive", Intensity: 8, EmotionType: "pleasant"}
		cache.set("key1", result)

		retrieved, found := cache.get("key1")
		assert.True(t, found)
		assert.Equal(t, result, retrieved)
		assert.Equal(t, 1, cache.size())
	})

	t.Run("fallbacks are never stored", func(t *testing.T) {
		cache := newResultCache(5 * time.Minute)
		defer cache.Close()

		cache.set("key", model.ClassificationResult{Sentiment: "neutral", EmotionType: "no-emotion", Fallback: true})
		_, found := cache.get("key")
		assert.False(t, found)
		assert.Equal(t, 0, cache.size())
	})

	t.Run("expiration", func(t *testing.T) {
		cache := newResultCache(50 * time.Millisecond)
		defer cache.Close()

		cache.set("key2", model.ClassificationResult{Sentiment: "negative", Intensity: 3, EmotionType: "sad"})
		_, found := cache.get("key2")
		assert.True(t, found)

		time.Sleep(100 * time.Millisecond)

		_, found = cache.get("key2")
		assert.False(t, found)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		cache := newResultCache(time.Minute)
		cache.Close()
		cache.Close()
	})
}
