package llm

import (
	"context"
	"time"

	"github.com/Veraticus/moodmap/internal/metrics"
	"github.com/Veraticus/moodmap/internal/model"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultRetryDelay  = 5 * time.Second
)

// RetryPolicy is a fixed-delay, bounded retry budget.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

func newRetryPolicy(maxAttempts int, delay time.Duration) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if delay < 0 {
		delay = 0
	}
	return RetryPolicy{MaxAttempts: maxAttempts, Delay: delay}
}

// Classify returns a taxonomy-valid result for message together with how it was
// obtained. It never fails: once the retry budget is spent the fallback result
// is returned with StatusExhausted.
func (c *Classifier) Classify(ctx context.Context, rec model.Record) model.Classification {
	out := model.Classification{RecordID: rec.ID, Row: rec.Row}

	if c.cache != nil {
		if result, ok := c.cache.get(rec.Message); ok {
			metrics.Inc(metrics.CacheHits)
			c.logger.Debug("cache hit for message", "id", rec.ID)
			out.Result = result
			out.Status = model.StatusCached
			return out
		}
	}

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		cand, err := c.attempt(ctx, rec.ID, rec.Message)
		if err == nil {
			out.Result = c.repair(rec.ID, cand)
			out.Status = model.StatusClassified
			if c.cache != nil {
				c.cache.set(rec.Message, out.Result)
			}
			return out
		}

		metrics.Inc(metrics.LLMFailures)
		c.logger.Warn("classification attempt failed",
			"id", rec.ID,
			"attempt", attempt,
			"max_attempts", c.retry.MaxAttempts,
			"error", err)

		if attempt == c.retry.MaxAttempts || !sleep(ctx, c.retry.Delay) {
			break
		}
	}

	metrics.Inc(metrics.Fallbacks)
	out.Result = c.taxonomy.Fallback()
	out.Status = model.StatusExhausted
	return out
}

// repair forces a parsed candidate into the output contract.
func (c *Classifier) repair(id string, cand candidate) model.ClassificationResult {
	result := model.ClassificationResult{
		Sentiment:   c.taxonomy.GuardSentiment(cand.Sentiment),
		EmotionType: c.taxonomy.Guard(cand.EmotionType),
		Intensity:   coerceIntensity(cand.Intensity),
	}

	if result.EmotionType != cand.EmotionType || result.Sentiment != cand.Sentiment {
		metrics.Inc(metrics.LabelsRepaired)
		c.logger.Debug("repaired out-of-taxonomy label",
			"id", id,
			"sentiment", cand.Sentiment,
			"emotion_type", cand.EmotionType)
	}

	return result
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
