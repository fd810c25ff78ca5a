package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/moodmap/internal/model"
)

// MockClassifier is a test implementation of the Classifier interface.
// It returns deterministic results based on keywords in the message.
type MockClassifier struct {
	exhausted map[string]bool
	calls     []model.Record
	delay     time.Duration
	mu        sync.Mutex
}

// NewMockClassifier creates a new mock classifier.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{exhausted: make(map[string]bool)}
}

// WithDelay makes every call take d, to exercise concurrent scheduling.
func (m *MockClassifier) WithDelay(d time.Duration) *MockClassifier {
	m.delay = d
	return m
}

// FailFor makes the message behave as if every attempt had failed.
func (m *MockClassifier) FailFor(message string) *MockClassifier {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exhausted[message] = true
	return m
}

// Classify provides deterministic results based on the message text.
func (m *MockClassifier) Classify(ctx context.Context, rec model.Record) model.Classification {
	m.mu.Lock()
	m.calls = append(m.calls, rec)
	fail := m.exhausted[rec.Message]
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-ctx.Done():
		case <-time.After(m.delay):
		}
	}

	out := model.Classification{RecordID: rec.ID, Row: rec.Row, Status: model.StatusClassified}
	lower := strings.ToLower(rec.Message)

	switch {
	case fail:
		out.Status = model.StatusExhausted
		out.Result = model.ClassificationResult{Sentiment: "neutral", EmotionType: "no-emotion", Fallback: true}
	case strings.Contains(lower, "复古") || strings.Contains(lower, "lovely"):
		out.Result = model.ClassificationResult{Sentiment: "positive", Intensity: 8, EmotionType: "pleasant"}
	case strings.Contains(lower, "排队") || strings.Contains(lower, "queue"):
		out.Result = model.ClassificationResult{Sentiment: "negative", Intensity: 7, EmotionType: "irritated"}
	default:
		out.Result = model.ClassificationResult{Sentiment: "neutral", Intensity: 0, EmotionType: "no-emotion"}
	}

	return out
}

// Calls returns a copy of every record passed to Classify.
func (m *MockClassifier) Calls() []model.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Record, len(m.calls))
	copy(out, m.calls)
	return out
}
