// Package engine drives the classification stage over a whole table.
package engine

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/moodmap/internal/common"
	"github.com/Veraticus/moodmap/internal/taxonomy"
)

// Output column names appended to the input table.
const (
	ColumnSentiment   = "sentiment"
	ColumnIntensity   = "intensity"
	ColumnEmotionType = "emotion_type"
	ColumnIsFallback  = "is_fallback"
)

// DefaultNullMarkers are message values treated as empty.
var DefaultNullMarkers = []string{"nan", "NaN", "None", "null", "NULL"}

// Config configures a BatchClassifier.
type Config struct {
	IDColumn      string
	MessageColumn string
	NullMarkers   []string
	Workers       int
	EmptyDelay    time.Duration
	TagFallback   bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		IDColumn:      "mid",
		MessageColumn: "message",
		NullMarkers:   DefaultNullMarkers,
		Workers:       1,
		EmptyDelay:    500 * time.Millisecond,
	}
}

// Stats summarizes one batch run.
type Stats struct {
	RunID     string
	Rows      int
	Called    int // rows sent to the remote service, including exhausted ones
	Cached    int
	Skipped   int
	Fallbacks int // rows whose result is the fallback, skipped or exhausted
	Duration  time.Duration
}

// BatchClassifier classifies every row of a table, keeping output aligned with input.
type BatchClassifier struct {
	classifier Classifier
	taxonomy   *taxonomy.Taxonomy
	progress   Progress
	logger     *slog.Logger
	nulls      map[string]struct{}
	cfg        Config
}

// NewBatchClassifier creates a batch classifier. tax supplies the fallback
// result for empty rows and must be the classifier's taxonomy.
func NewBatchClassifier(classifier Classifier, tax *taxonomy.Taxonomy, cfg Config, logger *slog.Logger) (*BatchClassifier, error) {
	if classifier == nil {
		return nil, fmt.Errorf("%w: classifier", common.ErrMissingConfig)
	}
	if tax == nil {
		return nil, fmt.Errorf("%w: taxonomy", common.ErrMissingConfig)
	}
	if cfg.IDColumn == "" || cfg.MessageColumn == "" {
		return nil, fmt.Errorf("%w: id and message column names are required", common.ErrInvalidConfig)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.EmptyDelay < 0 {
		cfg.EmptyDelay = 0
	}
	if logger == nil {
		logger = slog.Default()
	}

	nulls := make(map[string]struct{}, len(cfg.NullMarkers))
	for _, m := range cfg.NullMarkers {
		nulls[m] = struct{}{}
	}

	return &BatchClassifier{
		classifier: classifier,
		taxonomy:   tax,
		logger:     logger,
		nulls:      nulls,
		cfg:        cfg,
	}, nil
}

// SetProgress attaches a progress reporter. A nil reporter disables reporting.
func (b *BatchClassifier) SetProgress(p Progress) {
	b.progress = p
}

// OutputColumns lists the columns ClassifyTable appends.
func (b *BatchClassifier) OutputColumns() []string {
	cols := []string{ColumnSentiment, ColumnIntensity, ColumnEmotionType}
	if b.cfg.TagFallback {
		cols = append(cols, ColumnIsFallback)
	}
	return slices.Clip(cols)
}

// isEmpty reports whether a message should skip the remote call.
func (b *BatchClassifier) isEmpty(message string) bool {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return true
	}
	_, null := b.nulls[trimmed]
	return null
}
