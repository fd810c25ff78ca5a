package engine

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/moodmap/internal/metrics"
	"github.com/Veraticus/moodmap/internal/model"
	"github.com/Veraticus/moodmap/internal/table"
)

// ClassifyTable classifies every row of in and returns a new table with the
// classification columns appended. Output row i always belongs to input row i.
// Structural problems are reported before any remote call is made. If ctx is
// canceled the partial work is discarded and ctx's error is returned.
func (b *BatchClassifier) ClassifyTable(ctx context.Context, in *table.Table) (*table.Table, *Stats, error) {
	if err := in.RequireColumns(b.cfg.IDColumn, b.cfg.MessageColumn); err != nil {
		return nil, nil, err
	}

	start := time.Now()
	runID := uuid.NewString()
	logger := b.logger.With("run_id", runID)

	logger.Info("Starting batch classification",
		"rows", in.Len(),
		"workers", b.cfg.Workers)

	results := make([]model.Classification, in.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)

	for i := range in.Rows {
		if gctx.Err() != nil {
			break
		}
		rec := model.Record{
			ID:      in.Cell(i, b.cfg.IDColumn),
			Message: in.Cell(i, b.cfg.MessageColumn),
			Row:     i,
		}
		g.Go(func() error {
			results[i] = b.classifyRecord(gctx, rec)
			if b.progress != nil {
				if err := b.progress.Add(1); err != nil {
					logger.Debug("Failed to update progress", "error", err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("classification canceled: %w", err)
	}

	stats := &Stats{RunID: runID, Rows: in.Len()}
	values := make([][]string, len(results))
	for i, c := range results {
		stats.record(c)
		values[i] = b.cells(c.Result)
	}
	stats.Duration = time.Since(start)

	out, err := in.WithColumns(b.OutputColumns(), values)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build output table: %w", err)
	}

	logger.Info("Batch classification complete",
		"rows", stats.Rows,
		"called", stats.Called,
		"cached", stats.Cached,
		"skipped", stats.Skipped,
		"fallbacks", stats.Fallbacks,
		"duration", stats.Duration)

	return out, stats, nil
}

// classifyRecord skips empty messages and delegates everything else.
func (b *BatchClassifier) classifyRecord(ctx context.Context, rec model.Record) model.Classification {
	if !b.isEmpty(rec.Message) {
		return b.classifier.Classify(ctx, rec)
	}

	metrics.Inc(metrics.SkippedEmpty)
	b.logger.Debug("Skipping empty message", "id", rec.ID, "row", rec.Row)
	wait(ctx, b.cfg.EmptyDelay)

	return model.Classification{
		RecordID: rec.ID,
		Row:      rec.Row,
		Status:   model.StatusSkipped,
		Result:   b.taxonomy.Fallback(),
	}
}

func (b *BatchClassifier) cells(r model.ClassificationResult) []string {
	row := []string{r.Sentiment, strconv.Itoa(r.Intensity), r.EmotionType}
	if b.cfg.TagFallback {
		row = append(row, strconv.FormatBool(r.Fallback))
	}
	return row
}

func (s *Stats) record(c model.Classification) {
	switch c.Status {
	case model.StatusClassified, model.StatusExhausted:
		s.Called++
	case model.StatusCached:
		s.Cached++
	case model.StatusSkipped:
		s.Skipped++
	}
	if c.Result.Fallback {
		s.Fallbacks++
	}
}

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
