package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/Veraticus/moodmap/internal/cli"
	"github.com/Veraticus/moodmap/internal/cluster"
	"github.com/Veraticus/moodmap/internal/common"
	"github.com/Veraticus/moodmap/internal/config"
	"github.com/Veraticus/moodmap/internal/engine"
	"github.com/Veraticus/moodmap/internal/llm"
	"github.com/Veraticus/moodmap/internal/table"
)

// Default file names used by the run command.
const (
	classifiedFile = "classified.csv"
	clustersFile   = "clusters.csv"
	scoresFile     = "silhouette.csv"
	projectionFile = "projection.csv"
)

// clusterOutputs names the files written by the clustering stage. Empty
// optional paths are skipped.
type clusterOutputs struct {
	assignments string
	scores      string
	projection  string
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("invalid configuration", err)
	}
	return cfg, nil
}

// classifyTable runs the classification stage over an in-memory table.
func classifyTable(ctx context.Context, cfg *config.Config, in *table.Table, progress io.Writer) (*table.Table, *engine.Stats, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, nil, err
	}

	tax, err := cfg.Taxonomy.Build()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.Default()
	classifier, err := llm.NewClassifier(cfg.LLM.Client(), tax, logger)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if closeErr := classifier.Close(); closeErr != nil {
			logger.Warn("Failed to close classifier", "error", closeErr)
		}
	}()

	batch, err := engine.NewBatchClassifier(classifier, tax, cfg.Classify.Engine(), logger)
	if err != nil {
		return nil, nil, err
	}
	if progress != nil && in.Len() > 0 {
		batch.SetProgress(cli.NewProgressBar(progress, in.Len(), "Classifying messages..."))
	}

	logger.Info("Using language model", "llm", cfg.LLM.String())
	return batch.ClassifyTable(ctx, in)
}

// clusterTable runs aggregation and clustering, then writes every output.
// Nothing is written unless the whole stage succeeds.
func clusterTable(ctx context.Context, cfg *config.Config, in *table.Table, out clusterOutputs) (*cluster.Result, error) {
	records, err := cluster.ReadRecords(in, cfg.Cluster.Columns)
	if err != nil {
		return nil, err
	}

	tax, err := cfg.Taxonomy.Build()
	if err != nil {
		return nil, err
	}

	aggs := cluster.Aggregate(records, tax)
	slog.Info("Aggregated entities", "records", len(records), "entities", len(aggs))

	res, err := cluster.Run(ctx, aggs, cfg.Cluster.Params, slog.Default())
	if err != nil {
		return nil, err
	}

	opts := cfg.Table.Write()
	if err := table.Write(out.assignments, res.AssignmentTable(), opts); err != nil {
		return nil, fmt.Errorf("failed to write clusters: %w", err)
	}
	if out.scores != "" {
		if err := table.Write(out.scores, res.ScoreTable(), opts); err != nil {
			return nil, fmt.Errorf("failed to write silhouette scores: %w", err)
		}
	}
	if out.projection != "" {
		if err := table.Write(out.projection, res.ProjectionTable(), opts); err != nil {
			return nil, fmt.Errorf("failed to write projection: %w", err)
		}
	}

	return res, nil
}
