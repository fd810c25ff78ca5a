package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moodmap/internal/cli"
	"github.com/Veraticus/moodmap/internal/config"
	"github.com/Veraticus/moodmap/internal/table"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify check-ins and cluster the places in one go",
		Long: `Run both stages. The output directory receives:

  classified.csv   input rows with sentiment columns
  clusters.csv     one row per place with its cluster label
  silhouette.csv   silhouette score per candidate k
  projection.csv   2-D principal component coordinates per place

Examples:
  moodmap run --input checkins.csv --output-dir results/`,
		RunE: runPipeline,
	}

	cmd.Flags().StringP("input", "i", "", "Input CSV with id, message and place columns")
	cmd.Flags().StringP("output-dir", "d", ".", "Directory for all outputs")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	input, _ := cmd.Flags().GetString("input")
	dir, _ := cmd.Flags().GetString("output-dir")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	in, err := table.Read(config.ExpandPath(input))
	if err != nil {
		return err
	}
	// Fail on missing place columns before spending any remote calls.
	if err := in.RequireColumns(cfg.Cluster.Columns.Name, cfg.Cluster.Columns.Tag, cfg.Cluster.Columns.Lon, cfg.Cluster.Columns.Lat); err != nil {
		return err
	}

	classified, stats, err := classifyTable(ctx, cfg, in, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	classifiedPath := config.OutputPath(dir, classifiedFile)
	if err := table.Write(classifiedPath, classified, cfg.Table.Write()); err != nil {
		return fmt.Errorf("failed to write %s: %w", classifiedPath, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderClassifyStats(stats, classifiedPath))

	res, err := clusterTable(ctx, cfg, classified, clusterOutputs{
		assignments: config.OutputPath(dir, clustersFile),
		scores:      config.OutputPath(dir, scoresFile),
		projection:  config.OutputPath(dir, projectionFile),
	})
	if err != nil {
		return err
	}

	slog.Info("Pipeline complete", "output_dir", dir, "k", res.Selection.K)
	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSelection(res.Selection, res.Assignments))
	return nil
}
