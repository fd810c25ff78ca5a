package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/moodmap/internal/cli"
	"github.com/Veraticus/moodmap/internal/config"
	"github.com/Veraticus/moodmap/internal/table"
)

func clusterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group places by sentiment, dominant tag and location",
		Long: `Aggregate a classified CSV per place name and cluster the places with k-means.

The cluster count is chosen by sweeping k and keeping the best silhouette score.
Results are deterministic for a fixed seed.

Examples:
  moodmap cluster --input classified.csv --output clusters.csv
  moodmap cluster -i classified.csv -o clusters.csv --scores silhouette.csv --projection pca.csv`,
		RunE: runCluster,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "", "Classified CSV")
	cmd.Flags().StringP("output", "o", "", "Per-place cluster assignment CSV")
	cmd.Flags().String("scores", "", "Optional CSV of silhouette score per k")
	cmd.Flags().String("projection", "", "Optional CSV of 2-D principal component coordinates")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runCluster(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	input, _ := flags.GetString("input")
	output, _ := flags.GetString("output")
	scores, _ := flags.GetString("scores")
	projection, _ := flags.GetString("projection")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	in, err := table.Read(config.ExpandPath(input))
	if err != nil {
		return err
	}

	res, err := clusterTable(cmd.Context(), cfg, in, clusterOutputs{
		assignments: config.ExpandPath(output),
		scores:      config.ExpandPath(scores),
		projection:  config.ExpandPath(projection),
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderSelection(res.Selection, res.Assignments))
	return nil
}
