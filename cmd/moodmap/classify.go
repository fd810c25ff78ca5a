package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/moodmap/internal/cli"
	"github.com/Veraticus/moodmap/internal/config"
	"github.com/Veraticus/moodmap/internal/table"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Tag every check-in message with sentiment, intensity and emotion",
		Long: `Classify each message of a check-in CSV with the configured language model.

The output holds every input column plus sentiment, intensity and emotion_type,
in the same row order. Blank messages are tagged neutral without a remote call.
Failed calls are retried and then fall back to neutral / no-emotion.

Examples:
  moodmap classify --input checkins.csv --output classified.csv
  moodmap classify -i checkins.csv -o classified.csv --workers 4 --tag-fallback`,
		RunE: runClassify,
	}

	// Flags
	cmd.Flags().StringP("input", "i", "", "Input CSV with id and message columns")
	cmd.Flags().StringP("output", "o", "", "Output CSV path")
	cmd.Flags().IntP("workers", "w", 1, "Number of concurrent classification workers")
	cmd.Flags().Bool("tag-fallback", false, "Add an is_fallback column")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	// Bind to viper
	_ = viper.BindPFlag("classify.workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("classify.tag_fallback", cmd.Flags().Lookup("tag-fallback"))

	return cmd
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	input, output = config.ExpandPath(input), config.ExpandPath(output)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	in, err := table.Read(input)
	if err != nil {
		return err
	}

	slog.Info("Starting classification", "input", input, "rows", in.Len())

	out, stats, err := classifyTable(ctx, cfg, in, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if err := table.Write(output, out, cfg.Table.Write()); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderClassifyStats(stats, output))
	return nil
}
