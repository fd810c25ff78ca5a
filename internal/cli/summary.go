package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/moodmap/internal/engine"
	"github.com/Veraticus/moodmap/internal/model"
)

// NewProgressBar returns a row counter for a batch of total rows.
func NewProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

func line(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
}

// RenderClassifyStats summarizes a classification run.
func RenderClassifyStats(stats *engine.Stats, output string) string {
	lines := []string{
		line("Rows", fmt.Sprint(stats.Rows)),
		line("Called", fmt.Sprint(stats.Called)),
		line("Cached", fmt.Sprint(stats.Cached)),
		line("Skipped", fmt.Sprint(stats.Skipped)),
	}

	fallbacks := fmt.Sprint(stats.Fallbacks)
	if stats.Fallbacks > stats.Skipped {
		fallbacks = WarningStyle.Render(fallbacks)
	}
	lines = append(lines,
		line("Fallbacks", fallbacks),
		line("Duration", stats.Duration.Round(time.Millisecond).String()),
		line("Output", output),
	)

	return RenderBox(ChartIcon+" Classification", strings.Join(lines, "\n"))
}

// RenderSelection shows the silhouette sweep with the chosen k highlighted,
// followed by the size of each cluster.
func RenderSelection(sel model.ClusterSelection, assignments []model.ClusterAssignment) string {
	var b strings.Builder

	if len(sel.Scores) == 0 {
		b.WriteString(SubtleStyle.Render("too few entities for a sweep"))
		b.WriteString("\n")
	}
	for _, s := range sel.Scores {
		value := SubtleStyle.Render("n/a")
		if s.Valid {
			value = fmt.Sprintf("%.4f", s.Silhouette)
		}
		row := line(fmt.Sprintf("k=%d", s.K), value)
		if s.K == sel.K {
			row = BoldStyle.Render(row + "  " + SuccessIcon)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	sizes := make(map[int]int)
	for _, a := range assignments {
		sizes[a.ClusterLabel]++
	}
	b.WriteString("\n")
	for label := 0; label < sel.K; label++ {
		b.WriteString(line(fmt.Sprintf("cluster %d", label), fmt.Sprintf("%d entities", sizes[label])))
		if label < sel.K-1 {
			b.WriteString("\n")
		}
	}

	return RenderBox(PinIcon+fmt.Sprintf(" Clusters (k=%d)", sel.K), b.String())
}
