package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/kerbaras/mangagrab/pkg/data"
	"github.com/kerbaras/mangagrab/pkg/services"
	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download <base-url>",
	Short: "Download a range of chapters",
	Long: `Download chapters start..end from base-url. Chapter N lives at {base-url}N/.
Failed images and chapters are listed in the summary; the run always continues.`,
	Example: `  mangagrab download https://example.com/comic/ --start 1 --end 10
  mangagrab download https://example.com/comic/ --chapters 5-7 --workers 4`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		chaptersFlag, _ := cmd.Flags().GetString("chapters")
		startFlag, _ := cmd.Flags().GetString("start")
		endFlag, _ := cmd.Flags().GetString("end")

		start, end, err := chapterBounds(chaptersFlag, startFlag, endFlag)
		if err == nil {
			_, err = services.ParseRange(start, end)
		}
		if err != nil {
			cobra.CheckErr(fmt.Errorf("please enter valid chapter numbers: %w", err))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		controller := newController()

		// Listen for progress
		done := make(chan struct{})
		go func() {
			defer close(done)
			for progress := range controller.GetProgressChannel() {
				printProgress(out, progress)
			}
		}()

		fmt.Fprintf(out, "📥 Downloading chapters %s-%s into %s\n", strings.TrimSpace(start), strings.TrimSpace(end), cfg.SaveDir)
		report, err := controller.Run(ctx, args[0], start, end)
		controller.Close()
		<-done

		if report != nil {
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderReport(report))
		}
		cobra.CheckErr(err)

		fmt.Fprintln(out, "✅ Download complete!")
	},
}

func init() {
	downloadCmd.Flags().StringP("start", "s", "", "First chapter number")
	downloadCmd.Flags().StringP("end", "e", "", "Last chapter number (inclusive)")
	downloadCmd.Flags().StringP("chapters", "c", "", "Chapter range (e.g., 1-10)")
	downloadCmd.MarkFlagsMutuallyExclusive("chapters", "start")
	downloadCmd.MarkFlagsMutuallyExclusive("chapters", "end")
}

// chapterBounds returns the raw bounds, taken from --chapters N-M when given.
// The bounds themselves are validated by the controller.
func chapterBounds(chapters, start, end string) (string, string, error) {
	if chapters == "" {
		return start, end, nil
	}
	parts := strings.SplitN(chapters, "-", 2)
	if len(parts) != 2 {
		return "", "", &services.InputValidationError{
			Field: "chapters",
			Value: chapters,
			Err:   errors.New("use --chapters N-M"),
		}
	}
	return parts[0], parts[1], nil
}

func printProgress(w io.Writer, progress services.DownloadProgress) {
	switch progress.Status {
	case "crawling":
		fmt.Fprintf(w, "🔍 Chapter %s: crawling\n", progress.ChapterID)
	case "complete":
		fmt.Fprintf(w, "  Chapter %s: %d/%d images\n", progress.ChapterID, progress.CurrentPage, progress.TotalPages)
	case "error":
		fmt.Fprintf(w, "⚠️  Chapter %s: %v\n", progress.ChapterID, progress.Error)
	}
}

func renderReport(report *data.Report) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	styleFunc := func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return headerStyle
		}
		return cellStyle
	}

	summary := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(styleFunc).
		Headers("Chapters", "Attempted", "Saved", "Failed").
		Row(
			strconv.Itoa(report.Chapters),
			strconv.Itoa(report.Attempted()),
			strconv.Itoa(report.Succeeded()),
			strconv.Itoa(report.Failed()),
		)

	failures := report.Failures()
	if len(failures) == 0 {
		return summary.Render()
	}

	failed := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(styleFunc).
		Headers("Kind", "Chapter", "URL", "Reason")
	for _, f := range failures {
		failed.Row(f.Kind.String(), f.Chapter, f.URL, f.Err.Error())
	}

	return summary.Render() + "\n" + failed.Render()
}
