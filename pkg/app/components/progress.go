package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kerbaras/mangagrab/pkg/app/styles"
	"github.com/kerbaras/mangagrab/pkg/services"
	"github.com/kerbaras/mangagrab/pkg/utils"
)

// ProgressTracker keeps the latest update per chapter tag
type ProgressTracker struct {
	downloads map[string]*services.DownloadProgress
	finished  int
	width     int
}

func NewProgressTracker(width int) *ProgressTracker {
	return &ProgressTracker{
		downloads: make(map[string]*services.DownloadProgress),
		width:     width,
	}
}

func (p *ProgressTracker) SetWidth(width int) {
	p.width = width
}

func (p *ProgressTracker) Update(progress services.DownloadProgress) {
	if progress.Status == "complete" {
		// Remove completed chapter downloads
		if _, ok := p.downloads[progress.ChapterID]; ok {
			delete(p.downloads, progress.ChapterID)
		}
		p.finished++
		return
	}
	prog := progress // Copy
	p.downloads[progress.ChapterID] = &prog
}

func (p *ProgressTracker) Clear() {
	p.downloads = make(map[string]*services.DownloadProgress)
	p.finished = 0
}

func (p *ProgressTracker) HasActive() bool {
	return len(p.downloads) > 0
}

// Finished returns how many chapter pages completed since the last Clear
func (p *ProgressTracker) Finished() int {
	return p.finished
}

func (p *ProgressTracker) View() string {
	if len(p.downloads) == 0 {
		return ""
	}

	ids := make([]string, 0, len(p.downloads))
	for id := range p.downloads {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return utils.NaturalLess(ids[i], ids[j]) })

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Active Downloads"))
	b.WriteString("\n\n")

	for _, id := range ids {
		progress := p.downloads[id]

		b.WriteString(styles.TextStyle.Render(fmt.Sprintf("Chapter %s", progress.ChapterID)))
		b.WriteString("\n")

		statusText := progress.Status
		if progress.TotalPages > 0 {
			percentage := float64(progress.CurrentPage) / float64(progress.TotalPages) * 100
			statusText = fmt.Sprintf("%s (%d/%d images - %.0f%%)",
				progress.Status, progress.CurrentPage, progress.TotalPages, percentage)

			b.WriteString(renderProgressBar(progress.CurrentPage, progress.TotalPages, p.width-4))
			b.WriteString("\n")
		}

		b.WriteString(styles.StatusStyle(progress.Status).Render(statusText))
		b.WriteString("\n")

		if progress.Error != nil {
			b.WriteString(styles.StatusError.Render(fmt.Sprintf("Error: %s", progress.Error)))
			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	return b.String()
}

func renderProgressBar(current, total, width int) string {
	if total == 0 || width <= 0 {
		return ""
	}

	filled := int(float64(current) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.ProgressBarStyle.Render(bar)
}
