package screens

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangagrab/pkg/app/components"
	"github.com/kerbaras/mangagrab/pkg/app/styles"
	"github.com/kerbaras/mangagrab/pkg/data"
	"github.com/kerbaras/mangagrab/pkg/services"
)

// Runner is what the screen drives; *services.MangaController satisfies it
type Runner interface {
	Run(ctx context.Context, baseURL, start, end string) (*data.Report, error)
	GetProgressChannel() <-chan services.DownloadProgress
}

type screenType int

const (
	formView screenType = iota
	runningView
	doneView
)

const (
	baseURLInput = iota
	startInput
	endInput
)

const maxListedFailures = 10

type progressMsg services.DownloadProgress

type runFinishedMsg struct {
	report *data.Report
	err    error
}

type RootScreen struct {
	runner Runner
	ctx    context.Context
	cancel context.CancelFunc

	currentView screenType
	inputs      []textinput.Model
	focusIndex  int
	spinner     spinner.Model
	progress    *components.ProgressTracker
	listening   bool

	report *data.Report
	err    error

	width  int
	height int
}

func NewRootScreen(runner Runner) *RootScreen {
	ctx, cancel := context.WithCancel(context.Background())

	labels := []string{"https://example.com/comic/", "1", "10"}
	inputs := make([]textinput.Model, len(labels))
	for i, placeholder := range labels {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 512
		ti.Width = 50
		inputs[i] = ti
	}
	inputs[startInput].CharLimit = 10
	inputs[endInput].CharLimit = 10
	inputs[baseURLInput].Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.StatusDownloading

	return &RootScreen{
		runner:   runner,
		ctx:      ctx,
		cancel:   cancel,
		inputs:   inputs,
		spinner:  s,
		progress: components.NewProgressTracker(60),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height
		if msg.Width > 10 {
			r.progress.SetWidth(msg.Width - 10)
		}
		return r, nil

	case tea.KeyMsg:
		return r.handleKey(msg)

	case progressMsg:
		r.listening = false
		r.progress.Update(services.DownloadProgress(msg))
		if r.currentView == runningView {
			r.listening = true
			return r, waitForProgress(r.runner.GetProgressChannel())
		}
		return r, nil

	case runFinishedMsg:
		r.report = msg.report
		r.err = msg.err
		r.currentView = doneView
		return r, nil

	case spinner.TickMsg:
		if r.currentView != runningView {
			return r, nil
		}
		var cmd tea.Cmd
		r.spinner, cmd = r.spinner.Update(msg)
		return r, cmd
	}

	if r.currentView == formView {
		return r, r.updateInputs(msg)
	}
	return r, nil
}

func (r *RootScreen) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		r.cancel()
		return r, tea.Quit
	}

	switch r.currentView {
	case formView:
		switch msg.String() {
		case "esc":
			return r, tea.Quit
		case "tab", "down":
			return r, r.setFocus(r.focusIndex + 1)
		case "shift+tab", "up":
			return r, r.setFocus(r.focusIndex - 1)
		case "enter":
			if r.focusIndex < len(r.inputs)-1 {
				return r, r.setFocus(r.focusIndex + 1)
			}
			return r, r.startDownload()
		}
		return r, r.updateInputs(msg)

	case doneView:
		switch msg.String() {
		case "q", "esc":
			return r, tea.Quit
		case "enter":
			r.currentView = formView
			r.report = nil
			r.err = nil
			return r, r.setFocus(baseURLInput)
		}
	}

	return r, nil
}

func (r *RootScreen) setFocus(index int) tea.Cmd {
	n := len(r.inputs)
	r.focusIndex = ((index % n) + n) % n

	cmds := make([]tea.Cmd, len(r.inputs))
	for i := range r.inputs {
		if i == r.focusIndex {
			cmds[i] = r.inputs[i].Focus()
			continue
		}
		r.inputs[i].Blur()
	}
	return tea.Batch(cmds...)
}

func (r *RootScreen) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(r.inputs))
	for i := range r.inputs {
		r.inputs[i], cmds[i] = r.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (r *RootScreen) startDownload() tea.Cmd {
	r.currentView = runningView
	r.progress.Clear()

	cmds := []tea.Cmd{
		r.spinner.Tick,
		r.runCmd(
			strings.TrimSpace(r.inputs[baseURLInput].Value()),
			r.inputs[startInput].Value(),
			r.inputs[endInput].Value(),
		),
	}
	if !r.listening {
		r.listening = true
		cmds = append(cmds, waitForProgress(r.runner.GetProgressChannel()))
	}
	return tea.Batch(cmds...)
}

func (r *RootScreen) runCmd(baseURL, start, end string) tea.Cmd {
	return func() tea.Msg {
		report, err := r.runner.Run(r.ctx, baseURL, start, end)
		return runFinishedMsg{report: report, err: err}
	}
}

func waitForProgress(ch <-chan services.DownloadProgress) tea.Cmd {
	return func() tea.Msg {
		progress, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(progress)
	}
}

func (r *RootScreen) View() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("📚 Manga Downloader"))
	b.WriteString("\n")

	switch r.currentView {
	case formView:
		b.WriteString(r.formView())
	case runningView:
		b.WriteString(r.runningView())
	case doneView:
		b.WriteString(r.doneView())
	}

	return b.String()
}

func (r *RootScreen) formView() string {
	var b strings.Builder
	labels := []string{"Base URL:", "Start Chapter:", "End Chapter:"}
	for i, label := range labels {
		style := styles.InputStyle
		if i == r.focusIndex {
			style = styles.FocusedInputStyle
		}
		b.WriteString(styles.LabelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(style.Render(r.inputs[i].View()))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("tab: next field • enter: start download • esc: quit"))
	return b.String()
}

func (r *RootScreen) runningView() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Downloading chapters %s to %s...\n\n",
		r.spinner.View(),
		strings.TrimSpace(r.inputs[startInput].Value()),
		strings.TrimSpace(r.inputs[endInput].Value())))
	if r.progress.HasActive() {
		b.WriteString(r.progress.View())
	} else {
		b.WriteString(styles.MutedStyle.Render("Waiting for the next chapter page..."))
		b.WriteString("\n")
	}
	b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("%d chapter pages finished", r.progress.Finished())))
	b.WriteString("\n")
	b.WriteString(styles.HelpStyle.Render("ctrl+c: cancel and quit"))
	return b.String()
}

func (r *RootScreen) doneView() string {
	var b strings.Builder

	var inputErr *services.InputValidationError
	switch {
	case errors.As(r.err, &inputErr):
		b.WriteString(styles.StatusError.Render("Invalid input: Please enter valid chapter numbers."))
		b.WriteString("\n")
		b.WriteString(styles.MutedStyle.Render(inputErr.Error()))
		b.WriteString("\n")
	case r.err != nil:
		b.WriteString(styles.StatusError.Render(fmt.Sprintf("Download stopped: %s", r.err)))
		b.WriteString("\n")
	default:
		b.WriteString(styles.StatusCompleted.Render("Download completed!"))
		b.WriteString("\n")
	}

	if r.report != nil {
		summary := fmt.Sprintf("Chapters: %d\nAttempted: %d\nSaved: %d\nFailed: %d",
			r.report.Chapters, r.report.Attempted(), r.report.Succeeded(), r.report.Failed())
		b.WriteString(styles.CardStyle.Render(summary))
		b.WriteString("\n")

		failures := r.report.Failures()
		for i, f := range failures {
			if i == maxListedFailures {
				b.WriteString(styles.MutedStyle.Render(fmt.Sprintf("... and %d more", len(failures)-maxListedFailures)))
				b.WriteString("\n")
				break
			}
			b.WriteString(styles.StatusError.Render(fmt.Sprintf("✗ [%s] chapter %s: %s", f.Kind, f.Chapter, f.URL)))
			b.WriteString("\n")
		}
	}

	b.WriteString(styles.HelpStyle.Render("enter: new download • q: quit"))
	return b.String()
}
