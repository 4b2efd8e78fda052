package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kerbaras/mangagrab/pkg/app/screens"
)

type App struct {
	runner screens.Runner
}

func NewApp(runner screens.Runner) *App {
	return &App{runner: runner}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.runner)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
