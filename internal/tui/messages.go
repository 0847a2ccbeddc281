package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/tally/internal/engine"
)

type dashboardLoadedMsg struct {
	dashboard engine.Dashboard
}

type errorMsg struct {
	err error
}

func (m Model) load() tea.Cmd {
	loader := m.config.Loader
	if loader == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		dashboard, err := loader(ctx)
		if err != nil {
			return errorMsg{err: err}
		}
		return dashboardLoadedMsg{dashboard: dashboard}
	}
}

// withContext sets the context passed to the loader.
func (m Model) withContext(ctx context.Context) Model {
	m.ctx = ctx
	return m
}
