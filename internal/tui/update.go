package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UnitEventMsg:
		m.applyEvent(msg.Event)
		return m, nil

	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			return m, nil
		}

	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}

// Cancelled reports whether the user requested cancellation.
func (m Model) Cancelled() bool {
	return m.cancelled
}
