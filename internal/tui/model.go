package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hostwise/hostwise/internal/model"
)

// UnitEventMsg carries one engine progress event into the TUI.
type UnitEventMsg struct {
	Event model.ChangeEvent
}

// DoneMsg reports that processing has finished.
type DoneMsg struct {
	Err error
}

type unitRow struct {
	unit *model.ConfigurationUnit
	// state mirrors the last event received for the unit.
	state model.UnitState
	info  model.ResultInformation
}

// Model contains the Bubbletea state for the apply progress display.
type Model struct {
	setName        string
	rows           []*unitRow
	rowByUnit      map[*model.ConfigurationUnit]*unitRow
	bar            progress.Model
	terminal       int
	setState       model.SetState
	finished       bool
	cancelled      bool
	err            error
	nonInteractive bool
}

// NewModel constructs a TUI model tracking every unit of the set in input
// order.
func NewModel(set *model.ConfigurationSet, nonInteractive bool) Model {
	m := Model{
		setName:        set.Name,
		rowByUnit:      make(map[*model.ConfigurationUnit]*unitRow, len(set.Units)),
		bar:            progress.New(progress.WithDefaultGradient()),
		setState:       model.SetStatePending,
		nonInteractive: nonInteractive,
	}

	for i := range set.Units {
		unit := &set.Units[i]
		row := &unitRow{unit: unit, state: model.UnitStatePending}
		m.rows = append(m.rows, row)
		m.rowByUnit[unit] = row
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Finished reports whether processing has completed.
func (m Model) Finished() bool {
	return m.finished
}

// Err returns the process-level error, if any.
func (m Model) Err() error {
	return m.err
}

func (m *Model) applyEvent(event model.ChangeEvent) {
	if !event.IsUnitEvent() {
		m.setState = event.SetState
		if event.SetState == model.SetStateCompleted {
			m.finished = true
		}
		return
	}

	row, known := m.rowByUnit[event.Unit]
	if !known {
		return
	}

	if terminalState(row.state) {
		// Terminal events arrive at most once; anything after is ignored.
		return
	}

	row.state = event.UnitState
	row.info = event.ResultInformation
	if terminalState(event.UnitState) {
		m.terminal++
	}
}

func terminalState(state model.UnitState) bool {
	return state == model.UnitStateCompleted || state == model.UnitStateSkipped
}
