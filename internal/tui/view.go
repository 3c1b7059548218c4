package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hostwise/hostwise/internal/model"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	title := titleStyle.Render(fmt.Sprintf("hostwise • %s", m.title()))
	sections = append(sections, title)

	if len(m.rows) > 0 {
		ratio := float64(m.terminal) / float64(len(m.rows))
		sections = append(sections, m.bar.ViewAs(ratio))
		sections = append(sections, sectionStyle.Render("Units"), m.renderRows())
	}

	if m.finished {
		sections = append(sections, summaryStyle.Render(m.summary()))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderRows() string {
	var lines []string
	for _, row := range m.rows {
		name := row.unit.Identifier
		if name == "" {
			name = "(" + row.unit.Type + ")"
		}

		line := fmt.Sprintf(" %s %s", StateIcon(row.state, row.info.Code), name)
		if row.info.Details != "" {
			line = fmt.Sprintf("%s — %s", line, row.info.Details)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) title() string {
	if strings.TrimSpace(m.setName) != "" {
		return m.setName
	}
	return "Configuration"
}

func (m Model) summary() string {
	if m.cancelled {
		return "Cancelled."
	}
	if m.err != nil {
		return fmt.Sprintf("Failed: %v", m.err)
	}

	failed := 0
	for _, row := range m.rows {
		if !row.info.Code.Succeeded() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Sprintf("%d of %d units did not reach the desired state.", failed, len(m.rows))
	}
	return "All units are in the desired state."
}

// StateIcon returns the glyph representing a unit's state and outcome.
func StateIcon(state model.UnitState, code model.ResultCode) string {
	switch state {
	case model.UnitStateInProgress:
		return activeStyle.Render("▸")
	case model.UnitStateSkipped:
		return skipStyle.Render("⊘")
	case model.UnitStateCompleted:
		if code.Succeeded() {
			return okStyle.Render("✓")
		}
		return failStyle.Render("✗")
	default:
		return idleStyle.Render("·")
	}
}
