package engine

import (
	"github.com/hostwise/hostwise/internal/model"
)

// sendSetProgress emits a set-level state change. Panics from the progress
// sink are swallowed so observers cannot abort processing.
func (p *ApplyProcessor) sendSetProgress(state model.SetState) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("progress sink panicked on set event", "state", string(state), "panic", r)
		}
	}()

	p.progress.Progress(model.NewSetChange(state))
}

// sendUnitProgress emits a unit-level state change. The unit result's state
// is updated first so final aggregation and in-flight observation agree.
func (p *ApplyProcessor) sendUnitProgress(state model.UnitState, ui *unitInfo) {
	ui.result.State = state

	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("progress sink panicked on unit event", "unit", ui.unit.Identifier, "state", string(state), "panic", r)
		}
	}()

	p.progress.Progress(model.NewUnitChange(state, ui.unit, ui.result.ResultInformation))
}

// sendUnitProgressIfNotComplete emits only if the unit has not already
// reached its terminal Completed state. Terminal events are never emitted
// twice for the same unit.
func (p *ApplyProcessor) sendUnitProgressIfNotComplete(state model.UnitState, ui *unitInfo) {
	if ui.result.State == model.UnitStateCompleted {
		return
	}
	p.sendUnitProgress(state, ui)
}
