package telemetry

import (
	"github.com/google/uuid"

	"github.com/hostwise/hostwise/internal/model"
)

// Noop discards all telemetry.
type Noop struct{}

// NewNoop creates a telemetry sink that records nothing.
func NewNoop() Noop {
	return Noop{}
}

func (Noop) LogConfigUnitRun(uuid.UUID, *model.ConfigurationUnit, model.UnitIntent, string, model.ResultInformation) {
}

func (Noop) LogConfigProcessingSummary(uuid.UUID, bool, model.UnitIntent, error, model.ResultSource, ...model.ProcessingSummary) {
}

func (Noop) LogConfigProcessingSummaryForApply(*model.ConfigurationSet, *model.ApplySetResult) {}
