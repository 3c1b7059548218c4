package engine

import (
	"github.com/google/uuid"

	"github.com/hostwise/hostwise/internal/model"
)

// noopProgress discards all progress notifications. It stands in when the
// caller supplies no progress channel.
type noopProgress struct{}

func (noopProgress) Progress(model.ChangeEvent)   {}
func (noopProgress) Result(*model.ApplySetResult) {}

// noopTelemetry discards all telemetry records.
type noopTelemetry struct{}

func (noopTelemetry) LogConfigUnitRun(uuid.UUID, *model.ConfigurationUnit, model.UnitIntent, string, model.ResultInformation) {
}

func (noopTelemetry) LogConfigProcessingSummary(uuid.UUID, bool, model.UnitIntent, error, model.ResultSource, ...model.ProcessingSummary) {
}

func (noopTelemetry) LogConfigProcessingSummaryForApply(*model.ConfigurationSet, *model.ApplySetResult) {
}
