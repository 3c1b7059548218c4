package ports

import (
	"github.com/google/uuid"

	"github.com/hostwise/hostwise/internal/model"
)

// Unit-run action tags recorded by telemetry.
const (
	TelemetryActionTest  = "TEST"
	TelemetryActionGet   = "GET"
	TelemetryActionApply = "APPLY"
)

// Telemetry records configuration processing outcomes. Implementations must
// not panic into the engine and must tolerate partial data.
type Telemetry interface {
	// LogConfigUnitRun records one attempted unit action regardless of outcome.
	LogConfigUnitRun(setID uuid.UUID, unit *model.ConfigurationUnit, intent model.UnitIntent, action string, info model.ResultInformation)

	// LogConfigProcessingSummary records a summary for a run that terminated
	// with a process-level failure such as cancellation.
	LogConfigProcessingSummary(setID uuid.UUID, fromHistory bool, intent model.UnitIntent, runErr error, source model.ResultSource, summaries ...model.ProcessingSummary)

	// LogConfigProcessingSummaryForApply records a summary for a run that
	// completed normally.
	LogConfigProcessingSummaryForApply(set *model.ConfigurationSet, result *model.ApplySetResult)
}
