package telemetry

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/hostwise/hostwise/internal/logger"
	"github.com/hostwise/hostwise/internal/model"
)

// LoggingTelemetry records processing summaries and unit runs as structured
// log events.
type LoggingTelemetry struct {
	log *logger.Logger
}

// NewLoggingTelemetry creates a telemetry sink backed by the given logger.
func NewLoggingTelemetry(log *logger.Logger) *LoggingTelemetry {
	return &LoggingTelemetry{log: log}
}

// LogConfigUnitRun records one attempted unit action.
func (t *LoggingTelemetry) LogConfigUnitRun(setID uuid.UUID, unit *model.ConfigurationUnit, intent model.UnitIntent, action string, info model.ResultInformation) {
	if t == nil || unit == nil {
		return
	}

	t.log.WithFields(map[string]any{
		"set":         setID.String(),
		"unit":        unit.Identifier,
		"unit_type":   unit.Type,
		"intent":      string(intent),
		"unit_intent": string(unit.Intent),
		"action":      action,
		"code":        fmt.Sprintf("0x%X", int32(info.Code)),
		"source":      string(info.Source),
	}).Info("configuration unit run")
}

// LogConfigProcessingSummary records the summary for a run that terminated
// with a process-level failure.
func (t *LoggingTelemetry) LogConfigProcessingSummary(setID uuid.UUID, fromHistory bool, intent model.UnitIntent, runErr error, source model.ResultSource, summaries ...model.ProcessingSummary) {
	if t == nil {
		return
	}

	fields := map[string]any{
		"set":          setID.String(),
		"from_history": fromHistory,
		"intent":       string(intent),
		"source":       string(source),
	}
	for _, summary := range summaries {
		prefix := string(summary.Intent)
		fields[prefix+"_count"] = summary.Count
		fields[prefix+"_run"] = summary.Run
		fields[prefix+"_failed"] = summary.Failed
	}

	t.log.WithFields(fields).Error(runErr, "configuration set processing failed")
}

// LogConfigProcessingSummaryForApply records the summary for a run that
// completed normally.
func (t *LoggingTelemetry) LogConfigProcessingSummaryForApply(set *model.ConfigurationSet, result *model.ApplySetResult) {
	if t == nil || set == nil || result == nil {
		return
	}

	succeeded := 0
	failed := 0
	for _, unitResult := range result.UnitResults {
		if unitResult.ResultInformation.Code.Succeeded() {
			succeeded++
		} else {
			failed++
		}
	}

	t.log.WithFields(map[string]any{
		"set":          set.InstanceIdentifier.String(),
		"name":         set.Name,
		"from_history": set.IsFromHistory,
		"code":         fmt.Sprintf("0x%X", int32(result.ResultCode)),
		"units":        len(result.UnitResults),
		"succeeded":    succeeded,
		"failed":       failed,
	}).Info("configuration set applied")
}
