package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ResultCode is a stable numeric tag describing a set-level or unit-level
// outcome. Zero means success.
type ResultCode int32

const (
	// OK marks a successful outcome.
	OK ResultCode = 0
	// DuplicateIdentifier marks units whose identifiers collide after case folding.
	DuplicateIdentifier ResultCode = 0x101
	// MissingDependency marks a unit referencing an identifier no unit claims.
	MissingDependency ResultCode = 0x102
	// SetDependencyCycle marks a set whose dependency graph cannot be drained.
	SetDependencyCycle ResultCode = 0x103
	// AssertionFailed marks a negative assert, or units blocked by one.
	AssertionFailed ResultCode = 0x104
	// DependencyUnsatisfied marks a unit whose dependency did not complete successfully.
	DependencyUnsatisfied ResultCode = 0x105
	// SetApplyFailed marks a set in which at least one apply unit failed.
	SetApplyFailed ResultCode = 0x106
	// ManuallySkipped marks a unit the user requested to skip.
	ManuallySkipped ResultCode = 0x107
	// Unexpected marks an outcome the engine has no better classification for.
	Unexpected ResultCode = 0x1FF
)

// Succeeded reports whether the code represents success.
func (c ResultCode) Succeeded() bool {
	return c == OK
}

func (c ResultCode) String() string {
	switch c {
	case OK:
		return "ok"
	case DuplicateIdentifier:
		return "duplicate identifier"
	case MissingDependency:
		return "missing dependency"
	case SetDependencyCycle:
		return "dependency cycle"
	case AssertionFailed:
		return "assertion failed"
	case DependencyUnsatisfied:
		return "dependency unsatisfied"
	case SetApplyFailed:
		return "set apply failed"
	case ManuallySkipped:
		return "manually skipped"
	case Unexpected:
		return "unexpected"
	}
	return fmt.Sprintf("code 0x%X", int32(c))
}

// ResultSource identifies which layer produced a result code.
type ResultSource string

const (
	SourceNone             ResultSource = ""
	SourceInternal         ResultSource = "internal"
	SourceConfigurationSet ResultSource = "configuration_set"
	SourcePrecondition     ResultSource = "precondition"
	SourceSystemState      ResultSource = "system_state"
	SourceUnitProcessing   ResultSource = "unit_processing"
)

// ResultInformation carries the outcome classification for one unit.
type ResultInformation struct {
	Code    ResultCode
	Source  ResultSource
	Details string
}

// Initialize resets the result information to the given code and source,
// clearing any previous details.
func (r *ResultInformation) Initialize(code ResultCode, source ResultSource) {
	r.Code = code
	r.Source = source
	r.Details = ""
}

// SetState is the lifecycle state of a whole configuration set run.
type SetState string

const (
	// SetStatePending is reserved for a future multi-set orchestrator and is
	// never emitted by the apply engine today.
	SetStatePending    SetState = "pending"
	SetStateInProgress SetState = "in_progress"
	SetStateCompleted  SetState = "completed"
)

// UnitState is the lifecycle state of a single unit. State moves
// monotonically along Pending, InProgress, then one terminal state; Skipped
// is terminal.
type UnitState string

const (
	UnitStatePending    UnitState = "pending"
	UnitStateInProgress UnitState = "in_progress"
	UnitStateCompleted  UnitState = "completed"
	UnitStateSkipped    UnitState = "skipped"
)

// TestResult is the outcome of a unit processor's TestSettings call.
type TestResult string

const (
	TestResultUnknown  TestResult = ""
	TestResultPositive TestResult = "positive"
	TestResultNegative TestResult = "negative"
	TestResultFailed   TestResult = "failed"
)

// TestSettingsResult is returned by UnitProcessor.TestSettings.
type TestSettingsResult struct {
	Result            TestResult
	ResultInformation ResultInformation
}

// GetSettingsResult is returned by UnitProcessor.GetSettings. The engine
// forces materialization of Settings but discards them; only the result
// information is inspected.
type GetSettingsResult struct {
	Settings          map[string]any
	ResultInformation ResultInformation
}

// ApplySettingsResult is returned by UnitProcessor.ApplySettings.
type ApplySettingsResult struct {
	RebootRequired    bool
	ResultInformation ResultInformation
}

// ApplyUnitResult is the per-unit slot of an ApplySetResult. The engine
// mutates it in place while processing, so holders of the set result observe
// state changes as they happen.
type ApplyUnitResult struct {
	Unit                     *ConfigurationUnit
	State                    UnitState
	PreviouslyInDesiredState bool
	RebootRequired           bool
	ResultInformation        ResultInformation
}

// ApplySetResult aggregates the outcome of applying a configuration set. The
// UnitResults slice is populated up front, in input order, before any unit
// runs.
type ApplySetResult struct {
	InstanceIdentifier uuid.UUID
	ResultCode         ResultCode
	UnitResults        []*ApplyUnitResult
}

// ProcessingSummary counts units of one intent for telemetry reporting.
type ProcessingSummary struct {
	Intent UnitIntent
	Count  int
	Run    int
	Failed int
}
