package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostwise/hostwise/internal/model"
	"github.com/hostwise/hostwise/internal/ports"
	hosterrors "github.com/hostwise/hostwise/pkg/errors"
)

func TestProcess_CreateProcessorFailureUsesFaultExtraction(t *testing.T) {
	h := newHarness(testSet(
		testUnit("a", model.IntentApply),
	))
	h.factory.createErr["a"] = hosterrors.NewUnitError("a", model.Unexpected, model.SourceUnitProcessing, fmt.Errorf("factory out of order"))

	require.NoError(t, h.processor.Process(context.Background()))

	result := h.processor.Result()
	require.Equal(t, model.SetApplyFailed, result.ResultCode)

	a := result.UnitResults[0]
	require.Equal(t, model.UnitStateCompleted, a.State)
	require.Equal(t, model.Unexpected, a.ResultInformation.Code)
	require.Equal(t, model.SourceUnitProcessing, a.ResultInformation.Source)
	require.Contains(t, a.ResultInformation.Details, "factory out of order")
}

func TestProcess_GenericErrorIsUnexpectedInternal(t *testing.T) {
	h := newHarness(testSet(
		testUnit("a", model.IntentApply),
	))
	h.factory.unitProcessor("a").test = func(context.Context) (*model.TestSettingsResult, error) {
		return nil, fmt.Errorf("wire tripped")
	}

	require.NoError(t, h.processor.Process(context.Background()))

	a := h.processor.Result().UnitResults[0]
	require.Equal(t, model.Unexpected, a.ResultInformation.Code)
	require.Equal(t, model.SourceInternal, a.ResultInformation.Source)
	require.Equal(t, "wire tripped", a.ResultInformation.Details)
}

func TestProcess_UnitErrorCodePropagates(t *testing.T) {
	h := newHarness(testSet(
		testUnit("a", model.IntentApply),
	))
	h.factory.unitProcessor("a").test = func(context.Context) (*model.TestSettingsResult, error) {
		return nil, hosterrors.NewUnitError("a", model.AssertionFailed, model.SourceSystemState, fmt.Errorf("probe denied"))
	}

	require.NoError(t, h.processor.Process(context.Background()))

	a := h.processor.Result().UnitResults[0]
	require.Equal(t, model.AssertionFailed, a.ResultInformation.Code)
	require.Equal(t, model.SourceSystemState, a.ResultInformation.Source)
}

func TestProcess_CancelledBeforeAnyUnit(t *testing.T) {
	h := newHarness(testSet(
		testUnit("a", model.IntentApply),
	))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.processor.Process(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// The failure summary was recorded; the apply summary was not.
	require.Len(t, h.telemetry.failureErrs, 1)
	require.ErrorIs(t, h.telemetry.failureErrs[0], context.Canceled)
	require.Zero(t, h.telemetry.applySummaries)

	// The unit never ran and never produced a unit-run record.
	require.Empty(t, h.telemetry.unitRuns)
	require.Empty(t, h.factory.created)
}

func TestProcess_CancelledAfterProcessorConstruction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := newHarness(testSet(
		testUnit("a", model.IntentApply),
	))
	factory := h.factory
	// Cancel while the processor is being created.
	cancellingFactory := setProcessorFunc(func(c context.Context, unit *model.ConfigurationUnit) (ports.UnitProcessor, error) {
		cancel()
		return factory.CreateUnitProcessor(c, unit)
	})
	h.processor = NewApplyProcessor(h.set, cancellingFactory, h.progress, h.telemetry, nil)

	err := h.processor.Process(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// The unit was marked in progress and completed on unwind.
	events := h.progress.unitEvents("a")
	require.NotEmpty(t, events)
	require.Equal(t, model.UnitStateCompleted, events[len(events)-1].UnitState)

	// Set-level completion is never reported for an aborted run.
	for _, state := range h.progress.setEvents() {
		require.NotEqual(t, model.SetStateCompleted, state)
	}
	require.Len(t, h.telemetry.failureErrs, 1)
}

func TestProcess_CancelledBetweenTestAndApply(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := newHarness(testSet(
		testUnit("p", model.IntentApply),
	))
	processor := h.factory.unitProcessor("p")
	processor.test = func(context.Context) (*model.TestSettingsResult, error) {
		cancel()
		return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
	}

	err := h.processor.Process(ctx)
	require.ErrorIs(t, err, context.Canceled)

	// ApplySettings was never reached.
	require.Zero(t, processor.applyCalls)

	// The terminal event for the unit still fired on unwind.
	events := h.progress.unitEvents("p")
	require.Equal(t, model.UnitStateCompleted, events[len(events)-1].UnitState)
	require.Len(t, h.telemetry.failureErrs, 1)
}

func TestProcess_TelemetryRecordsActionPerIntent(t *testing.T) {
	h := newHarness(testSet(
		testUnit("check", model.IntentAssert),
		testUnit("read", model.IntentInform),
		testUnit("fix", model.IntentApply),
	))
	h.factory.unitProcessor("fix").test = func(context.Context) (*model.TestSettingsResult, error) {
		return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
	}

	require.NoError(t, h.processor.Process(context.Background()))

	require.Equal(t, ports.TelemetryActionTest, h.telemetry.runFor("check").action)
	require.Equal(t, ports.TelemetryActionGet, h.telemetry.runFor("read").action)
	require.Equal(t, ports.TelemetryActionApply, h.telemetry.runFor("fix").action)
}

func TestProcess_TelemetryRecordsFailedActions(t *testing.T) {
	h := newHarness(testSet(
		testUnit("a", model.IntentApply),
	))
	h.factory.unitProcessor("a").test = func(context.Context) (*model.TestSettingsResult, error) {
		return nil, fmt.Errorf("nope")
	}

	require.NoError(t, h.processor.Process(context.Background()))

	record := h.telemetry.runFor("a")
	require.NotNil(t, record)
	require.Equal(t, ports.TelemetryActionTest, record.action)
	require.Equal(t, model.Unexpected, record.code)
}

func TestProcess_FailureSummaryCountsPerIntent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	h := newHarness(testSet(
		testUnit("a1", model.IntentAssert),
		testUnit("p1", model.IntentApply),
		testUnit("p2", model.IntentApply),
	))
	h.factory.unitProcessor("p1").test = func(context.Context) (*model.TestSettingsResult, error) {
		cancel()
		return &model.TestSettingsResult{Result: model.TestResultNegative}, nil
	}

	err := h.processor.Process(ctx)
	require.ErrorIs(t, err, context.Canceled)

	require.Len(t, h.telemetry.failureSummaries, 1)
	summaries := h.telemetry.failureSummaries[0]
	require.Len(t, summaries, 3)

	byIntent := map[model.UnitIntent]model.ProcessingSummary{}
	for _, summary := range summaries {
		byIntent[summary.Intent] = summary
	}

	require.Equal(t, 1, byIntent[model.IntentAssert].Count)
	require.Equal(t, 1, byIntent[model.IntentAssert].Run)
	require.Zero(t, byIntent[model.IntentAssert].Failed)

	require.Equal(t, 2, byIntent[model.IntentApply].Count)
	require.Equal(t, 1, byIntent[model.IntentApply].Run)
}

// setProcessorFunc adapts a function to ports.SetProcessor.
type setProcessorFunc func(ctx context.Context, unit *model.ConfigurationUnit) (ports.UnitProcessor, error)

func (f setProcessorFunc) CreateUnitProcessor(ctx context.Context, unit *model.ConfigurationUnit) (ports.UnitProcessor, error) {
	return f(ctx, unit)
}
