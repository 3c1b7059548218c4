package engine

import (
	"context"

	"github.com/hostwise/hostwise/internal/model"
	"github.com/hostwise/hostwise/internal/ports"
)

// processUnit drives one unit through its external unit processor and
// classifies the outcome. It returns false when the unit failed; the only
// errors it returns are cancellation faults, which unwind Process entirely.
func (p *ApplyProcessor) processUnit(ctx context.Context, ui *unitInfo) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	// From here on, any failure is attributed to this unit, including a
	// failure to construct its processor.
	ui.processed = true

	if !ui.unit.ShouldApply {
		// A failure code keeps dependents blocked, but the unit itself
		// counts as processed without flipping the phase failure flag.
		ui.result.ResultInformation.Initialize(model.ManuallySkipped, model.SourcePrecondition)
		p.sendUnitProgress(model.UnitStateSkipped, ui)
		return true, nil
	}

	p.sendUnitProgress(model.UnitStateInProgress, ui)
	defer p.sendUnitProgress(model.UnitStateCompleted, ui)

	unitProcessor, err := p.processor.CreateUnitProcessor(ctx, ui.unit)
	if err != nil {
		extractResultInformation(&ui.result.ResultInformation, err)
		return false, nil
	}

	// Creating the processor may have taken a while.
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var succeeded bool
	var action string

	switch ui.unit.Intent {
	case model.IntentAssert:
		action = ports.TelemetryActionTest
		succeeded = p.runAssert(ctx, ui, unitProcessor)

	case model.IntentInform:
		action = ports.TelemetryActionGet
		succeeded = p.runInform(ctx, ui, unitProcessor)

	case model.IntentApply:
		var fatal error
		succeeded, action, fatal = p.runApply(ctx, ui, unitProcessor)
		if fatal != nil {
			return false, fatal
		}

	default:
		action = ports.TelemetryActionTest
		ui.result.ResultInformation.Initialize(model.Unexpected, model.SourceInternal)
	}

	p.telemetry.LogConfigUnitRun(p.set.InstanceIdentifier, ui.unit, model.IntentApply, action, ui.result.ResultInformation)
	return succeeded, nil
}

// runAssert checks the unit's predicate about host state.
func (p *ApplyProcessor) runAssert(ctx context.Context, ui *unitInfo, unitProcessor ports.UnitProcessor) bool {
	test, err := unitProcessor.TestSettings(ctx)
	if err != nil {
		extractResultInformation(&ui.result.ResultInformation, err)
		return false
	}

	switch test.Result {
	case model.TestResultPositive:
		return true
	case model.TestResultNegative:
		ui.result.ResultInformation.Initialize(model.AssertionFailed, model.SourcePrecondition)
	case model.TestResultFailed:
		ui.result.ResultInformation = test.ResultInformation
	default:
		ui.result.ResultInformation.Initialize(model.Unexpected, model.SourceInternal)
	}
	return false
}

// runInform forces the processor to materialize the unit's settings. The
// settings themselves are discarded at this layer; the call is made to
// surface errors.
func (p *ApplyProcessor) runInform(ctx context.Context, ui *unitInfo, unitProcessor ports.UnitProcessor) bool {
	got, err := unitProcessor.GetSettings(ctx)
	if err != nil {
		extractResultInformation(&ui.result.ResultInformation, err)
		return false
	}

	if got.ResultInformation.Code.Succeeded() {
		return true
	}
	ui.result.ResultInformation = got.ResultInformation
	return false
}

// runApply tests first and only applies when the host is out of the desired
// state. The returned error is a cancellation fault from the check between
// testing and applying.
func (p *ApplyProcessor) runApply(ctx context.Context, ui *unitInfo, unitProcessor ports.UnitProcessor) (bool, string, error) {
	action := ports.TelemetryActionTest

	test, err := unitProcessor.TestSettings(ctx)
	if err != nil {
		extractResultInformation(&ui.result.ResultInformation, err)
		return false, action, nil
	}

	switch test.Result {
	case model.TestResultPositive:
		ui.result.PreviouslyInDesiredState = true
		return true, action, nil

	case model.TestResultNegative:
		// Testing may have taken a while; check before mutating the host.
		if err := ctx.Err(); err != nil {
			return false, action, err
		}

		action = ports.TelemetryActionApply
		applied, err := unitProcessor.ApplySettings(ctx)
		if err != nil {
			extractResultInformation(&ui.result.ResultInformation, err)
			return false, action, nil
		}
		if applied.ResultInformation.Code.Succeeded() {
			ui.result.RebootRequired = applied.RebootRequired
			return true, action, nil
		}
		ui.result.ResultInformation = applied.ResultInformation
		return false, action, nil

	case model.TestResultFailed:
		ui.result.ResultInformation = test.ResultInformation
		return false, action, nil
	}

	ui.result.ResultInformation.Initialize(model.Unexpected, model.SourceInternal)
	return false, action, nil
}
