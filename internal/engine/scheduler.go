package engine

import (
	"context"

	"github.com/hostwise/hostwise/internal/model"
)

// processAll drives the whole worklist through the three intent phases in
// their fixed order. The worklist is shared across phases; a phase that
// fails short-circuits the rest. The returned bool reports whether every
// unit was drained.
func (p *ApplyProcessor) processAll(ctx context.Context, check dependencyPredicate, drive unitDriver, sendProgress bool) (bool, error) {
	worklist := make([]int, 0, len(p.units))
	for i := range p.units {
		worklist = append(worklist, i)
	}

	// Always process every assert first.
	ok, err := p.processIntent(ctx, &worklist, check, drive, model.IntentAssert, model.AssertionFailed, model.AssertionFailed, sendProgress)
	if !ok || err != nil {
		return false, err
	}

	// Then every inform.
	ok, err = p.processIntent(ctx, &worklist, check, drive, model.IntentInform, model.DependencyUnsatisfied, model.DependencyUnsatisfied, sendProgress)
	if !ok || err != nil {
		return false, err
	}

	// Then every apply. No intents remain after this phase, so the
	// other-intent error should be unreachable.
	return p.processIntent(ctx, &worklist, check, drive, model.IntentApply, model.Unexpected, model.SetApplyFailed, sendProgress)
}

// processIntent runs one scheduling phase: repeatedly drive the first
// runnable unit of the target intent, then sweep the stragglers. Scanning
// from the front of the worklist preserves user-authored ordering between
// independent units.
func (p *ApplyProcessor) processIntent(
	ctx context.Context,
	worklist *[]int,
	check dependencyPredicate,
	drive unitDriver,
	intent model.UnitIntent,
	errorForOtherIntents model.ResultCode,
	errorForFailures model.ResultCode,
	sendProgress bool,
) (bool, error) {
	hasFailure := false

	for {
		processed := false
		for position, index := range *worklist {
			ui := p.units[index]
			if !p.hasIntentAndSatisfiedDependencies(ui, intent, check) {
				continue
			}

			ok, err := drive(ctx, ui)
			if err != nil {
				return false, err
			}
			if !ok {
				hasFailure = true
			}

			*worklist = append((*worklist)[:position], (*worklist)[position+1:]...)
			processed = true
			break
		}
		if !processed {
			break
		}
	}

	// Units of this intent still on the worklist are blocked on a
	// dependency that can no longer be satisfied.
	hasRemainingDependencies := false
	for _, index := range *worklist {
		ui := p.units[index]
		if ui.unit.Intent != intent {
			continue
		}
		hasRemainingDependencies = true
		ui.result.ResultInformation.Initialize(model.DependencyUnsatisfied, model.SourcePrecondition)
		if sendProgress {
			p.sendUnitProgress(model.UnitStateSkipped, ui)
		}
	}

	// Any failure in this phase is fatal to the set; everything of a later
	// intent is swept as skipped.
	if hasFailure || hasRemainingDependencies {
		for _, index := range *worklist {
			ui := p.units[index]
			if ui.unit.Intent == intent {
				continue
			}
			ui.result.ResultInformation.Initialize(errorForOtherIntents, model.SourcePrecondition)
			if sendProgress {
				p.sendUnitProgress(model.UnitStateSkipped, ui)
			}
		}

		if sendProgress {
			if hasFailure {
				p.latchResultCode(errorForFailures)
			} else {
				p.latchResultCode(model.DependencyUnsatisfied)
			}
		}
		return false, nil
	}

	return true, nil
}

// hasIntentAndSatisfiedDependencies reports whether the unit belongs to the
// target intent and every one of its dependencies satisfies the predicate.
func (p *ApplyProcessor) hasIntentAndSatisfiedDependencies(ui *unitInfo, intent model.UnitIntent, check dependencyPredicate) bool {
	if ui.unit.Intent != intent {
		return false
	}

	for _, index := range ui.dependencies {
		if !check(p.units[index]) {
			return false
		}
	}
	return true
}

// hasPreprocessed is the dependency predicate for the dry-run cycle check.
func hasPreprocessed(dep *unitInfo) bool {
	return dep.preProcessed
}

// markPreprocessed is the dry-run unit driver; it never fails.
func markPreprocessed(_ context.Context, ui *unitInfo) (bool, error) {
	ui.preProcessed = true
	return true, nil
}

// hasProcessedSuccessfully is the dependency predicate for the real run. A
// manually skipped unit counts as processed but not successful, so its
// dependents stay blocked.
func hasProcessedSuccessfully(dep *unitInfo) bool {
	return dep.processed && dep.result.ResultInformation.Code.Succeeded()
}
