package engine

import (
	"context"

	"golang.org/x/text/cases"

	"github.com/hostwise/hostwise/internal/logger"
	"github.com/hostwise/hostwise/internal/model"
	"github.com/hostwise/hostwise/internal/ports"
)

// unitInfo is the engine's per-unit bookkeeping. It lives for exactly one
// Process call.
type unitInfo struct {
	unit *model.ConfigurationUnit
	// dependencies holds indices into ApplyProcessor.units, resolved during
	// preprocessing.
	dependencies []int
	// preProcessed is only touched by the dry-run cycle check.
	preProcessed bool
	// processed flips before the unit processor is constructed so any
	// failure from that point on is attributed to this unit.
	processed bool
	result    *model.ApplyUnitResult
}

// dependencyPredicate reports whether a dependency unit counts as satisfied.
type dependencyPredicate func(dep *unitInfo) bool

// unitDriver advances one unit. It returns false when the unit failed; a
// non-nil error is fatal and unwinds the whole Process call.
type unitDriver func(ctx context.Context, ui *unitInfo) (bool, error)

// ApplyProcessor validates a configuration set, resolves dependencies,
// orders execution by intent, drives each unit through its external unit
// processor, reports streaming progress, and aggregates a final result.
//
// Process is single-threaded and synchronous; all blocking happens inside
// the external unit processors.
type ApplyProcessor struct {
	set       *model.ConfigurationSet
	processor ports.SetProcessor
	progress  ports.ApplyProgress
	telemetry ports.Telemetry
	log       *logger.Logger

	units []*unitInfo
	// idToIndex maps the case-folded identifier to the first unit that
	// claimed it.
	idToIndex map[string]int
	result    *model.ApplySetResult
}

// NewApplyProcessor builds a processor for one configuration set. The result
// object, with one slot per unit in input order, is created here and handed
// to the progress channel so callers observe per-unit outcomes as they land.
func NewApplyProcessor(
	set *model.ConfigurationSet,
	setProcessor ports.SetProcessor,
	progress ports.ApplyProgress,
	telemetry ports.Telemetry,
	log *logger.Logger,
) *ApplyProcessor {
	if progress == nil {
		progress = noopProgress{}
	}
	if telemetry == nil {
		telemetry = noopTelemetry{}
	}

	p := &ApplyProcessor{
		set:       set,
		processor: setProcessor,
		progress:  progress,
		telemetry: telemetry,
		log:       log,
		idToIndex: make(map[string]int, len(set.Units)),
		result:    &model.ApplySetResult{InstanceIdentifier: set.InstanceIdentifier},
	}

	for i := range set.Units {
		unit := &set.Units[i]
		ui := &unitInfo{
			unit: unit,
			result: &model.ApplyUnitResult{
				Unit:  unit,
				State: model.UnitStatePending,
			},
		}
		p.units = append(p.units, ui)
		p.result.UnitResults = append(p.result.UnitResults, ui.result)
	}

	p.progress.Result(p.result)
	return p
}

// Result returns the aggregated set result. It is valid from construction
// onward and mutated in place while Process runs.
func (p *ApplyProcessor) Result() *model.ApplySetResult {
	return p.result
}

// Validate runs only the structural preprocessing phases — identifier
// uniqueness, dependency resolution, and cycle detection — without driving
// any unit. The returned result carries the latched code and the per-unit
// annotations.
func (p *ApplyProcessor) Validate(ctx context.Context) *model.ApplySetResult {
	p.preProcess(ctx)
	return p.result
}

// Process runs preprocessing and, if the set is valid, the three intent
// phases. It returns a non-nil error only for process-level faults such as
// cancellation; structural and per-unit failures are reported through the
// set result instead.
func (p *ApplyProcessor) Process(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			p.telemetry.LogConfigProcessingSummary(
				p.set.InstanceIdentifier,
				p.set.IsFromHistory,
				model.IntentApply,
				err,
				model.SourceInternal,
				p.processingSummaryFor(model.IntentAssert),
				p.processingSummaryFor(model.IntentInform),
				p.processingSummaryFor(model.IntentApply))
		}
	}()

	if p.preProcess(ctx) {
		p.sendSetProgress(model.SetStateInProgress)

		if _, err = p.processAll(ctx, hasProcessedSuccessfully, p.processUnit, true); err != nil {
			return err
		}
	}

	p.sendSetProgress(model.SetStateCompleted)
	p.telemetry.LogConfigProcessingSummaryForApply(p.set, p.result)
	return nil
}

// preProcess builds the identifier table, resolves dependencies, and checks
// for cycles. It returns false when the set is structurally invalid, with
// the corresponding code latched on the set result.
func (p *ApplyProcessor) preProcess(ctx context.Context) bool {
	ok := true
	for i, ui := range p.units {
		if !p.addUnitToTable(ui, i) {
			ok = false
		}
	}
	if !ok {
		// The only error the identifier table can produce.
		p.latchResultCode(model.DuplicateIdentifier)
		return false
	}

	for _, ui := range p.units {
		for _, dependency := range ui.unit.Dependencies {
			if dependency == "" {
				continue
			}

			index, found := p.idToIndex[normalizeIdentifier(dependency)]
			if !found {
				p.log.Warn("found missing dependency", "dependency", dependency)
				ui.result.ResultInformation.Initialize(model.MissingDependency, model.SourceConfigurationSet)
				ui.result.ResultInformation.Details = dependency
				p.sendUnitProgress(model.UnitStateCompleted, ui)
				ok = false
				// Only the first missing dependency per unit is collected.
				break
			}
			ui.dependencies = append(ui.dependencies, index)
		}
	}
	if !ok {
		p.latchResultCode(model.MissingDependency)
		return false
	}

	// The dry run simulates processing as if every unit succeeded. If the
	// scheduler cannot drain the worklist under those terms, some dependency
	// chain can never be satisfied, which means a cycle.
	if drained, _ := p.processAll(ctx, hasPreprocessed, markPreprocessed, false); !drained {
		p.latchResultCode(model.SetDependencyCycle)
		return false
	}

	return true
}

// addUnitToTable claims the unit's case-folded identifier in the identifier
// table. On a collision both the incumbent and the newcomer are marked and
// completed, and false is returned.
func (p *ApplyProcessor) addUnitToTable(ui *unitInfo, index int) bool {
	if ui.unit.Identifier == "" {
		return true
	}

	identifier := normalizeIdentifier(ui.unit.Identifier)

	if existing, found := p.idToIndex[identifier]; found {
		p.log.Warn("found duplicate identifier", "identifier", identifier)
		incumbent := p.units[existing]
		incumbent.result.ResultInformation.Initialize(model.DuplicateIdentifier, model.SourceConfigurationSet)
		p.sendUnitProgressIfNotComplete(model.UnitStateCompleted, incumbent)
		ui.result.ResultInformation.Initialize(model.DuplicateIdentifier, model.SourceConfigurationSet)
		p.sendUnitProgress(model.UnitStateCompleted, ui)
		return false
	}

	p.idToIndex[identifier] = index
	return true
}

// latchResultCode assigns the set-level result code. The first non-success
// code wins; later failures stay per-unit.
func (p *ApplyProcessor) latchResultCode(code model.ResultCode) {
	if !p.result.ResultCode.Succeeded() {
		return
	}
	p.result.ResultCode = code
}

// processingSummaryFor counts the units of one intent for telemetry.
func (p *ApplyProcessor) processingSummaryFor(intent model.UnitIntent) model.ProcessingSummary {
	summary := model.ProcessingSummary{Intent: intent}

	for _, ui := range p.units {
		if ui.unit.Intent != intent {
			continue
		}
		summary.Count++
		if ui.processed {
			summary.Run++
			if !ui.result.ResultInformation.Code.Succeeded() {
				summary.Failed++
			}
		}
	}

	return summary
}

// normalizeIdentifier case-folds an identifier so lookups are
// case-insensitive across the full Unicode range.
func normalizeIdentifier(identifier string) string {
	return cases.Fold().String(identifier)
}
