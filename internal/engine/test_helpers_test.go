package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/hostwise/hostwise/internal/model"
	"github.com/hostwise/hostwise/internal/ports"
)

// fakeUnitProcessor scripts Test/Get/Apply behavior per unit and counts
// invocations.
type fakeUnitProcessor struct {
	test  func(ctx context.Context) (*model.TestSettingsResult, error)
	get   func(ctx context.Context) (*model.GetSettingsResult, error)
	apply func(ctx context.Context) (*model.ApplySettingsResult, error)

	testCalls  int
	getCalls   int
	applyCalls int
}

func (f *fakeUnitProcessor) TestSettings(ctx context.Context) (*model.TestSettingsResult, error) {
	f.testCalls++
	if f.test != nil {
		return f.test(ctx)
	}
	return &model.TestSettingsResult{Result: model.TestResultPositive}, nil
}

func (f *fakeUnitProcessor) GetSettings(ctx context.Context) (*model.GetSettingsResult, error) {
	f.getCalls++
	if f.get != nil {
		return f.get(ctx)
	}
	return &model.GetSettingsResult{}, nil
}

func (f *fakeUnitProcessor) ApplySettings(ctx context.Context) (*model.ApplySettingsResult, error) {
	f.applyCalls++
	if f.apply != nil {
		return f.apply(ctx)
	}
	return &model.ApplySettingsResult{}, nil
}

// fakeSetProcessor hands out fakeUnitProcessors keyed by unit identifier,
// creating default ones on demand.
type fakeSetProcessor struct {
	processors map[string]*fakeUnitProcessor
	createErr  map[string]error
	created    []string
}

func newFakeSetProcessor() *fakeSetProcessor {
	return &fakeSetProcessor{
		processors: make(map[string]*fakeUnitProcessor),
		createErr:  make(map[string]error),
	}
}

func (f *fakeSetProcessor) CreateUnitProcessor(_ context.Context, unit *model.ConfigurationUnit) (ports.UnitProcessor, error) {
	f.created = append(f.created, unit.Identifier)

	if err := f.createErr[unit.Identifier]; err != nil {
		return nil, err
	}

	processor, exists := f.processors[unit.Identifier]
	if !exists {
		processor = &fakeUnitProcessor{}
		f.processors[unit.Identifier] = processor
	}
	return processor, nil
}

// unitProcessor returns (creating if needed) the scripted processor for id.
func (f *fakeSetProcessor) unitProcessor(id string) *fakeUnitProcessor {
	processor, exists := f.processors[id]
	if !exists {
		processor = &fakeUnitProcessor{}
		f.processors[id] = processor
	}
	return processor
}

// recordingProgress captures every event in order and optionally panics to
// exercise the sink isolation contract.
type recordingProgress struct {
	events    []model.ChangeEvent
	result    *model.ApplySetResult
	panicking bool
}

func (r *recordingProgress) Progress(event model.ChangeEvent) {
	if r.panicking {
		panic("progress sink exploded")
	}
	r.events = append(r.events, event)
}

func (r *recordingProgress) Result(result *model.ApplySetResult) {
	r.result = result
}

// unitEvents returns the events emitted for the unit with the given
// identifier, in order.
func (r *recordingProgress) unitEvents(id string) []model.ChangeEvent {
	var out []model.ChangeEvent
	for _, event := range r.events {
		if event.IsUnitEvent() && event.Unit.Identifier == id {
			out = append(out, event)
		}
	}
	return out
}

// setEvents returns the set-level events, in order.
func (r *recordingProgress) setEvents() []model.SetState {
	var out []model.SetState
	for _, event := range r.events {
		if !event.IsUnitEvent() {
			out = append(out, event.SetState)
		}
	}
	return out
}

// eventIndex returns the position of the first event for id with the given
// state, or -1.
func (r *recordingProgress) eventIndex(id string, state model.UnitState) int {
	for i, event := range r.events {
		if event.IsUnitEvent() && event.Unit.Identifier == id && event.UnitState == state {
			return i
		}
	}
	return -1
}

type unitRunRecord struct {
	unitID string
	action string
	code   model.ResultCode
}

// recordingTelemetry captures unit runs and processing summaries.
type recordingTelemetry struct {
	unitRuns         []unitRunRecord
	failureSummaries [][]model.ProcessingSummary
	failureErrs      []error
	applySummaries   int
}

func (r *recordingTelemetry) LogConfigUnitRun(_ uuid.UUID, unit *model.ConfigurationUnit, _ model.UnitIntent, action string, info model.ResultInformation) {
	r.unitRuns = append(r.unitRuns, unitRunRecord{unitID: unit.Identifier, action: action, code: info.Code})
}

func (r *recordingTelemetry) LogConfigProcessingSummary(_ uuid.UUID, _ bool, _ model.UnitIntent, runErr error, _ model.ResultSource, summaries ...model.ProcessingSummary) {
	r.failureErrs = append(r.failureErrs, runErr)
	r.failureSummaries = append(r.failureSummaries, summaries)
}

func (r *recordingTelemetry) LogConfigProcessingSummaryForApply(*model.ConfigurationSet, *model.ApplySetResult) {
	r.applySummaries++
}

func (r *recordingTelemetry) runFor(id string) *unitRunRecord {
	for i := range r.unitRuns {
		if r.unitRuns[i].unitID == id {
			return &r.unitRuns[i]
		}
	}
	return nil
}

// testUnit builds an apply-able unit with the given identifier, intent, and
// dependencies.
func testUnit(id string, intent model.UnitIntent, deps ...string) model.ConfigurationUnit {
	return model.ConfigurationUnit{
		Identifier:   id,
		Intent:       intent,
		Type:         "fake",
		Dependencies: deps,
		ShouldApply:  true,
	}
}

func testSet(units ...model.ConfigurationUnit) *model.ConfigurationSet {
	return &model.ConfigurationSet{
		Name:               "test set",
		InstanceIdentifier: uuid.New(),
		Units:              units,
	}
}

// harness bundles a processor with its recording collaborators.
type harness struct {
	set       *model.ConfigurationSet
	factory   *fakeSetProcessor
	progress  *recordingProgress
	telemetry *recordingTelemetry
	processor *ApplyProcessor
}

func newHarness(set *model.ConfigurationSet) *harness {
	factory := newFakeSetProcessor()
	progress := &recordingProgress{}
	telemetry := &recordingTelemetry{}

	return &harness{
		set:       set,
		factory:   factory,
		progress:  progress,
		telemetry: telemetry,
		processor: NewApplyProcessor(set, factory, progress, telemetry, nil),
	}
}
