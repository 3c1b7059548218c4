package model

// ChangeEvent is a single progress notification emitted while applying a
// configuration set. Set-level events carry only SetState; unit-level events
// carry the unit, its state, and a snapshot of its result information.
type ChangeEvent struct {
	SetState          SetState
	UnitState         UnitState
	Unit              *ConfigurationUnit
	ResultInformation ResultInformation
}

// NewSetChange builds a set-level change event.
func NewSetChange(state SetState) ChangeEvent {
	return ChangeEvent{SetState: state}
}

// NewUnitChange builds a unit-level change event with a snapshot of the
// unit's result information.
func NewUnitChange(state UnitState, unit *ConfigurationUnit, info ResultInformation) ChangeEvent {
	return ChangeEvent{UnitState: state, Unit: unit, ResultInformation: info}
}

// IsUnitEvent reports whether the event concerns a single unit rather than
// the whole set.
func (e ChangeEvent) IsUnitEvent() bool {
	return e.Unit != nil
}
