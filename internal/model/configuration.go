package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UnitIntent describes what a configuration unit is meant to do to the host.
type UnitIntent string

const (
	// IntentAssert checks a predicate about host state without changing it.
	IntentAssert UnitIntent = "assert"
	// IntentInform retrieves host state so it can be surfaced to the user.
	IntentInform UnitIntent = "inform"
	// IntentApply drives the host into the desired state.
	IntentApply UnitIntent = "apply"
)

// ParseUnitIntent converts a document string into a UnitIntent. An empty
// string defaults to IntentApply.
func ParseUnitIntent(s string) (UnitIntent, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return IntentApply, nil
	case "assert":
		return IntentAssert, nil
	case "inform":
		return IntentInform, nil
	case "apply":
		return IntentApply, nil
	}
	return "", fmt.Errorf("unknown unit intent %q", s)
}

// ConfigurationUnit is a single declaration inside a configuration set. The
// Settings payload is opaque to the apply engine; only the unit processor for
// the unit's Type interprets it.
type ConfigurationUnit struct {
	// Identifier is optional; units without one cannot be dependency targets.
	Identifier string
	Intent     UnitIntent
	// Type selects the unit processor that realizes this unit.
	Type         string
	Dependencies []string
	// ShouldApply is false when the user requested the unit be skipped.
	ShouldApply bool
	Settings    map[string]any
}

// ConfigurationSet is an ordered collection of units applied as one unit of
// work.
type ConfigurationSet struct {
	Name               string
	InstanceIdentifier uuid.UUID
	IsFromHistory      bool
	Units              []ConfigurationUnit
}
