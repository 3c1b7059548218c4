package ports

import (
	"context"

	"github.com/hostwise/hostwise/internal/model"
)

// UnitProcessor realizes Test/Get/Apply for exactly one configuration unit.
// Implementations may block arbitrarily; the engine passes a context and
// expects cooperative cancellation. A non-nil error is converted into result
// information by the engine's fault extraction, so implementations may either
// encode failures in the returned result or return an error.
type UnitProcessor interface {
	// TestSettings reports whether the host already satisfies the unit.
	// The returned Result must be Positive, Negative, or Failed.
	TestSettings(ctx context.Context) (*model.TestSettingsResult, error)

	// GetSettings materializes the unit's current settings from the host.
	GetSettings(ctx context.Context) (*model.GetSettingsResult, error)

	// ApplySettings drives the host into the unit's desired state.
	ApplySettings(ctx context.Context) (*model.ApplySettingsResult, error)
}

// SetProcessor produces unit processors for the units of one configuration
// set.
type SetProcessor interface {
	CreateUnitProcessor(ctx context.Context, unit *model.ConfigurationUnit) (UnitProcessor, error)
}
