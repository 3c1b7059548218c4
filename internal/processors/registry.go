package processors

import (
	"context"

	"github.com/hostwise/hostwise/internal/logger"
	"github.com/hostwise/hostwise/internal/model"
	"github.com/hostwise/hostwise/internal/ports"
	hosterrors "github.com/hostwise/hostwise/pkg/errors"
)

// Factory builds unit processors for one unit type.
type Factory interface {
	// Type returns the unit type this factory serves.
	Type() string

	// Create builds a processor bound to the given unit's settings.
	Create(ctx context.Context, unit *model.ConfigurationUnit) (ports.UnitProcessor, error)
}

// Registry is a set processor that dispatches unit-processor construction by
// unit type.
type Registry struct {
	log       *logger.Logger
	factories map[string]Factory
}

// NewRegistry creates an empty processor registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		log:       log,
		factories: make(map[string]Factory),
	}
}

// Register adds a factory. Registering the same type twice is an error.
func (r *Registry) Register(factory Factory) error {
	unitType := factory.Type()
	if _, exists := r.factories[unitType]; exists {
		return hosterrors.NewValidationError("processors", "duplicate processor type "+unitType, nil)
	}
	r.factories[unitType] = factory
	return nil
}

// Types returns the registered unit types.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for unitType := range r.factories {
		types = append(types, unitType)
	}
	return types
}

// CreateUnitProcessor implements ports.SetProcessor.
func (r *Registry) CreateUnitProcessor(ctx context.Context, unit *model.ConfigurationUnit) (ports.UnitProcessor, error) {
	factory, found := r.factories[unit.Type]
	if !found {
		return nil, hosterrors.NewProcessorNotFoundError(unit.Type)
	}

	r.log.WithUnit(unit.Identifier, unit.Type).Debug("creating unit processor")
	return factory.Create(ctx, unit)
}
