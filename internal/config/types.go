package config

import (
	"gopkg.in/yaml.v3"

	"github.com/google/uuid"

	"github.com/hostwise/hostwise/internal/model"
)

// Document represents a full configuration-set document.
type Document struct {
	Version string `yaml:"version" validate:"required,semver"`
	Name    string `yaml:"name" validate:"required,min=1,max=100"`
	Units   []Unit `yaml:"units" validate:"required,min=1,dive"`
}

// Unit describes a single configuration unit in the document. The `with`
// payload is opaque here; only the unit processor for the unit's type
// interprets it.
//
// Identifiers are deliberately not checked for uniqueness at this layer: the
// apply engine owns duplicate detection, and its per-unit results and events
// are part of the processing contract.
type Unit struct {
	ID        string         `yaml:"id,omitempty"`
	Intent    string         `yaml:"intent,omitempty" validate:"omitempty,oneof=assert inform apply"`
	Type      string         `yaml:"type" validate:"required"`
	DependsOn []string       `yaml:"depends_on,omitempty"`
	Apply     bool           `yaml:"apply,omitempty"`
	With      map[string]any `yaml:"with,omitempty"`
}

// UnmarshalYAML applies the unit default: apply is true unless stated
// otherwise. An omitted intent is left empty here; ConfigurationSet reads it
// as "apply".
func (u *Unit) UnmarshalYAML(value *yaml.Node) error {
	type rawUnit struct {
		ID        string         `yaml:"id"`
		Intent    string         `yaml:"intent"`
		Type      string         `yaml:"type"`
		DependsOn []string       `yaml:"depends_on"`
		Apply     *bool          `yaml:"apply"`
		With      map[string]any `yaml:"with"`
	}

	var raw rawUnit
	if err := value.Decode(&raw); err != nil {
		return err
	}

	u.ID = raw.ID
	u.Intent = raw.Intent
	u.Type = raw.Type
	u.DependsOn = append([]string(nil), raw.DependsOn...)
	u.With = raw.With
	if raw.Apply != nil {
		u.Apply = *raw.Apply
	} else {
		u.Apply = true
	}

	return nil
}

// ConfigurationSet converts the document into the domain model, assigning a
// fresh instance identifier.
func (d *Document) ConfigurationSet() (*model.ConfigurationSet, error) {
	set := &model.ConfigurationSet{
		Name:               d.Name,
		InstanceIdentifier: uuid.New(),
	}

	for _, unit := range d.Units {
		intent, err := model.ParseUnitIntent(unit.Intent)
		if err != nil {
			return nil, err
		}

		set.Units = append(set.Units, model.ConfigurationUnit{
			Identifier:   unit.ID,
			Intent:       intent,
			Type:         unit.Type,
			Dependencies: append([]string(nil), unit.DependsOn...),
			ShouldApply:  unit.Apply,
			Settings:     unit.With,
		})
	}

	return set, nil
}
