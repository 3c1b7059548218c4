package processors

import (
	"gopkg.in/yaml.v3"
)

// DecodeSettings converts a unit's opaque settings payload into a typed
// configuration struct by round-tripping through YAML, so processor packages
// declare their schemas with the same tags as the document layer.
func DecodeSettings(settings map[string]any, out any) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}
