package config

import (
	"fmt"
	"os"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"gopkg.in/yaml.v3"
)

// LoadComposition reads a flat YAML mapping of element name to current mass
// (kg) and returns it as a Composition. Unknown element names and negative
// masses are rejected outright rather than silently dropped.
func LoadComposition(path string) (blend.Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read composition file: %w", err)
	}

	raw := make(map[string]float64)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("composition file must map element names to masses: %w", err)
	}

	comp := make(blend.Composition, len(raw))
	for name, mass := range raw {
		e, err := blend.ParseElement(name)
		if err != nil {
			return nil, fmt.Errorf("composition file: %w", err)
		}
		if mass < 0 {
			return nil, fmt.Errorf("composition file: element %s has negative mass %v", e, mass)
		}
		comp[e] = mass
	}
	return comp, nil
}
