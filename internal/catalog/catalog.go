// Package catalog holds the static generation-model catalog. Order matters:
// the orchestrator walks it front to back, so the catalog lists the
// cheapest/fastest model first and the most capable last.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed models.yaml
var modelsYAML []byte

// Model describes one generation model and its free-tier rate limits.
type Model struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	RPM   int    `yaml:"rpm"`
	RPD   int    `yaml:"rpd"`
	TPM   int    `yaml:"tpm"`
}

// Load parses a model catalog from YAML.
func Load(data []byte) ([]Model, error) {
	var doc struct {
		Models []Model `yaml:"models"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse model catalog: %w", err)
	}
	if len(doc.Models) == 0 {
		return nil, fmt.Errorf("model catalog is empty")
	}
	for _, m := range doc.Models {
		if m.ID == "" || m.RPM <= 0 || m.RPD <= 0 {
			return nil, fmt.Errorf("model catalog entry %q is missing id or limits", m.ID)
		}
	}
	return doc.Models, nil
}

// Default returns the built-in catalog. The embedded document is part of the
// build, so a parse failure is a programmer error and panics.
func Default() []Model {
	models, err := Load(modelsYAML)
	if err != nil {
		panic(err)
	}
	return models
}
