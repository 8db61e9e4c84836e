// File: internal/stride/templates.go
package stride

import (
	"fmt"

	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/sa-gridsec/gridrisk/api/schemas"
)

//go:embed templates.yaml
var templatesYAML []byte

// threatTemplate is one entry of the embedded per-component-type catalog.
type threatTemplate struct {
	Category          schemas.StrideCategory `yaml:"category"`
	Title             string                 `yaml:"title"`
	Description       string                 `yaml:"description"`
	AttackVector      string                 `yaml:"attack_vector"`
	ImpactDescription string                 `yaml:"impact_description"`
	Likelihood        int                    `yaml:"likelihood"`
	Impact            int                    `yaml:"impact"`
	Mitigations       []string               `yaml:"mitigations"`
}

// loadTemplates parses the embedded catalog and sanity-checks every entry.
func loadTemplates() (map[schemas.ComponentType][]threatTemplate, error) {
	var templates map[schemas.ComponentType][]threatTemplate
	if err := yaml.Unmarshal(templatesYAML, &templates); err != nil {
		return nil, fmt.Errorf("parsing threat templates: %w", err)
	}

	valid := make(map[schemas.StrideCategory]bool, len(schemas.StrideCategories))
	for _, c := range schemas.StrideCategories {
		valid[c] = true
	}

	for componentType, entries := range templates {
		for _, tpl := range entries {
			if !valid[tpl.Category] {
				return nil, fmt.Errorf("template %q for %s: unknown category %q",
					tpl.Title, componentType, tpl.Category)
			}
			if tpl.Likelihood < 1 || tpl.Likelihood > 5 || tpl.Impact < 1 || tpl.Impact > 5 {
				return nil, fmt.Errorf("template %q for %s: likelihood and impact must be 1-5",
					tpl.Title, componentType)
			}
		}
	}
	return templates, nil
}
