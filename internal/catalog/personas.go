package catalog

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"
)

// Persona is one evaluator profile from personas.yaml. The system prompt
// frames how that persona reads a proposal.
type Persona struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Examples     []string `yaml:"examples"`
	SystemPrompt string   `yaml:"system_prompt"`
}

// LoadPersonas reads personas.yaml. A missing file yields an empty roster.
func (s *Store) LoadPersonas() ([]Persona, error) {
	data, err := os.ReadFile(s.PersonasPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading personas: %w", err)
	}

	var doc struct {
		Personas []Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing personas: %w", err)
	}
	return doc.Personas, nil
}
