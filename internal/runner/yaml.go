// File: internal/runner/yaml.go
// Description: YAML loader for user-authored scenario definitions. The file
// schema mirrors the built-in catalog; an omitted vehicle_count means
// unpinned, which is distinct from pinning it to zero, and an omitted outcome
// leaves the outcome draw to the generator.
package runner

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
)

type scenarioFile struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Steps       []stepFile `yaml:"steps"`
}

type stepFile struct {
	Kind        string     `yaml:"kind"`
	Description string     `yaml:"description"`
	Path        string     `yaml:"path"`
	Visit       *visitFile `yaml:"visit"`
}

type visitFile struct {
	Outcome      string `yaml:"outcome"`
	Type         string `yaml:"type"`
	VehicleCount *int   `yaml:"vehicle_count"`
	ForceRedFlag bool   `yaml:"force_red_flag"`
	Unscheduled  bool   `yaml:"unscheduled"`
	Address      string `yaml:"address"`
}

// LoadDefinition reads and validates a scenario definition from a YAML file.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Definition{}, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}

	def := Definition{
		Name:        f.Name,
		Description: f.Description,
	}
	for _, s := range f.Steps {
		step := StepDef{
			Kind:        StepKind(s.Kind),
			Description: s.Description,
			Path:        s.Path,
		}
		if s.Visit != nil {
			count := schemas.VehicleCountUnpinned
			if s.Visit.VehicleCount != nil {
				count = *s.Visit.VehicleCount
			}
			step.Visit = &VisitPlan{
				Outcome:      schemas.VisitOutcome(s.Visit.Outcome),
				Type:         schemas.VisitType(s.Visit.Type),
				VehicleCount: count,
				ForceRedFlag: s.Visit.ForceRedFlag,
				Unscheduled:  s.Visit.Unscheduled,
				Address:      s.Visit.Address,
			}
		}
		def.Steps = append(def.Steps, step)
	}

	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}
