// File: internal/runner/definition.go
// Description: Data-driven scenario definitions. A Definition fully determines
// the step list before execution starts, so the runner can schedule every step
// Pending up front and the step log always covers the whole scenario.
package runner

import (
	"fmt"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
)

// StepKind discriminates what a scenario step does.
type StepKind string

const (
	KindOpenDocument   StepKind = "open-document"
	KindSetupHeader    StepKind = "setup-header"
	KindLoadItinerary  StepKind = "load-itinerary"
	KindAddItinerary   StepKind = "add-itinerary"
	KindFillVisit      StepKind = "fill-visit"
	KindRefreshMetrics StepKind = "refresh-metrics"
	KindCheckpoint     StepKind = "checkpoint"
)

// VisitPlan pins the controllable parameters of one visit. Content beyond
// these pins is produced by the generator from the scenario seed. An empty
// Outcome leaves the outcome to the generator, which favors success but may
// draw any failure mode; FTR visits always resolve to Failure to Report.
type VisitPlan struct {
	Outcome      schemas.VisitOutcome
	Type         schemas.VisitType
	VehicleCount int
	ForceRedFlag bool
	// Unscheduled visits are injected through the workbook's add-unscheduled
	// entry point instead of coming from the loaded itinerary.
	Unscheduled bool
	Address     string
}

// StepDef is one step of a scenario definition. Visit is set only for
// fill-visit steps; Path only for the itinerary steps.
type StepDef struct {
	Kind        StepKind
	Description string
	Visit       *VisitPlan
	Path        string
}

// Definition is a complete executable scenario.
type Definition struct {
	Name        string
	Description string
	Steps       []StepDef
}

// Validate checks structural soundness before execution: every fill-visit
// carries a plan with a valid outcome pin and a known type, paths are present
// where required, and the definition has at least one step.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("scenario definition has no name")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("scenario %q has no steps", d.Name)
	}
	for i, step := range d.Steps {
		switch step.Kind {
		case KindOpenDocument, KindSetupHeader, KindRefreshMetrics, KindCheckpoint:
		case KindLoadItinerary, KindAddItinerary:
			// Path may be empty here; the runner falls back to the configured
			// itinerary paths.
		case KindFillVisit:
			if step.Visit == nil {
				return fmt.Errorf("scenario %q step %d: fill-visit without a visit plan", d.Name, i+1)
			}
			if err := step.Visit.validate(); err != nil {
				return fmt.Errorf("scenario %q step %d: %w", d.Name, i+1, err)
			}
		default:
			return fmt.Errorf("scenario %q step %d: unknown step kind %q", d.Name, i+1, step.Kind)
		}
	}
	return nil
}

func (p VisitPlan) validate() error {
	switch p.Outcome {
	case "", schemas.OutcomeSuccessful, schemas.OutcomeNotHome, schemas.OutcomeAccessDenied,
		schemas.OutcomeWrongAddress, schemas.OutcomeFailureToReport:
	default:
		return fmt.Errorf("unknown outcome %q", p.Outcome)
	}
	if p.Type == schemas.TypeFTR && p.Outcome == schemas.OutcomeSuccessful {
		return fmt.Errorf("FTR visits cannot be pinned successful")
	}
	switch p.Type {
	case schemas.TypeAMIntake, schemas.TypePMIntake, schemas.TypeFTR, schemas.TypeHR, schemas.TypeCM:
	default:
		return fmt.Errorf("unknown visit type %q", p.Type)
	}
	switch p.VehicleCount {
	case schemas.VehicleCountUnpinned, 0, 2, 5:
	default:
		return fmt.Errorf("vehicle count %d is not a supported pin (0, 2 or 5)", p.VehicleCount)
	}
	if p.Unscheduled && p.Address == "" {
		return fmt.Errorf("unscheduled visit needs an address")
	}
	return nil
}
