// File: internal/runner/builtin.go
// Description: The built-in scenario catalog. Each definition pins outcomes,
// vehicle counts, and red-flag placement so a run exercises every dashboard
// metric at least once.
package runner

import (
	"fmt"
	"sort"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
)

func plan(outcome schemas.VisitOutcome, vt schemas.VisitType, vehicles int, flag bool) *VisitPlan {
	return &VisitPlan{Outcome: outcome, Type: vt, VehicleCount: vehicles, ForceRedFlag: flag}
}

func fill(n int, p *VisitPlan) StepDef {
	return StepDef{
		Kind:        KindFillVisit,
		Description: fmt.Sprintf("Fill visit %d (%s, %s)", n, p.Type, p.Outcome),
		Visit:       p,
	}
}

var openingSteps = []StepDef{
	{Kind: KindOpenDocument, Description: "Open workbook in test mode"},
	{Kind: KindSetupHeader, Description: "Set up officer header"},
	{Kind: KindLoadItinerary, Description: "Load day itinerary"},
}

func closingSteps() []StepDef {
	return []StepDef{
		{Kind: KindRefreshMetrics, Description: "Refresh metrics dashboard"},
		{Kind: KindCheckpoint, Description: "Validate metrics dashboard"},
	}
}

// normalDay is the baseline scenario: five scheduled visits covering three
// successful visits with 2, 5 and 0 vehicles, one denied entry, and one
// not-home, with two red flags among the successful visits.
func normalDay() Definition {
	steps := append([]StepDef{}, openingSteps...)
	steps = append(steps,
		fill(1, plan(schemas.OutcomeSuccessful, schemas.TypeAMIntake, 2, false)),
		fill(2, plan(schemas.OutcomeSuccessful, schemas.TypeHR, 5, true)),
		fill(3, plan(schemas.OutcomeSuccessful, schemas.TypeCM, 0, true)),
		fill(4, plan(schemas.OutcomeAccessDenied, schemas.TypePMIntake, schemas.VehicleCountUnpinned, false)),
		fill(5, plan(schemas.OutcomeNotHome, schemas.TypeFTR, schemas.VehicleCountUnpinned, false)),
	)
	steps = append(steps, closingSteps()...)
	return Definition{
		Name:        "normal-day",
		Description: "Five scheduled visits with a full metrics validation at end of day",
		Steps:       steps,
	}
}

// midDayUpdate runs a morning block, validates, merges an updated itinerary,
// runs the afternoon block, and validates again. The first checkpoint proves
// the dashboard is correct before the merge changes the schedule.
func midDayUpdate() Definition {
	steps := append([]StepDef{}, openingSteps...)
	steps = append(steps,
		fill(1, plan(schemas.OutcomeSuccessful, schemas.TypeAMIntake, 2, false)),
		fill(2, plan(schemas.OutcomeSuccessful, schemas.TypeHR, 5, true)),
		fill(3, plan(schemas.OutcomeSuccessful, schemas.TypeCM, 0, true)),
		fill(4, plan(schemas.OutcomeAccessDenied, schemas.TypePMIntake, schemas.VehicleCountUnpinned, false)),
		fill(5, plan(schemas.OutcomeNotHome, schemas.TypeFTR, schemas.VehicleCountUnpinned, false)),
	)
	steps = append(steps, closingSteps()...)
	steps = append(steps, StepDef{Kind: KindAddItinerary, Description: "Merge updated itinerary"})
	steps = append(steps,
		fill(6, plan(schemas.OutcomeSuccessful, schemas.TypePMIntake, 2, false)),
		fill(7, plan(schemas.OutcomeWrongAddress, schemas.TypeCM, schemas.VehicleCountUnpinned, false)),
		fill(8, plan(schemas.OutcomeSuccessful, schemas.TypeHR, 0, false)),
	)
	steps = append(steps, closingSteps()...)
	return Definition{
		Name:        "mid-day-update",
		Description: "Morning visits, itinerary merge at midday, afternoon visits, validation after each block",
		Steps:       steps,
	}
}

// unscheduledVisit injects a visit that is not on the loaded itinerary and
// checks the dashboard still reconciles.
func unscheduledVisit() Definition {
	steps := append([]StepDef{}, openingSteps...)
	steps = append(steps,
		fill(1, plan(schemas.OutcomeSuccessful, schemas.TypeAMIntake, 2, false)),
		fill(2, plan(schemas.OutcomeNotHome, schemas.TypeHR, schemas.VehicleCountUnpinned, false)),
	)
	unsched := plan(schemas.OutcomeSuccessful, schemas.TypeCM, 2, false)
	unsched.Unscheduled = true
	unsched.Address = "3457 Cedar Springs Rd, Dallas, TX 75219"
	steps = append(steps, StepDef{
		Kind:        KindFillVisit,
		Description: "Add and fill unscheduled visit 3",
		Visit:       unsched,
	})
	steps = append(steps, closingSteps()...)
	return Definition{
		Name:        "unscheduled-visit",
		Description: "Two scheduled visits plus one unscheduled walk-up, validated at end",
		Steps:       steps,
	}
}

// Builtin returns the named built-in scenario definition.
func Builtin(name string) (Definition, error) {
	defs := builtins()
	def, ok := defs[name]
	if !ok {
		return Definition{}, fmt.Errorf("unknown scenario %q (available: %v)", name, BuiltinNames())
	}
	return def, nil
}

// BuiltinNames lists the built-in scenarios in stable order.
func BuiltinNames() []string {
	defs := builtins()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func builtins() map[string]Definition {
	return map[string]Definition{
		"normal-day":        normalDay(),
		"mid-day-update":    midDayUpdate(),
		"unscheduled-visit": unscheduledVisit(),
	}
}
