// File: internal/validator/validator.go
// Description: Independent recomputation of the document's dashboard metrics
// from the visit records the run actually entered, and comparison against the
// values the document displays.
package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
)

// Metrics is one snapshot of the dashboard counters, either recomputed from
// entered records or read back from the document.
type Metrics struct {
	TotalVisits  int
	ByOutcome    map[schemas.VisitOutcome]int
	ByType       map[schemas.VisitType]int
	WithVehicles int
	WithRedFlags int
}

// NewMetrics returns a zeroed snapshot with both maps allocated.
func NewMetrics() Metrics {
	return Metrics{
		ByOutcome: make(map[schemas.VisitOutcome]int),
		ByType:    make(map[schemas.VisitType]int),
	}
}

// Expected recomputes the dashboard metrics from first principles over the
// records entered so far. It is a pure function of its input; calling it twice
// over the same records yields the same snapshot.
func Expected(records []schemas.VisitRecord) Metrics {
	m := NewMetrics()
	for _, r := range records {
		m.TotalVisits++
		m.ByOutcome[r.Outcome]++
		m.ByType[r.Type]++
		if len(r.Vehicles) > 0 {
			m.WithVehicles++
		}
		if r.RedFlag {
			m.WithRedFlags++
		}
	}
	return m
}

// Validate compares an expected snapshot against what the document displays
// and returns every disagreement, in a fixed order: total first, then outcomes
// in canonical order, then visit types, then the vehicle and red-flag tallies.
// Validation never stops at the first mismatch.
func Validate(expected, observed Metrics) schemas.ValidationResult {
	var result schemas.ValidationResult

	check := func(metric string, want, got int) {
		if want != got {
			result.Mismatches = append(result.Mismatches, schemas.Mismatch{
				Metric:   metric,
				Expected: strconv.Itoa(want),
				Observed: strconv.Itoa(got),
			})
		}
	}

	check("total_visits", expected.TotalVisits, observed.TotalVisits)
	for _, outcome := range schemas.AllOutcomes {
		check("outcome:"+string(outcome), expected.ByOutcome[outcome], observed.ByOutcome[outcome])
	}
	for _, vt := range schemas.AllVisitTypes {
		check("type:"+string(vt), expected.ByType[vt], observed.ByType[vt])
	}
	check("with_vehicles", expected.WithVehicles, observed.WithVehicles)
	check("with_red_flags", expected.WithRedFlags, observed.WithRedFlags)

	return result
}

// ParseCount converts a dashboard cell value into a count. Spreadsheet error
// values surface as strings starting with "#" (for example "#DIV/0!" or
// "#REF!") and are rejected rather than coerced, so a broken formula shows up
// as a mismatch instead of a silent zero.
func ParseCount(cell string) (int, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, fmt.Errorf("empty metric cell")
	}
	if strings.HasPrefix(cell, "#") {
		return 0, fmt.Errorf("metric cell contains spreadsheet error value %q", cell)
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("metric cell %q is not an integer: %w", cell, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("metric cell %q is negative", cell)
	}
	return n, nil
}
