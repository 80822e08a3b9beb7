// File: api/schemas/report.go
package schemas

import "time"

// Verdict is the rolled-up outcome of one scenario: Aborted if any step
// errored, Failed if any checkpoint failed, Passed otherwise.
type Verdict string

const (
	VerdictPassed  Verdict = "PASSED"
	VerdictFailed  Verdict = "FAILED"
	VerdictAborted Verdict = "ABORTED"
)

// ScenarioResult pairs a finished scenario with its rolled-up verdict.
type ScenarioResult struct {
	Scenario *Scenario `json:"scenario"`
	Overall  Verdict   `json:"overall"`
}

// TestReport aggregates the results of one run across one or more scenarios.
// It is built once by the report builder and written out as-is; step ordering
// and evidence references are preserved verbatim for rendering.
type TestReport struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Scenarios   []ScenarioResult `json:"scenarios"`
	Passed      int              `json:"passed"`
	Failed      int              `json:"failed"`
	Aborted     int              `json:"aborted"`
}

// PassRate is the fraction of non-aborted scenarios that passed. Aborted runs
// are not evidence either way, so they are excluded from the denominator.
func (r *TestReport) PassRate() float64 {
	denom := r.Passed + r.Failed
	if denom == 0 {
		return 0
	}
	return float64(r.Passed) / float64(denom)
}
