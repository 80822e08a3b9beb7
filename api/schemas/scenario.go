// File: api/schemas/scenario.go
package schemas

import "time"

// StepStatus is the lifecycle state of a single scenario step.
type StepStatus string

const (
	StepPending StepStatus = "PENDING"
	StepRunning StepStatus = "RUNNING"
	StepPassed  StepStatus = "PASSED"
	StepFailed  StepStatus = "FAILED"
	StepError   StepStatus = "ERROR"
)

// ScenarioStatus is the lifecycle state of a scenario run.
type ScenarioStatus string

const (
	ScenarioNotStarted ScenarioStatus = "NOT_STARTED"
	ScenarioRunning    ScenarioStatus = "RUNNING"
	ScenarioCompleted  ScenarioStatus = "COMPLETED"
	ScenarioAborted    ScenarioStatus = "ABORTED"
)

// ScenarioStep is one scheduled unit of work within a scenario. It is created
// Pending when the runner schedules the scenario and completed exactly once;
// a step whose scenario aborts early stays Pending in the log.
type ScenarioStep struct {
	Description string     `json:"description"`
	Action      string     `json:"action"`
	Status      StepStatus `json:"status"`
	Timestamp   time.Time  `json:"timestamp,omitempty"`
	EvidenceRef string     `json:"evidence_ref,omitempty"`
	Detail      string     `json:"detail,omitempty"`
}

// Scenario is the ordered step log of one scenario run. It is owned
// exclusively by the runner during execution and read-only afterwards.
type Scenario struct {
	Name       string         `json:"name"`
	Status     ScenarioStatus `json:"status"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Steps      []ScenarioStep `json:"steps"`
}

// Duration returns the wall-clock length of the run.
func (s *Scenario) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Mismatch is one disagreement between a recomputed metric and the value the
// document displays.
type Mismatch struct {
	Metric   string `json:"metric"`
	Expected string `json:"expected"`
	Observed string `json:"observed"`
}

// ValidationResult is the complete, ordered mismatch list from one checkpoint.
// An empty list means the checkpoint passed.
type ValidationResult struct {
	Mismatches []Mismatch `json:"mismatches"`
}

// OK reports whether the checkpoint found no discrepancies.
func (v ValidationResult) OK() bool { return len(v.Mismatches) == 0 }
