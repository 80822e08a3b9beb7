// File: internal/reporting/reporter_test.go
package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
)

func fixedReporter(dir string) *Reporter {
	r := New(dir)
	r.now = func() time.Time { return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC) }
	r.newRunID = func() string { return "run-fixed" }
	return r
}

func passedScenario() *schemas.Scenario {
	return &schemas.Scenario{
		Name:       "normal-day",
		Status:     schemas.ScenarioCompleted,
		StartedAt:  time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 14, 10, 5, 0, 0, time.UTC),
		Steps: []schemas.ScenarioStep{
			{
				Description: "Open workbook in test mode",
				Action:      "open-document",
				Status:      schemas.StepPassed,
				Timestamp:   time.Date(2026, 3, 14, 10, 0, 1, 0, time.UTC),
			},
			{
				Description: "Validate metrics dashboard",
				Action:      "checkpoint",
				Status:      schemas.StepPassed,
				Timestamp:   time.Date(2026, 3, 14, 10, 4, 30, 0, time.UTC),
				EvidenceRef: "evidence/001_validate_metrics_dashboard_100430.png",
			},
		},
	}
}

func abortedScenario() *schemas.Scenario {
	return &schemas.Scenario{
		Name:       "mid-day-update",
		Status:     schemas.ScenarioAborted,
		StartedAt:  time.Date(2026, 3, 14, 10, 6, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 14, 10, 7, 0, 0, time.UTC),
		Steps: []schemas.ScenarioStep{
			{
				Description: "Open workbook in test mode",
				Action:      "open-document",
				Status:      schemas.StepError,
				Timestamp:   time.Date(2026, 3, 14, 10, 6, 1, 0, time.UTC),
				Detail:      "automation: open: browser did not start",
			},
			{
				Description: "Set up officer header",
				Action:      "setup-header",
				Status:      schemas.StepPending,
			},
		},
	}
}

func failedScenario() *schemas.Scenario {
	s := passedScenario()
	s.Name = "unscheduled-visit"
	s.Steps[1].Status = schemas.StepFailed
	s.Steps[1].Detail = "metric validation failed: total_visits: expected 3, observed 2"
	return s
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, schemas.VerdictPassed, Verdict(passedScenario()))
	assert.Equal(t, schemas.VerdictFailed, Verdict(failedScenario()))
	assert.Equal(t, schemas.VerdictAborted, Verdict(abortedScenario()))
}

func TestVerdictAbortPrecedesFailure(t *testing.T) {
	s := abortedScenario()
	s.Steps[0].Status = schemas.StepFailed
	s.Steps = append(s.Steps, schemas.ScenarioStep{Description: "later", Status: schemas.StepError})
	assert.Equal(t, schemas.VerdictAborted, Verdict(s))
}

func TestBuildCounters(t *testing.T) {
	r := fixedReporter(t.TempDir())
	report := r.Build([]*schemas.Scenario{passedScenario(), failedScenario(), abortedScenario()})

	assert.Equal(t, "run-fixed", report.RunID)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Aborted)
	assert.InDelta(t, 0.5, report.PassRate(), 1e-9, "aborted scenarios are excluded from the pass rate")
}

func TestPassRateEmptyReport(t *testing.T) {
	r := fixedReporter(t.TempDir())
	report := r.Build(nil)
	assert.Zero(t, report.PassRate())
}

func TestBuildGolden(t *testing.T) {
	r := fixedReporter(t.TempDir())
	report := r.Build([]*schemas.Scenario{passedScenario(), abortedScenario()})

	data, err := json.MarshalIndent(report, "", "  ")
	require.NoError(t, err)
	data = append(data, '\n')

	g := goldie.New(t)
	g.Assert(t, "report", data)
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	r := fixedReporter(dir)
	report := r.Build([]*schemas.Scenario{passedScenario(), failedScenario()})

	path, err := r.WriteHTML(report)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "test_report_20260314_103000.html"), path)

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(html)

	assert.Contains(t, body, "normal-day")
	assert.Contains(t, body, "unscheduled-visit")
	assert.Contains(t, body, `<span class="badge passed">PASSED</span>`)
	assert.Contains(t, body, `<span class="badge failed">FAILED</span>`)
	assert.Contains(t, body, "50.0%")
	assert.Contains(t, body, "001_validate_metrics_dashboard_100430.png")
}

func TestWriteHTMLEscapesDetailText(t *testing.T) {
	r := fixedReporter(t.TempDir())
	s := failedScenario()
	s.Steps[1].Detail = `observed "<script>alert(1)</script>"`
	report := r.Build([]*schemas.Scenario{s})

	path, err := r.WriteHTML(report)
	require.NoError(t, err)

	html, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>alert(1)</script>")
	assert.True(t, strings.Contains(string(html), "&lt;script&gt;"))
}
