// File: internal/reporting/reporter.go
// Description: Run report assembly and HTML rendering. The report is built
// once from the finished scenario logs and written to a timestamped file in
// the output directory.
package reporting

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
	"github.com/infodatanodes/visit-processor-testing/internal/observability"
)

// Reporter builds and persists run reports.
type Reporter struct {
	outputDir string
	now       func() time.Time
	newRunID  func() string
	logger    *zap.Logger
}

// New builds a reporter writing into outputDir.
func New(outputDir string) *Reporter {
	return &Reporter{
		outputDir: outputDir,
		now:       time.Now,
		newRunID:  uuid.NewString,
		logger:    observability.GetLogger().Named("reporting"),
	}
}

// Verdict rolls a finished scenario up to a single outcome. An aborted
// scenario is Aborted regardless of earlier step results; otherwise any
// failed step fails the scenario.
func Verdict(s *schemas.Scenario) schemas.Verdict {
	if s.Status == schemas.ScenarioAborted {
		return schemas.VerdictAborted
	}
	for _, step := range s.Steps {
		if step.Status == schemas.StepFailed {
			return schemas.VerdictFailed
		}
	}
	return schemas.VerdictPassed
}

// Build aggregates finished scenarios into a report.
func (r *Reporter) Build(scenarios []*schemas.Scenario) *schemas.TestReport {
	report := &schemas.TestReport{
		RunID:       r.newRunID(),
		GeneratedAt: r.now(),
	}
	for _, s := range scenarios {
		verdict := Verdict(s)
		report.Scenarios = append(report.Scenarios, schemas.ScenarioResult{
			Scenario: s,
			Overall:  verdict,
		})
		switch verdict {
		case schemas.VerdictPassed:
			report.Passed++
		case schemas.VerdictFailed:
			report.Failed++
		case schemas.VerdictAborted:
			report.Aborted++
		}
	}
	return report
}

// WriteHTML renders the report and writes it to a timestamped file, returning
// the written path.
func (r *Reporter) WriteHTML(report *schemas.TestReport) (string, error) {
	html, err := renderHTML(report)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", r.outputDir, err)
	}
	filename := fmt.Sprintf("test_report_%s.html", report.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(r.outputDir, filename)
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	r.logger.Info("Report written.",
		zap.String("path", path),
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
		zap.Int("aborted", report.Aborted))
	return path, nil
}

func renderHTML(report *schemas.TestReport) ([]byte, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"percent": func(rate float64) string {
			return fmt.Sprintf("%.1f%%", rate*100)
		},
		"clock": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("15:04:05")
		},
		"statusClass": func(status schemas.StepStatus) string {
			switch status {
			case schemas.StepPassed:
				return "passed"
			case schemas.StepFailed:
				return "failed"
			case schemas.StepError:
				return "error"
			default:
				return "pending"
			}
		},
		"verdictClass": func(v schemas.Verdict) string {
			switch v {
			case schemas.VerdictPassed:
				return "passed"
			case schemas.VerdictFailed:
				return "failed"
			default:
				return "error"
			}
		},
		"base": filepath.Base,
	}).Parse(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}
