// File: internal/runner/runner.go
// Description: Scenario execution engine. Schedules every step of a definition
// up front, executes them in order with the configured pacing, and classifies
// failures: automation errors abort the scenario, checkpoint mismatches mark
// the step failed and continue, evidence problems are logged and ignored.
package runner

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
	"github.com/infodatanodes/visit-processor-testing/internal/config"
	"github.com/infodatanodes/visit-processor-testing/internal/generator"
	"github.com/infodatanodes/visit-processor-testing/internal/observability"
	"github.com/infodatanodes/visit-processor-testing/internal/validator"
)

const metricsSheet = "Metrics"

// Itinerary slots start at 08:00 and advance in 30 minute increments.
var firstSlot = schemas.NewDayTime(8, 0)

// Runner executes one scenario against an open document. It accumulates the
// visit records it enters so checkpoints can recompute expected metrics from
// first principles. Not safe for concurrent use.
type Runner struct {
	doc      schemas.AutomatableDocument
	gen      *generator.Generator
	evidence schemas.EvidenceCapturer
	speed    config.SpeedProfile
	run      config.RunConfig
	workbook string

	records  []schemas.VisitRecord
	visitNum int

	clock  func() time.Time
	logger *zap.Logger
}

// New builds a runner. evidence may be nil, in which case no screenshots are
// taken.
func New(doc schemas.AutomatableDocument, gen *generator.Generator, evidence schemas.EvidenceCapturer,
	speed config.SpeedProfile, run config.RunConfig, workbookURL string) *Runner {
	return &Runner{
		doc:      doc,
		gen:      gen,
		evidence: evidence,
		speed:    speed,
		run:      run,
		workbook: workbookURL,
		clock:    time.Now,
		logger:   observability.GetLogger().Named("runner"),
	}
}

// Records returns the visit records entered so far, in entry order.
func (r *Runner) Records() []schemas.VisitRecord {
	return r.records
}

// mismatchError carries a failed checkpoint's full mismatch list. It marks a
// step Failed rather than Error: the document is still trustworthy, only its
// displayed metrics disagree with the recomputation.
type mismatchError struct {
	result schemas.ValidationResult
}

func (e *mismatchError) Error() string {
	parts := make([]string, 0, len(e.result.Mismatches))
	for _, m := range e.result.Mismatches {
		parts = append(parts, fmt.Sprintf("%s: expected %s, observed %s", m.Metric, m.Expected, m.Observed))
	}
	return "metric validation failed: " + strings.Join(parts, "; ")
}

// RunScenario executes def from start to finish. The returned scenario always
// contains the complete scheduled step log; steps never reached stay Pending.
// The only non-nil error is context cancellation, reported after the in-flight
// step has settled.
func (r *Runner) RunScenario(ctx context.Context, def Definition) (*schemas.Scenario, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	scenario := &schemas.Scenario{
		Name:   def.Name,
		Status: schemas.ScenarioNotStarted,
		Steps:  make([]schemas.ScenarioStep, len(def.Steps)),
	}
	for i, step := range def.Steps {
		scenario.Steps[i] = schemas.ScenarioStep{
			Description: step.Description,
			Action:      string(step.Kind),
			Status:      schemas.StepPending,
		}
	}

	scenario.Status = schemas.ScenarioRunning
	scenario.StartedAt = r.clock()
	r.logger.Info("Scenario started.", zap.String("scenario", def.Name), zap.Int("steps", len(def.Steps)))

	var runErr error
	for i := range def.Steps {
		if err := ctx.Err(); err != nil {
			scenario.Status = schemas.ScenarioAborted
			runErr = err
			r.logger.Warn("Scenario cancelled.", zap.String("scenario", def.Name), zap.Int("completed_steps", i))
			break
		}

		step := &scenario.Steps[i]
		step.Status = schemas.StepRunning
		step.Timestamp = r.clock()
		r.logger.Info("Step started.", zap.Int("step", i+1), zap.String("action", step.Action), zap.String("description", step.Description))

		err := r.executeStep(ctx, def.Steps[i])

		var mismatch *mismatchError
		switch {
		case err == nil:
			step.Status = schemas.StepPassed
		case errors.As(err, &mismatch):
			step.Status = schemas.StepFailed
			step.Detail = mismatch.Error()
			r.logger.Warn("Checkpoint failed.", zap.Int("step", i+1), zap.String("detail", step.Detail))
		default:
			step.Status = schemas.StepError
			step.Detail = err.Error()
			r.capture(ctx, step)
			scenario.Status = schemas.ScenarioAborted
			r.logger.Error("Step errored, aborting scenario.", zap.Int("step", i+1), zap.Error(err))
		}

		if def.Steps[i].Kind == KindCheckpoint {
			r.capture(ctx, step)
		}
		if scenario.Status == schemas.ScenarioAborted {
			break
		}
		if i < len(def.Steps)-1 {
			if err := sleep(ctx, r.speed.InterStep); err != nil {
				scenario.Status = schemas.ScenarioAborted
				runErr = err
				break
			}
		}
	}

	if scenario.Status == schemas.ScenarioRunning {
		scenario.Status = schemas.ScenarioCompleted
	}
	scenario.FinishedAt = r.clock()
	r.logger.Info("Scenario finished.",
		zap.String("scenario", def.Name),
		zap.String("status", string(scenario.Status)),
		zap.Duration("duration", scenario.Duration()))
	return scenario, runErr
}

func (r *Runner) executeStep(ctx context.Context, step StepDef) error {
	switch step.Kind {
	case KindOpenDocument:
		return r.doc.OpenDocument(ctx, r.workbook)
	case KindSetupHeader:
		return r.doc.InvokeEntryPoint(ctx, "SetupHeader")
	case KindLoadItinerary:
		path := step.Path
		if path == "" {
			path = r.run.ItineraryPath
		}
		return r.doc.InvokeEntryPoint(ctx, "LoadItineraryFromPath", path)
	case KindAddItinerary:
		path := step.Path
		if path == "" {
			path = r.run.UpdatedItinerary
		}
		return r.doc.InvokeEntryPoint(ctx, "AddUpdatedItineraryFromPath", path)
	case KindFillVisit:
		return r.fillVisit(ctx, *step.Visit)
	case KindRefreshMetrics:
		return r.doc.InvokeEntryPoint(ctx, "RefreshMetrics")
	case KindCheckpoint:
		return r.checkpoint(ctx)
	default:
		return fmt.Errorf("unknown step kind %q", step.Kind)
	}
}

// fillVisit drives one complete visit: create the visit sheet (or inject an
// unscheduled visit), generate the content, enter every field in the
// workbook's fill order, and export the finished visit.
func (r *Runner) fillVisit(ctx context.Context, plan VisitPlan) error {
	r.visitNum++
	n := r.visitNum

	if plan.Unscheduled {
		if err := r.doc.InvokeEntryPoint(ctx, "AddUnscheduledVisit", plan.Address); err != nil {
			return err
		}
	} else {
		if err := r.doc.InvokeEntryPoint(ctx, "CreateVisitSheet", n); err != nil {
			return err
		}
	}

	gc := schemas.GenerationContext{
		Outcome:          plan.Outcome,
		Type:             plan.Type,
		ForceRedFlag:     plan.ForceRedFlag,
		VehicleCountHint: plan.VehicleCount,
		Address:          plan.Address,
		VisitNumber:      n,
		ScheduledTime:    firstSlot.Add(time.Duration(n-1) * 30 * time.Minute),
	}
	fields := r.gen.Generate(ctx, gc)
	record := fields.Record(gc)

	sheet := fmt.Sprintf("Visit %d", n)
	prefix := fmt.Sprintf("visit%d.", n)
	typeField := func(name, text string) error {
		if text == "" {
			return nil
		}
		return r.doc.TypeText(ctx, schemas.FieldRef{Sheet: sheet, Address: prefix + name}, text)
	}

	if err := typeField("residents", fields.Residents); err != nil {
		return err
	}
	if err := typeField("exterior_description", fields.ExteriorDesc); err != nil {
		return err
	}
	if err := typeField("consent", string(fields.Consent)); err != nil {
		return err
	}
	if err := typeField("observed", fields.ObservedNarrative); err != nil {
		return err
	}

	if record.Outcome == schemas.OutcomeSuccessful {
		if len(fields.Vehicles) == 0 {
			if err := r.doc.InvokeEntryPoint(ctx, "NoVehiclesNoted", n); err != nil {
				return err
			}
		}
		for i, v := range fields.Vehicles {
			// The visit sheet ships with two empty vehicle rows; extra
			// vehicles need a row added before they can be typed.
			if i >= 2 {
				if err := r.doc.InvokeEntryPoint(ctx, "AddVehicleRow", n); err != nil {
					return err
				}
			}
			row := fmt.Sprintf("vehicle%d.", i+1)
			for _, cell := range []struct{ name, text string }{
				{row + "plate", v.Plate},
				{row + "color", v.Color},
				{row + "make", v.Make},
				{row + "model", v.Model},
			} {
				if err := typeField(cell.name, cell.text); err != nil {
					return err
				}
			}
		}
	}

	if fields.RedFlag {
		if err := typeField("red_flag_category", string(fields.RedFlagCategory)); err != nil {
			return err
		}
		if err := typeField("red_flag_description", fields.RedFlagDescription); err != nil {
			return err
		}
	}

	if err := typeField("arrived", fields.ActualTime.String()); err != nil {
		return err
	}
	if err := typeField("departed", fields.DepartureTime.String()); err != nil {
		return err
	}
	if err := typeField("outcome", string(record.Outcome)); err != nil {
		return err
	}

	if err := r.doc.InvokeEntryPoint(ctx, "ExportSingleVisit", n); err != nil {
		return err
	}

	r.records = append(r.records, record)
	return nil
}

// metricCell binds one dashboard cell to the validator metric it feeds.
type metricCell struct {
	metric  string
	address string
	assign  func(*validator.Metrics, int)
}

func metricCells() []metricCell {
	cells := []metricCell{
		{"total_visits", "dashboard.total", func(m *validator.Metrics, n int) { m.TotalVisits = n }},
	}
	for _, outcome := range schemas.AllOutcomes {
		outcome := outcome
		cells = append(cells, metricCell{
			metric:  "outcome:" + string(outcome),
			address: "dashboard.outcome." + string(outcome),
			assign:  func(m *validator.Metrics, n int) { m.ByOutcome[outcome] = n },
		})
	}
	for _, vt := range schemas.AllVisitTypes {
		vt := vt
		cells = append(cells, metricCell{
			metric:  "type:" + string(vt),
			address: "dashboard.type." + string(vt),
			assign:  func(m *validator.Metrics, n int) { m.ByType[vt] = n },
		})
	}
	cells = append(cells,
		metricCell{"with_vehicles", "dashboard.with_vehicles", func(m *validator.Metrics, n int) { m.WithVehicles = n }},
		metricCell{"with_red_flags", "dashboard.with_red_flags", func(m *validator.Metrics, n int) { m.WithRedFlags = n }},
	)
	return cells
}

// checkpoint recomputes the expected metrics from the entered records, reads
// every dashboard cell, and compares. Cells that fail to read or parse (for
// example a formula showing "#DIV/0!") surface as mismatches with the raw
// cell text; the comparison itself never stops early.
func (r *Runner) checkpoint(ctx context.Context) error {
	expected := validator.Expected(r.records)
	observed := validator.NewMetrics()
	raw := make(map[string]string)

	for _, cell := range metricCells() {
		text, err := r.doc.ReadCell(ctx, metricsSheet, cell.address)
		if err != nil {
			if schemas.IsAutomationError(err) {
				return err
			}
			raw[cell.metric] = err.Error()
			continue
		}
		n, err := validator.ParseCount(text)
		if err != nil {
			raw[cell.metric] = text
			// Force a mismatch against any expected value.
			cell.assign(&observed, -1)
			continue
		}
		cell.assign(&observed, n)
	}

	result := validator.Validate(expected, observed)
	for i, m := range result.Mismatches {
		if text, ok := raw[m.Metric]; ok {
			result.Mismatches[i].Observed = strconv.Quote(text)
		}
	}
	for metric, text := range raw {
		if !containsMetric(result.Mismatches, metric) {
			result.Mismatches = append(result.Mismatches, schemas.Mismatch{
				Metric:   metric,
				Expected: "readable value",
				Observed: strconv.Quote(text),
			})
		}
	}
	if !result.OK() {
		return &mismatchError{result: result}
	}
	return nil
}

func containsMetric(mismatches []schemas.Mismatch, metric string) bool {
	for _, m := range mismatches {
		if m.Metric == metric {
			return true
		}
	}
	return false
}

// capture attaches a screenshot to a step. Failures here never affect the
// scenario outcome.
func (r *Runner) capture(ctx context.Context, step *schemas.ScenarioStep) {
	if r.evidence == nil {
		return
	}
	path, err := r.evidence.Capture(ctx, step.Description)
	if err != nil {
		r.logger.Warn("Evidence capture failed.", zap.String("step", step.Description), zap.Error(err))
		return
	}
	step.EvidenceRef = path
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
