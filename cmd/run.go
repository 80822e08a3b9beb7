// File: cmd/run.go
// Description: The run command: executes one or more scenarios against the
// workbook, validates metrics at every checkpoint, and writes the HTML report.
package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
	"github.com/infodatanodes/visit-processor-testing/internal/config"
	"github.com/infodatanodes/visit-processor-testing/internal/document"
	"github.com/infodatanodes/visit-processor-testing/internal/generator"
	"github.com/infodatanodes/visit-processor-testing/internal/observability"
	"github.com/infodatanodes/visit-processor-testing/internal/reporting"
	"github.com/infodatanodes/visit-processor-testing/internal/runner"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one or more test scenarios against the workbook",
	RunE:  runScenarios,
}

func init() {
	runCmd.Flags().String("scenario", "normal-day", "built-in scenario name, or 'all'")
	runCmd.Flags().String("scenario-file", "", "YAML scenario definition (overrides --scenario)")
	runCmd.Flags().String("speed", "normal", "pacing profile: slow, normal or fast")
	runCmd.Flags().Int64("seed", 0, "content seed (0 picks one from the clock)")
	runCmd.Flags().String("workbook", "", "workbook URL (overrides config)")
	runCmd.Flags().String("output", "test_output", "directory for reports and evidence")
	runCmd.Flags().String("itinerary", "", "itinerary workbook path passed to the loader")
	runCmd.Flags().String("updated-itinerary", "", "updated itinerary path for merge steps")
	runCmd.Flags().Int("red-flags", 2, "red flags to place per scenario")
	rootCmd.AddCommand(runCmd)
}

func resolveRunConfig(flags *pflag.FlagSet) (config.RunConfig, error) {
	run := config.RunConfig{}
	var err error
	if run.Scenario, err = flags.GetString("scenario"); err != nil {
		return run, err
	}
	if run.ScenarioFile, err = flags.GetString("scenario-file"); err != nil {
		return run, err
	}
	if run.Speed, err = flags.GetString("speed"); err != nil {
		return run, err
	}
	if run.Seed, err = flags.GetInt64("seed"); err != nil {
		return run, err
	}
	if run.OutputDir, err = flags.GetString("output"); err != nil {
		return run, err
	}
	if run.ItineraryPath, err = flags.GetString("itinerary"); err != nil {
		return run, err
	}
	if run.UpdatedItinerary, err = flags.GetString("updated-itinerary"); err != nil {
		return run, err
	}
	if run.RedFlagCount, err = flags.GetInt("red-flags"); err != nil {
		return run, err
	}
	if run.Seed == 0 {
		run.Seed = time.Now().UnixNano()
	}
	return run, nil
}

func resolveDefinitions(run config.RunConfig) ([]runner.Definition, error) {
	if run.ScenarioFile != "" {
		def, err := runner.LoadDefinition(run.ScenarioFile)
		if err != nil {
			return nil, err
		}
		return []runner.Definition{def}, nil
	}
	if run.Scenario == "all" {
		var defs []runner.Definition
		for _, name := range runner.BuiltinNames() {
			def, err := runner.Builtin(name)
			if err != nil {
				return nil, err
			}
			defs = append(defs, def)
		}
		return defs, nil
	}
	def, err := runner.Builtin(run.Scenario)
	if err != nil {
		return nil, err
	}
	return []runner.Definition{def}, nil
}

func runScenarios(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := observability.GetLogger().Named("cmd")

	run, err := resolveRunConfig(cmd.Flags())
	if err != nil {
		return err
	}
	speed, err := config.SpeedProfileFor(run.Speed)
	if err != nil {
		return err
	}
	defs, err := resolveDefinitions(run)
	if err != nil {
		return err
	}

	workbook := appCfg.Document.WorkbookURL
	if flag, _ := cmd.Flags().GetString("workbook"); flag != "" {
		workbook = flag
	}
	if workbook == "" {
		return fmt.Errorf("no workbook URL configured (set document.workbook_url or pass --workbook)")
	}

	client := generator.NewOllamaClient(appCfg.Generator)
	defer client.Close()
	backendUp := client.Available(ctx, appCfg.Generator.ProbeTimeout)
	if !backendUp {
		logger.Info("Text backend unavailable; using templated content for the whole run.")
	}

	logger.Info("Run starting.",
		zap.Int("scenarios", len(defs)),
		zap.String("speed", speed.Name),
		zap.Int64("seed", run.Seed))

	// Each definition gets its own browser document: every scenario begins by
	// opening the workbook, so sessions cannot be shared across definitions.
	// Only the last session's close honors leave_open.
	newSession := func() (*docSession, error) {
		doc := document.NewBrowserDocument(appCfg.Document, speed)
		evidence, err := document.NewScreenshotCapturer(doc, filepath.Join(run.OutputDir, "evidence"))
		if err != nil {
			return nil, err
		}
		return &docSession{
			doc:      doc,
			evidence: evidence,
			close: func(ctx context.Context, last bool) {
				if !last {
					doc.Shutdown()
					return
				}
				if err := doc.Close(ctx); err != nil {
					logger.Warn("Failed to close document.", zap.Error(err))
				}
			},
		}, nil
	}
	newGen := func(i int) *generator.Generator {
		gen := generator.NewGenerator(client, appCfg.Generator, run.Seed+int64(i), run.RedFlagCount)
		if !backendUp {
			gen.DisableBackend()
		}
		return gen
	}

	scenarios, err := runDefinitions(ctx, defs, run, speed, workbook, newGen, newSession)
	if err != nil {
		logger.Warn("Run interrupted.", zap.Error(err))
	}

	reporter := reporting.New(run.OutputDir)
	report := reporter.Build(scenarios)
	path, err := reporter.WriteHTML(report)
	if err != nil {
		return err
	}
	printSummary(report, path)

	if report.Failed > 0 || report.Aborted > 0 {
		return fmt.Errorf("%d scenario(s) did not pass", report.Failed+report.Aborted)
	}
	return nil
}

// docSession bundles the document resources for one scenario. close with
// last=true is the end of the whole run and may leave the workbook open for
// inspection; earlier sessions are always torn down.
type docSession struct {
	doc      schemas.AutomatableDocument
	evidence schemas.EvidenceCapturer
	close    func(ctx context.Context, last bool)
}

// runDefinitions executes definitions sequentially, one fresh session per
// definition. Execution stops early only on context cancellation; the
// scenarios finished up to that point are still returned for reporting.
func runDefinitions(ctx context.Context, defs []runner.Definition, run config.RunConfig,
	speed config.SpeedProfile, workbook string,
	newGen func(i int) *generator.Generator,
	newSession func() (*docSession, error)) ([]*schemas.Scenario, error) {

	var scenarios []*schemas.Scenario
	for i, def := range defs {
		session, err := newSession()
		if err != nil {
			return scenarios, err
		}
		r := runner.New(session.doc, newGen(i), session.evidence, speed, run, workbook)

		scenario, runErr := r.RunScenario(ctx, def)
		session.close(ctx, i == len(defs)-1)
		if scenario != nil {
			scenarios = append(scenarios, scenario)
			printScenarioResult(scenario)
		}
		if runErr != nil {
			return scenarios, runErr
		}
	}
	return scenarios, nil
}

func printScenarioResult(s *schemas.Scenario) {
	verdict := reporting.Verdict(s)
	switch verdict {
	case schemas.VerdictPassed:
		color.Green("  PASS  %s (%s)", s.Name, s.Duration().Round(time.Second))
	case schemas.VerdictFailed:
		color.Red("  FAIL  %s (%s)", s.Name, s.Duration().Round(time.Second))
	default:
		color.Yellow("  ABORT %s (%s)", s.Name, s.Duration().Round(time.Second))
	}
	for _, step := range s.Steps {
		if step.Status == schemas.StepFailed || step.Status == schemas.StepError {
			color.White("        %s: %s", step.Description, step.Detail)
		}
	}
}

func printSummary(report *schemas.TestReport, reportPath string) {
	fmt.Println()
	color.New(color.Bold).Printf("Run %s: ", report.RunID)
	color.Green("%d passed", report.Passed)
	if report.Failed > 0 {
		color.Red("%d failed", report.Failed)
	}
	if report.Aborted > 0 {
		color.Yellow("%d aborted", report.Aborted)
	}
	fmt.Printf("Pass rate: %.1f%%\n", report.PassRate()*100)
	fmt.Printf("Report: %s\n", reportPath)
}
