// File: cmd/fixtures.go
// Description: Fixture generation: builds the itinerary workbooks the run
// command later feeds to the document's loader entry points.
package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/infodatanodes/visit-processor-testing/internal/itinerary"
	"github.com/infodatanodes/visit-processor-testing/internal/observability"
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Generate itinerary workbook fixtures",
	RunE:  generateFixtures,
}

func init() {
	fixturesCmd.Flags().String("out", "itinerary.xlsx", "output path for the day itinerary")
	fixturesCmd.Flags().Int("visits", 5, "number of scheduled visits")
	fixturesCmd.Flags().Int64("seed", 42, "fixture content seed")
	fixturesCmd.Flags().String("officer", "Officer J. Reyes", "officer name on the banner")
	fixturesCmd.Flags().String("updated-out", "", "also write an updated itinerary to this path")
	fixturesCmd.Flags().Int("extra", 3, "extra visits appended to the updated itinerary")
	rootCmd.AddCommand(fixturesCmd)
}

func generateFixtures(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger().Named("fixtures")
	flags := cmd.Flags()

	out, _ := flags.GetString("out")
	visits, _ := flags.GetInt("visits")
	seed, _ := flags.GetInt64("seed")
	officer, _ := flags.GetString("officer")
	updatedOut, _ := flags.GetString("updated-out")
	extra, _ := flags.GetInt("extra")

	err := itinerary.Generate(out, itinerary.Options{
		Visits:  visits,
		Seed:    seed,
		Officer: officer,
		Date:    time.Now(),
	})
	if err != nil {
		return err
	}
	logger.Info("Itinerary written.", zap.String("path", out), zap.Int("visits", visits))

	if updatedOut != "" {
		if err := itinerary.AppendUpdated(out, updatedOut, extra, seed+1); err != nil {
			return err
		}
		logger.Info("Updated itinerary written.", zap.String("path", updatedOut), zap.Int("extra", extra))
	}
	return nil
}
