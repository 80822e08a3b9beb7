// File: internal/itinerary/itinerary.go
// Description: Test itinerary workbook fixtures. Produces the day-schedule
// spreadsheet the workbook's itinerary loader consumes: banner rows on top,
// the column header on row 7, one visit per row below in 30 minute slots.
package itinerary

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/infodatanodes/visit-processor-testing/api/schemas"
)

// SheetName is the single sheet the loader reads.
const SheetName = "Itinerary"

// HeaderRow is the 1-based row carrying the column header; data starts below.
const HeaderRow = 7

var headerColumns = []string{
	"Loc", "Unit", "Defendant", "Officer", "Starts",
	"Cell Phone", "Address", "City", "Zip", "Comment",
}

var (
	firstNames = []string{
		"James", "Maria", "Robert", "Linda", "Michael", "Patricia",
		"David", "Jennifer", "William", "Elizabeth", "Carlos", "Angela",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia",
		"Martinez", "Davis", "Rodriguez", "Wilson", "Anderson", "Taylor",
	}
	streets = []string{
		"1402 Ridgecrest Dr", "6308 Forest Ln", "901 Elm St", "3457 Cedar Springs Rd",
		"2215 Buckingham Rd", "508 W Spring Valley Rd", "1120 N Plano Rd",
		"745 Shiloh Rd", "2901 Custer Pkwy", "417 E Beltline Rd",
	}
	cities = []string{"Dallas", "Plano", "Garland", "Irving", "Mesquite", "Richardson"}
	zips   = []string{"75201", "75023", "75040", "75060", "75149", "75080"}
)

// visitTypeWeights skews the schedule toward home and curfew checks the way a
// real day sheet looks.
var visitTypeWeights = []struct {
	vt     schemas.VisitType
	weight int
}{
	{schemas.TypeHR, 4},
	{schemas.TypeAMIntake, 2},
	{schemas.TypePMIntake, 2},
	{schemas.TypeCM, 2},
	{schemas.TypeFTR, 1},
}

func pickVisitType(rng *rand.Rand) schemas.VisitType {
	total := 0
	for _, w := range visitTypeWeights {
		total += w.weight
	}
	n := rng.Intn(total)
	for _, w := range visitTypeWeights {
		if n < w.weight {
			return w.vt
		}
		n -= w.weight
	}
	return schemas.TypeHR
}

// Options configures fixture generation.
type Options struct {
	Visits  int
	Seed    int64
	Officer string
	Date    time.Time
}

// Generate writes a complete itinerary workbook to path. Content is fully
// determined by Options, so fixtures regenerate identically for a given seed.
func Generate(path string, opts Options) error {
	if opts.Visits <= 0 {
		return fmt.Errorf("itinerary needs at least one visit, got %d", opts.Visits)
	}
	if opts.Officer == "" {
		opts.Officer = "Officer J. Reyes"
	}
	if opts.Date.IsZero() {
		opts.Date = time.Now()
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name itinerary sheet: %w", err)
	}

	if err := writeBanner(f, opts); err != nil {
		return err
	}
	if err := writeHeader(f); err != nil {
		return err
	}
	for i := 0; i < opts.Visits; i++ {
		row := HeaderRow + 1 + i
		if err := writeVisitRow(f, rng, row, slotTime(i)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save itinerary %s: %w", path, err)
	}
	return nil
}

// AppendUpdated opens an existing itinerary and appends extra visits in later
// slots, saving the result as outPath. This produces the mid-day update file
// the merge entry point consumes.
func AppendUpdated(basePath, outPath string, extra int, seed int64) error {
	if extra <= 0 {
		return fmt.Errorf("updated itinerary needs at least one extra visit, got %d", extra)
	}
	f, err := excelize.OpenFile(basePath)
	if err != nil {
		return fmt.Errorf("failed to open base itinerary %s: %w", basePath, err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("failed to read base itinerary: %w", err)
	}
	existing := len(rows) - HeaderRow
	if existing < 0 {
		return fmt.Errorf("base itinerary %s has no header row", basePath)
	}

	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < extra; i++ {
		row := HeaderRow + 1 + existing + i
		if err := writeVisitRow(f, rng, row, slotTime(existing+i)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return fmt.Errorf("failed to save updated itinerary %s: %w", outPath, err)
	}
	return nil
}

// slotTime returns the start time of the i-th 30 minute slot, beginning 08:00.
func slotTime(i int) schemas.DayTime {
	return schemas.NewDayTime(8, 0).Add(time.Duration(i) * 30 * time.Minute)
}

func writeBanner(f *excelize.File, opts Options) error {
	banner := [][2]string{
		{"A1", "FIELD VISIT ITINERARY"},
		{"A2", "Adult Probation Department"},
		{"A4", "Officer: " + opts.Officer},
		{"A5", "Date: " + opts.Date.Format("01/02/2006")},
	}
	for _, cell := range banner {
		if err := f.SetCellValue(SheetName, cell[0], cell[1]); err != nil {
			return fmt.Errorf("failed to write banner: %w", err)
		}
	}
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err != nil {
		return fmt.Errorf("failed to create title style: %w", err)
	}
	return f.SetCellStyle(SheetName, "A1", "A1", titleStyle)
}

func writeHeader(f *excelize.File) error {
	for i, name := range headerColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, HeaderRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Style: 1, Color: "4472C4"},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(headerColumns), HeaderRow)
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, HeaderRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, first, last, headerStyle)
}

func writeVisitRow(f *excelize.File, rng *rand.Rand, row int, start schemas.DayTime) error {
	cityIdx := rng.Intn(len(cities))
	values := []any{
		string(pickVisitType(rng)),
		fmt.Sprintf("U%d", 1+rng.Intn(9)),
		fmt.Sprintf("%s, %s", lastNames[rng.Intn(len(lastNames))], firstNames[rng.Intn(len(firstNames))]),
		"", // officer column stays blank on the day sheet
		start.String(),
		fmt.Sprintf("(214) 555-%04d", rng.Intn(10000)),
		streets[rng.Intn(len(streets))],
		cities[cityIdx],
		zips[cityIdx],
		"",
	}
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, cell, v); err != nil {
			return fmt.Errorf("failed to write visit row %d: %w", row, err)
		}
	}
	return nil
}
