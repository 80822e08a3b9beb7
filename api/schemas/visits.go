// File: api/schemas/visits.go
package schemas

import (
	"fmt"
	"time"
)

// VisitOutcome is the documented result of one contact attempt. The string
// values match the workbook's outcome dropdown exactly.
type VisitOutcome string

const (
	OutcomeSuccessful      VisitOutcome = "Successful"
	OutcomeNotHome         VisitOutcome = "Not Home"
	OutcomeAccessDenied    VisitOutcome = "P Denied Access"
	OutcomeWrongAddress    VisitOutcome = "Wrong Address"
	OutcomeFailureToReport VisitOutcome = "Failure to Report"
)

// AllOutcomes lists every outcome in the canonical order used for metric
// aggregation and reporting.
var AllOutcomes = []VisitOutcome{
	OutcomeSuccessful,
	OutcomeNotHome,
	OutcomeAccessDenied,
	OutcomeWrongAddress,
	OutcomeFailureToReport,
}

// VisitType classifies a scheduled visit and constrains its legal time window.
type VisitType string

const (
	TypeAMIntake VisitType = "AM Intake"
	TypePMIntake VisitType = "PM Intake"
	TypeFTR      VisitType = "FTR"
	TypeHR       VisitType = "HR"
	TypeCM       VisitType = "CM"
)

// AllVisitTypes lists every visit type in canonical order.
var AllVisitTypes = []VisitType{TypeAMIntake, TypePMIntake, TypeFTR, TypeHR, TypeCM}

// Consent records whether the probationer allowed entry into the home.
type Consent string

const (
	ConsentYes Consent = "Yes"
	ConsentNo  Consent = "No"
	ConsentNA  Consent = "N/A"
)

// ConsentFor derives the only legal consent value for an outcome:
// Yes for Successful, No for P Denied Access, N/A for everything else.
func ConsentFor(outcome VisitOutcome) Consent {
	switch outcome {
	case OutcomeSuccessful:
		return ConsentYes
	case OutcomeAccessDenied:
		return ConsentNo
	default:
		return ConsentNA
	}
}

// RedFlagCategory names the kind of safety or compliance concern found.
type RedFlagCategory string

const (
	FlagAlcohol RedFlagCategory = "Alcohol"
	FlagDrugs   RedFlagCategory = "Drugs"
	FlagGuns    RedFlagCategory = "Guns"
	FlagKnives  RedFlagCategory = "Knives"
	FlagIP      RedFlagCategory = "IP"
	FlagOther   RedFlagCategory = "Other"
)

// DayTime is a wall-clock time of day expressed in minutes since midnight.
// The workbook deals only in times within a single workday, so a date-less
// representation avoids timezone noise when comparing windows.
type DayTime int

// NewDayTime builds a DayTime from an hour and minute.
func NewDayTime(hour, minute int) DayTime {
	return DayTime(hour*60 + minute)
}

// Hour returns the hour component (0-23).
func (t DayTime) Hour() int { return int(t) / 60 }

// Minute returns the minute component (0-59).
func (t DayTime) Minute() int { return int(t) % 60 }

// Add returns the time d minutes later.
func (t DayTime) Add(d time.Duration) DayTime {
	return t + DayTime(d/time.Minute)
}

// String renders the time the way the workbook displays it, e.g. "08:15 AM".
func (t DayTime) String() string {
	h := t.Hour()
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%02d:%02d %s", display, t.Minute(), suffix)
}

// TimeWindow is a half-open [Start, End) interval within a workday.
type TimeWindow struct {
	Start DayTime
	End   DayTime
}

// Contains reports whether t falls within the window.
func (w TimeWindow) Contains(t DayTime) bool {
	return t >= w.Start && t < w.End
}

// WindowFor returns the legal arrival window for a visit type. AM Intake is
// [08:00, 12:00), PM Intake is [12:00, 17:00); all other types may occur
// anywhere in the workday.
func WindowFor(vt VisitType) TimeWindow {
	switch vt {
	case TypeAMIntake:
		return TimeWindow{Start: NewDayTime(8, 0), End: NewDayTime(12, 0)}
	case TypePMIntake:
		return TimeWindow{Start: NewDayTime(12, 0), End: NewDayTime(17, 0)}
	default:
		return TimeWindow{Start: NewDayTime(8, 0), End: NewDayTime(17, 0)}
	}
}

// Vehicle is one vehicle observed at the residence.
type Vehicle struct {
	Plate string `json:"plate" yaml:"plate"`
	Color string `json:"color" yaml:"color"`
	Make  string `json:"make" yaml:"make"`
	Model string `json:"model" yaml:"model"`
}

// VisitRecord is one fully documented visit as entered into the workbook.
type VisitRecord struct {
	Type               VisitType       `json:"type"`
	Outcome            VisitOutcome    `json:"outcome"`
	ScheduledTime      DayTime         `json:"scheduled_time"`
	ActualTime         DayTime         `json:"actual_time"`
	DepartureTime      DayTime         `json:"departure_time"`
	Consent            Consent         `json:"consent"`
	Residents          string          `json:"residents,omitempty"`
	ExteriorDesc       string          `json:"exterior_description"`
	ObservedNarrative  string          `json:"observed_narrative,omitempty"`
	Vehicles           []Vehicle       `json:"vehicles,omitempty"`
	RedFlag            bool            `json:"red_flag"`
	RedFlagCategory    RedFlagCategory `json:"red_flag_category,omitempty"`
	RedFlagDescription string          `json:"red_flag_description,omitempty"`
}

// Validate checks the record against the domain invariants that must hold for
// every documented visit, regardless of which generation path produced it.
func (r VisitRecord) Validate() error {
	if want := ConsentFor(r.Outcome); r.Consent != want {
		return fmt.Errorf("consent %q is illegal for outcome %q (want %q)", r.Consent, r.Outcome, want)
	}
	if w := WindowFor(r.Type); !w.Contains(r.ActualTime) {
		return fmt.Errorf("actual time %s outside legal window [%s, %s) for type %q",
			r.ActualTime, w.Start, w.End, r.Type)
	}
	if r.ExteriorDesc == "" {
		return fmt.Errorf("exterior description must be populated for every outcome")
	}
	if (r.Outcome == OutcomeSuccessful) != (r.ObservedNarrative != "") {
		return fmt.Errorf("observed narrative populated=%v conflicts with outcome %q",
			r.ObservedNarrative != "", r.Outcome)
	}
	if r.RedFlag != (r.RedFlagDescription != "") {
		return fmt.Errorf("red flag=%v but description populated=%v", r.RedFlag, r.RedFlagDescription != "")
	}
	return nil
}

// VehicleCountUnpinned marks a GenerationContext without a pinned vehicle
// count; the generator then applies the default of 2.
const VehicleCountUnpinned = -1

// GenerationContext is the immutable input to content generation for a single
// visit. A fresh value is produced per visit and never mutated.
type GenerationContext struct {
	Outcome          VisitOutcome
	Type             VisitType
	ForceRedFlag     bool
	VehicleCountHint int
	Address          string
	VisitNumber      int
	ScheduledTime    DayTime
}

// VisitFields is the generated textual and structural content for one visit,
// ready to be applied to the document.
type VisitFields struct {
	Outcome            VisitOutcome
	ActualTime         DayTime
	DepartureTime      DayTime
	Consent            Consent
	Residents          string
	ExteriorDesc       string
	ObservedNarrative  string
	Vehicles           []Vehicle
	RedFlag            bool
	RedFlagCategory    RedFlagCategory
	RedFlagDescription string
}

// Record combines the generation context and the produced fields into the
// VisitRecord the validator aggregates over. The outcome comes from the
// fields rather than the context so that visits left unpinned by the
// scenario carry the outcome the generator resolved for them.
func (f VisitFields) Record(gc GenerationContext) VisitRecord {
	return VisitRecord{
		Type:               gc.Type,
		Outcome:            f.Outcome,
		ScheduledTime:      gc.ScheduledTime,
		ActualTime:         f.ActualTime,
		DepartureTime:      f.DepartureTime,
		Consent:            f.Consent,
		Residents:          f.Residents,
		ExteriorDesc:       f.ExteriorDesc,
		ObservedNarrative:  f.ObservedNarrative,
		Vehicles:           f.Vehicles,
		RedFlag:            f.RedFlag,
		RedFlagCategory:    f.RedFlagCategory,
		RedFlagDescription: f.RedFlagDescription,
	}
}
