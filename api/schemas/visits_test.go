// File: api/schemas/visits_test.go
package schemas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayTime(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         string
	}{
		{8, 0, "08:00 AM"},
		{8, 15, "08:15 AM"},
		{11, 59, "11:59 AM"},
		{12, 0, "12:00 PM"},
		{13, 5, "01:05 PM"},
		{16, 59, "04:59 PM"},
	}
	for _, tc := range cases {
		dt := NewDayTime(tc.hour, tc.minute)
		assert.Equal(t, tc.want, dt.String())
		assert.Equal(t, tc.hour, dt.Hour())
		assert.Equal(t, tc.minute, dt.Minute())
	}
}

func TestDayTimeAdd(t *testing.T) {
	dt := NewDayTime(11, 50).Add(25 * time.Minute)
	assert.Equal(t, "12:15 PM", dt.String())
}

func TestWindowFor(t *testing.T) {
	am := WindowFor(TypeAMIntake)
	assert.True(t, am.Contains(NewDayTime(8, 0)))
	assert.True(t, am.Contains(NewDayTime(11, 59)))
	assert.False(t, am.Contains(NewDayTime(12, 0)), "windows are half-open")
	assert.False(t, am.Contains(NewDayTime(7, 59)))

	pm := WindowFor(TypePMIntake)
	assert.True(t, pm.Contains(NewDayTime(12, 0)))
	assert.False(t, pm.Contains(NewDayTime(17, 0)))

	anyDay := WindowFor(TypeHR)
	assert.True(t, anyDay.Contains(NewDayTime(8, 0)))
	assert.True(t, anyDay.Contains(NewDayTime(16, 59)))
}

func TestConsentFor(t *testing.T) {
	assert.Equal(t, ConsentYes, ConsentFor(OutcomeSuccessful))
	assert.Equal(t, ConsentNo, ConsentFor(OutcomeAccessDenied))
	assert.Equal(t, ConsentNA, ConsentFor(OutcomeNotHome))
	assert.Equal(t, ConsentNA, ConsentFor(OutcomeWrongAddress))
	assert.Equal(t, ConsentNA, ConsentFor(OutcomeFailureToReport))
}

func validRecord() VisitRecord {
	return VisitRecord{
		Type:              TypeAMIntake,
		Outcome:           OutcomeSuccessful,
		ActualTime:        NewDayTime(9, 10),
		DepartureTime:     NewDayTime(9, 20),
		Consent:           ConsentYes,
		Residents:         "P",
		ExteriorDesc:      "Single story brick home.",
		ObservedNarrative: "P answered the door. No violations noted.",
	}
}

func TestVisitRecordValidate(t *testing.T) {
	require.NoError(t, validRecord().Validate())

	t.Run("wrong consent", func(t *testing.T) {
		r := validRecord()
		r.Consent = ConsentNA
		assert.Error(t, r.Validate())
	})

	t.Run("arrival outside window", func(t *testing.T) {
		r := validRecord()
		r.ActualTime = NewDayTime(13, 0)
		assert.Error(t, r.Validate())
	})

	t.Run("missing exterior description", func(t *testing.T) {
		r := validRecord()
		r.ExteriorDesc = ""
		assert.Error(t, r.Validate())
	})

	t.Run("narrative without entry", func(t *testing.T) {
		r := validRecord()
		r.Outcome = OutcomeNotHome
		r.Consent = ConsentNA
		assert.Error(t, r.Validate())
	})

	t.Run("successful without narrative", func(t *testing.T) {
		r := validRecord()
		r.ObservedNarrative = ""
		assert.Error(t, r.Validate())
	})

	t.Run("red flag without description", func(t *testing.T) {
		r := validRecord()
		r.RedFlag = true
		assert.Error(t, r.Validate())
	})

	t.Run("description without red flag", func(t *testing.T) {
		r := validRecord()
		r.RedFlagDescription = "Found a glass pipe on the coffee table."
		assert.Error(t, r.Validate())
	})
}

func TestVisitFieldsRecord(t *testing.T) {
	gc := GenerationContext{
		Outcome:       OutcomeSuccessful,
		Type:          TypeHR,
		ScheduledTime: NewDayTime(10, 0),
	}
	fields := VisitFields{
		Outcome:           OutcomeSuccessful,
		ActualTime:        NewDayTime(10, 5),
		DepartureTime:     NewDayTime(10, 14),
		Consent:           ConsentYes,
		Residents:         "P",
		ExteriorDesc:      "Ranch-style home.",
		ObservedNarrative: "Walked through with P.",
	}
	r := fields.Record(gc)
	assert.Equal(t, TypeHR, r.Type)
	assert.Equal(t, OutcomeSuccessful, r.Outcome)
	assert.Equal(t, NewDayTime(10, 0), r.ScheduledTime)
	assert.Equal(t, NewDayTime(10, 5), r.ActualTime)
	assert.NoError(t, r.Validate())
}
