package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"contentcal/internal/model"
)

func TestStep(t *testing.T) {
	anchor := date(2024, time.March, 15)

	tests := []struct {
		mode model.ViewMode
		dir  model.Direction
		want time.Time
	}{
		{model.ViewDay, model.Next, date(2024, time.March, 16)},
		{model.ViewDay, model.Previous, date(2024, time.March, 14)},
		{model.ViewWeek, model.Next, date(2024, time.March, 22)},
		{model.ViewWeek, model.Previous, date(2024, time.March, 8)},
		{model.ViewMonth, model.Next, date(2024, time.April, 15)},
		{model.ViewMonth, model.Previous, date(2024, time.February, 15)},
		{model.ViewYear, model.Next, date(2025, time.March, 15)},
		{model.ViewYear, model.Previous, date(2023, time.March, 15)},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.dir.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Step(tt.mode, anchor, tt.dir))
		})
	}
}

func TestStepRoundTrip(t *testing.T) {
	start := date(2023, time.January, 1)
	for i := 0; i < 730; i += 3 {
		a := start.AddDate(0, 0, i)
		for _, mode := range []model.ViewMode{model.ViewDay, model.ViewWeek} {
			next := Step(mode, a, model.Next)
			assert.Equal(t, a, Step(mode, next, model.Previous), "%s %s", mode, a.Format(time.DateOnly))
		}
		// Month and year steps are invertible when the day exists in every month.
		if a.Day() <= 28 {
			for _, mode := range []model.ViewMode{model.ViewMonth, model.ViewYear} {
				next := Step(mode, a, model.Next)
				assert.Equal(t, a, Step(mode, next, model.Previous), "%s %s", mode, a.Format(time.DateOnly))
			}
		}
	}
}

func TestMonthStepClampsAtMonthEnd(t *testing.T) {
	jan31 := date(2024, time.January, 31)

	feb := Step(model.ViewMonth, jan31, model.Next)
	assert.Equal(t, date(2024, time.February, 29), feb)

	// Known non-invertible case: the clamp loses the original day.
	assert.Equal(t, date(2024, time.January, 29), Step(model.ViewMonth, feb, model.Previous))

	assert.Equal(t, date(2023, time.February, 28), AddMonths(date(2023, time.January, 31), 1))
	assert.Equal(t, date(2025, time.February, 28), Step(model.ViewYear, date(2024, time.February, 29), model.Next))
	assert.Equal(t, date(2023, time.December, 31), AddMonths(date(2024, time.March, 31), -3))
}

func TestAddMonthsReturnsDayStart(t *testing.T) {
	in := time.Date(2024, time.October, 31, 9, 30, 0, 0, time.UTC)
	assert.Equal(t, date(2024, time.November, 30), AddMonths(in, 1))
}

func TestStepAcrossSkippedMidnight(t *testing.T) {
	sp := mustZone(t, "America/Sao_Paulo")
	nov3 := model.StartOfDay(2018, time.November, 3, sp)

	nov4 := Step(model.ViewDay, nov3, model.Next)
	assert.Equal(t, 4, nov4.Day())
	assert.Equal(t, 5, Step(model.ViewDay, nov4, model.Next).Day())
	assert.True(t, Step(model.ViewDay, nov4, model.Previous).Equal(nov3))

	// a week of day steps lands on the same day as one week step
	d := nov3
	for i := 0; i < 7; i++ {
		d = Step(model.ViewDay, d, model.Next)
	}
	assert.True(t, d.Equal(Step(model.ViewWeek, nov3, model.Next)))
	assert.Equal(t, 10, d.Day())

	oct4 := model.StartOfDay(2018, time.October, 4, sp)
	assert.True(t, Step(model.ViewMonth, oct4, model.Next).Equal(nov4))
}

func TestTitle(t *testing.T) {
	anchor := date(2024, time.March, 15)

	tests := []struct {
		mode   model.ViewMode
		anchor time.Time
		want   string
	}{
		{model.ViewDay, anchor, "March 15, 2024"},
		{model.ViewWeek, anchor, "Mar 10 – Mar 16, 2024"},
		{model.ViewWeek, date(2025, time.January, 1), "Dec 29 – Jan 4, 2025"},
		{model.ViewMonth, anchor, "March 2024"},
		{model.ViewYear, anchor, "2024"},
		{model.ViewMode("bogus"), anchor, ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(tt.mode, tt.anchor))
		})
	}
}
