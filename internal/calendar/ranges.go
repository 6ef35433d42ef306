package calendar

import (
	"time"

	"contentcal/internal/model"
)

// Weeks start on Sunday; there is no configurable week start.
const weekStart = time.Sunday

// MonthGrid is one month of a year view: the month's first day plus the
// display days from the start of the week containing the 1st to the end of
// the week containing the last day.
type MonthGrid struct {
	Month time.Time
	Days  []time.Time
}

func dayStart(t time.Time) time.Time {
	return model.DateOf(t, nil)
}

// StartOfWeek returns the start of the Sunday on or before t.
func StartOfWeek(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) - int(weekStart) + 7) % 7
	return model.AddDays(d, -offset)
}

// EndOfWeek returns the start of the Saturday on or after t.
func EndOfWeek(t time.Time) time.Time {
	return model.AddDays(StartOfWeek(t), 6)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return model.StartOfDay(y, m, 1, t.Location())
}

// EndOfMonth returns the start of the month's last day. Day 0 of the next
// month normalizes to it, which takes care of leap years.
func EndOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return model.StartOfDay(y, m+1, 0, t.Location())
}

// DaysBetween enumerates calendar days from start to end inclusive.
// It returns nil when end is before start. Each day is derived from
// start's calendar fields, never by adding 24h to the previous one.
func DaysBetween(start, end time.Time) []time.Time {
	start, end = dayStart(start), dayStart(end.In(start.Location()))
	if end.Before(start) {
		return nil
	}
	days := make([]time.Time, 0, 31)
	for i := 0; ; i++ {
		d := model.AddDays(start, i)
		if d.After(end) {
			break
		}
		days = append(days, d)
	}
	return days
}

// DaysFor returns the ordered days a view displays.
//
//   - Day:   the anchor only
//   - Week:  Sunday..Saturday of the anchor's week
//   - Month: the 1st..last day of the anchor's month, no adjacent-month days
//   - Year:  Jan 1..Dec 31 of the anchor's year (see YearFor for the grids)
func DaysFor(mode model.ViewMode, anchor time.Time) []time.Time {
	switch mode {
	case model.ViewDay:
		return []time.Time{dayStart(anchor)}
	case model.ViewWeek:
		return DaysBetween(StartOfWeek(anchor), EndOfWeek(anchor))
	case model.ViewMonth:
		return DaysBetween(StartOfMonth(anchor), EndOfMonth(anchor))
	case model.ViewYear:
		y := anchor.Year()
		loc := anchor.Location()
		return DaysBetween(model.StartOfDay(y, time.January, 1, loc), model.StartOfDay(y, time.December, 31, loc))
	}
	return nil
}

// MonthGridFor builds the padded display grid of t's month. Unlike the
// month view, it includes lead and trail days from adjacent months so the
// length is always a multiple of 7.
func MonthGridFor(t time.Time) MonthGrid {
	first := StartOfMonth(t)
	return MonthGrid{
		Month: first,
		Days:  DaysBetween(StartOfWeek(first), EndOfWeek(EndOfMonth(first))),
	}
}

// YearFor returns the twelve month grids of the anchor's year, January first.
func YearFor(anchor time.Time) []MonthGrid {
	grids := make([]MonthGrid, 0, 12)
	for m := time.January; m <= time.December; m++ {
		grids = append(grids, MonthGridFor(model.StartOfDay(anchor.Year(), m, 1, anchor.Location())))
	}
	return grids
}

// MonthPadding returns how many blank cells precede and follow the month
// view's days to complete a Sunday-first 7-column grid.
func MonthPadding(anchor time.Time) (leading, trailing int) {
	leading = int(StartOfMonth(anchor).Weekday())
	trailing = 6 - int(EndOfMonth(anchor).Weekday())
	return leading, trailing
}
