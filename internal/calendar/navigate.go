package calendar

import (
	"fmt"
	"time"

	"contentcal/internal/model"
)

// AddMonths moves t by n months, clamping the day to the target month's
// last day (Jan 31 + 1 month = Feb 29 in 2024). time.AddDate would instead
// overflow into March and skip February entirely.
//
// Clamping makes month steps non-invertible at month ends:
// Jan 31 -> Feb 29 -> Jan 29.
//
// The result is the start of the target day; anchors are days, not instants.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := model.StartOfDay(y, m+time.Month(n), 1, t.Location())
	if last := EndOfMonth(first).Day(); d > last {
		d = last
	}
	return model.AddDays(first, d-1)
}

// Step returns the anchor after one Previous or Next action in mode.
func Step(mode model.ViewMode, anchor time.Time, dir model.Direction) time.Time {
	n := int(dir)
	switch mode {
	case model.ViewDay:
		return model.AddDays(anchor, n)
	case model.ViewWeek:
		return model.AddDays(anchor, 7*n)
	case model.ViewMonth:
		return AddMonths(anchor, n)
	case model.ViewYear:
		return AddMonths(anchor, 12*n)
	}
	return anchor
}

// Title renders the header text for mode at anchor.
//
//	Day:   "March 15, 2024"
//	Week:  "Mar 10 – Mar 16, 2024"
//	Month: "March 2024"
//	Year:  "2024"
func Title(mode model.ViewMode, anchor time.Time) string {
	switch mode {
	case model.ViewDay:
		return anchor.Format("January 2, 2006")
	case model.ViewWeek:
		return fmt.Sprintf("%s – %s", StartOfWeek(anchor).Format("Jan 2"), EndOfWeek(anchor).Format("Jan 2, 2006"))
	case model.ViewMonth:
		return anchor.Format("January 2006")
	case model.ViewYear:
		return anchor.Format("2006")
	}
	return ""
}
