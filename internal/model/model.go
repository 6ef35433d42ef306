package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock is a minute-precision time of day, independent of any date.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "H:MM" or "HH:MM" (24-hour). Seconds are not accepted.
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	h, m, ok := strings.Cut(s, ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return Clock{}, fmt.Errorf("invalid time of day %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock{Hour: hour, Minute: minute}, nil
}

// String renders zero-padded HH:MM, which sorts chronologically.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ContentItem is a single scheduled post.
//
// Date carries only the calendar day (its first instant in the display
// location, normally midnight) and Time carries the time of day; they are
// combined on read by ScheduledAt.
type ContentItem struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`

	Date time.Time `json:"date"`
	Time Clock     `json:"time"`

	Caption  string `json:"caption"`
	CoverRef string `json:"cover_ref,omitempty"`

	// Recurrence is an optional RRULE (e.g. "FREQ=WEEKLY;BYDAY=MO").
	// Empty means the item occurs once on Date.
	Recurrence string `json:"recurrence,omitempty"`
}

// ScheduledAt combines Date and Time in Date's location.
func (c ContentItem) ScheduledAt() time.Time {
	return time.Date(c.Date.Year(), c.Date.Month(), c.Date.Day(), c.Time.Hour, c.Time.Minute, 0, 0, c.Date.Location())
}

// HasCover reports whether a cover image reference is attached.
func (c ContentItem) HasCover() bool {
	return c.CoverRef != ""
}

// IsRecurring reports whether the item carries a recurrence rule.
func (c ContentItem) IsRecurring() bool {
	return c.Recurrence != ""
}

// ViewMode is the granularity of the calendar display.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
	ViewYear  ViewMode = "year"
)

// ViewModes lists all modes in display order.
func ViewModes() []ViewMode {
	return []ViewMode{ViewDay, ViewWeek, ViewMonth, ViewYear}
}

// ParseViewMode is case-insensitive.
func ParseViewMode(s string) (ViewMode, error) {
	switch ViewMode(strings.ToLower(strings.TrimSpace(s))) {
	case ViewDay:
		return ViewDay, nil
	case ViewWeek:
		return ViewWeek, nil
	case ViewMonth:
		return ViewMonth, nil
	case ViewYear:
		return ViewYear, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

func (m ViewMode) String() string { return string(m) }

// Direction is a navigation step direction.
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

func (d Direction) String() string {
	if d == Previous {
		return "previous"
	}
	return "next"
}

// DateOf truncates t to the start of its calendar day in loc.
// A nil loc keeps t's own location.
func DateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return StartOfDay(y, m, d, t.Location())
}

// StartOfDay returns the first instant of the calendar day y-m-d in loc.
// Out-of-range fields normalize the way time.Date does (day 0 is the last
// day of the previous month). In zones where local midnight falls inside a
// DST gap, the day starts at the transition instead (01:00 in Sao Paulo on
// 2018-11-04), so the result always lies on y-m-d.
func StartOfDay(y int, m time.Month, d int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d = time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Date()

	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if onDay(t, y, m, d) {
		return t
	}
	// time.Date resolved the missing midnight into the previous day; the
	// zone in effect there ends at the transition.
	if _, end := t.ZoneBounds(); !end.IsZero() && onDay(end, y, m, d) {
		return end
	}
	for h := 1; h < 24; h++ {
		if t = time.Date(y, m, d, h, 0, 0, 0, loc); onDay(t, y, m, d) {
			return t
		}
	}
	return time.Date(y, m, d, 12, 0, 0, 0, loc)
}

// AddDays returns the start of the calendar day n days after t's day, in
// t's location. It counts calendar fields, so a short or long DST day never
// shifts the result.
func AddDays(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	return StartOfDay(y, m, d+n, t.Location())
}

func onDay(t time.Time, y int, m time.Month, d int) bool {
	ty, tm, td := t.Date()
	return ty == y && tm == m && td == d
}

// SameDay reports calendar-day identity: year, month and day are compared
// after b is converted into a's location; time of day is ignored.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDate parses "YYYY-MM-DD" as a calendar day in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	y, m, d := t.Date()
	return StartOfDay(y, m, d, loc), nil
}
