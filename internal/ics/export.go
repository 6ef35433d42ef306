package ics

import (
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"contentcal/internal/model"
)

const (
	defaultProductID = "-//contentcal//content calendar//EN"
	defaultName      = "Content Calendar"

	// DefaultDuration is the DTEND offset written for each post.
	DefaultDuration = 15 * time.Minute
)

// ExportOptions tunes the generated feed.
type ExportOptions struct {
	// Name is the X-WR-CALNAME shown by calendar clients.
	Name string
	// Duration is the length of each VEVENT; zero uses DefaultDuration.
	Duration time.Duration
	// Now stamps DTSTAMP; zero uses time.Now.
	Now time.Time
}

// Export renders items as an iCalendar feed, one VEVENT per item.
// Recurring items keep their RRULE instead of being expanded.
func Export(items []model.ContentItem, opts ExportOptions) string {
	if opts.Name == "" {
		opts.Name = defaultName
	}
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(defaultProductID)
	cal.SetXWRCalName(opts.Name)

	for _, item := range items {
		start := item.ScheduledAt()

		ev := cal.AddEvent(item.ID + "@contentcal")
		ev.SetDtStampTime(opts.Now)
		setTimes(ev, start, start.Add(opts.Duration))
		ev.SetSummary(summaryFor(item))
		ev.SetProperty(ical.ComponentPropertyCategories, item.Platform)
		if item.Caption != "" {
			ev.SetDescription(item.Caption)
		}
		if item.HasCover() {
			ev.SetProperty(ical.ComponentPropertyAttach, item.CoverRef)
		}
		if item.IsRecurring() {
			ev.SetProperty(ical.ComponentPropertyRrule, item.Recurrence)
		}
	}

	return cal.Serialize()
}

// localStamp is the RFC 5545 DATE-TIME form without the UTC designator.
const localStamp = "20060102T150405"

// setTimes writes DTSTART and DTEND as local times with a TZID when the
// item's location has an IANA name, so that BYDAY and friends in an RRULE
// are read in that zone. Other locations are written in UTC.
func setTimes(ev *ical.VEvent, start, end time.Time) {
	tzid := tzidOf(start.Location())
	if tzid == "" {
		ev.SetStartAt(start)
		ev.SetEndAt(end)
		return
	}
	ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(localStamp), ical.WithTZID(tzid))
	ev.SetProperty(ical.ComponentPropertyDtEnd, end.In(start.Location()).Format(localStamp), ical.WithTZID(tzid))
}

// tzidOf returns loc's name when readers can load it back, or "" for UTC,
// Local and fixed zones.
func tzidOf(loc *time.Location) string {
	name := loc.String()
	if name == "" || name == "UTC" || name == "Local" {
		return ""
	}
	if _, err := time.LoadLocation(name); err != nil {
		return ""
	}
	return name
}

// summaryFor builds "Platform: first caption line".
func summaryFor(item model.ContentItem) string {
	line, _, _ := strings.Cut(item.Caption, "\n")
	line = strings.TrimSpace(line)
	if line == "" {
		return item.Platform
	}
	return item.Platform + ": " + line
}
