package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"contentcal/internal/calendar"
	appLog "contentcal/internal/log"
	"contentcal/internal/model"
	"contentcal/internal/platform"
)

// Parse reads VEVENTs from an ICS payload and turns each into a schedule
// request in loc. Events without a usable DTSTART are logged and skipped;
// requests are not validated here, the controller does that on import.
//
// Field mapping (the inverse of Export):
//   - platform: CATEGORIES, else the SUMMARY prefix before ":"
//   - caption:  DESCRIPTION, else the rest of SUMMARY
//   - cover:    ATTACH
//   - RRULE is carried through as the recurrence rule
func Parse(src string, body []byte, loc *time.Location) ([]calendar.ScheduleRequest, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	if loc == nil {
		loc = time.Local
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "src", redactURL(src))
		return nil, err
	}

	out := make([]calendar.ScheduleRequest, 0)
	for _, ve := range cal.Events() {
		req, perr := parseVEvent(ve, loc)
		if perr != nil {
			appLog.Error("ics vevent skipped", perr, "src", redactURL(src))
			continue
		}
		out = append(out, req)
	}

	appLog.Info("ics parse completed", "src", redactURL(src), "event_count", len(out))
	return out, nil
}

func parseVEvent(ve *ical.VEvent, loc *time.Location) (calendar.ScheduleRequest, error) {
	var req calendar.ScheduleRequest

	if ve.GetProperty(ical.ComponentPropertyDtStart) == nil {
		return req, errors.New("missing DTSTART")
	}
	start, err := ve.GetStartAt()
	if err != nil {
		return req, err
	}
	start = start.In(loc)

	req.Date = model.DateOf(start, loc)
	req.Time = model.Clock{Hour: start.Hour(), Minute: start.Minute()}.String()

	summary := propValue(ve, ical.ComponentPropertySummary)
	req.Platform = propValue(ve, ical.ComponentPropertyCategories)
	req.Caption = propValue(ve, ical.ComponentPropertyDescription)

	if prefix, rest, ok := strings.Cut(summary, ":"); ok {
		if req.Platform == "" {
			req.Platform = strings.TrimSpace(prefix)
		}
		if req.Caption == "" {
			req.Caption = strings.TrimSpace(rest)
		}
	} else if req.Caption == "" && !strings.EqualFold(strings.TrimSpace(summary), req.Platform) {
		req.Caption = strings.TrimSpace(summary)
	}
	if first, _, ok := strings.Cut(req.Platform, ","); ok {
		req.Platform = first
	}
	req.Platform = platform.Canonical(req.Platform)

	req.CoverRef = propValue(ve, ical.ComponentPropertyAttach)
	req.Recurrence = propValue(ve, ical.ComponentPropertyRrule)

	return req, nil
}

func propValue(ve *ical.VEvent, p ical.ComponentProperty) string {
	if prop := ve.GetProperty(p); prop != nil {
		return strings.TrimSpace(prop.Value)
	}
	return ""
}
