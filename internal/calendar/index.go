package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "contentcal/internal/log"
	"contentcal/internal/model"
)

const (
	// maxOccurrencesPerItem caps how many occurrences one recurring item may
	// contribute to a single ItemsBetween call.
	maxOccurrencesPerItem = 5000

	// maxOccurrencesPerDay caps one recurring item's firings on a single
	// calendar day (every 15 minutes).
	maxOccurrencesPerDay = 96
)

// Index holds scheduled content in insertion order and answers per-day and
// per-hour lookups with a linear scan. Not safe for concurrent use.
type Index struct {
	items []model.ContentItem

	// rules caches parsed recurrence rules by item ID.
	rules map[string]*rrule.RRule
}

func NewIndex() *Index {
	return &Index{rules: make(map[string]*rrule.RRule)}
}

// Add appends item. There is no deduplication.
func (x *Index) Add(item model.ContentItem) {
	x.items = append(x.items, item)
	if item.IsRecurring() {
		if r := parseRule(item); r != nil {
			x.rules[item.ID] = r
		}
	}
}

func (x *Index) Len() int {
	return len(x.items)
}

// All returns a copy of the items in insertion order.
func (x *Index) All() []model.ContentItem {
	out := make([]model.ContentItem, len(x.items))
	copy(out, x.items)
	return out
}

// ItemsOnDate returns items whose calendar day matches date, in insertion
// order. A recurring item contributes one copy per firing of its rule on
// that day. The time of day carried by date is ignored.
func (x *Index) ItemsOnDate(date time.Time) []model.ContentItem {
	out := make([]model.ContentItem, 0)
	for _, item := range x.items {
		out = append(out, x.occurrencesOn(item, date)...)
	}
	return out
}

// ItemsOnDateAtHour narrows ItemsOnDate to items whose time of day falls in
// hour, ordered by time of day.
func (x *Index) ItemsOnDateAtHour(date time.Time, hour int) []model.ContentItem {
	out := make([]model.ContentItem, 0)
	for _, item := range x.ItemsOnDate(date) {
		if item.Time.Hour == hour {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.String() < out[j].Time.String()
	})
	return out
}

// ItemsBetween returns every occurrence whose scheduled time falls in
// [from, to), ordered by scheduled time.
func (x *Index) ItemsBetween(from, to time.Time) []model.ContentItem {
	out := make([]model.ContentItem, 0)
	if !to.After(from) {
		return out
	}
	for _, item := range x.items {
		r, ok := x.rules[item.ID]
		if !ok {
			at := item.ScheduledAt()
			if !at.Before(from) && at.Before(to) {
				out = append(out, item)
			}
			continue
		}
		hits, truncated := firings(r, from, to, maxOccurrencesPerItem)
		if truncated {
			appLog.Info("index: occurrences truncated", "id", item.ID, "max", maxOccurrencesPerItem)
		}
		for _, at := range hits {
			out = append(out, occurrenceAt(item, at))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ScheduledAt().Before(out[j].ScheduledAt())
	})
	return out
}

func (x *Index) occurrencesOn(item model.ContentItem, date time.Time) []model.ContentItem {
	r, ok := x.rules[item.ID]
	if !ok {
		if model.SameDay(item.Date, date) {
			return []model.ContentItem{item}
		}
		return nil
	}

	y, m, d := date.Date()
	start := model.StartOfDay(y, m, d, item.Date.Location())

	hits, truncated := firings(r, start, model.AddDays(start, 1), maxOccurrencesPerDay)
	if truncated {
		appLog.Debug("index: day occurrences truncated", "id", item.ID, "day", start.Format(time.DateOnly), "max", maxOccurrencesPerDay)
	}
	out := make([]model.ContentItem, 0, len(hits))
	for _, at := range hits {
		out = append(out, occurrenceAt(item, at))
	}
	return out
}

// firings walks r's occurrences in [from, to), keeping at most limit of
// them. Occurrences that fall in the same minute as the previous one
// collapse into it, since items are scheduled to the minute.
func firings(r *rrule.RRule, from, to time.Time, limit int) (hits []time.Time, truncated bool) {
	next := r.Iterator()
	var last time.Time
	for {
		at, ok := next()
		if !ok || !at.Before(to) {
			return hits, false
		}
		if at.Before(from) {
			continue
		}
		minute := at.Truncate(time.Minute)
		if len(hits) > 0 && minute.Equal(last) {
			continue
		}
		if len(hits) == limit {
			return hits, true
		}
		last = minute
		hits = append(hits, at)
	}
}

// occurrenceAt copies item onto the day and time of day of at; rules with
// several BYHOUR/BYMINUTE values keep each occurrence's own clock.
func occurrenceAt(item model.ContentItem, at time.Time) model.ContentItem {
	at = at.In(item.Date.Location())
	occ := item
	occ.Date = model.DateOf(at, nil)
	occ.Time = model.Clock{Hour: at.Hour(), Minute: at.Minute()}
	return occ
}

// parseRule builds the rule for a recurring item anchored at its first
// scheduled time. Invalid rules are logged and the item is treated as a
// one-off.
func parseRule(item model.ContentItem) *rrule.RRule {
	opt, err := ruleOption(item.Recurrence)
	if err != nil {
		appLog.Error("index: invalid recurrence rule; treating as single", err, "id", item.ID, "rrule", item.Recurrence)
		return nil
	}
	opt.Dtstart = item.ScheduledAt()
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		appLog.Error("index: recurrence rule rejected; treating as single", err, "id", item.ID, "rrule", item.Recurrence)
		return nil
	}
	return r
}

// ValidRecurrence reports whether s parses as an RRULE body, with or
// without the "RRULE:" prefix, whose frequency is DAILY or coarser.
func ValidRecurrence(s string) bool {
	opt, err := ruleOption(s)
	if err != nil {
		return false
	}
	opt.Dtstart = time.Now()
	_, err = rrule.NewRRule(*opt)
	return err == nil
}

// ruleOption parses s and rejects HOURLY, MINUTELY and SECONDLY rules.
// Items are placed on calendar days; a sub-daily rule yields dozens to
// tens of thousands of copies per day.
func ruleOption(s string) (*rrule.ROption, error) {
	opt, err := rrule.StrToROption(trimRulePrefix(s))
	if err != nil {
		return nil, err
	}
	if opt.Freq > rrule.DAILY {
		return nil, fmt.Errorf("unsupported frequency %s: want DAILY, WEEKLY, MONTHLY or YEARLY", opt.Freq)
	}
	return opt, nil
}

func trimRulePrefix(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 6 && strings.EqualFold(s[:6], "RRULE:") {
		return s[6:]
	}
	return s
}
