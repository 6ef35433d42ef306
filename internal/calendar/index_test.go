package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentcal/internal/model"
)

func item(id string, day time.Time, hour, minute int) model.ContentItem {
	return model.ContentItem{
		ID:       id,
		Platform: "Instagram",
		Date:     day,
		Time:     model.Clock{Hour: hour, Minute: minute},
	}
}

func ids(items []model.ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestItemsOnDateBucketsByCalendarDay(t *testing.T) {
	x := NewIndex()
	x.Add(item("a", date(2024, time.March, 15), 9, 30))

	// Query time of day must not matter.
	for _, q := range []time.Time{
		date(2024, time.March, 15),
		time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC),
		time.Date(2024, time.March, 15, 9, 30, 0, 0, time.UTC),
	} {
		assert.Equal(t, []string{"a"}, ids(x.ItemsOnDate(q)), q.String())
	}

	assert.Empty(t, x.ItemsOnDate(date(2024, time.March, 14)))
	assert.Empty(t, x.ItemsOnDate(date(2024, time.March, 16)))
	assert.Empty(t, x.ItemsOnDate(date(2023, time.March, 15)))
}

func TestItemsOnDateKeepsInsertionOrder(t *testing.T) {
	x := NewIndex()
	day := date(2024, time.March, 15)
	x.Add(item("late", day, 18, 0))
	x.Add(item("other-day", date(2024, time.March, 16), 8, 0))
	x.Add(item("early", day, 7, 0))
	x.Add(item("dup", day, 7, 0))

	assert.Equal(t, []string{"late", "early", "dup"}, ids(x.ItemsOnDate(day)))
	assert.Equal(t, 4, x.Len())
}

func TestItemsOnDateEmptyIsNotNil(t *testing.T) {
	x := NewIndex()
	got := x.ItemsOnDate(date(2024, time.March, 15))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestItemsOnDateAtHour(t *testing.T) {
	x := NewIndex()
	day := date(2024, time.March, 15)
	x.Add(item("a", day, 9, 30))

	assert.Equal(t, []string{"a"}, ids(x.ItemsOnDateAtHour(day, 9)))
	assert.Empty(t, x.ItemsOnDateAtHour(day, 10))
	assert.Empty(t, x.ItemsOnDateAtHour(day, 8))
}

func TestItemsOnDateAtHourSortsByTime(t *testing.T) {
	x := NewIndex()
	day := date(2024, time.March, 15)
	x.Add(item("0945", day, 9, 45))
	x.Add(item("0905", day, 9, 5))
	x.Add(item("0930-first", day, 9, 30))
	x.Add(item("0930-second", day, 9, 30))

	assert.Equal(t, []string{"0905", "0930-first", "0930-second", "0945"}, ids(x.ItemsOnDateAtHour(day, 9)))
}

func TestAllReturnsCopy(t *testing.T) {
	x := NewIndex()
	x.Add(item("a", date(2024, time.March, 15), 9, 0))

	all := x.All()
	all[0].ID = "mutated"
	assert.Equal(t, "a", x.All()[0].ID)
}

func TestRecurringItemExpandsPerDay(t *testing.T) {
	x := NewIndex()
	weekly := item("weekly", date(2024, time.March, 4), 9, 0) // a Monday
	weekly.Recurrence = "FREQ=WEEKLY;BYDAY=MO"
	x.Add(weekly)

	got := x.ItemsOnDate(date(2024, time.March, 11))
	require.Len(t, got, 1)
	assert.Equal(t, "weekly", got[0].ID)
	assert.Equal(t, date(2024, time.March, 11), got[0].Date)
	assert.Equal(t, time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC), got[0].ScheduledAt())

	assert.Empty(t, x.ItemsOnDate(date(2024, time.March, 12)))
	assert.Empty(t, x.ItemsOnDate(date(2024, time.February, 26)), "no occurrences before the first date")
	assert.Len(t, x.ItemsOnDateAtHour(date(2024, time.April, 1), 9), 1)
}

func TestRecurringItemWithCount(t *testing.T) {
	x := NewIndex()
	daily := item("daily", date(2024, time.March, 30), 12, 0)
	daily.Recurrence = "RRULE:FREQ=DAILY;COUNT=3"
	x.Add(daily)

	assert.Len(t, x.ItemsOnDate(date(2024, time.March, 30)), 1)
	assert.Len(t, x.ItemsOnDate(date(2024, time.April, 1)), 1)
	assert.Empty(t, x.ItemsOnDate(date(2024, time.April, 2)))
}

func TestInvalidRecurrenceFallsBackToSingle(t *testing.T) {
	x := NewIndex()
	bad := item("bad", date(2024, time.March, 4), 9, 0)
	bad.Recurrence = "FREQ=SOMETIMES"
	x.Add(bad)

	assert.Len(t, x.ItemsOnDate(date(2024, time.March, 4)), 1)
	assert.Empty(t, x.ItemsOnDate(date(2024, time.March, 11)))
}

func TestItemsBetween(t *testing.T) {
	x := NewIndex()
	x.Add(item("b", date(2024, time.March, 15), 14, 0))
	x.Add(item("a", date(2024, time.March, 15), 9, 0))
	x.Add(item("outside", date(2024, time.April, 2), 9, 0))
	weekly := item("weekly", date(2024, time.March, 4), 8, 0)
	weekly.Recurrence = "FREQ=WEEKLY;BYDAY=MO"
	x.Add(weekly)

	got := x.ItemsBetween(date(2024, time.March, 1), date(2024, time.April, 1))
	assert.Equal(t, []string{"weekly", "weekly", "a", "b", "weekly", "weekly"}, ids(got))
	assert.Equal(t, date(2024, time.March, 25), got[5].Date)

	// End bound is exclusive.
	got = x.ItemsBetween(date(2024, time.March, 15), time.Date(2024, time.March, 15, 14, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{"a"}, ids(got))

	assert.Empty(t, x.ItemsBetween(date(2024, time.March, 2), date(2024, time.March, 1)))
}

func TestRuleWithSeveralTimesKeepsOccurrenceTimes(t *testing.T) {
	x := NewIndex()
	shifts := item("shifts", date(2024, time.March, 1), 0, 0)
	shifts.Recurrence = "FREQ=DAILY;BYHOUR=0,6,12,18"
	x.Add(shifts)

	got := x.ItemsOnDate(date(2024, time.March, 2))
	require.Len(t, got, 4)
	assert.Equal(t, "18:00", got[3].Time.String())
	assert.Len(t, x.ItemsOnDateAtHour(date(2024, time.March, 2), 12), 1)
}

func TestItemsOnDateCapsOccurrences(t *testing.T) {
	x := NewIndex()
	busy := item("busy", date(2024, time.January, 1), 0, 0)
	busy.Recurrence = "FREQ=DAILY;BYHOUR=0,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20,21,22,23;BYMINUTE=0,5,10,15,20,25,30,35,40,45,50,55"
	x.Add(busy)

	got := x.ItemsOnDate(date(2024, time.January, 2))
	require.Len(t, got, maxOccurrencesPerDay)
	assert.Equal(t, "00:00", got[0].Time.String())
	assert.Equal(t, "07:55", got[maxOccurrencesPerDay-1].Time.String())
}

func TestOccurrencesCollapseWithinAMinute(t *testing.T) {
	x := NewIndex()
	burst := item("burst", date(2024, time.January, 1), 9, 0)
	burst.Recurrence = "FREQ=DAILY;BYSECOND=0,10,20,30,40,50"
	x.Add(burst)

	got := x.ItemsOnDate(date(2024, time.January, 3))
	require.Len(t, got, 1)
	assert.Equal(t, "09:00", got[0].Time.String())

	between := x.ItemsBetween(date(2024, time.January, 1), date(2024, time.January, 4))
	assert.Len(t, between, 3)
}

func TestItemsBetweenCapsOccurrences(t *testing.T) {
	x := NewIndex()
	busy := item("busy", date(2024, time.January, 1), 0, 0)
	busy.Recurrence = "FREQ=DAILY;BYHOUR=0,1,2,3,4,5,6,7,8,9,10,11,12,13,14,15,16,17,18,19,20,21,22,23;BYMINUTE=0,15,30,45"
	x.Add(busy)

	// 96 a day for 60 days is 5760
	got := x.ItemsBetween(date(2024, time.January, 1), date(2024, time.March, 1))
	assert.Len(t, got, maxOccurrencesPerItem)
}

func TestSubDailyRuleFallsBackToSingle(t *testing.T) {
	x := NewIndex()
	spam := item("spam", date(2024, time.March, 1), 9, 0)
	spam.Recurrence = "FREQ=SECONDLY"
	x.Add(spam)

	assert.Len(t, x.ItemsOnDate(date(2024, time.March, 1)), 1)
	assert.Empty(t, x.ItemsOnDate(date(2024, time.March, 2)))
}

func TestValidRecurrence(t *testing.T) {
	assert.True(t, ValidRecurrence("FREQ=WEEKLY;BYDAY=MO,WE"))
	assert.True(t, ValidRecurrence("RRULE:FREQ=DAILY;INTERVAL=2"))
	assert.False(t, ValidRecurrence("FREQ=SOMETIMES"))
	assert.False(t, ValidRecurrence("BYDAY=XX"))

	for _, freq := range []string{"HOURLY", "MINUTELY", "SECONDLY"} {
		assert.False(t, ValidRecurrence("FREQ="+freq), freq)
		assert.False(t, ValidRecurrence("RRULE:FREQ="+freq+";INTERVAL=6"), freq)
	}
	assert.True(t, ValidRecurrence("FREQ=DAILY;BYHOUR=9,18"))
}
