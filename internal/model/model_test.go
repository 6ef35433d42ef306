package model

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"09:30", Clock{9, 30}, false},
		{"9:05", Clock{9, 5}, false},
		{"00:00", Clock{0, 0}, false},
		{"23:59", Clock{23, 59}, false},
		{" 14:00 ", Clock{14, 0}, false},
		{"", Clock{}, true},
		{"24:00", Clock{}, true},
		{"12:60", Clock{}, true},
		{"12", Clock{}, true},
		{"12:5", Clock{}, true},
		{"ab:cd", Clock{}, true},
		{"12:00:00", Clock{}, true},
		{"-1:00", Clock{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockStringSortsChronologically(t *testing.T) {
	assert.Equal(t, "09:05", Clock{9, 5}.String())
	assert.Less(t, Clock{9, 5}.String(), Clock{10, 0}.String())
}

func TestContentItemScheduledAt(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	item := ContentItem{
		Date: time.Date(2024, time.March, 15, 0, 0, 0, 0, loc),
		Time: Clock{Hour: 9, Minute: 30},
	}

	got := item.ScheduledAt()
	assert.Equal(t, time.Date(2024, time.March, 15, 9, 30, 0, 0, loc), got)

	// Editing the time field alone moves the combined value.
	item.Time = Clock{Hour: 14, Minute: 0}
	assert.Equal(t, 14, item.ScheduledAt().Hour())
	assert.Equal(t, 15, item.ScheduledAt().Day())
}

func TestContentItemJSONUsesClockText(t *testing.T) {
	item := ContentItem{ID: "a", Platform: "Instagram", Time: Clock{7, 5}}
	data, err := json.Marshal(item)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"time":"07:05"`)

	var back ContentItem
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Clock{7, 5}, back.Time)
}

func TestParseViewMode(t *testing.T) {
	for _, m := range ViewModes() {
		got, err := ParseViewMode(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseViewMode("WEEK")
	require.NoError(t, err)
	assert.Equal(t, ViewWeek, got)

	_, err = ParseViewMode("decade")
	assert.Error(t, err)
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDay(a, time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC)))
	assert.False(t, SameDay(a, time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)))

	// 2024-03-15 20:00 in UTC-5 is 2024-03-16 01:00 UTC.
	est := time.FixedZone("EST", -5*3600)
	assert.False(t, SameDay(a, time.Date(2024, time.March, 15, 20, 0, 0, 0, est)))
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("X", 2*3600)
	in := time.Date(2024, time.March, 15, 23, 30, 0, 0, time.UTC)

	got := DateOf(in, loc)
	assert.Equal(t, time.Date(2024, time.March, 16, 0, 0, 0, 0, loc), got)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2023-02-29", time.UTC)
	assert.Error(t, err)
}

func loadZone(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestStartOfDayWhenMidnightIsSkipped(t *testing.T) {
	tests := []struct {
		zone string
		y    int
		m    time.Month
		d    int
	}{
		{"America/Sao_Paulo", 2018, time.November, 4},
		{"Africa/Cairo", 2023, time.April, 28},
	}
	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc := loadZone(t, tt.zone)

			got := StartOfDay(tt.y, tt.m, tt.d, loc)
			y, m, d := got.Date()
			assert.Equal(t, []int{tt.y, int(tt.m), tt.d}, []int{y, int(m), d})
			assert.Equal(t, 1, got.Hour())
			assert.Equal(t, 0, got.Minute())

			// one nanosecond earlier is still the previous day
			assert.Equal(t, tt.d-1, got.Add(-time.Nanosecond).Day())

			prev := StartOfDay(tt.y, tt.m, tt.d-1, loc)
			assert.Equal(t, 0, prev.Hour())
			assert.True(t, AddDays(prev, 1).Equal(got))

			next := AddDays(got, 1)
			assert.Equal(t, tt.d+1, next.Day())
			assert.Equal(t, 0, next.Hour())

			afternoon := time.Date(tt.y, tt.m, tt.d, 15, 0, 0, 0, loc)
			assert.True(t, DateOf(afternoon, nil).Equal(got))

			parsed, err := ParseDate(got.Format(time.DateOnly), loc)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(got))
		})
	}
}

func TestStartOfDayNormalizes(t *testing.T) {
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), StartOfDay(2024, time.March, 0, time.UTC))
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), AddDays(time.Date(2024, time.December, 31, 18, 0, 0, 0, time.UTC), 1))
}
