package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/trip-assistant/internal/model"
)

// friday is the fixed "today" used across the package tests.
var friday = model.MustDate("2026-05-15")

func clockAt(d model.Date) func() time.Time {
	return func() time.Time { return time.Date(d.Year, d.Month, d.Day, 10, 30, 0, 0, time.UTC) }
}

func TestReferenceRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		today      string
		ref        model.DateReference
		start, end string
	}{
		{"next week from friday", "2026-05-15", model.RefNextWeek, "2026-05-18", "2026-05-24"},
		{"next week from sunday", "2026-05-17", model.RefNextWeek, "2026-05-18", "2026-05-24"},
		{"next week from monday", "2026-05-18", model.RefNextWeek, "2026-05-25", "2026-05-31"},
		{"next month", "2026-05-15", model.RefNextMonth, "2026-06-01", "2026-06-30"},
		{"next month in december", "2026-12-20", model.RefNextMonth, "2027-01-01", "2027-01-31"},
		{"weekend from friday", "2026-05-15", model.RefThisWeekend, "2026-05-16", "2026-05-17"},
		{"weekend on saturday", "2026-05-16", model.RefThisWeekend, "2026-05-16", "2026-05-17"},
		{"weekend on sunday", "2026-05-17", model.RefThisWeekend, "2026-05-23", "2026-05-24"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			start, end, ok := referenceRange(tt.ref, model.MustDate(tt.today))
			require.True(t, ok)
			assert.Equal(t, tt.start, start.String())
			assert.Equal(t, tt.end, end.String())
		})
	}

	_, _, ok := referenceRange(model.RefNone, friday)
	assert.False(t, ok)
}

func TestScanDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text       string
		start, end string
	}{
		{"leaving 2026-06-01 back 2026-06-09", "2026-06-01", "2026-06-09"},
		{"June 3-10", "2026-06-03", "2026-06-10"},
		{"from june 28 to july 4", "2026-06-28", "2026-07-04"},
		{"Dec 28 - Jan 3", "2026-12-28", "2027-01-03"},
		{"the 3rd to 10th of August", "2026-08-03", "2026-08-10"},
		{"from the 3rd to the 5th of June", "2026-06-03", "2026-06-05"},
		{"June 3rd to the 8th", "2026-06-03", "2026-06-08"},
		{"on July 4th", "2026-07-04", ""},
		{"around 5 June", "2026-06-05", ""},
		{"flying 6/20", "2026-06-20", ""},
		{"until June 12", "", "2026-06-12"},
		{"from June 1 returning June 8", "2026-06-01", "2026-06-08"},
		{"tomorrow", "2026-05-16", ""},
		{"the day after tomorrow", "2026-05-17", ""},
		{"March 3", "2027-03-03", ""},
		{"sometime in June", "", ""},
		{"Feb 30", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			start, end := assignDates(scanDates(tt.text, friday))
			assert.Equal(t, tt.start, dateString(start))
			assert.Equal(t, tt.end, dateString(end))
		})
	}
}

func TestScanDates_EndCueIgnoresWordEndings(t *testing.T) {
	t.Parallel()

	start, end := assignDates(scanDates("Toronto June 3", friday))
	assert.Equal(t, "2026-06-03", dateString(start))
	assert.Nil(t, end)
}

func TestResolveDay_RollsYearForward(t *testing.T) {
	t.Parallel()

	d, ok := resolveDay(time.May, 15, 0, friday)
	require.True(t, ok)
	assert.Equal(t, "2026-05-15", d.String())

	d, ok = resolveDay(time.May, 14, 0, friday)
	require.True(t, ok)
	assert.Equal(t, "2027-05-14", d.String())

	d, ok = resolveDay(time.February, 29, 0, friday)
	require.True(t, ok)
	assert.Equal(t, "2028-02-29", d.String())
}

func TestScanSpan(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"for 5 days":           4,
		"for five nights":      5,
		"for a week":           6,
		"for 2 weeks":          13,
		"a 3-day trip":         2,
		"spend 4 days there":   3,
		"7 nights in Lisbon":   7,
		"for 1 day":            1,
		"for a couple of days": 1,
		"no duration here":     0,
	}
	for text, want := range tests {
		assert.Equal(t, want, scanSpan(text), text)
	}
}

func TestScanReference(t *testing.T) {
	t.Parallel()

	assert.Equal(t, model.RefNextWeek, scanReference("sometime next week"))
	assert.Equal(t, model.RefNextMonth, scanReference("Next Month maybe"))
	assert.Equal(t, model.RefThisWeekend, scanReference("this coming weekend"))
	assert.Equal(t, model.RefNone, scanReference("next weekend"))
}

func dateString(d *model.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
