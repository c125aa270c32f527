package ledger

import (
	"strings"
	"time"
)

// =============================================================================
// DATE COERCION - Day granularity, UTC
// =============================================================================

// dateLayouts are tried in order. The first is the canonical storage form;
// the rest cover what hand-edited and exported files actually contain.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"1/2/2006",
}

// ParseDate coerces a date string to a day-granular UTC time. Returns
// false when no known layout matches; the row is then unparsable and
// stays out of analytics.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// FormatDate renders the canonical storage form.
func FormatDate(t time.Time) string { return t.Format("2006-01-02") }

// Day truncates a time to day granularity in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current day at day granularity.
func Today() time.Time { return Day(time.Now()) }

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// =============================================================================
// CLOCK COERCION - Time column stays free text
// =============================================================================

var clockLayouts = []string{
	"15:04:05",
	"15:04",
	"3:04 PM",
	"3:04PM",
}

// ParseHour extracts the hour from a clock string. Reporting uses this
// for the busy-hours histogram; anything unparsable is simply excluded.
func ParseHour(clock string) (int, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return 0, false
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return t.Hour(), true
		}
	}
	return 0, false
}
