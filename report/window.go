/*
Package report computes everything the shop's dashboards show.

PURPOSE:
  Pure calculation over normalized, visibility-filtered entries: monthly
  stats, revenue groupings, the owner's financial summary, and the
  30-day projection. No I/O, no state; callers filter for visibility
  BEFORE handing entries in, so a barber's report can never leak another
  chair's numbers.

KEY CONCEPTS:
  - Window: A half-open [start, end) time range. Every report is
    computed for a window, not at a point in time.
  - MonthlyStats / groupings: what both roles see.
  - FinancialSummary / Projection: owner-only economics (commission,
    rent, utilities, net).

SEE ALSO:
  - ledger/visibility.go: the filter that feeds this package
  - financial.go: owner economics and the summary export row
  - projection.go: the 30-day forecast
*/
package report

import (
	"time"

	"github.com/chairside/shop-ledger/ledger"
)

// =============================================================================
// WINDOW - Half-open time range
// =============================================================================

// Window is the time boundary for a report: [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow returns the calendar month containing the anchor: first of
// the month inclusive to first of the next month exclusive.
func MonthWindow(anchor time.Time) Window {
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Filter keeps the entries dated inside the window, order preserved.
func (w Window) Filter(entries []ledger.Entry) []ledger.Entry {
	out := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		if w.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Label renders the month label used in exports, e.g. "2026-08".
func (w Window) Label() string { return w.Start.Format("2006-01") }
