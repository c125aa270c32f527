/*
normalize.go - Record -> Entry coercion

PURPOSE:
  Whatever shape a row arrives in (hand-edited file, merge from another
  chair's laptop, pre-duration export), normalization produces typed
  entries under one set of rules, or excludes the row from analytics
  without destroying it.

RULES:
  - Date: multi-layout parse to day granularity; unparsable drops the row
  - Cost: decimal parse; unparsable drops the row (negative survives;
    entry-time validation is what blocks new negatives)
  - Service_Type: blank -> Haircut; known values take canonical casing;
    unknown values pass through as typed
  - Role: blank -> Employee; same casing rule
  - Barber_Name, Customer_Name: trimmed and title-cased
  - Duration_Min: blank or unparsable -> 30; otherwise snapped to the
    nearest booked duration
  - Time: trimmed, otherwise untouched

INVARIANT:
  Normalize is idempotent: converting its output back to records and
  normalizing again changes nothing.
*/
package ledger

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// NORMALIZATION
// =============================================================================

// Normalize converts raw records to typed entries, excluding rows whose
// date or cost cannot be coerced. Order is preserved.
func Normalize(records []Record) []Entry {
	entries := make([]Entry, 0, len(records))
	for _, r := range records {
		if e, ok := NormalizeRecord(r); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// NormalizeRecord coerces a single record. The second return is false
// when the row cannot participate in analytics.
func NormalizeRecord(r Record) (Entry, bool) {
	date, ok := ParseDate(r.Date)
	if !ok {
		return Entry{}, false
	}
	cost, ok := parseCost(r.Cost)
	if !ok {
		return Entry{}, false
	}
	return Entry{
		ID:           EntryID(strings.TrimSpace(r.ID)),
		Date:         date,
		Time:         strings.TrimSpace(r.Time),
		BarberName:   TitleCase(r.BarberName),
		CustomerName: TitleCase(r.CustomerName),
		Service:      normalizeService(r.ServiceType),
		Cost:         cost,
		Role:         normalizeRole(r.Role),
		DurationMin:  parseDuration(r.DurationMin),
	}, true
}

// TitleCase trims and title-cases a name. "  jamal w  " -> "Jamal W".
func TitleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

func normalizeService(s string) ServiceType {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ServiceHaircut
	}
	if st, ok := ParseServiceType(trimmed); ok {
		return st
	}
	// Off-menu value typed into the file. Keep it; reporting groups it
	// under its own label.
	return ServiceType(trimmed)
}

func normalizeRole(s string) Role {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return RoleEmployee
	}
	if r, ok := ParseRole(trimmed); ok {
		return r
	}
	return Role(trimmed)
}

func parseCost(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseDuration accepts both "30" and the "30.0" a float round trip
// leaves behind.
func parseDuration(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDurationMin
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return DefaultDurationMin
	}
	return SnapDuration(int(f))
}

func formatDuration(min int) string { return strconv.Itoa(SnapDuration(min)) }
