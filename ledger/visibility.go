/*
visibility.go - Owner/barber row visibility

PURPOSE:
  One function decides which rows an actor may see, and every surface
  (counts, lists, exports, analytics) goes through it. An owner sees the
  whole book; a barber sees only rows carrying their own display name.

KNOWN GAP:
  The join between an account's display name and Barber_Name is a plain
  string match. Renaming an account orphans that barber's history: the
  rows stay in the book (the owner still sees them) but drop out of the
  barber's own view. Fixing this would take a real foreign key, which
  the flat-file design does not have.
*/
package ledger

import "strings"

// Visible filters raw records down to what the actor may see.
func Visible(records []Record, actor Actor) []Record {
	if actor.IsOwner() {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if sameName(r.BarberName, actor.DisplayName) {
			out = append(out, r)
		}
	}
	return out
}

// VisibleEntries filters normalized entries the same way.
func VisibleEntries(entries []Entry, actor Actor) []Entry {
	if actor.IsOwner() {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if sameName(e.BarberName, actor.DisplayName) {
			out = append(out, e)
		}
	}
	return out
}

// sameName compares two names after trimming, case-insensitively.
func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
