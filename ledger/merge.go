/*
merge.go - Reconciling per-barber ledgers into one book

PURPOSE:
  Barbers run their own copy of the ledger and bring files back for the
  owner to merge. Merge is deterministic and forgiving: files are
  validated one by one, a bad file never blocks its batch, and the store's
  own rows always come first so re-running a merge cannot reshuffle or
  overwrite history.

ALGORITHM:
  1. Start from the current book.
  2. Per source file: reject on parse failure or missing required
     columns; otherwise reconcile rows to the canonical schema and append.
  3. Backfill blank IDs across the combined book with fresh identifiers.
  4. Drop duplicate IDs, first occurrence kept.

  Running the same merge twice is a no-op: by step 4 every re-imported
  row collides with its earlier self.
*/
package ledger

// MergeSource is one candidate file. Err is set by the reader when the
// file never parsed into a table; such sources are rejected outright.
type MergeSource struct {
	Name   string
	Header []string
	Rows   [][]string
	Err    error
}

// MergeResult describes what the merge did. Records is the full combined
// book, ready for the store to overwrite.
type MergeResult struct {
	Records           []Record
	Added             int // rows taken in from accepted files, before dedup
	Accepted          []string
	Rejected          []*RejectedFileError
	AssignedIDs       int
	DuplicatesRemoved int
}

// MergeRequiredColumns lists what a source header must carry: every
// canonical column except Duration_Min, which defaults.
func MergeRequiredColumns() []string {
	cols := CurrentColumns()
	out := make([]string, 0, len(cols)-1)
	for _, c := range cols {
		if c == ColDurationMin {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Merge combines the current book with the given sources. The base always
// leads the output, sources follow in argument order, so the result is
// deterministic for a given input order.
func Merge(base []Record, sources []MergeSource) MergeResult {
	res := MergeResult{Records: append([]Record(nil), base...)}

	for _, src := range sources {
		if src.Err != nil {
			res.Rejected = append(res.Rejected, &RejectedFileError{Name: src.Name, Err: src.Err})
			continue
		}
		if missing := MissingColumns(src.Header, MergeRequiredColumns()); len(missing) > 0 {
			res.Rejected = append(res.Rejected, &RejectedFileError{Name: src.Name, Missing: missing})
			continue
		}
		recs := ReconcileTable(src.Header, src.Rows)
		res.Records = append(res.Records, recs...)
		res.Added += len(recs)
		res.Accepted = append(res.Accepted, src.Name)
	}

	// Backfill before dedup, or every blank ID would collide as "".
	for i := range res.Records {
		if EntryID(res.Records[i].ID).IsZero() {
			res.Records[i].ID = string(NewEntryID())
			res.AssignedIDs++
		}
	}

	seen := make(map[string]struct{}, len(res.Records))
	deduped := make([]Record, 0, len(res.Records))
	for _, r := range res.Records {
		if _, dup := seen[r.ID]; dup {
			res.DuplicatesRemoved++
			continue
		}
		seen[r.ID] = struct{}{}
		deduped = append(deduped, r)
	}
	res.Records = deduped
	return res
}

// Delete returns the book without the rows carrying the given ID. The
// second return reports whether anything matched; persisting the result
// is the caller's job.
func Delete(records []Record, id EntryID) ([]Record, bool) {
	out := make([]Record, 0, len(records))
	found := false
	for _, r := range records {
		if r.ID == string(id) && !id.IsZero() {
			found = true
			continue
		}
		out = append(out, r)
	}
	return out, found
}
