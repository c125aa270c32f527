/*
Package session holds the working state for one open ledger.

PURPOSE:
  Everything the interactive surface needs between keystrokes lives here,
  explicitly: the store handle, the acting user, the in-memory book, and
  the one entry that may be parked awaiting warning confirmation. Nothing
  hides in globals; a test builds a Session the same way the CLI does.

STATE MACHINE (add flow):
  Idle -> Add(valid, no warnings)  -> saved, stays Idle
  Idle -> Add(hard errors)         -> blocked, stays Idle
  Idle -> Add(warnings)            -> PendingConfirmation
  PendingConfirmation -> ConfirmPending -> saved, Idle
  PendingConfirmation -> DiscardPending -> dropped, Idle
  PendingConfirmation -> Add            -> rejected (ErrPendingEntry)

  There is no timeout and no implicit transition; only confirm or
  discard leaves the pending state.

PERSISTENCE POLICY:
  A row that reaches the session stays in the session even when the disk
  write fails; the failure is surfaced and the next successful save
  rewrites everything. Deletes are two-phase (Delete then Save) so a
  failed write never half-applies.

SEE ALSO:
  - ledger/validate.go: the rules behind blocked/pending
  - store/csvfile: where saves land
*/
package session

import (
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/chairside/shop-ledger/ledger"
	"github.com/chairside/shop-ledger/store/csvfile"
)

// =============================================================================
// SESSION
// =============================================================================

// Session is one actor's open ledger.
type Session struct {
	store *csvfile.Store
	actor ledger.Actor
	log   *slog.Logger

	records []ledger.Record
	pending *PendingEntry

	source  csvfile.LoadSource
	skipped int
	warn    error
}

// Open loads the book through the store's fallback chain and hands back a
// ready session. Degraded loads are logged and reported via Status, never
// fatal.
func Open(store *csvfile.Store, actor ledger.Actor, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	res := store.Load()
	s := &Session{
		store:   store,
		actor:   actor,
		log:     log.With("component", "session", "actor", actor.DisplayName),
		records: res.Records,
		source:  res.Source,
		skipped: res.SkippedRows,
		warn:    res.Warn,
	}
	s.log.Info("ledger opened",
		"rows", len(res.Records), "source", res.Source, "skipped", res.SkippedRows)
	return s
}

// Actor returns who this session operates as.
func (s *Session) Actor() ledger.Actor { return s.actor }

// =============================================================================
// ADD FLOW
// =============================================================================

// AddOutcome says how an Add ended.
type AddOutcome string

const (
	AddSaved   AddOutcome = "saved"
	AddBlocked AddOutcome = "blocked"
	AddPending AddOutcome = "pending"
)

// AddResult reports one pass through the add flow. SaveErr is set when
// the row reached the session but not the disk.
type AddResult struct {
	Outcome  AddOutcome
	Entry    ledger.Entry // set when Outcome is AddSaved
	Errors   []string
	Warnings []string
	SaveErr  error
}

// PendingEntry is an entry parked for warning confirmation.
type PendingEntry struct {
	Input    ledger.NewEntryInput
	Warnings []string
	Since    time.Time
}

// Add validates the input and either saves it, blocks it, or parks it
// pending confirmation. Returns ErrPendingEntry while an earlier entry is
// still parked.
func (s *Session) Add(in ledger.NewEntryInput) (AddResult, error) {
	if s.pending != nil {
		return AddResult{}, ledger.ErrPendingEntry
	}

	in = in.Normalized()
	res := ledger.Validate(in)
	if !res.OK() {
		return AddResult{Outcome: AddBlocked, Errors: res.Errors, Warnings: res.Warnings}, nil
	}
	if res.NeedsConfirmation() {
		s.pending = &PendingEntry{Input: in, Warnings: res.Warnings, Since: time.Now()}
		s.log.Info("entry parked for confirmation", "warnings", len(res.Warnings))
		return AddResult{Outcome: AddPending, Warnings: res.Warnings}, nil
	}
	return s.commit(in, nil), nil
}

// ConfirmPending saves the parked entry.
func (s *Session) ConfirmPending() (AddResult, error) {
	if s.pending == nil {
		return AddResult{}, ledger.ErrNoPendingEntry
	}
	p := *s.pending
	s.pending = nil
	return s.commit(p.Input, p.Warnings), nil
}

// DiscardPending drops the parked entry without saving anything.
func (s *Session) DiscardPending() error {
	if s.pending == nil {
		return ledger.ErrNoPendingEntry
	}
	s.pending = nil
	s.log.Info("pending entry discarded")
	return nil
}

// Pending returns the parked entry, if any.
func (s *Session) Pending() (PendingEntry, bool) {
	if s.pending == nil {
		return PendingEntry{}, false
	}
	return *s.pending, true
}

func (s *Session) commit(in ledger.NewEntryInput, warnings []string) AddResult {
	entry := in.Entry(ledger.NewEntryID())
	rec := entry.Record()
	s.records = append(s.records, rec)

	res := AddResult{Outcome: AddSaved, Entry: entry, Warnings: warnings}
	if err := s.store.Append(rec); err != nil {
		// The row stays in the session; the next successful save
		// rewrites the whole book.
		s.log.Error("entry kept in session but not saved", "id", entry.ID, "error", err)
		res.SaveErr = err
		return res
	}
	s.log.Info("entry saved",
		"id", entry.ID, "barber", entry.BarberName, "service", entry.Service, "cost", entry.Cost)
	return res
}

// =============================================================================
// VIEWS - everything the actor sees goes through the visibility filter
// =============================================================================

// Records returns the actor-visible raw rows.
func (s *Session) Records() []ledger.Record {
	return ledger.Visible(append([]ledger.Record(nil), s.records...), s.actor)
}

// Entries returns the actor-visible normalized entries, ready for
// reporting.
func (s *Session) Entries() []ledger.Entry {
	return ledger.VisibleEntries(ledger.Normalize(s.records), s.actor)
}

// =============================================================================
// DELETE + SAVE
// =============================================================================

// Delete removes the rows carrying the ID from the session. Only rows the
// actor can see qualify; a barber cannot delete another chair's work even
// by guessing its ID.
func (s *Session) Delete(id ledger.EntryID) error {
	found := false
	for _, r := range ledger.Visible(s.records, s.actor) {
		if !id.IsZero() && r.ID == string(id) {
			found = true
			break
		}
	}
	if !found {
		return ledger.ErrEntryNotFound
	}
	s.records, _ = ledger.Delete(s.records, id)
	s.log.Info("entry deleted from session", "id", id)
	return nil
}

// Save writes the session's book over the store. On failure the session
// keeps its state so the caller can retry or export.
func (s *Session) Save() error {
	if err := s.store.Overwrite(s.records); err != nil {
		s.log.Error("save failed, session state kept", "rows", len(s.records), "error", err)
		return err
	}
	s.log.Info("ledger saved", "rows", len(s.records))
	return nil
}

// =============================================================================
// MERGE / IMPORT / EXPORT
// =============================================================================

// MergeFiles merges the given CSV files into the book and persists the
// result. Files are validated one by one; rejected files ride back in the
// result while the accepted ones merge regardless.
func (s *Session) MergeFiles(paths ...string) (ledger.MergeResult, error) {
	sources := make([]ledger.MergeSource, 0, len(paths))
	for _, p := range paths {
		header, rows, err := csvfile.ReadFile(p)
		sources = append(sources, ledger.MergeSource{
			Name:   filepath.Base(p),
			Header: header,
			Rows:   rows,
			Err:    err,
		})
	}

	res := ledger.Merge(s.records, sources)
	s.records = res.Records
	if err := s.Save(); err != nil {
		return res, err
	}
	s.log.Info("merge complete",
		"accepted", len(res.Accepted), "rejected", len(res.Rejected),
		"added", res.Added, "ids_assigned", res.AssignedIDs, "deduped", res.DuplicatesRemoved)
	return res, nil
}

// ImportFile imports a foreign CSV on behalf of the actor and persists.
func (s *Session) ImportFile(path string) (ledger.ImportResult, error) {
	name := filepath.Base(path)
	header, rows, err := csvfile.ReadFile(path)
	if err != nil {
		return ledger.ImportResult{}, &ledger.RejectedFileError{Name: name, Err: err}
	}
	res, err := ledger.Import(s.actor, name, header, rows)
	if err != nil {
		return ledger.ImportResult{}, err
	}

	s.records = append(s.records, res.Records...)
	if err := s.Save(); err != nil {
		return res, err
	}
	s.log.Info("import complete", "file", name, "rows", res.Imported)
	return res, nil
}

// ExportCSV writes the actor-visible book as CSV.
func (s *Session) ExportCSV(w io.Writer) error {
	return csvfile.WriteCSV(w, s.Records())
}

// =============================================================================
// STATUS
// =============================================================================

// Status is the health line shown at the top of every surface.
type Status struct {
	Records      int // visible to the actor
	DataFile     string
	ModTime      time.Time
	HasFile      bool
	Source       csvfile.LoadSource
	SkippedRows  int
	LoadWarning  error
	PendingEntry bool
}

// Status reports the session's health for display.
func (s *Session) Status() Status {
	mt, ok := s.store.ModTime()
	return Status{
		Records:      len(s.Records()),
		DataFile:     s.store.Path(),
		ModTime:      mt,
		HasFile:      ok,
		Source:       s.source,
		SkippedRows:  s.skipped,
		LoadWarning:  s.warn,
		PendingEntry: s.pending != nil,
	}
}
