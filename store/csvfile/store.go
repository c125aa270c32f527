/*
Package csvfile provides the CSV-backed implementation of ledger storage.

PURPOSE:
  The whole shop runs off two small text files: the ledger CSV and its
  single-generation backup. This package owns every byte that moves
  between ledger.Record and those files.

DURABILITY MODEL:
  - Plain files, no locks, no rename dance. Last write wins; multi-chair
    use runs on per-barber files reconciled with ledger.Merge.
  - Before every mutation the current file is copied byte-for-byte into
    the backup slot. Backup failure is logged and reported but never
    blocks the write: a missed backup is recoverable, a blocked save at
    the counter is not.

FALLBACK CHAIN (Load):
  primary parses     -> primary rows
  primary missing    -> empty book, no complaint
  primary unreadable -> backup rows (warn), else empty book (warn)

SCHEMA DRIFT (Append):
  A file whose header matches the current schema gets the one new row
  appended. A stale or foreign header triggers a full rewrite: existing
  rows are reconciled to the current schema and the whole book is written
  fresh. Reads complete before the backup is taken, because the backup
  slot is the only fallback generation there is.

USAGE:
  store := csvfile.New("shop_data.csv", "shop_data_backup.csv", logger)
  res := store.Load()
  if res.Warn != nil {
      // degraded load, already logged; res.Records still usable
  }

SEE ALSO:
  - ledger/schema.go: header detection and reconciliation
  - backup.go: the byte-for-byte copy
*/
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chairside/shop-ledger/ledger"
)

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes one ledger file with one backup slot.
type Store struct {
	path       string
	backupPath string
	log        *slog.Logger
}

// New creates a store over the given data and backup paths. A nil logger
// falls back to slog.Default.
func New(path, backupPath string, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		path:       path,
		backupPath: backupPath,
		log:        log.With("component", "csvfile"),
	}
}

func (s *Store) Path() string       { return s.path }
func (s *Store) BackupPath() string { return s.backupPath }

// ModTime returns the data file's last modification time, false when the
// file does not exist yet.
func (s *Store) ModTime() (time.Time, bool) {
	fi, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, false
	}
	return fi.ModTime(), true
}

// =============================================================================
// ERRORS
// =============================================================================

// StoreError wraps a read or write failure with the operation and path.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string { return fmt.Sprintf("csvfile: %s %s: %v", e.Op, e.Path, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

// BackupError wraps a failed backup copy. Callers treat it as non-fatal.
type BackupError struct {
	Path string
	Err  error
}

func (e *BackupError) Error() string { return fmt.Sprintf("csvfile: backup %s: %v", e.Path, e.Err) }
func (e *BackupError) Unwrap() error { return e.Err }

// =============================================================================
// LOAD
// =============================================================================

// LoadSource says where the rows actually came from.
type LoadSource string

const (
	SourcePrimary LoadSource = "primary"
	SourceBackup  LoadSource = "backup"
	SourceEmpty   LoadSource = "empty"
)

// LoadResult is what Load produces. Load never fails outright: a missing
// file is an empty book, an unreadable one degrades through the backup.
// Warn carries the degradation cause for reporting; it is nil on the
// happy path.
type LoadResult struct {
	Records     []ledger.Record
	Source      LoadSource
	SkippedRows int
	Warn        error
}

// Load reads the book through the fallback chain.
func (s *Store) Load() LoadResult {
	recs, skipped, err := readLedgerFile(s.path)
	if err == nil {
		return LoadResult{Records: recs, Source: SourcePrimary, SkippedRows: skipped}
	}
	if errors.Is(err, os.ErrNotExist) {
		return LoadResult{Records: []ledger.Record{}, Source: SourceEmpty}
	}

	warn := &StoreError{Op: "load", Path: s.path, Err: err}
	s.log.Warn("primary ledger unreadable, trying backup",
		"path", s.path, "error", err)

	brecs, bskipped, berr := readLedgerFile(s.backupPath)
	if berr == nil {
		s.log.Info("recovered ledger from backup",
			"path", s.backupPath, "rows", len(brecs))
		return LoadResult{Records: brecs, Source: SourceBackup, SkippedRows: bskipped, Warn: warn}
	}

	s.log.Warn("backup ledger unreadable too, starting empty",
		"path", s.backupPath, "error", berr)
	return LoadResult{Records: []ledger.Record{}, Source: SourceEmpty, Warn: warn}
}

// readLedgerFile parses one ledger CSV: header detection, ragged-row
// skipping, reconciliation to the current schema. Stale-version files are
// upgraded in memory here; the file itself is only rewritten by the next
// mutation.
func readLedgerFile(path string) ([]ledger.Record, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	header, rows, err := ReadCSV(f)
	if err != nil {
		return nil, 0, err
	}
	if len(header) == 0 {
		// Zero-byte file: an empty book, not an error.
		return []ledger.Record{}, 0, nil
	}

	want := len(header)
	full := make([][]string, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		if len(row) != want {
			skipped++
			continue
		}
		full = append(full, row)
	}
	return ledger.ReconcileTable(header, full), skipped, nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Append adds one record. The write shape depends on the file found:
// missing or empty -> fresh file; current header -> append one row; stale
// or foreign header -> full rewrite at the current schema.
func (s *Store) Append(rec ledger.Record) error {
	header, err := s.readHeader()
	switch {
	case err != nil && errors.Is(err, os.ErrNotExist):
		s.backupBeforeWrite()
		return s.writeAll([]ledger.Record{rec})
	case err != nil:
		// Unreadable primary: recover what the fallback chain can, then
		// rewrite the whole book including the new row.
		res := s.Load()
		s.backupBeforeWrite()
		return s.writeAll(append(res.Records, rec))
	case len(header) == 0:
		s.backupBeforeWrite()
		return s.writeAll([]ledger.Record{rec})
	}

	if v, ok := ledger.DetectVersion(header); ok && v == ledger.CurrentSchema() {
		s.backupBeforeWrite()
		return s.appendRow(rec)
	}

	// Schema drift. Reads first: Load may still need the backup slot.
	res := s.Load()
	s.backupBeforeWrite()
	s.log.Info("ledger schema drift, rewriting file",
		"path", s.path, "rows", len(res.Records)+1)
	return s.writeAll(append(res.Records, rec))
}

// Overwrite replaces the whole book.
func (s *Store) Overwrite(records []ledger.Record) error {
	s.backupBeforeWrite()
	return s.writeAll(records)
}

func (s *Store) backupBeforeWrite() {
	if err := s.Backup(); err != nil {
		s.log.Warn("backup failed, proceeding with write",
			"path", s.backupPath, "error", err)
	}
}

// readHeader parses only the first line of the data file.
func (s *Store) readHeader() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return header, nil
}

// appendRow writes one row to the end of a file already at the current
// schema. Guards against a hand-edited file that lost its final newline.
func (s *Store) appendRow(rec ledger.Record) error {
	f, err := os.OpenFile(s.path, os.O_RDWR, 0o644)
	if err != nil {
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}

	err = func() error {
		fi, err := f.Stat()
		if err != nil {
			return err
		}
		if size := fi.Size(); size > 0 {
			last := make([]byte, 1)
			if _, err := f.ReadAt(last, size-1); err != nil {
				return err
			}
			if _, err := f.Seek(0, io.SeekEnd); err != nil {
				return err
			}
			if last[0] != '\n' {
				if _, err := f.Write([]byte("\n")); err != nil {
					return err
				}
			}
		}
		cw := csv.NewWriter(f)
		if err := cw.Write(rec.Fields()); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}()

	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.log.Error("ledger append failed", "path", s.path, "error", err)
		return &StoreError{Op: "append", Path: s.path, Err: err}
	}
	return nil
}

// writeAll writes header plus all records, truncating the file.
func (s *Store) writeAll(records []ledger.Record) error {
	f, err := os.Create(s.path)
	if err != nil {
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	err = WriteCSV(f, records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.log.Error("ledger write failed", "path", s.path, "rows", len(records), "error", err)
		return &StoreError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// =============================================================================
// PLAIN CSV I/O - shared by merge, import and export
// =============================================================================

// ReadCSV parses a CSV stream into header and rows. Ragged rows pass
// through (FieldsPerRecord is disabled); quote-level corruption fails the
// whole read, which is what sends Load down the fallback chain.
func ReadCSV(r io.Reader) (header []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[0], all[1:], nil
}

// ReadFile reads one CSV file from disk, for merge and import sources.
func ReadFile(path string) (header []string, rows [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the canonical header and the records to w. Exports and
// the store's own rewrites share this, so every surface emits the same
// column order.
func WriteCSV(w io.Writer, records []ledger.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ledger.CurrentColumns()); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Fields()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
