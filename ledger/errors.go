/*
errors.go - Centralized error types for the ledger domain

PURPOSE:
  All domain error values in one place for consistency and
  discoverability. Store and session packages wrap these with their own
  context.

ERROR CATEGORIES:
  1. Entry errors - missing rows, pending-confirmation state
  2. File errors - batch files rejected during merge or import

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, ledger.ErrPendingEntry) {
        // ask the user to confirm or discard first
    }

SEE ALSO:
  - merge.go / import.go: produce RejectedFileError
  - session: returns the pending-entry sentinels
*/
package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEntryNotFound is returned when a delete names an ID that is not
	// among the actor's visible rows.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrMissingColumns is returned (wrapped in RejectedFileError) when a
	// batch file lacks required columns.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrPendingEntry is returned when an add arrives while an earlier
	// entry is still awaiting warning confirmation.
	ErrPendingEntry = errors.New("an entry is already awaiting confirmation")

	// ErrNoPendingEntry is returned by confirm/discard when nothing is
	// parked.
	ErrNoPendingEntry = errors.New("no entry awaiting confirmation")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RejectedFileError reports why one batch file was left out of a merge or
// import. Rejection is always per file: other files in the same batch
// proceed.
type RejectedFileError struct {
	Name    string   // file name as given by the caller
	Missing []string // canonical columns absent from the header
	Err     error    // set when the file never parsed into a table
}

func (e *RejectedFileError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("file %q rejected: missing required columns: %s",
			e.Name, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("file %q rejected: %v", e.Name, e.Err)
}

func (e *RejectedFileError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrMissingColumns
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing ledger row.
func IsNotFound(err error) bool { return errors.Is(err, ErrEntryNotFound) }

// IsRejectedFile reports whether the error is a per-file batch rejection.
func IsRejectedFile(err error) bool {
	var rfe *RejectedFileError
	return errors.As(err, &rfe)
}
