package ledger

import "github.com/google/uuid"

// =============================================================================
// IDENTIFIER GENERATION
// =============================================================================

// NewEntryID mints an identifier for a ledger row: a UUIDv7, so IDs sort
// by creation time and stay unique across processes that never talk to
// each other (each barber keeps their own file and merges later).
//
// Earlier generations of the ledger used a wall-clock-plus-suffix form
// like "20240311093045123456-ab12". Those remain valid forever: nothing
// here or downstream ever rewrites a non-blank ID.
func NewEntryID() EntryID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does. Fall back to v4
		// and keep the uniqueness guarantee, losing only sortability.
		id = uuid.New()
	}
	return EntryID(id.String())
}
