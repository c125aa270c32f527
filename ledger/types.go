/*
Package ledger contains the core domain model for the shop ledger.

PURPOSE:
  This package defines what a ledger row IS and the rules that govern it:
  the canonical column schema, raw records as they live on disk, typed
  entries for arithmetic, validation of new entries, visibility rules,
  and set operations (merge, import, delete).

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: A raw row, all string fields, exactly as stored. Survives
    round trips even when values don't parse.
  - Entry: A normalized row with real types (decimal cost, day-granular
    date). What analytics and validation operate on.
  - ServiceType / Role: Closed vocabularies for the typed columns.
  - Actor: Who is performing an operation (owner or barber). Drives
    visibility.

DESIGN PRINCIPLES:
  1. Storage fidelity: Records preserve whatever the file held. Rows that
     fail coercion are excluded from analytics, never destroyed.
  2. Precision: Cost is decimal.Decimal end to end. Floats never carry
     money across a package boundary.
  3. Type safety: EntryID, ServiceType, Role are distinct types so a
     barber name can't slip into a service column unnoticed.

SEE ALSO:
  - schema.go: Versioned canonical schema and header reconciliation
  - normalize.go: Record -> Entry coercion rules
  - validate.go: New entry validation (hard errors and warnings)
  - visibility.go: Owner/barber row visibility
*/
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CANONICAL COLUMNS
// =============================================================================

const (
	ColID           = "ID"
	ColDate         = "Date"
	ColTime         = "Time"
	ColBarberName   = "Barber_Name"
	ColCustomerName = "Customer_Name"
	ColServiceType  = "Service_Type"
	ColCost         = "Cost"
	ColRole         = "Role"
	ColDurationMin  = "Duration_Min"
)

// =============================================================================
// SERVICE TYPES AND ROLES - Closed vocabularies
// =============================================================================

type ServiceType string

const (
	ServiceHaircut     ServiceType = "Haircut"
	ServiceBeardTrim   ServiceType = "Beard Trim"
	ServiceFullService ServiceType = "Full Service"
	ServiceLineUp      ServiceType = "Line Up"
	ServiceProduct     ServiceType = "Product"
)

// ServiceTypes returns the known service vocabulary in menu order.
func ServiceTypes() []ServiceType {
	return []ServiceType{ServiceHaircut, ServiceBeardTrim, ServiceFullService, ServiceLineUp, ServiceProduct}
}

// ParseServiceType matches a string against the known vocabulary,
// case-insensitively. Returns false for anything outside it.
func ParseServiceType(s string) (ServiceType, bool) {
	s = strings.TrimSpace(s)
	for _, st := range ServiceTypes() {
		if strings.EqualFold(s, string(st)) {
			return st, true
		}
	}
	return "", false
}

// Role is the ledger-row role: which side of the chair the revenue
// belongs to. Distinct from accounts.Role, which is about login rights.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleOwner    Role = "Owner"
)

func Roles() []Role { return []Role{RoleEmployee, RoleOwner} }

func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Roles() {
		if strings.EqualFold(s, string(r)) {
			return r, true
		}
	}
	return "", false
}

// =============================================================================
// DURATIONS
// =============================================================================

// DefaultDurationMin is applied when a row has no usable duration,
// including every row upgraded from the pre-duration schema.
const DefaultDurationMin = 30

// Durations is the set of appointment lengths the shop books, ascending.
func Durations() []int { return []int{15, 30, 45, 60, 90} }

// SnapDuration maps an arbitrary minute count onto the nearest booked
// duration. Zero and negative values take the default.
func SnapDuration(min int) int {
	if min <= 0 {
		return DefaultDurationMin
	}
	best := DefaultDurationMin
	bestDiff := -1
	for _, d := range Durations() {
		diff := min - d
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best = d
			bestDiff = diff
		}
	}
	return best
}

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EntryID string

// IsZero reports whether the identifier is blank after trimming.
// Blank IDs are what merge backfills; everything else is preserved verbatim.
func (id EntryID) IsZero() bool { return strings.TrimSpace(string(id)) == "" }

func (id EntryID) String() string { return string(id) }

// =============================================================================
// RECORD - Raw row, storage fidelity
// =============================================================================

// Record mirrors the canonical columns as plain strings. This is the unit
// the store round-trips: a row whose Cost reads "abc" stays a Record (and
// stays in the file) even though it can never become an Entry.
type Record struct {
	ID           string
	Date         string
	Time         string
	BarberName   string
	CustomerName string
	ServiceType  string
	Cost         string
	Role         string
	DurationMin  string
}

// Fields returns the record's values in canonical column order.
func (r Record) Fields() []string {
	return []string{r.ID, r.Date, r.Time, r.BarberName, r.CustomerName, r.ServiceType, r.Cost, r.Role, r.DurationMin}
}

// RecordFromFields builds a Record from values in canonical column order.
// Short slices leave trailing fields blank; extra values are dropped.
func RecordFromFields(fields []string) Record {
	get := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	return Record{
		ID:           get(0),
		Date:         get(1),
		Time:         get(2),
		BarberName:   get(3),
		CustomerName: get(4),
		ServiceType:  get(5),
		Cost:         get(6),
		Role:         get(7),
		DurationMin:  get(8),
	}
}

// =============================================================================
// ENTRY - Normalized row
// =============================================================================

// Entry is the typed view of a Record after normalization. Only rows with
// a parseable date and numeric cost become entries; everything downstream
// (validation context, reporting, export math) works on entries.
type Entry struct {
	ID           EntryID
	Date         time.Time // day granularity, UTC
	Time         string    // free-text clock, e.g. "14:30:00"
	BarberName   string
	CustomerName string
	Service      ServiceType
	Cost         decimal.Decimal
	Role         Role
	DurationMin  int
}

// Record converts the entry back to its storage form. Normalize of the
// result yields the same entry again.
func (e Entry) Record() Record {
	return Record{
		ID:           string(e.ID),
		Date:         FormatDate(e.Date),
		Time:         e.Time,
		BarberName:   e.BarberName,
		CustomerName: e.CustomerName,
		ServiceType:  string(e.Service),
		Cost:         e.Cost.String(),
		Role:         string(e.Role),
		DurationMin:  formatDuration(e.DurationMin),
	}
}

// =============================================================================
// ACTOR - Who is operating on the ledger
// =============================================================================

// ActorRole is the login-side role. Owner sees and touches everything;
// a barber is scoped to rows carrying their own display name.
type ActorRole string

const (
	ActorOwner  ActorRole = "owner"
	ActorBarber ActorRole = "barber"
)

// Actor carries the two facts the ledger needs from authentication: the
// operating role and the display name used to match Barber_Name.
type Actor struct {
	Role        ActorRole
	DisplayName string
}

func (a Actor) IsOwner() bool { return a.Role == ActorOwner }

// Owner is the implicit actor for the single-user shop: no accounts file,
// every row visible.
func Owner(displayName string) Actor { return Actor{Role: ActorOwner, DisplayName: displayName} }
