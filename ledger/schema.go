/*
schema.go - Versioned canonical schema

PURPOSE:
  The ledger file's header is a contract. This file pins each known layout
  as an explicit version, detects which version a header speaks, and
  reconciles foreign or stale tables onto the current layout.

VERSIONS:
  V1  ID, Date, Time, Barber_Name, Customer_Name, Service_Type, Cost, Role
  V2  V1 + Duration_Min

  Upgrades run one version at a time. V1 -> V2 synthesizes a blank
  duration, which normalization later fills with the default.

SEE ALSO:
  - store/csvfile: decides append-vs-rewrite off DetectVersion
  - merge.go / import.go: use MissingColumns for per-file validation
*/
package ledger

import "strings"

// =============================================================================
// SCHEMA VERSIONS
// =============================================================================

type SchemaVersion int

const (
	// SchemaV1 is the original eight-column layout from before
	// appointment durations were tracked.
	SchemaV1 SchemaVersion = 1

	// SchemaV2 appends Duration_Min.
	SchemaV2 SchemaVersion = 2
)

// CurrentSchema is the version every write targets.
func CurrentSchema() SchemaVersion { return SchemaV2 }

// Columns returns the ordered column list for a schema version.
func Columns(v SchemaVersion) []string {
	cols := []string{ColID, ColDate, ColTime, ColBarberName, ColCustomerName, ColServiceType, ColCost, ColRole}
	if v >= SchemaV2 {
		cols = append(cols, ColDurationMin)
	}
	return cols
}

// CurrentColumns returns the ordered column list of the current schema.
func CurrentColumns() []string { return Columns(CurrentSchema()) }

// DetectVersion matches a header against the known layouts. Matching is
// exact: same columns, same order, whitespace-trimmed. A foreign header
// (reordered, renamed, extra columns) matches nothing and goes through
// reconciliation instead.
func DetectVersion(header []string) (SchemaVersion, bool) {
	for v := CurrentSchema(); v >= SchemaV1; v-- {
		if headerEqual(header, Columns(v)) {
			return v, true
		}
	}
	return 0, false
}

func headerEqual(header, cols []string) bool {
	if len(header) != len(cols) {
		return false
	}
	for i := range header {
		if strings.TrimSpace(header[i]) != cols[i] {
			return false
		}
	}
	return true
}

// UpgradeFields moves one row a single version forward. Rows already at
// the target (or beyond) pass through untouched.
func UpgradeFields(from SchemaVersion, fields []string) []string {
	switch from {
	case SchemaV1:
		// V1 -> V2: blank duration; normalize applies the default.
		out := make([]string, 0, len(fields)+1)
		out = append(out, fields...)
		return append(out, "")
	default:
		return fields
	}
}

// =============================================================================
// HEADER RECONCILIATION
// =============================================================================

// columnIndex maps trimmed column names to their position. First
// occurrence wins when a header repeats a name.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		name := strings.TrimSpace(col)
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}
	return idx
}

// ReconcileTable maps every row of an arbitrarily-headed table onto the
// canonical schema by column name. Missing canonical columns come out
// blank; extraneous columns are dropped; the canonical order is restored.
func ReconcileTable(header []string, rows [][]string) []Record {
	idx := columnIndex(header)
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, reconcileRow(idx, row))
	}
	return records
}

// ReconcileRow maps a single row onto the canonical schema. Convenience
// over ReconcileTable for one-off rows.
func ReconcileRow(header, fields []string) Record {
	return reconcileRow(columnIndex(header), fields)
}

func reconcileRow(idx map[string]int, fields []string) Record {
	value := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(fields) {
			return ""
		}
		return fields[i]
	}
	canonical := make([]string, 0, len(CurrentColumns()))
	for _, col := range CurrentColumns() {
		canonical = append(canonical, value(col))
	}
	return RecordFromFields(canonical)
}

// MissingColumns reports which of the wanted columns are absent from a
// header, in want order. Empty result means the header qualifies.
func MissingColumns(header, want []string) []string {
	idx := columnIndex(header)
	var missing []string
	for _, col := range want {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}
