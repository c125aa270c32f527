/*
import.go - Bringing foreign CSVs into the book

PURPOSE:
  Import accepts files that were never shaped like the ledger (a
  spreadsheet of appointments, another till's export) as long as they
  carry the four columns that matter. Everything else defaults.

CONTRACT:
  - Required: Date, Customer_Name, Service_Type, Cost. Missing any of
    them rejects the whole file.
  - Time defaults to "12:00:00", Role to "Employee", Duration_Min to 30.
  - Barber_Name defaults to the importing actor's display name. A
    supplied Barber_Name column is honored only when the actor is an
    owner; a barber cannot book rows onto someone else's name.
  - A supplied ID column is discarded. Imported rows always get fresh
    identifiers, so importing the same file twice creates two batches
    rather than silently deduping, and a crafted file cannot collide with
    existing history.
*/
package ledger

import (
	"strconv"
	"strings"
)

// ImportRequiredColumns lists the minimum header for an import file.
func ImportRequiredColumns() []string {
	return []string{ColDate, ColCustomerName, ColServiceType, ColCost}
}

// ImportResult carries the freshly-minted records; the caller appends
// them to the book and persists.
type ImportResult struct {
	Records  []Record
	Imported int
}

// Import converts a foreign table into ledger records on behalf of the
// actor. Returns *RejectedFileError when the header is missing required
// columns.
func Import(actor Actor, name string, header []string, rows [][]string) (ImportResult, error) {
	if missing := MissingColumns(header, ImportRequiredColumns()); len(missing) > 0 {
		return ImportResult{}, &RejectedFileError{Name: name, Missing: missing}
	}

	idx := columnIndex(header)
	value := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		barber := actor.DisplayName
		if actor.IsOwner() {
			if v := strings.TrimSpace(value(row, ColBarberName)); v != "" {
				barber = v
			}
		}
		records = append(records, Record{
			ID:           string(NewEntryID()),
			Date:         value(row, ColDate),
			Time:         defaultIfBlank(value(row, ColTime), "12:00:00"),
			BarberName:   barber,
			CustomerName: value(row, ColCustomerName),
			ServiceType:  value(row, ColServiceType),
			Cost:         value(row, ColCost),
			Role:         defaultIfBlank(value(row, ColRole), string(RoleEmployee)),
			DurationMin:  defaultIfBlank(value(row, ColDurationMin), strconv.Itoa(DefaultDurationMin)),
		})
	}
	return ImportResult{Records: records, Imported: len(records)}, nil
}

func defaultIfBlank(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
