/*
financial.go - Owner economics for one month

PURPOSE:
  The owner's view of a month: how revenue splits between the owner's
  chair and employees, what the commission take is, and what is left
  after fixed costs.

ARITHMETIC:
  owner revenue    = sum of Cost where Role is Owner
  employee revenue = sum of Cost where Role is Employee (and anything else)
  commission       = employee revenue x commission rate
  gross            = owner revenue + commission
  expenses         = rent + utilities
  net              = gross - expenses

  Everything is decimal; a 30% rate against $1234.50 comes out exact.
*/
package report

import (
	"encoding/csv"
	"io"

	"github.com/shopspring/decimal"

	"github.com/chairside/shop-ledger/ledger"
)

// =============================================================================
// SETTINGS
// =============================================================================

// OwnerSettings carries the shop's fixed economics. CommissionRate is a
// fraction of employee revenue, e.g. 0.30 for the default 30% take.
type OwnerSettings struct {
	Rent           decimal.Decimal
	Utilities      decimal.Decimal
	CommissionRate decimal.Decimal
}

// Expenses is the month's fixed cost total.
func (s OwnerSettings) Expenses() decimal.Decimal { return s.Rent.Add(s.Utilities) }

// =============================================================================
// FINANCIAL SUMMARY
// =============================================================================

// FinancialSummary is one month of owner economics.
type FinancialSummary struct {
	Window          Window
	OwnerRevenue    decimal.Decimal
	EmployeeRevenue decimal.Decimal
	Commission      decimal.Decimal
	Gross           decimal.Decimal
	Expenses        decimal.Decimal
	Net             decimal.Decimal
}

// Financials computes the owner summary for the window. Entries are
// window-filtered here; visibility filtering (trivial for the owner) is
// the caller's concern as everywhere in this package.
func Financials(entries []ledger.Entry, w Window, set OwnerSettings) FinancialSummary {
	var ownerRev, empRev decimal.Decimal
	for _, e := range w.Filter(entries) {
		if e.Role == ledger.RoleOwner {
			ownerRev = ownerRev.Add(e.Cost)
		} else {
			empRev = empRev.Add(e.Cost)
		}
	}

	commission := empRev.Mul(set.CommissionRate)
	gross := ownerRev.Add(commission)
	expenses := set.Expenses()
	return FinancialSummary{
		Window:          w,
		OwnerRevenue:    ownerRev,
		EmployeeRevenue: empRev,
		Commission:      commission,
		Gross:           gross,
		Expenses:        expenses,
		Net:             gross.Sub(expenses),
	}
}

// =============================================================================
// SUMMARY EXPORT
// =============================================================================

// SummaryColumns is the header of the monthly summary export.
var SummaryColumns = []string{
	"Month", "Owner_Revenue", "Employee_Revenue", "Commission", "Gross", "Expenses", "Net_Profit",
}

// SummaryRecord renders the export row, amounts fixed to cents.
func (f FinancialSummary) SummaryRecord() []string {
	return []string{
		f.Window.Label(),
		f.OwnerRevenue.StringFixed(2),
		f.EmployeeRevenue.StringFixed(2),
		f.Commission.StringFixed(2),
		f.Gross.StringFixed(2),
		f.Expenses.StringFixed(2),
		f.Net.StringFixed(2),
	}
}

// WriteSummaryCSV writes the one-row summary export.
func WriteSummaryCSV(w io.Writer, f FinancialSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryColumns); err != nil {
		return err
	}
	if err := cw.Write(f.SummaryRecord()); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
