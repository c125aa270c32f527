/*
validate.go - New entry validation

PURPOSE:
  Gate new ledger entries. Hard errors block the save; warnings require
  an explicit confirm before the save proceeds (session owns that state
  machine).

HARD ERRORS:
  - Barber name is required
  - Customer name is required
  - Cost must be greater than $0

WARNINGS:
  - Cost above $500 (unusually high)
  - Cost under $5 but above zero (unusually low)
  - Date in the future

  Warnings exist to catch typos like 350 -> 3500 at the counter, not to
  forbid anything.
*/
package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// WalkInCustomer is filled in for product sales rung up without a name.
const WalkInCustomer = "Walk-In"

// =============================================================================
// INPUT
// =============================================================================

// NewEntryInput carries what the counter flow collects for one entry.
// Zero values for Service, Role, Date, Clock and Duration take defaults
// in Normalized; the tagged fields are the hard-error surface.
type NewEntryInput struct {
	Barber   string          `validate:"required"`
	Customer string          `validate:"required"`
	Service  ServiceType     `validate:"-"`
	Cost     decimal.Decimal `validate:"gt=0"`
	Date     time.Time       `validate:"-"`
	Clock    string          `validate:"-"`
	Role     Role            `validate:"-"`
	Duration int             `validate:"-"`
}

// Normalized returns a copy with trimmed names, vocabulary defaults, the
// walk-in fill for product sales, today's date and the current clock when
// unset, and the duration snapped to a booked length.
func (in NewEntryInput) Normalized() NewEntryInput {
	out := in
	out.Barber = strings.TrimSpace(in.Barber)
	out.Customer = strings.TrimSpace(in.Customer)
	if out.Service == "" {
		out.Service = ServiceHaircut
	}
	if out.Role == "" {
		out.Role = RoleEmployee
	}
	if out.Service == ServiceProduct && out.Customer == "" {
		out.Customer = WalkInCustomer
	}
	if out.Date.IsZero() {
		out.Date = Today()
	}
	if strings.TrimSpace(out.Clock) == "" {
		out.Clock = time.Now().Format("15:04:05")
	}
	out.Duration = SnapDuration(out.Duration)
	return out
}

// Entry materializes the input into a ledger entry under the given ID.
func (in NewEntryInput) Entry(id EntryID) Entry {
	n := in.Normalized()
	return Entry{
		ID:           id,
		Date:         Day(n.Date),
		Time:         n.Clock,
		BarberName:   TitleCase(n.Barber),
		CustomerName: TitleCase(n.Customer),
		Service:      n.Service,
		Cost:         n.Cost,
		Role:         n.Role,
		DurationMin:  n.Duration,
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationResult separates what blocks a save from what merely asks for
// a second look.
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the entry may be saved (possibly after confirmation).
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// NeedsConfirmation reports whether the save must wait for an explicit go-ahead.
func (r ValidationResult) NeedsConfirmation() bool { return r.OK() && len(r.Warnings) > 0 }

// Clean reports a save with nothing to confirm.
func (r ValidationResult) Clean() bool { return r.OK() && len(r.Warnings) == 0 }

var (
	highCostThreshold = decimal.NewFromInt(500)
	lowCostThreshold  = decimal.NewFromInt(5)
)

// validationMessages maps struct field + failed tag onto the exact
// wording the counter has always shown.
var validationMessages = map[string]string{
	"Barber.required":   "Barber name is required",
	"Customer.required": "Customer name is required",
	"Cost.gt":           "Cost must be greater than $0",
}

var entryValidator = newEntryValidator()

func newEntryValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Teach the validator to see decimals as numbers so gt=0 applies.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// Validate runs the input (after Normalized) through the hard-error tags
// and the warning rules. Warnings are computed regardless of errors so a
// fixed-up resubmit doesn't surprise with new questions.
func Validate(in NewEntryInput) ValidationResult {
	in = in.Normalized()

	var res ValidationResult
	if err := entryValidator.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				key := fe.StructField() + "." + fe.Tag()
				if msg, ok := validationMessages[key]; ok {
					res.Errors = append(res.Errors, msg)
				} else {
					res.Errors = append(res.Errors, fe.Error())
				}
			}
		} else {
			res.Errors = append(res.Errors, err.Error())
		}
	}

	if in.Cost.GreaterThan(highCostThreshold) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Cost of $%s is unusually high", in.Cost.StringFixed(2)))
	}
	if in.Cost.IsPositive() && in.Cost.LessThan(lowCostThreshold) {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("Cost of $%s is unusually low", in.Cost.StringFixed(2)))
	}
	if !in.Date.IsZero() && Day(in.Date).After(Today()) {
		res.Warnings = append(res.Warnings, "Date is in the future")
	}
	return res
}
