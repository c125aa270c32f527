/*
projection.go - 30-day revenue forecast

PURPOSE:
  A deliberately naive projection the owner can sanity-check in their
  head: take the month's average revenue per ACTIVE day (days with at
  least one entry; closed Sundays don't drag the average down), run it
  forward 30 days, and split it between owner and employee revenue in
  the same proportion the month showed.
*/
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/chairside/shop-ledger/ledger"
)

// forecastDays is the projection horizon.
const forecastDays = 30

// ForecastPoint is one projected day of revenue.
type ForecastPoint struct {
	Day     time.Time
	Revenue decimal.Decimal
}

// Projection is the forward view computed from one month's entries.
// Zero-valued when the window holds no entries.
type Projection struct {
	ActiveDays          int
	DailyAverage        decimal.Decimal
	Projected           decimal.Decimal // 30-day revenue total
	ProjectedOwner      decimal.Decimal
	ProjectedEmployee   decimal.Decimal
	ProjectedCommission decimal.Decimal
	ProjectedGross      decimal.Decimal
	ProjectedNet        decimal.Decimal
	Forecast            []ForecastPoint // one point per day, flat at the average
}

// Project computes the 30-day forecast from the window's entries. The
// forecast series starts the day after the window's last active date.
func Project(entries []ledger.Entry, w Window, set OwnerSettings) Projection {
	month := w.Filter(entries)

	var total, ownerRev, empRev decimal.Decimal
	activeDays := make(map[time.Time]struct{})
	var lastActive time.Time
	for _, e := range month {
		total = total.Add(e.Cost)
		if e.Role == ledger.RoleOwner {
			ownerRev = ownerRev.Add(e.Cost)
		} else {
			empRev = empRev.Add(e.Cost)
		}
		activeDays[e.Date] = struct{}{}
		if e.Date.After(lastActive) {
			lastActive = e.Date
		}
	}

	p := Projection{ActiveDays: len(activeDays)}
	if p.ActiveDays == 0 {
		return p
	}

	p.DailyAverage = total.Div(decimal.NewFromInt(int64(p.ActiveDays)))
	p.Projected = p.DailyAverage.Mul(decimal.NewFromInt(forecastDays))

	// Split the projection by the month's observed revenue mix. A month
	// of zero-cost rows projects zero everywhere.
	if !total.IsZero() {
		p.ProjectedOwner = p.Projected.Mul(ownerRev.Div(total))
		p.ProjectedEmployee = p.Projected.Mul(empRev.Div(total))
	}
	p.ProjectedCommission = p.ProjectedEmployee.Mul(set.CommissionRate)
	p.ProjectedGross = p.ProjectedOwner.Add(p.ProjectedCommission)
	p.ProjectedNet = p.ProjectedGross.Sub(set.Expenses())

	start := lastActive.AddDate(0, 0, 1)
	p.Forecast = make([]ForecastPoint, 0, forecastDays)
	for i := 0; i < forecastDays; i++ {
		p.Forecast = append(p.Forecast, ForecastPoint{
			Day:     start.AddDate(0, 0, i),
			Revenue: p.DailyAverage,
		})
	}
	return p
}
