/*
stats.go - Monthly metrics and revenue groupings

PURPOSE:
  The numbers both roles see: headline stats for a window and the four
  groupings behind the dashboard charts. All sorts are deterministic
  (value, then label) so the same book always renders the same report.
*/
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chairside/shop-ledger/ledger"
)

// =============================================================================
// HEADLINE STATS
// =============================================================================

// MonthlyStats are the headline numbers for one window of entries.
type MonthlyStats struct {
	Revenue      decimal.Decimal
	Transactions int
	AveragePrice decimal.Decimal
	Services     int // transactions excluding product sales
}

// Summarize computes headline stats over the given entries. Callers pass
// window-filtered, visibility-filtered entries.
func Summarize(entries []ledger.Entry) MonthlyStats {
	s := MonthlyStats{Transactions: len(entries)}
	for _, e := range entries {
		s.Revenue = s.Revenue.Add(e.Cost)
		if e.Service != ledger.ServiceProduct {
			s.Services++
		}
	}
	if s.Transactions > 0 {
		s.AveragePrice = s.Revenue.Div(decimal.NewFromInt(int64(s.Transactions)))
	}
	return s
}

// =============================================================================
// GROUPINGS
// =============================================================================

// BarberRevenue is one bar of the revenue-by-barber chart.
type BarberRevenue struct {
	Barber  string
	Revenue decimal.Decimal
}

// RevenueByBarber totals revenue per barber, highest earner first.
func RevenueByBarber(entries []ledger.Entry) []BarberRevenue {
	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		totals[e.BarberName] = totals[e.BarberName].Add(e.Cost)
	}
	out := make([]BarberRevenue, 0, len(totals))
	for barber, rev := range totals {
		out = append(out, BarberRevenue{Barber: barber, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Barber < out[j].Barber
	})
	return out
}

// DailyRevenue is one point of the revenue-over-time line.
type DailyRevenue struct {
	Day     time.Time
	Revenue decimal.Decimal
}

// RevenueByDay totals revenue per calendar day, earliest first.
func RevenueByDay(entries []ledger.Entry) []DailyRevenue {
	totals := make(map[time.Time]decimal.Decimal)
	for _, e := range entries {
		totals[e.Date] = totals[e.Date].Add(e.Cost)
	}
	out := make([]DailyRevenue, 0, len(totals))
	for day, rev := range totals {
		out = append(out, DailyRevenue{Day: day, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// ServiceRevenue is one slice of the revenue-by-service breakdown.
type ServiceRevenue struct {
	Service ledger.ServiceType
	Revenue decimal.Decimal
}

// RevenueByService totals revenue per service type, highest first.
// Off-menu values typed into the file group under their own label.
func RevenueByService(entries []ledger.Entry) []ServiceRevenue {
	totals := make(map[ledger.ServiceType]decimal.Decimal)
	for _, e := range entries {
		totals[e.Service] = totals[e.Service].Add(e.Cost)
	}
	out := make([]ServiceRevenue, 0, len(totals))
	for svc, rev := range totals {
		out = append(out, ServiceRevenue{Service: svc, Revenue: rev})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Service < out[j].Service
	})
	return out
}

// HourCount is one bar of the busy-hours histogram.
type HourCount struct {
	Hour  int
	Count int
}

// TransactionsByHour counts entries per clock hour, ascending. Entries
// whose Time column does not parse are simply excluded.
func TransactionsByHour(entries []ledger.Entry) []HourCount {
	counts := make(map[int]int)
	for _, e := range entries {
		if h, ok := ledger.ParseHour(e.Time); ok {
			counts[h]++
		}
	}
	out := make([]HourCount, 0, len(counts))
	for h, n := range counts {
		out = append(out, HourCount{Hour: h, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out
}
