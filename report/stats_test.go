package report_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chairside/shop-ledger/ledger"
	"github.com/chairside/shop-ledger/report"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dollars(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func entry(barber string, svc ledger.ServiceType, cost string, on time.Time) ledger.Entry {
	return ledger.Entry{
		BarberName: barber,
		Service:    svc,
		Cost:       dollars(cost),
		Date:       on,
		Time:       "10:00:00",
		Role:       ledger.RoleEmployee,
	}
}

func ownerEntry(barber string, svc ledger.ServiceType, cost string, on time.Time) ledger.Entry {
	e := entry(barber, svc, cost, on)
	e.Role = ledger.RoleOwner
	return e
}

func march2026() report.Window {
	return report.MonthWindow(day(2026, time.March, 15))
}

func testSettings() report.OwnerSettings {
	return report.OwnerSettings{
		Rent:           dollars("1500"),
		Utilities:      dollars("300"),
		CommissionRate: dollars("0.3"),
	}
}

// =============================================================================
// WINDOW TESTS
// =============================================================================

func TestMonthWindow_CoversTheWholeCalendarMonth(t *testing.T) {
	// GIVEN: An anchor date in mid-March
	// WHEN: Building its month window
	// THEN: The window runs from March 1 inclusive to April 1 exclusive

	w := march2026()

	if !w.Start.Equal(day(2026, time.March, 1)) {
		t.Errorf("expected start March 1, got %v", w.Start)
	}
	if !w.End.Equal(day(2026, time.April, 1)) {
		t.Errorf("expected end April 1, got %v", w.End)
	}

	if !w.Contains(day(2026, time.March, 1)) {
		t.Error("first of the month should be inside the window")
	}
	if !w.Contains(day(2026, time.March, 31)) {
		t.Error("last of the month should be inside the window")
	}
	if w.Contains(day(2026, time.April, 1)) {
		t.Error("first of the next month should be outside the window")
	}
	if w.Contains(day(2026, time.February, 28)) {
		t.Error("the previous month should be outside the window")
	}
}

func TestMonthWindow_DecemberRollsIntoJanuary(t *testing.T) {
	w := report.MonthWindow(day(2026, time.December, 31))

	if !w.End.Equal(day(2027, time.January, 1)) {
		t.Errorf("expected end January 1 2027, got %v", w.End)
	}
}

func TestWindow_FilterKeepsOrder(t *testing.T) {
	w := march2026()
	in := []ledger.Entry{
		entry("David", ledger.ServiceHaircut, "35", day(2026, time.March, 20)),
		entry("Maria", ledger.ServiceLineUp, "20", day(2026, time.February, 5)),
		entry("David", ledger.ServiceBeardTrim, "25", day(2026, time.March, 2)),
		entry("Maria", ledger.ServiceHaircut, "35", day(2026, time.April, 1)),
	}

	got := w.Filter(in)

	if len(got) != 2 {
		t.Fatalf("expected 2 entries in March, got %d", len(got))
	}
	if !got[0].Date.Equal(day(2026, time.March, 20)) || !got[1].Date.Equal(day(2026, time.March, 2)) {
		t.Errorf("filter must keep input order, got %v then %v", got[0].Date, got[1].Date)
	}
}

func TestWindow_Label(t *testing.T) {
	if got := march2026().Label(); got != "2026-03" {
		t.Errorf("expected label 2026-03, got %q", got)
	}
}

// =============================================================================
// HEADLINE STATS TESTS
// =============================================================================

func TestSummarize_CountsProductSalesAsRevenueButNotServices(t *testing.T) {
	// GIVEN: Two services and one product sale
	// WHEN: Summarizing
	// THEN: Revenue and transactions count all three; services count two

	entries := []ledger.Entry{
		entry("David", ledger.ServiceHaircut, "35", day(2026, time.March, 2)),
		entry("Maria", ledger.ServiceBeardTrim, "25", day(2026, time.March, 3)),
		entry("David", ledger.ServiceProduct, "15", day(2026, time.March, 3)),
	}

	got := report.Summarize(entries)

	if !got.Revenue.Equal(dollars("75")) {
		t.Errorf("expected revenue 75, got %v", got.Revenue)
	}
	if got.Transactions != 3 {
		t.Errorf("expected 3 transactions, got %d", got.Transactions)
	}
	if got.Services != 2 {
		t.Errorf("expected 2 services, got %d", got.Services)
	}
	if !got.AveragePrice.Equal(dollars("25")) {
		t.Errorf("expected average price 25, got %v", got.AveragePrice)
	}
}

func TestSummarize_EmptyMonth(t *testing.T) {
	got := report.Summarize(nil)

	if !got.Revenue.IsZero() {
		t.Errorf("expected zero revenue, got %v", got.Revenue)
	}
	if got.Transactions != 0 || got.Services != 0 {
		t.Errorf("expected zero counts, got %d/%d", got.Transactions, got.Services)
	}
	if !got.AveragePrice.IsZero() {
		t.Errorf("average of nothing should be zero, got %v", got.AveragePrice)
	}
}

// =============================================================================
// GROUPING TESTS
// =============================================================================

func TestRevenueByBarber_HighestEarnerFirst(t *testing.T) {
	entries := []ledger.Entry{
		entry("Maria", ledger.ServiceLineUp, "20", day(2026, time.March, 2)),
		entry("David", ledger.ServiceHaircut, "35", day(2026, time.March, 2)),
		entry("David", ledger.ServiceBeardTrim, "25", day(2026, time.March, 3)),
		entry("Maria", ledger.ServiceLineUp, "20", day(2026, time.March, 4)),
	}

	got := report.RevenueByBarber(entries)

	if len(got) != 2 {
		t.Fatalf("expected 2 barbers, got %d", len(got))
	}
	if got[0].Barber != "David" || !got[0].Revenue.Equal(dollars("60")) {
		t.Errorf("expected David with 60 first, got %s with %v", got[0].Barber, got[0].Revenue)
	}
	if got[1].Barber != "Maria" || !got[1].Revenue.Equal(dollars("40")) {
		t.Errorf("expected Maria with 40 second, got %s with %v", got[1].Barber, got[1].Revenue)
	}
}

func TestRevenueByBarber_TiesBreakAlphabetically(t *testing.T) {
	entries := []ledger.Entry{
		entry("Maria", ledger.ServiceHaircut, "35", day(2026, time.March, 2)),
		entry("Anna", ledger.ServiceHaircut, "35", day(2026, time.March, 2)),
	}

	got := report.RevenueByBarber(entries)

	if got[0].Barber != "Anna" || got[1].Barber != "Maria" {
		t.Errorf("tied revenue must sort by name, got %s then %s", got[0].Barber, got[1].Barber)
	}
}

func TestRevenueByDay_EarliestFirst(t *testing.T) {
	entries := []ledger.Entry{
		entry("David", ledger.ServiceHaircut, "35", day(2026, time.March, 9)),
		entry("Maria", ledger.ServiceLineUp, "20", day(2026, time.March, 2)),
		entry("David", ledger.ServiceBeardTrim, "25", day(2026, time.March, 9)),
	}

	got := report.RevenueByDay(entries)

	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d", len(got))
	}
	if !got[0].Day.Equal(day(2026, time.March, 2)) || !got[0].Revenue.Equal(dollars("20")) {
		t.Errorf("expected March 2 with 20 first, got %v with %v", got[0].Day, got[0].Revenue)
	}
	if !got[1].Day.Equal(day(2026, time.March, 9)) || !got[1].Revenue.Equal(dollars("60")) {
		t.Errorf("expected March 9 with 60 second, got %v with %v", got[1].Day, got[1].Revenue)
	}
}

func TestRevenueByService_OffMenuValuesGetTheirOwnSlice(t *testing.T) {
	// Off-menu service labels typed into the file survive normalization,
	// so the breakdown must group them rather than lose them.
	entries := []ledger.Entry{
		entry("David", ledger.ServiceHaircut, "35", day(2026, time.March, 2)),
		entry("Maria", "Hot Towel", "10", day(2026, time.March, 2)),
		entry("David", ledger.ServiceHaircut, "35", day(2026, time.March, 3)),
	}

	got := report.RevenueByService(entries)

	if len(got) != 2 {
		t.Fatalf("expected 2 service groups, got %d", len(got))
	}
	if got[0].Service != ledger.ServiceHaircut || !got[0].Revenue.Equal(dollars("70")) {
		t.Errorf("expected Haircut with 70 first, got %s with %v", got[0].Service, got[0].Revenue)
	}
	if got[1].Service != "Hot Towel" || !got[1].Revenue.Equal(dollars("10")) {
		t.Errorf("expected Hot Towel with 10, got %s with %v", got[1].Service, got[1].Revenue)
	}
}

func TestTransactionsByHour_SkipsUnparsableTimes(t *testing.T) {
	morning := entry("David", ledger.ServiceHaircut, "35", day(2026, time.March, 2))
	morning.Time = "09:15:00"
	morningToo := entry("Maria", ledger.ServiceLineUp, "20", day(2026, time.March, 2))
	morningToo.Time = "09:45:00"
	afternoon := entry("David", ledger.ServiceBeardTrim, "25", day(2026, time.March, 2))
	afternoon.Time = "14:30:00"
	broken := entry("Maria", ledger.ServiceHaircut, "35", day(2026, time.March, 2))
	broken.Time = "after lunch"

	got := report.TransactionsByHour([]ledger.Entry{morning, morningToo, afternoon, broken})

	if len(got) != 2 {
		t.Fatalf("expected 2 hour buckets, got %d", len(got))
	}
	if got[0].Hour != 9 || got[0].Count != 2 {
		t.Errorf("expected hour 9 with 2, got hour %d with %d", got[0].Hour, got[0].Count)
	}
	if got[1].Hour != 14 || got[1].Count != 1 {
		t.Errorf("expected hour 14 with 1, got hour %d with %d", got[1].Hour, got[1].Count)
	}
}
