package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chairside/shop-ledger/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func goodRecord() ledger.Record {
	return ledger.Record{
		ID:           "id-1",
		Date:         "2026-03-10",
		Time:         "10:30:00",
		BarberName:   "marcus",
		CustomerName: "j cole",
		ServiceType:  "Haircut",
		Cost:         "35",
		Role:         "Employee",
		DurationMin:  "30",
	}
}

func recordsOf(entries []ledger.Entry) []ledger.Record {
	out := make([]ledger.Record, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Record())
	}
	return out
}

// =============================================================================
// COERCION RULES
// =============================================================================

func TestNormalizeRecord_FullRow(t *testing.T) {
	e, ok := ledger.NormalizeRecord(goodRecord())
	require.True(t, ok)

	assert.Equal(t, ledger.EntryID("id-1"), e.ID)
	assert.Equal(t, "2026-03-10", ledger.FormatDate(e.Date))
	assert.Equal(t, "10:30:00", e.Time)
	assert.Equal(t, "Marcus", e.BarberName, "names are title-cased")
	assert.Equal(t, "J Cole", e.CustomerName)
	assert.Equal(t, ledger.ServiceHaircut, e.Service)
	assert.Equal(t, "35", e.Cost.String())
	assert.Equal(t, ledger.RoleEmployee, e.Role)
	assert.Equal(t, 30, e.DurationMin)
}

func TestNormalize_DropsExactlyTheUnusableRows(t *testing.T) {
	// GIVEN: Four rows; one has a date no layout parses, one a
	//        non-numeric cost
	// WHEN: Normalizing
	// THEN: Exactly those two rows are excluded, in-order

	badDate := goodRecord()
	badDate.ID = "bad-date"
	badDate.Date = "sometime in march"

	badCost := goodRecord()
	badCost.ID = "bad-cost"
	badCost.Cost = "thirty five"

	last := goodRecord()
	last.ID = "id-2"

	entries := ledger.Normalize([]ledger.Record{goodRecord(), badDate, badCost, last})

	require.Len(t, entries, 2)
	assert.Equal(t, ledger.EntryID("id-1"), entries[0].ID)
	assert.Equal(t, ledger.EntryID("id-2"), entries[1].ID)
}

func TestNormalizeRecord_NegativeCostSurvives(t *testing.T) {
	// Historical refunds live in the book. Entry-time validation is what
	// blocks new negatives; normalize only requires numeric.
	rec := goodRecord()
	rec.Cost = "-12.50"

	e, ok := ledger.NormalizeRecord(rec)
	require.True(t, ok)
	assert.Equal(t, "-12.5", e.Cost.String())
}

func TestNormalizeRecord_Defaults(t *testing.T) {
	rec := goodRecord()
	rec.ServiceType = ""
	rec.Role = ""
	rec.DurationMin = ""

	e, ok := ledger.NormalizeRecord(rec)
	require.True(t, ok)
	assert.Equal(t, ledger.ServiceHaircut, e.Service)
	assert.Equal(t, ledger.RoleEmployee, e.Role)
	assert.Equal(t, ledger.DefaultDurationMin, e.DurationMin)
}

func TestNormalizeRecord_CanonicalizesKnownVocabulary(t *testing.T) {
	rec := goodRecord()
	rec.ServiceType = "beard trim"
	rec.Role = "OWNER"

	e, ok := ledger.NormalizeRecord(rec)
	require.True(t, ok)
	assert.Equal(t, ledger.ServiceBeardTrim, e.Service)
	assert.Equal(t, ledger.RoleOwner, e.Role)
}

func TestNormalizeRecord_OffMenuServiceKeptAsTyped(t *testing.T) {
	rec := goodRecord()
	rec.ServiceType = "Hot Towel"

	e, ok := ledger.NormalizeRecord(rec)
	require.True(t, ok)
	assert.Equal(t, ledger.ServiceType("Hot Towel"), e.Service,
		"unknown services group under their own label instead of vanishing")
}

func TestNormalizeRecord_DurationSnapsToBookedLengths(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 30},
		{"abc", 30},
		{"30", 30},
		{"30.0", 30}, // float round trips happen in hand-edited files
		{"37", 30},
		{"38", 45},
		{"200", 90},
		{"-5", 30},
	}
	for _, tc := range cases {
		rec := goodRecord()
		rec.DurationMin = tc.raw
		e, ok := ledger.NormalizeRecord(rec)
		require.True(t, ok)
		assert.Equal(t, tc.want, e.DurationMin, "duration %q", tc.raw)
	}
}

func TestNormalizeRecord_DateLayouts(t *testing.T) {
	// The canonical form plus what hand-edited and exported files contain.
	for _, raw := range []string{
		"2026-03-10",
		"2026-03-10 14:30:00",
		"2026-03-10T14:30:00Z",
		"03/10/2026",
		"3/10/2026",
	} {
		rec := goodRecord()
		rec.Date = raw
		e, ok := ledger.NormalizeRecord(rec)
		require.True(t, ok, "date %q should parse", raw)
		assert.Equal(t, "2026-03-10", ledger.FormatDate(e.Date), "date %q", raw)
	}
}

func TestTitleCase_TrimsAndCases(t *testing.T) {
	assert.Equal(t, "Jamal W", ledger.TitleCase("  jamal w  "))
	assert.Equal(t, "Maria", ledger.TitleCase("MARIA"))
	assert.Equal(t, "", ledger.TitleCase("   "))
}

// =============================================================================
// IDEMPOTENCE - normalize(normalize(x)) == normalize(x)
// =============================================================================

func TestNormalize_Idempotent(t *testing.T) {
	// GIVEN: A messy table (casing, blanks, floats, an off-menu service)
	// WHEN: Normalizing, rendering back to records, normalizing again
	// THEN: The second pass changes nothing

	messy := goodRecord()
	messy.BarberName = "  DAVID  "
	messy.CustomerName = "walk in"
	messy.ServiceType = "line up"
	messy.DurationMin = "45.0"

	odd := goodRecord()
	odd.ID = "id-2"
	odd.Cost = "22.50"
	odd.Role = "owner"
	odd.ServiceType = "Hot Towel"
	odd.DurationMin = ""

	once := recordsOf(ledger.Normalize([]ledger.Record{messy, odd}))
	twice := recordsOf(ledger.Normalize(once))

	assert.Equal(t, once, twice)
}
