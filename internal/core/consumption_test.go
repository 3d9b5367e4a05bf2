package core

import (
	"reflect"
	"testing"
	"time"
)

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func reading(id int64, prop string, year int, month string, date time.Time, value, flow float64) Reading {
	num, _ := MonthNumber(month)
	return Reading{
		ID:         id,
		PropertyID: prop,
		Year:       year,
		Month:      month,
		MonthNum:   num,
		Date:       date,
		Value:      value,
		Flow:       flow,
	}
}

func TestDeriveSelectsLatestReadingPerGroup(t *testing.T) {
	// Two readings for the same property and month: the one with the
	// later date must win regardless of insertion order.
	rows := []Reading{
		reading(2, "P1", 2024, "Tammi", day(2024, 1, 20), 110, 11),
		reading(1, "P1", 2024, "Tammi", day(2024, 1, 5), 100, 10),
	}
	got := Derive(rows, DeltaAllow)
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].ID != 2 || got[0].Value != 110 {
		t.Fatalf("expected reading 2 (value 110) as current, got id=%d value=%v", got[0].ID, got[0].Value)
	}
}

func TestDeriveTieBrokenByInsertionID(t *testing.T) {
	rows := []Reading{
		reading(7, "P1", 2024, "Tammi", day(2024, 1, 15), 105, 0),
		reading(3, "P1", 2024, "Tammi", day(2024, 1, 15), 100, 0),
	}
	got := Derive(rows, DeltaAllow)
	if len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("expected id 7 to win the date tie, got %+v", got)
	}
}

func TestDeriveNoBaselineYieldsZeroDelta(t *testing.T) {
	rows := []Reading{
		reading(1, "P1", 2024, "Maalis", day(2024, 3, 1), 500, 50),
	}
	got := Derive(rows, DeltaAllow)
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	if got[0].DeltaValue != 0 || got[0].DeltaFlow != 0 {
		t.Fatalf("expected zero deltas without a preceding month, got %+v", got[0])
	}
}

func TestDeriveMonthOverMonthDelta(t *testing.T) {
	rows := []Reading{
		reading(1, "P1", 2024, "Tammi", day(2024, 1, 31), 100, 10),
		reading(2, "P1", 2024, "Helmi", day(2024, 2, 28), 150, 13.5),
	}
	got := Derive(rows, DeltaAllow)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	// Output is ordered (property, year, month): January first.
	if got[0].DeltaValue != 0 {
		t.Fatalf("January delta should be 0, got %v", got[0].DeltaValue)
	}
	if got[1].DeltaValue != 50 {
		t.Fatalf("February delta should be 50, got %v", got[1].DeltaValue)
	}
	if got[1].DeltaFlow != 3.5 {
		t.Fatalf("February flow delta should be 3.5, got %v", got[1].DeltaFlow)
	}
}

func TestDeriveDecemberToJanuaryRollover(t *testing.T) {
	rows := []Reading{
		reading(1, "P1", 2023, "Joulu", day(2023, 12, 30), 1000, 0),
		reading(2, "P1", 2024, "Tammi", day(2024, 1, 30), 1080, 0),
	}
	got := Derive(rows, DeltaAllow)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	jan := got[1]
	if jan.Month != "Tammi" || jan.DeltaValue != 80 {
		t.Fatalf("January must take December of the previous year as baseline, got %+v", jan)
	}
}

func TestDeriveNegativeDeltaIsNotClampedByDefault(t *testing.T) {
	rows := []Reading{
		reading(1, "P1", 2024, "Tammi", day(2024, 1, 31), 900, 0),
		reading(2, "P1", 2024, "Helmi", day(2024, 2, 28), 100, 0),
	}
	got := Derive(rows, DeltaAllow)
	if got[1].DeltaValue != -800 {
		t.Fatalf("expected exact negative delta -800, got %v", got[1].DeltaValue)
	}
	if got[1].MeterReset {
		t.Fatalf("allow policy must not flag meter resets")
	}
}

func TestDeriveFlagPolicyMarksMeterReset(t *testing.T) {
	rows := []Reading{
		reading(1, "P1", 2024, "Tammi", day(2024, 1, 31), 900, 0),
		reading(2, "P1", 2024, "Helmi", day(2024, 2, 28), 100, 0),
	}
	got := Derive(rows, DeltaFlag)
	if got[1].DeltaValue != -800 || !got[1].MeterReset {
		t.Fatalf("flag policy must keep the delta and set MeterReset, got %+v", got[1])
	}
	if got[0].MeterReset {
		t.Fatalf("non-negative rows must not be flagged")
	}
}

func TestDeriveClampPolicyZeroesNegativeDelta(t *testing.T) {
	rows := []Reading{
		reading(1, "P1", 2024, "Tammi", day(2024, 1, 31), 900, 20),
		reading(2, "P1", 2024, "Helmi", day(2024, 2, 28), 100, 25),
	}
	got := Derive(rows, DeltaClamp)
	if got[1].DeltaValue != 0 {
		t.Fatalf("clamp policy must zero the negative channel, got %v", got[1].DeltaValue)
	}
	if got[1].DeltaFlow != 5 {
		t.Fatalf("clamp policy must leave the non-negative channel intact, got %v", got[1].DeltaFlow)
	}
}

func TestDeriveCorrectionScenario(t *testing.T) {
	// An early January reading gets corrected by a later one; February's
	// delta is taken against the correction.
	rows := []Reading{
		reading(1, "P1", 2024, "Tammi", day(2024, 1, 5), 100, 0),
		reading(2, "P1", 2024, "Tammi", day(2024, 1, 20), 110, 0),
		reading(3, "P1", 2024, "Helmi", day(2024, 2, 18), 140, 0),
	}
	got := Derive(rows, DeltaAllow)
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].Value != 110 {
		t.Fatalf("January current should be the corrected reading 110, got %v", got[0].Value)
	}
	if got[1].DeltaValue != 30 {
		t.Fatalf("February delta should be 140-110=30, got %v", got[1].DeltaValue)
	}
}

func TestDeriveDoesNotSynthesizeMissingMonths(t *testing.T) {
	rows := []Reading{
		reading(1, "P1", 2024, "Tammi", day(2024, 1, 31), 100, 0),
		reading(2, "P1", 2024, "Maalis", day(2024, 3, 31), 180, 0),
	}
	got := Derive(rows, DeltaAllow)
	if len(got) != 2 {
		t.Fatalf("a month without readings must not produce a row, got %d rows", len(got))
	}
	// March has no February baseline, so its delta is zero.
	if got[1].Month != "Maalis" || got[1].DeltaValue != 0 {
		t.Fatalf("March should have zero delta across the gap, got %+v", got[1])
	}
}

func TestDeriveGroupsPropertiesIndependently(t *testing.T) {
	rows := []Reading{
		reading(1, "A", 2024, "Tammi", day(2024, 1, 31), 100, 0),
		reading(2, "B", 2024, "Tammi", day(2024, 1, 31), 700, 0),
		reading(3, "A", 2024, "Helmi", day(2024, 2, 28), 130, 0),
	}
	got := Derive(rows, DeltaAllow)
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[1].PropertyID != "A" || got[1].DeltaValue != 30 {
		t.Fatalf("property A February delta should be 30, got %+v", got[1])
	}
	if got[2].PropertyID != "B" || got[2].DeltaValue != 0 {
		t.Fatalf("property B must not borrow A's baseline, got %+v", got[2])
	}
}

func TestDeriveIsIdempotent(t *testing.T) {
	rows := []Reading{
		reading(1, "P1", 2023, "Joulu", day(2023, 12, 31), 90, 9),
		reading(2, "P1", 2024, "Tammi", day(2024, 1, 5), 100, 10),
		reading(3, "P1", 2024, "Tammi", day(2024, 1, 20), 110, 11),
		reading(4, "P2", 2024, "Tammi", day(2024, 1, 20), 50, 0),
	}
	first := Derive(rows, DeltaAllow)
	second := Derive(rows, DeltaAllow)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("derivation over unchanged input must be identical:\n%+v\n%+v", first, second)
	}
}

func TestDeriveEmptyInput(t *testing.T) {
	if got := Derive(nil, DeltaAllow); len(got) != 0 {
		t.Fatalf("expected no rows for empty input, got %d", len(got))
	}
}
