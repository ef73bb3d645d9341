package dates

import (
	"math"
	"testing"
	"time"
)

func TestDateTimeOrdering(t *testing.T) {
	day := YMD(2026, 1, 5)
	atOpen := At(day, Open)
	atClose := At(day, Close)

	if !atOpen.Before(atClose) {
		t.Fatal("the open should precede the close on the same date")
	}
	if atClose.Before(atOpen) {
		t.Fatal("the close should not precede the open")
	}
	if !atClose.After(atOpen) {
		t.Fatal("After should mirror Before")
	}
	if !atOpen.Equal(At(day, Open)) {
		t.Fatal("identical datetimes should compare equal")
	}

	next := At(AddDays(day, 1), Open)
	if !atClose.Before(next) {
		t.Fatal("any time on an earlier date precedes any time on a later one")
	}
}

func TestYearFraction(t *testing.T) {
	start := YMD(2026, 1, 5)
	if got := YearFraction(start, AddDays(start, 365)); math.Abs(got-1.0) > 1e-15 {
		t.Fatalf("365 days should be one year, got %v", got)
	}
	if got := YearFraction(start, start); got != 0 {
		t.Fatalf("zero-length interval: %v", got)
	}
	if got := YearFraction(start, AddDays(start, -73)); math.Abs(got+0.2) > 1e-15 {
		t.Fatalf("backward interval should be negative, got %v", got)
	}
}

func TestDaysBetween(t *testing.T) {
	start := YMD(2026, 1, 5)
	if got := DaysBetween(start, YMD(2026, 3, 1)); got != 55 {
		t.Fatalf("DaysBetween: got %d, want 55", got)
	}
}

func TestParse(t *testing.T) {
	d, err := Parse("2026-01-05")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !d.Equal(YMD(2026, 1, 5)) {
		t.Fatalf("Parse: got %v", d)
	}
	if _, err := Parse("05/01/2026"); err == nil {
		t.Fatal("expected an error for a malformed date")
	}
}

func TestDayTruncatesToMidnightUTC(t *testing.T) {
	noisy := time.Date(2026, 1, 5, 17, 30, 12, 999, time.FixedZone("X", 3600))
	if got := Day(noisy); got.Hour() != 0 || got.Location() != time.UTC {
		t.Fatalf("Day should truncate to midnight UTC, got %v", got)
	}
}

func TestSearchIndex(t *testing.T) {
	ds := []time.Time{YMD(2026, 3, 1), YMD(2026, 1, 5), YMD(2026, 6, 1)}
	Sort(ds)
	if !ds[0].Equal(YMD(2026, 1, 5)) {
		t.Fatalf("Sort: %v", ds)
	}
	if got := SearchIndex(ds, YMD(2026, 3, 1)); got != 1 {
		t.Fatalf("SearchIndex hit: got %d, want 1", got)
	}
	if got := SearchIndex(ds, YMD(2026, 4, 1)); got != -1 {
		t.Fatalf("SearchIndex miss: got %d, want -1", got)
	}
}
