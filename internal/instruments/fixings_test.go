package instruments

import (
	"testing"
	"time"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
)

var fixAsOf = dates.YMD(2026, 1, 5)

func closeOn(y int, m time.Month, d int) dates.DateTime {
	return dates.At(dates.YMD(y, m, d), dates.Close)
}

func TestFixingTableLookup(t *testing.T) {
	at := closeOn(2025, 12, 15)
	table, err := NewFixingTable(fixAsOf, map[string][]Fixing{
		"ACME": {{At: at, Value: 102.0}},
	})
	if err != nil {
		t.Fatalf("NewFixingTable error: %v", err)
	}

	if v, ok := table.Fixing("ACME", at); !ok || v != 102.0 {
		t.Fatalf("expected fixing 102.0, got %v (found %v)", v, ok)
	}
	// The open and the close on the same date are distinct observations.
	if _, ok := table.Fixing("ACME", dates.At(at.Date, dates.Open)); ok {
		t.Fatal("open fixing should not resolve from a close fixing")
	}
	if _, ok := table.Fixing("OTHER", at); ok {
		t.Fatal("unknown identifier should not resolve")
	}
}

func TestFixingTableRejectsDuplicates(t *testing.T) {
	at := closeOn(2025, 12, 15)
	_, err := NewFixingTable(fixAsOf, map[string][]Fixing{
		"ACME": {{At: at, Value: 102.0}, {At: at, Value: 103.0}},
	})
	var fErr *errors.FixingError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected FixingError for duplicate fixing, got %v", err)
	}
}

func TestFixingTableRejectsFutureFixings(t *testing.T) {
	_, err := NewFixingTable(fixAsOf, map[string][]Fixing{
		"ACME": {{At: closeOn(2026, 2, 1), Value: 102.0}},
	})
	var fErr *errors.FixingError
	if !errors.As(err, &fErr) {
		t.Fatalf("expected FixingError for a post-dated fixing, got %v", err)
	}
}
