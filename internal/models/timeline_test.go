package models

import (
	"testing"
	"time"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
)

var timelineSpot = dates.YMD(2026, 1, 5)

func obs(y int, m time.Month, d int) dates.DateTime {
	return dates.At(dates.YMD(y, m, d), dates.Close)
}

func TestCollateSortsAndDeduplicates(t *testing.T) {
	tl := NewMonteCarloTimeline(timelineSpot)
	if err := tl.AddObservation("ACME", []dates.DateTime{
		obs(2026, 6, 1), obs(2026, 3, 1), obs(2026, 6, 1), obs(2026, 9, 1),
	}); err != nil {
		t.Fatalf("AddObservation error: %v", err)
	}

	if err := tl.Collate(0, 0); err != nil {
		t.Fatalf("Collate error: %v", err)
	}

	got := tl.Dates()
	if len(got) != 3 {
		t.Fatalf("expected 3 collated dates, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Before(got[i]) {
			t.Fatalf("dates not strictly increasing at %d: %v", i, got)
		}
	}
	for _, o := range tl.Observations("ACME") {
		if _, ok := tl.Index(o.Date); !ok {
			t.Fatalf("declared observation %s missing from collated timeline", o)
		}
	}
}

func TestCollateInsertsSubstepDates(t *testing.T) {
	tl := NewMonteCarloTimeline(timelineSpot)
	if err := tl.AddObservation("ACME", []dates.DateTime{obs(2027, 1, 4)}); err != nil {
		t.Fatalf("AddObservation error: %v", err)
	}
	if err := tl.Collate(20, 0.01); err != nil {
		t.Fatalf("Collate error: %v", err)
	}

	// A one-year gap at a 0.01y substep is capped at 20 subdivisions.
	if got := len(tl.Dates()); got != 20 {
		t.Fatalf("expected 20 simulation dates, got %d", got)
	}
	last := tl.Dates()[len(tl.Dates())-1]
	if !last.Equal(dates.YMD(2027, 1, 4)) {
		t.Fatalf("final date should be the observation date, got %s", last)
	}
}

func TestCollateFailsOnEmptyTimeline(t *testing.T) {
	tl := NewMonteCarloTimeline(timelineSpot)
	err := tl.Collate(20, 0.01)
	if !errors.Is(err, errors.ErrEmptyTimeline) {
		t.Fatalf("expected ErrEmptyTimeline, got %v", err)
	}
}

func TestCollateFailsOnObservationBeforeSpotDate(t *testing.T) {
	tl := NewMonteCarloTimeline(timelineSpot)
	if err := tl.AddObservation("ACME", []dates.DateTime{obs(2025, 12, 1)}); err != nil {
		t.Fatalf("AddObservation error: %v", err)
	}
	err := tl.Collate(20, 0.01)
	var tlErr *errors.TimelineError
	if !errors.As(err, &tlErr) {
		t.Fatalf("expected TimelineError, got %v", err)
	}
}

func TestCollateTwiceFails(t *testing.T) {
	tl := NewMonteCarloTimeline(timelineSpot)
	if err := tl.AddObservation("ACME", []dates.DateTime{obs(2026, 6, 1)}); err != nil {
		t.Fatalf("AddObservation error: %v", err)
	}
	if err := tl.Collate(0, 0); err != nil {
		t.Fatalf("first Collate error: %v", err)
	}
	if err := tl.Collate(0, 0); !errors.Is(err, errors.ErrTimelineCollated) {
		t.Fatalf("expected ErrTimelineCollated, got %v", err)
	}
}

func TestAddObservationAfterCollateFails(t *testing.T) {
	tl := NewMonteCarloTimeline(timelineSpot)
	if err := tl.AddObservation("ACME", []dates.DateTime{obs(2026, 6, 1)}); err != nil {
		t.Fatalf("AddObservation error: %v", err)
	}
	if err := tl.Collate(0, 0); err != nil {
		t.Fatalf("Collate error: %v", err)
	}
	err := tl.AddObservation("ACME", []dates.DateTime{obs(2026, 7, 1)})
	if !errors.Is(err, errors.ErrTimelineCollated) {
		t.Fatalf("expected ErrTimelineCollated, got %v", err)
	}
}
