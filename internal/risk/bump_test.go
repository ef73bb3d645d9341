package risk

import (
	"reflect"
	"testing"
	"time"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
	"quantrisk/internal/instruments"
)

func TestSpotBumpApply(t *testing.T) {
	if got := NewRelativeSpotBump("ACME", 0.01).Apply(100.0); got != 101.0 {
		t.Fatalf("relative bump: got %v, want 101", got)
	}
	if got := NewAbsoluteSpotBump("ACME", -2.5).Apply(100.0); got != 97.5 {
		t.Fatalf("absolute bump: got %v, want 97.5", got)
	}
}

func TestBumpKindsAndTargets(t *testing.T) {
	cases := []struct {
		bump   Bump
		kind   string
		target string
	}{
		{NewRelativeSpotBump("ACME", 0.01), "spot", "ACME"},
		{NewFlatAdditiveVolBump("ACME", 0.01), "vol", "ACME"},
		{NewAllRelativeDivsBump("ACME", 0.01), "dividends", "ACME"},
		{NewFlatAnnualizedYieldBump("OPT", 0.0001), "yield", "OPT"},
	}
	for _, tc := range cases {
		if tc.bump.Kind() != tc.kind || tc.bump.Target() != tc.target {
			t.Fatalf("bump %T: got (%s, %s), want (%s, %s)",
				tc.bump, tc.bump.Kind(), tc.bump.Target(), tc.kind, tc.target)
		}
	}
}

// stubEvolver records the advance it was asked for.
type stubEvolver struct {
	newDate  time.Time
	dynamics SpotDynamics
	calls    int
}

func (s *stubEvolver) AdvanceDate(newDate time.Time, dynamics SpotDynamics) error {
	s.newDate = newDate
	s.dynamics = dynamics
	s.calls++
	return nil
}

// stubLeg is a settleable instrument with no other behavior.
type stubLeg struct {
	id      string
	settles time.Time
}

func (s stubLeg) ID() string { return s.id }

func (s stubLeg) Dependencies(instruments.DependencyContext) {}
func (s stubLeg) Fix(*instruments.FixingTable) ([]instruments.WeightedInstrument, error) {
	return nil, nil
}
func (s stubLeg) SettlementDate() time.Time { return s.settles }

func TestTimeBumpDropsSettledLegs(t *testing.T) {
	spotDate := dates.YMD(2026, 1, 5)
	newDate := dates.YMD(2026, 6, 1)
	list := []instruments.WeightedInstrument{
		instruments.Weighted(1.0, stubLeg{id: "PAST", settles: dates.YMD(2026, 5, 31)}),
		instruments.Weighted(1.0, stubLeg{id: "TODAY", settles: newDate}),
		instruments.Weighted(1.0, stubLeg{id: "FUTURE", settles: dates.YMD(2027, 1, 6)}),
	}

	evolver := &stubEvolver{}
	kept, err := NewTimeBump(newDate, spotDate, StickyForward).Apply(list, evolver)
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	var ids []string
	for _, wi := range kept {
		ids = append(ids, wi.Instrument.ID())
	}
	// Settlement on the valuation date itself still pays; only strictly
	// earlier settlements drop.
	if !reflect.DeepEqual(ids, []string{"TODAY", "FUTURE"}) {
		t.Fatalf("surviving legs: %v", ids)
	}
	if evolver.calls != 1 || !evolver.newDate.Equal(newDate) || evolver.dynamics != StickyForward {
		t.Fatalf("model advance not forwarded: %+v", evolver)
	}
}

func TestTimeBumpValidation(t *testing.T) {
	spotDate := dates.YMD(2026, 1, 5)
	evolver := &stubEvolver{}

	_, err := NewTimeBump(dates.AddDays(spotDate, -1), spotDate, StickyForward).Apply(nil, evolver)
	if !errors.Is(err, errors.ErrBackwardTimeBump) {
		t.Fatalf("expected ErrBackwardTimeBump, got %v", err)
	}

	_, err = NewTimeBump(dates.AddDays(spotDate, 1), spotDate, SpotDynamics(99)).Apply(nil, evolver)
	if !errors.Is(err, errors.ErrUnknownSpotDynamics) {
		t.Fatalf("expected ErrUnknownSpotDynamics, got %v", err)
	}
	if evolver.calls != 0 {
		t.Fatal("model must not advance when validation fails")
	}
}
