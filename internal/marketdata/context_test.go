package marketdata

import (
	"math"
	"reflect"
	"testing"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
)

// stubDeps is a fixed dependency set.
type stubDeps struct {
	spots  []string
	curves []string
	vols   []string
}

func (s stubDeps) SpotIDs() []string  { return s.spots }
func (s stubDeps) CurveIDs() []string { return s.curves }
func (s stubDeps) VolIDs() []string   { return s.vols }

func snapshot() *MarketData {
	m := New(dates.YMD(2026, 1, 5))
	m.SetSpot("ACME", 100.0, "ACME-REPO")
	m.SetSpot("OTHER", 50.0, "OTHER-REPO")
	m.SetYieldCurve("ACME-REPO", 0.03)
	m.SetYieldCurve("OTHER-REPO", 0.02)
	m.SetYieldCurve("OPT-CSA", 0.025)
	m.SetVolSurface("ACME", 0.30)
	m.SetDividends("ACME", []Dividend{
		{PayDate: dates.YMD(2026, 10, 1), Amount: 1.2},
		{PayDate: dates.YMD(2026, 4, 1), Amount: 1.1},
	})
	return m
}

func TestPrefetchRestrictsToDependencySet(t *testing.T) {
	ctx, err := NewPrefetchContext(snapshot(), stubDeps{
		spots:  []string{"ACME"},
		curves: []string{"OPT-CSA"},
		vols:   []string{"ACME"},
	})
	if err != nil {
		t.Fatalf("NewPrefetchContext error: %v", err)
	}

	if spot, err := ctx.Spot("ACME"); err != nil || spot != 100.0 {
		t.Fatalf("Spot: %v, %v", spot, err)
	}
	// OTHER is in the snapshot but not in the dependency set.
	if _, err := ctx.Spot("OTHER"); err == nil {
		t.Fatal("spot outside the dependency set should not resolve")
	}
	var mdErr *errors.MarketDataError
	if _, err := ctx.VolSurface("OTHER"); !errors.As(err, &mdErr) {
		t.Fatalf("expected MarketDataError, got %v", err)
	}

	// The growth curve of a depended-on spot is pulled in implicitly.
	if !reflect.DeepEqual(ctx.CurveIDs(), []string{"ACME-REPO", "OPT-CSA"}) {
		t.Fatalf("CurveIDs: %v", ctx.CurveIDs())
	}
	if id, err := ctx.GrowthCurveID("ACME"); err != nil || id != "ACME-REPO" {
		t.Fatalf("GrowthCurveID: %v, %v", id, err)
	}
}

func TestPrefetchFailsOnMissingObservable(t *testing.T) {
	_, err := NewPrefetchContext(snapshot(), stubDeps{spots: []string{"MISSING"}})
	var mdErr *errors.MarketDataError
	if !errors.As(err, &mdErr) {
		t.Fatalf("expected MarketDataError, got %v", err)
	}
	if mdErr.ID != "MISSING" {
		t.Fatalf("error should name the missing observable, got %q", mdErr.ID)
	}
}

func TestDividendsSortedByPayDate(t *testing.T) {
	divs, err := snapshot().Dividends("ACME")
	if err != nil {
		t.Fatalf("Dividends error: %v", err)
	}
	if len(divs) != 2 || !divs[0].PayDate.Before(divs[1].PayDate) {
		t.Fatalf("dividends should be sorted by pay date: %v", divs)
	}
}

func TestYieldCurveDiscounting(t *testing.T) {
	base := dates.YMD(2026, 1, 5)
	c := &YieldCurve{ID: "OPT-CSA", Base: base, Rate: 0.025}

	oneYear := dates.YMD(2027, 1, 5)
	want := math.Exp(-0.025 * dates.YearFraction(base, oneYear))
	if df := c.Df(oneYear); math.Abs(df-want) > 1e-15 {
		t.Fatalf("Df: %v, want %v", df, want)
	}
	// Dates at or before the base date discount to 1.
	if df := c.Df(dates.AddDays(base, -10)); df != 1.0 {
		t.Fatalf("past Df should clamp to 1, got %v", df)
	}
	if df := c.DfBetween(oneYear, base); df != 1.0 {
		t.Fatalf("backward DfBetween should clamp to 1, got %v", df)
	}

	bumped := c.Bumped(0.01)
	if bumped.Rate != 0.035 || c.Rate != 0.025 {
		t.Fatalf("Bumped should copy: %v, original %v", bumped.Rate, c.Rate)
	}
}

func TestVolSurfaceBumped(t *testing.T) {
	v := &VolSurface{ID: "ACME", Vol: 0.30}
	bumped := v.Bumped(0.01)
	if bumped.Vol != 0.31 || v.Vol != 0.30 {
		t.Fatalf("Bumped should copy: %v, original %v", bumped.Vol, v.Vol)
	}
	if got := v.At(dates.YMD(2027, 1, 4), 100.0); got != 0.30 {
		t.Fatalf("flat surface lookup: %v", got)
	}
}
