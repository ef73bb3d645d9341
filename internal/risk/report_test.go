package risk_test

import (
	"testing"

	"quantrisk/internal/dates"
	"quantrisk/internal/instruments"
	"quantrisk/internal/marketdata"
	"quantrisk/internal/models"
	"quantrisk/internal/pricers"
	"quantrisk/internal/risk"
)

func greeksPricer(t *testing.T) risk.Pricer {
	t.Helper()
	spotDate := dates.YMD(2026, 1, 5)
	expiry := dates.At(dates.YMD(2027, 1, 4), dates.Close)

	market := marketdata.New(spotDate)
	market.SetSpot("ACME", 100.0, "ACME-REPO")
	market.SetYieldCurve("ACME-REPO", 0.03)
	market.SetYieldCurve("OPT-CSA", 0.025)
	market.SetVolSurface("ACME", 0.30)
	market.SetDividends("ACME", []marketdata.Dividend{
		{PayDate: dates.YMD(2026, 4, 1), Amount: 1.2},
	})

	opt := instruments.NewEuropeanOption("ACME-CALL", "ACME", "OPT-CSA", 100.0,
		expiry, dates.YMD(2027, 1, 6), instruments.Call)
	fixings, err := instruments.NewFixingTable(spotDate, nil)
	if err != nil {
		t.Fatalf("NewFixingTable error: %v", err)
	}

	factory := pricers.NewMonteCarloPricerFactory(models.NewBlackDiffusionFactory(20000, 42))
	p, err := factory.New(opt, fixings, market)
	if err != nil {
		t.Fatalf("pricer construction error: %v", err)
	}
	return p
}

func TestComputeGreeksSigns(t *testing.T) {
	p := greeksPricer(t)

	report, err := risk.ComputeGreeks(p, risk.GreeksRequest{
		Asset:       "ACME",
		CreditCurve: "OPT-CSA",
		ThetaDays:   1,
		SpotDate:    dates.YMD(2026, 1, 5),
		Dynamics:    risk.StickyForward,
	})
	if err != nil {
		t.Fatalf("ComputeGreeks error: %v", err)
	}

	g := report.Greeks
	if g.Delta <= 0.3 || g.Delta >= 0.8 {
		t.Fatalf("near-the-money call delta should sit around a half, got %v", g.Delta)
	}
	if g.Gamma <= 0 {
		t.Fatalf("call gamma should be positive, got %v", g.Gamma)
	}
	if g.Vega <= 0 {
		t.Fatalf("call vega should be positive, got %v", g.Vega)
	}
	if g.Rho >= 0 {
		t.Fatalf("bumping the discount curve up should cost value, got %v", g.Rho)
	}
	if g.Theta >= 0 {
		t.Fatalf("a forward-preserving day should cost value, got %v", g.Theta)
	}
	if report.Price <= 0 {
		t.Fatalf("base price should be positive, got %v", report.Price)
	}
}

func TestComputeGreeksRejectsUnknownAsset(t *testing.T) {
	p := greeksPricer(t)
	_, err := risk.ComputeGreeks(p, risk.GreeksRequest{
		Asset:       "UNKNOWN",
		CreditCurve: "OPT-CSA",
	})
	if err == nil {
		t.Fatal("expected an error for an asset the pricer never references")
	}
}
