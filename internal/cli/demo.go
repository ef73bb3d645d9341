package cli

import (
	"quantrisk/internal/dates"
	"quantrisk/internal/instruments"
	"quantrisk/internal/logging"
	"quantrisk/internal/marketdata"
	"quantrisk/internal/models"
	"quantrisk/internal/pricers"
	"quantrisk/internal/risk"
)

// The demo book: an at-the-money European call on a dividend-paying
// equity, discounted on a separate credit curve.
const (
	demoAsset       = "ACME"
	demoGrowthCurve = "ACME-REPO"
	demoCreditCurve = "OPT-CSA"
)

var (
	demoSpotDate = dates.YMD(2026, 1, 5)
	demoExpiry   = dates.At(dates.YMD(2027, 1, 4), dates.Close)
)

// demoMarketData builds the demo snapshot.
func demoMarketData() *marketdata.MarketData {
	market := marketdata.New(demoSpotDate)
	market.SetSpot(demoAsset, 100.0, demoGrowthCurve)
	market.SetYieldCurve(demoGrowthCurve, 0.03)
	market.SetYieldCurve(demoCreditCurve, 0.025)
	market.SetVolSurface(demoAsset, 0.30)
	market.SetDividends(demoAsset, []marketdata.Dividend{
		{PayDate: dates.YMD(2026, 4, 1), Amount: 1.2},
		{PayDate: dates.YMD(2026, 10, 1), Amount: 1.2},
	})
	return market
}

// demoInstrument builds the demo option.
func demoInstrument() instruments.Instrument {
	return instruments.NewEuropeanOption("ACME-1Y-ATM-CALL", demoAsset,
		demoCreditCurve, 100.0, demoExpiry, dates.AddDays(demoExpiry.Date, 2),
		instruments.Call)
}

// demoPricer constructs a pricer over the demo book with the configured
// engine settings.
func (a *App) demoPricer() (risk.Pricer, error) {
	modelFactory := models.NewBlackDiffusionFactory(a.Config.Engine.Paths, a.Config.Engine.Seed)
	logger := logging.WithModel(logging.WithInstrument(a.Logger, demoInstrument().ID()), modelFactory.Name())
	factory := pricers.NewMonteCarloPricerFactory(modelFactory,
		pricers.WithLogger(logger),
		pricers.WithSubsteps(a.Config.Engine.CorrelationSubstep, a.Config.Engine.PathSubstep))

	fixings, err := instruments.NewFixingTable(demoSpotDate, nil)
	if err != nil {
		return nil, err
	}
	return factory.New(demoInstrument(), fixings, demoMarketData())
}
