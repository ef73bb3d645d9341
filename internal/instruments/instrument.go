// Package instruments defines the instrument contracts the pricing engine
// consumes, plus the concrete legs the engine ships with.
package instruments

import (
	"time"

	"quantrisk/internal/dates"
)

// DependencyContext receives an instrument's market-data dependency
// declarations. The dependency collector implements it; instruments only
// declare, never query.
type DependencyContext interface {
	// SpotDate is the valuation date dependencies are declared against.
	SpotDate() time.Time
	// Spot declares a dependency on an asset's spot price (and with it
	// the asset's dividends and growth curve).
	Spot(assetID string)
	// YieldCurve declares a dependency on a named curve up to a high
	// water mark date.
	YieldCurve(curveID string, highWaterMark time.Time)
	// VolSurface declares a dependency on an asset's vol surface up to a
	// high water mark date.
	VolSurface(assetID string, highWaterMark time.Time)
}

// Timeline receives an instrument's required observation dates during
// Monte Carlo dependency declaration.
type Timeline interface {
	// AddObservation declares that the asset must be observable on each
	// of the given datetimes. Duplicate and unordered declarations are
	// fine before collation; declarations after collation fail.
	AddObservation(assetID string, obs []dates.DateTime) error
}

// MCContext is the per-path valuation view a Monte Carlo model exposes to
// instrument pricing logic.
type MCContext interface {
	// PathCount returns the number of simulated paths.
	PathCount() int
	// ValuationDate returns the model's current valuation date.
	ValuationDate() time.Time
	// Observation returns the simulated per-path values of an asset at a
	// declared observation point.
	Observation(assetID string, obs dates.DateTime) ([]float64, error)
	// DiscountFactor returns the discount factor from the valuation date
	// to a payment date on a named curve.
	DiscountFactor(curveID string, payDate time.Time) (float64, error)
}

// Instrument is a financial instrument the engine can be asked to price.
type Instrument interface {
	// ID identifies the instrument in errors and reports.
	ID() string
	// Dependencies declares the instrument's market-data dependencies.
	Dependencies(ctx DependencyContext)
	// Fix applies historical fixings. A decomposing instrument returns
	// the weighted instrument list it resolves to; a non-decomposing one
	// returns (nil, nil) and is priced as-is at weight 1.0. Fixings are
	// consumed exactly once, at pricer construction.
	Fix(table *FixingTable) ([]WeightedInstrument, error)
}

// MCPriceable is the Monte Carlo valuation capability. Instruments lacking
// it cannot be priced by the Monte Carlo pricer and are rejected at
// construction time.
type MCPriceable interface {
	Instrument
	// MCDependencies declares the observation dates the instrument needs
	// into the shared simulation timeline.
	MCDependencies(valueDates []dates.DateTime, timeline Timeline) error
	// MCPrice values the instrument over the simulated paths, averaging
	// internally, and returns a price discounted to the valuation date.
	MCPrice(ctx MCContext) (float64, error)
}

// Settleable is an optional capability for instruments whose cash leaves
// the book on a known settlement date. Time advancement drops legs whose
// settlement lies strictly before the new valuation date.
type Settleable interface {
	SettlementDate() time.Time
}

// WeightedInstrument is one entry of a weighted instrument list.
type WeightedInstrument struct {
	Weight     float64
	Instrument Instrument
}

// Weighted builds a WeightedInstrument pair.
func Weighted(weight float64, instrument Instrument) WeightedInstrument {
	return WeightedInstrument{Weight: weight, Instrument: instrument}
}
