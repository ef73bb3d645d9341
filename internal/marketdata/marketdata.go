// Package marketdata provides the market-data snapshot and the pricing
// context views the simulation engine reads from.
package marketdata

import (
	"math"
	"sort"
	"time"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
)

// Dividend is a discrete cash dividend paid by an asset.
type Dividend struct {
	PayDate time.Time
	Amount  float64
}

// YieldCurve is a flat continuously-compounded curve anchored at a base
// date. Flat parameterization keeps bumps exact: a flat annualized shift
// maps onto the rate directly.
type YieldCurve struct {
	ID   string
	Base time.Time
	Rate float64
}

// Df returns the discount factor from the base date to t. Dates at or
// before the base date discount to 1.
func (c *YieldCurve) Df(t time.Time) float64 {
	tau := dates.YearFraction(c.Base, t)
	if tau <= 0 {
		return 1.0
	}
	return math.Exp(-c.Rate * tau)
}

// DfBetween returns the discount factor between two dates on the curve.
func (c *YieldCurve) DfBetween(from, to time.Time) float64 {
	tau := dates.YearFraction(from, to)
	if tau <= 0 {
		return 1.0
	}
	return math.Exp(-c.Rate * tau)
}

// Bumped returns a copy of the curve with a flat annualized shift applied.
func (c *YieldCurve) Bumped(shift float64) *YieldCurve {
	return &YieldCurve{ID: c.ID, Base: c.Base, Rate: c.Rate + shift}
}

// VolSurface is a flat Black volatility surface for one asset.
type VolSurface struct {
	ID  string
	Vol float64
}

// At returns the volatility for an expiry. Flat surfaces ignore the
// arguments but keep the lookup shape of a real surface.
func (v *VolSurface) At(expiry time.Time, strike float64) float64 {
	return v.Vol
}

// Bumped returns a copy of the surface with a flat additive shift applied.
func (v *VolSurface) Bumped(shift float64) *VolSurface {
	return &VolSurface{ID: v.ID, Vol: v.Vol + shift}
}

// PricingContext is the read-only view of market data that models and
// instrument valuation logic consume.
type PricingContext interface {
	SpotDate() time.Time
	Spot(assetID string) (float64, error)
	YieldCurve(curveID string) (*YieldCurve, error)
	VolSurface(assetID string) (*VolSurface, error)
	Dividends(assetID string) ([]Dividend, error)
	GrowthCurveID(assetID string) (string, error)
}

// DependencySet is the view of a collected dependency set that context
// caching needs: which observables, by identifier, a pricer will touch.
type DependencySet interface {
	SpotIDs() []string
	CurveIDs() []string
	VolIDs() []string
}

// MarketData is a raw market-data snapshot. It implements PricingContext
// directly; construction of a pricer wraps it in a PrefetchContext so the
// raw snapshot is only consulted once.
type MarketData struct {
	spotDate     time.Time
	spots        map[string]float64
	growthCurves map[string]string
	yieldCurves  map[string]*YieldCurve
	volSurfaces  map[string]*VolSurface
	dividends    map[string][]Dividend
}

// New creates an empty snapshot dated at the given spot date.
func New(spotDate time.Time) *MarketData {
	return &MarketData{
		spotDate:     dates.Day(spotDate),
		spots:        make(map[string]float64),
		growthCurves: make(map[string]string),
		yieldCurves:  make(map[string]*YieldCurve),
		volSurfaces:  make(map[string]*VolSurface),
		dividends:    make(map[string][]Dividend),
	}
}

// SetSpot records an asset spot price and the curve its forward grows on.
func (m *MarketData) SetSpot(assetID string, spot float64, growthCurveID string) {
	m.spots[assetID] = spot
	m.growthCurves[assetID] = growthCurveID
}

// SetYieldCurve records a flat yield curve anchored at the spot date.
func (m *MarketData) SetYieldCurve(curveID string, rate float64) {
	m.yieldCurves[curveID] = &YieldCurve{ID: curveID, Base: m.spotDate, Rate: rate}
}

// SetVolSurface records a flat vol surface for an asset.
func (m *MarketData) SetVolSurface(assetID string, vol float64) {
	m.volSurfaces[assetID] = &VolSurface{ID: assetID, Vol: vol}
}

// SetDividends records the discrete dividend schedule for an asset,
// sorted by pay date.
func (m *MarketData) SetDividends(assetID string, divs []Dividend) {
	ds := make([]Dividend, len(divs))
	copy(ds, divs)
	sort.Slice(ds, func(i, j int) bool { return ds[i].PayDate.Before(ds[j].PayDate) })
	m.dividends[assetID] = ds
}

// SpotDate returns the snapshot date.
func (m *MarketData) SpotDate() time.Time {
	return m.spotDate
}

// Spot returns the spot price of an asset.
func (m *MarketData) Spot(assetID string) (float64, error) {
	s, ok := m.spots[assetID]
	if !ok {
		return 0, errors.NewMarketDataError("spot", assetID, "no spot price in snapshot")
	}
	return s, nil
}

// YieldCurve returns the named yield curve.
func (m *MarketData) YieldCurve(curveID string) (*YieldCurve, error) {
	c, ok := m.yieldCurves[curveID]
	if !ok {
		return nil, errors.NewMarketDataError("yield curve", curveID, "no curve in snapshot")
	}
	return c, nil
}

// VolSurface returns the vol surface of an asset.
func (m *MarketData) VolSurface(assetID string) (*VolSurface, error) {
	v, ok := m.volSurfaces[assetID]
	if !ok {
		return nil, errors.NewMarketDataError("vol surface", assetID, "no vol surface in snapshot")
	}
	return v, nil
}

// Dividends returns the dividend schedule of an asset. Assets with no
// recorded dividends pay none.
func (m *MarketData) Dividends(assetID string) ([]Dividend, error) {
	if _, ok := m.spots[assetID]; !ok {
		return nil, errors.NewMarketDataError("dividends", assetID, "unknown asset")
	}
	return m.dividends[assetID], nil
}

// GrowthCurveID returns the identifier of the curve an asset's forward
// grows on.
func (m *MarketData) GrowthCurveID(assetID string) (string, error) {
	id, ok := m.growthCurves[assetID]
	if !ok {
		return "", errors.NewMarketDataError("growth curve", assetID, "unknown asset")
	}
	return id, nil
}
