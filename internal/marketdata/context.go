package marketdata

import (
	"sort"
	"time"

	"quantrisk/internal/errors"
)

// PrefetchContext is a pricing context pre-fetched from a raw snapshot and
// restricted to a dependency set. Every observable the dependency set
// names is copied at construction; later lookups never touch the raw
// snapshot. The context is read-only for its entire lifetime and may be
// shared between pricers built from the same snapshot and dependency set.
type PrefetchContext struct {
	spotDate     time.Time
	spots        map[string]float64
	growthCurves map[string]string
	yieldCurves  map[string]*YieldCurve
	volSurfaces  map[string]*VolSurface
	dividends    map[string][]Dividend
}

// NewPrefetchContext fetches exactly the observables named by the
// dependency set. Construction fails if any of them is missing from the
// snapshot, identifying the missing observable.
func NewPrefetchContext(raw PricingContext, deps DependencySet) (*PrefetchContext, error) {
	ctx := &PrefetchContext{
		spotDate:     raw.SpotDate(),
		spots:        make(map[string]float64),
		growthCurves: make(map[string]string),
		yieldCurves:  make(map[string]*YieldCurve),
		volSurfaces:  make(map[string]*VolSurface),
		dividends:    make(map[string][]Dividend),
	}

	for _, id := range deps.SpotIDs() {
		spot, err := raw.Spot(id)
		if err != nil {
			return nil, err
		}
		ctx.spots[id] = spot

		divs, err := raw.Dividends(id)
		if err != nil {
			return nil, err
		}
		ctx.dividends[id] = divs

		// An asset's forward cannot be built without its growth curve,
		// so spot dependencies pull the curve in implicitly.
		curveID, err := raw.GrowthCurveID(id)
		if err != nil {
			return nil, err
		}
		ctx.growthCurves[id] = curveID
		if err := ctx.fetchCurve(raw, curveID); err != nil {
			return nil, err
		}
	}

	for _, id := range deps.CurveIDs() {
		if err := ctx.fetchCurve(raw, id); err != nil {
			return nil, err
		}
	}

	for _, id := range deps.VolIDs() {
		vol, err := raw.VolSurface(id)
		if err != nil {
			return nil, err
		}
		ctx.volSurfaces[id] = vol
	}

	return ctx, nil
}

func (c *PrefetchContext) fetchCurve(raw PricingContext, curveID string) error {
	if _, ok := c.yieldCurves[curveID]; ok {
		return nil
	}
	curve, err := raw.YieldCurve(curveID)
	if err != nil {
		return err
	}
	c.yieldCurves[curveID] = curve
	return nil
}

// SpotDate returns the snapshot date the context was fetched at.
func (c *PrefetchContext) SpotDate() time.Time {
	return c.spotDate
}

// Spot returns the cached spot price of an asset.
func (c *PrefetchContext) Spot(assetID string) (float64, error) {
	s, ok := c.spots[assetID]
	if !ok {
		return 0, errors.NewMarketDataError("spot", assetID, "not in prefetched dependency set")
	}
	return s, nil
}

// YieldCurve returns the cached named yield curve.
func (c *PrefetchContext) YieldCurve(curveID string) (*YieldCurve, error) {
	curve, ok := c.yieldCurves[curveID]
	if !ok {
		return nil, errors.NewMarketDataError("yield curve", curveID, "not in prefetched dependency set")
	}
	return curve, nil
}

// VolSurface returns the cached vol surface of an asset.
func (c *PrefetchContext) VolSurface(assetID string) (*VolSurface, error) {
	v, ok := c.volSurfaces[assetID]
	if !ok {
		return nil, errors.NewMarketDataError("vol surface", assetID, "not in prefetched dependency set")
	}
	return v, nil
}

// Dividends returns the cached dividend schedule of an asset.
func (c *PrefetchContext) Dividends(assetID string) ([]Dividend, error) {
	divs, ok := c.dividends[assetID]
	if !ok {
		return nil, errors.NewMarketDataError("dividends", assetID, "not in prefetched dependency set")
	}
	return divs, nil
}

// GrowthCurveID returns the cached growth curve wiring of an asset.
func (c *PrefetchContext) GrowthCurveID(assetID string) (string, error) {
	id, ok := c.growthCurves[assetID]
	if !ok {
		return "", errors.NewMarketDataError("growth curve", assetID, "not in prefetched dependency set")
	}
	return id, nil
}

// SpotIDs enumerates the prefetched asset identifiers, sorted.
func (c *PrefetchContext) SpotIDs() []string {
	return sortedKeys(c.spots)
}

// CurveIDs enumerates the prefetched curve identifiers, sorted. Growth
// curves pulled in through spot dependencies are included.
func (c *PrefetchContext) CurveIDs() []string {
	return sortedKeys(c.yieldCurves)
}

// VolIDs enumerates the prefetched vol surface identifiers, sorted.
func (c *PrefetchContext) VolIDs() []string {
	return sortedKeys(c.volSurfaces)
}

func sortedKeys[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
