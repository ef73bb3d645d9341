package risk

import (
	"sort"
	"time"

	"quantrisk/internal/dates"
	"quantrisk/internal/instruments"
)

// DependencyCollector accumulates the market observables and observation
// dates a set of instruments needs. It implements
// instruments.DependencyContext for declaration and
// marketdata.DependencySet for context prefetching. It must be fully
// populated before the pricing context is cached, so the cache never has
// to question the raw snapshot later.
type DependencyCollector struct {
	spotDate     time.Time
	spots        map[string]struct{}
	curves       map[string]time.Time
	vols         map[string]time.Time
	observations map[string][]dates.DateTime
}

// NewDependencyCollector creates an empty collector anchored at the spot
// date.
func NewDependencyCollector(spotDate time.Time) *DependencyCollector {
	return &DependencyCollector{
		spotDate:     dates.Day(spotDate),
		spots:        make(map[string]struct{}),
		curves:       make(map[string]time.Time),
		vols:         make(map[string]time.Time),
		observations: make(map[string][]dates.DateTime),
	}
}

// Collect has an instrument declare its dependencies into the collector.
func (c *DependencyCollector) Collect(instr instruments.Instrument) {
	instr.Dependencies(c)
}

// SpotDate implements instruments.DependencyContext.
func (c *DependencyCollector) SpotDate() time.Time {
	return c.spotDate
}

// Spot implements instruments.DependencyContext.
func (c *DependencyCollector) Spot(assetID string) {
	c.spots[assetID] = struct{}{}
}

// YieldCurve implements instruments.DependencyContext, keeping the latest
// high water mark per curve.
func (c *DependencyCollector) YieldCurve(curveID string, highWaterMark time.Time) {
	if hwm, ok := c.curves[curveID]; !ok || highWaterMark.After(hwm) {
		c.curves[curveID] = dates.Day(highWaterMark)
	}
}

// VolSurface implements instruments.DependencyContext, keeping the latest
// high water mark per surface.
func (c *DependencyCollector) VolSurface(assetID string, highWaterMark time.Time) {
	if hwm, ok := c.vols[assetID]; !ok || highWaterMark.After(hwm) {
		c.vols[assetID] = dates.Day(highWaterMark)
	}
}

// Observation records a required (asset, datetime) observation.
func (c *DependencyCollector) Observation(assetID string, obs dates.DateTime) {
	c.observations[assetID] = append(c.observations[assetID], obs)
}

// SpotIDs implements marketdata.DependencySet.
func (c *DependencyCollector) SpotIDs() []string {
	return sortedKeys(c.spots)
}

// CurveIDs implements marketdata.DependencySet.
func (c *DependencyCollector) CurveIDs() []string {
	ids := make([]string, 0, len(c.curves))
	for id := range c.curves {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// VolIDs implements marketdata.DependencySet.
func (c *DependencyCollector) VolIDs() []string {
	ids := make([]string, 0, len(c.vols))
	for id := range c.vols {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasSpot reports whether an asset's spot is in the dependency set.
func (c *DependencyCollector) HasSpot(assetID string) bool {
	_, ok := c.spots[assetID]
	return ok
}

// HasCurve reports whether a named curve is in the dependency set.
func (c *DependencyCollector) HasCurve(curveID string) bool {
	_, ok := c.curves[curveID]
	return ok
}

// CurveHighWaterMark returns the latest date a curve is needed to.
func (c *DependencyCollector) CurveHighWaterMark(curveID string) (time.Time, bool) {
	hwm, ok := c.curves[curveID]
	return hwm, ok
}

// Observations returns the recorded observation points for an asset.
func (c *DependencyCollector) Observations(assetID string) []dates.DateTime {
	return c.observations[assetID]
}

func sortedKeys(m map[string]struct{}) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
