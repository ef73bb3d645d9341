package models

import (
	"math"
	"runtime"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
	"quantrisk/internal/instruments"
	"quantrisk/internal/marketdata"
	"quantrisk/internal/risk"
)

// parallelPathThreshold is the path count above which observation
// evaluation fans out across CPUs.
const parallelPathThreshold = 16384

// BlackDiffusionFactory builds BlackDiffusion models with a fixed path
// count and seed. The same factory inputs always produce the same draws,
// so pricers built from identical inputs price identically.
type BlackDiffusionFactory struct {
	Paths int
	Seed  uint64
}

// NewBlackDiffusionFactory creates a factory for Black diffusion models.
func NewBlackDiffusionFactory(paths int, seed uint64) *BlackDiffusionFactory {
	return &BlackDiffusionFactory{Paths: paths, Seed: seed}
}

// Name implements Factory.
func (f *BlackDiffusionFactory) Name() string {
	return "black-diffusion"
}

// Model implements Factory.
func (f *BlackDiffusionFactory) Model(timeline *MonteCarloTimeline,
	context *marketdata.PrefetchContext) (MonteCarloModel, error) {

	if f.Paths <= 0 {
		return nil, errors.NewModelError(f.Name(), "construct",
			errors.New("path count must be positive"))
	}
	if !timeline.IsCollated() {
		return nil, errors.NewModelError(f.Name(), "construct", errors.ErrTimelineNotFrozen)
	}

	m := &BlackDiffusion{
		timeline:      timeline,
		context:       context,
		paths:         f.Paths,
		valuationDate: timeline.SpotDate(),
		steps:         timeline.Dates(),
		curves:        make(map[string]*marketdata.YieldCurve),
		assets:        make(map[string]*assetState),
		draws:         make(map[string][]float64),
	}

	// Model-owned curve copies: bumps mutate these, never the context.
	for _, id := range context.CurveIDs() {
		curve, err := context.YieldCurve(id)
		if err != nil {
			return nil, errors.NewModelError(f.Name(), "construct", err)
		}
		c := *curve
		m.curves[id] = &c
	}

	assetIDs := timeline.Assets()
	rng := rand.New(rand.NewSource(f.Seed))
	for _, id := range assetIDs {
		a, err := m.newAssetState(id)
		if err != nil {
			return nil, errors.NewModelError(f.Name(), "construct", err)
		}
		m.assets[id] = a
		m.assetIDs = append(m.assetIDs, id)

		// One standard normal per (path, step), drawn once. Bumps and
		// time advancement reuse these draws, so bumped prices share
		// path noise with the base price.
		z := make([]float64, f.Paths*len(m.steps))
		for i := range z {
			z[i] = rng.NormFloat64()
		}
		m.draws[id] = z
	}

	m.recomputeStepTimes()
	for _, a := range m.assets {
		m.recomputeForwards(a)
	}
	return m, nil
}

// BlackDiffusion is a lognormal forward-measure diffusion over the shared
// simulation timeline. Market bumps mutate only derived quantities (spot,
// forwards, flat vols, curve rates); the normal draws are fixed at
// construction.
type BlackDiffusion struct {
	timeline      *MonteCarloTimeline
	context       *marketdata.PrefetchContext
	paths         int
	valuationDate time.Time

	steps    []time.Time
	effDt    []float64 // variance-time per step, zero for elapsed steps
	sqrtDt   []float64
	assets   map[string]*assetState
	assetIDs []string
	curves   map[string]*marketdata.YieldCurve
	draws    map[string][]float64
}

// assetState is the per-asset derived state of the diffusion.
type assetState struct {
	id          string
	spot        float64
	vol         float64
	growthCurve string
	divs        []marketdata.Dividend
	forwards    []float64 // per timeline step; elapsed steps stay frozen
}

func (m *BlackDiffusion) newAssetState(id string) (*assetState, error) {
	spot, err := m.context.Spot(id)
	if err != nil {
		return nil, err
	}
	vol, err := m.context.VolSurface(id)
	if err != nil {
		return nil, err
	}
	growthID, err := m.context.GrowthCurveID(id)
	if err != nil {
		return nil, err
	}
	divs, err := m.context.Dividends(id)
	if err != nil {
		return nil, err
	}
	a := &assetState{
		id:          id,
		spot:        spot,
		vol:         vol.At(m.valuationDate, spot),
		growthCurve: growthID,
		divs:        append([]marketdata.Dividend(nil), divs...),
		forwards:    make([]float64, len(m.steps)),
	}
	return a, nil
}

// recomputeStepTimes rebuilds the per-step variance times for the current
// valuation date. Steps that end on or before the valuation date carry no
// variance; the step spanning it carries only the remaining part.
func (m *BlackDiffusion) recomputeStepTimes() {
	m.effDt = make([]float64, len(m.steps))
	m.sqrtDt = make([]float64, len(m.steps))
	prev := m.timeline.SpotDate()
	for j, d := range m.steps {
		start := prev
		if m.valuationDate.After(start) {
			start = m.valuationDate
		}
		dt := dates.YearFraction(start, d)
		if dt < 0 {
			dt = 0
		}
		m.effDt[j] = dt
		m.sqrtDt[j] = math.Sqrt(dt)
		prev = d
	}
}

// forwardAt prices the forward of an asset to a date from the current
// valuation date: spot less the present value of intervening dividends,
// grown on the asset's growth curve.
func (m *BlackDiffusion) forwardAt(a *assetState, t time.Time) float64 {
	curve := m.curves[a.growthCurve]
	pv := 0.0
	for _, div := range a.divs {
		if div.PayDate.After(m.valuationDate) && !div.PayDate.After(t) {
			pv += div.Amount * curve.DfBetween(m.valuationDate, div.PayDate)
		}
	}
	return (a.spot - pv) / curve.DfBetween(m.valuationDate, t)
}

// recomputeForwards rebuilds an asset's forwards for steps on or after the
// valuation date. Elapsed steps keep their realized values.
func (m *BlackDiffusion) recomputeForwards(a *assetState) {
	for j, d := range m.steps {
		if d.Before(m.valuationDate) {
			continue
		}
		a.forwards[j] = m.forwardAt(a, d)
	}
}

// MCContext implements MonteCarloModel; the model is its own context.
func (m *BlackDiffusion) MCContext() instruments.MCContext {
	return m
}

// PathCount implements instruments.MCContext.
func (m *BlackDiffusion) PathCount() int {
	return m.paths
}

// ValuationDate implements instruments.MCContext and MonteCarloModel.
func (m *BlackDiffusion) ValuationDate() time.Time {
	return m.valuationDate
}

// Observation implements instruments.MCContext. Values are recomputed
// from the fixed draws and the current derived state on every call, so a
// bumped observation differs from the base one only through the bumped
// quantities.
func (m *BlackDiffusion) Observation(assetID string, obs dates.DateTime) ([]float64, error) {
	a, ok := m.assets[assetID]
	if !ok {
		return nil, errors.NewModelError("black-diffusion", "observation",
			errors.NewMarketDataError("asset", assetID, "not simulated by this model"))
	}
	k, ok := m.timeline.Index(obs.Date)
	if !ok {
		return nil, errors.NewTimelineError(
			"observation "+obs.String()+" for "+assetID+" is not in the collated timeline", nil)
	}

	tau := 0.0
	for j := 0; j <= k; j++ {
		tau += m.effDt[j]
	}
	fwd := a.forwards[k]
	drift := -0.5 * a.vol * a.vol * tau
	vol := a.vol
	z := m.draws[assetID]
	nSteps := len(m.steps)

	out := make([]float64, m.paths)
	fill := func(lo, hi int) {
		for p := lo; p < hi; p++ {
			w := 0.0
			base := p * nSteps
			for j := 0; j <= k; j++ {
				w += m.sqrtDt[j] * z[base+j]
			}
			out[p] = fwd * math.Exp(vol*w+drift)
		}
	}

	if m.paths < parallelPathThreshold {
		fill(0, m.paths)
		return out, nil
	}

	// Embarrassingly parallel over paths; each goroutine writes a
	// disjoint range, so the result is identical to the serial fill.
	workers := runtime.NumCPU()
	chunk := (m.paths + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < m.paths; lo += chunk {
		hi := lo + chunk
		if hi > m.paths {
			hi = m.paths
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fill(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return out, nil
}

// DiscountFactor implements instruments.MCContext, discounting from the
// current valuation date. Payments already made discount to 1.
func (m *BlackDiffusion) DiscountFactor(curveID string, payDate time.Time) (float64, error) {
	curve, ok := m.curves[curveID]
	if !ok {
		return 0, errors.NewModelError("black-diffusion", "discount",
			errors.NewMarketDataError("yield curve", curveID, "not referenced by this model"))
	}
	return curve.DfBetween(m.valuationDate, payDate), nil
}

// Context implements MonteCarloModel.
func (m *BlackDiffusion) Context() marketdata.PricingContext {
	return m.context
}

// NewSaveable implements MonteCarloModel.
func (m *BlackDiffusion) NewSaveable() risk.Saveable {
	return &blackSaveable{owner: m}
}

// Bump implements MonteCarloModel. Undo state is appended to save before
// any mutation, so bumps compose: one restore undoes every bump captured
// since the saveable was last cleared.
func (m *BlackDiffusion) Bump(bump risk.Bump, save risk.Saveable) (bool, error) {
	s, err := m.ownSaveable(save, bump.Kind())
	if err != nil {
		return false, err
	}

	switch b := bump.(type) {
	case risk.SpotBump:
		a, ok := m.assets[b.Asset]
		if !ok {
			return false, nil
		}
		s.pushAsset(a)
		a.spot = b.Apply(a.spot)
		m.recomputeForwards(a)
		return true, nil

	case risk.VolBump:
		a, ok := m.assets[b.Asset]
		if !ok {
			return false, nil
		}
		s.pushAsset(a)
		a.vol += b.Size
		return true, nil

	case risk.DivsBump:
		a, ok := m.assets[b.Asset]
		if !ok || len(a.divs) == 0 {
			return false, nil
		}
		s.pushAsset(a)
		scaled := make([]marketdata.Dividend, len(a.divs))
		for i, div := range a.divs {
			scaled[i] = marketdata.Dividend{PayDate: div.PayDate, Amount: div.Amount * (1.0 + b.Size)}
		}
		a.divs = scaled
		m.recomputeForwards(a)
		return true, nil

	case risk.YieldBump:
		curve, ok := m.curves[b.Curve]
		if !ok {
			return false, nil
		}
		s.pushCurve(b.Curve, curve.Rate)
		for _, id := range m.assetIDs {
			if a := m.assets[id]; a.growthCurve == b.Curve {
				s.pushAsset(a)
			}
		}
		curve.Rate += b.Size
		for _, id := range m.assetIDs {
			if a := m.assets[id]; a.growthCurve == b.Curve {
				m.recomputeForwards(a)
			}
		}
		return true, nil

	default:
		return false, errors.NewBumpError(bump.Kind(), bump.Target(),
			"unsupported bump kind for black-diffusion", nil)
	}
}

// Restore implements MonteCarloModel, unwinding captured state newest
// first. Restoring a saveable twice without re-bumping is undefined; the
// caller must clear and re-bump instead.
func (m *BlackDiffusion) Restore(save risk.Saveable) error {
	s, err := m.ownSaveable(save, "restore")
	if err != nil {
		return err
	}
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		switch e.kind {
		case undoAsset:
			*e.asset = e.priorAsset
		case undoCurve:
			m.curves[e.curveID].Rate = e.priorRate
		}
	}
	return nil
}

// AdvanceDate implements MonteCarloModel: forward the valuation date,
// re-rolling forward-looking quantities per the dynamics policy.
// Advancing to the already-current date is a no-op; the operation is a
// pure function of (current date, target date) and repeating it changes
// nothing. Paths up to the new date keep their realized values.
func (m *BlackDiffusion) AdvanceDate(newDate time.Time, dynamics risk.SpotDynamics) error {
	newDate = dates.Day(newDate)
	if newDate.Equal(m.valuationDate) {
		return nil
	}
	if newDate.Before(m.valuationDate) {
		return errors.ErrBackwardTimeBump
	}

	for _, id := range m.assetIDs {
		a := m.assets[id]
		switch dynamics {
		case risk.StickyForward:
			// The spot rolls up onto the old forward curve, so
			// forwards beyond the new date are unchanged.
			a.spot = m.forwardAt(a, newDate)
		case risk.StickySpot:
			// Spot unchanged; forwards re-derive over the shorter
			// horizon.
		default:
			return errors.ErrUnknownSpotDynamics
		}
		a.divs = futureDividends(a.divs, newDate)
	}

	m.valuationDate = newDate
	m.recomputeStepTimes()
	for _, id := range m.assetIDs {
		m.recomputeForwards(m.assets[id])
	}
	return nil
}

// futureDividends drops dividends paid on or before the new valuation
// date; their cash has left the forward.
func futureDividends(divs []marketdata.Dividend, valuationDate time.Time) []marketdata.Dividend {
	kept := divs[:0:0]
	for _, d := range divs {
		if d.PayDate.After(valuationDate) {
			kept = append(kept, d)
		}
	}
	return kept
}

func (m *BlackDiffusion) ownSaveable(save risk.Saveable, kind string) (*blackSaveable, error) {
	s, ok := save.(*blackSaveable)
	if !ok || s.owner != m {
		return nil, errors.NewBumpError(kind, "", "saveable does not belong to this model",
			errors.ErrSaveableMismatch)
	}
	return s, nil
}

type undoKind int

const (
	undoAsset undoKind = iota
	undoCurve
)

type undoEntry struct {
	kind       undoKind
	asset      *assetState
	priorAsset assetState
	curveID    string
	priorRate  float64
}

// blackSaveable is the model's explicit diff structure: one entry per
// mutated quantity, appended per bump, consumed newest-first on restore.
type blackSaveable struct {
	owner   *BlackDiffusion
	entries []undoEntry
}

// Clear implements risk.Saveable.
func (s *blackSaveable) Clear() {
	s.entries = s.entries[:0]
}

func (s *blackSaveable) pushAsset(a *assetState) {
	prior := *a
	prior.divs = append([]marketdata.Dividend(nil), a.divs...)
	prior.forwards = append([]float64(nil), a.forwards...)
	s.entries = append(s.entries, undoEntry{kind: undoAsset, asset: a, priorAsset: prior})
}

func (s *blackSaveable) pushCurve(curveID string, rate float64) {
	s.entries = append(s.entries, undoEntry{kind: undoCurve, curveID: curveID, priorRate: rate})
}
