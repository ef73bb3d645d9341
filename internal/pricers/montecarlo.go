// Package pricers turns instruments, fixings and market data into ready
// pricers. The Monte Carlo pricer evaluates instruments through their
// Monte Carlo valuation capability and exposes bumping for risk.
package pricers

import (
	"github.com/rs/zerolog"

	"quantrisk/internal/errors"
	"quantrisk/internal/instruments"
	"quantrisk/internal/logging"
	"quantrisk/internal/marketdata"
	"quantrisk/internal/models"
	"quantrisk/internal/risk"
)

// Default timeline discretization knobs.
const (
	DefaultCorrelationSubstep = 20
	DefaultPathSubstep        = 0.01
)

// MonteCarloPricerFactory constructs Monte Carlo pricers. The diffusion
// model is pluggable through the models.Factory passed at construction,
// keeping the pricer independent of what is simulated underneath.
type MonteCarloPricerFactory struct {
	modelFactory       models.Factory
	correlationSubstep int
	pathSubstep        float64
	logger             zerolog.Logger
}

// Option configures a MonteCarloPricerFactory.
type Option func(*MonteCarloPricerFactory)

// WithLogger attaches a logger for construction events.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *MonteCarloPricerFactory) { f.logger = logger }
}

// WithSubsteps overrides the timeline discretization knobs: at most
// correlationSubstep subdivisions per gap, with gaps subdivided down to
// pathSubstep year fractions.
func WithSubsteps(correlationSubstep int, pathSubstep float64) Option {
	return func(f *MonteCarloPricerFactory) {
		f.correlationSubstep = correlationSubstep
		f.pathSubstep = pathSubstep
	}
}

// NewMonteCarloPricerFactory creates a factory around a model factory.
func NewMonteCarloPricerFactory(modelFactory models.Factory, opts ...Option) *MonteCarloPricerFactory {
	f := &MonteCarloPricerFactory{
		modelFactory:       modelFactory,
		correlationSubstep: DefaultCorrelationSubstep,
		pathSubstep:        DefaultPathSubstep,
		logger:             zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New implements risk.PricerFactory. Construction applies the fixings
// exactly once, validates that every resolved instrument is Monte Carlo
// priceable, collates the shared timeline, prefetches the pricing context
// and builds the model. It either fully succeeds or returns an error with
// nothing constructed.
func (f *MonteCarloPricerFactory) New(instrument instruments.Instrument,
	fixings *instruments.FixingTable, market *marketdata.MarketData) (risk.Pricer, error) {

	// Apply the fixings to the instrument. This is the last time the
	// fixings are needed.
	list, err := instrument.Fix(fixings)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []instruments.WeightedInstrument{instruments.Weighted(1.0, instrument)}
	}

	// Collect the dependencies of the resolved instruments, validate
	// that all of them are priceable by Monte Carlo, and accumulate the
	// timeline.
	spotDate := market.SpotDate()
	deps := risk.NewDependencyCollector(spotDate)
	timeline := models.NewMonteCarloTimeline(spotDate)
	for _, wi := range list {
		deps.Collect(wi.Instrument)
		mc, ok := wi.Instrument.(instruments.MCPriceable)
		if !ok {
			return nil, errors.NewInstrumentError(wi.Instrument.ID(), "construct",
				errors.ErrNotMCPriceable)
		}
		if err := mc.MCDependencies(nil, timeline); err != nil {
			return nil, errors.NewInstrumentError(wi.Instrument.ID(), "construct", err)
		}
	}
	if err := timeline.Collate(f.correlationSubstep, f.pathSubstep); err != nil {
		return nil, err
	}

	// Cache the pricing context, prefetching everything the dependency
	// set names. The raw snapshot is not touched after this.
	context, err := marketdata.NewPrefetchContext(market, deps)
	if err != nil {
		return nil, err
	}

	model, err := f.modelFactory.Model(timeline, context)
	if err != nil {
		return nil, err
	}

	f.logger.Debug().
		Str("model", f.modelFactory.Name()).
		Str("instrument", instrument.ID()).
		Int("legs", len(list)).
		Int("timeline_dates", len(timeline.Dates())).
		Msg("Monte Carlo pricer constructed")

	return &MonteCarloPricer{instruments: list, model: model, deps: deps, logger: f.logger}, nil
}

// MonteCarloPricer orchestrates a weighted collection of instruments
// sharing one model. All mutation goes through exclusive access to that
// model; the pricer must not be used concurrently.
type MonteCarloPricer struct {
	instruments []instruments.WeightedInstrument
	model       models.MonteCarloModel
	deps        *risk.DependencyCollector
	logger      zerolog.Logger
}

// Price implements risk.Pricer: the weighted sum of the instruments'
// Monte Carlo valuations against the model's current per-path context.
// Construction guarantees every instrument is Monte Carlo priceable, so
// hitting one that is not here is a defect, not a skip.
func (p *MonteCarloPricer) Price() (float64, error) {
	total := 0.0
	for _, wi := range p.instruments {
		mc, ok := wi.Instrument.(instruments.MCPriceable)
		if !ok {
			return 0, errors.NewInstrumentError(wi.Instrument.ID(), "price",
				errors.ErrNotMCPriceable)
		}
		value, err := mc.MCPrice(p.model.MCContext())
		if err != nil {
			return 0, err
		}
		total += wi.Weight * value
	}
	return total, nil
}

// Bump implements risk.Bumpable by delegating to the model.
func (p *MonteCarloPricer) Bump(bump risk.Bump, save risk.Saveable) (bool, error) {
	applied, err := p.model.Bump(bump, save)
	if err == nil {
		logging.LogBump(p.logger, bump.Kind(), bump.Target(), applied)
	}
	return applied, err
}

// Restore implements risk.Bumpable by delegating to the model.
func (p *MonteCarloPricer) Restore(save risk.Saveable) error {
	return p.model.Restore(save)
}

// NewSaveable implements risk.Bumpable by delegating to the model.
func (p *MonteCarloPricer) NewSaveable() risk.Saveable {
	return p.model.NewSaveable()
}

// Dependencies implements risk.Bumpable.
func (p *MonteCarloPricer) Dependencies() (*risk.DependencyCollector, error) {
	return p.deps, nil
}

// Context implements risk.Bumpable.
func (p *MonteCarloPricer) Context() marketdata.PricingContext {
	return p.model.Context()
}

// BumpTime implements risk.TimeBumpable: forward the valuation date on
// the weighted instrument list (legs that have settled drop out) and on
// the model. There is no undo; time advancement is one-directional within
// a pricer's lifetime.
func (p *MonteCarloPricer) BumpTime(bump *risk.TimeBump) error {
	kept, err := bump.Apply(p.instruments, p.model)
	if err != nil {
		return err
	}
	p.instruments = kept
	return nil
}
