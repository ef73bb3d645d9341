package models

import (
	"time"

	"quantrisk/internal/instruments"
	"quantrisk/internal/marketdata"
	"quantrisk/internal/risk"
)

// MonteCarloModel owns the simulated paths and the machinery to expose a
// per-path valuation context, apply and undo market bumps, and advance
// its valuation date. A model is exclusively owned by one pricer and must
// not be shared.
type MonteCarloModel interface {
	// MCContext exposes the current per-path valuation view.
	MCContext() instruments.MCContext

	// Bump applies one market perturbation, capturing undo state into
	// save first, and reports whether this model's state was affected.
	Bump(bump risk.Bump, save risk.Saveable) (bool, error)

	// Restore reverts state to exactly what it was before the bumps
	// captured in save.
	Restore(save risk.Saveable) error

	// NewSaveable produces an empty snapshot container owned by this
	// model.
	NewSaveable() risk.Saveable

	// Context returns the read-only pricing context the model was built
	// from.
	Context() marketdata.PricingContext

	// AdvanceDate implements risk.TimeEvolver.
	AdvanceDate(newDate time.Time, dynamics risk.SpotDynamics) error

	// ValuationDate returns the model's current valuation date.
	ValuationDate() time.Time
}

// Factory constructs a ready model from a collated timeline and a
// prefetched context. This is the single extension point for swapping the
// diffusion model under the Monte Carlo pricer.
type Factory interface {
	// Name identifies the model family in errors, logs and reports.
	Name() string

	// Model builds a model. Construction fails if the timeline is not
	// collated or the (timeline, context) pair is unsupported.
	Model(timeline *MonteCarloTimeline, context *marketdata.PrefetchContext) (MonteCarloModel, error)
}
