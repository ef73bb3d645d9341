// Package risk defines the pricer, bump and dependency contracts of the
// risk engine, plus the bump-driven Greeks report.
package risk

import (
	"quantrisk/internal/instruments"
	"quantrisk/internal/marketdata"
)

// Saveable is an opaque undo snapshot produced by a model. The caller owns
// it but never inspects it; only the model that produced it interprets it
// during restore. Bumps applied before a restore compose additively into
// the same saveable, so one restore undoes all of them. Clear empties the
// snapshot for reuse.
type Saveable interface {
	Clear()
}

// Bumpable is the market-perturbation capability of a pricer or model.
type Bumpable interface {
	// Bump applies one perturbation, first capturing into save whatever
	// state the bump mutates. It reports whether the bump affected this
	// state at all; a bump to an unreferenced observable returns false
	// and mutates nothing.
	Bump(bump Bump, save Saveable) (bool, error)

	// Restore reverts state to exactly what it was before the bumps
	// captured in save. Calling restore twice on the same saveable
	// without re-bumping is undefined; callers must clear and re-bump.
	Restore(save Saveable) error

	// NewSaveable produces a fresh, empty snapshot container.
	NewSaveable() Saveable

	// Dependencies returns the dependency set the state was built from.
	Dependencies() (*DependencyCollector, error)

	// Context returns the read-only pricing context. It never mutates.
	Context() marketdata.PricingContext
}

// TimeBumpable is the valuation-date advancement capability. Time
// advancement is one-directional within a pricer's lifetime: there is no
// snapshot/undo, and a caller wanting an earlier valuation date must
// construct a new pricer.
type TimeBumpable interface {
	BumpTime(bump *TimeBump) error
}

// Pricer values a fixed set of weighted instruments against mutable
// simulation state. A pricer must not be used concurrently from multiple
// goroutines; concurrent risk runs need independent pricers.
type Pricer interface {
	// Price returns the weighted sum of the instrument valuations for
	// the current state. Repeated calls without intervening bumps return
	// bit-identical results.
	Price() (float64, error)

	Bumpable
	TimeBumpable
}

// PricerFactory turns (instrument, fixings, market data) into a ready
// pricer. Construction either fully succeeds or returns an error with no
// pricer; there is no partial construction.
type PricerFactory interface {
	New(instrument instruments.Instrument, fixings *instruments.FixingTable,
		market *marketdata.MarketData) (Pricer, error)
}
