// Package store provides persistence for completed pricing runs.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Run is one persisted pricing run: the inputs that identify it and the
// price and sensitivities it produced. Monetary results are carried as
// decimals so persistence round-trips exactly.
type Run struct {
	ID           string
	CreatedAt    time.Time
	InstrumentID string
	Model        string
	Paths        int
	Seed         uint64
	Price        decimal.Decimal
	Delta        decimal.Decimal
	Gamma        decimal.Decimal
	Vega         decimal.Decimal
	Rho          decimal.Decimal
	Theta        decimal.Decimal
}

// RunFilter restricts run queries.
type RunFilter struct {
	InstrumentID string
	Model        string
	Since        time.Time
	Limit        int
}

// RunStore defines the interface for pricing-run persistence.
type RunStore interface {
	// SaveRun persists one run. The run's ID and CreatedAt are assigned
	// if empty.
	SaveRun(ctx context.Context, run *Run) error

	// GetRun fetches one run by id.
	GetRun(ctx context.Context, id string) (*Run, error)

	// ListRuns fetches runs matching the filter, newest first.
	ListRuns(ctx context.Context, filter RunFilter) ([]Run, error)

	// Close releases the store.
	Close() error
}
