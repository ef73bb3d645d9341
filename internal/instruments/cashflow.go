package instruments

import (
	"time"

	"quantrisk/internal/dates"
)

// FixedCashflow is a single known payment on a named credit curve. It has
// no Monte Carlo valuation capability: a Monte Carlo pricer asked to price
// one (directly or as a basket leg) fails construction.
type FixedCashflow struct {
	id       string
	CreditID string
	Amount   float64
	PayDate  time.Time
}

// NewFixedCashflow creates a fixed cashflow.
func NewFixedCashflow(id, creditID string, amount float64, payDate time.Time) *FixedCashflow {
	return &FixedCashflow{
		id:       id,
		CreditID: creditID,
		Amount:   amount,
		PayDate:  dates.Day(payDate),
	}
}

// ID implements Instrument.
func (f *FixedCashflow) ID() string {
	return f.id
}

// Dependencies implements Instrument.
func (f *FixedCashflow) Dependencies(ctx DependencyContext) {
	ctx.YieldCurve(f.CreditID, f.PayDate)
}

// Fix implements Instrument. A fixed cashflow never decomposes.
func (f *FixedCashflow) Fix(table *FixingTable) ([]WeightedInstrument, error) {
	return nil, nil
}

// SettlementDate implements Settleable.
func (f *FixedCashflow) SettlementDate() time.Time {
	return f.PayDate
}
