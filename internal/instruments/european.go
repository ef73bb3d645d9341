package instruments

import (
	"time"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
)

// PutCall distinguishes calls from puts.
type PutCall int

const (
	Call PutCall = iota
	Put
)

// String returns "call" or "put".
func (pc PutCall) String() string {
	if pc == Put {
		return "put"
	}
	return "call"
}

// EuropeanOption is a cash-settled European option on a single asset.
//
// A plain option carries an absolute strike. A forward-starting option
// instead carries a strike fraction and a strike-setting date: the strike
// becomes fraction times the asset level observed on that date. Once the
// strike fixing is historical, Fix resolves the option to a plain one.
type EuropeanOption struct {
	id         string
	Asset      string
	CreditID   string
	Strike     float64
	Expiry     dates.DateTime
	Settlement time.Time
	PC         PutCall

	// forward-start parameters; strikeDate nil for a plain option
	strikeFraction float64
	strikeDate     *dates.DateTime
}

// NewEuropeanOption creates a plain European option.
func NewEuropeanOption(id, asset, creditID string, strike float64,
	expiry dates.DateTime, settlement time.Time, pc PutCall) *EuropeanOption {

	return &EuropeanOption{
		id:         id,
		Asset:      asset,
		CreditID:   creditID,
		Strike:     strike,
		Expiry:     expiry,
		Settlement: dates.Day(settlement),
		PC:         pc,
	}
}

// NewForwardStartingEuropean creates a European option whose strike is set
// as a fraction of the asset level observed on the strike date.
func NewForwardStartingEuropean(id, asset, creditID string, strikeFraction float64,
	strikeDate dates.DateTime, expiry dates.DateTime, settlement time.Time,
	pc PutCall) *EuropeanOption {

	sd := strikeDate
	return &EuropeanOption{
		id:             id,
		Asset:          asset,
		CreditID:       creditID,
		Expiry:         expiry,
		Settlement:     dates.Day(settlement),
		PC:             pc,
		strikeFraction: strikeFraction,
		strikeDate:     &sd,
	}
}

// ID implements Instrument.
func (o *EuropeanOption) ID() string {
	return o.id
}

// Dependencies implements Instrument.
func (o *EuropeanOption) Dependencies(ctx DependencyContext) {
	ctx.Spot(o.Asset)
	ctx.VolSurface(o.Asset, o.Expiry.Date)
	ctx.YieldCurve(o.CreditID, o.Settlement)
}

// Fix resolves a forward-starting option whose strike fixing is already
// historical into a plain option at weight 1.0. A plain option, or a
// forward-starting one whose strike date is still in the future, does not
// decompose. A historical strike date with no fixing in the table is an
// error: the option cannot be valued without it.
func (o *EuropeanOption) Fix(table *FixingTable) ([]WeightedInstrument, error) {
	if o.strikeDate == nil {
		return nil, nil
	}
	if o.strikeDate.Date.After(table.AsOf()) {
		return nil, nil
	}
	level, ok := table.Fixing(o.Asset, *o.strikeDate)
	if !ok {
		return nil, errors.NewInstrumentError(o.id, "fix",
			errors.NewFixingError(o.Asset, "missing strike fixing at "+o.strikeDate.String()))
	}
	fixed := NewEuropeanOption(o.id, o.Asset, o.CreditID,
		o.strikeFraction*level, o.Expiry, o.Settlement, o.PC)
	return []WeightedInstrument{Weighted(1.0, fixed)}, nil
}

// MCDependencies implements MCPriceable. An unresolved forward-starting
// option also observes the asset on its strike date.
func (o *EuropeanOption) MCDependencies(valueDates []dates.DateTime, timeline Timeline) error {
	obs := make([]dates.DateTime, 0, 2+len(valueDates))
	if o.strikeDate != nil {
		obs = append(obs, *o.strikeDate)
	}
	obs = append(obs, o.Expiry)
	obs = append(obs, valueDates...)
	return timeline.AddObservation(o.Asset, obs)
}

// MCPrice implements MCPriceable: average the discounted payoff over the
// simulated paths.
func (o *EuropeanOption) MCPrice(ctx MCContext) (float64, error) {
	levels, err := ctx.Observation(o.Asset, o.Expiry)
	if err != nil {
		return 0, errors.NewInstrumentError(o.id, "price", err)
	}
	df, err := ctx.DiscountFactor(o.CreditID, o.Settlement)
	if err != nil {
		return 0, errors.NewInstrumentError(o.id, "price", err)
	}

	var strikes []float64
	if o.strikeDate != nil {
		strikes, err = ctx.Observation(o.Asset, *o.strikeDate)
		if err != nil {
			return 0, errors.NewInstrumentError(o.id, "price", err)
		}
	}

	var total float64
	for p, s := range levels {
		strike := o.Strike
		if strikes != nil {
			strike = o.strikeFraction * strikes[p]
		}
		var payoff float64
		if o.PC == Call {
			payoff = s - strike
		} else {
			payoff = strike - s
		}
		if payoff > 0 {
			total += payoff
		}
	}
	return df * total / float64(len(levels)), nil
}

// SettlementDate implements Settleable.
func (o *EuropeanOption) SettlementDate() time.Time {
	return o.Settlement
}
