package instruments

import "quantrisk/internal/errors"

// Basket is a weighted collection of legs. It always decomposes at fixing
// time into its weighted instrument list, with each leg's own fixing
// resolution applied and weights multiplied through, so the resulting
// weights sum to the basket's economic notional.
type Basket struct {
	id   string
	Legs []WeightedInstrument
}

// NewBasket creates a basket from weighted legs.
func NewBasket(id string, legs []WeightedInstrument) *Basket {
	return &Basket{id: id, Legs: legs}
}

// ID implements Instrument.
func (b *Basket) ID() string {
	return b.id
}

// Dependencies implements Instrument by forwarding to every leg.
func (b *Basket) Dependencies(ctx DependencyContext) {
	for _, leg := range b.Legs {
		leg.Instrument.Dependencies(ctx)
	}
}

// Fix decomposes the basket into its weighted legs, resolving each leg's
// fixings in turn.
func (b *Basket) Fix(table *FixingTable) ([]WeightedInstrument, error) {
	out := make([]WeightedInstrument, 0, len(b.Legs))
	for _, leg := range b.Legs {
		fixed, err := leg.Instrument.Fix(table)
		if err != nil {
			return nil, errors.NewInstrumentError(b.id, "fix", err)
		}
		if fixed == nil {
			out = append(out, leg)
			continue
		}
		for _, sub := range fixed {
			out = append(out, Weighted(leg.Weight*sub.Weight, sub.Instrument))
		}
	}
	return out, nil
}
