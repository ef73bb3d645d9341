package risk

import (
	"time"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
	"quantrisk/internal/instruments"
)

// SpotDynamics is the policy governing how forward-looking market
// quantities are re-derived when the valuation date advances.
type SpotDynamics int

const (
	// StickyForward holds forward prices fixed as time passes; the spot
	// rolls up onto the old forward curve.
	StickyForward SpotDynamics = iota
	// StickySpot holds the spot fixed as time passes; forwards are
	// re-derived from the unchanged spot.
	StickySpot
)

// String returns the policy name.
func (d SpotDynamics) String() string {
	switch d {
	case StickyForward:
		return "sticky forward"
	case StickySpot:
		return "sticky spot"
	default:
		return "unknown"
	}
}

// TimeEvolver is the model-side half of time advancement.
type TimeEvolver interface {
	// AdvanceDate moves the model's valuation date forward, re-deriving
	// forward-looking quantities per the dynamics policy. Advancing to
	// the current valuation date is a no-op; moving backwards is an
	// error.
	AdvanceDate(newDate time.Time, dynamics SpotDynamics) error
}

// TimeBump is an immutable instruction to advance the valuation date.
type TimeBump struct {
	NewDate  time.Time
	SpotDate time.Time
	Dynamics SpotDynamics
}

// NewTimeBump creates a time bump from the original spot date to a new
// valuation date under the given spot dynamics.
func NewTimeBump(newDate, spotDate time.Time, dynamics SpotDynamics) *TimeBump {
	return &TimeBump{
		NewDate:  dates.Day(newDate),
		SpotDate: dates.Day(spotDate),
		Dynamics: dynamics,
	}
}

// Apply advances the weighted instrument list and the model. Legs whose
// settlement falls strictly before the new valuation date have paid out
// and are dropped from the list; the model is then advanced. It returns
// the surviving list.
func (tb *TimeBump) Apply(list []instruments.WeightedInstrument,
	model TimeEvolver) ([]instruments.WeightedInstrument, error) {

	if tb.Dynamics != StickyForward && tb.Dynamics != StickySpot {
		return nil, errors.ErrUnknownSpotDynamics
	}
	if tb.NewDate.Before(tb.SpotDate) {
		return nil, errors.ErrBackwardTimeBump
	}

	kept := make([]instruments.WeightedInstrument, 0, len(list))
	for _, wi := range list {
		if s, ok := wi.Instrument.(instruments.Settleable); ok {
			if s.SettlementDate().Before(tb.NewDate) {
				continue
			}
		}
		kept = append(kept, wi)
	}

	if err := model.AdvanceDate(tb.NewDate, tb.Dynamics); err != nil {
		return nil, err
	}
	return kept, nil
}
