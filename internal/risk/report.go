package risk

import (
	"time"

	"quantrisk/internal/errors"
)

// Greeks holds bump-implied sensitivities of a pricer's value.
type Greeks struct {
	Delta float64
	Gamma float64
	Vega  float64
	Rho   float64
	Theta float64
}

// GreeksRequest names the observables to bump and the bump sizes to use.
// Zero-valued sizes fall back to the defaults.
type GreeksRequest struct {
	Asset         string
	CreditCurve   string
	SpotBumpSize  float64 // relative, default 0.01
	VolBumpSize   float64 // flat additive, default 0.01
	YieldBumpSize float64 // flat annualized, default 0.0001
	ThetaDays     int     // 0 skips theta
	SpotDate      time.Time
	Dynamics      SpotDynamics
}

func (r GreeksRequest) withDefaults() GreeksRequest {
	if r.SpotBumpSize == 0 {
		r.SpotBumpSize = 0.01
	}
	if r.VolBumpSize == 0 {
		r.VolBumpSize = 0.01
	}
	if r.YieldBumpSize == 0 {
		r.YieldBumpSize = 0.0001
	}
	return r
}

// Report is the result of a Greeks run.
type Report struct {
	Price   float64
	Greeks  Greeks
	Request GreeksRequest
}

// ComputeGreeks measures sensitivities through bump/restore cycles on a
// live pricer. Delta and gamma come from central relative spot bumps,
// vega from a one-sided flat vol bump, rho from a one-sided yield bump on
// the credit curve. If ThetaDays is positive the valuation date is then
// advanced by that many days to measure theta; time advancement has no
// undo, so the pricer is left at the advanced date and theta must be the
// last measure taken.
func ComputeGreeks(p Pricer, req GreeksRequest) (*Report, error) {
	req = req.withDefaults()

	base, err := p.Price()
	if err != nil {
		return nil, err
	}
	spot, err := p.Context().Spot(req.Asset)
	if err != nil {
		return nil, err
	}

	save := p.NewSaveable()

	up, err := bumpedPrice(p, NewRelativeSpotBump(req.Asset, req.SpotBumpSize), save)
	if err != nil {
		return nil, err
	}
	down, err := bumpedPrice(p, NewRelativeSpotBump(req.Asset, -req.SpotBumpSize), save)
	if err != nil {
		return nil, err
	}
	volUp, err := bumpedPrice(p, NewFlatAdditiveVolBump(req.Asset, req.VolBumpSize), save)
	if err != nil {
		return nil, err
	}
	yieldUp, err := bumpedPrice(p, NewFlatAnnualizedYieldBump(req.CreditCurve, req.YieldBumpSize), save)
	if err != nil {
		return nil, err
	}

	ds := req.SpotBumpSize * spot
	report := &Report{
		Price: base,
		Greeks: Greeks{
			Delta: (up - down) / (2 * ds),
			Gamma: (up - 2*base + down) / (ds * ds),
			Vega:  volUp - base,
			Rho:   yieldUp - base,
		},
		Request: req,
	}

	if req.ThetaDays > 0 {
		newDate := req.SpotDate.AddDate(0, 0, req.ThetaDays)
		tb := NewTimeBump(newDate, req.SpotDate, req.Dynamics)
		if err := p.BumpTime(tb); err != nil {
			return nil, err
		}
		advanced, err := p.Price()
		if err != nil {
			return nil, err
		}
		report.Greeks.Theta = (advanced - base) / float64(req.ThetaDays)
	}

	return report, nil
}

// bumpedPrice applies one bump, prices, and restores. The bump must hit
// state the pricer actually references.
func bumpedPrice(p Pricer, bump Bump, save Saveable) (float64, error) {
	applied, err := p.Bump(bump, save)
	if err != nil {
		return 0, err
	}
	if !applied {
		return 0, errors.NewBumpError(bump.Kind(), bump.Target(),
			"bump did not affect the pricer", nil)
	}
	price, err := p.Price()
	if err != nil {
		// Leave state as the model left it; the caller owns recovery.
		return 0, err
	}
	if err := p.Restore(save); err != nil {
		return 0, err
	}
	save.Clear()
	return price, nil
}
