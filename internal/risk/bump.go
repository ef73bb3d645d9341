package risk

// Bump is an immutable instruction describing one market perturbation.
// The concrete variants form a closed set; models switch on them.
type Bump interface {
	// Target returns the identifier of the perturbed observable.
	Target() string
	// Kind returns a short name for the bump variant, for errors and
	// reports.
	Kind() string

	isBump()
}

// SpotBump shifts an asset's spot price, relatively or absolutely.
type SpotBump struct {
	Asset    string
	Relative bool
	Size     float64
}

// NewRelativeSpotBump creates a spot bump scaling the spot by (1 + size).
func NewRelativeSpotBump(asset string, size float64) SpotBump {
	return SpotBump{Asset: asset, Relative: true, Size: size}
}

// NewAbsoluteSpotBump creates a spot bump adding size to the spot.
func NewAbsoluteSpotBump(asset string, size float64) SpotBump {
	return SpotBump{Asset: asset, Size: size}
}

// Apply returns the bumped spot.
func (b SpotBump) Apply(spot float64) float64 {
	if b.Relative {
		return spot * (1.0 + b.Size)
	}
	return spot + b.Size
}

// Target implements Bump.
func (b SpotBump) Target() string { return b.Asset }

// Kind implements Bump.
func (b SpotBump) Kind() string { return "spot" }

func (SpotBump) isBump() {}

// VolBump shifts an asset's volatility surface by a flat additive amount.
type VolBump struct {
	Asset string
	Size  float64
}

// NewFlatAdditiveVolBump creates a flat additive vol bump.
func NewFlatAdditiveVolBump(asset string, size float64) VolBump {
	return VolBump{Asset: asset, Size: size}
}

// Target implements Bump.
func (b VolBump) Target() string { return b.Asset }

// Kind implements Bump.
func (b VolBump) Kind() string { return "vol" }

func (VolBump) isBump() {}

// DivsBump scales all of an asset's dividend cashflows relatively.
type DivsBump struct {
	Asset string
	Size  float64
}

// NewAllRelativeDivsBump creates a bump scaling every dividend by (1 + size).
func NewAllRelativeDivsBump(asset string, size float64) DivsBump {
	return DivsBump{Asset: asset, Size: size}
}

// Target implements Bump.
func (b DivsBump) Target() string { return b.Asset }

// Kind implements Bump.
func (b DivsBump) Kind() string { return "dividends" }

func (DivsBump) isBump() {}

// YieldBump shifts a named yield curve by a flat annualized amount.
type YieldBump struct {
	Curve string
	Size  float64
}

// NewFlatAnnualizedYieldBump creates a flat annualized yield bump.
func NewFlatAnnualizedYieldBump(curve string, size float64) YieldBump {
	return YieldBump{Curve: curve, Size: size}
}

// Target implements Bump.
func (b YieldBump) Target() string { return b.Curve }

// Kind implements Bump.
func (b YieldBump) Kind() string { return "yield" }

func (YieldBump) isBump() {}
