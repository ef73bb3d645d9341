// Package utils provides small shared numeric helpers.
package utils

import "math"

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total / float64(len(xs))
}

// StdDev returns the sample standard deviation of xs.
func StdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean := Mean(xs)
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// StdErr returns the standard error of the mean of xs.
func StdErr(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return StdDev(xs) / math.Sqrt(float64(len(xs)))
}

// NormCDF returns the standard normal cumulative distribution at x.
func NormCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// BlackForward returns the undiscounted Black price of a European option
// on a forward: forward f, strike k, total volatility vol*sqrt(tau).
func BlackForward(call bool, f, k, stdev float64) float64 {
	if stdev <= 0 || f <= 0 || k <= 0 {
		intrinsic := f - k
		if !call {
			intrinsic = -intrinsic
		}
		return math.Max(intrinsic, 0)
	}
	d1 := math.Log(f/k)/stdev + 0.5*stdev
	d2 := d1 - stdev
	if call {
		return f*NormCDF(d1) - k*NormCDF(d2)
	}
	return k*NormCDF(-d2) - f*NormCDF(-d1)
}
