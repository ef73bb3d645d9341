package utils

import (
	"math"
	"testing"
)

func TestMeanStdDevStdErr(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Mean(xs); got != 5.0 {
		t.Fatalf("Mean: got %v, want 5", got)
	}
	if got := StdDev(xs); math.Abs(got-2.13808993) > 1e-6 {
		t.Fatalf("StdDev: got %v", got)
	}
	if got := StdErr(xs); math.Abs(got-StdDev(xs)/math.Sqrt(8)) > 1e-15 {
		t.Fatalf("StdErr: got %v", got)
	}

	if Mean(nil) != 0 || StdDev(nil) != 0 || StdErr(nil) != 0 {
		t.Fatal("empty inputs should yield zero")
	}
}

func TestNormCDF(t *testing.T) {
	if got := NormCDF(0); math.Abs(got-0.5) > 1e-15 {
		t.Fatalf("NormCDF(0): got %v", got)
	}
	if got := NormCDF(1.96); math.Abs(got-0.9750021) > 1e-6 {
		t.Fatalf("NormCDF(1.96): got %v", got)
	}
	if got := NormCDF(-1.96) + NormCDF(1.96); math.Abs(got-1.0) > 1e-15 {
		t.Fatalf("NormCDF should be symmetric, got %v", got)
	}
}

func TestBlackForwardParity(t *testing.T) {
	f, k, stdev := 100.6, 100.0, 0.2996

	call := BlackForward(true, f, k, stdev)
	put := BlackForward(false, f, k, stdev)
	if math.Abs((call-put)-(f-k)) > 1e-10 {
		t.Fatalf("put-call parity violated: C-P=%v, F-K=%v", call-put, f-k)
	}
	if call <= math.Max(f-k, 0) {
		t.Fatalf("call should carry time value, got %v", call)
	}
}

func TestBlackForwardIntrinsicFallback(t *testing.T) {
	if got := BlackForward(true, 110, 100, 0); got != 10 {
		t.Fatalf("zero-vol call should be intrinsic, got %v", got)
	}
	if got := BlackForward(false, 110, 100, 0); got != 0 {
		t.Fatalf("zero-vol OTM put should be worthless, got %v", got)
	}
}
