// Package testutil provides shared test helpers for comparing trajectory
// tensors with floating-point tolerance across package test suites.
package testutil

import (
	"math"
	"testing"

	"github.com/trackbundle/trackbundle/tensor"
)

// AssertFloat64Equal compares two float64 values with relative tolerance,
// treating both-zero as a trivial match.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertPointsEqual compares two points coordinate-wise within an absolute
// tolerance.
func AssertPointsEqual(t *testing.T, name string, want, got tensor.Point, tol float64) {
	t.Helper()
	for d := 0; d < 3; d++ {
		if math.Abs(want[d]-got[d]) > tol {
			t.Errorf("%s: coordinate %d got %v, want %v", name, d, got[d], want[d])
		}
	}
}

// AssertTracksApproxEqual compares two tensors shape and value-wise within
// an absolute per-coordinate tolerance.
func AssertTracksApproxEqual(t *testing.T, want, got *tensor.Tracks, tol float64) {
	t.Helper()
	if want.T != got.T || want.L != got.L {
		t.Fatalf("shape mismatch: want [%d,%d], got [%d,%d]", want.T, want.L, got.T, got.L)
	}
	for ti := 0; ti < want.T; ti++ {
		for i := 0; i < want.L; i++ {
			AssertPointsEqual(t, "track point", want.Points[ti][i], got.Points[ti][i], tol)
		}
	}
}
