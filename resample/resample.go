// Package resample rescales ragged, variable-length trajectories to a
// fixed point count so the bundler's vectorized kernels can address every
// trajectory with the same per-point offset arithmetic.
package resample

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/trackbundle/trackbundle/tensor"
)

// DefaultMinLength is the minimum input trajectory length below which a
// trajectory is dropped rather than resampled.
const DefaultMinLength = 2

// Trajectory is one raw, variable-length input: positions and their
// per-point attribute values (may be nil/empty if no attributes apply).
type Trajectory struct {
	Points     []tensor.Point
	Attributes [][]float64
}

// Points resamples a single trajectory's positions to exactly targetLen
// points via per-axis linear interpolation, then pins the first and last
// output points to the exact input endpoints. A single-point output keeps
// the first input point.
//
// Precondition: len(points) >= 1. Callers are responsible for dropping
// trajectories shorter than their minimum length before calling Points.
func Points(points []tensor.Point, targetLen int) []tensor.Point {
	cols := make([][]float64, 3)
	for d := 0; d < 3; d++ {
		cols[d] = make([]float64, len(points))
		for i, p := range points {
			cols[d][i] = p[d]
		}
	}
	resized := make([][]float64, 3)
	for d := 0; d < 3; d++ {
		resized[d] = interpolate(cols[d], targetLen)
	}
	out := make([]tensor.Point, targetLen)
	for i := 0; i < targetLen; i++ {
		out[i] = tensor.Point{resized[0][i], resized[1][i], resized[2][i]}
	}
	if len(out) > 0 {
		out[0] = points[0]
	}
	if len(out) > 1 {
		out[len(out)-1] = points[len(points)-1]
	}
	if len(out) != targetLen {
		logrus.Warnf("resample: interpolation produced %d points, want %d; endpoints still pinned", len(out), targetLen)
	}
	return out
}

// Attrs resamples a single trajectory's per-point attribute values using
// the same interpolation and endpoint-pinning rule as Points. If attrs has
// no columns, returns targetLen nil rows.
func Attrs(attrs [][]float64, targetLen int) [][]float64 {
	if len(attrs) == 0 || len(attrs[0]) == 0 {
		return make([][]float64, targetLen)
	}
	a := len(attrs[0])
	cols := make([][]float64, a)
	for col := 0; col < a; col++ {
		cols[col] = make([]float64, len(attrs))
		for i := range attrs {
			cols[col][i] = attrs[i][col]
		}
	}
	resized := make([][]float64, a)
	for col := 0; col < a; col++ {
		resized[col] = interpolate(cols[col], targetLen)
	}
	out := make([][]float64, targetLen)
	for i := 0; i < targetLen; i++ {
		row := make([]float64, a)
		for col := 0; col < a; col++ {
			row[col] = resized[col][i]
		}
		out[i] = row
	}
	if len(out) > 0 {
		out[0] = attrs[0]
	}
	if len(out) > 1 {
		out[len(out)-1] = attrs[len(attrs)-1]
	}
	return out
}

// interpolate linearly resamples a 1D series of length n to exactly
// targetLen samples, placing the first and last source samples at the
// first and last output positions.
func interpolate(src []float64, targetLen int) []float64 {
	n := len(src)
	out := make([]float64, targetLen)
	if targetLen == 0 {
		return out
	}
	if n == 1 || targetLen == 1 {
		for i := range out {
			out[i] = src[0]
		}
		return out
	}
	scale := float64(n-1) / float64(targetLen-1)
	for j := 0; j < targetLen; j++ {
		u := float64(j) * scale
		lo := int(u)
		if lo >= n-1 {
			out[j] = src[n-1]
			continue
		}
		frac := u - float64(lo)
		out[j] = src[lo]*(1-frac) + src[lo+1]*frac
	}
	return out
}

// Batch resamples a set of ragged trajectories into a dense Tracks and
// Attributes pair of uniform length targetLen, dropping any trajectory
// shorter than minLen. The attrNames slice is carried through unchanged
// and must match the column count of every trajectory's Attributes field.
func Batch(trajectories []Trajectory, attrNames []string, targetLen, minLen int) (*tensor.Tracks, *tensor.Attributes, error) {
	points := make([][]tensor.Point, 0, len(trajectories))
	attrs := make([][][]float64, 0, len(trajectories))
	dropped := 0
	for _, traj := range trajectories {
		if len(traj.Points) < minLen {
			dropped++
			continue
		}
		points = append(points, Points(traj.Points, targetLen))
		attrs = append(attrs, Attrs(traj.Attributes, targetLen))
	}
	if dropped > 0 {
		logrus.Infof("resample: dropped %d trajectories shorter than min length %d", dropped, minLen)
	}
	tracks, err := tensor.NewTracks(points)
	if err != nil {
		return nil, nil, fmt.Errorf("resample batch: %w", err)
	}
	attributes, err := tensor.NewAttributes(attrs, attrNames)
	if err != nil {
		return nil, nil, fmt.Errorf("resample batch: %w", err)
	}
	return tracks, attributes, nil
}
