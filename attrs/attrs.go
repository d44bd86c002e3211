// Package attrs derives additional per-point attributes from a track
// tensor: radius from origin, elapsed index ("time"), and the angle
// between a point's local motion and the trajectory's initial heading.
package attrs

import (
	"math"

	"github.com/trackbundle/trackbundle/tensor"
)

// Translate shifts every point of tr by (x, y, z) in place and returns tr
// for chaining.
func Translate(tr *tensor.Tracks, x, y, z float64) *tensor.Tracks {
	for t := range tr.Points {
		for i := range tr.Points[t] {
			tr.Points[t][i][0] += x
			tr.Points[t][i][1] += y
			tr.Points[t][i][2] += z
		}
	}
	return tr
}

// Scale multiplies every coordinate of every point of tr by factor in
// place and returns tr for chaining.
func Scale(tr *tensor.Tracks, factor float64) *tensor.Tracks {
	for t := range tr.Points {
		for i := range tr.Points[t] {
			tr.Points[t][i][0] *= factor
			tr.Points[t][i][1] *= factor
			tr.Points[t][i][2] *= factor
		}
	}
	return tr
}

// Barycenter returns the mean of all points across every trajectory.
func Barycenter(tr *tensor.Tracks) tensor.Point {
	var sum tensor.Point
	var n float64
	for _, row := range tr.Points {
		for _, p := range row {
			sum[0] += p[0]
			sum[1] += p[1]
			sum[2] += p[2]
			n++
		}
	}
	if n == 0 {
		return sum
	}
	return tensor.Point{sum[0] / n, sum[1] / n, sum[2] / n}
}

// AddRadius appends an attribute column holding each point's Euclidean
// distance from the origin. Callers wanting radius relative to a
// different center should Translate the tracks first.
func AddRadius(tr *tensor.Tracks, at *tensor.Attributes) *tensor.Attributes {
	out := appendColumn(at, "Radius")
	for t := 0; t < tr.T; t++ {
		for i := 0; i < tr.L; i++ {
			p := tr.Points[t][i]
			out.Values[t][i][out.A-1] = math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
		}
	}
	return out
}

// AddTime appends an attribute column holding the position index (0..L-1)
// at every point, identical across trajectories.
func AddTime(tr *tensor.Tracks, at *tensor.Attributes) *tensor.Attributes {
	out := appendColumn(at, "Time")
	for t := 0; t < tr.T; t++ {
		for i := 0; i < tr.L; i++ {
			out.Values[t][i][out.A-1] = float64(i)
		}
	}
	return out
}

// AddAngleToStart appends an attribute column holding, for every local
// step along a trajectory, the clamped cosine similarity against the
// trajectory's initial heading (the displacement from its first point to
// the point 5% of the way along). The final index has no local step to
// measure and is left at its zero-initialized value, matching the
// original's range(shape[1]-1) loop.
func AddAngleToStart(tr *tensor.Tracks, at *tensor.Attributes) *tensor.Attributes {
	out := appendColumn(at, "Angle to start")
	for t := 0; t < tr.T; t++ {
		row := tr.Points[t]
		refIdx := int(0.05 * float64(tr.L))
		ref := sub(row[refIdx], row[0])
		for i := 0; i < tr.L-1; i++ {
			local := sub(row[i+1], row[i])
			out.Values[t][i][out.A-1] = clampedCosine(ref, local)
		}
	}
	return out
}

func sub(a, b tensor.Point) tensor.Point {
	return tensor.Point{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// clampedCosine returns the cosine similarity between u and v, rescaled
// from [-1, 1] to [0, 1] with negative similarity clamped to 0 before the
// rescale: max(0, cos(u,v))/2 + 0.5. Degenerate (zero-length) vectors
// return 0.
func clampedCosine(u, v tensor.Point) float64 {
	lu := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
	lv := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if lu == 0 || lv == 0 {
		return 0
	}
	dot := u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
	cos := dot / lu / lv
	if cos < 0 {
		cos = 0
	}
	return cos/2 + 0.5
}

// appendColumn returns a new Attributes with one extra zero-valued column
// named name, leaving at untouched.
func appendColumn(at *tensor.Attributes, name string) *tensor.Attributes {
	out := at.Clone()
	out.Names = append(append([]string{}, out.Names...), name)
	newA := out.A + 1
	for t := 0; t < out.T; t++ {
		for i := 0; i < out.L; i++ {
			out.Values[t][i] = append(out.Values[t][i], 0)
		}
	}
	out.A = newA
	return out
}
