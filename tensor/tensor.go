package tensor

import "fmt"

// Point is a single 3D position.
type Point [3]float64

// Tracks is the canonical dense position tensor: T trajectories, each with
// exactly L points. Points[t][i] is the i-th position of trajectory t.
type Tracks struct {
	T, L   int
	Points [][]Point
}

// NewTracks builds a Tracks value from a ragged [][]Point slice, enforcing
// that every row has identical length. Returns an error naming the first
// offending row if lengths differ.
func NewTracks(points [][]Point) (*Tracks, error) {
	t := len(points)
	if t == 0 {
		return &Tracks{T: 0, L: 0, Points: points}, nil
	}
	l := len(points[0])
	for i, row := range points {
		if len(row) != l {
			return nil, fmt.Errorf("tensor: track %d has length %d, want %d (all tracks must share one length)", i, len(row), l)
		}
	}
	return &Tracks{T: t, L: l, Points: points}, nil
}

// Clone returns a deep copy of the tensor.
func (tr *Tracks) Clone() *Tracks {
	out := make([][]Point, tr.T)
	for t := range out {
		row := make([]Point, tr.L)
		copy(row, tr.Points[t])
		out[t] = row
	}
	return &Tracks{T: tr.T, L: tr.L, Points: out}
}

// Equal reports whether two tensors have identical shape and values.
func (tr *Tracks) Equal(other *Tracks) bool {
	if tr.T != other.T || tr.L != other.L {
		return false
	}
	for t := 0; t < tr.T; t++ {
		for i := 0; i < tr.L; i++ {
			if tr.Points[t][i] != other.Points[t][i] {
				return false
			}
		}
	}
	return true
}

// Bounds returns the per-axis minimum and maximum across every point in
// the tensor. Returns zero points if the tensor is empty.
func (tr *Tracks) Bounds() (min, max Point) {
	if tr.T == 0 || tr.L == 0 {
		return Point{}, Point{}
	}
	min = tr.Points[0][0]
	max = tr.Points[0][0]
	for t := 0; t < tr.T; t++ {
		for i := 0; i < tr.L; i++ {
			p := tr.Points[t][i]
			for d := 0; d < 3; d++ {
				if p[d] < min[d] {
					min[d] = p[d]
				}
				if p[d] > max[d] {
					max[d] = p[d]
				}
			}
		}
	}
	return min, max
}

// Attributes is the companion [T, L, A] attribute tensor. It is oblivious
// to what the bundler does and is always carried through unchanged.
type Attributes struct {
	T, L, A int
	Values  [][][]float64 // Values[t][i][a]
	Names   []string
}

// NewAttributes builds an Attributes value, validating that every track
// row has length L and every position has exactly len(names) attributes.
func NewAttributes(values [][][]float64, names []string) (*Attributes, error) {
	t := len(values)
	a := len(names)
	if t == 0 {
		return &Attributes{T: 0, L: 0, A: a, Values: values, Names: names}, nil
	}
	l := len(values[0])
	for ti, row := range values {
		if len(row) != l {
			return nil, fmt.Errorf("tensor: attribute track %d has length %d, want %d", ti, len(row), l)
		}
		for i, pos := range row {
			if len(pos) != a {
				return nil, fmt.Errorf("tensor: attribute track %d position %d has %d attributes, want %d", ti, i, len(pos), a)
			}
		}
	}
	return &Attributes{T: t, L: l, A: a, Values: values, Names: names}, nil
}

// Clone returns a deep copy of the attribute tensor.
func (at *Attributes) Clone() *Attributes {
	names := make([]string, len(at.Names))
	copy(names, at.Names)
	values := make([][][]float64, at.T)
	for t := range values {
		row := make([][]float64, at.L)
		for i := range row {
			pos := make([]float64, at.A)
			copy(pos, at.Values[t][i])
			row[i] = pos
		}
		values[t] = row
	}
	return &Attributes{T: at.T, L: at.L, A: at.A, Values: values, Names: names}
}
