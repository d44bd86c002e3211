// Package cluster implements QuickBundles-style spatial clustering of
// equal-length trajectories: a k-means-like iteration over trajectories
// downsampled to a short length, using pointwise squared Euclidean
// distance as the similarity metric.
package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/trackbundle/trackbundle/resample"
	"github.com/trackbundle/trackbundle/tensor"
)

// DefaultShortLength is the downsampled length S used for clustering
// distance computation (S << L keeps the O(T*K*S) inner loop cheap).
const DefaultShortLength = 8

// DefaultIterations is the number of k-means-like refinement passes.
const DefaultIterations = 20

// Build clusters the T trajectories in tracks into k clusters using the
// QuickBundles algorithm (downsample to shortLen, then iterate
// assign/update for iterations rounds). Returns the final assignment and
// the K mean trajectories at shortLen (useful for diagnostics/plots).
func Build(tracks *tensor.Tracks, k, shortLen, iterations int) (*Assignment, [][]tensor.Point, error) {
	if k < 1 {
		return nil, nil, fmt.Errorf("cluster: k must be >= 1, got %d", k)
	}
	if tracks.T == 0 {
		return &Assignment{TrajToCluster: []int{}, Members: make([][]int, k)}, nil, nil
	}

	// Downsample every trajectory to the short length for distance comparisons.
	q := make([][]float64, tracks.T) // flattened [shortLen*3] vectors
	for t := 0; t < tracks.T; t++ {
		short := resample.Points(tracks.Points[t], shortLen)
		q[t] = flatten(short)
	}

	// Evenly-spaced initialization: center k <- Q[k * floor(T/K)].
	fillStep := tracks.T / k
	centers := make([][]float64, k)
	for c := 0; c < k; c++ {
		idx := c * fillStep
		if idx >= tracks.T {
			idx = tracks.T - 1
		}
		centers[c] = append([]float64(nil), q[idx]...)
	}

	trajToCluster := make([]int, tracks.T)
	diff := make([]float64, shortLen*3)
	var members [][]int

	assign := func() {
		members = make([][]int, k)
		for c := range members {
			members[c] = make([]int, 0)
		}
		for t := 0; t < tracks.T; t++ {
			best := -1
			bestDist := 0.0
			for c := 0; c < k; c++ {
				floats.SubTo(diff, q[t], centers[c])
				d := floats.Dot(diff, diff)
				if best == -1 || d < bestDist {
					best = c
					bestDist = d
				}
			}
			trajToCluster[t] = best
			members[best] = append(members[best], t)
		}
	}

	update := func() {
		for c := 0; c < k; c++ {
			if len(members[c]) == 0 {
				// Empty clusters retain their previous center; never reseed.
				continue
			}
			sum := make([]float64, shortLen*3)
			for _, t := range members[c] {
				floats.Add(sum, q[t])
			}
			floats.Scale(1.0/float64(len(members[c])), sum)
			centers[c] = sum
		}
	}

	// Step (a) of iteration 1 happens against the initial centers; every
	// subsequent iteration's step (a) happens against the centers its
	// predecessor's step (b) produced. The assignment returned is always
	// the one from the most recent step (a), never recomputed against a
	// center update that hasn't itself been followed by a fresh assign.
	assign()
	for iter := 0; iter < iterations; iter++ {
		update()
		assign()
	}

	return &Assignment{TrajToCluster: trajToCluster, Members: members}, unflattenAll(centers, shortLen), nil
}

func flatten(points []tensor.Point) []float64 {
	out := make([]float64, len(points)*3)
	for i, p := range points {
		out[i*3] = p[0]
		out[i*3+1] = p[1]
		out[i*3+2] = p[2]
	}
	return out
}

func unflatten(v []float64, shortLen int) []tensor.Point {
	out := make([]tensor.Point, shortLen)
	for i := 0; i < shortLen; i++ {
		out[i] = tensor.Point{v[i*3], v[i*3+1], v[i*3+2]}
	}
	return out
}

func unflattenAll(centers [][]float64, shortLen int) [][]tensor.Point {
	out := make([][]tensor.Point, len(centers))
	for i, c := range centers {
		out[i] = unflatten(c, shortLen)
	}
	return out
}
