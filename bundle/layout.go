package bundle

import (
	"github.com/trackbundle/trackbundle/cluster"
	"github.com/trackbundle/trackbundle/tensor"
)

// Point4 is a 4-wide point: x, y, z and an unused padding lane to keep
// per-point stride aligned for vectorized kernel access.
type Point4 [4]float32

// flatLayout materializes the five flat arrays the kernels dispatch
// against: fiber offsets, cluster offsets/membership, the inverse cluster
// index, and the point buffers themselves.
type flatLayout struct {
	fiberStart     []int32
	fiberLen       []int32
	clusterStart   []int32
	clusterLen     []int32
	clusterMembers []int32
	invCluster     []int32
	points         []Point4
	pointsOut      []Point4
	l              int
}

// buildLayout flattens tracks and the cluster assignment into device-ready
// arrays. tracks and assignment must agree on T (tracks.T ==
// len(assignment.TrajToCluster)).
func buildLayout(tracks *tensor.Tracks, assignment *cluster.Assignment) *flatLayout {
	t, l := tracks.T, tracks.L
	k := len(assignment.Members)

	fiberStart := make([]int32, t)
	fiberLen := make([]int32, t)
	for i := 0; i < t; i++ {
		fiberStart[i] = int32(i * l)
		fiberLen[i] = int32(l)
	}

	clusterStart := make([]int32, k)
	clusterLen := make([]int32, k)
	clusterMembers := make([]int32, 0, t)
	invCluster := make([]int32, t)
	offset := int32(0)
	for c := 0; c < k; c++ {
		clusterStart[c] = offset
		clusterLen[c] = int32(len(assignment.Members[c]))
		for _, traj := range assignment.Members[c] {
			clusterMembers = append(clusterMembers, int32(traj))
			invCluster[traj] = int32(c)
		}
		offset += clusterLen[c]
	}

	points := make([]Point4, t*l)
	for ti := 0; ti < t; ti++ {
		for i := 0; i < l; i++ {
			p := tracks.Points[ti][i]
			points[ti*l+i] = Point4{float32(p[0]), float32(p[1]), float32(p[2]), 0}
		}
	}
	pointsOut := make([]Point4, len(points))
	copy(pointsOut, points)

	return &flatLayout{
		fiberStart:     fiberStart,
		fiberLen:       fiberLen,
		clusterStart:   clusterStart,
		clusterLen:     clusterLen,
		clusterMembers: clusterMembers,
		invCluster:     invCluster,
		points:         points,
		pointsOut:      pointsOut,
		l:              l,
	}
}

// commit copies pointsOut into points, the barrier step between kernel
// launches described in the dispatch protocol.
func (f *flatLayout) commit() {
	copy(f.points, f.pointsOut)
}

// toTracks converts the flat point buffer back into a [T, L, 3] tensor.
func (f *flatLayout) toTracks(t, l int) *tensor.Tracks {
	points := make([][]tensor.Point, t)
	for ti := 0; ti < t; ti++ {
		row := make([]tensor.Point, l)
		for i := 0; i < l; i++ {
			p := f.points[ti*l+i]
			row[i] = tensor.Point{float64(p[0]), float64(p[1]), float64(p[2])}
		}
		points[ti] = row
	}
	tracks, _ := tensor.NewTracks(points)
	return tracks
}
