package bundle

import (
	"math"

	"github.com/trackbundle/trackbundle/tensor"
)

// Params is the fully-resolved set of bundling parameters consumed by the
// dispatcher. Every field here has a concrete value; optional overrides
// and YAML-driven configuration are resolved into a Params by the config
// package before a run starts.
type Params struct {
	K               int     // number of QuickBundles clusters
	ShortLength     int     // downsampled length used for clustering
	ClusterIters    int     // QuickBundles refinement iterations
	Iterations      int     // outer bundling iterations (I)
	ChunkSize       int     // trajectories per kernel launch (C)
	MagnetRadius    float32 // attraction radius
	StepSize        float32 // attraction step fraction
	AngleMin        float32 // directional gate threshold (0 disables)
	AngleStick      float32 // reserved, currently a no-op
	SmoothRadius    int     // smoothing neighbor radius
	SmoothIntensity float32 // smoothing blend factor
	BundleEndpoints int     // 0 = endpoints pinned, nonzero = endpoints move
}

// EstimateDefaults derives default parameters from the data extents of
// tracks, per the parameter-estimator contract: magnet radius and cluster
// count scale with the data, everything else is a fixed constant.
func EstimateDefaults(tracks *tensor.Tracks) Params {
	min, max := tracks.Bounds()
	var sumSq float64
	for d := 0; d < 3; d++ {
		diff := max[d] - min[d]
		sumSq += diff * diff
	}
	diagonal := math.Sqrt(sumSq)

	k := 1
	if tracks.T > 0 {
		k = int(math.Ceil(float64(tracks.T) / 100.0))
		if k < 1 {
			k = 1
		}
	}

	return Params{
		K:               k,
		ShortLength:     8,
		ClusterIters:    20,
		Iterations:      15,
		ChunkSize:       10000,
		MagnetRadius:    float32(0.02 * diagonal),
		StepSize:        0.5,
		AngleMin:        0,
		AngleStick:      0,
		SmoothRadius:    1,
		SmoothIntensity: 0.5,
		BundleEndpoints: 0,
	}
}
