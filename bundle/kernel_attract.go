package bundle

import "math"

// attractChunk runs the attraction kernel over trajectories
// [offset, offset+width) of the chunk, reading only from f.points (the
// immutable snapshot for this launch) and writing only to f.pointsOut.
func attractChunk(f *flatLayout, p Params, offset, width int) {
	l := f.l
	for t := offset; t < offset+width; t++ {
		c := f.invCluster[t]
		memberStart := int(f.clusterStart[c])
		memberLen := int(f.clusterLen[c])

		for i := 0; i < l; i++ {
			point := f.points[t*l+i]
			var sumX, sumY, sumZ float32
			var n int

			// The running mean includes t's own point: the kernel pulls
			// each point toward the cluster's local centroid, not just
			// toward its siblings (a self-only cluster is a no-op, and
			// the pull strength scales with how crowded the cluster is).
			for m := 0; m < memberLen; m++ {
				other := int(f.clusterMembers[memberStart+m])
				q := f.points[other*l+i]
				dx := point[0] - q[0]
				dy := point[1] - q[1]
				dz := point[2] - q[2]
				dist := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
				if dist > p.MagnetRadius {
					continue
				}
				if p.AngleMin > 0 {
					u := localDirection(f, t, i)
					v := localDirection(f, other, i)
					sim := clampedCosineSimilarity(u, v)
					if sim < p.AngleMin {
						continue
					}
				}
				sumX += q[0]
				sumY += q[1]
				sumZ += q[2]
				n++
			}

			newPoint := point
			if n > 0 {
				inv := 1.0 / float32(n)
				meanX := sumX * inv
				meanY := sumY * inv
				meanZ := sumZ * inv
				newPoint[0] = point[0] + p.StepSize*(meanX-point[0])
				newPoint[1] = point[1] + p.StepSize*(meanY-point[1])
				newPoint[2] = point[2] + p.StepSize*(meanZ-point[2])
			}
			if (i == 0 || i == l-1) && p.BundleEndpoints == 0 {
				newPoint = point
			}
			f.pointsOut[t*l+i] = newPoint
		}
	}
}

// localDirection returns the clamped finite-difference direction vector
// points[i+1] - points[i-1] for trajectory traj at index i, clamping both
// neighbor indices to [0, L) at the trajectory's ends.
func localDirection(f *flatLayout, traj, i int) [3]float32 {
	l := f.l
	lo := i - 1
	if lo < 0 {
		lo = 0
	}
	hi := i + 1
	if hi > l-1 {
		hi = l - 1
	}
	a := f.points[traj*l+lo]
	b := f.points[traj*l+hi]
	return [3]float32{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
}

// clampedCosineSimilarity computes cosine similarity between u and v,
// mapping opposing vectors to 0 (not -1) and rescaling to [0, 1]:
// max(0, cos) / 2 + 0.5. Returns 0 if either vector is degenerate.
func clampedCosineSimilarity(u, v [3]float32) float32 {
	lu := float32(math.Sqrt(float64(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])))
	lv := float32(math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if lu == 0 || lv == 0 {
		return 0
	}
	dot := u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
	cos := dot / (lu * lv)
	if cos < 0 {
		cos = 0
	}
	return cos/2 + 0.5
}
