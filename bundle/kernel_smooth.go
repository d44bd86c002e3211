package bundle

// smoothChunk runs the smoothing kernel over trajectories
// [offset, offset+width) of the chunk: each point is blended with the
// unweighted average of its r-neighborhood (itself included), by
// intensity alpha. Endpoints are never smoothed.
func smoothChunk(f *flatLayout, p Params, offset, width int) {
	l := f.l
	r := p.SmoothRadius
	alpha := p.SmoothIntensity

	for t := offset; t < offset+width; t++ {
		for i := 0; i < l; i++ {
			point := f.points[t*l+i]
			if i == 0 || i == l-1 {
				f.pointsOut[t*l+i] = point
				continue
			}

			lo := i - r
			if lo < 0 {
				lo = 0
			}
			hi := i + r
			if hi > l-1 {
				hi = l - 1
			}

			var sumX, sumY, sumZ float32
			count := 0
			for j := lo; j <= hi; j++ {
				q := f.points[t*l+j]
				sumX += q[0]
				sumY += q[1]
				sumZ += q[2]
				count++
			}
			inv := 1.0 / float32(count)
			meanX := sumX * inv
			meanY := sumY * inv
			meanZ := sumZ * inv

			newPoint := Point4{
				(1-alpha)*point[0] + alpha*meanX,
				(1-alpha)*point[1] + alpha*meanY,
				(1-alpha)*point[2] + alpha*meanZ,
				0,
			}
			f.pointsOut[t*l+i] = newPoint
		}
	}
}
