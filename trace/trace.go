// Package trace provides optional convergence-diagnostic recording for a
// bundler run. It has no dependency on the bundle package — it stores
// pure data and leaves interpretation to its caller.
package trace

import "github.com/sirupsen/logrus"

// IterationRecord captures one outer iteration's convergence diagnostic:
// the mean pairwise distance between each trajectory and its cluster
// siblings, indexed by position along the trajectory (excluding the
// pinned endpoints).
type IterationRecord struct {
	Iteration       int
	MeanPairwiseDist []float64 // length L-2, indices correspond to i in (0, L-1)
}

// Recorder accumulates IterationRecords across a bundler run. The zero
// value is ready to use but records nothing until Enabled is true.
type Recorder struct {
	Enabled bool
	Records []IterationRecord
}

// NewRecorder creates a Recorder. When enabled is false, Record is a no-op,
// so callers can construct one unconditionally and let the flag gate cost.
func NewRecorder(enabled bool) *Recorder {
	return &Recorder{Enabled: enabled, Records: make([]IterationRecord, 0)}
}

// Record appends an iteration's diagnostic and logs it at debug level.
func (r *Recorder) Record(iteration int, meanPairwiseDist []float64) {
	if r == nil || !r.Enabled {
		return
	}
	rec := IterationRecord{Iteration: iteration, MeanPairwiseDist: append([]float64(nil), meanPairwiseDist...)}
	r.Records = append(r.Records, rec)
	logrus.WithField("iteration", iteration).Debugf("bundle convergence: mean pairwise distances %v", rec.MeanPairwiseDist)
}
