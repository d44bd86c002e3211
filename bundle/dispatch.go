package bundle

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/trackbundle/trackbundle/cluster"
	"github.com/trackbundle/trackbundle/tensor"
	"github.com/trackbundle/trackbundle/trace"
)

// state names the dispatcher's lifecycle position, per the state-machine
// contract: Idle -> Prepared -> Iterating(i, phase) -> Done, with Failed
// reachable from any in-flight state.
type state int

const (
	stateIdle state = iota
	statePrepared
	stateIterating
	stateDone
	stateFailed
)

// Dispatcher orchestrates the outer bundling iterations: for each
// iteration, an attraction pass followed by a smoothing pass, both
// chunked, with a full barrier between phases and between iterations.
type Dispatcher struct {
	device Device
	trace  *trace.Recorder
	state  state
}

// Option configures a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithTrace attaches a convergence-diagnostic recorder to the dispatcher.
func WithTrace(r *trace.Recorder) Option {
	return func(d *Dispatcher) { d.trace = r }
}

// NewDispatcher creates a Dispatcher bound to the given device. Device
// selection is always explicit: there is no implicit/global default.
func NewDispatcher(device Device, opts ...Option) *Dispatcher {
	d := &Dispatcher{device: device, state: stateIdle}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes the full bundling protocol: builds the flat dispatch
// layout from tracks and assignment, then runs params.Iterations outer
// iterations of attract+smooth, chunked at params.ChunkSize. Returns a new
// tensor; tracks is never mutated.
//
// Returns tracks unchanged (a clone) if tracks.T == 0 (EmptyInput) or if
// params.Iterations == 0 (the short-circuit identity case).
func (d *Dispatcher) Run(ctx context.Context, tracks *tensor.Tracks, assignment *cluster.Assignment, params Params) (*tensor.Tracks, error) {
	if tracks.T == 0 {
		return tracks.Clone(), nil
	}
	if len(assignment.TrajToCluster) != tracks.T {
		d.state = stateFailed
		return nil, newError(KindInvalidShape, fmt.Sprintf("assignment covers %d trajectories, tracks has %d", len(assignment.TrajToCluster), tracks.T), nil)
	}
	if params.Iterations == 0 {
		return tracks.Clone(), nil
	}

	layout := buildLayout(tracks, assignment)
	d.state = statePrepared
	defer func() {
		if d.device != nil {
			_ = d.device.Close()
		}
	}()

	chunkSize := params.ChunkSize
	if chunkSize <= 0 {
		chunkSize = tracks.T
	}

	d.state = stateIterating
	for iter := 0; iter < params.Iterations; iter++ {
		if err := ctx.Err(); err != nil {
			d.state = stateFailed
			return nil, newError(KindCancelled, "cancelled before iteration", err)
		}

		if err := d.runPhase(ctx, layout, params, chunkSize, d.device.LaunchAttract); err != nil {
			d.state = stateFailed
			return nil, err
		}
		layout.commit()

		if err := d.runPhase(ctx, layout, params, chunkSize, d.device.LaunchSmooth); err != nil {
			d.state = stateFailed
			return nil, err
		}
		layout.commit()

		if d.trace != nil && d.trace.Enabled {
			d.trace.Record(iter, meanPairwiseDistances(layout, assignment))
		}

		logrus.WithFields(logrus.Fields{"iteration": iter, "trajectories": tracks.T}).Debug("bundle iteration complete")
	}

	d.state = stateDone
	return layout.toTracks(tracks.T, tracks.L), nil
}

// runPhase launches one kernel (attract or smooth) across every chunk of
// the trajectory axis, waiting for each chunk's launch to complete before
// starting the next (the protocol does not require chunks to overlap, and
// this keeps cancellation checks simple).
func (d *Dispatcher) runPhase(ctx context.Context, layout *flatLayout, params Params, chunkSize int, launch func(context.Context, *flatLayout, Params, int, int) error) error {
	t := len(layout.fiberStart)
	for offset := 0; offset < t; offset += chunkSize {
		width := chunkSize
		if offset+width > t {
			width = t - offset
		}
		if err := launch(ctx, layout, params, offset, width); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return newError(KindCancelled, "cancelled mid-phase", ctxErr)
			}
			return newError(KindDeviceOOM, "kernel launch failed", err)
		}
		if err := ctx.Err(); err != nil {
			return newError(KindCancelled, "cancelled mid-phase", err)
		}
	}
	return nil
}

// meanPairwiseDistances computes, for each interior index i in (0, L-1),
// the mean distance between every pair of trajectories sharing a cluster.
func meanPairwiseDistances(layout *flatLayout, assignment *cluster.Assignment) []float64 {
	l := layout.l
	if l <= 2 {
		return nil
	}
	out := make([]float64, l-2)
	for idx, i := 0, 1; i < l-1; i, idx = i+1, idx+1 {
		var sum float64
		var count int
		for _, members := range assignment.Members {
			for a := 0; a < len(members); a++ {
				for b := a + 1; b < len(members); b++ {
					pa := layout.points[members[a]*l+i]
					pb := layout.points[members[b]*l+i]
					dx := float64(pa[0] - pb[0])
					dy := float64(pa[1] - pb[1])
					dz := float64(pa[2] - pb[2])
					sum += math.Sqrt(dx*dx + dy*dy + dz*dz)
					count++
				}
			}
		}
		if count > 0 {
			out[idx] = sum / float64(count)
		}
	}
	return out
}
