package bundle

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

//go:embed kernels/attract.wgsl kernels/smooth.wgsl
var kernelFS embed.FS

// KernelSource is the embedded device-kernel source, loaded from the
// embedded files each time a device is constructed and kept available for
// hashing/caching.
type KernelSource struct {
	AttractSource string
	SmoothSource  string
	Hash          string // sha256 of both sources concatenated
}

func loadKernelSource() (*KernelSource, error) {
	attract, err := kernelFS.ReadFile("kernels/attract.wgsl")
	if err != nil {
		return nil, fmt.Errorf("load attract kernel source: %w", err)
	}
	smooth, err := kernelFS.ReadFile("kernels/smooth.wgsl")
	if err != nil {
		return nil, fmt.Errorf("load smooth kernel source: %w", err)
	}
	sum := sha256.Sum256(append(append([]byte{}, attract...), smooth...))
	return &KernelSource{
		AttractSource: string(attract),
		SmoothSource:  string(smooth),
		Hash:          hex.EncodeToString(sum[:]),
	}, nil
}

// Device dispatches the attraction and smoothing kernels over a chunk of
// trajectory indices. Implementations must honor the ordering contract:
// every invocation in LaunchAttract completes before LaunchAttract
// returns, and likewise for LaunchSmooth (a launch is a blocking
// submit-and-wait from the host's point of view).
type Device interface {
	// ID identifies the device for kernel-cache keying and diagnostics.
	ID() string
	LaunchAttract(ctx context.Context, f *flatLayout, p Params, offset, width int) error
	LaunchSmooth(ctx context.Context, f *flatLayout, p Params, offset, width int) error
	Close() error
}

// cpuDevice is the only Device implementation in this module: there is no
// GPU compute-shader binding available in the Go ecosystem surface this
// project draws on (see DESIGN.md), so the kernel contract is realized as
// a bounded goroutine pool, one goroutine per trajectory in the active
// chunk, concurrency-capped at GOMAXPROCS.
type cpuDevice struct {
	id         string
	source     *KernelSource
	maxWorkers int

	mu      sync.Mutex
	primed  map[string]bool // kernel-source hashes already "compiled"
}

// NewCPUDevice constructs the default device backend. id identifies this
// device instance for diagnostics (e.g. hostname, or "cpu:0"); device
// selection is always an explicit constructor argument, never process-wide
// mutable config.
func NewCPUDevice(id string) (Device, error) {
	source, err := loadKernelSource()
	if err != nil {
		return nil, newError(KindDeviceUnavailable, "load kernel source", err)
	}
	d := &cpuDevice{
		id:         id,
		source:     source,
		maxWorkers: runtime.GOMAXPROCS(0),
		primed:     make(map[string]bool),
	}
	d.compile(source.Hash)
	return d, nil
}

// compile is a no-op "JIT compile" for the CPU backend, present so the
// kernel-source-hash cache keying the contract describes has something
// real to do; a GPU backend would build the source here instead.
func (d *cpuDevice) compile(hash string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.primed[hash] = true
}

func (d *cpuDevice) ID() string { return d.id }

func (d *cpuDevice) LaunchAttract(ctx context.Context, f *flatLayout, p Params, offset, width int) error {
	return d.dispatch(ctx, offset, width, func(t int) {
		attractChunk(f, p, t, 1)
	})
}

func (d *cpuDevice) LaunchSmooth(ctx context.Context, f *flatLayout, p Params, offset, width int) error {
	return d.dispatch(ctx, offset, width, func(t int) {
		smoothChunk(f, p, t, 1)
	})
}

// dispatch runs work(t) for every trajectory index t in [offset,
// offset+width) as an independent goroutine, bounded to maxWorkers
// concurrent at a time, and blocks until all have completed.
func (d *cpuDevice) dispatch(ctx context.Context, offset, width int, work func(t int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.maxWorkers)
	for t := offset; t < offset+width; t++ {
		t := t
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			work(t)
			return nil
		})
	}
	return g.Wait()
}

func (d *cpuDevice) Close() error { return nil }
