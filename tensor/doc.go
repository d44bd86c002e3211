// Package tensor defines the canonical in-memory shapes shared by the
// resampler, cluster builder and bundler: a dense [T, L, 3] position
// tensor and its companion [T, L, A] attribute tensor.
//
// Every trajectory in a Tracks value has exactly the same length L; that
// invariant is what lets the downstream packages address positions with
// flat arithmetic (t*L+i) instead of per-track offset tables.
package tensor
