// Package bundle implements the iterative attraction/smoothing kernel
// bundler: given a tensor of resampled trajectories and a cluster
// assignment, it pulls each trajectory toward its cluster's local
// centroid and smooths the result, alternating for a fixed number of
// outer iterations.
//
// The kernel contract is written against an abstract Device so that the
// same attract/smooth math could in principle run on a real compute
// accelerator; the only Device implemented here dispatches across a
// bounded goroutine pool.
package bundle
