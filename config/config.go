// Package config layers bundler parameters from three sources, in
// increasing priority: the data-driven estimator, an optional YAML file,
// and CLI flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trackbundle/trackbundle/bundle"
)

// File is the YAML-serializable form of bundle.Params. Every field is a
// pointer so "absent from the file" is distinguishable from "explicitly
// zero" — load-bearing for angle_min, angle_stick and bundle_endpoints,
// whose zero value is meaningful.
type File struct {
	K               *int     `yaml:"k"`
	ShortLength     *int     `yaml:"short_length"`
	ClusterIters    *int     `yaml:"cluster_iters"`
	Iterations      *int     `yaml:"iterations"`
	ChunkSize       *int     `yaml:"chunk_size"`
	MagnetRadius    *float32 `yaml:"magnet_radius"`
	StepSize        *float32 `yaml:"step_size"`
	AngleMin        *float32 `yaml:"angle_min"`
	AngleStick      *float32 `yaml:"angle_stick"`
	SmoothRadius    *int     `yaml:"smooth_radius"`
	SmoothIntensity *float32 `yaml:"smooth_intensity"`
	BundleEndpoints *int     `yaml:"bundle_endpoints"`
}

// LoadFile reads and parses a YAML parameter file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &f, nil
}

// Resolve layers defaults (from bundle.EstimateDefaults), an optional YAML
// file, and CLI overrides into a final bundle.Params. file and cli may
// both be nil; a nil pointer field in either means "not set at this
// layer". CLI values always win over the YAML file, which always wins
// over the estimator default.
func Resolve(defaults bundle.Params, file, cli *File) bundle.Params {
	p := defaults
	applyFile(&p, file)
	applyFile(&p, cli)
	return p
}

func applyFile(p *bundle.Params, f *File) {
	if f == nil {
		return
	}
	if f.K != nil {
		p.K = *f.K
	}
	if f.ShortLength != nil {
		p.ShortLength = *f.ShortLength
	}
	if f.ClusterIters != nil {
		p.ClusterIters = *f.ClusterIters
	}
	if f.Iterations != nil {
		p.Iterations = *f.Iterations
	}
	if f.ChunkSize != nil {
		p.ChunkSize = *f.ChunkSize
	}
	if f.MagnetRadius != nil {
		p.MagnetRadius = *f.MagnetRadius
	}
	if f.StepSize != nil {
		p.StepSize = *f.StepSize
	}
	if f.AngleMin != nil {
		p.AngleMin = *f.AngleMin
	}
	if f.AngleStick != nil {
		p.AngleStick = *f.AngleStick
	}
	if f.SmoothRadius != nil {
		p.SmoothRadius = *f.SmoothRadius
	}
	if f.SmoothIntensity != nil {
		p.SmoothIntensity = *f.SmoothIntensity
	}
	if f.BundleEndpoints != nil {
		p.BundleEndpoints = *f.BundleEndpoints
	}
}
