package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trackbundle/trackbundle/bundle"
)

func TestResolve_FileOverridesDefaults(t *testing.T) {
	defaults := bundle.Params{K: 3, StepSize: 0.5, Iterations: 15}
	k := 9
	file := &File{K: &k}

	got := Resolve(defaults, file, nil)
	assert.Equal(t, 9, got.K)
	assert.Equal(t, float32(0.5), got.StepSize)
	assert.Equal(t, 15, got.Iterations)
}

func TestResolve_CLIOverridesFile(t *testing.T) {
	defaults := bundle.Params{K: 3}
	fileK, cliK := 9, 20
	file := &File{K: &fileK}
	cli := &File{K: &cliK}

	got := Resolve(defaults, file, cli)
	assert.Equal(t, 20, got.K)
}

func TestResolve_ExplicitZeroIsDistinguishableFromUnset(t *testing.T) {
	defaults := bundle.Params{AngleMin: 0.7}
	var explicitZero float32 = 0
	file := &File{AngleMin: &explicitZero}

	got := Resolve(defaults, file, nil)
	assert.Equal(t, float32(0), got.AngleMin)

	gotUnset := Resolve(defaults, &File{}, nil)
	assert.Equal(t, float32(0.7), gotUnset.AngleMin)
}

func TestLoadFile_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.yaml")
	content := "k: 5\nstep_size: 0.25\nangle_min: 0\n"
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f, err := LoadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 5, *f.K)
	assert.Equal(t, float32(0.25), *f.StepSize)
	assert.Equal(t, float32(0), *f.AngleMin)
	assert.Nil(t, f.Iterations)
}

func TestLoadFile_MissingFileReturnsWrappedError(t *testing.T) {
	_, err := LoadFile("/nonexistent/path/params.yaml")
	assert.Error(t, err)
}
