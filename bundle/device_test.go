package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCPUDevice_LoadsAndHashesKernelSource(t *testing.T) {
	device, err := NewCPUDevice("cpu:0")
	assert.NoError(t, err)
	assert.Equal(t, "cpu:0", device.ID())
	assert.NoError(t, device.Close())
}

func TestLoadKernelSource_HashIsStable(t *testing.T) {
	a, err := loadKernelSource()
	assert.NoError(t, err)
	b, err := loadKernelSource()
	assert.NoError(t, err)
	assert.Equal(t, a.Hash, b.Hash)
	assert.Len(t, a.Hash, 64) // hex-encoded sha256
}
