package serialize

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trackbundle/trackbundle/tensor"
)

func TestNewDataset_CapturesInitialState(t *testing.T) {
	tracks, _ := tensor.NewTracks([][]tensor.Point{{{1, 2, 3}, {4, 5, 6}}})
	attrs, _ := tensor.NewAttributes([][][]float64{{{0.5}, {0.6}}}, []string{"radius"})

	d := NewDataset("original", tracks, attrs)
	assert.Len(t, d.States, 1)
	assert.Equal(t, "original", d.States[0].Name)
	assert.Equal(t, []float64{1, 2, 3}, d.States[0].Tracks[0][0])
	assert.Equal(t, []string{"radius"}, d.AttributeNames)
}

func TestDataset_AddStateAppends(t *testing.T) {
	tracks, _ := tensor.NewTracks([][]tensor.Point{{{0, 0, 0}}})
	attrs, _ := tensor.NewAttributes([][][]float64{{{0}}}, []string{"a"})

	d := NewDataset("original", tracks, attrs)
	bundled, _ := tensor.NewTracks([][]tensor.Point{{{1, 1, 1}}})
	d.AddState("bundled", bundled)

	assert.Len(t, d.States, 2)
	assert.Equal(t, "bundled", d.States[1].Name)
}

func TestWriteFile_ProducesValidJSON(t *testing.T) {
	tracks, _ := tensor.NewTracks([][]tensor.Point{{{1, 2, 3}}})
	attrs, _ := tensor.NewAttributes([][][]float64{{{0.1}}}, []string{"radius"})
	d := NewDataset("original", tracks, attrs)

	path := filepath.Join(t.TempDir(), "out.json")
	assert.NoError(t, WriteFile(path, d))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	var roundTrip Dataset
	assert.NoError(t, json.Unmarshal(data, &roundTrip))
	assert.Equal(t, d.AttributeNames, roundTrip.AttributeNames)
}
