package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTracks_RejectsRaggedInput(t *testing.T) {
	_, err := NewTracks([][]Point{
		{{0, 0, 0}, {1, 1, 1}},
		{{0, 0, 0}},
	})
	assert.Error(t, err)
}

func TestNewTracks_EmptyInput(t *testing.T) {
	tr, err := NewTracks(nil)
	assert.NoError(t, err)
	assert.Equal(t, 0, tr.T)
	assert.Equal(t, 0, tr.L)
}

func TestTracks_CloneIsIndependent(t *testing.T) {
	tr, err := NewTracks([][]Point{{{1, 2, 3}, {4, 5, 6}}})
	assert.NoError(t, err)

	clone := tr.Clone()
	clone.Points[0][0][0] = 99
	assert.Equal(t, 1.0, tr.Points[0][0][0])
	assert.True(t, tr.Equal(tr.Clone()))
	assert.False(t, tr.Equal(clone))
}

func TestTracks_Bounds(t *testing.T) {
	tr, err := NewTracks([][]Point{
		{{0, 5, -1}, {2, -3, 4}},
		{{-1, 0, 0}, {1, 1, 1}},
	})
	assert.NoError(t, err)

	min, max := tr.Bounds()
	assert.Equal(t, Point{-1, -3, -1}, min)
	assert.Equal(t, Point{2, 5, 4}, max)
}

func TestNewAttributes_RejectsWrongWidth(t *testing.T) {
	_, err := NewAttributes([][][]float64{
		{{1, 2}, {3}},
	}, []string{"a", "b"})
	assert.Error(t, err)
}

func TestAttributes_CloneIsIndependent(t *testing.T) {
	at, err := NewAttributes([][][]float64{{{1, 2}}}, []string{"a", "b"})
	assert.NoError(t, err)

	clone := at.Clone()
	clone.Values[0][0][0] = 42
	assert.Equal(t, 1.0, at.Values[0][0][0])
}
