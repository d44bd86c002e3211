package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trackbundle/trackbundle/tensor"
)

func straightLine(l int) *tensor.Tracks {
	row := make([]tensor.Point, l)
	for i := 0; i < l; i++ {
		row[i] = tensor.Point{float64(i), 0, 0}
	}
	tr, _ := tensor.NewTracks([][]tensor.Point{row})
	return tr
}

func emptyAttrs(t, l int) *tensor.Attributes {
	values := make([][][]float64, t)
	for i := range values {
		values[i] = make([][]float64, l)
		for j := range values[i] {
			values[i][j] = []float64{}
		}
	}
	at, _ := tensor.NewAttributes(values, []string{})
	return at
}

func TestAddRadius_MatchesEuclideanDistance(t *testing.T) {
	tr := straightLine(4)
	at := emptyAttrs(1, 4)

	out := AddRadius(tr, at)
	assert.Equal(t, []string{"Radius"}, out.Names)
	for i := 0; i < 4; i++ {
		assert.InDelta(t, float64(i), out.Values[0][i][0], 1e-9)
	}
}

func TestAddTime_MatchesPositionIndex(t *testing.T) {
	tr := straightLine(5)
	at := emptyAttrs(1, 5)

	out := AddTime(tr, at)
	for i := 0; i < 5; i++ {
		assert.Equal(t, float64(i), out.Values[0][i][0])
	}
}

func TestAddAngleToStart_FinalIndexLeftZero(t *testing.T) {
	tr := straightLine(6)
	at := emptyAttrs(1, 6)

	out := AddAngleToStart(tr, at)
	assert.Equal(t, 0.0, out.Values[0][5][0])
}

func TestAddAngleToStart_StraightLineIsMaximallySimilar(t *testing.T) {
	// refIdx = int(0.05*L) must land past index 0 for the reference
	// direction to be non-degenerate.
	tr := straightLine(100)
	at := emptyAttrs(1, 100)

	out := AddAngleToStart(tr, at)
	for i := 0; i < 99; i++ {
		assert.InDelta(t, 1.0, out.Values[0][i][0], 1e-9)
	}
}

func TestTranslate_ShiftsEveryPoint(t *testing.T) {
	tr := straightLine(3)
	Translate(tr, 10, 20, 30)
	assert.Equal(t, tensor.Point{10, 20, 30}, tr.Points[0][0])
	assert.Equal(t, tensor.Point{12, 20, 30}, tr.Points[0][2])
}

func TestScale_MultipliesEveryCoordinate(t *testing.T) {
	tr := straightLine(3)
	Scale(tr, 2)
	assert.Equal(t, tensor.Point{0, 0, 0}, tr.Points[0][0])
	assert.Equal(t, tensor.Point{4, 0, 0}, tr.Points[0][2])
}

func TestBarycenter_IsMeanOfAllPoints(t *testing.T) {
	rows := [][]tensor.Point{
		{{0, 0, 0}, {2, 0, 0}},
		{{0, 4, 0}, {0, 0, 0}},
	}
	tr, _ := tensor.NewTracks(rows)
	center := Barycenter(tr)
	assert.InDelta(t, 0.5, center[0], 1e-9)
	assert.InDelta(t, 1.0, center[1], 1e-9)
	assert.InDelta(t, 0.0, center[2], 1e-9)
}
