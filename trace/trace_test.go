package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorder_DisabledIsNoOp(t *testing.T) {
	r := NewRecorder(false)
	r.Record(0, []float64{1, 2, 3})
	assert.Empty(t, r.Records)
}

func TestRecorder_EnabledAccumulatesRecords(t *testing.T) {
	r := NewRecorder(true)
	r.Record(0, []float64{1, 2})
	r.Record(1, []float64{0.5, 1.5})

	assert.Len(t, r.Records, 2)
	assert.Equal(t, 1, r.Records[1].Iteration)
	assert.Equal(t, []float64{0.5, 1.5}, r.Records[1].MeanPairwiseDist)
}

func TestRecorder_RecordCopiesSlice(t *testing.T) {
	r := NewRecorder(true)
	dist := []float64{1, 2, 3}
	r.Record(0, dist)
	dist[0] = 999

	assert.Equal(t, 1.0, r.Records[0].MeanPairwiseDist[0])
}

func TestRecorder_NilReceiverIsSafe(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Record(0, []float64{1})
	})
}
