// Package serialize writes a trajectory dataset to the JSON artifact the
// downstream visualization tool consumes. It knows nothing about
// bundling or clustering: a bundled tensor is just another named State of
// the same dataset.
package serialize

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/trackbundle/trackbundle/tensor"
)

// State is one named variant of the trajectory tensor attached to a
// Dataset, e.g. "original" or "bundled".
type State struct {
	Name   string        `json:"name"`
	Tracks [][][]float64 `json:"tracks"`
}

// Dataset is the top-level JSON document: attribute tensor and names,
// plus every recorded state of the trajectory tensor.
type Dataset struct {
	AttributeNames []string      `json:"attributeNames"`
	Attributes     [][][]float64 `json:"attributes"`
	States         []State       `json:"states"`
}

// NewDataset builds a Dataset with a single initial state.
func NewDataset(stateName string, tracks *tensor.Tracks, attributes *tensor.Attributes) *Dataset {
	return &Dataset{
		AttributeNames: append([]string{}, attributes.Names...),
		Attributes:     attributes.Values,
		States:         []State{{Name: stateName, Tracks: pointsToJSON(tracks)}},
	}
}

// AddState appends another named variant of the trajectory tensor, e.g.
// the bundler's output, to the dataset.
func (d *Dataset) AddState(name string, tracks *tensor.Tracks) {
	d.States = append(d.States, State{Name: name, Tracks: pointsToJSON(tracks)})
}

func pointsToJSON(tracks *tensor.Tracks) [][][]float64 {
	out := make([][][]float64, tracks.T)
	for t, row := range tracks.Points {
		out[t] = make([][]float64, len(row))
		for i, p := range row {
			out[t][i] = []float64{p[0], p[1], p[2]}
		}
	}
	return out
}

// WriteFile marshals the dataset as indented JSON and writes it to path.
func WriteFile(path string, d *Dataset) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write dataset file %s: %w", path, err)
	}
	return nil
}
