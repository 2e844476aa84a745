// Package model loads the authorization model artifact and runs the local
// (unproven) forward pass used by the prover's pre-check. The quantized
// integer pass mirrors the in-circuit computation and produces the public
// output values carried in ProgramIO.
package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"zkml-cosigner/features"
)

// Model is a single dense layer over the one-hot input vector: one row of
// weights plus a bias per output class. Class 0 is AUTHORIZED.
type Model struct {
	Weights [][]float64 `json:"weights"` // [classes][VectorLength]
	Bias    []float64   `json:"bias"`    // [classes]
}

// Load reads and shape-checks the model artifact.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}

	if len(m.Weights) == 0 || len(m.Weights) != len(m.Bias) {
		return nil, fmt.Errorf("model artifact shape mismatch: %d weight rows, %d biases",
			len(m.Weights), len(m.Bias))
	}
	for class, row := range m.Weights {
		if len(row) != features.VectorLength {
			return nil, fmt.Errorf("model weight row %d has %d columns, expected %d",
				class, len(row), features.VectorLength)
		}
	}
	return &m, nil
}

// Classes returns the number of output classes.
func (m *Model) Classes() int {
	return len(m.Bias)
}

// Forward runs the floating-point forward pass on a fixed-point input
// vector. This is the external-engine evaluation used by the prover's
// local pre-check; it is never proven.
func (m *Model) Forward(input []int64) ([]float64, error) {
	if len(input) != features.VectorLength {
		return nil, fmt.Errorf("input vector has %d elements, expected %d",
			len(input), features.VectorLength)
	}

	scale := float64(int64(1) << features.FixedPointScale)
	scores := make([]float64, len(m.Bias))
	for class := range m.Bias {
		sum := m.Bias[class]
		for i, w := range m.Weights[class] {
			sum += w * (float64(input[i]) / scale)
		}
		scores[class] = sum
	}
	return scores, nil
}

// QuantizedWeights returns the weights and biases as fixed-point integers.
// Weights carry FixedPointScale fractional bits; biases carry twice that,
// so a weight-input product and a bias share the same scale.
func (m *Model) QuantizedWeights() ([][]int64, []int64) {
	weights := make([][]int64, len(m.Weights))
	for class, row := range m.Weights {
		qRow := make([]int64, len(row))
		for i, w := range row {
			qRow[i] = int64(math.Round(w * float64(int64(1)<<features.FixedPointScale)))
		}
		weights[class] = qRow
	}

	bias := make([]int64, len(m.Bias))
	for class, b := range m.Bias {
		bias[class] = int64(math.Round(b * float64(int64(1)<<(2*features.FixedPointScale))))
	}
	return weights, bias
}

// QuantizedForward runs the integer forward pass that the circuit proves.
// Outputs are fixed-point values at scale 2*FixedPointScale.
func (m *Model) QuantizedForward(input []int64) ([]int64, error) {
	if len(input) != features.VectorLength {
		return nil, fmt.Errorf("input vector has %d elements, expected %d",
			len(input), features.VectorLength)
	}

	weights, bias := m.QuantizedWeights()
	out := make([]int64, len(bias))
	for class := range bias {
		sum := bias[class]
		for i, w := range weights[class] {
			sum += w * input[i]
		}
		out[class] = sum
	}
	return out, nil
}
