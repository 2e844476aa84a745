package model

import "errors"

// ErrEmptyOutput is returned when a model output sequence has no elements.
var ErrEmptyOutput = errors.New("empty model output")

// Decision policy: the class index the model predicts maps to a decision
// string. Index 0 is AUTHORIZED; every other index is DENIED.
const (
	DecisionAuthorized = "AUTHORIZED"
	DecisionDenied     = "DENIED"
)

// Decision maps a predicted class index to its decision string.
func Decision(classIndex int) string {
	if classIndex == 0 {
		return DecisionAuthorized
	}
	return DecisionDenied
}

// ArgmaxFloats returns the index of the maximum value. Ties break to the
// first occurrence.
func ArgmaxFloats(values []float64) (int, error) {
	if len(values) == 0 {
		return 0, ErrEmptyOutput
	}
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best, nil
}

// ArgmaxInts returns the index of the maximum value. Ties break to the
// first occurrence. Used on the cosigner side, where outputs are
// fixed-point integers.
func ArgmaxInts(values []int64) (int, error) {
	if len(values) == 0 {
		return 0, ErrEmptyOutput
	}
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best, nil
}
