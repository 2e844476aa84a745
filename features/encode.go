package features

import "fmt"

const (
	// VectorLength is the model's input width.
	VectorLength = 64

	// FixedPointScale is the fixed-point fractional bit count; 1.0 is
	// represented as 1 << FixedPointScale.
	FixedPointScale = 7

	// FixedPointOne is the activation written at each one-hot position.
	FixedPointOne = 1 << FixedPointScale
)

// Encode builds the one-hot fixed-point input vector for the model. For
// each feature the lookup key "{name}_{value}" is composed; a key present
// in the vocabulary with an in-bounds index sets that position to
// FixedPointOne. A missing key contributes no activation and is not an
// error; range validation is a separate, earlier step (Validate).
func (f Features) Encode(vocab Vocabulary) []int64 {
	vec := make([]int64, VectorLength)
	for _, c := range f.named() {
		key := fmt.Sprintf("%s_%d", c.name, c.value)
		if index, ok := vocab[key]; ok && index >= 0 && index < VectorLength {
			vec[index] = FixedPointOne
		}
	}
	return vec
}
