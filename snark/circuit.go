package snark

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"zkml-cosigner/features"
	"zkml-cosigner/model"
)

// authorizationCircuit proves one dense-layer evaluation of the quantized
// authorization model: for every class, Output equals the integer dot
// product of the secret input with that class's baked-in weights plus its
// bias. The input stays private; only the class scores are public.
type authorizationCircuit struct {
	Input  []frontend.Variable `gnark:",secret"`
	Output []frontend.Variable `gnark:",public"`

	// Quantized model parameters, baked into the constraint system at
	// compile time. Unexported so the witness builder ignores them.
	weights [][]int64
	bias    []int64
}

func newCircuitTemplate(m *model.Model) *authorizationCircuit {
	weights, bias := m.QuantizedWeights()
	return &authorizationCircuit{
		Input:   make([]frontend.Variable, features.VectorLength),
		Output:  make([]frontend.Variable, len(bias)),
		weights: weights,
		bias:    bias,
	}
}

func (c *authorizationCircuit) Define(api frontend.API) error {
	if len(c.weights) != len(c.Output) || len(c.bias) != len(c.Output) {
		return fmt.Errorf("circuit parameter shape mismatch")
	}
	for class := range c.Output {
		acc := frontend.Variable(c.bias[class])
		for i := range c.Input {
			acc = api.Add(acc, api.Mul(c.Input[i], c.weights[class][i]))
		}
		api.AssertIsEqual(c.Output[class], acc)
	}
	return nil
}

// compileCircuit builds the R1CS for the given model. Compilation is
// deterministic in the model parameters, so prover and cosigner derive the
// same constraint system from identical artifacts.
func compileCircuit(m *model.Model) (constraint.ConstraintSystem, error) {
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, newCircuitTemplate(m))
	if err != nil {
		return nil, fmt.Errorf("failed to compile authorization circuit: %w", err)
	}
	return ccs, nil
}
