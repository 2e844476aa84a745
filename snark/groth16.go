package snark

import (
	"bytes"
	"fmt"
	"os"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"

	"zkml-cosigner/features"
	"zkml-cosigner/model"
	"zkml-cosigner/shared"
)

// Groth16Prover proves quantized model executions under a proving key
// generated by the setup tool. The constraint system is recompiled from the
// model artifact at construction; the proving key must come from a setup
// run over the identical artifact.
type Groth16Prover struct {
	model *model.Model
	ccs   constraint.ConstraintSystem
	pk    groth16.ProvingKey
}

// NewGroth16Prover compiles the circuit for the model and loads the proving
// key from disk.
func NewGroth16Prover(m *model.Model, provingKeyPath string) (*Groth16Prover, error) {
	ccs, err := compileCircuit(m)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(provingKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read proving key %s: %w", provingKeyPath, err)
	}
	pk := groth16.NewProvingKey(ecc.BN254)
	if _, err := pk.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to decode proving key: %w", err)
	}

	return &Groth16Prover{model: m, ccs: ccs, pk: pk}, nil
}

// Prove runs the quantized forward pass, proves it, and returns the
// serialized proof together with the public I/O.
func (p *Groth16Prover) Prove(input []int64) ([]byte, shared.ProgramIO, error) {
	output, err := p.model.QuantizedForward(input)
	if err != nil {
		return nil, shared.ProgramIO{}, err
	}

	assignment := &authorizationCircuit{
		Input:  make([]frontend.Variable, features.VectorLength),
		Output: make([]frontend.Variable, len(output)),
	}
	for i, v := range input {
		assignment.Input[i] = v
	}
	for i, v := range output {
		assignment.Output[i] = v
	}

	witness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, shared.ProgramIO{}, fmt.Errorf("failed to build witness: %w", err)
	}

	proof, err := groth16.Prove(p.ccs, p.pk, witness)
	if err != nil {
		return nil, shared.ProgramIO{}, fmt.Errorf("failed to generate proof: %w", err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, shared.ProgramIO{}, fmt.Errorf("failed to serialize proof: %w", err)
	}

	return buf.Bytes(), shared.ProgramIO{Input: input, Output: output}, nil
}

// Groth16Verifier verifies proofs against a verifying key loaded once at
// startup. The key is the fixed preprocessing context: it is read-only
// after construction and safe to share across concurrent verifications.
type Groth16Verifier struct {
	vk      groth16.VerifyingKey
	outputs int
}

// NewGroth16Verifier loads the verifying key from disk. outputs is the
// model's class count, which fixes the circuit's public variable layout.
func NewGroth16Verifier(verifyingKeyPath string, outputs int) (*Groth16Verifier, error) {
	data, err := os.ReadFile(verifyingKeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read verifying key %s: %w", verifyingKeyPath, err)
	}
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if _, err := vk.ReadFrom(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to decode verifying key: %w", err)
	}
	return &Groth16Verifier{vk: vk, outputs: outputs}, nil
}

// DecodeProof deserializes proof bytes into a groth16 proof handle.
func (v *Groth16Verifier) DecodeProof(raw []byte) (Proof, error) {
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to deserialize proof: %w", err)
	}
	return proof, nil
}

// Verify checks the proof against the claimed public I/O.
func (v *Groth16Verifier) Verify(proof Proof, io shared.ProgramIO) error {
	g16Proof, ok := proof.(groth16.Proof)
	if !ok {
		return fmt.Errorf("proof handle is not a groth16 proof")
	}
	if len(io.Output) != v.outputs {
		return fmt.Errorf("program_io carries %d outputs, circuit expects %d", len(io.Output), v.outputs)
	}
	if len(io.Input) != features.VectorLength {
		return fmt.Errorf("program_io carries %d inputs, circuit expects %d", len(io.Input), features.VectorLength)
	}

	// Public witness holds only the claimed outputs; the input stays with
	// the prover.
	assignment := &authorizationCircuit{
		Input:  make([]frontend.Variable, features.VectorLength),
		Output: make([]frontend.Variable, len(io.Output)),
	}
	for i, out := range io.Output {
		assignment.Output[i] = out
	}

	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("failed to build public witness: %w", err)
	}

	if err := groth16.Verify(g16Proof, v.vk, publicWitness); err != nil {
		return fmt.Errorf("groth16 verification failed: %w", err)
	}
	return nil
}
