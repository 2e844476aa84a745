// Package snark defines the capability interfaces through which the rest of
// the system consumes the proving engine, plus a groth16 implementation.
// Core pipeline correctness is specified against these interfaces, not the
// concrete backend; tests substitute fakes that can be forced to succeed or
// fail.
package snark

import "zkml-cosigner/shared"

// Proof is an opaque handle to a decoded proof. Only the Verifier that
// produced it can interpret it.
type Proof interface{}

// Prover generates a proof that the quantized model run on the given input
// produced the returned public I/O. The proof is returned in its compact
// serialized byte encoding.
type Prover interface {
	Prove(input []int64) ([]byte, shared.ProgramIO, error)
}

// Verifier decodes and cryptographically verifies proofs against the fixed
// preprocessing context it was constructed with. DecodeProof fails on
// structurally malformed bytes; Verify fails on any structural or
// cryptographic mismatch between proof and public I/O.
type Verifier interface {
	DecodeProof(raw []byte) (Proof, error)
	Verify(proof Proof, io shared.ProgramIO) error
}
