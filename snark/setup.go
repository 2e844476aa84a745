package snark

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/consensys/gnark/backend/groth16"

	"zkml-cosigner/model"
)

// Key file names written by GenerateKeys and loaded by the prover CLI and
// the cosigner service. Both sides must load keys produced by one setup run
// over the same model artifact, or verification will fail.
const (
	ProvingKeyFile   = "authorization.pk"
	VerifyingKeyFile = "authorization.vk"
)

// GenerateKeys compiles the circuit for the model, runs the groth16 setup,
// and writes the proving and verifying keys into dir.
func GenerateKeys(m *model.Model, dir string) error {
	ccs, err := compileCircuit(m)
	if err != nil {
		return err
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return fmt.Errorf("groth16 setup failed: %w", err)
	}

	if err := writeKey(filepath.Join(dir, ProvingKeyFile), pk); err != nil {
		return err
	}
	return writeKey(filepath.Join(dir, VerifyingKeyFile), vk)
}

func writeKey(path string, key io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := key.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
