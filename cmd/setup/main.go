package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"zkml-cosigner/model"
	"zkml-cosigner/shared"
	"zkml-cosigner/snark"
)

// setup compiles the authorization circuit from the model artifact and
// writes the groth16 proving/verifying key pair into the models directory.
// Run once per model revision; the prover CLI and the cosigner service must
// load keys from the same run.
func main() {
	_ = godotenv.Load()

	logger, err := shared.NewLoggerFromEnv("setup")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	modelsDir := shared.GetEnvOrDefault("MODELS_DIR", "./models")
	modelPath := filepath.Join(modelsDir, "authorization_model.json")

	m, err := model.Load(modelPath)
	if err != nil {
		logger.Fatal("failed to load model artifact", zap.Error(err))
	}

	modelHash, err := model.Fingerprint(modelPath)
	if err != nil {
		logger.Fatal("failed to compute model hash", zap.Error(err))
	}
	logger.Info("generating keys", zap.String("model_sha256", modelHash))

	if err := snark.GenerateKeys(m, modelsDir); err != nil {
		logger.Fatal("key generation failed", zap.Error(err))
	}

	logger.Info("keys written",
		zap.String("proving_key", filepath.Join(modelsDir, snark.ProvingKeyFile)),
		zap.String("verifying_key", filepath.Join(modelsDir, snark.VerifyingKeyFile)))
}
