package main

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"zkml-cosigner/shared"
	"zkml-cosigner/snark"
)

type CosignerConfig struct {
	Port             int
	ModelPath        string
	VerifyingKeyPath string
	NonceStatePath   string
	PrivateKeyHex    string
}

func LoadCosignerConfig() *CosignerConfig {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	modelsDir := shared.GetEnvOrDefault("MODELS_DIR", "./models")

	return &CosignerConfig{
		Port:             shared.GetEnvIntOrDefault("PORT", 3001),
		ModelPath:        filepath.Join(modelsDir, "authorization_model.json"),
		VerifyingKeyPath: filepath.Join(modelsDir, snark.VerifyingKeyFile),
		NonceStatePath:   shared.GetEnvOrDefault("NONCE_STATE_PATH", "./nonce_state.json"),
		PrivateKeyHex:    os.Getenv("COSIGNER_PRIVATE_KEY"),
	}
}
