package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"zkml-cosigner/features"
	"zkml-cosigner/model"
	"zkml-cosigner/prover"
	"zkml-cosigner/shared"
	"zkml-cosigner/snark"
)

// The prover CLI takes the feature record as a single JSON argument and
// prints one ProverOutput JSON line on stdout. Logs go to stderr via zap so
// the output line stays machine-readable.
func main() {
	_ = godotenv.Load()

	logger, err := shared.NewLoggerFromEnv("prover")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) < 2 {
		logger.Error("usage: prover '<json features>'")
		os.Exit(1)
	}

	var f features.Features
	if err := json.Unmarshal([]byte(os.Args[1]), &f); err != nil {
		logger.Fatal("invalid features JSON", zap.Error(err))
	}

	modelsDir := shared.GetEnvOrDefault("MODELS_DIR", "./models")
	modelPath := filepath.Join(modelsDir, "authorization_model.json")
	vocabPath := filepath.Join(modelsDir, "vocab.json")
	provingKeyPath := filepath.Join(modelsDir, snark.ProvingKeyFile)

	modelHash, err := model.Fingerprint(modelPath)
	if err != nil {
		logger.Fatal("failed to compute model hash", zap.Error(err))
	}

	m, err := model.Load(modelPath)
	if err != nil {
		logger.Fatal("failed to load model artifact", zap.Error(err))
	}

	vocab, err := features.LoadVocabulary(vocabPath)
	if err != nil {
		logger.Fatal("failed to load vocabulary", zap.Error(err))
	}

	builder := prover.NewBuilder(m, vocab, modelHash, func() (snark.Prover, error) {
		return snark.NewGroth16Prover(m, provingKeyPath)
	}, logger)

	out, err := builder.Run(f)
	if err != nil {
		logger.Fatal("prover run failed", zap.Error(err))
	}

	line, err := json.Marshal(out)
	if err != nil {
		logger.Fatal("failed to encode output", zap.Error(err))
	}
	fmt.Println(string(line))
}
