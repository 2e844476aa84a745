// Package prover builds authorization proof requests: feature validation,
// one-hot encoding, a local unproven pre-check, and — only for predicted
// approvals — proof generation.
package prover

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zkml-cosigner/features"
	"zkml-cosigner/model"
	"zkml-cosigner/shared"
	"zkml-cosigner/snark"
)

// ProverFactory defers construction of the proving engine. Key loading and
// circuit compilation are expensive, so the factory runs only after the
// local pre-check predicts authorization.
type ProverFactory func() (snark.Prover, error)

// Builder orchestrates the prover-side pipeline.
type Builder struct {
	model     *model.Model
	vocab     features.Vocabulary
	modelHash string
	proverFn  ProverFactory
	logger    *shared.Logger
}

func NewBuilder(m *model.Model, vocab features.Vocabulary, modelHash string, proverFn ProverFactory, logger *shared.Logger) *Builder {
	return &Builder{
		model:     m,
		vocab:     vocab,
		modelHash: modelHash,
		proverFn:  proverFn,
		logger:    logger,
	}
}

// Run validates and encodes the features, runs the local model evaluation,
// and either short-circuits with a DENIED record (no proof, no public I/O)
// or generates a proof and returns the full output record. The DENIED
// record still carries the model hash so callers can distinguish a model
// denial from a system failure.
func (b *Builder) Run(f features.Features) (shared.ProverOutput, error) {
	if err := f.Validate(); err != nil {
		return shared.ProverOutput{}, err
	}

	input := f.Encode(b.vocab)

	// Local pre-check on the floating-point forward pass. This evaluation
	// is unproven; it exists purely to avoid paying for a proof the
	// cosigner would reject anyway.
	scores, err := b.model.Forward(input)
	if err != nil {
		return shared.ProverOutput{}, err
	}
	predicted, err := model.ArgmaxFloats(scores)
	if err != nil {
		return shared.ProverOutput{}, err
	}

	decision := model.Decision(predicted)
	if decision == model.DecisionDenied {
		b.logger.Info("local pre-check denied request, skipping proof generation",
			zap.Int("predicted_class", predicted))
		return shared.ProverOutput{
			Proof:     "",
			ProgramIO: "",
			Decision:  model.DecisionDenied,
			ModelHash: b.modelHash,
		}, nil
	}

	engine, err := b.proverFn()
	if err != nil {
		return shared.ProverOutput{}, fmt.Errorf("failed to initialize prover: %w", err)
	}

	b.logger.Info("generating proof")
	start := time.Now()
	proofBytes, programIO, err := engine.Prove(input)
	if err != nil {
		return shared.ProverOutput{}, fmt.Errorf("proof generation failed: %w", err)
	}
	b.logger.Info("proof generated", zap.Duration("elapsed", time.Since(start)))

	programIOJSON, err := json.Marshal(programIO)
	if err != nil {
		return shared.ProverOutput{}, fmt.Errorf("failed to serialize program_io: %w", err)
	}

	return shared.ProverOutput{
		Proof:     hex.EncodeToString(proofBytes),
		ProgramIO: string(programIOJSON),
		Decision:  model.DecisionAuthorized,
		ModelHash: b.modelHash,
	}, nil
}
