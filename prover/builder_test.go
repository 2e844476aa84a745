package prover

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"zkml-cosigner/features"
	"zkml-cosigner/model"
	"zkml-cosigner/shared"
	"zkml-cosigner/snark"
)

const testModelHash = "1111222233334444111122223333444411112222333344441111222233334444"

// fakeProver records whether proof generation ran and returns canned bytes.
type fakeProver struct {
	calls int
	err   error
}

func (f *fakeProver) Prove(input []int64) ([]byte, shared.ProgramIO, error) {
	f.calls++
	if f.err != nil {
		return nil, shared.ProgramIO{}, f.err
	}
	return []byte("proof"), shared.ProgramIO{Input: input, Output: []int64{100, 50}}, nil
}

// biasOnlyModel predicts purely from the biases; with an empty vocabulary
// the input vector is all zeros and the biases decide the class.
func biasOnlyModel(bias0, bias1 float64) *model.Model {
	weights := make([][]float64, 2)
	for class := range weights {
		weights[class] = make([]float64, features.VectorLength)
	}
	return &model.Model{Weights: weights, Bias: []float64{bias0, bias1}}
}

func newTestBuilder(t *testing.T, m *model.Model, engine *fakeProver, factoryErr error) *Builder {
	t.Helper()
	logger := &shared.Logger{Logger: zap.NewNop()}
	factory := func() (snark.Prover, error) {
		if factoryErr != nil {
			return nil, factoryErr
		}
		return engine, nil
	}
	return NewBuilder(m, features.Vocabulary{}, testModelHash, factory, logger)
}

func TestRunDeniedShortCircuits(t *testing.T) {
	engine := &fakeProver{}
	builder := newTestBuilder(t, biasOnlyModel(0.1, 0.9), engine, nil)

	out, err := builder.Run(features.Features{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out.Decision != model.DecisionDenied {
		t.Errorf("decision = %q, want %q", out.Decision, model.DecisionDenied)
	}
	if out.Proof != "" || out.ProgramIO != "" {
		t.Error("denied output must carry no proof and no program_io")
	}
	if out.ModelHash != testModelHash {
		t.Errorf("model hash = %q, want %q", out.ModelHash, testModelHash)
	}
	if engine.calls != 0 {
		t.Errorf("proof generation ran %d times despite denial", engine.calls)
	}
}

func TestRunAuthorizedGeneratesProof(t *testing.T) {
	engine := &fakeProver{}
	builder := newTestBuilder(t, biasOnlyModel(0.9, 0.1), engine, nil)

	out, err := builder.Run(features.Features{Budget: 10, Trust: 5})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out.Decision != model.DecisionAuthorized {
		t.Errorf("decision = %q, want %q", out.Decision, model.DecisionAuthorized)
	}
	if engine.calls != 1 {
		t.Errorf("proof generation ran %d times, want 1", engine.calls)
	}
	if out.Proof != hex.EncodeToString([]byte("proof")) {
		t.Errorf("proof = %q", out.Proof)
	}

	var programIO shared.ProgramIO
	if err := json.Unmarshal([]byte(out.ProgramIO), &programIO); err != nil {
		t.Fatalf("program_io is not valid JSON: %v", err)
	}
	if len(programIO.Input) != features.VectorLength {
		t.Errorf("program_io input length = %d, want %d", len(programIO.Input), features.VectorLength)
	}
	if len(programIO.Output) != 2 {
		t.Errorf("program_io output length = %d, want 2", len(programIO.Output))
	}
}

func TestRunValidationFailureStopsPipeline(t *testing.T) {
	engine := &fakeProver{}
	builder := newTestBuilder(t, biasOnlyModel(0.9, 0.1), engine, nil)

	_, err := builder.Run(features.Features{Category: features.MaxCategory + 1})
	var rangeErr *features.RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *features.RangeError, got %v", err)
	}
	if engine.calls != 0 {
		t.Error("proof generation must not run for invalid features")
	}
}

func TestRunProverFailures(t *testing.T) {
	t.Run("factory failure", func(t *testing.T) {
		builder := newTestBuilder(t, biasOnlyModel(0.9, 0.1), nil, errors.New("missing proving key"))
		if _, err := builder.Run(features.Features{}); err == nil {
			t.Error("expected error when prover cannot be initialized")
		}
	})

	t.Run("proving failure", func(t *testing.T) {
		engine := &fakeProver{err: errors.New("constraint unsatisfied")}
		builder := newTestBuilder(t, biasOnlyModel(0.9, 0.1), engine, nil)
		if _, err := builder.Run(features.Features{}); err == nil {
			t.Error("expected error when proof generation fails")
		}
	})
}
