// Package cosigner implements the proof-gated co-signing pipeline: a
// strictly ordered sequence of gates that ends either in a rejection or in
// a signed approval bound to a fresh nonce and timestamp.
package cosigner

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"zkml-cosigner/model"
	"zkml-cosigner/nonce"
	"zkml-cosigner/shared"
	"zkml-cosigner/snark"
)

// Cosigner holds the process-wide verification state: the fixed
// preprocessing context (inside the verifier), the signing key, the
// authoritative model hash, and the nonce ledger. Everything but the ledger
// is read-only after startup and shared across concurrent requests without
// locking; the ledger serializes internally.
type Cosigner struct {
	verifier  snark.Verifier
	signer    *shared.ApprovalSigner
	ledger    *nonce.Ledger
	modelHash string
	logger    *shared.Logger
	now       func() time.Time
}

func New(verifier snark.Verifier, signer *shared.ApprovalSigner, ledger *nonce.Ledger, modelHash string, logger *shared.Logger) *Cosigner {
	return &Cosigner{
		verifier:  verifier,
		signer:    signer,
		ledger:    ledger,
		modelHash: modelHash,
		logger:    logger,
		now:       time.Now,
	}
}

// ModelHash returns the authoritative model hash pinned at startup.
func (c *Cosigner) ModelHash() string {
	return c.modelHash
}

func reject(status int, reason string) (shared.VerifyResponse, int) {
	return shared.VerifyResponse{Approved: false, Reason: reason}, status
}

// Verify runs the verification pipeline on one request. Gates run in cost
// order: cheap syntactic checks, then the policy check on the claimed
// output, then cryptographic verification, and only then the stateful
// nonce issuance and signing. Each gate is terminal on failure; none is
// retried or skipped. The returned int is the HTTP status classification:
// 400 for malformed input, 403 for policy denials, 200 on approval.
func (c *Cosigner) Verify(req *shared.VerifyRequest) (shared.VerifyResponse, int) {
	// 1. ModelCheck: a proof generated against a different model revision
	// would be evaluated under the wrong preprocessing context, so mismatch
	// fails before any proof work.
	if req.ModelHash != c.modelHash {
		c.logger.Security("model hash mismatch", zap.String("prover_hash", req.ModelHash))
		return reject(http.StatusBadRequest, fmt.Sprintf(
			"model hash mismatch: prover=%s, cosigner=%s", req.ModelHash, c.modelHash))
	}

	// 2. ProofDecode
	proofBytes, err := hex.DecodeString(req.Proof)
	if err != nil {
		return reject(http.StatusBadRequest, fmt.Sprintf("invalid proof hex: %v", err))
	}
	proof, err := c.verifier.DecodeProof(proofBytes)
	if err != nil {
		return reject(http.StatusBadRequest, fmt.Sprintf("failed to deserialize proof: %v", err))
	}

	// 3. IOComposition
	var programIO shared.ProgramIO
	if err := json.Unmarshal([]byte(req.ProgramIO), &programIO); err != nil {
		return reject(http.StatusBadRequest, fmt.Sprintf("failed to deserialize program_io: %v", err))
	}

	// 4. OutputPolicyCheck: a proof can be cryptographically valid yet
	// attest to a DENIED decision; the claimed output is inspected here,
	// before the expensive verification step, and such requests never reach
	// signing.
	predicted, err := model.ArgmaxInts(programIO.Output)
	if err != nil {
		return reject(http.StatusForbidden, "empty model output")
	}
	if predicted != 0 {
		return reject(http.StatusForbidden, "model output is DENIED (class != 0)")
	}

	// 5. CryptographicVerification: the only step whose cost scales with
	// the proof, gated behind all cheaper checks.
	verifyStart := c.now()
	if err := c.verifier.Verify(proof, programIO); err != nil {
		return reject(http.StatusForbidden, fmt.Sprintf("proof verification failed: %v", err))
	}
	c.logger.WithCryptoOp("proof_verify").Info("proof verified",
		zap.Duration("elapsed", c.now().Sub(verifyStart)))

	// 6. NonceIssuance. The ledger locks internally; verification above
	// runs outside any lock so concurrent requests are not serialized on
	// the slow step.
	issuedNonce := c.ledger.IssueNext()

	// 7. Signing. The timestamp lets the consuming contract expire stale
	// approvals.
	timestamp := uint64(c.now().Unix())
	signature, err := c.signer.SignApproval(req.Tx, issuedNonce, timestamp)
	if err != nil {
		// The key was validated at startup, so this indicates process-level
		// failure, not caller error.
		c.logger.Critical("approval signing failed", zap.Error(err))
		return reject(http.StatusInternalServerError, "signing failed")
	}

	// 8. Approved.
	return shared.VerifyResponse{
		Approved:  true,
		Signature: signature,
		Nonce:     issuedNonce,
		Timestamp: timestamp,
	}, http.StatusOK
}
