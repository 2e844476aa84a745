package shared

// Wire types shared by the prover CLI and the cosigner service.

// TxDetails carries the transaction fields bound into the approval
// signature. All three fields are opaque strings and are used verbatim.
type TxDetails struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
	Token  string `json:"token"`
}

// VerifyRequest is the body of POST /verify.
type VerifyRequest struct {
	Proof     string    `json:"proof"`      // hex-encoded serialized proof
	ProgramIO string    `json:"program_io"` // JSON-serialized ProgramIO
	Tx        TxDetails `json:"tx"`
	ModelHash string    `json:"model_hash"` // SHA256 of the model artifact used by the prover
}

// VerifyResponse is the body of the /verify response. Exactly one of
// (Signature, Nonce, Timestamp) or Reason is populated.
type VerifyResponse struct {
	Approved  bool   `json:"approved"`
	Signature string `json:"signature,omitempty"` // hex-encoded 65-byte signature
	Nonce     uint64 `json:"nonce,omitempty"`
	Timestamp uint64 `json:"timestamp,omitempty"` // seconds since epoch
	Reason    string `json:"reason,omitempty"`
}

// ProgramIO is the public input/output of a proven model execution. Values
// are fixed-point integers as produced by the quantized circuit run.
type ProgramIO struct {
	Input  []int64 `json:"input"`
	Output []int64 `json:"output"`
}

// ProverOutput is the single JSON line emitted by the prover CLI. Proof and
// ProgramIO are empty strings when the local pre-check denied the request.
type ProverOutput struct {
	Proof     string `json:"proof"`
	ProgramIO string `json:"program_io"`
	Decision  string `json:"decision"`
	ModelHash string `json:"model_hash"`
}
