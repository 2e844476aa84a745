package model

import "zkml-cosigner/shared"

// Fingerprint computes the SHA-256 content hash of the model artifact,
// returned as a hex string. The prover and cosigner each compute this over
// their own copy of the artifact; exact string equality pins both sides to
// the same model revision.
func Fingerprint(path string) (string, error) {
	return shared.Sha256File(path)
}
