package shared

import (
	"crypto/ecdsa"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Approval signing: the cosigner's ECDSA identity and the canonical
// preimage it signs. Signatures are Ethereum-style secp256k1 over a
// Keccak-256 digest, so on-chain contracts can recover the signer address.

// ApprovalSigner holds the cosigner's exclusively-owned signing key. The
// key is loaded once at startup and never serialized or logged.
type ApprovalSigner struct {
	privateKey *ecdsa.PrivateKey
}

// LoadApprovalSigner parses a hex-encoded secp256k1 private key.
func LoadApprovalSigner(hexKey string) (*ApprovalSigner, error) {
	privateKey, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid secp256k1 private key: %w", err)
	}
	return &ApprovalSigner{privateKey: privateKey}, nil
}

// GenerateApprovalSigner generates a fresh secp256k1 key pair.
func GenerateApprovalSigner() (*ApprovalSigner, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ECDSA key pair: %w", err)
	}
	return &ApprovalSigner{privateKey: privateKey}, nil
}

// Address returns the Ethereum address corresponding to the signing key.
func (s *ApprovalSigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.privateKey.PublicKey)
}

// ApprovalPreimage builds the canonical signing preimage:
// to || amount || token || nonce (8 bytes BE) || timestamp (8 bytes BE).
// Byte order matters; the verifying contract reconstructs this exactly.
func ApprovalPreimage(tx TxDetails, nonce, timestamp uint64) []byte {
	msg := make([]byte, 0, len(tx.To)+len(tx.Amount)+len(tx.Token)+16)
	msg = append(msg, tx.To...)
	msg = append(msg, tx.Amount...)
	msg = append(msg, tx.Token...)
	msg = binary.BigEndian.AppendUint64(msg, nonce)
	msg = binary.BigEndian.AppendUint64(msg, timestamp)
	return msg
}

// ApprovalDigest returns the Keccak-256 digest of the approval preimage.
func ApprovalDigest(tx TxDetails, nonce, timestamp uint64) [32]byte {
	return Keccak256(ApprovalPreimage(tx, nonce, timestamp))
}

// SignApproval signs the approval digest and returns the hex-encoded
// 65-byte compact signature (r || s || v).
func (s *ApprovalSigner) SignApproval(tx TxDetails, nonce, timestamp uint64) (string, error) {
	digest := ApprovalDigest(tx, nonce, timestamp)
	signature, err := crypto.Sign(digest[:], s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign approval: %w", err)
	}
	return hex.EncodeToString(signature), nil
}

// VerifyApproval checks a hex-encoded approval signature by recovering the
// signer address and comparing it with the expected address.
func VerifyApproval(tx TxDetails, nonce, timestamp uint64, sigHex string, expectedAddress common.Address) error {
	signature, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("invalid signature hex: %w", err)
	}
	if len(signature) != 65 {
		return fmt.Errorf("invalid signature length: expected 65 bytes, got %d", len(signature))
	}

	digest := ApprovalDigest(tx, nonce, timestamp)
	recoveredPubKey, err := crypto.SigToPub(digest[:], signature)
	if err != nil {
		return fmt.Errorf("failed to recover public key from signature: %w", err)
	}

	recoveredAddress := crypto.PubkeyToAddress(*recoveredPubKey)
	if recoveredAddress != expectedAddress {
		return fmt.Errorf("signature verification failed: expected address %s, got %s",
			expectedAddress.Hex(), recoveredAddress.Hex())
	}
	return nil
}
