package signing

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// LegacyV returns the pre-EIP-155 v value for a recovery id.
func LegacyV(recoveryID uint64) uint64 {
	return recoveryID + 27
}

// EIP155V returns the replay-protected v value for a recovery id.
func EIP155V(recoveryID, chainID uint64) uint64 {
	return recoveryID + 35 + 2*chainID
}

// RecoveryIDFromV undoes LegacyV, or EIP155V when chainID is set. Raw
// recovery ids 0 and 1 pass through.
func RecoveryIDFromV(v uint64, chainID *uint64) (uint64, error) {
	var id uint64
	switch {
	case v <= 1:
		id = v
	case chainID != nil && v >= 35+2*(*chainID):
		id = v - 35 - 2*(*chainID)
	case v == 27 || v == 28:
		id = v - 27
	default:
		return 0, fmt.Errorf("%w: v = %d", ErrInvalidSignature, v)
	}
	if id > 1 {
		return 0, fmt.Errorf("%w: v = %d", ErrInvalidSignature, v)
	}
	return id, nil
}

// Recover returns the address that produced sig over hash.
func Recover(hash common.Hash, sig []byte, recoveryID uint64) (common.Address, error) {
	if len(sig) != 64 {
		return common.Address{}, fmt.Errorf("%w: need 64 bytes, got %d", ErrInvalidSignature, len(sig))
	}
	if recoveryID > 1 {
		return common.Address{}, fmt.Errorf("%w: recovery id %d", ErrInvalidSignature, recoveryID)
	}
	full := make([]byte, 65)
	copy(full, sig)
	full[64] = byte(recoveryID)

	pubKey, err := crypto.SigToPub(hash.Bytes(), full)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pubKey), nil
}

// Recover hashes h and returns the address that produced the signature.
func (s *Signature) Recover(h Hashable) (common.Address, error) {
	hash, err := h.SigningHash()
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to hash message: %w", err)
	}
	return Recover(hash, s.Bytes, s.RecoveryID)
}

// VerifySignature reports whether signature over h was made by expectedSigner.
func VerifySignature(signature *Signature, expectedSigner common.Address, h Hashable) (bool, error) {
	recovered, err := signature.Recover(h)
	if err != nil {
		return false, err
	}
	return recovered == expectedSigner, nil
}
