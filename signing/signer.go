// Package signing runs the hash, sign and recover steps around an injected
// signer. Key custody stays with the caller: anything implementing Signer
// can sign, and KeySigner is only a local convenience.
package signing

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hashable produces the 32-byte digest handed to a signer.
type Hashable interface {
	SigningHash() (common.Hash, error)
}

// HashFunc adapts a function to Hashable.
type HashFunc func() (common.Hash, error)

// SigningHash calls f.
func (f HashFunc) SigningHash() (common.Hash, error) { return f() }

// Signer signs a digest and returns the 64-byte r ‖ s signature with its
// recovery id.
type Signer interface {
	SignDigest(ctx context.Context, digest []byte) ([]byte, uint64, error)
}

// SignerFunc adapts a function to Signer.
type SignerFunc func(ctx context.Context, digest []byte) ([]byte, uint64, error)

// SignDigest calls f.
func (f SignerFunc) SignDigest(ctx context.Context, digest []byte) ([]byte, uint64, error) {
	return f(ctx, digest)
}

// Signature is a signer's output: r ‖ s and the recovery id.
type Signature struct {
	Bytes      hexutil.Bytes `json:"signature"`
	RecoveryID uint64        `json:"recoveryId"`
}

// R returns the first 32 bytes of the signature.
func (s *Signature) R() []byte {
	if len(s.Bytes) < 32 {
		return nil
	}
	return s.Bytes[:32]
}

// S returns bytes 32 to 64 of the signature.
func (s *Signature) S() []byte {
	if len(s.Bytes) < 64 {
		return nil
	}
	return s.Bytes[32:64]
}

// Bytes65 returns r ‖ s ‖ v with v = 27 + recovery id, the layout
// personal_sign and eth_signTypedData return.
func (s *Signature) Bytes65() []byte {
	out := make([]byte, 65)
	copy(out, s.Bytes)
	out[64] = byte(LegacyV(s.RecoveryID))
	return out
}
