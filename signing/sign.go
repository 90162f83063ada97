package signing

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
)

// Sign hashes h and hands the digest to signer. The signer's output is
// returned unchanged. Failures are wrapped in a *SignError naming the stage.
//
// Diagnostics go to the logger carried by ctx, if any.
func Sign(ctx context.Context, h Hashable, signer Signer) (*Signature, error) {
	logger := zerolog.Ctx(ctx)

	hash, err := h.SigningHash()
	if err != nil {
		logger.Debug().Err(err).Msg("failed to hash message")
		return nil, &SignError{Stage: StageHash, Err: err}
	}

	sig, recoveryID, err := signer.SignDigest(ctx, hash.Bytes())
	if err != nil {
		logger.Debug().Err(err).Str("hash", hash.Hex()).Msg("signer failed")
		return nil, &SignError{Stage: StageSign, Err: err}
	}

	logger.Debug().Str("hash", hash.Hex()).Uint64("recovery_id", recoveryID).Msg("signed digest")
	return &Signature{Bytes: sig, RecoveryID: recoveryID}, nil
}

// PersonalMessage is a plain message signed with the
// "\x19Ethereum Signed Message:\n" + len prefix.
type PersonalMessage []byte

// SigningHash returns keccak256 of the prefixed message.
func (m PersonalMessage) SigningHash() (common.Hash, error) {
	return PersonalMessageHash(m), nil
}

// PersonalMessageHash returns the personal_sign digest of msg.
func PersonalMessageHash(msg []byte) common.Hash {
	return common.BytesToHash(accounts.TextHash(msg))
}
