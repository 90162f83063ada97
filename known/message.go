package known

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/skapa-xyz/chainsign/eip712"
	"github.com/skapa-xyz/chainsign/ethtx"
	"github.com/skapa-xyz/chainsign/signing"
)

// Message is a decoded message. Exactly one of Personal and TypedData is set.
type Message struct {
	CoinType  CoinType
	ChainID   uint64
	Personal  signing.PersonalMessage
	TypedData *eip712.Document

	logger zerolog.Logger
}

// SigningHash returns the digest to sign.
func (m *Message) SigningHash() (common.Hash, error) {
	if m.TypedData != nil {
		return m.TypedData.SigningHash()
	}
	return m.Personal.SigningHash()
}

// MetaTransaction describes typed data that authorises an on-chain action.
// It reports false for personal messages and unrecognised documents.
func (m *Message) MetaTransaction() (ethtx.Info, bool) {
	if m.TypedData == nil {
		return nil, false
	}
	return metaTransaction(m.logger, m.TypedData)
}

// TransactionRequest is a decoded transaction request bound to a chain.
type TransactionRequest struct {
	CoinType CoinType
	ChainID  uint64
	Ethereum *ethtx.TransactionRequest
}

// SigningHash returns the transaction pre-image hash for ChainID.
func (t *TransactionRequest) SigningHash() (common.Hash, error) {
	return t.Ethereum.SigningHash(t.ChainID)
}

// Info returns a best-effort description of the transaction.
func (t *TransactionRequest) Info() ethtx.Info {
	return ethtx.Describe(t.Ethereum)
}
