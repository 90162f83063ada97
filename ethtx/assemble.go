package ethtx

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/skapa-xyz/chainsign/signing"
)

func uint64Field(name string, v *big.Int) (uint64, error) {
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s %s does not fit in 64 bits", ErrInvalidRequest, name, v)
	}
	return v.Uint64(), nil
}

// Transaction converts the request into an unsigned go-ethereum transaction
// for chainID. The same field rules as EncodeUnsigned apply.
func (r *TransactionRequest) Transaction(chainID uint64) (*types.Transaction, error) {
	if _, err := r.EncodeUnsigned(chainID); err != nil {
		return nil, err
	}
	txType, err := r.TxType()
	if err != nil {
		return nil, err
	}
	nonce, err := uint64Field("nonce", bigOrZero(r.Nonce))
	if err != nil {
		return nil, err
	}
	gas, err := uint64Field("gas", bigOrZero(r.Gas))
	if err != nil {
		return nil, err
	}
	chain := new(big.Int).SetUint64(chainID)

	switch txType {
	case types.DynamicFeeTxType:
		return types.NewTx(&types.DynamicFeeTx{
			ChainID:    chain,
			Nonce:      nonce,
			GasTipCap:  bigOrZero(r.MaxPriorityFeePerGas),
			GasFeeCap:  bigOrZero(r.MaxFeePerGas),
			Gas:        gas,
			To:         r.To,
			Value:      bigOrZero(r.Value),
			Data:       r.data(),
			AccessList: r.accessList(),
		}), nil
	case types.AccessListTxType:
		return types.NewTx(&types.AccessListTx{
			ChainID:    chain,
			Nonce:      nonce,
			GasPrice:   bigOrZero(r.GasPrice),
			Gas:        gas,
			To:         r.To,
			Value:      bigOrZero(r.Value),
			Data:       r.data(),
			AccessList: r.accessList(),
		}), nil
	default:
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: bigOrZero(r.GasPrice),
			Gas:      gas,
			To:       r.To,
			Value:    bigOrZero(r.Value),
			Data:     r.data(),
		}), nil
	}
}

// WithSignature attaches sig to the request and returns the signed
// transaction. Legacy transactions get an EIP-155 v.
func (r *TransactionRequest) WithSignature(chainID uint64, sig *signing.Signature) (*types.Transaction, error) {
	if len(sig.Bytes) != 64 || sig.RecoveryID > 1 {
		return nil, fmt.Errorf("%w: %d bytes, recovery id %d", signing.ErrInvalidSignature, len(sig.Bytes), sig.RecoveryID)
	}
	tx, err := r.Transaction(chainID)
	if err != nil {
		return nil, err
	}
	full := make([]byte, 65)
	copy(full, sig.Bytes)
	full[64] = byte(sig.RecoveryID)

	signed, err := tx.WithSignature(types.LatestSignerForChainID(new(big.Int).SetUint64(chainID)), full)
	if err != nil {
		return nil, fmt.Errorf("failed to attach signature: %w", err)
	}
	return signed, nil
}

// Sign hashes the request for chainID, signs it with signer and returns the
// signed transaction ready for eth_sendRawTransaction via MarshalBinary.
func (r *TransactionRequest) Sign(ctx context.Context, chainID uint64, signer signing.Signer) (*types.Transaction, error) {
	sig, err := signing.Sign(ctx, Unsigned{Request: r, ChainID: chainID}, signer)
	if err != nil {
		return nil, err
	}
	return r.WithSignature(chainID, sig)
}

// SignedTransaction attaches sig to req and returns the canonical network
// encoding of the signed transaction.
func SignedTransaction(req *TransactionRequest, chainID uint64, sig *signing.Signature) ([]byte, error) {
	tx, err := req.WithSignature(chainID, sig)
	if err != nil {
		return nil, err
	}
	raw, err := tx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("failed to encode signed transaction: %w", err)
	}
	return raw, nil
}
