package ethtx

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// TxType resolves the request's transaction type. Unset and 0 are legacy.
// Type bytes 0x80 to 0xfe cannot start a typed envelope and are treated as
// legacy as well.
func (r *TransactionRequest) TxType() (uint8, error) {
	if r.Type == nil {
		return types.LegacyTxType, nil
	}
	t := uint64(*r.Type)
	switch {
	case t == types.LegacyTxType, t == types.AccessListTxType, t == types.DynamicFeeTxType:
		return uint8(t), nil
	case t >= 0x80 && t < 0xff:
		return types.LegacyTxType, nil
	}
	return 0, fmt.Errorf("%w: %#x", ErrUnsupportedTransactionType, t)
}

// EncodeUnsigned returns the unsigned pre-image for chainID:
//
//	legacy:  rlp([nonce, gasPrice, gas, to, value, data, chainId, 0, 0])
//	type 1:  0x01 ‖ rlp([chainId, nonce, gasPrice, gas, to, value, data, accessList])
//	type 2:  0x02 ‖ rlp([chainId, nonce, maxPriorityFeePerGas, maxFeePerGas, gas, to, value, data, accessList])
func (r *TransactionRequest) EncodeUnsigned(chainID uint64) ([]byte, error) {
	if r.ChainID != nil {
		if c := (*big.Int)(r.ChainID); !c.IsUint64() || c.Uint64() != chainID {
			return nil, fmt.Errorf("%w: request has %s, signing for %d", ErrChainIDMismatch, c, chainID)
		}
	}
	txType, err := r.TxType()
	if err != nil {
		return nil, err
	}

	var to interface{} = []byte{}
	if r.To != nil {
		to = *r.To
	}

	var fields []interface{}
	switch txType {
	case types.DynamicFeeTxType:
		if r.GasPrice != nil {
			return nil, fmt.Errorf("%w: gasPrice on a dynamic fee transaction", ErrUnsupportedFieldCombination)
		}
		fields = []interface{}{
			chainID,
			bigOrZero(r.Nonce),
			bigOrZero(r.MaxPriorityFeePerGas),
			bigOrZero(r.MaxFeePerGas),
			bigOrZero(r.Gas),
			to,
			bigOrZero(r.Value),
			r.data(),
			r.accessList(),
		}
	case types.AccessListTxType:
		if r.MaxFeePerGas != nil || r.MaxPriorityFeePerGas != nil {
			return nil, fmt.Errorf("%w: fee market fields on an access list transaction", ErrUnsupportedFieldCombination)
		}
		fields = []interface{}{
			chainID,
			bigOrZero(r.Nonce),
			bigOrZero(r.GasPrice),
			bigOrZero(r.Gas),
			to,
			bigOrZero(r.Value),
			r.data(),
			r.accessList(),
		}
	default:
		if r.AccessList != nil {
			return nil, fmt.Errorf("%w: accessList on a legacy transaction", ErrUnsupportedFieldCombination)
		}
		if r.MaxFeePerGas != nil || r.MaxPriorityFeePerGas != nil {
			return nil, fmt.Errorf("%w: fee market fields on a legacy transaction", ErrUnsupportedFieldCombination)
		}
		fields = []interface{}{
			bigOrZero(r.Nonce),
			bigOrZero(r.GasPrice),
			bigOrZero(r.Gas),
			to,
			bigOrZero(r.Value),
			r.data(),
			chainID,
			uint(0),
			uint(0),
		}
	}

	enc, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode transaction: %w", err)
	}
	if txType == types.LegacyTxType {
		return enc, nil
	}
	return append([]byte{txType}, enc...), nil
}

// SigningHash returns keccak256 of the unsigned pre-image for chainID.
func (r *TransactionRequest) SigningHash(chainID uint64) (common.Hash, error) {
	enc, err := r.EncodeUnsigned(chainID)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(enc), nil
}

// Unsigned binds a request to the chain it will be signed for.
type Unsigned struct {
	Request *TransactionRequest
	ChainID uint64
}

// SigningHash returns the request's signing digest on u.ChainID.
func (u Unsigned) SigningHash() (common.Hash, error) {
	return u.Request.SigningHash(u.ChainID)
}
