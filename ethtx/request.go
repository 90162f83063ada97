// Package ethtx builds unsigned Ethereum transaction pre-images for the
// legacy, access-list (EIP-2930) and dynamic-fee (EIP-1559) shapes.
package ethtx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	// ErrUnsupportedFieldCombination is returned when a request sets fields its transaction type does not allow.
	ErrUnsupportedFieldCombination = errors.New("unsupported field combination")
	// ErrUnsupportedTransactionType is returned for type bytes other than legacy, 1 and 2.
	ErrUnsupportedTransactionType = errors.New("unsupported transaction type")
	// ErrChainIDMismatch is returned when a request's chainId disagrees with the signing chain.
	ErrChainIDMismatch = errors.New("chain id mismatch")
	// ErrInvalidRequest is returned for requests that cannot be decoded or converted.
	ErrInvalidRequest = errors.New("invalid transaction request")
)

// TransactionRequest is an unsigned transaction in web3 JSON form.
// Every field is optional. Quantities are 0x-prefixed hex or decimal, and
// leading zeros are accepted.
type TransactionRequest struct {
	From                 *common.Address       `json:"from,omitempty"`
	To                   *common.Address       `json:"to,omitempty"`
	Gas                  *math.HexOrDecimal256 `json:"gas,omitempty"`
	GasPrice             *math.HexOrDecimal256 `json:"gasPrice,omitempty"`
	Value                *math.HexOrDecimal256 `json:"value,omitempty"`
	Data                 *hexutil.Bytes        `json:"data,omitempty"`
	Nonce                *math.HexOrDecimal256 `json:"nonce,omitempty"`
	ChainID              *math.HexOrDecimal256 `json:"chainId,omitempty"`
	AccessList           *types.AccessList     `json:"accessList,omitempty"`
	MaxFeePerGas         *math.HexOrDecimal256 `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas *math.HexOrDecimal256 `json:"maxPriorityFeePerGas,omitempty"`
	Type                 *math.HexOrDecimal64  `json:"type,omitempty"`
}

// UnmarshalJSON accepts "input" as an alias of "data" and "transactionType"
// as an alias of "type".
func (r *TransactionRequest) UnmarshalJSON(raw []byte) error {
	type plain TransactionRequest
	var aux struct {
		plain
		Input           *hexutil.Bytes       `json:"input,omitempty"`
		TransactionType *math.HexOrDecimal64 `json:"transactionType,omitempty"`
	}
	if err := json.Unmarshal(raw, &aux); err != nil {
		return err
	}

	req := TransactionRequest(aux.plain)
	for name, q := range req.quantities() {
		if q != nil && (*big.Int)(q).Sign() < 0 {
			return fmt.Errorf("%w: negative %s", ErrInvalidRequest, name)
		}
	}
	if aux.Input != nil {
		if req.Data != nil && !bytes.Equal(*req.Data, *aux.Input) {
			return fmt.Errorf("%w: data and input differ", ErrInvalidRequest)
		}
		req.Data = aux.Input
	}
	if aux.TransactionType != nil {
		if req.Type != nil && *req.Type != *aux.TransactionType {
			return fmt.Errorf("%w: type and transactionType differ", ErrInvalidRequest)
		}
		req.Type = aux.TransactionType
	}
	*r = req
	return nil
}

// ParseRequest decodes a web3 JSON transaction request.
func ParseRequest(raw []byte) (*TransactionRequest, error) {
	var req TransactionRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return &req, nil
}

// FromJSON decodes a request from an already parsed JSON value.
func FromJSON(value interface{}) (*TransactionRequest, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return ParseRequest(raw)
}

func (r *TransactionRequest) quantities() map[string]*math.HexOrDecimal256 {
	return map[string]*math.HexOrDecimal256{
		"gas":                  r.Gas,
		"gasPrice":             r.GasPrice,
		"value":                r.Value,
		"nonce":                r.Nonce,
		"chainId":              r.ChainID,
		"maxFeePerGas":         r.MaxFeePerGas,
		"maxPriorityFeePerGas": r.MaxPriorityFeePerGas,
	}
}

func bigOrZero(v *math.HexOrDecimal256) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return (*big.Int)(v)
}

func (r *TransactionRequest) data() []byte {
	if r.Data == nil {
		return nil
	}
	return *r.Data
}

func (r *TransactionRequest) accessList() types.AccessList {
	if r.AccessList == nil {
		return types.AccessList{}
	}
	return *r.AccessList
}
