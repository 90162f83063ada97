// Package known maps a coin type and a JSON payload to the message or
// transaction implementation that can hash it.
package known

import (
	"errors"
	"strconv"
)

// ErrUnimplementedCoinType is returned for coin types without an implementation.
var ErrUnimplementedCoinType = errors.New("unimplemented coin type")

// ErrInvalidPayload is returned when a payload cannot be decoded for its coin type.
var ErrInvalidPayload = errors.New("invalid payload")

// CoinType is a SLIP-44 registered coin type.
type CoinType uint32

const (
	CoinTypeBitcoin  CoinType = 0
	CoinTypeEthereum CoinType = 60
	CoinTypeSolana   CoinType = 501
)

func (c CoinType) String() string {
	switch c {
	case CoinTypeBitcoin:
		return "bitcoin"
	case CoinTypeEthereum:
		return "ethereum"
	case CoinTypeSolana:
		return "solana"
	}
	return "coin(" + strconv.FormatUint(uint64(c), 10) + ")"
}
