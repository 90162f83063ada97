package eip712

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// toBigInt converts a value tree leaf into an integer. Strings with a 0x
// prefix are hex, other strings are decimal; both may carry a leading '-'.
func toBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case string:
		return parseIntString(v)
	case json.Number:
		n, ok := new(big.Int).SetString(string(v), 10)
		if !ok {
			return nil, fmt.Errorf("not an integer: %s", v)
		}
		return n, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("not an integer: %v", v)
		}
		n, _ := big.NewFloat(v).Int(nil)
		return n, nil
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("nil integer")
		}
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("expected number or numeric string, got %T", value)
	}
}

func parseIntString(s string) (*big.Int, error) {
	digits := s
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}
	base := 10
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
		base = 16
	}
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	if negative {
		n.Neg(n)
	}
	return n, nil
}

// signedByteLen returns the length of the minimal big-endian two's
// complement encoding of n.
func signedByteLen(n *big.Int) int {
	if n.Sign() >= 0 {
		return n.BitLen()/8 + 1
	}
	// n and -n-1 share a body, plus one sign bit
	m := new(big.Int).Neg(n)
	m.Sub(m, big.NewInt(1))
	return m.BitLen()/8 + 1
}

// unsignedByteLen returns the length of the minimal big-endian encoding of a
// non-negative n, counting zero as one byte.
func unsignedByteLen(n *big.Int) int {
	if n.Sign() == 0 {
		return 1
	}
	return (n.BitLen() + 7) / 8
}
