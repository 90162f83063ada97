package eip712

import (
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
)

// maxDepth bounds struct and array nesting in a value tree.
const maxDepth = 1024

var zeroSlot [32]byte

// HashStruct returns keccak256(typeHash ‖ encodeData(value)) for the named struct.
func (s *Schema) HashStruct(name string, value interface{}) (common.Hash, error) {
	return s.hashStruct(name, value, 0)
}

// EncodeData returns typeHash followed by the 32-byte slot of every member.
func (s *Schema) EncodeData(name string, value interface{}) ([]byte, error) {
	return s.encodeData(name, value, 0)
}

// EncodeValue returns the 32-byte slot of a single value.
func (s *Schema) EncodeValue(t Type, value interface{}) ([32]byte, error) {
	return s.encodeValue(t, value, 0)
}

func (s *Schema) hashStruct(name string, value interface{}, depth int) (common.Hash, error) {
	data, err := s.encodeData(name, value, depth)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(data), nil
}

func (s *Schema) encodeData(name string, value interface{}, depth int) ([]byte, error) {
	st, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	obj, ok := asObject(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s: not an object: %T", ErrEncoding, name, value)
	}
	typeHash, err := s.TypeHash(name)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 0, 32*(len(st.members)+1))
	buf = append(buf, typeHash[:]...)
	for _, m := range st.members {
		v, present := obj[m.name]
		if !present || v == nil {
			buf = append(buf, zeroSlot[:]...)
			continue
		}
		slot, err := s.encodeValue(m.typ, v, depth+1)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, m.name, err)
		}
		buf = append(buf, slot[:]...)
	}

	if extra := undeclared(st, obj); len(extra) > 0 {
		return nil, fmt.Errorf("%w: %s has no member %s", ErrUnexpectedField, name, strings.Join(extra, ", "))
	}
	return buf, nil
}

func undeclared(st *StructType, obj map[string]interface{}) []string {
	var extra []string
	for key := range obj {
		if !st.declares(key) {
			extra = append(extra, strconv.Quote(key))
		}
	}
	sort.Strings(extra)
	return extra
}

func (s *StructType) declares(member string) bool {
	for _, m := range s.members {
		if m.name == member {
			return true
		}
	}
	return false
}

func asObject(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case Message:
		return v, true
	}
	return nil, false
}

func (s *Schema) encodeValue(t Type, value interface{}, depth int) ([32]byte, error) {
	var slot [32]byte
	if depth > maxDepth {
		return slot, fmt.Errorf("%w: value nested deeper than %d", ErrEncoding, maxDepth)
	}
	if !t.Valid() {
		return slot, fmt.Errorf("%w: %s", ErrInvalidType, t)
	}

	switch t.Kind {
	case KindAddress:
		switch addr := value.(type) {
		case common.Address:
			copy(slot[12:], addr[:])
			return slot, nil
		case *common.Address:
			if addr == nil {
				return slot, mismatch(t, value)
			}
			copy(slot[12:], addr[:])
			return slot, nil
		}
		str, ok := value.(string)
		if !ok {
			return slot, mismatch(t, value)
		}
		n, err := parseIntString(str)
		if err != nil || n.Sign() < 0 || n.BitLen() > 160 {
			return slot, fmt.Errorf("%w: invalid address %q", ErrEncoding, str)
		}
		n.FillBytes(slot[:])
		return slot, nil

	case KindBool:
		b, ok := value.(bool)
		if !ok {
			return slot, mismatch(t, value)
		}
		if b {
			slot[31] = 1
		}
		return slot, nil

	case KindString:
		str, ok := value.(string)
		if !ok {
			return slot, mismatch(t, value)
		}
		return crypto.Keccak256Hash([]byte(str)), nil

	case KindBytes:
		raw, err := decodeHexValue(t, value)
		if err != nil {
			return slot, err
		}
		return crypto.Keccak256Hash(raw), nil

	case KindFixedBytes:
		raw, err := decodeHexValue(t, value)
		if err != nil {
			return slot, err
		}
		if len(raw) != t.Width {
			return slot, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrEncoding, t, t.Width, len(raw))
		}
		copy(slot[:], raw)
		return slot, nil

	case KindUint:
		n, err := toBigInt(value)
		if err != nil {
			return slot, fmt.Errorf("%w: %s: %v", ErrEncoding, t, err)
		}
		if n.Sign() < 0 {
			return slot, fmt.Errorf("%w: %s: negative value %s", ErrEncoding, t, n)
		}
		if unsignedByteLen(n) > t.Width/8 {
			return slot, fmt.Errorf("%w: %s: value %s overflows %d bytes", ErrEncoding, t, n, t.Width/8)
		}
		n.FillBytes(slot[:])
		return slot, nil

	case KindInt:
		n, err := toBigInt(value)
		if err != nil {
			return slot, fmt.Errorf("%w: %s: %v", ErrEncoding, t, err)
		}
		if signedByteLen(n) > t.Width/8 {
			return slot, fmt.Errorf("%w: %s: value %s overflows %d bytes", ErrEncoding, t, n, t.Width/8)
		}
		copy(slot[:], math.U256Bytes(n))
		return slot, nil

	case KindFixedArray, KindArray:
		return s.encodeArray(t, value, depth)

	case KindStruct:
		return s.hashStruct(t.Elem, value, depth)
	}
	return slot, fmt.Errorf("%w: %s", ErrInvalidType, t)
}

func (s *Schema) encodeArray(t Type, value interface{}, depth int) ([32]byte, error) {
	items, ok := toItems(value)
	if !ok {
		return [32]byte{}, mismatch(t, value)
	}
	if t.Kind == KindFixedArray && len(items) != t.Size {
		return [32]byte{}, fmt.Errorf("%w: %s needs %d elements, got %d", ErrEncoding, t, t.Size, len(items))
	}
	elem, err := ParseType(t.Elem)
	if err != nil {
		return [32]byte{}, err
	}

	buf := make([]byte, 0, 32*len(items))
	for i, item := range items {
		slot, err := s.encodeValue(elem, item, depth+1)
		if err != nil {
			return [32]byte{}, fmt.Errorf("[%d]: %w", i, err)
		}
		buf = append(buf, slot[:]...)
	}
	return crypto.Keccak256Hash(buf), nil
}

// toItems accepts a JSON array or any Go slice or array.
func toItems(value interface{}) ([]interface{}, bool) {
	if items, ok := value.([]interface{}); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

func decodeHexValue(t Type, value interface{}) ([]byte, error) {
	switch raw := value.(type) {
	case []byte:
		return raw, nil
	case hexutil.Bytes:
		return raw, nil
	case common.Hash:
		return raw[:], nil
	}
	str, ok := value.(string)
	if !ok {
		return nil, mismatch(t, value)
	}
	raw, err := hex.DecodeString(strings.TrimPrefix(str, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: invalid hex %q", ErrEncoding, t, str)
	}
	return raw, nil
}

func mismatch(t Type, value interface{}) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrEncoding, t, value)
}
