package eip712

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies the shape of a parsed EIP-712 type.
type Kind int

const (
	KindAddress Kind = iota
	KindBool
	KindBytes
	KindString
	KindUint
	KindInt
	KindFixedBytes
	KindFixedArray
	KindArray
	KindStruct
)

// Type is a parsed EIP-712 type name.
//
// Width is in bits for uintN/intN and in bytes for bytesN. Size is the length
// of a fixed array. Elem holds the element type name of an array, or the
// struct name of a struct reference.
type Type struct {
	Kind  Kind
	Width int
	Size  int
	Elem  string
	full  string
}

var identPattern = regexp.MustCompile(`^[a-zA-Z$_][a-zA-Z0-9$_]*$`)

var primitives = buildPrimitives()

func buildPrimitives() map[string]Type {
	p := map[string]Type{
		"address": {Kind: KindAddress, full: "address"},
		"bool":    {Kind: KindBool, full: "bool"},
		"bytes":   {Kind: KindBytes, full: "bytes"},
		"string":  {Kind: KindString, full: "string"},
	}
	for n := 1; n <= 32; n++ {
		name := "bytes" + strconv.Itoa(n)
		p[name] = Type{Kind: KindFixedBytes, Width: n, full: name}
	}
	for bits := 8; bits <= 256; bits += 8 {
		u := "uint" + strconv.Itoa(bits)
		i := "int" + strconv.Itoa(bits)
		p[u] = Type{Kind: KindUint, Width: bits, full: u}
		p[i] = Type{Kind: KindInt, Width: bits, full: i}
	}
	return p
}

// IsPrimitive reports whether name is an atomic or dynamic EIP-712 type name.
func IsPrimitive(name string) bool {
	_, ok := primitives[name]
	return ok
}

// IsIdent reports whether name is shaped like a struct identifier.
func IsIdent(name string) bool {
	return identPattern.MatchString(name)
}

// ParseType parses a type name such as "uint256", "Person[3]" or "Mail".
//
// Any identifier that is not a primitive parses as a struct reference, so
// "uint7" is a struct reference and fails later if no such struct exists.
func ParseType(name string) (Type, error) {
	if t, ok := primitives[name]; ok {
		return t, nil
	}
	if IsIdent(name) {
		return Type{Kind: KindStruct, Elem: name, full: name}, nil
	}
	if strings.HasSuffix(name, "]") {
		open := strings.LastIndexByte(name, '[')
		if open > 0 {
			elem, size := name[:open], name[open+1:len(name)-1]
			if _, err := ParseType(elem); err != nil {
				return Type{}, fmt.Errorf("%w: %q: bad element type", ErrInvalidType, name)
			}
			if size == "" {
				return Type{Kind: KindArray, Elem: elem, full: name}, nil
			}
			n, err := strconv.ParseUint(size, 10, 31)
			if err != nil {
				return Type{}, fmt.Errorf("%w: %q: bad array length", ErrInvalidType, name)
			}
			return Type{Kind: KindFixedArray, Size: int(n), Elem: elem, full: name}, nil
		}
	}
	return Type{}, fmt.Errorf("%w: %q", ErrInvalidType, name)
}

// Valid reports whether the numeric width of t is one EIP-712 allows.
func (t Type) Valid() bool {
	switch t.Kind {
	case KindUint, KindInt:
		return t.Width >= 8 && t.Width <= 256 && t.Width%8 == 0
	case KindFixedBytes:
		return t.Width >= 1 && t.Width <= 32
	case KindFixedArray, KindArray:
		return t.Size >= 0 && t.Elem != ""
	case KindStruct:
		return IsIdent(t.Elem)
	default:
		return true
	}
}

// Name returns the element name for arrays, the struct name for struct
// references and the canonical name for everything else.
func (t Type) Name() string {
	switch t.Kind {
	case KindFixedArray, KindArray, KindStruct:
		return t.Elem
	}
	return t.ReferenceName()
}

// ReferenceName returns the name as it appears in an encoded type string,
// including any array suffix.
func (t Type) ReferenceName() string {
	if t.full != "" {
		return t.full
	}
	switch t.Kind {
	case KindAddress:
		return "address"
	case KindBool:
		return "bool"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindUint:
		return "uint" + strconv.Itoa(t.Width)
	case KindInt:
		return "int" + strconv.Itoa(t.Width)
	case KindFixedBytes:
		return "bytes" + strconv.Itoa(t.Width)
	case KindFixedArray:
		return t.Elem + "[" + strconv.Itoa(t.Size) + "]"
	case KindArray:
		return t.Elem + "[]"
	}
	return t.Elem
}

func (t Type) String() string {
	return t.ReferenceName()
}

// BaseName strips every array suffix from the type name.
func (t Type) BaseName() string {
	name := t.ReferenceName()
	if i := strings.IndexByte(name, '['); i > 0 {
		return name[:i]
	}
	return name
}

// IsArray reports whether t is a fixed or dynamic array.
func (t Type) IsArray() bool {
	return t.Kind == KindFixedArray || t.Kind == KindArray
}

// IsStructRef reports whether t is a struct, or an array whose base element
// is not a primitive.
func (t Type) IsStructRef() bool {
	switch t.Kind {
	case KindStruct:
		return true
	case KindFixedArray, KindArray:
		return !IsPrimitive(t.BaseName())
	}
	return false
}
