package eip712

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DomainType is the struct name every typed-data document must declare.
const DomainType = "EIP712Domain"

// Member is one declared struct member.
type Member struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Types maps struct names to their ordered member lists.
type Types map[string][]Member

// UnmarshalJSON decodes a types object, rejecting struct names that appear twice.
func (t *Types) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("types must be an object, got %v", tok)
	}
	out := make(Types)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name := tok.(string)
		if _, ok := out[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateType, name)
		}
		var members []Member
		if err := dec.Decode(&members); err != nil {
			return fmt.Errorf("failed to decode members of %q: %w", name, err)
		}
		out[name] = members
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*t = out
	return nil
}

type field struct {
	name string
	typ  Type
}

// StructType is a named struct with its members in declaration order.
type StructType struct {
	name    string
	members []field

	once     sync.Once
	encoded  string
	typeHash common.Hash
	err      error
}

// Name returns the struct name.
func (s *StructType) Name() string { return s.name }

// Type returns the struct reference identifying this struct.
func (s *StructType) Type() Type {
	return Type{Kind: KindStruct, Elem: s.name, full: s.name}
}

// Members returns a copy of the declared members.
func (s *StructType) Members() []Member {
	out := make([]Member, len(s.members))
	for i, m := range s.members {
		out[i] = Member{Name: m.name, Type: m.typ.ReferenceName()}
	}
	return out
}

// Schema holds the struct definitions of one typed-data document.
// It is immutable after construction apart from memoized type hashes.
type Schema struct {
	structs map[string]*StructType
}

// NewSchema validates types and builds a schema from them.
func NewSchema(types Types) (*Schema, error) {
	if _, ok := types[DomainType]; !ok {
		return nil, ErrMissingDomainType
	}

	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &Schema{structs: make(map[string]*StructType, len(types))}
	for _, name := range names {
		if IsPrimitive(name) {
			return nil, fmt.Errorf("%w: %q is a primitive type", ErrDuplicateType, name)
		}
		if !IsIdent(name) {
			return nil, fmt.Errorf("%w: struct name %q", ErrInvalidType, name)
		}
		if _, ok := s.structs[name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateType, name)
		}

		st := &StructType{name: name, members: make([]field, 0, len(types[name]))}
		seen := make(map[string]struct{}, len(types[name]))
		for _, m := range types[name] {
			if _, dup := seen[m.Name]; dup {
				return nil, fmt.Errorf("%w: %s.%s", ErrDuplicateMember, name, m.Name)
			}
			seen[m.Name] = struct{}{}
			typ, err := ParseType(m.Type)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", name, m.Name, err)
			}
			st.members = append(st.members, field{name: m.Name, typ: typ})
		}
		s.structs[name] = st
	}
	return s, nil
}

// Struct looks up a struct by name.
func (s *Schema) Struct(name string) (*StructType, bool) {
	st, ok := s.structs[name]
	return st, ok
}

func (s *Schema) lookup(name string) (*StructType, error) {
	st, ok := s.structs[name]
	if !ok {
		return nil, fmt.Errorf("%w: undefined struct %q", ErrInvalidType, name)
	}
	return st, nil
}

// Dependencies returns primary followed by every struct it transitively
// references, the latter sorted by name.
func (s *Schema) Dependencies(primary string) ([]string, error) {
	if _, err := s.lookup(primary); err != nil {
		return nil, err
	}
	seen := map[string]bool{primary: true}
	if err := s.collect(primary, seen); err != nil {
		return nil, err
	}

	deps := make([]string, 0, len(seen)-1)
	for name := range seen {
		if name != primary {
			deps = append(deps, name)
		}
	}
	sort.Strings(deps)
	return append([]string{primary}, deps...), nil
}

func (s *Schema) collect(name string, seen map[string]bool) error {
	st := s.structs[name]
	for _, m := range st.members {
		if !m.typ.IsStructRef() {
			continue
		}
		dep := m.typ.BaseName()
		if seen[dep] {
			continue
		}
		if _, ok := s.structs[dep]; !ok {
			return fmt.Errorf("%w: %s.%s references undefined struct %q", ErrInvalidType, name, m.name, dep)
		}
		seen[dep] = true
		if err := s.collect(dep, seen); err != nil {
			return err
		}
	}
	return nil
}

// EncodeType returns the canonical type string of a struct, for example
// "Mail(Person from,Person to,string contents)Person(string name,address wallet)".
func (s *Schema) EncodeType(name string) (string, error) {
	st, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	if err := s.memoize(st); err != nil {
		return "", err
	}
	return st.encoded, nil
}

// TypeHash returns keccak256 of the struct's canonical type string.
func (s *Schema) TypeHash(name string) (common.Hash, error) {
	st, err := s.lookup(name)
	if err != nil {
		return common.Hash{}, err
	}
	if err := s.memoize(st); err != nil {
		return common.Hash{}, err
	}
	return st.typeHash, nil
}

func (s *Schema) memoize(st *StructType) error {
	st.once.Do(func() {
		deps, err := s.Dependencies(st.name)
		if err != nil {
			st.err = err
			return
		}
		var b strings.Builder
		for _, dep := range deps {
			b.WriteString(dep)
			b.WriteByte('(')
			for i, m := range s.structs[dep].members {
				if i > 0 {
					b.WriteByte(',')
				}
				b.WriteString(m.typ.ReferenceName())
				b.WriteByte(' ')
				b.WriteString(m.name)
			}
			b.WriteByte(')')
		}
		st.encoded = b.String()
		st.typeHash = crypto.Keccak256Hash([]byte(st.encoded))
	})
	return st.err
}
