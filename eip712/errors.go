package eip712

import "errors"

var (
	// ErrInvalidType is returned for type names that do not parse or that name an undefined struct.
	ErrInvalidType = errors.New("invalid type")
	// ErrDuplicateType is returned when a struct name is declared twice or shadows a primitive.
	ErrDuplicateType = errors.New("duplicate type")
	// ErrDuplicateMember is returned when a struct declares the same member name twice.
	ErrDuplicateMember = errors.New("duplicate member")
	// ErrMissingDomainType is returned when the types map has no EIP712Domain entry.
	ErrMissingDomainType = errors.New("missing EIP712Domain type")
	// ErrEncoding is returned when a value does not match its declared type.
	ErrEncoding = errors.New("encoding error")
	// ErrUnexpectedField is returned when a struct value carries a key the struct does not declare.
	ErrUnexpectedField = errors.New("unexpected field")
)
