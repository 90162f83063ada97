// Package eip712 hashes EIP-712 typed structured data.
//
// A Document is built once from a TypedData value: the struct schema is
// validated and the domain separator is computed up front. Hashing after that
// is a pure function of the document, so a Document may be shared across
// goroutines. Each struct's type hash is computed on first use and reused.
//
// Encoding is strict:
//   - Struct values must be objects, and keys the struct does not declare fail
//     with ErrUnexpectedField.
//   - Absent or null members encode as a zero slot.
//   - Integers wider than their declared type fail rather than truncate.
//   - Numeric strings are hex when prefixed with 0x and decimal otherwise.
package eip712
