package eip712

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// TypedData is an EIP-712 document as exchanged over JSON-RPC.
type TypedData struct {
	Types       Types       `json:"types"`
	PrimaryType string      `json:"primaryType"`
	Domain      interface{} `json:"domain"`
	Message     interface{} `json:"message"`
}

// ParseTypedData decodes a JSON document. Unknown top-level fields are
// rejected and numbers are kept as json.Number.
func ParseTypedData(raw []byte) (TypedData, error) {
	var td TypedData
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&td); err != nil {
		return TypedData{}, fmt.Errorf("failed to decode typed data: %w", err)
	}
	return td, nil
}

// Hash builds a document from td and returns its signing digest.
func (td TypedData) Hash() (common.Hash, error) {
	doc, err := NewDocument(td)
	if err != nil {
		return common.Hash{}, err
	}
	return doc.Hash()
}

// Document is a validated typed-data document with its domain separator
// already computed.
type Document struct {
	schema          *Schema
	primaryType     string
	domain          interface{}
	message         interface{}
	domainSeparator common.Hash
}

// NewDocument validates td and computes its domain separator.
func NewDocument(td TypedData) (*Document, error) {
	schema, err := NewSchema(td.Types)
	if err != nil {
		return nil, err
	}
	if _, err := schema.lookup(td.PrimaryType); err != nil {
		return nil, fmt.Errorf("primary type: %w", err)
	}
	sep, err := schema.HashStruct(DomainType, td.Domain)
	if err != nil {
		return nil, fmt.Errorf("failed to hash domain: %w", err)
	}
	return &Document{
		schema:          schema,
		primaryType:     td.PrimaryType,
		domain:          td.Domain,
		message:         td.Message,
		domainSeparator: sep,
	}, nil
}

// Schema returns the document's struct definitions.
func (d *Document) Schema() *Schema { return d.schema }

// PrimaryType returns the struct name of the message.
func (d *Document) PrimaryType() string { return d.primaryType }

// Domain returns the domain value tree.
func (d *Document) Domain() interface{} { return d.domain }

// Message returns the message value tree.
func (d *Document) Message() interface{} { return d.message }

// DomainSeparator returns hashStruct(EIP712Domain, domain).
func (d *Document) DomainSeparator() common.Hash { return d.domainSeparator }

// MessageHash returns hashStruct(primaryType, message).
func (d *Document) MessageHash() (common.Hash, error) {
	return d.schema.HashStruct(d.primaryType, d.message)
}

// Hash returns keccak256(0x1901 ‖ domainSeparator ‖ hashStruct(message)).
func (d *Document) Hash() (common.Hash, error) {
	msg, err := d.MessageHash()
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to hash message: %w", err)
	}
	return crypto.Keccak256Hash([]byte{0x19, 0x01}, d.domainSeparator[:], msg[:]), nil
}

// SigningHash returns the digest handed to a signer.
func (d *Document) SigningHash() (common.Hash, error) {
	return d.Hash()
}
