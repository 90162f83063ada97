package eip712

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

const (
	testDomainTypes = `[
		{"name": "name", "type": "string"},
		{"name": "version", "type": "string"},
		{"name": "chainId", "type": "uint256"},
		{"name": "verifyingContract", "type": "address"}
	]`
	testDomain = `{
		"name": "Test",
		"version": "1",
		"chainId": 1,
		"verifyingContract": "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC"
	}`

	mailJSON = `{
		"types": {
			"EIP712Domain": [
				{"name": "name", "type": "string"},
				{"name": "version", "type": "string"},
				{"name": "chainId", "type": "uint256"},
				{"name": "verifyingContract", "type": "address"}
			],
			"Person": [
				{"name": "name", "type": "string"},
				{"name": "wallet", "type": "address"}
			],
			"Mail": [
				{"name": "from", "type": "Person"},
				{"name": "to", "type": "Person"},
				{"name": "contents", "type": "string"}
			]
		},
		"primaryType": "Mail",
		"domain": {
			"name": "Ether Mail",
			"version": "1",
			"chainId": 1,
			"verifyingContract": "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC"
		},
		"message": {
			"from": {
				"name": "Cow",
				"wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"
			},
			"to": {
				"name": "Bob",
				"wallet": "0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB"
			},
			"contents": "Hello, Bob!"
		}
	}`
)

// testDocumentJSON wraps a single "Test" struct in the shared test domain.
func testDocumentJSON(members, message string, extraTypes ...string) string {
	types := []string{`"EIP712Domain": ` + testDomainTypes, `"Test": ` + members}
	types = append(types, extraTypes...)
	return fmt.Sprintf(`{"types": {%s}, "primaryType": "Test", "domain": %s, "message": %s}`,
		strings.Join(types, ", "), testDomain, message)
}

func mustDocument(t *testing.T, raw string) *Document {
	t.Helper()
	td, err := ParseTypedData([]byte(raw))
	require.NoError(t, err)
	doc, err := NewDocument(td)
	require.NoError(t, err)
	return doc
}

func mustSchema(t *testing.T, raw string) *Schema {
	t.Helper()
	var types Types
	require.NoError(t, types.UnmarshalJSON([]byte(raw)))
	schema, err := NewSchema(types)
	require.NoError(t, err)
	return schema
}

func requireHash(t *testing.T, expected string, actual common.Hash) {
	t.Helper()
	require.Equal(t, common.HexToHash(expected), actual, "got %x", actual)
}
