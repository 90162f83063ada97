package eip712

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaDependencies(t *testing.T) {
	tests := []struct {
		name     string
		types    string
		primary  string
		expected []string
		encoded  string
	}{
		{
			name: "faucet",
			types: `{
				"EIP712Domain": [],
				"Root": [
					{"name": "type", "type": "Type"},
					{"name": "value", "type": "Value"},
					{"name": "leaf", "type": "Leaf"}
				],
				"Leaf": [],
				"Type": [{"name": "name", "type": "string"}],
				"Value": [{"name": "value", "type": "string"}]
			}`,
			primary:  "Root",
			expected: []string{"Root", "Leaf", "Type", "Value"},
			encoded:  "Root(Type type,Value value,Leaf leaf)Leaf()Type(string name)Value(string value)",
		},
		{
			name: "tree",
			types: `{
				"EIP712Domain": [],
				"Root": [
					{"name": "left", "type": "Leaf"},
					{"name": "right", "type": "Leaf"}
				],
				"Leaf": [
					{"name": "value", "type": "Value"},
					{"name": "type", "type": "Type"}
				],
				"Type": [{"name": "name", "type": "string"}],
				"Value": [{"name": "value", "type": "string"}]
			}`,
			primary:  "Root",
			expected: []string{"Root", "Leaf", "Type", "Value"},
			encoded:  "Root(Leaf left,Leaf right)Leaf(Value value,Type type)Type(string name)Value(string value)",
		},
		{
			name: "arrays keep their arity",
			types: `{
				"EIP712Domain": [],
				"Group": [
					{"name": "members", "type": "Person[3]"},
					{"name": "admins", "type": "Person[]"},
					{"name": "scores", "type": "uint8[]"}
				],
				"Person": [{"name": "name", "type": "string"}]
			}`,
			primary:  "Group",
			expected: []string{"Group", "Person"},
			encoded:  "Group(Person[3] members,Person[] admins,uint8[] scores)Person(string name)",
		},
		{
			name: "cycle",
			types: `{
				"EIP712Domain": [],
				"Node": [
					{"name": "label", "type": "string"},
					{"name": "children", "type": "Node[]"},
					{"name": "owner", "type": "Account"}
				],
				"Account": [{"name": "root", "type": "Node"}]
			}`,
			primary:  "Node",
			expected: []string{"Node", "Account"},
			encoded:  "Node(string label,Node[] children,Account owner)Account(Node root)",
		},
		{
			name: "primary sorts after dependencies",
			types: `{
				"EIP712Domain": [],
				"Zeta": [{"name": "a", "type": "Alpha"}, {"name": "b", "type": "Beta"}],
				"Beta": [],
				"Alpha": [{"name": "b", "type": "Beta"}]
			}`,
			primary:  "Zeta",
			expected: []string{"Zeta", "Alpha", "Beta"},
			encoded:  "Zeta(Alpha a,Beta b)Alpha(Beta b)Beta()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := mustSchema(t, tt.types)

			deps, err := schema.Dependencies(tt.primary)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, deps)

			encoded, err := schema.EncodeType(tt.primary)
			require.NoError(t, err)
			assert.Equal(t, tt.encoded, encoded)
		})
	}
}

func TestSchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		types Types
		err   error
	}{
		{
			name:  "missing domain",
			types: Types{"Mail": {{Name: "contents", Type: "string"}}},
			err:   ErrMissingDomainType,
		},
		{
			name:  "struct shadows primitive",
			types: Types{DomainType: {}, "uint256": {{Name: "x", Type: "bool"}}},
			err:   ErrDuplicateType,
		},
		{
			name:  "struct name is not an identifier",
			types: Types{DomainType: {}, "Mail[]": {}},
			err:   ErrInvalidType,
		},
		{
			name: "duplicate member",
			types: Types{DomainType: {}, "Test": {
				{Name: "message", Type: "string"},
				{Name: "message", Type: "string"},
			}},
			err: ErrDuplicateMember,
		},
		{
			name:  "unparseable member type",
			types: Types{DomainType: {}, "Test": {{Name: "x", Type: "uint8[two]"}}},
			err:   ErrInvalidType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchema(tt.types)
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestSchemaUndefinedReference(t *testing.T) {
	schema, err := NewSchema(Types{
		DomainType: {},
		"Test":     {{Name: "width", Type: "uint7"}},
	})
	require.NoError(t, err)

	_, err = schema.TypeHash("Test")
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = schema.Dependencies("Missing")
	require.ErrorIs(t, err, ErrInvalidType)
}

func TestTypesRejectsDuplicateNames(t *testing.T) {
	raw := `{
		"EIP712Domain": [],
		"Test": [{"name": "a", "type": "string"}],
		"Test": [{"name": "b", "type": "string"}]
	}`
	var types Types
	err := json.Unmarshal([]byte(raw), &types)
	require.ErrorIs(t, err, ErrDuplicateType)
}

func TestStructMembersKeepOrder(t *testing.T) {
	schema := mustSchema(t, `{
		"EIP712Domain": [],
		"Test": [
			{"name": "z", "type": "uint256"},
			{"name": "a", "type": "Item[2]"},
			{"name": "m", "type": "bytes"}
		],
		"Item": []
	}`)
	st, ok := schema.Struct("Test")
	require.True(t, ok)
	assert.Equal(t, "Test", st.Name())
	assert.True(t, st.Type().IsStructRef())
	assert.Equal(t, []Member{
		{Name: "z", Type: "uint256"},
		{Name: "a", Type: "Item[2]"},
		{Name: "m", Type: "bytes"},
	}, st.Members())
}
