package eip712

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Domain represents the EIP-712 domain separator fields.
type Domain struct {
	Name              string
	Version           string
	ChainID           *big.Int
	VerifyingContract common.Address
	Salt              [32]byte
}

// Message represents a simple wrapper for EIP-712 messages.
type Message map[string]interface{}

// Types returns the EIP712Domain members for the fields that are set.
func (d Domain) Types() []Member {
	members := []Member{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
	}
	if d.ChainID != nil {
		members = append(members, Member{Name: "chainId", Type: "uint256"})
	}
	if d.VerifyingContract != (common.Address{}) {
		members = append(members, Member{Name: "verifyingContract", Type: "address"})
	}
	if d.Salt != [32]byte{} {
		members = append(members, Member{Name: "salt", Type: "bytes32"})
	}
	return members
}

// Value returns the domain as a value tree matching Types.
func (d Domain) Value() map[string]interface{} {
	v := map[string]interface{}{
		"name":    d.Name,
		"version": d.Version,
	}
	if d.ChainID != nil {
		v["chainId"] = d.ChainID.String()
	}
	if d.VerifyingContract != (common.Address{}) {
		v["verifyingContract"] = d.VerifyingContract.Hex()
	}
	if d.Salt != [32]byte{} {
		v["salt"] = hexutil.Encode(d.Salt[:])
	}
	return v
}

// NewTypedData assembles a document, adding EIP712Domain if types lacks it.
//
// Example:
//
//	td := NewTypedData(
//	    Domain{Name: "Ether Mail", Version: "1", ChainID: big.NewInt(1)},
//	    Types{
//	        "Person": {{Name: "name", Type: "string"}, {Name: "wallet", Type: "address"}},
//	        "Mail":   {{Name: "from", Type: "Person"}, {Name: "to", Type: "Person"}, {Name: "contents", Type: "string"}},
//	    },
//	    "Mail",
//	    Message{"from": ..., "to": ..., "contents": "Hello, Bob!"},
//	)
//	hash, err := td.Hash()
func NewTypedData(domain Domain, types Types, primaryType string, message Message) TypedData {
	all := make(Types, len(types)+1)
	for name, members := range types {
		all[name] = members
	}
	if _, ok := all[DomainType]; !ok {
		all[DomainType] = domain.Types()
	}
	return TypedData{
		Types:       all,
		PrimaryType: primaryType,
		Domain:      domain.Value(),
		Message:     map[string]interface{}(message),
	}
}

// PermitTypedData builds an EIP-2612 permit for gasless token approvals.
func PermitTypedData(
	tokenContract common.Address,
	tokenName string,
	tokenVersion string,
	chainID *big.Int,
	owner common.Address,
	spender common.Address,
	value *big.Int,
	nonce *big.Int,
	deadline *big.Int,
) TypedData {
	domain := Domain{
		Name:              tokenName,
		Version:           tokenVersion,
		ChainID:           chainID,
		VerifyingContract: tokenContract,
	}

	types := Types{
		"Permit": {
			{Name: "owner", Type: "address"},
			{Name: "spender", Type: "address"},
			{Name: "value", Type: "uint256"},
			{Name: "nonce", Type: "uint256"},
			{Name: "deadline", Type: "uint256"},
		},
	}

	message := Message{
		"owner":    owner.Hex(),
		"spender":  spender.Hex(),
		"value":    value.String(),
		"nonce":    nonce.String(),
		"deadline": deadline.String(),
	}

	return NewTypedData(domain, types, "Permit", message)
}
