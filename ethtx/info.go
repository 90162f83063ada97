package ethtx

import (
	"bytes"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Info is a best-effort, display-only description of what a transaction does.
type Info interface {
	isInfo()
}

// TokenTransfer moves Amount of a token, or of ether when TokenID is nil.
type TokenTransfer struct {
	From    common.Address
	To      common.Address
	Amount  *big.Int
	TokenID *big.Int
}

// TokenSale trades TokenID of Contract for Amount of Currency.
type TokenSale struct {
	Seller   common.Address
	Buyer    common.Address
	Amount   *big.Int
	Currency common.Address
	Contract common.Address
	TokenID  *big.Int
}

// Unknown is any transaction that was not recognised.
type Unknown struct {
	Value *big.Int
}

func (TokenTransfer) isInfo() {}
func (TokenSale) isInfo()     {}
func (Unknown) isInfo()       {}

const erc1155ABI = `[{
	"name": "safeTransferFrom",
	"type": "function",
	"inputs": [
		{"name": "from", "type": "address"},
		{"name": "to", "type": "address"},
		{"name": "id", "type": "uint256"},
		{"name": "value", "type": "uint256"},
		{"name": "data", "type": "bytes"}
	],
	"outputs": []
}]`

var safeTransferFrom = mustMethod(erc1155ABI, "safeTransferFrom")

// SafeTransferFromSelector is the ERC-1155 safeTransferFrom method id.
var SafeTransferFromSelector = safeTransferFrom.ID

func mustMethod(def, name string) abi.Method {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed.Methods[name]
}

// Describe classifies a request. It never fails: anything it cannot decode
// is reported as Unknown.
func Describe(r *TransactionRequest) Info {
	value := bigOrZero(r.Value)
	data := r.data()

	if len(data) >= 4 && bytes.Equal(data[:4], SafeTransferFromSelector) {
		if info, ok := describeSafeTransferFrom(data[4:]); ok {
			return info
		}
	}
	if len(data) == 0 && r.To != nil && value.Sign() > 0 {
		info := TokenTransfer{To: *r.To, Amount: value}
		if r.From != nil {
			info.From = *r.From
		}
		return info
	}
	return Unknown{Value: value}
}

func describeSafeTransferFrom(args []byte) (Info, bool) {
	values, err := safeTransferFrom.Inputs.Unpack(args)
	if err != nil || len(values) != 5 {
		return nil, false
	}
	from, ok1 := values[0].(common.Address)
	to, ok2 := values[1].(common.Address)
	id, ok3 := values[2].(*big.Int)
	amount, ok4 := values[3].(*big.Int)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, false
	}
	return TokenTransfer{From: from, To: to, Amount: amount, TokenID: id}, true
}
