package known

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/rs/zerolog"

	"github.com/skapa-xyz/chainsign/eip712"
	"github.com/skapa-xyz/chainsign/ethtx"
)

var (
	// WyvernExchange is the Wyvern 2.3 exchange on mainnet.
	WyvernExchange = common.HexToAddress("0x7f268357a8c2552623316e2562d90e642bb538e5")
	// MerkleValidator is the OpenSea merkle validator targeted by Wyvern orders.
	MerkleValidator = common.HexToAddress("0xbaf2127b49fc93cbca6269fade0f7f31df4c88a7")
)

const merkleValidatorABI = `[{
	"name": "matchERC721UsingCriteria",
	"type": "function",
	"stateMutability": "nonpayable",
	"inputs": [
		{"name": "from", "type": "address"},
		{"name": "to", "type": "address"},
		{"name": "token", "type": "address"},
		{"name": "tokenId", "type": "uint256"},
		{"name": "root", "type": "bytes32"},
		{"name": "proof", "type": "bytes32[]"}
	],
	"outputs": [{"name": "", "type": "bool"}]
}]`

var matchERC721UsingCriteria = func() abi.Method {
	parsed, err := abi.JSON(strings.NewReader(merkleValidatorABI))
	if err != nil {
		panic(err)
	}
	return parsed.Methods["matchERC721UsingCriteria"]
}()

// wyvernOrder holds the order fields needed to describe a sale.
type wyvernOrder struct {
	Target       common.Address
	Calldata     []byte
	PaymentToken common.Address
	BasePrice    *big.Int
}

func metaTransaction(logger zerolog.Logger, doc *eip712.Document) (ethtx.Info, bool) {
	domain, _ := asMap(doc.Domain())
	chainID, _ := bigValue(domain["chainId"])
	contract, _ := addressValue(domain["verifyingContract"])

	if contract != WyvernExchange {
		logger.Debug().Stringer("chain_id", chainID).Str("address", contract.Hex()).Msg("don't know how to decode meta transaction")
		return nil, false
	}

	order, ok := parseWyvernOrder(doc.Message())
	if !ok {
		logger.Debug().Msg("failed to parse wyvern order")
		return nil, false
	}
	if chainID == nil || chainID.Cmp(big.NewInt(1)) != 0 || order.Target != MerkleValidator {
		logger.Debug().Stringer("chain_id", chainID).Str("target", order.Target.Hex()).Msg("unknown wyvern target contract")
		return nil, false
	}
	if len(order.Calldata) < 4 || !bytes.Equal(order.Calldata[:4], matchERC721UsingCriteria.ID) {
		logger.Debug().Str("calldata", hexutil.Encode(order.Calldata)).Msg("unknown wyvern calldata")
		return nil, false
	}

	args, err := matchERC721UsingCriteria.Inputs.Unpack(order.Calldata[4:])
	if err != nil || len(args) != 6 {
		logger.Debug().Err(err).Msg("failed to decode matchERC721UsingCriteria")
		return nil, false
	}
	from, ok1 := args[0].(common.Address)
	to, ok2 := args[1].(common.Address)
	token, ok3 := args[2].(common.Address)
	tokenID, ok4 := args[3].(*big.Int)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return nil, false
	}

	return ethtx.TokenSale{
		Seller:   from,
		Buyer:    to,
		Amount:   order.BasePrice,
		Currency: order.PaymentToken,
		Contract: token,
		TokenID:  tokenID,
	}, true
}

func parseWyvernOrder(message interface{}) (wyvernOrder, bool) {
	fields, ok := asMap(message)
	if !ok {
		return wyvernOrder{}, false
	}
	var order wyvernOrder
	if order.Target, ok = addressValue(fields["target"]); !ok {
		return wyvernOrder{}, false
	}
	if order.PaymentToken, ok = addressValue(fields["paymentToken"]); !ok {
		return wyvernOrder{}, false
	}
	if order.BasePrice, ok = bigValue(fields["basePrice"]); !ok {
		return wyvernOrder{}, false
	}
	s, ok := fields["calldata"].(string)
	if !ok {
		return wyvernOrder{}, false
	}
	calldata, err := hexutil.Decode(s)
	if err != nil {
		return wyvernOrder{}, false
	}
	order.Calldata = calldata
	return order, true
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case eip712.Message:
		return m, true
	}
	return nil, false
}

func addressValue(v interface{}) (common.Address, bool) {
	s, ok := v.(string)
	if !ok || !common.IsHexAddress(s) {
		return common.Address{}, false
	}
	return common.HexToAddress(s), true
}

func bigValue(v interface{}) (*big.Int, bool) {
	switch n := v.(type) {
	case json.Number:
		return math.ParseBig256(string(n))
	case string:
		return math.ParseBig256(n)
	case float64:
		f := new(big.Float).SetFloat64(n)
		if !f.IsInt() {
			return nil, false
		}
		i, _ := f.Int(nil)
		return i, true
	case *big.Int:
		return n, n != nil
	}
	return nil, false
}
