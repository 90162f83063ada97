package known

import (
	"bytes"
	"context"
	"math/big"
	"os"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skapa-xyz/chainsign/eip712"
	"github.com/skapa-xyz/chainsign/ethtx"
	"github.com/skapa-xyz/chainsign/signing"
)

const mailJSON = `{
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
		"from": {"name": "Cow", "wallet": "0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826"},
		"to": {"name": "Bob", "wallet": "0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB"},
		"contents": "Hello, Bob!"
	}
}`

// Private key for 0xCD2a3d9F938E13CD947Ec05AbC7FE734Df8DD826 ("cow").
const cowKey = "c85ef7d79691fe79573b1a7064c19c1a9819ebdbd1faaab1a8ec92344438aaf4"

func loadWyvernOrder(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile("testdata/wyvern_sell_order.json")
	require.NoError(t, err)
	return string(raw)
}

func TestCoinTypeString(t *testing.T) {
	assert.Equal(t, "ethereum", CoinTypeEthereum.String())
	assert.Equal(t, "bitcoin", CoinTypeBitcoin.String())
	assert.Equal(t, "solana", CoinTypeSolana.String())
	assert.Equal(t, "coin(9000)", CoinType(9000).String())
	assert.Equal(t, CoinType(60), CoinTypeEthereum)
}

func TestUnimplementedCoinTypes(t *testing.T) {
	d := New()
	for _, coin := range []CoinType{CoinTypeBitcoin, CoinTypeSolana, CoinType(9000)} {
		_, err := d.Message(coin, 1, []byte(`"hello"`))
		assert.ErrorIs(t, err, ErrUnimplementedCoinType, coin.String())

		_, err = d.TransactionRequest(coin, 1, []byte(`{}`))
		assert.ErrorIs(t, err, ErrUnimplementedCoinType, coin.String())
	}
}

func TestPersonalMessage(t *testing.T) {
	msg, err := New().Message(CoinTypeEthereum, 1, []byte(`  "hello world" `))
	require.NoError(t, err)
	require.Nil(t, msg.TypedData)
	assert.Equal(t, signing.PersonalMessage("hello world"), msg.Personal)

	hash, err := msg.SigningHash()
	require.NoError(t, err)
	assert.Equal(t, common.BytesToHash(accounts.TextHash([]byte("hello world"))), hash)

	_, ok := msg.MetaTransaction()
	assert.False(t, ok)
}

func TestTypedDataMessage(t *testing.T) {
	msg, err := New().Message(CoinTypeEthereum, 1, []byte(mailJSON))
	require.NoError(t, err)
	require.NotNil(t, msg.TypedData)
	assert.Equal(t, "Mail", msg.TypedData.PrimaryType())

	hash, err := msg.SigningHash()
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0xbe609aee343fb3c4b28e1df9e632fca64fcfaede20f02e86244efddf30957bd2"), hash)
}

func TestMessageRejectsInvalidPayloads(t *testing.T) {
	d := New()
	for _, raw := range []string{``, `123`, `[]`, `null`, `"unterminated`, `{"types": `} {
		_, err := d.Message(CoinTypeEthereum, 1, []byte(raw))
		assert.ErrorIs(t, err, ErrInvalidPayload, raw)
	}

	_, err := d.Message(CoinTypeEthereum, 1, []byte(`{"types": {}, "primaryType": "Mail", "domain": {}, "message": {}}`))
	assert.ErrorIs(t, err, eip712.ErrMissingDomainType)
}

func TestTransactionRequest(t *testing.T) {
	raw := `{
		"to": "0x2222222222222222222222222222222222222222",
		"value": "0xde0b6b3a7640000",
		"gas": "0x5208",
		"maxFeePerGas": "0x3b9aca00",
		"type": "0x2"
	}`
	tx, err := New().TransactionRequest(CoinTypeEthereum, 5, []byte(raw))
	require.NoError(t, err)

	want, err := tx.Ethereum.SigningHash(5)
	require.NoError(t, err)
	got, err := tx.SigningHash()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, ok := tx.Info().(ethtx.TokenTransfer)
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress("0x2222222222222222222222222222222222222222"), info.To)

	_, err = New().TransactionRequest(CoinTypeEthereum, 5, []byte(`{"type": "0x1", "maxFeePerGas": "0x1"}`))
	require.NoError(t, err)
	_, err = New().TransactionRequest(CoinTypeEthereum, 5, []byte(`{"gas": "0xzz"}`))
	require.ErrorIs(t, err, ethtx.ErrInvalidRequest)
}

func TestWyvernSellOrder(t *testing.T) {
	msg, err := New().Message(CoinTypeEthereum, 1, []byte(loadWyvernOrder(t)))
	require.NoError(t, err)

	_, err = msg.SigningHash()
	require.NoError(t, err)

	info, ok := msg.MetaTransaction()
	require.True(t, ok)

	price, _ := new(big.Int).SetString("999000000000000000000", 10)
	assert.Equal(t, ethtx.TokenSale{
		Seller:   common.HexToAddress("0xf020b2ae0995acedff07f9fc8298681f5461278a"),
		Buyer:    common.Address{},
		Amount:   price,
		Currency: common.HexToAddress("0x6b175474e89094c44da98b954eedeac495271d0f"),
		Contract: common.HexToAddress("0x8c225a147c9be7c010961cc92c4e20f3ee93ecca"),
		TokenID:  big.NewInt(1),
	}, info)
}

func TestMerkleValidatorSelector(t *testing.T) {
	assert.Equal(t, []byte{0xfb, 0x16, 0xa5, 0x95}, matchERC721UsingCriteria.ID)
}

func TestMetaTransactionUnrecognised(t *testing.T) {
	order := loadWyvernOrder(t)
	tests := []struct {
		name    string
		payload string
		log     string
	}{
		{
			name:    "other verifying contract",
			payload: mailJSON,
			log:     "don't know how to decode meta transaction",
		},
		{
			name:    "other chain",
			payload: strings.Replace(order, `"chainId": 1`, `"chainId": 5`, 1),
			log:     "unknown wyvern target contract",
		},
		{
			name:    "other target",
			payload: strings.Replace(order, `"target": "0xbaf2127b49fc93cbca6269fade0f7f31df4c88a7"`, `"target": "0x0000000000000000000000000000000000000001"`, 1),
			log:     "unknown wyvern target contract",
		},
		{
			name:    "other calldata",
			payload: strings.Replace(order, `"calldata": "0xfb16a595`, `"calldata": "0xfb16a596`, 1),
			log:     "unknown wyvern calldata",
		},
		{
			name:    "truncated calldata",
			payload: strings.Replace(order, "00000000000000000000000000000000000000000000000000000000000000c00000000000000000000000000000000000000000000000000000000000000000\"", "\"", 1),
			log:     "failed to decode matchERC721UsingCriteria",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			d := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

			msg, err := d.Message(CoinTypeEthereum, 1, []byte(tt.payload))
			require.NoError(t, err)

			_, ok := msg.MetaTransaction()
			assert.False(t, ok)
			assert.Contains(t, buf.String(), tt.log)
		})
	}
}

func TestDispatcherSign(t *testing.T) {
	var buf bytes.Buffer
	d := New(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))

	signer, err := signing.NewKeySigner(cowKey)
	require.NoError(t, err)

	msg, err := d.Message(CoinTypeEthereum, 1, []byte(mailJSON))
	require.NoError(t, err)

	sig, err := d.Sign(context.Background(), msg, signer)
	require.NoError(t, err)

	ok, err := signing.VerifySignature(sig, signer.Address(), msg)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, buf.String(), "signed digest")
	assert.Contains(t, buf.String(), "decoded message")
}

func TestDispatcherSignKeepsContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	signer, err := signing.NewKeySigner(cowKey)
	require.NoError(t, err)

	_, err = New().Sign(ctx, signing.PersonalMessage("hi"), signer)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "signed digest")
}
