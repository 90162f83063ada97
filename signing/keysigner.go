package signing

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeySigner signs digests with an in-memory private key.
type KeySigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

// NewKeySigner creates a signer from a hex private key.
//
// Example:
//
//	signer, err := NewKeySigner("0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(signer.Address()) // 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
func NewKeySigner(privateKeyHex string) (*KeySigner, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return NewKeySignerFromECDSA(privateKey)
}

// NewKeySignerFromECDSA wraps an existing private key.
func NewKeySignerFromECDSA(privateKey *ecdsa.PrivateKey) (*KeySigner, error) {
	if privateKey == nil {
		return nil, errors.New("nil private key")
	}
	return &KeySigner{
		privateKey: privateKey,
		address:    crypto.PubkeyToAddress(privateKey.PublicKey),
	}, nil
}

// NewKeySignerFromKeystore creates a signer from an encrypted keystore file.
func NewKeySignerFromKeystore(keystoreJSON []byte, password string) (*KeySigner, error) {
	key, err := keystore.DecryptKey(keystoreJSON, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore: %w", err)
	}
	return &KeySigner{
		privateKey: key.PrivateKey,
		address:    key.Address,
	}, nil
}

// Address returns the signer's Ethereum address.
func (s *KeySigner) Address() common.Address {
	return s.address
}

// SignDigest signs a 32-byte digest.
func (s *KeySigner) SignDigest(ctx context.Context, digest []byte) ([]byte, uint64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if len(digest) != common.HashLength {
		return nil, 0, fmt.Errorf("digest must be %d bytes, got %d", common.HashLength, len(digest))
	}
	sig, err := crypto.Sign(digest, s.privateKey)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to sign: %w", err)
	}
	return sig[:64], uint64(sig[64]), nil
}
