package known

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/skapa-xyz/chainsign/eip712"
	"github.com/skapa-xyz/chainsign/ethtx"
	"github.com/skapa-xyz/chainsign/signing"
)

// Dispatcher selects the implementation for a coin type.
type Dispatcher struct {
	logger    zerolog.Logger
	hasLogger bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
		d.hasLogger = true
	}
}

// New returns a Dispatcher. Without WithLogger nothing is logged.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Message decodes a message payload. For Ethereum a JSON string is a
// personal message and a JSON object is EIP-712 typed data.
func (d *Dispatcher) Message(coin CoinType, chainID uint64, raw []byte) (*Message, error) {
	if coin != CoinTypeEthereum {
		return nil, fmt.Errorf("%w: %s", ErrUnimplementedCoinType, coin)
	}
	msg := &Message{CoinType: coin, ChainID: chainID, logger: d.logger}

	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) > 0 && trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		msg.Personal = signing.PersonalMessage(s)
	case len(trimmed) > 0 && trimmed[0] == '{':
		td, err := eip712.ParseTypedData(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
		doc, err := eip712.NewDocument(td)
		if err != nil {
			return nil, err
		}
		msg.TypedData = doc
	default:
		return nil, fmt.Errorf("%w: expected a JSON string or object", ErrInvalidPayload)
	}

	d.logger.Debug().Stringer("coin_type", coin).Uint64("chain_id", chainID).Bool("typed", msg.TypedData != nil).Msg("decoded message")
	return msg, nil
}

// TransactionRequest decodes a transaction request payload.
func (d *Dispatcher) TransactionRequest(coin CoinType, chainID uint64, raw []byte) (*TransactionRequest, error) {
	if coin != CoinTypeEthereum {
		return nil, fmt.Errorf("%w: %s", ErrUnimplementedCoinType, coin)
	}
	req, err := ethtx.ParseRequest(raw)
	if err != nil {
		return nil, err
	}

	d.logger.Debug().Stringer("coin_type", coin).Uint64("chain_id", chainID).Msg("decoded transaction request")
	return &TransactionRequest{CoinType: coin, ChainID: chainID, Ethereum: req}, nil
}

// Sign runs signing.Sign, logging through the dispatcher's logger when one
// was configured and through the logger on ctx otherwise.
func (d *Dispatcher) Sign(ctx context.Context, h signing.Hashable, signer signing.Signer) (*signing.Signature, error) {
	if d.hasLogger {
		ctx = d.logger.WithContext(ctx)
	}
	return signing.Sign(ctx, h, signer)
}
