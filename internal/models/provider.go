package models

import (
	"context"
	"math/big"
)

// ProviderEvent names the wallet events the session controller reacts to.
type ProviderEvent string

const (
	EventAccountsChanged ProviderEvent = "accountsChanged"
	EventChainChanged    ProviderEvent = "chainChanged"
	EventDisconnect      ProviderEvent = "disconnect"
)

// Provider is the injected wallet surface: a JSON-RPC request method plus an
// event stream. Handlers are delivered in emission order; the provider does
// no coalescing.
type Provider interface {
	// Request performs a single JSON-RPC call and decodes the response into
	// result. The payload for event handlers is the new account for
	// accountsChanged (possibly empty), the hex chain id for chainChanged,
	// and a reason string for disconnect.
	Request(ctx context.Context, result interface{}, method string, args ...interface{}) error

	// On registers an event handler. Multiple handlers per event are invoked
	// in registration order.
	On(event ProviderEvent, handler func(payload string))

	// Close releases the underlying transport.
	Close()
}

// Reader is a read-only view of the chain bound to the generation it was
// created under. Results produced through a stale reader are discarded.
type Reader struct {
	Provider   Provider
	ChainID    *big.Int
	Generation uint64
}

// Signer submits transactions from the bound account. The wallet signs; the
// core never sees key material.
type Signer struct {
	Provider   Provider
	Account    string
	ChainID    *big.Int
	Generation uint64
}
