package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/pkg/logger"
)

// RPCProvider is a models.Provider backed by a go-ethereum rpc.Client. It is
// the dial-path equivalent of a browser-injected wallet object: request goes
// over JSON-RPC, events are pushed in by whoever owns the wallet state
// (tests, or an embedding application).
type RPCProvider struct {
	logger *logger.Logger
	client *rpc.Client

	mu       sync.Mutex
	handlers map[models.ProviderEvent][]func(string)
}

// Dial connects to the wallet RPC endpoint.
func Dial(url string, logger *logger.Logger) (*RPCProvider, error) {
	client, err := rpc.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the wallet RPC endpoint: %w", err)
	}
	return &RPCProvider{
		logger:   logger,
		client:   client,
		handlers: make(map[models.ProviderEvent][]func(string)),
	}, nil
}

func (p *RPCProvider) Request(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return p.client.CallContext(ctx, result, method, args...)
}

func (p *RPCProvider) On(event models.ProviderEvent, handler func(payload string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[event] = append(p.handlers[event], handler)
}

// Emit delivers an event to every registered handler in registration order.
// No coalescing happens here; bursts are the session controller's problem.
func (p *RPCProvider) Emit(event models.ProviderEvent, payload string) {
	p.mu.Lock()
	handlers := append([]func(string){}, p.handlers[event]...)
	p.mu.Unlock()

	for _, h := range handlers {
		h(payload)
	}
}

func (p *RPCProvider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}
