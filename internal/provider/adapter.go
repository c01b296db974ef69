package provider

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/pkg/logger"
)

// Adapter wraps the injected wallet provider: presence detection, account
// permission requests, event subscription and generation-stamped readers and
// signers. It performs no retries and holds no business state.
type Adapter struct {
	logger  *logger.Logger
	timeout time.Duration

	mu       sync.RWMutex
	provider models.Provider
	account  string
	chainID  *big.Int
}

// NewAdapter wires the adapter to a provider, which may be nil when no wallet
// is present. The timeout applies to every RPC issued through a reader or
// signer obtained from this adapter.
func NewAdapter(p models.Provider, timeout time.Duration, logger *logger.Logger) *Adapter {
	a := &Adapter{logger: logger, provider: p, timeout: timeout}
	if p != nil {
		// Internal handlers registered first so readers and signers created
		// after an event observe the new account and chain.
		p.On(models.EventAccountsChanged, func(account string) {
			a.mu.Lock()
			a.account = account
			a.mu.Unlock()
		})
		p.On(models.EventChainChanged, func(chainHex string) {
			id, err := hexutil.DecodeBig(chainHex)
			if err != nil {
				a.logger.Warnw("Failed to decode chainChanged payload", "payload", chainHex, "error", err)
				return
			}
			a.mu.Lock()
			a.chainID = id
			a.mu.Unlock()
		})
	}
	return a
}

// Detect reports whether a wallet provider is present.
func (a *Adapter) Detect() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.provider != nil
}

// Connect requests account permission from the wallet and resolves the active
// chain. Fails with KindNoProvider, KindUserRejected or KindAlreadyPending.
func (a *Adapter) Connect(ctx context.Context) (string, *big.Int, error) {
	a.mu.RLock()
	p := a.provider
	a.mu.RUnlock()
	if p == nil {
		return "", nil, models.NewError(models.KindNoProvider, "no wallet provider detected")
	}

	var accounts []string
	if err := a.request(ctx, p, &accounts, "eth_requestAccounts"); err != nil {
		return "", nil, err
	}
	if len(accounts) == 0 {
		return "", nil, models.NewError(models.KindUserRejected, "wallet returned no accounts")
	}

	var chainHex string
	if err := a.request(ctx, p, &chainHex, "eth_chainId"); err != nil {
		return "", nil, err
	}
	chainID, err := hexutil.DecodeBig(chainHex)
	if err != nil {
		return "", nil, models.WrapError(models.KindTransportError, err)
	}

	a.mu.Lock()
	a.account = accounts[0]
	a.chainID = chainID
	a.mu.Unlock()

	return accounts[0], chainID, nil
}

// Disconnect drops local references. Wallet permissions are not revoked; the
// provider API has no revocation call.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	a.account = ""
	a.chainID = nil
	a.mu.Unlock()
}

// On registers an event handler on the underlying provider. Handlers run in
// the order the provider emits events, after the adapter's own bookkeeping.
func (a *Adapter) On(event models.ProviderEvent, handler func(payload string)) {
	a.mu.RLock()
	p := a.provider
	a.mu.RUnlock()
	if p != nil {
		p.On(event, handler)
	}
}

// Reader returns a read-only chain view stamped with the given generation.
func (a *Adapter) Reader(generation uint64) (*models.Reader, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.provider == nil {
		return nil, models.NewError(models.KindNoProvider, "no wallet provider detected")
	}
	return &models.Reader{
		Provider:   &timeoutProvider{inner: a.provider, timeout: a.timeout},
		ChainID:    a.chainID,
		Generation: generation,
	}, nil
}

// Signer returns a transaction submitter bound to the current account,
// stamped with the given generation.
func (a *Adapter) Signer(generation uint64) (*models.Signer, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.provider == nil {
		return nil, models.NewError(models.KindNoProvider, "no wallet provider detected")
	}
	if a.account == "" {
		return nil, models.NewError(models.KindUserRejected, "no account connected")
	}
	return &models.Signer{
		Provider:   &timeoutProvider{inner: a.provider, timeout: a.timeout},
		Account:    a.account,
		ChainID:    a.chainID,
		Generation: generation,
	}, nil
}

func (a *Adapter) request(ctx context.Context, p models.Provider, result interface{}, method string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	if err := p.Request(ctx, result, method, args...); err != nil {
		return Classify(err)
	}
	return nil
}

// timeoutProvider applies the adapter's per-RPC timeout and classifies every
// failure before it escapes to callers.
type timeoutProvider struct {
	inner   models.Provider
	timeout time.Duration
}

func (t *timeoutProvider) Request(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	if err := t.inner.Request(ctx, result, method, args...); err != nil {
		return Classify(err)
	}
	return nil
}

func (t *timeoutProvider) On(event models.ProviderEvent, handler func(payload string)) {
	t.inner.On(event, handler)
}

func (t *timeoutProvider) Close() {}
