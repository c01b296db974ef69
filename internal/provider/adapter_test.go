package provider

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/pkg/logger"
)

// fakeProvider scripts RPC responses and lets tests fire wallet events.
type fakeProvider struct {
	respond  func(result interface{}, method string, args ...interface{}) error
	handlers map[models.ProviderEvent][]func(string)
}

func (f *fakeProvider) Request(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	return f.respond(result, method, args...)
}

func (f *fakeProvider) On(event models.ProviderEvent, handler func(payload string)) {
	if f.handlers == nil {
		f.handlers = make(map[models.ProviderEvent][]func(string))
	}
	f.handlers[event] = append(f.handlers[event], handler)
}

func (f *fakeProvider) Close() {}

func (f *fakeProvider) emit(event models.ProviderEvent, payload string) {
	for _, h := range f.handlers[event] {
		h(payload)
	}
}

func walletProvider(account, chainHex string) *fakeProvider {
	return &fakeProvider{
		respond: func(result interface{}, method string, args ...interface{}) error {
			switch method {
			case "eth_requestAccounts":
				*result.(*[]string) = []string{account}
			case "eth_chainId":
				*result.(*string) = chainHex
			}
			return nil
		},
	}
}

func TestDetect(t *testing.T) {
	assert.False(t, NewAdapter(nil, time.Second, logger.NewNop()).Detect())
	assert.True(t, NewAdapter(&fakeProvider{}, time.Second, logger.NewNop()).Detect())
}

func TestConnect(t *testing.T) {
	p := walletProvider("0xAbCd567890abcdef1234567890abcdef12345678", "0x279f")
	a := NewAdapter(p, time.Second, logger.NewNop())

	account, chainID, err := a.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0xAbCd567890abcdef1234567890abcdef12345678", account)
	assert.Equal(t, int64(10143), chainID.Int64())
}

func TestConnectNoProvider(t *testing.T) {
	a := NewAdapter(nil, time.Second, logger.NewNop())
	_, _, err := a.Connect(context.Background())
	assert.True(t, models.IsKind(err, models.KindNoProvider))
}

func TestConnectRejected(t *testing.T) {
	p := &fakeProvider{
		respond: func(result interface{}, method string, args ...interface{}) error {
			return &rpcError{code: 4001, msg: "User rejected the request"}
		},
	}
	a := NewAdapter(p, time.Second, logger.NewNop())
	_, _, err := a.Connect(context.Background())
	assert.True(t, models.IsKind(err, models.KindUserRejected))
}

func TestConnectEmptyAccounts(t *testing.T) {
	p := &fakeProvider{
		respond: func(result interface{}, method string, args ...interface{}) error {
			return nil
		},
	}
	a := NewAdapter(p, time.Second, logger.NewNop())
	_, _, err := a.Connect(context.Background())
	assert.True(t, models.IsKind(err, models.KindUserRejected))
}

func TestSignerRequiresAccount(t *testing.T) {
	p := walletProvider("0xabc4567890abcdef1234567890abcdef12345678", "0x1")
	a := NewAdapter(p, time.Second, logger.NewNop())

	_, err := a.Signer(1)
	assert.True(t, models.IsKind(err, models.KindUserRejected))

	_, _, err = a.Connect(context.Background())
	require.NoError(t, err)

	signer, err := a.Signer(2)
	require.NoError(t, err)
	assert.Equal(t, "0xabc4567890abcdef1234567890abcdef12345678", signer.Account)
	assert.Equal(t, uint64(2), signer.Generation)
}

func TestReaderCarriesGeneration(t *testing.T) {
	p := walletProvider("0xabc4567890abcdef1234567890abcdef12345678", "0x1")
	a := NewAdapter(p, time.Second, logger.NewNop())
	_, _, err := a.Connect(context.Background())
	require.NoError(t, err)

	reader, err := a.Reader(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), reader.Generation)
	assert.Equal(t, int64(1), reader.ChainID.Int64())
}

func TestEventsUpdateAdapterState(t *testing.T) {
	p := walletProvider("0xabc4567890abcdef1234567890abcdef12345678", "0x1")
	a := NewAdapter(p, time.Second, logger.NewNop())
	_, _, err := a.Connect(context.Background())
	require.NoError(t, err)

	// The adapter's own handlers run before external subscribers, so a signer
	// built inside an event callback already sees the new identity.
	p.emit(models.EventAccountsChanged, "0xdef4567890abcdef1234567890abcdef12345678")
	p.emit(models.EventChainChanged, "0x2")

	signer, err := a.Signer(3)
	require.NoError(t, err)
	assert.Equal(t, "0xdef4567890abcdef1234567890abcdef12345678", signer.Account)
	assert.Equal(t, int64(2), signer.ChainID.Int64())
}

func TestDisconnectDropsIdentity(t *testing.T) {
	p := walletProvider("0xabc4567890abcdef1234567890abcdef12345678", "0x1")
	a := NewAdapter(p, time.Second, logger.NewNop())
	_, _, err := a.Connect(context.Background())
	require.NoError(t, err)

	a.Disconnect()
	_, err = a.Signer(1)
	assert.True(t, models.IsKind(err, models.KindUserRejected))
}
