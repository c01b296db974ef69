package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishplanet/wishplanet/internal/models"
)

// rpcError mimics the coded errors wallet providers return.
type rpcError struct {
	code int
	msg  string
}

func (e *rpcError) Error() string  { return e.msg }
func (e *rpcError) ErrorCode() int { return e.code }

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}

func TestClassifyPassesThroughClassified(t *testing.T) {
	orig := models.NewError(models.KindChainMismatch, "expected chain 10143")
	got := Classify(fmt.Errorf("reload: %w", orig))
	assert.Same(t, orig, got)
}

func TestClassifyDeadline(t *testing.T) {
	got := Classify(fmt.Errorf("eth_call: %w", context.DeadlineExceeded))
	assert.Equal(t, models.KindTimeout, got.Kind)
}

func TestClassifyProviderCodes(t *testing.T) {
	tests := []struct {
		code int
		want models.Kind
	}{
		{4001, models.KindUserRejected},
		{-32002, models.KindAlreadyPending},
		{3, models.KindReverted},
	}
	for _, tt := range tests {
		got := Classify(&rpcError{code: tt.code, msg: "provider says no"})
		assert.Equal(t, tt.want, got.Kind, "code %d", tt.code)
	}
}

func TestClassifyByMessage(t *testing.T) {
	got := Classify(errors.New("insufficient funds for gas * price + value"))
	assert.Equal(t, models.KindInsufficientFunds, got.Kind)

	got = Classify(errors.New("execution reverted: already liked"))
	require.Equal(t, models.KindReverted, got.Kind)
	assert.Equal(t, "already liked", got.Reason)

	got = Classify(errors.New("connection refused"))
	assert.Equal(t, models.KindTransportError, got.Kind)
}

func TestRevertReason(t *testing.T) {
	assert.Equal(t, "not found", RevertReason(errors.New("execution reverted: not found")))
	assert.Equal(t, "bad id", RevertReason(errors.New("revert: bad id")))
	assert.Equal(t, "something else", RevertReason(errors.New("something else")))
}
