package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "user_rejected", NewError(KindUserRejected, "").Error())
	assert.Equal(t, "reverted: already liked", NewError(KindReverted, "already liked").Error())

	cause := errors.New("boom")
	assert.Equal(t, "transport_error: boom", WrapError(KindTransportError, cause).Error())
}

func TestKindOf(t *testing.T) {
	err := NewError(KindTimeout, "receipt poll gave up")
	assert.Equal(t, KindTimeout, KindOf(err))

	wrapped := fmt.Errorf("like failed: %w", err)
	assert.Equal(t, KindTimeout, KindOf(wrapped))
	assert.True(t, IsKind(wrapped, KindTimeout))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindTimeout))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	assert.True(t, errors.Is(WrapError(KindTransportError, cause), cause))
}
