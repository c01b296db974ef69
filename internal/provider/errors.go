package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/wishplanet/wishplanet/internal/models"
)

// EIP-1193 / JSON-RPC error codes emitted by wallet providers.
const (
	codeUserRejected   = 4001
	codeAlreadyPending = -32002
	codeReverted       = 3
)

// Classify maps a raw provider error into the core taxonomy. The adapter
// performs no retries; retryability is encoded in the kind.
func Classify(err error) *models.Error {
	if err == nil {
		return nil
	}

	// Already classified upstream.
	var ce *models.Error
	if errors.As(err, &ce) {
		return ce
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return models.WrapError(models.KindTimeout, err)
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case codeUserRejected:
			return models.WrapError(models.KindUserRejected, err)
		case codeAlreadyPending:
			return models.WrapError(models.KindAlreadyPending, err)
		case codeReverted:
			return &models.Error{Kind: models.KindReverted, Reason: RevertReason(err), Err: err}
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return models.WrapError(models.KindInsufficientFunds, err)
	case strings.Contains(msg, "execution reverted"), strings.Contains(msg, "revert"):
		return &models.Error{Kind: models.KindReverted, Reason: RevertReason(err), Err: err}
	}

	return models.WrapError(models.KindTransportError, err)
}

// RevertReason extracts the human-readable revert string from a provider
// error, falling back to the raw message.
func RevertReason(err error) string {
	msg := err.Error()
	if _, reason, ok := strings.Cut(msg, "execution reverted:"); ok {
		return strings.TrimSpace(reason)
	}
	if _, reason, ok := strings.Cut(msg, "revert:"); ok {
		return strings.TrimSpace(reason)
	}
	return msg
}
