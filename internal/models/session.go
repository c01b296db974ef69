package models

import "math/big"

// Status is the connection lifecycle state of the session.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusSwitching    Status = "switching"
	StatusError        Status = "error"
)

// Session is the singleton lifecycle entity owned by the session controller.
type Session struct {
	// Account is the active address, empty when disconnected.
	Account string
	// ChainID is the chain the provider is currently on, nil when unknown.
	ChainID *big.Int
	// Status is the lifecycle state.
	Status Status
	// Generation is bumped on every account or chain change and connect; a
	// reload whose generation no longer matches is discarded on return.
	Generation uint64
	// LastError is the most recent user-actionable failure, cleared on the
	// next successful operation.
	LastError error
}

// ConnectionView is the session projection handed to presentation layers.
type ConnectionView struct {
	Status    Status `json:"status"`
	Account   string `json:"account,omitempty"`
	ChainID   string `json:"chain_id,omitempty"`
	IsLoading bool   `json:"is_loading"`
	LastError string `json:"last_error,omitempty"`
}
