package models

import (
	"context"
	"math/big"
)

// TxReceipt is the decoded outcome of a confirmed registry transaction.
// Fields beyond TxHash are populated from the event the operation emits.
type TxReceipt struct {
	TxHash      string
	BlockNumber uint64
	// Timestamp is the block timestamp, used as CreatedAt for new wishes.
	Timestamp int64
	// WishID is the affected wish: decoded from WishCreated for creates,
	// echoed from the request for likes and tips.
	WishID int64
	// NewLikes is the counter decoded from WishLiked.
	NewLikes uint64
	// NewTipTotal is the running total decoded from WishTipped.
	NewTipTotal *big.Int
}

// ContractGateway encodes and decodes calls to the WishRegistry contract.
// It validates input before touching the provider and classifies every
// provider failure into a Kind. It never mutates the wish store.
type ContractGateway interface {
	// ListWishes reads the full registry in ascending id order.
	ListWishes(ctx context.Context, reader *Reader) ([]*Wish, error)

	// CreateWish submits a create transaction and waits for one confirmation.
	CreateWish(ctx context.Context, signer *Signer, draft *WishDraft) (*TxReceipt, error)

	// Like submits a like. A duplicate like from the same account fails with
	// KindAlreadyLiked, which callers treat as benign.
	Like(ctx context.Context, signer *Signer, id int64) (*TxReceipt, error)

	// Tip sends a tip to the wish author. Amount is a fixed-point decimal
	// string ("0.015") which the gateway converts to base units; it must be
	// strictly positive.
	Tip(ctx context.Context, signer *Signer, id int64, amount string) (*TxReceipt, error)
}
