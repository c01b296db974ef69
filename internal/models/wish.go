package models

import (
	"fmt"
	"hash/fnv"
	"math/big"
	"strconv"
)

// SignCount is the number of labeled platforms in the scene.
const SignCount = 5

// Sign identifies the platform a wish is attached to.
type Sign string

const (
	SignTop    Sign = "sign_0"
	SignRight  Sign = "sign_1"
	SignLeft   Sign = "sign_2"
	SignFront  Sign = "sign_3"
	SignBottom Sign = "sign_4"
)

// ParseSign validates a sign identifier coming from user input or chain data.
func ParseSign(s string) (Sign, error) {
	switch Sign(s) {
	case SignTop, SignRight, SignLeft, SignFront, SignBottom:
		return Sign(s), nil
	}
	return "", fmt.Errorf("unknown sign %q", s)
}

// SignForWishID derives the fallback sign for legacy chain records that carry
// no sign field. The mapping must be stable across reloads, so it hashes the
// decimal form of the id.
func SignForWishID(id int64) Sign {
	h := fnv.New32a()
	h.Write([]byte(strconv.FormatInt(id, 10)))
	return Sign("sign_" + strconv.Itoa(int(h.Sum32()%SignCount)))
}

// Wish is the atomic record of the registry.
// A confirmed wish is immutable except for Likes and Tips, which only grow.
type Wish struct {
	// ID is assigned by the contract; optimistic local entries use negative
	// ids so the two spaces never collide.
	ID int64 `json:"id"`
	// Author is the creating account, lowercase 0x-prefixed hex.
	Author string `json:"author"`
	// Nickname is the display name; empty means anonymous.
	Nickname string `json:"nickname"`
	// Content is the wish text, 1-500 code points after trim.
	Content string `json:"content"`
	// Sign is the platform the wish is attached to.
	Sign Sign `json:"sign_id"`
	// CreatedAt is the block timestamp of the creating transaction (unix seconds).
	CreatedAt int64 `json:"created_at"`
	// Likes is the on-chain like counter.
	Likes uint64 `json:"likes"`
	// Tips is the accumulated tip amount in base units (18 decimals).
	// Kept as a big integer so no precision is ever lost.
	Tips *big.Int `json:"tips"`
	// Confirmed is false while the wish is only optimistically visible.
	Confirmed bool `json:"confirmed"`
}

// Clone returns a deep copy so snapshots cannot alias store-owned state.
func (w *Wish) Clone() *Wish {
	c := *w
	if w.Tips != nil {
		c.Tips = new(big.Int).Set(w.Tips)
	} else {
		c.Tips = new(big.Int)
	}
	return &c
}

// WishDraft is the user input for creating a wish, validated by the gateway
// before any encoding happens.
type WishDraft struct {
	Content  string `json:"content"`
	Nickname string `json:"nickname"`
	Sign     Sign   `json:"sign_id"`
}
