package models

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSign(t *testing.T) {
	for i := 0; i < SignCount; i++ {
		sign, err := ParseSign(fmt.Sprintf("sign_%d", i))
		require.NoError(t, err)
		assert.Equal(t, Sign(fmt.Sprintf("sign_%d", i)), sign)
	}

	for _, bad := range []string{"", "sign_5", "sign_-1", "top", "SIGN_0"} {
		_, err := ParseSign(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestSignForWishID(t *testing.T) {
	// The fallback mapping must be stable across calls and land on a valid sign.
	for _, id := range []int64{0, 1, 7, 42, 9999} {
		sign := SignForWishID(id)
		_, err := ParseSign(string(sign))
		require.NoError(t, err, "id %d", id)
		assert.Equal(t, sign, SignForWishID(id), "id %d", id)
	}
}

func TestWishClone(t *testing.T) {
	w := &Wish{ID: 3, Author: "0xabc", Content: "hello", Sign: SignTop, Tips: big.NewInt(100)}
	c := w.Clone()

	c.Tips.Add(c.Tips, big.NewInt(50))
	c.Content = "changed"

	assert.Equal(t, int64(100), w.Tips.Int64())
	assert.Equal(t, "hello", w.Content)
}

func TestWishCloneNilTips(t *testing.T) {
	w := &Wish{ID: 1}
	c := w.Clone()
	require.NotNil(t, c.Tips)
	assert.Equal(t, 0, c.Tips.Sign())
}
