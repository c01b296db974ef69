package store

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/pkg/logger"
)

func newTestStore() *Store {
	return NewStore(logger.NewNop())
}

func confirmedWish(id int64, sign models.Sign) *models.Wish {
	return &models.Wish{
		ID:        id,
		Author:    "0x1234567890abcdef1234567890abcdef12345678",
		Content:   "wish",
		Sign:      sign,
		CreatedAt: 1700000000 + id,
		Tips:      big.NewInt(0),
		Confirmed: true,
	}
}

func TestReplaceAll(t *testing.T) {
	s := newTestStore()

	ok, err := s.ReplaceAll([]*models.Wish{
		confirmedWish(1, models.SignTop),
		confirmedWish(2, models.SignRight),
	}, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, uint64(1), s.Generation())

	w, found := s.Get(2)
	require.True(t, found)
	assert.Equal(t, models.SignRight, w.Sign)
}

func TestReplaceAllRejectsDuplicateIDs(t *testing.T) {
	s := newTestStore()
	_, err := s.ReplaceAll([]*models.Wish{
		confirmedWish(1, models.SignTop),
		confirmedWish(1, models.SignLeft),
	}, 1)
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestReplaceAllDiscardsStaleGeneration(t *testing.T) {
	s := newTestStore()

	ok, err := s.ReplaceAll([]*models.Wish{confirmedWish(1, models.SignTop)}, 5)
	require.NoError(t, err)
	require.True(t, ok)

	// A slower load from an older generation must not clobber newer state.
	ok, err = s.ReplaceAll([]*models.Wish{confirmedWish(99, models.SignTop)}, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	_, found := s.Get(99)
	assert.False(t, found)
	assert.Equal(t, uint64(5), s.Generation())
}

func TestClear(t *testing.T) {
	s := newTestStore()
	_, err := s.ReplaceAll([]*models.Wish{confirmedWish(1, models.SignTop)}, 1)
	require.NoError(t, err)

	s.Clear(0) // stale, ignored
	assert.Equal(t, 1, s.Len())

	s.Clear(2)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(2), s.Generation())
}

func TestOptimisticLifecycle(t *testing.T) {
	s := newTestStore()

	draft := &models.Wish{Author: "0xabc", Content: "soon", Sign: models.SignFront}
	tempID := s.ApplyOptimistic(draft)
	assert.Negative(t, tempID)

	temp, found := s.Get(tempID)
	require.True(t, found)
	assert.False(t, temp.Confirmed)

	confirmed := confirmedWish(7, models.SignFront)
	require.NoError(t, s.ConfirmOptimistic(tempID, confirmed))

	_, found = s.Get(tempID)
	assert.False(t, found)
	got, found := s.Get(7)
	require.True(t, found)
	assert.True(t, got.Confirmed)
}

func TestConfirmOptimisticAfterRacingReload(t *testing.T) {
	s := newTestStore()

	tempID := s.ApplyOptimistic(&models.Wish{Content: "raced", Sign: models.SignTop})

	// A reload already delivered the confirmed wish under its real id.
	_, err := s.ReplaceAll([]*models.Wish{confirmedWish(7, models.SignTop)}, 1)
	require.NoError(t, err)

	// The temp entry is gone with the reload; confirming it is an error the
	// caller can log and ignore.
	err = s.ConfirmOptimistic(tempID, confirmedWish(7, models.SignTop))
	assert.Error(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestConfirmOptimisticDropsTempWhenRealIDPresent(t *testing.T) {
	s := newTestStore()

	_, err := s.ReplaceAll([]*models.Wish{confirmedWish(7, models.SignTop)}, 1)
	require.NoError(t, err)
	tempID := s.ApplyOptimistic(&models.Wish{Content: "dup", Sign: models.SignTop})

	require.NoError(t, s.ConfirmOptimistic(tempID, confirmedWish(7, models.SignTop)))
	assert.Equal(t, 1, s.Len())
}

func TestConfirmOptimisticRejectsNegativeID(t *testing.T) {
	s := newTestStore()
	tempID := s.ApplyOptimistic(&models.Wish{Content: "x", Sign: models.SignTop})

	err := s.ConfirmOptimistic(tempID, &models.Wish{ID: -5, Sign: models.SignTop})
	assert.Error(t, err)
}

func TestRejectOptimistic(t *testing.T) {
	s := newTestStore()
	tempID := s.ApplyOptimistic(&models.Wish{Content: "failed", Sign: models.SignBottom})

	s.RejectOptimistic(tempID)
	_, found := s.Get(tempID)
	assert.False(t, found)

	// Rejecting twice is harmless.
	s.RejectOptimistic(tempID)
}

func TestTempIDsAreUnique(t *testing.T) {
	s := newTestStore()
	a := s.ApplyOptimistic(&models.Wish{Content: "a", Sign: models.SignTop})
	b := s.ApplyOptimistic(&models.Wish{Content: "b", Sign: models.SignTop})
	assert.NotEqual(t, a, b)
	assert.Negative(t, a)
	assert.Negative(t, b)
}

func TestBumpLikes(t *testing.T) {
	s := newTestStore()
	_, err := s.ReplaceAll([]*models.Wish{confirmedWish(1, models.SignTop)}, 1)
	require.NoError(t, err)

	require.NoError(t, s.BumpLikes(1, 1))
	require.NoError(t, s.BumpLikes(1, 2))
	w, _ := s.Get(1)
	assert.Equal(t, uint64(3), w.Likes)

	assert.Error(t, s.BumpLikes(1, -1))
	assert.Error(t, s.BumpLikes(42, 1))
}

func TestBumpTips(t *testing.T) {
	s := newTestStore()
	_, err := s.ReplaceAll([]*models.Wish{confirmedWish(1, models.SignTop)}, 1)
	require.NoError(t, err)

	require.NoError(t, s.BumpTips(1, big.NewInt(100)))
	require.NoError(t, s.BumpTips(1, big.NewInt(50)))
	w, _ := s.Get(1)
	assert.Equal(t, int64(150), w.Tips.Int64())

	assert.Error(t, s.BumpTips(1, big.NewInt(-1)))
	assert.Error(t, s.BumpTips(1, nil))
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestStore()
	_, err := s.ReplaceAll([]*models.Wish{
		confirmedWish(2, models.SignTop),
		confirmedWish(1, models.SignTop),
		confirmedWish(3, models.SignLeft),
	}, 1)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, uint64(1), snap.Generation)
	require.Len(t, snap.Wishes, 3)
	assert.Equal(t, int64(1), snap.Wishes[0].ID)
	assert.Equal(t, int64(2), snap.Wishes[1].ID)
	assert.Equal(t, int64(3), snap.Wishes[2].ID)

	top := snap.ForSign(models.SignTop)
	require.Len(t, top, 2)
	assert.Equal(t, int64(1), top[0].ID)

	// Mutating the snapshot must not leak into the store.
	snap.Wishes[0].Likes = 999
	w, _ := s.Get(1)
	assert.Equal(t, uint64(0), w.Likes)

	// Nor do later store mutations bleed into the snapshot.
	require.NoError(t, s.BumpLikes(1, 5))
	assert.Equal(t, uint64(999), snap.Wishes[0].Likes)
}
