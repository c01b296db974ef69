// Package view computes derived read models from store snapshots. Every
// function is pure: no caches, no clocks (callers supply "now"), no failure
// modes.
package view

import (
	"math/big"
	"sort"
	"time"

	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/internal/store"
	"github.com/wishplanet/wishplanet/pkg/validation"
)

// Window lengths match the original leaderboard: calendar-agnostic fixed
// durations.
const (
	weekWindow  = 7 * 24 * time.Hour
	monthWindow = 30 * 24 * time.Hour
	yearWindow  = 365 * 24 * time.Hour
)

// WishesForSign returns the wishes attached to one sign, newest first.
func WishesForSign(snap *store.Snapshot, sign models.Sign) []*models.Wish {
	wishes := append([]*models.Wish{}, snap.ForSign(sign)...)
	sortRanked(wishes, func(w *models.Wish) int64 { return 0 })
	return wishes
}

// Score ranks a wish by likes plus whole native units tipped. The fractional
// part of the tip total is discarded so ranking never touches floats.
func Score(w *models.Wish) int64 {
	score := int64(w.Likes)
	if w.Tips != nil {
		score += new(big.Int).Quo(w.Tips, validation.Unit()).Int64()
	}
	return score
}

// Leaderboard returns the top wishes by score inside the requested time
// window, measured backwards from now. Only confirmed wishes participate.
// Ordering is a stable sort by (-score, -createdAt, -id).
func Leaderboard(snap *store.Snapshot, params models.LeaderboardParams, now time.Time) []*models.Wish {
	cutoff := int64(0)
	switch params.Window {
	case models.WindowWeek:
		cutoff = now.Add(-weekWindow).Unix()
	case models.WindowMonth:
		cutoff = now.Add(-monthWindow).Unix()
	case models.WindowYear:
		cutoff = now.Add(-yearWindow).Unix()
	}

	ranked := make([]*models.Wish, 0, len(snap.Wishes))
	for _, w := range snap.Wishes {
		if !w.Confirmed {
			continue
		}
		if cutoff > 0 && w.CreatedAt < cutoff {
			continue
		}
		ranked = append(ranked, w)
	}
	sortRanked(ranked, Score)

	limit := params.Limit
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit]
}

// ConnectionView projects the session for presentation layers.
func ConnectionView(sess *models.Session, isLoading bool) models.ConnectionView {
	v := models.ConnectionView{
		Status:    sess.Status,
		Account:   sess.Account,
		IsLoading: isLoading,
	}
	if sess.ChainID != nil {
		v.ChainID = sess.ChainID.String()
	}
	if sess.LastError != nil {
		v.LastError = sess.LastError.Error()
	}
	return v
}

// sortRanked orders by (-score, -createdAt, -id): higher scores first, ties
// broken by newer creation, then by larger id.
func sortRanked(wishes []*models.Wish, score func(*models.Wish) int64) {
	sort.SliceStable(wishes, func(i, j int) bool {
		a, b := wishes[i], wishes[j]
		if sa, sb := score(a), score(b); sa != sb {
			return sa > sb
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt > b.CreatedAt
		}
		return a.ID > b.ID
	})
}
