package models

import "context"

// LeaderboardWindow restricts ranking to wishes created inside the window.
type LeaderboardWindow string

const (
	WindowAll   LeaderboardWindow = "all"
	WindowWeek  LeaderboardWindow = "week"
	WindowMonth LeaderboardWindow = "month"
	WindowYear  LeaderboardWindow = "year"
)

// ParseWindow validates a window name, defaulting to WindowAll for the empty
// string.
func ParseWindow(s string) (LeaderboardWindow, bool) {
	switch LeaderboardWindow(s) {
	case "":
		return WindowAll, true
	case WindowAll, WindowWeek, WindowMonth, WindowYear:
		return LeaderboardWindow(s), true
	}
	return "", false
}

// LeaderboardParams parameterizes the derived leaderboard view.
type LeaderboardParams struct {
	Window LeaderboardWindow
	Limit  int
}

// WishPlanetI is the presentation contract of the core: intents, queries and
// the single change subscription. Intents never return raw provider errors;
// failures are classified, recorded on the session and surfaced through the
// notifier.
type WishPlanetI interface {
	// Intents.
	Connect(ctx context.Context) error
	Disconnect()
	SubmitWish(ctx context.Context, draft *WishDraft) error
	LikeWish(ctx context.Context, id int64) error
	TipWish(ctx context.Context, id int64, amount string) error
	Reload(ctx context.Context)

	// Queries.
	ConnectionView() ConnectionView
	WishesForSign(sign Sign) []*Wish
	Leaderboard(params LeaderboardParams) []*Wish

	// OnChange registers a callback fired after every store or session
	// mutation. Batching is the presenter's responsibility.
	OnChange(fn func())
}
