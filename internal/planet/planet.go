package planet

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/wishplanet/wishplanet/internal/config"
	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/internal/provider"
	"github.com/wishplanet/wishplanet/internal/store"
	"github.com/wishplanet/wishplanet/internal/view"
	"github.com/wishplanet/wishplanet/pkg/logger"
	"github.com/wishplanet/wishplanet/pkg/validation"
)

// WishPlanet is the session controller: it drives the wallet connection
// lifecycle, arbitrates reloads against account and chain changes, and is the
// single writer of the session and the wish store.
//
// Intents classify their failures, record them on the session and surface
// user-actionable ones through the notifier; background staleness is silent.
type WishPlanet struct {
	logger *logger.Logger
	config *config.Config

	adapter  *provider.Adapter
	gateway  models.ContractGateway
	store    *store.Store
	notifier models.Notifier

	mu       sync.Mutex
	session  models.Session
	reloads  int
	debounce *time.Timer

	changeMu sync.Mutex
	onChange []func()
}

var _ models.WishPlanetI = (*WishPlanet)(nil)

// NewWishPlanet wires the controller and subscribes it to provider events.
// It is the only component that listens to the wallet.
func NewWishPlanet(
	adapter *provider.Adapter,
	gateway models.ContractGateway,
	store *store.Store,
	notifier models.Notifier,
	logger *logger.Logger,
	config *config.Config,
) *WishPlanet {
	p := &WishPlanet{
		logger:   logger,
		config:   config,
		adapter:  adapter,
		gateway:  gateway,
		store:    store,
		notifier: notifier,
		session:  models.Session{Status: models.StatusDisconnected},
	}

	adapter.On(models.EventAccountsChanged, p.handleAccountsChanged)
	adapter.On(models.EventChainChanged, p.handleChainChanged)
	adapter.On(models.EventDisconnect, func(reason string) {
		p.logger.Infow("Provider disconnected", "reason", reason)
		p.Disconnect()
	})

	return p
}

// Connect requests wallet access and loads the registry. Calling it while
// already connected with the same account is a no-op.
func (p *WishPlanet) Connect(ctx context.Context) error {
	p.mu.Lock()
	if p.session.Status == models.StatusConnected || p.session.Status == models.StatusConnecting {
		p.mu.Unlock()
		return nil
	}
	prior := p.session.Status
	p.session.Status = models.StatusConnecting
	p.mu.Unlock()
	p.notifyChange()

	account, chainID, err := p.adapter.Connect(ctx)
	if err != nil {
		p.mu.Lock()
		switch models.KindOf(err) {
		case models.KindUserRejected, models.KindAlreadyPending:
			// User intent, or a request already sitting in the wallet:
			// return to the prior state without recording an error.
			p.session.Status = prior
		default:
			p.session.Status = models.StatusError
			p.session.LastError = err
		}
		p.mu.Unlock()

		switch models.KindOf(err) {
		case models.KindAlreadyPending:
			p.notifier.Info("钱包中已有待处理的连接请求")
		case models.KindUserRejected:
			// Silent.
		default:
			p.notifier.Error("连接钱包失败")
		}
		p.notifyChange()
		return err
	}

	p.mu.Lock()
	p.session.Account = validation.NormalizeAddress(account)
	p.session.ChainID = chainID
	p.session.Status = models.StatusConnected
	p.session.LastError = nil
	p.session.Generation++
	gen := p.session.Generation
	p.mu.Unlock()
	p.notifyChange()

	if !p.checkChain(chainID, gen) {
		return nil
	}
	go p.reload(gen)
	return nil
}

// Disconnect clears local wallet references and empties the store. Wallet
// permissions are not revoked.
func (p *WishPlanet) Disconnect() {
	p.adapter.Disconnect()

	p.mu.Lock()
	p.session.Generation++
	gen := p.session.Generation
	p.session = models.Session{Status: models.StatusDisconnected, Generation: gen}
	p.mu.Unlock()

	p.store.Clear(gen)
	p.notifyChange()
}

// SubmitWish creates a wish on chain. The wish is optimistically visible
// immediately and confirmed or rolled back when the transaction resolves.
func (p *WishPlanet) SubmitWish(ctx context.Context, draft *models.WishDraft) error {
	if err := p.requireConnected(); err != nil {
		return err
	}

	// Validate before the optimistic insert so an invalid draft never
	// becomes visible.
	content, err := validation.ValidateContent(draft.Content)
	if err != nil {
		return models.WrapError(models.KindInvalidArgument, err)
	}
	if err := validation.ValidateNickname(draft.Nickname); err != nil {
		return models.WrapError(models.KindInvalidArgument, err)
	}
	sign, err := models.ParseSign(string(draft.Sign))
	if err != nil {
		return models.WrapError(models.KindInvalidArgument, err)
	}

	p.mu.Lock()
	account := p.session.Account
	gen := p.session.Generation
	p.mu.Unlock()

	optimistic := &models.Wish{
		Author:    account,
		Nickname:  draft.Nickname,
		Content:   content,
		Sign:      sign,
		CreatedAt: time.Now().Unix(),
		Tips:      new(big.Int),
	}
	tempID := p.store.ApplyOptimistic(optimistic)
	p.notifyChange()

	signer, err := p.adapter.Signer(gen)
	if err != nil {
		p.store.RejectOptimistic(tempID)
		p.notifyChange()
		return err
	}

	receipt, err := p.gateway.CreateWish(ctx, signer, draft)
	if err != nil {
		p.store.RejectOptimistic(tempID)
		p.recordError(err, "创建心愿失败，请重试")
		p.notifyChange()
		return err
	}

	confirmed := optimistic.Clone()
	confirmed.ID = receipt.WishID
	confirmed.CreatedAt = receipt.Timestamp
	confirmed.Confirmed = true
	if err := p.store.ConfirmOptimistic(tempID, confirmed); err != nil {
		// A reload replaced the store while the transaction was pending; the
		// confirmed wish arrives with the next read.
		p.logger.Debugw("Optimistic entry vanished before confirmation", "tempID", tempID, "wishID", receipt.WishID)
	}

	p.clearError()
	p.notifier.Success("心愿已成功上链！")
	p.notifyChange()
	return nil
}

// LikeWish likes a wish. A duplicate like is benign: the contract reverts,
// the store is untouched and no error reaches the user.
func (p *WishPlanet) LikeWish(ctx context.Context, id int64) error {
	if err := p.requireConnected(); err != nil {
		return err
	}

	p.mu.Lock()
	gen := p.session.Generation
	p.mu.Unlock()

	signer, err := p.adapter.Signer(gen)
	if err != nil {
		return err
	}

	receipt, err := p.gateway.Like(ctx, signer, id)
	if err != nil {
		switch models.KindOf(err) {
		case models.KindAlreadyLiked:
			p.logger.Debugw("Duplicate like ignored", "id", id)
			return nil
		case models.KindUserRejected:
			return err
		}
		p.recordError(err, "点赞失败，请重试")
		return err
	}

	delta := int64(1)
	if w, ok := p.store.Get(id); ok && receipt.NewLikes > w.Likes {
		delta = int64(receipt.NewLikes - w.Likes)
	}
	if err := p.store.BumpLikes(id, delta); err != nil {
		p.logger.Warnw("Failed to apply like locally", "id", id, "error", err)
	}

	p.clearError()
	p.notifier.Success("点赞成功！")
	p.notifyChange()
	return nil
}

// TipWish tips a wish with a decimal amount of the native unit.
func (p *WishPlanet) TipWish(ctx context.Context, id int64, amount string) error {
	if err := p.requireConnected(); err != nil {
		return err
	}

	p.mu.Lock()
	gen := p.session.Generation
	p.mu.Unlock()

	signer, err := p.adapter.Signer(gen)
	if err != nil {
		return err
	}

	receipt, err := p.gateway.Tip(ctx, signer, id, amount)
	if err != nil {
		switch models.KindOf(err) {
		case models.KindUserRejected:
			return err
		case models.KindInsufficientFunds:
			p.recordError(err, "余额不足，打赏失败")
		default:
			p.recordError(err, "打赏失败，请重试")
		}
		return err
	}

	delta, perr := validation.ParseAmount(amount)
	if perr == nil {
		if w, ok := p.store.Get(id); ok && receipt.NewTipTotal != nil {
			if diff := new(big.Int).Sub(receipt.NewTipTotal, w.Tips); diff.Sign() > 0 {
				delta = diff
			}
		}
		if err := p.store.BumpTips(id, delta); err != nil {
			p.logger.Warnw("Failed to apply tip locally", "id", id, "error", err)
		}
	}

	p.clearError()
	p.notifier.Success(fmt.Sprintf("打赏成功！感谢您的 %s MON 支持！", validation.FormatAmount(delta)))
	p.notifyChange()
	return nil
}

// Reload re-reads the registry under the current generation.
func (p *WishPlanet) Reload(ctx context.Context) {
	p.mu.Lock()
	if p.session.Status != models.StatusConnected && p.session.Status != models.StatusSwitching {
		p.mu.Unlock()
		return
	}
	gen := p.session.Generation
	p.mu.Unlock()

	go p.reload(gen)
}

// ConnectionView projects the current session.
func (p *WishPlanet) ConnectionView() models.ConnectionView {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess := p.session
	return view.ConnectionView(&sess, p.reloads > 0)
}

// WishesForSign returns the wishes attached to one sign, newest first.
func (p *WishPlanet) WishesForSign(sign models.Sign) []*models.Wish {
	return view.WishesForSign(p.store.Snapshot(), sign)
}

// Leaderboard returns the ranked wishes for the given window.
func (p *WishPlanet) Leaderboard(params models.LeaderboardParams) []*models.Wish {
	if params.Limit <= 0 {
		params.Limit = p.config.LeaderboardDefaultLimit
	}
	if params.Window == "" {
		params.Window = models.WindowAll
	}
	return view.Leaderboard(p.store.Snapshot(), params, time.Now())
}

// OnChange registers a callback fired after every store or session mutation.
func (p *WishPlanet) OnChange(fn func()) {
	p.changeMu.Lock()
	defer p.changeMu.Unlock()
	p.onChange = append(p.onChange, fn)
}

// ── provider events ──

func (p *WishPlanet) handleAccountsChanged(account string) {
	if account == "" {
		// Wallet locked or permissions withdrawn.
		p.Disconnect()
		return
	}

	p.mu.Lock()
	if p.session.Status != models.StatusConnected && p.session.Status != models.StatusSwitching {
		p.mu.Unlock()
		return
	}
	p.session.Account = validation.NormalizeAddress(account)
	p.session.Status = models.StatusSwitching
	p.session.Generation++
	p.scheduleReloadLocked()
	p.mu.Unlock()
	p.notifyChange()
}

func (p *WishPlanet) handleChainChanged(chainHex string) {
	chainID, err := config.ParseChainID(chainHex)
	if err != nil {
		p.logger.Warnw("Ignoring malformed chainChanged payload", "payload", chainHex, "error", err)
		return
	}

	p.mu.Lock()
	if p.session.Status != models.StatusConnected && p.session.Status != models.StatusSwitching {
		p.mu.Unlock()
		return
	}
	p.session.ChainID = chainID
	p.session.Status = models.StatusSwitching
	p.session.Generation++
	gen := p.session.Generation
	p.mu.Unlock()
	p.notifyChange()

	if !p.checkChain(chainID, gen) {
		return
	}

	p.mu.Lock()
	p.scheduleReloadLocked()
	p.mu.Unlock()
}

// scheduleReloadLocked coalesces event bursts into a single reload. Caller
// holds p.mu.
func (p *WishPlanet) scheduleReloadLocked() {
	gen := p.session.Generation
	if p.debounce != nil {
		p.debounce.Stop()
	}
	delay := time.Duration(p.config.ReloadDebounceMs) * time.Millisecond
	p.debounce = time.AfterFunc(delay, func() {
		p.mu.Lock()
		current := p.session.Generation
		p.mu.Unlock()
		if current == gen {
			p.reload(gen)
			return
		}
		// A later event rescheduled with a newer generation; this timer is
		// the stale one.
	})
}

// reload reads the full registry under the given generation. A result whose
// generation no longer matches the session is discarded silently; the store's
// own generation guard keeps a late stale result from clobbering a newer one.
func (p *WishPlanet) reload(gen uint64) {
	p.mu.Lock()
	p.reloads++
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.reloads--
		p.mu.Unlock()
	}()

	reader, err := p.adapter.Reader(gen)
	if err != nil {
		p.logger.Warnw("Reload without provider", "error", err)
		return
	}
	if !p.checkChain(reader.ChainID, gen) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(p.config.RPCTimeoutMs)*time.Millisecond)
	defer cancel()
	wishes, err := p.gateway.ListWishes(ctx, reader)

	p.mu.Lock()
	current := p.session.Generation
	if gen != current {
		p.mu.Unlock()
		p.logger.Debugw("Discarding stale reload", "generation", gen, "current", current)
		return
	}
	if err != nil {
		// Stay connected so the user can retry.
		p.session.LastError = err
		if p.session.Status == models.StatusSwitching {
			p.session.Status = models.StatusConnected
		}
		p.mu.Unlock()
		p.notifier.Error("加载心愿数据失败")
		p.notifyChange()
		return
	}
	p.session.LastError = nil
	if p.session.Status == models.StatusSwitching {
		p.session.Status = models.StatusConnected
	}
	p.mu.Unlock()

	applied, aerr := p.store.ReplaceAll(wishes, gen)
	if aerr != nil {
		p.logger.Errorw("Rejecting invalid snapshot", "error", aerr)
		return
	}
	if !applied {
		return
	}

	if len(wishes) > 0 {
		p.notifier.Success(fmt.Sprintf("成功加载 %d 个链上心愿", len(wishes)))
	} else {
		p.notifier.Info("暂无链上心愿数据")
	}
	p.notifyChange()
}

// checkChain verifies the wallet chain against the configured one. On
// mismatch the store is cleared and the user is prompted to switch.
func (p *WishPlanet) checkChain(chainID *big.Int, gen uint64) bool {
	if chainID == nil || chainID.Cmp(p.config.ChainID) == 0 {
		return true
	}

	p.logger.Warnw("Chain mismatch", "wallet", chainID, "configured", p.config.ChainID)
	p.store.Clear(gen)

	p.mu.Lock()
	p.session.LastError = models.NewError(models.KindChainMismatch,
		fmt.Sprintf("wallet is on chain %s, expected %s", chainID, p.config.ChainID))
	p.mu.Unlock()

	p.notifier.Error(fmt.Sprintf("当前网络不正确，请切换到链 %s", p.config.ChainID))
	p.notifyChange()
	return false
}

// ── helpers ──

func (p *WishPlanet) requireConnected() error {
	p.mu.Lock()
	connected := p.session.Status == models.StatusConnected || p.session.Status == models.StatusSwitching
	p.mu.Unlock()
	if !connected {
		p.notifier.Error("请先连接钱包")
		return models.NewError(models.KindNoProvider, "wallet not connected")
	}
	return nil
}

func (p *WishPlanet) recordError(err error, toast string) {
	p.mu.Lock()
	p.session.LastError = err
	p.mu.Unlock()
	p.notifier.Error(toast)
	p.notifyChange()
}

func (p *WishPlanet) clearError() {
	p.mu.Lock()
	p.session.LastError = nil
	p.mu.Unlock()
}

func (p *WishPlanet) notifyChange() {
	p.changeMu.Lock()
	handlers := append([]func(){}, p.onChange...)
	p.changeMu.Unlock()
	for _, fn := range handlers {
		fn()
	}
}
