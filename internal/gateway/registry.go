package gateway

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/internal/provider"
	"github.com/wishplanet/wishplanet/pkg/logger"
	"github.com/wishplanet/wishplanet/pkg/validation"
)

const (
	// ReceiptPollInterval is how often a pending transaction is polled for
	// its receipt.
	ReceiptPollInterval = time.Second
	// ConfirmTimeout bounds the wait for one block confirmation. Individual
	// RPCs inside the wait still carry the adapter's per-call timeout.
	ConfirmTimeout = 2 * time.Minute
)

// Registry encodes and decodes calls to the WishRegistry contract. It holds
// no wish state; it only produces values for the session controller.
type Registry struct {
	logger  *logger.Logger
	address common.Address
	abi     abi.ABI
}

// NewRegistry builds the gateway for a deployed WishRegistry.
func NewRegistry(contractAddress string, logger *logger.Logger) (*Registry, error) {
	parsed, err := abi.JSON(strings.NewReader(WishRegistryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse WishRegistry ABI: %w", err)
	}
	return &Registry{
		logger:  logger,
		address: common.HexToAddress(contractAddress),
		abi:     parsed,
	}, nil
}

// ListWishes reads the full registry through getAll() and returns the decoded
// wishes in ascending id order. Legacy records without a sign fall back to
// the deterministic per-id sign.
func (g *Registry) ListWishes(ctx context.Context, reader *models.Reader) ([]*models.Wish, error) {
	input, err := g.abi.Pack("getAll")
	if err != nil {
		return nil, models.WrapError(models.KindInvalidArgument, err)
	}

	var raw hexutil.Bytes
	call := map[string]interface{}{
		"to":   g.address.Hex(),
		"data": hexutil.Encode(input),
	}
	if err := reader.Provider.Request(ctx, &raw, "eth_call", call, "latest"); err != nil {
		return nil, provider.Classify(err)
	}

	values, err := g.abi.Unpack("getAll", raw)
	if err != nil {
		return nil, models.WrapError(models.KindTransportError, fmt.Errorf("failed to decode getAll response: %w", err))
	}
	if len(values) != 8 {
		return nil, models.NewError(models.KindTransportError, fmt.Sprintf("getAll returned %d values, want 8", len(values)))
	}

	ids, ok1 := values[0].([]*big.Int)
	authors, ok2 := values[1].([]common.Address)
	nicknames, ok3 := values[2].([]string)
	contents, ok4 := values[3].([]string)
	signIds, ok5 := values[4].([]string)
	createdAts, ok6 := values[5].([]*big.Int)
	likes, ok7 := values[6].([]*big.Int)
	tips, ok8 := values[7].([]*big.Int)
	if !(ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7 && ok8) {
		return nil, models.NewError(models.KindTransportError, "getAll returned unexpected types")
	}
	n := len(ids)
	if len(authors) != n || len(nicknames) != n || len(contents) != n ||
		len(signIds) != n || len(createdAts) != n || len(likes) != n || len(tips) != n {
		return nil, models.NewError(models.KindTransportError, "getAll returned arrays of mismatched length")
	}

	wishes := make([]*models.Wish, 0, n)
	for i := 0; i < n; i++ {
		id := ids[i].Int64()
		sign, err := models.ParseSign(signIds[i])
		if err != nil {
			sign = models.SignForWishID(id)
		}
		wishes = append(wishes, &models.Wish{
			ID:        id,
			Author:    strings.ToLower(authors[i].Hex()),
			Nickname:  nicknames[i],
			Content:   contents[i],
			Sign:      sign,
			CreatedAt: createdAts[i].Int64(),
			Likes:     likes[i].Uint64(),
			Tips:      new(big.Int).Set(tips[i]),
			Confirmed: true,
		})
	}
	sort.Slice(wishes, func(i, j int) bool { return wishes[i].ID < wishes[j].ID })

	return wishes, nil
}

// CreateWish validates the draft, submits the create transaction and waits
// for one confirmation. The new id and block timestamp are decoded from the
// WishCreated event.
func (g *Registry) CreateWish(ctx context.Context, signer *models.Signer, draft *models.WishDraft) (*models.TxReceipt, error) {
	content, err := validation.ValidateContent(draft.Content)
	if err != nil {
		return nil, models.WrapError(models.KindInvalidArgument, err)
	}
	if err := validation.ValidateNickname(draft.Nickname); err != nil {
		return nil, models.WrapError(models.KindInvalidArgument, err)
	}
	sign, err := models.ParseSign(string(draft.Sign))
	if err != nil {
		return nil, models.WrapError(models.KindInvalidArgument, err)
	}

	input, err := g.abi.Pack("create", content, draft.Nickname, string(sign))
	if err != nil {
		return nil, models.WrapError(models.KindInvalidArgument, err)
	}

	receipt, err := g.submit(ctx, signer, input, nil)
	if err != nil {
		return nil, err
	}

	ev := g.abi.Events["WishCreated"]
	for _, l := range receipt.Logs {
		if len(l.Topics) < 2 || l.Topics[0] != ev.ID {
			continue
		}
		values, err := g.abi.Unpack("WishCreated", l.Data)
		if err != nil || len(values) != 2 {
			return nil, models.NewError(models.KindTransportError, "failed to decode WishCreated event")
		}
		createdAt, ok := values[1].(*big.Int)
		if !ok {
			return nil, models.NewError(models.KindTransportError, "failed to decode WishCreated event")
		}
		return &models.TxReceipt{
			TxHash:      receipt.TxHash.Hex(),
			BlockNumber: receipt.BlockNumber.ToInt().Uint64(),
			Timestamp:   createdAt.Int64(),
			WishID:      new(big.Int).SetBytes(l.Topics[1].Bytes()).Int64(),
		}, nil
	}
	return nil, models.NewError(models.KindTransportError, "confirmed create transaction emitted no WishCreated event")
}

// Like submits a like for the given wish. A duplicate like reverts on chain
// with "already liked", which is translated to KindAlreadyLiked so the UI can
// treat it as benign.
func (g *Registry) Like(ctx context.Context, signer *models.Signer, id int64) (*models.TxReceipt, error) {
	if id < 0 {
		return nil, models.NewError(models.KindInvalidArgument, "cannot like an unconfirmed wish")
	}

	input, err := g.abi.Pack("like", big.NewInt(id))
	if err != nil {
		return nil, models.WrapError(models.KindInvalidArgument, err)
	}

	receipt, err := g.submit(ctx, signer, input, nil)
	if err != nil {
		return nil, translateLikeError(err)
	}

	out := &models.TxReceipt{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber.ToInt().Uint64(),
		WishID:      id,
	}
	ev := g.abi.Events["WishLiked"]
	for _, l := range receipt.Logs {
		if len(l.Topics) < 2 || l.Topics[0] != ev.ID {
			continue
		}
		values, err := g.abi.Unpack("WishLiked", l.Data)
		if err != nil || len(values) != 1 {
			continue
		}
		if newLikes, ok := values[0].(*big.Int); ok {
			out.NewLikes = newLikes.Uint64()
		}
	}
	return out, nil
}

// Tip sends a tip to the wish author. The decimal amount is converted to
// base units with integer arithmetic before encoding.
func (g *Registry) Tip(ctx context.Context, signer *models.Signer, id int64, amount string) (*models.TxReceipt, error) {
	if id < 0 {
		return nil, models.NewError(models.KindInvalidArgument, "cannot tip an unconfirmed wish")
	}
	value, err := validation.ParseAmount(amount)
	if err != nil {
		return nil, models.WrapError(models.KindInvalidArgument, err)
	}
	if value.Sign() <= 0 {
		return nil, models.NewError(models.KindInvalidArgument, "tip amount must be greater than zero")
	}

	input, err := g.abi.Pack("tip", big.NewInt(id))
	if err != nil {
		return nil, models.WrapError(models.KindInvalidArgument, err)
	}

	receipt, err := g.submit(ctx, signer, input, value)
	if err != nil {
		return nil, err
	}

	out := &models.TxReceipt{
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: receipt.BlockNumber.ToInt().Uint64(),
		WishID:      id,
	}
	ev := g.abi.Events["WishTipped"]
	for _, l := range receipt.Logs {
		if len(l.Topics) < 2 || l.Topics[0] != ev.ID {
			continue
		}
		values, err := g.abi.Unpack("WishTipped", l.Data)
		if err != nil || len(values) != 2 {
			continue
		}
		if newTotal, ok := values[1].(*big.Int); ok {
			out.NewTipTotal = new(big.Int).Set(newTotal)
		}
	}
	if out.NewTipTotal == nil {
		out.NewTipTotal = value
	}
	return out, nil
}

// rpcReceipt is the wire form of eth_getTransactionReceipt.
type rpcReceipt struct {
	TxHash      common.Hash    `json:"transactionHash"`
	Status      hexutil.Uint64 `json:"status"`
	BlockNumber *hexutil.Big   `json:"blockNumber"`
	Logs        []*types.Log   `json:"logs"`
}

// submit sends a transaction from the signer's account and polls until it is
// included in a block. value may be nil for non-payable calls.
func (g *Registry) submit(ctx context.Context, signer *models.Signer, input []byte, value *big.Int) (*rpcReceipt, error) {
	tx := map[string]interface{}{
		"from": signer.Account,
		"to":   g.address.Hex(),
		"data": hexutil.Encode(input),
	}
	if value != nil {
		tx["value"] = hexutil.EncodeBig(value)
	}

	var txHash common.Hash
	if err := signer.Provider.Request(ctx, &txHash, "eth_sendTransaction", tx); err != nil {
		return nil, provider.Classify(err)
	}
	g.logger.Debugw("Transaction submitted", "tx", txHash.Hex())

	return g.waitReceipt(ctx, signer, txHash)
}

func (g *Registry) waitReceipt(ctx context.Context, signer *models.Signer, txHash common.Hash) (*rpcReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(ReceiptPollInterval)
	defer ticker.Stop()

	for {
		var receipt *rpcReceipt
		if err := signer.Provider.Request(ctx, &receipt, "eth_getTransactionReceipt", txHash); err != nil {
			return nil, provider.Classify(err)
		}
		if receipt != nil && receipt.BlockNumber != nil {
			if receipt.Status == 0 {
				return nil, models.NewError(models.KindReverted, "transaction reverted")
			}
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, models.WrapError(models.KindTimeout, ctx.Err())
		case <-ticker.C:
		}
	}
}

// translateLikeError upgrades the contract's "already liked" revert into its
// own kind so callers can treat it as a no-op success.
func translateLikeError(err error) error {
	ce := provider.Classify(err)
	if ce.Kind == models.KindReverted && strings.Contains(strings.ToLower(ce.Reason), "already liked") {
		return &models.Error{Kind: models.KindAlreadyLiked, Reason: ce.Reason, Err: ce.Err}
	}
	return ce
}
