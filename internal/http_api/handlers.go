package http_api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/pkg/validation"
)

// WishResponse is the wire form of a wish. Tips are rendered as a decimal
// string so clients never receive a 256-bit JSON number.
type WishResponse struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	Nickname  string `json:"nickname"`
	Content   string `json:"content"`
	SignID    string `json:"sign_id"`
	CreatedAt int64  `json:"created_at"`
	Likes     uint64 `json:"likes"`
	Tips      string `json:"tips"`
	Confirmed bool   `json:"confirmed"`
}

// SubmitWishRequest represents the JSON body for creating a wish
type SubmitWishRequest struct {
	Content  string `json:"content" binding:"required"`
	Nickname string `json:"nickname"`
	SignID   string `json:"sign_id" binding:"required"`
}

// TipRequest represents the JSON body for tipping a wish
type TipRequest struct {
	Amount string `json:"amount" binding:"required"`
}

func toWishResponse(w *models.Wish) WishResponse {
	return WishResponse{
		ID:        w.ID,
		Author:    w.Author,
		Nickname:  w.Nickname,
		Content:   w.Content,
		SignID:    string(w.Sign),
		CreatedAt: w.CreatedAt,
		Likes:     w.Likes,
		Tips:      validation.FormatAmount(w.Tips),
		Confirmed: w.Confirmed,
	}
}

func toWishResponses(wishes []*models.Wish) []WishResponse {
	out := make([]WishResponse, 0, len(wishes))
	for _, w := range wishes {
		out = append(out, toWishResponse(w))
	}
	return out
}

// statusForError maps a classified core error to an HTTP status.
func statusForError(err error) int {
	switch models.KindOf(err) {
	case models.KindInvalidArgument:
		return http.StatusBadRequest
	case models.KindUserRejected, models.KindAlreadyPending:
		return http.StatusConflict
	case models.KindNoProvider:
		return http.StatusServiceUnavailable
	case models.KindTimeout:
		return http.StatusGatewayTimeout
	case models.KindInsufficientFunds, models.KindReverted, models.KindChainMismatch:
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}

// connection is the handler for GET /connection.
func (s *HTTPServer) connection(c *gin.Context) {
	c.JSON(http.StatusOK, s.planet.ConnectionView())
}

// wishesForSign is the handler for GET /signs/:sign/wishes.
func (s *HTTPServer) wishesForSign(c *gin.Context) {
	sign, err := models.ParseSign(c.Param("sign"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid sign id: " + c.Param("sign"),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sign_id": string(sign),
		"wishes":  toWishResponses(s.planet.WishesForSign(sign)),
	})
}

// leaderboard is the handler for GET /leaderboard.
func (s *HTTPServer) leaderboard(c *gin.Context) {
	window, ok := models.ParseWindow(c.Query("window"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid window: " + c.Query("window"),
		})
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "Invalid limit: " + raw,
			})
			return
		}
		limit = parsed
	}

	wishes := s.planet.Leaderboard(models.LeaderboardParams{Window: window, Limit: limit})
	c.JSON(http.StatusOK, gin.H{
		"window": string(window),
		"wishes": toWishResponses(wishes),
	})
}

// connect is the handler for POST /connect.
func (s *HTTPServer) connect(c *gin.Context) {
	if err := s.planet.Connect(c.Request.Context()); err != nil {
		c.JSON(statusForError(err), gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, s.planet.ConnectionView())
}

// disconnect is the handler for POST /disconnect.
func (s *HTTPServer) disconnect(c *gin.Context) {
	s.planet.Disconnect()
	c.JSON(http.StatusOK, s.planet.ConnectionView())
}

// reload is the handler for POST /reload.
func (s *HTTPServer) reload(c *gin.Context) {
	s.planet.Reload(c.Request.Context())
	c.JSON(http.StatusAccepted, gin.H{"success": true})
}

// submitWish is the handler for POST /wishes.
func (s *HTTPServer) submitWish(c *gin.Context) {
	var req SubmitWishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debugw("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	draft := &models.WishDraft{
		Content:  req.Content,
		Nickname: req.Nickname,
		Sign:     models.Sign(req.SignID),
	}
	if err := s.planet.SubmitWish(c.Request.Context(), draft); err != nil {
		c.JSON(statusForError(err), gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// likeWish is the handler for POST /wishes/:id/like.
func (s *HTTPServer) likeWish(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid wish id: " + c.Param("id"),
		})
		return
	}

	if err := s.planet.LikeWish(c.Request.Context(), id); err != nil {
		c.JSON(statusForError(err), gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// tipWish is the handler for POST /wishes/:id/tip.
func (s *HTTPServer) tipWish(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid wish id: " + c.Param("id"),
		})
		return
	}

	var req TipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Debugw("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid request body: " + err.Error(),
		})
		return
	}

	if err := s.planet.TipWish(c.Request.Context(), id, req.Amount); err != nil {
		c.JSON(statusForError(err), gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
