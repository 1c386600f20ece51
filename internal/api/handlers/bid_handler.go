package handlers

import (
	"net/http"

	"art-auction/internal/domain"
	"art-auction/internal/services"
	"art-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type BidHandler struct {
	bidService *services.BidService
	notifier   domain.NotificationSink
	log        logger.Logger
}

type PlaceBidRequest struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
}

type PlaceBidResponse struct {
	BidID     string  `json:"bid_id"`
	AuctionID string  `json:"auction_id"`
	Amount    float64 `json:"amount"`
}

func NewBidHandler(bidService *services.BidService, notifier domain.NotificationSink, log logger.Logger) *BidHandler {
	return &BidHandler{
		bidService: bidService,
		notifier:   notifier,
		log:        log,
	}
}

func (h *BidHandler) PlaceBid(c echo.Context) error {
	auctionID := c.Param("id")

	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "user_id is required"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
	}

	bid, err := h.bidService.PlaceBid(c.Request().Context(), auctionID, req.UserID, req.Amount)
	if err != nil {
		h.log.Info("Bid rejected", "auction_id", auctionID, "user_id", req.UserID, "error", err)
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, PlaceBidResponse{
		BidID:     bid.ID,
		AuctionID: bid.AuctionID,
		Amount:    bid.Amount,
	})
}

func (h *BidHandler) GetAuctionBids(c echo.Context) error {
	auctionID := c.Param("id")
	limit := intQueryParam(c, "limit", 0)
	offset := intQueryParam(c, "offset", 0)

	bids, err := h.bidService.GetAuctionBids(c.Request().Context(), auctionID, limit, offset)
	if err != nil {
		return writeError(c, err)
	}

	items := make([]map[string]interface{}, 0, len(bids))
	for _, bid := range bids {
		items = append(items, map[string]interface{}{
			"bid_id":     bid.ID,
			"user_id":    bid.UserID,
			"amount":     bid.Amount,
			"created_at": bid.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"auction_id": auctionID, "bids": items})
}

// IsTopBidder answers the "am I winning" poll from auction pages.
func (h *BidHandler) IsTopBidder(c echo.Context) error {
	topBidder, err := h.bidService.IsTopBidder(c.Request().Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"is_top_bidder": topBidder})
}

func (h *BidHandler) ListNotifications(c echo.Context) error {
	userID := c.Param("id")
	limit := intQueryParam(c, "limit", 20)
	offset := intQueryParam(c, "offset", 0)

	notifications, err := h.notifier.ListForUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		h.log.Error("Failed to list notifications", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list notifications"})
	}

	items := make([]map[string]interface{}, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, map[string]interface{}{
			"id":         n.ID,
			"message":    n.Message,
			"link":       n.Link,
			"is_read":    n.IsRead,
			"created_at": n.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"user_id": userID, "notifications": items})
}
