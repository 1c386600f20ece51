package handlers

import (
	"net/http"
	"time"

	"art-auction/internal/services"
	"art-auction/pkg/logger"

	"github.com/labstack/echo/v4"
)

type AuctionHandler struct {
	auctionManager *services.AuctionManager
	log            logger.Logger
}

type CreateAuctionRequest struct {
	ArtworkID     string    `json:"artwork_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	StartingPrice float64   `json:"starting_price"`
	ReservePrice  float64   `json:"reserve_price"`
	MinIncrement  float64   `json:"min_increment"`
}

type CreateAuctionResponse struct {
	AuctionID     string    `json:"auction_id"`
	ArtworkID     string    `json:"artwork_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	StartingPrice float64   `json:"starting_price"`
	MinIncrement  float64   `json:"min_increment"`
	Status        string    `json:"status"`
}

func NewAuctionHandler(auctionManager *services.AuctionManager, log logger.Logger) *AuctionHandler {
	return &AuctionHandler{
		auctionManager: auctionManager,
		log:            log,
	}
}

func (h *AuctionHandler) CreateAuction(c echo.Context) error {
	var req CreateAuctionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.ArtworkID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "artwork_id is required"})
	}

	auction, err := h.auctionManager.CreateAuction(c.Request().Context(),
		req.ArtworkID, req.StartTime, req.EndTime,
		req.StartingPrice, req.ReservePrice, req.MinIncrement)
	if err != nil {
		h.log.Error("Failed to create auction", "artwork_id", req.ArtworkID, "error", err)
		return writeError(c, err)
	}

	response := CreateAuctionResponse{
		AuctionID:     auction.ID,
		ArtworkID:     auction.ArtworkID,
		StartTime:     auction.StartTime,
		EndTime:       auction.EndTime,
		StartingPrice: auction.StartingPrice,
		MinIncrement:  auction.MinIncrement,
		Status:        string(auction.Status),
	}

	h.log.Info("Auction created", "auction_id", auction.ID)
	return c.JSON(http.StatusCreated, response)
}

func (h *AuctionHandler) GetAuction(c echo.Context) error {
	auction, err := h.auctionManager.GetAuction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"auction_id":     auction.ID,
		"artwork_id":     auction.ArtworkID,
		"start_time":     auction.StartTime,
		"end_time":       auction.EndTime,
		"starting_price": auction.StartingPrice,
		"current_price":  auction.CurrentPrice,
		"min_increment":  auction.MinIncrement,
		"status":         string(auction.Status),
		"winner_id":      auction.WinnerID,
	})
}

func (h *AuctionHandler) CancelAuction(c echo.Context) error {
	auctionID := c.Param("id")
	if err := h.auctionManager.CancelAuction(c.Request().Context(), auctionID); err != nil {
		h.log.Error("Failed to cancel auction", "auction_id", auctionID, "error", err)
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"auction_id": auctionID, "status": "cancelled"})
}

func (h *AuctionHandler) GetTimeRemaining(c echo.Context) error {
	remaining, err := h.auctionManager.GetTimeRemaining(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, remaining)
}

// GetState serves the poll loop clients use instead of a push channel.
func (h *AuctionHandler) GetState(c echo.Context) error {
	state, err := h.auctionManager.GetState(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

// RunSweep lets an operator trigger the lifecycle sweep outside the cron
// cadence.
func (h *AuctionHandler) RunSweep(c echo.Context) error {
	transitions, err := h.auctionManager.RunLifecycleSweep(c.Request().Context())
	if err != nil {
		h.log.Error("Sweep finished with errors", "error", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"transitions": transitions})
}
