package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"art-auction/internal/domain"

	"github.com/labstack/echo/v4"
)

// writeError maps the domain error taxonomy onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	var invalidState *domain.InvalidStateError
	var bidTooLow *domain.BidTooLowError

	switch {
	case errors.Is(err, domain.ErrAuctionNotFound), errors.Is(err, domain.ErrArtworkNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrOwnAuctionBid):
		return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.As(err, &invalidState):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.As(err, &bidTooLow):
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"error":        err.Error(),
			"min_required": bidTooLow.MinRequired,
		})
	case errors.Is(err, domain.ErrArtworkOnAuction):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidTimeWindow), errors.Is(err, domain.ErrInvalidPrice):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
