package services

import (
	"errors"
	"fmt"

	"art-auction/internal/domain"
)

// wrapPersistence tags storage failures so callers can distinguish a
// retryable transaction failure from a validation rejection. Domain errors
// pass through untouched.
func wrapPersistence(err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrPersistence, err)
}

func isDomainError(err error) bool {
	var invalidState *domain.InvalidStateError
	var bidTooLow *domain.BidTooLowError

	switch {
	case errors.Is(err, domain.ErrPersistence),
		errors.Is(err, domain.ErrAuctionNotFound),
		errors.Is(err, domain.ErrArtworkNotFound),
		errors.Is(err, domain.ErrBidNotFound),
		errors.Is(err, domain.ErrOwnAuctionBid),
		errors.Is(err, domain.ErrArtworkOnAuction),
		errors.Is(err, domain.ErrInvalidTimeWindow),
		errors.Is(err, domain.ErrInvalidPrice):
		return true
	case errors.As(err, &invalidState), errors.As(err, &bidTooLow):
		return true
	}
	return false
}
