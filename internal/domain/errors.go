package domain

import (
	"errors"
	"fmt"
)

// Lookup errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrArtworkNotFound = errors.New("artwork not found")
	ErrBidNotFound     = errors.New("no bid found")
)

// Business rule errors
var (
	ErrOwnAuctionBid     = errors.New("cannot bid on own auction")
	ErrArtworkOnAuction  = errors.New("artwork is already on auction")
	ErrInvalidTimeWindow = errors.New("end time must be after start time")
	ErrInvalidPrice      = errors.New("starting price must be positive")
)

// ErrPersistence marks transient storage failures; callers may retry the
// whole operation, nothing was committed.
var ErrPersistence = errors.New("persistence failure")

// InvalidStateError reports a lifecycle precondition violation, e.g. bidding
// on an auction that is not active.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid auction state: %s", e.Reason)
}

// BidTooLowError carries the computed minimum so clients can display it.
type BidTooLowError struct {
	MinRequired float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid too low: minimum acceptable bid is %.2f", e.MinRequired)
}
