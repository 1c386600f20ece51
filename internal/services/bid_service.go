package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"art-auction/internal/domain"
	"art-auction/pkg/logger"
	"art-auction/pkg/utils"
)

const defaultBidPageSize = 50

// BidService owns bid admission: validating eligibility, computing the
// minimum acceptable amount, recording the bid and propagating the new
// price. The whole admission runs inside one transaction with the auction
// row locked, so concurrent bidders on the same auction serialize.
type BidService struct {
	store      domain.Store
	notifier   domain.NotificationSink
	stateCache domain.AuctionStateCache
	log        logger.Logger
	now        func() time.Time
}

func NewBidService(
	store domain.Store,
	notifier domain.NotificationSink,
	stateCache domain.AuctionStateCache,
	log logger.Logger,
) *BidService {
	return &BidService{
		store:      store,
		notifier:   notifier,
		stateCache: stateCache,
		log:        log,
		now:        time.Now,
	}
}

// PlaceBid validates and records a bid. The bid row, the auction's current
// price and the artwork's current price commit together or not at all. The
// outbid notification and the cache refresh happen after commit and are
// best-effort; their failure never surfaces to the bidder.
func (s *BidService) PlaceBid(ctx context.Context, auctionID, bidderID string, amount float64) (*domain.Bid, error) {
	s.log.Info("Placing bid", "auction_id", auctionID, "user_id", bidderID, "amount", amount)

	var bid *domain.Bid
	var outbid *domain.Bid
	var artworkTitle string
	var endTime time.Time

	err := s.store.WithinTx(ctx, func(tx domain.Store) error {
		auction, err := tx.Auctions().GetForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}

		now := s.now()
		if auction.Status != domain.AuctionActive {
			return &domain.InvalidStateError{Reason: "not active"}
		}
		if now.Before(auction.StartTime) {
			return &domain.InvalidStateError{Reason: "not started"}
		}
		if now.After(auction.EndTime) {
			return &domain.InvalidStateError{Reason: "ended"}
		}

		artwork, err := tx.Artworks().Get(ctx, auction.ArtworkID)
		if err != nil {
			return err
		}
		if artwork.SellerID == bidderID {
			return domain.ErrOwnAuctionBid
		}

		var highestAmount float64
		highest, err := tx.Bids().Highest(ctx, auctionID)
		switch {
		case err == nil:
			highestAmount = highest.Amount
			outbid = highest
		case errors.Is(err, domain.ErrBidNotFound):
			// first bid, minimum is the starting price
		default:
			return err
		}

		minAcceptable := auction.MinAcceptableBid(highestAmount)
		if amount < minAcceptable {
			return &domain.BidTooLowError{MinRequired: minAcceptable}
		}

		bid = &domain.Bid{
			ID:        utils.GenerateID("bid"),
			AuctionID: auctionID,
			UserID:    bidderID,
			Amount:    amount,
			CreatedAt: now,
		}
		if err := tx.Bids().Insert(ctx, bid); err != nil {
			return err
		}
		if err := tx.Auctions().UpdateCurrentPrice(ctx, auctionID, amount); err != nil {
			return err
		}
		if err := tx.Artworks().UpdateCurrentPrice(ctx, auction.ArtworkID, amount); err != nil {
			return err
		}

		artworkTitle = artwork.Title
		endTime = auction.EndTime
		return nil
	})
	if err != nil {
		return nil, wrapPersistence(err)
	}

	s.notifyOutbid(ctx, outbid, bidderID, auctionID, artworkTitle)
	s.refreshState(ctx, &domain.AuctionState{
		AuctionID:    auctionID,
		Status:       domain.AuctionActive,
		CurrentPrice: amount,
		EndTime:      endTime,
	})

	s.log.Info("Bid placed", "bid_id", bid.ID, "auction_id", auctionID, "amount", amount)
	return bid, nil
}

func (s *BidService) notifyOutbid(ctx context.Context, previous *domain.Bid, bidderID, auctionID, artworkTitle string) {
	if previous == nil || previous.UserID == bidderID {
		return
	}

	message := fmt.Sprintf("You have been outbid on %q", artworkTitle)
	link := fmt.Sprintf("/auctions/%s", auctionID)
	if err := s.notifier.Enqueue(ctx, previous.UserID, message, link); err != nil {
		s.log.Error("Failed to enqueue outbid notification",
			"auction_id", auctionID, "user_id", previous.UserID, "error", err)
	}
}

func (s *BidService) refreshState(ctx context.Context, state *domain.AuctionState) {
	if err := s.stateCache.SetState(ctx, state); err != nil {
		s.log.Warn("Failed to refresh auction state cache",
			"auction_id", state.AuctionID, "error", err)
	}
}

// GetAuctionBids returns the bid history ordered by amount descending, then
// creation time ascending so equal amounts show the earliest bidder first.
func (s *BidService) GetAuctionBids(ctx context.Context, auctionID string, limit, offset int) ([]*domain.Bid, error) {
	if limit <= 0 {
		limit = defaultBidPageSize
	}
	if offset < 0 {
		offset = 0
	}

	if _, err := s.store.Auctions().Get(ctx, auctionID); err != nil {
		return nil, wrapPersistence(err)
	}

	bids, err := s.store.Bids().ListByAuction(ctx, auctionID, limit, offset)
	if err != nil {
		return nil, wrapPersistence(err)
	}
	return bids, nil
}

// GetUserHighestBid returns the user's best bid on the auction, or
// ErrBidNotFound when the user never bid.
func (s *BidService) GetUserHighestBid(ctx context.Context, auctionID, userID string) (*domain.Bid, error) {
	bid, err := s.store.Bids().UserHighest(ctx, auctionID, userID)
	if err != nil {
		return nil, wrapPersistence(err)
	}
	return bid, nil
}

// IsTopBidder reports whether the user's best bid matches the auction's top
// bid. It is a point-in-time summary, not a guarantee against concurrent
// updates.
func (s *BidService) IsTopBidder(ctx context.Context, auctionID, userID string) (bool, error) {
	highest, err := s.store.Bids().Highest(ctx, auctionID)
	if err != nil {
		if errors.Is(err, domain.ErrBidNotFound) {
			return false, nil
		}
		return false, wrapPersistence(err)
	}

	userBest, err := s.store.Bids().UserHighest(ctx, auctionID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrBidNotFound) {
			return false, nil
		}
		return false, wrapPersistence(err)
	}

	return userBest.Amount == highest.Amount, nil
}
