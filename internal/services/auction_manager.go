package services

import (
	"context"
	"errors"
	"time"

	"art-auction/internal/domain"
	"art-auction/pkg/logger"
	"art-auction/pkg/utils"
)

// AuctionManager owns the auction lifecycle: creation, the
// pending/active/ended/cancelled state machine, and the periodic sweep that
// advances auctions whose time window has elapsed.
type AuctionManager struct {
	store      domain.Store
	stateCache domain.AuctionStateCache
	log        logger.Logger
	now        func() time.Time
}

func NewAuctionManager(
	store domain.Store,
	stateCache domain.AuctionStateCache,
	log logger.Logger,
) *AuctionManager {
	return &AuctionManager{
		store:      store,
		stateCache: stateCache,
		log:        log,
		now:        time.Now,
	}
}

// CreateAuction converts an artwork listing into a pending auction. The
// artwork's status and current price mirror the auction from here on.
func (am *AuctionManager) CreateAuction(ctx context.Context, artworkID string, startTime, endTime time.Time, startingPrice, reservePrice, minIncrement float64) (*domain.Auction, error) {
	if !endTime.After(startTime) {
		return nil, domain.ErrInvalidTimeWindow
	}
	if startingPrice <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if minIncrement <= 0 {
		minIncrement = domain.DefaultMinIncrement
	}

	var auction *domain.Auction
	err := am.store.WithinTx(ctx, func(tx domain.Store) error {
		artwork, err := tx.Artworks().Get(ctx, artworkID)
		if err != nil {
			return err
		}
		if artwork.IsAuction {
			return domain.ErrArtworkOnAuction
		}

		now := am.now()
		auction = &domain.Auction{
			ID:            utils.GenerateID("auction"),
			ArtworkID:     artworkID,
			StartTime:     startTime,
			EndTime:       endTime,
			StartingPrice: startingPrice,
			ReservePrice:  reservePrice,
			CurrentPrice:  startingPrice,
			MinIncrement:  minIncrement,
			Status:        domain.AuctionPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.Auctions().Create(ctx, auction); err != nil {
			return err
		}
		return tx.Artworks().SetAuctionState(ctx, artworkID, domain.ArtworkPending, true, startingPrice)
	})
	if err != nil {
		return nil, wrapPersistence(err)
	}

	am.refreshState(ctx, auction)
	am.log.Info("Auction created", "auction_id", auction.ID, "artwork_id", artworkID)
	return auction, nil
}

func (am *AuctionManager) GetAuction(ctx context.Context, auctionID string) (*domain.Auction, error) {
	auction, err := am.store.Auctions().Get(ctx, auctionID)
	if err != nil {
		return nil, wrapPersistence(err)
	}
	return auction, nil
}

// CancelAuction is seller-initiated and only valid while the auction holds
// no bids, so bidders are never stranded by a withdrawal. The artwork goes
// back to a plain active listing.
func (am *AuctionManager) CancelAuction(ctx context.Context, auctionID string) error {
	err := am.store.WithinTx(ctx, func(tx domain.Store) error {
		auction, err := tx.Auctions().GetForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		if auction.Status != domain.AuctionPending && auction.Status != domain.AuctionActive {
			return &domain.InvalidStateError{Reason: "already " + string(auction.Status)}
		}

		count, err := tx.Bids().CountByAuction(ctx, auctionID)
		if err != nil {
			return err
		}
		if count > 0 {
			return &domain.InvalidStateError{Reason: "bids already placed"}
		}

		if err := tx.Auctions().UpdateStatus(ctx, auctionID, domain.AuctionCancelled, ""); err != nil {
			return err
		}

		artwork, err := tx.Artworks().Get(ctx, auction.ArtworkID)
		if err != nil {
			return err
		}
		return tx.Artworks().SetAuctionState(ctx, auction.ArtworkID, domain.ArtworkActive, false, artwork.Price)
	})
	if err != nil {
		return wrapPersistence(err)
	}

	am.log.Info("Auction cancelled", "auction_id", auctionID)
	return nil
}

// RunLifecycleSweep starts every pending auction whose start has arrived and
// ends every active auction whose end has passed. Each transition is its own
// transaction; a failing auction is logged and skipped so the rest of the
// batch still advances. Re-running the sweep with no time elapsed is a no-op
// because both scans select on status and time window only.
func (am *AuctionManager) RunLifecycleSweep(ctx context.Context) ([]domain.Transition, error) {
	var transitions []domain.Transition
	var scanErrs []error
	now := am.now()

	dueToStart, err := am.store.Auctions().ListDueToStart(ctx, now)
	if err != nil {
		am.log.Error("Failed to scan auctions due to start", "error", err)
		scanErrs = append(scanErrs, wrapPersistence(err))
	}
	for _, auction := range dueToStart {
		if err := am.startAuction(ctx, auction.ID); err != nil {
			am.log.Error("Failed to start auction", "auction_id", auction.ID, "error", err)
			continue
		}
		transitions = append(transitions, domain.Transition{AuctionID: auction.ID, Kind: domain.TransitionStarted})
	}

	dueToEnd, err := am.store.Auctions().ListDueToEnd(ctx, now)
	if err != nil {
		am.log.Error("Failed to scan auctions due to end", "error", err)
		scanErrs = append(scanErrs, wrapPersistence(err))
	}
	for _, auction := range dueToEnd {
		if err := am.endAuction(ctx, auction.ID); err != nil {
			am.log.Error("Failed to end auction", "auction_id", auction.ID, "error", err)
			continue
		}
		transitions = append(transitions, domain.Transition{AuctionID: auction.ID, Kind: domain.TransitionEnded})
	}

	return transitions, errors.Join(scanErrs...)
}

func (am *AuctionManager) startAuction(ctx context.Context, auctionID string) error {
	var started *domain.Auction
	err := am.store.WithinTx(ctx, func(tx domain.Store) error {
		auction, err := tx.Auctions().GetForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		// Another sweep may have advanced this auction since the scan.
		if auction.Status != domain.AuctionPending {
			return nil
		}

		if err := tx.Auctions().UpdateStatus(ctx, auctionID, domain.AuctionActive, ""); err != nil {
			return err
		}
		if err := tx.Artworks().SetAuctionState(ctx, auction.ArtworkID, domain.ArtworkActive, true, auction.CurrentPrice); err != nil {
			return err
		}

		auction.Status = domain.AuctionActive
		started = auction
		return nil
	})
	if err != nil {
		return wrapPersistence(err)
	}

	if started != nil {
		am.refreshState(ctx, started)
		am.log.Info("Auction started", "auction_id", auctionID)
	}
	return nil
}

func (am *AuctionManager) endAuction(ctx context.Context, auctionID string) error {
	var ended *domain.Auction
	err := am.store.WithinTx(ctx, func(tx domain.Store) error {
		auction, err := tx.Auctions().GetForUpdate(ctx, auctionID)
		if err != nil {
			return err
		}
		if auction.Status != domain.AuctionActive {
			return nil
		}

		// The winner is the highest bid; amount ties go to the earliest
		// bid. A reserve price below the best offer leaves no winner.
		winnerID := ""
		highest, err := tx.Bids().Highest(ctx, auctionID)
		switch {
		case err == nil:
			if !auction.HasReserve() || highest.Amount >= auction.ReservePrice {
				winnerID = highest.UserID
			}
		case errors.Is(err, domain.ErrBidNotFound):
		default:
			return err
		}

		if err := tx.Auctions().UpdateStatus(ctx, auctionID, domain.AuctionEnded, winnerID); err != nil {
			return err
		}

		artworkStatus := domain.ArtworkExpired
		if winnerID != "" {
			artworkStatus = domain.ArtworkSold
		}
		if err := tx.Artworks().SetAuctionState(ctx, auction.ArtworkID, artworkStatus, false, auction.CurrentPrice); err != nil {
			return err
		}

		auction.Status = domain.AuctionEnded
		auction.WinnerID = winnerID
		ended = auction
		return nil
	})
	if err != nil {
		return wrapPersistence(err)
	}

	if ended != nil {
		am.refreshState(ctx, ended)
		am.log.Info("Auction ended", "auction_id", auctionID, "winner_id", ended.WinnerID)
	}
	return nil
}

// GetTimeRemaining breaks down the time left until the auction's end for
// the poll-based countdown display.
func (am *AuctionManager) GetTimeRemaining(ctx context.Context, auctionID string) (*domain.TimeRemaining, error) {
	auction, err := am.store.Auctions().Get(ctx, auctionID)
	if err != nil {
		return nil, wrapPersistence(err)
	}

	remaining := auction.EndTime.Sub(am.now())
	if remaining <= 0 || auction.Status == domain.AuctionEnded || auction.Status == domain.AuctionCancelled {
		return &domain.TimeRemaining{Ended: true}, nil
	}

	return &domain.TimeRemaining{
		Days:    int(remaining.Hours()) / 24,
		Hours:   int(remaining.Hours()) % 24,
		Minutes: int(remaining.Minutes()) % 60,
		Seconds: int(remaining.Seconds()) % 60,
	}, nil
}

// GetState serves the poll-side status checks, preferring the cache and
// falling back to the store on a miss.
func (am *AuctionManager) GetState(ctx context.Context, auctionID string) (*domain.AuctionState, error) {
	if state, err := am.stateCache.GetState(ctx, auctionID); err == nil {
		return state, nil
	}

	auction, err := am.store.Auctions().Get(ctx, auctionID)
	if err != nil {
		return nil, wrapPersistence(err)
	}

	state := auctionState(auction)
	am.refreshState(ctx, auction)
	return state, nil
}

func (am *AuctionManager) refreshState(ctx context.Context, auction *domain.Auction) {
	if err := am.stateCache.SetState(ctx, auctionState(auction)); err != nil {
		am.log.Warn("Failed to refresh auction state cache", "auction_id", auction.ID, "error", err)
	}
}

func auctionState(auction *domain.Auction) *domain.AuctionState {
	return &domain.AuctionState{
		AuctionID:    auction.ID,
		Status:       auction.Status,
		CurrentPrice: auction.CurrentPrice,
		EndTime:      auction.EndTime,
	}
}
