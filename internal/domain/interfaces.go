package domain

import (
	"context"
	"time"
)

// Repository interfaces
type AuctionRepository interface {
	Create(ctx context.Context, auction *Auction) error
	Get(ctx context.Context, auctionID string) (*Auction, error)
	GetByArtwork(ctx context.Context, artworkID string) (*Auction, error)
	// GetForUpdate fetches the auction row under a row lock so the
	// validate-then-write sequence of a bid serializes per auction. Outside
	// a transaction it behaves like Get.
	GetForUpdate(ctx context.Context, auctionID string) (*Auction, error)
	UpdateStatus(ctx context.Context, auctionID string, status AuctionStatus, winnerID string) error
	UpdateCurrentPrice(ctx context.Context, auctionID string, price float64) error
	ListDueToStart(ctx context.Context, now time.Time) ([]*Auction, error)
	ListDueToEnd(ctx context.Context, now time.Time) ([]*Auction, error)
}

type BidRepository interface {
	Insert(ctx context.Context, bid *Bid) error
	// Highest returns the top bid for the auction, ties resolved by earliest
	// created_at and then smallest id. ErrBidNotFound when no bid exists.
	Highest(ctx context.Context, auctionID string) (*Bid, error)
	ListByAuction(ctx context.Context, auctionID string, limit, offset int) ([]*Bid, error)
	UserHighest(ctx context.Context, auctionID, userID string) (*Bid, error)
	CountByAuction(ctx context.Context, auctionID string) (int, error)
}

type ArtworkRepository interface {
	Get(ctx context.Context, artworkID string) (*Artwork, error)
	// SetAuctionState mutates the auction-owned fields of the artwork row.
	SetAuctionState(ctx context.Context, artworkID string, status ArtworkStatus, isAuction bool, currentPrice float64) error
	UpdateCurrentPrice(ctx context.Context, artworkID string, price float64) error
}

// Store is the persistence gateway. WithinTx runs fn against a Store bound
// to one transaction; fn returning an error rolls everything back.
type Store interface {
	Auctions() AuctionRepository
	Bids() BidRepository
	Artworks() ArtworkRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// NotificationSink is the durable per-user mailbox for outbid alerts.
// Delivery and read-state are outside the auction core.
type NotificationSink interface {
	Enqueue(ctx context.Context, userID, message, link string) error
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]*Notification, error)
}

// AuctionStateCache backs the poll endpoints so status checks avoid a
// database round trip. A cache miss falls through to the store.
type AuctionStateCache interface {
	SetState(ctx context.Context, state *AuctionState) error
	GetState(ctx context.Context, auctionID string) (*AuctionState, error)
}
