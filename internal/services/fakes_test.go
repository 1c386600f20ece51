package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"art-auction/internal/domain"
)

// fakeStore is an in-memory domain.Store. WithinTx snapshots all state and
// restores it when fn fails, mirroring the rollback the MySQL store gives.
type fakeStore struct {
	mu       sync.Mutex
	auctions map[string]*domain.Auction
	artworks map[string]*domain.Artwork
	bids     []*domain.Bid

	insertBidErr    error
	auctionPriceErr error
	artworkErr      map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		auctions:   make(map[string]*domain.Auction),
		artworks:   make(map[string]*domain.Artwork),
		artworkErr: make(map[string]error),
	}
}

func (s *fakeStore) Auctions() domain.AuctionRepository { return &fakeAuctionRepo{s} }
func (s *fakeStore) Bids() domain.BidRepository         { return &fakeBidRepo{s} }
func (s *fakeStore) Artworks() domain.ArtworkRepository { return &fakeArtworkRepo{s} }

func (s *fakeStore) WithinTx(ctx context.Context, fn func(domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	auctions := make(map[string]*domain.Auction, len(s.auctions))
	for id, a := range s.auctions {
		copied := *a
		auctions[id] = &copied
	}
	artworks := make(map[string]*domain.Artwork, len(s.artworks))
	for id, a := range s.artworks {
		copied := *a
		artworks[id] = &copied
	}
	bids := make([]*domain.Bid, len(s.bids))
	copy(bids, s.bids)

	if err := fn(noLockStore{s}); err != nil {
		s.auctions = auctions
		s.artworks = artworks
		s.bids = bids
		return err
	}
	return nil
}

// noLockStore hands fn the same state without re-locking the mutex.
type noLockStore struct {
	s *fakeStore
}

func (n noLockStore) Auctions() domain.AuctionRepository { return &fakeAuctionRepo{n.s} }
func (n noLockStore) Bids() domain.BidRepository         { return &fakeBidRepo{n.s} }
func (n noLockStore) Artworks() domain.ArtworkRepository { return &fakeArtworkRepo{n.s} }
func (n noLockStore) WithinTx(ctx context.Context, fn func(domain.Store) error) error {
	return fn(n)
}

func (s *fakeStore) seedAuction(a *domain.Auction) {
	copied := *a
	s.auctions[a.ID] = &copied
}

func (s *fakeStore) seedArtwork(a *domain.Artwork) {
	copied := *a
	s.artworks[a.ID] = &copied
}

func (s *fakeStore) seedBid(b *domain.Bid) {
	copied := *b
	s.bids = append(s.bids, &copied)
}

func (s *fakeStore) auction(id string) *domain.Auction { return s.auctions[id] }
func (s *fakeStore) artwork(id string) *domain.Artwork { return s.artworks[id] }

func (s *fakeStore) bidCount(auctionID string) int {
	count := 0
	for _, b := range s.bids {
		if b.AuctionID == auctionID {
			count++
		}
	}
	return count
}

type fakeAuctionRepo struct {
	s *fakeStore
}

func (r *fakeAuctionRepo) Create(ctx context.Context, auction *domain.Auction) error {
	r.s.seedAuction(auction)
	return nil
}

func (r *fakeAuctionRepo) Get(ctx context.Context, auctionID string) (*domain.Auction, error) {
	auction, ok := r.s.auctions[auctionID]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	copied := *auction
	return &copied, nil
}

func (r *fakeAuctionRepo) GetByArtwork(ctx context.Context, artworkID string) (*domain.Auction, error) {
	for _, auction := range r.s.auctions {
		if auction.ArtworkID == artworkID &&
			(auction.Status == domain.AuctionPending || auction.Status == domain.AuctionActive) {
			copied := *auction
			return &copied, nil
		}
	}
	return nil, domain.ErrAuctionNotFound
}

func (r *fakeAuctionRepo) GetForUpdate(ctx context.Context, auctionID string) (*domain.Auction, error) {
	return r.Get(ctx, auctionID)
}

func (r *fakeAuctionRepo) UpdateStatus(ctx context.Context, auctionID string, status domain.AuctionStatus, winnerID string) error {
	auction, ok := r.s.auctions[auctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	auction.Status = status
	auction.WinnerID = winnerID
	auction.UpdatedAt = time.Now()
	return nil
}

func (r *fakeAuctionRepo) UpdateCurrentPrice(ctx context.Context, auctionID string, price float64) error {
	if r.s.auctionPriceErr != nil {
		return r.s.auctionPriceErr
	}
	auction, ok := r.s.auctions[auctionID]
	if !ok {
		return domain.ErrAuctionNotFound
	}
	auction.CurrentPrice = price
	return nil
}

func (r *fakeAuctionRepo) ListDueToStart(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	var due []*domain.Auction
	for _, auction := range r.s.auctions {
		if auction.Status == domain.AuctionPending && !auction.StartTime.After(now) {
			copied := *auction
			due = append(due, &copied)
		}
	}
	sortAuctionsByID(due)
	return due, nil
}

func (r *fakeAuctionRepo) ListDueToEnd(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	var due []*domain.Auction
	for _, auction := range r.s.auctions {
		if auction.Status == domain.AuctionActive && !auction.EndTime.After(now) {
			copied := *auction
			due = append(due, &copied)
		}
	}
	sortAuctionsByID(due)
	return due, nil
}

func sortAuctionsByID(auctions []*domain.Auction) {
	sort.Slice(auctions, func(i, j int) bool { return auctions[i].ID < auctions[j].ID })
}

type fakeBidRepo struct {
	s *fakeStore
}

func (r *fakeBidRepo) Insert(ctx context.Context, bid *domain.Bid) error {
	if r.s.insertBidErr != nil {
		return r.s.insertBidErr
	}
	r.s.seedBid(bid)
	return nil
}

func (r *fakeBidRepo) Highest(ctx context.Context, auctionID string) (*domain.Bid, error) {
	bids := r.sorted(auctionID)
	if len(bids) == 0 {
		return nil, domain.ErrBidNotFound
	}
	return bids[0], nil
}

func (r *fakeBidRepo) ListByAuction(ctx context.Context, auctionID string, limit, offset int) ([]*domain.Bid, error) {
	bids := r.sorted(auctionID)
	if offset >= len(bids) {
		return nil, nil
	}
	bids = bids[offset:]
	if limit < len(bids) {
		bids = bids[:limit]
	}
	return bids, nil
}

func (r *fakeBidRepo) UserHighest(ctx context.Context, auctionID, userID string) (*domain.Bid, error) {
	for _, bid := range r.sorted(auctionID) {
		if bid.UserID == userID {
			return bid, nil
		}
	}
	return nil, domain.ErrBidNotFound
}

func (r *fakeBidRepo) CountByAuction(ctx context.Context, auctionID string) (int, error) {
	return r.s.bidCount(auctionID), nil
}

// sorted mirrors the repository ordering: amount DESC, created_at ASC, id ASC.
func (r *fakeBidRepo) sorted(auctionID string) []*domain.Bid {
	var bids []*domain.Bid
	for _, bid := range r.s.bids {
		if bid.AuctionID == auctionID {
			copied := *bid
			bids = append(bids, &copied)
		}
	}
	sort.Slice(bids, func(i, j int) bool {
		if bids[i].Amount != bids[j].Amount {
			return bids[i].Amount > bids[j].Amount
		}
		if !bids[i].CreatedAt.Equal(bids[j].CreatedAt) {
			return bids[i].CreatedAt.Before(bids[j].CreatedAt)
		}
		return bids[i].ID < bids[j].ID
	})
	return bids
}

type fakeArtworkRepo struct {
	s *fakeStore
}

func (r *fakeArtworkRepo) Get(ctx context.Context, artworkID string) (*domain.Artwork, error) {
	if err := r.s.artworkErr[artworkID]; err != nil {
		return nil, err
	}
	artwork, ok := r.s.artworks[artworkID]
	if !ok {
		return nil, domain.ErrArtworkNotFound
	}
	copied := *artwork
	return &copied, nil
}

func (r *fakeArtworkRepo) SetAuctionState(ctx context.Context, artworkID string, status domain.ArtworkStatus, isAuction bool, currentPrice float64) error {
	if err := r.s.artworkErr[artworkID]; err != nil {
		return err
	}
	artwork, ok := r.s.artworks[artworkID]
	if !ok {
		return domain.ErrArtworkNotFound
	}
	artwork.Status = status
	artwork.IsAuction = isAuction
	artwork.CurrentPrice = currentPrice
	return nil
}

func (r *fakeArtworkRepo) UpdateCurrentPrice(ctx context.Context, artworkID string, price float64) error {
	artwork, ok := r.s.artworks[artworkID]
	if !ok {
		return domain.ErrArtworkNotFound
	}
	artwork.CurrentPrice = price
	return nil
}

// fakeNotifier records enqueued outbid alerts.
type fakeNotifier struct {
	enqueueErr    error
	notifications []*domain.Notification
}

func (n *fakeNotifier) Enqueue(ctx context.Context, userID, message, link string) error {
	if n.enqueueErr != nil {
		return n.enqueueErr
	}
	n.notifications = append(n.notifications, &domain.Notification{
		UserID:  userID,
		Message: message,
		Link:    link,
	})
	return nil
}

func (n *fakeNotifier) ListForUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error) {
	var out []*domain.Notification
	for _, notification := range n.notifications {
		if notification.UserID == userID {
			out = append(out, notification)
		}
	}
	return out, nil
}

// fakeStateCache records poll-state refreshes.
type fakeStateCache struct {
	setErr error
	states map[string]*domain.AuctionState
}

func newFakeStateCache() *fakeStateCache {
	return &fakeStateCache{states: make(map[string]*domain.AuctionState)}
}

func (c *fakeStateCache) SetState(ctx context.Context, state *domain.AuctionState) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.states[state.AuctionID] = state
	return nil
}

func (c *fakeStateCache) GetState(ctx context.Context, auctionID string) (*domain.AuctionState, error) {
	state, ok := c.states[auctionID]
	if !ok {
		return nil, domain.ErrAuctionNotFound
	}
	return state, nil
}

// nopLogger keeps test output quiet.
type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Fatal(string, ...interface{}) {}
