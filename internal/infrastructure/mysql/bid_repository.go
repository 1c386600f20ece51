package mysql

import (
	"context"
	"database/sql"
	"errors"

	"art-auction/internal/domain"
)

type MySQLBidRepository struct {
	q queryer
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{q: db}
}

func (r *MySQLBidRepository) Insert(ctx context.Context, bid *domain.Bid) error {
	query := `
        INSERT INTO bids (id, auction_id, user_id, amount, created_at)
        VALUES (?, ?, ?, ?, ?)
    `
	_, err := r.q.ExecContext(ctx, query,
		bid.ID, bid.AuctionID, bid.UserID, bid.Amount, bid.CreatedAt)
	return err
}

// Highest returns the winning candidate: the maximum amount, with the
// earliest bid (then smallest id) taken when amounts tie.
func (r *MySQLBidRepository) Highest(ctx context.Context, auctionID string) (*domain.Bid, error) {
	query := `
        SELECT id, auction_id, user_id, amount, created_at
        FROM bids
        WHERE auction_id = ?
        ORDER BY amount DESC, created_at ASC, id ASC
        LIMIT 1
    `
	return r.scanBid(r.q.QueryRowContext(ctx, query, auctionID))
}

func (r *MySQLBidRepository) ListByAuction(ctx context.Context, auctionID string, limit, offset int) ([]*domain.Bid, error) {
	query := `
        SELECT id, auction_id, user_id, amount, created_at
        FROM bids
        WHERE auction_id = ?
        ORDER BY amount DESC, created_at ASC, id ASC
        LIMIT ? OFFSET ?
    `
	rows, err := r.q.QueryContext(ctx, query, auctionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		var bid domain.Bid
		err := rows.Scan(&bid.ID, &bid.AuctionID, &bid.UserID, &bid.Amount, &bid.CreatedAt)
		if err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}
	return bids, rows.Err()
}

func (r *MySQLBidRepository) UserHighest(ctx context.Context, auctionID, userID string) (*domain.Bid, error) {
	query := `
        SELECT id, auction_id, user_id, amount, created_at
        FROM bids
        WHERE auction_id = ? AND user_id = ?
        ORDER BY amount DESC, created_at ASC, id ASC
        LIMIT 1
    `
	return r.scanBid(r.q.QueryRowContext(ctx, query, auctionID, userID))
}

func (r *MySQLBidRepository) CountByAuction(ctx context.Context, auctionID string) (int, error) {
	query := `SELECT COUNT(*) FROM bids WHERE auction_id = ?`

	var count int
	if err := r.q.QueryRowContext(ctx, query, auctionID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MySQLBidRepository) scanBid(row *sql.Row) (*domain.Bid, error) {
	var bid domain.Bid
	err := row.Scan(&bid.ID, &bid.AuctionID, &bid.UserID, &bid.Amount, &bid.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBidNotFound
		}
		return nil, err
	}
	return &bid, nil
}
