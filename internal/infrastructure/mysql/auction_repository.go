package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"art-auction/internal/domain"
)

const auctionColumns = `id, artwork_id, start_time, end_time, starting_price,
       reserve_price, current_price, min_increment, status, winner_id,
       created_at, updated_at`

type MySQLAuctionRepository struct {
	q queryer
}

func NewMySQLAuctionRepository(db *sql.DB) *MySQLAuctionRepository {
	return &MySQLAuctionRepository{q: db}
}

func (r *MySQLAuctionRepository) Create(ctx context.Context, auction *domain.Auction) error {
	query := `
        INSERT INTO auctions (id, artwork_id, start_time, end_time, starting_price,
                              reserve_price, current_price, min_increment, status,
                              winner_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, NULL, ?, ?)
    `
	_, err := r.q.ExecContext(ctx, query,
		auction.ID, auction.ArtworkID, auction.StartTime, auction.EndTime,
		auction.StartingPrice, auction.ReservePrice, auction.CurrentPrice,
		auction.MinIncrement, string(auction.Status),
		auction.CreatedAt, auction.UpdatedAt)
	return err
}

func (r *MySQLAuctionRepository) Get(ctx context.Context, auctionID string) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = ?`
	return r.scanAuction(r.q.QueryRowContext(ctx, query, auctionID))
}

func (r *MySQLAuctionRepository) GetByArtwork(ctx context.Context, artworkID string) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE artwork_id = ? AND status IN (?, ?)`
	return r.scanAuction(r.q.QueryRowContext(ctx, query, artworkID,
		string(domain.AuctionPending), string(domain.AuctionActive)))
}

// GetForUpdate locks the auction row for the rest of the transaction so
// concurrent bids on the same auction serialize here.
func (r *MySQLAuctionRepository) GetForUpdate(ctx context.Context, auctionID string) (*domain.Auction, error) {
	query := `SELECT ` + auctionColumns + ` FROM auctions WHERE id = ? FOR UPDATE`
	return r.scanAuction(r.q.QueryRowContext(ctx, query, auctionID))
}

func (r *MySQLAuctionRepository) UpdateStatus(ctx context.Context, auctionID string, status domain.AuctionStatus, winnerID string) error {
	query := `UPDATE auctions SET status = ?, winner_id = ?, updated_at = ? WHERE id = ?`

	var winner sql.NullString
	if winnerID != "" {
		winner = sql.NullString{String: winnerID, Valid: true}
	}
	_, err := r.q.ExecContext(ctx, query, string(status), winner, time.Now(), auctionID)
	return err
}

func (r *MySQLAuctionRepository) UpdateCurrentPrice(ctx context.Context, auctionID string, price float64) error {
	query := `UPDATE auctions SET current_price = ?, updated_at = ? WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query, price, time.Now(), auctionID)
	return err
}

func (r *MySQLAuctionRepository) ListDueToStart(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE status = ? AND start_time <= ?
        ORDER BY start_time ASC
    `
	return r.listAuctions(ctx, query, string(domain.AuctionPending), now)
}

func (r *MySQLAuctionRepository) ListDueToEnd(ctx context.Context, now time.Time) ([]*domain.Auction, error) {
	query := `
        SELECT ` + auctionColumns + `
        FROM auctions
        WHERE status = ? AND end_time <= ?
        ORDER BY end_time ASC
    `
	return r.listAuctions(ctx, query, string(domain.AuctionActive), now)
}

func (r *MySQLAuctionRepository) listAuctions(ctx context.Context, query string, args ...interface{}) ([]*domain.Auction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auctions []*domain.Auction
	for rows.Next() {
		auction, err := scanAuctionRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		auctions = append(auctions, auction)
	}
	return auctions, rows.Err()
}

func (r *MySQLAuctionRepository) scanAuction(row *sql.Row) (*domain.Auction, error) {
	auction, err := scanAuctionRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAuctionNotFound
		}
		return nil, err
	}
	return auction, nil
}

func scanAuctionRow(scan func(...interface{}) error) (*domain.Auction, error) {
	var auction domain.Auction
	var status string
	var reserve sql.NullFloat64
	var winner sql.NullString

	err := scan(&auction.ID, &auction.ArtworkID, &auction.StartTime, &auction.EndTime,
		&auction.StartingPrice, &reserve, &auction.CurrentPrice, &auction.MinIncrement,
		&status, &winner, &auction.CreatedAt, &auction.UpdatedAt)
	if err != nil {
		return nil, err
	}

	auction.Status = domain.AuctionStatus(status)
	auction.ReservePrice = reserve.Float64
	auction.WinnerID = winner.String
	return &auction, nil
}
