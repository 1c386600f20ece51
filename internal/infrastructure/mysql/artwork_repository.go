package mysql

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"art-auction/internal/domain"
)

type MySQLArtworkRepository struct {
	q queryer
}

func NewMySQLArtworkRepository(db *sql.DB) *MySQLArtworkRepository {
	return &MySQLArtworkRepository{q: db}
}

func (r *MySQLArtworkRepository) Get(ctx context.Context, artworkID string) (*domain.Artwork, error) {
	query := `
        SELECT id, seller_id, title, price, current_price, status, is_auction
        FROM artworks WHERE id = ?
    `

	var artwork domain.Artwork
	var status string

	err := r.q.QueryRowContext(ctx, query, artworkID).Scan(
		&artwork.ID, &artwork.SellerID, &artwork.Title,
		&artwork.Price, &artwork.CurrentPrice, &status, &artwork.IsAuction)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrArtworkNotFound
		}
		return nil, err
	}

	artwork.Status = domain.ArtworkStatus(status)
	return &artwork, nil
}

func (r *MySQLArtworkRepository) SetAuctionState(ctx context.Context, artworkID string, status domain.ArtworkStatus, isAuction bool, currentPrice float64) error {
	query := `
        UPDATE artworks SET status = ?, is_auction = ?, current_price = ?, updated_at = ?
        WHERE id = ?
    `
	_, err := r.q.ExecContext(ctx, query, string(status), isAuction, currentPrice, time.Now(), artworkID)
	return err
}

func (r *MySQLArtworkRepository) UpdateCurrentPrice(ctx context.Context, artworkID string, price float64) error {
	query := `UPDATE artworks SET current_price = ?, updated_at = ? WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query, price, time.Now(), artworkID)
	return err
}
