package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"art-auction/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

// queryer is satisfied by both *sql.DB and *sql.Tx so the repositories can
// run against the pool or against one transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type MySQLStore struct {
	db *sql.DB
	q  queryer
	tx *sql.Tx
}

func NewStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db, q: db}
}

func (s *MySQLStore) Auctions() domain.AuctionRepository {
	return &MySQLAuctionRepository{q: s.q}
}

func (s *MySQLStore) Bids() domain.BidRepository {
	return &MySQLBidRepository{q: s.q}
}

func (s *MySQLStore) Artworks() domain.ArtworkRepository {
	return &MySQLArtworkRepository{q: s.q}
}

// WithinTx runs fn against a store bound to a single transaction. The
// transaction commits only when fn returns nil; any error (or panic) rolls
// back every write fn performed. Nested calls reuse the open transaction.
func (s *MySQLStore) WithinTx(ctx context.Context, fn func(domain.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", domain.ErrPersistence, err)
	}

	txStore := &MySQLStore{db: s.db, q: tx, tx: tx}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", domain.ErrPersistence, err)
	}
	return nil
}
