// Package postgres mirrors finalized sales into PostgreSQL for durable,
// queryable record keeping. The key-value store remains the source of truth;
// this mirror is write-behind and best-effort.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodvanpos/posd/internal/app/domain/sale"
	"github.com/foodvanpos/posd/internal/app/storage"
)

// Store implements storage.SaleMirror backed by PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ storage.SaleMirror = (*Store)(nil)

// New creates a Store using the provided database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// RecordSale inserts the sale and its lines in a single transaction.
func (s *Store) RecordSale(ctx context.Context, rec sale.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sale transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO pos_sales (id, sold_at, total)
		VALUES ($1, $2, $3)
	`, rec.ID, rec.Timestamp.UTC(), rec.Total)
	if err != nil {
		return fmt.Errorf("insert sale %s: %w", rec.ID, err)
	}

	for _, line := range rec.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO pos_sale_items (sale_id, product_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
		`, rec.ID, line.ProductID, line.Name, line.Price, line.Quantity)
		if err != nil {
			return fmt.Errorf("insert sale item %s/%s: %w", rec.ID, line.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit sale %s: %w", rec.ID, err)
	}
	return nil
}

// Purge removes all mirrored sales, used by the day reset.
func (s *Store) Purge(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pos_sale_items`); err != nil {
		return fmt.Errorf("purge sale items: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pos_sales`); err != nil {
		return fmt.Errorf("purge sales: %w", err)
	}
	return nil
}
