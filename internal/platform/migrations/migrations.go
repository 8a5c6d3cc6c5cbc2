// Package migrations applies the relational schema for the sales mirror.
// Statements are idempotent so Apply can run on every startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS pos_sales (
		id TEXT PRIMARY KEY,
		sold_at TIMESTAMPTZ NOT NULL,
		total BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pos_sale_items (
		sale_id TEXT NOT NULL REFERENCES pos_sales(id),
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price BIGINT NOT NULL,
		quantity BIGINT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pos_sale_items_sale_id ON pos_sale_items (sale_id)`,
	`CREATE INDEX IF NOT EXISTS idx_pos_sales_sold_at ON pos_sales (sold_at)`,
}

// Apply executes all schema statements in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
	}
	return nil
}
