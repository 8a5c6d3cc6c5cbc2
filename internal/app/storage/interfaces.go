package storage

import (
	"context"

	"github.com/foodvanpos/posd/internal/app/domain/sale"
	"github.com/foodvanpos/posd/internal/app/domain/stock"
)

// Persisted value keys. Ledger and stock occupy independent keys and are
// never written transactionally across that boundary.
const (
	KeySales = "sales"
	KeyStock = "stock"
)

// KVStore is the local persistence collaborator: string-keyed, string-valued,
// full-value get/set/remove only.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// SalesStore persists the whole sales ledger on every append.
type SalesStore interface {
	SaveLedger(ctx context.Context, records []sale.Record) error
	LoadLedger(ctx context.Context) ([]sale.Record, error)
	RemoveLedger(ctx context.Context) error
}

// StockStore persists the stock snapshot as a whole.
type StockStore interface {
	SaveLevels(ctx context.Context, levels stock.Level) error
	LoadLevels(ctx context.Context) (stock.Level, error)
	RemoveLevels(ctx context.Context) error
}

// SaleMirror receives finalized sales for durable relational record keeping.
// It is write-behind: failures must not affect checkout.
type SaleMirror interface {
	RecordSale(ctx context.Context, rec sale.Record) error
	Purge(ctx context.Context) error
}
