package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/foodvanpos/posd/internal/app/domain/sale"
	"github.com/foodvanpos/posd/internal/app/domain/stock"
)

// KVSalesStore stores the serialized ledger under KeySales in any KVStore.
type KVSalesStore struct {
	kv KVStore
}

var _ SalesStore = (*KVSalesStore)(nil)

// NewKVSalesStore wraps a key-value store as a sales ledger store.
func NewKVSalesStore(kv KVStore) *KVSalesStore {
	return &KVSalesStore{kv: kv}
}

func (s *KVSalesStore) SaveLedger(ctx context.Context, records []sale.Record) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}
	return s.kv.Set(ctx, KeySales, string(raw))
}

func (s *KVSalesStore) LoadLedger(ctx context.Context) ([]sale.Record, error) {
	raw, ok, err := s.kv.Get(ctx, KeySales)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var records []sale.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("unmarshal ledger: %w", err)
	}
	return records, nil
}

func (s *KVSalesStore) RemoveLedger(ctx context.Context) error {
	return s.kv.Remove(ctx, KeySales)
}

// KVStockStore stores the serialized stock snapshot under KeyStock.
type KVStockStore struct {
	kv KVStore
}

var _ StockStore = (*KVStockStore)(nil)

// NewKVStockStore wraps a key-value store as a stock store.
func NewKVStockStore(kv KVStore) *KVStockStore {
	return &KVStockStore{kv: kv}
}

func (s *KVStockStore) SaveLevels(ctx context.Context, levels stock.Level) error {
	raw, err := json.Marshal(levels)
	if err != nil {
		return fmt.Errorf("marshal stock levels: %w", err)
	}
	return s.kv.Set(ctx, KeyStock, string(raw))
}

func (s *KVStockStore) LoadLevels(ctx context.Context) (stock.Level, error) {
	raw, ok, err := s.kv.Get(ctx, KeyStock)
	if err != nil {
		return nil, err
	}
	if !ok {
		return stock.Level{}, nil
	}
	var levels stock.Level
	if err := json.Unmarshal([]byte(raw), &levels); err != nil {
		return nil, fmt.Errorf("unmarshal stock levels: %w", err)
	}
	return levels, nil
}

func (s *KVStockStore) RemoveLevels(ctx context.Context) error {
	return s.kv.Remove(ctx, KeyStock)
}
