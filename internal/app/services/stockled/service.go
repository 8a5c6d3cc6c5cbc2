// Package stockled owns the manually counted stock levels. Entries are edited
// through the stock-entry workflow and become authoritative on commit.
package stockled

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/foodvanpos/posd/internal/app/domain/stock"
	"github.com/foodvanpos/posd/internal/app/storage"
	"github.com/foodvanpos/posd/pkg/logger"
)

// Service is the stock ledger.
type Service struct {
	mu      sync.Mutex
	levels  stock.Level
	pending stock.Level
	store   storage.StockStore
	log     *logger.Logger
}

// New constructs a stock service over the given store.
func New(store storage.StockStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("stock")
	}
	return &Service{
		levels:  stock.Level{},
		pending: stock.Level{},
		store:   store,
		log:     log,
	}
}

// Load initialises levels from the persisted snapshot, defaulting to an
// empty mapping. The pending edit buffer starts from the loaded snapshot.
func (s *Service) Load(ctx context.Context) error {
	levels, err := s.store.LoadLevels(ctx)
	if err != nil {
		return err
	}
	if levels == nil {
		levels = stock.Level{}
	}
	s.mu.Lock()
	s.levels = levels
	s.pending = levels.Clone()
	s.mu.Unlock()
	s.log.WithField("entries", len(levels)).Info("stock levels loaded")
	return nil
}

// UpdateEntry records a count for the product in the pending edit buffer.
// Raw input is parsed as an integer; empty or non-numeric input counts as 0.
// Never an error.
func (s *Service) UpdateEntry(productID, rawInput string) {
	count, err := strconv.Atoi(strings.TrimSpace(rawInput))
	if err != nil || count < 0 {
		count = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[productID] = count
}

// Commit persists the pending buffer as the new authoritative snapshot. The
// snapshot fully replaces the previous one.
func (s *Service) Commit(ctx context.Context) (stock.Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	committed := s.pending.Clone()
	if err := s.store.SaveLevels(ctx, committed); err != nil {
		return nil, err
	}
	s.levels = committed
	s.pending = committed.Clone()
	s.log.WithField("entries", len(committed)).Info("stock snapshot committed")
	return committed.Clone(), nil
}

// Levels returns the authoritative stock snapshot.
func (s *Service) Levels() stock.Level {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels.Clone()
}

// ResetLocal drops in-memory state after a day reset. The persisted record
// removal is handled by the checkout service.
func (s *Service) ResetLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.levels = stock.Level{}
	s.pending = stock.Level{}
}
