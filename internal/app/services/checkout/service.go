// Package checkout converts cart snapshots into immutable sale records and
// owns the append-only sales ledger.
package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/foodvanpos/posd/internal/app/domain/sale"
	"github.com/foodvanpos/posd/internal/app/metrics"
	"github.com/foodvanpos/posd/internal/app/services/cartengine"
	"github.com/foodvanpos/posd/internal/app/storage"
	"github.com/foodvanpos/posd/pkg/logger"
)

// ErrEmptyCart marks a checkout attempt with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

// ErrNotConfirmed marks a reset attempt without explicit confirmation.
var ErrNotConfirmed = errors.New("reset requires confirmation")

// ReceiptPrinter receives finalized sales for printing. Fire-and-forget.
type ReceiptPrinter interface {
	Print(rec sale.Record)
}

// Service owns the sales ledger.
type Service struct {
	mu      sync.Mutex
	ledger  []sale.Record
	cart    *cartengine.Service
	store   storage.SalesStore
	stock   storage.StockStore
	mirror  storage.SaleMirror
	printer ReceiptPrinter
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
}

// New constructs a checkout service. mirror and printer may be nil.
func New(cartSvc *cartengine.Service, store storage.SalesStore, stockStore storage.StockStore, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("checkout")
	}
	return &Service{
		cart:  cartSvc,
		store: store,
		stock: stockStore,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// AttachMirror adds a relational sale mirror. Mirror failures never affect
// checkout.
func (s *Service) AttachMirror(m storage.SaleMirror) {
	s.mirror = m
}

// AttachPrinter adds a receipt printer.
func (s *Service) AttachPrinter(p ReceiptPrinter) {
	s.printer = p
}

// Load replaces the in-memory ledger with the persisted one. Called once at
// startup before the service is exposed.
func (s *Service) Load(ctx context.Context) error {
	records, err := s.store.LoadLedger(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ledger = records
	s.mu.Unlock()
	s.log.WithField("sales", len(records)).Info("sales ledger loaded")
	return nil
}

// Checkout converts the current cart into a sale record: snapshot lines and
// total, mint an id, timestamp, append, persist the whole ledger, cart ends
// empty. On an empty cart it returns ErrEmptyCart and changes nothing.
func (s *Service) Checkout(ctx context.Context) (sale.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, total, ok := s.cart.Take()
	if !ok {
		return sale.Record{}, ErrEmptyCart
	}

	rec := sale.Record{
		ID:        s.newID(),
		Timestamp: s.now(),
		Items:     lines,
		Total:     total,
	}
	s.ledger = append(s.ledger, rec)

	// Persistence is synchronous best-effort; the sale stands even if the
	// write fails.
	if err := s.store.SaveLedger(ctx, s.ledger); err != nil {
		s.log.WithError(err).WithField("sale_id", rec.ID).Warn("persist sales ledger failed")
	}
	if s.mirror != nil {
		if err := s.mirror.RecordSale(ctx, rec); err != nil {
			s.log.WithError(err).WithField("sale_id", rec.ID).Warn("mirror sale failed")
		}
	}
	if s.printer != nil {
		s.printer.Print(rec.Clone())
	}

	metrics.RecordCheckout(total)
	s.log.WithField("sale_id", rec.ID).
		WithField("total", total).
		WithField("items", len(rec.Items)).
		Info("sale recorded")
	return rec.Clone(), nil
}

// List returns the ledger in chronological order.
func (s *Service) List() []sale.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sale.Record, len(s.ledger))
	for i, rec := range s.ledger {
		out[i] = rec.Clone()
	}
	return out
}

// Summary returns the headline totals for the current ledger.
func (s *Service) Summary() sale.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sale.Summarize(s.ledger)
}

// Reset empties the ledger and removes the persisted sales and stock records.
// Without confirmation it is rejected and nothing changes. Removal failures
// are logged but not distinguished from success.
func (s *Service) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger = nil
	s.cart.Clear()

	if err := s.store.RemoveLedger(ctx); err != nil {
		s.log.WithError(err).Warn("remove persisted sales failed")
	}
	if s.stock != nil {
		if err := s.stock.RemoveLevels(ctx); err != nil {
			s.log.WithError(err).Warn("remove persisted stock failed")
		}
	}
	if s.mirror != nil {
		if err := s.mirror.Purge(ctx); err != nil {
			s.log.WithError(err).Warn("purge sale mirror failed")
		}
	}

	metrics.RecordReset()
	s.log.Info("day reset: ledger and stock cleared")
	return nil
}
