// Package cartengine owns the active, unconfirmed selection. All mutation of
// the cart goes through this service.
package cartengine

import (
	"sync"

	"github.com/foodvanpos/posd/internal/app/domain/cart"
	"github.com/foodvanpos/posd/internal/app/domain/catalog"
	"github.com/foodvanpos/posd/internal/app/metrics"
	"github.com/foodvanpos/posd/pkg/logger"
)

// State is a consistent read of the cart for presentation.
type State struct {
	Lines       []cart.Line `json:"lines"`
	Total       int         `json:"total"`
	UniqueItems int         `json:"unique_items"`
	Full        bool        `json:"full"`
}

// Service is the cart engine.
type Service struct {
	mu      sync.Mutex
	cart    cart.Cart
	catalog *catalog.Catalog
	log     *logger.Logger
}

// New constructs a cart engine over the given catalog.
func New(cat *catalog.Catalog, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("cart")
	}
	return &Service{catalog: cat, log: log}
}

// Add applies one unit of the identified product. An unknown product id
// reports ok=false. A cap rejection reports accepted=false and is otherwise
// silent: no error, only the full flag in the returned state.
func (s *Service) Add(productID string) (state State, accepted bool, ok bool) {
	p, ok := s.catalog.Find(productID)
	if !ok {
		return s.State(), false, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accepted = s.cart.Add(p)
	if !accepted {
		metrics.RecordCartRejection()
		s.log.WithField("product_id", productID).Debug("cart add rejected at unique-item cap")
	}
	return s.stateLocked(), accepted, true
}

// Clear removes all lines. No confirmation required.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// State returns a snapshot of the cart.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Service) stateLocked() State {
	return State{
		Lines:       s.cart.Lines(),
		Total:       s.cart.Total(),
		UniqueItems: s.cart.UniqueItemCount(),
		Full:        s.cart.Full(),
	}
}

// Take atomically snapshots the lines and total and clears the cart. It is
// the checkout half of the cart contract: the returned lines never alias the
// live cart. ok is false when the cart is empty, in which case nothing
// changes.
func (s *Service) Take() (lines []cart.Line, total int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Empty() {
		return nil, 0, false
	}
	lines = s.cart.Lines()
	total = s.cart.Total()
	s.cart.Clear()
	return lines, total, true
}
