// Package view tracks which of the three mutually exclusive screens is
// active. The coordinator holds no business data, only the state tag.
package view

import (
	"fmt"
	"sync"
)

// State names a screen.
type State string

const (
	// StateSelling is the initial and home screen.
	StateSelling State = "SELLING"
	// StateStockEntry is the stock-entry form.
	StateStockEntry State = "STOCK_ENTRY"
	// StateSummary is the daily summary screen.
	StateSummary State = "SUMMARY"
)

// Valid reports whether s names a known screen.
func (s State) Valid() bool {
	switch s {
	case StateSelling, StateStockEntry, StateSummary:
		return true
	}
	return false
}

// Coordinator is the screen state machine. The zero value is not usable;
// construct with New.
type Coordinator struct {
	mu    sync.Mutex
	state State
}

// New returns a coordinator on the selling screen.
func New() *Coordinator {
	return &Coordinator{state: StateSelling}
}

// Current returns the active screen.
func (c *Coordinator) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Navigate moves to the target screen. The overlays are only reachable from
// the selling screen, and from an overlay the only destination is selling.
// Navigating to the current screen is a no-op.
func (c *Coordinator) Navigate(to State) error {
	if !to.Valid() {
		return fmt.Errorf("unknown view %q", to)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if to == c.state {
		return nil
	}
	if c.state != StateSelling && to != StateSelling {
		return fmt.Errorf("cannot navigate from %s to %s", c.state, to)
	}
	c.state = to
	return nil
}

// Home forces the coordinator back to the selling screen. Used by stock
// commit and the confirmed day reset.
func (c *Coordinator) Home() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateSelling
}
