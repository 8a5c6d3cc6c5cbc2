package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/foodvanpos/posd/internal/app/domain/catalog"
	"github.com/foodvanpos/posd/internal/app/domain/sale"
	"github.com/foodvanpos/posd/internal/app/domain/stock"
	"github.com/foodvanpos/posd/internal/app/services/cartengine"
	"github.com/foodvanpos/posd/internal/app/services/checkout"
	"github.com/foodvanpos/posd/internal/app/services/insights"
	"github.com/foodvanpos/posd/internal/app/services/printer"
	"github.com/foodvanpos/posd/internal/app/services/stockled"
	"github.com/foodvanpos/posd/internal/app/storage"
	"github.com/foodvanpos/posd/internal/app/storage/memory"
	"github.com/foodvanpos/posd/internal/app/system"
	"github.com/foodvanpos/posd/internal/app/view"
	"github.com/foodvanpos/posd/pkg/logger"
)

// Stores encapsulates persistence dependencies. A nil KV defaults to the
// in-memory implementation; Mirror is optional.
type Stores struct {
	KV     storage.KVStore
	Mirror storage.SaleMirror
}

// Options carries optional collaborators.
type Options struct {
	// Generator is the external insights boundary. Nil leaves the adapter in
	// fallback-only mode.
	Generator insights.Generator
	// PrinterAddr enables the receipt side channel when non-empty.
	PrinterAddr string
}

// Application ties the POS services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Catalog  *catalog.Catalog
	Cart     *cartengine.Service
	Checkout *checkout.Service
	Stock    *stockled.Service
	Insights *insights.Service
	View     *view.Coordinator

	mu           sync.Mutex
	lastInsights string
}

// New builds a fully initialised application with the provided stores.
func New(stores Stores, opts Options, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	if stores.KV == nil {
		stores.KV = memory.New()
	}
	salesStore := storage.NewKVSalesStore(stores.KV)
	stockStore := storage.NewKVStockStore(stores.KV)

	cat := catalog.Default()
	cartSvc := cartengine.New(cat, log)
	checkoutSvc := checkout.New(cartSvc, salesStore, stockStore, log)
	if stores.Mirror != nil {
		checkoutSvc.AttachMirror(stores.Mirror)
	}
	if opts.PrinterAddr != "" {
		checkoutSvc.AttachPrinter(printer.New(opts.PrinterAddr, log))
	}
	stockSvc := stockled.New(stockStore, log)
	insightsSvc := insights.New(opts.Generator, log)

	manager := system.NewManager()
	for _, name := range []string{"cart", "checkout", "stock", "insights"} {
		if err := manager.Register(system.NoopService{ServiceName: name}); err != nil {
			return nil, fmt.Errorf("register %s service: %w", name, err)
		}
	}

	a := &Application{
		manager:  manager,
		log:      log,
		Catalog:  cat,
		Cart:     cartSvc,
		Checkout: checkoutSvc,
		Stock:    stockSvc,
		Insights: insightsSvc,
		View:     view.New(),
	}

	return a, nil
}

// Start loads persisted state and begins registered services.
func (a *Application) Start(ctx context.Context) error {
	if err := a.Checkout.Load(ctx); err != nil {
		return fmt.Errorf("load sales ledger: %w", err)
	}
	if err := a.Stock.Load(ctx); err != nil {
		return fmt.Errorf("load stock levels: %w", err)
	}
	return a.manager.Start(ctx)
}

// Stop stops all services.
func (a *Application) Stop(ctx context.Context) error {
	return a.manager.Stop(ctx)
}

// Attach registers an additional lifecycle-managed service. Call before Start.
func (a *Application) Attach(service system.Service) error {
	return a.manager.Register(service)
}

// CommitStock completes the stock-entry workflow: persist the snapshot and
// return to the selling screen.
func (a *Application) CommitStock(ctx context.Context) (stock.Level, error) {
	levels, err := a.Stock.Commit(ctx)
	if err != nil {
		return nil, err
	}
	a.View.Home()
	return levels, nil
}

// Reset performs the confirmed day reset: empty the ledger, remove persisted
// sales and stock, drop local stock state, forget cached insights, and land
// on the selling screen. Without confirmation nothing changes.
func (a *Application) Reset(ctx context.Context, confirmed bool) error {
	if err := a.Checkout.Reset(ctx, confirmed); err != nil {
		return err
	}
	a.Stock.ResetLocal()
	a.mu.Lock()
	a.lastInsights = ""
	a.mu.Unlock()
	a.View.Home()
	return nil
}

// GenerateInsights runs the insights adapter over the current ledger. The
// result is returned to the caller and additionally cached for the summary
// screen if it is still active when the call completes; a result arriving
// after the user navigated away is discarded.
func (a *Application) GenerateInsights(ctx context.Context) (string, error) {
	text, err := a.Insights.Generate(ctx, a.Checkout.List())
	if err != nil {
		return "", err
	}

	if a.View.Current() == view.StateSummary {
		a.mu.Lock()
		a.lastInsights = text
		a.mu.Unlock()
	} else {
		a.log.Debug("insights result arrived after summary screen closed; discarded")
	}
	return text, nil
}

// LastInsights returns the cached insights text for the summary screen.
func (a *Application) LastInsights() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastInsights
}

// SummaryView assembles everything the summary screen shows.
type SummaryView struct {
	Summary  sale.Summary  `json:"summary"`
	Sales    []sale.Record `json:"sales"`
	Insights string        `json:"insights,omitempty"`
}

// Summary returns the summary screen data with sales newest first.
func (a *Application) Summary() SummaryView {
	records := a.Checkout.List()
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return SummaryView{
		Summary:  a.Checkout.Summary(),
		Sales:    records,
		Insights: a.LastInsights(),
	}
}
