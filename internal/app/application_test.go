package app

import (
	"context"
	"testing"

	"github.com/foodvanpos/posd/internal/app/services/insights"
	"github.com/foodvanpos/posd/internal/app/view"
)

func newTestApp(t *testing.T, opts Options) *Application {
	t.Helper()
	a, err := New(Stores{}, opts, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Stop(context.Background()); err != nil {
			t.Fatalf("Stop: %v", err)
		}
	})
	return a
}

func TestCommitStockReturnsHome(t *testing.T) {
	a := newTestApp(t, Options{})

	if err := a.View.Navigate(view.StateStockEntry); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	a.Stock.UpdateEntry("p1", "12")

	levels, err := a.CommitStock(context.Background())
	if err != nil {
		t.Fatalf("CommitStock: %v", err)
	}
	if levels["p1"] != 12 {
		t.Fatalf("expected committed level 12, got %d", levels["p1"])
	}
	if got := a.View.Current(); got != view.StateSelling {
		t.Fatalf("expected selling screen after commit, got %s", got)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	a := newTestApp(t, Options{})

	a.Cart.Add("p1")
	if _, err := a.Checkout.Checkout(context.Background()); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if err := a.Reset(context.Background(), false); err == nil {
		t.Fatal("expected error for unconfirmed reset")
	}
	if len(a.Checkout.List()) != 1 {
		t.Fatal("unconfirmed reset must not touch the ledger")
	}

	if err := a.Reset(context.Background(), true); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if len(a.Checkout.List()) != 0 {
		t.Fatal("confirmed reset must empty the ledger")
	}
	if got := a.View.Current(); got != view.StateSelling {
		t.Fatalf("expected selling screen after reset, got %s", got)
	}
}

func TestInsightsCachedOnlyOnSummaryScreen(t *testing.T) {
	gen := insights.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "stock more fish buns", nil
	})
	a := newTestApp(t, Options{Generator: gen})

	a.Cart.Add("p1")
	if _, err := a.Checkout.Checkout(context.Background()); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if err := a.View.Navigate(view.StateSummary); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	text, err := a.GenerateInsights(context.Background())
	if err != nil {
		t.Fatalf("GenerateInsights: %v", err)
	}
	if text != "stock more fish buns" {
		t.Fatalf("unexpected insights text %q", text)
	}
	if a.LastInsights() != "stock more fish buns" {
		t.Fatal("insights should be cached while summary screen is active")
	}

	a.View.Home()
	if err := a.View.Navigate(view.StateSummary); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	sv := a.Summary()
	if sv.Insights != "stock more fish buns" {
		t.Fatal("summary view should carry cached insights")
	}
}

func TestInsightsDiscardedOffSummaryScreen(t *testing.T) {
	gen := insights.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "advice", nil
	})
	a := newTestApp(t, Options{Generator: gen})

	a.Cart.Add("d1")
	if _, err := a.Checkout.Checkout(context.Background()); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// Selling screen is active, so the result must not be cached.
	if _, err := a.GenerateInsights(context.Background()); err != nil {
		t.Fatalf("GenerateInsights: %v", err)
	}
	if a.LastInsights() != "" {
		t.Fatal("insights must be discarded when the summary screen is not active")
	}
}

func TestSummaryNewestFirst(t *testing.T) {
	a := newTestApp(t, Options{})

	a.Cart.Add("p1")
	if _, err := a.Checkout.Checkout(context.Background()); err != nil {
		t.Fatalf("checkout: %v", err)
	}
	a.Cart.Add("d1")
	second, err := a.Checkout.Checkout(context.Background())
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	sv := a.Summary()
	if len(sv.Sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sv.Sales))
	}
	if sv.Sales[0].ID != second.ID {
		t.Fatal("summary should list the most recent sale first")
	}
	if sv.Summary.Sales != 2 {
		t.Fatalf("expected summary count 2, got %d", sv.Summary.Sales)
	}
}
