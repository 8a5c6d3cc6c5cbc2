package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	app "github.com/foodvanpos/posd/internal/app"
	"github.com/foodvanpos/posd/internal/app/services/insights"
)

func newTestHandler(t *testing.T, opts app.Options) http.Handler {
	t.Helper()
	application, err := app.New(app.Stores{}, opts, nil)
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	if err := application.Start(context.Background()); err != nil {
		t.Fatalf("start application: %v", err)
	}
	t.Cleanup(func() { _ = application.Stop(context.Background()) })
	return NewHandler(application)
}

func marshal(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(data)
}

func do(handler http.Handler, method, path string, body *bytes.Reader) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, body)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestSellingFlow(t *testing.T) {
	handler := newTestHandler(t, app.Options{})

	resp := do(handler, http.MethodGet, "/catalog", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 catalog, got %d", resp.Code)
	}
	var products []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &products); err != nil {
		t.Fatalf("unmarshal catalog: %v", err)
	}
	if len(products) != 8 {
		t.Fatalf("expected 8 products, got %d", len(products))
	}

	resp = do(handler, http.MethodGet, "/catalog?category=Drinks", nil)
	if err := json.Unmarshal(resp.Body.Bytes(), &products); err != nil {
		t.Fatalf("unmarshal filtered catalog: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 drinks, got %d", len(products))
	}

	resp = do(handler, http.MethodPost, "/cart/items", marshal(t, map[string]any{"product_id": "p1"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 add, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = do(handler, http.MethodPost, "/cart/items", marshal(t, map[string]any{"product_id": "p1"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 repeat add, got %d", resp.Code)
	}

	var state map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &state); err != nil {
		t.Fatalf("unmarshal cart state: %v", err)
	}
	if state["total"].(float64) != 200 {
		t.Fatalf("expected total 200, got %v", state["total"])
	}

	resp = do(handler, http.MethodPost, "/checkout", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 checkout, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = do(handler, http.MethodGet, "/sales", nil)
	var sales []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &sales); err != nil {
		t.Fatalf("unmarshal sales: %v", err)
	}
	if len(sales) != 1 {
		t.Fatalf("expected 1 sale, got %d", len(sales))
	}
}

func TestCartAddRules(t *testing.T) {
	handler := newTestHandler(t, app.Options{})

	resp := do(handler, http.MethodPost, "/cart/items", marshal(t, map[string]any{"product_id": "nope"}))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 unknown product, got %d", resp.Code)
	}

	for _, id := range []string{"p1", "p2", "p3", "d1", "d2"} {
		resp = do(handler, http.MethodPost, "/cart/items", marshal(t, map[string]any{"product_id": id}))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", id, resp.Code)
		}
	}
	// A sixth distinct item is silently rejected; the state reports full.
	resp = do(handler, http.MethodPost, "/cart/items", marshal(t, map[string]any{"product_id": "s1"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 over cap, got %d", resp.Code)
	}
	var state map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if state["full"] != true {
		t.Fatal("state should report the cart as full")
	}
	if len(state["lines"].([]any)) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(state["lines"].([]any)))
	}

	// An item already in the cart still accumulates at the cap.
	resp = do(handler, http.MethodPost, "/cart/items", marshal(t, map[string]any{"product_id": "p1"}))
	if err := json.Unmarshal(resp.Body.Bytes(), &state); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if state["lines"].([]any)[0].(map[string]any)["quantity"].(float64) != 2 {
		t.Fatal("existing line should grow past the cap")
	}
}

func TestCheckoutEmptyCartConflicts(t *testing.T) {
	handler := newTestHandler(t, app.Options{})

	resp := do(handler, http.MethodPost, "/checkout", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 empty checkout, got %d", resp.Code)
	}
}

func TestResetConfirmation(t *testing.T) {
	handler := newTestHandler(t, app.Options{})

	do(handler, http.MethodPost, "/cart/items", marshal(t, map[string]any{"product_id": "p1"}))
	do(handler, http.MethodPost, "/checkout", nil)

	resp := do(handler, http.MethodPost, "/reset", marshal(t, map[string]any{"confirm": false}))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 unconfirmed reset, got %d", resp.Code)
	}

	resp = do(handler, http.MethodPost, "/reset", marshal(t, map[string]any{"confirm": true}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 confirmed reset, got %d", resp.Code)
	}

	resp = do(handler, http.MethodGet, "/sales", nil)
	var sales []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &sales); err != nil {
		t.Fatalf("unmarshal sales: %v", err)
	}
	if len(sales) != 0 {
		t.Fatalf("expected empty ledger after reset, got %d", len(sales))
	}
}

func TestStockEntryFlow(t *testing.T) {
	handler := newTestHandler(t, app.Options{})

	resp := do(handler, http.MethodPut, "/view", marshal(t, map[string]any{"state": "STOCK_ENTRY"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 navigate, got %d", resp.Code)
	}

	resp = do(handler, http.MethodPut, "/stock/p1", marshal(t, map[string]any{"count": "15"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 stock update, got %d", resp.Code)
	}
	resp = do(handler, http.MethodPut, "/stock/d1", marshal(t, map[string]any{"count": "abc"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for unparsable quantity, got %d", resp.Code)
	}
	resp = do(handler, http.MethodPut, "/stock/nope", marshal(t, map[string]any{"count": "1"}))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 unknown product, got %d", resp.Code)
	}

	resp = do(handler, http.MethodPost, "/stock/commit", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 commit, got %d", resp.Code)
	}
	var levels map[string]int
	if err := json.Unmarshal(resp.Body.Bytes(), &levels); err != nil {
		t.Fatalf("unmarshal levels: %v", err)
	}
	if levels["p1"] != 15 || levels["d1"] != 0 {
		t.Fatalf("unexpected levels %v", levels)
	}

	resp = do(handler, http.MethodGet, "/view", nil)
	var vs map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &vs); err != nil {
		t.Fatalf("unmarshal view: %v", err)
	}
	if vs["state"] != "SELLING" {
		t.Fatalf("expected SELLING after commit, got %s", vs["state"])
	}
}

func TestViewNavigationRules(t *testing.T) {
	handler := newTestHandler(t, app.Options{})

	resp := do(handler, http.MethodPut, "/view", marshal(t, map[string]any{"state": "SUMMARY"}))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 navigate, got %d", resp.Code)
	}
	resp = do(handler, http.MethodPut, "/view", marshal(t, map[string]any{"state": "STOCK_ENTRY"}))
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 overlay to overlay, got %d", resp.Code)
	}
	resp = do(handler, http.MethodPut, "/view", marshal(t, map[string]any{"state": "BOGUS"}))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 unknown state, got %d", resp.Code)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	gen := insights.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "push the egg rolls", nil
	})
	handler := newTestHandler(t, app.Options{Generator: gen})

	// Empty ledger produces the canned message without reaching the model.
	resp := do(handler, http.MethodPost, "/insights", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 insights, got %d", resp.Code)
	}
	var out map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal insights: %v", err)
	}
	if out["insights"] != insights.NoInsightsMessage {
		t.Fatalf("expected no-insights message, got %q", out["insights"])
	}

	do(handler, http.MethodPost, "/cart/items", marshal(t, map[string]any{"product_id": "d2"}))
	do(handler, http.MethodPost, "/checkout", nil)

	resp = do(handler, http.MethodPost, "/insights", nil)
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal insights: %v", err)
	}
	if out["insights"] != "push the egg rolls" {
		t.Fatalf("unexpected insights %q", out["insights"])
	}
}

func TestHealthz(t *testing.T) {
	handler := newTestHandler(t, app.Options{})
	resp := do(handler, http.MethodGet, "/healthz", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 healthz, got %d", resp.Code)
	}
}
