package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	app "github.com/foodvanpos/posd/internal/app"
	"github.com/foodvanpos/posd/internal/app/domain/catalog"
	"github.com/foodvanpos/posd/internal/app/services/checkout"
	"github.com/foodvanpos/posd/internal/app/services/insights"
	"github.com/foodvanpos/posd/internal/app/view"
)

// handler bundles HTTP endpoints for the application services.
type handler struct {
	app *app.Application
}

// NewHandler returns a router exposing the POS REST API.
func NewHandler(application *app.Application) http.Handler {
	h := &handler{app: application}
	r := chi.NewRouter()

	r.Get("/healthz", h.healthz)

	r.Get("/catalog", h.catalog)

	r.Get("/cart", h.cartState)
	r.Post("/cart/items", h.cartAdd)
	r.Delete("/cart", h.cartClear)

	r.Post("/checkout", h.checkout)
	r.Get("/sales", h.sales)
	r.Get("/sales/summary", h.salesSummary)
	r.Post("/reset", h.reset)

	r.Get("/stock", h.stock)
	r.Put("/stock/{productID}", h.stockUpdate)
	r.Post("/stock/commit", h.stockCommit)

	r.Post("/insights", h.insights)

	r.Get("/view", h.viewState)
	r.Put("/view", h.viewNavigate)

	return r
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) catalog(w http.ResponseWriter, r *http.Request) {
	if cat := r.URL.Query().Get("category"); cat != "" {
		writeJSON(w, http.StatusOK, h.app.Catalog.ByCategory(catalog.Category(cat)))
		return
	}
	writeJSON(w, http.StatusOK, h.app.Catalog.Products())
}

func (h *handler) cartState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Cart.State())
}

func (h *handler) cartAdd(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID string `json:"product_id"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if payload.ProductID == "" {
		writeError(w, http.StatusBadRequest, errors.New("product_id is required"))
		return
	}
	state, _, ok := h.app.Cart.Add(payload.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown product"))
		return
	}
	// A cap rejection is silent; callers read the full flag off the state.
	writeJSON(w, http.StatusOK, state)
}

func (h *handler) cartClear(w http.ResponseWriter, r *http.Request) {
	h.app.Cart.Clear()
	writeJSON(w, http.StatusOK, h.app.Cart.State())
}

func (h *handler) checkout(w http.ResponseWriter, r *http.Request) {
	rec, err := h.app.Checkout.Checkout(r.Context())
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (h *handler) sales(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Checkout.List())
}

func (h *handler) salesSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Summary())
}

func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Confirm bool `json:"confirm"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.app.Reset(r.Context(), payload.Confirm); err != nil {
		if errors.Is(err, checkout.ErrNotConfirmed) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *handler) stock(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.app.Stock.Levels())
}

func (h *handler) stockUpdate(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	if _, ok := h.app.Catalog.Find(productID); !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown product"))
		return
	}
	var payload struct {
		Count string `json:"count"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.app.Stock.UpdateEntry(productID, payload.Count)
	writeJSON(w, http.StatusOK, map[string]string{"status": "pending"})
}

func (h *handler) stockCommit(w http.ResponseWriter, r *http.Request) {
	levels, err := h.app.CommitStock(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, levels)
}

func (h *handler) insights(w http.ResponseWriter, r *http.Request) {
	text, err := h.app.GenerateInsights(r.Context())
	if err != nil {
		if errors.Is(err, insights.ErrBusy) {
			writeError(w, http.StatusConflict, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"insights": text})
}

func (h *handler) viewState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"state": string(h.app.View.Current())})
}

func (h *handler) viewNavigate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		State string `json:"state"`
	}
	if err := decodeJSON(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	target := view.State(payload.State)
	if !target.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown view %q", payload.State))
		return
	}
	if err := h.app.View.Navigate(target); err != nil {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": string(h.app.View.Current())})
}

func decodeJSON(body io.ReadCloser, dst interface{}) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
