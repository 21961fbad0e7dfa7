package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/maisonnat/GauchoAPI/internal/models"
	"github.com/maisonnat/GauchoAPI/internal/runner"
	"github.com/maisonnat/GauchoAPI/internal/scraper"
)

type Handlers struct {
	runner        *runner.Runner
	fetcher       scraper.Fetcher
	renderer      scraper.PageRenderer
	notifyEnabled bool
	logger        *slog.Logger
}

func NewHandlers(r *runner.Runner, fetcher scraper.Fetcher, renderer scraper.PageRenderer, notifyEnabled bool, logger *slog.Logger) *Handlers {
	return &Handlers{
		runner:        r,
		fetcher:       fetcher,
		renderer:      renderer,
		notifyEnabled: notifyEnabled,
		logger:        logger.With("component", "api"),
	}
}

// StoreResult is one store's slice of a search response.
type StoreResult struct {
	Products []models.Product `json:"products"`
	Count    int              `json:"count"`
	Error    string           `json:"error,omitempty"`
}

// SearchResponse maps store name to that store's results.
type SearchResponse struct {
	Query   string                 `json:"query"`
	Results map[string]StoreResult `json:"results"`
}

// Search handles GET /search?query=...&store=... The store parameter
// repeats for multiple stores; "all" selects every adapter. Scraper
// failures surface as an empty slice plus server-side logs, not as an
// HTTP error.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		h.respondError(w, http.StatusBadRequest, "'query' parameter is required")
		return
	}

	stores := r.URL.Query()["store"]
	if len(stores) == 0 {
		h.respondError(w, http.StatusBadRequest, "'store' parameter is required")
		return
	}
	if len(stores) == 1 && stores[0] == "all" {
		stores = scraper.Stores()
	}

	adapters := make([]scraper.Adapter, 0, len(stores))
	for _, store := range stores {
		adapter, err := scraper.NewAdapter(store, query, h.fetcher, h.renderer, h.logger)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		adapters = append(adapters, adapter)
	}

	resp := SearchResponse{
		Query:   query,
		Results: make(map[string]StoreResult, len(adapters)),
	}

	for _, adapter := range adapters {
		result := h.runner.Run(r.Context(), adapter, h.notifyEnabled)

		storeResult := StoreResult{
			Products: result.Products,
			Count:    len(result.Products),
		}
		if storeResult.Products == nil {
			storeResult.Products = []models.Product{}
		}
		if result.Err != nil {
			storeResult.Error = result.Err.Error()
		}
		resp.Results[result.Store] = storeResult
	}

	h.respondJSON(w, http.StatusOK, resp)
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
