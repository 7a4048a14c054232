package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/invodash/invodash/internal/cache"
	"github.com/invodash/invodash/internal/handler/dto"
	"github.com/invodash/invodash/internal/metrics"
	"github.com/invodash/invodash/internal/service"
)

// CustomersPath is the logical path for cached customer listings.
const CustomersPath = "/dashboard/customers"

// CustomerHandler handles HTTP requests for customer reads.
type CustomerHandler struct {
	svc     *service.CustomerService
	pages   PageCache
	pageTTL time.Duration
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(svc *service.CustomerService, pages PageCache, pageTTL time.Duration, recorder metrics.Recorder, logger *slog.Logger) *CustomerHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CustomerHandler{
		svc:     svc,
		pages:   pages,
		pageTTL: pageTTL,
		metrics: recorder,
		logger:  logger,
	}
}

// List handles GET /api/v1/customers.
// Query parameter: query (free-text search over name and email).
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	variant := cache.PageVariant(r.URL.RawQuery)

	if h.pages != nil {
		payload, err := h.pages.GetPage(r.Context(), CustomersPath, variant)
		if err == nil {
			h.metrics.IncPageCacheHit()
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "hit")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(payload)
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("page_cache_read_failed", "path", CustomersPath, "error", err)
		}
		h.metrics.IncPageCacheMiss()
	}

	customers := h.svc.ListCustomers(r.Context(), r.URL.Query().Get("query"))
	response := dto.ToCustomerListResponse(customers)

	payload, err := json.Marshal(response)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "An internal error occurred", Code: "INTERNAL_ERROR"})
		return
	}

	if h.pages != nil {
		if err := h.pages.SetPage(r.Context(), CustomersPath, variant, payload, h.pageTTL); err != nil {
			h.logger.Warn("page_cache_write_failed", "path", CustomersPath, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// Dashboard handles GET /api/v1/dashboard.
func (h *CustomerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats := h.svc.DashboardStats(r.Context())
	writeJSON(w, http.StatusOK, dto.ToDashboardResponse(stats))
}
