package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/invodash/invodash/internal/cache"
	"github.com/invodash/invodash/internal/handler/dto"
	"github.com/invodash/invodash/internal/metrics"
	"github.com/invodash/invodash/internal/service"
)

// PageCache stores rendered list responses keyed by logical path and
// query variant. *cache.Cache implements it; nil disables caching.
type PageCache interface {
	GetPage(ctx context.Context, path, variant string) ([]byte, error)
	SetPage(ctx context.Context, path, variant string, payload []byte, ttl time.Duration) error
}

// InvoiceHandler handles HTTP requests for invoice operations.
type InvoiceHandler struct {
	svc     *service.InvoiceService
	pages   PageCache
	pageTTL time.Duration
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(svc *service.InvoiceService, pages PageCache, pageTTL time.Duration, recorder metrics.Recorder, logger *slog.Logger) *InvoiceHandler {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &InvoiceHandler{
		svc:     svc,
		pages:   pages,
		pageTTL: pageTTL,
		metrics: recorder,
		logger:  logger,
	}
}

// Create handles POST /api/v1/invoices.
// Accepts form-encoded fields: customerId, amount, status.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	result := h.svc.CreateInvoice(r.Context(), formFields(r))
	h.writeMutation(w, result)
}

// Update handles PUT /api/v1/invoices/{id}.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Invoice ID is required")
		return
	}

	result := h.svc.UpdateInvoice(r.Context(), id, formFields(r))
	h.writeMutation(w, result)
}

// Delete handles DELETE /api/v1/invoices/{id}.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Invoice ID is required")
		return
	}

	result := h.svc.DeleteInvoice(r.Context(), id)
	h.writeMutation(w, result)
}

// Get handles GET /api/v1/invoices/{id}.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "MISSING_ID", "Invoice ID is required")
		return
	}

	invoice, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			h.writeError(w, http.StatusNotFound, "INVOICE_NOT_FOUND", "Invoice not found")
			return
		}
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// List handles GET /api/v1/invoices.
// Query parameters: query (free-text search) and page.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	variant := cache.PageVariant(r.URL.RawQuery)
	if h.servePage(w, r, service.InvoicesPath, variant) {
		return
	}

	query := r.URL.Query().Get("query")
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}

	out, err := h.svc.ListInvoices(r.Context(), query, page)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	h.writePage(w, r, service.InvoicesPath, variant, dto.ToInvoiceListResponse(out))
}

// servePage writes a cached rendering if one exists.
func (h *InvoiceHandler) servePage(w http.ResponseWriter, r *http.Request, path, variant string) bool {
	if h.pages == nil {
		return false
	}

	payload, err := h.pages.GetPage(r.Context(), path, variant)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Warn("page_cache_read_failed", "path", path, "error", err)
		}
		h.metrics.IncPageCacheMiss()
		return false
	}

	h.metrics.IncPageCacheHit()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "hit")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
	return true
}

// writePage writes the response and backfills the page cache.
func (h *InvoiceHandler) writePage(w http.ResponseWriter, r *http.Request, path, variant string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("internal_error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	if h.pages != nil {
		if err := h.pages.SetPage(r.Context(), path, variant, payload, h.pageTTL); err != nil {
			// Caching is best-effort
			h.logger.Warn("page_cache_write_failed", "path", path, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// writeMutation maps a MutationResult to an HTTP response. The
// service never navigates; navigation happens here, via the Location
// header and a 303 status whenever the result carries a Next path.
func (h *InvoiceHandler) writeMutation(w http.ResponseWriter, result *service.MutationResult) {
	body := dto.ToMutationResponse(result)

	switch result.Kind {
	case service.ResultValidationError:
		writeJSON(w, http.StatusUnprocessableEntity, body)
	case service.ResultSuccess, service.ResultFatal:
		// Fatal results still navigate: the write failure was logged
		// and must not break the flow for the user.
		if result.Next != "" {
			w.Header().Set("Location", result.Next)
			writeJSON(w, http.StatusSeeOther, body)
			return
		}
		writeJSON(w, http.StatusOK, body)
	default:
		writeJSON(w, http.StatusOK, body)
	}
}

// writeError writes an error response.
func (h *InvoiceHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
