package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/invodash/invodash/internal/cache"
	"github.com/invodash/invodash/internal/handler/dto"
	"github.com/invodash/invodash/internal/metrics"
	"github.com/invodash/invodash/internal/model"
	"github.com/invodash/invodash/internal/repository"
	"github.com/invodash/invodash/internal/service"
)

type stubInvoiceStore struct {
	created   []*model.Invoice
	deleted   []string
	getResult *model.Invoice
	getErr    error
	listRows  []*model.InvoiceRow
	pages     int
	listErr   error
}

func (s *stubInvoiceStore) CreateInvoice(_ context.Context, invoice *model.Invoice) error {
	s.created = append(s.created, invoice)
	return nil
}

func (s *stubInvoiceStore) UpdateInvoice(_ context.Context, invoice *model.Invoice) error {
	return nil
}

func (s *stubInvoiceStore) DeleteInvoice(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubInvoiceStore) GetInvoiceByID(_ context.Context, id string) (*model.Invoice, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.getResult, nil
}

func (s *stubInvoiceStore) ListInvoices(_ context.Context, search string, page int) ([]*model.InvoiceRow, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listRows, nil
}

func (s *stubInvoiceStore) CountInvoicePages(_ context.Context, search string) (int, error) {
	return s.pages, nil
}

type stubInvalidator struct {
	paths []string
}

func (s *stubInvalidator) InvalidatePath(_ context.Context, path string) error {
	s.paths = append(s.paths, path)
	return nil
}

// stubPageCache is an in-memory PageCache.
type stubPageCache struct {
	entries map[string][]byte
	sets    int
}

func newStubPageCache() *stubPageCache {
	return &stubPageCache{entries: make(map[string][]byte)}
}

func (s *stubPageCache) GetPage(_ context.Context, path, variant string) ([]byte, error) {
	payload, ok := s.entries[path+"|"+variant]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return payload, nil
}

func (s *stubPageCache) SetPage(_ context.Context, path, variant string, payload []byte, _ time.Duration) error {
	s.entries[path+"|"+variant] = payload
	s.sets++
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestInvoiceHandler(store *stubInvoiceStore, pages PageCache) *InvoiceHandler {
	svc := service.NewInvoiceService(store, &stubInvalidator{}, testLogger(), metrics.NewNoop())
	return NewInvoiceHandler(svc, pages, time.Minute, metrics.NewNoop(), testLogger())
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestInvoiceHandler_Create_ValidationError(t *testing.T) {
	t.Parallel()

	store := &stubInvoiceStore{}
	h := newTestInvoiceHandler(store, nil)

	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/api/v1/invoices", url.Values{"amount": {"abc"}}))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}

	var body dto.MutationResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Kind != "validation_error" {
		t.Errorf("kind = %q, want validation_error", body.Kind)
	}
	if body.Message != service.CreateInvoiceFailedMessage {
		t.Errorf("message = %q, want %q", body.Message, service.CreateInvoiceFailedMessage)
	}
	if !body.Errors.Has("amount") || !body.Errors.Has("customerId") {
		t.Errorf("errors = %v, want amount and customerId", body.Errors)
	}
	if len(store.created) != 0 {
		t.Errorf("expected no creates, got %d", len(store.created))
	}
}

func TestInvoiceHandler_Create_RedirectsOnSuccess(t *testing.T) {
	t.Parallel()

	store := &stubInvoiceStore{}
	h := newTestInvoiceHandler(store, nil)

	rec := httptest.NewRecorder()
	h.Create(rec, postForm("/api/v1/invoices", url.Values{
		"customerId": {"cust-1"},
		"amount":     {"15.50"},
		"status":     {"pending"},
	}))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != service.InvoicesPath {
		t.Errorf("Location = %q, want %q", loc, service.InvoicesPath)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected 1 create, got %d", len(store.created))
	}
	if store.created[0].AmountCents != 1550 {
		t.Errorf("AmountCents = %d, want 1550", store.created[0].AmountCents)
	}
}

func TestInvoiceHandler_Delete(t *testing.T) {
	t.Parallel()

	store := &stubInvoiceStore{}
	h := newTestInvoiceHandler(store, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/invoices/inv-1", nil)
	rec := httptest.NewRecorder()
	h.Delete(rec, withURLParam(req, "id", "inv-1"))

	// No redirect on delete: the caller stays on the listing.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "inv-1" {
		t.Errorf("deleted = %v, want [inv-1]", store.deleted)
	}
}

func TestInvoiceHandler_Get_ReturnsStoredCents(t *testing.T) {
	t.Parallel()

	store := &stubInvoiceStore{
		getResult: &model.Invoice{
			ID:          "inv-1",
			CustomerID:  "cust-1",
			AmountCents: 1550,
			Status:      model.InvoiceStatusPending,
			Date:        "2026-08-31",
		},
	}
	h := newTestInvoiceHandler(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/inv-1", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, withURLParam(req, "id", "inv-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	// The prefill payload carries the stored integer cents, not a
	// currency-formatted amount.
	var body dto.InvoiceResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.AmountCents != 1550 {
		t.Errorf("AmountCents = %d, want 1550", body.AmountCents)
	}
	if body.CustomerID != "cust-1" {
		t.Errorf("CustomerID = %q, want cust-1", body.CustomerID)
	}
	if body.Status != string(model.InvoiceStatusPending) {
		t.Errorf("Status = %q, want pending", body.Status)
	}
}

func TestInvoiceHandler_Get_NotFound(t *testing.T) {
	t.Parallel()

	store := &stubInvoiceStore{getErr: repository.ErrInvoiceNotFound}
	h := newTestInvoiceHandler(store, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/inv-404", nil)
	rec := httptest.NewRecorder()
	h.Get(rec, withURLParam(req, "id", "inv-404"))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Code != "INVOICE_NOT_FOUND" {
		t.Errorf("code = %q, want INVOICE_NOT_FOUND", body.Code)
	}
}

func TestInvoiceHandler_List_PopulatesAndServesCache(t *testing.T) {
	t.Parallel()

	store := &stubInvoiceStore{
		listRows: []*model.InvoiceRow{
			{ID: "inv-1", CustomerName: "Evil Rabbit", AmountCents: 15795, Status: model.InvoiceStatusPending},
		},
		pages: 1,
	}
	pages := newStubPageCache()
	h := newTestInvoiceHandler(store, pages)

	// First request misses the cache and backfills it.
	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices?query=rabbit", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Cache") != "" {
		t.Error("first request should not be a cache hit")
	}
	if pages.sets != 1 {
		t.Fatalf("expected 1 cache write, got %d", pages.sets)
	}

	var body dto.InvoiceListResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].CustomerName != "Evil Rabbit" {
		t.Errorf("unexpected body: %+v", body)
	}

	// Second request with the same query is served from the cache.
	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices?query=rabbit", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Cache") != "hit" {
		t.Error("second request should be a cache hit")
	}
}

func TestInvoiceHandler_List_DistinctVariants(t *testing.T) {
	t.Parallel()

	store := &stubInvoiceStore{pages: 1}
	pages := newStubPageCache()
	h := newTestInvoiceHandler(store, pages)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices?query=a", nil))
	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices?query=b", nil))

	// Different query strings must not share a cache entry.
	if pages.sets != 2 {
		t.Errorf("expected 2 cache writes, got %d", pages.sets)
	}
}

func TestInvoiceHandler_List_StoreError(t *testing.T) {
	t.Parallel()

	store := &stubInvoiceStore{listErr: errors.New("connection refused")}
	h := newTestInvoiceHandler(store, nil)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
