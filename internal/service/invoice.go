// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/invodash/invodash/internal/form"
	"github.com/invodash/invodash/internal/metrics"
	"github.com/invodash/invodash/internal/model"
	"github.com/invodash/invodash/internal/repository"
)

// InvoicesPath is the logical path whose cached renderings are
// discarded after every invoice mutation.
const InvoicesPath = "/dashboard/invoices"

// CreateInvoiceFailedMessage is returned when create-form validation fails.
const CreateInvoiceFailedMessage = "Missing Fields. Failed to Create Invoice."

// Service errors.
var (
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// InvoiceStore is the persistence capability the mutation handlers
// depend on. *repository.Repository implements it; tests substitute
// a fake.
type InvoiceStore interface {
	CreateInvoice(ctx context.Context, invoice *model.Invoice) error
	UpdateInvoice(ctx context.Context, invoice *model.Invoice) error
	DeleteInvoice(ctx context.Context, id string) error
	GetInvoiceByID(ctx context.Context, id string) (*model.Invoice, error)
	ListInvoices(ctx context.Context, search string, page int) ([]*model.InvoiceRow, error)
	CountInvoicePages(ctx context.Context, search string) (int, error)
}

// Invalidator asks the presentation layer to discard cached renderings
// of a logical path.
type Invalidator interface {
	InvalidatePath(ctx context.Context, path string) error
}

// ResultKind classifies the outcome of a mutation.
type ResultKind string

const (
	// ResultSuccess means the write was confirmed.
	ResultSuccess ResultKind = "success"
	// ResultValidationError means input validation failed and nothing
	// was written.
	ResultValidationError ResultKind = "validation_error"
	// ResultFatal means the operation failed after validation. The
	// failure is logged and the invalidate/redirect sequence still runs.
	ResultFatal ResultKind = "fatal"
)

// MutationResult is returned by every mutation. The service never
// navigates itself; the caller redirects to Next when it is non-empty.
type MutationResult struct {
	Kind        ResultKind       `json:"kind"`
	Next        string           `json:"next,omitempty"`
	FieldErrors form.FieldErrors `json:"errors,omitempty"`
	Message     string           `json:"message,omitempty"`
}

// InvoiceService handles invoice mutations and listings.
type InvoiceService struct {
	store       InvoiceStore
	invalidator Invalidator
	logger      *slog.Logger
	metrics     metrics.Recorder
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(store InvoiceStore, invalidator Invalidator, logger *slog.Logger, recorder metrics.Recorder) *InvoiceService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &InvoiceService{
		store:       store,
		invalidator: invalidator,
		logger:      logger,
		metrics:     recorder,
	}
}

// CreateInvoice validates the submitted form in permissive mode and,
// on success, persists a new invoice dated today. A persistence
// failure is logged and does not abort the invalidate/redirect
// sequence; the result kind still distinguishes it for the caller.
func (s *InvoiceService) CreateInvoice(ctx context.Context, fields map[string]string) *MutationResult {
	values, ferrs := form.ParseInvoice(fields)
	if ferrs != nil {
		return &MutationResult{
			Kind:        ResultValidationError,
			FieldErrors: ferrs,
			Message:     CreateInvoiceFailedMessage,
		}
	}

	now := time.Now().UTC()
	invoice := &model.Invoice{
		ID:          ulid.Make().String(),
		CustomerID:  values.CustomerID,
		AmountCents: values.AmountCents,
		Status:      values.Status,
		Date:        now.Format("2006-01-02"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	kind := ResultSuccess
	if err := s.store.CreateInvoice(ctx, invoice); err != nil {
		s.logger.Error("invoice_create_failed",
			"customer_id", invoice.CustomerID,
			"error", err,
		)
		kind = ResultFatal
	} else {
		s.metrics.IncInvoiceCreated()
		s.logger.Info("invoice_created",
			"invoice_id", invoice.ID,
			"customer_id", invoice.CustomerID,
			"amount_cents", invoice.AmountCents,
			"status", string(invoice.Status),
		)
	}

	s.invalidate(ctx)

	return &MutationResult{Kind: kind, Next: InvoicesPath}
}

// UpdateInvoice validates the submitted form in strict mode and
// updates the customer, amount and status of an existing invoice.
// Any violation or persistence failure is logged; invalidation and
// the redirect target still apply.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, fields map[string]string) *MutationResult {
	values, err := form.ParseInvoiceStrict(fields)
	if err != nil {
		s.logger.Error("invoice_update_failed",
			"invoice_id", id,
			"error", err,
		)
		s.invalidate(ctx)
		return &MutationResult{Kind: ResultFatal, Next: InvoicesPath}
	}

	invoice := &model.Invoice{
		ID:          id,
		CustomerID:  values.CustomerID,
		AmountCents: values.AmountCents,
		Status:      values.Status,
		UpdatedAt:   time.Now().UTC(),
	}

	kind := ResultSuccess
	if err := s.store.UpdateInvoice(ctx, invoice); err != nil {
		s.logger.Error("invoice_update_failed",
			"invoice_id", id,
			"error", err,
		)
		kind = ResultFatal
	} else {
		s.metrics.IncInvoiceUpdated()
		s.logger.Info("invoice_updated",
			"invoice_id", id,
			"amount_cents", invoice.AmountCents,
			"status", string(invoice.Status),
		)
	}

	s.invalidate(ctx)

	return &MutationResult{Kind: kind, Next: InvoicesPath}
}

// DeleteInvoice issues one delete statement and one invalidation for
// the invoices path. No redirect target: the caller stays on the
// current view.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) *MutationResult {
	kind := ResultSuccess
	if err := s.store.DeleteInvoice(ctx, id); err != nil {
		s.logger.Error("invoice_delete_failed",
			"invoice_id", id,
			"error", err,
		)
		kind = ResultFatal
	} else {
		s.metrics.IncInvoiceDeleted()
		s.logger.Info("invoice_deleted", "invoice_id", id)
	}

	s.invalidate(ctx)

	return &MutationResult{Kind: kind}
}

// GetInvoice retrieves an invoice by ID, for edit-form prefill.
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*model.Invoice, error) {
	invoice, err := s.store.GetInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvoiceNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

// ListInvoicesOutput is a page of the invoice listing.
type ListInvoicesOutput struct {
	Invoices   []*model.InvoiceRow
	Page       int
	TotalPages int
}

// ListInvoices retrieves a page of invoices matching the search query.
func (s *InvoiceService) ListInvoices(ctx context.Context, search string, page int) (*ListInvoicesOutput, error) {
	if page < 1 {
		page = 1
	}

	start := time.Now()
	invoices, err := s.store.ListInvoices(ctx, search, page)
	if err != nil {
		return nil, err
	}

	totalPages, err := s.store.CountInvoicePages(ctx, search)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveListDuration(time.Since(start))

	return &ListInvoicesOutput{
		Invoices:   invoices,
		Page:       page,
		TotalPages: totalPages,
	}, nil
}

// invalidate fires the cache invalidation signal for the invoices
// path. Failures are logged only; stale cache entries expire by TTL.
func (s *InvoiceService) invalidate(ctx context.Context) {
	if err := s.invalidator.InvalidatePath(ctx, InvoicesPath); err != nil {
		s.logger.Warn("cache_invalidation_failed",
			"path", InvoicesPath,
			"error", err,
		)
	}
}
