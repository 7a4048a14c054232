// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/invodash/invodash/internal/form"
	"github.com/invodash/invodash/internal/model"
	"github.com/invodash/invodash/internal/repository"
	"github.com/invodash/invodash/internal/service"
)

// InvoiceResponse represents a single invoice in API responses.
// Used for edit-form prefill.
type InvoiceResponse struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customer_id"`
	AmountCents int64  `json:"amount_cents"`
	Status      string `json:"status"`
	Date        string `json:"date"`
}

// ToInvoiceResponse converts an Invoice to its response form.
func ToInvoiceResponse(invoice *model.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:          invoice.ID,
		CustomerID:  invoice.CustomerID,
		AmountCents: invoice.AmountCents,
		Status:      string(invoice.Status),
		Date:        invoice.Date,
	}
}

// InvoiceRowResponse represents one row of the invoice listing.
type InvoiceRowResponse struct {
	ID            string `json:"id"`
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	ImageURL      string `json:"image_url"`
	AmountCents   int64  `json:"amount_cents"`
	Status        string `json:"status"`
	Date          string `json:"date"`
}

// InvoiceListResponse represents a page of the invoice listing.
type InvoiceListResponse struct {
	Data       []InvoiceRowResponse `json:"data"`
	Page       int                  `json:"page"`
	TotalPages int                  `json:"total_pages"`
}

// ToInvoiceListResponse converts a listing page to its response form.
func ToInvoiceListResponse(out *service.ListInvoicesOutput) InvoiceListResponse {
	data := make([]InvoiceRowResponse, 0, len(out.Invoices))
	for _, row := range out.Invoices {
		data = append(data, InvoiceRowResponse{
			ID:            row.ID,
			CustomerID:    row.CustomerID,
			CustomerName:  row.CustomerName,
			CustomerEmail: row.CustomerEmail,
			ImageURL:      row.ImageURL,
			AmountCents:   row.AmountCents,
			Status:        string(row.Status),
			Date:          row.Date,
		})
	}

	return InvoiceListResponse{
		Data:       data,
		Page:       out.Page,
		TotalPages: out.TotalPages,
	}
}

// MutationResponse is the body returned by every invoice mutation.
type MutationResponse struct {
	Kind    string           `json:"kind"`
	Next    string           `json:"next,omitempty"`
	Errors  form.FieldErrors `json:"errors,omitempty"`
	Message string           `json:"message,omitempty"`
}

// ToMutationResponse converts a service MutationResult to its response form.
func ToMutationResponse(result *service.MutationResult) MutationResponse {
	return MutationResponse{
		Kind:    string(result.Kind),
		Next:    result.Next,
		Errors:  result.FieldErrors,
		Message: result.Message,
	}
}

// CustomerResponse represents a customer with invoice aggregates.
type CustomerResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	ImageURL          string `json:"image_url"`
	TotalInvoices     int64  `json:"total_invoices"`
	TotalPendingCents int64  `json:"total_pending_cents"`
	TotalPaidCents    int64  `json:"total_paid_cents"`
}

// CustomerListResponse represents the customers listing.
type CustomerListResponse struct {
	Data []CustomerResponse `json:"data"`
}

// ToCustomerListResponse converts customer summaries to their response form.
func ToCustomerListResponse(customers []*model.CustomerSummary) CustomerListResponse {
	data := make([]CustomerResponse, 0, len(customers))
	for _, c := range customers {
		data = append(data, CustomerResponse{
			ID:                c.ID,
			Name:              c.Name,
			Email:             c.Email,
			ImageURL:          c.ImageURL,
			TotalInvoices:     c.TotalInvoices,
			TotalPendingCents: c.TotalPendingCents,
			TotalPaidCents:    c.TotalPaidCents,
		})
	}
	return CustomerListResponse{Data: data}
}

// DashboardResponse represents the dashboard summary figures.
type DashboardResponse struct {
	InvoiceCount      int64 `json:"invoice_count"`
	CustomerCount     int64 `json:"customer_count"`
	TotalPaidCents    int64 `json:"total_paid_cents"`
	TotalPendingCents int64 `json:"total_pending_cents"`
}

// ToDashboardResponse converts dashboard stats to their response form.
func ToDashboardResponse(stats *repository.DashboardStats) DashboardResponse {
	return DashboardResponse{
		InvoiceCount:      stats.InvoiceCount,
		CustomerCount:     stats.CustomerCount,
		TotalPaidCents:    stats.TotalPaidCents,
		TotalPendingCents: stats.TotalPendingCents,
	}
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
	Next      string `json:"next"`
}

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
