// Package model defines domain entities for the application.
package model

import "time"

// InvoiceStatus represents the payment status of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

// IsValid checks if the status is one of the two allowed values.
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice represents an invoice record.
// AmountCents stores the amount in integer minor units to avoid
// floating-point rounding error.
type Invoice struct {
	ID          string        `json:"id"`
	CustomerID  string        `json:"customer_id"`
	AmountCents int64         `json:"amount_cents"`
	Status      InvoiceStatus `json:"status"`
	Date        string        `json:"date"` // ISO calendar date, YYYY-MM-DD
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// InvoiceRow is the list projection of an invoice joined with its
// customer's display fields.
type InvoiceRow struct {
	ID            string        `json:"id"`
	CustomerID    string        `json:"customer_id"`
	CustomerName  string        `json:"customer_name"`
	CustomerEmail string        `json:"customer_email"`
	ImageURL      string        `json:"image_url"`
	AmountCents   int64         `json:"amount_cents"`
	Status        InvoiceStatus `json:"status"`
	Date          string        `json:"date"`
}
