package model

// Customer represents a customer record. Read-only from this
// subsystem's perspective.
type Customer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"image_url"`
}

// CustomerSummary is a customer with invoice aggregates computed by
// join at query time, never stored.
type CustomerSummary struct {
	Customer
	TotalInvoices     int64 `json:"total_invoices"`
	TotalPendingCents int64 `json:"total_pending_cents"`
	TotalPaidCents    int64 `json:"total_paid_cents"`
}
