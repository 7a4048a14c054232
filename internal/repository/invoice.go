package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/invodash/invodash/internal/model"
)

// Common errors for invoice repository operations.
var (
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrCustomerNotFound = errors.New("customer not found")
)

// InvoicesPerPage is the page size for invoice listings.
const InvoicesPerPage = 6

// CreateInvoice inserts a new invoice into the database.
func (r *Repository) CreateInvoice(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (id, customer_id, amount, status, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		invoice.ID,
		invoice.CustomerID,
		invoice.AmountCents,
		invoice.Status,
		invoice.Date,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}

	return nil
}

// GetInvoiceByID retrieves an invoice by its ID.
func (r *Repository) GetInvoiceByID(ctx context.Context, id string) (*model.Invoice, error) {
	query := `
		SELECT id, customer_id, amount, status, date::text, created_at, updated_at
		FROM invoices
		WHERE id = $1
	`

	var invoice model.Invoice
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&invoice.ID,
		&invoice.CustomerID,
		&invoice.AmountCents,
		&invoice.Status,
		&invoice.Date,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice by ID: %w", err)
	}

	return &invoice, nil
}

// UpdateInvoice updates the customer, amount and status of an invoice.
func (r *Repository) UpdateInvoice(ctx context.Context, invoice *model.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_id = $1, amount = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	tag, err := r.pool.Exec(ctx, query,
		invoice.CustomerID,
		invoice.AmountCents,
		invoice.Status,
		invoice.UpdatedAt,
		invoice.ID,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

// DeleteInvoice deletes an invoice by its ID.
func (r *Repository) DeleteInvoice(ctx context.Context, id string) error {
	query := `DELETE FROM invoices WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	return nil
}

// ListInvoices retrieves a page of invoices joined with customer
// display fields, filtered by a free-text search over customer name,
// email, amount, date and status.
func (r *Repository) ListInvoices(ctx context.Context, search string, page int) ([]*model.InvoiceRow, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * InvoicesPerPage

	query := `
		SELECT i.id, i.customer_id, c.name, c.email, c.image_url, i.amount, i.status, i.date::text
		FROM invoices i
		JOIN customers c ON i.customer_id = c.id
		WHERE c.name ILIKE $1
			OR c.email ILIKE $1
			OR i.amount::text ILIKE $1
			OR i.date::text ILIKE $1
			OR i.status ILIKE $1
		ORDER BY i.date DESC, i.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, "%"+search+"%", InvoicesPerPage, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*model.InvoiceRow
	for rows.Next() {
		var row model.InvoiceRow
		if err := rows.Scan(
			&row.ID,
			&row.CustomerID,
			&row.CustomerName,
			&row.CustomerEmail,
			&row.ImageURL,
			&row.AmountCents,
			&row.Status,
			&row.Date,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return invoices, nil
}

// CountInvoicePages returns the number of listing pages matching the
// search filter.
func (r *Repository) CountInvoicePages(ctx context.Context, search string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM invoices i
		JOIN customers c ON i.customer_id = c.id
		WHERE c.name ILIKE $1
			OR c.email ILIKE $1
			OR i.amount::text ILIKE $1
			OR i.date::text ILIKE $1
			OR i.status ILIKE $1
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, "%"+search+"%").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	return int(math.Ceil(float64(count) / float64(InvoicesPerPage))), nil
}

// DashboardStats holds the aggregate figures shown on the dashboard.
type DashboardStats struct {
	InvoiceCount      int64 `json:"invoice_count"`
	CustomerCount     int64 `json:"customer_count"`
	TotalPaidCents    int64 `json:"total_paid_cents"`
	TotalPendingCents int64 `json:"total_pending_cents"`
}

// GetDashboardStats fetches invoice and customer counts plus the paid
// and pending totals in a single statement.
func (r *Repository) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM invoices),
			(SELECT COUNT(*) FROM customers),
			(SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE status = 'paid'),
			(SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE status = 'pending')
	`

	var stats DashboardStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.InvoiceCount,
		&stats.CustomerCount,
		&stats.TotalPaidCents,
		&stats.TotalPendingCents,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}

	return &stats, nil
}
