package repository

import (
	"context"
	"fmt"

	"github.com/invodash/invodash/internal/model"
)

// CreateCustomer inserts a new customer. Used by the seed tooling and
// tests; the API itself never writes customers.
func (r *Repository) CreateCustomer(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, image_url)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// ListCustomersWithTotals retrieves customers joined with their
// invoices, with pending/paid sums defaulting to 0 and invoice counts,
// ordered by descending pending total. An empty search matches all
// customers.
func (r *Repository) ListCustomersWithTotals(ctx context.Context, search string) ([]*model.CustomerSummary, error) {
	query := `
		SELECT c.id, c.name, c.email, c.image_url,
			COUNT(i.id) AS total_invoices,
			COALESCE(SUM(CASE WHEN i.status = 'pending' THEN i.amount ELSE 0 END), 0) AS total_pending,
			COALESCE(SUM(CASE WHEN i.status = 'paid' THEN i.amount ELSE 0 END), 0) AS total_paid
		FROM customers c
		LEFT JOIN invoices i ON c.id = i.customer_id
		WHERE c.name ILIKE $1 OR c.email ILIKE $1
		GROUP BY c.id, c.name, c.email, c.image_url
		ORDER BY total_pending DESC
	`

	rows, err := r.pool.Query(ctx, query, "%"+search+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []*model.CustomerSummary
	for rows.Next() {
		var c model.CustomerSummary
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Email,
			&c.ImageURL,
			&c.TotalInvoices,
			&c.TotalPendingCents,
			&c.TotalPaidCents,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return customers, nil
}
