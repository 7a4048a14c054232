package service

import (
	"context"
	"errors"
	"testing"

	"github.com/invodash/invodash/internal/model"
	"github.com/invodash/invodash/internal/repository"
)

type fakeCustomerStore struct {
	customers []*model.CustomerSummary
	stats     *repository.DashboardStats
	err       error
}

func (f *fakeCustomerStore) ListCustomersWithTotals(_ context.Context, search string) ([]*model.CustomerSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.customers, nil
}

func (f *fakeCustomerStore) GetDashboardStats(_ context.Context) (*repository.DashboardStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func TestListCustomers_DegradesToEmpty(t *testing.T) {
	t.Parallel()

	store := &fakeCustomerStore{err: errors.New("connection refused")}
	svc := NewCustomerService(store, discardLogger())

	// Display reads never fail; a broken store yields an empty page.
	customers := svc.ListCustomers(context.Background(), "")
	if customers != nil {
		t.Errorf("expected nil on store failure, got %v", customers)
	}
}

func TestListCustomers_PassesThrough(t *testing.T) {
	t.Parallel()

	store := &fakeCustomerStore{
		customers: []*model.CustomerSummary{
			{Customer: model.Customer{ID: "cust-1", Name: "Evil Rabbit"}, TotalPendingCents: 15795},
		},
	}
	svc := NewCustomerService(store, discardLogger())

	customers := svc.ListCustomers(context.Background(), "rabbit")
	if len(customers) != 1 {
		t.Fatalf("expected 1 customer, got %d", len(customers))
	}
	if customers[0].TotalPendingCents != 15795 {
		t.Errorf("TotalPendingCents = %d, want 15795", customers[0].TotalPendingCents)
	}
}

func TestDashboardStats_DegradesToZero(t *testing.T) {
	t.Parallel()

	store := &fakeCustomerStore{err: errors.New("connection refused")}
	svc := NewCustomerService(store, discardLogger())

	stats := svc.DashboardStats(context.Background())
	if stats == nil {
		t.Fatal("expected zero-value stats, got nil")
	}
	if stats.InvoiceCount != 0 || stats.TotalPaidCents != 0 {
		t.Errorf("expected all-zero stats, got %+v", stats)
	}
}

func TestDashboardStats_PassesThrough(t *testing.T) {
	t.Parallel()

	store := &fakeCustomerStore{
		stats: &repository.DashboardStats{
			InvoiceCount:      13,
			CustomerCount:     6,
			TotalPaidCents:    778685,
			TotalPendingCents: 125000,
		},
	}
	svc := NewCustomerService(store, discardLogger())

	stats := svc.DashboardStats(context.Background())
	if stats.InvoiceCount != 13 {
		t.Errorf("InvoiceCount = %d, want 13", stats.InvoiceCount)
	}
	if stats.TotalPaidCents != 778685 {
		t.Errorf("TotalPaidCents = %d, want 778685", stats.TotalPaidCents)
	}
}
