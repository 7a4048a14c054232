package service

import (
	"context"
	"log/slog"

	"github.com/invodash/invodash/internal/model"
	"github.com/invodash/invodash/internal/repository"
)

// CustomerStore is the read capability for customer aggregates.
type CustomerStore interface {
	ListCustomersWithTotals(ctx context.Context, search string) ([]*model.CustomerSummary, error)
	GetDashboardStats(ctx context.Context) (*repository.DashboardStats, error)
}

// CustomerService serves display-only aggregate reads. Failures are
// logged and degrade to empty results; they never reach the caller as
// errors.
type CustomerService struct {
	store  CustomerStore
	logger *slog.Logger
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(store CustomerStore, logger *slog.Logger) *CustomerService {
	return &CustomerService{
		store:  store,
		logger: logger,
	}
}

// ListCustomers returns customers with their invoice totals, ordered
// by descending pending amount. On failure the result is empty.
func (s *CustomerService) ListCustomers(ctx context.Context, search string) []*model.CustomerSummary {
	customers, err := s.store.ListCustomersWithTotals(ctx, search)
	if err != nil {
		s.logger.Error("customer_list_failed", "error", err)
		return nil
	}
	return customers
}

// DashboardStats returns the dashboard aggregates. On failure the
// result is all zeros.
func (s *CustomerService) DashboardStats(ctx context.Context) *repository.DashboardStats {
	stats, err := s.store.GetDashboardStats(ctx)
	if err != nil {
		s.logger.Error("dashboard_stats_failed", "error", err)
		return &repository.DashboardStats{}
	}
	return stats
}
