package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/invodash/invodash/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420420

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates the full dashboard schema for tests.
// Invoices reference customers, so order matters in both directions.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	down := []string{
		"000003_invoices.down.sql",
		"000002_users.down.sql",
		"000001_customers.down.sql",
	}
	up := []string{
		"000001_customers.up.sql",
		"000002_users.up.sql",
		"000003_invoices.up.sql",
	}

	if err := applyMigrations(ctx, pool, down); err != nil {
		return err
	}
	return applyMigrations(ctx, pool, up)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool, names []string) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for _, name := range names {
		path := filepath.Join(root, "migrations", name)
		sql, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestCustomer creates a test customer with sensible defaults.
func NewTestCustomer(t testing.TB, name string) *model.Customer {
	t.Helper()
	now := time.Now().UTC()
	return &model.Customer{
		ID:       fmt.Sprintf("cust-%d", now.UnixNano()),
		Name:     name,
		Email:    fmt.Sprintf("%s-%d@example.com", name, now.UnixNano()),
		ImageURL: "/customers/" + name + ".png",
	}
}

// NewTestInvoice creates a pending test invoice for a customer.
func NewTestInvoice(t testing.TB, customerID string, amountCents int64) *model.Invoice {
	t.Helper()
	now := time.Now().UTC()
	return &model.Invoice{
		ID:          fmt.Sprintf("inv-%d", now.UnixNano()),
		CustomerID:  customerID,
		AmountCents: amountCents,
		Status:      model.InvoiceStatusPending,
		Date:        now.Format("2006-01-02"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestUser creates a test user with a precomputed password hash.
func NewTestUser(t testing.TB, email, passwordHash string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           fmt.Sprintf("user-%d", now.UnixNano()),
		Name:         "Test User",
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
