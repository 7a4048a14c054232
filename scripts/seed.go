// Seed creates a dashboard user (and optionally demo data) directly in
// the database. Run it once against a fresh database:
//
//	go run ./scripts/seed.go -email user@nextmail.com -password 123456
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/invodash/invodash/internal/auth"
	"github.com/invodash/invodash/internal/model"
	"github.com/invodash/invodash/internal/repository"
)

type output struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Customers int    `json:"customers"`
	Invoices  int    `json:"invoices"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "user@nextmail.com", "Email for the seeded user")
		name        = flag.String("name", "User", "Display name for the seeded user")
		password    = flag.String("password", "", "Password for the seeded user (required)")
		demoData    = flag.Bool("demo-data", false, "Also insert demo customers and invoices")
		format      = flag.String("format", "json", "Output format: json or plain")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "database URL is required (flag -database-url or env DATABASE_URL)")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "password is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         *name,
		Email:        *email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		fmt.Fprintln(os.Stderr, "create user:", err)
		os.Exit(1)
	}

	out := output{UserID: user.ID, Email: user.Email}

	if *demoData {
		customers, invoices, err := seedDemoData(ctx, repo)
		if err != nil {
			fmt.Fprintln(os.Stderr, "seed demo data:", err)
			os.Exit(1)
		}
		out.Customers = customers
		out.Invoices = invoices
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.UserID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// seedDemoData inserts a small set of customers with invoices spread
// across both statuses so every dashboard card has something to show.
func seedDemoData(ctx context.Context, repo *repository.Repository) (int, int, error) {
	names := []string{"Evil Rabbit", "Delba de Oliveira", "Lee Robinson", "Michael Novotny", "Amy Burns", "Balazs Orban"}

	type seedInvoice struct {
		amountCents int64
		status      model.InvoiceStatus
		daysAgo     int
	}
	plans := [][]seedInvoice{
		{{15795, model.InvoiceStatusPending, 3}, {66800, model.InvoiceStatusPaid, 40}},
		{{20348, model.InvoiceStatusPending, 7}},
		{{544600, model.InvoiceStatusPaid, 14}, {3040, model.InvoiceStatusPaid, 60}},
		{{34577, model.InvoiceStatusPending, 21}},
		{{120500, model.InvoiceStatusPaid, 28}, {44800, model.InvoiceStatusPaid, 75}},
		{{8945, model.InvoiceStatusPending, 35}},
	}

	customers := 0
	invoices := 0
	now := time.Now().UTC()

	for i, name := range names {
		customer := &model.Customer{
			ID:       ulid.Make().String(),
			Name:     name,
			Email:    strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
			ImageURL: "/customers/" + strings.ToLower(strings.ReplaceAll(name, " ", "-")) + ".png",
		}
		if err := repo.CreateCustomer(ctx, customer); err != nil {
			return customers, invoices, err
		}
		customers++

		for _, plan := range plans[i] {
			date := now.AddDate(0, 0, -plan.daysAgo)
			invoice := &model.Invoice{
				ID:          ulid.Make().String(),
				CustomerID:  customer.ID,
				AmountCents: plan.amountCents,
				Status:      plan.status,
				Date:        date.Format("2006-01-02"),
				CreatedAt:   date,
				UpdatedAt:   date,
			}
			if err := repo.CreateInvoice(ctx, invoice); err != nil {
				return customers, invoices, err
			}
			invoices++
		}
	}

	return customers, invoices, nil
}
