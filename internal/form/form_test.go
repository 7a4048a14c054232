package form

import (
	"strings"
	"testing"

	"github.com/invodash/invodash/internal/model"
)

func TestCoerceAmountCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"whole dollars", "250", 25000},
		{"dollars and cents", "15.50", 1550},
		{"single cent", "0.01", 1},
		{"rounds half up", "10.005", 1001},
		{"rounds down", "10.004", 1000},
		{"trims whitespace", "  3.00 ", 300},
		{"empty coerces to zero", "", 0},
		{"non-numeric coerces to zero", "abc", 0},
		{"partial number coerces to zero", "12.3.4", 0},
		{"negative preserved", "-5", -500},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := CoerceAmountCents(tt.raw)
			if got != tt.want {
				t.Errorf("CoerceAmountCents(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseInvoice_Valid(t *testing.T) {
	t.Parallel()

	values, ferrs := ParseInvoice(map[string]string{
		"customerId": "cust-1",
		"amount":     "15.50",
		"status":     "pending",
	})
	if ferrs != nil {
		t.Fatalf("unexpected field errors: %v", ferrs)
	}

	if values.CustomerID != "cust-1" {
		t.Errorf("CustomerID = %q, want %q", values.CustomerID, "cust-1")
	}
	if values.AmountCents != 1550 {
		t.Errorf("AmountCents = %d, want 1550", values.AmountCents)
	}
	if values.Status != model.InvoiceStatusPending {
		t.Errorf("Status = %q, want pending", values.Status)
	}
}

func TestParseInvoice_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	// Empty form: every field violates its constraint, and all three
	// violations are reported together.
	values, ferrs := ParseInvoice(map[string]string{})
	if values != nil {
		t.Fatal("expected nil values on validation failure")
	}
	if len(ferrs) != 3 {
		t.Fatalf("expected 3 fields in error, got %d: %v", len(ferrs), ferrs)
	}

	for field, want := range map[string]string{
		"customerId": "Please select a customer",
		"amount":     "Please enter an amount greater than $0",
		"status":     "Please select an invoice status",
	} {
		if !ferrs.Has(field) {
			t.Errorf("expected error for field %q", field)
			continue
		}
		if ferrs[field][0] != want {
			t.Errorf("message for %q = %q, want %q", field, ferrs[field][0], want)
		}
	}
}

func TestParseInvoice_BadAmountCoercesToZero(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount string
	}{
		{"non-numeric", "abc"},
		{"empty", ""},
		{"zero", "0"},
		{"negative", "-3"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, ferrs := ParseInvoice(map[string]string{
				"customerId": "cust-1",
				"amount":     tt.amount,
				"status":     "paid",
			})
			if !ferrs.Has("amount") {
				t.Fatalf("expected amount error, got %v", ferrs)
			}
			if ferrs.Has("customerId") || ferrs.Has("status") {
				t.Errorf("only amount should be in error, got %v", ferrs)
			}
			if ferrs["amount"][0] != "Please enter an amount greater than $0" {
				t.Errorf("message = %q", ferrs["amount"][0])
			}
		})
	}
}

func TestParseInvoice_InvalidStatus(t *testing.T) {
	t.Parallel()

	_, ferrs := ParseInvoice(map[string]string{
		"customerId": "cust-1",
		"amount":     "10",
		"status":     "overdue",
	})
	if !ferrs.Has("status") {
		t.Fatalf("expected status error, got %v", ferrs)
	}
}

func TestParseInvoiceStrict_FirstViolation(t *testing.T) {
	t.Parallel()

	_, err := ParseInvoiceStrict(map[string]string{
		"amount": "abc",
		"status": "overdue",
	})
	if err == nil {
		t.Fatal("expected error for invalid form")
	}

	// Strict mode fails on the first violated field in declaration
	// order, which is customerId here.
	if !strings.Contains(err.Error(), "customerId") {
		t.Errorf("error should name the first violated field, got: %v", err)
	}
}

func TestParseInvoiceStrict_Valid(t *testing.T) {
	t.Parallel()

	values, err := ParseInvoiceStrict(map[string]string{
		"customerId": "cust-2",
		"amount":     "99.99",
		"status":     "paid",
	})
	if err != nil {
		t.Fatalf("ParseInvoiceStrict failed: %v", err)
	}
	if values.AmountCents != 9999 {
		t.Errorf("AmountCents = %d, want 9999", values.AmountCents)
	}
	if values.Status != model.InvoiceStatusPaid {
		t.Errorf("Status = %q, want paid", values.Status)
	}
}

func TestParseCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		fields    map[string]string
		wantField string
	}{
		{
			name:   "valid",
			fields: map[string]string{"email": "user@nextmail.com", "password": "123456"},
		},
		{
			name:      "missing email",
			fields:    map[string]string{"password": "123456"},
			wantField: "email",
		},
		{
			name:      "malformed email",
			fields:    map[string]string{"email": "not-an-email", "password": "123456"},
			wantField: "email",
		},
		{
			name:      "short password",
			fields:    map[string]string{"email": "user@nextmail.com", "password": "12345"},
			wantField: "password",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			creds, ferrs := ParseCredentials(tt.fields)
			if tt.wantField == "" {
				if ferrs != nil {
					t.Fatalf("unexpected field errors: %v", ferrs)
				}
				if creds.Email != tt.fields["email"] {
					t.Errorf("Email = %q, want %q", creds.Email, tt.fields["email"])
				}
				return
			}

			if creds != nil {
				t.Fatal("expected nil credentials on validation failure")
			}
			if !ferrs.Has(tt.wantField) {
				t.Errorf("expected error for field %q, got %v", tt.wantField, ferrs)
			}
		})
	}
}

func TestFieldErrors_Has(t *testing.T) {
	t.Parallel()

	ferrs := FieldErrors{"amount": {"Please enter an amount greater than $0"}}
	if !ferrs.Has("amount") {
		t.Error("Has(amount) should be true")
	}
	if ferrs.Has("status") {
		t.Error("Has(status) should be false")
	}
}
