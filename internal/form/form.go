// Package form validates submitted form fields and coerces them into
// typed values. Rules are declared as validator struct tags; amounts
// are parsed with decimal arithmetic and stored as integer cents.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/invodash/invodash/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the submitted field name, not the Go one.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("form")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldErrors maps a form field name to the messages for every
// constraint it violated.
type FieldErrors map[string][]string

// Has reports whether the field has at least one error.
func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

// User-facing messages per field, matching the dashboard forms.
var fieldMessages = map[string]string{
	"customerId": "Please select a customer",
	"amount":     "Please enter an amount greater than $0",
	"status":     "Please select an invoice status",
	"email":      "Please enter a valid email address",
	"password":   "Password must be at least 6 characters",
}

func messageFor(field string, fe validator.FieldError) string {
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	if fe != nil {
		return fmt.Sprintf("Invalid value for %s (%s)", field, fe.Tag())
	}
	return fmt.Sprintf("Invalid value for %s", field)
}

// invoiceInput is the declarative rule set for invoice forms.
type invoiceInput struct {
	CustomerID  string `form:"customerId" validate:"required"`
	AmountCents int64  `form:"amount" validate:"gt=0"`
	Status      string `form:"status" validate:"oneof=pending paid"`
}

// InvoiceValues is the typed payload of a successfully validated
// invoice form.
type InvoiceValues struct {
	CustomerID  string
	AmountCents int64
	Status      model.InvoiceStatus
}

// ParseInvoice validates invoice form fields in permissive mode:
// every violated constraint is collected into FieldErrors before
// returning. On success FieldErrors is nil.
func ParseInvoice(fields map[string]string) (*InvoiceValues, FieldErrors) {
	in, verrs := checkInvoice(fields)
	if len(verrs) > 0 {
		ferrs := make(FieldErrors, len(verrs))
		for _, fe := range verrs {
			name := fe.Field()
			ferrs[name] = append(ferrs[name], messageFor(name, fe))
		}
		return nil, ferrs
	}

	return &InvoiceValues{
		CustomerID:  in.CustomerID,
		AmountCents: in.AmountCents,
		Status:      model.InvoiceStatus(in.Status),
	}, nil
}

// ParseInvoiceStrict validates invoice form fields in strict mode:
// it fails on the first violated constraint. Used by update, where a
// violation surfaces as a processing failure rather than field errors.
func ParseInvoiceStrict(fields map[string]string) (*InvoiceValues, error) {
	in, verrs := checkInvoice(fields)
	if len(verrs) > 0 {
		fe := verrs[0]
		return nil, fmt.Errorf("invalid field %q: %s", fe.Field(), messageFor(fe.Field(), fe))
	}

	return &InvoiceValues{
		CustomerID:  in.CustomerID,
		AmountCents: in.AmountCents,
		Status:      model.InvoiceStatus(in.Status),
	}, nil
}

func checkInvoice(fields map[string]string) (invoiceInput, validator.ValidationErrors) {
	in := invoiceInput{
		CustomerID:  strings.TrimSpace(fields["customerId"]),
		AmountCents: CoerceAmountCents(fields["amount"]),
		Status:      strings.TrimSpace(fields["status"]),
	}

	err := validate.Struct(in)
	if err == nil {
		return in, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Not reachable with a struct input; treat as an empty form.
		verrs = validator.ValidationErrors{}
	}
	return in, verrs
}

var centsPerUnit = decimal.NewFromInt(100)

// CoerceAmountCents converts a submitted amount string to integer
// cents, rounding half away from zero. An empty or non-numeric string
// coerces to 0, which then fails the greater-than-zero constraint.
// The coercion-to-zero is deliberate, not a parse error.
func CoerceAmountCents(raw string) int64 {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return d.Mul(centsPerUnit).Round(0).IntPart()
}

// credentialsInput is the declarative rule set for the login form.
type credentialsInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

// Credentials is the typed payload of a validated login form.
type Credentials struct {
	Email    string
	Password string
}

// ParseCredentials validates login form fields in permissive mode.
func ParseCredentials(fields map[string]string) (*Credentials, FieldErrors) {
	in := credentialsInput{
		Email:    strings.TrimSpace(fields["email"]),
		Password: fields["password"],
	}

	err := validate.Struct(in)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, FieldErrors{"email": {messageFor("email", nil)}}
		}
		ferrs := make(FieldErrors, len(verrs))
		for _, fe := range verrs {
			name := fe.Field()
			ferrs[name] = append(ferrs[name], messageFor(name, fe))
		}
		return nil, ferrs
	}

	return &Credentials{Email: in.Email, Password: in.Password}, nil
}
