package vendas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/etnz/vendas/date"
)

// ClientInput holds the editable fields of a Client.
type ClientInput struct {
	Name    string `validate:"required"`
	Phone   string `validate:"required"`
	Email   string
	Address string
	CPF     string
	Notes   string
}

// StockInput holds the editable fields of a StockItem.
type StockInput struct {
	Name     string `validate:"required"`
	Category string `validate:"required"`
	Code     string `validate:"required"`
	Size     string
	Quantity int `validate:"gte=0"`
}

// SaleInput describes a sale to record.
type SaleInput struct {
	ClientName string `validate:"required"`
	ProductID  int    `validate:"required"`
	Quantity   int    `validate:"gt=0"`
	UnitPrice  decimal.Decimal
	SaleDate   string
	Notes      string
}

// PaymentInput describes a payment to record.
type PaymentInput struct {
	ClientName  string `validate:"required"`
	Value       decimal.Decimal
	PaymentDate string
	Notes       string
}

var validate = validator.New()

// check validates the tagged fields of an input struct and turns the first
// failure into an ErrValidation naming the field.
func check(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalid(fe.Field(), "is required")
	case "gte":
		return invalid(fe.Field(), "must not be negative")
	case "gt":
		return invalid(fe.Field(), "must be greater than zero")
	default:
		return invalid(fe.Field(), "is invalid (%s)", fe.Tag())
	}
}

// positive checks a monetary field, decimal.Decimal is opaque to the validator.
func positive(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return invalid(field, "must be greater than zero")
	}
	return nil
}

// isoDate returns a date field in the stored YYYY-MM-DD form. Dates are
// compared as strings, so "2025-1-5" is stored as "2025-01-05". An empty
// date stays empty.
func isoDate(field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	d, err := date.Parse(raw)
	if err != nil {
		return "", invalid(field, "is not a date: %q", raw)
	}
	return d.String(), nil
}

func (c ClientInput) trimmed() ClientInput {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.CPF = strings.TrimSpace(c.CPF)
	c.Notes = strings.TrimSpace(c.Notes)
	return c
}

func (s StockInput) trimmed() StockInput {
	s.Name = strings.TrimSpace(s.Name)
	s.Category = strings.TrimSpace(s.Category)
	s.Code = strings.TrimSpace(s.Code)
	s.Size = strings.TrimSpace(s.Size)
	return s
}
