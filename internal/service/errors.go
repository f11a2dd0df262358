package service

import (
	"errors"
	"fmt"
	"strings"

	"vatrefunder/internal/model"
)

var (
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateInvoice = errors.New("duplicate invoice")
	ErrSchema           = errors.New("batch schema error")
	ErrDataUnavailable  = errors.New("reference data unavailable")
	ErrNoData           = errors.New("no data for the selected period")
	ErrPersistence      = errors.New("persistence fault")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// SchemaError lists the required batch columns that were not found.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

func (e *SchemaError) Unwrap() error { return ErrSchema }

// DuplicateInvoiceError is returned when an invoice number already exists in its category.
type DuplicateInvoiceError struct {
	Category model.Category
	Number   string
}

func (e *DuplicateInvoiceError) Error() string {
	if e.Number == "" {
		return fmt.Sprintf("%s invoices: an invoice number already exists", e.Category.Label())
	}
	return fmt.Sprintf("invoice %s already exists in %s", e.Number, e.Category.Label())
}

func (e *DuplicateInvoiceError) Unwrap() error { return ErrDuplicateInvoice }

// persistenceError keeps the driver message verbatim.
func persistenceError(err error) error {
	if err == nil || errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func unavailable(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDataUnavailable, what, err)
}
