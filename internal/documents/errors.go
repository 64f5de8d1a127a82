// Package documents holds the business documents that own priced line items:
// invoices, goods receipt notes and processing tickets, plus the parties they
// are issued to.
package documents

import (
	"errors"
	"fmt"
)

// Sentinel errors let handlers map failed saves to user-facing messages.
var (
	ErrCustomerRequired       = errors.New("customer name is required")
	ErrAgencyRequired         = errors.New("agency is required")
	ErrProcessingUnitRequired = errors.New("processing unit is required")
	ErrNoItems                = errors.New("document has no items")
	ErrDebtLimitExceeded      = errors.New("customer debt limit exceeded")
	ErrBaseProductRequired    = errors.New("description has no base product")
)

// ValidationError wraps a sentinel error with details for the operator.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a document validation failure.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func invalid(err error, format string, args ...any) error {
	return &ValidationError{Err: err, Details: fmt.Sprintf(format, args...)}
}
