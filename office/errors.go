/*
errors.go - Centralized error types for the back office

PURPOSE:
  All error types in one place for consistency and discoverability.
  The store and the payroll engine return these; the API layer maps them
  to HTTP status codes.

ERROR CATEGORIES:
  1. Ownership errors - Record missing or owned by another contractor
  2. Validation errors - Malformed periods, amounts, inconsistent totals
  3. Store errors - Uniqueness violations

USAGE:
  if errors.Is(err, office.ErrEmployeeNotFound) {
      // 404
  }

SEE ALSO:
  - api/handlers.go: writeServiceError maps these to HTTP status codes
  - store/sqlite: Translates driver errors into these sentinels
*/
package office

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when an employee does not exist or
	// belongs to another contractor. The two cases are indistinguishable
	// to the caller.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrEmployeeInactive is returned when writing attendance for a
	// deactivated employee.
	ErrEmployeeInactive = errors.New("employee is inactive")

	ErrClientNotFound    = errors.New("client not found")
	ErrQuotationNotFound = errors.New("quotation not found")
	ErrPayrollNotFound   = errors.New("payroll record not found")

	// ErrClientInUse is returned when deleting a client that still has
	// quotations.
	ErrClientInUse = errors.New("client has quotations")

	// ErrNoValidEmployees is returned by finalize when no submitted entry
	// belongs to the contractor.
	ErrNoValidEmployees = errors.New("no valid employees found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period")

	ErrInvalidAmount = errors.New("invalid amount")

	// ErrNetPayMismatch is returned when a caller-supplied net pay does not
	// equal gross + bonuses - deductions.
	ErrNetPayMismatch = errors.New("net pay does not match adjustments")

	// ErrDuplicateEmail is returned when a contractor already has an
	// employee with the same email.
	ErrDuplicateEmail = errors.New("employee email already in use")

	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NetPayMismatchError details a rejected finalize entry.
type NetPayMismatchError struct {
	EmployeeID EmployeeID
	Submitted  decimal.Decimal
	Computed   decimal.Decimal
}

func (e *NetPayMismatchError) Error() string {
	return fmt.Sprintf("net pay mismatch for employee %s: submitted %s, computed %s",
		e.EmployeeID, FormatMoney(e.Submitted), FormatMoney(e.Computed))
}

func (e *NetPayMismatchError) Unwrap() error {
	return ErrNetPayMismatch
}

// FieldError is one failed field of a ValidationError.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError lists the fields of a request that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " (" + f.Rule + ")"
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing or foreign record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrClientNotFound) ||
		errors.Is(err, ErrQuotationNotFound) ||
		errors.Is(err, ErrPayrollNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNetPayMismatch) ||
		errors.Is(err, ErrNoValidEmployees) ||
		errors.Is(err, ErrEmployeeInactive) ||
		errors.Is(err, ErrValidation)
}
