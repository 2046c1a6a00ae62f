/*
store.go - Persistence interfaces used by the payroll engine

PURPOSE:
  Defines the boundary between payroll computation and the database.
  The payroll package depends only on these interfaces; store/sqlite
  provides the implementation.

KEY INTERFACES:
  PayrollReader: Loads rosters, attendance, rates and history
  PayrollWriter: Inserts history rows and their adjustments
  PayrollStore:  Reader plus WithTx for atomic run finalization

APPEND-ONLY CONTRACT:
  PayrollWriter has no Update or Delete. A payroll run is written once;
  corrections are new runs.

SEE ALSO:
  - payroll/service.go: Uses PayrollStore
  - store/sqlite/payroll.go: Implementation
*/
package office

import (
	"context"

	"github.com/shopspring/decimal"
)

// EmployeePayrollData is everything the calculator needs for one employee.
type EmployeePayrollData struct {
	Employee   Employee
	Attendance []AttendanceRecord // work dates inside the requested period
	PayRates   []PayRate          // full history, newest effective date first
}

// PayrollReader loads payroll inputs and history, always scoped to one
// contractor.
type PayrollReader interface {
	// PayrollData returns every active employee of the contractor with its
	// attendance in period and its pay-rate history.
	PayrollData(ctx context.Context, contractorID ContractorID, period Period) ([]EmployeePayrollData, error)

	// EmployeeIDs returns the IDs of all employees (active or not) owned by
	// the contractor.
	EmployeeIDs(ctx context.Context, contractorID ContractorID) (map[EmployeeID]bool, error)

	// ListPayrollHistory returns every history row of the contractor's
	// employees, newest payment date first.
	ListPayrollHistory(ctx context.Context, contractorID ContractorID) ([]PayrollHistory, error)

	// ListPayrollAdjustments returns the itemized adjustments of one row.
	ListPayrollAdjustments(ctx context.Context, contractorID ContractorID, id PayrollHistoryID) ([]PayrollAdjustment, error)
}

// PayrollWriter persists a payroll run. Insert only.
type PayrollWriter interface {
	InsertPayrollHistory(ctx context.Context, row PayrollHistory) error
	InsertPayrollAdjustments(ctx context.Context, adjustments []PayrollAdjustment) error
}

// PayrollStore wraps PayrollReader with transaction support.
type PayrollStore interface {
	PayrollReader

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	WithTx(ctx context.Context, fn func(PayrollWriter) error) error
}

// =============================================================================
// PARTIAL UPDATES - nil fields are left untouched
// =============================================================================

type EmployeeUpdate struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Phone            *string
	Address          *string
	NationalID       *string
	JobCategory      *string
	EmploymentType   *EmploymentType
	PayFrequency     *PayFrequency
	HireDate         *Date
	InsuranceDetails *string

	// Rate appends a new pay rate effective today when it differs from the
	// current one.
	Rate *decimal.Decimal

	// Bank is merged field by field into the stored bank details.
	Bank *BankUpdate
}

// BankUpdate holds the bank fields of an employee update. Nil fields keep
// their stored value.
type BankUpdate struct {
	BankName     *string
	AccountAlias *string
	CBUCVU       *string
}

// Apply returns current with the set fields replaced.
func (u BankUpdate) Apply(current BankDetails) BankDetails {
	if u.BankName != nil {
		current.BankName = *u.BankName
	}
	if u.AccountAlias != nil {
		current.AccountAlias = *u.AccountAlias
	}
	if u.CBUCVU != nil {
		current.CBUCVU = *u.CBUCVU
	}
	return current
}

type ClientUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type QuotationUpdate struct {
	ClientID           *ClientID
	QuotationNumber    *string
	IssueDate          *Date
	ValidityDays       *int
	TermsAndConditions *string
	InternalNotes      *string

	// Items replaces all line items when non-empty; totals are recomputed.
	Items []QuotationItem
}

// QuotationFilter narrows ListQuotations. Zero values match everything.
type QuotationFilter struct {
	Search   string
	Status   QuotationStatus
	ClientID ClientID
}
