/*
Package office provides the core records of the contractor back office.

PURPOSE:
  Domain types shared by the payroll engine, the store and the HTTP API.
  A contractor (the authenticated account) owns employees, clients and
  quotations. Employees accumulate attendance and pay rates; payroll runs
  turn those into immutable history rows.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee, BankDetails, PayRate: long-lived, edited explicitly
  - AttendanceRecord: one per (employee, work date), written by upsert
  - PayrollHistory, PayrollAdjustment: immutable payroll snapshots
  - Client, Quotation: the quoting side of the back office

DESIGN PRINCIPLES:
  1. Precision: every quantity and amount is a decimal.Decimal
  2. Ownership: every root record carries the ContractorID it belongs to
  3. Immutability: payroll history is never updated, only inserted

SEE ALSO:
  - money.go: 2-dp fixed-point formatting
  - time.go: Date and Period
  - errors.go: Sentinel and structured errors
  - store.go: Persistence interfaces
*/
package office

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type ContractorID string
type EmployeeID string
type ClientID string
type QuotationID string
type PayrollHistoryID string

// =============================================================================
// ENUMERATIONS
// =============================================================================

// EmploymentType selects the display unit for attendance. It never changes
// the pay arithmetic: every type is paid unitsWorked × rate.
type EmploymentType string

const (
	EmploymentHourly        EmploymentType = "HOURLY"
	EmploymentDaily         EmploymentType = "DAILY"
	EmploymentSubContractor EmploymentType = "SUB_CONTRACTOR"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case EmploymentHourly, EmploymentDaily, EmploymentSubContractor:
		return true
	}
	return false
}

// Unit returns the attendance unit label for the employment type.
func (t EmploymentType) Unit() string {
	switch t {
	case EmploymentHourly:
		return "hours"
	case EmploymentDaily:
		return "days"
	default:
		return "units"
	}
}

type PayFrequency string

const (
	PayWeekly   PayFrequency = "WEEKLY"
	PayBiWeekly PayFrequency = "BI_WEEKLY"
	PayMonthly  PayFrequency = "MONTHLY"
)

func (f PayFrequency) Valid() bool {
	switch f {
	case PayWeekly, PayBiWeekly, PayMonthly:
		return true
	}
	return false
}

type AttendanceStatus string

const (
	StatusPresent  AttendanceStatus = "PRESENT"
	StatusSick     AttendanceStatus = "SICK"
	StatusVacation AttendanceStatus = "VACATION"
	StatusAbsent   AttendanceStatus = "ABSENT"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusSick, StatusVacation, StatusAbsent:
		return true
	}
	return false
}

type AdjustmentType string

const (
	AdjustmentBonus     AdjustmentType = "BONUS"
	AdjustmentDeduction AdjustmentType = "DEDUCTION"
)

func (t AdjustmentType) Valid() bool {
	return t == AdjustmentBonus || t == AdjustmentDeduction
}

type QuotationStatus string

const (
	QuotationDraft    QuotationStatus = "DRAFT"
	QuotationReview   QuotationStatus = "REVIEW"
	QuotationApproved QuotationStatus = "APPROVED"
	QuotationRejected QuotationStatus = "REJECTED"
	QuotationCanceled QuotationStatus = "CANCELED"
)

func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationDraft, QuotationReview, QuotationApproved, QuotationRejected, QuotationCanceled:
		return true
	}
	return false
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type Employee struct {
	ID               EmployeeID
	ContractorID     ContractorID
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	Address          string
	NationalID       string
	JobCategory      string
	EmploymentType   EmploymentType
	PayFrequency     PayFrequency
	HireDate         *Date
	InsuranceDetails string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// FullName is the name snapshotted into payroll history.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type BankDetails struct {
	EmployeeID   EmployeeID
	BankName     string
	AccountAlias string
	CBUCVU       string
}

// IsEmpty reports whether no bank field is set.
func (b BankDetails) IsEmpty() bool {
	return b.BankName == "" && b.AccountAlias == "" && b.CBUCVU == ""
}

// PayRate is one entry of an employee's append-only rate history.
type PayRate struct {
	ID            string
	EmployeeID    EmployeeID
	Rate          decimal.Decimal
	EffectiveDate Date
	CreatedAt     time.Time
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceRecord struct {
	ID          string
	EmployeeID  EmployeeID
	ProjectID   string
	WorkDate    Date
	UnitsWorked decimal.Decimal
	Status      AttendanceStatus
	Notes       string
}

// AttendanceInput is one upsert request for (EmployeeID, WorkDate).
type AttendanceInput struct {
	EmployeeID  EmployeeID
	WorkDate    Date
	UnitsWorked decimal.Decimal
	Status      AttendanceStatus
	ProjectID   string
	Notes       string
}

// EmployeeAttendance is an employee with its attendance rows in a period.
type EmployeeAttendance struct {
	Employee Employee
	Records  []AttendanceRecord
}

// =============================================================================
// PAYROLL HISTORY
// =============================================================================

// PayrollHistory is a payslip row. It is never updated after creation;
// corrections are made by inserting a new run.
type PayrollHistory struct {
	ID             PayrollHistoryID
	EmployeeID     EmployeeID
	EmployeeName   string
	PayPeriodStart Date
	PayPeriodEnd   Date
	PaymentDate    Date
	GrossPay       decimal.Decimal
	Bonuses        decimal.Decimal
	Deductions     decimal.Decimal
	NetPay         decimal.Decimal
	Notes          string
}

type PayrollAdjustment struct {
	ID               string
	PayrollHistoryID PayrollHistoryID
	Type             AdjustmentType
	Description      string
	Amount           decimal.Decimal
	CreatedAt        time.Time
}

// =============================================================================
// CLIENTS & QUOTATIONS
// =============================================================================

type Client struct {
	ID           ClientID
	ContractorID ContractorID
	Name         string
	Email        string
	Phone        string
	Address      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Quotation struct {
	ID                 QuotationID
	ContractorID       ContractorID
	ClientID           ClientID
	QuotationNumber    string
	IssueDate          Date
	ValidityDays       *int
	TermsAndConditions string
	InternalNotes      string
	Status             QuotationStatus
	Subtotal           decimal.Decimal
	Total              decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type QuotationItem struct {
	ID          string
	QuotationID QuotationID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

type QuotationHistoryEntry struct {
	ID          string
	QuotationID QuotationID
	Action      string
	CreatedAt   time.Time
}

// QuotationDetail is a quotation with its client, items and history.
type QuotationDetail struct {
	Quotation
	Client  *Client
	Items   []QuotationItem
	History []QuotationHistoryEntry
}
