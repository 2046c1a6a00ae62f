/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the domain model in office/ and payroll/ from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY & UNITS:
  Every money value leaves the API as a fixed 2-decimal string ("0.00").
  unitsWorked is a JSON number. Request bodies accept amounts either as JSON
  numbers or as numeric strings (json.Number) and validate them with the
  "decimal" rule.

VALIDATION:
  Request types carry go-playground/validator tags; see validate.go for the
  custom "decimal", "nonnegative" and "date" rules.

SEE ALSO:
  - handlers.go: Shared handler plumbing
  - validate.go: Validator setup
*/
package api

import (
	"encoding/json"
	"time"

	"github.com/warp/backoffice/office"
	"github.com/warp/backoffice/payroll"
	"github.com/warp/backoffice/store/sqlite"
)

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email,omitempty"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address,omitempty"`
	NationalID       string  `json:"nationalId,omitempty"`
	JobCategory      string  `json:"jobCategory,omitempty"`
	EmploymentType   string  `json:"employmentType"`
	PayFrequency     string  `json:"payFrequency"`
	HireDate         *string `json:"hireDate,omitempty"`
	InsuranceDetails string  `json:"insuranceDetails,omitempty"`
	IsActive         bool    `json:"isActive"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`

	// Detail view only
	CurrentRate  *string `json:"currentRate,omitempty"`
	BankName     string  `json:"bankName,omitempty"`
	AccountAlias string  `json:"accountAlias,omitempty"`
	CBUCVU       string  `json:"cbuCvu,omitempty"`
}

type CreateEmployeeRequest struct {
	FirstName        string      `json:"firstName" validate:"required"`
	LastName         string      `json:"lastName" validate:"required"`
	Email            string      `json:"email" validate:"omitempty,email"`
	Phone            string      `json:"phone" validate:"required"`
	Address          string      `json:"address"`
	NationalID       string      `json:"nationalId"`
	JobCategory      string      `json:"jobCategory"`
	EmploymentType   string      `json:"employmentType" validate:"omitempty,oneof=HOURLY DAILY SUB_CONTRACTOR"`
	PayFrequency     string      `json:"payFrequency" validate:"omitempty,oneof=WEEKLY BI_WEEKLY MONTHLY"`
	HireDate         string      `json:"hireDate" validate:"date"`
	InsuranceDetails string      `json:"insuranceDetails"`
	Rate             json.Number `json:"rate" validate:"required,decimal,nonnegative"`
	BankName         string      `json:"bankName"`
	AccountAlias     string      `json:"accountAlias"`
	CBUCVU           string      `json:"cbuCvu"`
}

// UpdateEmployeeRequest is a partial update; absent fields are unchanged.
type UpdateEmployeeRequest struct {
	FirstName        *string      `json:"firstName" validate:"omitempty,min=1"`
	LastName         *string      `json:"lastName" validate:"omitempty,min=1"`
	Email            *string      `json:"email" validate:"omitempty,email"`
	Phone            *string      `json:"phone" validate:"omitempty,min=1"`
	Address          *string      `json:"address"`
	NationalID       *string      `json:"nationalId"`
	JobCategory      *string      `json:"jobCategory"`
	EmploymentType   *string      `json:"employmentType" validate:"omitempty,oneof=HOURLY DAILY SUB_CONTRACTOR"`
	PayFrequency     *string      `json:"payFrequency" validate:"omitempty,oneof=WEEKLY BI_WEEKLY MONTHLY"`
	HireDate         *string      `json:"hireDate" validate:"omitempty,date"`
	InsuranceDetails *string      `json:"insuranceDetails"`
	Rate             *json.Number `json:"rate" validate:"omitempty,decimal,nonnegative"`
	BankName         *string      `json:"bankName"`
	AccountAlias     *string      `json:"accountAlias"`
	CBUCVU           *string      `json:"cbuCvu"`
}

type SetStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type PayRateDTO struct {
	ID            string `json:"id"`
	Rate          string `json:"rate"`
	EffectiveDate string `json:"effectiveDate"`
	CreatedAt     string `json:"createdAt"`
}

func toEmployeeDTO(e office.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:               string(e.ID),
		FirstName:        e.FirstName,
		LastName:         e.LastName,
		Email:            e.Email,
		Phone:            e.Phone,
		Address:          e.Address,
		NationalID:       e.NationalID,
		JobCategory:      e.JobCategory,
		EmploymentType:   string(e.EmploymentType),
		PayFrequency:     string(e.PayFrequency),
		InsuranceDetails: e.InsuranceDetails,
		IsActive:         e.IsActive,
		CreatedAt:        e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        e.UpdatedAt.Format(time.RFC3339),
	}
	if e.HireDate != nil {
		s := e.HireDate.String()
		dto.HireDate = &s
	}
	return dto
}

func toEmployeeDetailDTO(d *sqlite.EmployeeDetail) EmployeeDTO {
	dto := toEmployeeDTO(d.Employee)
	if d.CurrentRate != nil {
		s := office.FormatMoney(*d.CurrentRate)
		dto.CurrentRate = &s
	}
	if d.Bank != nil {
		dto.BankName = d.Bank.BankName
		dto.AccountAlias = d.Bank.AccountAlias
		dto.CBUCVU = d.Bank.CBUCVU
	}
	return dto
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceDTO struct {
	ID          string      `json:"id"`
	EmployeeID  string      `json:"employeeId"`
	WorkDate    string      `json:"workDate"`
	UnitsWorked json.Number `json:"unitsWorked"`
	Status      string      `json:"status"`
	ProjectID   string      `json:"projectId,omitempty"`
	Notes       string      `json:"notes,omitempty"`
}

type AttendanceRequest struct {
	EmployeeID  string      `json:"employeeId" validate:"required"`
	WorkDate    string      `json:"workDate" validate:"required,date"`
	UnitsWorked json.Number `json:"unitsWorked" validate:"required,decimal,nonnegative"`
	Status      string      `json:"status" validate:"omitempty,oneof=PRESENT SICK VACATION ABSENT"`
	ProjectID   string      `json:"projectId"`
	Notes       string      `json:"notes"`
}

type BatchAttendanceRequest struct {
	Records []AttendanceRequest `json:"records" validate:"required,dive"`
}

type BatchAttendanceResponse struct {
	Saved   []AttendanceDTO `json:"saved"`
	Skipped int             `json:"skipped"`
	Failed  int             `json:"failed"`
}

// EmployeeAttendanceDTO is one row of the attendance week view.
type EmployeeAttendanceDTO struct {
	Employee EmployeeDTO     `json:"employee"`
	Unit     string          `json:"unit"`
	Records  []AttendanceDTO `json:"records"`
}

func (req AttendanceRequest) toInput() office.AttendanceInput {
	// Both fields were checked by the validator.
	units, _ := office.ParseAmount(string(req.UnitsWorked))
	workDate, _ := office.ParseDate(req.WorkDate)
	return office.AttendanceInput{
		EmployeeID:  office.EmployeeID(req.EmployeeID),
		WorkDate:    workDate,
		UnitsWorked: units,
		Status:      office.AttendanceStatus(req.Status),
		ProjectID:   req.ProjectID,
		Notes:       req.Notes,
	}
}

func toAttendanceDTO(a office.AttendanceRecord) AttendanceDTO {
	return AttendanceDTO{
		ID:          a.ID,
		EmployeeID:  string(a.EmployeeID),
		WorkDate:    a.WorkDate.String(),
		UnitsWorked: json.Number(a.UnitsWorked.String()),
		Status:      string(a.Status),
		ProjectID:   a.ProjectID,
		Notes:       a.Notes,
	}
}

func toAttendanceDTOs(records []office.AttendanceRecord) []AttendanceDTO {
	dtos := make([]AttendanceDTO, len(records))
	for i, r := range records {
		dtos[i] = toAttendanceDTO(r)
	}
	return dtos
}

// =============================================================================
// PAYROLL
// =============================================================================

type PayrollSummaryDTO struct {
	EmployeeID     string      `json:"employeeId"`
	EmployeeName   string      `json:"employeeName"`
	EmploymentType string      `json:"employmentType"`
	UnitsWorked    json.Number `json:"unitsWorked"`
	Rate           string      `json:"rate"`
	GrossPay       string      `json:"grossPay"`
	Bonuses        string      `json:"bonuses"`
	Deductions     string      `json:"deductions"`
	NetPay         string      `json:"netPay"`
}

type PayrollSummaryResponse struct {
	PeriodStart string              `json:"periodStart"`
	PeriodEnd   string              `json:"periodEnd"`
	Employees   []PayrollSummaryDTO `json:"employees"`
}

type AdjustmentRequest struct {
	Type        string      `json:"type" validate:"required,oneof=BONUS DEDUCTION"`
	Description string      `json:"description" validate:"required"`
	Amount      json.Number `json:"amount" validate:"required,decimal,nonnegative"`
}

type PayrollRecordRequest struct {
	EmployeeID   string              `json:"employeeId" validate:"required"`
	EmployeeName string              `json:"employeeName" validate:"required"`
	GrossPay     json.Number         `json:"grossPay" validate:"required,decimal,nonnegative"`
	Adjustments  []AdjustmentRequest `json:"adjustments" validate:"dive"`
	NetPay       json.Number         `json:"netPay" validate:"decimal"`
	Notes        string              `json:"notes"`
}

type FinalizePayrollRequest struct {
	PayPeriodStart string                 `json:"payPeriodStart" validate:"required,date"`
	PayPeriodEnd   string                 `json:"payPeriodEnd" validate:"required,date"`
	PaymentDate    string                 `json:"paymentDate" validate:"date"`
	Records        []PayrollRecordRequest `json:"records" validate:"required,dive"`
}

type PayrollHistoryDTO struct {
	ID             string `json:"id"`
	EmployeeID     string `json:"employeeId"`
	EmployeeName   string `json:"employeeName"`
	PayPeriodStart string `json:"payPeriodStart"`
	PayPeriodEnd   string `json:"payPeriodEnd"`
	PaymentDate    string `json:"paymentDate"`
	GrossPay       string `json:"grossPay"`
	Bonuses        string `json:"bonuses"`
	Deductions     string `json:"deductions"`
	NetPay         string `json:"netPay"`
	Notes          string `json:"notes,omitempty"`
}

type PayrollAdjustmentDTO struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	CreatedAt   string `json:"createdAt"`
}

type PayrollRunDTO struct {
	PayPeriodStart  string              `json:"payPeriodStart"`
	PayPeriodEnd    string              `json:"payPeriodEnd"`
	PaymentDate     string              `json:"paymentDate"`
	EmployeeCount   int                 `json:"employeeCount"`
	TotalGross      string              `json:"totalGross"`
	TotalBonuses    string              `json:"totalBonuses"`
	TotalDeductions string              `json:"totalDeductions"`
	TotalNet        string              `json:"totalNet"`
	Employees       []PayrollHistoryDTO `json:"employees"`
}

func toSummaryDTO(s payroll.EmployeeSummary) PayrollSummaryDTO {
	return PayrollSummaryDTO{
		EmployeeID:     string(s.EmployeeID),
		EmployeeName:   s.EmployeeName,
		EmploymentType: string(s.EmploymentType),
		UnitsWorked:    json.Number(s.UnitsWorked.String()),
		Rate:           office.FormatMoney(s.Rate),
		GrossPay:       office.FormatMoney(s.GrossPay),
		Bonuses:        office.FormatMoney(s.Bonuses),
		Deductions:     office.FormatMoney(s.Deductions),
		NetPay:         office.FormatMoney(s.NetPay),
	}
}

func toHistoryDTO(h office.PayrollHistory) PayrollHistoryDTO {
	return PayrollHistoryDTO{
		ID:             string(h.ID),
		EmployeeID:     string(h.EmployeeID),
		EmployeeName:   h.EmployeeName,
		PayPeriodStart: h.PayPeriodStart.String(),
		PayPeriodEnd:   h.PayPeriodEnd.String(),
		PaymentDate:    h.PaymentDate.String(),
		GrossPay:       office.FormatMoney(h.GrossPay),
		Bonuses:        office.FormatMoney(h.Bonuses),
		Deductions:     office.FormatMoney(h.Deductions),
		NetPay:         office.FormatMoney(h.NetPay),
		Notes:          h.Notes,
	}
}

func toHistoryDTOs(rows []office.PayrollHistory) []PayrollHistoryDTO {
	dtos := make([]PayrollHistoryDTO, len(rows))
	for i, h := range rows {
		dtos[i] = toHistoryDTO(h)
	}
	return dtos
}

func toRunDTO(run payroll.Run) PayrollRunDTO {
	return PayrollRunDTO{
		PayPeriodStart:  run.PayPeriodStart.String(),
		PayPeriodEnd:    run.PayPeriodEnd.String(),
		PaymentDate:     run.PaymentDate.String(),
		EmployeeCount:   run.EmployeeCount,
		TotalGross:      office.FormatMoney(run.TotalGross),
		TotalBonuses:    office.FormatMoney(run.TotalBonuses),
		TotalDeductions: office.FormatMoney(run.TotalDeductions),
		TotalNet:        office.FormatMoney(run.TotalNet),
		Employees:       toHistoryDTOs(run.Records),
	}
}

// =============================================================================
// CLIENTS
// =============================================================================

type ClientDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type CreateClientRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type UpdateClientRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func toClientDTO(c office.Client) ClientDTO {
	return ClientDTO{
		ID:        string(c.ID),
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// QUOTATIONS
// =============================================================================

type QuotationItemDTO struct {
	ID          string      `json:"id,omitempty"`
	Description string      `json:"description"`
	Quantity    json.Number `json:"quantity"`
	UnitPrice   string      `json:"unitPrice"`
	LineTotal   string      `json:"lineTotal"`
}

type QuotationHistoryDTO struct {
	Action    string `json:"action"`
	CreatedAt string `json:"createdAt"`
}

type QuotationDTO struct {
	ID                 string                `json:"id"`
	ClientID           string                `json:"clientId"`
	QuotationNumber    string                `json:"quotationNumber"`
	IssueDate          string                `json:"issueDate"`
	ValidityDays       *int                  `json:"validityDays,omitempty"`
	TermsAndConditions string                `json:"termsAndConditions,omitempty"`
	InternalNotes      string                `json:"internalNotes,omitempty"`
	Status             string                `json:"status"`
	Subtotal           string                `json:"subtotal"`
	Total              string                `json:"total"`
	CreatedAt          string                `json:"createdAt"`
	UpdatedAt          string                `json:"updatedAt"`
	Client             *ClientDTO            `json:"client,omitempty"`
	Items              []QuotationItemDTO    `json:"items,omitempty"`
	History            []QuotationHistoryDTO `json:"history,omitempty"`
}

type QuotationItemRequest struct {
	Description string      `json:"description" validate:"required"`
	Quantity    json.Number `json:"quantity" validate:"required,decimal,nonnegative"`
	UnitPrice   json.Number `json:"unitPrice" validate:"required,decimal,nonnegative"`
}

// CreateQuotationRequest ignores any lineTotal/subtotal/total sent by the
// client; totals are recomputed.
type CreateQuotationRequest struct {
	ClientID           string                 `json:"clientId" validate:"required"`
	QuotationNumber    string                 `json:"quotationNumber" validate:"required"`
	IssueDate          string                 `json:"issueDate" validate:"required,date"`
	ValidityDays       *int                   `json:"validityDays" validate:"omitempty,min=0"`
	TermsAndConditions string                 `json:"termsAndConditions"`
	InternalNotes      string                 `json:"internalNotes"`
	Items              []QuotationItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateQuotationRequest struct {
	ClientID           *string                `json:"clientId" validate:"omitempty,min=1"`
	QuotationNumber    *string                `json:"quotationNumber" validate:"omitempty,min=1"`
	IssueDate          *string                `json:"issueDate" validate:"omitempty,date"`
	ValidityDays       *int                   `json:"validityDays" validate:"omitempty,min=0"`
	TermsAndConditions *string                `json:"termsAndConditions"`
	InternalNotes      *string                `json:"internalNotes"`
	Items              []QuotationItemRequest `json:"items" validate:"omitempty,dive"`
}

type QuotationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT REVIEW APPROVED REJECTED CANCELED"`
}

type NextNumberResponse struct {
	Number string `json:"number"`
}

func toQuotationItems(items []QuotationItemRequest) []office.QuotationItem {
	out := make([]office.QuotationItem, len(items))
	for i, it := range items {
		qty, _ := office.ParseAmount(string(it.Quantity))
		price, _ := office.ParseAmount(string(it.UnitPrice))
		out[i] = office.QuotationItem{Description: it.Description, Quantity: qty, UnitPrice: price}
	}
	return out
}

func toQuotationDTO(q office.QuotationDetail) QuotationDTO {
	dto := QuotationDTO{
		ID:                 string(q.ID),
		ClientID:           string(q.ClientID),
		QuotationNumber:    q.QuotationNumber,
		IssueDate:          q.IssueDate.String(),
		ValidityDays:       q.ValidityDays,
		TermsAndConditions: q.TermsAndConditions,
		InternalNotes:      q.InternalNotes,
		Status:             string(q.Status),
		Subtotal:           office.FormatMoney(q.Subtotal),
		Total:              office.FormatMoney(q.Total),
		CreatedAt:          q.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          q.UpdatedAt.Format(time.RFC3339),
	}
	if q.Client != nil {
		c := toClientDTO(*q.Client)
		dto.Client = &c
	}
	for _, it := range q.Items {
		dto.Items = append(dto.Items, QuotationItemDTO{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    json.Number(it.Quantity.String()),
			UnitPrice:   office.FormatMoney(it.UnitPrice),
			LineTotal:   office.FormatMoney(it.LineTotal),
		})
	}
	for _, h := range q.History {
		dto.History = append(dto.History, QuotationHistoryDTO{
			Action:    h.Action,
			CreatedAt: h.CreatedAt.Format(time.RFC3339),
		})
	}
	return dto
}
