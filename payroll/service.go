package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/office"
)

// Service is the payroll engine over a PayrollStore.
type Service struct {
	store office.PayrollStore
	calc  Calculator
	now   func() time.Time
	newID func() string
}

// NewService creates a payroll service using the given rate resolution.
func NewService(store office.PayrollStore, resolution RateResolution) *Service {
	return &Service{
		store: store,
		calc:  Calculator{Resolution: resolution},
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// WithClock overrides the clock used for default payment dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Summary previews gross pay for every active employee of the contractor.
func (s *Service) Summary(ctx context.Context, contractorID office.ContractorID, period office.Period) ([]EmployeeSummary, error) {
	data, err := s.store.PayrollData(ctx, contractorID, period)
	if err != nil {
		return nil, err
	}
	return s.calc.Summarize(data, period), nil
}

// =============================================================================
// FINALIZE
// =============================================================================

// Adjustment is a bonus or deduction submitted with a finalize entry.
type Adjustment struct {
	Type        office.AdjustmentType
	Description string
	Amount      decimal.Decimal
}

// FinalizeEntry is one employee's line of a payroll run.
type FinalizeEntry struct {
	EmployeeID   office.EmployeeID
	EmployeeName string
	GrossPay     decimal.Decimal
	Adjustments  []Adjustment

	// NetPay, when set, must equal GrossPay + bonuses - deductions.
	NetPay *decimal.Decimal
	Notes  string
}

// FinalizeRequest is a whole payroll run.
type FinalizeRequest struct {
	Period      office.Period
	PaymentDate *office.Date // defaults to today
	Entries     []FinalizeEntry
}

// Finalize writes one immutable history row per entry whose employee
// belongs to the contractor, together with its adjustments. Entries for
// other employees are dropped. Either every row is written or none is.
func (s *Service) Finalize(ctx context.Context, contractorID office.ContractorID, req FinalizeRequest) ([]office.PayrollHistory, error) {
	owned, err := s.store.EmployeeIDs(ctx, contractorID)
	if err != nil {
		return nil, err
	}

	entries := make([]FinalizeEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		if owned[e.EmployeeID] {
			entries = append(entries, e)
		}
	}
	if len(entries) == 0 {
		return nil, office.ErrNoValidEmployees
	}

	paymentDate := office.DateOf(s.now())
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	rows := make([]office.PayrollHistory, len(entries))
	adjustments := make([][]office.PayrollAdjustment, len(entries))
	for i, e := range entries {
		row, adj, err := s.buildRow(e, req.Period, paymentDate)
		if err != nil {
			return nil, err
		}
		rows[i] = row
		adjustments[i] = adj
	}

	err = s.store.WithTx(ctx, func(w office.PayrollWriter) error {
		for i, row := range rows {
			if err := w.InsertPayrollHistory(ctx, row); err != nil {
				return err
			}
			if len(adjustments[i]) == 0 {
				continue
			}
			if err := w.InsertPayrollAdjustments(ctx, adjustments[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// buildRow totals the adjustments of an entry and verifies its net pay.
func (s *Service) buildRow(e FinalizeEntry, period office.Period, paymentDate office.Date) (office.PayrollHistory, []office.PayrollAdjustment, error) {
	id := office.PayrollHistoryID(s.newID())
	bonuses := decimal.Zero
	deductions := decimal.Zero
	adjustments := make([]office.PayrollAdjustment, 0, len(e.Adjustments))

	for _, a := range e.Adjustments {
		if !a.Type.Valid() {
			return office.PayrollHistory{}, nil, &office.ValidationError{
				Fields: []office.FieldError{{Field: "adjustments.type", Rule: "oneof"}},
			}
		}
		if a.Type == office.AdjustmentBonus {
			bonuses = bonuses.Add(a.Amount)
		} else {
			deductions = deductions.Add(a.Amount)
		}
		adjustments = append(adjustments, office.PayrollAdjustment{
			ID:               s.newID(),
			PayrollHistoryID: id,
			Type:             a.Type,
			Description:      a.Description,
			Amount:           office.RoundMoney(a.Amount),
		})
	}

	gross := office.RoundMoney(e.GrossPay)
	bonuses = office.RoundMoney(bonuses)
	deductions = office.RoundMoney(deductions)
	net := gross.Add(bonuses).Sub(deductions)

	if e.NetPay != nil && !office.RoundMoney(*e.NetPay).Equal(net) {
		return office.PayrollHistory{}, nil, &office.NetPayMismatchError{
			EmployeeID: e.EmployeeID,
			Submitted:  *e.NetPay,
			Computed:   net,
		}
	}

	row := office.PayrollHistory{
		ID:             id,
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		PayPeriodStart: period.Start,
		PayPeriodEnd:   period.End,
		PaymentDate:    paymentDate,
		GrossPay:       gross,
		Bonuses:        bonuses,
		Deductions:     deductions,
		NetPay:         net,
		Notes:          e.Notes,
	}
	return row, adjustments, nil
}

// =============================================================================
// HISTORY
// =============================================================================

// History returns the contractor's payslips, newest payment first.
func (s *Service) History(ctx context.Context, contractorID office.ContractorID) ([]office.PayrollHistory, error) {
	return s.store.ListPayrollHistory(ctx, contractorID)
}

// Adjustments returns the adjustments of one payslip.
func (s *Service) Adjustments(ctx context.Context, contractorID office.ContractorID, id office.PayrollHistoryID) ([]office.PayrollAdjustment, error) {
	return s.store.ListPayrollAdjustments(ctx, contractorID, id)
}

// Runs groups the contractor's history into payroll runs.
func (s *Service) Runs(ctx context.Context, contractorID office.ContractorID) ([]Run, error) {
	history, err := s.store.ListPayrollHistory(ctx, contractorID)
	if err != nil {
		return nil, err
	}
	return GroupRuns(history), nil
}
