package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/warp/backoffice/office"
)

// Compile-time check
var _ office.PayrollStore = (*Store)(nil)

// =============================================================================
// PAYROLL READER
// =============================================================================

type payrollHistoryRow struct {
	ID             string         `db:"id"`
	EmployeeID     string         `db:"employee_id"`
	EmployeeName   string         `db:"employee_name"`
	PayPeriodStart string         `db:"pay_period_start"`
	PayPeriodEnd   string         `db:"pay_period_end"`
	PaymentDate    string         `db:"payment_date"`
	GrossPay       string         `db:"gross_pay"`
	Bonuses        string         `db:"bonuses"`
	Deductions     string         `db:"deductions"`
	NetPay         string         `db:"net_pay"`
	Notes          sql.NullString `db:"notes"`
}

func (r payrollHistoryRow) toHistory() office.PayrollHistory {
	start, _ := office.ParseDate(r.PayPeriodStart)
	end, _ := office.ParseDate(r.PayPeriodEnd)
	paid, _ := office.ParseDate(r.PaymentDate)
	return office.PayrollHistory{
		ID:             office.PayrollHistoryID(r.ID),
		EmployeeID:     office.EmployeeID(r.EmployeeID),
		EmployeeName:   r.EmployeeName,
		PayPeriodStart: start,
		PayPeriodEnd:   end,
		PaymentDate:    paid,
		GrossPay:       office.MustParseDecimal(r.GrossPay),
		Bonuses:        office.MustParseDecimal(r.Bonuses),
		Deductions:     office.MustParseDecimal(r.Deductions),
		NetPay:         office.MustParseDecimal(r.NetPay),
		Notes:          r.Notes.String,
	}
}

type payrollAdjustmentRow struct {
	ID               string `db:"id"`
	PayrollHistoryID string `db:"payroll_history_id"`
	Type             string `db:"type"`
	Description      string `db:"description"`
	Amount           string `db:"amount"`
	CreatedAt        string `db:"created_at"`
}

// PayrollData loads every active employee with its attendance in period and
// its full pay-rate history. Three queries, joined in memory.
func (s *Store) PayrollData(ctx context.Context, contractorID office.ContractorID, period office.Period) ([]office.EmployeePayrollData, error) {
	var employees []employeeRow
	err := s.db.SelectContext(ctx, &employees,
		s.db.Rebind("SELECT "+employeeColumns+` FROM employees e
			WHERE e.contractor_id = ? AND e.is_active = ?
			ORDER BY e.first_name, e.last_name`),
		contractorID, true,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	attendance, err := s.attendanceInPeriod(ctx, contractorID, period)
	if err != nil {
		return nil, err
	}

	var rates []payRateRow
	err = s.db.SelectContext(ctx, &rates,
		s.db.Rebind(`SELECT r.id, r.employee_id, r.rate, r.effective_date, r.created_at
			FROM employee_pay_rates r
			JOIN employees e ON e.id = r.employee_id
			WHERE e.contractor_id = ?
			ORDER BY r.employee_id, r.effective_date DESC`),
		contractorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load pay rates: %w", err)
	}

	ratesByEmployee := make(map[office.EmployeeID][]office.PayRate)
	for _, r := range rates {
		rate := r.toPayRate()
		ratesByEmployee[rate.EmployeeID] = append(ratesByEmployee[rate.EmployeeID], rate)
	}

	data := make([]office.EmployeePayrollData, len(employees))
	for i, row := range employees {
		emp := row.toEmployee()
		data[i] = office.EmployeePayrollData{
			Employee:   emp,
			Attendance: attendance[emp.ID],
			PayRates:   ratesByEmployee[emp.ID],
		}
	}
	return data, nil
}

// EmployeeIDs returns every employee ID of the contractor, active or not.
func (s *Store) EmployeeIDs(ctx context.Context, contractorID office.ContractorID) (map[office.EmployeeID]bool, error) {
	return s.employeeIDs(ctx, contractorID, false)
}

// ListPayrollHistory returns the contractor's payslips, newest payment first.
// Ties are broken by period start (newest first) then employee name.
func (s *Store) ListPayrollHistory(ctx context.Context, contractorID office.ContractorID) ([]office.PayrollHistory, error) {
	var rows []payrollHistoryRow
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind(`SELECT h.id, h.employee_id, h.employee_name, h.pay_period_start, h.pay_period_end,
				h.payment_date, h.gross_pay, h.bonuses, h.deductions, h.net_pay, h.notes
			FROM payroll_history h
			JOIN employees e ON e.id = h.employee_id
			WHERE e.contractor_id = ?
			ORDER BY h.payment_date DESC, h.pay_period_start DESC, h.employee_name ASC`),
		contractorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll history: %w", err)
	}

	history := make([]office.PayrollHistory, len(rows))
	for i, r := range rows {
		history[i] = r.toHistory()
	}
	return history, nil
}

// ListPayrollAdjustments returns the adjustments of one payslip. A payslip
// of another contractor is reported as ErrPayrollNotFound.
func (s *Store) ListPayrollAdjustments(ctx context.Context, contractorID office.ContractorID, id office.PayrollHistoryID) ([]office.PayrollAdjustment, error) {
	var owner string
	err := s.db.GetContext(ctx, &owner,
		s.db.Rebind(`SELECT e.contractor_id FROM payroll_history h
			JOIN employees e ON e.id = h.employee_id
			WHERE h.id = ?`),
		id,
	)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && owner != string(contractorID)) {
		return nil, office.ErrPayrollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll record: %w", err)
	}

	var rows []payrollAdjustmentRow
	err = s.db.SelectContext(ctx, &rows,
		s.db.Rebind(`SELECT id, payroll_history_id, type, description, amount, created_at
			FROM payroll_adjustments WHERE payroll_history_id = ?
			ORDER BY created_at, type`),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll adjustments: %w", err)
	}

	adjustments := make([]office.PayrollAdjustment, len(rows))
	for i, r := range rows {
		adjustments[i] = office.PayrollAdjustment{
			ID:               r.ID,
			PayrollHistoryID: office.PayrollHistoryID(r.PayrollHistoryID),
			Type:             office.AdjustmentType(r.Type),
			Description:      r.Description,
			Amount:           office.MustParseDecimal(r.Amount),
			CreatedAt:        parseTimestamp(r.CreatedAt),
		}
	}
	return adjustments, nil
}

// =============================================================================
// PAYROLL WRITER - only reachable inside WithTx
// =============================================================================

// WithTx executes fn within a transaction.
func (s *Store) WithTx(ctx context.Context, fn func(office.PayrollWriter) error) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		return fn(&txStore{tx: tx, now: s.timestamp})
	})
}

// txStore is a PayrollWriter bound to one transaction.
type txStore struct {
	tx  *sqlx.Tx
	now func() string
}

func (t *txStore) InsertPayrollHistory(ctx context.Context, row office.PayrollHistory) error {
	query := `
		INSERT INTO payroll_history (id, employee_id, employee_name, pay_period_start, pay_period_end,
			payment_date, gross_pay, bonuses, deductions, net_pay, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := t.tx.ExecContext(ctx, t.tx.Rebind(query),
		row.ID, row.EmployeeID, row.EmployeeName,
		row.PayPeriodStart.String(), row.PayPeriodEnd.String(), row.PaymentDate.String(),
		office.FormatMoney(row.GrossPay), office.FormatMoney(row.Bonuses),
		office.FormatMoney(row.Deductions), office.FormatMoney(row.NetPay),
		nullString(row.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payroll history: %w", err)
	}
	return nil
}

func (t *txStore) InsertPayrollAdjustments(ctx context.Context, adjustments []office.PayrollAdjustment) error {
	query := t.tx.Rebind(`
		INSERT INTO payroll_adjustments (id, payroll_history_id, type, description, amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	for _, adj := range adjustments {
		createdAt := t.now()
		if !adj.CreatedAt.IsZero() {
			createdAt = adj.CreatedAt.UTC().Format(timestampLayout)
		}
		_, err := t.tx.ExecContext(ctx, query,
			adj.ID, adj.PayrollHistoryID, adj.Type, adj.Description,
			office.FormatMoney(adj.Amount), createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payroll adjustment: %w", err)
		}
	}
	return nil
}
