package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/office"
)

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// EmployeeDetail is an employee with its current rate and bank details.
type EmployeeDetail struct {
	office.Employee
	CurrentRate *decimal.Decimal
	Bank        *office.BankDetails
}

type employeeRow struct {
	ID               string         `db:"id"`
	ContractorID     string         `db:"contractor_id"`
	FirstName        string         `db:"first_name"`
	LastName         string         `db:"last_name"`
	Email            sql.NullString `db:"email"`
	Phone            sql.NullString `db:"phone"`
	Address          sql.NullString `db:"address"`
	NationalID       sql.NullString `db:"national_id"`
	JobCategory      sql.NullString `db:"job_category"`
	EmploymentType   string         `db:"employment_type"`
	PayFrequency     string         `db:"pay_frequency"`
	HireDate         sql.NullString `db:"hire_date"`
	InsuranceDetails sql.NullString `db:"insurance_details"`
	IsActive         bool           `db:"is_active"`
	CreatedAt        string         `db:"created_at"`
	UpdatedAt        string         `db:"updated_at"`
}

const employeeColumns = `e.id, e.contractor_id, e.first_name, e.last_name, e.email, e.phone,
	e.address, e.national_id, e.job_category, e.employment_type, e.pay_frequency,
	e.hire_date, e.insurance_details, e.is_active, e.created_at, e.updated_at`

func (r employeeRow) toEmployee() office.Employee {
	return office.Employee{
		ID:               office.EmployeeID(r.ID),
		ContractorID:     office.ContractorID(r.ContractorID),
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email.String,
		Phone:            r.Phone.String,
		Address:          r.Address.String,
		NationalID:       r.NationalID.String,
		JobCategory:      r.JobCategory.String,
		EmploymentType:   office.EmploymentType(r.EmploymentType),
		PayFrequency:     office.PayFrequency(r.PayFrequency),
		HireDate:         parseNullDate(r.HireDate),
		InsuranceDetails: r.InsuranceDetails.String,
		IsActive:         r.IsActive,
		CreatedAt:        parseTimestamp(r.CreatedAt),
		UpdatedAt:        parseTimestamp(r.UpdatedAt),
	}
}

type payRateRow struct {
	ID            string `db:"id"`
	EmployeeID    string `db:"employee_id"`
	Rate          string `db:"rate"`
	EffectiveDate string `db:"effective_date"`
	CreatedAt     string `db:"created_at"`
}

func (r payRateRow) toPayRate() office.PayRate {
	effective, _ := office.ParseDate(r.EffectiveDate)
	return office.PayRate{
		ID:            r.ID,
		EmployeeID:    office.EmployeeID(r.EmployeeID),
		Rate:          office.MustParseDecimal(r.Rate),
		EffectiveDate: effective,
		CreatedAt:     parseTimestamp(r.CreatedAt),
	}
}

// CreateEmployee saves a new employee with its initial pay rate (effective
// today) and optional bank details in one transaction.
func (s *Store) CreateEmployee(ctx context.Context, emp office.Employee, rate decimal.Decimal, bank *office.BankDetails) (office.Employee, error) {
	now := s.timestamp()
	emp.ID = office.EmployeeID(uuid.NewString())
	emp.IsActive = true
	if emp.EmploymentType == "" {
		emp.EmploymentType = office.EmploymentHourly
	}
	if emp.PayFrequency == "" {
		emp.PayFrequency = office.PayWeekly
	}
	if err := checkEmployeeEnums(emp); err != nil {
		return office.Employee{}, err
	}
	emp.CreatedAt = parseTimestamp(now)
	emp.UpdatedAt = emp.CreatedAt

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO employees (id, contractor_id, first_name, last_name, email, phone,
				address, national_id, job_category, employment_type, pay_frequency, hire_date,
				insurance_details, is_active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, tx.Rebind(query),
			emp.ID, emp.ContractorID, emp.FirstName, emp.LastName,
			nullString(emp.Email), nullString(emp.Phone), nullString(emp.Address),
			nullString(emp.NationalID), nullString(emp.JobCategory),
			emp.EmploymentType, emp.PayFrequency, nullDate(emp.HireDate),
			nullString(emp.InsuranceDetails), emp.IsActive, now, now,
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return office.ErrDuplicateEmail
			}
			return fmt.Errorf("failed to insert employee: %w", err)
		}

		if err := s.putPayRate(ctx, tx, emp.ID, rate, s.today()); err != nil {
			return err
		}

		if bank != nil && !bank.IsEmpty() {
			return s.putBankDetails(ctx, tx, emp.ID, *bank)
		}
		return nil
	})
	if err != nil {
		return office.Employee{}, err
	}

	return emp, nil
}

// UpdateEmployee applies a partial update. A changed rate appends a pay
// rate effective today; a second change on the same day overwrites it.
func (s *Store) UpdateEmployee(ctx context.Context, contractorID office.ContractorID, id office.EmployeeID, upd office.EmployeeUpdate) (office.Employee, error) {
	var updated office.Employee

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		emp, err := s.getEmployee(ctx, tx, contractorID, id)
		if err != nil {
			return err
		}

		applyEmployeeUpdate(&emp, upd)
		if err := checkEmployeeEnums(emp); err != nil {
			return err
		}
		now := s.timestamp()
		emp.UpdatedAt = parseTimestamp(now)

		query := `
			UPDATE employees SET first_name = ?, last_name = ?, email = ?, phone = ?,
				address = ?, national_id = ?, job_category = ?, employment_type = ?,
				pay_frequency = ?, hire_date = ?, insurance_details = ?, updated_at = ?
			WHERE id = ? AND contractor_id = ?
		`
		_, err = tx.ExecContext(ctx, tx.Rebind(query),
			emp.FirstName, emp.LastName, nullString(emp.Email), nullString(emp.Phone),
			nullString(emp.Address), nullString(emp.NationalID), nullString(emp.JobCategory),
			emp.EmploymentType, emp.PayFrequency, nullDate(emp.HireDate),
			nullString(emp.InsuranceDetails), now, emp.ID, contractorID,
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return office.ErrDuplicateEmail
			}
			return fmt.Errorf("failed to update employee: %w", err)
		}

		if upd.Rate != nil {
			current, err := s.latestPayRate(ctx, tx, emp.ID)
			if err != nil {
				return err
			}
			if current == nil || !current.Rate.Equal(*upd.Rate) {
				if err := s.putPayRate(ctx, tx, emp.ID, *upd.Rate, s.today()); err != nil {
					return err
				}
			}
		}

		if upd.Bank != nil {
			current, err := s.bankDetails(ctx, tx, emp.ID)
			if err != nil {
				return err
			}
			merged := office.BankDetails{EmployeeID: emp.ID}
			if current != nil {
				merged = *current
			}
			if err := s.putBankDetails(ctx, tx, emp.ID, upd.Bank.Apply(merged)); err != nil {
				return err
			}
		}

		updated = emp
		return nil
	})

	return updated, err
}

func checkEmployeeEnums(emp office.Employee) error {
	var fields []office.FieldError
	if !emp.EmploymentType.Valid() {
		fields = append(fields, office.FieldError{Field: "employmentType", Rule: "oneof"})
	}
	if !emp.PayFrequency.Valid() {
		fields = append(fields, office.FieldError{Field: "payFrequency", Rule: "oneof"})
	}
	if len(fields) > 0 {
		return &office.ValidationError{Fields: fields}
	}
	return nil
}

func applyEmployeeUpdate(emp *office.Employee, upd office.EmployeeUpdate) {
	if upd.FirstName != nil {
		emp.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		emp.LastName = *upd.LastName
	}
	if upd.Email != nil {
		emp.Email = *upd.Email
	}
	if upd.Phone != nil {
		emp.Phone = *upd.Phone
	}
	if upd.Address != nil {
		emp.Address = *upd.Address
	}
	if upd.NationalID != nil {
		emp.NationalID = *upd.NationalID
	}
	if upd.JobCategory != nil {
		emp.JobCategory = *upd.JobCategory
	}
	if upd.EmploymentType != nil {
		emp.EmploymentType = *upd.EmploymentType
	}
	if upd.PayFrequency != nil {
		emp.PayFrequency = *upd.PayFrequency
	}
	if upd.HireDate != nil {
		emp.HireDate = upd.HireDate
	}
	if upd.InsuranceDetails != nil {
		emp.InsuranceDetails = *upd.InsuranceDetails
	}
}

// SetEmployeeActive activates or deactivates an employee.
func (s *Store) SetEmployeeActive(ctx context.Context, contractorID office.ContractorID, id office.EmployeeID, active bool) (office.Employee, error) {
	now := s.timestamp()
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("UPDATE employees SET is_active = ?, updated_at = ? WHERE id = ? AND contractor_id = ?"),
		active, now, id, contractorID,
	)
	if err != nil {
		return office.Employee{}, fmt.Errorf("failed to update employee status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return office.Employee{}, office.ErrEmployeeNotFound
	}
	return s.getEmployee(ctx, s.db, contractorID, id)
}

// GetEmployee returns an employee with its current rate and bank details.
func (s *Store) GetEmployee(ctx context.Context, contractorID office.ContractorID, id office.EmployeeID) (*EmployeeDetail, error) {
	emp, err := s.getEmployee(ctx, s.db, contractorID, id)
	if err != nil {
		return nil, err
	}

	detail := &EmployeeDetail{Employee: emp}

	rate, err := s.latestPayRate(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if rate != nil {
		detail.CurrentRate = &rate.Rate
	}

	detail.Bank, err = s.bankDetails(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	return detail, nil
}

// bankDetails returns nil when the employee has no bank details.
func (s *Store) bankDetails(ctx context.Context, q sqlx.ExtContext, id office.EmployeeID) (*office.BankDetails, error) {
	var bank struct {
		BankName     sql.NullString `db:"bank_name"`
		AccountAlias sql.NullString `db:"account_alias"`
		CBUCVU       sql.NullString `db:"cbu_cvu"`
	}
	err := sqlx.GetContext(ctx, q, &bank,
		q.Rebind("SELECT bank_name, account_alias, cbu_cvu FROM employee_bank_details WHERE employee_id = ?"),
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bank details: %w", err)
	}
	return &office.BankDetails{
		EmployeeID:   id,
		BankName:     bank.BankName.String,
		AccountAlias: bank.AccountAlias.String,
		CBUCVU:       bank.CBUCVU.String,
	}, nil
}

// ListEmployees returns all employees of the contractor, newest first.
func (s *Store) ListEmployees(ctx context.Context, contractorID office.ContractorID) ([]office.Employee, error) {
	var rows []employeeRow
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind("SELECT "+employeeColumns+" FROM employees e WHERE e.contractor_id = ? ORDER BY e.created_at DESC, e.id DESC"),
		contractorID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]office.Employee, len(rows))
	for i, r := range rows {
		employees[i] = r.toEmployee()
	}
	return employees, nil
}

// ListPayRates returns the rate history of an employee, newest first.
func (s *Store) ListPayRates(ctx context.Context, contractorID office.ContractorID, id office.EmployeeID) ([]office.PayRate, error) {
	if _, err := s.getEmployee(ctx, s.db, contractorID, id); err != nil {
		return nil, err
	}

	var rows []payRateRow
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind(`SELECT id, employee_id, rate, effective_date, created_at
			FROM employee_pay_rates WHERE employee_id = ?
			ORDER BY effective_date DESC`),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay rates: %w", err)
	}

	rates := make([]office.PayRate, len(rows))
	for i, r := range rows {
		rates[i] = r.toPayRate()
	}
	return rates, nil
}

// PutPayRate records a rate effective on the given date, replacing any
// rate already recorded for that day.
func (s *Store) PutPayRate(ctx context.Context, contractorID office.ContractorID, id office.EmployeeID, rate decimal.Decimal, effective office.Date) error {
	if _, err := s.getEmployee(ctx, s.db, contractorID, id); err != nil {
		return err
	}
	return s.putPayRate(ctx, s.db, id, rate, effective)
}

func (s *Store) getEmployee(ctx context.Context, q sqlx.ExtContext, contractorID office.ContractorID, id office.EmployeeID) (office.Employee, error) {
	var row employeeRow
	err := sqlx.GetContext(ctx, q, &row,
		q.Rebind("SELECT "+employeeColumns+" FROM employees e WHERE e.id = ? AND e.contractor_id = ?"),
		id, contractorID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return office.Employee{}, office.ErrEmployeeNotFound
	}
	if err != nil {
		return office.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return row.toEmployee(), nil
}

func (s *Store) latestPayRate(ctx context.Context, q sqlx.ExtContext, id office.EmployeeID) (*office.PayRate, error) {
	var row payRateRow
	err := sqlx.GetContext(ctx, q, &row,
		q.Rebind(`SELECT id, employee_id, rate, effective_date, created_at
			FROM employee_pay_rates WHERE employee_id = ?
			ORDER BY effective_date DESC LIMIT 1`),
		id,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pay rate: %w", err)
	}
	rate := row.toPayRate()
	return &rate, nil
}

func (s *Store) putPayRate(ctx context.Context, q sqlx.ExtContext, id office.EmployeeID, rate decimal.Decimal, effective office.Date) error {
	query := `
		INSERT INTO employee_pay_rates (id, employee_id, rate, effective_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, effective_date) DO UPDATE SET
			rate = excluded.rate
	`
	_, err := q.ExecContext(ctx, q.Rebind(query),
		uuid.NewString(), id, office.FormatMoney(rate), effective.String(), s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to save pay rate: %w", err)
	}
	return nil
}

func (s *Store) putBankDetails(ctx context.Context, q sqlx.ExtContext, id office.EmployeeID, bank office.BankDetails) error {
	query := `
		INSERT INTO employee_bank_details (id, employee_id, bank_name, account_alias, cbu_cvu)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id) DO UPDATE SET
			bank_name = excluded.bank_name,
			account_alias = excluded.account_alias,
			cbu_cvu = excluded.cbu_cvu
	`
	_, err := q.ExecContext(ctx, q.Rebind(query),
		uuid.NewString(), id,
		nullString(bank.BankName), nullString(bank.AccountAlias), nullString(bank.CBUCVU),
	)
	if err != nil {
		return fmt.Errorf("failed to save bank details: %w", err)
	}
	return nil
}

// employeeIDs returns the contractor's employee IDs, optionally only active ones.
func (s *Store) employeeIDs(ctx context.Context, contractorID office.ContractorID, activeOnly bool) (map[office.EmployeeID]bool, error) {
	query := "SELECT id FROM employees WHERE contractor_id = ?"
	args := []any{contractorID}
	if activeOnly {
		query += " AND is_active = ?"
		args = append(args, true)
	}

	var ids []string
	if err := s.db.SelectContext(ctx, &ids, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list employee ids: %w", err)
	}

	set := make(map[office.EmployeeID]bool, len(ids))
	for _, id := range ids {
		set[office.EmployeeID(id)] = true
	}
	return set, nil
}
