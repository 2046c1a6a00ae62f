package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/warp/backoffice/office"
)

// =============================================================================
// ATTENDANCE STORE
// =============================================================================

type attendanceRow struct {
	ID          string         `db:"id"`
	EmployeeID  string         `db:"employee_id"`
	ProjectID   sql.NullString `db:"project_id"`
	WorkDate    string         `db:"work_date"`
	UnitsWorked string         `db:"units_worked"`
	Status      string         `db:"status"`
	Notes       sql.NullString `db:"notes"`
}

func (r attendanceRow) toRecord() office.AttendanceRecord {
	workDate, _ := office.ParseDate(r.WorkDate)
	return office.AttendanceRecord{
		ID:          r.ID,
		EmployeeID:  office.EmployeeID(r.EmployeeID),
		ProjectID:   r.ProjectID.String,
		WorkDate:    workDate,
		UnitsWorked: office.MustParseDecimal(r.UnitsWorked),
		Status:      office.AttendanceStatus(r.Status),
		Notes:       r.Notes.String,
	}
}

// BatchResult reports the outcome of BatchSaveAttendance.
type BatchResult struct {
	Saved   []office.AttendanceRecord
	Skipped int // entries for unknown, foreign or inactive employees
	Failed  int // valid entries whose upsert returned an error
}

// SaveAttendance upserts a single record on (employee, work date). The
// employee must belong to the contractor and be active.
func (s *Store) SaveAttendance(ctx context.Context, contractorID office.ContractorID, in office.AttendanceInput) (office.AttendanceRecord, error) {
	emp, err := s.getEmployee(ctx, s.db, contractorID, in.EmployeeID)
	if err != nil {
		return office.AttendanceRecord{}, err
	}
	if !emp.IsActive {
		return office.AttendanceRecord{}, office.ErrEmployeeInactive
	}

	return upsertAttendance(ctx, s.db, in)
}

// BatchSaveAttendance upserts every entry belonging to an active employee
// of the contractor. Other entries are skipped. Each row is written on its
// own; a failing row does not undo the rows saved before it.
func (s *Store) BatchSaveAttendance(ctx context.Context, contractorID office.ContractorID, inputs []office.AttendanceInput) (BatchResult, error) {
	active, err := s.employeeIDs(ctx, contractorID, true)
	if err != nil {
		return BatchResult{}, err
	}

	result := BatchResult{Saved: []office.AttendanceRecord{}}
	for _, in := range inputs {
		if !active[in.EmployeeID] {
			result.Skipped++
			continue
		}

		rec, err := upsertAttendance(ctx, s.db, in)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Failed++
			continue
		}
		result.Saved = append(result.Saved, rec)
	}

	return result, nil
}

// WeekAttendance returns the contractor's active employees, each with its
// records in period ordered by work date. Employees with no records are
// included with an empty list.
func (s *Store) WeekAttendance(ctx context.Context, contractorID office.ContractorID, period office.Period) ([]office.EmployeeAttendance, error) {
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

	records, err := s.attendanceInPeriod(ctx, contractorID, period)
	if err != nil {
		return nil, err
	}

	result := make([]office.EmployeeAttendance, len(employees))
	for i, row := range employees {
		emp := row.toEmployee()
		recs := records[emp.ID]
		if recs == nil {
			recs = []office.AttendanceRecord{}
		}
		result[i] = office.EmployeeAttendance{Employee: emp, Records: recs}
	}
	return result, nil
}

// attendanceInPeriod loads the contractor's attendance in period grouped by
// employee, each slice ordered by work date.
func (s *Store) attendanceInPeriod(ctx context.Context, contractorID office.ContractorID, period office.Period) (map[office.EmployeeID][]office.AttendanceRecord, error) {
	var rows []attendanceRow
	err := s.db.SelectContext(ctx, &rows,
		s.db.Rebind(`SELECT a.id, a.employee_id, a.project_id, a.work_date, a.units_worked, a.status, a.notes
			FROM attendance_records a
			JOIN employees e ON e.id = a.employee_id
			WHERE e.contractor_id = ? AND a.work_date >= ? AND a.work_date <= ?
			ORDER BY a.employee_id, a.work_date`),
		contractorID, period.Start.String(), period.End.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	grouped := make(map[office.EmployeeID][]office.AttendanceRecord)
	for _, r := range rows {
		rec := r.toRecord()
		grouped[rec.EmployeeID] = append(grouped[rec.EmployeeID], rec)
	}
	return grouped, nil
}

// upsertAttendance inserts or overwrites the row for (employee, work date)
// and returns the stored record.
func upsertAttendance(ctx context.Context, q sqlx.ExtContext, in office.AttendanceInput) (office.AttendanceRecord, error) {
	status := in.Status
	if status == "" {
		status = office.StatusPresent
	}
	if !status.Valid() {
		return office.AttendanceRecord{}, &office.ValidationError{
			Fields: []office.FieldError{{Field: "status", Rule: "oneof"}},
		}
	}

	query := `
		INSERT INTO attendance_records (id, employee_id, project_id, work_date, units_worked, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, work_date) DO UPDATE SET
			units_worked = excluded.units_worked,
			status = excluded.status,
			project_id = excluded.project_id,
			notes = excluded.notes
	`
	_, err := q.ExecContext(ctx, q.Rebind(query),
		uuid.NewString(), in.EmployeeID, nullString(in.ProjectID), in.WorkDate.String(),
		in.UnitsWorked.String(), status, nullString(in.Notes),
	)
	if err != nil {
		return office.AttendanceRecord{}, fmt.Errorf("failed to save attendance: %w", err)
	}

	var row attendanceRow
	err = sqlx.GetContext(ctx, q, &row,
		q.Rebind(`SELECT id, employee_id, project_id, work_date, units_worked, status, notes
			FROM attendance_records WHERE employee_id = ? AND work_date = ?`),
		in.EmployeeID, in.WorkDate.String(),
	)
	if err != nil {
		return office.AttendanceRecord{}, fmt.Errorf("failed to reload attendance: %w", err)
	}
	return row.toRecord(), nil
}
