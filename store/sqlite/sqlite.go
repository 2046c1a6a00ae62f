/*
Package sqlite provides the relational implementation of the back-office
storage interfaces.

PURPOSE:
  Persists employees, pay rates, attendance, payroll history, clients and
  quotations. SQLite is the default driver; the same schema and queries run
  on PostgreSQL (DB_DRIVER=postgres) because every query is written with `?`
  placeholders and rebound through sqlx for the active driver.

INTERFACES IMPLEMENTED:
  office.PayrollStore: Payroll inputs, history and atomic run writes

OWNERSHIP:
  Every read and write is scoped by contractor_id. A record owned by another
  contractor is reported exactly like a missing one.

KEY TABLES:
  employees:           Contractor's staff
  employee_pay_rates:  Append-only rate history, UNIQUE(employee_id, effective_date)
  attendance_records:  UNIQUE(employee_id, work_date), written by upsert
  payroll_history:     Immutable payslip rows
  payroll_adjustments: Itemized bonuses/deductions, cascade with parent
  clients, quotations, quotation_items, quotation_history

CONCURRENCY:
  No application-level locking. Uniqueness is enforced by the database
  (unique indexes plus ON CONFLICT upserts). SQLite is limited to a single
  connection so an in-memory database is shared by every caller.

USAGE:
  store, err := sqlite.New(":memory:")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on Open(). Dates are stored as YYYY-MM-DD text,
  amounts as decimal text, timestamps as fixed-width UTC text.

SEE ALSO:
  - office/store.go: Interface definitions
  - payroll/service.go: Payroll engine using this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/backoffice/office"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	// timestampLayout is fixed width so text ordering matches time ordering.
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Options configures the connection pool.
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MinIdleConns int
	IdleTimeout  time.Duration

	// Now overrides the clock used for created_at/updated_at and for
	// "effective today" pay rates.
	Now func() time.Time
}

// Store implements all storage interfaces over database/sql.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	return Open(Options{Driver: DriverSQLite, DSN: dbPath})
}

// Open connects to the configured driver and migrates the schema.
func Open(opts Options) (*Store, error) {
	if opts.Driver == "" {
		opts.Driver = DriverSQLite
	}

	dsn := opts.DSN
	if opts.Driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if opts.Driver == DriverSQLite {
		// One connection: in-memory databases are per-connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		if opts.MaxOpenConns > 0 {
			db.SetMaxOpenConns(opts.MaxOpenConns)
		}
		if opts.MinIdleConns > 0 {
			db.SetMaxIdleConns(opts.MinIdleConns)
		}
		if opts.IdleTimeout > 0 {
			db.SetConnMaxIdleTime(opts.IdleTimeout)
		}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	store := &Store{db: db, now: now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on&_journal_mode=WAL"
	}
	return path + "?_foreign_keys=on&_journal_mode=WAL"
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate re-runs the idempotent schema creation.
func (s *Store) Migrate() error {
	return s.migrate()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		contractor_id TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		address TEXT,
		national_id TEXT,
		job_category TEXT,
		employment_type TEXT NOT NULL DEFAULT 'HOURLY',
		pay_frequency TEXT NOT NULL DEFAULT 'WEEKLY',
		hire_date TEXT,
		insurance_details TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(contractor_id, email)
	);

	CREATE INDEX IF NOT EXISTS idx_employees_contractor
		ON employees(contractor_id, is_active);

	CREATE TABLE IF NOT EXISTS employee_bank_details (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL UNIQUE REFERENCES employees(id) ON DELETE RESTRICT,
		bank_name TEXT,
		account_alias TEXT,
		cbu_cvu TEXT
	);

	-- Append-only rate history; one rate per employee per day
	CREATE TABLE IF NOT EXISTS employee_pay_rates (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE RESTRICT,
		rate TEXT NOT NULL,
		effective_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, effective_date)
	);

	-- One attendance row per employee per work day
	CREATE TABLE IF NOT EXISTS attendance_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE RESTRICT,
		project_id TEXT,
		work_date TEXT NOT NULL,
		units_worked TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL DEFAULT 'PRESENT',
		notes TEXT,
		UNIQUE(employee_id, work_date)
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_employee_date
		ON attendance_records(employee_id, work_date);

	-- Immutable payslip rows; employee_name is a snapshot
	CREATE TABLE IF NOT EXISTS payroll_history (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id) ON DELETE RESTRICT,
		employee_name TEXT NOT NULL,
		pay_period_start TEXT NOT NULL,
		pay_period_end TEXT NOT NULL,
		payment_date TEXT NOT NULL,
		gross_pay TEXT NOT NULL,
		bonuses TEXT NOT NULL DEFAULT '0.00',
		deductions TEXT NOT NULL DEFAULT '0.00',
		net_pay TEXT NOT NULL,
		notes TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_history_run
		ON payroll_history(payment_date, pay_period_start, pay_period_end);

	CREATE TABLE IF NOT EXISTS payroll_adjustments (
		id TEXT PRIMARY KEY,
		payroll_history_id TEXT NOT NULL REFERENCES payroll_history(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		description TEXT NOT NULL,
		amount TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payroll_adjustments_history
		ON payroll_adjustments(payroll_history_id);

	CREATE TABLE IF NOT EXISTS clients (
		id TEXT PRIMARY KEY,
		contractor_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		address TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_clients_contractor
		ON clients(contractor_id);

	CREATE TABLE IF NOT EXISTS quotations (
		id TEXT PRIMARY KEY,
		contractor_id TEXT NOT NULL,
		client_id TEXT NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		quotation_number TEXT NOT NULL,
		issue_date TEXT NOT NULL,
		validity_days INTEGER,
		terms_and_conditions TEXT,
		internal_notes TEXT,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		subtotal TEXT NOT NULL,
		total TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_quotations_contractor
		ON quotations(contractor_id, created_at);

	CREATE TABLE IF NOT EXISTS quotation_items (
		id TEXT PRIMARY KEY,
		quotation_id TEXT NOT NULL REFERENCES quotations(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		description TEXT NOT NULL,
		quantity TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		line_total TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS quotation_history (
		id TEXT PRIMARY KEY,
		quotation_id TEXT NOT NULL REFERENCES quotations(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		action TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE (quotation_id, seq)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// withTx runs fn inside a database transaction on the raw sqlx handle.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

// Helper functions

func (s *Store) timestamp() string {
	return s.now().UTC().Format(timestampLayout)
}

func (s *Store) today() office.Date {
	return office.DateOf(s.now())
}

func parseTimestamp(v string) time.Time {
	t, _ := time.Parse(timestampLayout, v)
	return t
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullDate(d *office.Date) sql.NullString {
	if d == nil || d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(v sql.NullString) *office.Date {
	if !v.Valid {
		return nil
	}
	d, err := office.ParseDate(v.String)
	if err != nil {
		return nil
	}
	return &d
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}

// likePattern builds a case-insensitive substring pattern for LOWER(col) LIKE ?.
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
