/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Persists employees, leave types, allocations and attendance documents,
  and hands out read-only snapshots to the leave calculator. There is no
  balance table: balances are always derived from these rows.

KEY TABLES:
  employees:          Entity records
  leave_types:        Labels only (id, name, description)
  allocations:        Grants of leave credit; amount stored as decimal text
  attendance_records: One row per (employee_id, date); shifts as JSON

ATTENDANCE DOCUMENTS:
  Shifts are stored as a JSON array in the same shape the admin console
  wrote to its document database (see factory/documents.go). Saving a
  record replaces the whole row.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety, WAL journal for readers.

USAGE:
  store, err := sqlite.New("./data/dawam.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := leave.NewService(store)

MIGRATION:
  Schema is auto-migrated on New().
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/factory"
	"github.com/dawam/leave-engine/generic"
	"github.com/dawam/leave-engine/leave"
	"github.com/dawam/leave-engine/store"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store using SQLite.
type Store struct {
	db   *sql.DB
	mu   sync.RWMutex
	docs *factory.DocumentFactory
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Each :memory: connection is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, docs: factory.NewDocumentFactory()}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		hire_date TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS leave_types (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS allocations (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		type_id TEXT NOT NULL,
		type_name TEXT,
		amount TEXT NOT NULL,
		unit TEXT NOT NULL,
		start_date TEXT NOT NULL DEFAULT '',
		end_date TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_allocations_employee
		ON allocations(employee_id, start_date);

	CREATE TABLE IF NOT EXISTS attendance_records (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		date TEXT NOT NULL,
		shifts_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_attendance_employee_date
		ON attendance_records(employee_id, date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset clears all tables.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"attendance_records", "allocations", "leave_types", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// SaveEmployee upserts an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp store.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, email, hire_date, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			hire_date = excluded.hire_date
	`

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Email,
		formatTime(emp.HireDate),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, hire_date, created_at FROM employees WHERE id = ?",
		id,
	)
	emp, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Employee{}, generic.ErrEmployeeNotFound
	}
	return emp, err
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, email, hire_date, created_at FROM employees ORDER BY name, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []store.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee with their allocations and attendance.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	res, err := sqlTx.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrEmployeeNotFound
	}
	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM allocations WHERE employee_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete allocations: %w", err)
	}
	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM attendance_records WHERE employee_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return sqlTx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (store.Employee, error) {
	var (
		emp             store.Employee
		email, hireDate sql.NullString
		createdAt       string
	)
	if err := row.Scan(&emp.ID, &emp.Name, &email, &hireDate, &createdAt); err != nil {
		return store.Employee{}, err
	}
	emp.Email = email.String
	emp.HireDate, _ = time.Parse(time.RFC3339, hireDate.String)
	emp.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return emp, nil
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func (s *Store) SaveLeaveType(ctx context.Context, t leave.Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_types (id, name, description) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, description = excluded.description
	`, t.ID, t.Name, t.Description)
	if err != nil {
		return fmt.Errorf("failed to save leave type: %w", err)
	}
	return nil
}

func (s *Store) ListLeaveTypes(ctx context.Context) ([]leave.Type, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, description FROM leave_types ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.Type
	for rows.Next() {
		var (
			t    leave.Type
			desc sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &desc); err != nil {
			return nil, err
		}
		t.Description = desc.String
		types = append(types, t)
	}
	return types, rows.Err()
}

func (s *Store) DeleteLeaveType(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM leave_types WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete leave type: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrLeaveTypeNotFound
	}
	return nil
}

// =============================================================================
// ALLOCATIONS (leave.Source)
// =============================================================================

const allocationColumns = `id, employee_id, type_id, type_name, amount, unit, start_date, end_date`

// SaveAllocation upserts an allocation. The original insertion position is
// kept on update, so edits do not change matcher precedence.
func (s *Store) SaveAllocation(ctx context.Context, a leave.Allocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO allocations (` + allocationColumns + `, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_id = excluded.employee_id,
			type_id = excluded.type_id,
			type_name = excluded.type_name,
			amount = excluded.amount,
			unit = excluded.unit,
			start_date = excluded.start_date,
			end_date = excluded.end_date
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID,
		string(a.EmployeeID),
		a.TypeID,
		a.TypeName,
		a.Amount.Value.String(),
		string(a.Unit()),
		a.Window.Start.String(),
		a.Window.End.String(),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save allocation: %w", err)
	}
	return nil
}

func (s *Store) GetAllocation(ctx context.Context, id string) (leave.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, "SELECT "+allocationColumns+" FROM allocations WHERE id = ?", id)
	a, err := scanAllocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return leave.Allocation{}, generic.ErrAllocationNotFound
	}
	return a, err
}

func (s *Store) DeleteAllocation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM allocations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrAllocationNotFound
	}
	return nil
}

// Allocations returns the employee's allocations by window start, then
// insertion order.
func (s *Store) Allocations(ctx context.Context, employeeID generic.EmployeeID) ([]leave.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAllocations(ctx,
		"SELECT "+allocationColumns+" FROM allocations WHERE employee_id = ? ORDER BY start_date ASC, rowid ASC",
		string(employeeID),
	)
}

func (s *Store) AllAllocations(ctx context.Context) ([]leave.Allocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryAllocations(ctx,
		"SELECT "+allocationColumns+" FROM allocations ORDER BY start_date ASC, rowid ASC",
	)
}

func (s *Store) queryAllocations(ctx context.Context, query string, args ...any) ([]leave.Allocation, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query allocations: %w", err)
	}
	defer rows.Close()

	var allocations []leave.Allocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, err
		}
		allocations = append(allocations, a)
	}
	return allocations, rows.Err()
}

// scanAllocation goes through the document factory so rows written by older
// tools with odd amounts or units are coerced the same way imports are.
func scanAllocation(row scanner) (leave.Allocation, error) {
	var (
		aj       factory.AllocationJSON
		typeName sql.NullString
		amount   string
	)
	err := row.Scan(&aj.ID, &aj.EmployeeID, &aj.TypeID, &typeName, &amount, &aj.Unit, &aj.StartDate, &aj.EndDate)
	if err != nil {
		return leave.Allocation{}, err
	}
	aj.TypeName = typeName.String
	aj.Amount = factory.NewNumber(generic.MustParseDecimal(amount))
	return factory.NewDocumentFactory().FromAllocationJSON(aj), nil
}

// =============================================================================
// ATTENDANCE (leave.Source)
// =============================================================================

// SaveAttendance overwrites the (employee, date) document.
func (s *Store) SaveAttendance(ctx context.Context, r attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shiftsJSON, err := s.docs.ShiftsToJSON(r.Shifts)
	if err != nil {
		return fmt.Errorf("failed to encode shifts: %w", err)
	}
	if r.ID == "" {
		r.ID = store.RecordID(r.EmployeeID, r.Date)
	}

	query := `
		INSERT INTO attendance_records (id, employee_id, date, shifts_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE SET
			shifts_json = excluded.shifts_json,
			updated_at = excluded.updated_at
	`
	_, err = s.db.ExecContext(ctx, query,
		r.ID, string(r.EmployeeID), r.Date.String(), shiftsJSON,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	return nil
}

func (s *Store) GetAttendance(ctx context.Context, employeeID generic.EmployeeID, date generic.TimePoint) (attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.queryRecords(ctx,
		"SELECT id, employee_id, date, shifts_json FROM attendance_records WHERE employee_id = ? AND date = ?",
		string(employeeID), date.String(),
	)
	if err != nil {
		return attendance.Record{}, err
	}
	if len(records) == 0 {
		return attendance.Record{}, generic.ErrRecordNotFound
	}
	return records[0], nil
}

func (s *Store) DeleteAttendance(ctx context.Context, employeeID generic.EmployeeID, date generic.TimePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM attendance_records WHERE employee_id = ? AND date = ?",
		string(employeeID), date.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrRecordNotFound
	}
	return nil
}

func (s *Store) AttendanceRecords(ctx context.Context, employeeID generic.EmployeeID) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecords(ctx,
		"SELECT id, employee_id, date, shifts_json FROM attendance_records WHERE employee_id = ? ORDER BY date ASC",
		string(employeeID),
	)
}

func (s *Store) AllAttendanceRecords(ctx context.Context) ([]attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRecords(ctx,
		"SELECT id, employee_id, date, shifts_json FROM attendance_records ORDER BY date ASC, employee_id ASC",
	)
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]attendance.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		var (
			r            attendance.Record
			employeeID   string
			date, shifts string
		)
		if err := rows.Scan(&r.ID, &employeeID, &date, &shifts); err != nil {
			return nil, err
		}
		r.EmployeeID = generic.EmployeeID(employeeID)
		if r.Date, err = generic.ParseDate(date); err != nil {
			return nil, fmt.Errorf("attendance %s: %w", r.ID, err)
		}
		if r.Shifts, err = s.docs.ShiftsFromJSON(shifts); err != nil {
			return nil, fmt.Errorf("attendance %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Helper functions

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
