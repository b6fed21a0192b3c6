/*
Package store defines the persistence contract the HTTP layer depends on.

PURPOSE:
  The calculator only reads snapshots (leave.Source). The admin console also
  writes employees, leave types, allocations and attendance documents. Store
  combines both so handlers can run against SQLite in production and the
  in-memory implementation in tests.

WRITE SEMANTICS:
  - Attendance is one document per (employee, date); SaveAttendance
    overwrites the whole document, it never appends shifts.
  - Allocations and leave types are upserted by ID.
  - Deleting an employee removes their allocations and attendance.

READ ORDERING:
  - AttendanceRecords: by date ascending
  - Allocations: by window start ascending, then insertion order. The
    allocation matcher takes the first active match, so this order decides
    which of two overlapping allocations is charged.

IMPLEMENTATIONS:
  - store/sqlite: SQLite via database/sql
  - store/memory: maps guarded by a RWMutex
*/
package store

import (
	"context"
	"time"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/generic"
	"github.com/dawam/leave-engine/leave"
)

// Employee represents an employee record.
type Employee struct {
	ID        string
	Name      string
	Email     string
	HireDate  time.Time
	CreatedAt time.Time
}

type Store interface {
	leave.BulkSource

	SaveEmployee(ctx context.Context, emp Employee) error
	GetEmployee(ctx context.Context, id string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error

	SaveLeaveType(ctx context.Context, t leave.Type) error
	ListLeaveTypes(ctx context.Context) ([]leave.Type, error)
	DeleteLeaveType(ctx context.Context, id string) error

	SaveAllocation(ctx context.Context, a leave.Allocation) error
	GetAllocation(ctx context.Context, id string) (leave.Allocation, error)
	DeleteAllocation(ctx context.Context, id string) error

	SaveAttendance(ctx context.Context, r attendance.Record) error
	GetAttendance(ctx context.Context, employeeID generic.EmployeeID, date generic.TimePoint) (attendance.Record, error)
	DeleteAttendance(ctx context.Context, employeeID generic.EmployeeID, date generic.TimePoint) error

	// Reset removes all data. Development and demo scenarios only.
	Reset(ctx context.Context) error
	Close() error
}

// RecordID is the document id of an employee-day.
func RecordID(employeeID generic.EmployeeID, date generic.TimePoint) string {
	return string(employeeID) + "_" + date.String()
}
