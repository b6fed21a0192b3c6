/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the calculator's types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Employee:    EmployeeDTO, CreateEmployeeRequest
  Leave types: LeaveTypeDTO, CreateLeaveTypeRequest
  Allocations: AllocationDTO, AllocationRequest
  Attendance:  AttendanceDTO, ShiftDTO, CoverageDTO, SaveAttendanceRequest
  Balances:    BalanceDTO, AllocationBalanceDTO, UsageEventDTO, RemainingDTO
  Report:      ReportDTO, EmployeeReportDTO
  Import:      ImportRequest (document format), ImportResultDTO
  Scenarios:   ScenarioDTO, LoadScenarioRequest

AMOUNTS:
  Amounts are exact decimals internally and rounded to float64 only here.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"github.com/dawam/leave-engine/factory"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	HireDate  string `json:"hire_date,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	HireDate string `json:"hire_date"`
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

type LeaveTypeDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CreateLeaveTypeRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

type AllocationDTO struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	TypeID     string  `json:"type_id"`
	TypeName   string  `json:"type_name"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	StartDate  string  `json:"start_date,omitempty"`
	EndDate    string  `json:"end_date,omitempty"`
}

// AllocationRequest creates or edits an allocation. Dates may both be
// omitted; such an allocation is never consumed against.
type AllocationRequest struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	TypeID     string  `json:"type_id"`
	TypeName   string  `json:"type_name"`
	Amount     float64 `json:"amount"`
	Unit       string  `json:"unit"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
}

// =============================================================================
// ATTENDANCE
// =============================================================================

type AttendanceDTO struct {
	ID         string     `json:"id"`
	EmployeeID string     `json:"employee_id"`
	Date       string     `json:"date"`
	Shifts     []ShiftDTO `json:"shifts"`
}

type ShiftDTO struct {
	Start            string        `json:"start"`
	End              string        `json:"end"`
	CheckIn          string        `json:"check_in,omitempty"`
	CheckOut         string        `json:"check_out,omitempty"`
	Status           string        `json:"status"`
	MissingMinutes   int           `json:"missing_minutes"`
	IsCoveredByLeave bool          `json:"is_covered_by_leave"`
	LeaveTypeID      string        `json:"leave_type_id,omitempty"`
	LeaveTypeName    string        `json:"leave_type_name,omitempty"`
	DelayCoverage    []CoverageDTO `json:"delay_coverage,omitempty"`
}

type CoverageDTO struct {
	TypeID   string `json:"type_id"`
	TypeName string `json:"type_name,omitempty"`
	Mins     int    `json:"mins"`
}

// SaveAttendanceRequest replaces the whole employee-day. missing_minutes
// in the body is ignored and re-derived from the times and status.
type SaveAttendanceRequest struct {
	Shifts []ShiftDTO `json:"shifts"`
}

// =============================================================================
// BALANCES
// =============================================================================

type BalanceDTO struct {
	EmployeeID  string                 `json:"employee_id"`
	Mode        string                 `json:"mode"`
	Allocations []AllocationBalanceDTO `json:"allocations"`
}

type AllocationBalanceDTO struct {
	AllocationID string          `json:"allocation_id"`
	TypeID       string          `json:"type_id"`
	TypeName     string          `json:"type_name"`
	Unit         string          `json:"unit"`
	Allocated    float64         `json:"allocated"`
	Used         float64         `json:"used"`
	Remaining    float64         `json:"remaining"`
	StartDate    string          `json:"start_date,omitempty"`
	EndDate      string          `json:"end_date,omitempty"`
	UsageHistory []UsageEventDTO `json:"usage_history"`
}

type UsageEventDTO struct {
	EmployeeID    string  `json:"employee_id"`
	Date          string  `json:"date"`
	ShiftIndex    int     `json:"shift_index"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name,omitempty"`
	Amount        float64 `json:"amount"`
	Unit          string  `json:"unit"`
}

// RemainingDTO feeds the leave-type picker on the attendance screen.
type RemainingDTO struct {
	EmployeeID string             `json:"employee_id"`
	Remaining  map[string]float64 `json:"remaining"`
}

// =============================================================================
// REPORT
// =============================================================================

type ReportDTO struct {
	GeneratedAt string              `json:"generated_at"`
	Employees   []EmployeeReportDTO `json:"employees"`
}

type EmployeeReportDTO struct {
	EmployeeID   string                 `json:"employee_id"`
	EmployeeName string                 `json:"employee_name"`
	Balances     []AllocationBalanceDTO `json:"balances"`
	Ledger       []UsageEventDTO        `json:"ledger"`
}

// =============================================================================
// IMPORT - Documents exported from the old document database
// =============================================================================

type ImportRequest struct {
	LeaveTypes  []factory.LeaveTypeJSON  `json:"leaveTypes"`
	Allocations []factory.AllocationJSON `json:"allocations"`
	Attendance  []factory.AttendanceJSON `json:"attendance"`
}

type ImportResultDTO struct {
	LeaveTypes  int      `json:"leave_types"`
	Allocations int      `json:"allocations"`
	Attendance  int      `json:"attendance"`
	Skipped     []string `json:"skipped,omitempty"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
