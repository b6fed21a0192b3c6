/*
Package leave computes leave-allocation consumption from attendance history.

PURPOSE:
  Given an employee's attendance records and granted allocations, work out
  how much of each allocation has been used and how much remains. There is
  no stored balance: every figure is recomputed from the two snapshots.

PIPELINE:
  attendance records + allocations
      -> ExtractUsageEvents   (one event per shift coverage fragment)
      -> ComputeBalances      (events matched to allocations by type + window)
      -> Ledger / RemainingByAllocation / Report

CLAMPING:
  The attendance-entry dropdown never shows a negative remaining balance.
  The leave-balance report does, so over-consumption is visible. Both are
  served by ComputeBalances via ClampMode; callers pick per context.

SEE ALSO:
  - attendance/classify.go: missing minutes per shift
  - service.go: snapshot loading from a Source
*/
package leave

import (
	"github.com/dawam/leave-engine/generic"
)

// =============================================================================
// LEAVE TYPE
// =============================================================================

// Type is a label only; it carries no accrual or consumption rules.
type Type struct {
	ID          string
	Name        string
	Description string
}

// =============================================================================
// ALLOCATION - Time-bounded grant of leave credit
// =============================================================================

// Allocation grants Amount of one leave type to one employee, valid over an
// inclusive window. All consumption arithmetic happens in the allocation's
// own unit.
type Allocation struct {
	ID         string
	EmployeeID generic.EmployeeID
	TypeID     string
	TypeName   string
	Amount     generic.Amount
	Window     generic.Period
}

// Unit is the allocation's accounting unit, days when unset.
func (a Allocation) Unit() generic.Unit {
	if a.Amount.Unit == "" {
		return generic.UnitDays
	}
	return a.Amount.Unit
}

// =============================================================================
// USAGE EVENT - Derived, never stored
// =============================================================================

// UsageEvent is one unit of consumption from a single shift's coverage.
type UsageEvent struct {
	EmployeeID    generic.EmployeeID
	Date          generic.TimePoint
	ShiftIndex    int
	LeaveTypeID   string
	LeaveTypeName string
	Amount        generic.Amount
}

// =============================================================================
// SUMMARY
// =============================================================================

type ClampMode int

const (
	// Unclamped lets Remaining go negative (leave-balance report).
	Unclamped ClampMode = iota
	// ClampAtZero floors Remaining at zero (attendance-entry dropdowns).
	ClampAtZero
)

// Summary is the computed balance of one allocation.
type Summary struct {
	Allocation
	Used         generic.Amount
	Remaining    generic.Amount
	UsageHistory []UsageEvent
}

// EmployeeReport is one employee's block in the leave-balance report.
type EmployeeReport struct {
	EmployeeID generic.EmployeeID
	Summaries  []Summary
	Ledger     []UsageEvent
}
