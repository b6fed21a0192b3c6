// Package attendance models daily attendance documents and classifies each
// shift's outcome into missing minutes.
package attendance

import "github.com/dawam/leave-engine/generic"

// =============================================================================
// STATUS
// =============================================================================

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusLeave   Status = "leave"
)

// IsFullShiftAbsence reports whether the whole planned shift is missing.
func (s Status) IsFullShiftAbsence() bool { return s == StatusAbsent || s == StatusLeave }

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusLeave:
		return true
	}
	return false
}

// =============================================================================
// RECORD - One document per employee per calendar date
// =============================================================================

// Record is an employee's attendance for one date. Shift order is
// meaningful: the position is the shift index shown in the ledger.
type Record struct {
	ID         string
	EmployeeID generic.EmployeeID
	Date       generic.TimePoint
	Shifts     []Shift
}

// Shift is one planned work interval and what actually happened.
type Shift struct {
	Start    string // planned, HH:MM
	End      string // planned, HH:MM
	CheckIn  string // actual, may be empty
	CheckOut string // actual, may be empty
	Status   Status

	MissingMinutes   int
	IsCoveredByLeave bool

	// Simple coverage: the whole missing amount goes to one leave type.
	LeaveTypeID   string
	LeaveTypeName string

	// Split coverage: missing time divided across several leave types.
	DelayCoverage []Coverage
}

// Coverage is one fragment of a split-coverage shift.
type Coverage struct {
	TypeID   string
	TypeName string
	Mins     int
}

// HasSplitCoverage reports whether the split-coverage path applies.
func (s Shift) HasSplitCoverage() bool {
	return s.IsCoveredByLeave && len(s.DelayCoverage) > 0
}
