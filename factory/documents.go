/*
Package factory converts stored JSON documents into engine types.

PURPOSE:
  Attendance and allocation data was written by an admin console into a
  document database, with little validation on the way in. Amounts show up
  as numbers or strings, units as free text, dates as plain dates or full
  timestamps. The factory turns those documents into attendance.Record and
  leave.Allocation values and back again.

COERCION RULES:
  - amount / mins / missingMinutes: number or numeric string; anything else
    becomes 0 (never an error)
  - unit: "minutes" (and abbreviations) or days
  - startDate / endDate: YYYY-MM-DD or RFC3339; bad or missing leaves the
    window open, which the calculator treats as never consumed against
  - attendance date: required, it is the record's identity

JSON SCHEMA (allocation):
  {
    "id": "alloc-1",
    "employeeId": "emp-1",
    "typeId": "annual",
    "typeName": "Annual",
    "amount": "21",
    "unit": "days",
    "startDate": "2024-01-01",
    "endDate": "2024-12-31"
  }

JSON SCHEMA (attendance):
  {
    "id": "emp-1_2024-03-15",
    "employeeId": "emp-1",
    "date": "2024-03-15",
    "shifts": [{
      "start": "08:00", "end": "16:00",
      "checkIn": "08:20", "checkOut": "16:00",
      "status": "late", "missingMinutes": 20,
      "isCoveredByLeave": true,
      "delayCoverage": [{"typeId": "sick", "typeName": "Sick", "mins": 20}]
    }]
  }

USAGE:
  f := factory.NewDocumentFactory()
  alloc, err := f.ParseAllocation(jsonString)
  rec, err := f.ParseAttendance(jsonString)

SEE ALSO:
  - store/sqlite/sqlite.go: stores shifts using ShiftsToJSON / ShiftsFromJSON
  - api/handlers.go: ImportDocuments endpoint
*/
package factory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/generic"
	"github.com/dawam/leave-engine/leave"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// Number accepts a JSON number or string and falls back to zero.
type Number struct {
	decimal.Decimal
}

func NewNumber(d decimal.Decimal) Number { return Number{Decimal: d} }

func (n *Number) UnmarshalJSON(b []byte) error {
	n.Decimal = generic.MustParseDecimal(strings.Trim(string(b), `"`))
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// AllocationJSON is the stored form of a leave allocation.
type AllocationJSON struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	TypeID     string `json:"typeId"`
	TypeName   string `json:"typeName,omitempty"`
	Amount     Number `json:"amount"`
	Unit       string `json:"unit"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
}

// LeaveTypeJSON is the stored form of a leave type.
type LeaveTypeJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AttendanceJSON is the stored form of one employee-day.
type AttendanceJSON struct {
	ID         string      `json:"id,omitempty"`
	EmployeeID string      `json:"employeeId"`
	Date       string      `json:"date"`
	Shifts     []ShiftJSON `json:"shifts"`
}

type ShiftJSON struct {
	Start            string         `json:"start"`
	End              string         `json:"end"`
	CheckIn          string         `json:"checkIn,omitempty"`
	CheckOut         string         `json:"checkOut,omitempty"`
	Status           string         `json:"status"`
	MissingMinutes   Number         `json:"missingMinutes"`
	IsCoveredByLeave bool           `json:"isCoveredByLeave"`
	LeaveTypeID      string         `json:"leaveTypeId,omitempty"`
	LeaveTypeName    string         `json:"leaveTypeName,omitempty"`
	DelayCoverage    []CoverageJSON `json:"delayCoverage,omitempty"`
}

type CoverageJSON struct {
	TypeID   string `json:"typeId"`
	TypeName string `json:"typeName,omitempty"`
	Mins     Number `json:"mins"`
}

// =============================================================================
// DOCUMENT FACTORY
// =============================================================================

type DocumentFactory struct{}

func NewDocumentFactory() *DocumentFactory {
	return &DocumentFactory{}
}

// ParseAllocation decodes an allocation document. Only malformed JSON is an
// error; bad field values are coerced.
func (f *DocumentFactory) ParseAllocation(jsonStr string) (leave.Allocation, error) {
	var aj AllocationJSON
	if err := json.Unmarshal([]byte(jsonStr), &aj); err != nil {
		return leave.Allocation{}, fmt.Errorf("invalid allocation JSON: %w", err)
	}
	return f.FromAllocationJSON(aj), nil
}

func (f *DocumentFactory) FromAllocationJSON(aj AllocationJSON) leave.Allocation {
	return leave.Allocation{
		ID:         aj.ID,
		EmployeeID: generic.EmployeeID(aj.EmployeeID),
		TypeID:     aj.TypeID,
		TypeName:   aj.TypeName,
		Amount:     generic.Amount{Value: aj.Amount.Decimal, Unit: generic.ParseUnit(aj.Unit)},
		Window: generic.Period{
			Start: lenientDate(aj.StartDate),
			End:   lenientDate(aj.EndDate),
		},
	}
}

func (f *DocumentFactory) ToAllocationJSON(a leave.Allocation) AllocationJSON {
	return AllocationJSON{
		ID:         a.ID,
		EmployeeID: string(a.EmployeeID),
		TypeID:     a.TypeID,
		TypeName:   a.TypeName,
		Amount:     NewNumber(a.Amount.Value),
		Unit:       string(a.Unit()),
		StartDate:  a.Window.Start.String(),
		EndDate:    a.Window.End.String(),
	}
}

func (f *DocumentFactory) FromLeaveTypeJSON(tj LeaveTypeJSON) leave.Type {
	return leave.Type{ID: tj.ID, Name: tj.Name, Description: tj.Description}
}

// ParseAttendance decodes an attendance document. The date is required.
func (f *DocumentFactory) ParseAttendance(jsonStr string) (attendance.Record, error) {
	var rj AttendanceJSON
	if err := json.Unmarshal([]byte(jsonStr), &rj); err != nil {
		return attendance.Record{}, fmt.Errorf("invalid attendance JSON: %w", err)
	}
	return f.FromAttendanceJSON(rj)
}

func (f *DocumentFactory) FromAttendanceJSON(rj AttendanceJSON) (attendance.Record, error) {
	date, err := generic.ParseDate(rj.Date)
	if err != nil {
		return attendance.Record{}, err
	}
	return attendance.Record{
		ID:         rj.ID,
		EmployeeID: generic.EmployeeID(rj.EmployeeID),
		Date:       date,
		Shifts:     f.FromShiftsJSON(rj.Shifts),
	}, nil
}

func (f *DocumentFactory) ToAttendanceJSON(r attendance.Record) AttendanceJSON {
	return AttendanceJSON{
		ID:         r.ID,
		EmployeeID: string(r.EmployeeID),
		Date:       r.Date.String(),
		Shifts:     f.ToShiftsJSON(r.Shifts),
	}
}

func (f *DocumentFactory) FromShiftsJSON(in []ShiftJSON) []attendance.Shift {
	shifts := make([]attendance.Shift, len(in))
	for i, sj := range in {
		var coverage []attendance.Coverage
		for _, cj := range sj.DelayCoverage {
			coverage = append(coverage, attendance.Coverage{
				TypeID:   cj.TypeID,
				TypeName: cj.TypeName,
				Mins:     int(cj.Mins.IntPart()),
			})
		}
		shifts[i] = attendance.Shift{
			Start:            sj.Start,
			End:              sj.End,
			CheckIn:          sj.CheckIn,
			CheckOut:         sj.CheckOut,
			Status:           attendance.Status(sj.Status),
			MissingMinutes:   int(sj.MissingMinutes.IntPart()),
			IsCoveredByLeave: sj.IsCoveredByLeave,
			LeaveTypeID:      sj.LeaveTypeID,
			LeaveTypeName:    sj.LeaveTypeName,
			DelayCoverage:    coverage,
		}
	}
	return shifts
}

func (f *DocumentFactory) ToShiftsJSON(in []attendance.Shift) []ShiftJSON {
	out := make([]ShiftJSON, len(in))
	for i, s := range in {
		var coverage []CoverageJSON
		for _, c := range s.DelayCoverage {
			coverage = append(coverage, CoverageJSON{
				TypeID:   c.TypeID,
				TypeName: c.TypeName,
				Mins:     NewNumber(decimal.NewFromInt(int64(c.Mins))),
			})
		}
		out[i] = ShiftJSON{
			Start:            s.Start,
			End:              s.End,
			CheckIn:          s.CheckIn,
			CheckOut:         s.CheckOut,
			Status:           string(s.Status),
			MissingMinutes:   NewNumber(decimal.NewFromInt(int64(s.MissingMinutes))),
			IsCoveredByLeave: s.IsCoveredByLeave,
			LeaveTypeID:      s.LeaveTypeID,
			LeaveTypeName:    s.LeaveTypeName,
			DelayCoverage:    coverage,
		}
	}
	return out
}

// ShiftsToJSON encodes shifts for storage as a single column.
func (f *DocumentFactory) ShiftsToJSON(shifts []attendance.Shift) (string, error) {
	b, err := json.Marshal(f.ToShiftsJSON(shifts))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ShiftsFromJSON decodes a stored shifts column. Empty input means no shifts.
func (f *DocumentFactory) ShiftsFromJSON(s string) ([]attendance.Shift, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var sj []ShiftJSON
	if err := json.Unmarshal([]byte(s), &sj); err != nil {
		return nil, fmt.Errorf("invalid shifts JSON: %w", err)
	}
	return f.FromShiftsJSON(sj), nil
}

func lenientDate(s string) generic.TimePoint {
	if s == "" {
		return generic.TimePoint{}
	}
	tp, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}
	}
	return tp
}
