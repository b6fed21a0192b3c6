package leave

import (
	"github.com/shopspring/decimal"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/generic"
)

// =============================================================================
// USAGE EVENT EXTRACTOR
// =============================================================================

// ExtractUsageEvents walks attendance history and emits the leave usage each
// shift implies. The result is unordered.
//
// Per shift, in order of precedence:
//
//  1. Split coverage (covered by leave with DelayCoverage entries): one event
//     per fragment with a type id, converted to that type's active
//     allocation unit.
//  2. Simple coverage / direct leave (LeaveTypeID set): the missing minutes
//     when covered, otherwise the whole shift for any non-present status.
//  3. Anything else is uncovered and consumes nothing.
//
// When no allocation is active for the date, amounts are expressed in days.
func ExtractUsageEvents(records []attendance.Record, allocations []Allocation) []UsageEvent {
	var events []UsageEvent
	for _, rec := range records {
		for idx, shift := range rec.Shifts {
			events = append(events, shiftUsage(rec, idx, shift, allocations)...)
		}
	}
	return events
}

func shiftUsage(rec attendance.Record, idx int, shift attendance.Shift, allocations []Allocation) []UsageEvent {
	event := func(typeID, typeName string, amount generic.Amount) UsageEvent {
		return UsageEvent{
			EmployeeID:    rec.EmployeeID,
			Date:          rec.Date,
			ShiftIndex:    idx,
			LeaveTypeID:   typeID,
			LeaveTypeName: typeName,
			Amount:        amount,
		}
	}

	if shift.HasSplitCoverage() {
		var events []UsageEvent
		for _, cov := range shift.DelayCoverage {
			if cov.TypeID == "" {
				continue
			}
			unit := activeUnit(allocations, cov.TypeID, rec.Date)
			amount := generic.NewAmountFromInt(cov.Mins, generic.UnitMinutes).In(unit)
			if amount.IsPositive() {
				events = append(events, event(cov.TypeID, cov.TypeName, amount))
			}
		}
		return events
	}

	if shift.LeaveTypeID == "" {
		return nil
	}

	unit := activeUnit(allocations, shift.LeaveTypeID, rec.Date)
	var amount generic.Amount
	switch {
	case shift.IsCoveredByLeave && shift.MissingMinutes > 0:
		amount = generic.NewAmountFromInt(shift.MissingMinutes, generic.UnitMinutes).In(unit)
	case shift.Status != attendance.StatusPresent:
		if unit == generic.UnitMinutes {
			amount = generic.NewAmountFromInt(attendance.Duration(shift), generic.UnitMinutes)
		} else {
			// One shift of an N-shift day is 1/N of a day.
			amount = generic.Amount{
				Value: decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(len(rec.Shifts)))),
				Unit:  generic.UnitDays,
			}
		}
	default:
		return nil
	}

	if !amount.IsPositive() {
		return nil
	}
	return []UsageEvent{event(shift.LeaveTypeID, shift.LeaveTypeName, amount)}
}

func activeUnit(allocations []Allocation, typeID string, date generic.TimePoint) generic.Unit {
	if a, ok := FindActiveAllocation(allocations, typeID, date); ok {
		return a.Unit()
	}
	return generic.UnitDays
}
