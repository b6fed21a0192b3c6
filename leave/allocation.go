package leave

import "github.com/dawam/leave-engine/generic"

// FindActiveAllocation returns the first allocation of typeID whose window
// contains date (inclusive, day granularity).
//
// Overlapping windows for the same type are not rejected anywhere; the
// first one in input order wins. Allocations without a window never match.
func FindActiveAllocation(allocations []Allocation, typeID string, date generic.TimePoint) (Allocation, bool) {
	for _, a := range allocations {
		if a.TypeID == typeID && a.Window.Contains(date) {
			return a, true
		}
	}
	return Allocation{}, false
}

// covers reports whether an event is charged against this allocation.
func (a Allocation) covers(e UsageEvent) bool {
	return e.EmployeeID == a.EmployeeID && e.LeaveTypeID == a.TypeID && a.Window.Contains(e.Date)
}
