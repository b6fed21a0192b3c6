package attendance

import "github.com/dawam/leave-engine/generic"

// =============================================================================
// SHIFT OUTCOME CLASSIFIER
// =============================================================================

// MissingMinutes derives how much of the planned shift was not worked.
//
// Full-shift absences (absent, leave) miss end-start. That value is passed
// through even when negative; an end before start is a data-entry problem
// the classifier does not correct.
//
// Otherwise lateness and early departure are each clamped at zero and only
// counted when the matching actual time was recorded.
func MissingMinutes(s Shift) int {
	start := generic.ParseClock(s.Start)
	end := generic.ParseClock(s.End)

	if s.Status.IsFullShiftAbsence() {
		return end - start
	}

	late := 0
	if s.CheckIn != "" {
		late = max(0, generic.ParseClock(s.CheckIn)-start)
	}
	early := 0
	if s.CheckOut != "" {
		early = max(0, end-generic.ParseClock(s.CheckOut))
	}
	return late + early
}

// Duration is the planned shift length, wrapping overnight shifts.
func Duration(s Shift) int {
	d := generic.ParseClock(s.End) - generic.ParseClock(s.Start)
	if d < 0 {
		d += generic.MinutesPerClockDay
	}
	return d
}

// Recompute re-derives MissingMinutes. Call it after any change to CheckIn,
// CheckOut or Status; resetting coverage on a status change is the caller's
// decision.
func (s *Shift) Recompute() {
	s.MissingMinutes = MissingMinutes(*s)
}

// Recompute re-derives every shift in the record.
func (r *Record) Recompute() {
	for i := range r.Shifts {
		r.Shifts[i].Recompute()
	}
}
