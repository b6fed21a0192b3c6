package generic

// =============================================================================
// PERIOD - Inclusive validity window
// =============================================================================

// Period is an inclusive [Start, End] window at day granularity.
// A zero Start or End means the window was never set.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// IsOpen reports whether either boundary is unset.
func (p Period) IsOpen() bool { return p.Start.IsZero() || p.End.IsZero() }

// Contains returns true if t is within [Start, End]. Open windows contain
// nothing.
func (p Period) Contains(t TimePoint) bool {
	if p.IsOpen() {
		return false
	}
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Valid reports whether the window is set and End is not before Start.
func (p Period) Valid() bool {
	return !p.IsOpen() && !p.End.Before(p.Start)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
