package leave

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/generic"
)

// =============================================================================
// BALANCE AGGREGATOR
// =============================================================================

// ComputeBalances produces one Summary per allocation, in input order.
//
// An event counts against an allocation when the leave type matches and the
// event date is inside the allocation window. Amounts are converted to the
// allocation unit before summing. Events that match no window are dropped
// silently; they are neither an error nor charged anywhere.
//
// Allocations without a window report Used = 0 and Remaining = Amount.
func ComputeBalances(allocations []Allocation, events []UsageEvent, mode ClampMode) []Summary {
	summaries := make([]Summary, 0, len(allocations))
	for _, a := range allocations {
		unit := a.Unit()
		allocated := a.Amount.In(unit)
		s := Summary{
			Allocation: a,
			Used:       generic.ZeroAmount(unit),
			Remaining:  allocated,
		}
		if a.Window.IsOpen() {
			summaries = append(summaries, s)
			continue
		}

		for _, e := range events {
			if !a.covers(e) {
				continue
			}
			s.Used = s.Used.Add(e.Amount)
			s.UsageHistory = append(s.UsageHistory, e)
		}

		s.Remaining = allocated.Sub(s.Used)
		if mode == ClampAtZero {
			s.Remaining = s.Remaining.ClampZero()
		}
		summaries = append(summaries, s)
	}
	return summaries
}

// Ledger flattens every summary's history into one list, newest date first.
// Ties are broken by shift index, then leave type, so output is stable.
func Ledger(summaries []Summary) []UsageEvent {
	var all []UsageEvent
	for _, s := range summaries {
		all = append(all, s.UsageHistory...)
	}
	sortLedger(all)
	return all
}

func sortLedger(events []UsageEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.ShiftIndex != b.ShiftIndex {
			return a.ShiftIndex < b.ShiftIndex
		}
		return a.LeaveTypeID < b.LeaveTypeID
	})
}

// RemainingByAllocation maps allocation id to its clamped remaining amount,
// in the allocation's unit. It feeds leave-type pickers during attendance
// entry and must be rebuilt whenever attendance or allocations change.
func RemainingByAllocation(allocations []Allocation, events []UsageEvent) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(allocations))
	for _, s := range ComputeBalances(allocations, events, ClampAtZero) {
		out[s.ID] = s.Remaining.Value
	}
	return out
}

// =============================================================================
// REPORT - Many employees at once
// =============================================================================

// Report runs the pipeline per employee over mixed-employee snapshots. Only
// employees listed are reported, in the given order; unclamped balances are
// used so over-consumption shows up as a negative remaining.
func Report(employees []generic.EmployeeID, records []attendance.Record, allocations []Allocation) []EmployeeReport {
	recordsBy := make(map[generic.EmployeeID][]attendance.Record)
	for _, r := range records {
		recordsBy[r.EmployeeID] = append(recordsBy[r.EmployeeID], r)
	}
	allocsBy := make(map[generic.EmployeeID][]Allocation)
	for _, a := range allocations {
		allocsBy[a.EmployeeID] = append(allocsBy[a.EmployeeID], a)
	}

	reports := make([]EmployeeReport, 0, len(employees))
	for _, id := range employees {
		allocs := allocsBy[id]
		events := ExtractUsageEvents(recordsBy[id], allocs)
		summaries := ComputeBalances(allocs, events, Unclamped)
		reports = append(reports, EmployeeReport{
			EmployeeID: id,
			Summaries:  summaries,
			Ledger:     Ledger(summaries),
		})
	}
	return reports
}
