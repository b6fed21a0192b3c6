package leave

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/generic"
)

// =============================================================================
// SOURCE - Read-only snapshots from persistence
// =============================================================================

// Source supplies the snapshots the calculator runs over. Implementations
// must return internally consistent data; the calculator does not cache.
type Source interface {
	AttendanceRecords(ctx context.Context, employeeID generic.EmployeeID) ([]attendance.Record, error)
	Allocations(ctx context.Context, employeeID generic.EmployeeID) ([]Allocation, error)
}

// BulkSource extends Source with whole-organisation snapshots for reporting.
// Sources that do not implement it are read one employee at a time.
type BulkSource interface {
	Source
	AllAttendanceRecords(ctx context.Context) ([]attendance.Record, error)
	AllAllocations(ctx context.Context) ([]Allocation, error)
}

// =============================================================================
// SERVICE - Load snapshots, run the pure pipeline
// =============================================================================

type Service struct {
	Source Source
}

func NewService(src Source) *Service {
	return &Service{Source: src}
}

// snapshot loads one employee's inputs and derives usage events.
func (s *Service) snapshot(ctx context.Context, employeeID generic.EmployeeID) ([]Allocation, []UsageEvent, error) {
	records, err := s.Source.AttendanceRecords(ctx, employeeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load attendance for %s: %w", employeeID, err)
	}
	allocs, err := s.Source.Allocations(ctx, employeeID)
	if err != nil {
		return nil, nil, fmt.Errorf("load allocations for %s: %w", employeeID, err)
	}
	return allocs, ExtractUsageEvents(records, allocs), nil
}

// Balances returns per-allocation summaries for one employee.
func (s *Service) Balances(ctx context.Context, employeeID generic.EmployeeID, mode ClampMode) ([]Summary, error) {
	allocs, events, err := s.snapshot(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return ComputeBalances(allocs, events, mode), nil
}

// Ledger returns the employee's matched usage events, newest first.
func (s *Service) Ledger(ctx context.Context, employeeID generic.EmployeeID) ([]UsageEvent, error) {
	summaries, err := s.Balances(ctx, employeeID, Unclamped)
	if err != nil {
		return nil, err
	}
	return Ledger(summaries), nil
}

// Remaining returns the entry-context remaining amount per allocation id.
func (s *Service) Remaining(ctx context.Context, employeeID generic.EmployeeID) (map[string]decimal.Decimal, error) {
	allocs, events, err := s.snapshot(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return RemainingByAllocation(allocs, events), nil
}

// Report builds the leave-balance report for the given employees.
func (s *Service) Report(ctx context.Context, employees []generic.EmployeeID) ([]EmployeeReport, error) {
	if bulk, ok := s.Source.(BulkSource); ok {
		records, err := bulk.AllAttendanceRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("load attendance: %w", err)
		}
		allocs, err := bulk.AllAllocations(ctx)
		if err != nil {
			return nil, fmt.Errorf("load allocations: %w", err)
		}
		return Report(employees, records, allocs), nil
	}

	reports := make([]EmployeeReport, 0, len(employees))
	for _, id := range employees {
		summaries, err := s.Balances(ctx, id, Unclamped)
		if err != nil {
			return nil, err
		}
		reports = append(reports, EmployeeReport{EmployeeID: id, Summaries: summaries, Ledger: Ledger(summaries)})
	}
	return reports, nil
}
