package leave_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/generic"
	"github.com/dawam/leave-engine/leave"
	"github.com/dawam/leave-engine/store/memory"
)

// failingSource returns err for whichever snapshot is configured to fail.
type failingSource struct {
	recordsErr error
	allocsErr  error
}

func (f failingSource) AttendanceRecords(context.Context, generic.EmployeeID) ([]attendance.Record, error) {
	return nil, f.recordsErr
}

func (f failingSource) Allocations(context.Context, generic.EmployeeID) ([]leave.Allocation, error) {
	return nil, f.allocsErr
}

func newSeededService(t *testing.T) *leave.Service {
	t.Helper()
	ctx := context.Background()
	m := memory.NewMemory()

	require.NoError(t, m.SaveAllocation(ctx, alloc("annual", "annual", 2, generic.UnitDays, year2024())))
	for d := 1; d <= 3; d++ {
		require.NoError(t, m.SaveAttendance(ctx, record(date(time.May, d), absentOn("annual"))))
	}
	return leave.NewService(m)
}

func TestService_BalancesPerMode(t *testing.T) {
	// GIVEN: 2 days allocated and 3 absences in the store
	svc := newSeededService(t)
	ctx := context.Background()

	// WHEN: Reading both contexts
	report, err := svc.Balances(ctx, emp, leave.Unclamped)
	require.NoError(t, err)
	entry, err := svc.Balances(ctx, emp, leave.ClampAtZero)
	require.NoError(t, err)

	// THEN: They diverge at zero
	assert.True(t, report[0].Remaining.Value.Equal(dec("-1")))
	assert.True(t, entry[0].Remaining.IsZero())
}

func TestService_RemainingAndLedger(t *testing.T) {
	svc := newSeededService(t)
	ctx := context.Background()

	remaining, err := svc.Remaining(ctx, emp)
	require.NoError(t, err)
	assert.True(t, remaining["annual"].IsZero())

	ledger, err := svc.Ledger(ctx, emp)
	require.NoError(t, err)
	require.Len(t, ledger, 3)
	assert.Equal(t, "2024-05-03", ledger[0].Date.String())
}

func TestService_ReportUsesBulkSource(t *testing.T) {
	svc := newSeededService(t)

	reports, err := svc.Report(context.Background(), []generic.EmployeeID{emp, "nobody"})
	require.NoError(t, err)

	require.Len(t, reports, 2)
	assert.True(t, reports[0].Summaries[0].Used.Value.Equal(dec("3")))
	assert.Empty(t, reports[1].Summaries)
}

func TestService_ReportFallsBackPerEmployee(t *testing.T) {
	// GIVEN: A source that is not a BulkSource
	sentinel := errors.New("disk on fire")
	svc := leave.NewService(failingSource{allocsErr: sentinel})

	// WHEN: Building a report
	_, err := svc.Report(context.Background(), []generic.EmployeeID{emp})

	// THEN: The per-employee error surfaces, wrapped
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "load allocations for emp-1")
}

func TestService_WrapsSourceErrors(t *testing.T) {
	sentinel := errors.New("connection reset")
	svc := leave.NewService(failingSource{recordsErr: sentinel})

	_, err := svc.Balances(context.Background(), emp, leave.Unclamped)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "load attendance for emp-1")

	_, err = svc.Remaining(context.Background(), emp)
	assert.ErrorIs(t, err, sentinel)
}
