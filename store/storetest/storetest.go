// Package storetest holds the behaviour every store.Store implementation
// must share. Each implementation runs it from its own tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/generic"
	"github.com/dawam/leave-engine/leave"
	"github.com/dawam/leave-engine/store"
)

// Run exercises open() against the store contract. open must return an
// empty store and register its own cleanup.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"EmployeeRoundTrip", testEmployeeRoundTrip},
		{"DeleteEmployeeCascades", testDeleteEmployeeCascades},
		{"LeaveTypes", testLeaveTypes},
		{"AllocationOrdering", testAllocationOrdering},
		{"AllocationUpdateKeepsPosition", testAllocationUpdateKeepsPosition},
		{"AttendanceOverwrite", testAttendanceOverwrite},
		{"AttendanceOrdering", testAttendanceOrdering},
		{"NotFound", testNotFound},
		{"Reset", testReset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, open(t))
		})
	}
}

func day(month time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(2024, month, d)
}

func year(y int) generic.Period {
	return generic.Period{
		Start: generic.NewTimePoint(y, time.January, 1),
		End:   generic.NewTimePoint(y, time.December, 31),
	}
}

func allocation(id, employeeID string, window generic.Period) leave.Allocation {
	return leave.Allocation{
		ID:         id,
		EmployeeID: generic.EmployeeID(employeeID),
		TypeID:     "annual",
		TypeName:   "Annual",
		Amount:     generic.Amount{Value: generic.MustParseDecimal("21.5"), Unit: generic.UnitDays},
		Window:     window,
	}
}

func absence(employeeID string, d generic.TimePoint) attendance.Record {
	return attendance.Record{
		EmployeeID: generic.EmployeeID(employeeID),
		Date:       d,
		Shifts: []attendance.Shift{{
			Start: "08:00", End: "16:00", Status: attendance.StatusAbsent,
			MissingMinutes: 480, LeaveTypeID: "annual", LeaveTypeName: "Annual",
		}},
	}
}

func testEmployeeRoundTrip(t *testing.T, s store.Store) {
	ctx := context.Background()
	hire := time.Date(2022, time.March, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveEmployee(ctx, store.Employee{ID: "emp-2", Name: "Omar", Email: "omar@example.com", HireDate: hire}))
	require.NoError(t, s.SaveEmployee(ctx, store.Employee{ID: "emp-1", Name: "Layla"}))

	emp, err := s.GetEmployee(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, "Omar", emp.Name)
	assert.True(t, hire.Equal(emp.HireDate))
	assert.False(t, emp.CreatedAt.IsZero())

	employees, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 2)
	assert.Equal(t, "Layla", employees[0].Name)
}

func testDeleteEmployeeCascades(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, store.Employee{ID: "emp-1", Name: "Layla"}))
	require.NoError(t, s.SaveEmployee(ctx, store.Employee{ID: "emp-2", Name: "Omar"}))
	require.NoError(t, s.SaveAllocation(ctx, allocation("a1", "emp-1", year(2024))))
	require.NoError(t, s.SaveAllocation(ctx, allocation("a2", "emp-2", year(2024))))
	require.NoError(t, s.SaveAttendance(ctx, absence("emp-1", day(time.March, 1))))
	require.NoError(t, s.SaveAttendance(ctx, absence("emp-2", day(time.March, 1))))

	require.NoError(t, s.DeleteEmployee(ctx, "emp-1"))

	allocs, err := s.AllAllocations(ctx)
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, "a2", allocs[0].ID)

	records, err := s.AllAttendanceRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, generic.EmployeeID("emp-2"), records[0].EmployeeID)
}

func testLeaveTypes(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "sick", Name: "Sick"}))
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "annual", Name: "Annual", Description: "Paid"}))
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "annual", Name: "Annual Leave", Description: "Paid"}))

	types, err := s.ListLeaveTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Annual Leave", types[0].Name)

	require.NoError(t, s.DeleteLeaveType(ctx, "sick"))
	assert.ErrorIs(t, s.DeleteLeaveType(ctx, "sick"), generic.ErrLeaveTypeNotFound)
}

func testAllocationOrdering(t *testing.T, s store.Store) {
	// Window start first, then insertion order for equal starts.
	ctx := context.Background()
	require.NoError(t, s.SaveAllocation(ctx, allocation("y2025", "emp-1", year(2025))))
	require.NoError(t, s.SaveAllocation(ctx, allocation("y2024-b", "emp-1", year(2024))))
	require.NoError(t, s.SaveAllocation(ctx, allocation("y2024-a", "emp-1", year(2024))))
	require.NoError(t, s.SaveAllocation(ctx, allocation("other", "emp-2", year(2024))))

	allocs, err := s.Allocations(ctx, "emp-1")
	require.NoError(t, err)
	ids := make([]string, len(allocs))
	for i, a := range allocs {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"y2024-b", "y2024-a", "y2025"}, ids)

	got := allocs[0]
	assert.Equal(t, "21.5", got.Amount.Value.String())
	assert.Equal(t, generic.UnitDays, got.Unit())
	assert.Equal(t, "Annual", got.TypeName)
	assert.True(t, got.Window.Start.Equal(day(time.January, 1)))
}

func testAllocationUpdateKeepsPosition(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveAllocation(ctx, allocation("first", "emp-1", year(2024))))
	require.NoError(t, s.SaveAllocation(ctx, allocation("second", "emp-1", year(2024))))

	edited := allocation("first", "emp-1", year(2024))
	edited.Amount = generic.NewAmountFromInt(240, generic.UnitMinutes)
	require.NoError(t, s.SaveAllocation(ctx, edited))

	allocs, err := s.Allocations(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "first", allocs[0].ID)
	assert.Equal(t, generic.UnitMinutes, allocs[0].Unit())

	a, err := s.GetAllocation(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, "240", a.Amount.Value.String())
}

func testAttendanceOverwrite(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveAttendance(ctx, absence("emp-1", day(time.March, 1))))

	replacement := attendance.Record{
		EmployeeID: "emp-1",
		Date:       day(time.March, 1),
		Shifts: []attendance.Shift{
			{Start: "08:00", End: "12:00", CheckIn: "08:10", Status: attendance.StatusLate, MissingMinutes: 10,
				IsCoveredByLeave: true, DelayCoverage: []attendance.Coverage{{TypeID: "perm", TypeName: "Permission", Mins: 10}}},
			{Start: "13:00", End: "17:00", Status: attendance.StatusPresent},
		},
	}
	require.NoError(t, s.SaveAttendance(ctx, replacement))

	rec, err := s.GetAttendance(ctx, "emp-1", day(time.March, 1))
	require.NoError(t, err)
	assert.Equal(t, "emp-1_2024-03-01", rec.ID)
	require.Len(t, rec.Shifts, 2)
	assert.Equal(t, replacement.Shifts[0].DelayCoverage, rec.Shifts[0].DelayCoverage)
	assert.Equal(t, 10, rec.Shifts[0].MissingMinutes)

	records, err := s.AttendanceRecords(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func testAttendanceOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()
	for _, d := range []generic.TimePoint{day(time.May, 3), day(time.January, 9), day(time.March, 1)} {
		require.NoError(t, s.SaveAttendance(ctx, absence("emp-1", d)))
	}

	records, err := s.AttendanceRecords(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2024-01-09", records[0].Date.String())
	assert.Equal(t, "2024-03-01", records[1].Date.String())
	assert.Equal(t, "2024-05-03", records[2].Date.String())
}

func testNotFound(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.GetEmployee(ctx, "ghost")
	assert.ErrorIs(t, err, generic.ErrEmployeeNotFound)
	assert.ErrorIs(t, s.DeleteEmployee(ctx, "ghost"), generic.ErrEmployeeNotFound)

	_, err = s.GetAllocation(ctx, "ghost")
	assert.ErrorIs(t, err, generic.ErrAllocationNotFound)
	assert.ErrorIs(t, s.DeleteAllocation(ctx, "ghost"), generic.ErrAllocationNotFound)

	_, err = s.GetAttendance(ctx, "ghost", day(time.March, 1))
	assert.ErrorIs(t, err, generic.ErrRecordNotFound)
	assert.ErrorIs(t, s.DeleteAttendance(ctx, "ghost", day(time.March, 1)), generic.ErrRecordNotFound)
}

func testReset(t *testing.T, s store.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, store.Employee{ID: "emp-1", Name: "Layla"}))
	require.NoError(t, s.SaveLeaveType(ctx, leave.Type{ID: "annual", Name: "Annual"}))
	require.NoError(t, s.SaveAllocation(ctx, allocation("a1", "emp-1", year(2024))))
	require.NoError(t, s.SaveAttendance(ctx, absence("emp-1", day(time.March, 1))))

	require.NoError(t, s.Reset(ctx))

	employees, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
	types, err := s.ListLeaveTypes(ctx)
	require.NoError(t, err)
	assert.Empty(t, types)
	allocs, err := s.AllAllocations(ctx)
	require.NoError(t, err)
	assert.Empty(t, allocs)
	records, err := s.AllAttendanceRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
