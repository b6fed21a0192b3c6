/*
handlers_test.go - HTTP tests for API handlers

Tests for:
- Employee CRUD and 404 mapping
- Attendance overwrite with re-derived missing minutes
- Allocation validation
- Balances (report vs entry), remaining map, ledger order
- Document import coercion
*/
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawam/leave-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*Handler, *chi.Mux) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := NewHandler(memory.NewMemory(), logger)
	return h, NewRouter(h, RouterOptions{LogLevel: slog.LevelError})
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func seedEmployee(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/employees", CreateEmployeeRequest{ID: id, Name: "Test " + id})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func seedAllocation(t *testing.T, router http.Handler, req AllocationRequest) {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/allocations", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func putDay(t *testing.T, router http.Handler, empID, date string, shifts ...ShiftDTO) AttendanceDTO {
	t.Helper()
	rec := doRequest(t, router, http.MethodPut, "/api/employees/"+empID+"/attendance/"+date, SaveAttendanceRequest{Shifts: shifts})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[AttendanceDTO](t, rec)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployees_CreateGetDelete(t *testing.T) {
	// GIVEN: An empty store
	_, router := newTestServer(t)

	// WHEN: Creating an employee without an id
	rec := doRequest(t, router, http.MethodPost, "/api/employees", CreateEmployeeRequest{Name: "Layla", HireDate: "2023-02-01"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[EmployeeDTO](t, rec)

	// THEN: An id is generated and the employee can be fetched
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "2023-02-01", created.HireDate)

	rec = doRequest(t, router, http.MethodGet, "/api/employees/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/employees/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/employees/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployees_CreateRejectsBadInput(t *testing.T) {
	_, router := newTestServer(t)

	rec := doRequest(t, router, http.MethodPost, "/api/employees", CreateEmployeeRequest{ID: "emp-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/employees", CreateEmployeeRequest{ID: "emp-1", Name: "A", HireDate: "01/02/2023"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ATTENDANCE
// =============================================================================

func TestSaveAttendance_RecomputesMissingMinutes(t *testing.T) {
	// GIVEN: An employee
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")

	// WHEN: Saving a late shift with a stale missing_minutes value
	saved := putDay(t, router, "emp-1", "2024-03-05", ShiftDTO{
		Start: "08:00", End: "16:00", CheckIn: "08:20", CheckOut: "15:50",
		Status: "late", MissingMinutes: 999,
	})

	// THEN: Missing minutes are re-derived from the times (20 late + 10 early)
	require.Len(t, saved.Shifts, 1)
	assert.Equal(t, 30, saved.Shifts[0].MissingMinutes)
	assert.Equal(t, "emp-1_2024-03-05", saved.ID)
}

func TestSaveAttendance_OverwritesDay(t *testing.T) {
	// GIVEN: A day saved with two shifts
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")
	putDay(t, router, "emp-1", "2024-03-05",
		ShiftDTO{Start: "08:00", End: "12:00", Status: "present"},
		ShiftDTO{Start: "13:00", End: "17:00", Status: "present"},
	)

	// WHEN: Saving the same day with one shift
	putDay(t, router, "emp-1", "2024-03-05", ShiftDTO{Start: "08:00", End: "16:00", Status: "absent"})

	// THEN: Only the new document exists
	rec := doRequest(t, router, http.MethodGet, "/api/employees/emp-1/attendance", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[[]AttendanceDTO](t, rec)
	require.Len(t, days, 1)
	require.Len(t, days[0].Shifts, 1)
	assert.Equal(t, 480, days[0].Shifts[0].MissingMinutes)
}

func TestSaveAttendance_Errors(t *testing.T) {
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")

	rec := doRequest(t, router, http.MethodPut, "/api/employees/emp-1/attendance/2024-03-05",
		SaveAttendanceRequest{Shifts: []ShiftDTO{{Start: "08:00", End: "16:00", Status: "holiday"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "unknown status")

	rec = doRequest(t, router, http.MethodPut, "/api/employees/emp-1/attendance/not-a-date", SaveAttendanceRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "bad date")

	rec = doRequest(t, router, http.MethodPut, "/api/employees/ghost/attendance/2024-03-05", SaveAttendanceRequest{})
	assert.Equal(t, http.StatusNotFound, rec.Code, "unknown employee")

	rec = doRequest(t, router, http.MethodDelete, "/api/employees/emp-1/attendance/2024-03-06", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code, "no such day")
}

func TestListAttendance_FiltersRange(t *testing.T) {
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")
	for _, d := range []string{"2024-03-01", "2024-03-15", "2024-04-01"} {
		putDay(t, router, "emp-1", d, ShiftDTO{Start: "08:00", End: "16:00", Status: "present"})
	}

	rec := doRequest(t, router, http.MethodGet, "/api/employees/emp-1/attendance?from=2024-03-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	days := decode[[]AttendanceDTO](t, rec)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-03-15", days[0].Date)
	assert.Equal(t, "2024-04-01", days[1].Date)

	rec = doRequest(t, router, http.MethodGet, "/api/employees/emp-1/attendance?from=2024-04-01&to=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

func TestAllocations_Validation(t *testing.T) {
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")

	tests := []struct {
		name   string
		req    AllocationRequest
		status int
	}{
		{"unknown unit", AllocationRequest{EmployeeID: "emp-1", TypeID: "annual", Amount: 5, Unit: "hours"}, http.StatusBadRequest},
		{"only start date", AllocationRequest{EmployeeID: "emp-1", TypeID: "annual", Amount: 5, StartDate: "2024-01-01"}, http.StatusBadRequest},
		{"end before start", AllocationRequest{EmployeeID: "emp-1", TypeID: "annual", Amount: 5, StartDate: "2024-12-31", EndDate: "2024-01-01"}, http.StatusBadRequest},
		{"missing type", AllocationRequest{EmployeeID: "emp-1", Amount: 5}, http.StatusBadRequest},
		{"unknown employee", AllocationRequest{EmployeeID: "ghost", TypeID: "annual", Amount: 5}, http.StatusNotFound},
		{"open window", AllocationRequest{EmployeeID: "emp-1", TypeID: "annual", Amount: 5}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/allocations", tt.req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestAllocations_UpdateAndDelete(t *testing.T) {
	// GIVEN: A leave type and an allocation without a type name
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")
	rec := doRequest(t, router, http.MethodPost, "/api/leave-types", CreateLeaveTypeRequest{ID: "annual", Name: "Annual Leave"})
	require.Equal(t, http.StatusCreated, rec.Code)
	seedAllocation(t, router, AllocationRequest{ID: "a1", EmployeeID: "emp-1", TypeID: "annual", Amount: 10, StartDate: "2024-01-01", EndDate: "2024-12-31"})

	// WHEN: Editing the amount without repeating employee_id
	rec = doRequest(t, router, http.MethodPut, "/api/allocations/a1", AllocationRequest{TypeID: "annual", Amount: 12, Unit: "days", StartDate: "2024-01-01", EndDate: "2024-12-31"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[AllocationDTO](t, rec)

	// THEN: Owner is kept and the type name is filled from the catalogue
	assert.Equal(t, "emp-1", updated.EmployeeID)
	assert.Equal(t, "Annual Leave", updated.TypeName)
	assert.Equal(t, 12.0, updated.Amount)

	rec = doRequest(t, router, http.MethodDelete, "/api/allocations/a1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, router, http.MethodPut, "/api/allocations/a1", AllocationRequest{TypeID: "annual"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// CALCULATOR
// =============================================================================

func TestBalances_ReportAndEntryDiverge(t *testing.T) {
	// GIVEN: 2 sick days allocated and 3 full-day sick absences
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")
	seedAllocation(t, router, AllocationRequest{ID: "sick-2024", EmployeeID: "emp-1", TypeID: "sick", Amount: 2, Unit: "days", StartDate: "2024-01-01", EndDate: "2024-12-31"})
	for _, d := range []string{"2024-05-12", "2024-05-13", "2024-05-14"} {
		putDay(t, router, "emp-1", d, ShiftDTO{Start: "09:00", End: "17:00", Status: "leave", LeaveTypeID: "sick"})
	}

	// WHEN: Reading the report view
	rec := doRequest(t, router, http.MethodGet, "/api/employees/emp-1/balances", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[BalanceDTO](t, rec)

	// THEN: Remaining goes negative
	require.Len(t, report.Allocations, 1)
	assert.Equal(t, "report", report.Mode)
	assert.Equal(t, 3.0, report.Allocations[0].Used)
	assert.Equal(t, -1.0, report.Allocations[0].Remaining)
	assert.Len(t, report.Allocations[0].UsageHistory, 3)

	// WHEN: Reading the entry view and the remaining map
	rec = doRequest(t, router, http.MethodGet, "/api/employees/emp-1/balances?mode=entry", nil)
	entry := decode[BalanceDTO](t, rec)
	rec = doRequest(t, router, http.MethodGet, "/api/employees/emp-1/remaining", nil)
	remaining := decode[RemainingDTO](t, rec)

	// THEN: Both clamp at zero
	assert.Equal(t, 0.0, entry.Allocations[0].Remaining)
	assert.Equal(t, map[string]float64{"sick-2024": 0}, remaining.Remaining)
}

func TestBalances_SplitCoverageAcrossUnits(t *testing.T) {
	// GIVEN: Minutes and days allocations, and a 90-minute late arrival split 60/30
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")
	seedAllocation(t, router, AllocationRequest{ID: "perm", EmployeeID: "emp-1", TypeID: "permission", Amount: 240, Unit: "minutes", StartDate: "2024-01-01", EndDate: "2024-12-31"})
	seedAllocation(t, router, AllocationRequest{ID: "annual", EmployeeID: "emp-1", TypeID: "annual", Amount: 21, Unit: "days", StartDate: "2024-01-01", EndDate: "2024-12-31"})
	putDay(t, router, "emp-1", "2024-03-10", ShiftDTO{
		Start: "08:00", End: "16:00", CheckIn: "09:30", Status: "late",
		IsCoveredByLeave: true,
		DelayCoverage: []CoverageDTO{
			{TypeID: "permission", Mins: 60},
			{TypeID: "annual", Mins: 30},
		},
	})

	// WHEN: Reading the remaining map
	rec := doRequest(t, router, http.MethodGet, "/api/employees/emp-1/remaining", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	remaining := decode[RemainingDTO](t, rec)

	// THEN: Each allocation is charged in its own unit (30/480 = 0.0625 days)
	assert.Equal(t, 180.0, remaining.Remaining["perm"])
	assert.Equal(t, 20.9375, remaining.Remaining["annual"])
}

func TestLedger_NewestFirst(t *testing.T) {
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")
	seedAllocation(t, router, AllocationRequest{ID: "annual", EmployeeID: "emp-1", TypeID: "annual", Amount: 21, StartDate: "2024-01-01", EndDate: "2024-12-31"})
	putDay(t, router, "emp-1", "2024-02-01", ShiftDTO{Start: "08:00", End: "16:00", Status: "absent", LeaveTypeID: "annual"})
	putDay(t, router, "emp-1", "2024-02-03",
		ShiftDTO{Start: "08:00", End: "12:00", Status: "absent", LeaveTypeID: "annual"},
		ShiftDTO{Start: "13:00", End: "17:00", Status: "absent", LeaveTypeID: "annual"},
	)

	rec := doRequest(t, router, http.MethodGet, "/api/employees/emp-1/ledger", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ledger := decode[[]UsageEventDTO](t, rec)

	require.Len(t, ledger, 3)
	assert.Equal(t, "2024-02-03", ledger[0].Date)
	assert.Equal(t, 0, ledger[0].ShiftIndex)
	assert.Equal(t, 0.5, ledger[0].Amount)
	assert.Equal(t, 1, ledger[1].ShiftIndex)
	assert.Equal(t, "2024-02-01", ledger[2].Date)
	assert.Equal(t, 1.0, ledger[2].Amount)
}

func TestLeaveBalanceReport_AllEmployees(t *testing.T) {
	_, router := newTestServer(t)
	seedEmployee(t, router, "emp-1")
	seedEmployee(t, router, "emp-2")
	seedAllocation(t, router, AllocationRequest{ID: "a1", EmployeeID: "emp-1", TypeID: "annual", Amount: 21, StartDate: "2024-01-01", EndDate: "2024-12-31"})
	putDay(t, router, "emp-1", "2024-02-01", ShiftDTO{Start: "08:00", End: "16:00", Status: "absent", LeaveTypeID: "annual"})

	rec := doRequest(t, router, http.MethodGet, "/api/reports/leave-balances", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[ReportDTO](t, rec)

	require.Len(t, report.Employees, 2)
	byID := map[string]EmployeeReportDTO{}
	for _, e := range report.Employees {
		byID[e.EmployeeID] = e
	}
	assert.Equal(t, "Test emp-1", byID["emp-1"].EmployeeName)
	require.Len(t, byID["emp-1"].Balances, 1)
	assert.Equal(t, 20.0, byID["emp-1"].Balances[0].Remaining)
	assert.Len(t, byID["emp-1"].Ledger, 1)
	assert.Empty(t, byID["emp-2"].Balances)
}

// =============================================================================
// IMPORT
// =============================================================================

func TestImportDocuments_CoercesLegacyValues(t *testing.T) {
	// GIVEN: Documents with string amounts, a bad amount, a bad date and a dateless day
	h, router := newTestServer(t)
	body := []byte(`{
		"leaveTypes": [{"id": "annual", "name": "Annual"}],
		"allocations": [
			{"id": "a1", "employeeId": "emp-9", "typeId": "annual", "amount": "21", "unit": "Days",
			 "startDate": "2024-01-01T00:00:00Z", "endDate": "2024-12-31"},
			{"id": "a2", "employeeId": "emp-9", "typeId": "sick", "amount": "lots", "unit": "days",
			 "startDate": "2024-01-01", "endDate": "31/12/2024"}
		],
		"attendance": [
			{"employeeId": "emp-9", "date": "2024-03-04",
			 "shifts": [{"start": "08:00", "end": "16:00", "status": "absent", "missingMinutes": "480", "leaveTypeId": "annual"}]},
			{"employeeId": "emp-9", "date": "", "shifts": []}
		]
	}`)
	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	// WHEN: Importing them
	router.ServeHTTP(rec, req)

	// THEN: Values are coerced, the dateless day is skipped, the employee is created
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decode[ImportResultDTO](t, rec)
	assert.Equal(t, 1, result.LeaveTypes)
	assert.Equal(t, 2, result.Allocations)
	assert.Equal(t, 1, result.Attendance)
	assert.Len(t, result.Skipped, 1)

	_, err := h.Store.GetEmployee(req.Context(), "emp-9")
	require.NoError(t, err)

	a2, err := h.Store.GetAllocation(req.Context(), "a2")
	require.NoError(t, err)
	assert.True(t, a2.Amount.IsZero())
	assert.True(t, a2.Window.IsOpen())

	rec = doRequest(t, router, http.MethodGet, "/api/employees/emp-9/remaining", nil)
	remaining := decode[RemainingDTO](t, rec)
	assert.Equal(t, 20.0, remaining.Remaining["a1"])
	assert.Equal(t, 0.0, remaining.Remaining["a2"])
}

func TestHealth(t *testing.T) {
	_, router := newTestServer(t)
	rec := doRequest(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
