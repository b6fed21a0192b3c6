/*
handlers.go - HTTP API handlers for the leave-balance calculator

PURPOSE:
  Exposes attendance entry, allocation management and the consumption
  calculator via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to the leave package.

ENDPOINTS:
  Employees:
    GET    /api/employees                          List all employees
    POST   /api/employees                          Create employee
    GET    /api/employees/{id}                     Get employee details
    DELETE /api/employees/{id}                     Delete employee and their data

  Attendance:
    GET    /api/employees/{id}/attendance          List employee-days (?from=&to=)
    PUT    /api/employees/{id}/attendance/{date}   Overwrite one employee-day
    DELETE /api/employees/{id}/attendance/{date}   Remove one employee-day

  Allocations:
    GET    /api/employees/{id}/allocations         List employee allocations
    POST   /api/allocations                        Create allocation
    PUT    /api/allocations/{id}                   Edit allocation
    DELETE /api/allocations/{id}                   Delete allocation

  Leave types:
    GET    /api/leave-types                        List leave types
    POST   /api/leave-types                        Create leave type
    DELETE /api/leave-types/{id}                   Delete leave type

  Calculator:
    GET    /api/employees/{id}/balances            Per-allocation balances (?mode=entry clamps)
    GET    /api/employees/{id}/remaining           Clamped remaining per allocation id
    GET    /api/employees/{id}/ledger              Matched usage, newest first
    GET    /api/reports/leave-balances             Organisation-wide report

  Import:
    POST   /api/import                             Load exported documents

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access
  - Leave: Calculator service reading from the same store
  - Docs: Lenient document conversion for imports

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Write to the store, or run the calculator over a fresh snapshot
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/factory"
	"github.com/dawam/leave-engine/generic"
	"github.com/dawam/leave-engine/leave"
	"github.com/dawam/leave-engine/store"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  store.Store
	Leave  *leave.Service
	Docs   *factory.DocumentFactory
	Logger *slog.Logger

	// Track currently loaded scenario
	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(st store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:  st,
		Leave:  leave.NewService(st),
		Docs:   factory.NewDocumentFactory(),
		Logger: logger,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.fail(w, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee creates a new employee. A missing id is generated.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}

	emp := store.Employee{
		ID:    req.ID,
		Name:  req.Name,
		Email: req.Email,
	}
	if emp.ID == "" {
		emp.ID = uuid.NewString()
	}
	if req.HireDate != "" {
		hireDate, err := generic.ParseDate(req.HireDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
			return
		}
		emp.HireDate = hireDate.Time
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		h.fail(w, "Failed to create employee", err)
		return
	}

	saved, err := h.Store.GetEmployee(r.Context(), emp.ID)
	if err != nil {
		h.fail(w, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(saved))
}

// DeleteEmployee removes the employee with their allocations and attendance.
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEmployee(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// ListAttendance returns the employee's days by date ascending.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	empID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	window, err := parseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	records, err := h.Store.AttendanceRecords(ctx, empID)
	if err != nil {
		h.fail(w, "Failed to list attendance", err)
		return
	}

	dtos := make([]AttendanceDTO, 0, len(records))
	for _, rec := range records {
		if !window.Start.IsZero() && rec.Date.Before(window.Start) {
			continue
		}
		if !window.End.IsZero() && rec.Date.After(window.End) {
			continue
		}
		dtos = append(dtos, toAttendanceDTO(rec))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveAttendance overwrites one employee-day. Missing minutes are always
// re-derived so an edited check-in never leaves a stale value behind.
func (h *Handler) SaveAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	empID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	var req SaveAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	shifts, err := shiftsFromDTO(req.Shifts)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid shift", err)
		return
	}

	rec := attendance.Record{
		ID:         store.RecordID(empID, date),
		EmployeeID: empID,
		Date:       date,
		Shifts:     shifts,
	}
	rec.Recompute()

	if err := h.Store.SaveAttendance(ctx, rec); err != nil {
		h.fail(w, "Failed to save attendance", err)
		return
	}
	writeJSON(w, http.StatusOK, toAttendanceDTO(rec))
}

// DeleteAttendance removes one employee-day.
func (h *Handler) DeleteAttendance(w http.ResponseWriter, r *http.Request) {
	date, err := generic.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	empID := generic.EmployeeID(chi.URLParam(r, "id"))
	if err := h.Store.DeleteAttendance(r.Context(), empID, date); err != nil {
		h.fail(w, "Failed to delete attendance", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ALLOCATION HANDLERS
// =============================================================================

// ListAllocations returns the employee's allocations in matching order.
func (h *Handler) ListAllocations(w http.ResponseWriter, r *http.Request) {
	empID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}
	allocs, err := h.Store.Allocations(r.Context(), empID)
	if err != nil {
		h.fail(w, "Failed to list allocations", err)
		return
	}

	dtos := make([]AllocationDTO, len(allocs))
	for i, a := range allocs {
		dtos[i] = toAllocationDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAllocation grants an allocation to an employee.
func (h *Handler) CreateAllocation(w http.ResponseWriter, r *http.Request) {
	var req AllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	h.saveAllocation(w, r, req, http.StatusCreated)
}

// UpdateAllocation edits an existing allocation. Omitted employee_id keeps
// the current owner.
func (h *Handler) UpdateAllocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetAllocation(r.Context(), id)
	if err != nil {
		h.fail(w, "Failed to get allocation", err)
		return
	}

	var req AllocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = id
	if req.EmployeeID == "" {
		req.EmployeeID = string(existing.EmployeeID)
	}
	h.saveAllocation(w, r, req, http.StatusOK)
}

func (h *Handler) saveAllocation(w http.ResponseWriter, r *http.Request, req AllocationRequest, status int) {
	ctx := r.Context()

	if req.EmployeeID == "" || req.TypeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id and type_id are required", nil)
		return
	}
	if _, err := h.Store.GetEmployee(ctx, req.EmployeeID); err != nil {
		h.fail(w, "Failed to get employee", err)
		return
	}

	alloc, err := allocationFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid allocation", err)
		return
	}
	if alloc.TypeName == "" {
		alloc.TypeName = h.leaveTypeName(ctx, alloc.TypeID)
	}

	if err := h.Store.SaveAllocation(ctx, alloc); err != nil {
		h.fail(w, "Failed to save allocation", err)
		return
	}
	writeJSON(w, status, toAllocationDTO(alloc))
}

// DeleteAllocation removes an allocation. Usage recorded against its type
// stays in attendance and is no longer counted anywhere.
func (h *Handler) DeleteAllocation(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteAllocation(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "Failed to delete allocation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEAVE TYPE HANDLERS
// =============================================================================

func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Store.ListLeaveTypes(r.Context())
	if err != nil {
		h.fail(w, "Failed to list leave types", err)
		return
	}

	dtos := make([]LeaveTypeDTO, len(types))
	for i, t := range types {
		dtos[i] = LeaveTypeDTO{ID: t.ID, Name: t.Name, Description: t.Description}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	t := leave.Type{ID: req.ID, Name: req.Name, Description: req.Description}
	if err := h.Store.SaveLeaveType(r.Context(), t); err != nil {
		h.fail(w, "Failed to create leave type", err)
		return
	}
	writeJSON(w, http.StatusCreated, LeaveTypeDTO{ID: t.ID, Name: t.Name, Description: t.Description})
}

func (h *Handler) DeleteLeaveType(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteLeaveType(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "Failed to delete leave type", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// GetBalances returns per-allocation used/remaining with usage history.
// The default is the report view, where remaining may go negative;
// ?mode=entry clamps at zero like the entry screen.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	empID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	mode, modeName := leave.Unclamped, "report"
	if r.URL.Query().Get("mode") == "entry" {
		mode, modeName = leave.ClampAtZero, "entry"
	}

	summaries, err := h.Leave.Balances(r.Context(), empID, mode)
	if err != nil {
		h.fail(w, "Failed to compute balances", err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{
		EmployeeID:  string(empID),
		Mode:        modeName,
		Allocations: toAllocationBalanceDTOs(summaries),
	})
}

// GetRemaining returns the clamped remaining amount per allocation id.
func (h *Handler) GetRemaining(w http.ResponseWriter, r *http.Request) {
	empID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	remaining, err := h.Leave.Remaining(r.Context(), empID)
	if err != nil {
		h.fail(w, "Failed to compute remaining balances", err)
		return
	}

	out := make(map[string]float64, len(remaining))
	for id, v := range remaining {
		out[id] = roundFloat(v)
	}
	writeJSON(w, http.StatusOK, RemainingDTO{EmployeeID: string(empID), Remaining: out})
}

// GetLedger returns the matched usage events, newest first.
func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	empID, ok := h.requireEmployee(w, r)
	if !ok {
		return
	}

	events, err := h.Leave.Ledger(r.Context(), empID)
	if err != nil {
		h.fail(w, "Failed to compute ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, toUsageEventDTOs(events))
}

// GetLeaveBalanceReport runs the calculator for every employee.
func (h *Handler) GetLeaveBalanceReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employees, err := h.Store.ListEmployees(ctx)
	if err != nil {
		h.fail(w, "Failed to list employees", err)
		return
	}

	ids := make([]generic.EmployeeID, len(employees))
	names := make(map[generic.EmployeeID]string, len(employees))
	for i, e := range employees {
		ids[i] = generic.EmployeeID(e.ID)
		names[ids[i]] = e.Name
	}

	reports, err := h.Leave.Report(ctx, ids)
	if err != nil {
		h.fail(w, "Failed to build report", err)
		return
	}

	dto := ReportDTO{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Employees:   make([]EmployeeReportDTO, len(reports)),
	}
	for i, rep := range reports {
		dto.Employees[i] = EmployeeReportDTO{
			EmployeeID:   string(rep.EmployeeID),
			EmployeeName: names[rep.EmployeeID],
			Balances:     toAllocationBalanceDTOs(rep.Summaries),
			Ledger:       toUsageEventDTOs(rep.Ledger),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportDocuments loads leave types, allocations and attendance exported
// from the document database. Values are coerced the way the factory does;
// only attendance without a usable date is skipped. Employees referenced by
// the documents are created when missing.
func (h *Handler) ImportDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var result ImportResultDTO

	for _, tj := range req.LeaveTypes {
		if tj.ID == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("leave type %q: missing id", tj.Name))
			continue
		}
		if err := h.Store.SaveLeaveType(ctx, h.Docs.FromLeaveTypeJSON(tj)); err != nil {
			h.fail(w, "Failed to import leave type", err)
			return
		}
		result.LeaveTypes++
	}

	for _, aj := range req.Allocations {
		alloc := h.Docs.FromAllocationJSON(aj)
		if alloc.EmployeeID == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("allocation %q: missing employeeId", aj.ID))
			continue
		}
		if alloc.ID == "" {
			alloc.ID = uuid.NewString()
		}
		if err := h.ensureEmployee(ctx, alloc.EmployeeID); err != nil {
			h.fail(w, "Failed to import allocation", err)
			return
		}
		if err := h.Store.SaveAllocation(ctx, alloc); err != nil {
			h.fail(w, "Failed to import allocation", err)
			return
		}
		result.Allocations++
	}

	for _, rj := range req.Attendance {
		rec, err := h.Docs.FromAttendanceJSON(rj)
		if err != nil || rec.EmployeeID == "" {
			result.Skipped = append(result.Skipped, fmt.Sprintf("attendance %q: missing employeeId or date", rj.ID))
			continue
		}
		if err := h.ensureEmployee(ctx, rec.EmployeeID); err != nil {
			h.fail(w, "Failed to import attendance", err)
			return
		}
		if err := h.Store.SaveAttendance(ctx, rec); err != nil {
			h.fail(w, "Failed to import attendance", err)
			return
		}
		result.Attendance++
	}

	h.Logger.Info("documents imported",
		slog.Int("leave_types", result.LeaveTypes),
		slog.Int("allocations", result.Allocations),
		slog.Int("attendance", result.Attendance),
		slog.Int("skipped", len(result.Skipped)),
	)
	writeJSON(w, http.StatusOK, result)
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		h.fail(w, "Failed to reset database", err)
		return
	}
	h.setCurrentScenario("")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps an error to its HTTP status and logs server-side failures.
func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// requireEmployee resolves {id} and writes a 404 when it does not exist.
func (h *Handler) requireEmployee(w http.ResponseWriter, r *http.Request) (generic.EmployeeID, bool) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.GetEmployee(r.Context(), id); err != nil {
		h.fail(w, "Failed to get employee", err)
		return "", false
	}
	return generic.EmployeeID(id), true
}

func (h *Handler) ensureEmployee(ctx context.Context, id generic.EmployeeID) error {
	_, err := h.Store.GetEmployee(ctx, string(id))
	if generic.IsNotFound(err) {
		return h.Store.SaveEmployee(ctx, store.Employee{ID: string(id), Name: string(id)})
	}
	return err
}

func (h *Handler) leaveTypeName(ctx context.Context, typeID string) string {
	types, err := h.Store.ListLeaveTypes(ctx)
	if err != nil {
		return ""
	}
	for _, t := range types {
		if t.ID == typeID {
			return t.Name
		}
	}
	return ""
}

func (h *Handler) setCurrentScenario(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentScenario = id
}

func (h *Handler) scenario() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentScenario
}

func parseRange(from, to string) (generic.Period, error) {
	var p generic.Period
	var err error
	if from != "" {
		if p.Start, err = generic.ParseDate(from); err != nil {
			return p, err
		}
	}
	if to != "" {
		if p.End, err = generic.ParseDate(to); err != nil {
			return p, err
		}
	}
	if !p.IsOpen() && !p.Valid() {
		return p, generic.ErrInvalidPeriod
	}
	return p, nil
}

// allocationFromRequest validates unit and window. Both dates empty is an
// open window; one date without the other is rejected.
func allocationFromRequest(req AllocationRequest) (leave.Allocation, error) {
	unit := generic.Unit(req.Unit)
	if req.Unit == "" {
		unit = generic.UnitDays
	}
	if !unit.Valid() {
		return leave.Allocation{}, fmt.Errorf("%w: %q", generic.ErrInvalidUnit, req.Unit)
	}

	var window generic.Period
	if req.StartDate != "" || req.EndDate != "" {
		var err error
		if window.Start, err = generic.ParseDate(req.StartDate); err != nil {
			return leave.Allocation{}, err
		}
		if window.End, err = generic.ParseDate(req.EndDate); err != nil {
			return leave.Allocation{}, err
		}
		if !window.Valid() {
			return leave.Allocation{}, generic.ErrInvalidPeriod
		}
	}

	return leave.Allocation{
		ID:         req.ID,
		EmployeeID: generic.EmployeeID(req.EmployeeID),
		TypeID:     req.TypeID,
		TypeName:   req.TypeName,
		Amount:     generic.Amount{Value: decimal.NewFromFloat(req.Amount), Unit: unit},
		Window:     window,
	}, nil
}

func shiftsFromDTO(in []ShiftDTO) ([]attendance.Shift, error) {
	shifts := make([]attendance.Shift, len(in))
	for i, s := range in {
		status := attendance.Status(s.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("shift %d: %w: %q", i, generic.ErrInvalidStatus, s.Status)
		}
		var coverage []attendance.Coverage
		for _, c := range s.DelayCoverage {
			coverage = append(coverage, attendance.Coverage{TypeID: c.TypeID, TypeName: c.TypeName, Mins: c.Mins})
		}
		shifts[i] = attendance.Shift{
			Start:            s.Start,
			End:              s.End,
			CheckIn:          s.CheckIn,
			CheckOut:         s.CheckOut,
			Status:           status,
			IsCoveredByLeave: s.IsCoveredByLeave,
			LeaveTypeID:      s.LeaveTypeID,
			LeaveTypeName:    s.LeaveTypeName,
			DelayCoverage:    coverage,
		}
	}
	return shifts, nil
}

// =============================================================================
// DTO CONVERSION
// =============================================================================

func toEmployeeDTO(e store.Employee) EmployeeDTO {
	dto := EmployeeDTO{ID: e.ID, Name: e.Name, Email: e.Email}
	if !e.HireDate.IsZero() {
		dto.HireDate = e.HireDate.Format(generic.DateLayout)
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toAllocationDTO(a leave.Allocation) AllocationDTO {
	return AllocationDTO{
		ID:         a.ID,
		EmployeeID: string(a.EmployeeID),
		TypeID:     a.TypeID,
		TypeName:   a.TypeName,
		Amount:     roundFloat(a.Amount.Value),
		Unit:       string(a.Unit()),
		StartDate:  a.Window.Start.String(),
		EndDate:    a.Window.End.String(),
	}
}

func toAttendanceDTO(r attendance.Record) AttendanceDTO {
	shifts := make([]ShiftDTO, len(r.Shifts))
	for i, s := range r.Shifts {
		var coverage []CoverageDTO
		for _, c := range s.DelayCoverage {
			coverage = append(coverage, CoverageDTO{TypeID: c.TypeID, TypeName: c.TypeName, Mins: c.Mins})
		}
		shifts[i] = ShiftDTO{
			Start:            s.Start,
			End:              s.End,
			CheckIn:          s.CheckIn,
			CheckOut:         s.CheckOut,
			Status:           string(s.Status),
			MissingMinutes:   s.MissingMinutes,
			IsCoveredByLeave: s.IsCoveredByLeave,
			LeaveTypeID:      s.LeaveTypeID,
			LeaveTypeName:    s.LeaveTypeName,
			DelayCoverage:    coverage,
		}
	}
	return AttendanceDTO{
		ID:         r.ID,
		EmployeeID: string(r.EmployeeID),
		Date:       r.Date.String(),
		Shifts:     shifts,
	}
}

func toAllocationBalanceDTOs(summaries []leave.Summary) []AllocationBalanceDTO {
	dtos := make([]AllocationBalanceDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = AllocationBalanceDTO{
			AllocationID: s.Allocation.ID,
			TypeID:       s.Allocation.TypeID,
			TypeName:     s.Allocation.TypeName,
			Unit:         string(s.Allocation.Unit()),
			Allocated:    roundFloat(s.Allocation.Amount.Value),
			Used:         roundFloat(s.Used.Value),
			Remaining:    roundFloat(s.Remaining.Value),
			StartDate:    s.Allocation.Window.Start.String(),
			EndDate:      s.Allocation.Window.End.String(),
			UsageHistory: toUsageEventDTOs(s.UsageHistory),
		}
	}
	return dtos
}

func toUsageEventDTOs(events []leave.UsageEvent) []UsageEventDTO {
	dtos := make([]UsageEventDTO, len(events))
	for i, e := range events {
		dtos[i] = UsageEventDTO{
			EmployeeID:    string(e.EmployeeID),
			Date:          e.Date.String(),
			ShiftIndex:    e.ShiftIndex,
			LeaveTypeID:   e.LeaveTypeID,
			LeaveTypeName: e.LeaveTypeName,
			Amount:        roundFloat(e.Amount.Value),
			Unit:          string(e.Amount.Unit),
		}
	}
	return dtos
}

// roundFloat rounds to 4 places for display; fractions of a day from
// minute-level usage are otherwise repeating decimals.
func roundFloat(d decimal.Decimal) float64 {
	return d.Round(4).InexactFloat64()
}
