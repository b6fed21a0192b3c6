/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates employees, leave types,
	allocations and attendance that demonstrate one calculator behaviour.

AVAILABLE SCENARIOS:

	annual-days:       Full-day absence and a covered late arrival, days unit
	split-coverage:    One late arrival charged to two leave types
	multi-shift:       Two shifts a day, half-day proration
	over-consumption:  More absences than allocated; report vs entry view
	legacy-documents:  String amounts and odd dates from the old document store

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create leave types and employee
 3. Create allocations from document JSON via the factory
 4. Save attendance days with missing minutes derived

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "split-coverage"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: ResetDatabase
  - factory/documents.go: Document JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/generic"
	"github.com/dawam/leave-engine/leave"
	"github.com/dawam/leave-engine/store"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "annual-days",
		Name:        "Annual Days",
		Description: "21 annual days; one full-day absence and a 20-minute late arrival covered by annual leave",
	},
	{
		ID:          "split-coverage",
		Name:        "Split Coverage",
		Description: "A 90-minute late arrival split between permission minutes and annual days",
	},
	{
		ID:          "multi-shift",
		Name:        "Multi-Shift Day",
		Description: "Two shifts a day; missing one shift on leave costs half a day",
	},
	{
		ID:          "over-consumption",
		Name:        "Over-Consumption",
		Description: "Three absence days against a 2-day allocation; report shows -1, entry shows 0",
	},
	{
		ID:          "legacy-documents",
		Name:        "Legacy Documents",
		Description: "Allocations with string amounts, timestamp dates and a missing end date",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.scenario()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var load func(context.Context) error
	switch req.ScenarioID {
	case "annual-days":
		load = h.loadAnnualDaysScenario
	case "split-coverage":
		load = h.loadSplitCoverageScenario
	case "multi-shift":
		load = h.loadMultiShiftScenario
	case "over-consumption":
		load = h.loadOverConsumptionScenario
	case "legacy-documents":
		load = h.loadLegacyDocumentsScenario
	default:
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	ctx := r.Context()

	// Reset first
	if err := h.Store.Reset(ctx); err != nil {
		h.fail(w, "Failed to reset database", err)
		return
	}
	h.setCurrentScenario("")

	if err := h.seedLeaveTypes(ctx); err != nil {
		h.fail(w, "Failed to load scenario", err)
		return
	}
	if err := load(ctx); err != nil {
		h.fail(w, fmt.Sprintf("Failed to load scenario %s", req.ScenarioID), err)
		return
	}

	h.setCurrentScenario(req.ScenarioID)
	h.Logger.Info("scenario loaded", "scenario", req.ScenarioID)

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

var demoLeaveTypes = []leave.Type{
	{ID: "annual", Name: "Annual Leave", Description: "Paid annual leave"},
	{ID: "sick", Name: "Sick Leave", Description: "Certified sick leave"},
	{ID: "permission", Name: "Permission", Description: "Short permissions in minutes"},
}

func (h *Handler) seedLeaveTypes(ctx context.Context) error {
	for _, t := range demoLeaveTypes {
		if err := h.Store.SaveLeaveType(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadAnnualDaysScenario(ctx context.Context) error {
	y := time.Now().Year()
	if err := h.createEmployee(ctx, "emp-001", "Layla Haddad"); err != nil {
		return err
	}
	if err := h.createAllocationFromJSON(ctx, allocationDoc("alloc-001", "emp-001", "annual", "Annual Leave", "21", "days", y)); err != nil {
		return err
	}

	late := shift("08:00", "16:00", "08:20", "16:00", attendance.StatusLate)
	late.IsCoveredByLeave = true
	late.LeaveTypeID, late.LeaveTypeName = "annual", "Annual Leave"

	absent := shift("08:00", "16:00", "", "", attendance.StatusLeave)
	absent.LeaveTypeID, absent.LeaveTypeName = "annual", "Annual Leave"

	return h.saveDays(ctx, "emp-001",
		day(y, time.March, 4, absent),
		day(y, time.March, 5, late),
		day(y, time.March, 6, shift("08:00", "16:00", "08:00", "16:00", attendance.StatusPresent)),
	)
}

func (h *Handler) loadSplitCoverageScenario(ctx context.Context) error {
	y := time.Now().Year()
	if err := h.createEmployee(ctx, "emp-002", "Omar Khalil"); err != nil {
		return err
	}
	if err := h.createAllocationFromJSON(ctx, allocationDoc("alloc-002a", "emp-002", "annual", "Annual Leave", "21", "days", y)); err != nil {
		return err
	}
	if err := h.createAllocationFromJSON(ctx, allocationDoc("alloc-002b", "emp-002", "permission", "Permission", "240", "minutes", y)); err != nil {
		return err
	}

	// 90 minutes late: 60 from permission minutes, 30 from annual days.
	late := shift("08:00", "16:00", generic.FormatClock(8*60+90), "16:00", attendance.StatusLate)
	late.IsCoveredByLeave = true
	late.DelayCoverage = []attendance.Coverage{
		{TypeID: "permission", TypeName: "Permission", Mins: 60},
		{TypeID: "annual", TypeName: "Annual Leave", Mins: 30},
	}

	return h.saveDays(ctx, "emp-002", day(y, time.March, 10, late))
}

func (h *Handler) loadMultiShiftScenario(ctx context.Context) error {
	y := time.Now().Year()
	if err := h.createEmployee(ctx, "emp-003", "Sara Nasser"); err != nil {
		return err
	}
	if err := h.createAllocationFromJSON(ctx, allocationDoc("alloc-003", "emp-003", "annual", "Annual Leave", "14", "days", y)); err != nil {
		return err
	}

	morning := shift("08:00", "12:00", "08:00", "12:00", attendance.StatusPresent)
	afternoon := shift("13:00", "17:00", "", "", attendance.StatusAbsent)
	afternoon.LeaveTypeID, afternoon.LeaveTypeName = "annual", "Annual Leave"

	return h.saveDays(ctx, "emp-003", day(y, time.April, 2, morning, afternoon))
}

func (h *Handler) loadOverConsumptionScenario(ctx context.Context) error {
	y := time.Now().Year()
	if err := h.createEmployee(ctx, "emp-004", "Yousef Amin"); err != nil {
		return err
	}
	if err := h.createAllocationFromJSON(ctx, allocationDoc("alloc-004", "emp-004", "sick", "Sick Leave", "2", "days", y)); err != nil {
		return err
	}

	sick := shift("09:00", "17:00", "", "", attendance.StatusLeave)
	sick.LeaveTypeID, sick.LeaveTypeName = "sick", "Sick Leave"

	return h.saveDays(ctx, "emp-004",
		day(y, time.May, 12, sick),
		day(y, time.May, 13, sick),
		day(y, time.May, 14, sick),
	)
}

func (h *Handler) loadLegacyDocumentsScenario(ctx context.Context) error {
	y := time.Now().Year()
	if err := h.createEmployee(ctx, "emp-005", "Huda Saleh"); err != nil {
		return err
	}

	docs := []string{
		// Amount stored as a string, dates as timestamps.
		fmt.Sprintf(`{"id":"alloc-005a","employeeId":"emp-005","typeId":"annual","typeName":"Annual Leave",
			"amount":"18.5","unit":"Days","startDate":"%d-01-01T00:00:00Z","endDate":"%d-12-31T00:00:00Z"}`, y, y),
		// No end date: never consumed against.
		fmt.Sprintf(`{"id":"alloc-005b","employeeId":"emp-005","typeId":"sick","typeName":"Sick Leave",
			"amount":10,"unit":"days","startDate":"%d-01-01"}`, y),
		// Unparseable amount coerces to zero.
		fmt.Sprintf(`{"id":"alloc-005c","employeeId":"emp-005","typeId":"permission","typeName":"Permission",
			"amount":"n/a","unit":"mins","startDate":"%d-01-01","endDate":"%d-12-31"}`, y, y),
	}
	for _, doc := range docs {
		if err := h.createAllocationFromJSON(ctx, doc); err != nil {
			return err
		}
	}

	sick := shift("08:00", "16:00", "", "", attendance.StatusLeave)
	sick.LeaveTypeID, sick.LeaveTypeName = "sick", "Sick Leave"
	early := shift("08:00", "16:00", "08:00", "15:00", attendance.StatusPresent)
	early.IsCoveredByLeave = true
	early.LeaveTypeID, early.LeaveTypeName = "annual", "Annual Leave"

	return h.saveDays(ctx, "emp-005",
		day(y, time.June, 1, sick),
		day(y, time.June, 2, early),
	)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) createEmployee(ctx context.Context, id, name string) error {
	return h.Store.SaveEmployee(ctx, store.Employee{
		ID:       id,
		Name:     name,
		Email:    id + "@example.com",
		HireDate: time.Date(time.Now().Year()-2, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
}

func (h *Handler) createAllocationFromJSON(ctx context.Context, jsonStr string) error {
	alloc, err := h.Docs.ParseAllocation(jsonStr)
	if err != nil {
		return err
	}
	return h.Store.SaveAllocation(ctx, alloc)
}

func (h *Handler) saveDays(ctx context.Context, employeeID string, days ...attendance.Record) error {
	for _, rec := range days {
		rec.EmployeeID = generic.EmployeeID(employeeID)
		rec.ID = store.RecordID(rec.EmployeeID, rec.Date)
		rec.Recompute()
		if err := h.Store.SaveAttendance(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func allocationDoc(id, employeeID, typeID, typeName, amount, unit string, year int) string {
	return fmt.Sprintf(`{"id":%q,"employeeId":%q,"typeId":%q,"typeName":%q,"amount":%q,"unit":%q,"startDate":"%d-01-01","endDate":"%d-12-31"}`,
		id, employeeID, typeID, typeName, amount, unit, year, year)
}

func shift(start, end, checkIn, checkOut string, status attendance.Status) attendance.Shift {
	return attendance.Shift{Start: start, End: end, CheckIn: checkIn, CheckOut: checkOut, Status: status}
}

func day(year int, month time.Month, d int, shifts ...attendance.Shift) attendance.Record {
	return attendance.Record{Date: generic.NewTimePoint(year, month, d), Shifts: shifts}
}
