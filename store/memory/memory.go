// Package memory provides an in-memory store.Store (for testing/dev).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dawam/leave-engine/attendance"
	"github.com/dawam/leave-engine/generic"
	"github.com/dawam/leave-engine/leave"
	"github.com/dawam/leave-engine/store"
)

var _ store.Store = (*Memory)(nil)

// =============================================================================
// MEMORY STORE
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	employees   map[string]store.Employee
	leaveTypes  map[string]leave.Type
	allocations map[string]leave.Allocation
	allocOrder  []string
	records     map[key]attendance.Record
}

type key struct {
	EmployeeID generic.EmployeeID
	Date       string
}

func NewMemory() *Memory {
	m := &Memory{}
	m.resetLocked()
	return m
}

func (m *Memory) resetLocked() {
	m.employees = make(map[string]store.Employee)
	m.leaveTypes = make(map[string]leave.Type)
	m.allocations = make(map[string]leave.Allocation)
	m.allocOrder = nil
	m.records = make(map[key]attendance.Record)
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
	return nil
}

func (m *Memory) Close() error { return nil }

// =============================================================================
// EMPLOYEES
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, emp store.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.employees[emp.ID]; ok {
		emp.CreatedAt = existing.CreatedAt
	} else if emp.CreatedAt.IsZero() {
		emp.CreatedAt = time.Now().UTC()
	}
	m.employees[emp.ID] = emp
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (store.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emp, ok := m.employees[id]
	if !ok {
		return store.Employee{}, generic.ErrEmployeeNotFound
	}
	return emp, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]store.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]store.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return generic.ErrEmployeeNotFound
	}
	delete(m.employees, id)
	for k := range m.records {
		if k.EmployeeID == generic.EmployeeID(id) {
			delete(m.records, k)
		}
	}
	for allocID, a := range m.allocations {
		if a.EmployeeID == generic.EmployeeID(id) {
			m.deleteAllocationLocked(allocID)
		}
	}
	return nil
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func (m *Memory) SaveLeaveType(_ context.Context, t leave.Type) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaveTypes[t.ID] = t
	return nil
}

func (m *Memory) ListLeaveTypes(_ context.Context) ([]leave.Type, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]leave.Type, 0, len(m.leaveTypes))
	for _, t := range m.leaveTypes {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *Memory) DeleteLeaveType(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leaveTypes[id]; !ok {
		return generic.ErrLeaveTypeNotFound
	}
	delete(m.leaveTypes, id)
	return nil
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

func (m *Memory) SaveAllocation(_ context.Context, a leave.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.allocations[a.ID]; !ok {
		m.allocOrder = append(m.allocOrder, a.ID)
	}
	m.allocations[a.ID] = a
	return nil
}

func (m *Memory) GetAllocation(_ context.Context, id string) (leave.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.allocations[id]
	if !ok {
		return leave.Allocation{}, generic.ErrAllocationNotFound
	}
	return a, nil
}

func (m *Memory) DeleteAllocation(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.allocations[id]; !ok {
		return generic.ErrAllocationNotFound
	}
	m.deleteAllocationLocked(id)
	return nil
}

func (m *Memory) deleteAllocationLocked(id string) {
	delete(m.allocations, id)
	for i, oid := range m.allocOrder {
		if oid == id {
			m.allocOrder = append(m.allocOrder[:i], m.allocOrder[i+1:]...)
			break
		}
	}
}

// Allocations returns the employee's allocations ordered by window start,
// then insertion order.
func (m *Memory) Allocations(_ context.Context, employeeID generic.EmployeeID) ([]leave.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.allocationsLocked(func(a leave.Allocation) bool { return a.EmployeeID == employeeID }), nil
}

func (m *Memory) AllAllocations(_ context.Context) ([]leave.Allocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.allocationsLocked(func(leave.Allocation) bool { return true }), nil
}

func (m *Memory) allocationsLocked(keep func(leave.Allocation) bool) []leave.Allocation {
	var result []leave.Allocation
	for _, id := range m.allocOrder {
		if a := m.allocations[id]; keep(a) {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Window.Start.Before(result[j].Window.Start)
	})
	return result
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// SaveAttendance overwrites the employee-day document.
func (m *Memory) SaveAttendance(_ context.Context, r attendance.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = store.RecordID(r.EmployeeID, r.Date)
	}
	r.Shifts = append([]attendance.Shift(nil), r.Shifts...)
	m.records[key{EmployeeID: r.EmployeeID, Date: r.Date.String()}] = r
	return nil
}

func (m *Memory) GetAttendance(_ context.Context, employeeID generic.EmployeeID, date generic.TimePoint) (attendance.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.records[key{EmployeeID: employeeID, Date: date.String()}]
	if !ok {
		return attendance.Record{}, generic.ErrRecordNotFound
	}
	return r, nil
}

func (m *Memory) DeleteAttendance(_ context.Context, employeeID generic.EmployeeID, date generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key{EmployeeID: employeeID, Date: date.String()}
	if _, ok := m.records[k]; !ok {
		return generic.ErrRecordNotFound
	}
	delete(m.records, k)
	return nil
}

func (m *Memory) AttendanceRecords(_ context.Context, employeeID generic.EmployeeID) ([]attendance.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recordsLocked(func(k key) bool { return k.EmployeeID == employeeID }), nil
}

func (m *Memory) AllAttendanceRecords(_ context.Context) ([]attendance.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.recordsLocked(func(key) bool { return true }), nil
}

func (m *Memory) recordsLocked(keep func(key) bool) []attendance.Record {
	var result []attendance.Record
	for k, r := range m.records {
		if keep(k) {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result
}
