package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dawam/leave-engine/generic"
	"github.com/dawam/leave-engine/leave"
	"github.com/dawam/leave-engine/store"
	"github.com/dawam/leave-engine/store/sqlite"
	"github.com/dawam/leave-engine/store/storetest"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newStore(t)
	})
}

func TestSQLite_SaveEmployeeKeepsCreatedAt(t *testing.T) {
	// GIVEN: An employee row
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveEmployee(ctx, store.Employee{ID: "emp-1", Name: "Layla"}))
	before, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)

	// WHEN: Upserting a renamed copy
	require.NoError(t, s.SaveEmployee(ctx, store.Employee{ID: "emp-1", Name: "Layla H.", Email: "l@example.com"}))

	// THEN: created_at is untouched
	after, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Layla H.", after.Name)
	assert.Equal(t, "l@example.com", after.Email)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))
	assert.True(t, after.HireDate.IsZero())
}

func TestSQLite_OpenWindowSurvivesRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveAllocation(ctx, leave.Allocation{
		ID:         "open",
		EmployeeID: "emp-1",
		TypeID:     "annual",
		Amount:     generic.NewAmountFromInt(10, generic.UnitDays),
		Window:     generic.Period{Start: generic.NewTimePoint(2024, time.January, 1)},
	}))

	a, err := s.GetAllocation(ctx, "open")
	require.NoError(t, err)
	assert.True(t, a.Window.IsOpen())
	assert.Equal(t, "10", a.Amount.Value.String())
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	// GIVEN: A file-backed store with one allocation
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dawam.db")
	s, err := sqlite.New(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveAllocation(ctx, leave.Allocation{
		ID: "a1", EmployeeID: "emp-1", TypeID: "perm",
		Amount: generic.NewAmountFromInt(240, generic.UnitMinutes),
		Window: generic.Period{
			Start: generic.NewTimePoint(2024, time.January, 1),
			End:   generic.NewTimePoint(2024, time.December, 31),
		},
	}))
	require.NoError(t, s.Close())

	// WHEN: Opening it again
	s, err = sqlite.New(path)
	require.NoError(t, err)
	defer s.Close()

	// THEN: The migration is idempotent and the row is intact
	allocs, err := s.Allocations(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, allocs, 1)
	assert.Equal(t, generic.UnitMinutes, allocs[0].Unit())
	assert.Equal(t, "2024-12-31", allocs[0].Window.End.String())
}
