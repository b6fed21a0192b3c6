/*
scenarios_test.go - Tests for demo scenarios

PURPOSE:
	Loads each scenario through the API and checks the balances it is
	meant to demonstrate. These double as end-to-end tests of the
	calculator over the in-memory store.
*/
package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadScenario(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func reportBalances(t *testing.T, router http.Handler, empID string) map[string]AllocationBalanceDTO {
	t.Helper()
	rec := doRequest(t, router, http.MethodGet, "/api/employees/"+empID+"/balances", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	out := map[string]AllocationBalanceDTO{}
	for _, b := range decode[BalanceDTO](t, rec).Allocations {
		out[b.AllocationID] = b
	}
	return out
}

func TestScenarios_ListedAndLoadable(t *testing.T) {
	// GIVEN: The scenario catalogue
	_, router := newTestServer(t)
	rec := doRequest(t, router, http.MethodGet, "/api/scenarios", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode[[]ScenarioDTO](t, rec)
	require.Len(t, listed, len(scenarios))

	// WHEN/THEN: Every listed scenario loads and becomes current
	for _, s := range listed {
		loadScenario(t, router, s.ID)
		rec := doRequest(t, router, http.MethodGet, "/api/scenarios/current", nil)
		assert.Equal(t, s.ID, decode[ScenarioDTO](t, rec).ID)
	}
}

func TestScenario_UnknownRejected(t *testing.T) {
	_, router := newTestServer(t)
	rec := doRequest(t, router, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScenario_AnnualDays(t *testing.T) {
	_, router := newTestServer(t)
	loadScenario(t, router, "annual-days")

	b := reportBalances(t, router, "emp-001")["alloc-001"]

	// One full day plus 20/480 of a day.
	assert.Equal(t, 1.0417, b.Used)
	assert.Equal(t, 19.9583, b.Remaining)
	assert.Len(t, b.UsageHistory, 2)
}

func TestScenario_SplitCoverage(t *testing.T) {
	_, router := newTestServer(t)
	loadScenario(t, router, "split-coverage")

	balances := reportBalances(t, router, "emp-002")
	assert.Equal(t, 180.0, balances["alloc-002b"].Remaining)
	assert.Equal(t, "minutes", balances["alloc-002b"].Unit)
	assert.Equal(t, 20.9375, balances["alloc-002a"].Remaining)
}

func TestScenario_MultiShift(t *testing.T) {
	_, router := newTestServer(t)
	loadScenario(t, router, "multi-shift")

	b := reportBalances(t, router, "emp-003")["alloc-003"]
	assert.Equal(t, 0.5, b.Used)
	assert.Equal(t, 13.5, b.Remaining)
}

func TestScenario_OverConsumption(t *testing.T) {
	_, router := newTestServer(t)
	loadScenario(t, router, "over-consumption")

	b := reportBalances(t, router, "emp-004")["alloc-004"]
	assert.Equal(t, 3.0, b.Used)
	assert.Equal(t, -1.0, b.Remaining)

	rec := doRequest(t, router, http.MethodGet, "/api/employees/emp-004/remaining", nil)
	assert.Equal(t, 0.0, decode[RemainingDTO](t, rec).Remaining["alloc-004"])
}

func TestScenario_LegacyDocuments(t *testing.T) {
	_, router := newTestServer(t)
	loadScenario(t, router, "legacy-documents")

	balances := reportBalances(t, router, "emp-005")

	// 60 minutes early departure covered by annual leave: 0.125 days.
	assert.Equal(t, 18.375, balances["alloc-005a"].Remaining)

	// No end date: nothing is ever consumed against it.
	assert.Equal(t, 0.0, balances["alloc-005b"].Used)
	assert.Equal(t, 10.0, balances["alloc-005b"].Remaining)

	// "n/a" amount coerced to zero, unit abbreviation understood.
	assert.Equal(t, 0.0, balances["alloc-005c"].Remaining)
	assert.Equal(t, "minutes", balances["alloc-005c"].Unit)
}

func TestResetDatabase_ClearsScenario(t *testing.T) {
	_, router := newTestServer(t)
	loadScenario(t, router, "annual-days")

	rec := doRequest(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/employees", nil)
	assert.Empty(t, decode[[]EmployeeDTO](t, rec))

	rec = doRequest(t, router, http.MethodGet, "/api/scenarios/current", nil)
	assert.Equal(t, "null\n", rec.Body.String())
}
