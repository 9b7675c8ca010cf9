package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
	"github.com/warp/payroll-engine/timeclock"
)

var monday = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newEmployee(name string) sqlite.EmployeeRecord {
	return sqlite.EmployeeRecord{
		ID:               uuid.NewString(),
		Name:             name,
		Position:         "Server",
		Email:            "staff@example.com",
		CompensationJSON: `{"compensation_type": "hourly", "hourly_rate_cents": 1500}`,
		HireDate:         monday.AddDate(0, 0, -30),
		CreatedAt:        monday,
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestStore_EmployeeLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := newEmployee("Dana Reyes")
	require.NoError(t, store.CreateEmployee(ctx, e))

	got, err := store.GetEmployee(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.Name, got.Name)
	assert.Equal(t, e.CompensationJSON, got.CompensationJSON)
	assert.True(t, got.HireDate.Equal(e.HireDate))
	assert.Nil(t, got.DeactivatedAt)

	// Update compensation.
	newComp := `{"compensation_type": "hourly", "hourly_rate_cents": 1700}`
	require.NoError(t, store.UpdateCompensation(ctx, e.ID, newComp))
	got, err = store.GetEmployee(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, newComp, got.CompensationJSON)

	// Deactivate.
	deactivatedAt := monday.AddDate(0, 0, 2)
	require.NoError(t, store.DeactivateEmployee(ctx, e.ID, deactivatedAt))
	got, err = store.GetEmployee(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeactivatedAt)
	assert.True(t, got.DeactivatedAt.Equal(deactivatedAt))
}

func TestStore_GetEmployeeAbsent(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetEmployee(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ListEmployeesOrderedByName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Priya Natarajan", "Dana Reyes", "Marcus Webb"} {
		require.NoError(t, store.CreateEmployee(ctx, newEmployee(name)))
	}

	list, err := store.ListEmployees(ctx)

	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Dana Reyes", list[0].Name)
	assert.Equal(t, "Marcus Webb", list[1].Name)
	assert.Equal(t, "Priya Natarajan", list[2].Name)
}

func TestStore_DeactivateIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := newEmployee("Dana Reyes")
	require.NoError(t, store.CreateEmployee(ctx, e))

	first := monday.AddDate(0, 0, 2)
	require.NoError(t, store.DeactivateEmployee(ctx, e.ID, first))
	// A second call must not move the original deactivation date.
	require.NoError(t, store.DeactivateEmployee(ctx, e.ID, monday.AddDate(0, 0, 5)))

	got, err := store.GetEmployee(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DeactivatedAt)
	assert.True(t, got.DeactivatedAt.Equal(first))
}

func TestStore_DeactivateUnknownEmployee(t *testing.T) {
	store := newTestStore(t)

	err := store.DeactivateEmployee(context.Background(), "nope", monday)

	assert.ErrorIs(t, err, sql.ErrNoRows)
}

// =============================================================================
// PUNCHES
// =============================================================================

func TestStore_PunchesInRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := newEmployee("Dana Reyes")
	require.NoError(t, store.CreateEmployee(ctx, e))

	// Inserted out of chronological order on purpose.
	times := []time.Time{
		monday.Add(17 * time.Hour),
		monday.Add(9 * time.Hour),
		monday.AddDate(0, 0, 10), // outside the queried range
	}
	types := []timeclock.PunchType{timeclock.ClockOut, timeclock.ClockIn, timeclock.ClockIn}
	for i, at := range times {
		require.NoError(t, store.RecordPunch(ctx, sqlite.PunchRecord{
			ID:         uuid.NewString(),
			EmployeeID: e.ID,
			Type:       types[i],
			At:         at,
			CreatedAt:  at,
		}))
	}

	punches, err := store.PunchesInRange(ctx, e.ID, monday, monday.AddDate(0, 0, 7))

	require.NoError(t, err)
	require.Len(t, punches, 2)
	// Returned in time order regardless of insert order.
	assert.Equal(t, timeclock.ClockIn, punches[0].Type)
	assert.Equal(t, timeclock.ClockOut, punches[1].Type)
	assert.True(t, punches[0].At.Equal(monday.Add(9*time.Hour)))
}

// =============================================================================
// LEDGERS
// =============================================================================

func TestStore_TipTotalsInRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := newEmployee("Dana Reyes")
	require.NoError(t, store.CreateEmployee(ctx, e))

	entries := []struct {
		day    int
		kind   sqlite.TipKind
		amount payroll.Cents
	}{
		{0, sqlite.TipEarned, 5000},
		{2, sqlite.TipEarned, 13000},
		{2, sqlite.TipPaidOut, 6000},
		{10, sqlite.TipEarned, 9999}, // outside the range
	}
	for _, entry := range entries {
		require.NoError(t, store.AddTipEntry(ctx, sqlite.TipEntryRecord{
			ID:          uuid.NewString(),
			EmployeeID:  e.ID,
			Date:        monday.AddDate(0, 0, entry.day),
			Kind:        entry.kind,
			AmountCents: entry.amount,
			CreatedAt:   monday,
		}))
	}

	earned, paidOut, err := store.TipTotalsInRange(ctx, e.ID, monday, monday.AddDate(0, 0, 7))

	require.NoError(t, err)
	assert.Equal(t, payroll.Cents(18000), earned)
	assert.Equal(t, payroll.Cents(6000), paidOut)
}

func TestStore_ManualPaymentsInRange(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := newEmployee("Omar Haddad")
	require.NoError(t, store.CreateEmployee(ctx, e))

	require.NoError(t, store.AddManualPayment(ctx, sqlite.ManualPaymentRecord{
		ID:          uuid.NewString(),
		EmployeeID:  e.ID,
		PaidOn:      monday.AddDate(0, 0, 1),
		AmountCents: 35000,
		Description: "walk-in cooler repair",
		CreatedAt:   monday,
	}))
	require.NoError(t, store.AddManualPayment(ctx, sqlite.ManualPaymentRecord{
		ID:          uuid.NewString(),
		EmployeeID:  e.ID,
		PaidOn:      monday.AddDate(0, 0, 20),
		AmountCents: 99999,
		CreatedAt:   monday,
	}))

	payments, err := store.ManualPaymentsInRange(ctx, e.ID, monday, monday.AddDate(0, 0, 7))

	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, payroll.Cents(35000), payments[0].AmountCents)
	assert.Equal(t, "walk-in cooler repair", payments[0].Description)
}

// =============================================================================
// RESET
// =============================================================================

func TestStore_Reset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := newEmployee("Dana Reyes")
	require.NoError(t, store.CreateEmployee(ctx, e))
	require.NoError(t, store.RecordPunch(ctx, sqlite.PunchRecord{
		ID:         uuid.NewString(),
		EmployeeID: e.ID,
		Type:       timeclock.ClockIn,
		At:         monday,
		CreatedAt:  monday,
	}))

	require.NoError(t, store.Reset(ctx))

	list, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
