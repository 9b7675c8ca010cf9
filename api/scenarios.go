/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with
	realistic data for demos. Each scenario creates employees with a
	compensation plan, a week or two of punches, and tip/payment
	ledger entries that exercise specific engine behavior.

AVAILABLE SCENARIOS:

	hourly-week:     One hourly server, regular hours plus tips
	overtime-week:   Hourly cook crossing the 40h weekly threshold
	mixed-staff:     All four compensation models side by side
	dirty-punches:   Malformed punch sequences producing anomalies

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employees with compensation JSON
 3. Record punches and ledger entries

NOTE:

	Scenarios reset the database. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: Shared handler helpers
  - factory/plan.go: Compensation JSON definitions
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
	"github.com/warp/payroll-engine/timeclock"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "hourly-week",
		Name:        "Hourly Week",
		Description: "One hourly server working a normal week with tips earned and partly paid out",
	},
	{
		ID:          "overtime-week",
		Name:        "Overtime Week",
		Description: "Hourly cook working past the 40h weekly threshold",
	},
	{
		ID:          "mixed-staff",
		Name:        "Mixed Staff",
		Description: "Hourly, salaried, contractor, and daily-rate employees in one period",
	},
	{
		ID:          "dirty-punches",
		Name:        "Dirty Punches",
		Description: "Duplicate and missing punches producing review anomalies",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}

	var err error
	switch req.ID {
	case "hourly-week":
		err = h.loadHourlyWeek(ctx)
	case "overtime-week":
		err = h.loadOvertimeWeek(ctx)
	case "mixed-staff":
		err = h.loadMixedStaff(ctx)
	case "dirty-punches":
		err = h.loadDirtyPunches(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario %q", req.ID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ID})
}

// ResetDatabase wipes all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

// scenarioMonday anchors all scenarios to a fixed week so demo payroll
// runs are reproducible: Monday June 2, 2025.
var scenarioMonday = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func (h *Handler) seedEmployee(ctx context.Context, name, position string, comp factory.CompensationJSON) (string, error) {
	compJSON, err := json.Marshal(comp)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	err = h.Store.CreateEmployee(ctx, sqlite.EmployeeRecord{
		ID:               id,
		Name:             name,
		Position:         position,
		CompensationJSON: string(compJSON),
		HireDate:         scenarioMonday.AddDate(-1, 0, 0),
		CreatedAt:        scenarioMonday,
	})
	return id, err
}

// seedShift records a clock-in/clock-out pair on the given day.
func (h *Handler) seedShift(ctx context.Context, employeeID string, day time.Time, startHour, endHour int) error {
	in := sqlite.PunchRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Type:       timeclock.ClockIn,
		At:         day.Add(time.Duration(startHour) * time.Hour),
		CreatedAt:  day,
	}
	out := sqlite.PunchRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Type:       timeclock.ClockOut,
		At:         day.Add(time.Duration(endHour) * time.Hour),
		CreatedAt:  day,
	}
	if err := h.Store.RecordPunch(ctx, in); err != nil {
		return err
	}
	return h.Store.RecordPunch(ctx, out)
}

func (h *Handler) seedTip(ctx context.Context, employeeID string, day time.Time, kind sqlite.TipKind, cents int64) error {
	return h.Store.AddTipEntry(ctx, sqlite.TipEntryRecord{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Date:        day,
		Kind:        kind,
		AmountCents: payroll.Cents(cents),
		CreatedAt:   day,
	})
}

func (h *Handler) loadHourlyWeek(ctx context.Context) error {
	id, err := h.seedEmployee(ctx, "Dana Reyes", "Server", factory.CompensationJSON{
		CompensationType: "hourly",
		HourlyRateCents:  1500,
	})
	if err != nil {
		return err
	}

	// Mon/Wed/Fri dinner shifts.
	for _, day := range []int{0, 2, 4} {
		if err := h.seedShift(ctx, id, scenarioMonday.AddDate(0, 0, day), 15, 23); err != nil {
			return err
		}
	}
	if err := h.seedTip(ctx, id, scenarioMonday.AddDate(0, 0, 2), sqlite.TipEarned, 18000); err != nil {
		return err
	}
	return h.seedTip(ctx, id, scenarioMonday.AddDate(0, 0, 4), sqlite.TipPaidOut, 6000)
}

func (h *Handler) loadOvertimeWeek(ctx context.Context) error {
	id, err := h.seedEmployee(ctx, "Marcus Webb", "Line Cook", factory.CompensationJSON{
		CompensationType: "hourly",
		HourlyRateCents:  2200,
	})
	if err != nil {
		return err
	}

	// Five 9h shifts: 45h, 5 of them overtime.
	for day := 0; day < 5; day++ {
		if err := h.seedShift(ctx, id, scenarioMonday.AddDate(0, 0, day), 10, 19); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadMixedStaff(ctx context.Context) error {
	hourly, err := h.seedEmployee(ctx, "Dana Reyes", "Server", factory.CompensationJSON{
		CompensationType: "hourly",
		HourlyRateCents:  1500,
	})
	if err != nil {
		return err
	}
	if _, err := h.seedEmployee(ctx, "Priya Natarajan", "General Manager", factory.CompensationJSON{
		CompensationType:  "salary",
		SalaryAmountCents: 250000,
		PayPeriodType:     "semi_monthly",
	}); err != nil {
		return err
	}
	if _, err = h.seedEmployee(ctx, "Omar Haddad", "Bookkeeper", factory.CompensationJSON{
		CompensationType:             "contractor",
		ContractorPaymentAmountCents: 120000,
		ContractorInterval:           "monthly",
	}); err != nil {
		return err
	}
	daily, err := h.seedEmployee(ctx, "Lena Fischer", "Chef Consultant", factory.CompensationJSON{
		CompensationType:              "daily_rate",
		DailyRateWeeklyReferenceCents: 100000,
		DailyRateStandardDays:         5,
	})
	if err != nil {
		return err
	}

	for _, day := range []int{0, 1, 3} {
		if err := h.seedShift(ctx, hourly, scenarioMonday.AddDate(0, 0, day), 11, 19); err != nil {
			return err
		}
		if err := h.seedShift(ctx, daily, scenarioMonday.AddDate(0, 0, day), 9, 14); err != nil {
			return err
		}
	}
	return h.seedTip(ctx, hourly, scenarioMonday.AddDate(0, 0, 1), sqlite.TipEarned, 9500)
}

func (h *Handler) loadDirtyPunches(ctx context.Context) error {
	id, err := h.seedEmployee(ctx, "Jo Kowalski", "Dishwasher", factory.CompensationJSON{
		CompensationType: "hourly",
		HourlyRateCents:  1300,
	})
	if err != nil {
		return err
	}

	monday := scenarioMonday

	// Double clock-in two minutes apart: dedup keeps the second.
	punches := []sqlite.PunchRecord{
		{Type: timeclock.ClockIn, At: monday.Add(9 * time.Hour)},
		{Type: timeclock.ClockIn, At: monday.Add(9*time.Hour + 2*time.Minute)},
		{Type: timeclock.ClockOut, At: monday.Add(17 * time.Hour)},
		// Tuesday clock-in never closed until Thursday: the gap is too
		// long to trust, so the pair is flagged and excluded.
		{Type: timeclock.ClockIn, At: monday.AddDate(0, 0, 1).Add(9 * time.Hour)},
		{Type: timeclock.ClockOut, At: monday.AddDate(0, 0, 3).Add(16 * time.Hour)},
		// Friday: clock-out with no clock-in at all.
		{Type: timeclock.ClockOut, At: monday.AddDate(0, 0, 4).Add(16 * time.Hour)},
	}
	for _, p := range punches {
		p.ID = uuid.NewString()
		p.EmployeeID = id
		p.CreatedAt = monday
		if err := h.Store.RecordPunch(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
