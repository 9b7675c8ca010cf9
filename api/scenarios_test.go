/*
scenarios_test.go - Tests for demo scenario loaders

Each scenario is loaded through the router and verified through the
payroll endpoints, the same path a demo walks.
*/
package api

import (
	"encoding/json"
	"net/http"
	"testing"
)

func loadScenario(t *testing.T, router http.Handler, id string) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/scenarios/load", map[string]string{"id": id})
	if rec.Code != http.StatusOK {
		t.Fatalf("Failed to load scenario %q: %d %s", id, rec.Code, rec.Body.String())
	}
}

func weekPayroll(t *testing.T, router http.Handler) PayrollPeriodDTO {
	t.Helper()
	rec := doJSON(t, router, http.MethodGet, "/api/payroll?start=2025-06-02&end=2025-06-08", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Payroll failed: %d %s", rec.Code, rec.Body.String())
	}
	var period PayrollPeriodDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &period); err != nil {
		t.Fatalf("Failed to decode payroll: %v", err)
	}
	return period
}

func TestListScenarios(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/scenarios", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var list []ScenarioDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to decode scenarios: %v", err)
	}
	if len(list) != 4 {
		t.Errorf("Expected 4 scenarios, got %d", len(list))
	}
}

func TestLoadScenario_Unknown(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/scenarios/load", map[string]string{"id": "nope"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestScenario_OvertimeWeek(t *testing.T) {
	// GIVEN: The overtime scenario (five 9h days = 45h)
	router := newTestRouter(t)
	loadScenario(t, router, "overtime-week")

	period := weekPayroll(t, router)

	if len(period.Employees) != 1 {
		t.Fatalf("Expected 1 employee, got %d", len(period.Employees))
	}
	ep := period.Employees[0]
	if ep.RegularHours != 40 {
		t.Errorf("Expected 40 regular hours, got %v", ep.RegularHours)
	}
	if ep.OvertimeHours != 5 {
		t.Errorf("Expected 5 overtime hours, got %v", ep.OvertimeHours)
	}
	if ep.OvertimePay == 0 {
		t.Error("Expected non-zero overtime pay")
	}
}

func TestScenario_MixedStaff(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "mixed-staff")

	period := weekPayroll(t, router)

	if len(period.Employees) != 4 {
		t.Fatalf("Expected 4 employees, got %d", len(period.Employees))
	}
	// One of each compensation shape contributes its own component.
	var hourly, salary, contractor, dailyRate bool
	for _, ep := range period.Employees {
		hourly = hourly || ep.RegularPay > 0
		salary = salary || ep.SalaryPay > 0
		contractor = contractor || ep.ContractorPay > 0
		dailyRate = dailyRate || ep.DailyRatePay > 0
	}
	if !hourly || !salary || !contractor || !dailyRate {
		t.Errorf("Expected all four pay components present: hourly=%v salary=%v contractor=%v daily=%v",
			hourly, salary, contractor, dailyRate)
	}
}

func TestScenario_DirtyPunches(t *testing.T) {
	// GIVEN: The anomaly scenario
	router := newTestRouter(t)
	loadScenario(t, router, "dirty-punches")

	rec := doJSON(t, router, http.MethodGet, "/api/payroll/anomalies?start=2025-06-02&end=2025-06-08", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Anomalies failed: %d %s", rec.Code, rec.Body.String())
	}
	var anomalies []AnomalyDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &anomalies); err != nil {
		t.Fatalf("Failed to decode anomalies: %v", err)
	}
	if len(anomalies) == 0 {
		t.Fatal("Expected anomalies from the dirty scenario")
	}

	kinds := make(map[string]bool)
	for _, a := range anomalies {
		kinds[a.Kind] = true
	}
	if !kinds["missing_clock_out"] {
		t.Error("Expected a missing_clock_out anomaly")
	}
	if !kinds["missing_clock_in"] {
		t.Error("Expected a missing_clock_in anomaly")
	}
}

func TestResetDatabase(t *testing.T) {
	router := newTestRouter(t)
	loadScenario(t, router, "hourly-week")

	rec := doJSON(t, router, http.MethodPost, "/api/scenarios/reset", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Expected 204, got %d", rec.Code)
	}

	list := doJSON(t, router, http.MethodGet, "/api/employees", nil)
	var employees []EmployeeDTO
	if err := json.Unmarshal(list.Body.Bytes(), &employees); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(employees) != 0 {
		t.Errorf("Expected empty database after reset, got %d employees", len(employees))
	}
}
