/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Employee creation and compensation validation
- Punch recording and payroll computation end to end
- Error status mapping for bad input
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/warp/payroll-engine/store/sqlite"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewRouter(NewHandler(store, time.Monday))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createHourlyEmployee(t *testing.T, router http.Handler, name string, rateCents int64) EmployeeDTO {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/employees", map[string]any{
		"name":      name,
		"position":  "Server",
		"hire_date": "2025-01-15",
		"compensation": map[string]any{
			"compensation_type": "hourly",
			"hourly_rate_cents": rateCents,
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Failed to create employee: status %d, body %s", rec.Code, rec.Body.String())
	}
	var dto EmployeeDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("Failed to decode employee: %v", err)
	}
	return dto
}

func recordPunch(t *testing.T, router http.Handler, employeeID, punchType string, at time.Time) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/employees/"+employeeID+"/punches", map[string]any{
		"punch_type": punchType,
		"punch_time": at.Format(time.RFC3339),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Failed to record punch: status %d, body %s", rec.Code, rec.Body.String())
	}
}

func TestCreateEmployee_InvalidCompensation(t *testing.T) {
	router := newTestRouter(t)

	// GIVEN: A compensation config with an unknown type
	rec := doJSON(t, router, http.MethodPost, "/api/employees", map[string]any{
		"name":      "Dana Reyes",
		"hire_date": "2025-01-15",
		"compensation": map[string]any{
			"compensation_type": "equity",
		},
	})

	// THEN: Rejected eagerly with 400, never stored
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	list := doJSON(t, router, http.MethodGet, "/api/employees", nil)
	var employees []EmployeeDTO
	if err := json.Unmarshal(list.Body.Bytes(), &employees); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if len(employees) != 0 {
		t.Errorf("Invalid employee should not be stored, got %d", len(employees))
	}
}

func TestCreateEmployee_MissingRate(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/employees", map[string]any{
		"name":      "Dana Reyes",
		"hire_date": "2025-01-15",
		"compensation": map[string]any{
			"compensation_type": "hourly",
		},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateCompensation(t *testing.T) {
	router := newTestRouter(t)
	emp := createHourlyEmployee(t, router, "Dana Reyes", 1500)

	// GIVEN: A raise to $17/h
	rec := doJSON(t, router, http.MethodPut, "/api/employees/"+emp.ID+"/compensation", map[string]any{
		"compensation_type": "hourly",
		"hourly_rate_cents": 1700,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var dto EmployeeDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("Failed to decode employee: %v", err)
	}
	if dto.Compensation.HourlyRateCents != 1700 {
		t.Errorf("Expected updated rate 1700, got %d", dto.Compensation.HourlyRateCents)
	}

	// Invalid replacement is rejected and the old config survives.
	bad := doJSON(t, router, http.MethodPut, "/api/employees/"+emp.ID+"/compensation", map[string]any{
		"compensation_type": "hourly",
	})
	if bad.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", bad.Code)
	}
	get := doJSON(t, router, http.MethodGet, "/api/employees/"+emp.ID, nil)
	if err := json.Unmarshal(get.Body.Bytes(), &dto); err != nil {
		t.Fatalf("Failed to decode employee: %v", err)
	}
	if dto.Compensation.HourlyRateCents != 1700 {
		t.Errorf("Rejected update should not change stored config, got %d", dto.Compensation.HourlyRateCents)
	}
}

func TestGetEmployee_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/employees/nope", nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestPayroll_EndToEnd(t *testing.T) {
	// GIVEN: An hourly employee with two clean shifts and a tip ledger
	router := newTestRouter(t)
	emp := createHourlyEmployee(t, router, "Dana Reyes", 1500)

	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	recordPunch(t, router, emp.ID, "clock_in", monday.Add(9*time.Hour))
	recordPunch(t, router, emp.ID, "clock_out", monday.Add(17*time.Hour))
	recordPunch(t, router, emp.ID, "clock_in", monday.AddDate(0, 0, 2).Add(7*time.Hour))
	recordPunch(t, router, emp.ID, "clock_out", monday.AddDate(0, 0, 2).Add(19*time.Hour))

	tipRec := doJSON(t, router, http.MethodPost, "/api/employees/"+emp.ID+"/tips", map[string]any{
		"date":         "2025-06-04",
		"kind":         "earned",
		"amount_cents": 5000,
	})
	if tipRec.Code != http.StatusCreated {
		t.Fatalf("Failed to add tip: %d %s", tipRec.Code, tipRec.Body.String())
	}

	// WHEN: Computing the week's payroll
	rec := doJSON(t, router, http.MethodGet, "/api/payroll?start=2025-06-02&end=2025-06-08", nil)

	// THEN: 20 regular hours at $15 plus $50 tips owed
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var period PayrollPeriodDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &period); err != nil {
		t.Fatalf("Failed to decode payroll: %v", err)
	}
	if len(period.Employees) != 1 {
		t.Fatalf("Expected 1 employee, got %d", len(period.Employees))
	}
	ep := period.Employees[0]
	if ep.RegularHours != 20 {
		t.Errorf("Expected 20 regular hours, got %v", ep.RegularHours)
	}
	if ep.RegularPay != 30000 {
		t.Errorf("Expected 30000c regular pay, got %d", ep.RegularPay)
	}
	if ep.TipsOwed != 5000 {
		t.Errorf("Expected 5000c tips owed, got %d", ep.TipsOwed)
	}
	if ep.TotalPay != 35000 {
		t.Errorf("Expected 35000c total, got %d", ep.TotalPay)
	}
	if period.Totals.TotalPay != 35000 {
		t.Errorf("Totals should match the single employee, got %d", period.Totals.TotalPay)
	}
}

func TestPayroll_MissingPeriodParams(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/payroll", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestPayroll_EndBeforeStart(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/payroll?start=2025-06-08&end=2025-06-02", nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestAnomalies_OpenShiftFlagged(t *testing.T) {
	// GIVEN: An employee who clocked in and never out
	router := newTestRouter(t)
	emp := createHourlyEmployee(t, router, "Jo Kowalski", 1500)

	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	recordPunch(t, router, emp.ID, "clock_in", monday.Add(9*time.Hour))

	rec := doJSON(t, router, http.MethodGet, "/api/payroll/anomalies?start=2025-06-02&end=2025-06-08", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var anomalies []AnomalyDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &anomalies); err != nil {
		t.Fatalf("Failed to decode anomalies: %v", err)
	}
	if len(anomalies) != 1 {
		t.Fatalf("Expected 1 anomaly, got %d", len(anomalies))
	}
	if anomalies[0].Kind != "missing_clock_out" {
		t.Errorf("Expected missing_clock_out, got %s", anomalies[0].Kind)
	}
	if anomalies[0].EmployeeID != emp.ID {
		t.Errorf("Anomaly should carry the employee ID")
	}
}

func TestRecordPunch_InvalidType(t *testing.T) {
	router := newTestRouter(t)
	emp := createHourlyEmployee(t, router, "Dana Reyes", 1500)

	rec := doJSON(t, router, http.MethodPost, "/api/employees/"+emp.ID+"/punches", map[string]any{
		"punch_type": "lunch",
		"punch_time": "2025-06-02T09:00:00Z",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
}

func TestDeactivate_DropsEmployeeFromLaterPeriods(t *testing.T) {
	// GIVEN: An employee deactivated Wednesday June 4
	router := newTestRouter(t)
	emp := createHourlyEmployee(t, router, "Dana Reyes", 1500)

	rec := doJSON(t, router, http.MethodPost, "/api/employees/"+emp.ID+"/deactivate", map[string]any{
		"date": "2025-06-04",
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("Failed to deactivate: %d %s", rec.Code, rec.Body.String())
	}

	// THEN: Included in the final partial week, gone the week after
	inWeek := doJSON(t, router, http.MethodGet, "/api/payroll?start=2025-06-02&end=2025-06-08", nil)
	var period PayrollPeriodDTO
	if err := json.Unmarshal(inWeek.Body.Bytes(), &period); err != nil {
		t.Fatalf("Failed to decode payroll: %v", err)
	}
	if len(period.Employees) != 1 {
		t.Errorf("Expected inclusion in the deactivation week, got %d employees", len(period.Employees))
	}

	nextWeek := doJSON(t, router, http.MethodGet, "/api/payroll?start=2025-06-09&end=2025-06-15", nil)
	if err := json.Unmarshal(nextWeek.Body.Bytes(), &period); err != nil {
		t.Fatalf("Failed to decode payroll: %v", err)
	}
	if len(period.Employees) != 0 {
		t.Errorf("Expected exclusion after the final week, got %d employees", len(period.Employees))
	}
}

func TestExportPayroll_CSVHeaders(t *testing.T) {
	router := newTestRouter(t)
	emp := createHourlyEmployee(t, router, "Dana Reyes", 1500)

	monday := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	recordPunch(t, router, emp.ID, "clock_in", monday.Add(9*time.Hour))
	recordPunch(t, router, emp.ID, "clock_out", monday.Add(17*time.Hour))

	req := httptest.NewRequest(http.MethodGet, "/api/payroll/export?start=2025-06-02&end=2025-06-08", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %s", ct)
	}
	disposition := rec.Header().Get("Content-Disposition")
	if !strings.Contains(disposition, "payroll_2025-06-02_2025-06-08.csv") {
		t.Errorf("Unexpected disposition: %s", disposition)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "Employee Name,Position,Hourly Rate") {
		t.Errorf("Unexpected CSV header: %s", body)
	}
	if !strings.Contains(body, "Dana Reyes,Server,$15.00,8.00") {
		t.Errorf("Expected Dana's row in CSV, got:\n%s", body)
	}
	if !strings.Contains(body, "\nTOTAL,,,") {
		t.Errorf("Expected TOTAL row, got:\n%s", body)
	}
}
