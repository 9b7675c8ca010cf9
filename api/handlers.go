/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine and
  the store.

ENDPOINTS:
  Employees:
    GET    /api/employees                    List all employees
    POST   /api/employees                    Create employee
    GET    /api/employees/{id}               Get employee details
    POST   /api/employees/{id}/deactivate    Deactivate employee
    PUT    /api/employees/{id}/compensation  Replace compensation config
    POST   /api/employees/{id}/punches       Record a clock event
    GET    /api/employees/{id}/punches       List punches in a range
    POST   /api/employees/{id}/payments      Record a manual payment
    POST   /api/employees/{id}/tips          Record a tip ledger entry

  Payroll:
    GET    /api/payroll?start=&end=          Compute the period payroll
    GET    /api/payroll/export?start=&end=   Download the period CSV
    GET    /api/payroll/anomalies?start=&end= Manager review queue

  Scenarios:
    GET    /api/scenarios                    List demo scenarios
    POST   /api/scenarios/load               Load a demo scenario
    POST   /api/scenarios/reset              Wipe the database

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (compensation configs validate here, eagerly,
     before anything is stored - never mid-computation)
  3. Assemble engine inputs from the store, run the pure computation
  4. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, bad compensation config
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
	"github.com/warp/payroll-engine/timeclock"
)

// punchFetchMargin is how far beyond the period boundaries punches are
// fetched, so overnight shifts at the edges resolve correctly.
const punchFetchMargin = 24 * time.Hour

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store       *sqlite.Store
	PlanFactory *factory.PlanFactory

	// WeekStart is the calendar week boundary for overtime allocation
	// and the deactivation inclusion rule.
	WeekStart time.Weekday

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, weekStart time.Weekday) *Handler {
	return &Handler{
		Store:       store,
		PlanFactory: factory.NewPlanFactory(),
		WeekStart:   weekStart,
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, 0, len(records))
	for _, rec := range records {
		dto, err := h.employeeDTO(rec)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Corrupt compensation config", err)
			return
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	dto, err := h.employeeDTO(*rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Corrupt compensation config", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// CreateEmployee creates a new employee. The compensation config is
// validated here, before storage; invalid setup never reaches a payroll
// run.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}

	hireDate, err := parseDate(req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date, expected YYYY-MM-DD", err)
		return
	}

	if _, err := h.PlanFactory.FromJSON(req.Compensation); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid compensation config", err)
		return
	}
	compJSON, err := json.Marshal(req.Compensation)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode compensation", err)
		return
	}

	rec := sqlite.EmployeeRecord{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Position:         req.Position,
		Email:            req.Email,
		CompensationJSON: string(compJSON),
		HireDate:         hireDate,
		CreatedAt:        time.Now().UTC(),
	}
	if err := h.Store.CreateEmployee(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}

	dto, _ := h.employeeDTO(rec)
	writeJSON(w, http.StatusCreated, dto)
}

// DeactivateEmployee marks an employee deactivated. They remain payable
// through the end of the calendar week containing the date, then drop
// out of subsequent periods.
func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DeactivateEmployeeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	at := time.Now().UTC()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
			return
		}
		at = parsed
	}

	if err := h.Store.DeactivateEmployee(r.Context(), id, at); err != nil {
		writeError(w, http.StatusNotFound, "Employee not found", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateCompensation replaces an employee's compensation config. Same
// eager validation as creation; takes effect on the next payroll run.
func (h *Handler) UpdateCompensation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var comp factory.CompensationJSON
	if err := json.NewDecoder(r.Body).Decode(&comp); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if _, err := h.PlanFactory.FromJSON(comp); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid compensation config", err)
		return
	}
	compJSON, err := json.Marshal(comp)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode compensation", err)
		return
	}

	rec, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	if err := h.Store.UpdateCompensation(r.Context(), id, string(compJSON)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update compensation", err)
		return
	}

	rec.CompensationJSON = string(compJSON)
	dto, _ := h.employeeDTO(*rec)
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// RecordPunch appends one clock event for an employee.
func (h *Handler) RecordPunch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req RecordPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !timeclock.ValidPunchType(req.PunchType) {
		writeError(w, http.StatusBadRequest, "Invalid punch_type", nil)
		return
	}
	at, err := time.Parse(time.RFC3339, req.PunchTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid punch_time, expected RFC3339", err)
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	rec := sqlite.PunchRecord{
		ID:         uuid.NewString(),
		EmployeeID: id,
		Type:       timeclock.PunchType(req.PunchType),
		At:         at,
		CreatedAt:  time.Now().UTC(),
	}
	if err := h.Store.RecordPunch(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record punch", err)
		return
	}

	writeJSON(w, http.StatusCreated, PunchDTO{
		ID:         rec.ID,
		EmployeeID: rec.EmployeeID,
		PunchType:  string(rec.Type),
		PunchTime:  rec.At.Format(time.RFC3339),
	})
}

// ListPunches returns an employee's punches in a date range.
func (h *Handler) ListPunches(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	start, end, err := parsePeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	punches, err := h.Store.PunchesInRange(r.Context(), id, start, endOfDay(end))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list punches", err)
		return
	}

	dtos := make([]PunchDTO, len(punches))
	for i, p := range punches {
		dtos[i] = PunchDTO{
			ID:         p.ID,
			EmployeeID: p.EmployeeID,
			PunchType:  string(p.Type),
			PunchTime:  p.At.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PAYMENT AND TIP HANDLERS
// =============================================================================

// CreateManualPayment records a one-off payment (per-job contractor
// work that cannot be auto-prorated).
func (h *Handler) CreateManualPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateManualPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, "amount_cents must be positive", nil)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}

	err = h.Store.AddManualPayment(r.Context(), sqlite.ManualPaymentRecord{
		ID:          uuid.NewString(),
		EmployeeID:  id,
		PaidOn:      date,
		AmountCents: payroll.Cents(req.AmountCents),
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add payment", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// CreateTipEntry records a tip ledger entry (earned or paid out).
func (h *Handler) CreateTipEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req CreateTipEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	kind := sqlite.TipKind(req.Kind)
	if kind != sqlite.TipEarned && kind != sqlite.TipPaidOut {
		writeError(w, http.StatusBadRequest, `kind must be "earned" or "paid_out"`, nil)
		return
	}
	if req.AmountCents <= 0 {
		writeError(w, http.StatusBadRequest, "amount_cents must be positive", nil)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
		return
	}

	err = h.Store.AddTipEntry(r.Context(), sqlite.TipEntryRecord{
		ID:          uuid.NewString(),
		EmployeeID:  id,
		Date:        date,
		Kind:        kind,
		AmountCents: payroll.Cents(req.AmountCents),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add tip entry", err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// GetPayroll computes the payroll period from stored data.
func (h *Handler) GetPayroll(w http.ResponseWriter, r *http.Request) {
	period, err := h.computePeriod(r)
	if err != nil {
		h.writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payrollPeriodDTO(period))
}

// ExportPayroll streams the period as CSV.
func (h *Handler) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	period, err := h.computePeriod(r)
	if err != nil {
		h.writeComputeError(w, err)
		return
	}

	filename := fmt.Sprintf("payroll_%s_%s.csv",
		period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := payroll.WriteCSV(w, period); err != nil {
		// Headers are gone; nothing to do but log via the middleware.
		return
	}
}

// ListAnomalies returns the period's punch anomalies for manager review.
func (h *Handler) ListAnomalies(w http.ResponseWriter, r *http.Request) {
	period, err := h.computePeriod(r)
	if err != nil {
		h.writeComputeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, anomalyDTOs(period.Anomalies()))
}

// computePeriod assembles engine inputs from the store and runs the
// pure computation.
func (h *Handler) computePeriod(r *http.Request) (payroll.PayrollPeriod, error) {
	start, end, err := parsePeriod(r)
	if err != nil {
		return payroll.PayrollPeriod{}, err
	}

	ctx := r.Context()
	records, err := h.Store.ListEmployees(ctx)
	if err != nil {
		return payroll.PayrollPeriod{}, err
	}

	var data []payroll.EmployeeData
	for _, rec := range records {
		plan, err := h.PlanFactory.ParsePlan(rec.CompensationJSON)
		if err != nil {
			return payroll.PayrollPeriod{}, err
		}

		punches, err := h.Store.PunchesInRange(ctx, rec.ID,
			start.Add(-punchFetchMargin), endOfDay(end).Add(punchFetchMargin))
		if err != nil {
			return payroll.PayrollPeriod{}, err
		}
		engPunches := make([]timeclock.Punch, len(punches))
		for i, p := range punches {
			engPunches[i] = p.Punch()
		}

		payments, err := h.Store.ManualPaymentsInRange(ctx, rec.ID, start, endOfDay(end))
		if err != nil {
			return payroll.PayrollPeriod{}, err
		}
		earned, paidOut, err := h.Store.TipTotalsInRange(ctx, rec.ID, start, endOfDay(end))
		if err != nil {
			return payroll.PayrollPeriod{}, err
		}

		data = append(data, payroll.EmployeeData{
			Employee: payroll.Employee{
				ID:            rec.ID,
				Name:          rec.Name,
				Position:      rec.Position,
				Email:         rec.Email,
				HireDate:      rec.HireDate,
				DeactivatedAt: rec.DeactivatedAt,
				Plan:          plan,
			},
			Punches:        engPunches,
			TipsEarned:     earned,
			TipsPaidOut:    paidOut,
			ManualPayments: payments,
		})
	}

	return payroll.ComputePeriod(start, end, h.WeekStart, data)
}

func (h *Handler) writeComputeError(w http.ResponseWriter, err error) {
	switch {
	case payroll.IsConfigError(err):
		writeError(w, http.StatusBadRequest, "Invalid compensation config", err)
	case errors.Is(err, payroll.ErrInvalidPeriod), errors.Is(err, errBadPeriodParams):
		writeError(w, http.StatusBadRequest, "Invalid period", err)
	default:
		writeError(w, http.StatusInternalServerError, "Payroll computation failed", err)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) employeeDTO(rec sqlite.EmployeeRecord) (EmployeeDTO, error) {
	var comp factory.CompensationJSON
	if err := json.Unmarshal([]byte(rec.CompensationJSON), &comp); err != nil {
		return EmployeeDTO{}, err
	}
	dto := EmployeeDTO{
		ID:           rec.ID,
		Name:         rec.Name,
		Position:     rec.Position,
		Email:        rec.Email,
		HireDate:     rec.HireDate.Format("2006-01-02"),
		Active:       rec.DeactivatedAt == nil,
		Compensation: comp,
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
	}
	if rec.DeactivatedAt != nil {
		dto.DeactivatedAt = rec.DeactivatedAt.Format("2006-01-02")
	}
	return dto, nil
}

var errBadPeriodParams = errors.New("start and end query parameters are required as YYYY-MM-DD")

func parsePeriod(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, errBadPeriodParams
	}
	if start, err = parseDate(startStr); err != nil {
		return time.Time{}, time.Time{}, errBadPeriodParams
	}
	if end, err = parseDate(endStr); err != nil {
		return time.Time{}, time.Time{}, errBadPeriodParams
	}
	return start, end, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	writeJSON(w, status, map[string]string{"error": msg, "detail": detail})
}
