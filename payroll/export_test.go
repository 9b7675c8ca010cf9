package payroll_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/warp/payroll-engine/payroll"
)

func TestWriteCSV_Golden(t *testing.T) {
	// GIVEN: A computed period with one hourly and one salaried employee
	data := []payroll.EmployeeData{
		{
			Employee: hourlyEmployee("emp-1", "Dana Reyes", 1500),
			Punches: append(
				shiftPunches("emp-1", 0, 9, 17),
				shiftPunches("emp-1", 2, 7, 19)...,
			),
			TipsEarned:  5000,
			TipsPaidOut: 3000,
		},
		{
			Employee: payroll.Employee{
				ID:       "emp-2",
				Name:     "Priya Natarajan",
				Position: "General Manager",
				Plan:     payroll.Salary{AmountCents: 250000, Period: payroll.PeriodSemiMonthly, AllocateDaily: true},
			},
		},
	}

	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	period, err := payroll.ComputePeriod(start, end, time.Monday, data)
	require.NoError(t, err)

	// WHEN: Exporting as CSV
	var buf bytes.Buffer
	require.NoError(t, payroll.WriteCSV(&buf, period))

	// THEN: Output matches the golden file byte for byte, including the
	// locale thousands separators and the trailing TOTAL row
	g := goldie.New(t)
	g.Assert(t, "period_export", buf.Bytes())
}
