package payroll

import (
	"encoding/csv"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// =============================================================================
// CSV EXPORT
// =============================================================================

// exportColumns is the fixed export layout. Money columns render as
// locale-formatted dollars; the interchange format everywhere else stays
// integer cents.
var exportColumns = []string{
	"Employee Name", "Position", "Hourly Rate",
	"Regular Hours", "Overtime Hours",
	"Regular Pay", "Overtime Pay", "Gross Pay",
	"Tips Earned", "Tips Paid", "Tips Owed", "Total Pay",
}

var exportPrinter = message.NewPrinter(language.AmericanEnglish)

func formatMoney(c Cents) string {
	return exportPrinter.Sprintf("$%.2f", c.Dollars())
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

// WriteCSV writes the period as CSV with the fixed column set plus a
// trailing TOTAL row summing the hours and money columns.
func WriteCSV(w io.Writer, period PayrollPeriod) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportColumns); err != nil {
		return err
	}

	for _, ep := range period.Employees {
		rate := ""
		if ep.HourlyRateCents > 0 {
			rate = formatMoney(ep.HourlyRateCents)
		}
		row := []string{
			ep.Name,
			ep.Position,
			rate,
			formatHours(ep.RegularHours),
			formatHours(ep.OvertimeHours),
			formatMoney(ep.RegularPay),
			formatMoney(ep.OvertimePay),
			formatMoney(ep.GrossPay),
			formatMoney(ep.TipsEarned),
			formatMoney(ep.TipsPaidOut),
			formatMoney(ep.TipsOwed),
			formatMoney(ep.TotalPay),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	t := period.Totals
	total := []string{
		"TOTAL",
		"",
		"",
		formatHours(t.RegularHours),
		formatHours(t.OvertimeHours),
		formatMoney(t.RegularPay),
		formatMoney(t.OvertimePay),
		formatMoney(t.GrossPay),
		formatMoney(t.TipsEarned),
		formatMoney(t.TipsPaidOut),
		formatMoney(t.TipsOwed),
		formatMoney(t.TotalPay),
	}
	if err := cw.Write(total); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}
