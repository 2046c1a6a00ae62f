package payroll

import (
	"io"

	"github.com/gocarina/gocsv"
	"github.com/warp/backoffice/office"
)

// ExportLine is one CSV line of a payroll export: a payslip with the run
// it belongs to.
type ExportLine struct {
	PayPeriodStart string `csv:"pay_period_start"`
	PayPeriodEnd   string `csv:"pay_period_end"`
	PaymentDate    string `csv:"payment_date"`
	EmployeeID     string `csv:"employee_id"`
	EmployeeName   string `csv:"employee_name"`
	GrossPay       string `csv:"gross_pay"`
	Bonuses        string `csv:"bonuses"`
	Deductions     string `csv:"deductions"`
	NetPay         string `csv:"net_pay"`
	Notes          string `csv:"notes"`
}

// ExportLines flattens runs into CSV lines, run by run.
func ExportLines(runs []Run) []*ExportLine {
	lines := []*ExportLine{}
	for _, run := range runs {
		for _, h := range run.Records {
			lines = append(lines, exportLine(h))
		}
	}
	return lines
}

func exportLine(h office.PayrollHistory) *ExportLine {
	return &ExportLine{
		PayPeriodStart: h.PayPeriodStart.String(),
		PayPeriodEnd:   h.PayPeriodEnd.String(),
		PaymentDate:    h.PaymentDate.String(),
		EmployeeID:     string(h.EmployeeID),
		EmployeeName:   h.EmployeeName,
		GrossPay:       office.FormatMoney(h.GrossPay),
		Bonuses:        office.FormatMoney(h.Bonuses),
		Deductions:     office.FormatMoney(h.Deductions),
		NetPay:         office.FormatMoney(h.NetPay),
		Notes:          h.Notes,
	}
}

// WriteCSV writes runs as CSV with a header line.
func WriteCSV(w io.Writer, runs []Run) error {
	return gocsv.Marshal(ExportLines(runs), w)
}
