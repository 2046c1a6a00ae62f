package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/office"
)

// RunKey identifies a payroll run.
type RunKey struct {
	PayPeriodStart office.Date
	PayPeriodEnd   office.Date
	PaymentDate    office.Date
}

// Run is every payslip sharing one RunKey, with its totals.
type Run struct {
	RunKey
	EmployeeCount   int
	TotalGross      decimal.Decimal
	TotalBonuses    decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	Records         []office.PayrollHistory
}

// GroupRuns groups history into runs. Runs and the records inside each run
// keep the order in which they first appear in history.
func GroupRuns(history []office.PayrollHistory) []Run {
	index := make(map[RunKey]int)
	runs := []Run{}

	for _, h := range history {
		key := RunKey{
			PayPeriodStart: h.PayPeriodStart,
			PayPeriodEnd:   h.PayPeriodEnd,
			PaymentDate:    h.PaymentDate,
		}

		i, ok := index[key]
		if !ok {
			i = len(runs)
			index[key] = i
			runs = append(runs, Run{
				RunKey:          key,
				TotalGross:      decimal.Zero,
				TotalBonuses:    decimal.Zero,
				TotalDeductions: decimal.Zero,
				TotalNet:        decimal.Zero,
			})
		}

		run := &runs[i]
		run.EmployeeCount++
		run.TotalGross = run.TotalGross.Add(h.GrossPay)
		run.TotalBonuses = run.TotalBonuses.Add(h.Bonuses)
		run.TotalDeductions = run.TotalDeductions.Add(h.Deductions)
		run.TotalNet = run.TotalNet.Add(h.NetPay)
		run.Records = append(run.Records, h)
	}

	return runs
}
