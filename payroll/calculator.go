/*
Package payroll turns attendance and pay rates into payslips.

PURPOSE:
  Computes per-employee gross pay for a period, finalizes payroll runs into
  immutable history, and groups history into runs for reporting.

KEY CONCEPTS:
  Summary:   Read-only preview. grossPay = round(Σ unitsWorked × rate, 2)
  Finalize:  Writes one history row per employee plus its adjustments,
             all inside one transaction
  Run:       History rows sharing (periodStart, periodEnd, paymentDate)

ARITHMETIC:
  All amounts are decimal.Decimal and are rounded to 2 places only where a
  money value is produced. EmploymentType never changes the formula: every
  type is paid unitsWorked × rate.

RATE RESOLUTION:
  RateLatest:        most recent rate overall, ignoring the period
  RateAsOfPeriodEnd: most recent rate effective on or before the period end
  Both fall back to 0 when no rate applies.

SEE ALSO:
  - office/store.go: PayrollStore consumed by Service
  - api/payroll.go: HTTP endpoints
*/
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/office"
)

// RateResolution selects which pay rate applies to a period.
type RateResolution string

const (
	RateLatest        RateResolution = "latest"
	RateAsOfPeriodEnd RateResolution = "as_of_period_end"
)

// ParseRateResolution accepts "latest" and "as_of_period_end". Empty input
// selects RateLatest.
func ParseRateResolution(s string) (RateResolution, error) {
	switch RateResolution(s) {
	case "", RateLatest:
		return RateLatest, nil
	case RateAsOfPeriodEnd:
		return RateAsOfPeriodEnd, nil
	}
	return "", fmt.Errorf("unknown rate resolution %q", s)
}

// EmployeeSummary is one row of a payroll preview.
type EmployeeSummary struct {
	EmployeeID     office.EmployeeID
	EmployeeName   string
	EmploymentType office.EmploymentType
	UnitsWorked    decimal.Decimal
	Rate           decimal.Decimal
	GrossPay       decimal.Decimal
	Bonuses        decimal.Decimal
	Deductions     decimal.Decimal
	NetPay         decimal.Decimal
}

// Calculator computes payroll previews. It has no side effects.
type Calculator struct {
	Resolution RateResolution
}

// Summarize computes one summary per employee in data, in the same order.
// Attendance outside period is ignored.
func (c Calculator) Summarize(data []office.EmployeePayrollData, period office.Period) []EmployeeSummary {
	summaries := make([]EmployeeSummary, 0, len(data))
	for _, d := range data {
		summaries = append(summaries, c.summarizeOne(d, period))
	}
	return summaries
}

func (c Calculator) summarizeOne(d office.EmployeePayrollData, period office.Period) EmployeeSummary {
	units := decimal.Zero
	for _, rec := range d.Attendance {
		if period.Contains(rec.WorkDate) {
			units = units.Add(rec.UnitsWorked)
		}
	}

	rate := c.ResolveRate(d.PayRates, period)
	gross := office.RoundMoney(units.Mul(rate))

	return EmployeeSummary{
		EmployeeID:     d.Employee.ID,
		EmployeeName:   d.Employee.FullName(),
		EmploymentType: d.Employee.EmploymentType,
		UnitsWorked:    units,
		Rate:           rate,
		GrossPay:       gross,
		Bonuses:        decimal.Zero,
		Deductions:     decimal.Zero,
		NetPay:         gross,
	}
}

// ResolveRate picks the applicable rate from a history sorted newest first.
func (c Calculator) ResolveRate(rates []office.PayRate, period office.Period) decimal.Decimal {
	for _, r := range rates {
		if c.Resolution == RateAsOfPeriodEnd && r.EffectiveDate.After(period.End) {
			continue
		}
		return r.Rate
	}
	return decimal.Zero
}
