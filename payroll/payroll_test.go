package payroll_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/backoffice/office"
	"github.com/warp/backoffice/payroll"
	"github.com/warp/backoffice/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const (
	contractorA office.ContractorID = "contractor-a"
	contractorB office.ContractorID = "contractor-b"
)

var fixedNow = time.Date(2025, time.March, 17, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, resolution payroll.RateResolution) (*payroll.Service, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(sqlite.Options{
		DSN: ":memory:",
		Now: func() time.Time { return time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := payroll.NewService(store, resolution).WithClock(func() time.Time { return fixedNow })
	return svc, store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func week(t *testing.T) office.Period {
	t.Helper()
	p, err := office.ParsePeriod("2025-03-10", "2025-03-16")
	require.NoError(t, err)
	return p
}

func hire(t *testing.T, store *sqlite.Store, contractor office.ContractorID, first, last, rate string) office.Employee {
	t.Helper()
	emp, err := store.CreateEmployee(context.Background(), office.Employee{
		ContractorID: contractor,
		FirstName:    first,
		LastName:     last,
	}, dec(rate), nil)
	require.NoError(t, err)
	return emp
}

func work(t *testing.T, store *sqlite.Store, contractor office.ContractorID, emp office.Employee, date, units string) {
	t.Helper()
	_, err := store.SaveAttendance(context.Background(), contractor, office.AttendanceInput{
		EmployeeID:  emp.ID,
		WorkDate:    office.MustParseDate(date),
		UnitsWorked: dec(units),
		Status:      office.StatusPresent,
	})
	require.NoError(t, err)
}

// =============================================================================
// SUMMARY TESTS
// =============================================================================

func TestSummary_WorkedExample(t *testing.T) {
	// GIVEN: An HOURLY employee at 15.00 who worked 8 and 4 units in the week
	// WHEN: The summary is computed
	// THEN: 12 units, gross 180.00, no adjustments, net equals gross

	svc, store := newTestService(t, payroll.RateLatest)
	ctx := context.Background()
	ana := hire(t, store, contractorA, "Ana", "Lopez", "15.00")
	work(t, store, contractorA, ana, "2025-03-10", "8")
	work(t, store, contractorA, ana, "2025-03-11", "4")

	summaries, err := svc.Summary(ctx, contractorA, week(t))
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "Ana Lopez", s.EmployeeName)
	assert.Equal(t, office.EmploymentHourly, s.EmploymentType)
	assert.True(t, s.UnitsWorked.Equal(dec("12")))
	assert.Equal(t, "15.00", office.FormatMoney(s.Rate))
	assert.Equal(t, "180.00", office.FormatMoney(s.GrossPay))
	assert.Equal(t, "0.00", office.FormatMoney(s.Bonuses))
	assert.Equal(t, "0.00", office.FormatMoney(s.Deductions))
	assert.Equal(t, "180.00", office.FormatMoney(s.NetPay))
}

func TestSummary_ZeroAttendanceStillListed(t *testing.T) {
	svc, store := newTestService(t, payroll.RateLatest)
	hire(t, store, contractorA, "Bo", "Diaz", "12.00")

	summaries, err := svc.Summary(context.Background(), contractorA, week(t))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.True(t, summaries[0].UnitsWorked.IsZero())
	assert.Equal(t, "0.00", office.FormatMoney(summaries[0].GrossPay))
}

func TestSummary_InactiveEmployeesExcluded(t *testing.T) {
	svc, store := newTestService(t, payroll.RateLatest)
	bo := hire(t, store, contractorA, "Bo", "Diaz", "12.00")
	_, err := store.SetEmployeeActive(context.Background(), contractorA, bo.ID, false)
	require.NoError(t, err)

	summaries, err := svc.Summary(context.Background(), contractorA, week(t))
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestSummary_OwnershipIsolation(t *testing.T) {
	svc, store := newTestService(t, payroll.RateLatest)
	hire(t, store, contractorA, "Ana", "Lopez", "15.00")
	hire(t, store, contractorB, "Cy", "Ruiz", "10.00")

	summaries, err := svc.Summary(context.Background(), contractorB, week(t))
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Cy Ruiz", summaries[0].EmployeeName)
}

// =============================================================================
// CALCULATOR TESTS (pure)
// =============================================================================

func payrollData(rates map[string]string, units ...string) office.EmployeePayrollData {
	d := office.EmployeePayrollData{
		Employee: office.Employee{ID: "e-1", FirstName: "Ana", LastName: "Lopez", EmploymentType: office.EmploymentDaily},
	}
	for i, u := range units {
		d.Attendance = append(d.Attendance, office.AttendanceRecord{
			EmployeeID:  "e-1",
			WorkDate:    office.MustParseDate("2025-03-10").AddDays(i),
			UnitsWorked: decimal.RequireFromString(u),
		})
	}
	// Newest first
	for _, date := range []string{"2025-04-01", "2025-03-01", "2025-01-01"} {
		if r, ok := rates[date]; ok {
			d.PayRates = append(d.PayRates, office.PayRate{
				Rate:          decimal.RequireFromString(r),
				EffectiveDate: office.MustParseDate(date),
			})
		}
	}
	return d
}

func TestCalculator_GrossPayIsLinear(t *testing.T) {
	// GIVEN: Rate 12.50 and daily units 1.5, 2.25, 3
	// THEN: grossPay == round((1.5 + 2.25 + 3) × 12.50, 2) == 84.38

	calc := payroll.Calculator{Resolution: payroll.RateLatest}
	period := office.Period{Start: office.MustParseDate("2025-03-10"), End: office.MustParseDate("2025-03-16")}

	got := calc.Summarize([]office.EmployeePayrollData{
		payrollData(map[string]string{"2025-03-01": "12.50"}, "1.5", "2.25", "3"),
	}, period)

	require.Len(t, got, 1)
	assert.True(t, got[0].UnitsWorked.Equal(dec("6.75")))
	assert.Equal(t, "84.38", office.FormatMoney(got[0].GrossPay))
	assert.Equal(t, office.EmploymentDaily, got[0].EmploymentType, "type does not change arithmetic")
}

func TestCalculator_IgnoresAttendanceOutsidePeriod(t *testing.T) {
	calc := payroll.Calculator{}
	period := office.Period{Start: office.MustParseDate("2025-03-10"), End: office.MustParseDate("2025-03-10")}

	got := calc.Summarize([]office.EmployeePayrollData{
		payrollData(map[string]string{"2025-03-01": "10"}, "8", "8"),
	}, period)

	assert.Equal(t, "80.00", office.FormatMoney(got[0].GrossPay))
}

func TestCalculator_RateResolution(t *testing.T) {
	// GIVEN: Rates effective 2025-03-01 (10) and 2025-04-01 (20)
	// WHEN: Resolving for a March period
	// THEN: RateLatest picks 20, RateAsOfPeriodEnd picks 10

	period := office.Period{Start: office.MustParseDate("2025-03-10"), End: office.MustParseDate("2025-03-16")}
	data := payrollData(map[string]string{"2025-03-01": "10", "2025-04-01": "20"})

	latest := payroll.Calculator{Resolution: payroll.RateLatest}
	asOf := payroll.Calculator{Resolution: payroll.RateAsOfPeriodEnd}

	assert.Equal(t, "20.00", office.FormatMoney(latest.ResolveRate(data.PayRates, period)))
	assert.Equal(t, "10.00", office.FormatMoney(asOf.ResolveRate(data.PayRates, period)))

	// Nothing effective before the period end falls back to zero
	onlyFuture := payrollData(map[string]string{"2025-04-01": "20"})
	assert.True(t, asOf.ResolveRate(onlyFuture.PayRates, period).IsZero())
	assert.True(t, latest.ResolveRate(nil, period).IsZero())
}

func TestParseRateResolution(t *testing.T) {
	r, err := payroll.ParseRateResolution("")
	require.NoError(t, err)
	assert.Equal(t, payroll.RateLatest, r)

	r, err = payroll.ParseRateResolution("as_of_period_end")
	require.NoError(t, err)
	assert.Equal(t, payroll.RateAsOfPeriodEnd, r)

	_, err = payroll.ParseRateResolution("effective")
	assert.Error(t, err)
}

// =============================================================================
// FINALIZE TESTS
// =============================================================================

func TestFinalize_WorkedExample(t *testing.T) {
	// GIVEN: The 180.00 summary plus a 20.00 BONUS
	// WHEN: The run is finalized
	// THEN: One history row with bonuses 20.00, deductions 0.00, net 200.00

	svc, store := newTestService(t, payroll.RateLatest)
	ctx := context.Background()
	ana := hire(t, store, contractorA, "Ana", "Lopez", "15.00")

	rows, err := svc.Finalize(ctx, contractorA, payroll.FinalizeRequest{
		Period: week(t),
		Entries: []payroll.FinalizeEntry{{
			EmployeeID:   ana.ID,
			EmployeeName: "Ana Lopez",
			GrossPay:     dec("180.00"),
			Adjustments: []payroll.Adjustment{
				{Type: office.AdjustmentBonus, Description: "weekend", Amount: dec("20.00")},
			},
			NetPay: decPtr("200.00"),
		}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "2025-03-17", row.PaymentDate.String(), "payment date defaults to today")
	assert.Equal(t, "20.00", office.FormatMoney(row.Bonuses))
	assert.Equal(t, "0.00", office.FormatMoney(row.Deductions))
	assert.Equal(t, "200.00", office.FormatMoney(row.NetPay))

	history, err := svc.History(ctx, contractorA)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, row.ID, history[0].ID)

	adjustments, err := svc.Adjustments(ctx, contractorA, row.ID)
	require.NoError(t, err)
	require.Len(t, adjustments, 1)
	assert.Equal(t, office.AdjustmentBonus, adjustments[0].Type)
}

func TestFinalize_NetPayIdentity(t *testing.T) {
	// GIVEN: Several bonuses and deductions without a caller net pay
	// THEN: netPay == gross + Σbonus − Σdeduction

	svc, store := newTestService(t, payroll.RateLatest)
	ana := hire(t, store, contractorA, "Ana", "Lopez", "15.00")

	rows, err := svc.Finalize(context.Background(), contractorA, payroll.FinalizeRequest{
		Period: week(t),
		Entries: []payroll.FinalizeEntry{{
			EmployeeID:   ana.ID,
			EmployeeName: "Ana Lopez",
			GrossPay:     dec("100.10"),
			Adjustments: []payroll.Adjustment{
				{Type: office.AdjustmentBonus, Description: "a", Amount: dec("5.05")},
				{Type: office.AdjustmentBonus, Description: "b", Amount: dec("1.00")},
				{Type: office.AdjustmentDeduction, Description: "c", Amount: dec("10.25")},
			},
		}},
	})
	require.NoError(t, err)

	row := rows[0]
	assert.Equal(t, "6.05", office.FormatMoney(row.Bonuses))
	assert.Equal(t, "10.25", office.FormatMoney(row.Deductions))
	assert.Equal(t, "95.90", office.FormatMoney(row.NetPay))
}

func TestFinalize_NetPayMismatch_Rejected(t *testing.T) {
	svc, store := newTestService(t, payroll.RateLatest)
	ctx := context.Background()
	ana := hire(t, store, contractorA, "Ana", "Lopez", "15.00")

	_, err := svc.Finalize(ctx, contractorA, payroll.FinalizeRequest{
		Period: week(t),
		Entries: []payroll.FinalizeEntry{{
			EmployeeID:   ana.ID,
			EmployeeName: "Ana Lopez",
			GrossPay:     dec("180.00"),
			NetPay:       decPtr("500.00"),
		}},
	})

	var mismatch *office.NetPayMismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "180.00", office.FormatMoney(mismatch.Computed))
	assert.ErrorIs(t, err, office.ErrNetPayMismatch)

	history, err := svc.History(ctx, contractorA)
	require.NoError(t, err)
	assert.Empty(t, history, "nothing is written")
}

func TestFinalize_DropsForeignEmployees(t *testing.T) {
	// GIVEN: One own employee and one of another contractor
	// WHEN: Both are submitted
	// THEN: Only the own employee's row is written

	svc, store := newTestService(t, payroll.RateLatest)
	ctx := context.Background()
	ana := hire(t, store, contractorA, "Ana", "Lopez", "15.00")
	cy := hire(t, store, contractorB, "Cy", "Ruiz", "10.00")

	rows, err := svc.Finalize(ctx, contractorA, payroll.FinalizeRequest{
		Period: week(t),
		Entries: []payroll.FinalizeEntry{
			{EmployeeID: ana.ID, EmployeeName: "Ana Lopez", GrossPay: dec("10")},
			{EmployeeID: cy.ID, EmployeeName: "Cy Ruiz", GrossPay: dec("10")},
		},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, ana.ID, rows[0].EmployeeID)

	other, err := svc.History(ctx, contractorB)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestFinalize_NoValidEmployees(t *testing.T) {
	svc, store := newTestService(t, payroll.RateLatest)
	cy := hire(t, store, contractorB, "Cy", "Ruiz", "10.00")

	_, err := svc.Finalize(context.Background(), contractorA, payroll.FinalizeRequest{
		Period:  week(t),
		Entries: []payroll.FinalizeEntry{{EmployeeID: cy.ID, EmployeeName: "Cy Ruiz", GrossPay: dec("10")}},
	})
	assert.ErrorIs(t, err, office.ErrNoValidEmployees)

	_, err = svc.Finalize(context.Background(), contractorA, payroll.FinalizeRequest{Period: week(t)})
	assert.ErrorIs(t, err, office.ErrNoValidEmployees)
}

func TestFinalize_InvalidAdjustment_WritesNothing(t *testing.T) {
	// GIVEN: Two valid entries where the second has an unknown adjustment type
	// WHEN: The run is finalized
	// THEN: It fails and neither row is written

	svc, store := newTestService(t, payroll.RateLatest)
	ctx := context.Background()
	ana := hire(t, store, contractorA, "Ana", "Lopez", "15.00")
	bo := hire(t, store, contractorA, "Bo", "Diaz", "12.00")

	_, err := svc.Finalize(ctx, contractorA, payroll.FinalizeRequest{
		Period: week(t),
		Entries: []payroll.FinalizeEntry{
			{EmployeeID: ana.ID, EmployeeName: "Ana Lopez", GrossPay: dec("10")},
			{EmployeeID: bo.ID, EmployeeName: "Bo Diaz", GrossPay: dec("10"),
				Adjustments: []payroll.Adjustment{{Type: "TIP", Description: "x", Amount: dec("1")}}},
		},
	})
	assert.ErrorIs(t, err, office.ErrValidation)

	history, err := svc.History(ctx, contractorA)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// =============================================================================
// RUN GROUPING TESTS
// =============================================================================

func TestRuns_GroupByPeriodAndPaymentDate(t *testing.T) {
	// GIVEN: Two finalized runs of two employees each
	// WHEN: Runs are listed
	// THEN: Each run has 2 employees and totals equal the sums of its rows

	svc, store := newTestService(t, payroll.RateLatest)
	ctx := context.Background()
	ana := hire(t, store, contractorA, "Ana", "Lopez", "15.00")
	bo := hire(t, store, contractorA, "Bo", "Diaz", "12.00")

	first := office.MustParseDate("2025-03-10")
	second := office.MustParseDate("2025-03-17")
	for _, paid := range []office.Date{first, second} {
		paid := paid
		_, err := svc.Finalize(ctx, contractorA, payroll.FinalizeRequest{
			Period:      week(t),
			PaymentDate: &paid,
			Entries: []payroll.FinalizeEntry{
				{EmployeeID: ana.ID, EmployeeName: "Ana Lopez", GrossPay: dec("100"),
					Adjustments: []payroll.Adjustment{{Type: office.AdjustmentBonus, Description: "b", Amount: dec("5")}}},
				{EmployeeID: bo.ID, EmployeeName: "Bo Diaz", GrossPay: dec("50"),
					Adjustments: []payroll.Adjustment{{Type: office.AdjustmentDeduction, Description: "d", Amount: dec("2.50")}}},
			},
		})
		require.NoError(t, err)
	}

	runs, err := svc.Runs(ctx, contractorA)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	assert.Equal(t, second, runs[0].PaymentDate, "newest payment first")
	for _, run := range runs {
		assert.Equal(t, 2, run.EmployeeCount)
		assert.Equal(t, "150.00", office.FormatMoney(run.TotalGross))
		assert.Equal(t, "5.00", office.FormatMoney(run.TotalBonuses))
		assert.Equal(t, "2.50", office.FormatMoney(run.TotalDeductions))
		assert.Equal(t, "152.50", office.FormatMoney(run.TotalNet))
	}
}

func TestGroupRuns_FirstSeenOrder(t *testing.T) {
	row := func(id, paid string) office.PayrollHistory {
		return office.PayrollHistory{
			ID:             office.PayrollHistoryID(id),
			PayPeriodStart: office.MustParseDate("2025-03-01"),
			PayPeriodEnd:   office.MustParseDate("2025-03-31"),
			PaymentDate:    office.MustParseDate(paid),
			GrossPay:       dec("1"),
			NetPay:         dec("1"),
		}
	}

	runs := payroll.GroupRuns([]office.PayrollHistory{
		row("a", "2025-04-02"),
		row("b", "2025-04-01"),
		row("c", "2025-04-02"),
	})

	require.Len(t, runs, 2)
	assert.Equal(t, "2025-04-02", runs[0].PaymentDate.String())
	require.Len(t, runs[0].Records, 2)
	assert.Equal(t, office.PayrollHistoryID("c"), runs[0].Records[1].ID)
	assert.Equal(t, 1, runs[1].EmployeeCount)

	assert.Empty(t, payroll.GroupRuns(nil))
}

func TestWriteCSV(t *testing.T) {
	runs := payroll.GroupRuns([]office.PayrollHistory{{
		ID:             "h-1",
		EmployeeID:     "e-1",
		EmployeeName:   "Ana Lopez",
		PayPeriodStart: office.MustParseDate("2025-03-10"),
		PayPeriodEnd:   office.MustParseDate("2025-03-16"),
		PaymentDate:    office.MustParseDate("2025-03-17"),
		GrossPay:       dec("180"),
		Bonuses:        dec("20"),
		Deductions:     decimal.Zero,
		NetPay:         dec("200"),
	}})

	var buf bytes.Buffer
	require.NoError(t, payroll.WriteCSV(&buf, runs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "pay_period_start,pay_period_end,payment_date"))
	assert.Equal(t, "2025-03-10,2025-03-16,2025-03-17,e-1,Ana Lopez,180.00,20.00,0.00,200.00,", lines[1])
}
