/*
Package scenarios loads demo data for a contractor.

PURPOSE:
  Provides pre-built scenarios that populate the database with realistic
  data for demos and manual testing. Each scenario creates employees,
  attendance, clients or quotations that exercise a specific feature.

AVAILABLE SCENARIOS:
  weekly-crew:  Hourly, daily and sub-contractor employees with attendance
                for Monday to Friday of the week before the anchor date
  rate-change:  One employee paid 10.00 from the first of the month and
                12.00 from the anchor date
  quotes:       Two clients and quotations in several statuses

HOW SCENARIOS WORK:
  1. Create employees with their initial rate
  2. Record attendance relative to the anchor date
  3. Optionally add clients and quotations

  Scenarios only add rows; they never reset existing data.

USAGE:
  backoffice seed --contractor=<id> --scenario=weekly-crew

SEE ALSO:
  - cmd/server/seed.go: CLI entry point
*/
package scenarios

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/office"
	"github.com/warp/backoffice/store/sqlite"
)

// Scenario describes a loadable data set.
type Scenario struct {
	ID          string
	Name        string
	Description string
	load        func(ctx context.Context, s *sqlite.Store, contractorID office.ContractorID, anchor office.Date) error
}

var scenarios = []Scenario{
	{
		ID:          "weekly-crew",
		Name:        "Weekly Crew",
		Description: "Three employees of different types with one week of attendance",
		load:        loadWeeklyCrew,
	},
	{
		ID:          "rate-change",
		Name:        "Rate Change",
		Description: "An employee whose pay rate changed during the month",
		load:        loadRateChange,
	},
	{
		ID:          "quotes",
		Name:        "Quotes",
		Description: "Clients with quotations in draft, approved and rejected states",
		load:        loadQuotes,
	},
}

// List returns the available scenarios.
func List() []Scenario {
	out := make([]Scenario, len(scenarios))
	copy(out, scenarios)
	return out
}

// Load runs the scenario for the contractor. Dates are placed relative to
// anchor, usually today.
func Load(ctx context.Context, s *sqlite.Store, contractorID office.ContractorID, id string, anchor office.Date) error {
	for _, sc := range scenarios {
		if sc.ID == id {
			if err := sc.load(ctx, s, contractorID, anchor); err != nil {
				return fmt.Errorf("scenario %s: %w", id, err)
			}
			return nil
		}
	}
	return fmt.Errorf("unknown scenario: %s", id)
}

// =============================================================================
// LOADERS
// =============================================================================

func loadWeeklyCrew(ctx context.Context, s *sqlite.Store, contractorID office.ContractorID, anchor office.Date) error {
	crew := []struct {
		first, last string
		typ         office.EmploymentType
		rate        string
		units       string
	}{
		{"Ana", "Lopez", office.EmploymentHourly, "15.00", "8"},
		{"Bruno", "Diaz", office.EmploymentDaily, "120.00", "1"},
		{"Carla", "Ruiz", office.EmploymentSubContractor, "45.50", "2.5"},
	}

	week := office.WeekOf(anchor.AddDays(-7))
	var inputs []office.AttendanceInput
	for _, c := range crew {
		emp, err := s.CreateEmployee(ctx, office.Employee{
			ContractorID:   contractorID,
			FirstName:      c.first,
			LastName:       c.last,
			Phone:          "555-0100",
			EmploymentType: c.typ,
		}, decimal.RequireFromString(c.rate), nil)
		if err != nil {
			return err
		}

		// Monday to Friday
		for d := 0; d < 5; d++ {
			inputs = append(inputs, office.AttendanceInput{
				EmployeeID:  emp.ID,
				WorkDate:    week.Start.AddDays(d),
				UnitsWorked: decimal.RequireFromString(c.units),
				Status:      office.StatusPresent,
			})
		}
	}

	result, err := s.BatchSaveAttendance(ctx, contractorID, inputs)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d attendance rows failed", result.Failed)
	}
	return nil
}

func loadRateChange(ctx context.Context, s *sqlite.Store, contractorID office.ContractorID, anchor office.Date) error {
	month := office.MonthOf(anchor)

	emp, err := s.CreateEmployee(ctx, office.Employee{
		ContractorID: contractorID,
		FirstName:    "Diego",
		LastName:     "Sosa",
		Phone:        "555-0101",
	}, decimal.RequireFromString("12.00"), nil)
	if err != nil {
		return err
	}

	if month.Start.Before(anchor) {
		if err := s.PutPayRate(ctx, contractorID, emp.ID, decimal.RequireFromString("10.00"), month.Start); err != nil {
			return err
		}
	}

	var inputs []office.AttendanceInput
	for d := month.Start; d.BeforeOrEqual(anchor); d = d.AddDays(1) {
		inputs = append(inputs, office.AttendanceInput{
			EmployeeID:  emp.ID,
			WorkDate:    d,
			UnitsWorked: decimal.NewFromInt(6),
		})
	}
	_, err = s.BatchSaveAttendance(ctx, contractorID, inputs)
	return err
}

func loadQuotes(ctx context.Context, s *sqlite.Store, contractorID office.ContractorID, anchor office.Date) error {
	acme, err := s.CreateClient(ctx, office.Client{ContractorID: contractorID, Name: "Acme Tiles", Email: "ops@acme.test"})
	if err != nil {
		return err
	}
	beta, err := s.CreateClient(ctx, office.Client{ContractorID: contractorID, Name: "Beta Roofing", Phone: "555-0199"})
	if err != nil {
		return err
	}

	validity := 15
	quotes := []struct {
		client office.ClientID
		status office.QuotationStatus
		items  []office.QuotationItem
	}{
		{acme.ID, office.QuotationDraft, []office.QuotationItem{
			{Description: "Floor tiling (m2)", Quantity: decimal.NewFromInt(40), UnitPrice: decimal.RequireFromString("18.75")},
		}},
		{acme.ID, office.QuotationApproved, []office.QuotationItem{
			{Description: "Bathroom wall tiling", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("950.00")},
			{Description: "Grout and sealant", Quantity: decimal.NewFromInt(3), UnitPrice: decimal.RequireFromString("22.40")},
		}},
		{beta.ID, office.QuotationRejected, []office.QuotationItem{
			{Description: "Roof inspection", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("180.00")},
		}},
	}

	for _, q := range quotes {
		number, err := s.NextQuotationNumber(ctx, contractorID)
		if err != nil {
			return err
		}
		created, err := s.CreateQuotation(ctx, office.Quotation{
			ContractorID:    contractorID,
			ClientID:        q.client,
			QuotationNumber: number,
			IssueDate:       anchor,
			ValidityDays:    &validity,
		}, q.items)
		if err != nil {
			return err
		}
		if q.status != office.QuotationDraft {
			if _, err := s.SetQuotationStatus(ctx, contractorID, created.ID, q.status); err != nil {
				return err
			}
		}
	}
	return nil
}
