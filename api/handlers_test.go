/*
handlers_test.go - HTTP tests for the back-office API

Tests for:
- Health and bearer-token authentication
- The weekly payroll flow end to end (employee, attendance, summary, finalize)
- Validation, ownership and net pay mismatch error mapping
- Payroll run CSV export
- Clients and quotations lifecycle
*/
package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
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

// Monday 2025-03-17.
var fixedNow = time.Date(2025, time.March, 17, 12, 0, 0, 0, time.UTC)

type testServer struct {
	router http.Handler
	auth   *Authenticator
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	var mu sync.Mutex
	clock := time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
	store, err := sqlite.Open(sqlite.Options{
		DSN: ":memory:",
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			clock = clock.Add(time.Second)
			return clock
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := payroll.NewService(store, payroll.RateLatest).WithClock(func() time.Time { return fixedNow })
	h := NewHandler(store, svc, logger)
	h.now = func() time.Time { return fixedNow }

	auth := NewAuthenticator("test-secret")
	return &testServer{
		router: NewRouter(h, RouterOptions{
			Auth:           auth,
			CORSOrigins:    []string{"http://localhost:5173"},
			RequestTimeout: 5 * time.Second,
		}),
		auth: auth,
	}
}

// do sends body as JSON. An empty contractor sends no token.
func (s *testServer) do(t *testing.T, contractor office.ContractorID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if contractor != "" {
		token, err := s.auth.Issue(contractor, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) createEmployee(t *testing.T, contractor office.ContractorID, first, last, rate string) EmployeeDTO {
	t.Helper()
	rec := s.do(t, contractor, http.MethodPost, "/api/employees", map[string]any{
		"firstName": first,
		"lastName":  last,
		"phone":     "555-0100",
		"rate":      rate,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[EmployeeDTO](t, rec)
}

// workedExample records 8 + 4 hours for Ana Lopez at 15.00 in the week of
// 2025-03-10.
func (s *testServer) workedExample(t *testing.T) EmployeeDTO {
	t.Helper()
	ana := s.createEmployee(t, contractorA, "Ana", "Lopez", "15.00")

	rec := s.do(t, contractorA, http.MethodPut, "/api/attendance", map[string]any{
		"employeeId":  ana.ID,
		"workDate":    "2025-03-10",
		"unitsWorked": 8,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, contractorA, http.MethodPost, "/api/attendance/batch", map[string]any{
		"records": []map[string]any{
			{"employeeId": ana.ID, "workDate": "2025-03-11", "unitsWorked": "4"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return ana
}

func finalizeBody(emp EmployeeDTO, netPay string) map[string]any {
	record := map[string]any{
		"employeeId":   emp.ID,
		"employeeName": emp.FirstName + " " + emp.LastName,
		"grossPay":     "180.00",
		"adjustments": []map[string]any{
			{"type": "BONUS", "description": "Overtime", "amount": 20},
		},
	}
	if netPay != "" {
		record["netPay"] = netPay
	}
	return map[string]any{
		"payPeriodStart": "2025-03-10",
		"payPeriodEnd":   "2025-03-16",
		"paymentDate":    "2025-03-17",
		"records":        []map[string]any{record},
	}
}

// =============================================================================
// HEALTH & AUTH TESTS
// =============================================================================

func TestHealth_IsPublic(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "", http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "2025-03-17T12:00:00Z", body["timestamp"])
}

func TestAuth_MissingToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "", http.MethodGet, "/api/employees", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ForeignSecretRejected(t *testing.T) {
	s := newTestServer(t)
	token, err := NewAuthenticator("other-secret").Issue(contractorA, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ExpiredToken(t *testing.T) {
	s := newTestServer(t)
	token, err := s.auth.Issue(contractorA, -time.Minute)
	require.NoError(t, err)

	_, err = s.auth.Verify(token)
	assert.ErrorIs(t, err, office.ErrUnauthorized)
}

// =============================================================================
// PAYROLL FLOW TESTS
// =============================================================================

func TestPayrollFlow_WorkedExample(t *testing.T) {
	// GIVEN: Ana at 15.00 with 8 + 4 hours in the week of 2025-03-10
	s := newTestServer(t)
	ana := s.workedExample(t)
	assert.Equal(t, "15.00", *ana.CurrentRate)

	// WHEN: The summary is requested
	rec := s.do(t, contractorA, http.MethodGet, "/api/payroll/summary?start=2025-03-10&end=2025-03-16", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody[PayrollSummaryResponse](t, rec)

	// THEN: Gross pay is 12 × 15.00
	require.Len(t, summary.Employees, 1)
	assert.Equal(t, json.Number("12"), summary.Employees[0].UnitsWorked)
	assert.Equal(t, "180.00", summary.Employees[0].GrossPay)
	assert.Equal(t, "180.00", summary.Employees[0].NetPay)

	// WHEN: The run is finalized with a 20.00 bonus
	rec = s.do(t, contractorA, http.MethodPost, "/api/payroll/runs", finalizeBody(ana, "200.00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rows := decodeBody[[]PayrollHistoryDTO](t, rec)

	// THEN: One payslip with net 200.00
	require.Len(t, rows, 1)
	assert.Equal(t, "20.00", rows[0].Bonuses)
	assert.Equal(t, "0.00", rows[0].Deductions)
	assert.Equal(t, "200.00", rows[0].NetPay)
	assert.Equal(t, "2025-03-17", rows[0].PaymentDate)

	// AND: The run and its adjustments are listed
	rec = s.do(t, contractorA, http.MethodGet, "/api/payroll/runs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	raw := rec.Body.Bytes()
	runs := decodeBody[[]PayrollRunDTO](t, rec)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].EmployeeCount)
	assert.Equal(t, "200.00", runs[0].TotalNet)
	require.Len(t, runs[0].Employees, 1)
	assert.Equal(t, rows[0].ID, runs[0].Employees[0].ID)
	assert.Equal(t, "200.00", runs[0].Employees[0].NetPay)

	// AND: Members are sent under "employees"
	var wire []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &wire))
	require.Len(t, wire, 1)
	assert.Contains(t, wire[0], "employees")
	assert.NotContains(t, wire[0], "records")

	rec = s.do(t, contractorA, http.MethodGet, "/api/payroll/history/"+rows[0].ID+"/adjustments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	adjustments := decodeBody[[]PayrollAdjustmentDTO](t, rec)
	require.Len(t, adjustments, 1)
	assert.Equal(t, "BONUS", adjustments[0].Type)
	assert.Equal(t, "20.00", adjustments[0].Amount)
}

func TestPayrollSummary_MonthPreset(t *testing.T) {
	s := newTestServer(t)
	s.workedExample(t)

	rec := s.do(t, contractorA, http.MethodGet, "/api/payroll/summary?period=month&date=2025-03-20", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody[PayrollSummaryResponse](t, rec)
	assert.Equal(t, "2025-03-01", summary.PeriodStart)
	assert.Equal(t, "2025-03-31", summary.PeriodEnd)
	require.Len(t, summary.Employees, 1)
	assert.Equal(t, "180.00", summary.Employees[0].GrossPay)
}

func TestPayrollSummary_StartDateAliases(t *testing.T) {
	s := newTestServer(t)
	s.workedExample(t)

	rec := s.do(t, contractorA, http.MethodGet, "/api/payroll/summary?startDate=2025-03-10&endDate=2025-03-16", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decodeBody[PayrollSummaryResponse](t, rec)
	assert.Equal(t, "2025-03-10", summary.PeriodStart)
	assert.Equal(t, "2025-03-16", summary.PeriodEnd)
	require.Len(t, summary.Employees, 1)
	assert.Equal(t, "180.00", summary.Employees[0].GrossPay)
}

func TestPayrollSummary_InvalidPeriod(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, contractorA, http.MethodGet, "/api/payroll/summary?start=2025-03-16&end=2025-03-10", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinalize_NetPayMismatch(t *testing.T) {
	// GIVEN: A caller net pay that ignores the bonus
	s := newTestServer(t)
	ana := s.workedExample(t)

	// WHEN: Finalizing
	rec := s.do(t, contractorA, http.MethodPost, "/api/payroll/runs", finalizeBody(ana, "180.00"))

	// THEN: 422 with the computed value, nothing written
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	body := decodeBody[struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}](t, rec)
	assert.Equal(t, "net_pay_mismatch", body.Code)
	assert.Equal(t, "200.00", body.Details["computed"])

	rec = s.do(t, contractorA, http.MethodGet, "/api/payroll/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[[]PayrollHistoryDTO](t, rec))
}

func TestFinalize_ForeignEmployeesOnly(t *testing.T) {
	s := newTestServer(t)
	ana := s.workedExample(t)

	rec := s.do(t, contractorB, http.MethodPost, "/api/payroll/runs", finalizeBody(ana, ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportPayrollRuns_CSV(t *testing.T) {
	s := newTestServer(t)
	ana := s.workedExample(t)
	rec := s.do(t, contractorA, http.MethodPost, "/api/payroll/runs", finalizeBody(ana, ""))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, contractorA, http.MethodGet, "/api/payroll/runs/export.csv", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "pay_period_start,"))
	assert.Contains(t, lines[1], "Ana Lopez")
	assert.Contains(t, lines[1], "200.00")
}

// =============================================================================
// EMPLOYEE & ATTENDANCE TESTS
// =============================================================================

func TestCreateEmployee_ValidationErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, contractorA, http.MethodPost, "/api/employees", map[string]any{
		"lastName": "Lopez",
		"phone":    "555-0100",
		"rate":     "-5",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[struct {
		Code    string              `json:"code"`
		Details []office.FieldError `json:"details"`
	}](t, rec)
	assert.Equal(t, "validation", body.Code)
	assert.Contains(t, body.Details, office.FieldError{Field: "firstName", Rule: "required"})
	assert.Contains(t, body.Details, office.FieldError{Field: "rate", Rule: "nonnegative"})
}

func TestCreateEmployee_MalformedBody(t *testing.T) {
	s := newTestServer(t)
	token, err := s.auth.Issue(contractorA, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/employees", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployee_ForeignContractorGetsNotFound(t *testing.T) {
	// GIVEN: An employee of contractor A
	s := newTestServer(t)
	ana := s.createEmployee(t, contractorA, "Ana", "Lopez", "15.00")

	// WHEN/THEN: Contractor B cannot read it or record attendance for it
	rec := s.do(t, contractorB, http.MethodGet, "/api/employees/"+ana.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, contractorB, http.MethodPut, "/api/attendance", map[string]any{
		"employeeId":  ana.ID,
		"workDate":    "2025-03-10",
		"unitsWorked": 8,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateEmployee_RateChangeAppendsHistory(t *testing.T) {
	s := newTestServer(t)
	ana := s.createEmployee(t, contractorA, "Ana", "Lopez", "15.00")

	rec := s.do(t, contractorA, http.MethodPut, "/api/employees/"+ana.ID, map[string]any{
		"rate":     18,
		"bankName": "Banco Uno",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[EmployeeDTO](t, rec)
	assert.Equal(t, "18.00", *updated.CurrentRate)
	assert.Equal(t, "Banco Uno", updated.BankName)
	assert.Equal(t, "Ana", updated.FirstName)

	rec = s.do(t, contractorA, http.MethodPut, "/api/employees/"+ana.ID, map[string]any{
		"accountAlias": "ana.lopez",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated = decodeBody[EmployeeDTO](t, rec)
	assert.Equal(t, "Banco Uno", updated.BankName, "absent bank fields are kept")
	assert.Equal(t, "ana.lopez", updated.AccountAlias)

	rec = s.do(t, contractorA, http.MethodGet, "/api/employees/"+ana.ID+"/pay-rates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rates := decodeBody[[]PayRateDTO](t, rec)
	require.NotEmpty(t, rates)
	assert.Equal(t, "18.00", rates[0].Rate)
}

func TestSetEmployeeStatus_InactiveRejectsAttendance(t *testing.T) {
	s := newTestServer(t)
	ana := s.createEmployee(t, contractorA, "Ana", "Lopez", "15.00")

	rec := s.do(t, contractorA, http.MethodPost, "/api/employees/"+ana.ID+"/status", map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decodeBody[EmployeeDTO](t, rec).IsActive)

	rec = s.do(t, contractorA, http.MethodPut, "/api/attendance", map[string]any{
		"employeeId":  ana.ID,
		"workDate":    "2025-03-10",
		"unitsWorked": 8,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAttendance_DefaultsToCurrentWeek(t *testing.T) {
	// GIVEN: Today is Monday 2025-03-17 and Ana worked on the 18th
	s := newTestServer(t)
	ana := s.createEmployee(t, contractorA, "Ana", "Lopez", "15.00")
	rec := s.do(t, contractorA, http.MethodPut, "/api/attendance", map[string]any{
		"employeeId":  ana.ID,
		"workDate":    "2025-03-18",
		"unitsWorked": 7.5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// WHEN: The week view is requested without a period
	rec = s.do(t, contractorA, http.MethodGet, "/api/attendance", nil)

	// THEN: The record shows with the hourly unit
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeBody[[]EmployeeAttendanceDTO](t, rec)
	require.Len(t, rows, 1)
	assert.Equal(t, "hours", rows[0].Unit)
	require.Len(t, rows[0].Records, 1)
	assert.Equal(t, json.Number("7.5"), rows[0].Records[0].UnitsWorked)
}

func TestBatchSaveAttendance_SkipsForeignEmployees(t *testing.T) {
	s := newTestServer(t)
	ana := s.createEmployee(t, contractorA, "Ana", "Lopez", "15.00")
	cy := s.createEmployee(t, contractorB, "Cy", "Ruiz", "10.00")

	rec := s.do(t, contractorA, http.MethodPost, "/api/attendance/batch", map[string]any{
		"records": []map[string]any{
			{"employeeId": ana.ID, "workDate": "2025-03-10", "unitsWorked": 8},
			{"employeeId": cy.ID, "workDate": "2025-03-10", "unitsWorked": 8},
		},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[BatchAttendanceResponse](t, rec)
	assert.Len(t, body.Saved, 1)
	assert.Equal(t, 1, body.Skipped)
	assert.Equal(t, 0, body.Failed)
}

// =============================================================================
// CLIENT & QUOTATION TESTS
// =============================================================================

func TestQuotationFlow(t *testing.T) {
	s := newTestServer(t)

	// GIVEN: A client
	rec := s.do(t, contractorA, http.MethodPost, "/api/clients", map[string]any{"name": "Acme", "email": "ops@acme.test"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	client := decodeBody[ClientDTO](t, rec)

	rec = s.do(t, contractorA, http.MethodGet, "/api/quotations/next-number", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", decodeBody[NextNumberResponse](t, rec).Number)

	// WHEN: A quotation is created with client-side totals omitted
	rec = s.do(t, contractorA, http.MethodPost, "/api/quotations", map[string]any{
		"clientId":        client.ID,
		"quotationNumber": "1",
		"issueDate":       "2025-03-17",
		"validityDays":    15,
		"items": []map[string]any{
			{"description": "Tiling", "quantity": 2, "unitPrice": "10.50"},
			{"description": "Grout", "quantity": "1", "unitPrice": 5},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	q := decodeBody[QuotationDTO](t, rec)

	// THEN: Totals are computed server-side
	assert.Equal(t, "DRAFT", q.Status)
	assert.Equal(t, "26.00", q.Subtotal)
	assert.Equal(t, "26.00", q.Total)
	require.Len(t, q.Items, 2)
	assert.Equal(t, "Tiling", q.Items[0].Description)
	assert.Equal(t, "21.00", q.Items[0].LineTotal)
	require.NotNil(t, q.Client)
	assert.Equal(t, "Acme", q.Client.Name)

	rec = s.do(t, contractorA, http.MethodGet, "/api/quotations/next-number", nil)
	assert.Equal(t, "2", decodeBody[NextNumberResponse](t, rec).Number)

	// WHEN: The status changes
	rec = s.do(t, contractorA, http.MethodPost, "/api/quotations/"+q.ID+"/status", map[string]any{"status": "APPROVED"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decodeBody[QuotationDTO](t, rec)

	// THEN: The change is recorded
	assert.Equal(t, "APPROVED", approved.Status)
	actions := make([]string, len(approved.History))
	for i, h := range approved.History {
		actions[i] = h.Action
	}
	assert.Contains(t, actions, "quotation created")
	assert.Contains(t, actions, "status changed to APPROVED")

	rec = s.do(t, contractorA, http.MethodGet, "/api/quotations?status=APPROVED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]QuotationDTO](t, rec), 1)

	rec = s.do(t, contractorA, http.MethodGet, "/api/quotations?status=SENT", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// AND: The client cannot be deleted while quoted
	rec = s.do(t, contractorA, http.MethodDelete, "/api/clients/"+client.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, contractorA, http.MethodDelete, "/api/quotations/"+q.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, contractorA, http.MethodGet, "/api/quotations/"+q.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, contractorA, http.MethodDelete, "/api/clients/"+client.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateQuotation_ForeignClient(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, contractorB, http.MethodPost, "/api/clients", map[string]any{"name": "Other"})
	require.Equal(t, http.StatusCreated, rec.Code)
	foreign := decodeBody[ClientDTO](t, rec)

	rec = s.do(t, contractorA, http.MethodPost, "/api/quotations", map[string]any{
		"clientId":        foreign.ID,
		"quotationNumber": "1",
		"issueDate":       "2025-03-17",
		"items":           []map[string]any{{"description": "x", "quantity": 1, "unitPrice": 1}},
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListClients_Search(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"Acme Tiles", "Beta Roofing"} {
		rec := s.do(t, contractorA, http.MethodPost, "/api/clients", map[string]any{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := s.do(t, contractorA, http.MethodGet, "/api/clients?q=acme", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	clients := decodeBody[[]ClientDTO](t, rec)
	require.Len(t, clients, 1)
	assert.Equal(t, "Acme Tiles", clients[0].Name)
}
