package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/backoffice/office"
	"github.com/warp/backoffice/payroll"
)

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// GetPayrollSummary previews gross pay for every active employee.
func (h *Handler) GetPayrollSummary(w http.ResponseWriter, r *http.Request) {
	period, err := h.periodFromQuery(r)
	if err != nil {
		h.writeServiceError(w, r, "Invalid period", err)
		return
	}

	summaries, err := h.Payroll.Summary(r.Context(), contractorFrom(r), period)
	if err != nil {
		h.writeServiceError(w, r, "Failed to compute payroll summary", err)
		return
	}

	dtos := make([]PayrollSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = toSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, PayrollSummaryResponse{
		PeriodStart: period.Start.String(),
		PeriodEnd:   period.End.String(),
		Employees:   dtos,
	})
}

// FinalizePayroll writes a payroll run.
func (h *Handler) FinalizePayroll(w http.ResponseWriter, r *http.Request) {
	var req FinalizePayrollRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	finalize, err := req.toFinalize()
	if err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	rows, err := h.Payroll.Finalize(r.Context(), contractorFrom(r), finalize)
	if err != nil {
		h.writeServiceError(w, r, "Failed to save payroll", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHistoryDTOs(rows))
}

// ListPayrollRuns returns history grouped into runs, newest payment first.
func (h *Handler) ListPayrollRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Payroll.Runs(r.Context(), contractorFrom(r))
	if err != nil {
		h.writeServiceError(w, r, "Failed to list payroll runs", err)
		return
	}

	dtos := make([]PayrollRunDTO, len(runs))
	for i, run := range runs {
		dtos[i] = toRunDTO(run)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ExportPayrollRuns streams every payslip as CSV, run by run.
func (h *Handler) ExportPayrollRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Payroll.Runs(r.Context(), contractorFrom(r))
	if err != nil {
		h.writeServiceError(w, r, "Failed to export payroll runs", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="payroll-runs.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := payroll.WriteCSV(w, runs); err != nil {
		h.Logger.WithError(err).Error("payroll export: write failed")
	}
}

// ListPayrollHistory returns individual payslips, newest payment first.
func (h *Handler) ListPayrollHistory(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Payroll.History(r.Context(), contractorFrom(r))
	if err != nil {
		h.writeServiceError(w, r, "Failed to list payroll history", err)
		return
	}
	writeJSON(w, http.StatusOK, toHistoryDTOs(rows))
}

// ListPayrollAdjustments returns the adjustments of one payslip.
func (h *Handler) ListPayrollAdjustments(w http.ResponseWriter, r *http.Request) {
	id := office.PayrollHistoryID(chi.URLParam(r, "id"))

	adjustments, err := h.Payroll.Adjustments(r.Context(), contractorFrom(r), id)
	if err != nil {
		h.writeServiceError(w, r, "Failed to list adjustments", err)
		return
	}

	dtos := make([]PayrollAdjustmentDTO, len(adjustments))
	for i, a := range adjustments {
		dtos[i] = PayrollAdjustmentDTO{
			ID:          a.ID,
			Type:        string(a.Type),
			Description: a.Description,
			Amount:      office.FormatMoney(a.Amount),
			CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (req FinalizePayrollRequest) toFinalize() (payroll.FinalizeRequest, error) {
	period, err := office.ParsePeriod(req.PayPeriodStart, req.PayPeriodEnd)
	if err != nil {
		return payroll.FinalizeRequest{}, err
	}

	out := payroll.FinalizeRequest{Period: period}
	if req.PaymentDate != "" {
		d, err := office.ParseDate(req.PaymentDate)
		if err != nil {
			return payroll.FinalizeRequest{}, err
		}
		out.PaymentDate = &d
	}

	for _, rec := range req.Records {
		gross, err := office.ParseAmount(string(rec.GrossPay))
		if err != nil {
			return payroll.FinalizeRequest{}, err
		}

		entry := payroll.FinalizeEntry{
			EmployeeID:   office.EmployeeID(rec.EmployeeID),
			EmployeeName: rec.EmployeeName,
			GrossPay:     gross,
			Notes:        rec.Notes,
		}
		if rec.NetPay != "" {
			net, err := decimal.NewFromString(string(rec.NetPay))
			if err != nil {
				return payroll.FinalizeRequest{}, office.ErrInvalidAmount
			}
			entry.NetPay = &net
		}
		for _, a := range rec.Adjustments {
			amount, err := office.ParseAmount(string(a.Amount))
			if err != nil {
				return payroll.FinalizeRequest{}, err
			}
			entry.Adjustments = append(entry.Adjustments, payroll.Adjustment{
				Type:        office.AdjustmentType(a.Type),
				Description: a.Description,
				Amount:      amount,
			})
		}
		out.Entries = append(out.Entries, entry)
	}

	return out, nil
}
