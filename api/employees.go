package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/backoffice/office"
)

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees of the contractor, newest first.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context(), contractorFrom(r))
	if err != nil {
		h.writeServiceError(w, r, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee with its current rate and bank details.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := office.EmployeeID(chi.URLParam(r, "id"))

	detail, err := h.Store.GetEmployee(r.Context(), contractorFrom(r), id)
	if err != nil {
		h.writeServiceError(w, r, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDetailDTO(detail))
}

// CreateEmployee creates an employee with its initial pay rate.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	rate, _ := office.ParseAmount(string(req.Rate))
	emp := office.Employee{
		ContractorID:     contractorFrom(r),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		NationalID:       req.NationalID,
		JobCategory:      req.JobCategory,
		EmploymentType:   office.EmploymentType(req.EmploymentType),
		PayFrequency:     office.PayFrequency(req.PayFrequency),
		InsuranceDetails: req.InsuranceDetails,
	}
	if req.HireDate != "" {
		d, _ := office.ParseDate(req.HireDate)
		emp.HireDate = &d
	}
	bank := &office.BankDetails{BankName: req.BankName, AccountAlias: req.AccountAlias, CBUCVU: req.CBUCVU}

	created, err := h.Store.CreateEmployee(r.Context(), emp, office.RoundMoney(rate), bank)
	if err != nil {
		h.writeServiceError(w, r, "Failed to create employee", err)
		return
	}

	detail, err := h.Store.GetEmployee(r.Context(), created.ContractorID, created.ID)
	if err != nil {
		h.writeServiceError(w, r, "Failed to load employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDetailDTO(detail))
}

// UpdateEmployee applies a partial update.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id := office.EmployeeID(chi.URLParam(r, "id"))
	contractorID := contractorFrom(r)

	var req UpdateEmployeeRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	if _, err := h.Store.UpdateEmployee(r.Context(), contractorID, id, req.toUpdate()); err != nil {
		h.writeServiceError(w, r, "Failed to update employee", err)
		return
	}

	detail, err := h.Store.GetEmployee(r.Context(), contractorID, id)
	if err != nil {
		h.writeServiceError(w, r, "Failed to load employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDetailDTO(detail))
}

// SetEmployeeStatus activates or deactivates an employee. Employees with
// payroll history are never deleted.
func (h *Handler) SetEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	id := office.EmployeeID(chi.URLParam(r, "id"))

	var req SetStatusRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	emp, err := h.Store.SetEmployeeActive(r.Context(), contractorFrom(r), id, *req.IsActive)
	if err != nil {
		h.writeServiceError(w, r, "Failed to update employee status", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// ListPayRates returns an employee's rate history, newest first.
func (h *Handler) ListPayRates(w http.ResponseWriter, r *http.Request) {
	id := office.EmployeeID(chi.URLParam(r, "id"))

	rates, err := h.Store.ListPayRates(r.Context(), contractorFrom(r), id)
	if err != nil {
		h.writeServiceError(w, r, "Failed to list pay rates", err)
		return
	}

	dtos := make([]PayRateDTO, len(rates))
	for i, pr := range rates {
		dtos[i] = PayRateDTO{
			ID:            pr.ID,
			Rate:          office.FormatMoney(pr.Rate),
			EffectiveDate: pr.EffectiveDate.String(),
			CreatedAt:     pr.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// toUpdate converts the request. Absent fields are left unchanged.
func (req UpdateEmployeeRequest) toUpdate() office.EmployeeUpdate {
	upd := office.EmployeeUpdate{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		NationalID:       req.NationalID,
		JobCategory:      req.JobCategory,
		InsuranceDetails: req.InsuranceDetails,
	}
	if req.EmploymentType != nil {
		t := office.EmploymentType(*req.EmploymentType)
		upd.EmploymentType = &t
	}
	if req.PayFrequency != nil {
		f := office.PayFrequency(*req.PayFrequency)
		upd.PayFrequency = &f
	}
	if req.HireDate != nil {
		d, _ := office.ParseDate(*req.HireDate)
		upd.HireDate = &d
	}
	if req.Rate != nil {
		rate, _ := office.ParseAmount(string(*req.Rate))
		rate = office.RoundMoney(rate)
		upd.Rate = &rate
	}
	if req.BankName != nil || req.AccountAlias != nil || req.CBUCVU != nil {
		upd.Bank = &office.BankUpdate{
			BankName:     req.BankName,
			AccountAlias: req.AccountAlias,
			CBUCVU:       req.CBUCVU,
		}
	}
	return upd
}
