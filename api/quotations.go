package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/backoffice/office"
)

// =============================================================================
// QUOTATION HANDLERS
// =============================================================================

// ListQuotations supports ?q= (number or internal notes), ?status= and
// ?client_id= filters.
func (h *Handler) ListQuotations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := office.QuotationFilter{
		Search:   q.Get("q"),
		Status:   office.QuotationStatus(q.Get("status")),
		ClientID: office.ClientID(q.Get("client_id")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		h.writeServiceError(w, r, "Invalid status", &office.ValidationError{
			Fields: []office.FieldError{{Field: "status", Rule: "oneof"}},
		})
		return
	}

	quotations, err := h.Store.ListQuotations(r.Context(), contractorFrom(r), filter)
	if err != nil {
		h.writeServiceError(w, r, "Failed to list quotations", err)
		return
	}

	dtos := make([]QuotationDTO, len(quotations))
	for i, qd := range quotations {
		dtos[i] = toQuotationDTO(qd)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// NextQuotationNumber proposes the next quotation number.
func (h *Handler) NextQuotationNumber(w http.ResponseWriter, r *http.Request) {
	next, err := h.Store.NextQuotationNumber(r.Context(), contractorFrom(r))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get next quotation number", err)
		return
	}
	writeJSON(w, http.StatusOK, NextNumberResponse{Number: next})
}

// GetQuotation returns a quotation with its client, items and history.
func (h *Handler) GetQuotation(w http.ResponseWriter, r *http.Request) {
	q, err := h.Store.GetQuotation(r.Context(), contractorFrom(r), office.QuotationID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get quotation", err)
		return
	}
	writeJSON(w, http.StatusOK, toQuotationDTO(*q))
}

func (h *Handler) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	var req CreateQuotationRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	issued, _ := office.ParseDate(req.IssueDate)
	q, err := h.Store.CreateQuotation(r.Context(), office.Quotation{
		ContractorID:       contractorFrom(r),
		ClientID:           office.ClientID(req.ClientID),
		QuotationNumber:    req.QuotationNumber,
		IssueDate:          issued,
		ValidityDays:       req.ValidityDays,
		TermsAndConditions: req.TermsAndConditions,
		InternalNotes:      req.InternalNotes,
	}, toQuotationItems(req.Items))
	if err != nil {
		h.writeServiceError(w, r, "Failed to create quotation", err)
		return
	}
	writeJSON(w, http.StatusCreated, toQuotationDTO(*q))
}

func (h *Handler) UpdateQuotation(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuotationRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	upd := office.QuotationUpdate{
		QuotationNumber:    req.QuotationNumber,
		ValidityDays:       req.ValidityDays,
		TermsAndConditions: req.TermsAndConditions,
		InternalNotes:      req.InternalNotes,
		Items:              toQuotationItems(req.Items),
	}
	if req.ClientID != nil {
		id := office.ClientID(*req.ClientID)
		upd.ClientID = &id
	}
	if req.IssueDate != nil && *req.IssueDate != "" {
		d, _ := office.ParseDate(*req.IssueDate)
		upd.IssueDate = &d
	}

	q, err := h.Store.UpdateQuotation(r.Context(), contractorFrom(r), office.QuotationID(chi.URLParam(r, "id")), upd)
	if err != nil {
		h.writeServiceError(w, r, "Failed to update quotation", err)
		return
	}
	writeJSON(w, http.StatusOK, toQuotationDTO(*q))
}

// SetQuotationStatus changes the status and records the change.
func (h *Handler) SetQuotationStatus(w http.ResponseWriter, r *http.Request) {
	var req QuotationStatusRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	q, err := h.Store.SetQuotationStatus(r.Context(), contractorFrom(r),
		office.QuotationID(chi.URLParam(r, "id")), office.QuotationStatus(req.Status))
	if err != nil {
		h.writeServiceError(w, r, "Failed to update quotation status", err)
		return
	}
	writeJSON(w, http.StatusOK, toQuotationDTO(*q))
}

// DeleteQuotation removes a quotation with its items and history.
func (h *Handler) DeleteQuotation(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteQuotation(r.Context(), contractorFrom(r), office.QuotationID(chi.URLParam(r, "id"))); err != nil {
		h.writeServiceError(w, r, "Failed to delete quotation", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
