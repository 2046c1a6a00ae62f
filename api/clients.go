package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/backoffice/office"
)

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients returns the contractor's clients; ?q= filters by name, email
// or phone.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients(r.Context(), contractorFrom(r), r.URL.Query().Get("q"))
	if err != nil {
		h.writeServiceError(w, r, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetClient(r.Context(), contractorFrom(r), office.ClientID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeServiceError(w, r, "Failed to get client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(c))
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req CreateClientRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	c, err := h.Store.CreateClient(r.Context(), office.Client{
		ContractorID: contractorFrom(r),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
	})
	if err != nil {
		h.writeServiceError(w, r, "Failed to create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientDTO(c))
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	var req UpdateClientRequest
	if err := h.decode(r, &req); err != nil {
		h.writeServiceError(w, r, "Invalid request", err)
		return
	}

	c, err := h.Store.UpdateClient(r.Context(), contractorFrom(r), office.ClientID(chi.URLParam(r, "id")), office.ClientUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		h.writeServiceError(w, r, "Failed to update client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(c))
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteClient(r.Context(), contractorFrom(r), office.ClientID(chi.URLParam(r, "id"))); err != nil {
		h.writeServiceError(w, r, "Failed to delete client", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
