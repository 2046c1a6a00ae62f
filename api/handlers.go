/*
handlers.go - HTTP API handlers for the contractor back office

PURPOSE:
  Exposes the store and the payroll engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:   employees.go
  Attendance:  attendance.go
  Payroll:     payroll.go
  Clients:     clients.go
  Quotations:  quotations.go
  Health:      GET /api/health (public)

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Database access, always scoped by the caller's contractor ID
  - Payroll: Summary, finalize and run grouping
  - Logger: Server-side failures only

REQUEST FLOW:
  1. Resolve contractor from the bearer token (auth.go)
  2. Decode and validate input (validate.go)
  3. Call the store or the payroll service
  4. Serialize response (dto.go)
  5. Map errors through writeServiceError

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Missing or invalid token
  - 404: Resource not found or owned by another contractor
  - 409: Duplicate email, client still referenced
  - 422: Net pay does not match the adjustments
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/warp/backoffice/office"
	"github.com/warp/backoffice/payroll"
	"github.com/warp/backoffice/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Payroll *payroll.Service
	Logger  logrus.FieldLogger

	validate *validator.Validate
	now      func() time.Time
}

// NewHandler creates a new handler over the given store and payroll service.
func NewHandler(store *sqlite.Store, svc *payroll.Service, logger logrus.FieldLogger) *Handler {
	return &Handler{
		Store:    store,
		Payroll:  svc,
		Logger:   logger,
		validate: newValidator(),
		now:      time.Now,
	}
}

// Health reports liveness and database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.Store.Ping(r.Context()); err != nil {
		h.Logger.WithError(err).Error("health check: database unreachable")
		status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, map[string]string{
		"status":    status,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps domain errors to HTTP responses. Anything
// unrecognized is logged and reported as 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, message string, err error) {
	var verr *office.ValidationError
	var mismatch *office.NetPayMismatchError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Validation failed",
			Code:    "validation",
			Details: verr.Fields,
		})
	case errors.As(err, &mismatch):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: "Net pay does not match adjustments",
			Code:  "net_pay_mismatch",
			Details: map[string]string{
				"employeeId": string(mismatch.EmployeeID),
				"submitted":  office.FormatMoney(mismatch.Submitted),
				"computed":   office.FormatMoney(mismatch.Computed),
			},
		})
	case office.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, office.ErrDuplicateEmail), errors.Is(err, office.ErrClientInUse):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, office.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error(), nil)
	case office.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.WithError(err).WithField("path", r.URL.Path).Error(message)
		writeError(w, http.StatusInternalServerError, message, nil)
	}
}
