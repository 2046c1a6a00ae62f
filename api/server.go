/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     One logrus entry per request (logging.go)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. Timeout:    Per-request deadline inherited by every store call
  5. CORS:       Cross-origin requests for the frontend
  6. Auth:       Bearer token, everything except /api/health

ROUTE GROUPS:
  /api/health           Liveness and database ping (public)
  /api/employees/*      Employee management and pay-rate history
  /api/attendance/*     Attendance week view and upserts
  /api/payroll/*        Summary, finalize, runs, history, CSV export
  /api/clients/*        Client management
  /api/quotations/*     Quotations, items and status history

SEE ALSO:
  - handlers.go: Handler plumbing
  - auth.go: Bearer token middleware
  - cmd/server/serve.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// RouterOptions configures the middleware around the handlers.
type RouterOptions struct {
	Auth           *Authenticator
	CORSOrigins    []string
	RequestTimeout time.Duration
	Logger         logrus.FieldLogger
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = h.Logger
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Group(func(r chi.Router) {
			r.Use(opts.Auth.Middleware)

			// Employee routes
			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.ListEmployees)
				r.Post("/", h.CreateEmployee)
				r.Get("/{id}", h.GetEmployee)
				r.Put("/{id}", h.UpdateEmployee)
				r.Post("/{id}/status", h.SetEmployeeStatus)
				r.Get("/{id}/pay-rates", h.ListPayRates)
			})

			// Attendance routes
			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.GetAttendance)
				r.Put("/", h.SaveAttendance)
				r.Post("/batch", h.BatchSaveAttendance)
			})

			// Payroll routes
			r.Route("/payroll", func(r chi.Router) {
				r.Get("/summary", h.GetPayrollSummary)
				r.Get("/runs", h.ListPayrollRuns)
				r.Post("/runs", h.FinalizePayroll)
				r.Get("/runs/export.csv", h.ExportPayrollRuns)
				r.Get("/history", h.ListPayrollHistory)
				r.Get("/history/{id}/adjustments", h.ListPayrollAdjustments)
			})

			// Client routes
			r.Route("/clients", func(r chi.Router) {
				r.Get("/", h.ListClients)
				r.Post("/", h.CreateClient)
				r.Get("/{id}", h.GetClient)
				r.Put("/{id}", h.UpdateClient)
				r.Delete("/{id}", h.DeleteClient)
			})

			// Quotation routes
			r.Route("/quotations", func(r chi.Router) {
				r.Get("/", h.ListQuotations)
				r.Post("/", h.CreateQuotation)
				r.Get("/next-number", h.NextQuotationNumber)
				r.Get("/{id}", h.GetQuotation)
				r.Put("/{id}", h.UpdateQuotation)
				r.Delete("/{id}", h.DeleteQuotation)
				r.Post("/{id}/status", h.SetQuotationStatus)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found", nil)
	})

	return r
}
