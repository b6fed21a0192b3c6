/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     Structured request logging (httplog, ECS field names)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CleanPath:  Collapse double slashes before routing
  5. CORS:       Cross-origin requests for the admin console
  6. Heartbeat:  GET /health for load balancers

ROUTE GROUPS:
  /api/employees/*      Employees, their attendance, allocations and balances
  /api/allocations/*    Allocation edits
  /api/leave-types/*    Leave type catalogue
  /api/reports/*        Organisation-wide reports
  /api/import           Document import
  /api/scenarios/*      Demo scenarios and reset (dev only)

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions configures the middleware around the handlers.
type RouterOptions struct {
	CORSOrigins []string
	LogLevel    slog.Level
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(h.Logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Heartbeat("/health"))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Delete("/{id}", h.DeleteEmployee)

			r.Get("/{id}/attendance", h.ListAttendance)
			r.Put("/{id}/attendance/{date}", h.SaveAttendance)
			r.Delete("/{id}/attendance/{date}", h.DeleteAttendance)

			r.Get("/{id}/allocations", h.ListAllocations)
			r.Get("/{id}/balances", h.GetBalances)
			r.Get("/{id}/remaining", h.GetRemaining)
			r.Get("/{id}/ledger", h.GetLedger)
		})

		// Allocation routes
		r.Route("/allocations", func(r chi.Router) {
			r.Post("/", h.CreateAllocation)
			r.Put("/{id}", h.UpdateAllocation)
			r.Delete("/{id}", h.DeleteAllocation)
		})

		// Leave type routes
		r.Route("/leave-types", func(r chi.Router) {
			r.Get("/", h.ListLeaveTypes)
			r.Post("/", h.CreateLeaveType)
			r.Delete("/{id}", h.DeleteLeaveType)
		})

		r.Get("/reports/leave-balances", h.GetLeaveBalanceReport)
		r.Post("/import", h.ImportDocuments)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
