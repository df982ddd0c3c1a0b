package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stafma/stafma-backend-go/internal/handler/http/middleware"
	"github.com/stafma/stafma-backend-go/internal/pkg/jwt"
)

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Payroll  PayrollHandler
	Advance  AdvanceHandler
	Leave    LeaveHandler
	Employee EmployeeHandler
	Company  CompanyHandler
	Events   EventHandler
}

type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		// SSE authenticates with a query token, so it sits outside the verifier
		r.Get("/events", h.Events.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/events/token", h.Events.GetSSEToken)

			r.Route("/companies", func(r chi.Router) {
				r.With(middleware.AdminOnly).Post("/", h.Company.Create)
				r.Get("/my", h.Company.GetMy)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Post("/", h.Employee.Create)
				r.Get("/{id}", h.Employee.Get)
				r.Put("/{id}/bank-details", h.Employee.UpdateBankDetails)
				r.Patch("/{id}/status", h.Employee.UpdateStatus)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Post("/process", h.Payroll.Process)
				r.Get("/check-processed", h.Payroll.CheckProcessed)
				r.Get("/history", h.Payroll.History)
				r.Get("/summary", h.Payroll.Summary)
				r.Get("/employee/{employeeId}", h.Payroll.EmployeeHistory)
				r.Get("/{id}/payslip", h.Payroll.Payslip)
				r.Get("/transaction/{reference}", h.Payroll.TransactionStatus)

				r.Post("/advance-request", h.Advance.Request)
				r.Get("/advance-requests", h.Advance.List)
				r.Get("/advance-request/{id}", h.Advance.Get)
				r.Patch("/advance-request/{id}", h.Advance.Review)

				// Recomputes a single record outside the once-per-period rule
				r.With(middleware.AdminOnly).Post("/process-employee", h.Payroll.ProcessEmployee)
			})

			r.Route("/leaves", func(r chi.Router) {
				r.Post("/", h.Leave.CreateRequest)
				r.Get("/", h.Leave.ListRequests)
				r.Get("/employee/{employeeId}", h.Leave.ListEmployeeRequests)
				r.Get("/{id}", h.Leave.GetRequest)
				r.Patch("/{id}", h.Leave.UpdateStatus)
			})
		})
	})
	return r
}
