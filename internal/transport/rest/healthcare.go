package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/nexus/internal/healthcare"
	healthcarePostgres "github.com/frahmantamala/nexus/internal/healthcare/postgres"
	"github.com/frahmantamala/nexus/internal/servicejwt"
	"github.com/frahmantamala/nexus/internal/transport"
	"github.com/frahmantamala/nexus/internal/transport/middleware"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"gorm.io/gorm"
)

type HealthcareOptions struct {
	DB               *gorm.DB
	ServiceJWTSecret string
	DepartmentCode   string
	AllowedOrigins   string
	Logger           *slog.Logger
}

// BuildHealthcare wires the Healthcare department microservice router.
// Everything except GET /health requires a gateway service token.
func BuildHealthcare(opts HealthcareOptions) (*chi.Mux, error) {
	lg := opts.Logger
	base := transport.NewBaseHandler(lg)

	service := healthcare.NewService(healthcarePostgres.NewHealthcareRepository(opts.DB), lg)
	handler := healthcare.NewHandler(base, service)
	verifier := servicejwt.NewVerifier(opts.ServiceJWTSecret, opts.DepartmentCode)

	var sqlDB *sql.DB
	if opts.DB != nil {
		if db, err := opts.DB.DB(); err == nil {
			sqlDB = db
		}
	}
	health := NewHealthHandler(sqlDB, "Healthcare Microservice")

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(lg, "/health"))
	router.Use(middleware.RecoveryMiddleware(lg))
	router.Use(middleware.CORS(opts.AllowedOrigins))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusNotFound, "Endpoint not found.")
	})

	router.Get("/health", health.healthCheckHandler)

	router.Group(func(pr chi.Router) {
		pr.Use(servicejwt.Middleware(verifier, lg))

		pr.Route("/internal", func(ir chi.Router) {
			ir.Post("/appointments", handler.ProcessAppointment)
			ir.Patch("/appointments/status", handler.UpdateAppointmentStatus)
			ir.Get("/appointments", handler.ListAppointments)
			ir.Get("/appointments/citizen", handler.ListCitizenAppointments)
			ir.Get("/appointments/{id}", handler.GetAppointment)
			ir.Post("/water-alert", handler.WaterAlert)
		})

		// Registered as full paths so GET /health stays public.
		pr.Post("/health/patients", handler.CreatePatient)
		pr.Get("/health/patients", handler.ListPatients)
		pr.Get("/health/appointments", handler.ListAppointments)
	})

	return router, nil
}
