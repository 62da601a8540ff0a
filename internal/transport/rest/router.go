package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/nexus/internal"
	"github.com/frahmantamala/nexus/internal/access"
	"github.com/frahmantamala/nexus/internal/aiengine"
	"github.com/frahmantamala/nexus/internal/auth"
	authPostgres "github.com/frahmantamala/nexus/internal/auth/postgres"
	"github.com/frahmantamala/nexus/internal/catalog"
	catalogPostgres "github.com/frahmantamala/nexus/internal/catalog/postgres"
	"github.com/frahmantamala/nexus/internal/core/events"
	"github.com/frahmantamala/nexus/internal/deptclient"
	"github.com/frahmantamala/nexus/internal/request"
	requestPostgres "github.com/frahmantamala/nexus/internal/request/postgres"
	"github.com/frahmantamala/nexus/internal/servicejwt"
	"github.com/frahmantamala/nexus/internal/transport"
	"github.com/frahmantamala/nexus/internal/transport/middleware"
	"github.com/frahmantamala/nexus/internal/transport/swagger"
	"github.com/frahmantamala/nexus/internal/user"
	userPostgres "github.com/frahmantamala/nexus/internal/user/postgres"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

const (
	healthPath  = "/api/health"
	aiRoutePath = "/api/ai/route"
)

// GatewayOptions carries what the gateway router needs from the process.
// HTTPClient and Events are optional.
type GatewayOptions struct {
	Config     *internal.Config
	DB         *gorm.DB
	StatsDB    *sqlx.DB
	HTTPClient *http.Client
	Events     *events.EventBus
	Logger     *slog.Logger
}

// BuildGateway wires repositories, services and handlers into the
// gateway's chi router.
func BuildGateway(opts GatewayOptions) (*chi.Mux, error) {
	cfg := opts.Config
	lg := opts.Logger
	base := transport.NewBaseHandler(lg)

	sentinelPolicy, err := aiengine.ParsePolicy(cfg.AI.Sentinel.OnUnavailable)
	if err != nil {
		return nil, err
	}
	routerPolicy, err := aiengine.ParsePolicy(cfg.AI.Router.OnUnavailable)
	if err != nil {
		return nil, err
	}

	bus := opts.Events
	if bus == nil {
		bus = events.NewEventBus(lg)
	}
	bus.Subscribe(events.EventTypeRequestSubmitted, events.AuditHandler(lg))
	bus.Subscribe(events.EventTypeRequestDecided, events.AuditHandler(lg))

	ai := aiengine.NewClient(aiengine.Config{
		BaseURL:         cfg.AI.BaseURL,
		SentinelTimeout: cfg.AI.Sentinel.Timeout,
		RouterTimeout:   cfg.AI.Router.Timeout,
		Source:          cfg.AI.Router.Source,
	}, opts.HTTPClient, lg)

	signer := servicejwt.NewSigner(cfg.Security.ServiceJWTSecret, cfg.Security.ServiceTokenDuration)
	departments := deptclient.NewClient(deptclient.Config{}, signer, opts.HTTPClient, lg)

	catalogService := catalog.NewCatalog(catalogPostgres.NewCatalogRepository(opts.DB), lg)
	userService := user.NewService(userPostgres.NewUserRepository(opts.DB), catalogService, cfg.Security.BCryptCost, lg)
	tokens := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(opts.DB), tokens, cfg.Security.BCryptCost, lg)
	requestService := request.NewService(
		requestPostgres.NewRequestRepository(opts.DB),
		catalogService,
		departments,
		requestPostgres.NewStatsRepository(opts.StatsDB),
		bus,
		lg,
	)

	authHandler := auth.NewHandler(base, authService)
	userHandler := user.NewHandler(base, userService)
	catalogHandler := catalog.NewHandler(base, catalogService)
	requestHandler := request.NewHandler(base, requestService)
	aiHandler := aiengine.NewHandler(ai, routerPolicy, base)
	rbac := auth.NewRBACAuthorization(lg)

	var health *HealthHandler
	if opts.StatsDB != nil {
		health = NewHealthHandler(opts.StatsDB.DB, "Nexus Gateway")
	} else {
		health = NewHealthHandler(nil, "Nexus Gateway")
	}

	realIP, err := middleware.TrustedRealIP(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(realIP)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(lg, healthPath))
	router.Use(middleware.RecoveryMiddleware(lg))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	if cfg.AI.Sentinel.Enabled {
		router.Use(middleware.Sentinel(ai, sentinelPolicy, lg, aiRoutePath, healthPath))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusNotFound, "Endpoint not found.")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		base.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	router.Get("/openapi.yml", swagger.SpecHandler())
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", health.healthCheckHandler)
		r.Post("/ai/route", aiHandler.RouteQuery)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/register", authHandler.Register)
			ar.Post("/login", authHandler.Login)
			ar.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Get("/me", authHandler.Me)
				pr.Get("/capabilities", authHandler.Capabilities)
			})
		})

		r.Route("/admin", func(ar chi.Router) {
			ar.Use(authHandler.AuthMiddleware)
			ar.Use(rbac.RequireArea(access.AreaAdmin))

			ar.Get("/departments", catalogHandler.ListDepartments)
			ar.Post("/departments", catalogHandler.CreateDepartment)
			ar.Put("/departments/{id}", catalogHandler.UpdateDepartment)
			ar.Patch("/departments/{id}/enable", catalogHandler.EnableDepartment)
			ar.Patch("/departments/{id}/disable", catalogHandler.DisableDepartment)
			ar.Delete("/departments/{id}", catalogHandler.DeleteDepartment)

			ar.Get("/services", catalogHandler.ListServices)
			ar.Post("/services", catalogHandler.CreateService)
			ar.Put("/services/{id}", catalogHandler.UpdateService)
			ar.Patch("/services/{id}/enable", catalogHandler.EnableService)
			ar.Patch("/services/{id}/disable", catalogHandler.DisableService)
			ar.Delete("/services/{id}", catalogHandler.DeleteService)

			ar.Get("/users", userHandler.ListUsers)
			ar.Post("/users", userHandler.CreateUser)
			ar.Patch("/users/{id}/toggle", userHandler.ToggleUser)

			ar.Get("/stats", requestHandler.AdminStats)
		})

		r.Route("/citizen", func(cr chi.Router) {
			cr.Use(authHandler.AuthMiddleware)
			cr.Use(rbac.RequireArea(access.AreaCitizen))

			cr.Get("/departments", catalogHandler.ListActiveDepartments)
			cr.Get("/departments/{id}", catalogHandler.GetDepartment)
			cr.Get("/departments/{id}/services", catalogHandler.GetDepartmentServices)
			cr.Get("/services/{id}", catalogHandler.GetService)

			cr.Post("/requests", requestHandler.SubmitRequest)
			cr.Get("/requests", requestHandler.ListMyRequests)
			cr.Get("/requests/{id}", requestHandler.GetMyRequest)
			cr.Get("/recent-appointments", requestHandler.RecentAppointments)
		})

		r.Route("/officer", func(or chi.Router) {
			or.Use(authHandler.AuthMiddleware)
			or.Use(rbac.RequireArea(access.AreaOfficer))

			or.Get("/requests", requestHandler.ListDepartmentRequests)
			or.Get("/requests/{id}", requestHandler.GetDepartmentRequest)
			or.Patch("/requests/{id}/accept", requestHandler.AcceptRequest)
			or.Patch("/requests/{id}/reject", requestHandler.RejectRequest)
			or.Get("/stats", requestHandler.OfficerStats)
		})
	})

	return router, nil
}
