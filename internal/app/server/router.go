package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	attendancehandler "hrms/internal/transport/http/handlers/attendance"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	employeehandler "hrms/internal/transport/http/handlers/employee"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

// Pinger reports database readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// AuditTrail records and lists audit events.
type AuditTrail interface {
	shared.Auditor
	audithandler.Service
}

// Deps are the services the router exposes. Audit is optional.
type Deps struct {
	Config     config.Config
	Logger     *slog.Logger
	DB         Pinger
	Metrics    *metrics.Collector
	Perms      middleware.PermissionStore
	Auth       authhandler.Service
	Employees  employeehandler.Service
	Leave      leavehandler.Service
	Attendance attendancehandler.Service
	Payroll    payrollhandler.Service
	Audit      AuditTrail
}

func NewRouter(d Deps) *chi.Mux {
	cfg := d.Config
	perms := d.Perms
	if perms == nil {
		perms = auth.StaticPermissions{}
	}
	collector := d.Metrics
	if collector == nil {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Link", middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:           300,
	}))
	if d.Logger != nil {
		router.Use(httplog.RequestLogger(d.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
			Skip: func(r *http.Request, _ int) bool {
				return r.URL.Path == "/healthz"
			},
		}))
	}
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.CleanPath)
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.DB == nil {
			http.Error(w, "db not configured", http.StatusServiceUnavailable)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.DB.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.With(middleware.RequirePermission(auth.PermSystemMetrics, perms)).Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
	})

	router.Route("/api/v1", func(r chi.Router) {
		window := time.Minute
		authHandler := authhandler.NewHandler(d.Auth)
		r.With(middleware.LoginRateLimit(cfg.RateLimitPerMinute, window)).Post("/auth/login", authHandler.HandleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, window))

			r.Post("/auth/refresh", authHandler.HandleRefresh)
			r.Get("/auth/verify", authHandler.HandleVerify)

			employees := employeehandler.NewHandler(d.Employees, perms)
			leaves := leavehandler.NewHandler(d.Leave, perms)
			attendance := attendancehandler.NewHandler(d.Attendance, perms)
			payroll := payrollhandler.NewHandler(d.Payroll, perms)
			if d.Audit != nil {
				employees.Audit = d.Audit
				leaves.Audit = d.Audit
				attendance.Audit = d.Audit
				payroll.Audit = d.Audit
				audithandler.NewHandler(d.Audit, perms).RegisterRoutes(r)
			}
			employees.RegisterRoutes(r)
			leaves.RegisterRoutes(r)
			attendance.RegisterRoutes(r)
			payroll.RegisterRoutes(r)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Fail(w, http.StatusNotFound, "not_found", "route not found", middleware.GetRequestID(r.Context()))
	})

	return router
}
