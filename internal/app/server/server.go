package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/payroll"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/jobs"
	"hrms/internal/platform/metrics"
)

const appName = "hrms"

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("env", cfg.Environment),
	)
}

// Run starts the API and blocks until SIGINT or SIGTERM.
func Run() {
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// App is the wired service graph behind the HTTP router.
type App struct {
	Router http.Handler
	Policy payroll.Policy
	Jobs   *jobs.Service
	pool   *db.Pool
}

// New connects to Postgres, applies migrations and seed data when enabled and
// wires every service into a router. Background jobs are not started.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	policy, err := payroll.ParsePolicy(cfg.PayrollPolicy)
	if err != nil {
		return nil, err
	}
	calc, err := payroll.NewCalculator(policy)
	if err != nil {
		return nil, err
	}
	lateAfter, err := attendance.ParseClock(cfg.AttendanceLateAfter)
	if err != nil {
		return nil, fmt.Errorf("attendance late-after: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	collector := metrics.New()
	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, cfg.TokenTTL)
	employeeSvc := employee.NewService(employee.NewStore(pool))
	leaveSvc := leave.NewService(leave.NewStore(pool), employeeSvc)
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), employeeSvc, lateAfter, time.Local)
	payrollSvc := payroll.NewService(payroll.NewStore(pool), employeeSvc, leaveSvc, calc, collector)
	auditSvc := audit.NewService(audit.NewStore(pool))

	router := NewRouter(Deps{
		Config:     cfg,
		Logger:     logger,
		DB:         pool,
		Metrics:    collector,
		Perms:      auth.StaticPermissions{},
		Auth:       authSvc,
		Employees:  employeeSvc,
		Leave:      leaveSvc,
		Attendance: attendanceSvc,
		Payroll:    payrollSvc,
		Audit:      auditSvc,
	})

	return &App{
		Router: router,
		Policy: policy,
		Jobs:   jobs.New(pool, payrollSvc, collector, cfg.PayrollCloseInterval),
		pool:   pool,
	}, nil
}

func (a *App) Close() {
	a.pool.Close()
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	app, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()
	app.Jobs.Start(ctx)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr, "payrollPolicy", string(app.Policy))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("server exited gracefully")
		return nil
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
