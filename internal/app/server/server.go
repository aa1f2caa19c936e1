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

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/attendance"
	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/contract"
	"hrms/internal/domain/core"
	"hrms/internal/domain/leave"
	"hrms/internal/domain/notifications"
	"hrms/internal/domain/payroll"
	"hrms/internal/domain/reports"
	"hrms/internal/platform/clock"
	"hrms/internal/platform/config"
	"hrms/internal/platform/db"
	"hrms/internal/platform/email"
	"hrms/internal/platform/jobs"
	"hrms/internal/platform/metrics"
	"hrms/internal/transport/http/api"
	attendancehandler "hrms/internal/transport/http/handlers/attendance"
	audithandler "hrms/internal/transport/http/handlers/audit"
	authhandler "hrms/internal/transport/http/handlers/auth"
	contracthandler "hrms/internal/transport/http/handlers/contract"
	leavehandler "hrms/internal/transport/http/handlers/leave"
	notificationshandler "hrms/internal/transport/http/handlers/notifications"
	payrollhandler "hrms/internal/transport/http/handlers/payroll"
	reportshandler "hrms/internal/transport/http/handlers/reports"
	"hrms/internal/transport/http/middleware"
)

const devSecret = "development-only-secret"

// Services is everything the HTTP layer is wired to.
type Services struct {
	Auth       *auth.Service
	Directory  core.Directory
	Attendance *attendance.Service
	Leave      *leave.Service
	Payroll    *payroll.Service
	Contracts  *contract.Service
	Reports    *reports.Service
	// Notifications is optional; when nil workflow events are not delivered.
	Notifications *notifications.Service
	Audit         audit.Recorder
	AuditLog      audithandler.Reader
	Jobs          *jobs.Service
	Perms         middleware.PermissionStore
	Metrics       *metrics.Collector
	// Ready reports whether backing stores are reachable.
	Ready func(ctx context.Context) error
}

type App struct {
	Config   config.Config
	DB       *pgxpool.Pool
	Services Services
	Router   http.Handler
}

// ContractExpiryJob adapts the contract sweep to the job runner.
func ContractExpiryJob(contracts *contract.Service) jobs.RunFunc {
	return func(ctx context.Context) (any, error) {
		n, err := contracts.ExpireDue(ctx)
		return map[string]int64{"expired": n}, err
	}
}

// New connects to the database, applies migrations and the seed admin, and
// builds the services and router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, using development secret")
		cfg.JWTSecret = devSecret
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

	authStore := auth.NewStore(pool)
	if cfg.RunSeed {
		created, err := authStore.EnsureAdmin(ctx, uuid.NewString(), cfg.SeedAdminEmail, cfg.SeedAdminPassword)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed admin: %w", err)
		}
		if created {
			slog.Info("seed admin created", "email", cfg.SeedAdminEmail)
		}
	}

	clk := clock.NewSystem(clock.LoadLocation(cfg.OrgTimezone))
	directory := core.NewStore(pool)
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), directory, clk)
	collector := metrics.New()
	auditSvc := audit.New(pool)

	svc := Services{
		Auth:          auth.NewService(authStore, clk, cfg.JWTSecret, cfg.TokenTTL),
		Directory:     directory,
		Attendance:    attendanceSvc,
		Leave:         leave.NewService(leave.NewStore(pool), directory, clk),
		Payroll:       payroll.NewService(payroll.NewStore(pool), directory, attendanceSvc, clk),
		Contracts:     contract.NewService(contract.NewStore(pool), directory, clk),
		Reports:       reports.NewService(reports.NewStore(pool), clk),
		Notifications: notifications.NewService(notifications.NewStore(pool), directory, email.New(cfg), cfg.EmailFrom, clk),
		Audit:         auditSvc,
		AuditLog:      auditSvc,
		Jobs:          jobs.New(jobs.NewStore(pool), collector),
		Perms:         auth.StaticPermissions{},
		Metrics:       collector,
		Ready:         pool.Ping,
	}

	return &App{
		Config:   cfg,
		DB:       pool,
		Services: svc,
		Router:   NewRouter(cfg, svc),
	}, nil
}

func NewRouter(cfg config.Config, svc Services) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(svc.Metrics))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, map[string]string{"status": "ok"}, middleware.GetRequestID(r.Context()))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if svc.Ready != nil {
			if err := svc.Ready(ctx); err != nil {
				slog.Warn("readiness check failed", "err", err)
				api.Fail(w, http.StatusServiceUnavailable, "not_ready", "database not ready", middleware.GetRequestID(r.Context()))
				return
			}
		}
		api.Success(w, map[string]string{"status": "ready"}, middleware.GetRequestID(r.Context()))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, svc.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(svc.Auth).RegisterRoutes(r)
		attendancehandler.NewHandler(svc.Attendance, svc.Directory, svc.Perms, svc.Audit).RegisterRoutes(r)

		leaveHandler := leavehandler.NewHandler(svc.Leave, svc.Perms, svc.Audit)
		payrollHandler := payrollhandler.NewHandler(svc.Payroll, svc.Directory, svc.Perms, svc.Audit)
		contractHandler := contracthandler.NewHandler(svc.Contracts, svc.Perms, svc.Audit)
		if svc.Notifications != nil {
			leaveHandler.Notifier = svc.Notifications
			payrollHandler.Notifier = svc.Notifications
			contractHandler.Notifier = svc.Notifications
			notificationshandler.NewHandler(svc.Notifications).RegisterRoutes(r)
		}
		leaveHandler.RegisterRoutes(r)
		payrollHandler.RegisterRoutes(r)
		contractHandler.RegisterRoutes(r)

		reportshandler.NewHandler(svc.Reports, svc.Jobs, ContractExpiryJob(svc.Contracts), svc.Perms, svc.Audit).RegisterRoutes(r)
		audithandler.NewHandler(svc.AuditLog, svc.Perms).RegisterRoutes(r)
	})

	return router
}

// Run serves until SIGINT or SIGTERM, then drains requests and background jobs.
func Run() error {
	cfg := config.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.DB.Close()

	app.Services.Jobs.Start(ctx)
	app.Services.Jobs.Schedule(ctx, jobs.JobContractExpiry, cfg.ContractExpiryInterval, ContractExpiryJob(app.Services.Contracts))

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("hrms server listening", "addr", cfg.Addr, "env", cfg.Environment, "timezone", cfg.OrgTimezone)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http shutdown failed", "err", err)
		}
		app.Services.Jobs.Wait()
		return nil
	case err := <-errCh:
		stop()
		app.Services.Jobs.Wait()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
