package main

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
	"github.com/workmatrix/workmatrix-backend-go/internal/config"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/access"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/adminrequest"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/auth"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/dashboard"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/user"
	appHTTP "github.com/workmatrix/workmatrix-backend-go/internal/handler/http"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/cron"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/database"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/jwt"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/oauth"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/ratelimit"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/sse"
	"github.com/workmatrix/workmatrix-backend-go/internal/repository/memory"
	"github.com/workmatrix/workmatrix-backend-go/internal/repository/postgresql"
	accessService "github.com/workmatrix/workmatrix-backend-go/internal/service/access"
	adminRequestService "github.com/workmatrix/workmatrix-backend-go/internal/service/adminrequest"
	serviceAuth "github.com/workmatrix/workmatrix-backend-go/internal/service/auth"
	dashboardService "github.com/workmatrix/workmatrix-backend-go/internal/service/dashboard"
	profileService "github.com/workmatrix/workmatrix-backend-go/internal/service/profile"
)

// repositories is the storage backend selected by DB_DRIVER.
type repositories struct {
	tx           database.Transactor
	identities   auth.IdentityRepository
	tokens       auth.TokenRepository
	profiles     user.ProfileRepository
	requests     adminrequest.RequestRepository
	dashboard    dashboard.DashboardRepository
	closeBackend func()
}

func openRepositories(ctx context.Context, cfg *config.Config) (*repositories, error) {
	if cfg.Database.Driver == config.DriverMemory {
		slog.Warn("Using in-memory storage, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			tx:           store,
			identities:   memory.NewIdentityRepository(store),
			tokens:       memory.NewTokenRepository(store),
			profiles:     memory.NewProfileRepository(store),
			requests:     memory.NewAdminRequestRepository(store),
			dashboard:    memory.NewDashboardRepository(store),
			closeBackend: func() {},
		}, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	return &repositories{
		tx:           postgresql.NewTransactor(db),
		identities:   postgresql.NewIdentityRepository(db),
		tokens:       postgresql.NewTokenRepository(db),
		profiles:     postgresql.NewProfileRepository(db),
		requests:     postgresql.NewAdminRequestRepository(db),
		dashboard:    postgresql.NewDashboardRepository(db),
		closeBackend: db.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "workmatrix"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		slog.Error("Storage initialization failed", "error", err)
		os.Exit(1)
	}
	defer repos.closeBackend()

	hub := sse.NewHub()
	signupLimiter := ratelimit.NewLimiter(cfg.RateLimit.SignupInterval, cfg.RateLimit.SignupBurst, time.Now)
	signupCooldown := ratelimit.NewCooldown(time.Now)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration, cfg.SecureCookies())
	if !cfg.GoogleEnabled() {
		slog.Warn("Google sign-in is not fully configured")
	}
	GoogleService := oauth.NewGoogleService(cfg.OAuth2Google.ClientID, cfg.OAuth2Google.ClientSecret, cfg.OAuth2Google.RedirectURL, cfg.OAuth2Google.Scopes)

	requestSvc := adminRequestService.NewRequestService(repos.tx, repos.requests, repos.profiles,
		adminRequestService.WithNotifier(hub),
	)
	authSvc := serviceAuth.NewAuthService(repos.tx, repos.identities, repos.profiles, repos.tokens, JWTService, requestSvc, signupLimiter)
	profileSvc := profileService.NewProfileService(repos.tx, repos.profiles, repos.requests)
	dashboardSvc := dashboardService.NewDashboardService(repos.dashboard, time.Now)

	routes := access.Routes{
		LoginEmployee:   cfg.Routes.LoginEmployee,
		LoginAdmin:      cfg.Routes.LoginAdmin,
		EmployeeHome:    cfg.Routes.EmployeeHome,
		AdminHome:       cfg.Routes.AdminHome,
		PendingApproval: cfg.Routes.PendingApproval,
		SuperAdminHome:  cfg.Routes.SuperAdminHome,
	}
	guard := accessService.NewGuard(
		accessService.NewResolver(repos.profiles),
		requestSvc,
		access.Policy{
			SuperAdminInAdminArea:    cfg.Policy.SuperAdminInAdminArea,
			SuperAdminInEmployeeArea: cfg.Policy.SuperAdminInEmployeeArea,
		},
	)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:              logger,
		AllowedOrigins:      cfg.App.AllowedOrigins,
		JWTService:          JWTService,
		Guard:               guard,
		Routes:              routes,
		AuthHandler:         appHTTP.NewAuthHandler(JWTService, authSvc, GoogleService, signupCooldown, cfg.App.FrontendURL, cfg.SecureCookies()),
		AccessHandler:       appHTTP.NewAccessHandler(guard, routes),
		AdminRequestHandler: appHTTP.NewAdminRequestHandler(requestSvc),
		ProfileHandler:      appHTTP.NewProfileHandler(profileSvc),
		DashboardHandler:    appHTTP.NewDashboardHandler(dashboardSvc),
		EventHandler:        appHTTP.NewEventHandler(hub, JWTService),
	})

	scheduler := cron.NewScheduler()
	cron.NewMaintenanceJobs(repos.tokens, signupLimiter, signupCooldown, cfg.Cron.TokenPurgeInterval, cfg.RateLimit.LimiterIdle).
		RegisterJobs(scheduler)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
}
