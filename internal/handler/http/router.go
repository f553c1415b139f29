package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/workmatrix/workmatrix-backend-go/internal/domain/access"
	"github.com/workmatrix/workmatrix-backend-go/internal/handler/http/middleware"
	"github.com/workmatrix/workmatrix-backend-go/internal/pkg/jwt"
)

// RouterConfig carries everything the router mounts.
type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	JWTService     jwt.Service
	Guard          access.Guard
	Routes         access.Routes

	AuthHandler         AuthHandler
	AccessHandler       AccessHandler
	AdminRequestHandler AdminRequestHandler
	ProfileHandler      ProfileHandler
	DashboardHandler    DashboardHandler
	EventHandler        EventHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		MaxAge:           300,
	}))

	if cfg.Logger != nil {
		r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
			Level:  slog.LevelDebug,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	requireArea := func(area access.Area) func(http.Handler) http.Handler {
		return middleware.RequireArea(cfg.Guard, area, cfg.Routes)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
		r.Use(middleware.Session)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/refresh", cfg.AuthHandler.RefreshToken)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Get("/oauth/callback/google", cfg.AuthHandler.OAuthCallbackGoogle)

			r.Route("/login", func(r chi.Router) {
				r.Post("/", cfg.AuthHandler.Login)
				r.Get("/oauth/google", cfg.AuthHandler.LoginWithGoogle)
			})

			r.With(middleware.AuthRequired).Get("/me", cfg.AuthHandler.Me)
		})

		// Answers anonymous callers as well
		r.Get("/access/check", cfg.AccessHandler.Check)

		// SSE stream authenticates with its own short-lived token
		r.Get("/events/stream", cfg.EventHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRequired)

			r.Get("/events/token", cfg.EventHandler.GetSSEToken)

			r.Route("/admin-requests", func(r chi.Router) {
				r.Post("/", cfg.AdminRequestHandler.Submit)
				r.Get("/me", cfg.AdminRequestHandler.Mine)

				// Super admin only
				r.Group(func(r chi.Router) {
					r.Use(requireArea(access.AreaSuperAdmin))
					r.Get("/", cfg.AdminRequestHandler.List)
					r.Post("/{id}/approve", cfg.AdminRequestHandler.Approve)
					r.Post("/{id}/reject", cfg.AdminRequestHandler.Reject)
				})
			})

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/me", cfg.ProfileHandler.Me)

				// Super admin only
				r.Group(func(r chi.Router) {
					r.Use(requireArea(access.AreaSuperAdmin))
					r.Get("/", cfg.ProfileHandler.List)
					r.Put("/{id}/role", cfg.ProfileHandler.UpdateRole)
					r.Put("/{id}/active", cfg.ProfileHandler.SetActive)
				})
			})

			r.Route("/dashboard", func(r chi.Router) {
				r.With(requireArea(access.AreaEmployee)).Get("/employee", cfg.DashboardHandler.GetEmployeeDashboard)
				r.With(requireArea(access.AreaAdmin)).Get("/admin", cfg.DashboardHandler.GetAdminDashboard)
			})
		})
	})
	return r
}
