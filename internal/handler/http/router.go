package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amanuelmandefro3/amr-blog/internal/auth"
	"github.com/amanuelmandefro3/amr-blog/internal/repository"
	"github.com/amanuelmandefro3/amr-blog/internal/service"
	"github.com/amanuelmandefro3/amr-blog/pkg/health"
	"github.com/amanuelmandefro3/amr-blog/pkg/middleware"
)

// RouterConfig bundles the dependencies needed to build the HTTP router.
type RouterConfig struct {
	AuthService   *service.AuthService
	BlogService   *service.BlogService
	Tokens        *auth.TokenManager
	UserRepo      repository.UserRepository
	HealthHandler *health.Handler
	Logger        *slog.Logger
	CORS          CORSConfig
	Cookies       CookieConfig
	PprofCIDRs    []string
	AuthRPS       int
	AuthBurst     int
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Tracing("api"))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("amr-blog"))

	// Operational endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	guard := RequireAuth(cfg.Tokens, cfg.UserRepo)

	// Auth endpoints (public)
	authHandler := NewAuthHandler(cfg.AuthService, cfg.Cookies, cfg.Logger)
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.AuthRPS, cfg.AuthBurst, cfg.Logger))

		r.With(ContentTypeJSON).Post("/register", authHandler.Register)
		r.Get("/verify-email", authHandler.VerifyEmail)
		r.With(ContentTypeJSON).Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.Refresh)
		r.With(ContentTypeJSON).Post("/forgot-password", authHandler.ForgotPassword)
		r.With(ContentTypeJSON).Post("/reset-password", authHandler.ResetPassword)

		// Session-guarded auth endpoints
		r.Group(func(r chi.Router) {
			r.Use(guard)

			r.Post("/logout", authHandler.Logout)
			r.With(ContentTypeJSON).Post("/change-password", authHandler.ChangePassword)
			r.Get("/me", authHandler.Me)
		})
	})

	// Blog endpoints
	blogHandler := NewBlogHandler(cfg.BlogService, cfg.Logger)
	viewer := OptionalAuth(cfg.Tokens)
	r.Route("/api/v1/blogs", func(r chi.Router) {
		r.Get("/", blogHandler.List)
		r.Get("/search", blogHandler.Search)
		r.With(viewer).Get("/slug/{slug}", blogHandler.GetBySlug)

		r.With(guard, ContentTypeJSON).Post("/", blogHandler.Create)
		r.With(guard, middleware.CacheControl(0)).Get("/recommendations", blogHandler.Recommendations)

		r.Route("/{id}", func(r chi.Router) {
			r.With(viewer).Get("/", blogHandler.Get)
			r.Get("/comments", blogHandler.ListComments)
			r.Post("/share", blogHandler.Share)

			r.Group(func(r chi.Router) {
				r.Use(guard)

				r.With(ContentTypeJSON).Put("/", blogHandler.Update)
				r.Delete("/", blogHandler.Delete)
				r.Post("/like", blogHandler.Like)
				r.With(ContentTypeJSON).Post("/comments", blogHandler.AddComment)
				r.With(ContentTypeJSON).Put("/comments/{commentID}", blogHandler.UpdateComment)
				r.Delete("/comments/{commentID}", blogHandler.DeleteComment)
			})
		})
	})

	return r
}
