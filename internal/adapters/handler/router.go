package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/adapters/middleware"
	"github.com/AchilleasB/school-portal/auth-service/internal/metrics"
)

type RouterConfig struct {
	Auth           *AuthHandler
	Registration   *RegistrationHandler
	Verification   *VerificationHandler
	Health         *HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints (OpenShift compatible)
	r.Get("/health", cfg.Health.Health)
	r.Get("/health/live", cfg.Health.Live)
	r.Get("/health/ready", cfg.Health.Ready)

	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/login", cfg.Auth.Login)
	r.Post("/generateVerificationCode", cfg.Verification.GenerateCode)
	r.Post("/validateVerificationCode", cfg.Verification.ValidateCode)
	r.Post("/resetPassword", cfg.Verification.ResetPassword)

	r.With(cfg.AuthMiddleware.OptionalAuth).Post("/createUser", cfg.Registration.Register)
	r.With(cfg.AuthMiddleware.Authenticate).Post("/skipLogin", cfg.Auth.SkipLogin)
	r.With(cfg.AuthMiddleware.Authenticate).Post("/logout", cfg.Auth.Logout)

	return r
}
