package server

import (
	"os"

	"github.com/fulmenhq/gofulmen/signals"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/namevetter/namevetter/internal/appid"
	"github.com/namevetter/namevetter/internal/observability"
	"github.com/namevetter/namevetter/internal/server/handlers"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	if s.api != nil {
		s.router.Route("/api", func(r chi.Router) {
			r.Post("/check", s.api.Check)
			r.Post("/check-domain", s.api.CheckDomain)
			r.Post("/check-social", s.api.CheckSocial)
			r.Get("/health", s.api.Health)
		})
	}

	s.router.Get("/health", s.health.HealthHandler)
	s.router.Get("/health/live", s.health.LivenessHandler)
	s.router.Get("/health/ready", s.health.ReadinessHandler)
	s.router.Get("/health/startup", s.health.StartupHandler)

	s.router.Get("/version", handlers.VersionHandler)
	s.router.Get("/metrics", MetricsHandler)

	s.registerAdminEndpoint()
}

// registerAdminEndpoint exposes gofulmen's signal endpoint when
// <PREFIX>_ADMIN_TOKEN is set, so operators can trigger a config reload or
// shutdown over HTTP.
func (s *Server) registerAdminEndpoint() {
	envVar := appid.Get().EnvPrefix + "_ADMIN_TOKEN"
	adminToken := os.Getenv(envVar)
	logger := observability.ServerLogger

	if adminToken == "" {
		if logger != nil {
			logger.Debug("Admin signal endpoint disabled (no " + envVar + " set)")
		}
		return
	}

	handler := signals.NewHTTPHandler(signals.HTTPConfig{
		TokenAuth: adminToken,
		RateLimit: 10,
		RateBurst: 5,
		Manager:   nil,
	})

	s.router.Post("/admin/signal", handler.ServeHTTP)

	if logger != nil {
		logger.Info("Admin signal endpoint enabled",
			zap.String("path", "/admin/signal"),
			zap.String("rate_limit", "10/min, burst 5"))
		logger.Warn("Admin endpoint enabled - ensure this server is not exposed to public internet")
	}
}
