package server

import (
	"context"
	"errors"

	"github.com/namevetter/namevetter/internal/config"
	"github.com/namevetter/namevetter/internal/observability"
	"github.com/namevetter/namevetter/internal/server/handlers"
)

// PlatformCounter is satisfied by the platform rule table.
type PlatformCounter interface {
	Len() int
}

// PlatformTableCheck fails when no social platform is configured.
func PlatformTableCheck(table PlatformCounter) handlers.HealthChecker {
	return handlers.HealthCheckFunc(func(context.Context) error {
		if table == nil || table.Len() == 0 {
			return errors.New("platform table is empty")
		}
		return nil
	})
}

// TelemetryCheck fails when metrics were requested but never initialized.
func TelemetryCheck(enabled bool) handlers.HealthChecker {
	return handlers.HealthCheckFunc(func(context.Context) error {
		if enabled && observability.TelemetrySystem == nil {
			return errors.New("telemetry not initialized")
		}
		return nil
	})
}

// ConfigCheck fails when the loaded configuration is missing or no longer
// validates.
func ConfigCheck() handlers.HealthChecker {
	return handlers.HealthCheckFunc(func(context.Context) error {
		cfg := config.GetConfig()
		if cfg == nil {
			return errors.New("configuration not loaded")
		}
		return cfg.Validate()
	})
}

// RegisterDefaultChecks installs the platform, telemetry and configuration
// checks on s.
func (s *Server) RegisterDefaultChecks(table PlatformCounter, metricsEnabled bool) {
	s.health.RegisterChecker("platforms", PlatformTableCheck(table))
	s.health.RegisterChecker("telemetry", TelemetryCheck(metricsEnabled))
	s.health.RegisterChecker("config", ConfigCheck())
}
