package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/fulmenhq/gofulmen/signals"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/namevetter/namevetter/internal/appid"
	"github.com/namevetter/namevetter/internal/config"
	errwrap "github.com/namevetter/namevetter/internal/errors"
	"github.com/namevetter/namevetter/internal/metrics"
	"github.com/namevetter/namevetter/internal/observability"
	"github.com/namevetter/namevetter/internal/server"
	"github.com/namevetter/namevetter/internal/server/handlers"
)

var (
	serverPort int
	serverHost string
	noBanner   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP API with graceful shutdown support.

Routes:
  POST /api/check          full name check
  POST /api/check-domain   single domain cascade
  POST /api/check-social   single platform probe
  GET  /api/health         API liveness

Signal Handling:
  • Ctrl+C (SIGINT) or SIGTERM: Graceful shutdown
  • Ctrl+C twice within 2s: Force quit
  • SIGHUP: Re-read the config file (probe settings apply on restart)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "0.0.0.0", "server host")
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 5111, "server port")
	serveCmd.Flags().BoolVar(&noBanner, "no-banner", false, "do not print the startup banner")

	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	identity := appid.Get()

	cfg, err := loadConfig(observability.CLILogger)
	if err != nil {
		return errwrap.WrapConfigInvalid(cmd.Context(), err, "invalid configuration")
	}

	observability.InitServerLogger(observability.ServerLoggerOptions{
		Service:   identity.BinaryName,
		Level:     cfg.Logging.Level,
		Profile:   cfg.Logging.Profile,
		Namespace: identity.Namespace,
	})
	logger := observability.ServerLogger

	if cfg.Metrics.Enabled {
		if err := observability.InitMetrics(identity.BinaryName, cfg.Metrics.Port, identity.Namespace); err != nil {
			logger.Error("Failed to initialize metrics", zap.Error(err))
			return errwrap.WrapInternal(cmd.Context(), err, "metrics initialization failed")
		}
		metrics.SetServerStartTime(time.Now().Unix())
	}

	stack, err := BuildStack(cfg)
	if err != nil {
		return errwrap.WrapConfigInvalid(cmd.Context(), err, "failed to build checker")
	}

	srv := server.New(serverOptions(cfg), handlers.NewAPI(stack.Orchestrator, stack.Platforms))
	if cfg.Health.Enabled {
		srv.RegisterDefaultChecks(stack.Platforms, cfg.Metrics.Enabled)
	}

	if !noBanner {
		printBanner(srv.Addr(), stack)
	}

	logger.Info("Initializing server",
		zap.String("service", identity.BinaryName),
		zap.String("version", versionInfo.Version),
		zap.String("addr", srv.Addr()),
		zap.Strings("extensions", stack.Orchestrator.Settings().Extensions),
		zap.Int("platforms", stack.Platforms.Len()),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.Int("metrics_port", observability.GetMetricsPort()))

	registerSignalHandlers(srv, cfg.Server.ShutdownTimeout)

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server...", zap.String("addr", srv.Addr()))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	go func() {
		if err := signals.Listen(cmd.Context()); err != nil {
			logger.Error("Signal handler error", zap.Error(err))
			errChan <- err
		}
	}()

	if err := <-errChan; err != nil {
		return errwrap.WrapInternal(cmd.Context(), err, "server error")
	}
	return nil
}

func serverOptions(cfg *config.Config) server.Options {
	return server.Options{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Version:      versionInfo.Version,
	}
}

// registerSignalHandlers wires graceful shutdown, config reload and
// double-tap force quit. Shutdown handlers run LIFO.
func registerSignalHandlers(srv *server.Server, shutdownTimeout time.Duration) {
	logger := observability.ServerLogger
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	signals.OnShutdown(func(ctx context.Context) error {
		logger.Info("Flushing logger...")
		if err := logger.Sync(); err != nil {
			// stdout/stderr may already be closed
			logger.Warn("Logger sync returned error (may be benign)", zap.Error(err))
		}
		return nil
	})

	signals.OnShutdown(func(ctx context.Context) error {
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errwrap.WrapInternal(ctx, err, "server shutdown failed")
		}
		logger.Info("HTTP server stopped gracefully")
		return nil
	})

	signals.OnReload(func(ctx context.Context) error {
		logger.Info("Received SIGHUP: attempting config reload")

		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				logger.Info("No config file found - using defaults and environment variables")
				return nil
			}
			logger.Error("Failed to reload config file",
				zap.String("file", viper.ConfigFileUsed()),
				zap.Error(err))
			return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
		}

		cfg, err := loadConfig(logger)
		if err != nil {
			logger.Error("Reloaded configuration is invalid", zap.Error(err))
			return errwrap.WrapConfigInvalid(ctx, err, "config reload failed")
		}

		// The running orchestrator keeps the settings it was built with.
		logger.Info("Configuration reloaded; probe settings take effect on restart",
			zap.String("file", viper.ConfigFileUsed()),
			zap.String("log_level", cfg.Logging.Level))
		return nil
	})

	if err := signals.EnableDoubleTap(signals.DoubleTapConfig{
		Window:  2 * time.Second,
		Message: "Press Ctrl+C again within 2 seconds to force quit",
	}); err != nil {
		logger.Warn("Failed to enable double-tap force quit", zap.Error(err))
	}
}

func printBanner(addr string, stack *Stack) {
	banner := figure.NewColorFigure(appid.Get().BinaryName, "doom", "cyan", true)
	banner.Print()

	label := color.New(color.FgHiBlack).SprintFunc()
	value := color.New(color.FgHiWhite, color.Bold).SprintFunc()
	fmt.Println()
	fmt.Printf("  %s %s\n", label("version  "), value(versionInfo.Version))
	fmt.Printf("  %s %s\n", label("listening"), value("http://"+addr))
	fmt.Printf("  %s %d\n", label("platforms"), stack.Platforms.Len())
	fmt.Printf("  %s %v\n", label("domains  "), stack.Orchestrator.Settings().Extensions)
	fmt.Println()
}
