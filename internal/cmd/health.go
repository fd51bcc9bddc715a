package cmd

import (
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	errwrap "github.com/namevetter/namevetter/internal/errors"
	"github.com/namevetter/namevetter/internal/observability"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run self-health check",
	Long:  "Verify that the configuration loads and the probe stack can be built, without contacting any upstream.",
	Run: func(cmd *cobra.Command, args []string) {
		logger := observability.CLILogger
		if logger == nil {
			ExitWithCodeStderr(foundry.ExitConfigInvalid, "Logger not initialized", errwrap.NewConfigInvalidError("Logger not initialized"))
			return
		}
		logger.Info("Running health check...")

		if versionInfo.Version == "" {
			ExitWithCode(logger, foundry.ExitConfigInvalid, "Version information missing", errwrap.NewConfigInvalidError("Version information missing"))
			return
		}
		logger.Info("✅ Version information available", zap.String("version", versionInfo.Version))

		cfg, err := loadConfig(logger)
		if err != nil {
			ExitWithCode(logger, foundry.ExitConfigInvalid, "Configuration invalid", errwrap.WrapConfigInvalid(cmd.Context(), err, "configuration invalid"))
			return
		}
		logger.Info("✅ Configuration valid")

		stack, err := BuildStack(cfg)
		if err != nil {
			ExitWithCode(logger, foundry.ExitConfigInvalid, "Probe stack could not be built", errwrap.WrapConfigInvalid(cmd.Context(), err, "probe stack invalid"))
			return
		}
		logger.Info("✅ Platform table loaded", zap.Int("platforms", stack.Platforms.Len()))
		logger.Info("✅ Orchestrator ready",
			zap.Strings("extensions", stack.Orchestrator.Settings().Extensions),
			zap.Int("workers", stack.Orchestrator.Settings().Workers))

		logger.Info("✅ All health checks passed")
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
