package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fulmenhq/gofulmen/crucible"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/namevetter/namevetter/internal/appid"
	"github.com/namevetter/namevetter/internal/config"
	"github.com/namevetter/namevetter/internal/core/checker"
	"github.com/namevetter/namevetter/internal/observability"
)

const doctorProbeTimeout = 5 * time.Second

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run diagnostic checks",
	Long:  "Check the local installation and whether the registry and domain index upstreams are reachable.",
	Run: func(cmd *cobra.Command, args []string) {
		logger := observability.CLILogger
		ctx := cmd.Context()
		identity := appid.Get()

		logger.Info("=== " + identity.BinaryName + " doctor ===")
		healthy := true
		const total = 6

		goVersion := runtime.Version()
		logger.Info(fmt.Sprintf("[1/%d] Go runtime... ✅ %s %s/%s", total, goVersion, runtime.GOOS, runtime.GOARCH),
			zap.String("go_version", goVersion))

		version := crucible.GetVersion()
		logger.Info(fmt.Sprintf("[2/%d] Gofulmen/Crucible... ✅ %s / %s", total, version.Gofulmen, version.Crucible))

		if path := config.DefaultConfigPath(); path == "" {
			logger.Warn(fmt.Sprintf("[3/%d] Config directory... ⚠️  not resolved", total))
		} else {
			logger.Info(fmt.Sprintf("[3/%d] Config directory... ✅ %s (%s)", total, filepath.Dir(path), existenceStatus(path)),
				zap.String("config_path", path))
		}

		stack, cfg, err := doctorStack()
		if err != nil {
			logger.Error(fmt.Sprintf("[4/%d] Configuration... ❌ %v", total, err))
			logger.Warn("⚠️  Skipping upstream checks until the configuration is fixed.")
			return
		}
		logger.Info(fmt.Sprintf("[4/%d] Configuration... ✅ %d extensions, %d platforms", total,
			len(stack.Orchestrator.Settings().Extensions), stack.Platforms.Len()))

		client := checker.NewHTTPClient(cfg.Headers(), doctorProbeTimeout, 0)

		if status, err := probeEndpoint(ctx, client, cfg.Domain.RDAP.BaseURL); err != nil {
			logger.Warn(fmt.Sprintf("[5/%d] RDAP registry... ⚠️  unreachable", total), zap.String("url", cfg.Domain.RDAP.BaseURL), zap.Error(err))
			healthy = false
		} else {
			logger.Info(fmt.Sprintf("[5/%d] RDAP registry... ✅ HTTP %d", total, status), zap.String("url", cfg.Domain.RDAP.BaseURL))
		}

		switch {
		case !cfg.Similar.Enabled:
			logger.Info(fmt.Sprintf("[6/%d] Domain index... ➖ disabled", total))
		default:
			if status, err := probeEndpoint(ctx, client, cfg.Similar.BaseURL); err != nil {
				logger.Warn(fmt.Sprintf("[6/%d] Domain index... ⚠️  unreachable", total), zap.String("url", cfg.Similar.BaseURL), zap.Error(err))
				healthy = false
			} else {
				logger.Info(fmt.Sprintf("[6/%d] Domain index... ✅ HTTP %d", total, status), zap.String("url", cfg.Similar.BaseURL))
			}
		}

		if healthy {
			logger.Info(fmt.Sprintf("✅ All checks passed! Your %s installation is healthy.", identity.BinaryName))
		} else {
			logger.Warn("⚠️  Some checks failed. Affected probes will report unknown until the upstream is reachable.")
		}
	},
}

var doctorInitForce bool

var doctorInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file populated with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigPath()
		if path == "" {
			return fmt.Errorf("config path not resolved")
		}
		if _, err := os.Stat(path); err == nil && !doctorInitForce {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}

		data, err := defaultConfigYAML()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		observability.CLILogger.Info("Config initialized", zap.String("path", path))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.AddCommand(doctorInitCmd)
	doctorInitCmd.Flags().BoolVar(&doctorInitForce, "force", false, "overwrite an existing config file")
}

func doctorStack() (*Stack, *config.Config, error) {
	cfg, err := loadConfig(observability.CLILogger)
	if err != nil {
		return nil, nil, err
	}
	stack, err := BuildStack(cfg)
	if err != nil {
		return nil, nil, err
	}
	return stack, cfg, nil
}

// probeEndpoint reports the status of a GET against url. Any HTTP response
// counts as reachable.
func probeEndpoint(ctx context.Context, client *http.Client, url string) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, doctorProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	return resp.StatusCode, nil
}

// defaultConfigYAML renders the built-in defaults as a config file.
func defaultConfigYAML() ([]byte, error) {
	v := viper.New()
	config.SetDefaults(v)
	data, err := yaml.Marshal(v.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("render default config: %w", err)
	}
	header := fmt.Sprintf("# %s configuration\n# Environment overrides use the %s_ prefix, e.g. %s_CHECK_WORKERS=4\n\n",
		appid.Get().BinaryName, appid.Get().EnvPrefix, appid.Get().EnvPrefix)
	return append([]byte(header), data...), nil
}

func existenceStatus(path string) string {
	if _, err := os.Stat(path); err == nil {
		return "exists"
	}
	return "missing"
}
