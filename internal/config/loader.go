// Package config provides centralized configuration management for
// namevetter. Defaults are registered on a viper instance, which layers the
// optional config file and environment variables on top; Load decodes the
// merged view into a typed Config.
package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	gfconfig "github.com/fulmenhq/gofulmen/config"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/namevetter/namevetter/internal/appid"
	"github.com/namevetter/namevetter/internal/core"
	"github.com/namevetter/namevetter/internal/core/checker"
	"github.com/namevetter/namevetter/internal/core/engine"
)

var (
	// appConfig holds the current application configuration
	appConfig *Config
	configMu  sync.RWMutex
)

// Load decodes the merged viper settings into a Config and validates it.
//
// This function is safe to call multiple times (e.g., for config reload)
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
			mapstructure.StringToFloat64HookFunc(),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	setConfig(cfg)
	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if len(c.Check.Extensions) == 0 {
		problems = append(problems, "check.extensions must not be empty")
	}
	if c.Check.Workers < 1 {
		problems = append(problems, "check.workers must be at least 1")
	}
	if c.Check.TaskTimeout <= 0 || c.Check.SimilarTimeout <= 0 {
		problems = append(problems, "check timeouts must be positive")
	}
	if c.Domain.RDAP.Timeout <= 0 || c.Domain.DNS.Timeout <= 0 || c.Social.Timeout <= 0 {
		problems = append(problems, "probe timeouts must be positive")
	}
	if c.Domain.Whois.Enabled && c.Domain.Whois.Timeout <= 0 {
		problems = append(problems, "domain.whois.timeout must be positive")
	}
	if !absoluteURL(c.Domain.RDAP.BaseURL) {
		problems = append(problems, fmt.Sprintf("domain.rdap.base_url %q is not an absolute URL", c.Domain.RDAP.BaseURL))
	}
	if c.Similar.Enabled && !absoluteURL(c.Similar.BaseURL) {
		problems = append(problems, fmt.Sprintf("similar.base_url %q is not an absolute URL", c.Similar.BaseURL))
	}
	if c.Similar.MaxDistance < 1 || c.Similar.MaxDistance > checker.DefaultSimilarMaxDistance {
		problems = append(problems, fmt.Sprintf("similar.max_distance must be between 1 and %d", checker.DefaultSimilarMaxDistance))
	}
	if c.Similar.MaxResults < 1 || c.Similar.MaxResults > checker.DefaultSimilarMaxResults {
		problems = append(problems, fmt.Sprintf("similar.max_results must be between 1 and %d", checker.DefaultSimilarMaxResults))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Warnings lists settings that are valid but likely unintended.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Check.TaskTimeout <= c.Domain.RDAP.Timeout {
		warnings = append(warnings, "check.task_timeout is not longer than domain.rdap.timeout; cascade fallbacks will be cut off")
	}
	if c.Check.TaskTimeout <= c.Social.Timeout {
		warnings = append(warnings, "check.task_timeout is not longer than social.timeout")
	}
	if c.Similar.Enabled && c.Check.SimilarTimeout <= c.Similar.Timeout {
		warnings = append(warnings, "check.similar_timeout is not longer than similar.timeout")
	}
	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= c.Check.TaskTimeout {
		warnings = append(warnings, "server.write_timeout is shorter than a full check")
	}
	return warnings
}

// Headers returns the outbound probe header set.
func (c *Config) Headers() checker.Headers {
	return checker.Headers{
		UserAgent:      c.HTTP.UserAgent,
		Accept:         c.HTTP.Accept,
		AcceptLanguage: c.HTTP.AcceptLanguage,
	}
}

// EngineSettings converts the check section into orchestrator settings.
func (c *Config) EngineSettings(platforms []core.PlatformSpec) engine.Settings {
	return engine.Settings{
		Extensions:     append([]string(nil), c.Check.Extensions...),
		Platforms:      platforms,
		Workers:        c.Check.Workers,
		TaskTimeout:    c.Check.TaskTimeout,
		SimilarTimeout: c.Check.SimilarTimeout,
	}
}

// GetConfig returns the current application configuration (thread-safe)
func GetConfig() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return appConfig
}

// setConfig updates the current configuration (thread-safe)
func setConfig(cfg *Config) {
	configMu.Lock()
	defer configMu.Unlock()
	appConfig = cfg
}

// DefaultConfigDir returns the XDG-compliant config directory for the app.
func DefaultConfigDir() string {
	return gfconfig.GetAppConfigDir(appid.Get().ConfigName)
}

// DefaultConfigPath returns the XDG-compliant path to the user config file.
func DefaultConfigPath() string {
	configDir := DefaultConfigDir()
	if strings.TrimSpace(configDir) == "" {
		return ""
	}
	return filepath.Join(configDir, "config.yaml")
}
