package config

import "time"

// Config represents the complete application configuration. Values are
// layered by viper: built-in defaults, then an optional YAML file, then
// NAMEVETTER_* environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
	Check   CheckConfig   `mapstructure:"check"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Domain  DomainConfig  `mapstructure:"domain"`
	Social  SocialConfig  `mapstructure:"social"`
	Similar SimilarConfig `mapstructure:"similar"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	// Valid values: trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Valid values: simple, structured
	Profile string `mapstructure:"profile"`
}

// MetricsConfig contains Prometheus metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// Port is the dedicated Prometheus exporter port. The main server
	// proxies it at /metrics.
	Port int `mapstructure:"port"`
}

// HealthConfig contains health check configuration
type HealthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CheckConfig controls the fan-out of a full name check.
type CheckConfig struct {
	Extensions     []string      `mapstructure:"extensions"`
	Workers        int           `mapstructure:"workers"`
	TaskTimeout    time.Duration `mapstructure:"task_timeout"`
	SimilarTimeout time.Duration `mapstructure:"similar_timeout"`
}

// HTTPConfig holds the headers sent with outbound probes.
type HTTPConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	Accept         string `mapstructure:"accept"`
	AcceptLanguage string `mapstructure:"accept_language"`
}

// DomainConfig configures the domain lookup cascade.
type DomainConfig struct {
	RDAP  RDAPConfig  `mapstructure:"rdap"`
	Whois WhoisConfig `mapstructure:"whois"`
	DNS   DNSConfig   `mapstructure:"dns"`
}

// RDAPConfig configures the registry step.
type RDAPConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WhoisConfig configures the ownership-record step.
type WhoisConfig struct {
	Enabled          bool              `mapstructure:"enabled"`
	Timeout          time.Duration     `mapstructure:"timeout"`
	Servers          map[string]string `mapstructure:"servers"`
	NotFoundPatterns []string          `mapstructure:"not_found_patterns"`
}

// DNSConfig configures the DNS step.
type DNSConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SocialConfig configures the handle classifier.
type SocialConfig struct {
	Timeout       time.Duration `mapstructure:"timeout"`
	PlatformsFile string        `mapstructure:"platforms_file"`
	MaxRedirects  int           `mapstructure:"max_redirects"`
}

// SimilarConfig configures the similar-domain finder.
type SimilarConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	BaseURL     string        `mapstructure:"base_url"`
	Zone        string        `mapstructure:"zone"`
	Limit       int           `mapstructure:"limit"`
	MaxDistance int           `mapstructure:"max_distance"`
	MaxResults  int           `mapstructure:"max_results"`
	Timeout     time.Duration `mapstructure:"timeout"`
}
