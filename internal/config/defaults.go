package config

import (
	"github.com/spf13/viper"

	"github.com/namevetter/namevetter/internal/core/checker"
	"github.com/namevetter/namevetter/internal/core/engine"
)

// SetDefaults registers every configuration default on v.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5111)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.profile", "structured")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Health check defaults
	v.SetDefault("health.enabled", true)

	// Check fan-out
	v.SetDefault("check.extensions", engine.DefaultExtensions)
	v.SetDefault("check.workers", engine.DefaultWorkers)
	v.SetDefault("check.task_timeout", engine.DefaultTaskTimeout.String())
	v.SetDefault("check.similar_timeout", engine.DefaultSimilarTimeout.String())

	// Outbound headers
	v.SetDefault("http.user_agent", checker.DefaultUserAgent)
	v.SetDefault("http.accept", checker.DefaultAccept)
	v.SetDefault("http.accept_language", checker.DefaultAcceptLanguage)

	// Domain cascade
	v.SetDefault("domain.rdap.base_url", checker.DefaultRDAPBaseURL)
	v.SetDefault("domain.rdap.timeout", checker.DefaultRDAPTimeout.String())
	v.SetDefault("domain.whois.enabled", true)
	v.SetDefault("domain.whois.timeout", checker.DefaultWhoisTimeout.String())
	v.SetDefault("domain.whois.servers", checker.DefaultWhoisServers)
	v.SetDefault("domain.whois.not_found_patterns", checker.DefaultNotFoundPatterns)
	v.SetDefault("domain.dns.enabled", true)
	v.SetDefault("domain.dns.timeout", checker.DefaultDNSTimeout.String())

	// Social classifier
	v.SetDefault("social.timeout", checker.DefaultSocialTimeout.String())
	v.SetDefault("social.platforms_file", "")
	v.SetDefault("social.max_redirects", checker.DefaultMaxRedirects)

	// Similar-domain finder
	v.SetDefault("similar.enabled", true)
	v.SetDefault("similar.base_url", checker.DefaultSimilarBaseURL)
	v.SetDefault("similar.zone", checker.DefaultSimilarZone)
	v.SetDefault("similar.limit", checker.DefaultSimilarLimit)
	v.SetDefault("similar.max_distance", checker.DefaultSimilarMaxDistance)
	v.SetDefault("similar.max_results", checker.DefaultSimilarMaxResults)
	v.SetDefault("similar.timeout", checker.DefaultSimilarTimeout.String())
}
