package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/namevetter/namevetter/internal/config"
	"github.com/namevetter/namevetter/internal/core"
	"github.com/namevetter/namevetter/internal/core/checker"
	"github.com/namevetter/namevetter/internal/core/engine"
	"github.com/namevetter/namevetter/internal/core/platforms"
	"github.com/namevetter/namevetter/internal/metrics"
)

// Stack is the probe machinery built from one Config.
type Stack struct {
	Orchestrator *engine.Orchestrator
	Platforms    *platforms.Table
}

// BuildStack wires the domain cascade, the social classifier and the
// similar-domain finder into an orchestrator. Probe outcomes are reported to
// the metrics package; it is a no-op until telemetry is initialized.
func BuildStack(cfg *config.Config) (*Stack, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	table, err := platforms.Load(cfg.Social.PlatformsFile)
	if err != nil {
		return nil, err
	}

	headers := cfg.Headers()
	rdapClient := checker.NewHTTPClient(headers, cfg.Domain.RDAP.Timeout, 0)
	socialClient := checker.NewHTTPClient(headers, cfg.Social.Timeout, cfg.Social.MaxRedirects)

	steps := []checker.Lookup{
		checker.NewRDAPLookup(cfg.Domain.RDAP.BaseURL, rdapClient, headers.UserAgent, cfg.Domain.RDAP.Timeout),
	}
	if cfg.Domain.Whois.Enabled {
		steps = append(steps, checker.NewWhoisLookup(cfg.Domain.Whois.Servers, cfg.Domain.Whois.Timeout, cfg.Domain.Whois.NotFoundPatterns))
	}
	if cfg.Domain.DNS.Enabled {
		steps = append(steps, &checker.DNSLookup{Timeout: cfg.Domain.DNS.Timeout})
	}

	resolver := checker.NewDomainResolver(steps...)
	resolver.Observe = func(method string, result core.ProbeResult, _ time.Duration) {
		metrics.RecordCascadeStep(method, string(result.Verdict))
	}

	var similar engine.SimilarFinder
	if cfg.Similar.Enabled {
		similar = &checker.SimilarFinder{
			BaseURL:     cfg.Similar.BaseURL,
			Client:      checker.NewHTTPClient(headers, cfg.Similar.Timeout, 0),
			Zone:        cfg.Similar.Zone,
			Limit:       cfg.Similar.Limit,
			MaxDistance: cfg.Similar.MaxDistance,
			MaxResults:  cfg.Similar.MaxResults,
			Timeout:     cfg.Similar.Timeout,
		}
	}

	orch, err := engine.New(
		resolver,
		checker.NewSocialClassifier(socialClient, table, cfg.Social.Timeout),
		similar,
		cfg.EngineSettings(table.Specs()),
	)
	if err != nil {
		return nil, err
	}
	orch.Observe = recordEvent

	return &Stack{Orchestrator: orch, Platforms: table}, nil
}

func recordEvent(event engine.Event) {
	kind := string(event.Kind)
	if errors.Is(event.Err, engine.ErrTaskPanicked) {
		metrics.RecordPanic("probe")
	}
	if event.TimedOut {
		metrics.RecordCollectTimeout(kind)
	}
	if event.Kind == engine.TaskSimilar {
		metrics.RecordSimilarMatches(event.Matches)
		return
	}
	metrics.RecordProbe(kind, string(event.Result.Verdict), event.Result.Method, event.Elapsed)
}
