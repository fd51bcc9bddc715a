package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/namevetter/namevetter/internal/core"
)

// Default fan-out parameters.
const (
	DefaultWorkers        = 8
	DefaultTaskTimeout    = 15 * time.Second
	DefaultSimilarTimeout = 10 * time.Second
)

// DefaultExtensions are the domain extensions checked for every name.
var DefaultExtensions = []string{".com", ".co", ".io", ".net", ".org", ".ai"}

// Settings is the immutable configuration of an Orchestrator.
type Settings struct {
	Extensions     []string
	Platforms      []core.PlatformSpec
	Workers        int
	TaskTimeout    time.Duration
	SimilarTimeout time.Duration
}

// Normalize fills defaults, lowercases extensions with a leading dot and
// drops duplicates. It returns a copy.
func (s Settings) Normalize() (Settings, error) {
	out := Settings{
		Workers:        s.Workers,
		TaskTimeout:    s.TaskTimeout,
		SimilarTimeout: s.SimilarTimeout,
	}
	if out.Workers <= 0 {
		out.Workers = DefaultWorkers
	}
	if out.TaskTimeout <= 0 {
		out.TaskTimeout = DefaultTaskTimeout
	}
	if out.SimilarTimeout <= 0 {
		out.SimilarTimeout = DefaultSimilarTimeout
	}

	seen := map[string]struct{}{}
	for _, ext := range s.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		normalized = "." + strings.Trim(normalized, ".")
		if normalized == "." {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out.Extensions = append(out.Extensions, normalized)
	}
	if len(out.Extensions) == 0 {
		return Settings{}, fmt.Errorf("at least one domain extension is required")
	}

	names := map[string]struct{}{}
	for _, p := range s.Platforms {
		if strings.TrimSpace(p.Name) == "" {
			return Settings{}, fmt.Errorf("platform name is required")
		}
		if _, dup := names[p.Name]; dup {
			return Settings{}, fmt.Errorf("duplicate platform %q", p.Name)
		}
		names[p.Name] = struct{}{}
		out.Platforms = append(out.Platforms, p)
	}

	return out, nil
}
