package checker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/namevetter/namevetter/internal/core"
	"github.com/namevetter/namevetter/internal/core/distance"
)

const (
	DefaultSimilarBaseURL     = "https://api.domainsdb.info/v1"
	DefaultSimilarZone        = "com"
	DefaultSimilarLimit       = 20
	DefaultSimilarMaxDistance = 3
	DefaultSimilarMaxResults  = 8
	DefaultSimilarTimeout     = 8 * time.Second

	similarMaxBodyBytes = 1 << 20
)

// SimilarFinder searches a domain index for registered names close to a
// handle.
type SimilarFinder struct {
	BaseURL     string
	Client      *http.Client
	Zone        string
	Limit       int
	MaxDistance int
	MaxResults  int
	Timeout     time.Duration
}

type domainIndexResponse struct {
	Domains []struct {
		Domain string `json:"domain"`
	} `json:"domains"`
}

// FindSimilar returns matches at distance 1..MaxDistance, closest first.
// Upstream failures yield an empty result.
func (f *SimilarFinder) FindSimilar(ctx context.Context, handle string) []core.SimilarDomainMatch {
	matches := []core.SimilarDomainMatch{}
	if strings.TrimSpace(handle) == "" {
		return matches
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, positive(f.Timeout, DefaultSimilarTimeout))
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.searchURL(handle), nil)
	if err != nil {
		return matches
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = NewHTTPClient(DefaultHeaders(), positive(f.Timeout, DefaultSimilarTimeout), DefaultMaxRedirects)
	}

	resp, err := client.Do(req)
	if err != nil {
		return matches
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	if resp.StatusCode != http.StatusOK {
		return matches
	}

	var payload domainIndexResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, similarMaxBodyBytes)).Decode(&payload); err != nil {
		return matches
	}

	maxDistance := positiveInt(f.MaxDistance, DefaultSimilarMaxDistance)
	seen := make(map[string]struct{}, len(payload.Domains))
	for _, entry := range payload.Domains {
		domain := strings.ToLower(strings.TrimSpace(entry.Domain))
		if domain == "" {
			continue
		}
		if _, dup := seen[domain]; dup {
			continue
		}
		seen[domain] = struct{}{}

		label, _, _ := strings.Cut(domain, ".")
		dist := distance.Levenshtein(handle, label)
		if dist > 0 && dist <= maxDistance {
			matches = append(matches, core.SimilarDomainMatch{Domain: domain, Distance: dist})
		}
	}

	slices.SortStableFunc(matches, func(a, b core.SimilarDomainMatch) int {
		return a.Distance - b.Distance
	})
	if maxResults := positiveInt(f.MaxResults, DefaultSimilarMaxResults); len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}

func (f *SimilarFinder) searchURL(handle string) string {
	base := strings.TrimRight(strings.TrimSpace(f.BaseURL), "/")
	if base == "" {
		base = DefaultSimilarBaseURL
	}
	zone := strings.TrimSpace(f.Zone)
	if zone == "" {
		zone = DefaultSimilarZone
	}

	query := url.Values{}
	query.Set("domain", handle)
	query.Set("zone", zone)
	query.Set("limit", strconv.Itoa(positiveInt(f.Limit, DefaultSimilarLimit)))
	return base + "/domains/search?" + query.Encode()
}

func positive(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}

func positiveInt(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}
