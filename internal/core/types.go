package core

import "time"

// Verdict is the availability state reported for a single probe target.
type Verdict string

const (
	VerdictTaken     Verdict = "taken"
	VerdictAvailable Verdict = "available"
	VerdictUnknown   Verdict = "unknown"

	// VerdictLikelyAvailable only exists inside the domain cascade. It is
	// resolved to Available or Unknown before a result leaves the resolver.
	VerdictLikelyAvailable Verdict = "likely_available"
)

// Conclusive reports whether the verdict ends a lookup cascade.
func (v Verdict) Conclusive() bool {
	return v == VerdictTaken || v == VerdictAvailable
}

// ProbeResult is the outcome of one probe. Method is a provenance tag naming
// the technique or heuristic that produced the verdict.
type ProbeResult struct {
	Verdict Verdict           `json:"status"`
	Method  string            `json:"method"`
	Details map[string]string `json:"details,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Unknown builds an Unknown result with the given method tag.
func Unknown(method string) ProbeResult {
	return ProbeResult{Verdict: VerdictUnknown, Method: method}
}

// Failed builds an Unknown result carrying a truncated diagnostic.
func Failed(method string, err error) ProbeResult {
	result := Unknown(method)
	if err != nil {
		result.Error = Truncate(err.Error(), MaxErrorLength)
	}
	return result
}

// MaxErrorLength bounds diagnostic strings attached to results.
const MaxErrorLength = 100

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// PlatformSpec describes a social network probed by URL template.
type PlatformSpec struct {
	Name        string `json:"name" yaml:"name"`
	URLTemplate string `json:"url_template" yaml:"url_template"`
}

// HandlePlaceholder is substituted with the handle in URLTemplate.
const HandlePlaceholder = "{handle}"

// SimilarDomainMatch is an existing domain lexically close to the handle.
type SimilarDomainMatch struct {
	Domain   string `json:"domain"`
	Distance int    `json:"distance"`
}

// CheckReport aggregates every probe for one proposed name.
type CheckReport struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Handle    string                 `json:"handle"`
	Domains   map[string]ProbeResult `json:"domains"`
	Social    map[string]ProbeResult `json:"social"`
	Similar   []SimilarDomainMatch   `json:"similar"`
	Timestamp string                 `json:"timestamp"`
	Duration  int64                  `json:"duration_ms"`
}

// TimestampLayout formats CheckReport.Timestamp.
const TimestampLayout = time.RFC3339

// Tally counts report entries by verdict across domains and social.
func (r *CheckReport) Tally() map[Verdict]int {
	counts := make(map[Verdict]int, 3)
	if r == nil {
		return counts
	}
	for _, res := range r.Domains {
		counts[res.Verdict]++
	}
	for _, res := range r.Social {
		counts[res.Verdict]++
	}
	return counts
}
