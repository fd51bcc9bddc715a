package metrics

import (
	"time"

	"github.com/namevetter/namevetter/internal/observability"
)

// Probe and check metrics
const (
	ProbesTotal         = "probe_results_total"
	ProbeDuration       = "probe_duration_ms"
	CascadeStepsTotal   = "cascade_steps_total"
	CollectTimeouts     = "probe_collection_timeouts_total"
	ChecksTotal         = "checks_total"
	CheckDuration       = "check_duration_ms"
	CheckResultsTotal   = "check_results_total"
	SimilarMatchesTotal = "similar_matches_total"

	ServerStartTime = "server_start_time_seconds"
)

// RecordProbe records one finished domain, social or similar task.
func RecordProbe(kind, verdict, method string, elapsed time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(
		ProbesTotal,
		1,
		map[string]string{
			"kind":    kind,
			"verdict": verdict,
			"method":  method,
		},
	)
	_ = observability.TelemetrySystem.Histogram(
		ProbeDuration,
		elapsed,
		map[string]string{"kind": kind},
	)
}

// RecordCascadeStep records the outcome of a single registry, WHOIS or DNS
// step inside the domain cascade.
func RecordCascadeStep(method, verdict string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			CascadeStepsTotal,
			1,
			map[string]string{
				"method":  method,
				"verdict": verdict,
			},
		)
	}
}

// RecordCollectTimeout records a task whose result was replaced by the
// synthetic timeout verdict.
func RecordCollectTimeout(kind string) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			CollectTimeouts,
			1,
			map[string]string{"kind": kind},
		)
	}
}

// RecordSimilarMatches records how many similar domains a check returned.
func RecordSimilarMatches(count int) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Counter(
			SimilarMatchesTotal,
			float64(count),
			nil,
		)
	}
}

// RecordCheck records a completed full name check. Surface is "api" or "cli".
func RecordCheck(surface string, taken, available, unknown int, duration time.Duration) {
	if observability.TelemetrySystem == nil {
		return
	}
	_ = observability.TelemetrySystem.Counter(ChecksTotal, 1, map[string]string{"surface": surface})
	_ = observability.TelemetrySystem.Histogram(CheckDuration, duration, map[string]string{"surface": surface})
	for verdict, n := range map[string]int{"taken": taken, "available": available, "unknown": unknown} {
		if n == 0 {
			continue
		}
		_ = observability.TelemetrySystem.Counter(
			CheckResultsTotal,
			float64(n),
			map[string]string{"surface": surface, "verdict": verdict},
		)
	}
}

// SetServerStartTime records the server start time (Unix timestamp)
func SetServerStartTime(timestamp int64) {
	if observability.TelemetrySystem != nil {
		_ = observability.TelemetrySystem.Gauge(
			ServerStartTime,
			float64(timestamp),
			nil,
		)
	}
}
