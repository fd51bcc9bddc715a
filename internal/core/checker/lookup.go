package checker

import (
	"context"
	"time"

	"github.com/namevetter/namevetter/internal/core"
)

// Lookup is one step of the domain cascade. A step never fails: transport and
// parse problems come back as an inconclusive Unknown result.
type Lookup interface {
	Method() string
	Lookup(ctx context.Context, domain string) core.ProbeResult
}

// StepObserver is told about every cascade step that ran.
type StepObserver func(method string, result core.ProbeResult, elapsed time.Duration)

// DomainResolver runs its steps in order until one is conclusive.
type DomainResolver struct {
	Steps   []Lookup
	Observe StepObserver
}

// NewDomainResolver returns a resolver over steps, tried in the given order.
func NewDomainResolver(steps ...Lookup) *DomainResolver {
	return &DomainResolver{Steps: steps}
}

// Resolve decides the status of domain. LikelyAvailable from a step is
// promoted to Available tagged "<method>_inferred"; if no step is conclusive
// the result is Unknown/"all_failed".
func (r *DomainResolver) Resolve(ctx context.Context, domain string) core.ProbeResult {
	if ctx == nil {
		ctx = context.Background()
	}

	for _, step := range r.Steps {
		started := time.Now()
		result := step.Lookup(ctx, domain)
		if r.Observe != nil {
			r.Observe(step.Method(), result, time.Since(started))
		}

		switch {
		case result.Verdict.Conclusive():
			return result
		case result.Verdict == core.VerdictLikelyAvailable:
			return core.ProbeResult{
				Verdict: core.VerdictAvailable,
				Method:  step.Method() + "_inferred",
				Details: result.Details,
			}
		}
	}

	return core.ProbeResult{Verdict: core.VerdictUnknown, Method: "all_failed", Details: map[string]string{}}
}
