package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/namevetter/namevetter/internal/core"
)

// DomainResolver decides the status of one fully qualified domain.
type DomainResolver interface {
	Resolve(ctx context.Context, domain string) core.ProbeResult
}

// SocialClassifier decides the status of a handle on one platform.
type SocialClassifier interface {
	Classify(ctx context.Context, platform core.PlatformSpec, handle string) core.ProbeResult
}

// SimilarFinder lists registered domains close to a handle.
type SimilarFinder interface {
	FindSimilar(ctx context.Context, handle string) []core.SimilarDomainMatch
}

// TaskKind labels the three kinds of fan-out work.
type TaskKind string

const (
	TaskDomain  TaskKind = "domain"
	TaskSocial  TaskKind = "social"
	TaskSimilar TaskKind = "similar"
)

// TimeoutMethod tags results synthesized for tasks that missed their bound.
const TimeoutMethod = "timeout"

// Event describes one collected task.
type Event struct {
	Kind     TaskKind
	Target   string
	Result   core.ProbeResult
	Matches  int
	TimedOut bool
	Elapsed  time.Duration
	// Err is set when the task ended without a value, e.g. ErrTaskPanicked.
	Err error
}

// Observer receives an Event per collected task. It is called from the
// collecting goroutine only.
type Observer func(Event)

// Orchestrator fans a name out to every domain extension, every platform and
// the similar-domain search, then assembles a CheckReport.
type Orchestrator struct {
	domains  DomainResolver
	social   SocialClassifier
	similar  SimilarFinder
	settings Settings

	Clock   func() time.Time
	Observe Observer
}

// New validates settings and returns an Orchestrator.
func New(domains DomainResolver, social SocialClassifier, similar SimilarFinder, settings Settings) (*Orchestrator, error) {
	if domains == nil {
		return nil, errors.New("domain resolver is required")
	}
	if social == nil && len(settings.Platforms) > 0 {
		return nil, errors.New("social classifier is required when platforms are configured")
	}
	normalized, err := settings.Normalize()
	if err != nil {
		return nil, err
	}
	return &Orchestrator{
		domains:  domains,
		social:   social,
		similar:  similar,
		settings: normalized,
	}, nil
}

// Settings returns a copy of the orchestrator settings.
func (o *Orchestrator) Settings() Settings {
	s := o.settings
	s.Extensions = append([]string(nil), s.Extensions...)
	s.Platforms = append([]core.PlatformSpec(nil), s.Platforms...)
	return s
}

// ResolveDomain runs the domain cascade for a single domain.
func (o *Orchestrator) ResolveDomain(ctx context.Context, domain string) core.ProbeResult {
	return o.domains.Resolve(ctx, domain)
}

// ClassifyHandle runs a single social probe.
func (o *Orchestrator) ClassifyHandle(ctx context.Context, platform core.PlatformSpec, handle string) core.ProbeResult {
	if o.social == nil {
		return core.Unknown("error")
	}
	return o.social.Classify(ctx, platform, handle)
}

// TaskCount is the number of events one Check emits.
func (o *Orchestrator) TaskCount() int {
	n := len(o.settings.Extensions) + len(o.settings.Platforms)
	if o.similar != nil {
		n++
	}
	return n
}

// FindSimilar runs the similar-domain search on its own.
func (o *Orchestrator) FindSimilar(ctx context.Context, handle string) []core.SimilarDomainMatch {
	if o.similar == nil {
		return []core.SimilarDomainMatch{}
	}
	return o.similar.FindSimilar(ctx, handle)
}

// Check validates name and runs every probe for its handle. Once the name is
// accepted the report is always complete: a task that misses its collection
// bound is reported as Unknown/"timeout" (or no similar domains).
func (o *Orchestrator) Check(ctx context.Context, name string) (*core.CheckReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	handle, err := core.NormalizeHandle(name)
	if err != nil {
		return nil, err
	}

	settings := o.settings
	started := time.Now()
	stamp := o.now()

	// Tasks still running after collection are abandoned; cancel tells them
	// to stop early.
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := NewPool(settings.Workers)

	domainFutures := make([]*Future[core.ProbeResult], len(settings.Extensions))
	for i, ext := range settings.Extensions {
		domain := handle + ext
		domainFutures[i] = Submit(taskCtx, pool, func(ctx context.Context) core.ProbeResult {
			return o.domains.Resolve(ctx, domain)
		})
	}

	socialFutures := make([]*Future[core.ProbeResult], len(settings.Platforms))
	for i, platform := range settings.Platforms {
		socialFutures[i] = Submit(taskCtx, pool, func(ctx context.Context) core.ProbeResult {
			return o.social.Classify(ctx, platform, handle)
		})
	}

	var similarFuture *Future[[]core.SimilarDomainMatch]
	if o.similar != nil {
		similarFuture = Submit(taskCtx, pool, func(ctx context.Context) []core.SimilarDomainMatch {
			return o.similar.FindSimilar(ctx, handle)
		})
	}

	taskDeadline := started.Add(settings.TaskTimeout)
	similarDeadline := started.Add(settings.SimilarTimeout)

	report := &core.CheckReport{
		ID:        uuid.New().String(),
		Name:      name,
		Handle:    handle,
		Domains:   make(map[string]core.ProbeResult, len(settings.Extensions)),
		Social:    make(map[string]core.ProbeResult, len(settings.Platforms)),
		Similar:   []core.SimilarDomainMatch{},
		Timestamp: stamp.UTC().Format(core.TimestampLayout),
	}

	for i, ext := range settings.Extensions {
		report.Domains[ext] = o.collect(ctx, TaskDomain, handle+ext, domainFutures[i], taskDeadline)
	}
	for i, platform := range settings.Platforms {
		report.Social[platform.Name] = o.collect(ctx, TaskSocial, platform.Name, socialFutures[i], taskDeadline)
	}

	if similarFuture != nil {
		matches, ok := similarFuture.Await(ctx, similarDeadline)
		if ok && matches != nil {
			report.Similar = matches
		}
		taskErr := similarFuture.Err()
		o.emit(Event{
			Kind:     TaskSimilar,
			Target:   handle,
			Matches:  len(report.Similar),
			TimedOut: !ok && taskErr == nil,
			Elapsed:  similarFuture.Elapsed(),
			Err:      taskErr,
		})
	}

	report.Duration = time.Since(started).Milliseconds()
	return report, nil
}

func (o *Orchestrator) collect(ctx context.Context, kind TaskKind, target string, f *Future[core.ProbeResult], deadline time.Time) core.ProbeResult {
	result, ok := f.Await(ctx, deadline)
	timedOut := false
	var taskErr error
	if !ok {
		if taskErr = f.Err(); taskErr != nil {
			result = core.Failed("error", taskErr)
		} else {
			result = core.Unknown(TimeoutMethod)
			timedOut = true
		}
	}
	o.emit(Event{Kind: kind, Target: target, Result: result, TimedOut: timedOut, Elapsed: f.Elapsed(), Err: taskErr})
	return result
}

func (o *Orchestrator) emit(event Event) {
	if o.Observe != nil {
		o.Observe(event)
	}
}

func (o *Orchestrator) now() time.Time {
	if o != nil && o.Clock != nil {
		return o.Clock()
	}
	return time.Now().UTC()
}
