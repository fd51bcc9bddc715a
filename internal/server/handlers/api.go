package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/namevetter/namevetter/internal/appid"
	"github.com/namevetter/namevetter/internal/core"
	apperrors "github.com/namevetter/namevetter/internal/errors"
	"github.com/namevetter/namevetter/internal/metrics"
	"github.com/namevetter/namevetter/internal/observability"
	"github.com/namevetter/namevetter/internal/server/middleware"
)

// MaxRequestBodyBytes bounds the JSON body accepted by the /api routes.
const MaxRequestBodyBytes = 64 << 10

// Checker is the part of the orchestrator the API needs.
type Checker interface {
	Check(ctx context.Context, name string) (*core.CheckReport, error)
	ResolveDomain(ctx context.Context, domain string) core.ProbeResult
	ClassifyHandle(ctx context.Context, platform core.PlatformSpec, handle string) core.ProbeResult
}

// PlatformLookup resolves a caller-supplied platform name.
type PlatformLookup interface {
	Lookup(name string) (core.PlatformSpec, bool)
}

// API serves the name-check routes under /api.
type API struct {
	checker   Checker
	platforms PlatformLookup
}

// NewAPI wires the API handlers to a checker and its platform table.
func NewAPI(checker Checker, platforms PlatformLookup) *API {
	return &API{checker: checker, platforms: platforms}
}

type checkRequest struct {
	Name string `json:"name"`
}

type domainRequest struct {
	Domain string `json:"domain"`
}

type socialRequest struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
}

// DomainResponse is the body of POST /api/check-domain.
type DomainResponse struct {
	Domain string `json:"domain"`
	core.ProbeResult
}

// SocialResponse is the body of POST /api/check-social.
type SocialResponse struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
	core.ProbeResult
}

// APIHealthResponse is the body of GET /api/health.
type APIHealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Check handles POST /api/check.
func (a *API) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	report, err := a.checker.Check(r.Context(), req.Name)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	logReport(r.Context(), report)
	writeJSON(w, http.StatusOK, report)
}

// CheckDomain handles POST /api/check-domain.
func (a *API) CheckDomain(w http.ResponseWriter, r *http.Request) {
	var req domainRequest
	if !decodeBody(w, r, &req) {
		return
	}

	domain, err := core.NormalizeDomain(req.Domain)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	started := time.Now()
	result := a.checker.ResolveDomain(r.Context(), domain)
	metrics.RecordProbe("domain", string(result.Verdict), result.Method, time.Since(started))

	writeJSON(w, http.StatusOK, DomainResponse{Domain: domain, ProbeResult: result})
}

// CheckSocial handles POST /api/check-social.
func (a *API) CheckSocial(w http.ResponseWriter, r *http.Request) {
	var req socialRequest
	if !decodeBody(w, r, &req) {
		return
	}

	platform, ok := a.platforms.Lookup(req.Platform)
	if !ok {
		respondWithError(w, r, core.NewInvalidInput("platform", fmt.Sprintf("Unknown platform: %s", req.Platform)))
		return
	}

	handle := strings.ToLower(strings.TrimSpace(req.Handle))
	if handle == "" {
		respondWithError(w, r, core.NewInvalidInput("handle", "Handle is required"))
		return
	}

	started := time.Now()
	result := a.checker.ClassifyHandle(r.Context(), platform, handle)
	metrics.RecordProbe("social", string(result.Verdict), result.Method, time.Since(started))

	writeJSON(w, http.StatusOK, SocialResponse{Platform: platform.Name, Handle: handle, ProbeResult: result})
}

// Health handles GET /api/health. It reports the API contract version, not
// the build version.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIHealthResponse{Status: "ok", Version: appid.Get().APIVersion})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, MaxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty body decodes to the zero request and fails validation
			// with the field-specific message.
			return true
		}
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Request body must be a JSON object"))
		return false
	}
	return true
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	apperrors.RespondWithError(w, r, err)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func logReport(ctx context.Context, report *core.CheckReport) {
	counts := report.Tally()
	taken := counts[core.VerdictTaken]
	available := counts[core.VerdictAvailable]
	unknown := counts[core.VerdictUnknown]

	metrics.RecordCheck("api", taken, available, unknown, time.Duration(report.Duration)*time.Millisecond)

	if observability.ServerLogger == nil {
		return
	}
	observability.ServerLogger.Info("Name check completed",
		zap.String("check_id", report.ID),
		zap.String("handle", report.Handle),
		zap.Int("taken", taken),
		zap.Int("available", available),
		zap.Int("unknown", unknown),
		zap.Int("similar", len(report.Similar)),
		zap.Int64("duration_ms", report.Duration),
		zap.String("request_id", middleware.GetRequestID(ctx)),
	)
}
