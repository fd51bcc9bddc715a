package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fulmenhq/gofulmen/telemetry"
	telemetrytesting "github.com/fulmenhq/gofulmen/telemetry/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namevetter/namevetter/internal/core"
	"github.com/namevetter/namevetter/internal/core/platforms"
	"github.com/namevetter/namevetter/internal/metrics"
	"github.com/namevetter/namevetter/internal/observability"
)

type stubChecker struct {
	report       *core.CheckReport
	gotName      string
	gotDomain    string
	gotPlatform  core.PlatformSpec
	gotHandle    string
	domainResult core.ProbeResult
	socialResult core.ProbeResult
}

func (s *stubChecker) Check(ctx context.Context, name string) (*core.CheckReport, error) {
	s.gotName = name
	handle, err := core.NormalizeHandle(name)
	if err != nil {
		return nil, err
	}
	if s.report != nil {
		return s.report, nil
	}
	return &core.CheckReport{
		ID:      "check-1",
		Name:    name,
		Handle:  handle,
		Domains: map[string]core.ProbeResult{handle + ".com": {Verdict: core.VerdictTaken, Method: "rdap"}},
		Social:  map[string]core.ProbeResult{"Instagram": {Verdict: core.VerdictAvailable, Method: "http_404"}},
		Similar: []core.SimilarDomainMatch{},
	}, nil
}

func (s *stubChecker) ResolveDomain(ctx context.Context, domain string) core.ProbeResult {
	s.gotDomain = domain
	return s.domainResult
}

func (s *stubChecker) ClassifyHandle(ctx context.Context, platform core.PlatformSpec, handle string) core.ProbeResult {
	s.gotPlatform = platform
	s.gotHandle = handle
	return s.socialResult
}

func newTestAPI(t *testing.T) (*API, *stubChecker) {
	t.Helper()
	table, err := platforms.Default()
	require.NoError(t, err)
	checker := &stubChecker{
		domainResult: core.ProbeResult{Verdict: core.VerdictAvailable, Method: "rdap"},
		socialResult: core.ProbeResult{Verdict: core.VerdictTaken, Method: "http_200"},
	}
	return NewAPI(checker, table), checker
}

func post(handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestCheckReturnsReport(t *testing.T) {
	api, checker := newTestAPI(t)

	rec := post(api.Check, `{"name":"My New Brand"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "My New Brand", checker.gotName)

	body := decode(t, rec)
	assert.Equal(t, "mynewbrand", body["handle"])
	domains := body["domains"].(map[string]any)
	assert.Equal(t, "taken", domains["mynewbrand.com"].(map[string]any)["status"])
	assert.Equal(t, []any{}, body["similar"])
}

func TestCheckRecordsOneCheckMetric(t *testing.T) {
	collector := telemetrytesting.NewFakeCollector()
	sys, err := telemetry.NewSystem(&telemetry.Config{Enabled: true, Emitter: collector})
	require.NoError(t, err)
	original := observability.TelemetrySystem
	observability.TelemetrySystem = sys
	t.Cleanup(func() { observability.TelemetrySystem = original })

	api, checker := newTestAPI(t)
	checker.report = &core.CheckReport{
		ID:      "check-2",
		Name:    "acme",
		Handle:  "acme",
		Domains: map[string]core.ProbeResult{".com": {Verdict: core.VerdictTaken, Method: "rdap"}},
		Social:  map[string]core.ProbeResult{},
		Similar: []core.SimilarDomainMatch{{Domain: "acmes.com", Distance: 1}},
	}

	rec := post(api.Check, `{"name":"acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, collector.CountMetricsByName(metrics.ChecksTotal))
	// The orchestrator observer owns the similar-match counter.
	assert.Equal(t, 0, collector.CountMetricsByName(metrics.SimilarMatchesTotal))
}

func TestCheckRejectsInvalidNames(t *testing.T) {
	api, _ := newTestAPI(t)

	cases := map[string]string{
		`{"name":""}`:    "Name is required",
		`{"name":"!!!"}`: "Name must contain alphanumeric characters",
		``:               "Name is required",
	}
	for body, message := range cases {
		rec := post(api.Check, body)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, message, decode(t, rec)["error"], body)
	}
}

func TestCheckRejectsMalformedJSON(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := post(api.Check, `{"name":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "INVALID_INPUT", body["code"])
	assert.IsType(t, "", body["error"])
}

func TestCheckDomain(t *testing.T) {
	api, checker := newTestAPI(t)

	rec := post(api.CheckDomain, `{"domain":"  Example.COM "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "example.com", checker.gotDomain)

	body := decode(t, rec)
	assert.Equal(t, "example.com", body["domain"])
	assert.Equal(t, "available", body["status"])
	assert.Equal(t, "rdap", body["method"])

	rec = post(api.CheckDomain, `{"domain":"   "}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Domain is required", decode(t, rec)["error"])
}

func TestCheckSocial(t *testing.T) {
	api, checker := newTestAPI(t)

	rec := post(api.CheckSocial, `{"platform":"Instagram","handle":" MyBrand "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Instagram", checker.gotPlatform.Name)
	assert.Equal(t, "mybrand", checker.gotHandle)

	body := decode(t, rec)
	assert.Equal(t, "Instagram", body["platform"])
	assert.Equal(t, "mybrand", body["handle"])
	assert.Equal(t, "taken", body["status"])
	assert.Equal(t, "http_200", body["method"])
}

func TestCheckSocialResolvesAliases(t *testing.T) {
	api, checker := newTestAPI(t)

	rec := post(api.CheckSocial, `{"platform":"twitter","handle":"mybrand"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "X (Twitter)", checker.gotPlatform.Name)
	assert.Equal(t, "X (Twitter)", decode(t, rec)["platform"])
}

func TestCheckSocialRejectsUnknownPlatform(t *testing.T) {
	api, _ := newTestAPI(t)

	rec := post(api.CheckSocial, `{"platform":"MySpace","handle":"mybrand"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Unknown platform: MySpace", decode(t, rec)["error"])

	rec = post(api.CheckSocial, `{"platform":"Instagram","handle":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Handle is required", decode(t, rec)["error"])
}

func TestAPIHealth(t *testing.T) {
	api, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	api.Health(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.0.0", body["version"])
}
