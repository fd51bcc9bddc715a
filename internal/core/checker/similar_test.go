package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namevetter/namevetter/internal/core"
)

func TestFindSimilarFiltersAndRanks(t *testing.T) {
	var query, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"domains": [
			{"domain": "acme.com"},
			{"domain": "acmexyz.com"},
			{"domain": "acmes.com"},
			{"domain": "acmecorporation.com"},
			{"domain": "macme.com"},
			{"domain": "acmes.com"},
			{"domain": "acm.com"}
		]}`))
	}))
	defer server.Close()

	finder := &SimilarFinder{BaseURL: server.URL + "/v1", Client: server.Client()}
	matches := finder.FindSimilar(context.Background(), "acme")

	assert.Equal(t, "/v1/domains/search", path)
	assert.Contains(t, query, "domain=acme")
	assert.Contains(t, query, "zone=com")
	assert.Contains(t, query, "limit=20")

	require.Equal(t, []core.SimilarDomainMatch{
		{Domain: "acmes.com", Distance: 1},
		{Domain: "macme.com", Distance: 1},
		{Domain: "acm.com", Distance: 1},
		{Domain: "acmexyz.com", Distance: 3},
	}, matches)
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.Distance, 1)
		assert.LessOrEqual(t, m.Distance, 3)
	}
}

func TestFindSimilarCapsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"domains": [
			{"domain": "acmea.com"}, {"domain": "acmeb.com"}, {"domain": "acmec.com"},
			{"domain": "acmed.com"}, {"domain": "acmee.com"}, {"domain": "acmef.com"},
			{"domain": "acmeg.com"}, {"domain": "acmeh.com"}, {"domain": "acmei.com"},
			{"domain": "acmej.com"}
		]}`))
	}))
	defer server.Close()

	finder := &SimilarFinder{BaseURL: server.URL, Client: server.Client()}
	matches := finder.FindSimilar(context.Background(), "acme")
	require.Len(t, matches, DefaultSimilarMaxResults)
	assert.Equal(t, "acmea.com", matches[0].Domain)
}

func TestFindSimilarUpstreamFailures(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"domains": [`))
		},
	}
	for name, handler := range handlers {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(handler)
			defer server.Close()

			finder := &SimilarFinder{BaseURL: server.URL, Client: server.Client()}
			matches := finder.FindSimilar(context.Background(), "acme")
			require.NotNil(t, matches)
			require.Empty(t, matches)
		})
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()
	finder := &SimilarFinder{BaseURL: base, Client: &http.Client{}}
	require.Empty(t, finder.FindSimilar(context.Background(), "acme"))
}
