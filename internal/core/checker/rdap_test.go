package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/namevetter/namevetter/internal/core"
)

const rdapTakenBody = `{
  "objectClassName": "domain",
  "ldhName": "acmewidgets.com",
  "status": ["active"],
  "entities": [
    {
      "objectClassName": "entity",
      "roles": ["registrar"],
      "vcardArray": ["vcard", [
        ["version", {}, "text", "4.0"],
        ["fn", {}, "text", "Example Registrar Inc."]
      ]]
    }
  ],
  "events": [
    {"eventAction": "registration", "eventDate": "2020-01-15T00:00:00Z"},
    {"eventAction": "expiration", "eventDate": "2030-01-15T00:00:00Z"}
  ]
}`

func TestRDAPLookupAvailable(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	lookup := NewRDAPLookup(server.URL, server.Client(), DefaultUserAgent, 0)
	result := lookup.Lookup(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictAvailable, result.Verdict)
	require.Equal(t, "rdap", result.Method)
	require.Equal(t, "/domain/acmewidgets.com", path)
}

func TestRDAPLookupTaken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rdap+json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(rdapTakenBody))
	}))
	defer server.Close()

	lookup := NewRDAPLookup(server.URL, server.Client(), DefaultUserAgent, 0)
	result := lookup.Lookup(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictTaken, result.Verdict)
	require.Equal(t, "rdap", result.Method)
	require.Equal(t, "Example Registrar Inc.", result.Details["registrar"])
	require.Equal(t, "2020-01-15", result.Details["registered"])
	require.Equal(t, "2030-01-15", result.Details["expires"])
}

func TestRDAPLookupTakenWithoutDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rdap+json")
		_, _ = w.Write([]byte(`{"objectClassName": "domain", "ldhName": "acmewidgets.com"}`))
	}))
	defer server.Close()

	lookup := NewRDAPLookup(server.URL, server.Client(), DefaultUserAgent, 0)
	result := lookup.Lookup(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictTaken, result.Verdict)
	require.Empty(t, result.Details)
}

func TestRDAPLookupTakenWithoutObjectClass(t *testing.T) {
	body := `{"entities":[{"roles":["registrar"],"vcardArray":["vcard",[["fn",{},"text","Example Registrar Inc."]]]}],` +
		`"events":[{"eventAction":"registration","eventDate":"2020-01-15T00:00:00Z"}]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rdap+json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	lookup := NewRDAPLookup(server.URL, server.Client(), DefaultUserAgent, 0)
	result := lookup.Lookup(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictTaken, result.Verdict)
	require.Equal(t, "rdap", result.Method)
	require.Empty(t, result.Error)
	require.Equal(t, "Example Registrar Inc.", result.Details["registrar"])
	require.Equal(t, "2020-01-15", result.Details["registered"])
}

func TestRawDetails(t *testing.T) {
	require.Nil(t, rawDetails(nil))
	require.Nil(t, rawDetails([]byte(`not json`)))
	require.Nil(t, rawDetails([]byte(`{"entities":[{"roles":["technical"],"vcardArray":["vcard",[["fn",{},"text","Tech"]]]}]}`)))

	details := rawDetails([]byte(`{"events":[{"eventAction":"expiration","eventDate":"2031-02-03T00:00:00Z"}]}`))
	require.Equal(t, map[string]string{"expires": "2031-02-03"}, details)
}

func TestRDAPLookupInconclusiveStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	lookup := NewRDAPLookup(server.URL, server.Client(), DefaultUserAgent, 0)
	result := lookup.Lookup(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictUnknown, result.Verdict)
	require.Equal(t, "rdap", result.Method)
	require.Equal(t, "429", result.Details["http_status"])
}

func TestRDAPLookupTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	lookup := NewRDAPLookup(url, &http.Client{}, DefaultUserAgent, 0)
	result := lookup.Lookup(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictUnknown, result.Verdict)
	require.Equal(t, "rdap_error", result.Method)
	require.NotEmpty(t, result.Error)
	require.LessOrEqual(t, len([]rune(result.Error)), core.MaxErrorLength)
}

func TestCalendarDate(t *testing.T) {
	require.Equal(t, "2020-01-15", calendarDate("2020-01-15T00:00:00Z"))
	require.Equal(t, "2020-01", calendarDate("2020-01"))
}
