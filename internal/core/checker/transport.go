package checker

import (
	"errors"
	"net/http"
	"time"
)

// Browser-like headers sent with every outbound probe.
const (
	DefaultUserAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	DefaultAcceptLanguage = "en-US,en;q=0.5"
	DefaultMaxRedirects   = 10
)

// Headers is the header set applied to outbound requests.
type Headers struct {
	UserAgent      string
	Accept         string
	AcceptLanguage string
}

// DefaultHeaders returns the stock browser header set.
func DefaultHeaders() Headers {
	return Headers{
		UserAgent:      DefaultUserAgent,
		Accept:         DefaultAccept,
		AcceptLanguage: DefaultAcceptLanguage,
	}
}

// HeaderTransport stamps Headers onto each request. User-Agent is always
// replaced; Accept and Accept-Language are only filled when absent so that
// API clients can ask for JSON.
type HeaderTransport struct {
	Base    http.RoundTripper
	Headers Headers
}

// RoundTrip implements http.RoundTripper.
func (t *HeaderTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if t.Headers.UserAgent != "" {
		clone.Header.Set("User-Agent", t.Headers.UserAgent)
	}
	if t.Headers.Accept != "" && clone.Header.Get("Accept") == "" {
		clone.Header.Set("Accept", t.Headers.Accept)
	}
	if t.Headers.AcceptLanguage != "" && clone.Header.Get("Accept-Language") == "" {
		clone.Header.Set("Accept-Language", t.Headers.AcceptLanguage)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// NewHTTPClient builds a client that sends headers and follows at most
// maxRedirects redirects. When the cap is reached the last redirect response
// is returned instead of an error.
func NewHTTPClient(headers Headers, timeout time.Duration, maxRedirects int) *http.Client {
	if maxRedirects <= 0 {
		maxRedirects = DefaultMaxRedirects
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &HeaderTransport{Base: http.DefaultTransport, Headers: headers},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}
}

var errEmptyResponse = errors.New("empty response")
