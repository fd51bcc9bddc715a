package checker

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/namevetter/namevetter/internal/core"
	"github.com/namevetter/namevetter/internal/core/platforms"
)

const (
	DefaultSocialTimeout = 10 * time.Second

	// Rule windows are at most a few thousand characters; this leaves room
	// for multi-byte text.
	defaultMaxBodyBytes = 64 * 1024
)

// SocialClassifier probes a platform profile URL and classifies the response
// with that platform's rules.
type SocialClassifier struct {
	Client       *http.Client
	Rules        *platforms.Table
	Timeout      time.Duration
	MaxBodyBytes int64
}

// NewSocialClassifier returns a classifier using client for probes.
func NewSocialClassifier(client *http.Client, rules *platforms.Table, timeout time.Duration) *SocialClassifier {
	return &SocialClassifier{Client: client, Rules: rules, Timeout: timeout}
}

// Classify issues one GET for handle on platform. Every failure is reported as
// an Unknown result.
func (c *SocialClassifier) Classify(ctx context.Context, platform core.PlatformSpec, handle string) core.ProbeResult {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultSocialTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := strings.ReplaceAll(platform.URLTemplate, core.HandlePlaceholder, url.PathEscape(handle))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return core.Failed("error", err)
	}

	client := c.Client
	if client == nil {
		client = NewHTTPClient(DefaultHeaders(), timeout, DefaultMaxRedirects)
	}

	resp, err := client.Do(req)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return transportFailure(err)
	}

	finalURL := target
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	verdict, method := c.Rules.Classifier(platform.Name)(platforms.Response{
		StatusCode: resp.StatusCode,
		FinalURL:   finalURL,
		Body:       string(body),
	})
	return core.ProbeResult{Verdict: verdict, Method: method}
}

func transportFailure(err error) core.ProbeResult {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return core.Unknown("timeout")
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return core.Unknown("connection_error")
	}

	return core.Failed("error", err)
}
