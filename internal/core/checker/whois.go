package checker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	whoisparser "github.com/likexian/whois-parser"

	"github.com/namevetter/namevetter/internal/core"
)

const (
	whoisSource      = "whois"
	whoisErrorSource = "whois_error"

	whoisIanaServer = "whois.iana.org"
	whoisPort       = "43"
	whoisMaxBytes   = 128 * 1024

	DefaultWhoisTimeout = 8 * time.Second
)

// DefaultWhoisServers covers the stock extensions so that the IANA referral
// query is only needed for other TLDs.
var DefaultWhoisServers = map[string]string{
	"com": "whois.verisign-grs.com",
	"net": "whois.verisign-grs.com",
	"org": "whois.publicinterestregistry.org",
	"io":  "whois.nic.io",
	"co":  "whois.registry.co",
	"ai":  "whois.nic.ai",
}

// DefaultNotFoundPatterns are response phrases that mean the domain is free.
var DefaultNotFoundPatterns = []string{"no match", "not found", "no entries", "no data found"}

// WhoisClient performs WHOIS lookups.
type WhoisClient interface {
	Lookup(ctx context.Context, tld, domain string) (*WhoisResponse, error)
}

// WhoisResolver resolves the WHOIS server for a TLD.
type WhoisResolver interface {
	ResolveServer(ctx context.Context, tld string) (string, error)
}

// WhoisResponse contains WHOIS response data.
type WhoisResponse struct {
	Server string
	Body   string
}

// DefaultWhoisClient is a TCP WHOIS client with optional server overrides.
type DefaultWhoisClient struct {
	Servers map[string]string
	Timeout time.Duration
}

// Lookup queries a WHOIS server for the given domain.
func (c *DefaultWhoisClient) Lookup(ctx context.Context, tld, domain string) (*WhoisResponse, error) {
	if strings.TrimSpace(domain) == "" {
		return nil, errors.New("whois domain is required")
	}

	server, err := c.ResolveServer(ctx, tld)
	if err != nil {
		return nil, err
	}

	body, err := queryWhois(ctx, server, domain, c.Timeout)
	if err != nil {
		return nil, err
	}

	return &WhoisResponse{Server: server, Body: body}, nil
}

// ResolveServer resolves the WHOIS server for a TLD, asking IANA when no
// override is configured.
func (c *DefaultWhoisClient) ResolveServer(ctx context.Context, tld string) (string, error) {
	tld = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(tld, ".")))
	if tld == "" {
		return "", errors.New("whois tld is required")
	}
	if c != nil && len(c.Servers) > 0 {
		if server := strings.TrimSpace(c.Servers[tld]); server != "" {
			return server, nil
		}
	}

	response, err := queryWhois(ctx, whoisIanaServer, tld, c.Timeout)
	if err != nil {
		return "", fmt.Errorf("whois iana query failed: %w", err)
	}

	if server := referral(response); server != "" {
		return server, nil
	}
	return "", fmt.Errorf("no whois server for tld %s", tld)
}

func referral(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "refer:") || strings.HasPrefix(lower, "whois:") {
			parts := strings.SplitN(trimmed, ":", 2)
			if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
				return strings.TrimSpace(parts[1])
			}
		}
	}
	return ""
}

func queryWhois(ctx context.Context, server, query string, timeout time.Duration) (string, error) {
	server = strings.TrimSpace(server)
	if server == "" {
		return "", errors.New("whois server is required")
	}

	address := server
	if _, _, err := net.SplitHostPort(server); err != nil {
		address = net.JoinHostPort(server, whoisPort)
	}

	dialer := &net.Dialer{}
	if timeout > 0 {
		dialer.Timeout = timeout
	}

	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return "", fmt.Errorf("whois dial failed: %w", err)
	}
	defer conn.Close() // nolint:errcheck // best-effort cleanup on network connection

	deadline, hasDeadline := ctx.Deadline()
	if timeout > 0 {
		if limit := time.Now().Add(timeout); !hasDeadline || limit.Before(deadline) {
			deadline, hasDeadline = limit, true
		}
	}
	if hasDeadline {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := fmt.Fprintf(conn, "%s\r\n", query); err != nil {
		return "", fmt.Errorf("whois query failed: %w", err)
	}

	reader := bufio.NewReader(conn)
	limited := &io.LimitedReader{R: reader, N: whoisMaxBytes}
	body, err := io.ReadAll(limited)
	if err != nil {
		return "", fmt.Errorf("whois read failed: %w", err)
	}

	return string(body), nil
}

// WhoisLookup is the ownership-record step of the domain cascade.
type WhoisLookup struct {
	Client           WhoisClient
	Timeout          time.Duration
	NotFoundPatterns []string
}

// NewWhoisLookup builds a WHOIS step over a TCP client.
func NewWhoisLookup(servers map[string]string, timeout time.Duration, notFound []string) *WhoisLookup {
	if len(servers) == 0 {
		servers = DefaultWhoisServers
	}
	return &WhoisLookup{
		Client:           &DefaultWhoisClient{Servers: servers, Timeout: timeout},
		Timeout:          timeout,
		NotFoundPatterns: notFound,
	}
}

// Method returns the provenance tag.
func (l *WhoisLookup) Method() string {
	return whoisSource
}

// Lookup fetches and parses the WHOIS record for domain.
func (l *WhoisLookup) Lookup(ctx context.Context, domain string) core.ProbeResult {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultWhoisTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := l.Client
	if client == nil {
		client = &DefaultWhoisClient{Servers: DefaultWhoisServers, Timeout: timeout}
	}

	resp, err := client.Lookup(ctx, tldOf(domain), domain)
	if err != nil {
		if l.signalsNotFound(err.Error()) {
			return core.ProbeResult{Verdict: core.VerdictAvailable, Method: whoisSource}
		}
		return core.Failed(whoisErrorSource, err)
	}
	if resp == nil {
		return core.Failed(whoisErrorSource, errEmptyResponse)
	}

	return l.interpret(resp.Body)
}

func (l *WhoisLookup) interpret(body string) core.ProbeResult {
	info, err := whoisparser.Parse(body)
	if err != nil {
		if errors.Is(err, whoisparser.ErrNotFoundDomain) || l.signalsNotFound(body) {
			return core.ProbeResult{Verdict: core.VerdictAvailable, Method: whoisSource}
		}
		return core.Failed(whoisErrorSource, err)
	}

	if info.Domain == nil || strings.TrimSpace(info.Domain.Domain) == "" {
		if l.signalsNotFound(body) {
			return core.ProbeResult{Verdict: core.VerdictAvailable, Method: whoisSource}
		}
		return core.Unknown(whoisErrorSource)
	}

	details := map[string]string{}
	if info.Registrar != nil {
		if name := strings.TrimSpace(info.Registrar.Name); name != "" {
			details["registrar"] = name
		}
	}
	if created := firstValue(info.Domain.CreatedDate); created != "" {
		details["registered"] = calendarDate(created)
	}
	if expires := firstValue(info.Domain.ExpirationDate); expires != "" {
		details["expires"] = calendarDate(expires)
	}
	if len(details) == 0 {
		details = nil
	}
	return core.ProbeResult{Verdict: core.VerdictTaken, Method: whoisSource, Details: details}
}

func (l *WhoisLookup) signalsNotFound(text string) bool {
	patterns := l.NotFoundPatterns
	if len(patterns) == 0 {
		patterns = DefaultNotFoundPatterns
	}
	lower := strings.ToLower(text)
	for _, pattern := range patterns {
		if pattern != "" && strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}

// Dates may come back as several comma-joined values.
func firstValue(value string) string {
	if i := strings.Index(value, ","); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}

func tldOf(domain string) string {
	domain = strings.TrimSuffix(strings.TrimSpace(domain), ".")
	if i := strings.LastIndex(domain, "."); i >= 0 {
		return strings.ToLower(domain[i+1:])
	}
	return ""
}
