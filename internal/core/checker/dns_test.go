package checker

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/namevetter/namevetter/internal/core"
)

type stubResolver struct {
	addrs []string
	err   error
}

func (s stubResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	return s.addrs, s.err
}

func TestDNSLookupTaken(t *testing.T) {
	lookup := &DNSLookup{Resolver: stubResolver{addrs: []string{"2001:db8::1", "192.0.2.10"}}}

	result := lookup.Lookup(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictTaken, result.Verdict)
	require.Equal(t, "dns", result.Method)
	require.Equal(t, "192.0.2.10", result.Details["ip"])
}

func TestDNSLookupNotFound(t *testing.T) {
	lookup := &DNSLookup{Resolver: stubResolver{err: &net.DNSError{Err: "no such host", Name: "acmewidgets.com", IsNotFound: true}}}

	result := lookup.Lookup(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictLikelyAvailable, result.Verdict)
	require.Equal(t, "dns", result.Method)
}

func TestDNSLookupOtherError(t *testing.T) {
	lookup := &DNSLookup{Resolver: stubResolver{err: &net.DNSError{Err: "server misbehaving", Name: "acmewidgets.com", IsTemporary: true}}}

	result := lookup.Lookup(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictUnknown, result.Verdict)
	require.Equal(t, "dns_error", result.Method)

	lookup = &DNSLookup{Resolver: stubResolver{err: errors.New("boom")}}
	require.Equal(t, core.VerdictUnknown, lookup.Lookup(context.Background(), "x.com").Verdict)
}

func TestCascadeWithDNSFallback(t *testing.T) {
	resolver := NewDomainResolver(
		&WhoisLookup{Client: &stubWhoisClient{err: errors.New("dial failed")}},
		&DNSLookup{Resolver: stubResolver{err: &net.DNSError{Err: "no such host", IsNotFound: true}}},
	)

	result := resolver.Resolve(context.Background(), "acmewidgets.com")

	require.Equal(t, core.VerdictAvailable, result.Verdict)
	require.Equal(t, "dns_inferred", result.Method)
}
