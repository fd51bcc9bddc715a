package checker

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/namevetter/namevetter/internal/core"
)

const (
	dnsSource      = "dns"
	dnsErrorSource = "dns_error"

	DefaultDNSTimeout = 5 * time.Second
)

// HostResolver is the subset of net.Resolver used by DNSLookup.
type HostResolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// DNSLookup is the last-resort step of the domain cascade. Resolution proves
// the name is in use; NXDOMAIN only suggests it is free.
type DNSLookup struct {
	Resolver HostResolver
	Timeout  time.Duration
}

// Method returns the provenance tag.
func (l *DNSLookup) Method() string {
	return dnsSource
}

// Lookup resolves domain to an address.
func (l *DNSLookup) Lookup(ctx context.Context, domain string) core.ProbeResult {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultDNSTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var resolver HostResolver = net.DefaultResolver
	if l.Resolver != nil {
		resolver = l.Resolver
	}

	addrs, err := resolver.LookupHost(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return core.ProbeResult{Verdict: core.VerdictLikelyAvailable, Method: dnsSource, Details: map[string]string{}}
		}
		return core.Failed(dnsErrorSource, err)
	}
	if len(addrs) == 0 {
		return core.Unknown(dnsErrorSource)
	}

	return core.ProbeResult{
		Verdict: core.VerdictTaken,
		Method:  dnsSource,
		Details: map[string]string{"ip": preferIPv4(addrs)},
	}
}

func preferIPv4(addrs []string) string {
	for _, addr := range addrs {
		if ip := net.ParseIP(addr); ip != nil && ip.To4() != nil {
			return addr
		}
	}
	return addrs[0]
}
