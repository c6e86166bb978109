// Package lookup resolves the descriptive fields of a device: reverse DNS
// names, hardware addresses from the kernel neighbor table, vendors from
// the hardware address prefix, an SNMP system description, and the local
// range to scan by default.
package lookup

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	lwerrors "github.com/anstrom/lanwatch/internal/errors"
)

const (
	// DefaultResolvConf is read for nameservers when none are given.
	DefaultResolvConf = "/etc/resolv.conf"
	// DefaultDNSTimeout bounds each PTR exchange.
	DefaultDNSTimeout = 750 * time.Millisecond
)

// DNSResolver looks up PTR records directly against the configured
// nameservers and falls back to the system resolver.
type DNSResolver struct {
	client   *dns.Client
	servers  []string
	fallback *net.Resolver
}

// NewDNSResolver builds a resolver for servers ("host:port"). With no
// servers, the nameservers in resolvConf are used; if that cannot be read
// only the system resolver is consulted.
func NewDNSResolver(resolvConf string, servers ...string) *DNSResolver {
	if len(servers) == 0 && resolvConf != "" {
		if cfg, err := dns.ClientConfigFromFile(resolvConf); err == nil {
			for _, s := range cfg.Servers {
				servers = append(servers, net.JoinHostPort(s, cfg.Port))
			}
		}
	}
	return &DNSResolver{
		client:   &dns.Client{Net: "udp", Timeout: DefaultDNSTimeout},
		servers:  servers,
		fallback: net.DefaultResolver,
	}
}

// WithoutFallback disables the system resolver. Used by tests.
func (r *DNSResolver) WithoutFallback() *DNSResolver {
	r.fallback = nil
	return r
}

// LookupHostname returns the PTR name for address without its trailing dot.
func (r *DNSResolver) LookupHostname(ctx context.Context, address string) (string, error) {
	name, err := dns.ReverseAddr(address)
	if err != nil {
		return "", lwerrors.NewLookupError(address, "dns", err)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(name, dns.TypePTR)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.servers {
		in, _, err := r.client.ExchangeContext(ctx, msg, server)
		if err != nil {
			lastErr = err
			continue
		}
		if in.Rcode != dns.RcodeSuccess {
			lastErr = &net.DNSError{Err: dns.RcodeToString[in.Rcode], Name: name, Server: server}
			continue
		}
		for _, rr := range in.Answer {
			if ptr, ok := rr.(*dns.PTR); ok {
				return strings.TrimSuffix(ptr.Ptr, "."), nil
			}
		}
	}

	if r.fallback != nil && ctx.Err() == nil {
		names, err := r.fallback.LookupAddr(ctx, address)
		if err == nil && len(names) > 0 {
			return strings.TrimSuffix(names[0], "."), nil
		}
		if err != nil {
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = &net.DNSError{Err: "no PTR record", Name: name, IsNotFound: true}
	}
	return "", lwerrors.NewLookupError(address, "dns", lastErr)
}
