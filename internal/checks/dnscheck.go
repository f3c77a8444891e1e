package checks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/berckan/domainscout/internal/status"
)

// DefaultDNSRecordTypes is the record-type set queried when none is
// configured.
var DefaultDNSRecordTypes = []string{"A", "MX", "NS"}

// DefaultDNSIgnoredAnswers lists answers that look like evidence of
// registration but are really registry-side wildcard parking (the .ws
// registry resolves every unregistered name to this address). Answers on the
// list are treated as "no evidence", not "registered".
var DefaultDNSIgnoredAnswers = []string{"64.70.19.203"}

// DNSCheck resolves a fixed set of record types; any answer of any type means
// the domain is registered. Not-found and timeout outcomes are inconclusive
// and intentionally quiet; only transport-level errors are logged.
type DNSCheck struct {
	RecordTypes    []string
	IgnoredAnswers map[string]bool
	Timeout        time.Duration
	Logf           func(format string, args ...any)

	// lookup is swappable for tests; the default queries resolver.
	lookup   func(ctx context.Context, recordType, domain string) ([]string, error)
	resolver *net.Resolver
}

// NewDNSCheck builds a DNS check backed by a Go resolver dialing the given
// server (host:port). An empty server uses the system resolver path.
func NewDNSCheck(server string, recordTypes []string, ignored []string, timeout time.Duration) *DNSCheck {
	resolver := &net.Resolver{PreferGo: true}
	if server != "" {
		resolver.Dial = func(ctx context.Context, network, address string) (net.Conn, error) {
			d := net.Dialer{Timeout: 5 * time.Second}
			return d.DialContext(ctx, network, server)
		}
	}
	if len(recordTypes) == 0 {
		recordTypes = DefaultDNSRecordTypes
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ignoredSet := make(map[string]bool, len(ignored))
	for _, a := range ignored {
		ignoredSet[a] = true
	}
	c := &DNSCheck{
		RecordTypes:    recordTypes,
		IgnoredAnswers: ignoredSet,
		Timeout:        timeout,
		Logf:           log.Printf,
		resolver:       resolver,
	}
	c.lookup = c.resolve
	return c
}

func (c *DNSCheck) Name() string { return "DNSCheck" }
func (c *DNSCheck) Kind() Kind   { return KindSingleDomain }

func (c *DNSCheck) Run(ctx context.Context, rec *status.Record) bool {
	domain := rec.Domain()
	for _, recordType := range c.RecordTypes {
		answers, err := c.lookup(ctx, recordType, domain)
		if err != nil {
			var dnsErr *net.DNSError
			if errors.As(err, &dnsErr) && (dnsErr.IsNotFound || dnsErr.IsTimeout) {
				continue
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if c.Logf != nil {
				c.Logf("DNSCheck error for %s (%s): %v", domain, recordType, err)
			}
			continue
		}
		if c.allIgnored(answers) {
			continue
		}
		if len(answers) > 0 {
			rec.SetAvailability(status.Unavailable, "", c.Name(),
				fmt.Sprintf("%s records found (domain is registered)", recordType))
			return true
		}
	}
	return false
}

func (c *DNSCheck) allIgnored(answers []string) bool {
	if len(answers) == 0 {
		return false
	}
	for _, a := range answers {
		if !c.IgnoredAnswers[a] {
			return false
		}
	}
	return true
}

func (c *DNSCheck) resolve(ctx context.Context, recordType, domain string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	switch recordType {
	case "A":
		ips, err := c.resolver.LookupIP(ctx, "ip4", domain)
		return ipStrings(ips), err
	case "AAAA":
		ips, err := c.resolver.LookupIP(ctx, "ip6", domain)
		return ipStrings(ips), err
	case "MX":
		mxs, err := c.resolver.LookupMX(ctx, domain)
		if err != nil {
			return nil, err
		}
		hosts := make([]string, 0, len(mxs))
		for _, mx := range mxs {
			hosts = append(hosts, mx.Host)
		}
		return hosts, nil
	case "NS":
		nss, err := c.resolver.LookupNS(ctx, domain)
		if err != nil {
			return nil, err
		}
		hosts := make([]string, 0, len(nss))
		for _, ns := range nss {
			hosts = append(hosts, ns.Host)
		}
		return hosts, nil
	case "TXT":
		return c.resolver.LookupTXT(ctx, domain)
	case "CNAME":
		cname, err := c.resolver.LookupCNAME(ctx, domain)
		if err != nil {
			return nil, err
		}
		if cname == "" {
			return nil, nil
		}
		return []string{cname}, nil
	default:
		return nil, fmt.Errorf("unsupported record type %q", recordType)
	}
}

func ipStrings(ips []net.IP) []string {
	out := make([]string, 0, len(ips))
	for _, ip := range ips {
		out = append(out, ip.String())
	}
	return out
}
