package checks

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"

	"github.com/berckan/domainscout/internal/status"
)

// Phrases in a WHOIS response body that explicitly mark a domain available.
// Kept narrow on purpose: the broad not-found phrasing shows up inside
// registrar boilerplate of registered domains too, so it is only trusted when
// the whois transport surfaces it as an error (see errAvailablePatterns).
var availablePatterns = []string{
	"available for purchase",
	"this domain is available for registration",
	"domain status: available",
	"is available for registration",
}

// Phrases that mark a domain explicitly disallowed or reserved.
var disallowedPatterns = []string{
	"this domain is not allowed",
	"domain cannot be registered",
	"prohibited string",
	"this name is reserved",
}

// Phrases accepted from a whois error message as proof of availability.
var errAvailablePatterns = []string{
	"no match for",
	"not found",
	"no data found",
	"available for purchase",
	"this domain is available for registration",
	"domain status: available",
	"data not found",
	"is free",
}

// WHOISCheck issues a whois lookup and classifies the response. Every failure
// path degrades to inconclusive; a third-party library error never escapes
// this check.
type WHOISCheck struct {
	Logf func(format string, args ...any)

	// Lookup and Parse are swappable for tests. Defaults use the likexian
	// whois client and parser.
	Lookup func(domain string) (string, error)
	Parse  func(raw string) (whoisparser.WhoisInfo, error)
}

func NewWHOISCheck(timeout time.Duration) *WHOISCheck {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := whois.NewClient()
	client.SetTimeout(timeout)
	return &WHOISCheck{
		Logf:   log.Printf,
		Lookup: func(domain string) (string, error) { return client.Whois(domain) },
		Parse:  whoisparser.Parse,
	}
}

func (c *WHOISCheck) Name() string { return "WHOISCheck" }
func (c *WHOISCheck) Kind() Kind   { return KindSingleDomain }

func (c *WHOISCheck) Run(_ context.Context, rec *status.Record) bool {
	domain := rec.Domain()
	raw, err := c.Lookup(domain)

	if err != nil {
		// Some registries answer "no match" over a failed transport; the
		// library reports that as an error carrying the response text.
		msg := strings.ToLower(err.Error())
		if containsAny(msg, errAvailablePatterns) {
			rec.SetAvailability(status.Available, "", c.Name(), "")
			return true
		}
		rec.AppendReason("WHOIS error", c.Name())
		if c.Logf != nil {
			c.Logf("WHOISCheck error for %s: %v", domain, err)
		}
		return false
	}

	if strings.TrimSpace(raw) == "" {
		rec.AppendReason("WHOIS data empty", c.Name())
		return false
	}

	lower := strings.ToLower(raw)
	switch {
	case containsAny(lower, availablePatterns):
		rec.SetAvailability(status.Available, "", c.Name(), "")
	case containsAny(lower, disallowedPatterns):
		rec.SetAvailability(status.Unavailable, "", c.Name(), "Domain is not allowed or reserved")
	default:
		c.classifyParsed(rec, raw)
	}
	return rec.Availability() != status.Unknown
}

// classifyParsed falls back to structured parsing: registration metadata
// (creation date or registrar) proves the domain registered; the parser's
// typed not-found and reserved errors are trusted; anything else is
// inconclusive.
func (c *WHOISCheck) classifyParsed(rec *status.Record, raw string) {
	parsed, err := c.Parse(raw)
	switch {
	case err == nil && hasRegistrationMetadata(parsed):
		rec.SetAvailability(status.Unavailable, "", c.Name(), "")
	case err == whoisparser.ErrNotFoundDomain:
		rec.SetAvailability(status.Available, "", c.Name(), "")
	case err == whoisparser.ErrReservedDomain, err == whoisparser.ErrBlockedDomain:
		rec.SetAvailability(status.Unavailable, "", c.Name(), "Domain is not allowed or reserved")
	default:
		rec.AppendReason("WHOIS data inconclusive", c.Name())
	}
}

func hasRegistrationMetadata(info whoisparser.WhoisInfo) bool {
	if info.Domain != nil && info.Domain.CreatedDate != "" {
		return true
	}
	if info.Registrar != nil && info.Registrar.Name != "" {
		return true
	}
	return false
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
