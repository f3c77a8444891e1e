// Package status holds the per-domain result accumulator shared by every
// check in the pipeline. All field mutation goes through Record's methods,
// which serialize on an internal lock; checks running on different workers
// never touch fields directly.
package status

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/berckan/domainscout/internal/tldrules"
)

// Availability is the resolved registration status of a domain.
type Availability string

const (
	Unknown     Availability = "unknown"
	Available   Availability = "available"
	Premium     Availability = "premium"
	Unavailable Availability = "unavailable"
)

// PriceUnknown is the sentinel used when no source quoted a price.
const PriceUnknown = "N/A"

// DefaultReasonCap bounds the reason trail; longer trails are truncated
// with an ellipsis marker.
const DefaultReasonCap = 140

const ellipsis = "..."

// Record accumulates evidence about one candidate domain. It is created when
// the domain enters the pipeline and retired after the final sort.
type Record struct {
	mu sync.Mutex

	domain       string
	availability Availability
	price        string
	reason       string
	reasonCap    int

	tld        tldrules.Rule
	tldKnown   bool
	restricted bool

	sources []string
}

// NewRecord creates a record in the Unknown state. A reasonCap of zero
// selects DefaultReasonCap; a cap too small to hold the ellipsis marker is
// raised to the smallest usable value.
func NewRecord(domain string, reasonCap int) *Record {
	if reasonCap <= 0 {
		reasonCap = DefaultReasonCap
	} else if reasonCap <= len(ellipsis) {
		reasonCap = len(ellipsis) + 1
	}
	return &Record{
		domain:       domain,
		availability: Unknown,
		price:        PriceUnknown,
		reasonCap:    reasonCap,
	}
}

// Domain returns the candidate domain. Immutable after creation.
func (r *Record) Domain() string { return r.domain }

// Availability returns the current verdict.
func (r *Record) Availability() Availability {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.availability
}

// Price returns the current price, or PriceUnknown.
func (r *Record) Price() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.price
}

// Reason returns the current reason trail.
func (r *Record) Reason() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reason
}

// Restricted reports whether the domain's TLD carries registration
// restrictions. Only used to annotate Available verdicts.
func (r *Record) Restricted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.restricted
}

// TLD returns the rule attached by the structural check, if any.
func (r *Record) TLD() (tldrules.Rule, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tld, r.tldKnown
}

// Sources returns the ordered set of check names that produced a
// verdict-affecting observation on this record.
func (r *Record) Sources() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.sources))
	copy(out, r.sources)
	return out
}

// SetTLDInfo attaches suffix metadata and derives the restricted flag and the
// default price from the rule's average price. Called once by the structural
// check before any verdict exists.
func (r *Record) SetTLDInfo(rule tldrules.Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tld = rule
	r.tldKnown = true
	r.restricted = rule.Restricted()
	if p := normalizePrice(rule.AveragePrice); p != "" {
		r.price = p
	}
}

// AppendReason concatenates "<reason> (<source>)" onto the trail, but only
// while the verdict is still Unknown. Once a check has concluded, later
// inconclusive chatter is dropped so it cannot pollute the resolved reason.
func (r *Record) AppendReason(reason, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.availability != Unknown {
		return
	}
	entry := reason
	if source != "" {
		entry = reason + " (" + source + ")"
	}
	if r.reason != "" {
		entry = r.reason + "; " + entry
	}
	r.reason = capText(entry, r.reasonCap)
	r.noteSource(source)
}

// SetAvailability records a conclusive verdict from source, overwriting the
// speculative reason trail. A real price replaces the current one; an empty
// or sentinel price leaves it untouched. When customReason is empty a canned
// phrase keyed by the verdict is used, suffixed with the source name. If the
// verdict is Available and the TLD is restricted, the restriction text is
// appended.
//
// Verdicts are monotonic: Unknown is rejected outright, and a Premium record
// is never downgraded to plain Available.
func (r *Record) SetAvailability(avail Availability, price, source, customReason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if avail == Unknown {
		return
	}
	if r.availability == Premium && avail == Available {
		r.noteSource(source)
		return
	}
	r.availability = avail
	if p := normalizePrice(price); p != "" {
		r.price = p
	}

	reason := customReason
	if reason == "" {
		switch avail {
		case Available:
			reason = "Domain is available"
		case Premium:
			reason = "Domain is premium and available"
		case Unavailable:
			reason = "Domain is registered"
		}
		if source != "" {
			reason += " (" + source + ")"
		}
	}
	if avail == Available && r.restricted && r.tld.Restrictions != "" {
		reason += "; " + r.tld.Restrictions
	}
	r.reason = capText(reason, r.reasonCap)
	r.noteSource(source)
}

func (r *Record) noteSource(source string) {
	if source == "" {
		return
	}
	for _, s := range r.sources {
		if s == source {
			return
		}
	}
	r.sources = append(r.sources, source)
}

// SortClass maps the verdict onto the presentation priority: unrestricted
// Available first, then restricted Available, Premium, Unavailable, Unknown.
func (r *Record) SortClass() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.availability {
	case Available:
		if r.restricted {
			return 2
		}
		return 1
	case Premium:
		return 3
	case Unavailable:
		return 4
	default:
		return 5
	}
}

// PriceValue returns the price as a number for sorting. Non-numeric or absent
// prices sort last.
func (r *Record) PriceValue() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return priceValue(r.price)
}

func priceValue(price string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(price, ",", "."), 64)
	if err != nil {
		return math.Inf(1)
	}
	return v
}

// Result is the read-only tuple handed to renderers once a record retires.
type Result struct {
	Domain       string       `json:"domain"`
	Availability Availability `json:"availability"`
	Price        string       `json:"price"`
	Reason       string       `json:"reason"`
	Restricted   bool         `json:"restricted"`
	Sources      []string     `json:"sources,omitempty"`
}

// Result snapshots the record.
func (r *Record) Result() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	sources := make([]string, len(r.sources))
	copy(sources, r.sources)
	return Result{
		Domain:       r.domain,
		Availability: r.availability,
		Price:        r.price,
		Reason:       r.reason,
		Restricted:   r.restricted,
		Sources:      sources,
	}
}

// normalizePrice returns a cleaned price or "" when the value is absent or a
// sentinel. Decimal commas are normalized to dots.
func normalizePrice(price string) string {
	price = strings.TrimSpace(price)
	if price == "" || price == PriceUnknown || price == "Unknown" {
		return ""
	}
	return strings.ReplaceAll(price, ",", ".")
}

// capText truncates s to max characters, marking the cut with an ellipsis.
func capText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-len(ellipsis)]) + ellipsis
}
