package tldrules

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// NoKnownRestrictions is the scraper's placeholder for suffixes without
// registration restrictions; it must not be treated as a real restriction.
const NoKnownRestrictions = "No known restrictions"

// Rule describes what we know about a single TLD. Length bounds and prices
// come from the scraper as strings and may hold "?" when unknown.
type Rule struct {
	Name         string `json:"name"`
	CanRegister  bool   `json:"can_register"`
	MinLength    string `json:"min_length"`
	MaxLength    string `json:"max_length"`
	Restrictions string `json:"restrictions"`
	AveragePrice string `json:"average_price"`
	Premium      bool   `json:"premium"`
	RegistrySite string `json:"registry_site,omitempty"`
	WhoisServer  string `json:"whois_server,omitempty"`
}

// Restricted reports whether the rule carries a real restriction note.
func (r Rule) Restricted() bool {
	return r.Restrictions != "" && r.Restrictions != NoKnownRestrictions
}

// MinLabelLength returns the minimum registerable label length, if known.
func (r Rule) MinLabelLength() (int, bool) {
	return parseLength(r.MinLength)
}

// MaxLabelLength returns the maximum registerable label length, if known.
func (r Rule) MaxLabelLength() (int, bool) {
	return parseLength(r.MaxLength)
}

func parseLength(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Table is the TLD rule table. It is loaded once before the pipeline starts
// and is read-only afterwards, so concurrent lookups need no locking.
type Table struct {
	rules map[string]Rule
}

// Load reads a JSON array of rules from path and indexes it by suffix.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tld rules: %w", err)
	}
	var rules []Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing tld rules %s: %w", path, err)
	}
	return FromRules(rules), nil
}

// FromRules builds a table directly from rules, keyed by lowercase name.
func FromRules(rules []Rule) *Table {
	t := &Table{rules: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		t.rules[strings.ToLower(r.Name)] = r
	}
	return t
}

// Lookup returns the rule for a suffix. The suffix is lowercased and any
// leading dot is stripped before the lookup.
func (t *Table) Lookup(suffix string) (Rule, bool) {
	r, ok := t.rules[strings.ToLower(strings.TrimPrefix(suffix, "."))]
	return r, ok
}

// Len returns the number of known suffixes.
func (t *Table) Len() int {
	return len(t.rules)
}
