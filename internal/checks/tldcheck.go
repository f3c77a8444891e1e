package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/berckan/domainscout/internal/status"
	"github.com/berckan/domainscout/internal/tldrules"
)

// TLDCheck validates the domain against the rule table: recognized suffix,
// registrable TLD, label length within bounds. Its Unavailable verdicts are
// authoritative; no later check overrides them. On success it attaches the
// suffix metadata downstream checks read.
type TLDCheck struct {
	Table *tldrules.Table
}

func NewTLDCheck(table *tldrules.Table) *TLDCheck {
	return &TLDCheck{Table: table}
}

func (c *TLDCheck) Name() string { return "TLDCheck" }
func (c *TLDCheck) Kind() Kind   { return KindSingleDomain }

func (c *TLDCheck) Run(_ context.Context, rec *status.Record) bool {
	domain := rec.Domain()
	idx := strings.LastIndex(domain, ".")
	if idx <= 0 || idx == len(domain)-1 {
		rec.SetAvailability(status.Unavailable, "", c.Name(), "Invalid domain format")
		return true
	}

	label, suffix := domain[:idx], domain[idx+1:]
	rule, ok := c.Table.Lookup(suffix)
	if !ok {
		rec.SetAvailability(status.Unavailable, "", c.Name(), "TLD not recognized")
		return true
	}
	rec.SetTLDInfo(rule)

	if !rule.CanRegister {
		reason := "TLD cannot be registered"
		if rule.Restrictions != "" {
			reason += "; " + rule.Restrictions
		}
		rec.SetAvailability(status.Unavailable, "", c.Name(), reason)
		return true
	}

	var issues []string
	length := len([]rune(label))
	if min, ok := rule.MinLabelLength(); ok && length < min {
		issues = append(issues, fmt.Sprintf("too short (min %d)", min))
	}
	if max, ok := rule.MaxLabelLength(); ok && length > max {
		issues = append(issues, fmt.Sprintf("too long (max %d)", max))
	}
	if len(issues) > 0 {
		rec.SetAvailability(status.Unavailable, "", c.Name(), strings.Join(issues, ", "))
		return true
	}

	return false
}
