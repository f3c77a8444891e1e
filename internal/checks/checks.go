// Package checks contains the evidence-gathering units the pipeline runs.
// A check is either single-domain (consumes one record, runs to quick local
// completion) or batch (covers many records per remote call); the driver
// dispatches on the kind tag.
package checks

import (
	"context"
	"encoding/json"

	"github.com/berckan/domainscout/internal/status"
)

// Kind tells the driver how to consume a check.
type Kind int

const (
	KindSingleDomain Kind = iota
	KindBatch
)

// Check is the common surface of every evidence source.
type Check interface {
	Name() string
	Kind() Kind
}

// SingleDomainCheck mutates exactly one record. The boolean return signals
// that a verdict was reached and later single-domain checks can be skipped.
type SingleDomainCheck interface {
	Check
	Run(ctx context.Context, rec *status.Record) bool
}

// BatchCheck consumes a working set and resolves as many records as its
// source can, leaving the rest untouched for the next stage.
type BatchCheck interface {
	Check
	RunBatch(ctx context.Context, recs []*status.Record)
}

// Reporter collects systemic, API-level faults for the end-of-run drain.
// Implementations must be safe for concurrent use.
type Reporter interface {
	Reportf(format string, args ...any)
}

// nopReporter swallows reports; used when a check is wired without a sink.
type nopReporter struct{}

func (nopReporter) Reportf(string, ...any) {}

func orNop(r Reporter) Reporter {
	if r == nil {
		return nopReporter{}
	}
	return r
}

// flexPrice tolerates the remote APIs quoting prices as either JSON numbers
// or strings; anything else decodes to empty.
type flexPrice string

func (p *flexPrice) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*p = flexPrice(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = flexPrice(s)
		return nil
	}
	*p = ""
	return nil
}

func (p flexPrice) String() string { return string(p) }
