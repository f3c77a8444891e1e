// Package pipeline orchestrates the checks: a bounded-pool single-domain
// stage with per-domain short-circuiting, then batch stages separated by
// barriers, each handed a working set re-filtered by current availability.
package pipeline

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/berckan/domainscout/internal/checks"
	"github.com/berckan/domainscout/internal/config"
	"github.com/berckan/domainscout/internal/status"
	"github.com/berckan/domainscout/internal/tldrules"
)

// DefaultStageWorkers bounds the single-domain stage pool.
const DefaultStageWorkers = 15

// Collector accumulates systemic source faults from concurrent workers and is
// drained once at the end of the run. It is owned by the driver; checks only
// see the Reporter side.
type Collector struct {
	mu   sync.Mutex
	errs []string
}

func (c *Collector) Reportf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs = append(c.errs, fmt.Sprintf(format, args...))
}

// Drain returns and clears the collected faults.
func (c *Collector) Drain() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.errs
	c.errs = nil
	return out
}

// BatchStage pairs a batch check with the availability set it accepts. The
// sets differ per source capability: the registrar check also takes Available
// records to catch premium upgrades, the other stages take only Unknown.
type BatchStage struct {
	Check   checks.BatchCheck
	Accepts []status.Availability
}

func (s BatchStage) accepts(a status.Availability) bool {
	for _, want := range s.Accepts {
		if a == want {
			return true
		}
	}
	return false
}

// Driver runs the full evaluation over a set of candidate domains.
type Driver struct {
	Single    []checks.SingleDomainCheck
	Batches   []BatchStage
	Workers   int
	ReasonCap int

	// Errors is the collector the wired checks report into; the caller
	// drains it after Run.
	Errors   *Collector
	Progress func(done, total int)
}

// Build wires the default check sequence from configuration: TLD, DNS and
// WHOIS single-domain checks, then the Namecheap, Gandi and Domainr batch
// stages. The Domainr stage is only wired when a credential is configured.
func Build(cfg config.Config, table *tldrules.Table, errors *Collector) *Driver {
	single := []checks.SingleDomainCheck{
		checks.NewTLDCheck(table),
		checks.NewDNSCheck(cfg.DNSServer, cfg.DNSRecordTypes, cfg.DNSIgnoredAnswers, cfg.DNSTimeout),
		checks.NewWHOISCheck(cfg.WhoisTimeout),
	}

	namecheap := checks.NewNamecheapCheck(cfg.BulkTimeout, errors)
	namecheap.BatchSize = cfg.BatchSize
	if cfg.NamecheapEndpoint != "" {
		namecheap.Endpoint = cfg.NamecheapEndpoint
	}

	gandi := checks.NewGandiCheck(cfg.StreamTimeout, errors)
	gandi.BatchSize = cfg.BatchSize
	if cfg.GandiEndpoint != "" {
		gandi.Endpoint = cfg.GandiEndpoint
	}

	batches := []BatchStage{
		{Check: namecheap, Accepts: []status.Availability{status.Available, status.Unknown}},
		{Check: gandi, Accepts: []status.Availability{status.Unknown}},
	}

	if cfg.DomainrAPIKey != "" {
		domainr := checks.NewDomainrCheck(cfg.DomainrAPIKey, cfg.ConfirmWorkers, cfg.ConfirmTimeout, errors)
		if cfg.DomainrEndpoint != "" {
			domainr.Endpoint = cfg.DomainrEndpoint
		}
		batches = append(batches, BatchStage{
			Check:   domainr,
			Accepts: []status.Availability{status.Unknown},
		})
	}

	return &Driver{
		Single:    single,
		Batches:   batches,
		Workers:   cfg.StageWorkers,
		ReasonCap: cfg.ReasonCap,
		Errors:    errors,
	}
}

// Run evaluates all domains and returns their records in final presentation
// order. No per-domain or per-batch fault aborts the run; faults land in the
// collector and on the records' reason trails.
func (d *Driver) Run(ctx context.Context, domains []string) []*status.Record {
	recs := make([]*status.Record, len(domains))
	for i, domain := range domains {
		recs[i] = status.NewRecord(domain, d.ReasonCap)
	}

	d.runSingleStage(ctx, recs)

	// Stages are barriers: each batch check joins all internal concurrency
	// before the next working set is computed.
	for _, stage := range d.Batches {
		working := d.filter(recs, stage)
		if len(working) > 0 {
			stage.Check.RunBatch(ctx, working)
		}
	}

	Sort(recs)
	return recs
}

func (d *Driver) runSingleStage(ctx context.Context, recs []*status.Record) {
	workers := d.Workers
	if workers <= 0 {
		workers = DefaultStageWorkers
	}

	var done atomic.Int64
	total := len(recs)

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, rec := range recs {
		rec := rec
		g.Go(func() error {
			d.runSingle(ctx, rec)
			if d.Progress != nil {
				d.Progress(int(done.Add(1)), total)
			}
			return nil
		})
	}
	g.Wait()
}

// runSingle walks one record through the single-domain checks in order,
// stopping as soon as a check signals a verdict: an Unavailable domain needs
// no further evidence, and Available/Premium ones move on to the batch stages
// for price refinement.
func (d *Driver) runSingle(ctx context.Context, rec *status.Record) {
	for _, chk := range d.Single {
		reached := chk.Run(ctx, rec)
		if reached && rec.Availability() != status.Unknown {
			return
		}
	}
}

func (d *Driver) filter(recs []*status.Record, stage BatchStage) []*status.Record {
	var working []*status.Record
	for _, rec := range recs {
		if stage.accepts(rec.Availability()) {
			working = append(working, rec)
		}
	}
	return working
}

// Sort orders records for presentation: availability class priority first
// (unrestricted Available, restricted Available, Premium, Unavailable,
// Unknown), then ascending price with non-numeric prices last.
func Sort(recs []*status.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		ci, cj := recs[i].SortClass(), recs[j].SortClass()
		if ci != cj {
			return ci < cj
		}
		return recs[i].PriceValue() < recs[j].PriceValue()
	})
}
