package checks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/berckan/domainscout/internal/status"
)

// DefaultDomainrEndpoint is the per-domain status endpoint.
const DefaultDomainrEndpoint = "https://domainr.p.rapidapi.com/v2/status"

// DefaultDomainrWorkers bounds the confirmation fan-out. Kept smaller than
// the single-domain stage pool: this source rate-limits aggressively.
const DefaultDomainrWorkers = 5

// DomainrCheck confirms still-Unknown records with one remote call per
// domain, fanned out over its own small worker pool. All in-flight calls are
// joined before RunBatch returns.
type DomainrCheck struct {
	Client   *http.Client
	Endpoint string
	APIKey   string
	Workers  int
	Limiter  *rate.Limiter
	Errors   Reporter
	Progress func(done, total int)
}

func NewDomainrCheck(apiKey string, workers int, timeout time.Duration, errors Reporter) *DomainrCheck {
	if workers <= 0 {
		workers = DefaultDomainrWorkers
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DomainrCheck{
		Client:   &http.Client{Timeout: timeout},
		Endpoint: DefaultDomainrEndpoint,
		APIKey:   apiKey,
		Workers:  workers,
		Limiter:  rate.NewLimiter(rate.Limit(10), 5),
		Errors:   orNop(errors),
	}
}

func (c *DomainrCheck) Name() string { return "DomainrCheck" }
func (c *DomainrCheck) Kind() Kind   { return KindBatch }

type domainrResponse struct {
	Status []struct {
		Summary      string    `json:"summary"`
		AveragePrice flexPrice `json:"average_price"`
	} `json:"status"`
}

func (c *DomainrCheck) RunBatch(ctx context.Context, recs []*status.Record) {
	if len(recs) == 0 {
		return
	}
	workers := c.Workers
	if workers <= 0 {
		workers = DefaultDomainrWorkers
	}

	var done atomic.Int64
	total := len(recs)

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, rec := range recs {
		rec := rec
		g.Go(func() error {
			c.checkOne(ctx, rec)
			if c.Progress != nil {
				c.Progress(int(done.Add(1)), total)
			}
			return nil
		})
	}
	g.Wait()
}

func (c *DomainrCheck) checkOne(ctx context.Context, rec *status.Record) {
	domain := rec.Domain()
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		c.Errors.Reportf("DomainrCheck error for %s: %v", domain, err)
		return
	}
	req.URL.RawQuery = url.Values{"domain": {domain}}.Encode()
	req.Header.Set("X-RapidAPI-Key", c.APIKey)
	req.Header.Set("X-RapidAPI-Host", "domainr.p.rapidapi.com")

	resp, err := c.Client.Do(req)
	if err != nil {
		c.Errors.Reportf("DomainrCheck error for %s: %v", domain, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Errors.Reportf("DomainrCheck: request failed for %s with status code %d", domain, resp.StatusCode)
		return
	}

	var parsed domainrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.Errors.Reportf("DomainrCheck error for %s: %v", domain, err)
		return
	}
	if len(parsed.Status) == 0 {
		return
	}

	info := parsed.Status[0]
	switch info.Summary {
	case "inactive", "undelegated":
		// Confirmation only: never regress a verdict an earlier source set.
		if rec.Availability() == status.Unknown {
			rec.SetAvailability(status.Available, "", c.Name(), "")
		}
	case "active", "reserved", "parked", "disallowed":
		rec.SetAvailability(status.Unavailable, "", c.Name(), "")
	case "premium":
		// An empty price leaves the record's existing price in place.
		rec.SetAvailability(status.Premium, info.AveragePrice.String(), c.Name(), "")
	default:
		rec.AppendReason(info.Summary, c.Name())
	}
}
