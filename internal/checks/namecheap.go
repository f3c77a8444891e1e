package checks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/berckan/domainscout/internal/status"
)

// DefaultNamecheapEndpoint is the bulk status endpoint of the registrar API.
const DefaultNamecheapEndpoint = "https://production.ncapi.io/api/v1/domain/status"

// DefaultBatchSize is how many domains ride on one bulk request.
const DefaultBatchSize = 50

// NamecheapCheck is the bulk registrar-style batch check. It receives records
// that are Available or Unknown (Available ones may still be upgraded to
// Premium by this source) and resolves up to BatchSize domains per request.
type NamecheapCheck struct {
	Client    *http.Client
	Endpoint  string
	BatchSize int
	Errors    Reporter
	Progress  func(done, total int)
}

func NewNamecheapCheck(timeout time.Duration, errors Reporter) *NamecheapCheck {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NamecheapCheck{
		Client:    &http.Client{Timeout: timeout},
		Endpoint:  DefaultNamecheapEndpoint,
		BatchSize: DefaultBatchSize,
		Errors:    orNop(errors),
	}
}

func (c *NamecheapCheck) Name() string { return "NamecheapCheck" }
func (c *NamecheapCheck) Kind() Kind   { return KindBatch }

type namecheapResponse struct {
	Status []namecheapStatus `json:"status"`
}

type namecheapStatus struct {
	Domain       string    `json:"domain"`
	Source       string    `json:"source"`
	Available    bool      `json:"available"`
	Premium      bool      `json:"premium"`
	AveragePrice flexPrice `json:"average_price"`
}

func (c *NamecheapCheck) RunBatch(ctx context.Context, recs []*status.Record) {
	if len(recs) == 0 {
		return
	}
	byDomain := make(map[string]*status.Record, len(recs))
	for _, rec := range recs {
		byDomain[rec.Domain()] = rec
	}

	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	done := 0
	for start := 0; start < len(recs); start += batchSize {
		end := start + batchSize
		if end > len(recs) {
			end = len(recs)
		}
		batch := recs[start:end]
		done += len(batch)
		if c.Progress != nil {
			c.Progress(done, len(recs))
		}
		c.runRequest(ctx, batch, byDomain)
	}
}

func (c *NamecheapCheck) runRequest(ctx context.Context, batch []*status.Record, byDomain map[string]*status.Record) {
	domains := make([]string, len(batch))
	for i, rec := range batch {
		domains[i] = rec.Domain()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		c.Errors.Reportf("NamecheapCheck: building request: %v", err)
		return
	}
	q := url.Values{"domains": {strings.Join(domains, ",")}}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("User-Agent", "Namecheap-iOS 3.18.5-1 (iPhone 15 Pro iOS 18.1.1)")
	req.Header.Set("Accept", "*/*")

	resp, err := c.Client.Do(req)
	if err != nil {
		c.Errors.Reportf("NamecheapCheck error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Errors.Reportf("NamecheapCheck: request failed with status code %d", resp.StatusCode)
		return
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Errors.Reportf("NamecheapCheck error: %v", err)
		return
	}

	var parsed namecheapResponse
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Status == nil {
		// Unexpected shape: record the fault and leave the batch unresolved
		// for the next stage.
		c.Errors.Reportf("NamecheapCheck: response format unexpected for batch starting with %s", domains[0])
		return
	}

	for _, item := range parsed.Status {
		rec, ok := byDomain[item.Domain]
		if !ok {
			continue
		}
		if item.Source == "n/a" {
			// The source has no data feed for this suffix.
			rec.AppendReason("Inconclusive", c.Name())
			continue
		}
		price := item.AveragePrice.String()
		switch {
		case item.Available && item.Premium:
			rec.SetAvailability(status.Premium, price, c.Name(), "")
		case item.Available:
			rec.SetAvailability(status.Available, price, c.Name(), "")
		default:
			rec.SetAvailability(status.Unavailable, "", c.Name(), "")
		}
	}
}
