package checks

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/berckan/domainscout/internal/status"
)

// DefaultGandiEndpoint is the streaming suggestion endpoint.
const DefaultGandiEndpoint = "https://shop.gandi.net/api/v5/suggest/suggest"

// GandiCheck is the bulk market-suggestion batch check. It receives records
// that are still Unknown and reads one event stream per batch: "das" events
// carry availability, "billing" events carry a nested price list from which
// the create-product average price is taken.
type GandiCheck struct {
	Client    *http.Client
	Endpoint  string
	BatchSize int
	Errors    Reporter
	Progress  func(done, total int)
}

func NewGandiCheck(timeout time.Duration, errors Reporter) *GandiCheck {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GandiCheck{
		Client:    &http.Client{Timeout: timeout},
		Endpoint:  DefaultGandiEndpoint,
		BatchSize: DefaultBatchSize,
		Errors:    orNop(errors),
	}
}

func (c *GandiCheck) Name() string { return "GandiCheck" }
func (c *GandiCheck) Kind() Kind   { return KindBatch }

func (c *GandiCheck) RunBatch(ctx context.Context, recs []*status.Record) {
	if len(recs) == 0 {
		return
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
		c.runRequest(ctx, batch)
	}
}

func (c *GandiCheck) runRequest(ctx context.Context, batch []*status.Record) {
	domains := make([]string, len(batch))
	for i, rec := range batch {
		domains[i] = rec.Domain()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		c.Errors.Reportf("GandiCheck: building request: %v", err)
		return
	}
	q := url.Values{
		"country":             {"NL"},
		"grid":                {"A"},
		"currency":            {"EUR"},
		"lang":                {"en"},
		"search":              {strings.Join(domains, " ")},
		"phases":              {"golive"},
		"lock_sentence":       {"true"},
		"page":                {"1"},
		"per_page":            {"100"},
		"required_availables": {"15"},
		"source":              {"shop"},
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Referer", "https://shop.gandi.net/en/domain/suggest?search=*&options=1&bulk=1")

	resp, err := c.Client.Do(req)
	if err != nil {
		c.Errors.Reportf("GandiCheck error: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Errors.Reportf("GandiCheck: request failed with status code %d", resp.StatusCode)
		return
	}

	availability, prices := parseSuggestStream(resp.Body)

	for _, rec := range batch {
		switch availability[rec.Domain()] {
		case "available":
			// A Premium verdict from an earlier source must not be
			// downgraded; the record enforces this too.
			if rec.Availability() != status.Premium {
				rec.SetAvailability(status.Available, prices[rec.Domain()], c.Name(), "")
			}
		case "premium":
			rec.SetAvailability(status.Premium, prices[rec.Domain()], c.Name(), "")
		case "unavailable", "invalid":
			rec.SetAvailability(status.Unavailable, "", c.Name(), "")
		default:
			rec.AppendReason("Inconclusive", c.Name())
		}
	}
}

// streamState is the SSE parser position: between frames, or holding an event
// header and waiting for its data line.
type streamState int

const (
	awaitEvent streamState = iota
	awaitData
)

type dasEvent struct {
	FQDN         string `json:"fqdn"`
	Availability string `json:"availability"`
}

type billingEvent struct {
	FQDN   string `json:"fqdn"`
	Prices struct {
		Products []struct {
			Process string `json:"process"`
			Prices  []struct {
				AveragePrice flexPrice `json:"average_price"`
			} `json:"prices"`
		} `json:"products"`
	} `json:"prices"`
}

// parseSuggestStream walks the typed event/data line pairs of the suggestion
// stream. Truncated or malformed pairs are skipped, never fatal: a data line
// that fails to arrive just drops that frame, and an event header arriving in
// its place starts the next frame without losing it.
func parseSuggestStream(r io.Reader) (availability, prices map[string]string) {
	availability = make(map[string]string)
	prices = make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	state := awaitEvent
	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch state {
		case awaitEvent:
			if !strings.HasPrefix(line, "event: ") {
				continue
			}
			event = strings.TrimPrefix(line, "event: ")
			if event == "das" || event == "billing" {
				state = awaitData
			}
		case awaitData:
			if strings.HasPrefix(line, "event: ") {
				// The previous frame lost its data line; this line
				// opens the next frame, so reprocess it as a header.
				event = strings.TrimPrefix(line, "event: ")
				if event != "das" && event != "billing" {
					state = awaitEvent
				}
				continue
			}
			state = awaitEvent
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			payload := strings.TrimPrefix(line, "data: ")
			switch event {
			case "das":
				var d dasEvent
				if err := json.Unmarshal([]byte(payload), &d); err == nil && d.FQDN != "" {
					availability[d.FQDN] = d.Availability
				}
			case "billing":
				var b billingEvent
				if err := json.Unmarshal([]byte(payload), &b); err != nil || b.FQDN == "" {
					continue
				}
				// First create-product price wins.
				for _, product := range b.Prices.Products {
					if product.Process != "create" || len(product.Prices) == 0 {
						continue
					}
					if p := product.Prices[0].AveragePrice.String(); p != "" {
						prices[b.FQDN] = p
					}
					break
				}
			}
		}
	}
	return availability, prices
}
