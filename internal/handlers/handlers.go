// Package handlers exposes the pipeline over HTTP for the server mode.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/berckan/domainscout/internal/config"
	"github.com/berckan/domainscout/internal/domaingen"
	"github.com/berckan/domainscout/internal/pipeline"
	"github.com/berckan/domainscout/internal/status"
	"github.com/berckan/domainscout/internal/tldrules"
)

// maxBulkDomains bounds one bulk request.
const maxBulkDomains = 50

type Handler struct {
	cfg   config.Config
	table *tldrules.Table
}

func New(cfg config.Config, table *tldrules.Table) *Handler {
	return &Handler{cfg: cfg, table: table}
}

// Router wires the JSON API.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Post("/api/check", h.Check)
	r.Post("/api/check-bulk", h.CheckBulk)
	r.Post("/api/scan-short", h.ScanShort)
	return r
}

type checkRequest struct {
	Domain string `json:"domain"`
}

type bulkRequest struct {
	Domains []string `json:"domains"`
}

type scanShortRequest struct {
	Length int    `json:"length"`
	TLD    string `json:"tld"`
}

type checkResponse struct {
	Results []status.Result `json:"results"`
	Errors  []string        `json:"errors,omitempty"`
}

// Check runs a single domain through the full pipeline.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	domain := normalizeDomain(req.Domain)
	if domain == "" {
		http.Error(w, "domain is required", http.StatusBadRequest)
		return
	}
	h.run(w, r, []string{domain})
}

// CheckBulk runs up to maxBulkDomains domains through the pipeline.
func (h *Handler) CheckBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	var domains []string
	for _, d := range req.Domains {
		if d := normalizeDomain(d); d != "" {
			domains = append(domains, d)
		}
	}
	if len(domains) == 0 {
		http.Error(w, "no domains provided", http.StatusBadRequest)
		return
	}
	if len(domains) > maxBulkDomains {
		domains = domains[:maxBulkDomains]
	}
	h.run(w, r, domains)
}

// ScanShort checks every name of the requested length under one TLD. The
// bulk cap does not apply here; a full 2-character scan is 1296 domains.
func (h *Handler) ScanShort(w http.ResponseWriter, r *http.Request) {
	var req scanShortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	tld := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(req.TLD, ".")))
	if tld == "" {
		tld = "com"
	}
	domains := domaingen.ShortDomains(req.Length, tld)
	if len(domains) == 0 {
		http.Error(w, "length must be between 1 and 3", http.StatusBadRequest)
		return
	}
	h.run(w, r, domains)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, domains []string) {
	collector := &pipeline.Collector{}
	driver := pipeline.Build(h.cfg, h.table, collector)

	recs := driver.Run(r.Context(), domains)
	resp := checkResponse{Errors: collector.Drain()}
	for _, rec := range recs {
		resp.Results = append(resp.Results, rec.Result())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "encoding response", http.StatusInternalServerError)
	}
}

// normalizeDomain trims whitespace and defaults bare names to .com, matching
// the CLI's behavior.
func normalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return ""
	}
	if !strings.Contains(domain, ".") {
		domain += ".com"
	}
	return strings.ToLower(domain)
}
