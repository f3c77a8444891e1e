// Package config carries the tunables the pipeline accepts: pool widths,
// per-call timeouts, batch size, the reason cap, and the DNS record-type set.
// Defaults are overridden by an optional YAML file, then by environment
// variables, so main stays lean.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Input/output collaborators.
	DomainsFile string `yaml:"domains_file"`
	TLDFile     string `yaml:"tld_file"`
	AllTLDsFile string `yaml:"all_tlds_file"`
	OutputFile  string `yaml:"output_file"`

	// Worker pools. StageWorkers scales with network latency, not CPU count:
	// the single-domain stage is I/O bound. ConfirmWorkers is deliberately
	// smaller because the confirmation API rate-limits tightly.
	StageWorkers   int `yaml:"stage_workers"`
	ConfirmWorkers int `yaml:"confirm_workers"`

	BatchSize int `yaml:"batch_size"`
	ReasonCap int `yaml:"reason_cap"`

	// Per-remote-call timeouts.
	DNSTimeout     time.Duration `yaml:"dns_timeout"`
	WhoisTimeout   time.Duration `yaml:"whois_timeout"`
	BulkTimeout    time.Duration `yaml:"bulk_timeout"`
	StreamTimeout  time.Duration `yaml:"stream_timeout"`
	ConfirmTimeout time.Duration `yaml:"confirm_timeout"`

	// DNS behavior.
	DNSServer         string   `yaml:"dns_server"`
	DNSRecordTypes    []string `yaml:"dns_record_types"`
	DNSIgnoredAnswers []string `yaml:"dns_ignored_answers"`

	// Remote endpoints, overridable mainly for tests.
	NamecheapEndpoint string `yaml:"namecheap_endpoint"`
	GandiEndpoint     string `yaml:"gandi_endpoint"`
	DomainrEndpoint   string `yaml:"domainr_endpoint"`

	DomainrAPIKey string `yaml:"domainr_api_key"`
	MaxTLDLength  int    `yaml:"max_tld_length"`
	Verbose       bool   `yaml:"verbose"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		DomainsFile:       "checkthis.txt",
		TLDFile:           "tlds.json",
		AllTLDsFile:       "all-tlds.txt",
		OutputFile:        "output.txt",
		StageWorkers:      15,
		ConfirmWorkers:    5,
		BatchSize:         50,
		ReasonCap:         140,
		DNSTimeout:        5 * time.Second,
		WhoisTimeout:      10 * time.Second,
		BulkTimeout:       10 * time.Second,
		StreamTimeout:     60 * time.Second,
		ConfirmTimeout:    10 * time.Second,
		DNSServer:         "8.8.8.8:53",
		DNSRecordTypes:    []string{"A", "MX", "NS"},
		DNSIgnoredAnswers: []string{"64.70.19.203"},
		MaxTLDLength:      50,
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if it
// exists), then environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DOMAINR_API_KEY"); v != "" && v != "none" {
		c.DomainrAPIKey = v
	}
	if v := os.Getenv("MAX_TLD_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxTLDLength = n
		}
	}
	if v := os.Getenv("DNS_SERVER"); v != "" {
		c.DNSServer = v
	}
}
