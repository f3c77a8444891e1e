package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/berckan/domainscout/internal/config"
	"github.com/berckan/domainscout/internal/domaingen"
	"github.com/berckan/domainscout/internal/pipeline"
	"github.com/berckan/domainscout/internal/render"
	"github.com/berckan/domainscout/internal/status"
	"github.com/berckan/domainscout/internal/tldrules"
)

func main() {
	// .env carries the Domainr credential; missing file is fine.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "optional YAML config file")
	domainsFile := flag.String("domains", "", "file with one domain per line")
	base := flag.String("base", "", "base name to expand across every TLD in the all-tlds file")
	shortLen := flag.Int("short", 0, "scan every name of this length (1-3) under the -tld suffix")
	shortTLD := flag.String("tld", "com", "TLD for -short mode")
	tldFile := flag.String("tlds", "", "TLD rule table (JSON)")
	outputFile := flag.String("output", "", "append plain results to this file")
	xlsxFile := flag.String("xlsx", "", "also write an xlsx report to this path")
	workers := flag.Int("workers", 0, "single-domain stage pool width")
	verbose := flag.Bool("verbose", false, "log routine source errors")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *domainsFile != "" {
		cfg.DomainsFile = *domainsFile
	}
	if *tldFile != "" {
		cfg.TLDFile = *tldFile
	}
	if *outputFile != "" {
		cfg.OutputFile = *outputFile
	}
	if *workers > 0 {
		cfg.StageWorkers = *workers
	}
	cfg.Verbose = cfg.Verbose || *verbose

	// The rule table is the one required static input; everything else
	// degrades gracefully.
	table, err := tldrules.Load(cfg.TLDFile)
	if err != nil {
		log.Fatalf("tld rules: %v", err)
	}

	domains, err := loadDomains(cfg, *base, *shortLen, *shortTLD)
	if err != nil {
		log.Fatal(err)
	}
	if len(domains) == 0 {
		fmt.Println("No domains to process.")
		return
	}

	fmt.Println("domainscout - domain checker for all TLDs")
	fmt.Println()
	fmt.Printf("Processing %d domains with up to %d workers...\n", len(domains), cfg.StageWorkers)

	collector := &pipeline.Collector{}
	driver := pipeline.Build(cfg, table, collector)
	driver.Progress = func(done, total int) {
		if done%10 == 0 || done == total {
			fmt.Printf("\rProcessed %d/%d domains", done, total)
		}
	}

	recs := driver.Run(context.Background(), domains)
	fmt.Println()

	results := make([]status.Result, len(recs))
	for i, rec := range recs {
		results[i] = rec.Result()
	}

	if err := render.WriteTable(os.Stdout, results); err != nil {
		log.Fatalf("rendering table: %v", err)
	}
	if cfg.OutputFile != "" {
		if err := render.AppendFile(cfg.OutputFile, results); err != nil {
			log.Fatalf("writing output: %v", err)
		}
	}
	if *xlsxFile != "" {
		if err := render.WriteXLSX(*xlsxFile, results); err != nil {
			log.Fatalf("writing xlsx: %v", err)
		}
	}

	if errs := collector.Drain(); len(errs) > 0 {
		fmt.Printf("\n%d source errors encountered during processing", len(errs))
		if cfg.Verbose {
			fmt.Println(":")
			for _, e := range errs {
				fmt.Println("  " + e)
			}
		} else {
			fmt.Println(" (run with -verbose for details)")
		}
	}
}

// loadDomains picks the input mode: every short name of a given length when
// -short is set, a base name expanded across the all-tlds list when -base is
// given, otherwise the domains file.
func loadDomains(cfg config.Config, base string, shortLen int, shortTLD string) ([]string, error) {
	if shortLen > 0 {
		domains := domaingen.ShortDomains(shortLen, strings.TrimPrefix(shortTLD, "."))
		if len(domains) == 0 {
			return nil, fmt.Errorf("-short must be between 1 and 3, got %d", shortLen)
		}
		return domains, nil
	}
	if base != "" {
		tlds, err := domaingen.ReadTLDs(cfg.AllTLDsFile, cfg.MaxTLDLength)
		if err != nil {
			return nil, err
		}
		return domaingen.ExpandBase(base, tlds), nil
	}
	return domaingen.ReadDomains(cfg.DomainsFile)
}
