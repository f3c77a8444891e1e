// Command tldscrape rebuilds the TLD rule table from tld-list.com pages.
// Results merge over an existing tlds.json so an interrupted run can resume.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/berckan/domainscout/internal/domaingen"
	"github.com/berckan/domainscout/internal/tldrules"
)

func main() {
	listFile := flag.String("list", "all-tlds.txt", "TLD-per-line input file")
	outFile := flag.String("out", "tlds.json", "rule table to write (merged over existing content)")
	perMinute := flag.Int("rate", 20, "max page fetches per minute")
	flag.Parse()

	tlds, err := domaingen.ReadTLDs(*listFile, 0)
	if err != nil {
		log.Fatal(err)
	}

	existing := loadExisting(*outFile)
	client := &http.Client{Timeout: 15 * time.Second}
	limiter := rate.NewLimiter(rate.Limit(float64(*perMinute)/60.0), 1)
	ctx := context.Background()

	for i, tld := range tlds {
		if _, ok := existing[tld]; ok {
			continue
		}
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		rule, err := scrapeTLD(ctx, client, tld)
		if err != nil {
			log.Printf("failed to fetch data for %s: %v", tld, err)
			rule = tldrules.Rule{Name: tld, CanRegister: false}
		}
		existing[tld] = rule
		fmt.Printf("\rScraped %d/%d TLDs", i+1, len(tlds))

		// Checkpoint as we go so an abort loses nothing.
		if (i+1)%25 == 0 {
			if err := writeRules(*outFile, existing); err != nil {
				log.Fatal(err)
			}
		}
	}
	fmt.Println()

	if err := writeRules(*outFile, existing); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote %d rules to %s\n", len(existing), *outFile)
}

func loadExisting(path string) map[string]tldrules.Rule {
	rules := make(map[string]tldrules.Rule)
	data, err := os.ReadFile(path)
	if err != nil {
		return rules
	}
	var list []tldrules.Rule
	if err := json.Unmarshal(data, &list); err != nil {
		return rules
	}
	for _, r := range list {
		rules[strings.ToLower(r.Name)] = r
	}
	return rules
}

func writeRules(path string, rules map[string]tldrules.Rule) error {
	list := make([]tldrules.Rule, 0, len(rules))
	for _, r := range rules {
		list = append(list, r)
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func scrapeTLD(ctx context.Context, client *http.Client, tld string) (tldrules.Rule, error) {
	rule := tldrules.Rule{
		Name:         tld,
		MinLength:    "?",
		MaxLength:    "?",
		Restrictions: "?",
		AveragePrice: "?",
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://tld-list.com/tld/"+tld, nil)
	if err != nil {
		return rule, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return rule, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return rule, fmt.Errorf("status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return rule, err
	}

	// Average registrar price for registration; a price implies the TLD is
	// open for registration at all.
	doc.Find("h2#price-info").NextFiltered("table").Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := row.Find("td").First()
		if !strings.Contains(label.Text(), "Average Registrar Prices") {
			return true
		}
		row.Find("div.subrow2-row").EachWithBreak(func(_ int, sub *goquery.Selection) bool {
			subLabel := strings.ToLower(strings.TrimSpace(sub.Find("div.subrow2-cell").First().Text()))
			if !strings.Contains(subLabel, "registration") {
				return true
			}
			value := strings.TrimSpace(sub.Find("div.subrow2-cell").Last().Text())
			if strings.Contains(strings.ToLower(value), "not available") {
				rule.AveragePrice = "Not available"
			} else {
				rule.AveragePrice = strings.TrimSpace(strings.TrimPrefix(value, "$"))
				rule.CanRegister = true
			}
			return false
		})
		return false
	})

	// Label length bounds from the domain syntax table.
	doc.Find("h2#domain-syntax").NextFiltered("table").Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.ToLower(strings.TrimSpace(cells.First().Text()))
		value := strings.TrimSpace(cells.Eq(1).Text())
		switch {
		case strings.Contains(label, "minimum registerable characters"):
			rule.MinLength = value
		case strings.Contains(label, "maximum registerable characters"):
			rule.MaxLength = value
		}
	})

	// Registry details: restrictions note, registry site, whois server.
	doc.Find("h2#registry-info").NextFiltered("table").Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		label := strings.ToLower(strings.TrimSpace(cells.First().Text()))
		value := strings.TrimSpace(cells.Eq(1).Text())
		switch {
		case strings.Contains(label, "restriction"):
			rule.Restrictions = value
		case strings.Contains(label, "registry site"):
			rule.RegistrySite = value
		case strings.Contains(label, "whois server"):
			rule.WhoisServer = value
		}
	})

	if rule.Restrictions == "?" || rule.Restrictions == "" {
		rule.Restrictions = tldrules.NoKnownRestrictions
	}
	return rule, nil
}
