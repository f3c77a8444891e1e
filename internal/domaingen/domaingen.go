// Package domaingen produces the candidate domain lists the pipeline
// consumes: plain list files, a base name expanded across every known TLD,
// and short-domain permutations.
package domaingen

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const chars = "abcdefghijklmnopqrstuvwxyz0123456789"

// ReadDomains reads one domain per line, skipping blanks.
func ReadDomains(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading domains: %w", err)
	}
	defer f.Close()

	var domains []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		d := strings.TrimSpace(scanner.Text())
		if d != "" {
			domains = append(domains, d)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading domains: %w", err)
	}
	return domains, nil
}

// ReadTLDs reads a TLD-per-line file, lowercased and with any leading dot
// stripped. Entries longer than maxLen are dropped; maxLen <= 0 disables the
// cap.
func ReadTLDs(path string, maxLen int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading tld list: %w", err)
	}
	defer f.Close()

	var tlds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tld := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(scanner.Text()), "."))
		if tld == "" {
			continue
		}
		if maxLen > 0 && len(tld) > maxLen {
			continue
		}
		tlds = append(tlds, tld)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading tld list: %w", err)
	}
	return tlds, nil
}

// ExpandBase generates base.tld for every tld.
func ExpandBase(base string, tlds []string) []string {
	domains := make([]string, len(tlds))
	for i, tld := range tlds {
		domains[i] = base + "." + tld
	}
	return domains
}

// ShortDomains generates every name of the given length (1-3 characters over
// a-z0-9) under one TLD.
func ShortDomains(length int, tld string) []string {
	if length < 1 || length > 3 {
		return nil
	}

	var domains []string
	var build func(prefix string, remaining int)
	build = func(prefix string, remaining int) {
		if remaining == 0 {
			domains = append(domains, prefix+"."+tld)
			return
		}
		for _, c := range chars {
			build(prefix+string(c), remaining-1)
		}
	}
	build("", length)
	return domains
}
