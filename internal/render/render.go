// Package render presents finalized results: an ANSI-colored table for the
// terminal, a plain tab-separated append file, and an xlsx report. It only
// reads the result tuples; nothing here feeds back into the pipeline.
package render

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/xuri/excelize/v2"

	"github.com/berckan/domainscout/internal/status"
)

const (
	ansiGreen  = "\033[92m"
	ansiRed    = "\033[91m"
	ansiYellow = "\033[93m"
	ansiBlue   = "\033[94m"
	ansiOrange = "\033[33m"
	ansiReset  = "\033[0m"
)

// Label returns the human-readable availability text.
func Label(res status.Result) string {
	switch res.Availability {
	case status.Available:
		return "Available"
	case status.Premium:
		return "Premium"
	case status.Unavailable:
		return "Not available"
	default:
		return "Unknown"
	}
}

func coloredLabel(res status.Result) string {
	label := Label(res)
	switch res.Availability {
	case status.Available:
		if res.Restricted {
			return ansiOrange + label + ansiReset
		}
		return ansiGreen + label + ansiReset
	case status.Premium:
		return ansiBlue + label + ansiReset
	case status.Unavailable:
		return ansiRed + label + ansiReset
	default:
		return ansiYellow + label + ansiReset
	}
}

// WriteTable renders the sorted results as an aligned, colored table.
func WriteTable(w io.Writer, results []status.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Domain\tAvailability\tPrice (USD)\tReason")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.Domain, coloredLabel(res), res.Price, res.Reason)
	}
	return tw.Flush()
}

// ResultLine formats one result the way the append file expects it, without
// color codes.
func ResultLine(res status.Result) string {
	return fmt.Sprintf("%s\t| %s\t| %s\t| %s", res.Domain, Label(res), res.Price, res.Reason)
}

// AppendFile appends plain result lines to path, creating it if needed.
func AppendFile(path string, results []status.Result) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer f.Close()
	for _, res := range results {
		if _, err := fmt.Fprintln(f, ResultLine(res)); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
	}
	return nil
}

// WriteXLSX writes the results as a spreadsheet report.
func WriteXLSX(path string, results []status.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	headers := []string{"Domain", "Availability", "Price (USD)", "Reason", "Restricted"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for row, res := range results {
		values := []any{res.Domain, Label(res), res.Price, res.Reason, res.Restricted}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing xlsx report: %w", err)
	}
	return nil
}
