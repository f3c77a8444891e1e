package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berckan/domainscout/internal/status"
)

func sampleResults() []status.Result {
	return []status.Result{
		{Domain: "open.com", Availability: status.Available, Price: "8.99", Reason: "Domain is available (WHOISCheck)"},
		{Domain: "taken.com", Availability: status.Unavailable, Price: "N/A", Reason: "Domain is registered (WHOISCheck)"},
		{Domain: "ab.de", Availability: status.Available, Price: "9.50", Reason: "Domain is available (WHOISCheck); Local presence required", Restricted: true},
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Available", Label(status.Result{Availability: status.Available}))
	assert.Equal(t, "Premium", Label(status.Result{Availability: status.Premium}))
	assert.Equal(t, "Not available", Label(status.Result{Availability: status.Unavailable}))
	assert.Equal(t, "Unknown", Label(status.Result{Availability: status.Unknown}))
}

func TestResultLineHasNoColorCodes(t *testing.T) {
	line := ResultLine(sampleResults()[0])
	assert.Equal(t, "open.com\t| Available\t| 8.99\t| Domain is available (WHOISCheck)", line)
	assert.NotContains(t, line, "\033")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "Domain")
	assert.Contains(t, out, "open.com")
	assert.Contains(t, out, ansiGreen, "unrestricted available is green")
	assert.Contains(t, out, ansiOrange, "restricted available is orange")
	assert.Contains(t, out, ansiRed, "unavailable is red")
}

func TestAppendFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, AppendFile(path, sampleResults()[:1]))
	require.NoError(t, AppendFile(path, sampleResults()[1:2]))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "open.com")
	assert.Contains(t, lines[1], "taken.com")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResults()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
