package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berckan/domainscout/internal/config"
	"github.com/berckan/domainscout/internal/tldrules"
)

// With an empty rule table every domain fails the structural check, so these
// tests exercise the full request path without any remote calls.
func newTestHandler() *Handler {
	return New(config.Default(), tldrules.FromRules(nil))
}

func TestCheckRejectsBadBody(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader("{broken"))
	w := httptest.NewRecorder()

	h.Check(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckRequiresDomain(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(`{"domain": "  "}`))
	w := httptest.NewRecorder()

	h.Check(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckRunsPipeline(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/check", strings.NewReader(`{"domain": "somename"}`))
	w := httptest.NewRecorder()

	h.Check(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp checkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "somename.com", resp.Results[0].Domain, "bare names default to .com")
	assert.Contains(t, resp.Results[0].Reason, "not recognized")
}

func TestCheckBulkCapsList(t *testing.T) {
	h := newTestHandler()

	domains := make([]string, 60)
	for i := range domains {
		domains[i] = "d" + string(rune('a'+i%26)) + ".xx"
	}
	body, err := json.Marshal(bulkRequest{Domains: domains})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/check-bulk", strings.NewReader(string(body)))
	w := httptest.NewRecorder()

	h.CheckBulk(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp checkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Results, maxBulkDomains)
}

func TestScanShortCoversAlphabet(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/scan-short", strings.NewReader(`{"length": 1, "tld": "xx"}`))
	w := httptest.NewRecorder()

	h.ScanShort(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp checkResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 36, "a-z plus 0-9")
	for _, res := range resp.Results {
		assert.True(t, strings.HasSuffix(res.Domain, ".xx"), res.Domain)
	}
}

func TestScanShortRejectsBadLength(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/scan-short", strings.NewReader(`{"length": 4, "tld": "com"}`))
	w := httptest.NewRecorder()

	h.ScanShort(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckBulkRequiresDomains(t *testing.T) {
	h := newTestHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/check-bulk", strings.NewReader(`{"domains": []}`))
	w := httptest.NewRecorder()

	h.CheckBulk(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
