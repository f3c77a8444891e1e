package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 15, cfg.StageWorkers)
	assert.Equal(t, 5, cfg.ConfirmWorkers)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 140, cfg.ReasonCap)
	assert.Equal(t, []string{"A", "MX", "NS"}, cfg.DNSRecordTypes)
	assert.Equal(t, 60*time.Second, cfg.StreamTimeout)
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "stage_workers: 30\nreason_cap: 200\ndns_record_types: [A, TXT]\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.StageWorkers)
	assert.Equal(t, 200, cfg.ReasonCap)
	assert.Equal(t, []string{"A", "TXT"}, cfg.DNSRecordTypes)
	assert.Equal(t, 5, cfg.ConfirmWorkers, "untouched keys keep defaults")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().StageWorkers, cfg.StageWorkers)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DOMAINR_API_KEY", "secret")
	t.Setenv("MAX_TLD_LENGTH", "10")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.DomainrAPIKey)
	assert.Equal(t, 10, cfg.MaxTLDLength)
}

func TestEnvNoneSentinelIgnored(t *testing.T) {
	t.Setenv("DOMAINR_API_KEY", "none")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.DomainrAPIKey)
}
