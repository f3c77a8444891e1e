package domaingen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDomains(t *testing.T) {
	path := writeFile(t, "example.com\n\n  spaced.net  \n")
	domains, err := ReadDomains(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "spaced.net"}, domains)
}

func TestReadTLDs(t *testing.T) {
	path := writeFile(t, ".COM\nio\n\n.verylongsuffix\n")
	tlds, err := ReadTLDs(path, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"com", "io"}, tlds, "lowercased, dot stripped, length capped")

	all, err := ReadTLDs(path, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "zero cap disables filtering")
}

func TestExpandBase(t *testing.T) {
	domains := ExpandBase("mail", []string{"com", "io"})
	assert.Equal(t, []string{"mail.com", "mail.io"}, domains)
}

func TestShortDomains(t *testing.T) {
	one := ShortDomains(1, "sh")
	assert.Len(t, one, 36)
	assert.Contains(t, one, "a.sh")
	assert.Contains(t, one, "9.sh")

	two := ShortDomains(2, "sh")
	assert.Len(t, two, 36*36)

	assert.Nil(t, ShortDomains(0, "sh"))
	assert.Nil(t, ShortDomains(4, "sh"))
}
