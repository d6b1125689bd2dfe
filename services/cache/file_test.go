package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")

	c, err := NewFileCache(path)
	require.NoError(t, err)

	assert.False(t, c.Contains("https://example.com/adv/1/"))

	require.NoError(t, c.Add("https://example.com/adv/1/"))
	require.NoError(t, c.Add("https://example.com/adv/2/"))
	assert.True(t, c.Contains("https://example.com/adv/1/"))
	assert.Equal(t, 2, c.Len())

	// Add is idempotent
	require.NoError(t, c.Add("https://example.com/adv/1/"))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Close())

	// A fresh cache over the same file sees the prior entries
	reopened, err := NewFileCache(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, reopened.Contains("https://example.com/adv/1/"))
	assert.True(t, reopened.Contains("https://example.com/adv/2/"))
	assert.Equal(t, 2, reopened.Len())
}

func TestFileCacheFormatIsLineDelimited(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")

	c, err := NewFileCache(path)
	require.NoError(t, err)
	require.NoError(t, c.Add("https://example.com/adv/1/"))
	require.NoError(t, c.Add("https://example.com/adv/2/"))
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/adv/1/\nhttps://example.com/adv/2/\n", string(data))
}

func TestFileCacheIgnoresBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://example.com/adv/1/\n\n  \n"), 0644))

	c, err := NewFileCache(path)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, 1, c.Len())
	assert.True(t, c.Contains("https://example.com/adv/1/"))
}
