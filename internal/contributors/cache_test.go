package contributors

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testList() []Contributor {
	return []Contributor{
		{Login: "mirabel-dev", AvatarURL: "https://example.com/a.png", Contributions: 42},
		{Login: "okabe-r", AvatarURL: "https://example.com/b.png", Contributions: 7},
	}
}

func TestCacheRoundTrip(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "contributors.json"))

	require.NoError(t, c.Write(testList()))

	got, writtenAt, ok := c.Read()
	require.True(t, ok)
	assert.Equal(t, testList(), got)
	assert.WithinDuration(t, time.Now(), writtenAt, 5*time.Second)
}

func TestCacheReadMissingFile(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "contributors.json"))

	_, _, ok := c.Read()
	assert.False(t, ok)
}

func TestCacheReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contributors.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, ok := NewCache(path).Read()
	assert.False(t, ok)
}

func TestCacheReadEmptyList(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "contributors.json"))
	require.NoError(t, c.Write(nil))

	// An empty entry is not a usable cache; callers fall through the chain.
	_, _, ok := c.Read()
	assert.False(t, ok)
}

func TestCacheWriteReplaces(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "contributors.json"))

	require.NoError(t, c.Write(testList()))
	updated := []Contributor{{Login: "quietriver", Contributions: 1}}
	require.NoError(t, c.Write(updated))

	got, _, ok := c.Read()
	require.True(t, ok)
	assert.Equal(t, updated, got)
}
