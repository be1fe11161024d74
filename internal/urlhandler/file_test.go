package urlhandler

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTargetFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadTargetsFromFile(t *testing.T) {
	path := writeTargetFile(t, `# production targets
https://example.com/news | #content

example.org/releases
https://example.net/status
`)

	targets, err := ReadTargetsFromFile(path, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, targets, 3)

	assert.Equal(t, "https://example.com/news", targets[0].URL)
	assert.Equal(t, "#content", targets[0].Selector)
	assert.Equal(t, "https://example.org/releases", targets[1].URL)
	assert.Empty(t, targets[1].Selector)
	assert.Equal(t, "https://example.net/status", targets[2].URL)
}

func TestReadTargetsFromFile_SkipsInvalidLines(t *testing.T) {
	path := writeTargetFile(t, `https://example.com/good
ftp://example.com/bad-scheme
https://example.com/also-good
`)

	targets, err := ReadTargetsFromFile(path, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "https://example.com/good", targets[0].URL)
	assert.Equal(t, "https://example.com/also-good", targets[1].URL)
}

func TestReadTargetsFromFile_NotFound(t *testing.T) {
	_, err := ReadTargetsFromFile(filepath.Join(t.TempDir(), "missing.txt"), zerolog.Nop())
	assert.True(t, errors.Is(err, ErrFileNotFound))
}

func TestReadTargetsFromFile_NoValidTargets(t *testing.T) {
	path := writeTargetFile(t, "# only comments\n\n")

	_, err := ReadTargetsFromFile(path, zerolog.Nop())
	assert.True(t, errors.Is(err, ErrFileEmpty))
}
