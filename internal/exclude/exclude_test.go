package exclude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exclude.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeList(t, `
paths = [
  '^/tmp/',
  '\.secret$',
]
`)

	list, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, list.Len())

	assert.True(t, list.Excluded("/tmp/scratch.txt"))
	assert.True(t, list.Excluded("/home/u/creds.secret"))
	assert.False(t, list.Excluded("/home/u/notes.txt"))
}

func TestLoad_EmptyPath(t *testing.T) {
	list, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, list.Len())
	assert.False(t, list.Excluded("/any/path"))
}

func TestLoad_MissingFile(t *testing.T) {
	list, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 0, list.Len())
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := writeList(t, "paths = [unclosed\n")

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidTOML)
}

func TestLoad_InvalidPattern(t *testing.T) {
	path := writeList(t, `paths = ['[unterminated']`)

	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidRegex)
}

func TestLoad_NoPatterns(t *testing.T) {
	path := writeList(t, "# nothing excluded\n")

	list, err := Load(path)
	require.NoError(t, err)
	assert.False(t, list.Excluded("/home/u/notes.txt"))
}

func TestExcluded_NilList(t *testing.T) {
	var list *List
	assert.False(t, list.Excluded("/any/path"))
	assert.Equal(t, 0, list.Len())
}
