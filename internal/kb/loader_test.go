package kb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "returns.txt", "Our return policy is 30 days.")
	writeFile(t, dir, "blank.txt", "   \n\t  ")
	writeFile(t, dir, "about.txt", "We sell widgets.")
	writeFile(t, dir, "ignored.md", "not a kb file")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.txt"), 0o755))

	docs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// lexicographic order, empty and non-txt entries skipped
	assert.Equal(t, "about", docs[0].ID)
	assert.Equal(t, "We sell widgets.", docs[0].Text)
	assert.Equal(t, "returns", docs[1].ID)
	assert.Equal(t, "Our return policy is 30 days.", docs[1].Text)
}

func TestLoadTrimsWhitespace(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doc.txt", "\n  padded text  \n")

	docs, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "padded text", docs[0].Text)
}

func TestLoadEmptyDir(t *testing.T) {
	docs, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadMissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}
