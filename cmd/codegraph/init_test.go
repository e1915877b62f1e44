package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesAnyFullPathAndBasename(t *testing.T) {
	assert.True(t, matchesAny("src/pkg/file.go", []string{"**/*.go"}))
	assert.True(t, matchesAny("file.go", []string{"*.go"}))
	assert.False(t, matchesAny("file.py", []string{"*.go"}))
	assert.True(t, matchesAny("vendor/thing.go", []string{"vendor/**"}))
}

func TestDiscoverFilesRespectsIncludeAndExclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.py"), []byte("x = 1\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref"), 0o644))

	files, err := discoverFiles(dir, []string{"**/*.go"}, []string{"**/.git/**"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.go", files[0].Path)
	assert.NotEmpty(t, files[0].Fingerprint)
}
