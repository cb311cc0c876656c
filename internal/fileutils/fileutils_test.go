package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"dkhurana/bankledger/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.True(t, fileutils.FileExists(path))
	assert.False(t, fileutils.FileExists(filepath.Join(dir, "missing.txt")))
	assert.False(t, fileutils.FileExists(dir))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")
	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
	assert.True(t, fileutils.DirectoryExists(dir))

	// calling again on an existing directory is fine
	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
}

func TestListFilesWithExtensions(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.csv", "notes.txt", "c.PDF"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub.pdf"), 0o755))

	files, err := fileutils.ListFilesWithExtensions(dir, ".pdf", ".csv")
	require.NoError(t, err)

	// sorted by name, extension match is case-insensitive, directories skipped
	assert.Equal(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "c.PDF"),
	}, files)
}

func TestMoveFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "statement.pdf")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	dest, err := fileutils.MoveFile(src, filepath.Join(dir, "processed"))
	require.NoError(t, err)

	assert.False(t, fileutils.FileExists(src))
	assert.True(t, fileutils.FileExists(dest))
	assert.Equal(t, filepath.Join(dir, "processed", "statement.pdf"), dest)
}
