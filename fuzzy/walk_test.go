package fuzzy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesSkipsDotAndBuildDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "pkg.js"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "HEAD"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "lib.go"), []byte("x"), 0o644))

	f := NewFinder()
	require.NoError(t, f.FindFiles(root, 0))

	var displays []string
	for _, e := range f.Entries() {
		displays = append(displays, e.Display)
	}
	assert.ElementsMatch(t, []string{"main.go", filepath.Join("src", "lib.go")}, displays)
}

func TestFindFilesMissingRootReturnsEmpty(t *testing.T) {
	f := NewFinder()
	err := f.FindFiles(filepath.Join(t.TempDir(), "does-not-exist"), 0)
	assert.NoError(t, err)
	assert.Empty(t, f.Entries())
}
