package picker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceIndexesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o644))

	svc, err := NewService(dir, 0)
	require.NoError(t, err)
	defer svc.Close()

	svc.UpdateQuery("main")
	results := svc.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "main.go", results[0].Entry.Display)
}

func TestServiceReindexesOnNewFile(t *testing.T) {
	dir := t.TempDir()
	svc, err := NewService(dir, 0)
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new_file.go"), []byte("x"), 0o644))

	require.Eventually(t, func() bool {
		svc.UpdateQuery("new_file")
		return len(svc.Results()) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestServiceMoveSelectionClamps(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte("x"), 0o644))

	svc, err := NewService(dir, 0)
	require.NoError(t, err)
	defer svc.Close()

	svc.UpdateQuery("")
	svc.MoveSelection(-5)
	selected, ok := svc.Selected()
	require.True(t, ok)
	assert.Equal(t, "a.go", selected.Entry.Display)
}
