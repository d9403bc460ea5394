package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectFiles_RecursesAndExcludesDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "top.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "mid.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "deep.md"), []byte("x"), 0o644))

	files, err := CollectFiles(root)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		filepath.Join(root, "top.md"),
		filepath.Join(root, "a", "mid.md"),
		filepath.Join(root, "a", "b", "deep.md"),
	}, files)
}

func TestCollectFiles_MissingRoot_ReturnsError(t *testing.T) {
	_, err := CollectFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestCollectFiles_EmptyRoot_ReturnsNoFiles(t *testing.T) {
	files, err := CollectFiles(t.TempDir())
	require.NoError(t, err)
	require.Empty(t, files)
}
