package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCopyDir_CopiesTreeByteIdentical(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "logo.svg"), []byte("<svg/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "css", "main.css"), []byte("body{}"), 0o644))

	n, err := CopyDir(src, dst)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	logo, err := os.ReadFile(filepath.Join(dst, "logo.svg"))
	require.NoError(t, err)
	require.Equal(t, []byte("<svg/>"), logo)

	css, err := os.ReadFile(filepath.Join(dst, "css", "main.css"))
	require.NoError(t, err)
	require.Equal(t, []byte("body{}"), css)
}

func TestCopyDir_OverwritesConflicts(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dst, "a.txt"), []byte("old"), 0o644))

	_, err := CopyDir(src, dst)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, []byte("new"), data)
}

func TestCopyDir_MissingSource_ReturnsError(t *testing.T) {
	_, err := CopyDir(filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)
}
