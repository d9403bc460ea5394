package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingDefaultPath_UsesDefaultsWithoutError(t *testing.T) {
	cfg, info := Load(filepath.Join(t.TempDir(), DefaultPath))
	require.Equal(t, SourceDefault, info.Source)
	require.Error(t, info.Err) // explicit path that does not exist is reported

	cfg2, info2 := Load("") // default path in cwd may or may not exist; just exercise the branch
	require.NotNil(t, cfg2)
	require.NotEmpty(t, info2.Path)

	require.Equal(t, ".", cfg.BaseDir)
	require.Equal(t, "src", cfg.SrcDir)
	require.Equal(t, "dist", cfg.OutDir)
	require.Equal(t, "assets", cfg.AssetDir)
	require.Equal(t, "pages", cfg.PageDir)
	require.Equal(t, "layouts", cfg.LayoutDir)
}

func TestLoad_MalformedFile_FallsBackToDefaultsAndReportsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site: [not a mapping\n"), 0o644))

	cfg, info := Load(path)
	require.Equal(t, SourceDefault, info.Source)
	require.Error(t, info.Err)
	require.Equal(t, "dist", cfg.OutDir)
}

func TestLoad_PartialFile_OverridesOnlyNamedFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
out_dir: public
site:
  url: https://example.com
  title: Example
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, info := Load(path)
	require.Equal(t, SourceFile, info.Source)
	require.NoError(t, info.Err)
	require.Equal(t, "public", cfg.OutDir)
	require.Equal(t, "https://example.com", cfg.Site.URL)
	require.Equal(t, "Example", cfg.Site.Title)
	// Unnamed fields keep defaults.
	require.Equal(t, "src", cfg.SrcDir)
	require.Equal(t, "pages", cfg.PageDir)
	require.Equal(t, 300*time.Millisecond, cfg.Watch.QuietWindow.Std())
}

func TestLoad_ParsesDurationStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
watch:
  quiet_window: 150ms
  interval: 10m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, info := Load(path)
	require.Equal(t, SourceFile, info.Source)
	require.NoError(t, info.Err)
	require.Equal(t, 150*time.Millisecond, cfg.Watch.QuietWindow.Std())
	require.Equal(t, 10*time.Minute, cfg.Watch.Interval.Std())
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("SITEGEN_TEST_URL", "https://env.example.com")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("site:\n  url: ${SITEGEN_TEST_URL}\n"), 0o644))

	cfg, info := Load(path)
	require.Equal(t, SourceFile, info.Source)
	require.Equal(t, "https://env.example.com", cfg.Site.URL)
}

func TestResolve_DirectoryRules(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.BaseDir = base

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	require.True(t, filepath.IsAbs(ctx.SrcDir))
	require.True(t, filepath.IsAbs(ctx.OutDir))
	require.True(t, filepath.IsAbs(ctx.PagesDir))

	// src/out relative to base; assets/pages/layouts relative to resolved src.
	require.Equal(t, filepath.Join(base, "src"), ctx.SrcDir)
	require.Equal(t, filepath.Join(base, "dist"), ctx.OutDir)
	require.Equal(t, filepath.Join(base, "src", "assets"), ctx.AssetsDir)
	require.Equal(t, filepath.Join(base, "src", "pages"), ctx.PagesDir)
	require.Equal(t, filepath.Join(base, "src", "layouts"), ctx.LayoutsDir)
}

func TestInit_WritesExampleConfigAndRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, info := Load(path)
	require.Equal(t, SourceFile, info.Source)
	require.Equal(t, "https://example.com", cfg.Site.URL)
}
