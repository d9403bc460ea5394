package config

import (
	"fmt"
	"path/filepath"
)

// Context is the resolved, immutable build configuration threaded through
// every component. All directory fields are absolute paths. It is built once
// per build invocation and passed by value, so no synchronization is needed.
type Context struct {
	BaseDir    string
	SrcDir     string
	OutDir     string
	AssetsDir  string
	PagesDir   string
	LayoutsDir string

	Site SiteConfig
}

// Resolve computes the Context for a Config: src and out directories relative
// to the base directory, asset/page/layout directories relative to the
// resolved src directory.
func (c *Config) Resolve() (Context, error) {
	base, err := filepath.Abs(c.BaseDir)
	if err != nil {
		return Context{}, fmt.Errorf("resolve base directory: %w", err)
	}

	src := filepath.Join(base, c.SrcDir)
	ctx := Context{
		BaseDir:    base,
		SrcDir:     src,
		OutDir:     filepath.Join(base, c.OutDir),
		AssetsDir:  filepath.Join(src, c.AssetDir),
		PagesDir:   filepath.Join(src, c.PageDir),
		LayoutsDir: filepath.Join(src, c.LayoutDir),
		Site:       c.Site,
	}
	return ctx, nil
}

// TemplateData spreads the Context fields into the map handed to layout
// templates. The caller adds the page entry.
func (ctx Context) TemplateData() map[string]any {
	return map[string]any{
		"baseDir":   ctx.BaseDir,
		"srcDir":    ctx.SrcDir,
		"outDir":    ctx.OutDir,
		"assetDir":  ctx.AssetsDir,
		"pageDir":   ctx.PagesDir,
		"layoutDir": ctx.LayoutsDir,
		"site":      ctx.Site,
	}
}
