// Package layout merges rendered pages into named layout templates and
// writes the final HTML to the output tree.
package layout

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/render"
)

// Ext is the fixed extension of layout files under the layout directory.
const Ext = ".html"

// ErrLayoutNotFound indicates a page referenced a layout with no matching
// file in the layout directory.
var ErrLayoutNotFound = errors.New("layout not found")

// Compositor wraps rendered pages in layouts. Layouts are loaded fresh on
// every page render; nothing is cached.
type Compositor struct {
	ctx config.Context
}

// NewCompositor creates a Compositor for one build invocation.
func NewCompositor(ctx config.Context) *Compositor {
	return &Compositor{ctx: ctx}
}

// WritePage resolves the page's layout, renders it with the merged context,
// and writes the result to the mirrored output path. It returns the output
// path written. A missing layout is fatal for the page.
func (c *Compositor) WritePage(pagePath string, page render.Page) (string, error) {
	rel, err := filepath.Rel(c.ctx.PagesDir, pagePath)
	if err != nil {
		return "", fmt.Errorf("relativize page path: %w", err)
	}

	outPath := filepath.Join(c.ctx.OutDir, replaceExt(rel, ".html"))
	page["url"] = PageURL(c.ctx.Site.URL, rel)
	page["layout"] = page.LayoutName()

	tmpl, err := c.loadLayout(page.LayoutName())
	if err != nil {
		return "", err
	}

	data := c.ctx.TemplateData()
	data["page"] = page

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render layout %q: %w", page.LayoutName(), err)
	}

	// MkdirAll tolerates an existing directory; anything else (permissions,
	// disk full) is a real failure and propagates.
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	return outPath, nil
}

func (c *Compositor) loadLayout(name string) (*template.Template, error) {
	layoutPath := filepath.Join(c.ctx.LayoutsDir, name+Ext)
	content, err := os.ReadFile(layoutPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLayoutNotFound, layoutPath)
		}
		return nil, fmt.Errorf("read layout: %w", err)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse layout %q: %w", name, err)
	}
	return tmpl, nil
}

// PageURL computes the public URL for a page given its path relative to the
// page directory. Pages named index get the clean directory form
// (blog/index.md -> /blog/); everything else maps to the output file
// (blog/post.md -> /blog/post.html).
func PageURL(siteURL, rel string) string {
	base := strings.TrimSuffix(siteURL, "/")
	slashed := path.Clean(filepath.ToSlash(rel))

	ext := path.Ext(slashed)
	name := strings.TrimSuffix(path.Base(slashed), ext)
	if name == "index" {
		dir := path.Dir(slashed)
		if dir == "." {
			return base + "/"
		}
		return base + "/" + dir + "/"
	}
	return base + "/" + replaceExtSlash(slashed, ".html")
}

func replaceExt(p, ext string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + ext
}

func replaceExtSlash(p, ext string) string {
	return strings.TrimSuffix(p, path.Ext(p)) + ext
}
