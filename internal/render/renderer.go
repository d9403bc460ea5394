// Package render turns a single source file into a Page, dispatching to a
// format-specific renderer based on the file extension.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitegen/internal/frontmatter"
)

// Renderer renders source files into Pages.
type Renderer struct {
	md     goldmark.Markdown
	titler cases.Caser
}

// New creates a Renderer. Raw HTML embedded in markdown is passed through
// unescaped, as pages are authored content, not untrusted input.
func New() *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithRendererOptions(ghtml.WithUnsafe())),
		titler: cases.Title(language.English),
	}
}

// RenderFile reads and renders a single source file. Markdown pages without
// a title attribute get one derived from the file name (kebab/snake case to
// title case), except index pages.
func (r *Renderer) RenderFile(path string) (Page, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page file: %w", err)
	}

	ext := filepath.Ext(path)
	page, err := r.Render(content, ext)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", path, err)
	}

	if isMarkdownExt(ext) {
		name := strings.TrimSuffix(filepath.Base(path), ext)
		if page["title"] == nil && name != "index" {
			page["title"] = r.deriveTitle(name)
		}
	}
	return page, nil
}

// Render produces a Page from file content and its extension. Dispatch is
// case-sensitive and exact: .ejs/.html/.htm render as templates with empty
// data, .md/.markdown split front-matter and render the body as markdown,
// and anything else yields an empty Page.
func (r *Renderer) Render(content []byte, ext string) (Page, error) {
	switch ext {
	case ".ejs", ".html", ".htm":
		return r.renderTemplate(content)
	case ".md", ".markdown":
		return r.renderMarkdown(content)
	default:
		return Page{}, nil
	}
}

func (r *Renderer) renderTemplate(content []byte) (Page, error) {
	tmpl, err := template.New("page").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	// Dynamic directives see an empty context: there is no external data
	// bound to standalone template pages.
	if err := tmpl.Execute(&buf, map[string]any{}); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return Page{"main": template.HTML(buf.String())}, nil
}

func (r *Renderer) renderMarkdown(content []byte) (Page, error) {
	fm, body, _, err := frontmatter.Split(content)
	if err != nil {
		return nil, fmt.Errorf("split front-matter: %w", err)
	}

	attrs, err := frontmatter.Parse(fm)
	if err != nil {
		return nil, fmt.Errorf("parse front-matter: %w", err)
	}

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	page := Page(attrs)
	// main is always the rendered body, overriding any front-matter key of
	// the same name.
	page["main"] = template.HTML(buf.String())
	return page, nil
}

// deriveTitle converts a kebab or snake case file name into a display title:
// getting-started -> Getting Started.
func (r *Renderer) deriveTitle(name string) string {
	name = strings.ReplaceAll(name, "_", "-")
	words := strings.Split(name, "-")
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return r.titler.String(strings.TrimSpace(strings.Join(words, " ")))
}

func isMarkdownExt(ext string) bool {
	return ext == ".md" || ext == ".markdown"
}
