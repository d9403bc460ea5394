package render

import "html/template"

// Page is the result of rendering one source file: front-matter attributes
// plus the rendered body under "main". The layout compositor later adds
// "url" and normalizes "layout". A Page is created per source file, consumed
// once, and discarded.
type Page map[string]any

// DefaultLayout is used when a page names no layout.
const DefaultLayout = "default"

// Main returns the rendered body HTML, or empty when the page has none
// (unknown source extensions produce empty pages).
func (p Page) Main() template.HTML {
	switch v := p["main"].(type) {
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	default:
		return ""
	}
}

// LayoutName returns the layout the page asks for, defaulting to "default".
func (p Page) LayoutName() string {
	if name, ok := p["layout"].(string); ok && name != "" {
		return name
	}
	return DefaultLayout
}
