// Package markdown renders content entry bodies to HTML.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer converts Markdown bodies (frontmatter already removed) to HTML.
// Raw HTML in the source is omitted from the output.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer with GitHub Flavored Markdown enabled.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// RenderHTML renders body to an HTML fragment.
func (r *Renderer) RenderHTML(body []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
