// Package markdown renders activity notes and reads goal documents.
package markdown

import (
	"bytes"
	"errors"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"
)

var ErrNoFrontmatter = errors.New("document has no front matter")

type Parser struct {
	md goldmark.Markdown
}

// NewParser builds a GFM parser. Raw HTML in the source is not rendered.
func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HTML renders a note for embedding in a page. Rendering failures fall back
// to the escaped plain text.
func (p *Parser) HTML(note string) template.HTML {
	out, err := p.Parse([]byte(note))
	if err != nil {
		return template.HTML(template.HTMLEscapeString(note))
	}
	return template.HTML(out)
}

// Document is a markdown file split into its front matter and body.
type Document struct {
	Body string
}

// ParseDocument decodes the YAML or TOML front matter into meta and returns
// the markdown body that follows it.
func (p *Parser) ParseDocument(source []byte, meta any) (*Document, error) {
	ctx := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	data := frontmatter.Get(ctx)
	if data == nil {
		return nil, ErrNoFrontmatter
	}
	err := data.Decode(meta)
	if err != nil {
		return nil, err
	}

	return &Document{Body: strings.TrimSpace(body(source))}, nil
}

// body returns the source after the closing front matter delimiter.
func body(source []byte) string {
	lines := strings.SplitAfter(string(source), "\n")
	if len(lines) == 0 {
		return ""
	}

	delim := strings.TrimSpace(lines[0])
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delim {
			return strings.Join(lines[i+1:], "")
		}
	}
	return ""
}
