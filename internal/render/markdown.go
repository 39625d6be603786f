package render

import (
	"bytes"
	"fmt"

	"mxdocs/internal/slug"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// markdownVersion changes whenever the goldmark setup below changes, so
// cached pages get rebuilt.
const markdownVersion = "goldmark:gfm,linkify,table,autoid,unsafe:v1"

type MarkdownRenderer struct {
	md goldmark.Markdown
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &MarkdownRenderer{md: md}
}

func (r *MarkdownRenderer) Version() string {
	return markdownVersion
}

// Render converts src to HTML. Heading IDs are prefixed with idPrefix so
// several bodies can share one page without id clashes.
func (r *MarkdownRenderer) Render(src []byte, idPrefix string) ([]byte, error) {
	ctx := parser.NewContext(parser.WithIDs(newPrefixedIDs(idPrefix)))
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type prefixedIDs struct {
	prefix string
	seen   map[string]struct{}
}

func newPrefixedIDs(prefix string) *prefixedIDs {
	return &prefixedIDs{prefix: prefix, seen: make(map[string]struct{})}
}

func (p *prefixedIDs) Generate(value []byte, kind ast.NodeKind) []byte {
	base := slug.Make(string(value))
	if base == "" {
		base = "heading"
	}
	if p.prefix != "" {
		base = p.prefix + "-" + base
	}
	id := base
	for i := 1; ; i++ {
		if _, ok := p.seen[id]; !ok {
			break
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
	p.seen[id] = struct{}{}
	return []byte(id)
}

func (p *prefixedIDs) Put(value []byte) {
	p.seen[string(value)] = struct{}{}
}
