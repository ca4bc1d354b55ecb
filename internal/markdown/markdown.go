// Package markdown renders devlog markdown to HTML. Fenced code blocks go
// through the highlight filter, so a broken block degrades to escaped text
// instead of failing the page.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"github.com/ztaylor/codehl/internal/filter"
	"github.com/ztaylor/codehl/internal/logger"
)

// Document is a rendered markdown file.
type Document struct {
	Title string
	Date  string
	Tags  []string
	HTML  string
}

// Renderer converts markdown using a filter for code blocks.
type Renderer struct {
	filter *filter.Filter
	theme  string
}

// NewRenderer creates a renderer whose code blocks use theme unless a
// document's frontmatter names another.
func NewRenderer(f *filter.Filter, theme string) *Renderer {
	return &Renderer{filter: f, theme: theme}
}

// Convert renders markdown without frontmatter handling.
func (r *Renderer) Convert(ctx context.Context, src []byte) (string, error) {
	return r.convert(ctx, src, r.theme)
}

func (r *Renderer) convert(ctx context.Context, src []byte, theme string) (string, error) {
	blocks := &codeBlockRenderer{ctx: ctx, filter: r.filter, theme: theme}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.DefinitionList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(blocks, 100)),
		),
	)

	var buf bytes.Buffer
	if err := md.Convert(ReplaceAlerts(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Render converts a whole document. name supplies the title when the
// frontmatter has none.
func (r *Renderer) Render(ctx context.Context, src []byte, name string) (*Document, error) {
	meta, body, err := parseFrontmatter(src)
	if err != nil {
		return nil, err
	}

	theme := r.theme
	if meta.Theme != "" {
		theme = meta.Theme
	}

	out, err := r.convert(ctx, body, theme)
	if err != nil {
		return nil, err
	}

	title := meta.Title
	if title == "" {
		base := filepath.Base(name)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	logger.Debug("rendered document", "title", title, "bytes", len(out))

	return &Document{
		Title: title,
		Date:  meta.Date,
		Tags:  meta.Tags,
		HTML:  out,
	}, nil
}

// RenderFile reads and renders the markdown file at path.
func (r *Renderer) RenderFile(ctx context.Context, path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r.Render(ctx, src, path)
}
