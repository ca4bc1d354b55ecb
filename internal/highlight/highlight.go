// Package highlight renders source code to HTML with chroma.
package highlight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/ztaylor/codehl/internal/theme"
)

// ErrUnknownLanguage is returned when no lexer matches the requested language.
var ErrUnknownLanguage = errors.New("unknown language")

// ErrUnknownTheme is returned when the requested theme cannot be resolved.
var ErrUnknownTheme = theme.ErrUnknownTheme

// PlainText is the language that bypasses tokenizing rules.
const PlainText = "text"

// Options selects the language and theme for one highlight call.
type Options struct {
	Lang  string
	Theme string
}

// Engine turns code into highlighted HTML.
type Engine interface {
	Highlight(ctx context.Context, code string, opts Options) (string, error)
}

// Highlighter is the chroma-backed Engine.
type Highlighter struct {
	defaultTheme string
	withClasses  bool
	lineNumbers  bool
	tabWidth     int
	cacheSize    int

	formatter *html.Formatter
	cache     *Cache
}

// Option configures a Highlighter.
type Option func(*Highlighter)

// WithDefaultTheme sets the theme used when a call passes none.
func WithDefaultTheme(name string) Option {
	return func(h *Highlighter) { h.defaultTheme = name }
}

// WithClasses emits CSS classes instead of inline styles.
func WithClasses(b bool) Option {
	return func(h *Highlighter) { h.withClasses = b }
}

// WithLineNumbers prefixes each line with its number.
func WithLineNumbers(b bool) Option {
	return func(h *Highlighter) { h.lineNumbers = b }
}

// WithTabWidth sets the rendered tab width.
func WithTabWidth(n int) Option {
	return func(h *Highlighter) { h.tabWidth = n }
}

// WithCacheSize sets the number of results kept in the LRU cache.
func WithCacheSize(n int) Option {
	return func(h *Highlighter) { h.cacheSize = n }
}

// New creates a new highlighter
func New(opts ...Option) *Highlighter {
	h := &Highlighter{
		defaultTheme: "gruvbox",
		tabWidth:     4,
		cacheSize:    100,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.formatter = html.New(h.formatterOptions(h.withClasses)...)
	h.cache = NewCache(h.cacheSize)
	return h
}

func (h *Highlighter) formatterOptions(classes bool) []html.Option {
	return []html.Option{
		html.WithClasses(classes),
		html.WithLineNumbers(h.lineNumbers),
		html.TabWidth(h.tabWidth),
	}
}

// Highlight renders code as HTML. It blocks until formatting finishes or
// ctx is done, whichever comes first.
func (h *Highlighter) Highlight(ctx context.Context, code string, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lexer, err := Lexer(opts.Lang)
	if err != nil {
		return "", err
	}
	style, err := h.style(opts.Theme)
	if err != nil {
		return "", err
	}

	key := cacheKey(lexer.Config().Name, style.Name, code)
	if cached, ok := h.cache.Get(key); ok {
		return cached, nil
	}

	var out string
	if ctx.Done() == nil {
		out, err = h.safeFormat(lexer, style, code)
	} else {
		out, err = h.formatWithContext(ctx, lexer, style, code)
	}
	if err != nil {
		return "", err
	}

	h.cache.Set(key, out)
	return out, nil
}

type formatResult struct {
	html string
	err  error
}

func (h *Highlighter) formatWithContext(ctx context.Context, lexer chroma.Lexer, style *chroma.Style, code string) (string, error) {
	done := make(chan formatResult, 1)
	go func() {
		out, err := h.safeFormat(lexer, style, code)
		done <- formatResult{html: out, err: err}
	}()

	select {
	case r := <-done:
		return r.html, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// safeFormat converts a panic inside a lexer or the formatter into an error.
func (h *Highlighter) safeFormat(lexer chroma.Lexer, style *chroma.Style, code string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("highlight panicked: %v", r)
		}
	}()

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenise %s: %w", lexer.Config().Name, err)
	}

	var sb strings.Builder
	if err := h.formatter.Format(&sb, style, iterator); err != nil {
		return "", fmt.Errorf("format: %w", err)
	}
	return sb.String(), nil
}

func (h *Highlighter) style(name string) (*chroma.Style, error) {
	if strings.TrimSpace(name) == "" {
		name = h.defaultTheme
	}
	return theme.Resolve(name)
}

// Lexer returns the lexer for a language name or alias. Empty and "text"
// select plain text.
func Lexer(lang string) (chroma.Lexer, error) {
	name := strings.ToLower(strings.TrimSpace(lang))
	if name == "" || name == PlainText {
		name = "plaintext"
	}

	lexer := lexers.Get(name)
	if lexer == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return chroma.Coalesce(lexer), nil
}

// Languages returns the sorted names of all known lexers.
func Languages() []string {
	return lexers.Names(false)
}

// WriteCSS writes the stylesheet matching class-based output for the
// named theme, or the default theme when name is empty.
func (h *Highlighter) WriteCSS(w io.Writer, name string) error {
	style, err := h.style(name)
	if err != nil {
		return err
	}
	return html.New(h.formatterOptions(true)...).WriteCSS(w, style)
}
