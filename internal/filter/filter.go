// Package filter turns one JSON highlight request into HTML. Whatever goes
// wrong, the caller gets renderable markup: either the engine's output or
// the raw input escaped inside <pre><code>.
package filter

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ztaylor/codehl/internal/highlight"
	"github.com/ztaylor/codehl/internal/logger"
)

// Filter runs requests through a highlighting engine.
type Filter struct {
	engine      highlight.Engine
	defaultLang string
	timeout     time.Duration
}

// Option configures a Filter.
type Option func(*Filter)

// WithDefaultLanguage overrides the language used for missing or falsy lang.
func WithDefaultLanguage(lang string) Option {
	return func(f *Filter) {
		if lang != "" {
			f.defaultLang = lang
		}
	}
}

// WithTimeout bounds each engine call. Zero waits forever.
func WithTimeout(d time.Duration) Option {
	return func(f *Filter) { f.timeout = d }
}

// New creates a filter backed by engine.
func New(engine highlight.Engine, opts ...Option) *Filter {
	f := &Filter{
		engine:      engine,
		defaultLang: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run reads r to the end, renders it, and writes the HTML to w in a single
// write. The only error returned is a failure to write; render failures
// are absorbed into the fallback output.
func (f *Filter) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	raw, readErr := io.ReadAll(r)

	var html string
	var err error
	if readErr != nil {
		html, err = Fallback(raw), fmt.Errorf("read input: %w", readErr)
	} else {
		html, err = f.Render(ctx, raw)
	}

	if err != nil {
		logger.Warn("highlight fell back to plain output", "error", err, "bytes", len(raw))
	}

	if _, werr := io.WriteString(w, html); werr != nil {
		return fmt.Errorf("write output: %w", werr)
	}
	return nil
}

// Render returns the HTML for a raw request. On failure the HTML is the
// escaped raw input and err says why; the HTML is always usable.
func (f *Filter) Render(ctx context.Context, raw []byte) (string, error) {
	req, err := decodeRequest(raw, f.defaultLang)
	if err != nil {
		return Fallback(raw), err
	}

	html, err := f.highlight(ctx, req.Code, req.Lang, req.Theme)
	if err != nil {
		return Fallback(raw), err
	}

	logger.Debug("highlighted", "lang", req.Lang, "theme", req.Theme, "bytes", len(req.Code))
	return html, nil
}

// Block highlights a single code block for a page renderer. Its fallback
// escapes the code itself, since there is no raw payload to show.
func (f *Filter) Block(ctx context.Context, code, lang, theme string) string {
	if lang == "" {
		lang = f.defaultLang
	}

	html, err := f.highlight(ctx, code, lang, theme)
	if err != nil {
		logger.Warn("code block fell back to plain output", "lang", lang, "error", err)
		return wrap(Escape(code))
	}
	return html
}

func (f *Filter) highlight(ctx context.Context, code, lang, theme string) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			html, err = "", fmt.Errorf("engine panicked: %v", r)
		}
	}()

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	return f.engine.Highlight(ctx, code, highlight.Options{Lang: lang, Theme: theme})
}

// Escape replaces &, < and > with their entities, in that order, once.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// Fallback renders the raw input as an escaped plain code block.
func Fallback(raw []byte) string {
	return wrap(Escape(string(raw)))
}

func wrap(escaped string) string {
	return "<pre><code>" + escaped + "</code></pre>"
}
