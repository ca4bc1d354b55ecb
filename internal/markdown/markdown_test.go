package markdown

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ztaylor/codehl/internal/filter"
	"github.com/ztaylor/codehl/internal/highlight"
)

// stubEngine marks its output so tests can tell highlighted blocks apart.
type stubEngine struct {
	err   error
	calls []highlight.Options
	codes []string
}

func (s *stubEngine) Highlight(_ context.Context, code string, opts highlight.Options) (string, error) {
	s.calls = append(s.calls, opts)
	s.codes = append(s.codes, code)
	if s.err != nil {
		return "", s.err
	}
	return `<pre class="stub" data-lang="` + opts.Lang + `" data-theme="` + opts.Theme + `">` + filter.Escape(code) + `</pre>`, nil
}

func newTestRenderer(engine highlight.Engine) *Renderer {
	return NewRenderer(filter.New(engine), "gruvbox-dark-soft")
}

func TestConvertHighlightsFencedBlocks(t *testing.T) {
	engine := &stubEngine{}
	r := newTestRenderer(engine)

	src := "# Title\n\nSome text.\n\n```go\nfunc main() {}\n\n```\n\n```\nplain\n```\n"
	out, err := r.Convert(context.Background(), []byte(src))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if len(engine.calls) != 2 {
		t.Fatalf("engine called %d times, want 2", len(engine.calls))
	}
	if engine.calls[0].Lang != "go" || engine.calls[1].Lang != "text" {
		t.Errorf("langs = %+v", engine.calls)
	}
	if engine.calls[0].Theme != "gruvbox-dark-soft" {
		t.Errorf("theme = %q", engine.calls[0].Theme)
	}
	if engine.codes[0] != "func main() {}" {
		t.Errorf("trailing newlines should be trimmed, got %q", engine.codes[0])
	}
	if !strings.Contains(out, `<pre class="stub" data-lang="go"`) {
		t.Errorf("highlighted block missing: %s", out)
	}
	if strings.Contains(out, `class="language-go"`) {
		t.Errorf("default fenced renderer should be replaced: %s", out)
	}
	if !strings.Contains(out, `<h1 id="title">Title</h1>`) {
		t.Errorf("heading ids expected: %s", out)
	}
}

func TestConvertBlockFallbackEscapesCode(t *testing.T) {
	r := newTestRenderer(&stubEngine{err: errors.New("engine down")})

	out, err := r.Convert(context.Background(), []byte("```html\n<b>&</b>\n```\n"))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if !strings.Contains(out, "<pre><code>&lt;b&gt;&amp;&lt;/b&gt;</code></pre>") {
		t.Errorf("expected escaped fallback block, got: %s", out)
	}
}

func TestConvertPassesRawHTMLAndTables(t *testing.T) {
	r := newTestRenderer(&stubEngine{})

	src := "<div class=\"hero\">hi</div>\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	out, err := r.Convert(context.Background(), []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<div class="hero">hi</div>`) {
		t.Errorf("raw html should pass through: %s", out)
	}
	if !strings.Contains(out, "<table>") {
		t.Errorf("tables expected: %s", out)
	}
}

func TestConvertAlerts(t *testing.T) {
	r := newTestRenderer(&stubEngine{})

	src := "Intro\n> [!WARNING]\n> Do **not** run this.\n\nAfter\n"
	out, err := r.Convert(context.Background(), []byte(src))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out, `<div class="admonition warning">`) {
		t.Errorf("admonition div expected: %s", out)
	}
	if !strings.Contains(out, `<p class="admonition-title">Warning</p>`) {
		t.Errorf("admonition title expected: %s", out)
	}
	if !strings.Contains(out, "<strong>not</strong>") {
		t.Errorf("alert body should be markdown: %s", out)
	}
	if strings.Contains(out, "<blockquote>") {
		t.Errorf("alert should not remain a blockquote: %s", out)
	}
}

func TestReplaceAlertsIgnoresFences(t *testing.T) {
	src := "```md\n> [!note]\n> inside\n```\n"
	if got := string(ReplaceAlerts([]byte(src))); got != src {
		t.Errorf("fenced content changed:\n%s", got)
	}
}

func TestReplaceAlertsLeavesPlainQuotes(t *testing.T) {
	src := "> just a quote\n> [!unknown]\n"
	if got := string(ReplaceAlerts([]byte(src))); got != src {
		t.Errorf("plain quote changed:\n%s", got)
	}
}

func TestRenderFrontmatter(t *testing.T) {
	engine := &stubEngine{}
	r := newTestRenderer(engine)

	src := "---\ntitle: Building a Pixel Engine\ndate: \"2025-03-01\"\ntags: [go, graphics]\ntheme: nord\n---\n```c\nint x;\n```\n"
	doc, err := r.Render(context.Background(), []byte(src), "static/md/pixel-engine.md")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if doc.Title != "Building a Pixel Engine" {
		t.Errorf("Title = %q", doc.Title)
	}
	if doc.Date != "2025-03-01" {
		t.Errorf("Date = %q", doc.Date)
	}
	if len(doc.Tags) != 2 || doc.Tags[0] != "go" {
		t.Errorf("Tags = %v", doc.Tags)
	}
	if engine.calls[0].Theme != "nord" {
		t.Errorf("frontmatter theme should override, got %q", engine.calls[0].Theme)
	}
	if strings.Contains(doc.HTML, "title:") {
		t.Errorf("frontmatter leaked into html: %s", doc.HTML)
	}
}

func TestRenderTitleFromFilename(t *testing.T) {
	r := newTestRenderer(&stubEngine{})

	doc, err := r.Render(context.Background(), []byte("hello\n"), "static/md/my devlog.md")
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "my devlog" {
		t.Errorf("Title = %q, want %q", doc.Title, "my devlog")
	}
}

func TestRenderMalformedFrontmatter(t *testing.T) {
	r := newTestRenderer(&stubEngine{})

	if _, err := r.Render(context.Background(), []byte("---\ntitle: [oops\n---\nbody\n"), "x.md"); err == nil {
		t.Error("expected yaml error")
	}
	if _, err := r.Render(context.Background(), []byte("---\ntitle: never closed\n"), "x.md"); err == nil {
		t.Error("expected unterminated frontmatter error")
	}
}

func TestRenderFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(path, []byte("```go\nx := 1\n```\n"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRenderer(filter.New(highlight.New()), "nord")
	doc, err := r.RenderFile(context.Background(), path)
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	if doc.Title != "notes" {
		t.Errorf("Title = %q", doc.Title)
	}
	if !strings.Contains(doc.HTML, "<pre") || strings.Contains(doc.HTML, "<pre><code>x") {
		t.Errorf("expected chroma output, got: %s", doc.HTML)
	}

	if _, err := r.RenderFile(context.Background(), filepath.Join(dir, "missing.md")); err == nil {
		t.Error("expected error for missing file")
	}
}
