package markdown

import (
	"bytes"
	"context"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
	"github.com/ztaylor/codehl/internal/filter"
)

// codeBlockRenderer replaces goldmark's fenced code output with the
// filter's highlighted HTML.
type codeBlockRenderer struct {
	ctx    context.Context
	filter *filter.Filter
	theme  string
}

func (c *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, c.renderFencedCodeBlock)
}

func (c *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var lang string
	if l := n.Language(source); l != nil {
		lang = string(l)
	}

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	out := c.filter.Block(c.ctx, string(bytes.TrimRight(code.Bytes(), "\n")), lang, c.theme)
	_, _ = w.WriteString(out)
	_ = w.WriteByte('\n')

	return ast.WalkSkipChildren, nil
}
