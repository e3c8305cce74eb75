// Package markdown renders post content and derives editor metadata from it.
package markdown

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// engine leaves raw HTML out of the output and blanks javascript: and
// similar link targets; neither is switched on here.
var engine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(
		parser.WithASTTransformers(util.Prioritized(linkAttributes{}, 100)),
	),
)

// Component renders md as HTML.
func Component(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return Render(w, md)
	})
}

// Render writes the HTML form of md to w.
func Render(w io.Writer, md string) error {
	return engine.Convert([]byte(md), w)
}

// linkAttributes keeps outbound links from reaching back into the page and
// lets images load lazily.
type linkAttributes struct{}

func (linkAttributes) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindLink, ast.KindAutoLink:
			n.SetAttributeString("rel", []byte("noopener noreferrer"))
		case ast.KindImage:
			n.SetAttributeString("loading", []byte("lazy"))
		}
		return ast.WalkContinue, nil
	})
}
