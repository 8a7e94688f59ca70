// Package markdown analyses markdown bodies with goldmark without rendering
// them. Changes are expressed as byte-range edits so untouched text survives
// exactly as written.
package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Parse parses a markdown body (front matter already removed) into a goldmark
// AST together with its parser context.
func Parse(body []byte) (gmast.Node, parser.Context) {
	ctx := parser.NewContext()
	root := goldmark.New().Parser().Parse(text.NewReader(body), parser.WithContext(ctx))
	return root, ctx
}
