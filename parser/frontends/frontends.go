// Package frontends wires every concrete parser.Frontend this module ships
// into a parser.Registry. It is kept separate from package parser itself
// because each language package imports parser (for the Frontend and
// ParseResult types) -- parser importing them back would be a cycle.
package frontends

import (
	"github.com/oxhq/codegraph/parser"
	"github.com/oxhq/codegraph/parser/golang"
	"github.com/oxhq/codegraph/parser/javascript"
	"github.com/oxhq/codegraph/parser/php"
	"github.com/oxhq/codegraph/parser/python"
	"github.com/oxhq/codegraph/parser/rust"
	"github.com/oxhq/codegraph/parser/typescript"
)

// NewDefaultRegistry builds a Registry with every tree-sitter-backed and
// line-scanning frontend registered under its language name and file
// extensions. Java, C#, C++, and Ruby have no Frontend (spec.md §9 Open
// Question 1: template-only support) and are never registered here --
// ForPath/Get simply miss for those languages.
func NewDefaultRegistry() *parser.Registry {
	r := parser.NewRegistry()
	r.Register(golang.New())
	r.Register(python.New())
	r.Register(javascript.New())
	r.Register(typescript.New())
	r.Register(php.New())
	r.Register(rust.New())
	return r
}
