// Package languages wires every concrete template.Language this module
// ships into a template.Engine. It is kept separate from package template
// itself because each per-language package imports template (for the
// Language and Table types) -- template importing them back would be a
// cycle, the same reasoning as parser/frontends.
package languages

import (
	"github.com/oxhq/codegraph/template"
	"github.com/oxhq/codegraph/template/csharp"
	"github.com/oxhq/codegraph/template/cpp"
	"github.com/oxhq/codegraph/template/golang"
	"github.com/oxhq/codegraph/template/java"
	"github.com/oxhq/codegraph/template/javascript"
	"github.com/oxhq/codegraph/template/php"
	"github.com/oxhq/codegraph/template/python"
	"github.com/oxhq/codegraph/template/ruby"
	"github.com/oxhq/codegraph/template/rust"
	"github.com/oxhq/codegraph/template/typescript"
)

// NewDefaultEngine builds an Engine with a template table for every
// language the spec names, including the template-only ones (Java, C#,
// C++, Ruby) that have no parser.Frontend.
func NewDefaultEngine() *template.Engine {
	e := template.NewEngine()
	e.Register(golang.New())
	e.Register(python.New())
	e.Register(javascript.New())
	e.Register(typescript.New())
	e.Register(php.New())
	e.Register(rust.New())
	e.Register(java.New())
	e.Register(csharp.New())
	e.Register(cpp.New())
	e.Register(ruby.New())
	return e
}
