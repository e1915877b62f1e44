// Package ruby renders blocks back into Ruby source text. Ruby has no
// parser frontend (spec.md §9 Open Question 1: template-only support) --
// this package only ever runs in the generate direction.
package ruby

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the Ruby target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "ruby",
		Table:        table,
		CommentStyle: func(text string) string { return "# " + text },
	}
}

var table = template.Table{
	block.KindFunction:    renderMethod,
	block.KindMethod:      renderMethod,
	block.KindConstructor: renderMethod,
	block.KindClass:       renderClass,
	block.KindVariable:    renderVariable,
	block.KindImport:      renderRequire,
	block.KindComment:     renderComment,
}

func renderMethod(b *block.Block) string {
	params := template.ParamList(b.SemanticMetadata.Parameters, template.ParamUntyped)
	sig := "def " + b.Identity.CanonicalName
	if params != "" {
		sig += "(" + params + ")"
	}

	body, ok := template.Body(b)
	if !ok {
		body = "raise NotImplementedError"
	}
	return sig + "\n" + template.Indent(body, "  ") + "\nend"
}

func renderClass(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	header := "class " + b.Identity.CanonicalName
	if len(b.StructuralContext.InheritanceChain) > 0 {
		header += " < " + b.StructuralContext.InheritanceChain[0]
	}
	return header + "\nend"
}

func renderVariable(b *block.Block) string {
	if value, ok := template.Body(b); ok {
		return b.Identity.CanonicalName + " = " + strings.TrimSpace(value)
	}
	return b.Identity.CanonicalName + " = nil"
}

func renderRequire(b *block.Block) string {
	return "require \"" + b.Identity.CanonicalName + "\""
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "# " + b.Identity.CanonicalName
}
