// Package javascript renders blocks back into JavaScript source text.
package javascript

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the JavaScript target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "javascript",
		Table:        table,
		CommentStyle: func(text string) string { return "// " + text },
	}
}

var table = template.Table{
	block.KindFunction:    renderFunction,
	block.KindMethod:      renderFunction,
	block.KindConstructor: renderFunction,
	block.KindLambda:      renderFunction,
	block.KindClass:       renderClass,
	block.KindVariable:    renderVariable,
	block.KindImport:      renderImport,
	block.KindComment:     renderComment,
}

func renderFunction(b *block.Block) string {
	prefix := ""
	for _, m := range b.SemanticMetadata.Modifiers {
		if m == "async" {
			prefix = "async "
		}
	}
	params := template.ParamList(b.SemanticMetadata.Parameters, template.ParamUntyped)
	sig := prefix + "function " + b.Identity.CanonicalName + "(" + params + ")"

	body, ok := template.Body(b)
	if !ok {
		body = "throw new Error(\"not implemented\");"
	}
	return sig + " {\n" + template.Indent(body, "  ") + "\n}"
}

func renderClass(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	header := "class " + b.Identity.CanonicalName
	if len(b.StructuralContext.InheritanceChain) > 0 {
		header += " extends " + b.StructuralContext.InheritanceChain[0]
	}
	return header + " {}"
}

func renderVariable(b *block.Block) string {
	keyword := "const"
	for _, m := range b.SemanticMetadata.Modifiers {
		if m == "let" {
			keyword = "let"
		}
	}
	if value, ok := template.Body(b); ok {
		return keyword + " " + b.Identity.CanonicalName + " = " + strings.TrimSpace(value) + ";"
	}
	return keyword + " " + b.Identity.CanonicalName + " = undefined;"
}

func renderImport(b *block.Block) string {
	return "import { " + b.Identity.CanonicalName + " } from \"" + b.Identity.FullyQualifiedName + "\";"
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "// " + b.Identity.CanonicalName
}
