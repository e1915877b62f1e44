// Package python renders blocks back into Python source text.
package python

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the Python target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "python",
		Table:        table,
		CommentStyle: func(text string) string { return "# " + text },
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
	block.KindTypeDef:     renderTypeDef,
	block.KindComment:     renderComment,
}

func renderFunction(b *block.Block) string {
	prefix := ""
	for _, m := range b.SemanticMetadata.Modifiers {
		if m == "async" {
			prefix = "async "
		}
	}
	params := template.ParamList(b.SemanticMetadata.Parameters, template.ParamColonType)
	sig := prefix + "def " + b.Identity.CanonicalName + "(" + params + ")"
	if ret := b.SemanticMetadata.ReturnType; ret != "" {
		sig += " -> " + ret
	}
	sig += ":"

	body, ok := template.Body(b)
	if !ok {
		body = "pass"
	}
	return sig + "\n" + template.Indent(body, "    ")
}

func renderClass(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	header := "class " + b.Identity.CanonicalName
	if len(b.StructuralContext.InheritanceChain) > 0 {
		header += "(" + strings.Join(b.StructuralContext.InheritanceChain, ", ") + ")"
	}
	return header + ":\n    pass"
}

func renderVariable(b *block.Block) string {
	if value, ok := template.Body(b); ok {
		return b.Identity.CanonicalName + " = " + strings.TrimSpace(value)
	}
	return b.Identity.CanonicalName + " = None"
}

func renderImport(b *block.Block) string {
	return "import " + b.Identity.CanonicalName
}

func renderTypeDef(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return b.Identity.CanonicalName + " = object"
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "# " + b.Identity.CanonicalName
}
