// Package typescript renders blocks back into TypeScript source text.
package typescript

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the TypeScript target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "typescript",
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
	block.KindInterface:   renderInterface,
	block.KindVariable:    renderVariable,
	block.KindImport:      renderImport,
	block.KindTypeDef:     renderTypeDef,
	block.KindEnum:        renderEnum,
	block.KindNamespace:   renderNamespace,
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
	sig := prefix + "function " + b.Identity.CanonicalName + "(" + params + ")"
	if ret := b.SemanticMetadata.ReturnType; ret != "" {
		sig += ": " + ret
	}

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
	if len(b.StructuralContext.Implements) > 0 {
		header += " implements " + strings.Join(b.StructuralContext.Implements, ", ")
	}
	return header + " {}"
}

func renderInterface(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "interface " + b.Identity.CanonicalName + " {}"
}

func renderVariable(b *block.Block) string {
	keyword := "const"
	for _, m := range b.SemanticMetadata.Modifiers {
		if m == "let" {
			keyword = "let"
		}
	}
	t := typeAnnotation(b)
	if value, ok := template.Body(b); ok {
		decl := keyword + " " + b.Identity.CanonicalName
		if t != "" {
			decl += ": " + t
		}
		return decl + " = " + strings.TrimSpace(value) + ";"
	}
	if t != "" {
		return keyword + " " + b.Identity.CanonicalName + ": " + t + ";"
	}
	return keyword + " " + b.Identity.CanonicalName + ": unknown;"
}

func typeAnnotation(b *block.Block) string {
	if len(b.SemanticMetadata.TypeAnnotations) == 0 {
		return ""
	}
	return b.SemanticMetadata.TypeAnnotations[0].Name
}

func renderImport(b *block.Block) string {
	return "import { " + b.Identity.CanonicalName + " } from \"" + b.Identity.FullyQualifiedName + "\";"
}

func renderTypeDef(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "type " + b.Identity.CanonicalName + " = unknown;"
}

func renderEnum(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "enum " + b.Identity.CanonicalName + " {}"
}

func renderNamespace(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "namespace " + b.Identity.CanonicalName + " {}"
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "// " + b.Identity.CanonicalName
}
