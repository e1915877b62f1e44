// Package golang renders blocks back into Go source text.
package golang

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the Go target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "go",
		Table:        table,
		CommentStyle: func(text string) string { return "// " + text },
	}
}

var table = template.Table{
	block.KindFunction:    renderFunction,
	block.KindMethod:      renderFunction,
	block.KindConstructor: renderFunction,
	block.KindClass:       renderStruct,
	block.KindStruct:      renderStruct,
	block.KindInterface:   renderInterface,
	block.KindVariable:    renderVariable,
	block.KindImport:      renderImport,
	block.KindTypeDef:     renderTypeDef,
	block.KindComment:     renderComment,
}

func renderFunction(b *block.Block) string {
	params := template.ParamList(b.SemanticMetadata.Parameters, template.ParamTypedDeclarator)
	sig := "func " + b.Identity.CanonicalName + "(" + params + ")"
	if ret := b.SemanticMetadata.ReturnType; ret != "" {
		sig += " " + ret
	}

	body, ok := template.Body(b)
	if !ok {
		body = "\tpanic(\"not implemented\")"
	}
	return sig + " {\n" + body + "\n}"
}

func renderStruct(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "type " + b.Identity.CanonicalName + " struct {\n\t/* TODO */\n}"
}

func renderInterface(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "type " + b.Identity.CanonicalName + " interface {\n\t/* TODO */\n}"
}

func renderVariable(b *block.Block) string {
	if value, ok := template.Body(b); ok {
		return "var " + b.Identity.CanonicalName + " = " + strings.TrimSpace(value)
	}
	if t := typeAnnotation(b); t != "" {
		return "var " + b.Identity.CanonicalName + " " + t
	}
	return "var " + b.Identity.CanonicalName + " any"
}

func typeAnnotation(b *block.Block) string {
	if len(b.SemanticMetadata.TypeAnnotations) == 0 {
		return ""
	}
	return b.SemanticMetadata.TypeAnnotations[0].Name
}

func renderImport(b *block.Block) string {
	return `import "` + b.Identity.CanonicalName + `"`
}

func renderTypeDef(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "type " + b.Identity.CanonicalName + " any"
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "// " + b.Identity.CanonicalName
}
