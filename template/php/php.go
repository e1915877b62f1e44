// Package php renders blocks back into PHP source text.
package php

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the PHP target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "php",
		Table:        table,
		CommentStyle: func(text string) string { return "// " + text },
	}
}

var table = template.Table{
	block.KindFunction:    renderFunction,
	block.KindMethod:      renderFunction,
	block.KindConstructor: renderFunction,
	block.KindClass:       renderClass,
	block.KindTrait:       renderTrait,
	block.KindEnum:        renderEnum,
	block.KindInterface:   renderInterface,
	block.KindVariable:    renderVariable,
	block.KindImport:      renderImport,
	block.KindNamespace:   renderNamespace,
	block.KindComment:     renderComment,
}

var visibilityKeyword = map[block.Visibility]string{
	block.VisibilityPublic:    "public",
	block.VisibilityPrivate:   "private",
	block.VisibilityProtected: "protected",
}

func renderFunction(b *block.Block) string {
	vis := visibilityKeyword[b.SemanticMetadata.Visibility]
	if vis == "" {
		vis = "public"
	}
	params := template.ParamList(b.SemanticMetadata.Parameters, template.ParamUntyped)
	sig := vis + " function " + b.Identity.CanonicalName + "(" + params + ")"

	body, ok := template.Body(b)
	if !ok {
		body = "throw new \\Exception(\"not implemented\");"
	}
	return sig + " {\n" + template.Indent(body, "    ") + "\n}"
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

func renderTrait(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "trait " + b.Identity.CanonicalName + " {}"
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
	return "namespace " + b.Identity.CanonicalName + ";"
}

func renderVariable(b *block.Block) string {
	if value, ok := template.Body(b); ok {
		return "$" + b.Identity.CanonicalName + " = " + strings.TrimSpace(value) + ";"
	}
	return "$" + b.Identity.CanonicalName + " = null;"
}

func renderImport(b *block.Block) string {
	return "use " + b.Identity.CanonicalName + ";"
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "// " + b.Identity.CanonicalName
}
