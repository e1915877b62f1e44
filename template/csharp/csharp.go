// Package csharp renders blocks back into C# source text. C# has no
// parser frontend (spec.md §9 Open Question 1: template-only support) --
// this package only ever runs in the generate direction.
package csharp

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the C# target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "csharp",
		Table:        table,
		CommentStyle: func(text string) string { return "// " + text },
	}
}

var table = template.Table{
	block.KindFunction:    renderMethod,
	block.KindMethod:      renderMethod,
	block.KindConstructor: renderMethod,
	block.KindClass:       renderClass,
	block.KindInterface:   renderInterface,
	block.KindEnum:        renderEnum,
	block.KindNamespace:   renderNamespace,
	block.KindVariable:    renderField,
	block.KindImport:      renderUsing,
	block.KindComment:     renderComment,
}

var visibilityKeyword = map[block.Visibility]string{
	block.VisibilityPublic:    "public",
	block.VisibilityPrivate:   "private",
	block.VisibilityProtected: "protected",
	block.VisibilityInternal:  "internal",
}

func renderMethod(b *block.Block) string {
	vis := visibilityKeyword[b.SemanticMetadata.Visibility]
	if vis == "" {
		vis = "public"
	}
	ret := b.SemanticMetadata.ReturnType
	if ret == "" {
		ret = "void"
	}
	params := template.ParamList(b.SemanticMetadata.Parameters, template.ParamTypedDeclarator)
	sig := vis + " " + ret + " " + b.Identity.CanonicalName + "(" + params + ")"

	body, ok := template.Body(b)
	if !ok {
		body = "throw new NotImplementedException();"
	}
	return sig + "\n{\n" + template.Indent(body, "    ") + "\n}"
}

func renderClass(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	bases := append(append([]string{}, b.StructuralContext.InheritanceChain...), b.StructuralContext.Implements...)
	header := "public class " + b.Identity.CanonicalName
	if len(bases) > 0 {
		header += " : " + strings.Join(bases, ", ")
	}
	return header + "\n{\n}"
}

func renderInterface(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "public interface " + b.Identity.CanonicalName + "\n{\n}"
}

func renderEnum(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "public enum " + b.Identity.CanonicalName + "\n{\n}"
}

func renderNamespace(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "namespace " + b.Identity.CanonicalName + "\n{\n}"
}

func renderField(b *block.Block) string {
	vis := visibilityKeyword[b.SemanticMetadata.Visibility]
	if vis == "" {
		vis = "private"
	}
	t := typeAnnotation(b)
	if t == "" {
		t = "object"
	}
	if value, ok := template.Body(b); ok {
		return vis + " " + t + " " + b.Identity.CanonicalName + " = " + strings.TrimSpace(value) + ";"
	}
	return vis + " " + t + " " + b.Identity.CanonicalName + ";"
}

func typeAnnotation(b *block.Block) string {
	if len(b.SemanticMetadata.TypeAnnotations) == 0 {
		return ""
	}
	return b.SemanticMetadata.TypeAnnotations[0].Name
}

func renderUsing(b *block.Block) string {
	return "using " + b.Identity.CanonicalName + ";"
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "// " + b.Identity.CanonicalName
}
