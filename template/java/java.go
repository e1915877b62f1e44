// Package java renders blocks back into Java source text. Java has no
// parser frontend (spec.md §9 Open Question 1: template-only support) --
// this package only ever runs in the generate direction.
package java

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the Java target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "java",
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
	block.KindVariable:    renderField,
	block.KindImport:      renderImport,
	block.KindComment:     renderComment,
}

var visibilityKeyword = map[block.Visibility]string{
	block.VisibilityPublic:    "public",
	block.VisibilityPrivate:   "private",
	block.VisibilityProtected: "protected",
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
		body = "throw new UnsupportedOperationException(\"not implemented\");"
	}
	return sig + " {\n" + template.Indent(body, "    ") + "\n}"
}

func renderClass(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	header := "public class " + b.Identity.CanonicalName
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
	return "public interface " + b.Identity.CanonicalName + " {}"
}

func renderEnum(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "public enum " + b.Identity.CanonicalName + " {}"
}

func renderField(b *block.Block) string {
	vis := visibilityKeyword[b.SemanticMetadata.Visibility]
	if vis == "" {
		vis = "private"
	}
	t := typeAnnotation(b)
	if t == "" {
		t = "Object"
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

func renderImport(b *block.Block) string {
	return "import " + b.Identity.CanonicalName + ";"
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "// " + b.Identity.CanonicalName
}
