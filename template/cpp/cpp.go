// Package cpp renders blocks back into C++ source text. C++ has no parser
// frontend (spec.md §9 Open Question 1: template-only support) -- this
// package only ever runs in the generate direction.
package cpp

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the C++ target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "cpp",
		Table:        table,
		CommentStyle: func(text string) string { return "// " + text },
	}
}

var table = template.Table{
	block.KindFunction:    renderFunction,
	block.KindMethod:      renderFunction,
	block.KindConstructor: renderFunction,
	block.KindClass:       renderClass,
	block.KindStruct:      renderClass,
	block.KindVariable:    renderVariable,
	block.KindImport:      renderInclude,
	block.KindTypeDef:     renderTypeDef,
	block.KindComment:     renderComment,
}

func renderFunction(b *block.Block) string {
	ret := b.SemanticMetadata.ReturnType
	if ret == "" {
		ret = "void"
	}
	params := template.ParamList(b.SemanticMetadata.Parameters, template.ParamTypedDeclarator)
	sig := ret + " " + b.Identity.CanonicalName + "(" + params + ")"

	body, ok := template.Body(b)
	if !ok {
		body = "throw std::runtime_error(\"not implemented\");"
	}
	return sig + " {\n" + template.Indent(body, "    ") + "\n}"
}

func renderClass(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	header := "class " + b.Identity.CanonicalName
	if len(b.StructuralContext.InheritanceChain) > 0 {
		bases := make([]string, len(b.StructuralContext.InheritanceChain))
		for i, base := range b.StructuralContext.InheritanceChain {
			bases[i] = "public " + base
		}
		header += " : " + strings.Join(bases, ", ")
	}
	return header + " {\n};"
}

func renderVariable(b *block.Block) string {
	t := typeAnnotation(b)
	if t == "" {
		t = "auto"
	}
	if value, ok := template.Body(b); ok {
		return t + " " + b.Identity.CanonicalName + " = " + strings.TrimSpace(value) + ";"
	}
	return t + " " + b.Identity.CanonicalName + "{};"
}

func typeAnnotation(b *block.Block) string {
	if len(b.SemanticMetadata.TypeAnnotations) == 0 {
		return ""
	}
	return b.SemanticMetadata.TypeAnnotations[0].Name
}

func renderInclude(b *block.Block) string {
	return "#include \"" + b.Identity.CanonicalName + "\""
}

func renderTypeDef(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "using " + b.Identity.CanonicalName + " = void;"
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "// " + b.Identity.CanonicalName
}
