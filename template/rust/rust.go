// Package rust renders blocks back into Rust source text.
package rust

import (
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/template"
)

// New returns the Rust target-language template table.
func New() template.Language {
	return template.Language{
		Name:         "rust",
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
	block.KindEnum:        renderEnum,
	block.KindInterface:   renderTrait,
	block.KindTrait:       renderTrait,
	block.KindVariable:    renderVariable,
	block.KindImport:      renderUse,
	block.KindTypeDef:     renderTypeDef,
	block.KindModule:      renderModule,
	block.KindComment:     renderComment,
}

func renderFunction(b *block.Block) string {
	vis := ""
	if b.SemanticMetadata.Visibility == block.VisibilityPublic {
		vis = "pub "
	}
	params := template.ParamList(b.SemanticMetadata.Parameters, template.ParamColonType)
	sig := vis + "fn " + b.Identity.CanonicalName + "(" + params + ")"
	if ret := b.SemanticMetadata.ReturnType; ret != "" {
		sig += " -> " + ret
	}

	body, ok := template.Body(b)
	if !ok {
		body = "unimplemented!()"
	}
	return sig + " {\n" + template.Indent(body, "    ") + "\n}"
}

func renderStruct(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	vis := ""
	if b.SemanticMetadata.Visibility == block.VisibilityPublic {
		vis = "pub "
	}
	return vis + "struct " + b.Identity.CanonicalName + " {}"
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
	vis := ""
	if b.SemanticMetadata.Visibility == block.VisibilityPublic {
		vis = "pub "
	}
	return vis + "enum " + b.Identity.CanonicalName + " {}"
}

func renderModule(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "mod " + b.Identity.CanonicalName + " {}"
}

func renderVariable(b *block.Block) string {
	keyword := "let"
	for _, m := range b.SemanticMetadata.Modifiers {
		if m == "mut" {
			keyword = "let mut"
		}
	}
	if value, ok := template.Body(b); ok {
		return keyword + " " + b.Identity.CanonicalName + " = " + strings.TrimSpace(value) + ";"
	}
	return keyword + " " + b.Identity.CanonicalName + " = Default::default();"
}

func renderUse(b *block.Block) string {
	return "use " + b.Identity.CanonicalName + ";"
}

func renderTypeDef(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "type " + b.Identity.CanonicalName + " = ();"
}

func renderComment(b *block.Block) string {
	if body, ok := template.Body(b); ok {
		return body
	}
	return "// " + b.Identity.CanonicalName
}
