// Package template renders a single block into target-language source
// text using fixed, per-language, per-block-kind templates. Rendering is
// pure (no I/O) and deterministic, grounded stylistically on
// providers/golang/config.go's string-assembly helpers but generating
// whole-block text instead of patching existing source.
package template

import (
	"fmt"
	"strings"

	"github.com/oxhq/codegraph/block"
)

// RenderFunc produces a block's target-language text. It returns no error:
// when a RenderFunc returns the empty string, Engine.Render falls back to
// the language's comment stub, which is never empty.
type RenderFunc func(b *block.Block) string

// Table maps a block kind to the render function for one target language.
// A Table need not cover every block.Kind -- Engine.Render falls back to a
// language-appropriate comment stub for kinds the table omits, per
// spec.md §4.5: "Unknown block kinds are rendered as a comment containing
// the kind name rather than failing."
type Table map[block.Kind]RenderFunc

// Language bundles one target language's template table with the comment
// syntax used for structural-default stubs.
type Language struct {
	Name         string
	Table        Table
	CommentStyle func(text string) string
}

// Engine resolves (language, block kind) pairs to rendered text across
// every registered target language.
type Engine struct {
	languages map[string]Language
}

// NewEngine creates an empty template engine.
func NewEngine() *Engine {
	return &Engine{languages: make(map[string]Language)}
}

// Register adds one target language's template table.
func (e *Engine) Register(lang Language) {
	e.languages[lang.Name] = lang
}

// Registered reports whether language has a template table.
func (e *Engine) Registered(language string) bool {
	_, ok := e.languages[language]
	return ok
}

// Languages returns every registered target language name.
func (e *Engine) Languages() []string {
	names := make([]string, 0, len(e.languages))
	for name := range e.languages {
		names = append(names, name)
	}
	return names
}

// Render produces b's text in the given target language. ok is false only
// when language itself is not registered; an unregistered block kind
// within a known language still renders (as a comment stub), matching
// spec.md §4.5's "never fail on an unknown kind" contract.
func (e *Engine) Render(language string, b *block.Block) (text string, ok bool) {
	lang, known := e.languages[language]
	if !known {
		return "", false
	}
	if fn, found := lang.Table[b.Kind]; found {
		if rendered := fn(b); rendered != "" {
			return rendered, true
		}
	}
	return lang.CommentStyle(string(b.Kind) + ": " + b.Identity.CanonicalName), true
}

// Body returns the block's preserved original text (tier 1: "preserved
// implementation"), stripped of its recorded original indentation so the
// caller can re-indent it at the target nesting level. ok is false when no
// original text was captured, signalling the caller should fall through to
// tier 2 (semantic fields) or tier 3 (structural default).
func Body(b *block.Block) (text string, ok bool) {
	original := b.SyntaxPreservation.OriginalText
	if original == "" {
		return "", false
	}
	indent := b.SyntaxPreservation.Formatting.Indentation
	if indent == "" {
		return original, true
	}
	lines := strings.Split(original, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, indent)
	}
	return strings.Join(lines, "\n"), true
}

// ParamStyle selects how a parameter list renders its type annotations,
// grounded on spec.md §4.5's per-language annotation-style table.
type ParamStyle int

const (
	// ParamColonType renders "name: Type" (Python, TypeScript, Rust).
	ParamColonType ParamStyle = iota
	// ParamTypedDeclarator renders "Type name" (Java, C#, C++, Go).
	ParamTypedDeclarator
	// ParamUntyped renders "name" only (JavaScript, Ruby, PHP).
	ParamUntyped
)

// ParamList joins a block's parameters per the given style. An empty
// TypeAnnotation on a typed style falls back to untyped rendering for that
// one parameter rather than emitting a dangling annotation.
func ParamList(params []block.Parameter, style ParamStyle) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		switch {
		case style == ParamColonType && p.TypeAnnotation != "":
			parts = append(parts, p.Name+": "+p.TypeAnnotation)
		case style == ParamTypedDeclarator && p.TypeAnnotation != "":
			parts = append(parts, p.TypeAnnotation+" "+p.Name)
		default:
			parts = append(parts, p.Name)
		}
		if p.DefaultValue != "" {
			parts[len(parts)-1] += " = " + p.DefaultValue
		}
	}
	return strings.Join(parts, ", ")
}

// VisibilityKeyword maps a block's visibility to the keyword a language
// uses for it, or "" for languages/visibilities with no keyword (an empty
// return means "omit the modifier", not "private").
func VisibilityKeyword(v block.Visibility, table map[block.Visibility]string) string {
	return table[v]
}

// JoinModifiers renders a block's modifiers as a space-separated,
// trailing-space-terminated token list ready to prefix onto a signature,
// or "" if there are none.
func JoinModifiers(modifiers []block.Modifier) string {
	if len(modifiers) == 0 {
		return ""
	}
	tokens := make([]string, len(modifiers))
	for i, m := range modifiers {
		tokens[i] = string(m)
	}
	return strings.Join(tokens, " ") + " "
}

// Indent prefixes every non-empty line of text with indent.
func Indent(text, indent string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

// LineComment builds a // or # style single-line comment from a marker and
// its text.
func LineComment(marker, text string) string {
	return fmt.Sprintf("%s %s", marker, text)
}

// BlockComment builds a /* ... */ style comment.
func BlockComment(open, close, text string) string {
	return fmt.Sprintf("%s %s %s", open, text, close)
}
