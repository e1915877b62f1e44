// Package rust implements a reduced-fidelity parser.Frontend for Rust.
// Unlike the tree-sitter-backed frontends, this one is a line-oriented
// scanner: the example corpus's go-tree-sitter vendor tree carries
// grammar subpackages for Go, Python, JavaScript, TypeScript, and PHP
// only, with no Rust grammar binding available to adopt (see DESIGN.md).
// It recognizes Rust's brace-delimited top-level items (fn, struct,
// enum, impl, trait, mod) and semicolon-terminated ones (use, const,
// static) by matching the same item keywords original_source/rust.rs
// recognized via tree-sitter node kinds, just against source text
// instead of a syntax tree.
package rust

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/extract"
	"github.com/oxhq/codegraph/parser"
)

// Frontend is the Rust line-scanning parser.
type Frontend struct{}

// New returns a ready-to-use Rust frontend.
func New() parser.Frontend {
	return &Frontend{}
}

func (f *Frontend) Language() string     { return "rust" }
func (f *Frontend) Extensions() []string { return []string{".rs"} }

// Parse scans source for Rust item declarations and returns the blocks
// found. Because this frontend has no real grammar, it never reports a
// syntax error -- Parse only fails if the extraction stack ends up
// unbalanced, which line scanning by construction cannot produce.
func (f *Frontend) Parse(path, source string) (parser.ParseResult, error) {
	ctx := extract.New()
	scanRange(source, 0, len(source), false, ctx)

	result, err := ctx.Finish()
	if err != nil {
		return parser.ParseResult{}, fmt.Errorf("rust: extract %s: %w", path, err)
	}
	return parser.ParseResult{Blocks: result.Blocks, Relationships: result.Relationships}, nil
}

var itemPatterns = []struct {
	kind    block.Kind
	re      *regexp.Regexp
	nested  bool
	statement bool
}{
	{block.KindFunction, regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?(?:unsafe\s+)?(?:extern\s+"[^"]*"\s+)?fn\s+([A-Za-z_][A-Za-z0-9_]*)`), true, false},
	{block.KindStruct, regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?struct\s+([A-Za-z_][A-Za-z0-9_]*)`), false, false},
	{block.KindEnum, regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?enum\s+([A-Za-z_][A-Za-z0-9_]*)`), false, false},
	{block.KindTrait, regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?trait\s+([A-Za-z_][A-Za-z0-9_]*)`), true, false},
	{block.KindMacro, regexp.MustCompile(`^macro_rules!\s+([A-Za-z_][A-Za-z0-9_]*)`), false, false},
	{block.KindModule, regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?mod\s+([A-Za-z_][A-Za-z0-9_]*)`), true, false},
	{block.KindImport, regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?use\s+`), false, true},
	{block.KindVariable, regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?const\s+([A-Za-z_][A-Za-z0-9_]*)\s*:`), false, true},
	{block.KindVariable, regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?static\s+(?:mut\s+)?([A-Za-z_][A-Za-z0-9_]*)\s*:`), false, true},
}

var implRe = regexp.MustCompile(`^impl(?:<[^>]*>)?\s+(?:([A-Za-z_][A-Za-z0-9_:<>]*)\s+for\s+)?([A-Za-z_][A-Za-z0-9_:<>]*)`)

// scanRange walks the byte range [start, end) of source line by line,
// recognizing item declarations and recursing into brace-delimited
// bodies that can themselves hold nested items (fn, trait, mod, impl).
// insideImpl marks that this range is an impl or trait body, so a fn
// found directly within it is a method rather than a free function.
func scanRange(source string, start, end int, insideImpl bool, ctx *extract.Context) {
	i := start
	for i < end {
		lineEnd := strings.IndexByte(source[i:end], '\n')
		if lineEnd < 0 {
			lineEnd = end
		} else {
			lineEnd += i
		}
		trimmed := strings.TrimSpace(source[i:lineEnd])

		if trimmed != "" {
			if consumed, ok := scanItemAt(source, i, end, trimmed, insideImpl, ctx); ok {
				i = consumed
				continue
			}
		}
		i = lineEnd + 1
	}
}

func scanItemAt(source string, lineStart, end int, trimmed string, insideImpl bool, ctx *extract.Context) (int, bool) {
	if kind, name, nested, statement, childrenInsideImpl, ok := classify(trimmed, insideImpl); ok {
		if statement {
			stop := findStatementEnd(source, lineStart, end)
			emitItem(ctx, source, kind, name, lineStart, stop+1, nil)
			return stop + 1, true
		}

		openBrace := strings.IndexByte(source[lineStart:end], '{')
		if openBrace < 0 {
			return 0, false
		}
		openBrace += lineStart
		closeBrace := matchBrace(source, openBrace, end)
		if closeBrace < 0 {
			closeBrace = end - 1
		}

		var body func()
		if nested {
			body = func() { scanRange(source, openBrace+1, closeBrace, childrenInsideImpl, ctx) }
		}
		emitItem(ctx, source, kind, name, lineStart, closeBrace+1, body)
		return closeBrace + 1, true
	}
	return 0, false
}

func classify(trimmed string, insideImpl bool) (kind block.Kind, name string, nested, statement, childrenInsideImpl, ok bool) {
	if m := implRe.FindStringSubmatch(trimmed); m != nil {
		name = m[2]
		if m[1] != "" {
			name = m[1] + " for " + m[2]
		}
		return block.KindClass, "impl " + name, true, false, true, true
	}
	for _, p := range itemPatterns {
		m := p.re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		itemName := "unnamed"
		if len(m) > 1 && m[1] != "" {
			itemName = m[1]
		} else if p.kind == block.KindImport {
			itemName = extractUsePath(trimmed)
		}
		itemKind := p.kind
		if itemKind == block.KindFunction && insideImpl {
			itemKind = block.KindMethod
			if itemName == "new" {
				itemKind = block.KindConstructor
			}
		}
		return itemKind, itemName, p.nested, p.statement, itemKind == block.KindTrait, true
	}
	return "", "", false, false, false, false
}

func extractUsePath(trimmed string) string {
	rest := trimmed
	if idx := strings.Index(rest, "use "); idx >= 0 {
		rest = rest[idx+4:]
	}
	rest = strings.TrimRight(rest, ";")
	rest = strings.TrimSpace(rest)
	if idx := strings.IndexByte(rest, '{'); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSuffix(strings.TrimSpace(rest), "::")
}

func findStatementEnd(source string, start, end int) int {
	for i := start; i < end; i++ {
		if source[i] == ';' {
			return i
		}
	}
	return end - 1
}

// matchBrace returns the index of the brace matching the '{' at open,
// or -1 if unterminated within [open, end).
func matchBrace(source string, open, end int) int {
	depth := 0
	for i := open; i < end; i++ {
		switch source[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func emitItem(ctx *extract.Context, source string, kind block.Kind, name string, start, end int, body func()) {
	text := source[start:end]
	b := block.New(kind, name, "rust")
	b.WithOriginalText(text, block.FormattingInfo{})
	b.WithBodyExtraction(block.BodyExtractionVerbatim, "", true)
	b.WithPosition(block.Position{
		StartLine: lineNumber(source, start),
		EndLine:   lineNumber(source, end),
	})
	if strings.HasPrefix(strings.TrimSpace(text), "pub") {
		b.WithVisibility(block.VisibilityPublic)
	} else {
		b.WithVisibility(block.VisibilityPrivate)
	}

	ctx.EnterBlock(b)
	if body != nil {
		body()
	}
	ctx.ExitBlock()
}

// lineNumber returns the 1-based line number of byte offset pos in source.
func lineNumber(source string, pos int) int {
	if pos > len(source) {
		pos = len(source)
	}
	return strings.Count(source[:pos], "\n") + 1
}
