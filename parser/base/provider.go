// Package base provides the tree-sitter walking engine shared by every
// language frontend: recursive AST traversal, block construction,
// relationship-candidate emission, and syntax-error detection. Language
// packages (parser/golang, parser/python, ...) supply a FrontendConfig
// and get a full parser.Frontend in return.
package base

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/extract"
	"github.com/oxhq/codegraph/parser"
)

// FrontendConfig is the language-specific behavior a tree-sitter-backed
// frontend must supply: which grammar to parse with, which node types
// correspond to which block.Kind, how to name a node, and how to judge
// exportedness for visibility classification.
type FrontendConfig interface {
	Language() string
	Extensions() []string
	GetLanguage() *sitter.Language

	KindForNodeType(node *sitter.Node, source string) (block.Kind, bool)
	ExtractName(node *sitter.Node, source string) string
	IsExported(name string) bool
}

// NamedNode pairs a syntax node with the name extracted for it. Expander
// returns these when a single syntax node should become several blocks.
type NamedNode struct {
	Node *sitter.Node
	Name string
}

// Expander lets a language config split one syntax node (a multi-name
// variable declaration, a grouped import) into several named blocks,
// generalizing the teacher's ExpandMatches. Returning a non-empty slice
// short-circuits the walk's default single-block handling for that node.
type Expander interface {
	Expand(node *sitter.Node, source string, kind block.Kind) []NamedNode
}

// CallDetector lets a language config recognize call expressions so the
// walk can record a "calls" relationship candidate from the block
// currently open on the extraction stack.
type CallDetector interface {
	CallTarget(node *sitter.Node, source string) (name string, ok bool)
}

// SideEffectScanner lets a language config recognize effectful
// constructs (file I/O, network I/O, console I/O, ...) within a block's
// subtree, populating its side-effect analysis during the same walk.
type SideEffectScanner interface {
	ScanSideEffects(node *sitter.Node, source string) []block.SideEffect
}

// Provider is the shared tree-sitter walking engine. One Provider wraps
// one *sitter.Parser configured for a single language and is safe to
// reuse across files of that language (tree-sitter parsers are not safe
// for concurrent use, so callers should serialize Parse calls per
// Provider, or construct one Provider per goroutine).
type Provider struct {
	config FrontendConfig
	parser *sitter.Parser
}

// New builds a Provider from a language config, panicking if the
// tree-sitter grammar fails to load -- a programmer error (a language
// package wiring the wrong grammar), not a runtime condition.
func New(config FrontendConfig) *Provider {
	p := sitter.NewParser()
	lang := config.GetLanguage()
	if lang == nil {
		panic(fmt.Sprintf("base: failed to load %s tree-sitter grammar", config.Language()))
	}
	p.SetLanguage(lang)

	return &Provider{config: config, parser: p}
}

// Language returns the language identifier.
func (p *Provider) Language() string {
	return p.config.Language()
}

// Extensions returns the file extensions this frontend claims.
func (p *Provider) Extensions() []string {
	return p.config.Extensions()
}

// Parse walks source's syntax tree and returns the blocks and
// relationship candidates extracted from it. Syntax errors are reported
// as warnings, not a hard failure -- the extraction still proceeds over
// whatever parsed, matching spec.md §4.2's "a parser frontend failure
// aborts that file only" semantics one level up: here, a syntax error
// degrades to a partial result rather than aborting at all, since
// tree-sitter's error recovery already produced a usable (if imperfect)
// tree.
func (p *Provider) Parse(path, source string) (parser.ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, []byte(source))
	if err != nil || tree == nil {
		return parser.ParseResult{}, fmt.Errorf("base: parse %s: %w", path, parser.ErrParse)
	}
	defer tree.Close()

	var warnings []string
	findSyntaxErrors(tree.RootNode(), &warnings)

	ctx := extract.New()
	p.walk(tree.RootNode(), source, ctx)

	result, err := ctx.Finish()
	if err != nil {
		return parser.ParseResult{}, fmt.Errorf("base: extract %s: %w", path, err)
	}

	return parser.ParseResult{
		Blocks:        result.Blocks,
		Relationships: result.Relationships,
		Warnings:      warnings,
	}, nil
}

func (p *Provider) walk(node *sitter.Node, source string, ctx *extract.Context) {
	if detector, ok := p.config.(CallDetector); ok {
		if name, isCall := detector.CallTarget(node, source); isCall {
			if current := ctx.Current(); current != nil {
				ctx.AddRelationship(current.ID, block.RelationshipCalls, name)
			}
		}
	}

	kind, recognized := p.config.KindForNodeType(node, source)
	if !recognized {
		p.walkChildren(node, source, ctx)
		return
	}

	if expander, ok := p.config.(Expander); ok {
		if named := expander.Expand(node, source, kind); len(named) > 0 {
			for _, nn := range named {
				p.emitLeaf(nn.Node, nn.Name, kind, source, ctx)
			}
			return
		}
	}

	name := p.config.ExtractName(node, source)
	if name == "" {
		name = "anonymous"
	}

	b := p.buildBlock(node, name, kind, source)
	ctx.EnterBlock(b)
	p.attachSideEffects(node, source, b)
	p.walkChildren(node, source, ctx)
	ctx.ExitBlock()
}

func (p *Provider) walkChildren(node *sitter.Node, source string, ctx *extract.Context) {
	for i := 0; i < int(node.ChildCount()); i++ {
		p.walk(node.Child(i), source, ctx)
	}
}

// emitLeaf records a single expanded name (e.g. one identifier out of a
// multi-name declaration) as its own block with no further descent -- the
// declaration's subtree has already been fully accounted for by the
// expansion.
func (p *Provider) emitLeaf(node *sitter.Node, name string, kind block.Kind, source string, ctx *extract.Context) {
	b := p.buildBlock(node, name, kind, source)
	ctx.EnterBlock(b)
	ctx.ExitBlock()
}

func (p *Provider) buildBlock(node *sitter.Node, name string, kind block.Kind, source string) *block.Block {
	b := block.New(kind, name, p.config.Language())

	b.WithPosition(block.Position{
		StartLine:   int(node.StartPoint().Row) + 1,
		EndLine:     int(node.EndPoint().Row) + 1,
		StartColumn: int(node.StartPoint().Column) + 1,
		EndColumn:   int(node.EndPoint().Column) + 1,
	})

	text := source[node.StartByte():node.EndByte()]
	b.WithOriginalText(text, block.FormattingInfo{
		Indentation: getIndentation(source, node),
	})
	b.WithBodyExtraction(block.BodyExtractionVerbatim, "", true)

	if p.config.IsExported(name) {
		b.WithVisibility(block.VisibilityPublic)
	} else {
		b.WithVisibility(block.VisibilityPrivate)
	}

	return b
}

func (p *Provider) attachSideEffects(node *sitter.Node, source string, b *block.Block) {
	scanner, ok := p.config.(SideEffectScanner)
	if !ok {
		return
	}
	effects := scanner.ScanSideEffects(node, source)
	if len(effects) == 0 {
		b.WithSideEffects(block.SideEffectAnalysis{Purity: block.PurityLikelyPure})
		return
	}

	purity := block.PurityImpure
	b.WithSideEffects(block.SideEffectAnalysis{
		Purity:      purity,
		SideEffects: effects,
	})
}

// getIndentation returns the leading whitespace of node's starting line,
// used to render regenerated text with the same indentation style as the
// original.
func getIndentation(source string, node *sitter.Node) string {
	targetLine := node.StartPoint().Row
	lineStart := 0
	currentLine := uint32(0)

	for i, ch := range source {
		if currentLine == targetLine {
			lineStart = i
			break
		}
		if ch == '\n' {
			currentLine++
		}
	}

	indent := ""
	for i := lineStart; i < len(source); i++ {
		if source[i] == ' ' || source[i] == '\t' {
			indent += string(source[i])
		} else {
			break
		}
	}
	return indent
}

// findSyntaxErrors walks the tree collecting tree-sitter's ERROR nodes as
// human-readable warnings.
func findSyntaxErrors(node *sitter.Node, warnings *[]string) {
	if node.Type() == "ERROR" {
		*warnings = append(*warnings, fmt.Sprintf(
			"syntax error at line %d, column %d",
			node.StartPoint().Row+1,
			node.StartPoint().Column+1,
		))
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		findSyntaxErrors(node.Child(i), warnings)
	}
}
