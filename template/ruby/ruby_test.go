package ruby

import (
	"strings"
	"testing"

	"github.com/oxhq/codegraph/block"
)

func TestRenderMethodPrefersPreservedBody(t *testing.T) {
	b := block.New(block.KindFunction, "greet", "ruby")
	b.WithOriginalText("def greet\n  \"hi\"\nend", block.FormattingInfo{})

	text := table[block.KindFunction](b)
	if !strings.Contains(text, "\"hi\"") {
		t.Errorf("expected preserved body, got %q", text)
	}
}

func TestRenderMethodSynthesizesSignature(t *testing.T) {
	b := block.New(block.KindFunction, "add", "ruby")
	b.SemanticMetadata.Parameters = []block.Parameter{{Name: "a"}, {Name: "b"}}

	text := table[block.KindFunction](b)
	if !strings.HasPrefix(text, "def add(a, b)\n") {
		t.Errorf("unexpected signature: %q", text)
	}
	if !strings.HasSuffix(text, "\nend") {
		t.Errorf("expected trailing end, got %q", text)
	}
}

func TestRenderMethodNoParamsOmitsParens(t *testing.T) {
	b := block.New(block.KindFunction, "run", "ruby")
	text := table[block.KindFunction](b)
	if !strings.HasPrefix(text, "def run\n") {
		t.Errorf("expected no parens for zero params, got %q", text)
	}
}

func TestRenderClassWithSuperclass(t *testing.T) {
	b := block.New(block.KindClass, "Dog", "ruby")
	b.StructuralContext.InheritanceChain = []string{"Animal"}
	text := table[block.KindClass](b)
	if text != "class Dog < Animal\nend" {
		t.Errorf("unexpected class render: %q", text)
	}
}

func TestRenderRequire(t *testing.T) {
	b := block.New(block.KindImport, "json", "ruby")
	text := table[block.KindImport](b)
	if text != `require "json"` {
		t.Errorf("Render = %q", text)
	}
}

func TestNewCommentStyle(t *testing.T) {
	lang := New()
	if lang.Name != "ruby" {
		t.Errorf("Name = %q, want ruby", lang.Name)
	}
	if lang.CommentStyle("x") != "# x" {
		t.Errorf("CommentStyle = %q", lang.CommentStyle("x"))
	}
}
