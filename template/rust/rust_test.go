package rust

import (
	"strings"
	"testing"

	"github.com/oxhq/codegraph/block"
)

func TestRenderFunctionPrefersPreservedBody(t *testing.T) {
	b := block.New(block.KindFunction, "greet", "rust")
	b.WithOriginalText("fn greet() -> String {\n    \"hi\".to_string()\n}", block.FormattingInfo{})

	text := table[block.KindFunction](b)
	if !strings.Contains(text, "\"hi\".to_string()") {
		t.Errorf("expected preserved body, got %q", text)
	}
}

func TestRenderFunctionSynthesizesSignature(t *testing.T) {
	b := block.New(block.KindFunction, "add", "rust")
	b.SemanticMetadata.Visibility = block.VisibilityPublic
	b.SemanticMetadata.Parameters = []block.Parameter{
		{Name: "a", TypeAnnotation: "i32"},
		{Name: "b", TypeAnnotation: "i32"},
	}
	b.SemanticMetadata.ReturnType = "i32"

	text := table[block.KindFunction](b)
	if !strings.HasPrefix(text, "pub fn add(a: i32, b: i32) -> i32 {") {
		t.Errorf("unexpected signature: %q", text)
	}
	if !strings.Contains(text, "unimplemented!()") {
		t.Errorf("expected unimplemented stub, got %q", text)
	}
}

func TestRenderStructFallsBackToStub(t *testing.T) {
	b := block.New(block.KindClass, "Point", "rust")
	b.SemanticMetadata.Visibility = block.VisibilityPublic
	text := table[block.KindClass](b)
	if text != "pub struct Point {}" {
		t.Errorf("unexpected struct render: %q", text)
	}
}

func TestRenderVariableMut(t *testing.T) {
	b := block.New(block.KindVariable, "count", "rust")
	b.SemanticMetadata.Modifiers = []block.Modifier{"mut"}
	text := table[block.KindVariable](b)
	if text != "let mut count = Default::default();" {
		t.Errorf("Render = %q", text)
	}
}

func TestRenderUse(t *testing.T) {
	b := block.New(block.KindImport, "std::io", "rust")
	text := table[block.KindImport](b)
	if text != "use std::io;" {
		t.Errorf("Render = %q", text)
	}
}

func TestNewCommentStyle(t *testing.T) {
	lang := New()
	if lang.Name != "rust" {
		t.Errorf("Name = %q, want rust", lang.Name)
	}
	if lang.CommentStyle("x") != "// x" {
		t.Errorf("CommentStyle = %q", lang.CommentStyle("x"))
	}
}
