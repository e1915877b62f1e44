package golang

import (
	"strings"
	"testing"

	"github.com/oxhq/codegraph/block"
)

func TestRenderFunctionPrefersPreservedBody(t *testing.T) {
	b := block.New(block.KindFunction, "Greet", "go")
	b.WithOriginalText("func Greet() string {\n\treturn \"hi\"\n}", block.FormattingInfo{})

	lang := New()
	text := lang.Table[block.KindFunction](b)
	if !strings.Contains(text, "return \"hi\"") {
		t.Errorf("expected preserved body, got %q", text)
	}
}

func TestRenderFunctionSynthesizesSignature(t *testing.T) {
	b := block.New(block.KindFunction, "Add", "go")
	b.SemanticMetadata.Parameters = []block.Parameter{
		{Name: "a", TypeAnnotation: "int"},
		{Name: "b", TypeAnnotation: "int"},
	}
	b.SemanticMetadata.ReturnType = "int"

	text := table[block.KindFunction](b)
	if !strings.HasPrefix(text, "func Add(int a, int b) int {") {
		t.Errorf("unexpected signature: %q", text)
	}
}

func TestRenderStructFallsBackToStub(t *testing.T) {
	b := block.New(block.KindClass, "Point", "go")
	text := table[block.KindClass](b)
	if !strings.Contains(text, "type Point struct") {
		t.Errorf("unexpected struct render: %q", text)
	}
}

func TestRenderImport(t *testing.T) {
	b := block.New(block.KindImport, "fmt", "go")
	text := table[block.KindImport](b)
	if text != `import "fmt"` {
		t.Errorf("Render = %q", text)
	}
}

func TestNewCommentStyle(t *testing.T) {
	lang := New()
	if lang.Name != "go" {
		t.Errorf("Name = %q, want go", lang.Name)
	}
	if lang.CommentStyle("x") != "// x" {
		t.Errorf("CommentStyle = %q", lang.CommentStyle("x"))
	}
}
