package cpp

import (
	"strings"
	"testing"

	"github.com/oxhq/codegraph/block"
)

func TestRenderFunctionSynthesizesSignature(t *testing.T) {
	b := block.New(block.KindFunction, "add", "cpp")
	b.SemanticMetadata.Parameters = []block.Parameter{
		{Name: "a", TypeAnnotation: "int"},
		{Name: "b", TypeAnnotation: "int"},
	}
	b.SemanticMetadata.ReturnType = "int"

	text := table[block.KindFunction](b)
	if !strings.HasPrefix(text, "int add(int a, int b) {") {
		t.Errorf("unexpected signature: %q", text)
	}
}

func TestRenderFunctionDefaultsToVoid(t *testing.T) {
	b := block.New(block.KindFunction, "run", "cpp")
	text := table[block.KindFunction](b)
	if !strings.HasPrefix(text, "void run()") {
		t.Errorf("expected void default, got %q", text)
	}
}

func TestRenderClassWithBases(t *testing.T) {
	b := block.New(block.KindClass, "Dog", "cpp")
	b.StructuralContext.InheritanceChain = []string{"Animal"}
	text := table[block.KindClass](b)
	if text != "class Dog : public Animal {\n};" {
		t.Errorf("unexpected class render: %q", text)
	}
}

func TestRenderVariableDefaultsToAuto(t *testing.T) {
	b := block.New(block.KindVariable, "count", "cpp")
	text := table[block.KindVariable](b)
	if text != "auto count{};" {
		t.Errorf("Render = %q", text)
	}
}

func TestRenderInclude(t *testing.T) {
	b := block.New(block.KindImport, "vector", "cpp")
	text := table[block.KindImport](b)
	if text != `#include "vector"` {
		t.Errorf("Render = %q", text)
	}
}

func TestNewCommentStyle(t *testing.T) {
	lang := New()
	if lang.Name != "cpp" {
		t.Errorf("Name = %q, want cpp", lang.Name)
	}
	if lang.CommentStyle("x") != "// x" {
		t.Errorf("CommentStyle = %q", lang.CommentStyle("x"))
	}
}
