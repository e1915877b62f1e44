package java

import (
	"strings"
	"testing"

	"github.com/oxhq/codegraph/block"
)

func TestRenderMethodSynthesizesSignature(t *testing.T) {
	b := block.New(block.KindFunction, "add", "java")
	b.SemanticMetadata.Visibility = block.VisibilityPublic
	b.SemanticMetadata.Parameters = []block.Parameter{
		{Name: "a", TypeAnnotation: "int"},
		{Name: "b", TypeAnnotation: "int"},
	}
	b.SemanticMetadata.ReturnType = "int"

	text := table[block.KindFunction](b)
	if !strings.HasPrefix(text, "public int add(int a, int b) {") {
		t.Errorf("unexpected signature: %q", text)
	}
}

func TestRenderMethodDefaultsVoidAndPublic(t *testing.T) {
	b := block.New(block.KindFunction, "run", "java")
	text := table[block.KindFunction](b)
	if !strings.HasPrefix(text, "public void run()") {
		t.Errorf("expected void/public defaults, got %q", text)
	}
}

func TestRenderClassExtendsAndImplements(t *testing.T) {
	b := block.New(block.KindClass, "Dog", "java")
	b.StructuralContext.InheritanceChain = []string{"Animal"}
	b.StructuralContext.Implements = []string{"Named"}
	text := table[block.KindClass](b)
	if text != "public class Dog extends Animal implements Named {}" {
		t.Errorf("unexpected class render: %q", text)
	}
}

func TestRenderFieldDefaultsToObject(t *testing.T) {
	b := block.New(block.KindVariable, "value", "java")
	text := table[block.KindVariable](b)
	if text != "private Object value;" {
		t.Errorf("Render = %q", text)
	}
}

func TestRenderImport(t *testing.T) {
	b := block.New(block.KindImport, "java.util.List", "java")
	text := table[block.KindImport](b)
	if text != "import java.util.List;" {
		t.Errorf("Render = %q", text)
	}
}

func TestNewCommentStyle(t *testing.T) {
	lang := New()
	if lang.Name != "java" {
		t.Errorf("Name = %q, want java", lang.Name)
	}
	if lang.CommentStyle("x") != "// x" {
		t.Errorf("CommentStyle = %q", lang.CommentStyle("x"))
	}
}
