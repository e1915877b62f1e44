package csharp

import (
	"strings"
	"testing"

	"github.com/oxhq/codegraph/block"
)

func TestRenderMethodSynthesizesSignature(t *testing.T) {
	b := block.New(block.KindFunction, "Add", "csharp")
	b.SemanticMetadata.Visibility = block.VisibilityPublic
	b.SemanticMetadata.Parameters = []block.Parameter{
		{Name: "a", TypeAnnotation: "int"},
		{Name: "b", TypeAnnotation: "int"},
	}
	b.SemanticMetadata.ReturnType = "int"

	text := table[block.KindFunction](b)
	if !strings.HasPrefix(text, "public int Add(int a, int b)\n{") {
		t.Errorf("unexpected signature: %q", text)
	}
	if !strings.Contains(text, "NotImplementedException") {
		t.Errorf("expected NotImplementedException stub, got %q", text)
	}
}

func TestRenderClassWithBasesAndInterfaces(t *testing.T) {
	b := block.New(block.KindClass, "Dog", "csharp")
	b.StructuralContext.InheritanceChain = []string{"Animal"}
	b.StructuralContext.Implements = []string{"INamed"}
	text := table[block.KindClass](b)
	if !strings.HasPrefix(text, "public class Dog : Animal, INamed") {
		t.Errorf("unexpected class render: %q", text)
	}
}

func TestRenderFieldDefaultsToObject(t *testing.T) {
	b := block.New(block.KindVariable, "Value", "csharp")
	text := table[block.KindVariable](b)
	if text != "private object Value;" {
		t.Errorf("Render = %q", text)
	}
}

func TestRenderUsing(t *testing.T) {
	b := block.New(block.KindImport, "System.Collections.Generic", "csharp")
	text := table[block.KindImport](b)
	if text != "using System.Collections.Generic;" {
		t.Errorf("Render = %q", text)
	}
}

func TestNewCommentStyle(t *testing.T) {
	lang := New()
	if lang.Name != "csharp" {
		t.Errorf("Name = %q, want csharp", lang.Name)
	}
	if lang.CommentStyle("x") != "// x" {
		t.Errorf("CommentStyle = %q", lang.CommentStyle("x"))
	}
}
