package javascript

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/codegraph/block"
)

func parseJS(t *testing.T, source string) *sitter.Node {
	t.Helper()
	c := &Config{}
	p := sitter.NewParser()
	p.SetLanguage(c.GetLanguage())
	tree := p.Parse(nil, []byte(source))
	t.Cleanup(tree.Close)
	return tree.RootNode()
}

func findDescendant(node *sitter.Node, nodeType string) *sitter.Node {
	if node.Type() == nodeType {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if found := findDescendant(node.Child(i), nodeType); found != nil {
			return found
		}
	}
	return nil
}

func TestKindForNodeType(t *testing.T) {
	c := &Config{}
	cases := []struct {
		source   string
		nodeType string
		want     block.Kind
		ok       bool
	}{
		{"function f() {}", "function_declaration", block.KindFunction, true},
		{"class C {}", "class_declaration", block.KindClass, true},
		{"import x from 'y';", "import_statement", block.KindImport, true},
		{"export const x = 1;", "export_statement", block.KindExport, true},
		{"class C { greet() {} }", "method_definition", block.KindMethod, true},
		{"class C { constructor() {} }", "method_definition", block.KindConstructor, true},
		{"const f = x => x;", "arrow_function", block.KindLambda, true},
	}
	for _, tc := range cases {
		root := parseJS(t, tc.source)
		node := findDescendant(root, tc.nodeType)
		if node == nil {
			t.Fatalf("could not find %s in %q", tc.nodeType, tc.source)
		}
		got, ok := c.KindForNodeType(node, tc.source)
		if ok != tc.ok || got != tc.want {
			t.Errorf("KindForNodeType(%q) = (%q, %v), want (%q, %v)", tc.nodeType, got, ok, tc.want, tc.ok)
		}
	}

	root := parseJS(t, "1;")
	if got, ok := c.KindForNodeType(findDescendant(root, "number"), "1;"); ok || got != "" {
		t.Errorf("KindForNodeType(number) = (%q, %v), want (\"\", false)", got, ok)
	}
}

func TestExtractNameFunctionDeclaration(t *testing.T) {
	c := &Config{}
	source := "function greet() {}\n"
	root := parseJS(t, source)
	fn := findDescendant(root, "function_declaration")
	if fn == nil {
		t.Fatal("could not find function_declaration")
	}
	if name := c.ExtractName(fn, source); name != "greet" {
		t.Errorf("ExtractName = %q, want greet", name)
	}
}

func TestExtractNameArrowAssignedToConst(t *testing.T) {
	c := &Config{}
	source := "const greet = () => {};\n"
	root := parseJS(t, source)
	arrow := findDescendant(root, "arrow_function")
	if arrow == nil {
		t.Fatal("could not find arrow_function")
	}
	if name := c.ExtractName(arrow, source); name != "greet" {
		t.Errorf("ExtractName = %q, want greet", name)
	}
}

func TestExtractNameArrowAssignedToMember(t *testing.T) {
	c := &Config{}
	source := "module.exports.greet = () => {};\n"
	root := parseJS(t, source)
	arrow := findDescendant(root, "arrow_function")
	if arrow == nil {
		t.Fatal("could not find arrow_function")
	}
	if name := c.ExtractName(arrow, source); name != "greet" {
		t.Errorf("ExtractName = %q, want greet", name)
	}
}

func TestIsExported(t *testing.T) {
	c := &Config{}
	if !c.IsExported("Widget") {
		t.Error("Widget should be exported")
	}
	if c.IsExported("widget") {
		t.Error("widget should not be exported")
	}
}

func TestExpandArrayDestructuring(t *testing.T) {
	c := &Config{}
	source := "const [a, b] = pair;\n"
	root := parseJS(t, source)
	decl := findDescendant(root, "lexical_declaration")
	if decl == nil {
		t.Fatal("could not find lexical_declaration")
	}

	named := c.Expand(decl, source, block.KindVariable)
	if len(named) != 2 {
		t.Fatalf("expected 2 names, got %d", len(named))
	}
}

func TestExpandObjectDestructuring(t *testing.T) {
	c := &Config{}
	source := "const { a, b: renamed } = obj;\n"
	root := parseJS(t, source)
	decl := findDescendant(root, "lexical_declaration")
	if decl == nil {
		t.Fatal("could not find lexical_declaration")
	}

	named := c.Expand(decl, source, block.KindVariable)
	if len(named) != 2 {
		t.Fatalf("expected 2 names, got %d", len(named))
	}
	if named[0].Name != "a" || named[1].Name != "renamed" {
		t.Errorf("unexpected names: %+v", named)
	}
}

func TestExpandImportSpecifiers(t *testing.T) {
	c := &Config{}
	source := "import { a, b as c } from './mod';\n"
	root := parseJS(t, source)
	imp := findDescendant(root, "import_statement")
	if imp == nil {
		t.Fatal("could not find import_statement")
	}

	named := c.Expand(imp, source, block.KindImport)
	if len(named) != 2 {
		t.Fatalf("expected 2 names, got %d", len(named))
	}
	if named[0].Name != "a" || named[1].Name != "c" {
		t.Errorf("unexpected names: %+v", named)
	}
}

func TestCallTargetMemberExpression(t *testing.T) {
	c := &Config{}
	source := "console.log('hi');\n"
	root := parseJS(t, source)
	call := findDescendant(root, "call_expression")
	if call == nil {
		t.Fatal("could not find call_expression")
	}

	name, ok := c.CallTarget(call, source)
	if !ok || name != "log" {
		t.Errorf("CallTarget = (%q, %v), want (log, true)", name, ok)
	}
}

func TestScanSideEffectsDetectsConsoleIO(t *testing.T) {
	c := &Config{}
	source := "function f() {\n  console.log('hi');\n}\n"
	root := parseJS(t, source)
	fn := findDescendant(root, "function_declaration")

	effects := c.ScanSideEffects(fn, source)
	if len(effects) != 1 {
		t.Fatalf("expected 1 side effect, got %d", len(effects))
	}
	if effects[0].Type != block.SideEffectConsoleIO {
		t.Errorf("Type = %q, want console_io", effects[0].Type)
	}
}

func TestScanSideEffectsPureFunction(t *testing.T) {
	c := &Config{}
	source := "function add(a, b) {\n  return a + b;\n}\n"
	root := parseJS(t, source)
	fn := findDescendant(root, "function_declaration")

	if effects := c.ScanSideEffects(fn, source); len(effects) != 0 {
		t.Errorf("expected no side effects, got %+v", effects)
	}
}

func TestNewReturnsFrontend(t *testing.T) {
	f := New()
	if f.Language() != "javascript" {
		t.Errorf("Language() = %q, want javascript", f.Language())
	}
}
