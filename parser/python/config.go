// Package python adapts the Python tree-sitter grammar into a
// parser.Frontend.
package python

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/parser"
	"github.com/oxhq/codegraph/parser/base"
)

// Config implements base.FrontendConfig for Python.
type Config struct{}

// New returns a ready-to-use Python frontend.
func New() parser.Frontend {
	return base.New(&Config{})
}

func (c *Config) Language() string             { return "python" }
func (c *Config) Extensions() []string         { return []string{".py", ".pyw", ".pyi"} }
func (c *Config) GetLanguage() *sitter.Language { return python.GetLanguage() }

var nodeKinds = map[string]block.Kind{
	"function_definition":       block.KindFunction,
	"async_function_definition": block.KindFunction,
	"class_definition":          block.KindClass,
	"type_alias_statement":      block.KindTypeDef,
	"assignment":                block.KindVariable,
	"augmented_assignment":      block.KindVariable,
	"import_statement":          block.KindImport,
	"import_from_statement":     block.KindImport,
	"decorator":                 block.KindDecorator,
	"comment":                   block.KindComment,
	"if_statement":              block.KindConditional,
	"for_statement":             block.KindLoop,
	"while_statement":           block.KindLoop,
	"try_statement":             block.KindTryCatch,
	"lambda":                    block.KindLambda,
	"match_statement":           block.KindSwitch,
}

// KindForNodeType maps a Python AST node type to a semantic block kind. A
// function_definition nested directly inside a class_definition's body is
// refined to KindMethod, and one named __init__ to KindConstructor --
// Python's grammar gives methods and constructors the same node type as a
// free function, so the distinction has to come from the parent's kind.
func (c *Config) KindForNodeType(node *sitter.Node, source string) (block.Kind, bool) {
	kind, ok := nodeKinds[node.Type()]
	if !ok {
		return "", false
	}
	if (node.Type() == "function_definition" || node.Type() == "async_function_definition") && isClassMethod(node) {
		if name := c.ExtractName(node, source); name == "__init__" {
			return block.KindConstructor, true
		}
		return block.KindMethod, true
	}
	return kind, true
}

// isClassMethod reports whether node's immediate enclosing block (skipping
// the intervening "block" wrapper node tree-sitter-python inserts) is a
// class_definition.
func isClassMethod(node *sitter.Node) bool {
	parent := node.Parent()
	for parent != nil {
		switch parent.Type() {
		case "class_definition":
			return true
		case "block", "decorated_definition":
			parent = parent.Parent()
		default:
			return false
		}
	}
	return false
}

// ExtractName pulls the declared name out of a Python syntax node,
// grounded on the teacher's ExtractNodeName.
func (c *Config) ExtractName(node *sitter.Node, source string) string {
	switch node.Type() {
	case "function_definition", "async_function_definition", "class_definition":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return source[nameNode.StartByte():nameNode.EndByte()]
		}
	case "assignment", "augmented_assignment":
		if leftNode := node.ChildByFieldName("left"); leftNode != nil && leftNode.Type() == "identifier" {
			return source[leftNode.StartByte():leftNode.EndByte()]
		}
	case "import_statement":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "dotted_name" || child.Type() == "identifier" {
				return source[child.StartByte():child.EndByte()]
			}
		}
	case "import_from_statement":
		if moduleNode := node.ChildByFieldName("module_name"); moduleNode != nil {
			return source[moduleNode.StartByte():moduleNode.EndByte()]
		}
	case "type_alias_statement":
		if left := node.ChildByFieldName("left"); left != nil {
			return source[left.StartByte():left.EndByte()]
		}
	case "decorator":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "identifier" || child.Type() == "attribute" {
				return source[child.StartByte():child.EndByte()]
			}
		}
	case "comment":
		return commentSummary(source[node.StartByte():node.EndByte()])
	}

	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return source[nameNode.StartByte():nameNode.EndByte()]
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == "identifier" {
			return source[child.StartByte():child.EndByte()]
		}
	}
	return ""
}

func commentSummary(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// IsExported treats any name without a leading underscore as public,
// Python's convention rather than a language rule.
func (c *Config) IsExported(name string) bool {
	return len(name) > 0 && !strings.HasPrefix(name, "_")
}

// Expand splits tuple/list unpacking assignments and multi-name import
// statements into one block per bound name, generalizing the teacher's
// ExpandMatches.
func (c *Config) Expand(node *sitter.Node, source string, kind block.Kind) []base.NamedNode {
	switch node.Type() {
	case "assignment", "augmented_assignment":
		return c.expandAssignment(node, source)
	case "import_statement":
		return c.expandImport(node, source)
	case "import_from_statement":
		return c.expandImportFrom(node, source)
	default:
		return nil
	}
}

func (c *Config) expandAssignment(node *sitter.Node, source string) []base.NamedNode {
	leftNode := node.ChildByFieldName("left")
	if leftNode == nil {
		return nil
	}
	switch leftNode.Type() {
	case "tuple", "list", "pattern_list":
		return identifierChildren(leftNode, source)
	default:
		return nil
	}
}

func identifierChildren(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == "identifier" {
			named = append(named, base.NamedNode{Node: child, Name: source[child.StartByte():child.EndByte()]})
		}
	}
	return named
}

func (c *Config) expandImport(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "aliased_import":
			named = append(named, aliasedImportName(child, source))
		case "dotted_name", "identifier":
			named = append(named, base.NamedNode{Node: child, Name: source[child.StartByte():child.EndByte()]})
		}
	}
	return named
}

func (c *Config) expandImportFrom(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "aliased_import":
			named = append(named, aliasedImportName(child, source))
		case "identifier":
			named = append(named, base.NamedNode{Node: child, Name: source[child.StartByte():child.EndByte()]})
		}
	}
	return named
}

func aliasedImportName(node *sitter.Node, source string) base.NamedNode {
	if alias := node.ChildByFieldName("alias"); alias != nil {
		return base.NamedNode{Node: node, Name: source[alias.StartByte():alias.EndByte()]}
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return base.NamedNode{Node: node, Name: source[nameNode.StartByte():nameNode.EndByte()]}
	}
	return base.NamedNode{Node: node, Name: ""}
}

// CallTarget recognizes Python call expressions.
func (c *Config) CallTarget(node *sitter.Node, source string) (string, bool) {
	if node.Type() != "call" {
		return "", false
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return "", false
	}
	switch fn.Type() {
	case "identifier":
		return source[fn.StartByte():fn.EndByte()], true
	case "attribute":
		if attr := fn.ChildByFieldName("attribute"); attr != nil {
			return source[attr.StartByte():attr.EndByte()], true
		}
	}
	return "", false
}

var effectfulCalls = map[string]block.SideEffectType{
	"print":        block.SideEffectConsoleIO,
	"open":         block.SideEffectFileIO,
	"input":        block.SideEffectConsoleIO,
	"get":          block.SideEffectNetworkIO,
	"post":         block.SideEffectNetworkIO,
	"request":      block.SideEffectNetworkIO,
	"connect":      block.SideEffectNetworkIO,
}

// ScanSideEffects walks node's subtree for calls recognized as I/O.
func (c *Config) ScanSideEffects(node *sitter.Node, source string) []block.SideEffect {
	var effects []block.SideEffect
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "call" {
			if name, ok := c.CallTarget(n, source); ok {
				if effectType, known := effectfulCalls[name]; known {
					effects = append(effects, block.SideEffect{
						Type:       effectType,
						Line:       int(n.StartPoint().Row) + 1,
						Detail:     name,
						Severity:   block.EffectSeverityMedium,
						Confidence: 0.6,
					})
				}
			}
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return effects
}
