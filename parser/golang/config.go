// Package golang adapts the Go tree-sitter grammar into a parser.Frontend.
package golang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/parser"
	"github.com/oxhq/codegraph/parser/base"
)

// Config implements base.FrontendConfig for Go.
type Config struct{}

// New returns a ready-to-use Go frontend.
func New() parser.Frontend {
	return base.New(&Config{})
}

func (c *Config) Language() string       { return "go" }
func (c *Config) Extensions() []string   { return []string{".go"} }
func (c *Config) GetLanguage() *sitter.Language { return golang.GetLanguage() }

var nodeKinds = map[string]block.Kind{
	"function_declaration":  block.KindFunction,
	"method_declaration":    block.KindMethod,
	"type_spec":             block.KindTypeDef,
	"type_alias":            block.KindTypeDef,
	"var_declaration":       block.KindVariable,
	"short_var_declaration": block.KindVariable,
	"const_declaration":     block.KindVariable,
	"import_declaration":    block.KindImport,
	"comment":               block.KindComment,
	"if_statement":          block.KindConditional,
	"for_statement":         block.KindLoop,
	"switch_statement":      block.KindSwitch,
	"type_switch_statement": block.KindSwitch,
}

// KindForNodeType maps a Go AST node type to a semantic block kind. A
// type_spec is refined past the generic KindTypeDef by inspecting its
// value child, since struct and interface definitions share the type_spec
// node type with every other defined type. An alias (type A = B) is a
// separate type_alias node and stays KindTypeDef.
func (c *Config) KindForNodeType(node *sitter.Node, source string) (block.Kind, bool) {
	kind, ok := nodeKinds[node.Type()]
	if !ok {
		return "", false
	}
	if node.Type() == "type_spec" {
		if value := node.ChildByFieldName("type"); value != nil {
			switch value.Type() {
			case "struct_type":
				return block.KindStruct, true
			case "interface_type":
				return block.KindInterface, true
			}
		}
	}
	return kind, true
}

// ExtractName pulls the declared name out of a Go syntax node, grounded
// on the teacher's ExtractNodeName.
func (c *Config) ExtractName(node *sitter.Node, source string) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return source[nameNode.StartByte():nameNode.EndByte()]
	}

	switch node.Type() {
	case "import_declaration":
		if named := c.expandImports(node, source); len(named) > 0 {
			return named[0].Name
		}
	case "var_declaration", "const_declaration", "short_var_declaration":
		for i := 0; i < int(node.ChildCount()); i++ {
			if child := node.Child(i); child.Type() == "identifier" {
				return source[child.StartByte():child.EndByte()]
			}
		}
	case "comment":
		return extractCommentContent(source[node.StartByte():node.EndByte()])
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == "identifier" {
			return source[child.StartByte():child.EndByte()]
		}
	}
	return ""
}

func extractCommentContent(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "//")
	trimmed = strings.TrimPrefix(trimmed, "/*")
	trimmed = strings.TrimSuffix(trimmed, "*/")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// IsExported reports whether name starts with an uppercase letter, Go's
// export rule.
func (c *Config) IsExported(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// Expand splits multi-name var/const/import declarations into one block
// per declared name, generalizing the teacher's ExpandMatches.
func (c *Config) Expand(node *sitter.Node, source string, kind block.Kind) []base.NamedNode {
	switch node.Type() {
	case "var_declaration", "const_declaration":
		return c.expandSpecs(node, source)
	case "short_var_declaration":
		return c.expandShortVar(node, source)
	case "import_declaration":
		return c.expandImports(node, source)
	default:
		return nil
	}
}

func (c *Config) expandSpecs(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "var_spec" && child.Type() != "const_spec" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			id := child.Child(j)
			if id.Type() == "identifier" {
				named = append(named, base.NamedNode{Node: id, Name: source[id.StartByte():id.EndByte()]})
			}
		}
	}
	return named
}

func (c *Config) expandShortVar(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "expression_list" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			id := child.Child(j)
			if id.Type() == "identifier" {
				named = append(named, base.NamedNode{Node: id, Name: source[id.StartByte():id.EndByte()]})
			}
		}
		break
	}
	return named
}

func (c *Config) expandImports(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "import_spec_list" {
			named = append(named, c.expandImports(child, source)...)
			continue
		}
		if child.Type() != "import_spec" {
			continue
		}
		var name string
		if nameNode := child.ChildByFieldName("name"); nameNode != nil {
			name = source[nameNode.StartByte():nameNode.EndByte()]
		} else if pathNode := child.ChildByFieldName("path"); pathNode != nil {
			name = strings.Trim(source[pathNode.StartByte():pathNode.EndByte()], `"`)
		}
		named = append(named, base.NamedNode{Node: child, Name: name})
	}
	return named
}

// CallTarget recognizes Go call expressions.
func (c *Config) CallTarget(node *sitter.Node, source string) (string, bool) {
	if node.Type() != "call_expression" {
		return "", false
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return "", false
	}
	switch fn.Type() {
	case "identifier":
		return source[fn.StartByte():fn.EndByte()], true
	case "selector_expression":
		if field := fn.ChildByFieldName("field"); field != nil {
			return source[field.StartByte():field.EndByte()], true
		}
	}
	return "", false
}

var effectfulSelectors = map[string]block.SideEffectType{
	"Println": block.SideEffectConsoleIO,
	"Printf":  block.SideEffectConsoleIO,
	"Print":   block.SideEffectConsoleIO,
	"Open":    block.SideEffectFileIO,
	"Create":  block.SideEffectFileIO,
	"ReadFile": block.SideEffectFileIO,
	"WriteFile": block.SideEffectFileIO,
	"Get":     block.SideEffectNetworkIO,
	"Post":    block.SideEffectNetworkIO,
	"Dial":    block.SideEffectNetworkIO,
}

// ScanSideEffects walks node's subtree looking for calls into recognized
// stdlib packages (fmt, os, net/http) that indicate observable effects.
func (c *Config) ScanSideEffects(node *sitter.Node, source string) []block.SideEffect {
	var effects []block.SideEffect
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "call_expression" {
			if fn := n.ChildByFieldName("function"); fn != nil && fn.Type() == "selector_expression" {
				if field := fn.ChildByFieldName("field"); field != nil {
					name := source[field.StartByte():field.EndByte()]
					if effectType, ok := effectfulSelectors[name]; ok {
						effects = append(effects, block.SideEffect{
							Type:       effectType,
							Line:       int(n.StartPoint().Row) + 1,
							Detail:     name,
							Severity:   block.EffectSeverityMedium,
							Confidence: 0.7,
						})
					}
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
