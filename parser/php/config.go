// Package php adapts the PHP tree-sitter grammar into a parser.Frontend.
package php

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/parser"
	"github.com/oxhq/codegraph/parser/base"
)

// Config implements base.FrontendConfig for PHP.
type Config struct{}

// New returns a ready-to-use PHP frontend.
func New() parser.Frontend {
	return base.New(&Config{})
}

func (c *Config) Language() string     { return "php" }
func (c *Config) Extensions() []string { return []string{".php", ".phtml", ".php4", ".php5", ".phps"} }
func (c *Config) GetLanguage() *sitter.Language { return php.GetLanguage() }

var nodeKinds = map[string]block.Kind{
	"function_definition":       block.KindFunction,
	"method_declaration":        block.KindMethod,
	"class_declaration":         block.KindClass,
	"interface_declaration":     block.KindInterface,
	"trait_declaration":         block.KindTrait,
	"enum_declaration":          block.KindEnum,
	"property_declaration":      block.KindVariable,
	"const_declaration":         block.KindVariable,
	"namespace_definition":      block.KindNamespace,
	"namespace_use_declaration": block.KindImport,
	"attribute_list":            block.KindAnnotation,
	"comment":                   block.KindComment,
	"if_statement":              block.KindConditional,
	"for_statement":             block.KindLoop,
	"while_statement":           block.KindLoop,
	"switch_statement":          block.KindSwitch,
	"try_statement":             block.KindTryCatch,
}

// KindForNodeType maps a PHP AST node type to a semantic block kind. A
// method_declaration named "__construct" is refined to KindConstructor.
func (c *Config) KindForNodeType(node *sitter.Node, source string) (block.Kind, bool) {
	kind, ok := nodeKinds[node.Type()]
	if !ok {
		return "", false
	}
	if node.Type() == "method_declaration" {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil && source[nameNode.StartByte():nameNode.EndByte()] == "__construct" {
			return block.KindConstructor, true
		}
	}
	return kind, true
}

// ExtractName pulls the declared name out of a PHP syntax node, grounded
// on the teacher's ExtractNodeName.
func (c *Config) ExtractName(node *sitter.Node, source string) string {
	switch node.Type() {
	case "function_definition", "class_declaration", "interface_declaration",
		"trait_declaration", "method_declaration", "namespace_definition", "enum_declaration":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return source[nameNode.StartByte():nameNode.EndByte()]
		}
	case "property_declaration":
		for i := 0; i < int(node.ChildCount()); i++ {
			if child := node.Child(i); child.Type() == "variable_name" {
				return strings.TrimPrefix(source[child.StartByte():child.EndByte()], "$")
			}
		}
	case "variable_name":
		return strings.TrimPrefix(source[node.StartByte():node.EndByte()], "$")
	case "namespace_use_declaration":
		for i := 0; i < int(node.ChildCount()); i++ {
			if child := node.Child(i); child.Type() == "qualified_name" {
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
		if child := node.Child(i); child.Type() == "name" {
			return source[child.StartByte():child.EndByte()]
		}
	}
	return ""
}

func commentSummary(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "//")
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/*")
	trimmed = strings.TrimSuffix(trimmed, "*/")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, "*"))
}

// IsExported uses the teacher's underscore convention (ValidateVisibility's
// fallback path); unlike the teacher, it does not walk up to an enclosing
// declaration to check for an explicit public/private/protected modifier.
func (c *Config) IsExported(name string) bool {
	return len(name) > 0 && !strings.HasPrefix(name, "_")
}

// Expand splits multi-variable property declarations ("public $a, $b;")
// into one block per declared property.
func (c *Config) Expand(node *sitter.Node, source string, kind block.Kind) []base.NamedNode {
	if node.Type() != "property_declaration" {
		return nil
	}
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "property_element" && child.NamedChildCount() > 0 {
			child = child.NamedChild(0)
		}
		if child.Type() == "variable_name" {
			named = append(named, base.NamedNode{
				Node: child,
				Name: strings.TrimPrefix(source[child.StartByte():child.EndByte()], "$"),
			})
		}
	}
	return named
}

// CallTarget recognizes PHP function-call expressions.
func (c *Config) CallTarget(node *sitter.Node, source string) (string, bool) {
	if node.Type() != "function_call_expression" {
		return "", false
	}
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return "", false
	}
	return source[fn.StartByte():fn.EndByte()], true
}
