// Package typescript adapts the TypeScript tree-sitter grammar into a
// parser.Frontend.
package typescript

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/parser"
	"github.com/oxhq/codegraph/parser/base"
)

// Config implements base.FrontendConfig for TypeScript.
type Config struct{}

// New returns a ready-to-use TypeScript frontend.
func New() parser.Frontend {
	return base.New(&Config{})
}

func (c *Config) Language() string             { return "typescript" }
func (c *Config) Extensions() []string         { return []string{".ts", ".tsx"} }
func (c *Config) GetLanguage() *sitter.Language { return typescript.GetLanguage() }

var nodeKinds = map[string]block.Kind{
	"function_declaration":    block.KindFunction,
	"function_expression":     block.KindFunction,
	"arrow_function":          block.KindLambda,
	"method_definition":       block.KindMethod,
	"method_signature":        block.KindMethod,
	"class_declaration":       block.KindClass,
	"class_expression":        block.KindClass,
	"interface_declaration":   block.KindInterface,
	"type_alias_declaration":  block.KindTypeDef,
	"enum_declaration":        block.KindEnum,
	"enum_member":             block.KindVariable,
	"public_field_definition": block.KindVariable,
	"property_signature":      block.KindVariable,
	"variable_declaration":    block.KindVariable,
	"lexical_declaration":     block.KindVariable,
	"import_statement":        block.KindImport,
	"export_statement":        block.KindExport,
	"module_declaration":      block.KindModule,
	"namespace_declaration":   block.KindNamespace,
	"internal_module":         block.KindNamespace,
	"decorator":               block.KindDecorator,
	"type_parameter":          block.KindGeneric,
	"comment":                 block.KindComment,
	"if_statement":            block.KindConditional,
	"for_statement":           block.KindLoop,
	"while_statement":         block.KindLoop,
	"try_statement":           block.KindTryCatch,
	"switch_statement":        block.KindSwitch,
}

// KindForNodeType maps a TypeScript AST node type to a semantic block
// kind. A method_definition/method_signature named "constructor" is
// refined to KindConstructor.
func (c *Config) KindForNodeType(node *sitter.Node, source string) (block.Kind, bool) {
	kind, ok := nodeKinds[node.Type()]
	if !ok {
		return "", false
	}
	if node.Type() == "method_definition" || node.Type() == "method_signature" {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil && source[nameNode.StartByte():nameNode.EndByte()] == "constructor" {
			return block.KindConstructor, true
		}
	}
	return kind, true
}

// ExtractName pulls the declared name out of a TypeScript syntax node,
// grounded on the teacher's ExtractNodeName.
func (c *Config) ExtractName(node *sitter.Node, source string) string {
	switch node.Type() {
	case "function_declaration", "class_declaration", "class_expression",
		"interface_declaration", "type_alias_declaration", "enum_declaration",
		"module_declaration", "namespace_declaration", "enum_member":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return source[nameNode.StartByte():nameNode.EndByte()]
		}
	case "method_definition", "method_signature":
		if keyNode := node.ChildByFieldName("key"); keyNode != nil {
			return source[keyNode.StartByte():keyNode.EndByte()]
		}
		if name := firstPropertyIdentifier(node, source); name != "" {
			return name
		}
	case "public_field_definition":
		if name := firstPropertyIdentifier(node, source); name != "" {
			return name
		}
	case "property_signature":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			return source[nameNode.StartByte():nameNode.EndByte()]
		}
		if name := firstPropertyIdentifier(node, source); name != "" {
			return name
		}
	case "variable_declarator":
		if idNode := node.ChildByFieldName("id"); idNode != nil {
			return source[idNode.StartByte():idNode.EndByte()]
		}
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() == "variable_declarator" {
				if idNode := child.ChildByFieldName("id"); idNode != nil {
					return source[idNode.StartByte():idNode.EndByte()]
				}
			}
		}
	case "import_statement", "export_statement":
		if sourceNode := node.ChildByFieldName("source"); sourceNode != nil {
			return strings.Trim(source[sourceNode.StartByte():sourceNode.EndByte()], `"'`)
		}
	case "arrow_function", "function_expression":
		return anonymousFunctionName(node, source)
	case "comment":
		return commentSummary(source[node.StartByte():node.EndByte()])
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == "identifier" {
			return source[child.StartByte():child.EndByte()]
		}
	}
	return ""
}

func firstPropertyIdentifier(node *sitter.Node, source string) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == "property_identifier" {
			return source[child.StartByte():child.EndByte()]
		}
	}
	return ""
}

func anonymousFunctionName(node *sitter.Node, source string) string {
	parent := node.Parent()
	if parent == nil {
		return "anonymous"
	}
	switch parent.Type() {
	case "variable_declarator":
		if idNode := parent.ChildByFieldName("id"); idNode != nil {
			return source[idNode.StartByte():idNode.EndByte()]
		}
	case "pair", "method_definition":
		if keyNode := parent.ChildByFieldName("key"); keyNode != nil {
			return source[keyNode.StartByte():keyNode.EndByte()]
		}
	case "assignment_expression":
		if leftNode := parent.ChildByFieldName("left"); leftNode != nil {
			if leftNode.Type() == "member_expression" {
				if propNode := leftNode.ChildByFieldName("property"); propNode != nil {
					return source[propNode.StartByte():propNode.EndByte()]
				}
			}
			return source[leftNode.StartByte():leftNode.EndByte()]
		}
	case "public_field_definition":
		if name := firstPropertyIdentifier(parent, source); name != "" {
			return name
		}
	}
	return "anonymous"
}

func commentSummary(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "//")
	trimmed = strings.TrimPrefix(trimmed, "/*")
	trimmed = strings.TrimSuffix(trimmed, "*/")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, "*"))
}

// IsExported treats PascalCase identifiers as the module's public API
// surface, a convention rather than a language rule.
func (c *Config) IsExported(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

// Expand splits destructuring declarators and multi-binding
// import/export statements into one block per bound name.
func (c *Config) Expand(node *sitter.Node, source string, kind block.Kind) []base.NamedNode {
	switch node.Type() {
	case "variable_declaration", "lexical_declaration":
		return c.expandDeclaration(node, source)
	case "import_statement":
		return c.expandImport(node, source)
	case "export_statement":
		return c.expandExport(node, source)
	default:
		return nil
	}
}

func (c *Config) expandDeclaration(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == "variable_declarator" {
			named = append(named, c.expandDeclarator(child, source)...)
		}
	}
	return named
}

func (c *Config) expandDeclarator(node *sitter.Node, source string) []base.NamedNode {
	idNode := node.ChildByFieldName("id")
	if idNode == nil {
		return nil
	}
	switch idNode.Type() {
	case "array_pattern":
		return patternIdentifiers(idNode, source)
	case "object_pattern":
		return objectPatternIdentifiers(idNode, source)
	default:
		return nil
	}
}

func patternIdentifiers(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == "identifier" {
			named = append(named, base.NamedNode{Node: child, Name: source[child.StartByte():child.EndByte()]})
		}
	}
	return named
}

func objectPatternIdentifiers(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "shorthand_property_identifier", "shorthand_property_identifier_pattern":
			named = append(named, base.NamedNode{Node: child, Name: source[child.StartByte():child.EndByte()]})
		case "pair", "pair_pattern":
			if valueNode := child.ChildByFieldName("value"); valueNode != nil && valueNode.Type() == "identifier" {
				named = append(named, base.NamedNode{Node: valueNode, Name: source[valueNode.StartByte():valueNode.EndByte()]})
			}
		}
	}
	return named
}

func (c *Config) expandImport(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "import_clause", "named_imports":
			named = append(named, c.expandImport(child, source)...)
		case "import_specifier":
			named = append(named, namedBinding(child, source))
		case "namespace_import":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil {
				named = append(named, base.NamedNode{Node: child, Name: source[nameNode.StartByte():nameNode.EndByte()]})
			}
		}
	}
	return named
}

func (c *Config) expandExport(node *sitter.Node, source string) []base.NamedNode {
	var named []base.NamedNode
	for i := 0; i < int(node.ChildCount()); i++ {
		switch child := node.Child(i); child.Type() {
		case "export_clause":
			named = append(named, c.expandExport(child, source)...)
		case "export_specifier":
			named = append(named, namedBinding(child, source))
		}
	}
	return named
}

func namedBinding(node *sitter.Node, source string) base.NamedNode {
	if alias := node.ChildByFieldName("alias"); alias != nil {
		return base.NamedNode{Node: node, Name: source[alias.StartByte():alias.EndByte()]}
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return base.NamedNode{Node: node, Name: source[nameNode.StartByte():nameNode.EndByte()]}
	}
	return base.NamedNode{Node: node, Name: ""}
}

// CallTarget recognizes TypeScript call expressions.
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
	case "member_expression":
		if prop := fn.ChildByFieldName("property"); prop != nil {
			return source[prop.StartByte():prop.EndByte()], true
		}
	}
	return "", false
}

// effectfulCalls shares JavaScript's effectful-call surface: TypeScript
// compiles to the same runtime calls, so the same names indicate the same
// observable effects.
var effectfulCalls = map[string]block.SideEffectType{
	"log":       block.SideEffectConsoleIO,
	"warn":      block.SideEffectConsoleIO,
	"error":     block.SideEffectConsoleIO,
	"readFile":  block.SideEffectFileIO,
	"writeFile": block.SideEffectFileIO,
	"fetch":     block.SideEffectNetworkIO,
	"get":       block.SideEffectNetworkIO,
	"post":      block.SideEffectNetworkIO,
}

// ScanSideEffects walks node's subtree for recognized effectful calls.
func (c *Config) ScanSideEffects(node *sitter.Node, source string) []block.SideEffect {
	var effects []block.SideEffect
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "call_expression" {
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
