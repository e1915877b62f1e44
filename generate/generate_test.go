package generate

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/graph"
	"github.com/oxhq/codegraph/template/languages"
)

func setupTestStore(t *testing.T) *graph.Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&graph.Container{}, &graph.Block{}, &graph.BlockRelationship{}, &graph.Migration{}, &graph.SourceCodeBackup{}, &graph.MigrationLog{}))
	return graph.New(gdb)
}

func seedContainer(t *testing.T, store *graph.Store, language string, blocks []*block.Block) string {
	t.Helper()
	ctx := context.Background()
	containerID := uuid.NewString()
	require.NoError(t, store.InsertContainer(ctx, &block.Container{
		ID:           containerID,
		Name:         "sample",
		Language:     language,
		OriginalPath: "sample." + language,
	}))
	require.NoError(t, store.InsertBlocks(ctx, containerID, blocks))
	return containerID
}

func TestGenerateHierarchicalSimpleFunction(t *testing.T) {
	store := setupTestStore(t)
	engine := languages.NewDefaultEngine()

	fn := block.New(block.KindFunction, "Add", "go")
	fn.SemanticMetadata.Parameters = []block.Parameter{
		{Name: "a", TypeAnnotation: "int"},
		{Name: "b", TypeAnnotation: "int"},
	}
	fn.SemanticMetadata.ReturnType = "int"
	fn.WithOriginalText("func Add(a int, b int) int {\n\treturn a + b\n}", block.FormattingInfo{})

	containerID := seedContainer(t, store, "go", []*block.Block{fn})

	g := New(store, engine, nil)
	result, err := g.GenerateHierarchical(context.Background(), containerID)
	require.NoError(t, err)

	// No imports and no formatter: only the non-empty (0.4) and sections
	// (0.2) factors count, so the 0.6 score is below the 0.8 bar.
	assert.Equal(t, StatusFailed, result.Status)
	assert.Equal(t, 1, result.TotalBlocks)
	assert.Equal(t, 1, result.CodeSections)
	assert.Contains(t, result.GeneratedCode, "return a + b")
	assert.InDelta(t, 0.6, result.QualityScore, 1e-9)
}

func TestGenerateHierarchicalWithImportsAndChildren(t *testing.T) {
	store := setupTestStore(t)
	engine := languages.NewDefaultEngine()

	imp := block.New(block.KindImport, "fmt", "go")

	// class has no preserved OriginalText of its own, so renderWithChildren
	// falls through to template rendering and recurses into method.
	class := block.New(block.KindClass, "Greeter", "go")

	method := block.New(block.KindFunction, "Greet", "go")
	method.WithOriginalText("func Greet() string {\n\treturn \"hi\"\n}", block.FormattingInfo{})
	method.StructuralContext.ParentBlock = &class.ID
	method.Position.Index = 0

	containerID := seedContainer(t, store, "go", []*block.Block{imp, class, method})

	g := New(store, engine, nil)
	result, err := g.GenerateHierarchical(context.Background(), containerID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ImportsGenerated)
	assert.Equal(t, 1, result.CodeSections) // only the root class, method nested under it
	assert.Contains(t, result.GeneratedCode, `import "fmt"`)
	assert.Contains(t, result.GeneratedCode, "type Greeter")
	assert.Contains(t, result.GeneratedCode, "return \"hi\"")
}

// TestGenerateHierarchicalSkipsChildrenWhenParentOriginalTextContainsThem
// covers the case a real tree-sitter capture produces: a container block's
// OriginalText is the full source span, which already textually contains
// its nested child's span. renderWithChildren must not also render the
// child underneath it, or the child's distinguishing content would appear
// twice in the generated output.
func TestGenerateHierarchicalSkipsChildrenWhenParentOriginalTextContainsThem(t *testing.T) {
	store := setupTestStore(t)
	engine := languages.NewDefaultEngine()

	methodText := "func (g *Greeter) Greet() string {\n\treturn \"hi from greet\"\n}"
	classText := "type Greeter struct {\n\tName string\n}\n\n" + methodText

	class := block.New(block.KindClass, "Greeter", "go")
	class.WithOriginalText(classText, block.FormattingInfo{})

	method := block.New(block.KindMethod, "Greet", "go")
	method.WithOriginalText(methodText, block.FormattingInfo{})
	method.StructuralContext.ParentBlock = &class.ID
	method.Position.Index = 0

	containerID := seedContainer(t, store, "go", []*block.Block{class, method})

	g := New(store, engine, nil)
	result, err := g.GenerateHierarchical(context.Background(), containerID)
	require.NoError(t, err)

	occurrences := strings.Count(result.GeneratedCode, "return \"hi from greet\"")
	assert.Equal(t, 1, occurrences, "method body must appear exactly once, not duplicated via both parent span and child re-render")
}

func TestGenerateHierarchicalAppliesFormatter(t *testing.T) {
	store := setupTestStore(t)
	engine := languages.NewDefaultEngine()

	fn := block.New(block.KindFunction, "Run", "go")
	containerID := seedContainer(t, store, "go", []*block.Block{fn})

	called := false
	formatter := func(language, code string) (string, error) {
		called = true
		return "// formatted\n" + code, nil
	}

	g := New(store, engine, formatter)
	result, err := g.GenerateHierarchical(context.Background(), containerID)
	require.NoError(t, err)

	assert.True(t, called)
	assert.True(t, result.FormattingApplied)
	assert.Contains(t, result.GeneratedCode, "// formatted")
}

func TestGenerateHierarchicalFormatterFailureIsNonFatal(t *testing.T) {
	store := setupTestStore(t)
	engine := languages.NewDefaultEngine()

	fn := block.New(block.KindFunction, "Run", "go")
	containerID := seedContainer(t, store, "go", []*block.Block{fn})

	formatter := func(language, code string) (string, error) {
		return "", assert.AnError
	}

	g := New(store, engine, formatter)
	result, err := g.GenerateHierarchical(context.Background(), containerID)
	require.NoError(t, err)
	assert.False(t, result.FormattingApplied)
	assert.NotEmpty(t, result.GeneratedCode)
}

func TestTopoSortDetectsCycle(t *testing.T) {
	a := block.New(block.KindFunction, "a", "go")
	b := block.New(block.KindFunction, "b", "go")
	a.StructuralContext.ParentBlock = &b.ID
	b.StructuralContext.ParentBlock = &a.ID

	h := buildHierarchy([]*block.Block{a, b})
	_, err := topoSort(h)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestTopoSortOrdersParentsBeforeChildren(t *testing.T) {
	parent := block.New(block.KindClass, "Parent", "go")
	child := block.New(block.KindFunction, "Child", "go")
	child.StructuralContext.ParentBlock = &parent.ID

	h := buildHierarchy([]*block.Block{child, parent})
	order, err := topoSort(h)
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, parent.ID, order[0].ID)
	assert.Equal(t, child.ID, order[1].ID)
}

func TestTopoSortOrdersImportsFirst(t *testing.T) {
	imp := block.New(block.KindImport, "fmt", "go")
	fn := block.New(block.KindFunction, "main", "go")

	h := buildHierarchy([]*block.Block{fn, imp})
	order, err := topoSort(h)
	require.NoError(t, err)
	require.Len(t, order, 2)
	assert.Equal(t, imp.ID, order[0].ID)
	assert.Equal(t, fn.ID, order[1].ID)
}

func TestClassifyImportPython(t *testing.T) {
	assert.Equal(t, "stdlib", classifyImport("python", "os"))
	assert.Equal(t, "local", classifyImport("python", ".models"))
	assert.Equal(t, "third_party", classifyImport("python", "requests"))
}

func TestClassifyImportRust(t *testing.T) {
	assert.Equal(t, "stdlib", classifyImport("rust", "std::io"))
	assert.Equal(t, "local", classifyImport("rust", "crate::db"))
	assert.Equal(t, "third_party", classifyImport("rust", "serde"))
}

func TestClassifyImportJavaScript(t *testing.T) {
	assert.Equal(t, "local", classifyImport("javascript", "./utils"))
	assert.Equal(t, "third_party", classifyImport("javascript", "react"))
	assert.Equal(t, "stdlib", classifyImport("javascript", "node:fs/promises"))
}

func TestQualityScoreAllFactors(t *testing.T) {
	r := &Result{GeneratedCode: "x", ImportsGenerated: 1, CodeSections: 1, FormattingApplied: true}
	assert.Equal(t, 1.0, qualityScore(r))
}

func TestQualityScoreEmptyCode(t *testing.T) {
	r := &Result{}
	assert.Equal(t, 0.0, qualityScore(r))
}
