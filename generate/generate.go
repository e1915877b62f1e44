// Package generate implements the hierarchical generator (spec.md §4.6):
// turn a container's stored blocks back into target-language source text
// by walking the parent/child tree in dependency order and rendering each
// block through the template engine.
package generate

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/graph"
	"github.com/oxhq/codegraph/template"
)

// ErrCycle is returned when the block/import dependency graph cannot be
// topologically sorted.
var ErrCycle = errors.New("generate: circular dependency")

// Status is the terminal state of one generation run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Formatter runs an external, language-specific source formatter (e.g.
// gofmt) over generated code. A Formatter failure is ignored: the
// unformatted output is kept and FormattingApplied stays false --
// formatting is cosmetic, never fatal (spec.md §4.6 point 7).
type Formatter func(language, code string) (string, error)

// Result is one container's generation outcome.
type Result struct {
	ContainerID       string
	Status            Status
	TotalBlocks       int
	DependencyOrder   []uuid.UUID
	ImportsGenerated  int
	CodeSections      int
	GeneratedCode     string
	FormattingApplied bool
	QualityScore      float64
	ErrorMessage      string
}

// Generator renders a container's blocks into source text.
type Generator struct {
	store     *graph.Store
	engine    *template.Engine
	formatter Formatter
}

// New builds a Generator. formatter may be nil, in which case formatting
// is always reported as not applied.
func New(store *graph.Store, engine *template.Engine, formatter Formatter) *Generator {
	return &Generator{store: store, engine: engine, formatter: formatter}
}

// GenerateHierarchical runs the full six-step algorithm from spec.md §4.6
// against one container.
func (g *Generator) GenerateHierarchical(ctx context.Context, containerID string) (*Result, error) {
	container, err := g.store.GetContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	blocks, err := g.store.GetBlocksByContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}

	if !g.engine.Registered(container.Language) {
		return nil, fmt.Errorf("generate: %w: %q", template.ErrUnregisteredLanguage, container.Language)
	}

	result := &Result{ContainerID: containerID, TotalBlocks: len(blocks)}

	h := buildHierarchy(blocks)

	order, err := topoSort(h)
	if err != nil {
		return nil, err
	}
	result.DependencyOrder = make([]uuid.UUID, len(order))
	for i, b := range order {
		result.DependencyOrder[i] = b.ID
	}

	importLines, importCount := generateImports(g.engine, order, container.Language)
	result.ImportsGenerated = importCount

	var sections []string
	for _, rootID := range h.rootOrder {
		root := h.blocks[rootID]
		if root.Kind == block.KindImport {
			continue
		}
		sections = append(sections, renderWithChildren(g.engine, h, root, container.Language, 0))
	}
	result.CodeSections = len(sections)

	code := assemble(container.Language, importLines, sections)

	if g.formatter != nil {
		if formatted, ferr := g.formatter(container.Language, code); ferr == nil {
			code = formatted
			result.FormattingApplied = true
		}
	}
	result.GeneratedCode = code
	result.QualityScore = qualityScore(result)

	if result.GeneratedCode != "" && result.QualityScore >= 0.8 {
		result.Status = StatusCompleted
	} else {
		result.Status = StatusFailed
		result.ErrorMessage = fmt.Sprintf("quality score %.2f below 0.8 threshold", result.QualityScore)
	}

	return result, nil
}

// hierarchy is the in-memory parent/child view of one container's blocks,
// built fresh per generation run rather than persisted (spec.md §9's
// "children derived not stored" design note).
type hierarchy struct {
	blocks    map[uuid.UUID]*block.Block
	children  map[uuid.UUID][]uuid.UUID
	rootOrder []uuid.UUID
}

func buildHierarchy(blocks []*block.Block) *hierarchy {
	h := &hierarchy{
		blocks:   make(map[uuid.UUID]*block.Block, len(blocks)),
		children: make(map[uuid.UUID][]uuid.UUID),
	}
	for _, b := range blocks {
		h.blocks[b.ID] = b
	}
	for _, b := range blocks {
		if b.StructuralContext.ParentBlock != nil {
			parentID := *b.StructuralContext.ParentBlock
			h.children[parentID] = append(h.children[parentID], b.ID)
		} else {
			h.rootOrder = append(h.rootOrder, b.ID)
		}
	}

	h.sortByPosition(h.rootOrder)
	for parentID := range h.children {
		h.sortByPosition(h.children[parentID])
	}
	return h
}

// sortByPosition orders sibling ids by their recorded position_in_parent
// index, falling back to start line then start column -- the Open
// Question 3 sibling tie-break (SPEC_FULL.md §9).
func (h *hierarchy) sortByPosition(ids []uuid.UUID) {
	sort.SliceStable(ids, func(i, j int) bool {
		bi, bj := h.blocks[ids[i]], h.blocks[ids[j]]
		if bi.Position.Index != bj.Position.Index {
			return bi.Position.Index < bj.Position.Index
		}
		if bi.Position.StartLine != bj.Position.StartLine {
			return bi.Position.StartLine < bj.Position.StartLine
		}
		return bi.Position.StartColumn < bj.Position.StartColumn
	})
}

// topoSort orders every block in h so parents precede children and import
// blocks precede every non-import block, breaking ties deterministically
// by original source position (spec.md §8's stability requirement).
func topoSort(h *hierarchy) ([]*block.Block, error) {
	adjacency := make(map[uuid.UUID][]uuid.UUID)
	indegree := make(map[uuid.UUID]int, len(h.blocks))
	for id := range h.blocks {
		indegree[id] = 0
	}

	addEdge := func(from, to uuid.UUID) {
		adjacency[from] = append(adjacency[from], to)
		indegree[to]++
	}

	for id, b := range h.blocks {
		if b.StructuralContext.ParentBlock != nil {
			if parent, ok := h.blocks[*b.StructuralContext.ParentBlock]; ok {
				addEdge(parent.ID, id)
			}
		}
	}

	var imports, nonImports []uuid.UUID
	for id, b := range h.blocks {
		if b.Kind == block.KindImport {
			imports = append(imports, id)
		} else {
			nonImports = append(nonImports, id)
		}
	}
	for _, imp := range imports {
		for _, other := range nonImports {
			addEdge(imp, other)
		}
	}

	var ready []uuid.UUID
	for id := range h.blocks {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	order := make([]*block.Block, 0, len(h.blocks))
	for len(ready) > 0 {
		h.sortByPosition(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, h.blocks[next])
		for _, to := range adjacency[next] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}

	if len(order) != len(h.blocks) {
		return nil, cycleError(h, indegree, adjacency)
	}
	return order, nil
}

// cycleError names two blocks on the cycle so callers get an actionable
// message instead of a bare "cycle detected".
func cycleError(h *hierarchy, indegree map[uuid.UUID]int, adjacency map[uuid.UUID][]uuid.UUID) error {
	var remaining []uuid.UUID
	for id, deg := range indegree {
		if deg > 0 {
			remaining = append(remaining, id)
		}
	}
	h.sortByPosition(remaining)
	if len(remaining) == 0 {
		return ErrCycle
	}
	a := h.blocks[remaining[0]]
	b := a
	for _, to := range adjacency[remaining[0]] {
		if indegree[to] > 0 {
			b = h.blocks[to]
			break
		}
	}
	return fmt.Errorf("%w: between %q and %q", ErrCycle, a.Identity.CanonicalName, b.Identity.CanonicalName)
}

// generateImports renders every import block, grouped stdlib/third_party/
// local with a blank line between non-empty groups (spec.md §4.6 point 3),
// and reports how many import lines were produced.
func generateImports(engine *template.Engine, order []*block.Block, language string) (lines []string, count int) {
	groups := map[string][]*block.Block{}
	for _, b := range order {
		if b.Kind != block.KindImport {
			continue
		}
		category := classifyImport(language, b.Identity.CanonicalName)
		groups[category] = append(groups[category], b)
	}
	for category := range groups {
		bucket := groups[category]
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].Identity.CanonicalName < bucket[j].Identity.CanonicalName
		})
	}

	for _, category := range []string{"stdlib", "third_party", "local"} {
		bucket := groups[category]
		if len(bucket) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		for _, b := range bucket {
			if text, ok := engine.Render(language, b); ok {
				lines = append(lines, text)
				count++
			}
		}
	}
	return lines, count
}

var pythonStdlib = map[string]bool{
	"os": true, "sys": true, "json": true, "re": true, "datetime": true,
	"collections": true, "itertools": true, "typing": true, "pathlib": true,
	"math": true, "functools": true, "io": true, "time": true,
}

// classifyImport buckets an import path into stdlib/third_party/local
// using the teacher-language's own conventions, grounded on
// original_source/src/phase2/hierarchical_generation.rs's classify_import.
func classifyImport(language, path string) string {
	switch language {
	case "python":
		root := strings.SplitN(path, ".", 2)[0]
		switch {
		case strings.HasPrefix(path, "."):
			return "local"
		case pythonStdlib[root]:
			return "stdlib"
		default:
			return "third_party"
		}
	case "rust":
		switch {
		case strings.HasPrefix(path, "std::") || strings.HasPrefix(path, "core::"):
			return "stdlib"
		case strings.HasPrefix(path, "crate::") || strings.HasPrefix(path, "super::") || strings.HasPrefix(path, "self::"):
			return "local"
		default:
			return "third_party"
		}
	case "javascript", "typescript":
		switch {
		case strings.HasPrefix(path, "."):
			return "local"
		case strings.HasPrefix(path, "@") || !strings.Contains(path, "/"):
			return "third_party"
		default:
			return "stdlib"
		}
	case "go":
		if strings.Contains(path, ".") {
			return "third_party"
		}
		return "stdlib"
	case "php":
		if strings.HasPrefix(path, "App\\") {
			return "local"
		}
		return "third_party"
	default:
		return "third_party"
	}
}

// renderWithChildren renders b then every child (in position order) one
// indentation level deeper, recursively. When b's tier-1 rendering reuses
// its captured OriginalText (block.CanReuseOriginalText), that span already
// contains the source text of every nested block, so children are not
// re-rendered underneath it -- doing so would duplicate their content in
// the generated output.
func renderWithChildren(engine *template.Engine, h *hierarchy, b *block.Block, language string, level int) string {
	text, _ := engine.Render(language, b)
	indented := template.Indent(text, strings.Repeat("    ", level))

	if b.CanReuseOriginalText() {
		return indented
	}

	parts := []string{indented}
	for _, childID := range h.children[b.ID] {
		child := h.blocks[childID]
		parts = append(parts, renderWithChildren(engine, h, child, language, level+1))
	}
	return strings.Join(parts, "\n")
}

// assemble joins a file header, the import block, and the rendered code
// sections into one source text, with a blank line between imports and
// code and between top-level sections.
func assemble(language string, imports []string, sections []string) string {
	var out strings.Builder
	if header := fileHeader(language); header != "" {
		out.WriteString(header)
		out.WriteString("\n")
	}
	for _, line := range imports {
		out.WriteString(line)
		out.WriteString("\n")
	}
	if len(imports) > 0 {
		out.WriteString("\n")
	}
	for i, section := range sections {
		out.WriteString(section)
		if i < len(sections)-1 {
			out.WriteString("\n\n")
		}
	}
	return out.String()
}

func fileHeader(language string) string {
	switch language {
	case "python":
		return "#!/usr/bin/env python3"
	case "rust":
		return "#![allow(unused)]"
	case "javascript":
		return "'use strict';"
	case "typescript":
		return "// TypeScript"
	default:
		return ""
	}
}

// qualityScore is the four-factor weighted score from spec.md §4.6:
// non-empty output 40%, imports generated 20%, sections emitted 20%,
// formatting applied 20%.
func qualityScore(r *Result) float64 {
	score := 0.0
	if r.GeneratedCode != "" {
		score += 0.4
	}
	if r.ImportsGenerated > 0 {
		score += 0.2
	}
	if r.CodeSections > 0 {
		score += 0.2
	}
	if r.FormattingApplied {
		score += 0.2
	}
	return score
}
