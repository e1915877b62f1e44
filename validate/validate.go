// Package validate implements the round-trip validator (spec.md §4.7):
// the accuracy metrics and store checks behind the migration engine's
// validation gate (SampleAccuracy) and the CLI's `round-trip` subcommand
// (Accuracy, FormattingVariance).
package validate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/graph"
	"github.com/oxhq/codegraph/parser"
	"github.com/oxhq/codegraph/template"
)

// Thresholds and sampling defaults from spec.md §4.7/§4.8.
const (
	AccuracyThreshold           = 0.995
	FormattingVarianceThreshold = 0.05
	FormattingPreservationRate  = 0.95
	MinLanguageCoverage         = 10
	DefaultSampleSize           = 200
	FormattingSampleSize        = 20
)

// Report is the outcome of one validator check.
type Report struct {
	Passed  bool
	Score   float64
	Detail  string
	Samples int
}

// Accuracy is the line-match round-trip accuracy metric (spec.md §4.7):
// the fraction of non-blank trimmed lines shared between original and
// regenerated text, at matching positions, over the longer of the two.
func Accuracy(original, regenerated string) float64 {
	origLines := nonBlankTrimmedLines(original)
	genLines := nonBlankTrimmedLines(regenerated)

	max := len(origLines)
	if len(genLines) > max {
		max = len(genLines)
	}
	if max == 0 {
		return 1.0
	}

	matches := 0
	for i := 0; i < len(origLines) && i < len(genLines); i++ {
		if origLines[i] == genLines[i] {
			matches++
		}
	}
	return float64(matches) / float64(max)
}

func nonBlankTrimmedLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// FormattingVariance compares non-whitespace character counts (spec.md
// §4.7): variance = |Δ| ÷ max.
func FormattingVariance(original, regenerated string) float64 {
	origChars := countNonWhitespace(original)
	genChars := countNonWhitespace(regenerated)

	max := origChars
	if genChars > max {
		max = genChars
	}
	if max == 0 {
		return 0.0
	}
	diff := origChars - genChars
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(max)
}

func countNonWhitespace(text string) int {
	n := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// Validator runs the round-trip validation suite against a graph store,
// a parser registry, and a template engine.
type Validator struct {
	store    *graph.Store
	engine   *template.Engine
	registry *parser.Registry
}

// New builds a Validator.
func New(store *graph.Store, engine *template.Engine, registry *parser.Registry) *Validator {
	return &Validator{store: store, engine: engine, registry: registry}
}

// SampleAccuracy draws a uniform random sample of containers that still
// hold original text, re-parses and re-renders each, and reports the
// aggregate pass rate as Score; each failing container's error, or its
// accuracy and a unified diff, is listed in Detail (spec.md §4.7 sampling
// protocol).
func (v *Validator) SampleAccuracy(ctx context.Context, sampleSize int) (*Report, error) {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	containers, err := v.store.ListContainers(ctx)
	if err != nil {
		return nil, err
	}

	var withSource []*block.Container
	for _, c := range containers {
		if c.HasSourceCode() {
			withSource = append(withSource, c)
		}
	}

	sample := uniformSample(withSource, sampleSize)

	passed := 0
	var failures []string
	for _, c := range sample {
		accuracy, regenerated, err := v.roundTripAccuracyDetailed(c)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", c.ID, err))
			continue
		}
		if accuracy >= AccuracyThreshold {
			passed++
		} else {
			failures = append(failures, fmt.Sprintf("%s: accuracy %.4f\n%s", c.ID, accuracy, unifiedDiff(c.SourceCode, regenerated, c.OriginalPath)))
		}
	}

	total := len(sample)
	aggregate := 0.0
	if total > 0 {
		aggregate = float64(passed) / float64(total)
	}

	return &Report{
		Passed:  total > 0 && aggregate >= AccuracyThreshold,
		Score:   aggregate,
		Detail:  strings.Join(failures, "; "),
		Samples: total,
	}, nil
}

// roundTripAccuracy parses c's stored source text and renders the result
// back through the template engine without persisting anything, per
// spec.md §4.7's "parse → assemble blocks (without persisting) → render"
// protocol.
func (v *Validator) roundTripAccuracy(c *block.Container) (float64, error) {
	accuracy, _, err := v.roundTripAccuracyDetailed(c)
	return accuracy, err
}

// roundTripAccuracyDetailed is roundTripAccuracy plus the regenerated text,
// so callers building failure reports can render a unified diff.
func (v *Validator) roundTripAccuracyDetailed(c *block.Container) (float64, string, error) {
	frontend, ok := v.registry.Get(c.Language)
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrNoFrontend, c.Language)
	}
	result, err := frontend.Parse(c.OriginalPath, c.SourceCode)
	if err != nil {
		return 0, "", err
	}
	if len(result.Blocks) == 0 {
		return 0, "", ErrEmptyParse
	}

	var regenerated strings.Builder
	for _, b := range result.Blocks {
		if b.StructuralContext.ParentBlock != nil {
			continue
		}
		text, _ := v.engine.Render(c.Language, b)
		regenerated.WriteString(text)
		regenerated.WriteString("\n")
	}

	return Accuracy(c.SourceCode, regenerated.String()), regenerated.String(), nil
}

// unifiedDiff renders a unified diff between the original and regenerated
// text for a failing sample's detail message.
func unifiedDiff(original, regenerated, path string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(regenerated),
		FromFile: path + " (original)",
		ToFile:   path + " (regenerated)",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return text
}

// uniformSample draws up to n elements from items without replacement,
// preserving no particular order (spec.md §4.7: "uniform random sample").
func uniformSample(items []*block.Container, n int) []*block.Container {
	if n >= len(items) {
		return items
	}
	shuffled := make([]*block.Container, len(items))
	copy(shuffled, items)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	return shuffled[:n]
}

// SchemaAlignment checks that the tables/columns spec.md §6 requires are
// present on the connected database.
func (v *Validator) SchemaAlignment(ctx context.Context) *Report {
	type requirement struct {
		model any
		field string
	}
	requirements := []requirement{
		{&graph.Container{}, "SourceCode"},
		{&graph.Block{}, "ParentBlockID"},
		{&graph.Block{}, "PositionInParent"},
		{&graph.Block{}, "AbstractSyntax"},
		{&graph.Block{}, "Metadata"},
	}

	migrator := v.store.DB().Migrator()
	var missing []string
	for _, req := range requirements {
		if !migrator.HasColumn(req.model, req.field) {
			missing = append(missing, fmt.Sprintf("%T.%s", req.model, req.field))
		}
	}

	return &Report{
		Passed: len(missing) == 0,
		Score:  boolScore(len(missing) == 0),
		Detail: strings.Join(missing, ", "),
	}
}

// canonicalSnippets holds one minimal, valid snippet per supported
// language, used to confirm each parser frontend is operational.
var canonicalSnippets = map[string]struct{ path, source string }{
	"go":         {"health.go", "package main\n\nfunc hello() string {\n\treturn \"world\"\n}\n"},
	"python":     {"health.py", "def hello():\n    return 'world'\n"},
	"rust":       {"health.rs", "fn hello() -> &'static str {\n    \"world\"\n}\n"},
	"javascript": {"health.js", "function hello() {\n  return 'world';\n}\n"},
	"typescript": {"health.ts", "function hello(): string {\n  return 'world';\n}\n"},
	"php":        {"health.php", "<?php\nfunction hello() {\n    return 'world';\n}\n"},
}

// ParserHealth checks that every registered language parses its canonical
// snippet into at least one block.
func (v *Validator) ParserHealth() *Report {
	var failures []string
	checked := 0
	for _, language := range v.registry.Languages() {
		snippet, ok := canonicalSnippets[language]
		if !ok {
			continue
		}
		checked++
		frontend, _ := v.registry.Get(language)
		result, err := frontend.Parse(snippet.path, snippet.source)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", language, err))
			continue
		}
		if len(result.Blocks) == 0 {
			failures = append(failures, fmt.Sprintf("%s: parsed zero blocks", language))
		}
	}

	return &Report{
		Passed:  len(failures) == 0,
		Score:   boolScore(len(failures) == 0),
		Detail:  strings.Join(failures, "; "),
		Samples: checked,
	}
}

// minimalKinds is the set of block kinds exercised by TemplateCoverage --
// the ones spec.md's generator and validator name explicitly.
var minimalKinds = []block.Kind{
	block.KindFunction, block.KindClass, block.KindVariable, block.KindImport, block.KindComment,
	block.KindInterface, block.KindTypeDef, block.KindExport, block.KindConditional, block.KindLoop,
	block.KindTryCatch, block.KindModule, block.KindStruct, block.KindEnum, block.KindNamespace,
	block.KindMethod, block.KindConstructor, block.KindTrait, block.KindSwitch, block.KindLambda,
	block.KindClosure, block.KindMacro, block.KindDecorator, block.KindAnnotation, block.KindGeneric,
}

// TemplateCoverage checks that every (language, block kind) pair the
// engine knows about renders a minimal test block into non-empty text.
func (v *Validator) TemplateCoverage() *Report {
	var failures []string
	checked := 0
	for _, language := range v.engine.Languages() {
		for _, kind := range minimalKinds {
			checked++
			b := block.New(kind, "validation_probe", language)
			text, ok := v.engine.Render(language, b)
			if !ok || text == "" {
				failures = append(failures, fmt.Sprintf("%s/%s", language, kind))
			}
		}
	}

	return &Report{
		Passed:  len(failures) == 0,
		Score:   boolScore(len(failures) == 0),
		Detail:  strings.Join(failures, ", "),
		Samples: checked,
	}
}

// LanguageCoverage checks that each language present in the corpus has at
// least MinLanguageCoverage containers with original text still attached.
func (v *Validator) LanguageCoverage(ctx context.Context) (*Report, error) {
	containers, err := v.store.ListContainers(ctx)
	if err != nil {
		return nil, err
	}

	counts := map[string]int{}
	for _, c := range containers {
		if c.HasSourceCode() {
			counts[c.Language]++
		}
	}

	var short []string
	for lang, count := range counts {
		if count < MinLanguageCoverage {
			short = append(short, fmt.Sprintf("%s: %d/%d", lang, count, MinLanguageCoverage))
		}
	}

	return &Report{
		Passed: len(short) == 0,
		Score:  boolScore(len(short) == 0),
		Detail: strings.Join(short, ", "),
	}, nil
}

// BlockKindReconstruction checks that for every block kind present in the
// store, at least one sample renders into non-empty text in some
// registered target language.
func (v *Validator) BlockKindReconstruction(ctx context.Context) (*Report, error) {
	containers, err := v.store.ListContainers(ctx)
	if err != nil {
		return nil, err
	}

	present := map[block.Kind]*block.Block{}
	for _, c := range containers {
		blocks, err := v.store.GetBlocksByContainer(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		for _, b := range blocks {
			if _, seen := present[b.Kind]; !seen {
				present[b.Kind] = b
			}
		}
	}

	var failures []string
	for kind, sample := range present {
		reconstructed := false
		for _, language := range v.engine.Languages() {
			if text, ok := v.engine.Render(language, sample); ok && text != "" {
				reconstructed = true
				break
			}
		}
		if !reconstructed {
			failures = append(failures, string(kind))
		}
	}

	return &Report{
		Passed:  len(failures) == 0,
		Score:   boolScore(len(failures) == 0),
		Detail:  strings.Join(failures, ", "),
		Samples: len(present),
	}, nil
}

// FormattingPreservation samples FormattingSampleSize containers and
// requires ≥ FormattingPreservationRate of them to have variance below
// FormattingVarianceThreshold.
func (v *Validator) FormattingPreservation(ctx context.Context) (*Report, error) {
	containers, err := v.store.ListContainers(ctx)
	if err != nil {
		return nil, err
	}

	var withSource []*block.Container
	for _, c := range containers {
		if c.HasSourceCode() {
			withSource = append(withSource, c)
		}
	}
	sample := uniformSample(withSource, FormattingSampleSize)

	acceptable := 0
	for _, c := range sample {
		frontend, ok := v.registry.Get(c.Language)
		if !ok {
			continue
		}
		result, err := frontend.Parse(c.OriginalPath, c.SourceCode)
		if err != nil || len(result.Blocks) == 0 {
			continue
		}
		var regenerated strings.Builder
		for _, b := range result.Blocks {
			if b.StructuralContext.ParentBlock != nil {
				continue
			}
			text, _ := v.engine.Render(c.Language, b)
			regenerated.WriteString(text)
			regenerated.WriteString("\n")
		}
		if FormattingVariance(c.SourceCode, regenerated.String()) < FormattingVarianceThreshold {
			acceptable++
		}
	}

	rate := 1.0
	if len(sample) > 0 {
		rate = float64(acceptable) / float64(len(sample))
	}

	return &Report{
		Passed:  rate >= FormattingPreservationRate,
		Score:   rate,
		Samples: len(sample),
	}, nil
}

// fixedFixtures are small known-good snippets the regression check parses
// and renders every run, independent of whatever happens to be in the
// store.
var fixedFixtures = []struct {
	language, path, source string
}{
	{"go", "fixture.go", "package main\n\nfunc add(a int, b int) int {\n\treturn a + b\n}\n"},
	{"python", "fixture.py", "def add(a, b):\n    return a + b\n"},
}

// RegressionCheck re-runs parsing and template rendering on fixed
// fixtures, independent of the current corpus, to catch a regression that
// sample-based checks might miss by chance.
func (v *Validator) RegressionCheck() *Report {
	var failures []string
	for _, fx := range fixedFixtures {
		frontend, ok := v.registry.Get(fx.language)
		if !ok {
			failures = append(failures, fmt.Sprintf("%s: no frontend registered", fx.language))
			continue
		}
		result, err := frontend.Parse(fx.path, fx.source)
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: parse failed: %v", fx.language, err))
			continue
		}
		if len(result.Blocks) == 0 {
			failures = append(failures, fmt.Sprintf("%s: parsed zero blocks", fx.language))
			continue
		}
		if text, ok := v.engine.Render(fx.language, result.Blocks[0]); !ok || text == "" {
			failures = append(failures, fmt.Sprintf("%s: render produced empty text", fx.language))
		}
	}

	return &Report{
		Passed: len(failures) == 0,
		Score:  boolScore(len(failures) == 0),
		Detail: strings.Join(failures, "; "),
	}
}

func boolScore(ok bool) float64 {
	if ok {
		return 1.0
	}
	return 0.0
}
