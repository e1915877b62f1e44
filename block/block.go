// Package block defines the in-memory semantic block model: the typed,
// language-agnostic record that every parser frontend produces and every
// template/generator consumes. Blocks carry enough structural and semantic
// metadata to be regenerated into source text without the original bytes.
package block

import (
	"github.com/google/uuid"
)

// Kind enumerates the structural categories a block can represent.
type Kind string

const (
	KindFunction    Kind = "function"
	KindClass       Kind = "class"
	KindInterface   Kind = "interface"
	KindStruct      Kind = "struct"
	KindEnum        Kind = "enum"
	KindVariable    Kind = "variable"
	KindImport      Kind = "import"
	KindExport      Kind = "export"
	KindModule      Kind = "module"
	KindNamespace   Kind = "namespace"
	KindMethod      Kind = "method"
	KindConstructor Kind = "constructor"
	KindTrait       Kind = "trait"
	KindConditional Kind = "conditional"
	KindLoop        Kind = "loop"
	KindSwitch      Kind = "switch"
	KindTryCatch    Kind = "try_catch"
	KindComment     Kind = "comment"
	KindTypeDef     Kind = "type_def"
	KindLambda      Kind = "lambda"
	KindClosure     Kind = "closure"
	KindMacro       Kind = "macro"
	KindDecorator   Kind = "decorator"
	KindAnnotation  Kind = "annotation"
	KindGeneric     Kind = "generic"
)

// Visibility mirrors the source language's access-control surface.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityPrivate   Visibility = "private"
	VisibilityProtected Visibility = "protected"
	VisibilityInternal  Visibility = "internal"
)

// PurityLevel records how confidently a block is believed to be free of
// side effects.
type PurityLevel string

const (
	PurityPure       PurityLevel = "pure"
	PurityLikelyPure PurityLevel = "likely_pure"
	PurityImpure     PurityLevel = "impure"
	PurityUnknown    PurityLevel = "unknown"
)

// Modifier captures a language modifier keyword (static, async, const, ...).
type Modifier string

// Identity holds the naming surface of a block: the name it was declared
// with, any aliases it is also known by, its fully-qualified path inside the
// container, and a stable hash of its signature used to detect structural
// drift across re-extractions.
type Identity struct {
	CanonicalName     string   `json:"canonical_name"`
	Aliases           []string `json:"aliases,omitempty"`
	FullyQualifiedName string  `json:"fully_qualified_name"`
	SignatureHash     string   `json:"signature_hash,omitempty"`
}

// BodyExtractionMethod names the technique used to capture a block's body
// text for later reconstruction.
type BodyExtractionMethod string

const (
	BodyExtractionVerbatim   BodyExtractionMethod = "verbatim"
	BodyExtractionMarker     BodyExtractionMethod = "marker"
	BodyExtractionStructural BodyExtractionMethod = "structural"
)

// BodyExtraction records how the original body text was captured, so the
// template engine's priority-1 path can decide whether it is safe to reuse.
type BodyExtraction struct {
	Method              BodyExtractionMethod `json:"method"`
	StartMarker         string                `json:"start_marker,omitempty"`
	PreserveIndentation bool                  `json:"preserve_indentation"`
}

// FormattingInfo captures the whitespace conventions observed in the
// original source, so regeneration can match them instead of imposing a
// single house style.
type FormattingInfo struct {
	Indentation string `json:"indentation"`
	LineEndings string `json:"line_endings"`
	Spacing     string `json:"spacing,omitempty"`
}

// ReconstructionHints tells the template engine how strongly to prefer the
// preserved original text over a semantically-regenerated rendering.
type ReconstructionHints struct {
	PreferOriginal  bool             `json:"prefer_original"`
	Template        string           `json:"template,omitempty"`
	ParameterPositions []int         `json:"parameter_positions,omitempty"`
	BodyExtraction  *BodyExtraction  `json:"body_extraction,omitempty"`
}

// SyntaxPreservation is the block's link back to the source text it was
// extracted from, plus enough metadata to decide whether that text is still
// trustworthy after a source-code elimination pass.
type SyntaxPreservation struct {
	OriginalText       string          `json:"original_text,omitempty"`
	NormalizedAST      string          `json:"normalized_ast,omitempty"`
	ReconstructionHints ReconstructionHints `json:"reconstruction_hints"`
	FormattingPreserved bool           `json:"formatting_preserved"`
	Formatting         FormattingInfo  `json:"formatting"`
}

// ScopeInfo is the lexical scope a block lives in.
type ScopeInfo string

const (
	ScopeModule   ScopeInfo = "module"
	ScopeClass    ScopeInfo = "class"
	ScopeFunction ScopeInfo = "function"
	ScopeBlock    ScopeInfo = "block"
)

// StructuralContext pins a block into its container's tree. ChildBlocks is
// derived at read time from ParentBlock pointers stored on the children
// (see Design Notes: "children are derived, not stored") and is populated
// here only as a convenience snapshot after a full-tree load.
type StructuralContext struct {
	ParentBlock      *uuid.UUID `json:"parent_block,omitempty"`
	ChildBlocks      []uuid.UUID `json:"child_blocks,omitempty"`
	InheritanceChain []string   `json:"inheritance_chain,omitempty"`
	Implements       []string   `json:"implements,omitempty"`
	Decorators       []string   `json:"decorators,omitempty"`
	Scope            ScopeInfo  `json:"scope"`
}

// Parameter describes one formal parameter of a function-like block.
type Parameter struct {
	Name         string `json:"name"`
	TypeAnnotation string `json:"type_annotation,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
	Variadic     bool   `json:"variadic,omitempty"`
}

// TypeInfo is a shallow type reference (parameter types, return types,
// field types) as recovered by the parser frontend. It intentionally does
// not attempt full type resolution across files.
type TypeInfo struct {
	Name       string     `json:"name"`
	Generic    bool       `json:"generic,omitempty"`
	TypeParams []TypeInfo `json:"type_params,omitempty"`
}

// EffectSeverity ranks how disruptive a detected side effect is believed to
// be to the block's purity.
type EffectSeverity string

const (
	EffectSeverityLow    EffectSeverity = "low"
	EffectSeverityMedium EffectSeverity = "medium"
	EffectSeverityHigh   EffectSeverity = "high"
)

// SideEffectType classifies the kind of effect a side-effect marker
// matched (file I/O, network I/O, console I/O, mutation, ...).
type SideEffectType string

const (
	SideEffectFileIO    SideEffectType = "file_io"
	SideEffectNetworkIO SideEffectType = "network_io"
	SideEffectConsoleIO SideEffectType = "console_io"
	SideEffectMutation  SideEffectType = "mutation"
	SideEffectAsync     SideEffectType = "async"
	SideEffectPanic     SideEffectType = "panic"
	SideEffectGlobal    SideEffectType = "global_state"
)

// SideEffect is one concrete detected effect, anchored to the line it was
// observed on.
type SideEffect struct {
	Type       SideEffectType `json:"type"`
	Line       int            `json:"line"`
	Detail     string         `json:"detail,omitempty"`
	Severity   EffectSeverity `json:"severity"`
	Confidence float64        `json:"confidence"`
}

// DependencyType classifies what a detected dependency refers to.
type DependencyType string

const (
	DependencyImport DependencyType = "import"
	DependencyCall   DependencyType = "call"
	DependencyGlobal DependencyType = "global"
)

// Dependency is a name this block depends on that was observed during
// extraction, pending resolution into a BlockRelationship.
type Dependency struct {
	Name string         `json:"name"`
	Type DependencyType `json:"type"`
}

// MutabilityInfo records whether a block mutates any state outside its own
// local scope.
type MutabilityInfo struct {
	MutatesParameters bool `json:"mutates_parameters"`
	MutatesGlobals    bool `json:"mutates_globals"`
	MutatesReceiver   bool `json:"mutates_receiver"`
}

// SideEffectAnalysis is the structured form of "detected side effects":
// purity classification, the effects found, what they depend on, and
// whether they mutate anything outside local scope.
type SideEffectAnalysis struct {
	Purity       PurityLevel    `json:"purity"`
	SideEffects  []SideEffect   `json:"side_effects,omitempty"`
	Dependencies []Dependency   `json:"dependencies,omitempty"`
	Mutability   MutabilityInfo `json:"mutability"`
}

// ComplexityMetrics is the fixed set of complexity measures spec.md §3
// requires for function-like blocks.
type ComplexityMetrics struct {
	CyclomaticComplexity int     `json:"cyclomatic_complexity"`
	CognitiveComplexity  int     `json:"cognitive_complexity"`
	LinesOfCode          int     `json:"lines_of_code"`
	NumberOfParameters   int     `json:"number_of_parameters"`
	NestingDepth         int     `json:"nesting_depth"`
	BranchingFactor      int     `json:"branching_factor"`
	MaintainabilityIndex float64 `json:"maintainability_index"`
}

// Variance expresses how a generic type parameter relates to subtyping.
type Variance string

const (
	VarianceInvariant     Variance = "invariant"
	VarianceCovariant     Variance = "covariant"
	VarianceContravariant Variance = "contravariant"
)

// ConstraintType classifies a generic constraint (bound, trait/interface
// implementation, default value, ...).
type ConstraintType string

const (
	ConstraintBound    ConstraintType = "bound"
	ConstraintTrait    ConstraintType = "trait"
	ConstraintDefault  ConstraintType = "default"
)

// GenericConstraint is one bound on a generic parameter.
type GenericConstraint struct {
	Type  ConstraintType `json:"type"`
	Value string         `json:"value"`
}

// GenericParameter is one type parameter of a generic block.
type GenericParameter struct {
	Name        string              `json:"name"`
	Constraints []GenericConstraint `json:"constraints,omitempty"`
	Variance    Variance            `json:"variance,omitempty"`
}

// GenericInfo is the structured generics metadata for a block.
type GenericInfo struct {
	Parameters []GenericParameter `json:"parameters"`
}

// HygieneLevel classifies how a macro expansion isolates its identifiers
// from the calling scope (relevant for Rust-style declarative/procedural
// macros).
type HygieneLevel string

const (
	HygieneUnhygienic HygieneLevel = "unhygienic"
	HygienePartial    HygieneLevel = "partial"
	HygieneFull       HygieneLevel = "full"
)

// MacroType classifies a macro definition or invocation.
type MacroType string

const (
	MacroDeclarative MacroType = "declarative"
	MacroProcedural  MacroType = "procedural"
	MacroAttribute   MacroType = "attribute"
	MacroDerive      MacroType = "derive"
)

// MacroParamType classifies one macro parameter's matcher fragment.
type MacroParamType string

// MacroParameter is one parameter of a macro definition.
type MacroParameter struct {
	Name string         `json:"name"`
	Type MacroParamType `json:"type,omitempty"`
}

// MacroInfo is the structured macro metadata for a block (Rust macro_rules!
// and proc-macro attributes, or analogous constructs in other languages).
type MacroInfo struct {
	Name     string           `json:"name"`
	Type     MacroType        `json:"type"`
	Hygiene  HygieneLevel     `json:"hygiene,omitempty"`
	Params   []MacroParameter `json:"params,omitempty"`
}

// DecoratorArgType classifies one decorator argument's literal kind.
type DecoratorArgType string

// DecoratorArgument is one argument passed to a decorator/attribute.
type DecoratorArgument struct {
	Value string           `json:"value"`
	Type  DecoratorArgType `json:"type,omitempty"`
}

// DecoratorInfo is the structured decorator/attribute/annotation metadata
// for a block (Python decorators, Java/C# annotations, Rust attributes).
type DecoratorInfo struct {
	Name      string              `json:"name"`
	Arguments []DecoratorArgument `json:"arguments,omitempty"`
}

// Metadata is the semantic payload attached to a block: everything a
// template needs to regenerate it without the original text, plus the
// richer structured extras (generics, macros, decorators, side effects)
// the original Rust engine captured.
type Metadata struct {
	Parameters         []Parameter          `json:"parameters,omitempty"`
	ReturnType         string               `json:"return_type,omitempty"`
	Throws             []string             `json:"throws,omitempty"`
	Visibility         Visibility           `json:"visibility"`
	Modifiers          []Modifier           `json:"modifiers,omitempty"`
	TypeAnnotations    []TypeInfo           `json:"type_annotations,omitempty"`
	Generics           *GenericInfo         `json:"generics,omitempty"`
	Macros             []MacroInfo          `json:"macros,omitempty"`
	Decorators         []DecoratorInfo      `json:"decorators,omitempty"`
	SideEffectAnalysis *SideEffectAnalysis  `json:"side_effect_analysis,omitempty"`
	ComplexityMetrics  *ComplexityMetrics   `json:"complexity_metrics,omitempty"`
}

// Position anchors a block to its coordinates in the original source and
// its dense index among siblings (used for tie-breaking during generation).
type Position struct {
	StartLine   int `json:"start_line"`
	EndLine     int `json:"end_line"`
	StartColumn int `json:"start_column"`
	EndColumn   int `json:"end_column"`
	Index       int `json:"index"`
}

// Block is the central semantic unit: one function, class, import,
// variable, control-flow construct, or comment recovered from a source
// file, carrying enough identity, structural, and semantic information to
// be regenerated without its OriginalText.
type Block struct {
	ID                 uuid.UUID           `json:"id"`
	Kind               Kind                `json:"kind"`
	SourceLanguage     string              `json:"source_language"`
	Identity           Identity            `json:"identity"`
	SyntaxPreservation SyntaxPreservation  `json:"syntax_preservation"`
	StructuralContext  StructuralContext   `json:"structural_context"`
	SemanticMetadata   Metadata            `json:"semantic_metadata"`
	Position           Position            `json:"position"`
}

// New creates a fresh Block with a stable identifier and the minimal
// identity/position placeholders every block needs before builder methods
// fill in the rest.
func New(kind Kind, canonicalName, language string) *Block {
	return &Block{
		ID:             uuid.New(),
		Kind:           kind,
		SourceLanguage: language,
		Identity: Identity{
			CanonicalName:      canonicalName,
			FullyQualifiedName: canonicalName,
		},
		SyntaxPreservation: SyntaxPreservation{
			ReconstructionHints: ReconstructionHints{},
		},
		StructuralContext: StructuralContext{
			Scope: ScopeModule,
		},
		SemanticMetadata: Metadata{
			Visibility: VisibilityPublic,
		},
	}
}

// Equal reports whether two blocks share an identifier. Identity equality,
// not deep equality, is the block model's notion of sameness (Invariant:
// Identifier stability).
func (b *Block) Equal(other *Block) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.ID == other.ID
}

// WithAliases appends alternate names this block is also known by.
func (b *Block) WithAliases(aliases ...string) *Block {
	b.Identity.Aliases = append(b.Identity.Aliases, aliases...)
	return b
}

// WithFullyQualifiedName overrides the default (canonical-name-only)
// fully-qualified name once the container/parent chain is known.
func (b *Block) WithFullyQualifiedName(fqn string) *Block {
	b.Identity.FullyQualifiedName = fqn
	return b
}

// WithSignatureHash stamps the content hash used to detect structural
// drift across re-extractions.
func (b *Block) WithSignatureHash(hash string) *Block {
	b.Identity.SignatureHash = hash
	return b
}

// WithOriginalText attaches the verbatim source text this block was
// extracted from and marks formatting as preserved.
func (b *Block) WithOriginalText(text string, formatting FormattingInfo) *Block {
	b.SyntaxPreservation.OriginalText = text
	b.SyntaxPreservation.Formatting = formatting
	b.SyntaxPreservation.FormattingPreserved = true
	b.SyntaxPreservation.ReconstructionHints.PreferOriginal = true
	return b
}

// WithBodyExtraction records how the block's body text was captured.
func (b *Block) WithBodyExtraction(method BodyExtractionMethod, startMarker string, preserveIndentation bool) *Block {
	b.SyntaxPreservation.ReconstructionHints.BodyExtraction = &BodyExtraction{
		Method:              method,
		StartMarker:         startMarker,
		PreserveIndentation: preserveIndentation,
	}
	return b
}

// WithPosition sets the block's source coordinates and sibling index.
func (b *Block) WithPosition(p Position) *Block {
	b.Position = p
	return b
}

// WithParent records this block's parent and the lexical scope it lives in.
func (b *Block) WithParent(parent uuid.UUID, scope ScopeInfo) *Block {
	b.StructuralContext.ParentBlock = &parent
	b.StructuralContext.Scope = scope
	return b
}

// WithInheritance sets the inheritance chain and interface list for a
// class/interface-kind block.
func (b *Block) WithInheritance(chain, implements []string) *Block {
	b.StructuralContext.InheritanceChain = chain
	b.StructuralContext.Implements = implements
	return b
}

// WithDecorators attaches decorator/attribute/annotation names in their
// plain-string form (structural context) -- richer per-decorator argument
// data goes through WithDecoratorInfo.
func (b *Block) WithDecorators(names ...string) *Block {
	b.StructuralContext.Decorators = append(b.StructuralContext.Decorators, names...)
	return b
}

// WithParameters sets the function-like block's formal parameters.
func (b *Block) WithParameters(params ...Parameter) *Block {
	b.SemanticMetadata.Parameters = params
	return b
}

// WithReturnType sets the function-like block's return type annotation.
func (b *Block) WithReturnType(returnType string) *Block {
	b.SemanticMetadata.ReturnType = returnType
	return b
}

// WithThrows sets the checked/declared exception types a block may raise.
func (b *Block) WithThrows(types ...string) *Block {
	b.SemanticMetadata.Throws = types
	return b
}

// WithVisibility overrides the default (public) visibility.
func (b *Block) WithVisibility(v Visibility) *Block {
	b.SemanticMetadata.Visibility = v
	return b
}

// WithModifiers sets the block's modifier keywords (static, async, const).
func (b *Block) WithModifiers(mods ...Modifier) *Block {
	b.SemanticMetadata.Modifiers = mods
	return b
}

// WithTypeAnnotations sets the block's recovered type references.
func (b *Block) WithTypeAnnotations(types ...TypeInfo) *Block {
	b.SemanticMetadata.TypeAnnotations = types
	return b
}

// WithGenerics attaches generic type parameter metadata.
func (b *Block) WithGenerics(info GenericInfo) *Block {
	b.SemanticMetadata.Generics = &info
	return b
}

// WithMacros attaches macro definition/invocation metadata.
func (b *Block) WithMacros(macros ...MacroInfo) *Block {
	b.SemanticMetadata.Macros = macros
	return b
}

// WithDecoratorInfo attaches structured decorator/attribute metadata
// (name plus arguments), distinct from the plain-string names stored on
// StructuralContext.Decorators.
func (b *Block) WithDecoratorInfo(decorators ...DecoratorInfo) *Block {
	b.SemanticMetadata.Decorators = decorators
	return b
}

// WithSideEffects attaches the structured side-effect analysis for this
// block, computed by the parser frontend's body scanner.
func (b *Block) WithSideEffects(analysis SideEffectAnalysis) *Block {
	b.SemanticMetadata.SideEffectAnalysis = &analysis
	return b
}

// WithComplexity attaches the block's complexity metrics.
func (b *Block) WithComplexity(metrics ComplexityMetrics) *Block {
	b.SemanticMetadata.ComplexityMetrics = &metrics
	return b
}

// HasGenerics reports whether generic type parameter metadata is present.
func (b *Block) HasGenerics() bool {
	return b.SemanticMetadata.Generics != nil && len(b.SemanticMetadata.Generics.Parameters) > 0
}

// HasSideEffects reports whether any side effect was detected for this
// block.
func (b *Block) HasSideEffects() bool {
	return b.SemanticMetadata.SideEffectAnalysis != nil && len(b.SemanticMetadata.SideEffectAnalysis.SideEffects) > 0
}

// IsPure reports whether the block's purity analysis classifies it as pure.
func (b *Block) IsPure() bool {
	if b.SemanticMetadata.SideEffectAnalysis == nil {
		return false
	}
	return b.SemanticMetadata.SideEffectAnalysis.Purity == PurityPure
}

// GetPurityLevel returns the block's purity classification, or
// PurityUnknown if no analysis has been attached.
func (b *Block) GetPurityLevel() PurityLevel {
	if b.SemanticMetadata.SideEffectAnalysis == nil {
		return PurityUnknown
	}
	return b.SemanticMetadata.SideEffectAnalysis.Purity
}

// GetSideEffects returns the detected side effects, or nil if none.
func (b *Block) GetSideEffects() []SideEffect {
	if b.SemanticMetadata.SideEffectAnalysis == nil {
		return nil
	}
	return b.SemanticMetadata.SideEffectAnalysis.SideEffects
}

// GetDependencies returns the names this block depends on, or nil if none
// were recorded.
func (b *Block) GetDependencies() []Dependency {
	if b.SemanticMetadata.SideEffectAnalysis == nil {
		return nil
	}
	return b.SemanticMetadata.SideEffectAnalysis.Dependencies
}

// GetComplexityScore returns the cyclomatic complexity, or 0 if no metrics
// were attached.
func (b *Block) GetComplexityScore() int {
	if b.SemanticMetadata.ComplexityMetrics == nil {
		return 0
	}
	return b.SemanticMetadata.ComplexityMetrics.CyclomaticComplexity
}

// CanReuseOriginalText reports whether the template engine's priority-1
// path (preserved original text) is usable for this block: original text
// must be present and reconstruction must not have been forced to prefer
// regeneration (e.g. because a semantic enhancement pass rewrote fields
// the original text no longer reflects).
func (b *Block) CanReuseOriginalText() bool {
	return b.SyntaxPreservation.ReconstructionHints.PreferOriginal &&
		b.SyntaxPreservation.OriginalText != ""
}

// ClearOriginalText drops the preserved source text, the step the
// migration engine's elimination phase performs once a container's blocks
// have cleared the validation gate. The block remains regenerable from its
// semantic metadata alone.
func (b *Block) ClearOriginalText() {
	b.SyntaxPreservation.OriginalText = ""
	b.SyntaxPreservation.ReconstructionHints.PreferOriginal = false
}
