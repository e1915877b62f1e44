package block

import "github.com/google/uuid"

// RelationshipType classifies how one block refers to another.
type RelationshipType string

const (
	RelationshipCalls      RelationshipType = "calls"
	RelationshipUses       RelationshipType = "uses"
	RelationshipImports    RelationshipType = "imports"
	RelationshipExtends    RelationshipType = "extends"
	RelationshipImplements RelationshipType = "implements"
	RelationshipContains   RelationshipType = "contains"
	RelationshipTests      RelationshipType = "tests"
	RelationshipDependsOn  RelationshipType = "depends_on"
	RelationshipReads      RelationshipType = "reads"
	RelationshipWrites     RelationshipType = "writes"
	RelationshipThrows     RelationshipType = "throws"
	RelationshipCatches    RelationshipType = "catches"
	RelationshipReturns    RelationshipType = "returns"
)

// Relationship is a directed edge between two blocks (or, before
// resolution, between a block and a name hint that has not yet been
// matched to a block). Per the Open Question decision recorded in
// DESIGN.md, unresolved targets are persisted as name-only candidates
// rather than dropped.
type Relationship struct {
	ID             uuid.UUID        `json:"id"`
	SourceBlockID  uuid.UUID        `json:"source_block_id"`
	TargetBlockID  *uuid.UUID       `json:"target_block_id,omitempty"`
	TargetNameHint string           `json:"target_name_hint,omitempty"`
	Type           RelationshipType `json:"relationship_type"`
	Strength       *float64         `json:"strength,omitempty"`
	Bidirectional  bool             `json:"bidirectional,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
}

// Resolved reports whether this relationship's target has been matched to
// a concrete block.
func (r *Relationship) Resolved() bool {
	return r.TargetBlockID != nil
}

// Resolve attaches a concrete target block id, moving the relationship
// from name-hint-only to fully resolved.
func (r *Relationship) Resolve(target uuid.UUID) {
	r.TargetBlockID = &target
}
