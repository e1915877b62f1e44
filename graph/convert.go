package graph

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/oxhq/codegraph/block"
)

func marshalJSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func unmarshalJSON[T any](raw datatypes.JSON, out *T) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, out)
}

func containerToRow(c *block.Container) Container {
	return Container{
		ID:                    c.ID,
		Name:                  c.Name,
		ContainerType:         orDefault(c.ContainerType, "file"),
		Language:              c.Language,
		OriginalPath:          c.OriginalPath,
		OriginalHash:          c.OriginalHash,
		SourceCode:            c.SourceCode,
		Version:               orDefaultInt(c.Version, 1),
		SemanticSummary:       marshalJSON(c.SemanticSummary),
		ParsingMetadata:       marshalJSON(c.ParsingMetadata),
		FormattingPreferences: marshalJSON(c.FormattingPreferences),
		ReconstructionHints:   marshalJSON(c.ReconstructionHints),
	}
}

func rowToContainer(r Container) *block.Container {
	c := &block.Container{
		ID:            r.ID,
		Name:          r.Name,
		ContainerType: r.ContainerType,
		Language:      r.Language,
		OriginalPath:  r.OriginalPath,
		OriginalHash:  r.OriginalHash,
		SourceCode:    r.SourceCode,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	unmarshalJSON(r.SemanticSummary, &c.SemanticSummary)
	unmarshalJSON(r.ParsingMetadata, &c.ParsingMetadata)
	unmarshalJSON(r.FormattingPreferences, &c.FormattingPreferences)
	unmarshalJSON(r.ReconstructionHints, &c.ReconstructionHints)
	return c
}

func blockToRow(containerID string, b *block.Block) Block {
	var parentID *string
	if b.StructuralContext.ParentBlock != nil {
		s := b.StructuralContext.ParentBlock.String()
		parentID = &s
	}

	return Block{
		ID:                b.ID.String(),
		ContainerID:       containerID,
		BlockType:         string(b.Kind),
		SemanticName:      b.Identity.CanonicalName,
		ParentBlockID:     parentID,
		PositionInParent:  b.Position.Index,
		StartLine:         b.Position.StartLine,
		EndLine:           b.Position.EndLine,
		StartColumn:       b.Position.StartColumn,
		EndColumn:         b.Position.EndColumn,
		SourceLanguage:    b.SourceLanguage,
		Metadata:          marshalJSON(b.SemanticMetadata),
		SyntaxPreservation: marshalJSON(b.SyntaxPreservation),
		StructuralContext: marshalJSON(b.StructuralContext),
	}
}

func rowToBlock(r Block) (*block.Block, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}

	b := &block.Block{
		ID:             id,
		Kind:           block.Kind(r.BlockType),
		SourceLanguage: r.SourceLanguage,
		Identity: block.Identity{
			CanonicalName:      r.SemanticName,
			FullyQualifiedName: r.SemanticName,
		},
		Position: block.Position{
			StartLine:   r.StartLine,
			EndLine:     r.EndLine,
			StartColumn: r.StartColumn,
			EndColumn:   r.EndColumn,
			Index:       r.PositionInParent,
		},
	}

	unmarshalJSON(r.Metadata, &b.SemanticMetadata)
	unmarshalJSON(r.SyntaxPreservation, &b.SyntaxPreservation)
	unmarshalJSON(r.StructuralContext, &b.StructuralContext)

	if r.ParentBlockID != nil {
		parentID, err := uuid.Parse(*r.ParentBlockID)
		if err == nil {
			b.StructuralContext.ParentBlock = &parentID
		}
	}

	return b, nil
}

func relationshipToRow(rel block.Relationship) BlockRelationship {
	var targetID *string
	if rel.TargetBlockID != nil {
		s := rel.TargetBlockID.String()
		targetID = &s
	}
	return BlockRelationship{
		ID:               rel.ID.String(),
		SourceBlockID:    rel.SourceBlockID.String(),
		TargetBlockID:    targetID,
		TargetNameHint:   rel.TargetNameHint,
		RelationshipType: string(rel.Type),
		Strength:         rel.Strength,
		Bidirectional:    rel.Bidirectional,
		Metadata:         marshalJSON(rel.Metadata),
	}
}

func rowToRelationship(r BlockRelationship) (block.Relationship, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return block.Relationship{}, err
	}
	sourceID, err := uuid.Parse(r.SourceBlockID)
	if err != nil {
		return block.Relationship{}, err
	}

	rel := block.Relationship{
		ID:             id,
		SourceBlockID:  sourceID,
		TargetNameHint: r.TargetNameHint,
		Type:           block.RelationshipType(r.RelationshipType),
		Strength:       r.Strength,
		Bidirectional:  r.Bidirectional,
	}
	unmarshalJSON(r.Metadata, &rel.Metadata)

	if r.TargetBlockID != nil {
		targetID, err := uuid.Parse(*r.TargetBlockID)
		if err == nil {
			rel.TargetBlockID = &targetID
		}
	}

	return rel, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orDefaultInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
