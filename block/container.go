package block

import "time"

// Container is one ingested source file: its identity, its original text
// (until eliminated), and the summary fields the graph store persists
// alongside its blocks.
type Container struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	ContainerType        string            `json:"container_type"`
	Language             string            `json:"language"`
	OriginalPath         string            `json:"original_path"`
	OriginalHash         string            `json:"original_hash"`
	SourceCode           string            `json:"source_code,omitempty"`
	Version              int               `json:"version"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
	SemanticSummary       map[string]any   `json:"semantic_summary,omitempty"`
	ParsingMetadata       map[string]any   `json:"parsing_metadata,omitempty"`
	FormattingPreferences FormattingInfo   `json:"formatting_preferences"`
	ReconstructionHints   ReconstructionHints `json:"reconstruction_hints"`
}

// HasSourceCode reports whether the container still carries its original
// source text (false once a migration has eliminated it).
func (c *Container) HasSourceCode() bool {
	return c.SourceCode != ""
}
