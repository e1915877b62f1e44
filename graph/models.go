// Package graph defines the persistent schema of the semantic round-trip
// engine (Container, Block, BlockRelationship, Migration,
// SourceCodeBackup, MigrationLog) and the Store that operates on it.
package graph

import (
	"time"

	"gorm.io/datatypes"
)

// Container is one ingested source file: identity, provenance, and the
// summary/formatting fields the generator and validator need without
// reloading every block.
type Container struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Name         string `gorm:"type:varchar(255);not null"`
	ContainerType string `gorm:"type:varchar(50);not null;default:'file'"`
	Language     string `gorm:"type:varchar(50);not null;index"`

	OriginalPath string `gorm:"type:text;not null"`
	OriginalHash string `gorm:"type:varchar(64);index"`

	// SourceCode holds the original text until a migration eliminates it
	// (spec.md §4.8). Empty after elimination.
	SourceCode string `gorm:"type:text"`

	Version   int       `gorm:"default:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	SemanticSummary       datatypes.JSON `gorm:"type:jsonb"`
	ParsingMetadata       datatypes.JSON `gorm:"type:jsonb"`
	FormattingPreferences datatypes.JSON `gorm:"type:jsonb"`
	ReconstructionHints   datatypes.JSON `gorm:"type:jsonb"`

	Blocks []Block `gorm:"foreignKey:ContainerID"`
}

// Block is one semantic unit (function, class, import, ...) belonging to
// a Container, carrying both the flat fields the store indexes on and a
// JSON bag for the rich block.Metadata payload.
type Block struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	ContainerID string `gorm:"type:varchar(36);not null;index"`

	BlockType    string `gorm:"type:varchar(50);not null;index"`
	SemanticName string `gorm:"type:varchar(255);index"`

	ParentBlockID   *string `gorm:"type:varchar(36);index"`
	PositionInParent int    `gorm:"default:0"`

	StartLine   int `gorm:"index"`
	EndLine     int
	StartColumn int
	EndColumn   int

	SourceLanguage string `gorm:"type:varchar(50)"`

	AbstractSyntax datatypes.JSON `gorm:"type:jsonb"`
	Metadata       datatypes.JSON `gorm:"type:jsonb"` // block.Metadata, marshaled

	SyntaxPreservation datatypes.JSON `gorm:"type:jsonb"`
	StructuralContext  datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Container Container `gorm:"foreignKey:ContainerID"`
}

// BlockRelationship is a directed edge between two blocks, possibly still
// carrying only a name hint for its target (spec.md §9 Open Question 2).
type BlockRelationship struct {
	ID               string   `gorm:"primaryKey;type:varchar(36)"`
	SourceBlockID    string   `gorm:"type:varchar(36);not null;index"`
	TargetBlockID    *string  `gorm:"type:varchar(36);index"`
	TargetNameHint   string   `gorm:"type:varchar(255)"`
	RelationshipType string   `gorm:"type:varchar(50);not null;index"`
	Strength         *float64 `gorm:"type:real"`
	Bidirectional    bool     `gorm:"not null;default:false"`
	Metadata         datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
}

// MigrationStatus is the outcome of a source-code-elimination run
// (spec.md §4.8).
type MigrationStatus string

const (
	MigrationCompleted      MigrationStatus = "completed"
	MigrationPartialSuccess MigrationStatus = "partial_success"
	MigrationFailed         MigrationStatus = "failed"
	MigrationRolledBack     MigrationStatus = "rolled_back"
)

// Migration is one run of the six-step source-code-elimination sequence
// across a set of containers.
type Migration struct {
	ID     string          `gorm:"primaryKey;type:varchar(36)"`
	Status MigrationStatus `gorm:"type:varchar(20);not null;default:'failed'"`

	TotalContainers        int `gorm:"default:0"`
	SuccessfulMigrations    int `gorm:"default:0"`
	FailedMigrations        int `gorm:"default:0"`

	ValidationAccuracy   float64 `gorm:"type:decimal(5,4)"`
	EnhancementSuccessRate float64 `gorm:"type:decimal(5,4)"`

	FinalVerificationPassed bool `gorm:"default:false"`
	RollbackTestPassed      bool `gorm:"default:false"`
	LargeRepoTestPassed     bool `gorm:"default:false"`

	StartedAt time.Time  `gorm:"autoCreateTime"`
	EndedAt   *time.Time

	ErrorSummary datatypes.JSON `gorm:"type:jsonb"`

	Logs []MigrationLog `gorm:"foreignKey:MigrationID"`
}

// SourceCodeBackup is a full snapshot of a container's original source
// taken before elimination, so a failed migration can be rolled back.
type SourceCodeBackup struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	MigrationID string `gorm:"type:varchar(36);not null;index"`
	ContainerID string `gorm:"type:varchar(36);not null;index"`
	SourceCode  string `gorm:"type:text;not null"`
	OriginalHash string `gorm:"type:varchar(64)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	RestoredAt  *time.Time
}

// MigrationLog is one step's outcome within a Migration run (spec.md §6's
// source_code_migration_log table).
type MigrationLog struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	MigrationID string `gorm:"type:varchar(36);not null;index"`
	ContainerID string `gorm:"type:varchar(36);index"`

	Step    string `gorm:"type:varchar(50);not null"`
	Outcome string `gorm:"type:varchar(20);not null"` // pass, fail, skipped
	Detail  string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName customizations for schema names matching spec.md §6.
func (Container) TableName() string         { return "containers" }
func (Block) TableName() string             { return "blocks" }
func (BlockRelationship) TableName() string { return "block_relationships" }
func (Migration) TableName() string         { return "migrations" }
func (SourceCodeBackup) TableName() string  { return "source_code_backups" }
func (MigrationLog) TableName() string      { return "source_code_migration_log" }
