package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainerTableName(t *testing.T) {
	assert.Equal(t, "containers", Container{}.TableName())
}

func TestBlockTableName(t *testing.T) {
	assert.Equal(t, "blocks", Block{}.TableName())
}

func TestBlockRelationshipTableName(t *testing.T) {
	assert.Equal(t, "block_relationships", BlockRelationship{}.TableName())
}

func TestMigrationTableName(t *testing.T) {
	assert.Equal(t, "migrations", Migration{}.TableName())
}

func TestSourceCodeBackupTableName(t *testing.T) {
	assert.Equal(t, "source_code_backups", SourceCodeBackup{}.TableName())
}

func TestMigrationLogTableName(t *testing.T) {
	assert.Equal(t, "source_code_migration_log", MigrationLog{}.TableName())
}
