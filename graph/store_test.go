package graph

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oxhq/codegraph/block"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = gdb.AutoMigrate(&Container{}, &Block{}, &BlockRelationship{}, &Migration{}, &SourceCodeBackup{}, &MigrationLog{})
	require.NoError(t, err)

	return New(gdb)
}

func TestInsertAndGetContainer(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	c := &block.Container{
		ID:           uuid.NewString(),
		Name:         "main.go",
		Language:     "go",
		OriginalPath: "cmd/main.go",
		OriginalHash: "abc123",
		SourceCode:   "package main",
	}

	require.NoError(t, store.InsertContainer(ctx, c))

	got, err := store.GetContainer(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
	assert.Equal(t, c.Language, got.Language)
	assert.True(t, got.HasSourceCode())
}

func TestGetContainerNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetContainer(context.Background(), "does-not-exist")

	require.Error(t, err)
	assert.Equal(t, ECNotFound, CodeFor(err))
}

func TestInsertAndGetBlocks(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	containerID := uuid.NewString()
	require.NoError(t, store.InsertContainer(ctx, &block.Container{ID: containerID, Name: "f.go", Language: "go", OriginalPath: "f.go"}))

	b1 := block.New(block.KindFunction, "First", "go")
	b1.Position.Index = 0
	b2 := block.New(block.KindFunction, "Second", "go")
	b2.Position.Index = 1

	require.NoError(t, store.InsertBlocks(ctx, containerID, []*block.Block{b1, b2}))

	got, err := store.GetBlocksByContainer(ctx, containerID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "First", got[0].Identity.CanonicalName)
	assert.Equal(t, "Second", got[1].Identity.CanonicalName)
}

func TestInsertBlocksEmptyIsNoop(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.InsertBlocks(context.Background(), "whatever", nil))
}

func TestEnrichBlockUpdatesMetadata(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	containerID := uuid.NewString()
	require.NoError(t, store.InsertContainer(ctx, &block.Container{ID: containerID, Name: "f.go", Language: "go", OriginalPath: "f.go"}))

	b := block.New(block.KindFunction, "Target", "go")
	require.NoError(t, store.InsertBlocks(ctx, containerID, []*block.Block{b}))

	enriched := block.Metadata{
		ReturnType: "error",
		ComplexityMetrics: &block.ComplexityMetrics{CyclomaticComplexity: 5},
	}
	require.NoError(t, store.EnrichBlock(ctx, b.ID, enriched))

	got, err := store.GetBlock(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "error", got.SemanticMetadata.ReturnType)
	require.NotNil(t, got.SemanticMetadata.ComplexityMetrics)
	assert.Equal(t, 5, got.SemanticMetadata.ComplexityMetrics.CyclomaticComplexity)
}

func TestInsertAndGetRelationships(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	source := uuid.New()
	target := uuid.New()
	rel := block.Relationship{ID: uuid.New(), SourceBlockID: source, TargetBlockID: &target, Type: block.RelationshipCalls}

	require.NoError(t, store.InsertRelationships(ctx, []block.Relationship{rel}))

	got, err := store.GetRelationshipsBySource(ctx, source)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Resolved())
	assert.Equal(t, target, *got[0].TargetBlockID)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	containerID := uuid.NewString()
	migrationID := uuid.NewString()
	require.NoError(t, store.InsertContainer(ctx, &block.Container{
		ID: containerID, Name: "f.go", Language: "go", OriginalPath: "f.go",
		SourceCode: "package main\n", OriginalHash: "h1",
	}))

	backup, err := store.Backup(ctx, migrationID, containerID)
	require.NoError(t, err)
	assert.Equal(t, "package main\n", backup.SourceCode)

	require.NoError(t, store.EliminateSourceCode(ctx, containerID))
	got, err := store.GetContainer(ctx, containerID)
	require.NoError(t, err)
	assert.False(t, got.HasSourceCode())

	require.NoError(t, store.RestoreFromBackup(ctx, backup.ID))
	got, err = store.GetContainer(ctx, containerID)
	require.NoError(t, err)
	assert.True(t, got.HasSourceCode())
	assert.Equal(t, "package main\n", got.SourceCode)
}

func TestBackupFailsWithoutSourceCode(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	containerID := uuid.NewString()
	require.NoError(t, store.InsertContainer(ctx, &block.Container{ID: containerID, Name: "f.go", Language: "go", OriginalPath: "f.go"}))

	_, err := store.Backup(ctx, uuid.NewString(), containerID)

	require.Error(t, err)
	assert.Equal(t, ECNoSourceCode, CodeFor(err))
}

func TestResetClearsAllTables(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	containerID := uuid.NewString()
	require.NoError(t, store.InsertContainer(ctx, &block.Container{ID: containerID, Name: "f.go", Language: "go", OriginalPath: "f.go"}))
	require.NoError(t, store.InsertBlocks(ctx, containerID, []*block.Block{block.New(block.KindFunction, "F", "go")}))

	require.NoError(t, store.Reset(ctx))

	containers, err := store.ListContainers(ctx)
	require.NoError(t, err)
	assert.Empty(t, containers)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	containerID := uuid.NewString()

	err := store.WithTransaction(ctx, func(tx *Store) error {
		if err := tx.InsertContainer(ctx, &block.Container{ID: containerID, Name: "f.go", Language: "go", OriginalPath: "f.go"}); err != nil {
			return err
		}
		return assert.AnError
	})

	require.Error(t, err)
	_, getErr := store.GetContainer(ctx, containerID)
	assert.Equal(t, ECNotFound, CodeFor(getErr))
}

func TestMigrationLifecycle(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	m := &Migration{Status: MigrationFailed, TotalContainers: 3}
	require.NoError(t, store.CreateMigration(ctx, m))
	require.NotEmpty(t, m.ID)

	m.Status = MigrationCompleted
	m.SuccessfulMigrations = 3
	require.NoError(t, store.UpdateMigration(ctx, m))

	require.NoError(t, store.AppendMigrationLog(ctx, MigrationLog{MigrationID: m.ID, Step: "validation_gate", Outcome: "pass"}))

	var logs []MigrationLog
	require.NoError(t, store.db.Where("migration_id = ?", m.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "validation_gate", logs[0].Step)

	fetched, err := store.GetMigration(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, MigrationCompleted, fetched.Status)
	require.Len(t, fetched.Logs, 1)
	assert.Equal(t, "validation_gate", fetched.Logs[0].Step)
}

func TestListBackupsForMigration(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	migrationID := uuid.NewString()

	for i := 0; i < 2; i++ {
		containerID := uuid.NewString()
		require.NoError(t, store.InsertContainer(ctx, &block.Container{
			ID: containerID, Name: "f.go", Language: "go", OriginalPath: "f.go",
			SourceCode: "package main\n",
		}))
		_, err := store.Backup(ctx, migrationID, containerID)
		require.NoError(t, err)
	}

	backups, err := store.ListBackupsForMigration(ctx, migrationID)
	require.NoError(t, err)
	assert.Len(t, backups, 2)
}
