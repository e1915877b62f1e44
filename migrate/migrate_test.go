package migrate

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/generate"
	"github.com/oxhq/codegraph/graph"
	"github.com/oxhq/codegraph/parser/frontends"
	"github.com/oxhq/codegraph/template/languages"
	"github.com/oxhq/codegraph/validate"
)

func setupTestStore(t *testing.T) *graph.Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&graph.Container{}, &graph.Block{}, &graph.BlockRelationship{}, &graph.Migration{}, &graph.SourceCodeBackup{}, &graph.MigrationLog{}))
	return graph.New(gdb)
}

func newTestManager(t *testing.T, store *graph.Store) *Manager {
	engine := languages.NewDefaultEngine()
	registry := frontends.NewDefaultRegistry()
	v := validate.New(store, engine, registry)
	g := generate.New(store, engine, nil)
	return New(store, v, g)
}

func seedCleanContainer(t *testing.T, store *graph.Store) string {
	t.Helper()
	ctx := context.Background()
	source := "func Add(a int, b int) int {\n\treturn a + b\n}\n"
	containerID := uuid.NewString()
	require.NoError(t, store.InsertContainer(ctx, &block.Container{
		ID:           containerID,
		Name:         "sample",
		Language:     "go",
		OriginalPath: "sample.go",
		SourceCode:   source,
	}))

	fn := block.New(block.KindFunction, "Add", "go")
	fn.SemanticMetadata.Parameters = []block.Parameter{
		{Name: "a", TypeAnnotation: "int"},
		{Name: "b", TypeAnnotation: "int"},
	}
	fn.SemanticMetadata.ReturnType = "int"
	fn.WithOriginalText("func Add(a int, b int) int {\n\treturn a + b\n}", block.FormattingInfo{})
	fn.SyntaxPreservation.NormalizedAST = `{"kind":"function","name":"Add"}`
	require.NoError(t, store.InsertBlocks(ctx, containerID, []*block.Block{fn}))

	return containerID
}

// seedLowQualityContainer seeds a container whose sole block has a
// canonical name but no normalized AST, so its enhancement quality score
// falls below EnhancementContainerThreshold.
func seedLowQualityContainer(t *testing.T, store *graph.Store) string {
	t.Helper()
	ctx := context.Background()
	source := "func Sub(a int, b int) int {\n\treturn a - b\n}\n"
	containerID := uuid.NewString()
	require.NoError(t, store.InsertContainer(ctx, &block.Container{
		ID:           containerID,
		Name:         "lowquality",
		Language:     "go",
		OriginalPath: "lowquality.go",
		SourceCode:   source,
	}))

	fn := block.New(block.KindFunction, "Sub", "go")
	fn.WithOriginalText("func Sub(a int, b int) int {\n\treturn a - b\n}", block.FormattingInfo{})
	require.NoError(t, store.InsertBlocks(ctx, containerID, []*block.Block{fn}))

	return containerID
}

func TestExecuteFailsValidationGateWithNoContainers(t *testing.T) {
	store := setupTestStore(t)
	m := newTestManager(t, store)

	result, err := m.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, result.Outcome)
	assert.False(t, result.ValidationGatePassed)
}

func TestExecuteCreatesMigrationLogEntries(t *testing.T) {
	store := setupTestStore(t)
	m := newTestManager(t, store)

	result, err := m.Execute(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, result.MigrationID)

	migration, err := store.GetMigration(context.Background(), result.MigrationID)
	require.NoError(t, err)
	assert.NotEmpty(t, migration.Logs)
}

func TestEliminateSourceCodeClearsAllContainers(t *testing.T) {
	store := setupTestStore(t)
	m := newTestManager(t, store)
	containerID := seedCleanContainer(t, store)

	eliminated, err := m.eliminateSourceCode(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, eliminated)

	c, err := store.GetContainer(context.Background(), containerID)
	require.NoError(t, err)
	assert.False(t, c.HasSourceCode())
}

func TestTestLargeRepositoryMigrationPassesByDefaultWithNoLargeContainers(t *testing.T) {
	store := setupTestStore(t)
	m := newTestManager(t, store)
	seedCleanContainer(t, store)

	assert.True(t, m.testLargeRepositoryMigration(context.Background()))
}

func TestCreateFullBackupNoSourceReturnsErrNoBackupSource(t *testing.T) {
	store := setupTestStore(t)
	m := newTestManager(t, store)

	_, err := m.createFullBackup(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoBackupSource)
	assert.Equal(t, ECNoBackupSource, CodeFor(err))
}

func TestContainerQualityScoreCountsNameAndNormalizedAST(t *testing.T) {
	complete := block.New(block.KindFunction, "Complete", "go")
	complete.SyntaxPreservation.NormalizedAST = `{"kind":"function"}`

	nameOnly := block.New(block.KindFunction, "NameOnly", "go")

	score := containerQualityScore([]*block.Block{complete, nameOnly})
	assert.InDelta(t, 0.5, score, 0.0001)
}

func TestContainerQualityScoreEmptyContainerIsPerfect(t *testing.T) {
	assert.Equal(t, 1.0, containerQualityScore(nil))
}

func TestSemanticEnhancementQualifyingRateAccountsForLowQualityContainers(t *testing.T) {
	store := setupTestStore(t)
	m := newTestManager(t, store)

	seedCleanContainer(t, store)
	seedLowQualityContainer(t, store)

	containersProcessed, _, qualifyingRate, err := m.semanticEnhancement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, containersProcessed)
	assert.InDelta(t, 0.5, qualifyingRate, 0.0001)
	assert.Less(t, qualifyingRate, EnhancementCorpusThreshold, "mixed-quality corpus must fail the 95%% gate")
}

func TestSemanticEnhancementQualifyingRateAllHighQuality(t *testing.T) {
	store := setupTestStore(t)
	m := newTestManager(t, store)

	seedCleanContainer(t, store)

	_, _, qualifyingRate, err := m.semanticEnhancement(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, qualifyingRate)
}

func TestMigrationStatusForOutcomes(t *testing.T) {
	assert.Equal(t, graph.MigrationCompleted, migrationStatusFor(OutcomeCompleted))
	assert.Equal(t, graph.MigrationFailed, migrationStatusFor(OutcomeFailed))
	assert.Equal(t, graph.MigrationRolledBack, migrationStatusFor(OutcomeRolledBack))
	assert.Equal(t, graph.MigrationPartialSuccess, migrationStatusFor(OutcomePartialSuccess))
}
