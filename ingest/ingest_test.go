package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oxhq/codegraph/graph"
	"github.com/oxhq/codegraph/parser/frontends"
)

func setupTestStore(t *testing.T) *graph.Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&graph.Container{}, &graph.Block{}, &graph.BlockRelationship{}, &graph.Migration{}, &graph.SourceCodeBackup{}, &graph.MigrationLog{}))
	return graph.New(gdb)
}

func TestIngestParsesAndPersistsGoFile(t *testing.T) {
	store := setupTestStore(t)
	registry := frontends.NewDefaultRegistry()

	files := []File{
		{Path: "sample.go", Language: "go", Content: "package main\n\nfunc Add(a int, b int) int {\n\treturn a + b\n}\n", Fingerprint: "h1"},
	}

	result, err := Ingest(context.Background(), store, registry, files)
	require.NoError(t, err)
	assert.NotEmpty(t, result.MigrationID)
	assert.Equal(t, 1, result.ContainersAdded)
	assert.Empty(t, result.Warnings)

	containers, err := store.ListContainers(context.Background())
	require.NoError(t, err)
	require.Len(t, containers, 1)
	assert.Equal(t, "go", containers[0].Language)
	assert.True(t, containers[0].HasSourceCode())

	migration, err := store.GetMigration(context.Background(), result.MigrationID)
	require.NoError(t, err)
	assert.Equal(t, graph.MigrationCompleted, migration.Status)
	assert.NotEmpty(t, migration.Logs)
}

func TestIngestRecordsWarningForUnsupportedLanguage(t *testing.T) {
	store := setupTestStore(t)
	registry := frontends.NewDefaultRegistry()

	files := []File{
		{Path: "widget.rb", Language: "ruby", Content: "class Widget; end\n", Fingerprint: "h2"},
	}

	result, err := Ingest(context.Background(), store, registry, files)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ContainersAdded)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "widget.rb", result.Warnings[0].Path)
}

func TestIngestContinuesAfterOneFileFails(t *testing.T) {
	store := setupTestStore(t)
	registry := frontends.NewDefaultRegistry()

	files := []File{
		{Path: "bad.rb", Language: "ruby", Content: "class Bad; end\n", Fingerprint: "h3"},
		{Path: "good.go", Language: "go", Content: "package main\n\nfunc F() {}\n", Fingerprint: "h4"},
	}

	result, err := Ingest(context.Background(), store, registry, files)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ContainersAdded)
	assert.Len(t, result.Warnings, 1)
}
