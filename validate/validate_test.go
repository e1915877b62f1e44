package validate

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/graph"
	"github.com/oxhq/codegraph/parser/frontends"
	"github.com/oxhq/codegraph/template/languages"
)

func setupTestStore(t *testing.T) *graph.Store {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&graph.Container{}, &graph.Block{}, &graph.BlockRelationship{}, &graph.Migration{}, &graph.SourceCodeBackup{}, &graph.MigrationLog{}))
	return graph.New(gdb)
}

func newTestValidator(t *testing.T) (*Validator, *graph.Store) {
	store := setupTestStore(t)
	engine := languages.NewDefaultEngine()
	registry := frontends.NewDefaultRegistry()
	return New(store, engine, registry), store
}

func seedGoContainer(t *testing.T, store *graph.Store, source string) *block.Container {
	t.Helper()
	ctx := context.Background()
	c := &block.Container{
		ID:           uuid.NewString(),
		Name:         "sample",
		Language:     "go",
		OriginalPath: "sample.go",
		SourceCode:   source,
	}
	require.NoError(t, store.InsertContainer(ctx, c))
	return c
}

func TestAccuracyIdenticalText(t *testing.T) {
	text := "func Add(a, b int) int {\n\treturn a + b\n}\n"
	assert.Equal(t, 1.0, Accuracy(text, text))
}

func TestAccuracyCompletelyDifferent(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy("aaa\nbbb\n", "xxx\nyyy\n"))
}

func TestAccuracyIgnoresBlankLinesAndWhitespace(t *testing.T) {
	original := "func f() {\n\n    return 1\n}\n"
	regenerated := "func f() {\nreturn 1\n}\n"
	assert.Equal(t, 1.0, Accuracy(original, regenerated))
}

func TestAccuracyBothEmpty(t *testing.T) {
	assert.Equal(t, 1.0, Accuracy("", ""))
}

func TestRoundTripAccuracyUnsupportedLanguageReturnsErrNoFrontend(t *testing.T) {
	v, store := newTestValidator(t)
	c := &block.Container{
		ID: uuid.NewString(), Name: "sample", Language: "cobol",
		OriginalPath: "sample.cob", SourceCode: "IDENTIFICATION DIVISION.\n",
	}
	require.NoError(t, store.InsertContainer(context.Background(), c))

	_, err := v.roundTripAccuracy(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoFrontend)
	assert.Equal(t, ECNoFrontend, CodeFor(err))
}

func TestFormattingVarianceIdentical(t *testing.T) {
	text := "abc def"
	assert.Equal(t, 0.0, FormattingVariance(text, text))
}

func TestFormattingVarianceDetectsDrop(t *testing.T) {
	variance := FormattingVariance("abcdefghij", "abcde")
	assert.InDelta(t, 0.5, variance, 0.001)
}

func TestFormattingVarianceBothEmpty(t *testing.T) {
	assert.Equal(t, 0.0, FormattingVariance("", ""))
}

func TestSampleAccuracyPassesOnCleanRoundTrip(t *testing.T) {
	v, store := newTestValidator(t)
	seedGoContainer(t, store, "func Add(a int, b int) int {\n\treturn a + b\n}\n")

	report, err := v.SampleAccuracy(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Samples)
}

func TestSampleAccuracyNoContainers(t *testing.T) {
	v, _ := newTestValidator(t)
	report, err := v.SampleAccuracy(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, report.Passed)
	assert.Equal(t, 0, report.Samples)
}

func TestSchemaAlignmentPassesOnMigratedStore(t *testing.T) {
	v, _ := newTestValidator(t)
	report := v.SchemaAlignment(context.Background())
	assert.True(t, report.Passed)
}

func TestParserHealthAllRegisteredLanguagesPass(t *testing.T) {
	v, _ := newTestValidator(t)
	report := v.ParserHealth()
	assert.True(t, report.Passed, report.Detail)
	assert.Greater(t, report.Samples, 0)
}

func TestTemplateCoverageAllPairsNonEmpty(t *testing.T) {
	v, _ := newTestValidator(t)
	report := v.TemplateCoverage()
	assert.True(t, report.Passed, report.Detail)
}

func TestLanguageCoverageFailsBelowMinimum(t *testing.T) {
	v, store := newTestValidator(t)
	seedGoContainer(t, store, "func f() {}\n")

	report, err := v.LanguageCoverage(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Passed)
	assert.Contains(t, report.Detail, "go")
}

func TestBlockKindReconstructionEmptyStorePasses(t *testing.T) {
	v, _ := newTestValidator(t)
	report, err := v.BlockKindReconstruction(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Passed)
	assert.Equal(t, 0, report.Samples)
}

func TestFormattingPreservationEmptyStorePasses(t *testing.T) {
	v, _ := newTestValidator(t)
	report, err := v.FormattingPreservation(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Passed)
}

func TestRegressionCheckFixedFixturesPass(t *testing.T) {
	v, _ := newTestValidator(t)
	report := v.RegressionCheck()
	assert.True(t, report.Passed, report.Detail)
}
