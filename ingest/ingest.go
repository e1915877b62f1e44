// Package ingest implements the repository-level entry point spec.md §6
// names: `ingest(files) → migration_id`. It consumes an already-discovered
// sequence of files (path, language tag, content, fingerprint), parses each
// one with the matching parser.Frontend, and persists the resulting
// containers, blocks, and relationships through a graph.Store — one
// transaction per container, per spec.md's Lifecycle section.
//
// Directory discovery itself (glob matching, symlink handling) lives in
// cmd/codegraph's `init` subcommand, grounded on
// termfx-morfx/core/filewalker.go's FileWalker; this package only consumes
// the resulting file list, matching the core/outer-shell split spec.md §6
// draws around the `ingest` signature.
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/oxhq/codegraph/block"
	"github.com/oxhq/codegraph/graph"
	"github.com/oxhq/codegraph/parser"
)

// maxConcurrentFiles bounds the errgroup fan-out across containers
// (SPEC_FULL.md §5): each file's parse-and-persist is independent and
// transactional, so they can run concurrently, but an unbounded fan-out
// would open one DB transaction per file at once.
const maxConcurrentFiles = 8

// File is one discovered source unit, matching spec.md §6's
// `{path, language-tag, content, fingerprint}` tuple.
type File struct {
	Path        string
	Language    string
	Content     string
	Fingerprint string
}

// Warning records a non-fatal per-file failure: a parse error that aborted
// ingestion of that file only, per spec.md §4.2's failure semantics.
type Warning struct {
	Path string
	Err  error
}

// Result is the outcome of ingesting a batch of files: the migration_id
// spec.md §6 promises, plus per-file counts and any warnings collected
// along the way.
type Result struct {
	MigrationID     string
	ContainersAdded int
	BlocksAdded     int
	Warnings        []Warning
}

// Ingest parses every file in files with a registry-selected frontend and
// persists the result through store, one container-and-its-blocks per
// transaction, fanning out across files with a bounded errgroup (spec.md
// §5's "the store is the only component allowed to block on I/O" --
// parsing and persistence are the suspension points, so they're what runs
// concurrently; per-container transaction and relationship-pass ordering
// within one file is untouched). A parse failure for one file is recorded
// as a Warning and does not abort the rest of the batch (spec.md §4.2, §7).
// The returned migration_id identifies this ingest run; it is recorded as
// a graph.Migration row so the run's per-file outcomes are queryable the
// same way a source-code-elimination run's steps are
// (graph.Store.GetMigration).
func Ingest(ctx context.Context, store *graph.Store, registry *parser.Registry, files []File) (*Result, error) {
	migration := &graph.Migration{Status: graph.MigrationFailed, TotalContainers: len(files)}
	if err := store.CreateMigration(ctx, migration); err != nil {
		return nil, fmt.Errorf("ingest: create migration record: %w", err)
	}

	result := &Result{MigrationID: migration.ID}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)

	for _, f := range files {
		f := f
		g.Go(func() error {
			blocksAdded, err := ingestOne(gctx, store, registry, f)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Warnings = append(result.Warnings, Warning{Path: f.Path, Err: err})
				_ = store.AppendMigrationLog(ctx, graph.MigrationLog{
					MigrationID: migration.ID,
					Step:        "parse:" + f.Path,
					Outcome:     "fail",
					Detail:      err.Error(),
				})
				return nil
			}

			result.ContainersAdded++
			result.BlocksAdded += blocksAdded
			_ = store.AppendMigrationLog(ctx, graph.MigrationLog{
				MigrationID: migration.ID,
				Step:        "parse:" + f.Path,
				Outcome:     "pass",
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, err
	}

	migration.Status = graph.MigrationCompleted
	migration.SuccessfulMigrations = result.ContainersAdded
	migration.FailedMigrations = len(result.Warnings)
	if err := store.UpdateMigration(ctx, migration); err != nil {
		return result, fmt.Errorf("ingest: finalize migration record: %w", err)
	}

	return result, nil
}

// ingestOne parses a single file and persists its container, blocks, and
// relationships inside one transaction, matching spec.md's "Blocks are
// created in one transaction per container."
func ingestOne(ctx context.Context, store *graph.Store, registry *parser.Registry, f File) (int, error) {
	frontend, ok := registry.Get(f.Language)
	if !ok {
		frontend, ok = registry.ForPath(f.Path)
	}
	if !ok {
		return 0, fmt.Errorf("ingest: %s: %w", f.Path, parser.ErrUnsupportedLanguage)
	}

	parsed, err := frontend.Parse(f.Path, f.Content)
	if err != nil {
		return 0, fmt.Errorf("ingest: parse %s: %w", f.Path, err)
	}

	containerID := uuid.NewString()
	container := &block.Container{
		ID:           containerID,
		Name:         filepath.Base(f.Path),
		Language:     frontend.Language(),
		OriginalPath: f.Path,
		OriginalHash: f.Fingerprint,
		SourceCode:   f.Content,
	}

	blocksAdded := len(parsed.Blocks)
	err = store.WithTransaction(ctx, func(tx *graph.Store) error {
		if err := tx.InsertContainer(ctx, container); err != nil {
			return err
		}
		if err := tx.InsertBlocks(ctx, containerID, parsed.Blocks); err != nil {
			return err
		}
		if err := tx.InsertRelationships(ctx, parsed.Relationships); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("ingest: persist %s: %w", f.Path, err)
	}

	return blocksAdded, nil
}
