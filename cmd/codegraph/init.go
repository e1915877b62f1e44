package main

import (
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/oxhq/codegraph/ingest"
)

func newInitCmd() *cobra.Command {
	var include, exclude []string

	cmd := &cobra.Command{
		Use:   "init <directory>",
		Short: "Walk a directory and ingest its files into the graph store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := connect()
			if err != nil {
				return err
			}

			files, err := discoverFiles(args[0], include, exclude)
			if err != nil {
				return err
			}

			result, err := ingest.Ingest(cmd.Context(), d.store, d.registry, files)
			if err != nil {
				return err
			}

			fmt.Printf("migration %s: %d container(s) added, %d block(s), %d warning(s)\n",
				result.MigrationID, result.ContainersAdded, result.BlocksAdded, len(result.Warnings))
			for _, w := range result.Warnings {
				fmt.Printf("  warn: %s: %v\n", w.Path, w.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&include, "include", nil, "glob patterns to include (doublestar syntax); default includes every file")
	cmd.Flags().StringSliceVar(&exclude, "exclude", []string{"**/.git/**", "**/node_modules/**"}, "glob patterns to exclude")
	return cmd
}

// discoverFiles walks root, matching every regular file against include/
// exclude doublestar patterns the same way termfx-morfx's FileWalker
// matches a path: full-path PathMatch first, falling back to a basename
// match for patterns without a "/". Unlike FileWalker, this walk is
// sequential -- a one-shot CLI ingest has no need for its worker pool.
func discoverFiles(root string, include, exclude []string) ([]ingest.File, error) {
	var files []ingest.File

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}

		if matchesAny(rel, exclude) {
			return nil
		}
		if len(include) > 0 && !matchesAny(rel, include) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("init: read %s: %w", path, err)
		}

		sum := sha256.Sum256(content)
		files = append(files, ingest.File{
			Path:        rel,
			Content:     string(content),
			Fingerprint: fmt.Sprintf("%x", sum),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func matchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.PathMatch(pattern, path); err == nil && matched {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if matched, err := doublestar.PathMatch(pattern, filepath.Base(path)); err == nil && matched {
				return true
			}
		}
	}
	return false
}
