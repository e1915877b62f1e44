// Package parser defines the Frontend contract every language
// implementation satisfies: turning one file's source text into blocks
// and relationship candidates. Concrete tree-sitter-backed frontends live
// in the per-language subpackages (golang, python, javascript,
// typescript, php); parser/base holds the shared walking engine they all
// build on.
package parser

import "github.com/oxhq/codegraph/block"

// Frontend extracts blocks and relationship candidates from one file's
// source text.
type Frontend interface {
	Language() string
	Extensions() []string
	Parse(path, source string) (ParseResult, error)
}

// ParseResult is everything one file's extraction produced.
type ParseResult struct {
	Blocks        []*block.Block
	Relationships []block.Relationship
	// Warnings holds non-fatal issues (e.g. a construct the frontend
	// recognized but could not fully analyze) that should be surfaced to
	// the caller without aborting the file.
	Warnings []string
}
