// Package extract provides the stack-based bookkeeping parser frontends
// use while walking a syntax tree: maintaining the block forest's parent
// links, assigning dense sibling positions, and collecting relationship
// candidates for later resolution against the full block set.
package extract

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/oxhq/codegraph/block"
)

// Context accumulates blocks and relationship candidates as a parser
// frontend walks one container's syntax tree. It is not safe for
// concurrent use; one Context belongs to one file's walk.
type Context struct {
	blocks        []*block.Block
	stack         []*block.Block
	childCounter  map[uuid.UUID]int
	insertIndex   int
	nameTable     map[string][]uuid.UUID
	relationships []block.Relationship
}

// New creates an empty extraction context.
func New() *Context {
	return &Context{
		childCounter: make(map[uuid.UUID]int),
		nameTable:    make(map[string][]uuid.UUID),
	}
}

// EnterBlock pushes b onto the block stack, linking it to its current
// parent (the stack top, if any) and stamping its dense sibling position
// (root blocks are numbered among the roots). The block is appended to
// the result in insertion order and recorded immediately so
// relationships can reference it even before ExitBlock is called.
func (c *Context) EnterBlock(b *block.Block) {
	if len(c.stack) > 0 {
		parent := c.stack[len(c.stack)-1]
		b.WithParent(parent.ID, b.StructuralContext.Scope)
		b.Position.Index = c.childCounter[parent.ID]
		c.childCounter[parent.ID]++
		parent.StructuralContext.ChildBlocks = append(parent.StructuralContext.ChildBlocks, b.ID)
	} else {
		b.Position.Index = c.childCounter[uuid.Nil]
		c.childCounter[uuid.Nil]++
	}

	c.insertIndex++
	c.blocks = append(c.blocks, b)
	c.stack = append(c.stack, b)
	c.indexName(b)
}

// ExitBlock pops the most recently entered block. It returns
// block.ErrStructural if the stack is empty, which indicates a parser
// frontend bug (an ExitBlock with no matching EnterBlock).
func (c *Context) ExitBlock() (*block.Block, error) {
	if len(c.stack) == 0 {
		return nil, fmt.Errorf("extract: exit with empty stack: %w: %w", ErrUnbalancedWalk, block.ErrStructural)
	}
	n := len(c.stack) - 1
	b := c.stack[n]
	c.stack = c.stack[:n]
	return b, nil
}

// Current returns the block currently on top of the stack, or nil if the
// stack is empty (the walk is at module scope).
func (c *Context) Current() *block.Block {
	if len(c.stack) == 0 {
		return nil
	}
	return c.stack[len(c.stack)-1]
}

// Depth returns how many blocks are currently open on the stack.
func (c *Context) Depth() int {
	return len(c.stack)
}

// AddRelationship records a relationship candidate from source to a name
// that may or may not resolve to a known block. Resolution happens lazily
// in Finish, once every block in the container has been seen.
func (c *Context) AddRelationship(source uuid.UUID, relType block.RelationshipType, targetNameHint string) {
	c.relationships = append(c.relationships, block.Relationship{
		ID:             uuid.New(),
		SourceBlockID:  source,
		TargetNameHint: targetNameHint,
		Type:           relType,
	})
}

func (c *Context) indexName(b *block.Block) {
	c.nameTable[b.Identity.CanonicalName] = append(c.nameTable[b.Identity.CanonicalName], b.ID)
	for _, alias := range b.Identity.Aliases {
		c.nameTable[alias] = append(c.nameTable[alias], b.ID)
	}
}

// Result is the output of a completed extraction: every block discovered
// during the walk, in insertion order, plus every relationship candidate
// in one slice: resolved ones carry a TargetBlockID, unresolved ones only
// their name hint.
type Result struct {
	Blocks        []*block.Block
	Relationships []block.Relationship
}

// Finish closes out the walk: it verifies the block stack fully unwound
// (the forest property -- every EnterBlock must be matched by an
// ExitBlock), resolves relationship candidates against blocks discovered
// in this same container, and returns the flat block slice plus the
// relationship set (resolved in place where a match was found; left as
// name-only hints otherwise, per the Open Question decision in
// DESIGN.md).
func (c *Context) Finish() (Result, error) {
	if len(c.stack) != 0 {
		return Result{}, fmt.Errorf("extract: %d block(s) left open at end of walk: %w: %w", len(c.stack), ErrUnbalancedWalk, block.ErrStructural)
	}

	for i := range c.relationships {
		rel := &c.relationships[i]
		if rel.Resolved() {
			continue
		}
		ids, ok := c.nameTable[rel.TargetNameHint]
		if !ok || len(ids) == 0 {
			continue
		}
		rel.Resolve(ids[0])
	}

	return Result{Blocks: c.blocks, Relationships: c.relationships}, nil
}
