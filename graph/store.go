package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oxhq/codegraph/block"
)

// Store wraps a *gorm.DB with the transactional operations the extraction,
// generation, validation, and migration pipelines need: inserting
// containers/blocks/relationships, fetching them back, enriching a
// block's metadata in place, and the backup/restore/reset cycle the
// migration engine's elimination phase depends on.
type Store struct {
	db *gorm.DB
}

// New wraps an already-connected *gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying *gorm.DB for callers (e.g. db.Migrate) that
// need to run schema operations directly.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// InsertContainer persists a new container row.
func (s *Store) InsertContainer(ctx context.Context, c *block.Container) error {
	row := containerToRow(c)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("graph: insert container %s: %w", c.ID, joinStorage(err))
	}
	return nil
}

// InsertBlocks persists a batch of blocks belonging to containerID in a
// single transaction.
func (s *Store) InsertBlocks(ctx context.Context, containerID string, blocks []*block.Block) error {
	if len(blocks) == 0 {
		return nil
	}
	rows := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, blockToRow(containerID, b))
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("graph: insert %d block(s) for container %s: %w", len(blocks), containerID, joinStorage(err))
	}
	return nil
}

// InsertRelationships persists a batch of block relationships.
func (s *Store) InsertRelationships(ctx context.Context, rels []block.Relationship) error {
	if len(rels) == 0 {
		return nil
	}
	rows := make([]BlockRelationship, 0, len(rels))
	for _, r := range rels {
		rows = append(rows, relationshipToRow(r))
	}
	if err := s.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("graph: insert %d relationship(s): %w", len(rels), joinStorage(err))
	}
	return nil
}

// GetContainer fetches one container by id.
func (s *Store) GetContainer(ctx context.Context, id string) (*block.Container, error) {
	var row Container
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("graph: get container %s: %w", id, notFoundOr(err))
	}
	return rowToContainer(row), nil
}

// ListContainers returns every container in the store, ordered by name.
func (s *Store) ListContainers(ctx context.Context) ([]*block.Container, error) {
	var rows []Container
	if err := s.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("graph: list containers: %w", joinStorage(err))
	}
	out := make([]*block.Container, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowToContainer(r))
	}
	return out, nil
}

// GetBlocksByContainer returns every block belonging to containerID,
// ordered by sibling position then start line (the Open Question 3
// tie-break uses StartColumn on top of this at the generator layer).
func (s *Store) GetBlocksByContainer(ctx context.Context, containerID string) ([]*block.Block, error) {
	var rows []Block
	err := s.db.WithContext(ctx).
		Where("container_id = ?", containerID).
		Order("position_in_parent, start_line").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("graph: get blocks for container %s: %w", containerID, joinStorage(err))
	}

	out := make([]*block.Block, 0, len(rows))
	for _, r := range rows {
		b, err := rowToBlock(r)
		if err != nil {
			return nil, fmt.Errorf("graph: decode block %s: %w", r.ID, joinStorage(err))
		}
		out = append(out, b)
	}
	return out, nil
}

// GetBlock fetches one block by id.
func (s *Store) GetBlock(ctx context.Context, id uuid.UUID) (*block.Block, error) {
	var row Block
	err := s.db.WithContext(ctx).Where("id = ?", id.String()).First(&row).Error
	if err != nil {
		return nil, fmt.Errorf("graph: get block %s: %w", id, notFoundOr(err))
	}
	return rowToBlock(row)
}

// GetRelationshipsBySource returns every relationship originating from
// sourceBlockID.
func (s *Store) GetRelationshipsBySource(ctx context.Context, sourceBlockID uuid.UUID) ([]block.Relationship, error) {
	var rows []BlockRelationship
	err := s.db.WithContext(ctx).Where("source_block_id = ?", sourceBlockID.String()).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("graph: get relationships for block %s: %w", sourceBlockID, joinStorage(err))
	}
	out := make([]block.Relationship, 0, len(rows))
	for _, r := range rows {
		rel, err := rowToRelationship(r)
		if err != nil {
			continue
		}
		out = append(out, rel)
	}
	return out, nil
}

// EnrichBlock overwrites a block's semantic metadata in place -- the
// operation the migration engine's semantic-enhancement step performs
// before a container's source text can be safely eliminated.
func (s *Store) EnrichBlock(ctx context.Context, id uuid.UUID, metadata block.Metadata) error {
	err := s.db.WithContext(ctx).Model(&Block{}).
		Where("id = ?", id.String()).
		Update("metadata", marshalJSON(metadata)).Error
	if err != nil {
		return fmt.Errorf("graph: enrich block %s: %w", id, joinStorage(err))
	}
	return nil
}

// WithTransaction runs fn against a Store bound to a single database
// transaction, committing on success and rolling back if fn returns an
// error or panics.
func (s *Store) WithTransaction(ctx context.Context, fn func(*Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// GetMigration fetches one migration run by id, preloading its step log.
func (s *Store) GetMigration(ctx context.Context, id string) (*Migration, error) {
	var m Migration
	err := s.db.WithContext(ctx).Preload("Logs").Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, fmt.Errorf("graph: get migration %s: %w", id, notFoundOr(err))
	}
	return &m, nil
}

// CreateMigration starts a new migration run row.
func (s *Store) CreateMigration(ctx context.Context, m *Migration) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Status == "" {
		m.Status = MigrationFailed
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("graph: create migration: %w", joinStorage(err))
	}
	return nil
}

// UpdateMigration persists the full state of an existing migration row.
func (s *Store) UpdateMigration(ctx context.Context, m *Migration) error {
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("graph: update migration %s: %w", m.ID, joinStorage(err))
	}
	return nil
}

// AppendMigrationLog records one step's outcome within a migration run.
func (s *Store) AppendMigrationLog(ctx context.Context, entry MigrationLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("graph: append migration log: %w", joinStorage(err))
	}
	return nil
}

// Backup snapshots containerID's current source text into a
// SourceCodeBackup row tied to migrationID. Returns ErrNoSourceCode if the
// container has already had its source code eliminated.
func (s *Store) Backup(ctx context.Context, migrationID, containerID string) (*SourceCodeBackup, error) {
	container, err := s.GetContainer(ctx, containerID)
	if err != nil {
		return nil, err
	}
	if !container.HasSourceCode() {
		return nil, fmt.Errorf("graph: backup container %s: %w", containerID, ErrNoSourceCode)
	}

	backup := &SourceCodeBackup{
		ID:           uuid.NewString(),
		MigrationID:  migrationID,
		ContainerID:  containerID,
		SourceCode:   container.SourceCode,
		OriginalHash: container.OriginalHash,
	}
	if err := s.db.WithContext(ctx).Create(backup).Error; err != nil {
		return nil, fmt.Errorf("graph: persist backup for container %s: %w", containerID, joinStorage(err))
	}
	return backup, nil
}

// ListBackupsForMigration returns every SourceCodeBackup row created by
// migrationID, used to restore every container a migration touched rather
// than just the last one backed up.
func (s *Store) ListBackupsForMigration(ctx context.Context, migrationID string) ([]*SourceCodeBackup, error) {
	var rows []*SourceCodeBackup
	err := s.db.WithContext(ctx).Where("migration_id = ?", migrationID).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("graph: list backups for migration %s: %w", migrationID, joinStorage(err))
	}
	return rows, nil
}

// RestoreFromBackup writes a backup's source text back onto its
// container, used when the migration engine's elimination step fails and
// must roll back (spec.md §4.8 outcome: rolled_back).
func (s *Store) RestoreFromBackup(ctx context.Context, backupID string) error {
	var backup SourceCodeBackup
	if err := s.db.WithContext(ctx).Where("id = ?", backupID).First(&backup).Error; err != nil {
		return fmt.Errorf("graph: restore backup %s: %w", backupID, notFoundOr(err))
	}

	err := s.db.WithContext(ctx).Model(&Container{}).
		Where("id = ?", backup.ContainerID).
		Update("source_code", backup.SourceCode).Error
	if err != nil {
		return fmt.Errorf("graph: restore container %s from backup: %w", backup.ContainerID, joinStorage(err))
	}

	now := time.Now()
	backup.RestoredAt = &now
	if err := s.db.WithContext(ctx).Save(&backup).Error; err != nil {
		return fmt.Errorf("graph: mark backup %s restored: %w", backupID, joinStorage(err))
	}
	return nil
}

// EliminateSourceCode clears a container's original source text. Callers
// must have a verified backup and a passing validation gate before
// calling this (migrate.Manager enforces the ordering).
func (s *Store) EliminateSourceCode(ctx context.Context, containerID string) error {
	err := s.db.WithContext(ctx).Model(&Container{}).
		Where("id = ?", containerID).
		Update("source_code", "").Error
	if err != nil {
		return fmt.Errorf("graph: eliminate source code for container %s: %w", containerID, joinStorage(err))
	}
	return nil
}

// Reset wipes every row from every table, used by tests and by the CLI's
// `reset` subcommand. It runs inside a single transaction so a failure
// partway through leaves the store untouched.
func (s *Store) Reset(ctx context.Context) error {
	return s.WithTransaction(ctx, func(tx *Store) error {
		tables := []any{
			&MigrationLog{},
			&SourceCodeBackup{},
			&Migration{},
			&BlockRelationship{},
			&Block{},
			&Container{},
		}
		for _, t := range tables {
			if err := tx.db.Unscoped().Where("1 = 1").Delete(t).Error; err != nil {
				return fmt.Errorf("graph: reset: %w", joinStorage(err))
			}
		}
		return nil
	})
}

func joinStorage(err error) error {
	return fmt.Errorf("%w: %v", ErrStorage, err)
}

func notFoundOr(err error) error {
	if gorm.ErrRecordNotFound == err {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return joinStorage(err)
}
