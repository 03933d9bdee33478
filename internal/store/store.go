package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goran-ethernal/OwnerScan/internal/db"
	"github.com/goran-ethernal/OwnerScan/internal/logger"
	"github.com/goran-ethernal/OwnerScan/internal/migrations"
)

// Store is the shared handle to the owner database.
// Every mutating unit runs under the write lock of the given WriteLocker.
type Store struct {
	db     *sql.DB
	writes db.WriteLocker
	log    *logger.Logger

	checkpoints *CheckpointStore
	owners      *OwnerRepository
}

// New migrates the schema and returns a store over sqlDB.
func New(ctx context.Context, sqlDB *sql.DB, writes db.WriteLocker, log *logger.Logger) (*Store, error) {
	s := &Store{
		db:     sqlDB,
		writes: writes,
		log:    log,
	}
	s.checkpoints = &CheckpointStore{store: s}
	s.owners = &OwnerRepository{store: s}

	if err := s.migrate(ctx); err != nil {
		return nil, err
	}

	s.log.Info("store initialized")

	return s, nil
}

func (s *Store) migrate(ctx context.Context) error {
	unlock := s.writes.AcquireWriteLock()
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := migrations.RunMigrationsDB(s.log, s.db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	return nil
}

// Checkpoints returns the checkpoint store.
func (s *Store) Checkpoints() *CheckpointStore {
	return s.checkpoints
}

// Owners returns the owner repository.
func (s *Store) Owners() *OwnerRepository {
	return s.owners
}

// withWriteTx runs fn in one transaction while holding the write lock.
func (s *Store) withWriteTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	unlock := s.writes.AcquireWriteLock()
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.log.Errorf("failed to rollback transaction: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// networkID returns the id of the named network row.
func networkID(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx, `SELECT id FROM network WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownNetwork, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up network %s: %w", name, err)
	}
	return id, nil
}
