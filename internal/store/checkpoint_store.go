package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/russross/meddler"
)

// CheckpointStore persists the next block to scan for each network.
type CheckpointStore struct {
	store *Store
}

// Read returns the stored checkpoint of a network. The first read of an unknown
// network creates its row with origin as checkpoint and returns origin; later reads
// ignore origin.
func (c *CheckpointStore) Read(ctx context.Context, network, displayName string, origin uint64) (uint64, error) {
	var checkpoint uint64

	err := c.store.withWriteTx(ctx, func(tx *sql.Tx) error {
		var row Network
		err := meddler.QueryRow(tx, &row, `SELECT * FROM network WHERE name = ?`, network)
		if err == nil {
			checkpoint = row.Checkpoint
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read checkpoint of %s: %w", network, err)
		}

		row = Network{Name: network, DisplayName: displayName, Checkpoint: origin}
		if err := meddler.Insert(tx, "network", &row); err != nil {
			return fmt.Errorf("failed to create network %s: %w", network, err)
		}

		c.store.log.Infow("network registered", "network", network, "checkpoint", origin)
		checkpoint = origin
		return nil
	})
	if err != nil {
		return 0, err
	}

	return checkpoint, nil
}

// Advance sets the checkpoint of a network. Moving it backwards fails with
// ErrCheckpointRegression and writes nothing; setting the current value is a no-op.
func (c *CheckpointStore) Advance(ctx context.Context, network string, next uint64) error {
	return c.store.withWriteTx(ctx, func(tx *sql.Tx) error {
		var current uint64
		err := tx.QueryRowContext(ctx, `SELECT checkpoint FROM network WHERE name = ?`, network).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrUnknownNetwork, network)
		}
		if err != nil {
			return fmt.Errorf("failed to read checkpoint of %s: %w", network, err)
		}

		if next < current {
			return fmt.Errorf("%w: %s from %d to %d", ErrCheckpointRegression, network, current, next)
		}
		if next == current {
			return nil
		}

		if _, err := tx.ExecContext(ctx, `UPDATE network SET checkpoint = ? WHERE name = ?`, next, network); err != nil {
			return fmt.Errorf("failed to advance checkpoint of %s: %w", network, err)
		}

		return nil
	})
}
