package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

// OwnerRepository stores the unique owner addresses of each network.
type OwnerRepository struct {
	store *Store
}

// Upsert inserts the owners that are not yet recorded for the network, in one transaction.
// It returns the number of newly inserted rows. Rows are never updated or deleted.
func (r *OwnerRepository) Upsert(ctx context.Context, network string, owners []common.Address) (int, error) {
	if len(owners) == 0 {
		return 0, nil
	}

	inserted := 0

	err := r.store.withWriteTx(ctx, func(tx *sql.Tx) error {
		id, err := networkID(ctx, tx, network)
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO owner (address, network_id) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare owner insert: %w", err)
		}
		defer stmt.Close()

		for _, owner := range owners {
			res, err := stmt.ExecContext(ctx, owner.Hex(), id)
			if err != nil {
				return fmt.Errorf("failed to insert owner %s: %w", owner.Hex(), err)
			}

			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to read affected rows: %w", err)
			}
			inserted += int(n)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}

// CountUnique returns the number of distinct owner addresses across all networks.
func (r *OwnerRepository) CountUnique(ctx context.Context) (int64, error) {
	var count int64
	err := r.store.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT address) FROM owner`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unique owners: %w", err)
	}
	return count, nil
}

// CountByNetwork returns the owner count of every known network, ordered by name.
// Networks without owners are included with a zero count.
func (r *OwnerRepository) CountByNetwork(ctx context.Context) ([]*NetworkStats, error) {
	var stats []*NetworkStats
	err := meddler.QueryAll(r.store.db, &stats, `
		SELECT n.name, n.display_name, n.checkpoint, COUNT(o.id) AS owners
		FROM network n
		LEFT JOIN owner o ON o.network_id = n.id
		GROUP BY n.id
		ORDER BY n.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count owners by network: %w", err)
	}
	return stats, nil
}

// Networks returns every network row ordered by name.
func (r *OwnerRepository) Networks(ctx context.Context) ([]*Network, error) {
	var networks []*Network
	if err := meddler.QueryAll(r.store.db, &networks, `SELECT * FROM network ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	return networks, nil
}

// List returns a page of the owners of a network in insertion order, plus the total count.
func (r *OwnerRepository) List(ctx context.Context, network string, limit, offset int) ([]common.Address, int64, error) {
	id, err := networkID(ctx, r.store.db, network)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = r.store.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM owner WHERE network_id = ?`, id).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count owners of %s: %w", network, err)
	}

	var rows []*Owner
	err = meddler.QueryAll(r.store.db, &rows,
		`SELECT * FROM owner WHERE network_id = ? ORDER BY id LIMIT ? OFFSET ?`, id, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list owners of %s: %w", network, err)
	}

	owners := make([]common.Address, len(rows))
	for i, row := range rows {
		owners[i] = row.Address
	}

	return owners, total, nil
}
