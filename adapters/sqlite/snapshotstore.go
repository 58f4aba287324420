package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artpar/themekit/domain/resource"
	"github.com/artpar/themekit/ports"
)

// ErrSnapshotNotFound is returned when no snapshot matches.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore implements ports.SnapshotStore using SQLite.
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a new SQLite snapshot store.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// SaveSnapshot stores a snapshot with its exact and wildcard entries.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap resource.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, path, overlay, location, loaded_at)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, snap.Path, snap.Overlay, snap.Location, snap.LoadedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	entry, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_entries (snapshot_id, key, value) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare entries: %w", err)
	}
	defer entry.Close()
	for k, v := range snap.Exact {
		if _, err := entry.ExecContext(ctx, snap.ID, k, v); err != nil {
			return fmt.Errorf("insert entry %s: %w", k, err)
		}
	}

	wildcard, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_wildcards (snapshot_id, position, prefix, suffix, value)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare wildcards: %w", err)
	}
	defer wildcard.Close()
	for i, w := range snap.Wildcards {
		if _, err := wildcard.ExecContext(ctx, snap.ID, i, w.Pattern.Prefix, w.Pattern.Suffix, w.Value); err != nil {
			return fmt.Errorf("insert wildcard %s: %w", w.Pattern, err)
		}
	}

	return tx.Commit()
}

// Get retrieves a snapshot by ID.
func (s *SnapshotStore) Get(ctx context.Context, id string) (resource.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, overlay, location, loaded_at
		FROM snapshots
		WHERE id = ?
	`, id)

	snap, err := scanSnapshot(row)
	if err != nil {
		return resource.Snapshot{}, err
	}
	if err := s.loadEntries(ctx, &snap); err != nil {
		return resource.Snapshot{}, err
	}
	return snap, nil
}

// Latest returns the most recently loaded snapshot.
func (s *SnapshotStore) Latest(ctx context.Context) (resource.Snapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, overlay, location, loaded_at
		FROM snapshots
		ORDER BY loaded_at DESC, rowid DESC
		LIMIT 1
	`)

	snap, err := scanSnapshot(row)
	if err != nil {
		return resource.Snapshot{}, err
	}
	if err := s.loadEntries(ctx, &snap); err != nil {
		return resource.Snapshot{}, err
	}
	return snap, nil
}

// List returns up to limit snapshots, newest first. A limit of zero or
// less returns all of them.
func (s *SnapshotStore) List(ctx context.Context, limit int) ([]resource.Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, overlay, location, loaded_at
		FROM snapshots
		ORDER BY loaded_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}

	var snaps []resource.Snapshot
	for rows.Next() {
		var snap resource.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Path, &snap.Overlay, &snap.Location, &snap.LoadedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	// Entries are read after the cursor is released.
	for i := range snaps {
		if err := s.loadEntries(ctx, &snaps[i]); err != nil {
			return nil, err
		}
	}
	return snaps, nil
}

// ListHeaders returns up to limit snapshot headers, newest first, with
// entry counts and without the entries. A limit of zero or less returns
// all of them.
func (s *SnapshotStore) ListHeaders(ctx context.Context, limit int) ([]resource.SnapshotHeader, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.path, s.overlay, s.location, s.loaded_at,
			(SELECT COUNT(*) FROM snapshot_entries e WHERE e.snapshot_id = s.id),
			(SELECT COUNT(*) FROM snapshot_wildcards w WHERE w.snapshot_id = s.id)
		FROM snapshots s
		ORDER BY s.loaded_at DESC, s.rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var headers []resource.SnapshotHeader
	for rows.Next() {
		var h resource.SnapshotHeader
		if err := rows.Scan(&h.ID, &h.Path, &h.Overlay, &h.Location, &h.LoadedAt, &h.ExactCount, &h.WildcardCount); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		headers = append(headers, h)
	}
	return headers, rows.Err()
}

// Prune keeps the newest keep snapshots and deletes the rest.
func (s *SnapshotStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE id NOT IN (
			SELECT id FROM snapshots ORDER BY loaded_at DESC, rowid DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return result.RowsAffected()
}

func (s *SnapshotStore) loadEntries(ctx context.Context, snap *resource.Snapshot) error {
	snap.Exact = make(map[string]string)

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM snapshot_entries WHERE snapshot_id = ?
	`, snap.ID)
	if err != nil {
		return fmt.Errorf("query entries: %w", err)
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return fmt.Errorf("scan entry: %w", err)
		}
		snap.Exact[k] = v
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `
		SELECT prefix, suffix, value FROM snapshot_wildcards
		WHERE snapshot_id = ?
		ORDER BY position
	`, snap.ID)
	if err != nil {
		return fmt.Errorf("query wildcards: %w", err)
	}
	defer rows.Close()

	snap.Wildcards = nil
	for rows.Next() {
		var w resource.Wildcard
		if err := rows.Scan(&w.Pattern.Prefix, &w.Pattern.Suffix, &w.Value); err != nil {
			return fmt.Errorf("scan wildcard: %w", err)
		}
		snap.Wildcards = append(snap.Wildcards, w)
	}
	return rows.Err()
}

func scanSnapshot(row *sql.Row) (resource.Snapshot, error) {
	var snap resource.Snapshot
	err := row.Scan(&snap.ID, &snap.Path, &snap.Overlay, &snap.Location, &snap.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return resource.Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return resource.Snapshot{}, err
	}
	return snap, nil
}

// Ensure interface compliance.
var _ ports.SnapshotStore = (*SnapshotStore)(nil)
