package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ascend-app/ascend/internal/domain"
)

// ─── Progress Snapshot Log ──────────────────────────────────────────────────
// *DB implements domain.SnapshotStore. The log is append-only: nothing here
// mutates or prunes history.

// AppendSnapshot stores one timestamped progress snapshot.
func (d *DB) AppendSnapshot(ctx context.Context, snap domain.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO progress_snapshots (id, user_id, taken_at, body) VALUES (?, ?, ?, ?)`,
		snap.ID, snap.UserID, snap.TakenAt.Unix(), string(body),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns the most recent snapshots for a user, newest first.
// limit <= 0 means no limit.
func (d *DB) ListSnapshots(ctx context.Context, userID string, limit int) ([]domain.Snapshot, error) {
	q := `SELECT body FROM progress_snapshots WHERE user_id = ? ORDER BY taken_at DESC`
	args := []any{userID}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []domain.Snapshot
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var snap domain.Snapshot
		if err := json.Unmarshal([]byte(body), &snap); err != nil {
			return nil, fmt.Errorf("decode snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}
