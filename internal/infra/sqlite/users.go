package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ascend-app/ascend/internal/domain"
)

// ─── User Record Store ──────────────────────────────────────────────────────
// *DB implements domain.UserStore.

// LoadUser returns the stored record, or domain.ErrUserNotFound.
func (d *DB) LoadUser(ctx context.Context, userID string) (*domain.UserRecord, error) {
	row := d.db.QueryRowContext(ctx, `SELECT record FROM users WHERE id = ?`, userID)
	return scanRecord(row, userID)
}

// CreateUser inserts a fresh record. Returns domain.ErrUserExists if one is
// already stored.
func (d *DB) CreateUser(ctx context.Context, rec *domain.UserRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal user %s: %w", rec.ID, err)
	}
	now := time.Now().Unix()
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO users (id, record, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		rec.ID, string(body), now, now,
	)
	if err != nil && isUniqueViolation(err) {
		return domain.ErrUserExists
	}
	return err
}

// EnsureUser returns the record, creating an empty one if missing.
func (d *DB) EnsureUser(ctx context.Context, userID string) (*domain.UserRecord, error) {
	rec, err := d.LoadUser(ctx, userID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	fresh := domain.NewUserRecord(userID, time.Now())
	if err := d.CreateUser(ctx, fresh); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return d.LoadUser(ctx, userID) // lost the race, record exists now
		}
		return nil, err
	}
	return fresh, nil
}

// MutateUser runs fn against the stored record inside a transaction. The
// single-writer pool serializes writers, so the read-modify-write cannot
// lose a concurrent update. If fn errors nothing is written.
func (d *DB) MutateUser(ctx context.Context, userID string, fn func(*domain.UserRecord) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `SELECT record FROM users WHERE id = ?`, userID)
	rec, err := scanRecord(row, userID)
	if err != nil {
		return err
	}

	if err := fn(rec); err != nil {
		return err
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal user %s: %w", userID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE users SET record = ?, updated_at = ? WHERE id = ?`,
		string(body), time.Now().Unix(), userID,
	); err != nil {
		return fmt.Errorf("update user %s: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit user %s: %w", userID, err)
	}
	return nil
}

func scanRecord(row *sql.Row, userID string) (*domain.UserRecord, error) {
	var body string
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}

	var rec domain.UserRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("decode user %s: %w", userID, err)
	}
	if rec.ID == "" {
		rec.ID = userID
	}
	return &rec, nil
}

func isUniqueViolation(err error) bool {
	// modernc.org/sqlite reports constraint failures in the message;
	// there is no exported error type to match on.
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
