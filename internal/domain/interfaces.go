package domain

import "context"

// UserStore is the narrow data-access contract the progression engine runs
// against. The concrete storage technology is swappable behind it.
type UserStore interface {
	// LoadUser returns the stored record or ErrUserNotFound.
	LoadUser(ctx context.Context, userID string) (*UserRecord, error)

	// EnsureUser returns the record, creating an empty one if missing.
	EnsureUser(ctx context.Context, userID string) (*UserRecord, error)

	// MutateUser runs fn against the stored record inside a transaction.
	// Calls for the same user are serialized: no two mutations interleave,
	// so a read-modify-write in fn cannot lose updates. If fn returns an
	// error nothing is written.
	MutateUser(ctx context.Context, userID string, fn func(*UserRecord) error) error
}

// SnapshotStore is the append-only progress history log.
type SnapshotStore interface {
	AppendSnapshot(ctx context.Context, snap Snapshot) error
	ListSnapshots(ctx context.Context, userID string, limit int) ([]Snapshot, error)
}

// NotificationSink receives fire-and-forget user-facing messages.
type NotificationSink interface {
	Notify(ctx context.Context, n Notification) error
}
