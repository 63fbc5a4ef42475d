package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ascend-app/ascend/internal/domain"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadUser_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.LoadUser(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	rec := domain.NewUserRecord("alice", time.Now())
	if err := db.CreateUser(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.CreateUser(ctx, rec); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestEnsureUser_CreatesThenLoads(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	first, err := db.EnsureUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if first.ID != "alice" || first.Overall.Level != 1 {
		t.Errorf("fresh record wrong: %+v", first)
	}

	// Second call loads rather than overwrites.
	err = db.MutateUser(ctx, "alice", func(rec *domain.UserRecord) error {
		rec.SetCategory(domain.CategoryPhysical, domain.CategoryProgress{Level: 2, XP: 1500})
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	again, err := db.EnsureUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if again.Categories[domain.CategoryPhysical].XP != 1500 {
		t.Errorf("ensure clobbered the record: %+v", again.Categories)
	}
}

func TestMutateUser_Roundtrip(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.EnsureUser(ctx, "alice"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	err := db.MutateUser(ctx, "alice", func(rec *domain.UserRecord) error {
		rec.SetCategory(domain.CategoryMental, domain.CategoryProgress{Level: 3, XP: 2100})
		rec.Stats = domain.DailyStats{Day: "2026-03-10", TodayXP: 150, CompletedTasks: []string{"workout"}}
		rec.SetStreak(domain.ActivityRoutine, "workout", domain.StreakRecord{Streak: 4, LastCompleted: time.Now()})
		return nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	rec, err := db.LoadUser(ctx, "alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec.Categories[domain.CategoryMental].Level != 3 {
		t.Errorf("category not persisted: %+v", rec.Categories)
	}
	if rec.Stats.TodayXP != 150 || len(rec.Stats.CompletedTasks) != 1 {
		t.Errorf("stats not persisted: %+v", rec.Stats)
	}
	if rec.RoutineStreaks["workout"].Streak != 4 {
		t.Errorf("streak not persisted: %+v", rec.RoutineStreaks)
	}
}

func TestMutateUser_ErrorAborts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.EnsureUser(ctx, "alice"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	boom := errors.New("boom")
	err := db.MutateUser(ctx, "alice", func(rec *domain.UserRecord) error {
		rec.Stats.TodayXP = 999
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error to propagate, got %v", err)
	}

	rec, _ := db.LoadUser(ctx, "alice")
	if rec.Stats.TodayXP != 0 {
		t.Errorf("failed mutation must not persist, got todayXP %d", rec.Stats.TodayXP)
	}
}

func TestMutateUser_MissingUser(t *testing.T) {
	db := testDB(t)

	err := db.MutateUser(context.Background(), "ghost", func(rec *domain.UserRecord) error { return nil })
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSnapshots_AppendAndList(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		snap := domain.Snapshot{
			ID:      uuid.NewString(),
			UserID:  "alice",
			TakenAt: base.Add(time.Duration(i) * time.Hour),
			Categories: map[domain.Category]domain.CategoryProgress{
				domain.CategoryPhysical: {Level: 1, XP: int64(i * 100)},
			},
			Overall: domain.OverallProgress{Level: 1},
		}
		if err := db.AppendSnapshot(ctx, snap); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	snaps, err := db.ListSnapshots(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(snaps))
	}
	// Newest first.
	if snaps[0].Categories[domain.CategoryPhysical].XP != 200 {
		t.Errorf("expected newest snapshot first, got %+v", snaps[0])
	}

	all, err := db.ListSnapshots(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("limit 0 should return all, got %d", len(all))
	}
}

func TestSnapshots_IsolatedPerUser(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	snap := domain.Snapshot{ID: uuid.NewString(), UserID: "alice", TakenAt: time.Now()}
	if err := db.AppendSnapshot(ctx, snap); err != nil {
		t.Fatalf("append: %v", err)
	}

	other, err := db.ListSnapshots(ctx, "bob", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("bob should have no snapshots, got %d", len(other))
	}
}

func TestNotifications_Lifecycle(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	id, err := db.InsertNotification(ctx, domain.Notification{
		UserID: "alice",
		Type:   domain.NotifyLevelUp,
		Title:  "Level up!",
		Body:   "Physical reached level 2",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	pending, err := db.ListPendingNotifications(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d", len(pending))
	}
	if pending[0].Type != domain.NotifyLevelUp || pending[0].Shown {
		t.Errorf("unexpected notification: %+v", pending[0])
	}

	if err := db.MarkNotificationShown(ctx, id); err != nil {
		t.Fatalf("mark shown: %v", err)
	}
	pending, err = db.ListPendingNotifications(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("list after mark: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("shown notification still pending: %+v", pending)
	}
}

func TestNotifications_OldestFirst(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 2; i >= 0; i-- {
		_, err := db.InsertNotification(ctx, domain.Notification{
			UserID:    "alice",
			Type:      domain.NotifyXPAwarded,
			Title:     "XP",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	pending, err := db.ListPendingNotifications(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3, got %d", len(pending))
	}
	if !pending[0].CreatedAt.Before(pending[1].CreatedAt) {
		t.Errorf("expected oldest first: %v then %v", pending[0].CreatedAt, pending[1].CreatedAt)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.EnsureUser(context.Background(), "alice"); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	if _, err := db2.LoadUser(context.Background(), "alice"); err != nil {
		t.Fatalf("record lost across reopen: %v", err)
	}
}
