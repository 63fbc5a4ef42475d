package progression

import (
	"context"
	"fmt"
	"time"

	"github.com/ascend-app/ascend/internal/domain"
	"github.com/ascend-app/ascend/internal/infra/metrics"
)

// RecordCompletion advances the streak for an activity. Feature modules call
// this themselves at the right point in their completion flow; the award
// path only reads streak state, it never advances it.
func (s *Service) RecordCompletion(ctx context.Context, userID string, kind domain.ActivityKind, activityID string) (int, error) {
	return s.RecordCompletionAt(ctx, userID, kind, activityID, time.Now())
}

// RecordCompletionAt is RecordCompletion with an explicit clock.
// Same-day calls are no-ops; a completion after a missed day restarts the
// streak at 1. Habit completions also stamp the 66-day formation ledger.
// Returns the streak after the update.
func (s *Service) RecordCompletionAt(ctx context.Context, userID string, kind domain.ActivityKind, activityID string, now time.Time) (int, error) {
	if !kind.IsValid() {
		return 0, fmt.Errorf("invalid activity kind: %q", kind)
	}
	if activityID == "" {
		return 0, fmt.Errorf("activity id is required")
	}

	var streak int
	err := s.store.MutateUser(ctx, userID, func(rec *domain.UserRecord) error {
		updated := advanceStreak(rec.StreakFor(kind, activityID), now)
		if kind == domain.ActivityHabit {
			updated.CompletionDays = appendLedgerDay(updated.CompletionDays, now)
		}
		rec.SetStreak(kind, activityID, updated)
		streak = updated.Streak
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.StreakCompletions.WithLabelValues(string(kind)).Inc()
	return streak, nil
}

// Streak reads the live streak for an activity, with lazy invalidation
// applied: a stale stored value reads as 0.
func (s *Service) Streak(ctx context.Context, userID string, kind domain.ActivityKind, activityID string) (int, error) {
	return s.StreakAt(ctx, userID, kind, activityID, time.Now())
}

// StreakAt is Streak with an explicit clock.
func (s *Service) StreakAt(ctx context.Context, userID string, kind domain.ActivityKind, activityID string, now time.Time) (int, error) {
	if !kind.IsValid() {
		return 0, fmt.Errorf("invalid activity kind: %q", kind)
	}
	rec, err := s.store.LoadUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	return StreakFor(rec.StreakFor(kind, activityID), now), nil
}
