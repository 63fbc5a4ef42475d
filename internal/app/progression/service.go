package progression

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ascend-app/ascend/internal/domain"
	"github.com/ascend-app/ascend/internal/infra/metrics"
)

// Limits holds the tunable caps. The zero value means defaults.
type Limits struct {
	DailyXPLimit int64
}

// DefaultLimits returns the stock caps.
func DefaultLimits() Limits {
	return Limits{DailyXPLimit: DefaultDailyXPLimit}
}

// Service is the XP award orchestrator: the single entry point feature
// modules (task, habit, routine, challenge handlers) call to grant XP.
// Dependencies are injected at construction; there is no global wiring.
type Service struct {
	store     domain.UserStore
	snapshots domain.SnapshotStore
	notes     domain.NotificationSink
	limits    Limits
}

// NewService creates the orchestrator. snapshots and notes may be nil, in
// which case snapshotting and notifications are skipped.
func NewService(store domain.UserStore, snapshots domain.SnapshotStore, notes domain.NotificationSink, limits Limits) *Service {
	if limits.DailyXPLimit <= 0 {
		limits.DailyXPLimit = DefaultDailyXPLimit
	}
	return &Service{store: store, snapshots: snapshots, notes: notes, limits: limits}
}

// Limits returns the caps the service enforces.
func (s *Service) Limits() Limits { return s.limits }

// AddXP grants XP for a completed task. activityID identifies the task or
// activity: for routines it is the same-day dedup key and the streak key,
// for habits the streak key, for normal tasks the active-task id to retire.
func (s *Service) AddXP(ctx context.Context, userID string, gains map[string]int64, taskType domain.TaskType, activityID, taskName string) (domain.AwardResult, error) {
	return s.AddXPAt(ctx, userID, gains, taskType, activityID, taskName, time.Now())
}

// AddXPAt is AddXP with an explicit clock, for testability.
//
// The whole award (rollover, dedup check, multiplier, cap, level-ups,
// overall recompute, bookkeeping) runs inside one store mutation, so
// concurrent awards for the same user cannot lose updates. The snapshot
// append and notifications happen after the commit and are fire-and-forget.
func (s *Service) AddXPAt(ctx context.Context, userID string, gains map[string]int64, taskType domain.TaskType, activityID, taskName string, now time.Time) (domain.AwardResult, error) {
	if !taskType.IsValid() {
		return domain.AwardResult{}, fmt.Errorf("invalid task type: %q", taskType)
	}
	normalized, err := normalizeGains(gains)
	if err != nil {
		return domain.AwardResult{}, err
	}

	var (
		result  domain.AwardResult
		snap    domain.Snapshot
		notifs  []domain.Notification
		clipped int64
	)

	err = s.store.MutateUser(ctx, userID, func(rec *domain.UserRecord) error {
		rolloverDaily(&rec.Stats, now)

		// Same-day idempotence for routines: a routine task completed twice
		// in one day is awarded once. Not an error, a zero-effect success.
		// Anonymous awards (empty activityID) carry no identity to dedup on.
		if taskType == domain.TaskRoutine && activityID != "" && containsTask(rec.Stats.CompletedTasks, activityID) {
			result = zeroResult(rec, s.limits.DailyXPLimit)
			return nil
		}

		amounts := normalized
		if taskType != domain.TaskNormal {
			mult := Multiplier(rec, taskType, activityID, now)
			amounts = applyMultiplier(amounts, mult)
		}

		adjusted, total := Clip(amounts, rec.Stats.TodayXP, s.limits.DailyXPLimit, taskType)
		for _, v := range amounts {
			clipped += v
		}
		clipped -= total

		var levelUps []domain.Category
		for _, c := range domain.SortedCategories(adjusted) {
			cp := rec.Category(c)
			oldLevel := cp.Level
			cp.XP += adjusted[c]
			cp.Level = LevelForXP(cp.XP)
			rec.SetCategory(c, cp)
			if cp.Level > oldLevel {
				levelUps = append(levelUps, c)
			}
		}

		rec.Overall = ResolveOverall(rec.Categories, rec.Overall)

		rec.Stats.TodayXP += total
		if rec.Stats.TodayXP > s.limits.DailyXPLimit {
			rec.Stats.TodayXP = s.limits.DailyXPLimit
		}

		switch taskType {
		case domain.TaskNormal:
			rec.ActiveTasks = removeTask(rec.ActiveTasks, activityID)
		case domain.TaskRoutine:
			if activityID != "" {
				rec.Stats.CompletedTasks = append(rec.Stats.CompletedTasks, activityID)
			}
		}

		result = domain.AwardResult{
			LevelUps:        levelUps,
			NewOverallLevel: rec.Overall.Level,
			XPLimitReached:  rec.Stats.TodayXP >= s.limits.DailyXPLimit,
			Awarded:         adjusted,
			TotalAwarded:    total,
		}
		snap = snapshotOf(rec, now)
		notifs = s.buildNotifications(rec, result, taskName, now)
		return nil
	})
	if err != nil {
		return domain.AwardResult{}, err
	}

	s.recordMetrics(taskType, result)
	if clipped > 0 {
		metrics.XPClipped.Add(float64(clipped))
	}
	s.appendSnapshot(ctx, snap)
	s.send(ctx, notifs)

	return result, nil
}

// Progress returns the user's current record, or ErrUserNotFound.
func (s *Service) Progress(ctx context.Context, userID string) (*domain.UserRecord, error) {
	return s.store.LoadUser(ctx, userID)
}

// ─── internals ──────────────────────────────────────────────────────────────

// rolloverDaily lazily resets the daily counter when the stored day key no
// longer matches now. Replaces the external midnight maintenance job.
func rolloverDaily(stats *domain.DailyStats, now time.Time) {
	key := now.Format(dayKeyLayout)
	if stats.Day != key {
		stats.Day = key
		stats.TodayXP = 0
		stats.CompletedTasks = nil
	}
}

func normalizeGains(gains map[string]int64) (map[domain.Category]int64, error) {
	if len(gains) == 0 {
		return nil, fmt.Errorf("no xp gains given")
	}
	out := make(map[domain.Category]int64, len(gains))
	for raw, amount := range gains {
		c := domain.NormalizeCategory(raw)
		if !c.IsValid() {
			return nil, fmt.Errorf("unknown category: %q", raw)
		}
		if amount < 0 {
			return nil, fmt.Errorf("negative xp for %s: %d", c, amount)
		}
		out[c] += amount
	}
	return out, nil
}

func applyMultiplier(amounts map[domain.Category]int64, mult float64) map[domain.Category]int64 {
	out := make(map[domain.Category]int64, len(amounts))
	for c, v := range amounts {
		// Floor with an epsilon: the decimal bonus rates are not exactly
		// representable, so the product can land a hair under the exact
		// value (100 * 1.15 evaluates just below 115).
		out[c] = int64(math.Floor(float64(v)*mult + 1e-9))
	}
	return out
}

func zeroResult(rec *domain.UserRecord, limit int64) domain.AwardResult {
	return domain.AwardResult{
		NewOverallLevel: rec.Overall.Level,
		XPLimitReached:  rec.Stats.TodayXP >= limit,
		Awarded:         map[domain.Category]int64{},
	}
}

func snapshotOf(rec *domain.UserRecord, now time.Time) domain.Snapshot {
	categories := make(map[domain.Category]domain.CategoryProgress, len(rec.Categories))
	for c, cp := range rec.Categories {
		categories[c] = cp
	}
	return domain.Snapshot{
		ID:         uuid.NewString(),
		UserID:     rec.ID,
		TakenAt:    now,
		Categories: categories,
		Overall:    rec.Overall,
	}
}

func (s *Service) buildNotifications(rec *domain.UserRecord, res domain.AwardResult, taskName string, now time.Time) []domain.Notification {
	if s.notes == nil {
		return nil
	}

	var out []domain.Notification
	remaining := s.limits.DailyXPLimit - rec.Stats.TodayXP

	if res.TotalAwarded > 0 {
		title := "XP awarded"
		if taskName != "" {
			title = taskName
		}
		out = append(out, domain.Notification{
			UserID:    rec.ID,
			Type:      domain.NotifyXPAwarded,
			Title:     title,
			Body:      fmt.Sprintf("+%d XP across %d categories. %d XP left in today's budget.", res.TotalAwarded, len(res.Awarded), remaining),
			CreatedAt: now,
		})
	}

	for _, c := range res.LevelUps {
		out = append(out, domain.Notification{
			UserID:    rec.ID,
			Type:      domain.NotifyLevelUp,
			Title:     "Level up!",
			Body:      fmt.Sprintf("%s reached level %d.", c, rec.Category(c).Level),
			CreatedAt: now,
		})
	}

	switch {
	case res.XPLimitReached:
		out = append(out, domain.Notification{
			UserID:    rec.ID,
			Type:      domain.NotifyCapReached,
			Title:     "Daily XP limit reached",
			Body:      "Tasks still complete, but XP resumes tomorrow.",
			CreatedAt: now,
		})
	case remaining <= s.limits.DailyXPLimit/10:
		out = append(out, domain.Notification{
			UserID:    rec.ID,
			Type:      domain.NotifyCapApproached,
			Title:     "Approaching daily XP limit",
			Body:      fmt.Sprintf("Only %d XP left in today's budget.", remaining),
			CreatedAt: now,
		})
	}

	return out
}

func (s *Service) recordMetrics(taskType domain.TaskType, res domain.AwardResult) {
	metrics.Awards.WithLabelValues(string(taskType)).Inc()
	for c, v := range res.Awarded {
		if v > 0 {
			metrics.XPAwarded.WithLabelValues(string(c), string(taskType)).Add(float64(v))
		}
	}
	for _, c := range res.LevelUps {
		metrics.LevelUps.WithLabelValues(string(c)).Inc()
	}
	if res.XPLimitReached {
		metrics.DailyCapReached.Inc()
	}
	if taskType == domain.TaskRoutine && res.TotalAwarded == 0 && len(res.Awarded) == 0 {
		metrics.DuplicateRoutines.Inc()
	}
}

func (s *Service) appendSnapshot(ctx context.Context, snap domain.Snapshot) {
	if s.snapshots == nil || snap.ID == "" {
		return
	}
	if err := s.snapshots.AppendSnapshot(ctx, snap); err != nil {
		log.Printf("[progression] WARNING: snapshot append failed for %s: %v", snap.UserID, err)
	}
}

func (s *Service) send(ctx context.Context, notifs []domain.Notification) {
	if s.notes == nil {
		return
	}
	for _, n := range notifs {
		if err := s.notes.Notify(ctx, n); err != nil {
			log.Printf("[progression] WARNING: notification dropped for %s: %v", n.UserID, err)
		}
	}
}

func containsTask(tasks []string, id string) bool {
	for _, t := range tasks {
		if t == id {
			return true
		}
	}
	return false
}

func removeTask(tasks []string, id string) []string {
	out := tasks[:0]
	for _, t := range tasks {
		if t != id {
			out = append(out, t)
		}
	}
	return out
}
