// Package domain holds the progression engine's core types.
// Users earn XP across seven life categories; levels are derived from
// cumulative XP, never decremented against it.
package domain

import (
	"sort"
	"strings"
	"time"
)

// ─── Categories ─────────────────────────────────────────────────────────────

// Category is one of the seven life categories XP is earned in.
type Category string

const (
	CategoryPhysical      Category = "physical"
	CategoryMental        Category = "mental"
	CategoryIntellectual  Category = "intellectual"
	CategorySpiritual     Category = "spiritual"
	CategoryFinancial     Category = "financial"
	CategoryCareer        Category = "career"
	CategoryRelationships Category = "relationships"
)

// AllCategories returns every category in stable order.
func AllCategories() []Category {
	return []Category{
		CategoryPhysical,
		CategoryMental,
		CategoryIntellectual,
		CategorySpiritual,
		CategoryFinancial,
		CategoryCareer,
		CategoryRelationships,
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryPhysical, CategoryMental, CategoryIntellectual, CategorySpiritual,
		CategoryFinancial, CategoryCareer, CategoryRelationships:
		return true
	default:
		return false
	}
}

// NormalizeCategory lowercases and trims user input into a Category.
// Validity is checked separately via IsValid.
func NormalizeCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// ─── Task Types ─────────────────────────────────────────────────────────────

// TaskType tags an XP award with the kind of completion that produced it.
type TaskType string

const (
	TaskNormal    TaskType = "normal"
	TaskRoutine   TaskType = "routine"
	TaskHabit     TaskType = "habit"
	TaskChallenge TaskType = "challenge"
)

func (t TaskType) IsValid() bool {
	switch t {
	case TaskNormal, TaskRoutine, TaskHabit, TaskChallenge:
		return true
	default:
		return false
	}
}

// ─── Progress Types ─────────────────────────────────────────────────────────

// CategoryProgress is the per-category ledger. XP is cumulative and is the
// ground truth; Level is derived from it and saturates at 100.
type CategoryProgress struct {
	Level int   `json:"level"`
	XP    int64 `json:"xp"`
}

// DefaultCategoryProgress is what an absent category defaults to.
func DefaultCategoryProgress() CategoryProgress {
	return CategoryProgress{Level: 1, XP: 0}
}

// OverallProgress is the user's headline level, derived from the mean of all
// category XP. Unlike category XP, the XP field here is the within-level
// remainder: it resets each overall level.
//
// PrestigeXP is the average XP consumed by past prestiges. It is subtracted
// before mapping the average to a level, which is how a prestige restarts the
// overall level at 1 while leaving category XP untouched.
type OverallProgress struct {
	Level      int   `json:"level"`
	XP         int64 `json:"xp"`
	Prestige   int   `json:"prestige"`
	PrestigeXP int64 `json:"prestige_xp"`
}

// DailyStats tracks the rolling daily XP counter and per-day bookkeeping.
// Day is a "2006-01-02" key; when it no longer matches the current day the
// counter and the completed-task list are stale and must be reset.
type DailyStats struct {
	Day            string   `json:"day"`
	TodayXP        int64    `json:"today_xp"`
	CompletedTasks []string `json:"completed_tasks,omitempty"`
}

// StreakRecord tracks consecutive-day completions for one activity.
// The stored Streak is only trusted if LastCompleted is today or yesterday;
// callers re-derive validity at read time rather than trusting the raw field.
//
// CompletionDays is the habit-formation ledger: completion day keys
// ("2006-01-02"), trimmed to entries less than 66 days old on every write.
// Routine streaks leave it empty.
type StreakRecord struct {
	Streak         int       `json:"streak"`
	LastCompleted  time.Time `json:"last_completed,omitempty"`
	CompletionDays []string  `json:"completion_days,omitempty"`
}

// ActivityKind distinguishes the two streak tables.
type ActivityKind string

const (
	ActivityRoutine ActivityKind = "routine"
	ActivityHabit   ActivityKind = "habit"
)

func (k ActivityKind) IsValid() bool {
	return k == ActivityRoutine || k == ActivityHabit
}

// ─── User Record ────────────────────────────────────────────────────────────

// UserRecord is the per-user document. It is read-modify-written as a whole;
// the store guarantees per-user serializability (see UserStore.MutateUser).
type UserRecord struct {
	ID             string                        `json:"id"`
	Categories     map[Category]CategoryProgress `json:"categories"`
	Overall        OverallProgress               `json:"overall"`
	Stats          DailyStats                    `json:"stats"`
	ActiveTasks    []string                      `json:"active_tasks,omitempty"`
	RoutineStreaks map[string]StreakRecord       `json:"routine_streaks,omitempty"`
	HabitStreaks   map[string]StreakRecord       `json:"habit_streaks,omitempty"`
	CreatedAt      time.Time                     `json:"created_at"`
}

// NewUserRecord creates an empty record for a fresh user.
func NewUserRecord(id string, now time.Time) *UserRecord {
	return &UserRecord{
		ID:             id,
		Categories:     make(map[Category]CategoryProgress),
		Overall:        OverallProgress{Level: 1},
		RoutineStreaks: make(map[string]StreakRecord),
		HabitStreaks:   make(map[string]StreakRecord),
		CreatedAt:      now,
	}
}

// Category returns the stored progress for c, defaulting absent entries to
// {level:1, xp:0}. A missing category is never an error.
func (u *UserRecord) Category(c Category) CategoryProgress {
	if cp, ok := u.Categories[c]; ok {
		return cp
	}
	return DefaultCategoryProgress()
}

// SetCategory writes back progress for c, initializing the map if needed.
func (u *UserRecord) SetCategory(c Category, cp CategoryProgress) {
	if u.Categories == nil {
		u.Categories = make(map[Category]CategoryProgress)
	}
	u.Categories[c] = cp
}

// StreakFor returns the stored streak record for the given activity table.
// Absent records come back zero-valued.
func (u *UserRecord) StreakFor(kind ActivityKind, activityID string) StreakRecord {
	switch kind {
	case ActivityHabit:
		return u.HabitStreaks[activityID]
	default:
		return u.RoutineStreaks[activityID]
	}
}

// SetStreak writes back a streak record into the right table.
func (u *UserRecord) SetStreak(kind ActivityKind, activityID string, rec StreakRecord) {
	switch kind {
	case ActivityHabit:
		if u.HabitStreaks == nil {
			u.HabitStreaks = make(map[string]StreakRecord)
		}
		u.HabitStreaks[activityID] = rec
	default:
		if u.RoutineStreaks == nil {
			u.RoutineStreaks = make(map[string]StreakRecord)
		}
		u.RoutineStreaks[activityID] = rec
	}
}

// ─── Award Result ───────────────────────────────────────────────────────────

// AwardResult is what AddXP reports back to the feature module that called it.
type AwardResult struct {
	LevelUps        []Category         `json:"level_ups,omitempty"`
	NewOverallLevel int                `json:"new_overall_level"`
	XPLimitReached  bool               `json:"xp_limit_reached"`
	Awarded         map[Category]int64 `json:"awarded"`
	TotalAwarded    int64              `json:"total_awarded"`
}

// SortedCategories returns the keys of an amount map in stable order.
// Award application and clipping iterate in this order so results are
// deterministic.
func SortedCategories(m map[Category]int64) []Category {
	keys := make([]Category, 0, len(m))
	for c := range m {
		keys = append(keys, c)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ─── Progress Snapshot ──────────────────────────────────────────────────────

// Snapshot is a timestamped copy of a user's progress for historical
// charting. The snapshot log is append-only.
type Snapshot struct {
	ID         string                        `json:"id"`
	UserID     string                        `json:"user_id"`
	TakenAt    time.Time                     `json:"taken_at"`
	Categories map[Category]CategoryProgress `json:"categories"`
	Overall    OverallProgress               `json:"overall"`
}
