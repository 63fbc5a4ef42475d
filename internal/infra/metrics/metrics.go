// Package metrics provides Prometheus metrics for the progression engine:
// awards, clipping, level-ups, streaks, and prestige.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Awards ─────────────────────────────────────────────────────────────────

// XPAwarded tracks XP actually granted, after multipliers and the daily cap.
var XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "xp_awarded_total",
	Help:      "XP granted, by category and task type.",
}, []string{"category", "task_type"})

// XPClipped tracks XP removed by the daily cap.
var XPClipped = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "xp_clipped_total",
	Help:      "XP withheld by the daily earning cap.",
})

// Awards tracks award operations by task type.
var Awards = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "awards_total",
	Help:      "XP award operations.",
}, []string{"task_type"})

// DuplicateRoutines tracks routine completions skipped by the same-day guard.
var DuplicateRoutines = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "duplicate_routines_total",
	Help:      "Routine awards skipped because the task was already completed today.",
})

// ─── Levels ─────────────────────────────────────────────────────────────────

// LevelUps tracks category level-up events.
var LevelUps = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "level_ups_total",
	Help:      "Category level-up events.",
}, []string{"category"})

// DailyCapReached tracks awards that exhausted the daily limit.
var DailyCapReached = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "daily_cap_reached_total",
	Help:      "Awards that left the user at the daily XP limit.",
})

// Prestiges tracks successful prestige operations.
var Prestiges = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "prestige_total",
	Help:      "Successful prestige operations.",
})

// ─── Streaks ────────────────────────────────────────────────────────────────

// StreakCompletions tracks streak completions recorded, by activity kind.
var StreakCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "streak_completions_total",
	Help:      "Streak completions recorded.",
}, []string{"kind"})
