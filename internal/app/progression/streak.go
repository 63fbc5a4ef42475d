package progression

import (
	"time"

	"github.com/ascend-app/ascend/internal/domain"
)

// HabitLedgerDays bounds the habit-formation ledger: completion days older
// than this are trimmed on every write.
const HabitLedgerDays = 66

const dayKeyLayout = "2006-01-02"

// StreakFor derives the live streak from a stored record. The stored integer
// may be stale: it only counts if the last completion was calendar-today
// (idempotent same-day re-read) or exactly yesterday (alive, not yet extended
// for today). Anything else, including future timestamps from clock skew,
// reads as 0. Pure; never mutates streak state.
func StreakFor(rec domain.StreakRecord, now time.Time) int {
	if rec.LastCompleted.IsZero() {
		return 0
	}
	if sameDay(rec.LastCompleted, now) || isYesterday(rec.LastCompleted, now) {
		return rec.Streak
	}
	return 0
}

// advanceStreak applies a completion to a streak record.
// Same day: no-op (at most one count per day). Yesterday: extend.
// Otherwise: fresh start at 1.
func advanceStreak(rec domain.StreakRecord, now time.Time) domain.StreakRecord {
	switch {
	case !rec.LastCompleted.IsZero() && sameDay(rec.LastCompleted, now):
		return rec
	case !rec.LastCompleted.IsZero() && isYesterday(rec.LastCompleted, now):
		rec.Streak++
	default:
		rec.Streak = 1
	}
	rec.LastCompleted = now
	return rec
}

// appendLedgerDay records today in the habit-formation ledger and trims
// entries older than the 66-day horizon. Idempotent per day.
func appendLedgerDay(days []string, now time.Time) []string {
	key := now.Format(dayKeyLayout)
	horizon := now.AddDate(0, 0, -HabitLedgerDays)

	kept := make([]string, 0, len(days)+1)
	seen := false
	for _, d := range days {
		t, err := time.ParseInLocation(dayKeyLayout, d, now.Location())
		if err != nil || !t.After(horizon) {
			continue
		}
		if d == key {
			seen = true
		}
		kept = append(kept, d)
	}
	if !seen {
		kept = append(kept, key)
	}
	return kept
}

// HabitFormation reports how full the 66-day ledger is, in [0,1].
func HabitFormation(rec domain.StreakRecord, now time.Time) float64 {
	horizon := now.AddDate(0, 0, -HabitLedgerDays)
	count := 0
	for _, d := range rec.CompletionDays {
		t, err := time.ParseInLocation(dayKeyLayout, d, now.Location())
		if err == nil && t.After(horizon) {
			count++
		}
	}
	p := float64(count) / float64(HabitLedgerDays)
	if p > 1 {
		return 1
	}
	return p
}

// sameDay compares calendar days in a's location.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

// isYesterday reports whether last is exactly one calendar day before now.
func isYesterday(last, now time.Time) bool {
	return sameDay(last.AddDate(0, 0, 1), now)
}
