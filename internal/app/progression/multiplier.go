package progression

import (
	"time"

	"github.com/ascend-app/ascend/internal/domain"
)

// Bonus rates. Routine and habit bonuses grow linearly with the streak up to
// their caps. Challenges pay a flat bonus with no streak dependency.
const (
	RoutineStreakRate = 0.0285
	RoutineStreakCap  = 0.20
	HabitStreakRate   = 0.01
	HabitStreakCap    = 0.10
	ChallengeBonus    = 0.15
	PrestigeRate      = 0.03
)

// Multiplier computes the combined XP bonus for a completion: the task-type
// bonus times the prestige factor. Plain tasks carry no type bonus. Pure:
// safe to call repeatedly, reads streak state without advancing it.
func Multiplier(rec *domain.UserRecord, taskType domain.TaskType, activityID string, now time.Time) float64 {
	bonus := 0.0
	switch taskType {
	case domain.TaskRoutine:
		streak := StreakFor(rec.StreakFor(domain.ActivityRoutine, activityID), now)
		bonus = capped(float64(streak)*RoutineStreakRate, RoutineStreakCap)
	case domain.TaskHabit:
		streak := StreakFor(rec.StreakFor(domain.ActivityHabit, activityID), now)
		bonus = capped(float64(streak)*HabitStreakRate, HabitStreakCap)
	case domain.TaskChallenge:
		bonus = ChallengeBonus
	}

	prestige := 1.0 + float64(rec.Overall.Prestige)*PrestigeRate
	return (1.0 + bonus) * prestige
}

func capped(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
