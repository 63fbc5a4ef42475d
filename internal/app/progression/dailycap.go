package progression

import (
	"math"

	"github.com/ascend-app/ascend/internal/domain"
)

// DefaultDailyXPLimit is the default daily earning cap across all categories.
const DefaultDailyXPLimit int64 = 2000

// Clip enforces the daily cap on a proposed award. It returns the admissible
// per-category amounts and their sum (the delta to add to todayXP).
//
// Bonus-type awards (routine/habit/challenge, already multiplied) are scaled
// down proportionally with floor rounding. Normal-task awards are raw XP and
// are clipped greedily in category order, never redistributed.
//
// remaining == 0 yields an all-zero award. The task still completes; only
// the reward is throttled.
func Clip(amounts map[domain.Category]int64, todayXP, limit int64, taskType domain.TaskType) (map[domain.Category]int64, int64) {
	adjusted := make(map[domain.Category]int64, len(amounts))

	var base int64
	for _, v := range amounts {
		base += v
	}

	remaining := limit - todayXP
	if remaining < 0 {
		remaining = 0
	}

	if base == 0 || remaining == 0 {
		for c := range amounts {
			adjusted[c] = 0
		}
		return adjusted, 0
	}

	if taskType == domain.TaskNormal {
		// Direct clip, no proportional redistribution. Allocation walks
		// categories in stable order so the cap holds across categories.
		left := remaining
		var total int64
		for _, c := range domain.SortedCategories(amounts) {
			give := amounts[c]
			if give > left {
				give = left
			}
			adjusted[c] = give
			left -= give
			total += give
		}
		return adjusted, total
	}

	adjustedTotal := base
	if adjustedTotal > remaining {
		adjustedTotal = remaining
	}
	scale := float64(adjustedTotal) / float64(base)

	var total int64
	for c, v := range amounts {
		// Same epsilon as the multiplier path: scale is an inexact ratio,
		// so an exact-integer share can evaluate a hair under itself.
		give := int64(math.Floor(float64(v)*scale + 1e-9))
		if give > remaining {
			give = remaining
		}
		adjusted[c] = give
		total += give
	}
	return adjusted, total
}
