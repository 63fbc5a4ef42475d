// Package progression implements the XP engine: streak tracking, bonus
// multipliers, the daily earning cap, level derivation, and the award
// orchestrator that ties them together.
package progression

import (
	"math"

	"github.com/ascend-app/ascend/internal/domain"
)

const (
	// XPPerLevel is the flat per-level XP cost. Levels are linear, not
	// exponential: level == xp/1000 + 1.
	XPPerLevel int64 = 1000

	// MaxLevel caps the displayed level. XP past the level-100 threshold is
	// still stored, it just stops moving the level.
	MaxLevel = 100
)

// LevelForXP returns the level for cumulative XP. Monotonic non-decreasing,
// saturates at MaxLevel. Negative input is treated as zero.
func LevelForXP(xp int64) int {
	if xp < 0 {
		xp = 0
	}
	level := int(xp/XPPerLevel) + 1
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// ProgressWithinLevel returns how far into the given level the XP sits,
// clamped to [0,1].
func ProgressWithinLevel(xp int64, level int) float64 {
	if level < 1 {
		level = 1
	}
	p := float64(xp-int64(level-1)*XPPerLevel) / float64(XPPerLevel)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// ResolveOverall derives the headline level from the mean of all category XP.
// Absent categories count as zero rather than failing. The overall XP field
// is the within-level remainder, not a cumulative total.
//
// prior carries the prestige state forward: the prestige XP offset is
// subtracted from the average before it is mapped to a level, so category XP
// survives a prestige while the overall level restarts at 1.
func ResolveOverall(categories map[domain.Category]domain.CategoryProgress, prior domain.OverallProgress) domain.OverallProgress {
	all := domain.AllCategories()

	var total int64
	for _, c := range all {
		total += categories[c].XP
	}
	avg := int64(math.Floor(float64(total) / float64(len(all))))

	effective := avg - prior.PrestigeXP
	if effective < 0 {
		effective = 0
	}

	return domain.OverallProgress{
		Level:      LevelForXP(effective),
		XP:         effective % XPPerLevel,
		Prestige:   prior.Prestige,
		PrestigeXP: prior.PrestigeXP,
	}
}
