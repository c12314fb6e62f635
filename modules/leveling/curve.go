package leveling

import (
	"math"
	"strings"
)

const barSegments = 20

// ThresholdXP is the XP needed to go from level-1 to level.
func ThresholdXP(level int) int {
	if level <= 0 {
		return 0
	}
	return int(math.Floor(100 * math.Pow(float64(level), 1.5)))
}

// TotalXP is the cumulative XP needed to reach a level from zero.
func TotalXP(level int) int {
	total := 0
	for k := 1; k <= level; k++ {
		total += ThresholdXP(k)
	}
	return total
}

// LevelForXP returns the highest level whose cumulative cost fits in xp.
func LevelForXP(xp int) int {
	level := 0
	total := 0
	for {
		next := total + ThresholdXP(level+1)
		if next > xp {
			return level
		}
		total = next
		level++
	}
}

// IntoLevel splits xp into progress within the current level and the amount
// the next level costs.
func IntoLevel(xp int) (progress, needed int) {
	level := LevelForXP(xp)
	return xp - TotalXP(level), ThresholdXP(level + 1)
}

// ProgressBar renders progress toward the next level as a fixed-width bar.
func ProgressBar(progress, needed int) string {
	filled := 0
	if needed > 0 {
		filled = progress * barSegments / needed
	}
	if filled > barSegments {
		filled = barSegments
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("🟩", filled) + strings.Repeat("⬛", barSegments-filled)
}
