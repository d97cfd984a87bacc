package utils

// xpPerLevel is the flat XP cost of each level step.
const xpPerLevel = 100

// LevelForXP maps accumulated XP to a display level. Pure and total:
// floor(xp/100) + 1, clamped to level 1 for negative input. Level is never
// persisted; callers derive it from XP wherever it is needed.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	return xp/xpPerLevel + 1
}

// XPForLevel returns the minimum XP required to hold the given level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return (level - 1) * xpPerLevel
}

// LevelProgress returns XP gathered inside the current level and the size of
// the step, for progress-bar style display.
func LevelProgress(xp int) (current, needed int) {
	if xp < 0 {
		xp = 0
	}
	return xp % xpPerLevel, xpPerLevel
}
