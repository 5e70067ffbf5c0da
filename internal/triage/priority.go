package triage

import "fmt"

// Level is the ordinal urgency of a patient. 1 is the most urgent.
type Level int

const (
	LevelCritical Level = iota + 1
	LevelHigh
	LevelMedium
	LevelLow
	LevelRoutine
)

// Score thresholds, strictly greater than.
const (
	criticalAbove = 90.0
	highAbove     = 70.0
	mediumAbove   = 50.0
	lowAbove      = 30.0
)

// LevelFromScore maps a crisp inference score to a priority level.
func LevelFromScore(score float64) Level {
	switch {
	case score > criticalAbove:
		return LevelCritical
	case score > highAbove:
		return LevelHigh
	case score > mediumAbove:
		return LevelMedium
	case score > lowAbove:
		return LevelLow
	default:
		return LevelRoutine
	}
}

func (l Level) Valid() bool {
	return l >= LevelCritical && l <= LevelRoutine
}

func (l Level) String() string {
	switch l {
	case LevelCritical:
		return "critical"
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	case LevelRoutine:
		return "routine"
	}
	return fmt.Sprintf("level(%d)", int(l))
}
