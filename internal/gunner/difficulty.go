package gunner

import "fmt"

// Difficulty selects one of the fixed AI skill presets. It is chosen once per
// match and constant thereafter: difficulty never changes mid-duel.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty maps a preset name to its Difficulty. Used by the duelsim
// CLI and scenario files.
func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "easy":
		return DifficultyEasy, nil
	case "medium":
		return DifficultyMedium, nil
	case "hard":
		return DifficultyHard, nil
	}
	return DifficultyMedium, fmt.Errorf("unknown difficulty %q", s)
}

// DifficultyProfile is the immutable tuning bundle behind one preset. The
// deviations wobble every non-replayed shot, the accuracy multiplier scales
// how hard miss corrections push, and the narrowing factor shrinks the
// correction window after each miss. Harder presets wobble less, correct
// harder, and narrow faster.
type DifficultyProfile struct {
	AngleDeviation     float64 // degrees of uniform aim wobble per shot
	PowerDeviation     float64 // power units of uniform wobble per shot
	AccuracyMultiplier float64 // scales miss-correction strength
	NarrowingFactor    float64 // per-miss window width multiplier
}

var difficultyProfiles = map[Difficulty]DifficultyProfile{
	DifficultyEasy: {
		AngleDeviation:     15,
		PowerDeviation:     20,
		AccuracyMultiplier: 0.7,
		NarrowingFactor:    0.7,
	},
	DifficultyMedium: {
		AngleDeviation:     8,
		PowerDeviation:     10,
		AccuracyMultiplier: 1.0,
		NarrowingFactor:    0.6,
	},
	DifficultyHard: {
		AngleDeviation:     3,
		PowerDeviation:     5,
		AccuracyMultiplier: 1.3,
		NarrowingFactor:    0.5,
	},
}

// Profile returns the preset tuning for d. Unknown values fall back to
// medium rather than zero-valued tuning.
func (d Difficulty) Profile() DifficultyProfile {
	if p, ok := difficultyProfiles[d]; ok {
		return p
	}
	return difficultyProfiles[DifficultyMedium]
}
