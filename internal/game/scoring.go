package game

import (
	"math"
)

// Hint multipliers are a step function, not a smooth decay: the third
// hint gives away most of the phrase, so everything past two hints
// scores the same.
const (
	multiplierNoHints    = 1.0
	multiplierOneHint    = 0.9
	multiplierTwoHints   = 0.7
	multiplierThreeHints = 0.5
)

// Score computes the final score for a completed phrase from its base
// difficulty and the number of hints the player revealed, rounded to
// the nearest integer.
func Score(baseDifficulty, hintsUsed int) int {
	var multiplier float64
	switch {
	case hintsUsed <= 0:
		multiplier = multiplierNoHints
	case hintsUsed == 1:
		multiplier = multiplierOneHint
	case hintsUsed == 2:
		multiplier = multiplierTwoHints
	default:
		multiplier = multiplierThreeHints
	}
	return int(math.Round(float64(baseDifficulty) * multiplier))
}
