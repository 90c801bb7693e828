package scoring

import "math"

// Difficulty tiers
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
	DifficultyExpert = "expert"
)

var Difficulties = []string{DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert}

// tierPoints holds the full-score points per difficulty tier
// (base 10 times the tier multiplier 1/2/3/4).
var tierPoints = map[string]int{
	DifficultyEasy:   10,
	DifficultyMedium: 20,
	DifficultyHard:   30,
	DifficultyExpert: 40,
}

// CalculatePoints computes the points awarded for solving a problem of the
// given difficulty with the given review score (0-100 scale).
//
//	points = floor(tierPoints[difficulty] × clamp(score/100, 0.1, 1.0))
//
// floored to a minimum of 1; unknown difficulties contribute 0 and therefore
// also yield 1. Never fails.
func CalculatePoints(difficulty string, score float64) int {
	base := tierPoints[difficulty] // 0 for unknown difficulties

	scoreMult := score / 100
	if scoreMult < 0.1 {
		scoreMult = 0.1
	} else if scoreMult > 1.0 {
		scoreMult = 1.0
	}

	points := int(math.Floor(float64(base) * scoreMult))
	if points < 1 {
		points = 1
	}
	return points
}
