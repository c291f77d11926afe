// Package mastery implements the numerical policy around the mastery
// estimate: the difficulty mapping, the smoothing blend applied after each
// answer, the response-time penalty, and the estimator contract.
package mastery

import "github.com/abhisek/mathdrill/internal/skills"

// Bounds for the running mastery estimate. Every update clamps into this
// range so the difficulty policy never sees a degenerate probability.
const (
	Floor = 0.1
	Ceil  = 0.99
)

// Initial is the mastery estimate assigned to a fresh session.
const Initial = 0.1

// DifficultyFor maps a mastery estimate to the difficulty tier of the next
// question. Monotone non-decreasing in masteryProb.
func DifficultyFor(masteryProb float64) skills.Difficulty {
	switch {
	case masteryProb < 0.5:
		return skills.Easy
	case masteryProb < 0.8:
		return skills.Medium
	default:
		return skills.Hard
	}
}

// Blend folds a fresh estimator reading into the running estimate using an
// asymmetric smoothing weight: 0.5 after a correct answer, -1.0 after an
// incorrect one. The incorrect branch therefore computes 2*previous - raw,
// an amplified downward correction. The result is clamped to [Floor, Ceil].
func Blend(previous, raw float64, correct bool) float64 {
	weight := 0.5
	if !correct {
		weight = -1.0
	}
	return Clamp(weight*raw + (1-weight)*previous)
}

// Clamp restricts p to the valid mastery range.
func Clamp(p float64) float64 {
	if p < Floor {
		return Floor
	}
	if p > Ceil {
		return Ceil
	}
	return p
}

// Response-time penalty parameters. Answers within idealTime carry no
// penalty; the penalty grows linearly up to maxTime and the factor never
// drops below minPenaltyFactor.
const (
	idealTime        = 5.0
	maxTime          = 20.0
	minPenaltyFactor = 0.5
)

// AdjustForTime scales a mastery estimate down for slow responses. Kept as
// an available policy primitive; the session engine does not currently
// invoke it.
func AdjustForTime(masteryProb, responseTime float64) float64 {
	if responseTime <= idealTime {
		return masteryProb
	}

	t := responseTime
	if t > maxTime {
		t = maxTime
	}
	factor := 1 - (t-idealTime)/(maxTime-idealTime)
	if factor < minPenaltyFactor {
		factor = minPenaltyFactor
	}

	return Clamp(masteryProb * factor)
}
