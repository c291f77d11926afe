package mastery

import (
	"context"

	"github.com/abhisek/mathdrill/internal/skills"
)

// BKTParams are the per-skill parameters of a Bayesian Knowledge Tracing
// model: prior probability of mastery, learning rate per opportunity, and
// the slip/guess noise terms.
type BKTParams struct {
	Init  float64 // P(L0): mastery before any evidence
	Learn float64 // P(T): transition to mastered after an opportunity
	Slip  float64 // P(S): wrong answer despite mastery
	Guess float64 // P(G): right answer without mastery
}

// DefaultBKTParams returns a parameter set for each skill. Later skills in
// the curriculum carry a slightly lower prior and learning rate.
func DefaultBKTParams() map[skills.Skill]BKTParams {
	return map[skills.Skill]BKTParams{
		skills.Addition:       {Init: 0.20, Learn: 0.15, Slip: 0.10, Guess: 0.20},
		skills.Subtraction:    {Init: 0.15, Learn: 0.12, Slip: 0.10, Guess: 0.20},
		skills.Multiplication: {Init: 0.10, Learn: 0.10, Slip: 0.12, Guess: 0.15},
		skills.Division:       {Init: 0.08, Learn: 0.08, Slip: 0.12, Guess: 0.15},
	}
}

// BKTEstimator is a hidden-Markov forward filter over a binary latent
// mastery state. It replays the full history on every call, which keeps it
// stateless and deterministic for identical inputs.
type BKTEstimator struct {
	params map[skills.Skill]BKTParams
}

// NewBKTEstimator creates an estimator with the given per-skill parameters.
// Skills missing from the map fall back to the Addition defaults.
func NewBKTEstimator(params map[skills.Skill]BKTParams) *BKTEstimator {
	if params == nil {
		params = DefaultBKTParams()
	}
	return &BKTEstimator{params: params}
}

var _ Estimator = (*BKTEstimator)(nil)

// Predict runs the forward filter over the history and returns the mastery
// probability after the final observation. An empty history yields Default.
func (e *BKTEstimator) Predict(ctx context.Context, history []Attempt) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(history) == 0 {
		return Default, nil
	}

	p := e.paramsFor(history[0].Skill)
	mastered := p.Init

	for _, a := range history {
		cur := e.paramsFor(a.Skill)

		var posterior float64
		if a.Correct {
			num := mastered * (1 - cur.Slip)
			den := num + (1-mastered)*cur.Guess
			posterior = safeDiv(num, den, mastered)
		} else {
			num := mastered * cur.Slip
			den := num + (1-mastered)*(1-cur.Guess)
			posterior = safeDiv(num, den, mastered)
		}

		mastered = posterior + (1-posterior)*cur.Learn
	}

	return mastered, nil
}

func (e *BKTEstimator) paramsFor(s skills.Skill) BKTParams {
	if p, ok := e.params[s]; ok {
		return p
	}
	return BKTParams{Init: 0.20, Learn: 0.15, Slip: 0.10, Guess: 0.20}
}

func safeDiv(num, den, fallback float64) float64 {
	if den == 0 {
		return fallback
	}
	return num / den
}
