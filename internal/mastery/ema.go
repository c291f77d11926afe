package mastery

import "context"

// EMAEstimator scores mastery as an exponential moving average of
// correctness. A lightweight alternative to the BKT filter with the same
// contract; mainly useful when no tuned parameters exist for a skill set.
type EMAEstimator struct {
	// Alpha is the weight of the newest observation. Must be in (0, 1].
	Alpha float64
}

var _ Estimator = (*EMAEstimator)(nil)

// Predict folds the history into an EMA seeded at Default.
func (e *EMAEstimator) Predict(ctx context.Context, history []Attempt) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	alpha := e.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 0.3
	}

	estimate := Default
	for _, a := range history {
		obs := 0.0
		if a.Correct {
			obs = 1.0
		}
		estimate = alpha*obs + (1-alpha)*estimate
	}
	return estimate, nil
}
