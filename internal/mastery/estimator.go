package mastery

import (
	"context"

	"github.com/abhisek/mathdrill/internal/skills"
)

// Attempt is one graded response in a session's history. Skipped questions
// are recorded as incorrect attempts so they still inform the estimator.
type Attempt struct {
	Skill   skills.Skill
	Correct bool
}

// Default is the neutral estimate used when the estimator fails or has no
// history to work with.
const Default = 0.5

// Estimator produces a point estimate of mastery from a response history.
// Implementations must be deterministic for identical histories. The engine
// bounds calls with a context deadline and falls back to Default on error,
// so implementations should respect ctx but need no fallback of their own.
type Estimator interface {
	Predict(ctx context.Context, history []Attempt) (float64, error)
}
