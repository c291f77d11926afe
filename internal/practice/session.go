// Package practice holds the session state machine: the in-memory session
// store, the per-question transition applied on every answer or skip, and
// the terminal summary.
package practice

import (
	"sync"
	"time"

	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/skills"
)

// Session budgets and length.
const (
	TotalQuestions = 10
	SkipBudget     = 3
	HintBudget     = 3
)

// ProgressEntry is the per-question audit record used to build the final
// summary. Correct and ResponseTime are nil for skipped questions.
type ProgressEntry struct {
	QuestionNumber     int               `json:"question_number"`
	Difficulty         skills.Difficulty `json:"difficulty"`
	Correct            *bool             `json:"correct"`
	ResponseTime       *float64          `json:"response_time"`
	MasteryProbability float64           `json:"mastery_probability"`
	Skipped            bool              `json:"skipped"`
}

// HintRecord logs one served hint.
type HintRecord struct {
	Question  string    `json:"question"`
	Hint      string    `json:"hint"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the central mutable entity of a practice run. All fields are
// guarded by mu; the engine holds the lock for the full read-modify-write
// of a request, including across external estimator and hint calls, so two
// requests for the same session never interleave.
type Session struct {
	mu        sync.Mutex
	completed bool

	ID    string
	Skill skills.Skill

	// QuestionNumber counts questions presented so far (0..TotalQuestions).
	QuestionNumber int

	// Responses is the append-only estimator history. Skips are recorded
	// as incorrect attempts.
	Responses []mastery.Attempt

	// Progress is the append-only audit trail.
	Progress []ProgressEntry

	CurrentDifficulty skills.Difficulty
	CurrentQuestion   string
	CurrentAnswer     int

	// MasteryProb is the running estimate, clamped to the mastery range
	// on every update.
	MasteryProb float64

	SkippedQuestions int
	HintsRemaining   int
	HintsUsed        []HintRecord
}

// Snapshot is a consistent copy of a session's observable state, for
// read-only callers that must not hold the lock.
type Snapshot struct {
	ID                string
	Skill             skills.Skill
	QuestionNumber    int
	CurrentDifficulty skills.Difficulty
	CurrentQuestion   string
	MasteryProb       float64
	SkippedQuestions  int
	HintsRemaining    int
}

// View returns a consistent snapshot of the session.
func (s *Session) View() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:                s.ID,
		Skill:             s.Skill,
		QuestionNumber:    s.QuestionNumber,
		CurrentDifficulty: s.CurrentDifficulty,
		CurrentQuestion:   s.CurrentQuestion,
		MasteryProb:       s.MasteryProb,
		SkippedQuestions:  s.SkippedQuestions,
		HintsRemaining:    s.HintsRemaining,
	}
}
