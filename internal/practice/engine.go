package practice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/mathdrill/internal/events"
	"github.com/abhisek/mathdrill/internal/hints"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/skills"
)

// DefaultEstimatorTimeout bounds a single mastery-estimator call. A timeout
// degrades to the neutral default estimate rather than failing the request.
const DefaultEstimatorTimeout = 2 * time.Second

// Engine orchestrates the session state machine: it applies answer, skip,
// and hint events to a stored session, runs the mastery update and
// difficulty policy, and produces the next question or terminal summary.
type Engine struct {
	store     *Store
	questions problemgen.Generator
	estimator mastery.Estimator
	hints     hints.Generator
	events    events.Repo
	logger    *slog.Logger

	estimatorTimeout time.Duration
	now              func() time.Time
}

// NewEngine wires the engine's collaborators. events and logger may be nil.
func NewEngine(store *Store, questions problemgen.Generator, estimator mastery.Estimator, hintGen hints.Generator, repo events.Repo, logger *slog.Logger) *Engine {
	if repo == nil {
		repo = events.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:            store,
		questions:        questions,
		estimator:        estimator,
		hints:            hintGen,
		events:           repo,
		logger:           logger,
		estimatorTimeout: DefaultEstimatorTimeout,
		now:              time.Now,
	}
}

// SetEstimatorTimeout overrides the per-call estimator deadline.
func (e *Engine) SetEstimatorTimeout(d time.Duration) {
	if d > 0 {
		e.estimatorTimeout = d
	}
}

// StartResult is the payload for a newly created session.
type StartResult struct {
	SessionID      string
	Question       string
	Difficulty     skills.Difficulty
	QuestionNumber int
	TotalQuestions int
	SkipsRemaining int
}

// StartSession validates the skill, creates a session seeded with an Easy
// question, and returns the initial payload.
func (e *Engine) StartSession(ctx context.Context, skillName string) (*StartResult, error) {
	skill, ok := skills.Parse(skillName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSkill, skillName)
	}

	seed := e.questions.Generate(skill, skills.Easy)
	sess := e.store.Create(skill, seed)

	e.record(ctx, events.Event{
		Type:      events.TypeSessionStarted,
		SessionID: sess.ID,
		Timestamp: e.now(),
		Payload:   events.SessionStartedPayload{Skill: string(skill)},
	})

	return &StartResult{
		SessionID:      sess.ID,
		Question:       seed.Text,
		Difficulty:     skills.Easy,
		QuestionNumber: 1,
		TotalQuestions: TotalQuestions,
		SkipsRemaining: SkipBudget,
	}, nil
}

// Summary aggregates a finished session. Field names mirror the API
// payload.
type Summary struct {
	TotalQuestions      int               `json:"total_questions"`
	CorrectAnswers      int               `json:"correct_answers"`
	SkippedQuestions    int               `json:"skipped_questions"`
	AverageResponseTime float64           `json:"average_response_time"`
	FinalMastery        float64           `json:"final_mastery"`
	Progress            []ProgressEntry   `json:"progress"`
	CorrectAnswer       string            `json:"correct_answer"`
	IsCorrect           *bool             `json:"is_correct"`
	Difficulty          skills.Difficulty `json:"difficulty"`
	MasteryProbability  float64           `json:"mastery_probability"`
}

// SubmitResult is the outcome of one submit transition. When Complete is
// true only Summary and the last-question echo fields are meaningful;
// otherwise the continue fields describe the next question.
type SubmitResult struct {
	Complete bool

	// Continue fields.
	Question       string
	QuestionNumber int
	SkipsRemaining int

	// Echo of the question just answered.
	CorrectAnswer      string
	IsCorrect          *bool
	Difficulty         skills.Difficulty
	MasteryProbability float64

	// Summary is set when Complete.
	Summary *Summary
}

// Submit applies an answer or skip to the session. All validation happens
// before any mutation, so a rejected request leaves the session untouched.
func (e *Engine) Submit(ctx context.Context, sessionID, answer string, responseTime float64, isSkip bool) (*SubmitResult, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	// The session may have completed between lookup and lock.
	if sess.completed {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	// Validation phase.
	var parsed int
	if isSkip {
		if sess.SkippedQuestions >= SkipBudget {
			return nil, ErrSkipBudgetExceeded
		}
	} else {
		var err error
		parsed, err = strconv.Atoi(strings.TrimSpace(answer))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAnswerFormat, answer)
		}
	}

	// Mutation phase.
	sess.QuestionNumber++

	var isCorrect *bool
	if isSkip {
		sess.SkippedQuestions++
		// Skips count as incorrect in the estimator history but do not
		// trigger a blend; the running estimate is left unchanged.
		sess.Responses = append(sess.Responses, mastery.Attempt{Skill: sess.Skill, Correct: false})
	} else {
		correct := parsed == sess.CurrentAnswer
		isCorrect = &correct
		sess.Responses = append(sess.Responses, mastery.Attempt{Skill: sess.Skill, Correct: correct})

		raw := e.estimate(ctx, sess.ID, sess.Responses)
		sess.MasteryProb = mastery.Blend(sess.MasteryProb, raw, correct)
	}

	var rt *float64
	if !isSkip {
		v := responseTime
		rt = &v
	}
	sess.Progress = append(sess.Progress, ProgressEntry{
		QuestionNumber:     sess.QuestionNumber,
		Difficulty:         sess.CurrentDifficulty,
		Correct:            isCorrect,
		ResponseTime:       rt,
		MasteryProbability: sess.MasteryProb,
		Skipped:            isSkip,
	})

	e.record(ctx, events.Event{
		Type:      events.TypeAnswerSubmitted,
		SessionID: sess.ID,
		Timestamp: e.now(),
		Payload: events.AnswerPayload{
			QuestionNumber: sess.QuestionNumber,
			Difficulty:     string(sess.CurrentDifficulty),
			Correct:        isCorrect,
			Skipped:        isSkip,
			ResponseTime:   rt,
			Mastery:        sess.MasteryProb,
		},
	})

	if sess.QuestionNumber >= TotalQuestions {
		return e.complete(ctx, sess, isCorrect), nil
	}

	answered := sess.CurrentAnswer

	next := mastery.DifficultyFor(sess.MasteryProb)
	q := e.questions.Generate(sess.Skill, next)
	sess.CurrentDifficulty = next
	sess.CurrentQuestion = q.Text
	sess.CurrentAnswer = q.Answer

	return &SubmitResult{
		Question:           q.Text,
		QuestionNumber:     sess.QuestionNumber + 1,
		SkipsRemaining:     SkipBudget - sess.SkippedQuestions,
		CorrectAnswer:      strconv.Itoa(answered),
		IsCorrect:          isCorrect,
		Difficulty:         next,
		MasteryProbability: sess.MasteryProb,
	}, nil
}

// complete builds the terminal summary from the session's final state and
// removes the session from the store. Caller holds the session lock.
func (e *Engine) complete(ctx context.Context, sess *Session, isCorrect *bool) *SubmitResult {
	var correct, skipped int
	var timeSum float64
	var timeCount int
	for _, p := range sess.Progress {
		if p.Correct != nil && *p.Correct {
			correct++
		}
		if p.Skipped {
			skipped++
		}
		if p.ResponseTime != nil {
			timeSum += *p.ResponseTime
			timeCount++
		}
	}

	var avgTime float64
	if timeCount > 0 {
		avgTime = timeSum / float64(timeCount)
	}

	summary := &Summary{
		TotalQuestions:      TotalQuestions,
		CorrectAnswers:      correct,
		SkippedQuestions:    skipped,
		AverageResponseTime: avgTime,
		FinalMastery:        sess.MasteryProb,
		Progress:            sess.Progress,
		CorrectAnswer:       strconv.Itoa(sess.CurrentAnswer),
		IsCorrect:           isCorrect,
		Difficulty:          sess.CurrentDifficulty,
		MasteryProbability:  sess.MasteryProb,
	}

	sess.completed = true
	e.store.Delete(sess.ID)

	e.record(ctx, events.Event{
		Type:      events.TypeSessionCompleted,
		SessionID: sess.ID,
		Timestamp: e.now(),
		Payload: events.SessionCompletedPayload{
			CorrectAnswers:      correct,
			SkippedQuestions:    skipped,
			AverageResponseTime: avgTime,
			FinalMastery:        sess.MasteryProb,
		},
	})

	return &SubmitResult{
		Complete:           true,
		Summary:            summary,
		CorrectAnswer:      summary.CorrectAnswer,
		IsCorrect:          isCorrect,
		Difficulty:         sess.CurrentDifficulty,
		MasteryProbability: sess.MasteryProb,
	}
}

// HintResult is the payload for a served hint.
type HintResult struct {
	Hint           string
	HintsRemaining int
}

// Hint serves one hint for the session's current question, decrementing the
// hint budget. Generation failures leave the budget and session untouched.
func (e *Engine) Hint(ctx context.Context, sessionID string) (*HintResult, error) {
	sess, ok := e.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.completed {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if sess.HintsRemaining <= 0 {
		return nil, ErrHintBudgetExceeded
	}

	hint, err := e.hints.Generate(ctx, sess.CurrentQuestion, sess.CurrentAnswer)
	if err != nil {
		e.logger.Error("hint generation failed", "session_id", sess.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrHintGeneration, err)
	}

	sess.HintsRemaining--
	sess.HintsUsed = append(sess.HintsUsed, HintRecord{
		Question:  sess.CurrentQuestion,
		Hint:      hint,
		Timestamp: e.now(),
	})

	e.record(ctx, events.Event{
		Type:      events.TypeHintServed,
		SessionID: sess.ID,
		Timestamp: e.now(),
		Payload: events.HintPayload{
			Question:       sess.CurrentQuestion,
			HintsRemaining: sess.HintsRemaining,
		},
	})

	return &HintResult{Hint: hint, HintsRemaining: sess.HintsRemaining}, nil
}

// estimate runs the estimator under a bounded deadline, falling back to the
// neutral default on any failure.
func (e *Engine) estimate(ctx context.Context, sessionID string, history []mastery.Attempt) float64 {
	ctx, cancel := context.WithTimeout(ctx, e.estimatorTimeout)
	defer cancel()

	raw, err := e.estimator.Predict(ctx, history)
	if err != nil {
		e.logger.Warn("mastery estimator failed, using default",
			"session_id", sessionID, "error", err)
		return mastery.Default
	}
	return raw
}

// record appends an event, logging and swallowing failures: the log is an
// audit trail, not part of the request contract.
func (e *Engine) record(ctx context.Context, ev events.Event) {
	if err := e.events.Append(ctx, ev); err != nil {
		e.logger.Warn("failed to append event", "type", string(ev.Type), "error", err)
	}
}
