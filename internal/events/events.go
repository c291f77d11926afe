// Package events provides an append-only log of practice activity. Sessions
// themselves live in memory; the log is an audit trail, so append failures
// are reported to the caller but never abort a request.
package events

import (
	"context"
	"time"
)

// Type identifies the kind of an event.
type Type string

const (
	TypeSessionStarted   Type = "session_started"
	TypeAnswerSubmitted  Type = "answer_submitted"
	TypeHintServed       Type = "hint_served"
	TypeSessionCompleted Type = "session_completed"
	TypeLLMRequest       Type = "llm_request"
)

// Event is one record in the log. Payload must be JSON-serializable; use
// the payload structs below.
type Event struct {
	Type      Type
	SessionID string
	Timestamp time.Time
	Payload   any
}

// Repo appends and queries events.
type Repo interface {
	Append(ctx context.Context, ev Event) error

	// BySession returns a session's events in append order.
	BySession(ctx context.Context, sessionID string) ([]Event, error)

	// CountByType returns the number of events of the given type.
	CountByType(ctx context.Context, t Type) (int, error)
}

// SessionStartedPayload records a session creation.
type SessionStartedPayload struct {
	Skill string `json:"skill"`
}

// AnswerPayload records one processed answer or skip.
type AnswerPayload struct {
	QuestionNumber int      `json:"question_number"`
	Difficulty     string   `json:"difficulty"`
	Correct        *bool    `json:"correct"`
	Skipped        bool     `json:"skipped"`
	ResponseTime   *float64 `json:"response_time"`
	Mastery        float64  `json:"mastery"`
}

// HintPayload records a served hint.
type HintPayload struct {
	Question       string `json:"question"`
	HintsRemaining int    `json:"hints_remaining"`
}

// SessionCompletedPayload records the terminal summary figures.
type SessionCompletedPayload struct {
	CorrectAnswers      int     `json:"correct_answers"`
	SkippedQuestions    int     `json:"skipped_questions"`
	AverageResponseTime float64 `json:"average_response_time"`
	FinalMastery        float64 `json:"final_mastery"`
}

// LLMRequestPayload records one call to an LLM provider.
type LLMRequestPayload struct {
	Provider     string `json:"provider"`
	Model        string `json:"model"`
	LatencyMs    int64  `json:"latency_ms"`
	Success      bool   `json:"success"`
	ErrorMessage string `json:"error_message,omitempty"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// Nop discards all events. Used when no database is configured and in tests.
type Nop struct{}

var _ Repo = Nop{}

func (Nop) Append(context.Context, Event) error { return nil }

func (Nop) BySession(context.Context, string) ([]Event, error) { return nil, nil }

func (Nop) CountByType(context.Context, Type) (int, error) { return 0, nil }
