// Package hints generates learner-facing hints for the current question.
package hints

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/mathdrill/internal/llm"
)

// Generator produces a hint for a question without revealing the answer.
type Generator interface {
	Generate(ctx context.Context, question string, answer int) (string, error)
}

// DefaultTimeout bounds a single hint generation call.
const DefaultTimeout = 15 * time.Second

// LLMGenerator generates hints through an LLM provider. Failures and
// timeouts surface to the caller; session state is never touched here.
type LLMGenerator struct {
	provider llm.Provider
	timeout  time.Duration
}

// NewLLMGenerator creates a hint generator. A non-positive timeout falls
// back to DefaultTimeout.
func NewLLMGenerator(provider llm.Provider, timeout time.Duration) *LLMGenerator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LLMGenerator{provider: provider, timeout: timeout}
}

var _ Generator = (*LLMGenerator)(nil)

// Generate asks the provider for a short age-appropriate hint.
func (g *LLMGenerator) Generate(ctx context.Context, question string, answer int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(question, answer),
		MaxTokens:   120,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generate hint: %w", err)
	}

	return resp.Text, nil
}

const systemPrompt = "You are a friendly math tutor helping a 3rd grade student. " +
	"Keep every reply to one or two short sentences and never use complex mathematical terms."

func buildPrompt(question string, answer int) string {
	return fmt.Sprintf(
		"The student is solving this math problem: %s\n"+
			"The answer is %d.\n"+
			"Give a simple, encouraging hint that helps them think about the problem "+
			"without giving away the answer.",
		question, answer,
	)
}

// Static returns a fixed hint. Used in tests and as a degraded mode when no
// provider is configured.
type Static struct {
	Text string
}

var _ Generator = Static{}

func (s Static) Generate(context.Context, string, int) (string, error) {
	return s.Text, nil
}
