package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/mathdrill/internal/events"
)

// LoggingProvider is a decorator that records every request as an event.
type LoggingProvider struct {
	inner  Provider
	events events.Repo
	logger *slog.Logger
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, repo events.Repo, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingProvider{inner: p, events: repo, logger: logger}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	payload := events.LLMRequestPayload{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		payload.Model = resp.Model
		payload.InputTokens = resp.Usage.InputTokens
		payload.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		payload.ErrorMessage = err.Error()
	}

	// Log the event but don't fail the request if logging fails.
	ev := events.Event{Type: events.TypeLLMRequest, Timestamp: start, Payload: payload}
	if logErr := l.events.Append(ctx, ev); logErr != nil {
		l.logger.Warn("failed to log LLM request event", "error", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}
