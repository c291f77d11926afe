package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/hints"
	"github.com/abhisek/mathdrill/internal/mastery"
	"github.com/abhisek/mathdrill/internal/practice"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/skills"
)

// fixedGenerator always produces the same question, so tests know the
// correct answer.
type fixedGenerator struct {
	q problemgen.Question
}

func (g fixedGenerator) Generate(skills.Skill, skills.Difficulty) problemgen.Question {
	return g.q
}

type fixedEstimator struct {
	value float64
}

func (e fixedEstimator) Predict(context.Context, []mastery.Attempt) (float64, error) {
	return e.value, nil
}

type failingHints struct{}

func (failingHints) Generate(context.Context, string, int) (string, error) {
	return "", errors.New("upstream down")
}

func newTestServer(t *testing.T, hintGen hints.Generator) *httptest.Server {
	t.Helper()
	if hintGen == nil {
		hintGen = hints.Static{Text: "count it out"}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := practice.NewEngine(
		practice.NewStore(),
		fixedGenerator{q: problemgen.Question{Text: "3 + 4 = ?", Answer: 7}},
		fixedEstimator{value: 0.6},
		hintGen,
		nil,
		logger,
	)

	srv, err := New(engine, logger)
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func startSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp, body := postJSON(t, ts, "/api/start-session", map[string]any{"skill": "Addition"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id, ok := body["session_id"].(string)
	require.True(t, ok, "session_id missing: %v", body)
	return id
}

func TestStartSession(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := postJSON(t, ts, "/api/start-session", map[string]any{"skill": "Multiplication"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.NotEmpty(t, body["session_id"])
	assert.Equal(t, "3 + 4 = ?", body["question"])
	assert.Equal(t, "Easy", body["difficulty"])
	assert.EqualValues(t, 1, body["question_number"])
	assert.EqualValues(t, 10, body["total_questions"])
	assert.EqualValues(t, 3, body["skips_remaining"])
}

func TestStartSession_InvalidSkill(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := postJSON(t, ts, "/api/start-session", map[string]any{"skill": "Calculus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid skill selected", body["error"])
}

func TestStartSession_SchemaViolation(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, _ := postJSON(t, ts, "/api/start-session", map[string]any{"level": 3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSubmitAnswer_Continue(t *testing.T) {
	ts := newTestServer(t, nil)
	id := startSession(t, ts)

	resp, body := postJSON(t, ts, "/api/submit-answer", map[string]any{
		"session_id":    id,
		"answer":        "7",
		"response_time": 2.5,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "continue", body["status"])
	assert.Equal(t, "7", body["correct_answer"])
	assert.Equal(t, true, body["is_correct"])
	assert.EqualValues(t, 2, body["question_number"])
	assert.EqualValues(t, 3, body["skips_remaining"])
	// 0.5*0.6 + 0.5*0.1 = 0.35.
	assert.InDelta(t, 0.35, body["mastery_probability"], 1e-9)
}

func TestSubmitAnswer_Incorrect(t *testing.T) {
	ts := newTestServer(t, nil)
	id := startSession(t, ts)

	resp, body := postJSON(t, ts, "/api/submit-answer", map[string]any{
		"session_id": id,
		"answer":     "8",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["is_correct"])
}

func TestSubmitAnswer_UnknownSession(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, body := postJSON(t, ts, "/api/submit-answer", map[string]any{
		"session_id": "missing",
		"answer":     "7",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "session not found", body["error"])
}

func TestSubmitAnswer_InvalidFormat(t *testing.T) {
	ts := newTestServer(t, nil)
	id := startSession(t, ts)

	resp, body := postJSON(t, ts, "/api/submit-answer", map[string]any{
		"session_id": id,
		"answer":     "seven",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid answer format", body["error"])
}

func TestSubmitAnswer_SkipBudget(t *testing.T) {
	ts := newTestServer(t, nil)
	id := startSession(t, ts)

	for i := range 3 {
		resp, body := postJSON(t, ts, "/api/submit-answer", map[string]any{
			"session_id": id,
			"skip":       true,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, "skip %d", i+1)
		assert.Nil(t, body["is_correct"])
		assert.EqualValues(t, 2-i, body["skips_remaining"])
	}

	resp, body := postJSON(t, ts, "/api/submit-answer", map[string]any{
		"session_id": id,
		"skip":       true,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "no skips remaining", body["error"])
}

func TestSubmitAnswer_FullSessionCompletes(t *testing.T) {
	ts := newTestServer(t, nil)
	id := startSession(t, ts)

	var last map[string]any
	for i := range 10 {
		var resp *http.Response
		resp, last = postJSON(t, ts, "/api/submit-answer", map[string]any{
			"session_id":    id,
			"answer":        "7",
			"response_time": 1.0,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, "answer %d", i+1)
	}

	require.Equal(t, "complete", last["status"])
	summary, ok := last["summary"].(map[string]any)
	require.True(t, ok, "summary missing: %v", last)
	assert.EqualValues(t, 10, summary["total_questions"])
	assert.EqualValues(t, 10, summary["correct_answers"])
	assert.EqualValues(t, 0, summary["skipped_questions"])
	assert.InDelta(t, 1.0, summary["average_response_time"], 1e-9)
	assert.Len(t, summary["progress"], 10)

	// The session is gone; further submits fail.
	resp, body := postJSON(t, ts, "/api/submit-answer", map[string]any{
		"session_id": id,
		"answer":     "7",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "session not found", body["error"])
}

func TestGetHint(t *testing.T) {
	ts := newTestServer(t, nil)
	id := startSession(t, ts)

	for want := 2; want >= 0; want-- {
		resp, body := postJSON(t, ts, "/api/get-hint", map[string]any{"session_id": id})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "count it out", body["hint"])
		assert.EqualValues(t, want, body["hints_remaining"])
	}

	resp, body := postJSON(t, ts, "/api/get-hint", map[string]any{"session_id": id})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "no hints remaining", body["error"])
}

func TestGetHint_GenerationFailure(t *testing.T) {
	ts := newTestServer(t, failingHints{})
	id := startSession(t, ts)

	resp, body := postJSON(t, ts, "/api/get-hint", map[string]any{"session_id": id})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "failed to generate hint", body["error"])
	// The failure message must not leak upstream detail.
	assert.NotContains(t, fmt.Sprint(body["error"]), "upstream")
}

func TestMalformedJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Post(ts.URL+"/api/start-session", "application/json",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/start-session", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
