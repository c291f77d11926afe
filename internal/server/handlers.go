package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/mathdrill/internal/practice"
	"github.com/abhisek/mathdrill/internal/skills"
)

// maxBodySize caps request bodies; the API only ever receives tiny JSON
// objects.
const maxBodySize = 1 << 16

type startSessionRequest struct {
	Skill string `json:"skill"`
}

type submitAnswerRequest struct {
	SessionID    string  `json:"session_id"`
	Answer       *string `json:"answer"`
	ResponseTime float64 `json:"response_time"`
	Skip         bool    `json:"skip"`
}

type getHintRequest struct {
	SessionID string `json:"session_id"`
}

type startSessionResponse struct {
	SessionID      string            `json:"session_id"`
	Question       string            `json:"question"`
	Difficulty     skills.Difficulty `json:"difficulty"`
	QuestionNumber int               `json:"question_number"`
	TotalQuestions int               `json:"total_questions"`
	SkipsRemaining int               `json:"skips_remaining"`
}

type continueResponse struct {
	Status             string            `json:"status"`
	Question           string            `json:"question"`
	CorrectAnswer      string            `json:"correct_answer"`
	Difficulty         skills.Difficulty `json:"difficulty"`
	QuestionNumber     int               `json:"question_number"`
	TotalQuestions     int               `json:"total_questions"`
	MasteryProbability float64           `json:"mastery_probability"`
	IsCorrect          *bool             `json:"is_correct"`
	SkipsRemaining     int               `json:"skips_remaining"`
}

type completeResponse struct {
	Status             string            `json:"status"`
	Summary            *practice.Summary `json:"summary"`
	CorrectAnswer      string            `json:"correct_answer"`
	IsCorrect          *bool             `json:"is_correct"`
	Difficulty         skills.Difficulty `json:"difficulty"`
	MasteryProbability float64           `json:"mastery_probability"`
}

type hintResponse struct {
	Hint           string `json:"hint"`
	HintsRemaining int    `json:"hints_remaining"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !s.decode(w, r, s.schemas.start, &req) {
		return
	}

	res, err := s.engine.StartSession(r.Context(), req.Skill)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, startSessionResponse{
		SessionID:      res.SessionID,
		Question:       res.Question,
		Difficulty:     res.Difficulty,
		QuestionNumber: res.QuestionNumber,
		TotalQuestions: res.TotalQuestions,
		SkipsRemaining: res.SkipsRemaining,
	})
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if !s.decode(w, r, s.schemas.submit, &req) {
		return
	}

	var answer string
	if req.Answer != nil {
		answer = *req.Answer
	}

	res, err := s.engine.Submit(r.Context(), req.SessionID, answer, req.ResponseTime, req.Skip)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if res.Complete {
		writeJSON(w, http.StatusOK, completeResponse{
			Status:             "complete",
			Summary:            res.Summary,
			CorrectAnswer:      res.CorrectAnswer,
			IsCorrect:          res.IsCorrect,
			Difficulty:         res.Difficulty,
			MasteryProbability: res.MasteryProbability,
		})
		return
	}

	writeJSON(w, http.StatusOK, continueResponse{
		Status:             "continue",
		Question:           res.Question,
		CorrectAnswer:      res.CorrectAnswer,
		Difficulty:         res.Difficulty,
		QuestionNumber:     res.QuestionNumber,
		TotalQuestions:     practice.TotalQuestions,
		MasteryProbability: res.MasteryProbability,
		IsCorrect:          res.IsCorrect,
		SkipsRemaining:     res.SkipsRemaining,
	})
}

func (s *Server) handleGetHint(w http.ResponseWriter, r *http.Request) {
	var req getHintRequest
	if !s.decode(w, r, s.schemas.hint, &req) {
		return
	}

	res, err := s.engine.Hint(r.Context(), req.SessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, hintResponse{
		Hint:           res.Hint,
		HintsRemaining: res.HintsRemaining,
	})
}

// decode reads the body, validates it against the schema, and unmarshals
// into dst. Writes a 400 and returns false on any failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, schema *jsonschema.Schema, dst any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "unreadable request body")
		return false
	}

	if err := validateBody(schema, body); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}

// writeError maps domain errors to client responses. Domain-rule
// violations carry their message; anything else is logged in full and
// surfaced as an opaque internal error.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case practice.IsClientFault(err):
		writeJSONError(w, http.StatusBadRequest, clientMessage(err))
	case errors.Is(err, practice.ErrHintGeneration):
		s.logger.Error("hint generation failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, practice.ErrHintGeneration.Error())
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}

// clientMessage strips wrapped detail down to the domain-rule sentence.
func clientMessage(err error) string {
	for _, sentinel := range []error{
		practice.ErrInvalidSkill,
		practice.ErrSessionNotFound,
		practice.ErrSkipBudgetExceeded,
		practice.ErrInvalidAnswerFormat,
		practice.ErrHintBudgetExceeded,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
