// Package server exposes the practice engine over HTTP. The surface is
// three POST endpoints mirroring the session lifecycle: start, submit,
// hint.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abhisek/mathdrill/internal/practice"
)

// Server is the HTTP front end over the practice engine.
type Server struct {
	engine  *practice.Engine
	logger  *slog.Logger
	schemas *requestSchemas
	handler http.Handler
}

// New builds the server and its route table.
func New(engine *practice.Engine, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	schemas, err := compileSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile request schemas: %w", err)
	}

	s := &Server{engine: engine, logger: logger, schemas: schemas}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/start-session", s.handleStartSession)
	mux.HandleFunc("POST /api/submit-answer", s.handleSubmitAnswer)
	mux.HandleFunc("POST /api/get-hint", s.handleGetHint)
	mux.HandleFunc("GET /api/healthz", s.handleHealth)

	s.handler = s.withRequestLog(withCORS(mux))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
