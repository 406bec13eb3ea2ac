package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/scriptflow/internal/logging"
	"github.com/aretw0/scriptflow/internal/presentation/graph"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/runner"
	"github.com/aretw0/scriptflow/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SessionObserver is notified when sessions open and close.
type SessionObserver interface {
	SessionStarted()
	SessionEnded()
}

// Server serves the JSON API over a session.Manager.
type Server struct {
	Manager *session.Manager
	Streams *StreamManager

	logger   *slog.Logger
	metrics  http.Handler
	observer SessionObserver
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithSessionObserver reports session starts and ends.
func WithSessionObserver(o SessionObserver) Option {
	return func(s *Server) {
		s.observer = o
	}
}

// WithVersion is reported by GET /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a Server.
func NewServer(mgr *session.Manager, opts ...Option) *Server {
	s := &Server{
		Manager: mgr,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates the HTTP handler for mgr.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	return NewServer(mgr, opts...).Routes()
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/graph", s.GetGraph)
	r.Get("/graph.mmd", s.GetGraphMermaid)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.StartSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.EndSession)
			r.Get("/prompt", s.GetPrompt)
			r.Post("/answer", s.SubmitAnswer)
			r.Post("/reset", s.ResetSession)
			r.Post("/jump", s.JumpSession)
			r.Get("/history", s.GetHistory)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GraphResponse is the body of GET /graph.
type GraphResponse struct {
	StartID    string        `json:"start_id"`
	TerminalID string        `json:"terminal_id"`
	Nodes      []domain.Node `json:"nodes"`
}

// PromptResponse is the body of GET /sessions/{id}/prompt.
type PromptResponse struct {
	SessionID string         `json:"session_id"`
	Prompt    *domain.Prompt `json:"prompt"`
	Done      bool           `json:"done"`
}

// AnswerRequest is the body of POST /sessions/{id}/answer.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// JumpRequest is the body of POST /sessions/{id}/jump.
type JumpRequest struct {
	NodeID string `json:"node_id"`
}

// StartRequest is the optional body of POST /sessions.
type StartRequest struct {
	SessionID string `json:"session_id"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status": "ok",
		"nodes":  s.Manager.Graph().Len(),
	}
	if s.version != "" {
		resp["version"] = s.version
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	g := s.Manager.Graph()
	s.writeJSON(w, http.StatusOK, GraphResponse{
		StartID:    g.StartID(),
		TerminalID: g.TerminalID(),
		Nodes:      g.Nodes(),
	})
}

// GetGraphMermaid handles GET /graph.mmd. ?session_id=X overlays that session's path.
func (s *Server) GetGraphMermaid(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.GraphOverlay
	if id := r.URL.Query().Get("session_id"); id != "" {
		state, err := s.Manager.Load(r.Context(), id)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		overlay = graph.OverlayFromState(state)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.Manager.Graph(), overlay))
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.badRequest(w, "Invalid request body", err)
			return
		}
	}

	existed := false
	if body.SessionID != "" {
		if _, err := s.Manager.Load(r.Context(), body.SessionID); err == nil {
			existed = true
		}
	}

	state, err := s.Manager.Start(r.Context(), body.SessionID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if !existed {
		status = http.StatusCreated
		if s.observer != nil {
			s.observer.SessionStarted()
		}
	}
	s.writeJSON(w, status, state)
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Manager.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.Manager.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

// EndSession handles DELETE /sessions/{id}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Manager.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.observer != nil {
		s.observer.SessionEnded()
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPrompt handles GET /sessions/{id}/prompt.
func (s *Server) GetPrompt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	prompt, ok, err := s.Manager.Prompt(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := PromptResponse{SessionID: id, Done: !ok || prompt.Terminal}
	if ok {
		resp.Prompt = &prompt
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// SubmitAnswer handles POST /sessions/{id}/answer.
func (s *Server) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var body AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "Invalid request body", err)
		return
	}

	answer, err := runner.SanitizeInput(body.Answer)
	if err != nil {
		s.badRequest(w, fmt.Sprintf("Invalid input: %v", err), err)
		return
	}

	id := chi.URLParam(r, "id")
	var turn session.Turn
	err = s.mutate(r.Context(), id, func(ctx context.Context) error {
		var err error
		turn, err = s.Manager.Submit(ctx, id, answer)
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, turn)
}

// ResetSession handles POST /sessions/{id}/reset.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.mutate(r.Context(), id, func(ctx context.Context) error {
		return s.Manager.Reset(ctx, id)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.GetPrompt(w, r)
}

// JumpSession handles POST /sessions/{id}/jump.
func (s *Server) JumpSession(w http.ResponseWriter, r *http.Request) {
	var body JumpRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.badRequest(w, "Invalid request body", err)
		return
	}
	id := chi.URLParam(r, "id")
	err := s.mutate(r.Context(), id, func(ctx context.Context) error {
		return s.Manager.Jump(ctx, id, body.NodeID)
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.GetPrompt(w, r)
}

// GetHistory handles GET /sessions/{id}/history?last=N.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	n := 0
	if v := r.URL.Query().Get("last"); v != "" {
		var err error
		if n, err = strconv.Atoi(v); err != nil || n < 0 {
			s.badRequest(w, "last must be a non-negative integer", err)
			return
		}
	}
	records, err := s.Manager.History(r.Context(), chi.URLParam(r, "id"), n)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"history": records})
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
// Every change to the session is pushed as a domain.StateDiff.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := s.Manager.Load(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected", "session_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// mutate runs fn and broadcasts the resulting diff to SSE listeners.
func (s *Server) mutate(ctx context.Context, id string, fn func(context.Context) error) error {
	if s.Streams.Subscribers(id) == 0 {
		return fn(ctx)
	}
	before, err := s.Manager.Load(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(ctx); err != nil {
		return err
	}
	after, err := s.Manager.Load(ctx, id)
	if err != nil {
		return err
	}
	if diff := domain.Diff(before, after); diff != nil {
		if b, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(id, string(b))
		}
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) badRequest(w http.ResponseWriter, msg string, err error) {
	s.logger.Warn(msg, "err", err)
	s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNodeNotFound):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidSessionState):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
