package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/scriptflow/internal/logging"
	"github.com/aretw0/scriptflow/internal/presentation/graph"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/runner"
	"github.com/aretw0/scriptflow/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	GraphURI        = "scriptflow://graph"
	GraphMermaidURI = "scriptflow://graph.mmd"
)

// SessionResponse is returned by every tool that reports a session position.
type SessionResponse struct {
	SessionID string         `json:"session_id" jsonschema_description:"The conversation identifier"`
	Prompt    *domain.Prompt `json:"prompt,omitempty" jsonschema_description:"The prompt to show, absent when the conversation is over"`
	Done      bool           `json:"done" jsonschema_description:"Indicates the conversation reached its end"`
}

// TurnResponse is returned by submit_answer.
type TurnResponse struct {
	SessionID string `json:"session_id"`
	session.Turn
}

// HistoryResponse is returned by get_history.
type HistoryResponse struct {
	SessionID string                 `json:"session_id"`
	History   []domain.HistoryRecord `json:"history"`
}

// SessionArgs addresses one session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// AnswerArgs carries one user answer.
type AnswerArgs struct {
	SessionID string `json:"session_id"`
	Answer    string `json:"answer"`
}

// HistoryArgs selects the last N history records.
type HistoryArgs struct {
	SessionID string `json:"session_id"`
	Last      int    `json:"last"`
}

// Server exposes a session.Manager as an MCP server.
type Server struct {
	manager   *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(mgr *session.Manager, version string, opts ...Option) *Server {
	s := &Server{
		manager:   mgr,
		mcpServer: server.NewMCPServer("scriptflow-mcp", version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	sessionParam := mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation identifier"))

	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Open a conversation at the start node. Omit session_id to mint one; an existing session is returned unchanged."),
		mcp.WithString("session_id", mcp.Description("Conversation identifier (optional)")),
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("get_prompt",
		mcp.WithDescription("Get the current prompt and its suggested answers."),
		sessionParam,
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handlePrompt))

	s.mcpServer.AddTool(mcp.NewTool("submit_answer",
		mcp.WithDescription("Submit the user's answer. resolved=false means the answer matched nothing and the session did not move."),
		sessionParam,
		mcp.WithString("answer", mcp.Required(), mcp.Description("The user's answer, free text or one of the suggestions")),
		mcp.WithOutputSchema[TurnResponse](),
	), mcp.NewStructuredToolHandler(s.handleSubmit))

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Start the conversation over and clear its history."),
		sessionParam,
		mcp.WithOutputSchema[SessionResponse](),
	), mcp.NewStructuredToolHandler(s.handleReset))

	s.mcpServer.AddTool(mcp.NewTool("get_history",
		mcp.WithDescription("Get the answers given so far, oldest first."),
		sessionParam,
		mcp.WithNumber("last", mcp.Description("Only return the last N records (optional)")),
		mcp.WithOutputSchema[HistoryResponse](),
	), mcp.NewStructuredToolHandler(s.handleHistory))

	s.mcpServer.AddTool(mcp.NewTool("end_session",
		mcp.WithDescription("Discard a conversation."),
		sessionParam,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("session_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := s.manager.End(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("end failed: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("session %s ended", id)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full conversation graph for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := s.graphJSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (SessionResponse, error) {
	state, err := s.manager.Start(ctx, args.SessionID)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return s.position(ctx, state.SessionID)
}

func (s *Server) handlePrompt(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (SessionResponse, error) {
	if args.SessionID == "" {
		return SessionResponse{}, errors.New("session_id is required")
	}
	return s.position(ctx, args.SessionID)
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args AnswerArgs) (TurnResponse, error) {
	if args.SessionID == "" {
		return TurnResponse{}, errors.New("session_id is required")
	}
	clean, err := runner.SanitizeInput(args.Answer)
	if err != nil {
		s.logger.Warn("MCP submit: input rejected", "err", err, "size", len(args.Answer))
		return TurnResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	turn, err := s.manager.Submit(ctx, args.SessionID, clean)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("submit failed: %w", err)
	}
	return TurnResponse{SessionID: args.SessionID, Turn: turn}, nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest, args SessionArgs) (SessionResponse, error) {
	if err := s.manager.Reset(ctx, args.SessionID); err != nil {
		return SessionResponse{}, fmt.Errorf("reset failed: %w", err)
	}
	return s.position(ctx, args.SessionID)
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest, args HistoryArgs) (HistoryResponse, error) {
	records, err := s.manager.History(ctx, args.SessionID, args.Last)
	if err != nil {
		return HistoryResponse{}, fmt.Errorf("history failed: %w", err)
	}
	if records == nil {
		records = []domain.HistoryRecord{}
	}
	return HistoryResponse{SessionID: args.SessionID, History: records}, nil
}

func (s *Server) position(ctx context.Context, id string) (SessionResponse, error) {
	prompt, ok, err := s.manager.Prompt(ctx, id)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("prompt failed: %w", err)
	}
	resp := SessionResponse{SessionID: id, Done: !ok || prompt.Terminal}
	if ok {
		resp.Prompt = &prompt
	}
	return resp, nil
}

func (s *Server) graphJSON() ([]byte, error) {
	g := s.manager.Graph()
	return json.Marshal(struct {
		StartID    string        `json:"start_id"`
		TerminalID string        `json:"terminal_id"`
		Nodes      []domain.Node `json:"nodes"`
	}{g.StartID(), g.TerminalID(), g.Nodes()})
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Conversation Graph",
		mcp.WithMIMEType("application/json"),
	), s.readGraph)

	s.mcpServer.AddResource(mcp.NewResource(GraphMermaidURI, "Conversation Graph (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphMermaidURI,
				MIMEType: "text/plain",
				Text:     graph.GenerateMermaid(s.manager.Graph(), nil),
			},
		}, nil
	})
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := s.graphJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to inspect graph: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}
