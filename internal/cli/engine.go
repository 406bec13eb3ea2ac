package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/scriptflow"
	"github.com/aretw0/scriptflow/internal/config"
	"github.com/aretw0/scriptflow/internal/logging"
	"github.com/aretw0/scriptflow/pkg/adapters/file"
	"github.com/aretw0/scriptflow/pkg/adapters/loam"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/ports"
)

// NewLogger builds the application logger for cfg.
// Quiet commands (chat, mcp stdio) pass quiet=true to keep stderr clean unless debugging.
func NewLogger(cfg config.Config, quiet bool) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if quiet && level > slog.LevelDebug {
		return logging.NewNop(), nil
	}
	return logging.New(level), nil
}

// FlowLoader picks the table loader for path: a directory is read as a
// markdown repository, anything else as a YAML/JSON table file.
// An empty path returns nil.
func FlowLoader(path string) (ports.GraphLoader, error) {
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("flow %s: %w", path, err)
	}
	if info.IsDir() {
		l, err := loam.Open(path)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	return file.NewTableLoader(path), nil
}

// EngineOptions carries per-command engine settings that are not part of config.Config.
type EngineOptions struct {
	Hooks      domain.LifecycleHooks
	Entry      string
	NoFallback bool
}

// NewEngine loads the graph described by cfg.
func NewEngine(ctx context.Context, cfg config.Config, logger *slog.Logger, eo EngineOptions) (*scriptflow.Engine, error) {
	opts := []scriptflow.Option{
		scriptflow.WithStrict(cfg.Strict),
		scriptflow.WithLogger(logger),
		scriptflow.WithLifecycleHooks(eo.Hooks),
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		opts = append(opts, scriptflow.WithLifecycleHooks(debugHooks(logger)))
	}

	loader, err := FlowLoader(cfg.Flow)
	if err != nil {
		return nil, err
	}
	if loader != nil {
		opts = append(opts, scriptflow.WithLoader(loader))
	}
	if cfg.Source != "" {
		opts = append(opts, scriptflow.WithSource(file.NewTextSource(cfg.Source)))
	}
	if eo.Entry != "" {
		opts = append(opts, scriptflow.WithEntryNode(eo.Entry))
	}
	if eo.NoFallback {
		opts = append(opts, scriptflow.WithoutDefaultFlow())
	}

	return scriptflow.New(ctx, opts...)
}

func debugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("Enter Node", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("Leave Node", "session_id", e.SessionID, "node_id", e.NodeID)
		},
		OnAnswerResolved: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.Debug("Answer Resolved", "node_id", e.NodeID, "next", e.NextNodeID, "match", e.Match)
		},
		OnAnswerUnresolved: func(ctx context.Context, e *domain.AnswerEvent) {
			logger.Debug("Answer Unresolved", "node_id", e.NodeID, "answer", e.Answer)
		},
		OnReset: func(ctx context.Context, e *domain.NodeEvent) {
			logger.Debug("Session Reset", "session_id", e.SessionID)
		},
	}
}
