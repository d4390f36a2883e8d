package server

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/padel-mcp/internal/instrumentation"
	"github.com/teemow/padel-mcp/internal/logging"
)

// SessionTracker keeps the set of connected MCP sessions and mirrors its
// size into the active_sessions metric.
type SessionTracker struct {
	mu       sync.RWMutex
	sessions map[string]time.Time
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
}

// NewSessionTracker creates a tracker. metrics may be nil.
func NewSessionTracker(metrics *instrumentation.Metrics, logger *slog.Logger) *SessionTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionTracker{
		sessions: make(map[string]time.Time),
		metrics:  metrics,
		logger:   logger,
	}
}

// Hooks returns MCP server hooks that feed the tracker.
func (t *SessionTracker) Hooks() *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		t.Register(ctx, session.SessionID())
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		t.Unregister(ctx, session.SessionID())
	})
	return hooks
}

// Register records a new session. Registering a known ID is a no-op.
func (t *SessionTracker) Register(ctx context.Context, id string) {
	t.mu.Lock()
	_, known := t.sessions[id]
	if !known {
		t.sessions[id] = time.Now()
	}
	t.mu.Unlock()

	if known {
		return
	}
	t.metrics.IncrementActiveSessions(ctx)
	t.logger.Debug("session registered", "session_id", id)
}

// Unregister removes a session. Unknown IDs are ignored.
func (t *SessionTracker) Unregister(ctx context.Context, id string) {
	t.mu.Lock()
	started, known := t.sessions[id]
	delete(t.sessions, id)
	t.mu.Unlock()

	if !known {
		return
	}
	t.metrics.DecrementActiveSessions(ctx)
	t.logger.Debug("session unregistered", "session_id", id, logging.Duration(time.Since(started)))
}

// Count returns the number of connected sessions.
func (t *SessionTracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// List returns the connected session IDs in sorted order.
func (t *SessionTracker) List() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]string, 0, len(t.sessions))
	for id := range t.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
