// Package http exposes the cascade control surface over HTTP: a small JSON
// API mirroring the engine commands, plus an SSE stream of run events.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/oxygn-cloud-ai/cascade"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Controller is the subset of the engine API the HTTP adapter drives.
type Controller interface {
	Start(ctx context.Context, rootID domain.NodeID) error
	Pause()
	Resume()
	Cancel()
	SetSkipAllPreviews(enabled bool)
	Snapshot() domain.RunSnapshot
}

// Server routes control requests to an engine.
type Server struct {
	controller Controller
	streams    *StreamManager
	logger     *slog.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithStreamManager shares an externally created stream manager, so its
// StreamHooks can be wired into the engine before the server exists.
func WithStreamManager(sm *StreamManager) ServerOption {
	return func(s *Server) { s.streams = sm }
}

// NewServer creates the control server. Wire StreamHooks into the engine so
// the event stream carries live run activity.
func NewServer(controller Controller, logger *slog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		controller: controller,
		streams:    NewStreamManager(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StreamHooks returns run hooks that broadcast every event to the manager's
// SSE subscribers.
func StreamHooks(sm *StreamManager) domain.RunHooks {
	broadcastRun := func(_ context.Context, ev *domain.RunEvent) {
		if data, err := json.Marshal(ev); err == nil {
			sm.Broadcast(string(data))
		}
	}
	broadcastNode := func(_ context.Context, ev *domain.NodeEvent) {
		if data, err := json.Marshal(ev); err == nil {
			sm.Broadcast(string(data))
		}
	}
	return domain.RunHooks{
		OnRunStart:     broadcastRun,
		OnStatusChange: broadcastRun,
		OnRunEnd:       broadcastRun,
		OnNodeStart:    broadcastNode,
		OnNodeComplete: broadcastNode,
		OnNodeFailed:   broadcastNode,
		OnNodeSkipped:  broadcastNode,
	}
}

// Handler builds the chi router for the control API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)

	r.Get("/run", s.getRun)
	r.Post("/run", s.startRun)
	r.Post("/run/pause", s.pauseRun)
	r.Post("/run/resume", s.resumeRun)
	r.Delete("/run", s.cancelRun)
	r.Put("/run/skip-previews", s.setSkipPreviews)
	r.Get("/run/events", s.streamEvents)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type startRequest struct {
	RootID string `json:"root_id"`
}

func (s *Server) startRun(w http.ResponseWriter, r *http.Request) {
	var body startRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("start: invalid request body", "err", err)
		return
	}
	if strings.TrimSpace(body.RootID) == "" {
		http.Error(w, "root_id is required", http.StatusBadRequest)
		return
	}

	err := s.controller.Start(r.Context(), domain.NodeID(body.RootID))
	switch {
	case errors.Is(err, domain.ErrRunActive):
		http.Error(w, "a run is already active", http.StatusConflict)
		return
	case errors.Is(err, domain.ErrRootNotFound):
		http.Error(w, fmt.Sprintf("root not found: %s", body.RootID), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("start error: %v", err), http.StatusInternalServerError)
		s.logger.Error("start failed", "err", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	s.writeSnapshot(w)
}

func (s *Server) getRun(w http.ResponseWriter, _ *http.Request) {
	s.writeSnapshot(w)
}

func (s *Server) pauseRun(w http.ResponseWriter, _ *http.Request) {
	s.controller.Pause()
	w.WriteHeader(http.StatusAccepted)
	s.writeSnapshot(w)
}

func (s *Server) resumeRun(w http.ResponseWriter, _ *http.Request) {
	s.controller.Resume()
	w.WriteHeader(http.StatusAccepted)
	s.writeSnapshot(w)
}

func (s *Server) cancelRun(w http.ResponseWriter, _ *http.Request) {
	s.controller.Cancel()
	w.WriteHeader(http.StatusAccepted)
	s.writeSnapshot(w)
}

type skipPreviewsRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) setSkipPreviews(w http.ResponseWriter, r *http.Request) {
	var body skipPreviewsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.controller.SetSkipAllPreviews(body.Enabled)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"app":     "cascade-http",
		"version": strings.TrimSpace(cascade.Version),
	})
}

func (s *Server) writeSnapshot(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.controller.Snapshot()); err != nil {
		s.logger.Error("snapshot encode failed", "err", err)
	}
}

// streamEvents serves the SSE feed of run and node events.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, unsubscribe := s.streams.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
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

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{subscribers: make(map[chan string]struct{})}
}

func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 16)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast fans a message out to every subscriber. Slow consumers drop
// messages rather than stall the run.
func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Cascade API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
