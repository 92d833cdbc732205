// Package mcp exposes the cascade engine as an MCP server, so agent hosts
// can start, steer and inspect runs through tool calls.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/oxygn-cloud-ai/cascade"
	"github.com/oxygn-cloud-ai/cascade/pkg/domain"
)

// Controller defines the engine surface the MCP tools drive.
type Controller interface {
	Start(ctx context.Context, rootID domain.NodeID) error
	Pause()
	Resume()
	Cancel()
	SetSkipAllPreviews(enabled bool)
	Snapshot() domain.RunSnapshot
}

// StatusResponse is the structured output shared by every control tool.
type StatusResponse struct {
	Snapshot domain.RunSnapshot `json:"snapshot" jsonschema_description:"Consistent copy of the current run state"`
}

// Server wraps a cascade engine and exposes it as an MCP Server.
type Server struct {
	controller Controller
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(controller Controller) *Server {
	s := &Server{
		controller: controller,
		mcpServer:  server.NewMCPServer("cascade-mcp", strings.TrimSpace(cascade.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

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
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
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

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: start_cascade
	startTool := mcp.NewTool("start_cascade",
		mcp.WithDescription("Start a cascade run from the given root node. Fails if a run is already active."),
		mcp.WithString("root_id", mcp.Required(), mcp.Description("ID of the root node to cascade from")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	// TOOL: pause_cascade
	pauseTool := mcp.NewTool("pause_cascade",
		mcp.WithDescription("Pause the active run at the next node boundary. The in-flight generation finishes first."),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(pauseTool, mcp.NewStructuredToolHandler(s.handlePause))

	// TOOL: resume_cascade
	resumeTool := mcp.NewTool("resume_cascade",
		mcp.WithDescription("Resume a paused run."),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(resumeTool, mcp.NewStructuredToolHandler(s.handleResume))

	// TOOL: cancel_cascade
	cancelTool := mcp.NewTool("cancel_cascade",
		mcp.WithDescription("Cancel the active run. Finished nodes are kept; the run ends as completed with partial results."),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(cancelTool, mcp.NewStructuredToolHandler(s.handleCancel))

	// TOOL: get_cascade_status
	statusTool := mcp.NewTool("get_cascade_status",
		mcp.WithDescription("Get a snapshot of the current run: status, progress, completed/skipped/failed nodes."),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(statusTool, mcp.NewStructuredToolHandler(s.handleStatus))

	// TOOL: set_skip_previews
	skipTool := mcp.NewTool("set_skip_previews",
		mcp.WithDescription("Toggle preview suppression for all subsequent nodes."),
		mcp.WithBoolean("enabled", mcp.Required(), mcp.Description("Whether previews should be skipped")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(skipTool, mcp.NewStructuredToolHandler(s.handleSetSkipPreviews))
}

func (s *Server) status() StatusResponse {
	return StatusResponse{Snapshot: s.controller.Snapshot()}
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	rootID, _ := args["root_id"].(string)
	if rootID == "" {
		return StatusResponse{}, fmt.Errorf("root_id is required")
	}

	if err := s.controller.Start(ctx, domain.NodeID(rootID)); err != nil {
		return StatusResponse{}, fmt.Errorf("start failed: %w", err)
	}
	return s.status(), nil
}

func (s *Server) handlePause(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	s.controller.Pause()
	return s.status(), nil
}

func (s *Server) handleResume(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	s.controller.Resume()
	return s.status(), nil
}

func (s *Server) handleCancel(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	s.controller.Cancel()
	return s.status(), nil
}

func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	return s.status(), nil
}

func (s *Server) handleSetSkipPreviews(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	enabled, ok := args["enabled"].(bool)
	if !ok {
		return StatusResponse{}, fmt.Errorf("enabled must be a boolean")
	}
	s.controller.SetSkipAllPreviews(enabled)
	return s.status(), nil
}

func (s *Server) registerResources() {
	// EXPOSE: cascade://run
	s.mcpServer.AddResource(mcp.NewResource("cascade://run", "Current Run Snapshot",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.controller.Snapshot())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "cascade://run",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
