// internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"github.com/ThinkInAIXYZ/go-mcp/server"
	"go.uber.org/zap"

	"mcp-health-log/internal/faults"
	"mcp-health-log/internal/tracker"
)

type Config struct {
	Host string
	Port int

	// ExtractTimeout bounds each tool call; extraction round trips must not
	// hold a request open indefinitely.
	ExtractTimeout time.Duration
}

// HealthLogServer exposes the tracking pipeline as MCP-style tools over
// HTTP. Transport only; every decision lives in the tracker.
type HealthLogServer struct {
	server     *server.Server
	httpServer *http.Server
	tracker    *tracker.Tracker
	logger     *zap.Logger
	config     *Config
	timeout    time.Duration
}

func NewHealthLogServer(cfg *Config, trk *tracker.Tracker, logger *zap.Logger) (*HealthLogServer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.ExtractTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	healthServer := &HealthLogServer{
		tracker: trk,
		logger:  logger,
		config:  cfg,
		timeout: timeout,
	}

	mux := http.NewServeMux()

	// MCP server metadata; the transport is handled manually below.
	mcpServer, err := server.NewServer(
		nil,
		server.WithServerInfo(protocol.Implementation{
			Name:    "health-log",
			Version: "1.0.0",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	healthServer.server = mcpServer

	if err := healthServer.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	mux.HandleFunc("/", healthServer.handleHTTP)

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	healthServer.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	return healthServer, nil
}

func (s *HealthLogServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools()[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := handler(ctx, &request)
	if err != nil {
		s.logger.Warn("tool call failed",
			zap.String("tool", request.Name),
			zap.Error(err))
		http.Error(w, err.Error(), statusForError(err))
		return
	}

	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// statusForError maps failure classification onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case faults.Is(err, faults.CodeInvalidRequest):
		return http.StatusBadRequest
	case faults.Is(err, faults.CodeNotFound):
		return http.StatusNotFound
	case faults.Is(err, faults.CodeParse):
		return http.StatusUnprocessableEntity
	case faults.Is(err, faults.CodeExtraction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *HealthLogServer) Start(ctx context.Context) error {
	s.logger.Info("starting health log server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HealthLogServer) Stop() error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(context.Background())
	}
	return nil
}

func (s *HealthLogServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
