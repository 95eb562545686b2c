package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/instrumentation"
)

const (
	// DefaultHTTPAddr is the default address for the streamable HTTP transport.
	DefaultHTTPAddr = ":8080"

	// DefaultHTTPReadHeaderTimeout bounds how long a client may take to
	// send request headers.
	DefaultHTTPReadHeaderTimeout = 10 * time.Second

	// DefaultHTTPIdleTimeout is the idle timeout for HTTP connections.
	DefaultHTTPIdleTimeout = 120 * time.Second

	// mcpEndpointPath is where the streamable HTTP transport is mounted.
	mcpEndpointPath = "/mcp"
)

// HTTPServerConfig holds configuration for the streamable HTTP transport.
type HTTPServerConfig struct {
	// Addr is the address to bind to (e.g., ":8080").
	Addr string

	// Metrics records HTTP request metrics when non-nil.
	Metrics *instrumentation.Metrics

	// HealthChecker serves /healthz and /readyz when non-nil.
	HealthChecker *HealthChecker
}

// HTTPServer serves the MCP protocol over the streamable HTTP
// transport, alongside health endpoints on the same port.
type HTTPServer struct {
	httpServer *http.Server
	streamable *mcpserver.StreamableHTTPServer
	addr       string
}

// NewHTTPServer creates an HTTP server hosting the given MCP server.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, config HTTPServerConfig) *HTTPServer {
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpServer,
		mcpserver.WithEndpointPath(mcpEndpointPath),
	)

	mux := http.NewServeMux()
	mux.Handle(mcpEndpointPath, instrumentHandler(config.Metrics, mcpEndpointPath, streamable))

	if config.HealthChecker != nil {
		config.HealthChecker.RegisterHealthEndpoints(mux)
	}

	return &HTTPServer{
		httpServer: &http.Server{
			Addr:              config.Addr,
			Handler:           mux,
			ReadHeaderTimeout: DefaultHTTPReadHeaderTimeout,
			IdleTimeout:       DefaultHTTPIdleTimeout,
		},
		streamable: streamable,
		addr:       config.Addr,
	}
}

// Start starts the HTTP server in a blocking manner.
func (s *HTTPServer) Start() error {
	slog.Info("starting streamable HTTP server", "addr", s.addr, "endpoint", mcpEndpointPath)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("streamable HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server and its MCP sessions.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	slog.Info("shutting down streamable HTTP server")
	if err := s.streamable.Shutdown(ctx); err != nil {
		slog.Warn("failed to shut down MCP sessions", "error", err)
	}
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the configured address.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// statusRecorder captures the response status code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrumentHandler wraps a handler with HTTP request metrics. Returns
// the handler unchanged when metrics is nil.
func instrumentHandler(metrics *instrumentation.Metrics, path string, next http.Handler) http.Handler {
	if metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		metrics.RecordHTTPRequest(r.Context(), r.Method, path, recorder.status, time.Since(start))
	})
}
