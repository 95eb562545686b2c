package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/google"
	"github.com/driveflow/driveflow/internal/instrumentation"
	"github.com/driveflow/driveflow/internal/logging"
	"github.com/driveflow/driveflow/internal/mailer"
	"github.com/driveflow/driveflow/internal/prompts"
	"github.com/driveflow/driveflow/internal/resources"
	"github.com/driveflow/driveflow/internal/server"
	"github.com/driveflow/driveflow/internal/tools/docs_tools"
	"github.com/driveflow/driveflow/internal/tools/drive_tools"
	"github.com/driveflow/driveflow/internal/tools/email_tools"
	"github.com/driveflow/driveflow/internal/tools/google_tools"
)

// serveOptions holds the configuration collected from serve flags.
type serveOptions struct {
	debug           bool
	transport       string
	httpAddr        string
	readOnly        bool
	accounts        string
	credentialsFile string
	tokenDir        string
	configFile      string
	metricsEnabled  bool
	metricsAddr     string
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Google Drive,
Google Docs, and email tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on /mcp

Safety Mode:
  Use --read-only to disable write operations (uploads, document edits,
  deletions, sharing). Read tools stay available.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts)
		},
	}

	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "Disable write operations (uploads, edits, deletions, sharing)")
	cmd.Flags().StringVar(&opts.accounts, "accounts", "", "Comma-separated account names expected to have stored tokens, checked at startup")
	cmd.Flags().StringVar(&opts.credentialsFile, "credentials", "", "Path to the Google OAuth client secret file. Can also use GOOGLE_CREDENTIALS_FILE env var (default: credentials.json)")
	cmd.Flags().StringVar(&opts.tokenDir, "token-dir", "", "Directory for stored OAuth tokens (default: user cache directory)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to the JSON config file with email settings. Can also use DRIVEFLOW_CONFIG env var (default: config.json)")
	cmd.Flags().BoolVar(&opts.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// setupLogging configures the default slog logger. Logs always go to
// stderr: with the stdio transport, stdout belongs to the MCP protocol.
func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func runServe(opts serveOptions) error {
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	setupLogging(opts.debug)

	// Load metrics config from environment if not set via flags
	if os.Getenv("METRICS_ENABLED") == "false" {
		opts.metricsEnabled = false
	}
	if opts.metricsAddr == server.DefaultMetricsAddr {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.metricsAddr = addr
		}
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	// Start the metrics server on its own port. Skipped for stdio: a
	// subprocess transport should not open listening sockets.
	var metricsServer *server.MetricsServer
	if opts.transport != "stdio" && opts.metricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metricsAddr,
			Enabled:                 true,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		metricsReady := make(chan struct{})
		metricsErr := make(chan error, 1)
		go func() {
			if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && err != http.ErrServerClosed {
				metricsErr <- err
			}
			close(metricsErr)
		}()

		select {
		case <-metricsReady:
			slog.Info("metrics server started", "addr", metricsServer.Addr())
		case err := <-metricsErr:
			return fmt.Errorf("metrics server failed to start: %w", err)
		case <-time.After(5 * time.Second):
			return fmt.Errorf("metrics server startup timed out")
		}
	}

	auth, err := newAuthenticator(opts.credentialsFile, opts.tokenDir)
	if err != nil {
		return err
	}
	if provider.Enabled() {
		metrics := provider.Metrics()
		auth.SetRefreshCallback(func(result string) {
			metrics.RecordOAuthTokenRefresh(context.Background(), result)
		})
	}

	for _, account := range parseCommaSeparatedList(opts.accounts) {
		if !auth.HasToken(account) {
			slog.Warn("no stored token for account, run the authorize command first", "account", account)
		}
	}

	serverContext, err := server.NewServerContext(shutdownCtx, auth)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	serverContext.SetReadOnly(opts.readOnly)
	if opts.configFile != "" {
		serverContext.SetMailSources([]mailer.Source{
			mailer.FileSource{Path: opts.configFile},
			mailer.EnvSource{},
		})
	}

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging))
	}

	defer func() {
		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				slog.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}
		if err := serverContext.Shutdown(); err != nil {
			slog.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("driveflow", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, true),
		mcpserver.WithPromptCapabilities(true),
	)

	if opts.readOnly {
		slog.Info("starting server in read-only mode")
	}

	if err := registerAllTools(mcpSrv, serverContext, opts.readOnly); err != nil {
		return err
	}

	switch opts.transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, opts.httpAddr, provider)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}
}

// newAuthenticator builds the Google OAuth authenticator from the
// credentials file and token directory flags, falling back to the
// package defaults when unset.
func newAuthenticator(credentialsFile, tokenDir string) (*google.Authenticator, error) {
	if credentialsFile == "" {
		credentialsFile = google.DefaultCredentialsFile()
	}

	store := google.NewFileTokenStore()
	if tokenDir != "" {
		store = google.NewFileTokenStoreAt(tokenDir)
	}

	return google.NewAuthenticator(credentialsFile, store)
}

// registerAllTools registers all MCP tools, resources, and prompts
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	type registration struct {
		name     string
		register func() error
	}

	registrations := []registration{
		{
			name: "Drive tools",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Docs tools",
			register: func() error {
				return docs_tools.RegisterDocsTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "Email tools",
			register: func() error {
				return email_tools.RegisterEmailTools(mcpSrv, sc)
			},
		},
		{
			name: "Google auth tools",
			register: func() error {
				return google_tools.RegisterGoogleTools(mcpSrv, sc)
			},
		},
		{
			name: "Drive resources",
			register: func() error {
				return resources.RegisterDriveResources(mcpSrv, sc)
			},
		},
		{
			name: "Docs resources",
			register: func() error {
				return resources.RegisterDocsResources(mcpSrv, sc)
			},
		},
		{
			name: "Prompts",
			register: func() error {
				return prompts.RegisterPrompts(mcpSrv)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}

	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	err := mcpserver.ServeStdio(mcpSrv,
		mcpserver.WithErrorLogger(slog.NewLogLogger(logging.DefaultLogger().Logger().Handler(), slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr string, provider *instrumentation.Provider) error {
	healthChecker := server.NewHealthChecker(sc)

	config := server.HTTPServerConfig{
		Addr:          addr,
		HealthChecker: healthChecker,
	}
	if provider.Enabled() {
		config.Metrics = provider.Metrics()
	}

	httpServer := server.NewHTTPServer(mcpSrv, config)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()
	healthChecker.SetReady(true)

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	healthChecker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
