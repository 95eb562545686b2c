package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/driveflow/driveflow/internal/docs"
	"github.com/driveflow/driveflow/internal/drive"
	"github.com/driveflow/driveflow/internal/google"
	"github.com/driveflow/driveflow/internal/instrumentation"
	"github.com/driveflow/driveflow/internal/mailer"
)

// ServerContext holds the shared state for the MCP server: the
// authenticator, lazily created per-account API clients, and the
// instrumentation hooks tool handlers record into.
type ServerContext struct {
	ctx          context.Context
	cancel       context.CancelFunc
	auth         *google.Authenticator
	driveClients map[string]*drive.Client // Maps account name to Drive client
	docsClients  map[string]*docs.Client  // Maps account name to Docs client
	mailSources  []mailer.Source
	metrics      *instrumentation.Metrics
	auditLogger  *instrumentation.AuditLogger
	readOnly     bool
	mu           sync.RWMutex
	shutdown     bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, auth *google.Authenticator) (*ServerContext, error) {
	if auth == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:          shutdownCtx,
		cancel:       cancel,
		auth:         auth,
		driveClients: make(map[string]*drive.Client),
		docsClients:  make(map[string]*docs.Client),
		mailSources:  mailer.DefaultSources(),
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Authenticator returns the Google OAuth authenticator
func (sc *ServerContext) Authenticator() *google.Authenticator {
	return sc.auth
}

// DriveClientForAccount returns the Drive client for a specific
// account, creating and caching it on first use.
func (sc *ServerContext) DriveClientForAccount(account string) (*drive.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.driveClients[account]; ok {
		return client, nil
	}

	if !sc.auth.HasToken(account) {
		return nil, fmt.Errorf("%s", google.AuthenticationErrorMessage(account))
	}

	client, err := drive.NewClientForAccount(sc.ctx, account, sc.auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive client for account %s: %w", account, err)
	}

	sc.driveClients[account] = client
	return client, nil
}

// DriveClient returns the Drive client for the default account
func (sc *ServerContext) DriveClient() (*drive.Client, error) {
	return sc.DriveClientForAccount("default")
}

// SetDriveClientForAccount sets the Drive client for a specific account
func (sc *ServerContext) SetDriveClientForAccount(account string, client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClients[account] = client
}

// DocsClientForAccount returns the Docs client for a specific account,
// creating and caching it on first use.
func (sc *ServerContext) DocsClientForAccount(account string) (*docs.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.docsClients[account]; ok {
		return client, nil
	}

	if !sc.auth.HasToken(account) {
		return nil, fmt.Errorf("%s", google.AuthenticationErrorMessage(account))
	}

	client, err := docs.NewClientForAccount(sc.ctx, account, sc.auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs client for account %s: %w", account, err)
	}

	sc.docsClients[account] = client
	return client, nil
}

// DocsClient returns the Docs client for the default account
func (sc *ServerContext) DocsClient() (*docs.Client, error) {
	return sc.DocsClientForAccount("default")
}

// SetDocsClientForAccount sets the Docs client for a specific account
func (sc *ServerContext) SetDocsClientForAccount(account string, client *docs.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.docsClients[account] = client
}

// MailSources returns the configured email settings sources in
// precedence order, not including per-call overrides.
func (sc *ServerContext) MailSources() []mailer.Source {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.mailSources
}

// SetMailSources replaces the email settings sources. Used by tests.
func (sc *ServerContext) SetMailSources(sources []mailer.Source) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.mailSources = sources
}

// Metrics returns the metrics recorder, or nil if instrumentation is
// not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil if not configured
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger
func (sc *ServerContext) SetAuditLogger(logger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = logger
}

// ReadOnly returns whether write tools are disabled
func (sc *ServerContext) ReadOnly() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.readOnly
}

// SetReadOnly sets whether write tools are disabled
func (sc *ServerContext) SetReadOnly(readOnly bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.readOnly = readOnly
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	slog.Debug("shutting down server context")
	sc.shutdown = true
	sc.cancel()
	return nil
}
