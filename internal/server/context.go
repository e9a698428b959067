package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/teemow/deskhand/internal/calendar"
	"github.com/teemow/deskhand/internal/config"
	"github.com/teemow/deskhand/internal/gmail"
	"github.com/teemow/deskhand/internal/google"
	"github.com/teemow/deskhand/internal/history"
	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/jira"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/querygen"
	"github.com/teemow/deskhand/internal/wikipedia"
)

// Options configures NewServerContext.
type Options struct {
	Config *config.Config
	Logger *slog.Logger

	// Authorizer runs the interactive Google consent flow. Nil selects the
	// loopback browser flow printing to Prompt.
	Authorizer google.Authorizer
	// Prompt receives interactive instructions. Defaults to stderr.
	Prompt io.Writer

	Instrumentation *instrumentation.Config
	Version         string
}

// ServerContext holds the shared dependencies of all tools.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg         *config.Config
	logger      *slog.Logger
	credentials *google.CredentialProvider

	instrumentation *instrumentation.Provider
	metrics         *instrumentation.Metrics
	auditLogger     *instrumentation.AuditLogger

	mu        sync.RWMutex
	wikipedia *wikipedia.Client
	shutdown  bool
}

// NewServerContext creates a server context from opts.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := logging.OrDefault(opts.Logger)

	var instCfg instrumentation.Config
	if opts.Instrumentation != nil {
		instCfg = *opts.Instrumentation
	}
	instCfg.ServiceVersion = opts.Version
	if instCfg.ServiceName == "" {
		instCfg.ServiceName = "deskhand"
	}

	provider, err := instrumentation.NewProvider(ctx, instCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	metrics := provider.Metrics()

	var auditLogger *instrumentation.AuditLogger
	if instCfg.AuditLogging.Enabled {
		auditLogger = instrumentation.NewAuditLoggerWithConfig(logger.With("component", "audit"), instCfg.AuditLogging)
	}

	authorizer := opts.Authorizer
	if authorizer == nil {
		prompt := opts.Prompt
		if prompt == nil {
			prompt = os.Stderr
		}
		authorizer = google.NewLoopbackAuthorizer(prompt)
	}

	providerOpts := []google.ProviderOption{
		google.WithLogger(logger),
		google.WithRefreshObserver(metrics.RecordOAuthTokenRefresh),
	}
	if cfg.Google.CredentialsPath != "" {
		providerOpts = append(providerOpts, google.WithCredentialsFile(cfg.Google.CredentialsPath))
	}
	credentials := google.NewCredentialProvider(
		google.NewFileTokenStore(cfg.Google.TokenPath),
		authorizer,
		providerOpts...,
	)

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		cfg:             cfg,
		logger:          logger,
		credentials:     credentials,
		instrumentation: provider,
		metrics:         metrics,
		auditLogger:     auditLogger,
	}, nil
}

// Context returns the server context, cancelled on Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Logger returns the application logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Credentials returns the Google credential provider.
func (sc *ServerContext) Credentials() *google.CredentialProvider {
	return sc.credentials
}

// Metrics returns the metrics recorder.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	return sc.auditLogger
}

// InstrumentationProvider returns the OpenTelemetry provider.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	return sc.instrumentation
}

// GmailClient returns a Gmail client authorized with a freshly ensured token.
func (sc *ServerContext) GmailClient(ctx context.Context) (*gmail.Client, error) {
	httpClient, err := sc.credentials.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	return gmail.NewClient(ctx, httpClient)
}

// CalendarClient returns a Calendar client authorized with a freshly ensured token.
func (sc *ServerContext) CalendarClient(ctx context.Context) (*calendar.Client, error) {
	httpClient, err := sc.credentials.HTTPClient(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.NewClient(ctx, httpClient)
}

// JiraClient returns a Jira client, or a *config.MissingError when the
// connection settings are incomplete.
func (sc *ServerContext) JiraClient() (*jira.Client, error) {
	jc, err := sc.cfg.RequireJira()
	if err != nil {
		return nil, err
	}
	return jira.NewClient(jira.Config{URL: jc.URL, User: jc.User, Token: jc.Token}, nil)
}

// QueryGenerator returns the Gmail query generator, or a *config.MissingError
// when no API key is configured.
func (sc *ServerContext) QueryGenerator() (*querygen.Generator, error) {
	key, err := sc.cfg.RequireOpenAIKey()
	if err != nil {
		return nil, err
	}
	return querygen.New(querygen.Config{
		APIKey:  key,
		Model:   sc.cfg.OpenAI.Model,
		BaseURL: sc.cfg.OpenAI.BaseURL,
	})
}

// Wikipedia returns the shared Wikipedia client.
func (sc *ServerContext) Wikipedia() *wikipedia.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.wikipedia == nil {
		sc.wikipedia = wikipedia.NewClient(wikipedia.Options{
			Endpoint:  sc.cfg.Wikipedia.Endpoint,
			Language:  sc.cfg.Wikipedia.Language,
			Sentences: sc.cfg.Wikipedia.Sentences,
		})
	}
	return sc.wikipedia
}

// OpenHistory opens the configured chat history store. path overrides the
// configured location when non-empty.
func (sc *ServerContext) OpenHistory(path string) (history.Store, error) {
	if path == "" {
		path = sc.cfg.History.Path
	}
	return history.Open(path, sc.logger)
}

// IsShutdown reports whether Shutdown has been called.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown cancels the server context and flushes telemetry.
func (sc *ServerContext) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	if sc.shutdown {
		sc.mu.Unlock()
		return nil
	}
	sc.shutdown = true
	sc.mu.Unlock()

	sc.cancel()
	return sc.instrumentation.Shutdown(ctx)
}
