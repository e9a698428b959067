package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/teemow/deskhand/internal/logging"
)

// Refresh outcomes passed to a refresh observer.
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
)

// LoadConfig reads an OAuth client-secret JSON file and returns a config
// requesting Scopes.
func LoadConfig(credentialsPath string) (*oauth2.Config, error) {
	if credentialsPath == "" {
		return nil, authError("load client configuration", ErrNoAuthorizationSource)
	}
	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, authError("load client configuration", err)
	}
	cfg, err := googleoauth.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return nil, authError("parse client configuration", err)
	}
	return cfg, nil
}

// ProviderOption configures a CredentialProvider.
type ProviderOption func(*CredentialProvider)

// WithConfig sets the OAuth client configuration directly.
func WithConfig(cfg *oauth2.Config) ProviderOption {
	return func(p *CredentialProvider) {
		p.loadConfig = func() (*oauth2.Config, error) { return cfg, nil }
	}
}

// WithCredentialsFile reads the OAuth client configuration from a
// client-secret file the first time it is needed.
func WithCredentialsFile(path string) ProviderOption {
	return func(p *CredentialProvider) {
		p.loadConfig = func() (*oauth2.Config, error) { return LoadConfig(path) }
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(p *CredentialProvider) {
		p.logger = logger
	}
}

// WithTokenHTTPClient sets the HTTP client used to talk to the token endpoint.
func WithTokenHTTPClient(client *http.Client) ProviderOption {
	return func(p *CredentialProvider) {
		p.tokenClient = client
	}
}

// WithRefreshObserver registers a callback invoked after every refresh
// attempt with RefreshSuccess or RefreshFailure.
func WithRefreshObserver(fn func(ctx context.Context, result string)) ProviderOption {
	return func(p *CredentialProvider) {
		p.onRefresh = fn
	}
}

// CredentialProvider owns the persisted Google credential. It is safe for
// concurrent use within one process.
type CredentialProvider struct {
	mu          sync.Mutex
	store       TokenStore
	authorizer  Authorizer
	loadConfig  func() (*oauth2.Config, error)
	config      *oauth2.Config
	tokenClient *http.Client
	onRefresh   func(ctx context.Context, result string)
	logger      *slog.Logger
}

// NewCredentialProvider returns a provider persisting through store and
// falling back to authorizer when no usable token exists.
func NewCredentialProvider(store TokenStore, authorizer Authorizer, opts ...ProviderOption) *CredentialProvider {
	p := &CredentialProvider{
		store:      store,
		authorizer: authorizer,
		loadConfig: func() (*oauth2.Config, error) {
			return nil, authError("load client configuration", ErrNoAuthorizationSource)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.WithService(logging.OrDefault(p.logger), "google-oauth")
	return p
}

// EnsureValid returns a token that is valid now, refreshing or
// re-authorizing as needed. Any token obtained is persisted before it is
// returned. Failures are reported as *AuthenticationError.
func (p *CredentialProvider) EnsureValid(ctx context.Context) (*oauth2.Token, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.store.Load()
	switch {
	case errors.Is(err, ErrNoToken):
		p.logger.Debug("no stored token")
		tok = nil
	case err != nil:
		p.logger.Warn("ignoring unreadable token", logging.Err(err))
		tok = nil
	}

	if tok != nil && tok.Valid() {
		return tok, nil
	}

	if tok != nil && tok.RefreshToken != "" {
		refreshed, err := p.refresh(ctx, tok)
		if err == nil {
			if err := p.store.Save(refreshed); err != nil {
				return nil, authError("persist token", err)
			}
			return refreshed, nil
		}
		var authErr *AuthenticationError
		if errors.As(err, &authErr) && errors.Is(err, ErrNoAuthorizationSource) {
			return nil, err
		}
		p.logger.Warn("token refresh failed, starting interactive authorization", logging.Err(err))
	}

	return p.authorize(ctx)
}

// HTTPClient returns a client that authorizes requests with a valid token.
// Requests are made over HTTP/1.1.
func (p *CredentialProvider) HTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := p.EnsureValid(ctx)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(tok),
			Base:   &http.Transport{ForceAttemptHTTP2: false, Proxy: http.ProxyFromEnvironment},
		},
	}, nil
}

func (p *CredentialProvider) oauthConfig() (*oauth2.Config, error) {
	if p.config != nil {
		return p.config, nil
	}
	cfg, err := p.loadConfig()
	if err != nil {
		return nil, err
	}
	p.config = cfg
	return cfg, nil
}

func (p *CredentialProvider) tokenContext(ctx context.Context) context.Context {
	if p.tokenClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.tokenClient)
}

func (p *CredentialProvider) refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	cfg, err := p.oauthConfig()
	if err != nil {
		return nil, err
	}

	p.logger.Debug("refreshing token", slog.String("refresh_token", logging.SanitizeToken(tok.RefreshToken)))

	// Clear the access token so the source does not hand back the stale one.
	expired := *tok
	expired.AccessToken = ""
	refreshed, err := cfg.TokenSource(p.tokenContext(ctx), &expired).Token()
	if err != nil {
		p.observeRefresh(ctx, RefreshFailure)
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}
	p.observeRefresh(ctx, RefreshSuccess)
	p.logger.Info("token refreshed", slog.Time("expiry", refreshed.Expiry))
	return refreshed, nil
}

func (p *CredentialProvider) authorize(ctx context.Context) (*oauth2.Token, error) {
	cfg, err := p.oauthConfig()
	if err != nil {
		return nil, err
	}
	if p.authorizer == nil {
		return nil, authError("authorize", errors.New("no interactive authorizer available"))
	}

	tok, err := p.authorizer.Authorize(p.tokenContext(ctx), cfg)
	if err != nil {
		return nil, authError("authorize", err)
	}
	if err := p.store.Save(tok); err != nil {
		return nil, authError("persist token", err)
	}
	p.logger.Info("authorization complete")
	return tok, nil
}

func (p *CredentialProvider) observeRefresh(ctx context.Context, result string) {
	if p.onRefresh != nil {
		p.onRefresh(ctx, result)
	}
}
