package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/deskhand/internal/logging"
)

func tokenServer(t *testing.T, status int, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "stored-refresh", r.PostForm.Get("refresh_token"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "fresh-access",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "client",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth", TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
		Scopes:       Scopes,
	}
}

func failingAuthorizer(t *testing.T) Authorizer {
	return AuthorizerFunc(func(context.Context, *oauth2.Config) (*oauth2.Token, error) {
		t.Fatal("interactive authorization must not run")
		return nil, nil
	})
}

func staticAuthorizer(calls *atomic.Int32) Authorizer {
	return AuthorizerFunc(func(context.Context, *oauth2.Config) (*oauth2.Token, error) {
		calls.Add(1)
		return &oauth2.Token{AccessToken: "interactive", RefreshToken: "new-refresh", Expiry: time.Now().Add(time.Hour)}, nil
	})
}

func TestEnsureValid_ValidTokenUnchanged(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	tok := &oauth2.Token{AccessToken: "still-good", RefreshToken: "r", Expiry: time.Now().Add(time.Hour)}
	require.NoError(t, store.Save(tok))
	before, err := os.Stat(store.Path)
	require.NoError(t, err)

	p := NewCredentialProvider(store, failingAuthorizer(t), WithLogger(logging.Discard()))
	got, err := p.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "still-good", got.AccessToken)

	after, err := os.Stat(store.Path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestEnsureValid_RefreshesExpiredToken(t *testing.T) {
	var calls atomic.Int32
	srv := tokenServer(t, http.StatusOK, &calls)

	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "stored-refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	var observed []string
	p := NewCredentialProvider(store, failingAuthorizer(t),
		WithConfig(testConfig(srv.URL)),
		WithLogger(logging.Discard()),
		WithRefreshObserver(func(_ context.Context, result string) { observed = append(observed, result) }),
	)

	got, err := p.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", got.AccessToken)
	assert.True(t, got.Expiry.After(time.Now()))
	assert.Equal(t, "stored-refresh", got.RefreshToken)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, []string{RefreshSuccess}, observed)

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-access", persisted.AccessToken)
}

func TestEnsureValid_RefreshFailureFallsBackToAuthorizer(t *testing.T) {
	var tokenCalls, authCalls atomic.Int32
	srv := tokenServer(t, http.StatusBadRequest, &tokenCalls)

	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, store.Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "stored-refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}))

	p := NewCredentialProvider(store, staticAuthorizer(&authCalls),
		WithConfig(testConfig(srv.URL)), WithLogger(logging.Discard()))

	got, err := p.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "interactive", got.AccessToken)
	assert.Equal(t, int32(1), authCalls.Load())

	persisted, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "interactive", persisted.AccessToken)
}

func TestEnsureValid_NoTokenRunsAuthorizer(t *testing.T) {
	var authCalls atomic.Int32
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	p := NewCredentialProvider(store, staticAuthorizer(&authCalls),
		WithConfig(testConfig("http://127.0.0.1:1/token")), WithLogger(logging.Discard()))

	got, err := p.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "interactive", got.AccessToken)
	assert.Equal(t, int32(1), authCalls.Load())

	_, err = os.Stat(store.Path)
	assert.NoError(t, err)
}

func TestEnsureValid_ExpiredWithoutRefreshToken(t *testing.T) {
	var authCalls atomic.Int32
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "stale", Expiry: time.Now().Add(-time.Minute)}))

	p := NewCredentialProvider(store, staticAuthorizer(&authCalls),
		WithConfig(testConfig("http://127.0.0.1:1/token")), WithLogger(logging.Discard()))

	_, err := p.EnsureValid(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), authCalls.Load())
}

func TestEnsureValid_NoAuthorizationSource(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	p := NewCredentialProvider(store, failingAuthorizer(t), WithLogger(logging.Discard()))

	_, err := p.EnsureValid(context.Background())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, ErrNoAuthorizationSource)
}

func TestEnsureValid_MissingCredentialsFile(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	p := NewCredentialProvider(store, failingAuthorizer(t),
		WithCredentialsFile(filepath.Join(t.TempDir(), "missing.json")), WithLogger(logging.Discard()))

	_, err := p.EnsureValid(context.Background())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnsureValid_AuthorizerError(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	denied := errors.New("user closed the browser")
	p := NewCredentialProvider(store,
		AuthorizerFunc(func(context.Context, *oauth2.Config) (*oauth2.Token, error) { return nil, denied }),
		WithConfig(testConfig("http://127.0.0.1:1/token")), WithLogger(logging.Discard()))

	_, err := p.EnsureValid(context.Background())
	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, denied)
	assert.Equal(t, "authorize", authErr.Op)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client_secret.json")
	secret := `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"s",` +
		`"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",` +
		`"redirect_uris":["http://localhost"]}}`
	require.NoError(t, os.WriteFile(path, []byte(secret), 0600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "id.apps.googleusercontent.com", cfg.ClientID)
	assert.Equal(t, Scopes, cfg.Scopes)

	_, err = LoadConfig("")
	assert.ErrorIs(t, err, ErrNoAuthorizationSource)
}

func TestHTTPClient_SetsBearerToken(t *testing.T) {
	var auth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer api.Close()

	store := NewFileTokenStore(filepath.Join(t.TempDir(), "token.json"))
	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "abc", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}))

	p := NewCredentialProvider(store, failingAuthorizer(t), WithLogger(logging.Discard()))
	client, err := p.HTTPClient(context.Background())
	require.NoError(t, err)

	resp, err := client.Get(api.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "Bearer abc", auth)
}
