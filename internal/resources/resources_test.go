package resources

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/teemow/deskhand/internal/config"
	"github.com/teemow/deskhand/internal/google"
	"github.com/teemow/deskhand/internal/history"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/server"
)

func newTestServerContext(t *testing.T, mutate func(*config.Config)) *server.ServerContext {
	t.Helper()
	cfg := config.Default()
	cfg.Google.TokenPath = filepath.Join(t.TempDir(), "token.json")
	cfg.History.Path = filepath.Join(t.TempDir(), "chat_history.json")
	if mutate != nil {
		mutate(cfg)
	}

	sc, err := server.NewServerContext(context.Background(), server.Options{
		Config: cfg,
		Logger: logging.Discard(),
		Authorizer: google.AuthorizerFunc(func(context.Context, *oauth2.Config) (*oauth2.Token, error) {
			return nil, errors.New("interactive authorization disabled in tests")
		}),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown(context.Background()) })
	return sc
}

func readRequest(uri string) mcp.ReadResourceRequest {
	var req mcp.ReadResourceRequest
	req.Params.URI = uri
	return req
}

func textOf(t *testing.T, contents []mcp.ResourceContents) *mcp.TextResourceContents {
	t.Helper()
	require.Len(t, contents, 1)
	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, mimeJSON, text.MIMEType)
	return text
}

func TestHandleHistory(t *testing.T) {
	sc := newTestServerContext(t, nil)
	ctx := context.Background()

	contents, err := handleHistory(ctx, readRequest(HistoryURI), sc)
	require.NoError(t, err)
	text := textOf(t, contents)
	assert.Equal(t, HistoryURI, text.URI)
	assert.JSONEq(t, "[]", text.Text)

	store, err := sc.OpenHistory("")
	require.NoError(t, err)
	records := []history.Record{
		{Role: history.RoleUser, Content: "¿Cuál es la capital de Colombia?"},
		{Role: history.RoleAssistant, Content: "Bogotá"},
	}
	require.NoError(t, store.Save(ctx, records))
	require.NoError(t, store.Close())

	contents, err = handleHistory(ctx, readRequest(HistoryURI), sc)
	require.NoError(t, err)

	var got []history.Record
	require.NoError(t, json.Unmarshal([]byte(textOf(t, contents).Text), &got))
	assert.Equal(t, records, got)
}

func TestHandleSettings_HidesSecrets(t *testing.T) {
	sc := newTestServerContext(t, func(cfg *config.Config) {
		cfg.Jira.URL = "https://example.atlassian.net"
		cfg.Jira.User = "bot@example.com"
		cfg.Jira.Token = "jira-secret-token"
		cfg.OpenAI.APIKey = "sk-secret"
	})

	contents, err := handleSettings(context.Background(), readRequest(SettingsURI), sc)
	require.NoError(t, err)
	text := textOf(t, contents).Text

	assert.NotContains(t, text, "jira-secret-token")
	assert.NotContains(t, text, "sk-secret")

	var s Settings
	require.NoError(t, json.Unmarshal([]byte(text), &s))
	assert.True(t, s.Jira.Configured)
	assert.True(t, s.OpenAI.Configured)
	assert.False(t, s.Google.CredentialsConfigured)
	assert.Equal(t, "https://example.atlassian.net", s.Jira.URL)
	assert.Equal(t, config.DefaultJiraProject, s.Jira.DefaultProject)
	assert.Equal(t, config.DefaultMailQuery, s.Gmail.DefaultQuery)
	assert.Equal(t, int64(config.DefaultMailMaxResults), s.Gmail.DefaultMaxResults)
	assert.Equal(t, config.DefaultTimeZone, s.Calendar.TimeZone)
}

func TestSettingsFor_Unconfigured(t *testing.T) {
	s := settingsFor(newTestServerContext(t, nil))

	assert.False(t, s.Jira.Configured)
	assert.False(t, s.OpenAI.Configured)
	assert.Empty(t, s.Jira.URL)
}
