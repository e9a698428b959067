package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskhand/internal/history"
	"github.com/teemow/deskhand/internal/server"
)

// Resource URIs.
const (
	HistoryURI  = "deskhand://history"
	SettingsURI = "deskhand://settings"
)

const mimeJSON = "application/json"

// RegisterResources registers the history and settings resources on s.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) {
	historyResource := mcp.NewResource(
		HistoryURI,
		"Chat History",
		mcp.WithResourceDescription("The persisted chat history as an ordered list of role/content records"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(historyResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleHistory(ctx, request, sc)
	})

	settingsResource := mcp.NewResource(
		SettingsURI,
		"Settings",
		mcp.WithResourceDescription("Defaults used by the tools and which integrations are configured"),
		mcp.WithMIMEType(mimeJSON),
	)
	s.AddResource(settingsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleSettings(ctx, request, sc)
	})
}

func handleHistory(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	store, err := sc.OpenHistory("")
	if err != nil {
		return nil, err
	}
	defer store.Close()

	records := store.Load(ctx)
	if records == nil {
		records = []history.Record{}
	}
	return jsonContents(request.Params.URI, records)
}

// Settings is the body of the settings resource.
type Settings struct {
	Gmail struct {
		DefaultQuery      string `json:"defaultQuery"`
		DefaultMaxResults int64  `json:"defaultMaxResults"`
	} `json:"gmail"`
	Calendar struct {
		TimeZone string `json:"timeZone"`
	} `json:"calendar"`
	Jira struct {
		URL            string `json:"url,omitempty"`
		DefaultProject string `json:"defaultProject"`
		SearchLimit    int    `json:"searchLimit"`
		Configured     bool   `json:"configured"`
	} `json:"jira"`
	OpenAI struct {
		Model      string `json:"model"`
		Configured bool   `json:"configured"`
	} `json:"openai"`
	Google struct {
		CredentialsConfigured bool `json:"credentialsConfigured"`
	} `json:"google"`
	Wikipedia struct {
		Language  string `json:"language"`
		Sentences int    `json:"sentences"`
	} `json:"wikipedia"`
	HistoryPath string `json:"historyPath"`
}

// settingsFor reports the effective settings of sc without secrets.
func settingsFor(sc *server.ServerContext) Settings {
	cfg := sc.Config()

	var s Settings
	s.Gmail.DefaultQuery = cfg.Google.MailQuery
	s.Gmail.DefaultMaxResults = cfg.Google.MailMaxResults
	s.Calendar.TimeZone = cfg.Google.TimeZone
	s.Jira.URL = cfg.Jira.URL
	s.Jira.DefaultProject = cfg.Jira.DefaultProject
	s.Jira.SearchLimit = cfg.Jira.SearchLimit
	_, err := cfg.RequireJira()
	s.Jira.Configured = err == nil
	s.OpenAI.Model = cfg.OpenAI.Model
	_, err = cfg.RequireOpenAIKey()
	s.OpenAI.Configured = err == nil
	_, err = cfg.RequireGoogleCredentialsPath()
	s.Google.CredentialsConfigured = err == nil
	s.Wikipedia.Language = cfg.Wikipedia.Language
	s.Wikipedia.Sentences = cfg.Wikipedia.Sentences
	s.HistoryPath = cfg.History.Path
	return s
}

func handleSettings(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	return jsonContents(request.Params.URI, settingsFor(sc))
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(jsonData),
		},
	}, nil
}
