package cmd

import (
	"fmt"

	"github.com/teemow/deskhand/internal/server"
	"github.com/teemow/deskhand/internal/tools/calendar_tools"
	"github.com/teemow/deskhand/internal/tools/common"
	"github.com/teemow/deskhand/internal/tools/gmail_tools"
	"github.com/teemow/deskhand/internal/tools/google_tools"
	"github.com/teemow/deskhand/internal/tools/jira_tools"
	"github.com/teemow/deskhand/internal/tools/math_tools"
	"github.com/teemow/deskhand/internal/tools/search_tools"
)

// buildRegistry registers every tool, instrumented with the metrics and
// audit logger of sc.
func buildRegistry(sc *server.ServerContext) (*common.Registry, error) {
	type toolGroup struct {
		name  string
		tools []common.StringTool
	}

	groups := []toolGroup{
		{name: "Gmail", tools: gmail_tools.Tools(gmail_tools.FromServerContext(sc))},
		{name: "Calendar", tools: calendar_tools.Tools(calendar_tools.FromServerContext(sc))},
		{name: "Jira", tools: jira_tools.Tools(jira_tools.FromServerContext(sc))},
		{name: "Google", tools: google_tools.Tools(google_tools.FromServerContext(sc))},
		{name: "Math", tools: math_tools.Tools()},
		{name: "Search", tools: search_tools.Tools(search_tools.FromServerContext(sc))},
	}

	registry := common.NewRegistry()
	for _, g := range groups {
		for _, t := range g.tools {
			if err := registry.Register(common.Instrument(t, sc)); err != nil {
				return nil, fmt.Errorf("failed to register %s tools: %w", g.name, err)
			}
		}
	}
	return registry, nil
}
