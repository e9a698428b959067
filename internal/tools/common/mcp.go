package common

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// InputArgument is the single MCP argument every tool takes.
const InputArgument = "input"

// MCPTool describes t as an MCP tool.
func (t StringTool) MCPTool() mcp.Tool {
	help := t.InputHelp
	if help == "" {
		help = "Tool input"
	}
	return mcp.NewTool(t.Name,
		mcp.WithDescription(t.Description),
		mcp.WithString(InputArgument,
			mcp.Description(help),
		),
	)
}

// MCPHandler adapts t to an MCP tool handler. Failures become error results,
// never protocol errors.
func (t StringTool) MCPHandler() mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := t.Run(ctx, request.GetString(InputArgument, ""))
		if res.Failed() {
			return mcp.NewToolResultError(res.String()), nil
		}
		return mcp.NewToolResultText(res.String()), nil
	}
}

// RegisterMCP adds every tool in r to s.
func (r *Registry) RegisterMCP(s *mcpserver.MCPServer) {
	for _, t := range r.Tools() {
		s.AddTool(t.MCPTool(), t.MCPHandler())
	}
}
