// Package cmd implements the command-line interface for deskhand.
//
// This package provides the following commands:
//   - serve: Start the MCP server over stdio or streamable HTTP
//   - call: Invoke a single tool and print its result
//   - tools: List the available tools
//   - auth: Authenticate with Google or verify the Jira credentials
//   - history: Show, append to or clear the chat history
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
