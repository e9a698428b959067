// Package common holds the string boundary shared by every deskhand tool:
// the error taxonomy, the Result type that renders success text or a tagged
// failure, the StringTool wrapper that never panics, the registry used by
// the CLI and the MCP server, and the instrumentation wrapper.
package common
