// Package resources provides read-only MCP resources describing the local
// deskhand session: the persisted chat history and the effective settings
// the tools run with. Secrets such as API keys and tokens are never exposed;
// the settings resource only reports whether they are configured.
package resources
