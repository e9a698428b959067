// Package server wires deskhand's dependencies together and serves the MCP
// tools over HTTP.
//
// ServerContext owns the configuration, the logger, the Google credential
// provider and the instrumentation recorders, and builds the API clients the
// tools call. Google clients are rebuilt per call so every call goes through
// CredentialProvider.EnsureValid.
//
// HTTPServer exposes the MCP streamable HTTP transport at /mcp together with
// health endpoints. MetricsServer serves Prometheus metrics on a separate
// address.
package server
