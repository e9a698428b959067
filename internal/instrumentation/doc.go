// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for deskhand tool invocations.
//
// # Metrics
//
// Tool metrics:
//   - mcp_tool_invocations_total: tool invocations by tool, status and error kind
//   - mcp_tool_duration_seconds: tool execution durations
//
// External API metrics:
//   - external_api_operations_total: calls to Gmail, Calendar, Jira, Wikipedia
//     and OpenAI by service, operation and status
//   - external_api_operation_duration_seconds: durations of those calls
//
// OAuth metrics:
//   - oauth_token_refresh_total: Google token refresh attempts by result
//
// HTTP metrics (streamable HTTP transport only):
//   - http_requests_total, http_request_duration_seconds
//
// # Tracing
//
// Spans are created per tool invocation (tool.<name>) and per external call
// (<service>.<operation>).
//
// # Configuration
//
// Configuration is read from the environment:
//   - INSTRUMENTATION_ENABLED (default: false)
//   - METRICS_EXPORTER: prometheus, otlp or stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: deskhand)
//   - AUDIT_LOGGING_ENABLED (default: true)
package instrumentation
