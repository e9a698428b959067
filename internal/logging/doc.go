// Package logging provides the structured logging conventions used across
// deskhand.
//
// All packages log through log/slog. This package supplies the handler setup
// for the CLI and attribute helpers so that tool, service and error fields are
// named the same everywhere:
//
//	logger := logging.WithTool(slog.Default(), "send_email")
//	logger.Info("email sent", logging.Recipient(to), logging.Status(logging.StatusSuccess))
//
// Recipient addresses are hashed and tokens are reduced to a length marker
// before they reach a log line.
package logging
