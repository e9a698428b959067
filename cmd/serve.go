package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskhand/internal/resources"
	"github.com/teemow/deskhand/internal/server"
)

// Transports accepted by serve.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"

	DefaultHTTPAddr = ":8080"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		transport   string
		httpAddr    string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server providing every deskhand tool
to AI assistants. Each tool takes a single string argument named "input".

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport on --http-addr at /mcp

Metrics:
  With INSTRUMENTATION_ENABLED=true and the prometheus exporter, the HTTP
  transport also serves /metrics on --metrics-addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, transport, httpAddr, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", TransportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address (for streamable-http transport)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *rootOptions, transport, httpAddr, metricsAddr string) error {
	if transport != TransportStdio && transport != TransportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", transport, TransportStdio, TransportStreamableHTTP)
	}

	shutdownCtx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	cmd.SetContext(shutdownCtx)

	sc, err := opts.newServerContext(cmd)
	if err != nil {
		return err
	}
	logger := sc.Logger()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := sc.Shutdown(ctx); err != nil {
			logger.Warn("error during server context shutdown", "error", err)
		}
	}()

	registry, err := buildRegistry(sc)
	if err != nil {
		return err
	}

	mcpSrv := mcpserver.NewMCPServer("deskhand", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
	registry.RegisterMCP(mcpSrv)
	resources.RegisterResources(mcpSrv, sc)
	logger.Debug("registered tools", "count", len(registry.Tools()))

	switch transport {
	case TransportStdio:
		return runStdioServer(shutdownCtx, mcpSrv)
	default:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, sc, httpAddr, metricsAddr)
	}
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("server stopped with error: %w", err)
		}
		return nil
	}
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, addr, metricsAddr string) error {
	logger := sc.Logger()

	metricsServer, err := startMetricsServer(sc, metricsAddr, logger)
	if err != nil {
		return err
	}
	if metricsServer != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("error during metrics server shutdown", "error", err)
			}
		}()
	}

	httpServer := server.NewHTTPServer(mcpSrv, sc)
	logger.Info("streamable HTTP server starting",
		"addr", addr,
		"endpoint", server.MCPEndpoint,
		"health", "/healthz, /readyz")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(addr); err != nil {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}

// startMetricsServer starts the Prometheus endpoint when instrumentation is
// enabled with the prometheus exporter. It returns nil otherwise.
func startMetricsServer(sc *server.ServerContext, addr string, logger *slog.Logger) (*server.MetricsServer, error) {
	provider := sc.InstrumentationProvider()
	if provider == nil || !provider.Enabled() || !provider.ServesPrometheus() {
		return nil, nil
	}

	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	go func() {
		if err := metricsServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("metrics server started", "addr", metricsServer.Addr())
	return metricsServer, nil
}
