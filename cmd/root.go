package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/deskhand/internal/config"
	"github.com/teemow/deskhand/internal/instrumentation"
	"github.com/teemow/deskhand/internal/logging"
	"github.com/teemow/deskhand/internal/server"
)

// version will be set by main
var version = "dev"

// SetVersion sets the version reported by the CLI and the MCP server.
func SetVersion(v string) {
	version = v
}

// rootOptions holds the flags shared by all subcommands.
type rootOptions struct {
	configPath string
	envFile    string
	debug      bool
}

// newRootCmd builds the deskhand command tree.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "deskhand",
		Short: "Gmail, Calendar, Jira and Wikipedia tools for AI assistants",
		Long: `deskhand exposes a small set of office tools to AI assistants: sending and
reading Gmail, turning requests into Gmail search queries, creating Calendar
events with Google Meet, working with Jira issues, arithmetic and Wikipedia
summaries.

It can run as:
  - An MCP (Model Context Protocol) server (deskhand serve)
  - A CLI invoking one tool at a time (deskhand call)`,
		Version:      version,
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "deskhand version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Additional .env file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newCallCmd(opts))
	rootCmd.AddCommand(newToolsCmd(opts))
	rootCmd.AddCommand(newAuthCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))
	rootCmd.AddCommand(newGenerateDocsCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// Execute is the main entry point for the CLI application
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration selected by the root flags.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.LoadWithEnvFile(o.configPath, o.envFile)
}

// newServerContext builds the shared tool dependencies for cmd. Logs and
// interactive prompts go to stderr so stdout stays reserved for results and
// the stdio transport.
func (o *rootOptions) newServerContext(cmd *cobra.Command) (*server.ServerContext, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	instCfg, err := instrumentation.DefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to read instrumentation configuration: %w", err)
	}

	sc, err := server.NewServerContext(cmd.Context(), server.Options{
		Config:          cfg,
		Logger:          logging.New(cmd.ErrOrStderr(), o.debug),
		Prompt:          cmd.ErrOrStderr(),
		Instrumentation: &instCfg,
		Version:         version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}
	return sc, nil
}
