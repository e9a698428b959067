package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/teemow/deskhand/internal/tools/common"
)

// authTools maps auth subcommands to the tool they run.
var authTools = map[string]string{
	"google": "authenticate_google",
	"jira":   "authenticate_jira",
}

func newAuthCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google or Jira",
		Long: `Check credentials for an external service.

auth google loads the cached Google token, refreshing it or running the
browser consent flow when needed, and stores the result.
auth jira verifies the configured Jira URL, user and API token.`,
	}

	cmd.AddCommand(newAuthServiceCmd(opts, "google", "Authorize deskhand to use Gmail and Calendar"))
	cmd.AddCommand(newAuthServiceCmd(opts, "jira", "Verify the Jira credentials"))
	return cmd
}

func newAuthServiceCmd(opts *rootOptions, service, short string) *cobra.Command {
	return &cobra.Command{
		Use:   service,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(cmd, opts, func(ctx context.Context, registry *common.Registry) error {
				return runTool(ctx, cmd.OutOrStdout(), registry, authTools[service], "")
			})
		},
	}
}
