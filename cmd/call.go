package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/deskhand/internal/server"
	"github.com/teemow/deskhand/internal/tools/common"
)

// stdinInput is the call argument that reads the tool input from stdin.
const stdinInput = "-"

func newCallCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <tool> [input|-]",
		Short: "Invoke one tool and print its result",
		Long: `Invoke a single tool with a string input and print the string it returns.
Pass "-" as the input to read it from stdin. Failures are printed like any
other result and make the command exit with a non-zero status.

Examples:
  deskhand call add_numbers "3 5"
  deskhand call wikipedia_search "Go (programming language)"
  echo "To: bob@example.com | Subject: Hi | Body: Hello" | deskhand call send_email -`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 2 {
				input = args[1]
			}
			if input == stdinInput {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read input from stdin: %w", err)
				}
				input = strings.TrimRight(string(data), "\r\n")
			}
			return withRegistry(cmd, opts, func(ctx context.Context, registry *common.Registry) error {
				return runTool(ctx, cmd.OutOrStdout(), registry, args[0], input)
			})
		},
	}
	return cmd
}

func newToolsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRegistry(cmd, opts, func(_ context.Context, registry *common.Registry) error {
				return printTools(cmd.OutOrStdout(), registry.Tools())
			})
		},
	}
}

// withRegistry builds the server context and tool registry for one command
// and shuts the context down afterwards.
func withRegistry(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, registry *common.Registry) error) error {
	sc, err := opts.newServerContext(cmd)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := sc.Shutdown(ctx); err != nil {
			sc.Logger().Warn("error during server context shutdown", "error", err)
		}
	}()

	registry, err := buildRegistry(sc)
	if err != nil {
		return err
	}
	return fn(sc.Context(), registry)
}

// runTool prints the rendered result of the named tool. A failed result is
// printed too and reported as an error so the process exits non-zero.
func runTool(ctx context.Context, w io.Writer, registry *common.Registry, name, input string) error {
	res, err := registry.Run(ctx, name, input)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, res.String())
	if res.Failed() {
		return fmt.Errorf("tool %s failed (%s)", name, res.Kind())
	}
	return nil
}

func printTools(w io.Writer, tools []common.StringTool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION")
	for _, t := range tools {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, firstLine(t.Description))
	}
	return tw.Flush()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
