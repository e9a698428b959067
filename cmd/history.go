package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/deskhand/internal/history"
	"github.com/teemow/deskhand/internal/server"
)

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and edit the chat history",
		Long: `Inspect and edit the persisted chat history.

The history lives in the file given by --path, CHAT_HISTORY_PATH or the config
file (default: chat_history.json). Paths ending in .db, .sqlite or .sqlite3
use a SQLite database instead of a JSON file.`,
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "History file (overrides the configured path)")

	var asJSON bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, opts, path, func(ctx context.Context, store history.Store) error {
				return printHistory(cmd.OutOrStdout(), store.Load(ctx), asJSON)
			})
		},
	}
	show.Flags().BoolVar(&asJSON, "json", false, "Print the records as JSON")

	appendCmd := &cobra.Command{
		Use:   "append <role> <content>",
		Short: "Append a record to the chat history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := strings.TrimSpace(args[0])
			if role == "" {
				return fmt.Errorf("role is required")
			}
			return withHistory(cmd, opts, path, func(ctx context.Context, store history.Store) error {
				all, err := history.Append(ctx, store, history.Record{Role: role, Content: args[1]})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "History has %d records.\n", len(all))
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all records from the chat history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd, opts, path, func(ctx context.Context, store history.Store) error {
				if err := store.Save(ctx, nil); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			})
		},
	}

	cmd.AddCommand(show, appendCmd, clearCmd)
	return cmd
}

func withHistory(cmd *cobra.Command, opts *rootOptions, path string, fn func(ctx context.Context, store history.Store) error) error {
	sc, err := opts.newServerContext(cmd)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		_ = sc.Shutdown(ctx)
	}()

	store, err := sc.OpenHistory(path)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(sc.Context(), store)
}

func printHistory(w io.Writer, records []history.Record, asJSON bool) error {
	if asJSON {
		if records == nil {
			records = []history.Record{}
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "History is empty.")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(w, "%s: %s\n", r.Role, r.Content)
	}
	return nil
}
