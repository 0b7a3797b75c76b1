package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurorax-space/go-aurorax/internal/queryfile"
	"github.com/aurorax-space/go-aurorax/internal/render"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect searches submitted from this machine",
	Long: `History lists the searches this CLI has submitted, with their request
IDs and last known outcome. Entries stay useful after the remote request
expires: the stored query can still be inspected or resubmitted.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded searches, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := store.List(context.Background(), limit)
		if err != nil {
			return err
		}
		render.History(os.Stdout, entries)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [request_id]",
	Short: "Show one recorded search, including its query",
	Long: `Show prints the stored entry for a request ID as JSON. The ID may be
shortened to any unambiguous prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.Get(context.Background(), args[0])
		if err != nil {
			return err
		}
		indent, minify := jsonFlags(cmd)
		return queryfile.WriteJSON(os.Stdout, historyView(entry), indent, minify)
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		keep, _ := cmd.Flags().GetInt("keep")
		removed, err := store.Prune(context.Background(), keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Removed %d entries, kept the newest %d\n", removed, keep)
		return nil
	},
}

func init() {
	historyListCmd.Flags().Int("limit", 25, "show at most this many entries, 0 for all")
	historyShowCmd.Flags().Int("indent", 2, "JSON indentation width")
	historyShowCmd.Flags().Bool("minify", false, "output minified JSON")
	historyPruneCmd.Flags().Int("keep", 100, "number of newest entries to keep")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}
