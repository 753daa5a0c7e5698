package main

import (
	"fmt"
	"time"

	"github.com/seoscan/seoscan/internal/config"
	"github.com/seoscan/seoscan/internal/database"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show past scan runs and per-URL outcomes",
		Long: `History lists scan runs recorded in the local database.

Without arguments it lists recent runs. With a URL argument it lists
every recorded outcome for that URL across runs. Use --list-urls to see
which URLs have history.

Examples:
  # List recent runs
  seoscan history

  # Show every recorded outcome for one URL
  seoscan history https://example.com

  # List all URLs with recorded history
  seoscan history --list-urls`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Bool("list-urls", false, "List all URLs with recorded history")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no scan history available: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	listURLs, err := cmd.Flags().GetBool("list-urls")
	if err != nil {
		return err
	}
	if listURLs {
		urls, err := db.ListURLs(ctx)
		if err != nil {
			return err
		}
		for _, u := range urls {
			fmt.Fprintln(out, u)
		}
		return nil
	}

	if len(args) == 1 {
		return printURLHistory(cmd, db, args[0])
	}

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		fmt.Fprintf(out, "run %d  %s  %d URLs (%d ok, %d failed)  -> %s\n",
			run.ID,
			run.Timestamp.Format(time.DateTime),
			run.Total, run.Succeeded, run.Failed,
			run.OutputDir,
		)
	}
	return nil
}

// printURLHistory lists every recorded outcome for one URL.
func printURLHistory(cmd *cobra.Command, db *database.HistoryDB, url string) error {
	outcomes, err := db.ListOutcomes(cmd.Context(), url)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(outcomes) == 0 {
		fmt.Fprintf(out, "No history for %s\n", url)
		return nil
	}

	for _, o := range outcomes {
		status := "-"
		if o.StatusCode != nil {
			status = fmt.Sprintf("%d", *o.StatusCode)
		}
		if o.Success {
			fmt.Fprintf(out, "run %d  OK      status=%s  %s\n", o.RunID, status, o.ReportPath)
		} else {
			fmt.Fprintf(out, "run %d  FAILED  %s\n", o.RunID, o.Error)
		}
	}
	return nil
}
