package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkeller/billable/internal/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch raw activity data from the tracking service",
	Long: `Fetch raw activity records and store them in the local log.

Each fetched date replaces that date's previously stored rows, so
re-fetching always reflects the tracking service's latest totals.
Backfill fetches (--date, --days) do not touch draft entries; run
'billable process' after. A current-day fetch (--current) goes through
the refresh interval guard, reprocesses today's drafts and records the
refresh time; --force bypasses the guard.`,
	Run: func(cmd *cobra.Command, args []string) {
		date, _ := cmd.Flags().GetString("date")
		days, _ := cmd.Flags().GetInt("days")
		current, _ := cmd.Flags().GetBool("current")
		force, _ := cmd.Flags().GetBool("force")

		ctx := context.Background()
		now := time.Now()

		if current {
			ran, reason, err := pipeline.AutoRefresh(ctx, now, cfg.RefreshInterval, force)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if ran {
				fmt.Printf("Refreshed today's entries (%s)\n", reason)
			} else {
				fmt.Printf("Skipped: %s\n", reason)
			}
			return
		}

		var from, to string
		if date != "" {
			from, to = date, date
		} else {
			to = now.Format(types.DateFormat)
			from = now.AddDate(0, 0, -(days - 1)).Format(types.DateFormat)
		}

		n, err := pipeline.IngestRange(ctx, from, to)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if from == to {
			fmt.Printf("Fetched %d rows for %s\n", n, from)
		} else {
			fmt.Printf("Fetched %d rows for %s through %s\n", n, from, to)
		}
	},
}

func init() {
	fetchCmd.Flags().String("date", "", "fetch a single date (YYYY-MM-DD)")
	fetchCmd.Flags().Int("days", 1, "fetch the last N days ending today")
	fetchCmd.Flags().Bool("current", false, "guarded fetch and reprocess of today")
	fetchCmd.Flags().Bool("force", false, "with --current, bypass the interval guard")
	rootCmd.AddCommand(fetchCmd)
}
