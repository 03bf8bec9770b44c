package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var autoUpdateCmd = &cobra.Command{
	Use:   "auto-update",
	Short: "Refresh today's entries if the guard interval allows it",
	Long: `Fetch and reprocess today's activity, but only when enough time has
passed since the last current-day update. Suitable for cron: running it
every minute still only hits the tracking service at the configured
interval. A failed refresh is not recorded, so the next run retries.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")
		interval, _ := cmd.Flags().GetDuration("interval")
		if interval == 0 {
			interval = cfg.RefreshInterval
		}

		ran, reason, err := pipeline.AutoRefresh(context.Background(), time.Now(), interval, force)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if ran {
			fmt.Printf("Refreshed today's entries (%s)\n", reason)
		} else {
			fmt.Printf("Skipped: %s\n", reason)
		}
	},
}

func init() {
	autoUpdateCmd.Flags().Bool("force", false, "refresh even if the interval has not elapsed")
	autoUpdateCmd.Flags().Duration("interval", 0, "minimum time between refreshes (overrides config)")
	rootCmd.AddCommand(autoUpdateCmd)
}
