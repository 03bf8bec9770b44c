package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkeller/billable/internal/report"
	"github.com/mkeller/billable/internal/types"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show draft entries for review",
	Run: func(cmd *cobra.Command, args []string) {
		date, _ := cmd.Flags().GetString("date")
		status, _ := cmd.Flags().GetString("status")
		export, _ := cmd.Flags().GetBool("export")

		filter := types.DraftFilter{Date: date}
		if status != "" {
			s := types.Status(status)
			if !s.IsValid() {
				fmt.Fprintf(os.Stderr, "Error: unknown status %q\n", status)
				os.Exit(1)
			}
			filter.Status = &s
		}

		ctx := context.Background()
		drafts, err := pipeline.Drafts(ctx, filter)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		report.WriteTable(os.Stdout, drafts)

		if export {
			name := "report.csv"
			if date != "" {
				name = fmt.Sprintf("report-%s.csv", date)
			}
			if err := report.ExportCSV(name, drafts); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Exported %d entries to %s\n", len(drafts), name)
		}
	},
}

func init() {
	reportCmd.Flags().String("date", "", "limit to one date (YYYY-MM-DD)")
	reportCmd.Flags().String("status", "", "limit to one status (pending, in_progress, submitted, ignored)")
	reportCmd.Flags().Bool("export", false, "also write the entries to a CSV file")
	rootCmd.AddCommand(reportCmd)
}
