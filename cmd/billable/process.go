package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mkeller/billable/internal/report"
	"github.com/mkeller/billable/internal/types"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Clean, aggregate and reconcile a date's raw activity into drafts",
	Long: `Re-derive draft entries from a date's stored raw activity (default:
yesterday, the most recent complete day).

Processing is idempotent: totals and units are refreshed from the raw
log, while reviewer-owned fields (status, notes, matter code) on existing
drafts are left untouched. With --debug nothing is written; the cleaning
decision for every raw row is printed instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		date, _ := cmd.Flags().GetString("date")
		debug, _ := cmd.Flags().GetBool("debug")
		if date == "" {
			date = time.Now().AddDate(0, 0, -1).Format(types.DateFormat)
		}

		ctx := context.Background()

		if debug {
			printAnalysis(ctx, date)
			return
		}

		drafts, err := pipeline.Process(ctx, date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		analysis, err := pipeline.Analyze(ctx, date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		report.WriteSummary(os.Stdout, analysis.TotalRows, analysis.KeptGroups,
			analysis.DroppedRows, analysis.TotalSeconds, analysis.DroppedSeconds)

		report.WriteTable(os.Stdout, drafts)
	},
}

func printAnalysis(ctx context.Context, date string) {
	analysis, err := pipeline.Analyze(ctx, date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	green := color.New(color.FgGreen).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	for _, row := range analysis.Rows {
		mark := green("keep")
		if !row.Kept {
			mark = gray("drop")
		}
		fmt.Printf("%s %5ds  %s | %s", mark, row.Seconds, row.Application, row.Title)
		if row.Task != row.Title {
			fmt.Printf("  →  %s", row.Task)
		}
		fmt.Println()
	}

	fmt.Println()
	report.WriteSummary(os.Stdout, analysis.TotalRows, analysis.KeptGroups,
		analysis.DroppedRows, analysis.TotalSeconds, analysis.DroppedSeconds)
}

func init() {
	processCmd.Flags().String("date", "", "date to process (YYYY-MM-DD, default yesterday)")
	processCmd.Flags().Bool("debug", false, "print per-row cleaning decisions without writing drafts")
	rootCmd.AddCommand(processCmd)
}
