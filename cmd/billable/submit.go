package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit [confirmed-id...]",
	Short: "Push confirmed entries to the practice-management system",
	Long: `Submit confirmed entries downstream. With no arguments, every
confirmed entry for the given date (default: all dates) is submitted.
Requires sink credentials in the configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		date, _ := cmd.Flags().GetString("date")
		ctx := context.Background()

		ids := args
		if len(ids) == 0 {
			entries, err := pipeline.Confirmed(ctx, date)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			for _, e := range entries {
				ids = append(ids, e.ID)
			}
		}
		if len(ids) == 0 {
			fmt.Println("Nothing to submit.")
			return
		}

		failed := 0
		for _, id := range ids {
			if err := pipeline.Submit(ctx, id); err != nil {
				fmt.Fprintf(os.Stderr, "Error submitting %s: %v\n", id, err)
				failed++
				continue
			}
			fmt.Printf("Submitted %s\n", id)
		}
		if failed > 0 {
			fmt.Fprintf(os.Stderr, "%d of %d submissions failed\n", failed, len(ids))
			os.Exit(1)
		}
	},
}

func init() {
	submitCmd.Flags().String("date", "", "submit all confirmed entries for one date (YYYY-MM-DD)")
	rootCmd.AddCommand(submitCmd)
}
