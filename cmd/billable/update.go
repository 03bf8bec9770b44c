package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkeller/billable/internal/types"
)

var updateCmd = &cobra.Command{
	Use:   "update <fingerprint>",
	Short: "Edit a draft entry's notes, matter code or status",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		notes, _ := cmd.Flags().GetString("notes")
		matterCode, _ := cmd.Flags().GetString("matter")
		status, _ := cmd.Flags().GetString("status")

		updates := map[string]interface{}{}
		if cmd.Flags().Changed("notes") {
			updates["notes"] = notes
		}
		if cmd.Flags().Changed("matter") {
			updates["matter_code"] = matterCode
		}
		if cmd.Flags().Changed("status") {
			s := types.Status(status)
			if !s.IsValid() {
				fmt.Fprintf(os.Stderr, "Error: unknown status %q\n", status)
				os.Exit(1)
			}
			updates["status"] = s
		}
		if len(updates) == 0 {
			fmt.Fprintln(os.Stderr, "Error: nothing to update; pass --notes, --matter or --status")
			os.Exit(1)
		}

		if err := pipeline.UpdateDraft(context.Background(), args[0], updates); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated draft %s\n", args[0])
	},
}

func init() {
	updateCmd.Flags().String("notes", "", "reviewer notes")
	updateCmd.Flags().String("matter", "", "five-digit matter code")
	updateCmd.Flags().String("status", "", "new status")
	rootCmd.AddCommand(updateCmd)
}
