package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkeller/billable/internal/types"
)

var confirmCmd = &cobra.Command{
	Use:   "confirm <fingerprint>",
	Short: "Confirm a draft, snapshotting it as a submittable entry",
	Long: `Confirm a draft entry. Confirmation snapshots the draft's current
values (plus any edits given here) into an immutable confirmed entry and
marks the draft submitted. Later reprocessing can never change what was
confirmed.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		edits := &types.EntryEdits{}
		if cmd.Flags().Changed("task") {
			v, _ := cmd.Flags().GetString("task")
			edits.Task = &v
		}
		if cmd.Flags().Changed("units") {
			v, _ := cmd.Flags().GetFloat64("units")
			edits.Units = &v
		}
		if cmd.Flags().Changed("matter") {
			v, _ := cmd.Flags().GetString("matter")
			edits.MatterCode = &v
		}
		if cmd.Flags().Changed("notes") {
			v, _ := cmd.Flags().GetString("notes")
			edits.Notes = &v
		}

		entry, err := pipeline.Confirm(context.Background(), args[0], edits)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Confirmed %s as entry %s (%.1f units", entry.Date, entry.ID, entry.Units)
		if entry.MatterCode != "" {
			fmt.Printf(", matter %s", entry.MatterCode)
		}
		fmt.Println(")")
	},
}

var ignoreCmd = &cobra.Command{
	Use:   "ignore <fingerprint>",
	Short: "Mark a draft as not billable",
	Long: `Mark a draft entry as not billable. Ignored entries stay in the
database so reprocessing does not resurrect them, but they are excluded
from unit totals and cannot be reopened.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := pipeline.Ignore(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Ignored draft %s\n", args[0])
	},
}

var startCmd = &cobra.Command{
	Use:   "start <fingerprint>",
	Short: "Mark a draft as being reviewed",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := pipeline.Start(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Draft %s is now in progress\n", args[0])
	},
}

var revertCmd = &cobra.Command{
	Use:   "revert <confirmed-id>",
	Short: "Undo a confirmation, returning the draft to pending",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := pipeline.Revert(context.Background(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Reverted confirmed entry %s\n", args[0])
	},
}

func init() {
	confirmCmd.Flags().String("task", "", "override the task description")
	confirmCmd.Flags().Float64("units", 0, "override the billed units (multiple of 0.1)")
	confirmCmd.Flags().String("matter", "", "override the matter code")
	confirmCmd.Flags().String("notes", "", "override the notes")
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(ignoreCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(revertCmd)
}
