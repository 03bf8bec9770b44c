package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and schema",
	Long: `Create the SQLite database and its schema. Opening the database
applies the schema automatically, so this only needs to run once, and
running it again is harmless.`,
	Run: func(cmd *cobra.Command, args []string) {
		// PersistentPreRunE already opened (and so created) the database.
		fmt.Printf("Database ready at %s\n", cfg.DBPath)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all draft entries",
	Long: `Delete every draft entry. Confirmed entries and the raw activity
log are untouched; the next 'billable process' rebuilds drafts from the
raw log, losing any unconfirmed notes and status changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprintln(os.Stderr, "Error: pass --yes to confirm deleting all draft entries")
			os.Exit(1)
		}
		if err := pipeline.ClearDrafts(cmd.Context()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Cleared all draft entries")
	},
}

func init() {
	clearCmd.Flags().Bool("yes", false, "confirm the deletion")
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(clearCmd)
}
