package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var mattersCmd = &cobra.Command{
	Use:   "matters",
	Short: "List matters, outcomes or components from the practice-management system",
	Run: func(cmd *cobra.Command, args []string) {
		outcomes, _ := cmd.Flags().GetBool("outcomes")
		components, _ := cmd.Flags().GetString("components")

		ctx := context.Background()
		bold := color.New(color.Bold).SprintFunc()

		switch {
		case outcomes:
			list, err := pipeline.Outcomes(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			for _, o := range list {
				fmt.Printf("%s  %s\n", bold(o.ID), o.Name)
			}
		case components != "":
			list, err := pipeline.Components(ctx, components)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			for _, c := range list {
				fmt.Printf("%s  %s\n", bold(c.ID), c.Name)
			}
		default:
			list, err := pipeline.Matters(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			for _, m := range list {
				fmt.Printf("%s  %-10s %s\n", bold(m.Code), m.Status, m.Name)
			}
		}
	},
}

func init() {
	mattersCmd.Flags().Bool("outcomes", false, "list billing outcome categories instead")
	mattersCmd.Flags().String("components", "", "list components for the given matter id instead")
	rootCmd.AddCommand(mattersCmd)
}
