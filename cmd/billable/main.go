package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkeller/billable/internal/config"
	"github.com/mkeller/billable/internal/service"
	"github.com/mkeller/billable/internal/sink"
	"github.com/mkeller/billable/internal/source"
	"github.com/mkeller/billable/internal/storage"
)

// Shared command state, populated by rootCmd's PersistentPreRunE.
var (
	cfg      *config.Config
	store    storage.Storage
	pipeline *service.Pipeline
	dbPath   string
)

var rootCmd = &cobra.Command{
	Use:   "billable",
	Short: "Turn raw activity tracking into reviewable billing entries",
	Long: `billable fetches raw activity-tracking data, cleans and aggregates it
into draft billing entries, and manages their review lifecycle through to
confirmed, submittable time entries.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}

		store, err = storage.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database at %s: %w", cfg.DBPath, err)
		}

		var src source.Client
		if cfg.Source.APIKey != "" {
			opts := []source.Option{}
			if cfg.Source.BaseURL != "" {
				opts = append(opts, source.WithBaseURL(cfg.Source.BaseURL))
			}
			src, err = source.NewHTTPClient(cfg.Source.APIKey, opts...)
			if err != nil {
				return err
			}
		}

		var snk sink.Client
		if cfg.Sink.BaseURL != "" && cfg.Sink.Token != "" {
			snk, err = sink.NewHTTPClient(cfg.Sink.BaseURL, cfg.Sink.Token)
			if err != nil {
				return err
			}
		}

		pipeline = service.New(store, src, snk, cfg.NoiseFilter())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the SQLite database (overrides config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
