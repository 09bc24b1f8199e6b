package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mccia-news/pkg/retention"
)

var purgeDays int

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete articles older than the retention window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logCloser, err := loadConfig(true)
		if err != nil {
			return err
		}
		defer logCloser.Close()

		store, release, err := openStore(cmd.Context(), cfg, cfg.Backend)
		if err != nil {
			return err
		}
		defer release()

		days := cfg.Pipeline.RetentionDays
		if cmd.Flags().Changed("days") {
			days = purgeDays
		}
		removed, err := retention.NewManager(store).PurgeOlderThan(cmd.Context(), days)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %d articles older than %d days\n", removed, days)
		return nil
	},
}

func init() {
	purgeCmd.Flags().IntVar(&purgeDays, "days", retention.DefaultDays, "retention window in days")
}
