package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var listLimit int

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print publishable articles, newest first, as JSON lines",
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

		limit := cfg.Pipeline.ListLimit
		if cmd.Flags().Changed("limit") {
			limit = listLimit
		}
		articles, err := store.ListPublishable(cmd.Context(), limit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		for i := range articles {
			if err := enc.Encode(&articles[i]); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 500, "maximum number of articles")
}
