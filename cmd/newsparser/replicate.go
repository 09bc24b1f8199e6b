package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mccia-news/pkg/config"
	"mccia-news/pkg/replication"
)

var (
	replicateFrom    string
	replicateTo      string
	replicateWorkers int
)

var replicateCmd = &cobra.Command{
	Use:   "replicate",
	Short: "Copy every article from one backend into another",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logCloser, err := loadConfig(false)
		if err != nil {
			return err
		}
		defer logCloser.Close()

		from, to := config.Backend(replicateFrom), config.Backend(replicateTo)
		if from == to {
			return fmt.Errorf("source and target backend are both %q", from)
		}
		for _, b := range []config.Backend{from, to} {
			check := cfg
			check.Backend = b
			if err := check.Validate(); err != nil {
				return err
			}
		}

		source, releaseSource, err := openStore(cmd.Context(), cfg, from)
		if err != nil {
			return err
		}
		defer releaseSource()
		target, releaseTarget, err := openStore(cmd.Context(), cfg, to)
		if err != nil {
			return err
		}
		defer releaseTarget()

		r, err := replication.NewReplicator(replication.Config{
			Source:  source,
			Target:  target,
			Workers: replicateWorkers,
		})
		if err != nil {
			return err
		}
		res, err := r.Replicate(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "processed %d articles, inserted %d\n", res.Processed, res.Inserted)
		return nil
	},
}

func init() {
	replicateCmd.Flags().StringVar(&replicateFrom, "from", string(config.BackendMongo), "source backend (supabase, postgres, sqlite, mongo)")
	replicateCmd.Flags().StringVar(&replicateTo, "to", string(config.BackendSupabase), "target backend")
	replicateCmd.Flags().IntVar(&replicateWorkers, "workers", 5, "parallel insert batches")
}
