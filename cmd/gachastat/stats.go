package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newStatsCmd(c *cli) *cobra.Command {
	var pool string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print statistics over the stored history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			svc, err := c.newService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			var filter *string
			if cmd.Flags().Changed("pool") {
				filter = &pool
			}
			s, err := svc.StoredStatistics(ctx, filter)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().StringVar(&pool, "pool", "", "Restrict statistics to one pool")
	return cmd
}
