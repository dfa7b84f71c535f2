package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newSyncCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Log in with the saved credential and download the full history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			svc, err := c.newService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			if err := svc.LoginWithSaved(ctx); err != nil {
				return err
			}
			if _, err := svc.FetchAndPersistAllHistory(ctx); err != nil {
				return err
			}
			st, err := svc.Stats(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), st.LastRun)
		},
	}
}
