package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/gachastat/internal/domain/model"
	"github.com/spf13/cobra"
)

func newLoginCmd(c *cli) *cobra.Command {
	var (
		cred model.Credential
		save bool
	)
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check a phone/password pair against the remote and save it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cred.Phone == "" || cred.Password == "" {
				return errors.New("--phone and --password are required")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			svc, err := c.newService(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = svc.Close() }()

			if err := svc.Login(ctx, cred); err != nil {
				return err
			}
			if save {
				if err := svc.SaveCredentials(ctx, cred); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return err
		},
	}
	cmd.Flags().StringVar(&cred.Phone, "phone", "", "Account phone number")
	cmd.Flags().StringVar(&cred.Password, "password", "", "Account password")
	cmd.Flags().BoolVar(&save, "save", true, "Save the credential for sync and serve")
	return cmd
}
