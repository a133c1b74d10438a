package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/clinic-client/internal/model"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print a token for CLINIC_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", s.Email)
			if !s.ExpiresAt.IsZero() {
				fmt.Fprintf(cmd.OutOrStdout(), "token expires %s\n", s.ExpiresAt.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "export CLINIC_TOKEN=%s\n", s.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	req := &model.RegisterRequest{}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log straight in",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.api.Register(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", s.Email)
			fmt.Fprintf(cmd.OutOrStdout(), "export CLINIC_TOKEN=%s\n", s.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}
