package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUsersCmd(g *globalFlags) *cobra.Command {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	var name, email string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register a user and print the session id",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.client(false)
			if err != nil {
				return err
			}
			session, err := c.Register(cmd.Context(), name, email)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", session)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "export DAILY_DIET_SESSION=%s\n", session)
			return nil
		},
	}
	registerCmd.Flags().StringVarP(&name, "name", "n", "", "Full name (required)")
	registerCmd.Flags().StringVarP(&email, "email", "e", "", "Email (required)")
	_ = registerCmd.MarkFlagRequired("name")
	_ = registerCmd.MarkFlagRequired("email")
	usersCmd.AddCommand(registerCmd)

	return usersCmd
}
