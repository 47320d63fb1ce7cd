package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/app/services"
)

var userFlags services.RegisterInput

// catalog user:create
var userCreateCmd = &cobra.Command{
	Use:   "user:create",
	Short: "Create an operator account",
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer k.close(cmd.Context())

		u, err := k.users.Register(cmd.Context(), userFlags)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created user %s (%s)\n", u.Username, u.ID)
		return nil
	},
}

// catalog user:show <username>
var userShowCmd = &cobra.Command{
	Use:   "user:show <username>",
	Short: "Show an operator account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		k, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer k.close(cmd.Context())

		u, err := k.users.Find(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "id:       %s\nusername: %s\n", u.ID, u.Username)
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userFlags.Username, "username", "", "letters, digits, dashes and underscores (3-50)")
	f.StringVar(&userFlags.Password, "password", "", "at least 8 characters")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")
}
