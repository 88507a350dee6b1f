package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}

			if err := app.requireAuth(cmd.Context()); err != nil {
				return err
			}

			user := app.sessions.User()
			fmt.Printf("User:  %s\n", user.Name)
			fmt.Printf("Email: %s\n", user.Email)
			fmt.Printf("Role:  %s\n", user.Role)
			return nil
		},
	}
}
