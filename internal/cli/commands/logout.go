package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session and forget stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}

			// Restore first so a stored token can be revoked server-side
			_ = app.sessions.Restore(cmd.Context())
			app.sessions.Logout(cmd.Context())

			fmt.Println("✓ Logged out")
			return nil
		},
	}
}
