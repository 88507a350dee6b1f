package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password string
	var rememberMe bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the repair-shop backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, email, password, rememberMe)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set MARS4_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MARS4_PASSWORD, will prompt if not provided)")
	cmd.Flags().BoolVar(&rememberMe, "remember", false, "Keep the session for 30 days instead of 24 hours")

	return cmd
}

func runLogin(cmd *cobra.Command, email, password string, rememberMe bool) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("MARS4_EMAIL")
	}
	if password == "" {
		password = os.Getenv("MARS4_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or MARS4_EMAIL env var)")
	}

	app, err := newAppContext()
	if err != nil {
		return err
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println()
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or MARS4_PASSWORD env var)")
		}
	}

	fmt.Printf("Logging in to %s...\n", app.cfg.ServerURL)

	user, err := app.sessions.Login(cmd.Context(), email, password, rememberMe)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", user.Name, user.Email)
	fmt.Printf("  Role: %s\n", user.Role)
	if rememberMe {
		fmt.Println("  Session remembered for 30 days")
	}

	return nil
}
