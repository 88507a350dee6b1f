package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/amanf244/mars4/internal/api"
)

// NewUsersCmd creates the users command group (admin)
func NewUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage staff accounts (admin)",
	}

	cmd.AddCommand(newUsersListCmd())
	cmd.AddCommand(newUsersCreateCmd())
	cmd.AddCommand(newUsersToggleCmd())
	cmd.AddCommand(newUsersDeleteCmd())

	return cmd
}

func newUsersListCmd() *cobra.Command {
	var page int
	var search string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}

			resp, err := app.client.ListUsers(cmd.Context(), page, search)
			if err != nil {
				return err
			}

			if len(resp.Items) == 0 {
				fmt.Println("No users found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tACTIVE")
			for _, u := range resp.Items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.Name, u.Role, u.IsActive)
			}
			w.Flush()

			fmt.Printf("\nPage %d of %d (%d total)\n", resp.Page, resp.Pages, resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().StringVar(&search, "search", "", "Search by name or email")

	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	var req api.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if req.Email == "" || req.Name == "" || req.Password == "" {
				return fmt.Errorf("--email, --name and --password are required")
			}
			if req.Role != api.RoleAdmin && req.Role != api.RoleUser {
				return fmt.Errorf("role must be %q or %q", api.RoleAdmin, api.RoleUser)
			}

			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}

			user, err := app.client.CreateUser(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Created user %d: %s (%s)\n", user.ID, user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "Initial password")
	cmd.Flags().StringVar(&req.Role, "role", api.RoleUser, "Role: admin or user")

	return cmd
}

func newUsersToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Activate or deactivate an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID %q", args[0])
			}

			user, err := app.client.ToggleUserActive(cmd.Context(), id)
			if err != nil {
				return err
			}

			state := "deactivated"
			if user.IsActive {
				state = "activated"
			}
			fmt.Printf("✓ User %s (%s) %s\n", user.Name, user.Email, state)
			return nil
		},
	}
}

func newUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			if err := app.requireAdmin(cmd.Context()); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user ID %q", args[0])
			}

			if err := app.client.DeleteUser(cmd.Context(), id); err != nil {
				return err
			}

			fmt.Printf("✓ User %d deleted\n", id)
			return nil
		},
	}
}
