package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amanf244/mars4/internal/cli/commands"
	"github.com/amanf244/mars4/internal/logger"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "mars4",
	Short: "Mars4 - Repair-shop management from the terminal",
	Long: `Mars4 CLI - Manage the repair-shop backend: catalog, gallery,
staff accounts and point-of-sale, with a persistent login session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logLevel := os.Getenv("MARS4_LOG_LEVEL")
		if logLevel == "" {
			logLevel = "warn"
		}
		// Logs go to stderr so command output stays pipeable
		logger.InitWriter(logLevel, "console", os.Stderr)
	},
}

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mars4 version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewProductsCmd())
	rootCmd.AddCommand(commands.NewGalleryCmd())
	rootCmd.AddCommand(commands.NewUsersCmd())
	rootCmd.AddCommand(commands.NewSellCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
