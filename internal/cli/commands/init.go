package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/amanf244/mars4/internal/cli/cliconfig"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a mars4.json configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(serverURL)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Backend server URL (default http://localhost:5084)")

	return cmd
}

func runInit(serverURL string) error {
	currentDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(currentDir, cliconfig.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("%s already exists", configPath)
	}

	cfg := cliconfig.DefaultConfig()
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}

	if err := cliconfig.Save(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Created %s\n", configPath)
	fmt.Printf("  Server: %s\n", cfg.ServerURL)
	fmt.Println("Run 'mars4 login' to authenticate.")
	return nil
}
