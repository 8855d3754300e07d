package cli

import (
	"fmt"
	"os"

	"github.com/digifood/restaurant-backend/config"
	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:   "digifood",
	Short: "DigiFood restaurant reservation backend",
	Long: `DigiFood serves the guest ordering API: menu, cart, reservations with
deposit, cancellations and the admin dashboard.

Run "digifood serve" to start the HTTP server, or use the maintenance
commands to migrate the schema, seed the house menu and inspect today's
portion availability.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory containing config.yaml")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
