// Package cli implements the backdrop command line client.
package cli

import (
	"fmt"
	"time"

	"backdrop-api/internal/client"
	"backdrop-api/internal/config"

	"github.com/spf13/cobra"
)

var (
	backendURL string
	timeout    time.Duration
	api        *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "backdrop",
	Short: "Client for the BackdropAI background removal service",
	Long: `backdrop talks to a running BackdropAI backend.

Example usage:
  backdrop health                          # Check the backend is up
  backdrop methods                         # List removal methods
  backdrop remove photo.jpg                # Remove the background, write photo_nobg.png
  backdrop remove photo.jpg -m simple -o out.png`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient(cmd)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "backend URL (default $BACKEND_URL or http://localhost:5002)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (default $BACKEND_TIMEOUT or 120s)")
}

func initClient(cmd *cobra.Command) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("backend") {
		cfg.BackendURL = backendURL
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = timeout
	}

	api = client.New(cfg.BackendURL, cfg.Timeout)
	return nil
}
