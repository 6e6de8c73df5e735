package cli

import (
	"fmt"
	"log"

	"dirscan/internal/config"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "dirscan",
	Short: "dirscan - list the children of a directory by size",
	Long: `dirscan reports the immediate children of a directory ordered from largest
to smallest. Sub-directories are sized by the sum of every file below them.

Examples:
  # Ask for paths interactively
  dirscan

  # Scan once
  dirscan scan /var/log

  # Serve the HTTP and WebSocket API
  dirscan serve --config ./dirscan.yaml
  dirscan token --subject ops`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunPrompt(cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: dirscan.yaml in ., $HOME/.config/dirscan or /etc/dirscan)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if configFile != "" {
		log.Printf("[CONFIG] Loaded %s", configFile)
	}
	return cfg, nil
}
