package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "siphon",
	Short: "Siphon - A-share momentum and resilience screener",
	Long: `Siphon Unified CLI

Daily A-share screening pipeline: full-market snapshot, factor scoring,
top-N selection, position tracking, and the exit shield.

Usage:
  go run ./cmd/siphon [command]

Examples:
  go run ./cmd/siphon scan
  go run ./cmd/siphon track
  go run ./cmd/siphon serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
