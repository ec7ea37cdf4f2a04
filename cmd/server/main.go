// Package main provides the converge command: the HTTP server plus
// migration and development token tooling.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/festy23/converge/internal/config"
	"github.com/festy23/converge/pkg/logger"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "converge",
	Short: "Converge team coordination service",
	Long: `converge runs the project team coordination API and its maintenance tasks.

All settings are read from the environment (DB_*, JWT_*, REDIS_*, SERVER_*, LOG_*).`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}

// newLogger builds the process logger from LOG_* variables.
func newLogger() (*zap.SugaredLogger, error) {
	return logger.NewWithConfig(config.LoadLoggerConfigFromEnv())
}
