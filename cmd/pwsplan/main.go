// Package main implements pwsplan, the offline companion to the advisor
// service: it renders planning documents from a YAML profile, prints advisory
// recommendations and ranks capital assets.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/pws-advisor-service/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:          "pwsplan",
	Short:        "Public water system planning documents and advisories",
	Long:         "pwsplan renders capital, communication, energy and TMF documents from a YAML planning profile, evaluates SCADA readings and ranks capital assets.",
	SilenceUsage: true,
}

var logLevel string

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
}

func newLogger() *slog.Logger {
	return observability.NewLogger(logLevel, "text")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
