// Package main provides the entry point for the skill tree advisor CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configFile  string
	databaseURL string
	sqlitePath  string
	logJSON     bool
	logDebug    bool
)

var rootCmd = &cobra.Command{
	Use:   "skilltree",
	Short: "Skill Tree Advisor",
	Long:  "Skill Tree Advisor ranks career paths for students from their quiz talents and interests, and serves the rankings over a REST API.",

	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "Path to a YAML config file")
	flags.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (overrides SQLite)")
	flags.StringVar(&sqlitePath, "sqlite-path", "", "SQLite database file used when no database URL is set")
	flags.BoolVar(&logJSON, "json", false, "Emit JSON logs")
	flags.BoolVar(&logDebug, "debug", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
