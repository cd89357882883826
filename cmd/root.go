// Package cmd provides the webdbassistant command-line interface: the HTTP server, an
// interactive chat REPL and one-shot schema, statement and listing commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/WebDbAssistant/internal/config"
	"github.com/JonMunkholm/WebDbAssistant/internal/db"
	"github.com/JonMunkholm/WebDbAssistant/internal/observability"
)

var (
	envFile string

	flagDriver   string
	flagHost     string
	flagPort     int
	flagUser     string
	flagPassword string
	flagDatabase string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "webdbassistant",
	Short: "Ask questions about a SQL database in natural language",
	Long: `webdbassistant turns natural-language requests into SQL through a hosted
chat-completion model, optionally runs the generated statements against a MySQL or
PostgreSQL database, and renders the results as markdown.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the CLI and exits with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, observability.Mask(err.Error()))
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&envFile, "env-file", ".env", "Path of the .env file to load")
	flags.StringVar(&flagDriver, "driver", "", "Database driver (mysql, postgres)")
	flags.StringVar(&flagHost, "host", "", "Database host")
	flags.IntVar(&flagPort, "port", 0, "Database port")
	flags.StringVar(&flagUser, "user", "", "Database user")
	flags.StringVar(&flagPassword, "password", "", "Database password")
	flags.StringVar(&flagDatabase, "database", "", "Database name")
}

// loadConfig reads .env and the environment, then applies connection flags that were
// set explicitly.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	loaded, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		driver, err := db.ParseDriver(flagDriver)
		if err != nil {
			return err
		}
		loaded.Database.Driver = driver
	}
	if flags.Changed("host") {
		loaded.Database.Host = flagHost
	}
	if flags.Changed("port") {
		loaded.Database.Port = flagPort
	}
	if flags.Changed("user") {
		loaded.Database.User = flagUser
	}
	if flags.Changed("password") {
		loaded.Database.Password = flagPassword
	}
	if flags.Changed("database") {
		loaded.Database.Database = flagDatabase
	}

	cfg = loaded
	logger = observability.NewLogger(cfg, os.Stderr)
	return nil
}
